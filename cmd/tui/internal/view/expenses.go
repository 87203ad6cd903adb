package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/vivaahaverse/vivaah/internal/budget"
	"github.com/vivaahaverse/vivaah/internal/expense"
	"github.com/vivaahaverse/vivaah/internal/importer"
)

const importTimeout = 2 * time.Minute

type expensesState int

const (
	expensesStateLookup expensesState = iota
	expensesStateBrowse
	expensesStateFilePick
	expensesStateImporting
)

type ExpensesModel struct {
	CommonModel
	expenseService *expense.Service
	importService  *importer.Service
	budgetService  *budget.Service

	state      expensesState
	form       *huh.Form
	userInput  *string
	filePicker filepicker.Model
	table      table.Model

	userID   uuid.UUID
	expenses []*expense.Expense
	summary  *budget.Summary
	status   string
	err      error
}

func NewExpensesModel(expenseSvc *expense.Service, importSvc *importer.Service, budgetSvc *budget.Service) ExpensesModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	m := ExpensesModel{
		expenseService: expenseSvc,
		importService:  importSvc,
		budgetService:  budgetSvc,
		userInput:      new(string),
		filePicker:     fp,
		table: newTable([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Title", Width: 28},
			{Title: "Category", Width: 14},
			{Title: "Amount", Width: 14},
			{Title: "Description", Width: 30},
		}),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("User ID").Value(m.userInput).Validate(validateUUID),
		),
	).WithWidth(45).WithShowHelp(false)

	return m
}

func (m ExpensesModel) Title() string { return "Expenses & Budget" }

func (m ExpensesModel) ShortHelp() string {
	switch m.state {
	case expensesStateBrowse:
		return "Esc: back | i: import sheet | d: delete | r: refresh"
	case expensesStateFilePick:
		return "Enter: import file | Esc: cancel"
	}

	return "Enter: continue | Esc: back"
}

func (m ExpensesModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadExpensesMsg:
		m.err = msg.err
		if msg.err == nil {
			m.expenses = msg.expenses
			m.summary = msg.summary
			m.refreshTable()
		}

		return m, nil

	case expensesChangedMsg:
		m.state = expensesStateBrowse
		m.table.Focus()

		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = successStyle.Render(msg.status)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 14)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == expensesStateFilePick {
				m.state = expensesStateBrowse
				m.table.Focus()

				return m, nil
			}

			return m, Back
		}
	}

	switch m.state {
	case expensesStateLookup:
		return m.updateLookup(msg)
	case expensesStateBrowse:
		return m.updateBrowse(msg)
	case expensesStateFilePick:
		return m.updateFilePick(msg)
	}

	return m, nil
}

func (m ExpensesModel) updateLookup(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.userID = uuid.MustParse(strings.TrimSpace(*m.userInput))
	m.state = expensesStateBrowse

	return m, m.loadCmd()
}

func (m ExpensesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "r":
			return m, m.loadCmd()
		case "i":
			m.state = expensesStateFilePick
			m.status = ""
			m.table.Blur()

			return m, m.filePicker.Init()
		case "d":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ExpensesModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = expensesStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ExpensesModel) View() string {
	switch m.state {
	case expensesStateLookup:
		return lipgloss.NewStyle().Padding(1).Render("Expenses & budget\n\n" + m.form.View())
	case expensesStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render("Select a budget sheet to import:\n\n" + m.filePicker.View())
	case expensesStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(m.summaryLine()),
		boxed(m.table.View()),
	)

	if m.err != nil {
		content = errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" + content
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ExpensesModel) summaryLine() string {
	if m.summary == nil {
		return "Loading budget..."
	}

	s := m.summary
	remaining := activeStyle(FormatAmount(s.Remaining))

	if s.Remaining < 0 {
		remaining = errorStyle.Render(FormatAmount(s.Remaining))
	}

	return fmt.Sprintf("Budget %s | Expenses %s | Bookings %s | Remaining %s",
		activeStyle(FormatAmount(s.Limit)),
		FormatAmount(s.ExpensesTotal),
		FormatAmount(s.BookingsTotal),
		remaining,
	)
}

func (m *ExpensesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.expenses))

	for _, e := range m.expenses {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			e.Title,
			e.Category,
			FormatAmount(e.Amount),
			e.Description,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadExpensesMsg struct {
	expenses []*expense.Expense
	summary  *budget.Summary
	err      error
}

type expensesChangedMsg struct {
	status string
	err    error
}

func (m ExpensesModel) loadCmd() tea.Cmd {
	userID := m.userID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		expenses, err := m.expenseService.ListByUser(ctx, userID)
		if err != nil {
			return loadExpensesMsg{err: err}
		}

		summary, err := m.budgetService.Summary(ctx, userID)
		if err != nil {
			return loadExpensesMsg{err: err}
		}

		return loadExpensesMsg{expenses: expenses, summary: summary}
	}
}

func (m ExpensesModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return nil
	}

	e := m.expenses[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.expenseService.Delete(ctx, e.ID); err != nil {
			return expensesChangedMsg{err: err}
		}

		return expensesChangedMsg{status: fmt.Sprintf("Deleted %q.", e.Title)}
	}
}

func (m ExpensesModel) importCmd(path string) tea.Cmd {
	userID := m.userID

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return expensesChangedMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Import(importer.FormatSheet, f)
		if err != nil {
			return expensesChangedMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		imported, err := m.expenseService.Import(ctx, userID, params)
		if err != nil {
			return expensesChangedMsg{err: err}
		}

		return expensesChangedMsg{status: fmt.Sprintf("Imported %d expenses.", len(imported))}
	}
}

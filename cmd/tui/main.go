package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/vivaahaverse/vivaah/cmd/tui/internal/view"
	"github.com/vivaahaverse/vivaah/internal/booking"
	bookingStore "github.com/vivaahaverse/vivaah/internal/booking/store"
	"github.com/vivaahaverse/vivaah/internal/budget"
	"github.com/vivaahaverse/vivaah/internal/catalog"
	catalogStore "github.com/vivaahaverse/vivaah/internal/catalog/store"
	"github.com/vivaahaverse/vivaah/internal/config"
	"github.com/vivaahaverse/vivaah/internal/database"
	"github.com/vivaahaverse/vivaah/internal/expense"
	expenseStore "github.com/vivaahaverse/vivaah/internal/expense/store"
	"github.com/vivaahaverse/vivaah/internal/importer"
	"github.com/vivaahaverse/vivaah/internal/notify"
	"github.com/vivaahaverse/vivaah/internal/user"
	userStore "github.com/vivaahaverse/vivaah/internal/user/store"
)

type model struct {
	bookingService *booking.Service
	catalogService *catalog.Service
	expenseService *expense.Service
	importService  *importer.Service
	budgetService  *budget.Service

	currentView View

	bookingsView view.BookingsModel
	calendarView view.CalendarModel
	expensesView view.ExpensesModel
}

type View int

const (
	ViewMenu     View = 0
	ViewBookings View = 1
	ViewCalendar View = 2
	ViewExpenses View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	catalogSvc := catalog.NewService(catalogStore.New(db))
	bookingSvc := booking.NewService(bookingStore.New(db), notify.NewLogNotifier())
	expenseSvc := expense.NewService(expenseStore.New(db))
	userSvc := user.NewService(userStore.New(db), nil)
	budgetSvc := budget.NewService(userSvc, expenseSvc, bookingSvc)
	importSvc := importer.NewService()

	return model{
		bookingService: bookingSvc,
		catalogService: catalogSvc,
		expenseService: expenseSvc,
		importService:  importSvc,
		budgetService:  budgetSvc,
		currentView:    ViewMenu,
		bookingsView:   view.NewBookingsModel(bookingSvc, catalogSvc),
		calendarView:   view.NewCalendarModel(bookingSvc),
		expensesView:   view.NewExpensesModel(expenseSvc, importSvc, budgetSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewBookings
				m.bookingsView = view.NewBookingsModel(m.bookingService, m.catalogService)

				return m, m.bookingsView.Init()
			case "2":
				m.currentView = ViewCalendar
				m.calendarView = view.NewCalendarModel(m.bookingService)

				return m, m.calendarView.Init()
			case "3":
				m.currentView = ViewExpenses
				m.expensesView = view.NewExpensesModel(m.expenseService, m.importService, m.budgetService)

				return m, m.expensesView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewBookings:
		var newModel tea.Model
		newModel, cmd = m.bookingsView.Update(msg)
		m.bookingsView = newModel.(view.BookingsModel)
	case ViewCalendar:
		var newModel tea.Model
		newModel, cmd = m.calendarView.Update(msg)
		m.calendarView = newModel.(view.CalendarModel)
	case ViewExpenses:
		var newModel tea.Model
		newModel, cmd = m.expensesView.Update(msg)
		m.expensesView = newModel.(view.ExpensesModel)
	}

	return m, cmd
}

func (m model) View() string {
	var body, help string

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Vivaah Planner\n\n" +
				"1. Bookings\n" +
				"2. Availability Calendar\n" +
				"3. Expenses & Budget\n\n" +
				"q. Quit",
		)
	case ViewBookings:
		body, help = m.bookingsView.View(), m.bookingsView.ShortHelp()
	case ViewCalendar:
		body, help = m.calendarView.View(), m.calendarView.ShortHelp()
	case ViewExpenses:
		body, help = m.expensesView.View(), m.expensesView.ShortHelp()
	default:
		return "Unknown View"
	}

	return body + "\n" + lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(help)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/vivaahaverse/vivaah/internal/booking"
	"github.com/vivaahaverse/vivaah/internal/catalog"
)

type bookingsState int

const (
	bookingsStateLookup bookingsState = iota
	bookingsStateBrowse
	bookingsStateCancel
	bookingsStateCreate
)

// bookingFields backs the huh forms. It lives behind a pointer so the
// bindings survive the model being copied by value.
type bookingFields struct {
	userID string
	role   string

	cancelledBy string
	reason      string

	serviceID string
	clientID  string
	start     string
	end       string
	amount    string
}

type BookingsModel struct {
	CommonModel
	bookingService *booking.Service
	catalogService *catalog.Service

	state    bookingsState
	table    table.Model
	bookings []*booking.Booking
	form     *huh.Form
	fields   *bookingFields

	userID uuid.UUID
	role   booking.Party
	status string
	err    error
}

func NewBookingsModel(bookingSvc *booking.Service, catalogSvc *catalog.Service) BookingsModel {
	m := BookingsModel{
		bookingService: bookingSvc,
		catalogService: catalogSvc,
		table: newTable([]table.Column{
			{Title: "Dates", Width: 26},
			{Title: "Service", Width: 24},
			{Title: "Category", Width: 12},
			{Title: "Amount", Width: 14},
			{Title: "Status", Width: 10},
			{Title: "Cancelled", Width: 24},
		}),
		fields: &bookingFields{role: string(booking.PartyClient), cancelledBy: string(booking.PartyClient)},
	}
	m.form = m.lookupForm()

	return m
}

func (m BookingsModel) Title() string { return "Bookings" }

func (m BookingsModel) ShortHelp() string {
	switch m.state {
	case bookingsStateBrowse:
		return "Esc: back | n: new booking | x: cancel booking | r: refresh"
	case bookingsStateLookup:
		return "Enter: continue | Esc: back"
	}

	return "Navigate form | Esc: cancel"
}

func (m BookingsModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m BookingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBookingsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.bookings = msg.bookings
		m.refreshTable()

		return m, nil

	case bookingSavedMsg:
		m.state = bookingsStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = errorStyle.Render(describeBookingErr(msg.err))
			return m, nil
		}

		m.status = successStyle.Render(msg.status)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	switch m.state {
	case bookingsStateLookup:
		return m.updateLookup(msg)
	case bookingsStateBrowse:
		return m.updateBrowse(msg)
	default:
		return m.updateForm(msg)
	}
}

func (m BookingsModel) updateLookup(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	cmd := m.stepForm(msg)
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.userID = uuid.MustParse(strings.TrimSpace(m.fields.userID))
	m.role = booking.Party(m.fields.role)
	m.state = bookingsStateBrowse
	m.form = nil

	return m, m.loadCmd()
}

func (m BookingsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "n":
			m.fields.serviceID, m.fields.start, m.fields.end, m.fields.amount = "", "", "", ""
			m.fields.clientID = m.userID.String()
			m.form = m.createForm()
			m.state = bookingsStateCreate
			m.table.Blur()

			return m, m.form.Init()
		case "x":
			if m.selected() == nil {
				return m, nil
			}

			m.fields.cancelledBy = string(m.role)
			m.fields.reason = ""
			m.form = m.cancelForm()
			m.state = bookingsStateCancel
			m.table.Blur()

			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BookingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = bookingsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	cmd := m.stepForm(msg)
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == bookingsStateCancel {
		return m, m.cancelCmd()
	}

	return m, m.createCmd()
}

func (m *BookingsModel) stepForm(msg tea.Msg) tea.Cmd {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	return cmd
}

func (m BookingsModel) selected() *booking.Booking {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.bookings) {
		return nil
	}

	return m.bookings[idx]
}

func (m BookingsModel) lookupForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("User ID").
				Value(&m.fields.userID).
				Validate(validateUUID),
			huh.NewSelect[string]().
				Title("Show bookings where I am the").
				Options(
					huh.NewOption("Client", string(booking.PartyClient)),
					huh.NewOption("Vendor", string(booking.PartyVendor)),
				).
				Value(&m.fields.role),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m BookingsModel) cancelForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cancelled by").
				Options(
					huh.NewOption("Client", string(booking.PartyClient)),
					huh.NewOption("Vendor", string(booking.PartyVendor)),
				).
				Value(&m.fields.cancelledBy),
			huh.NewText().
				Title("Reason").
				Value(&m.fields.reason),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m BookingsModel) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Service ID").Value(&m.fields.serviceID).Validate(validateUUID),
			huh.NewInput().Title("Client ID").Value(&m.fields.clientID).Validate(validateUUID),
			huh.NewInput().Title("Start date").Placeholder("YYYY-MM-DD").Value(&m.fields.start).Validate(validateDate),
			huh.NewInput().Title("End date").Placeholder("YYYY-MM-DD").Value(&m.fields.end).Validate(validateDate),
			huh.NewInput().Title("Amount (₹)").Placeholder("0.00").Value(&m.fields.amount).Validate(validateRupees),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m BookingsModel) View() string {
	if m.state == bookingsStateLookup {
		return lipgloss.NewStyle().Padding(1).Render("Find bookings\n\n" + m.form.View())
	}

	header := fmt.Sprintf("User %s as %s", activeStyle(m.userID.String()), activeStyle(string(m.role)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	if m.err != nil {
		content = errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" + content
	}

	switch m.state {
	case bookingsStateCancel:
		b := m.selected()
		title := "Cancel Booking"

		if b != nil {
			title = fmt.Sprintf("Cancel %s\n%s", b.ServiceName, FormatRange(b.StartDate, b.EndDate))
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Render(title+"\n\n"+m.form.View()))
	case bookingsStateCreate:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Render("New Booking\n\n"+m.form.View()))
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *BookingsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.bookings))

	for _, b := range m.bookings {
		cancelled := ""
		if b.CancelledBy != nil {
			cancelled = string(*b.CancelledBy)
			if b.CancellationReason != "" {
				cancelled += ": " + b.CancellationReason
			}
		}

		rows = append(rows, table.Row{
			FormatRange(b.StartDate, b.EndDate),
			b.ServiceName,
			b.Category,
			FormatAmount(b.Amount),
			string(b.Status),
			cancelled,
		})
	}

	m.table.SetRows(rows)
}

func describeBookingErr(err error) string {
	switch {
	case errors.Is(err, booking.ErrConflict):
		return "Those dates are already booked for this service."
	case errors.Is(err, booking.ErrValidation):
		return err.Error()
	}

	return fmt.Sprintf("Error: %v", err)
}

func validateUUID(s string) error {
	if _, err := uuid.Parse(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("not a valid id")
	}

	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}

	return nil
}

func validateRupees(s string) error {
	_, err := parseRupees(s)
	return err
}

// parseRupees reads "1500" or "1500.50" into paise.
func parseRupees(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("at most two decimals")
	}

	rupees, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || rupees < 0 {
		return 0, fmt.Errorf("not a valid amount")
	}

	var paise int64

	if frac != "" {
		for len(frac) < 2 {
			frac += "0"
		}

		paise, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not a valid amount")
		}
	}

	return rupees*100 + paise, nil
}

// Messages

type loadBookingsMsg struct {
	bookings []*booking.Booking
	err      error
}

type bookingSavedMsg struct {
	status string
	err    error
}

func (m BookingsModel) loadCmd() tea.Cmd {
	userID, role := m.userID, m.role

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			bookings []*booking.Booking
			err      error
		)

		if role == booking.PartyVendor {
			bookings, err = m.bookingService.ListByVendor(ctx, userID)
		} else {
			bookings, err = m.bookingService.ListByClient(ctx, userID)
		}

		return loadBookingsMsg{bookings: bookings, err: err}
	}
}

func (m BookingsModel) cancelCmd() tea.Cmd {
	b := m.selected()
	if b == nil {
		return nil
	}

	id := b.ID
	params := booking.CancelParams{
		CancelledBy: booking.Party(m.fields.cancelledBy),
		Reason:      strings.TrimSpace(m.fields.reason),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.bookingService.Cancel(ctx, id, params); err != nil {
			return bookingSavedMsg{err: err}
		}

		return bookingSavedMsg{status: "Booking cancelled."}
	}
}

func (m BookingsModel) createCmd() tea.Cmd {
	f := *m.fields

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		serviceID := uuid.MustParse(strings.TrimSpace(f.serviceID))

		listing, err := m.catalogService.Get(ctx, serviceID)
		if err != nil {
			return bookingSavedMsg{err: err}
		}

		start, _ := time.Parse(time.DateOnly, strings.TrimSpace(f.start))
		end, _ := time.Parse(time.DateOnly, strings.TrimSpace(f.end))
		amount, _ := parseRupees(f.amount)

		if amount == 0 {
			amount = listing.Price
		}

		b, err := m.bookingService.Create(ctx, booking.CreateParams{
			ServiceID:   serviceID,
			ServiceName: listing.ServiceName,
			Category:    listing.Category,
			ClientID:    uuid.MustParse(strings.TrimSpace(f.clientID)),
			VendorID:    listing.VendorID,
			Amount:      amount,
			StartDate:   start,
			EndDate:     end,
		})
		if err != nil {
			return bookingSavedMsg{err: err}
		}

		return bookingSavedMsg{status: fmt.Sprintf("Booked %s for %s.", b.ServiceName, FormatRange(b.StartDate, b.EndDate))}
	}
}

package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/vivaahaverse/vivaah/internal/booking"
)

var (
	takenDayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("160"))
	freeDayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

// CalendarModel shows which days of a service are taken by confirmed bookings.
type CalendarModel struct {
	CommonModel
	bookingService *booking.Service

	form      *huh.Form
	serviceID *string

	loaded   bool
	month    time.Time
	bookings []*booking.Booking
	err      error
}

func NewCalendarModel(bookingSvc *booking.Service) CalendarModel {
	now := time.Now().UTC()

	m := CalendarModel{
		bookingService: bookingSvc,
		serviceID:      new(string),
		month:          time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Service ID").Value(m.serviceID).Validate(validateUUID),
		),
	).WithWidth(45).WithShowHelp(false)

	return m
}

func (m CalendarModel) Title() string { return "Availability" }

func (m CalendarModel) ShortHelp() string {
	if !m.loaded {
		return "Enter: show calendar | Esc: back"
	}

	return "←/→: month | t: today | r: refresh | Esc: back"
}

func (m CalendarModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCalendarMsg:
		m.loaded = true
		m.bookings = msg.bookings
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.loaded {
			switch msg.String() {
			case "left", "h":
				m.month = m.month.AddDate(0, -1, 0)
			case "right", "l":
				m.month = m.month.AddDate(0, 1, 0)
			case "t":
				now := time.Now().UTC()
				m.month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
			case "r":
				return m, m.loadCmd()
			}

			return m, nil
		}
	}

	if m.loaded {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.loadCmd()
	}

	return m, cmd
}

func (m CalendarModel) View() string {
	if !m.loaded {
		return lipgloss.NewStyle().Padding(1).Render("Check availability\n\n" + m.form.View())
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	taken := TakenDays(m.bookings, m.month)

	var spans strings.Builder

	for _, b := range m.bookings {
		fmt.Fprintf(&spans, "%s  %s\n", FormatRange(b.StartDate, b.EndDate), b.ServiceName)
	}

	if spans.Len() == 0 {
		spans.WriteString("No confirmed bookings.")
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinHorizontal(lipgloss.Top,
		boxed(RenderMonth(m.month, taken)),
		panelStyle.Render("Booked\n\n"+spans.String()),
	))
}

// TakenDays returns the days of month covered by any of the bookings. Both
// ends of a booking are taken.
func TakenDays(bookings []*booking.Booking, month time.Time) map[int]bool {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	window := booking.Interval{Start: first, End: last}

	taken := make(map[int]bool)

	for _, b := range bookings {
		span := b.Interval()
		if !span.Overlaps(window) {
			continue
		}

		from, to := span.Start, span.End
		if from.Before(first) {
			from = first
		}

		if to.After(last) {
			to = last
		}

		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			taken[d.Day()] = true
		}
	}

	return taken
}

// RenderMonth draws a Monday-first month grid with taken days highlighted.
func RenderMonth(month time.Time, taken map[int]bool) string {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", first.Format("January 2006"))
	b.WriteString("Mo Tu We Th Fr Sa Su\n")

	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("   ", offset))

	for d := 1; d <= days; d++ {
		cell := fmt.Sprintf("%2d", d)
		if taken[d] {
			cell = takenDayStyle.Render(cell)
		} else {
			cell = freeDayStyle.Render(cell)
		}

		b.WriteString(cell)

		if (offset+d)%7 == 0 {
			b.WriteString("\n")
		} else if d < days {
			b.WriteString(" ")
		}
	}

	return b.String()
}

type loadCalendarMsg struct {
	bookings []*booking.Booking
	err      error
}

func (m CalendarModel) loadCmd() tea.Cmd {
	id, err := uuid.Parse(strings.TrimSpace(*m.serviceID))

	return func() tea.Msg {
		if err != nil {
			return loadCalendarMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		bookings, err := m.bookingService.ListByService(ctx, id)

		return loadCalendarMsg{bookings: bookings, err: err}
	}
}

package main

import (
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/zapponejosh/lunar-calendar-api/internal/calendar"
	"github.com/zapponejosh/lunar-calendar-api/internal/i18n"
)

const cellWidth = 8

type palette struct {
	title    lipgloss.Style
	header   lipgloss.Style
	day      lipgloss.Style
	outside  lipgloss.Style
	today    lipgloss.Style
	lunar    lipgloss.Style
	term     lipgloss.Style
	festival lipgloss.Style
}

// newPalette builds the grid styles for w. Without color every style is
// plain text of the same width.
func newPalette(w io.Writer, color bool) palette {
	r := lipgloss.NewRenderer(w)
	cell := r.NewStyle().Width(cellWidth).Align(lipgloss.Center)

	p := palette{
		title:    r.NewStyle().Width(cellWidth * 7).Align(lipgloss.Center),
		header:   cell,
		day:      cell,
		outside:  cell,
		today:    cell,
		lunar:    cell,
		term:     cell,
		festival: cell,
	}
	if !color {
		return p
	}

	p.title = p.title.Bold(true)
	p.header = cell.Foreground(lipgloss.Color("#6E6E6E"))
	p.day = cell.Foreground(lipgloss.Color("#F0F0F0"))
	p.outside = cell.Foreground(lipgloss.Color("#4A4A4A"))
	p.today = cell.Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	p.lunar = cell.Foreground(lipgloss.Color("#8C8C8C"))
	p.term = cell.Foreground(lipgloss.Color("#4DA3FF"))
	p.festival = cell.Foreground(lipgloss.Color("#FF4D4F"))
	return p
}

// renderGrid draws six weeks of a month. Each cell shows the Gregorian day
// over, in order of preference, the festival, the solar term or the lunar day.
func renderGrid(p palette, loc *i18n.Localizer, weekdays []string, year, month int, now time.Time) string {
	labels := loc.Weekdays()
	if len(weekdays) == len(labels) {
		copy(labels[:], weekdays)
	}

	header := make([]string, len(labels))
	for i, l := range labels {
		header[i] = p.header.Render(fit(l))
	}

	rows := []string{
		p.title.Render(loc.Message(i18n.MsgGridTitle, map[string]any{"Year": year, "Month": month})),
		lipgloss.JoinHorizontal(lipgloss.Top, header...),
	}

	grid := calendar.BuildGrid(year, month)
	today := calendar.FormatDate(now)
	for week := 0; week < calendar.GridSize/7; week++ {
		cells := make([]string, 7)
		for i := range cells {
			cells[i] = renderCell(p, loc, grid[week*7+i], today)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(p palette, loc *i18n.Localizer, cell calendar.GridCell, today string) string {
	dayStyle := p.day
	switch {
	case !cell.IsCurrentMonth:
		dayStyle = p.outside
	case calendar.FormatDate(cell.Date()) == today:
		dayStyle = p.today
	}

	top := dayStyle.Render(strconv.Itoa(cell.Day))
	bottom := p.lunar.Render("")

	if lunar, err := calendar.ToLunar(cell.Year, cell.Month, cell.Day); err == nil {
		term, isTerm, _ := calendar.TermOf(cell.Year, cell.Month, cell.Day)
		switch {
		case lunar.Festival != "":
			bottom = p.festival.Render(fit(loc.Name(lunar.Festival)))
		case isTerm:
			bottom = p.term.Render(fit(loc.Name(term)))
		case lunar.Day == 1:
			bottom = p.lunar.Render(fit(lunar.MonthName))
		default:
			bottom = p.lunar.Render(fit(lunar.DayName))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Center, top, bottom)
}

// fit truncates s to the display width of a cell, counting CJK runes as two columns.
func fit(s string) string {
	return runewidth.Truncate(s, cellWidth-1, "…")
}

package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/lunar-calendar-api/internal/almanac"
	"github.com/zapponejosh/lunar-calendar-api/internal/calendar"
	"github.com/zapponejosh/lunar-calendar-api/internal/config"
	"github.com/zapponejosh/lunar-calendar-api/internal/database"
	"github.com/zapponejosh/lunar-calendar-api/internal/i18n"
	"github.com/zapponejosh/lunar-calendar-api/internal/ics"
	"github.com/zapponejosh/lunar-calendar-api/internal/logger"
)

// Store is the almanac database as seen by the handlers.
type Store interface {
	Health(ctx context.Context) error
	GetAlmanacDay(ctx context.Context, date string) (*database.AlmanacDay, error)
	GetAlmanacRange(ctx context.Context, startDate, endDate string) ([]database.AlmanacDay, error)
	GetAlmanacStats(ctx context.Context) (*database.AlmanacStats, error)
	ListYears(ctx context.Context) ([]database.AlmanacYear, error)
	DeleteYear(ctx context.Context, year int) (int64, error)
	WithTx(ctx context.Context, fn func(*database.Tx) error) error
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	store   Store
	tr      *i18n.Translator
	cfg     *config.Config
	logger  *slog.Logger
	now     func() time.Time
	started time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store Store, tr *i18n.Translator, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		store:   store,
		tr:      tr,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		started: time.Now(),
	}
}

// localizer picks the output language from ?lang= or Accept-Language.
func (h *Handlers) localizer(r *http.Request) *i18n.Localizer {
	pref := r.URL.Query().Get("lang")
	if pref == "" {
		pref = r.Header.Get("Accept-Language")
	}
	return h.tr.For(pref)
}

// fail writes the error response for err. Server errors are logged and
// their detail withheld from the client.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(r.Context(), msg, err, slog.String("path", r.URL.Path))
		WriteError(w, status, msg, code)
		return
	}
	WriteError(w, status, err.Error(), code)
}

// =============================================================================
// Health
// =============================================================================

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Health(r.Context()); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeHealthFailed)
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// =============================================================================
// Lunar conversion
// =============================================================================

// DayResponse describes one Gregorian day.
type DayResponse struct {
	Date       string             `json:"date"`
	Weekday    int                `json:"weekday"` // 0 = Sunday
	DayOfYear  int                `json:"day_of_year"`
	WeekNumber int                `json:"week_number"`
	Lunar      calendar.LunarDate `json:"lunar"`
	SolarTerm  string             `json:"solar_term,omitempty"`
	Lang       string             `json:"lang"`
}

func describeDay(date time.Time, loc *i18n.Localizer) (DayResponse, error) {
	lunar, err := calendar.ToLunarTime(date)
	if err != nil {
		return DayResponse{}, err
	}

	year, month, day := date.Year(), int(date.Month()), date.Day()
	term, _, err := calendar.TermOf(year, month, day)
	if err != nil {
		return DayResponse{}, err
	}

	return DayResponse{
		Date:       calendar.FormatDate(date),
		Weekday:    int(date.Weekday()),
		DayOfYear:  calendar.DayOfYear(year, month, day),
		WeekNumber: calendar.WeekNumber(year, month, day),
		Lunar:      loc.LunarDate(lunar),
		SolarTerm:  loc.Name(term),
		Lang:       loc.Lang(),
	}, nil
}

// GetToday handles GET /api/v1/lunar/today?tz=
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	tz, err := locationQuery(r)
	if err != nil {
		h.fail(w, r, err, "Failed to resolve time zone")
		return
	}

	now := h.now().In(tz)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	resp, err := describeDay(today, h.localizer(r))
	if err != nil {
		h.fail(w, r, err, "Failed to convert today's date")
		return
	}

	WriteSuccess(w, resp)
}

// GetDate handles GET /api/v1/lunar/date/{date}
func (h *Handlers) GetDate(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date")
	if err != nil {
		h.fail(w, r, err, "Failed to parse date")
		return
	}

	resp, err := describeDay(date, h.localizer(r))
	if err != nil {
		h.fail(w, r, err, "Failed to convert date")
		return
	}

	WriteSuccess(w, resp)
}

// RangeResponse lists almanac days between two dates.
type RangeResponse struct {
	Start    string                `json:"start"`
	End      string                `json:"end"`
	Lang     string                `json:"lang"`
	Stored   int                   `json:"stored"`   // days read from the almanac store
	Computed int                   `json:"computed"` // days not yet materialized
	Days     []database.AlmanacDay `json:"days"`
}

// GetRange handles GET /api/v1/lunar/range?start=YYYY-MM-DD&end=YYYY-MM-DD
//
// Days are read from the almanac store. Days that were never materialized
// are computed on the fly so the response is always complete.
func (h *Handlers) GetRange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	start, err := parseDate("start", q.Get("start"))
	if err != nil {
		h.fail(w, r, err, "Failed to parse start")
		return
	}
	end, err := parseDate("end", q.Get("end"))
	if err != nil {
		h.fail(w, r, err, "Failed to parse end")
		return
	}

	if start.After(end) {
		WriteBadRequest(w, "Start date must be before or equal to end date")
		return
	}

	span := int(end.Sub(start).Hours()/24) + 1
	if span > h.cfg.MaxRangeDays {
		WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("Date range cannot exceed %d days", h.cfg.MaxRangeDays), CodeRangeTooLarge)
		return
	}

	stored, err := h.store.GetAlmanacRange(ctx, calendar.FormatDate(start), calendar.FormatDate(end))
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve almanac range")
		return
	}
	byDate := make(map[string]database.AlmanacDay, len(stored))
	for _, d := range stored {
		byDate[d.Date] = d
	}

	loc := h.localizer(r)
	resp := RangeResponse{
		Start: calendar.FormatDate(start),
		End:   calendar.FormatDate(end),
		Lang:  loc.Lang(),
		Days:  make([]database.AlmanacDay, 0, span),
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day, ok := byDate[calendar.FormatDate(d)]
		if ok {
			resp.Stored++
		} else {
			day, err = almanac.Day(d)
			if err != nil {
				h.fail(w, r, err, "Failed to compute almanac day")
				return
			}
			resp.Computed++
		}
		resp.Days = append(resp.Days, localizeDay(day, loc))
	}

	WriteSuccess(w, resp)
}

func localizeDay(d database.AlmanacDay, loc *i18n.Localizer) database.AlmanacDay {
	d.Zodiac = loc.Name(d.Zodiac)
	d.Festival = loc.Name(d.Festival)
	d.SolarTerm = loc.Name(d.SolarTerm)
	return d
}

// SolarResponse is the Gregorian date of a lunar date.
type SolarResponse struct {
	Date    string             `json:"date"`
	Weekday int                `json:"weekday"`
	Lunar   calendar.LunarDate `json:"lunar"`
}

// GetSolar handles GET /api/v1/solar?year=&month=&day=&leap=
func (h *Handlers) GetSolar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var parts [3]int
	for i, name := range []string{"year", "month", "day"} {
		n, err := intValue(name, q.Get(name))
		if err != nil {
			h.fail(w, r, err, "Failed to parse lunar date")
			return
		}
		parts[i] = n
	}
	leap, err := boolQuery(r, "leap", false)
	if err != nil {
		h.fail(w, r, err, "Failed to parse lunar date")
		return
	}

	date, err := calendar.FromLunar(parts[0], parts[1], parts[2], leap)
	if err != nil {
		h.fail(w, r, err, "Failed to convert lunar date")
		return
	}

	lunar, err := calendar.ToLunarTime(date)
	if err != nil {
		h.fail(w, r, err, "Failed to convert lunar date")
		return
	}

	WriteSuccess(w, SolarResponse{
		Date:    calendar.FormatDate(date),
		Weekday: int(date.Weekday()),
		Lunar:   h.localizer(r).LunarDate(lunar),
	})
}

// =============================================================================
// Solar terms
// =============================================================================

// TermResponse is one solar term of a year.
type TermResponse struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Canonical string `json:"canonical"`
	Date      string `json:"date"`
}

// GetTerms handles GET /api/v1/terms/{year}
func (h *Handlers) GetTerms(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.fail(w, r, err, "Failed to parse year")
		return
	}

	terms, err := calendar.TermsOfYear(year)
	if err != nil {
		h.fail(w, r, err, "Failed to compute solar terms")
		return
	}

	loc := h.localizer(r)
	out := make([]TermResponse, len(terms))
	for i, t := range terms {
		out[i] = TermResponse{
			Index:     t.Index,
			Name:      loc.Name(t.Name),
			Canonical: t.Name,
			Date:      calendar.FormatDate(t.Date),
		}
	}

	WriteSuccess(w, map[string]any{
		"year":  year,
		"lang":  loc.Lang(),
		"terms": out,
	})
}

// GetTermsICS handles GET /api/v1/terms/{year}/ics?festivals=
func (h *Handlers) GetTermsICS(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.fail(w, r, err, "Failed to parse year")
		return
	}
	festivals, err := boolQuery(r, "festivals", true)
	if err != nil {
		h.fail(w, r, err, "Failed to parse festivals")
		return
	}

	loc := h.localizer(r)
	data, etag, err := ics.Encode(year, ics.Options{
		CalendarName: loc.Message(i18n.MsgCalendarName, nil),
		Festivals:    festivals,
		Translate:    loc.Name,
		Stamp:        h.started,
	})
	if err != nil {
		h.fail(w, r, err, "Failed to build calendar feed")
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", ics.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="terms-%d.ics"`, year))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// =============================================================================
// Month grid and weeks
// =============================================================================

// GridCellResponse is one decorated cell of a month view.
type GridCellResponse struct {
	Date           string `json:"date"`
	Day            int    `json:"day"`
	IsCurrentMonth bool   `json:"is_current_month"`
	// LunarLabel is the lunar day name, or the month name on the first day.
	LunarLabel string `json:"lunar_label,omitempty"`
	SolarTerm  string `json:"solar_term,omitempty"`
	Festival   string `json:"festival,omitempty"`
}

// GridResponse is a six-week month view.
type GridResponse struct {
	Year         int                `json:"year"`
	Month        int                `json:"month"`
	FirstWeekday int                `json:"first_weekday"`
	DaysInMonth  int                `json:"days_in_month"`
	Title        string             `json:"title"`
	Weekdays     [7]string          `json:"weekdays"`
	Cells        []GridCellResponse `json:"cells"`
}

// GetGrid handles GET /api/v1/grid/{year}/{month}
func (h *Handlers) GetGrid(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.fail(w, r, err, "Failed to parse year")
		return
	}
	month, err := intValue("month", chi.URLParam(r, "month"))
	if err != nil {
		h.fail(w, r, err, "Failed to parse month")
		return
	}
	if month < 1 || month > 12 {
		h.fail(w, r, fmt.Errorf("month %d: %w", month, calendar.ErrOutOfRange), "Failed to parse month")
		return
	}

	loc := h.localizer(r)
	resp := GridResponse{
		Year:         year,
		Month:        month,
		FirstWeekday: calendar.FirstWeekday(year, month),
		DaysInMonth:  calendar.DaysInMonth(year, month),
		Title:        loc.Message(i18n.MsgGridTitle, map[string]any{"Year": year, "Month": month}),
		Weekdays:     loc.Weekdays(),
		Cells:        make([]GridCellResponse, 0, calendar.GridSize),
	}

	for _, cell := range calendar.BuildGrid(year, month) {
		resp.Cells = append(resp.Cells, decorateCell(cell, loc))
	}

	WriteSuccess(w, resp)
}

// decorateCell adds lunar data to a grid cell. Cells outside the lunar
// tables, such as January 1900, keep only their Gregorian fields.
func decorateCell(cell calendar.GridCell, loc *i18n.Localizer) GridCellResponse {
	out := GridCellResponse{
		Date:           calendar.FormatDate(cell.Date()),
		Day:            cell.Day,
		IsCurrentMonth: cell.IsCurrentMonth,
	}

	lunar, err := calendar.ToLunar(cell.Year, cell.Month, cell.Day)
	if err != nil {
		return out
	}
	out.LunarLabel = lunar.DayName
	if lunar.Day == 1 {
		out.LunarLabel = lunar.MonthName
	}
	out.Festival = loc.Name(lunar.Festival)

	if term, ok, err := calendar.TermOf(cell.Year, cell.Month, cell.Day); err == nil && ok {
		out.SolarTerm = loc.Name(term)
	}
	return out
}

// WeekResponse is the week of the year containing a date.
type WeekResponse struct {
	Date       string `json:"date"`
	WeekNumber int    `json:"week_number"`
	DayOfYear  int    `json:"day_of_year"`
	Weekday    int    `json:"weekday"`
	Label      string `json:"label"`
}

// GetWeek handles GET /api/v1/week/{date}
func (h *Handlers) GetWeek(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date")
	if err != nil {
		h.fail(w, r, err, "Failed to parse date")
		return
	}

	year, month, day := date.Year(), int(date.Month()), date.Day()
	week := calendar.WeekNumber(year, month, day)

	WriteSuccess(w, WeekResponse{
		Date:       calendar.FormatDate(date),
		WeekNumber: week,
		DayOfYear:  calendar.DayOfYear(year, month, day),
		Weekday:    int(date.Weekday()),
		Label:      h.localizer(r).Message(i18n.MsgWeekLabel, map[string]any{"Week": week}),
	})
}

// =============================================================================
// Admin
// =============================================================================

// GetAlmanacStatus handles GET /api/v1/admin/almanac
func (h *Handlers) GetAlmanacStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.store.GetAlmanacStats(ctx)
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve almanac stats")
		return
	}
	years, err := h.store.ListYears(ctx)
	if err != nil {
		h.fail(w, r, err, "Failed to list almanac years")
		return
	}

	WriteSuccess(w, map[string]any{
		"stats": stats,
		"years": years,
	})
}

// BuildAlmanacYear handles POST /api/v1/admin/almanac/{year}
func (h *Handlers) BuildAlmanacYear(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.fail(w, r, err, "Failed to parse year")
		return
	}

	results, err := almanac.Build(r.Context(), h.store, []int{year}, almanac.Options{
		Logger: logger.FromContext(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err, "Failed to build almanac year")
		return
	}

	WriteSuccess(w, results[0])
}

// VerifyAlmanacYear handles GET /api/v1/admin/almanac/{year}/verify
func (h *Handlers) VerifyAlmanacYear(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.fail(w, r, err, "Failed to parse year")
		return
	}

	report, err := almanac.Verify(r.Context(), h.store, year)
	if err != nil {
		h.fail(w, r, err, "Failed to verify almanac year")
		return
	}

	WriteSuccess(w, map[string]any{
		"report": report,
		"ok":     report.OK(),
	})
}

// DeleteAlmanacYear handles DELETE /api/v1/admin/almanac/{year}
func (h *Handlers) DeleteAlmanacYear(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.fail(w, r, err, "Failed to parse year")
		return
	}

	n, err := h.store.DeleteYear(r.Context(), year)
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, fmt.Sprintf("Almanac year %d not stored", year))
			return
		}
		h.fail(w, r, err, "Failed to delete almanac year")
		return
	}

	WriteSuccess(w, map[string]any{
		"year":         year,
		"deleted_days": n,
	})
}

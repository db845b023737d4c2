// Package ics renders solar terms and lunar festivals as an iCalendar feed.
package ics

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"sort"
	"time"

	"github.com/emersion/go-ical"

	"github.com/zapponejosh/lunar-calendar-api/internal/calendar"
)

// Feed identity and content type.
const (
	ProductID = "-//lunar-calendar-api//Almanac//EN"
	Domain    = "lunar-calendar-api"
	MimeType  = "text/calendar; charset=utf-8"

	propCalendarName = "X-WR-CALNAME"
	propRefresh      = "REFRESH-INTERVAL"
)

// RefreshInterval is suggested to subscribing clients (RFC 7986).
const RefreshInterval = 24 * time.Hour

// Event kinds, also used as CATEGORIES values.
const (
	KindSolarTerm = "solar-term"
	KindFestival  = "festival"
)

// Event is one all-day entry in the feed.
type Event struct {
	Kind string
	Name string // canonical Chinese name
	Date time.Time
}

// Options controls the rendered feed.
type Options struct {
	CalendarName string
	// Festivals adds the lunar festivals alongside the terms.
	Festivals bool
	// Translate maps canonical names to the output language. Nil keeps Chinese.
	Translate func(string) string
	// Stamp is written as DTSTAMP. Zero means now.
	Stamp time.Time
}

// Events returns the solar terms, and optionally the festivals, falling in a
// Gregorian year, in date order.
func Events(year int, festivals bool) ([]Event, error) {
	terms, err := calendar.TermsOfYear(year)
	if err != nil {
		return nil, fmt.Errorf("ics events: %w", err)
	}

	events := make([]Event, 0, len(terms)+2*9)
	for _, term := range terms {
		events = append(events, Event{Kind: KindSolarTerm, Name: term.Name, Date: term.Date})
	}

	if festivals {
		// Festivals of the previous lunar year can spill into January and
		// February, and late ones of this lunar year into the next.
		for _, lunarYear := range []int{year - 1, year} {
			if lunarYear < calendar.MinYear {
				continue
			}
			fs, err := festivalDates(lunarYear)
			if err != nil {
				return nil, fmt.Errorf("ics events: %w", err)
			}
			for _, e := range fs {
				if e.Date.Year() == year {
					events = append(events, e)
				}
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

// festivalDates places the festivals of one lunar year on Gregorian dates.
func festivalDates(lunarYear int) ([]Event, error) {
	info, err := calendar.Decode(lunarYear)
	if err != nil {
		return nil, err
	}

	fixed := []struct {
		name       string
		month, day int
	}{
		{calendar.FestivalSpring, 1, 1},
		{calendar.FestivalLantern, 1, 15},
		{calendar.FestivalDragonBoat, 5, 5},
		{calendar.FestivalQixi, 7, 7},
		{calendar.FestivalGhost, 7, 15},
		{calendar.FestivalMidAutumn, 8, 15},
		{calendar.FestivalDoubleNinth, 9, 9},
		{calendar.FestivalLaba, 12, 8},
		{calendar.FestivalNewYearsEve, 12, info.MonthLengths[11]},
	}

	events := make([]Event, 0, len(fixed))
	for _, f := range fixed {
		date, err := calendar.FromLunar(lunarYear, f.month, f.day, false)
		if err != nil {
			return nil, err
		}
		events = append(events, Event{Kind: KindFestival, Name: f.name, Date: date})
	}
	return events, nil
}

// Calendar builds the VCALENDAR for a Gregorian year.
func Calendar(year int, opts Options) (*ical.Calendar, error) {
	events, err := Events(year, opts.Festivals)
	if err != nil {
		return nil, err
	}

	translate := opts.Translate
	if translate == nil {
		translate = func(s string) string { return s }
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, "PUBLISH")
	if opts.CalendarName != "" {
		cal.Props.SetText(propCalendarName, opts.CalendarName)
	}

	refresh := ical.NewProp(propRefresh)
	refresh.SetDuration(RefreshInterval)
	cal.Props.Set(refresh)

	for _, e := range events {
		cal.Children = append(cal.Children, newEvent(e, translate(e.Name), stamp).Component)
	}

	return cal, nil
}

func newEvent(e Event, summary string, stamp time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, fmt.Sprintf("%s-%s@%s", e.Kind, calendar.FormatDate(e.Date), Domain))
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetText(ical.PropSummary, summary)
	event.Props.SetText(ical.PropCategories, e.Kind)
	event.Props.SetText(ical.PropTransparency, "TRANSPARENT")

	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(e.Date)
	event.Props.Set(start)

	end := ical.NewProp(ical.PropDateTimeEnd)
	end.SetDate(e.Date.AddDate(0, 0, 1))
	event.Props.Set(end)

	return event
}

// Encode renders a year's feed and returns the bytes with a strong ETag.
func Encode(year int, opts Options) ([]byte, string, error) {
	cal, err := Calendar(year, opts)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, "", fmt.Errorf("encode icalendar: %w", err)
	}

	return buf.Bytes(), ETag(buf.Bytes()), nil
}

// ETag returns a quoted content hash for conditional requests.
func ETag(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:16]))
}

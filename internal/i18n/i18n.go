// Package i18n translates the canonical Chinese calendar names into the
// supported output languages and negotiates the language of a request.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/zapponejosh/lunar-calendar-api/internal/calendar"
)

//go:embed locales/*.json
var localeFS embed.FS

// Message ids outside the name tables.
const (
	MsgCalendarName = "calendar_name"
	MsgGridTitle    = "grid_title"
	MsgWeekLabel    = "week_label"
	MsgLeapLabel    = "leap_label"
)

// festivalIDs maps canonical festival names to message ids.
var festivalIDs = map[string]string{
	calendar.FestivalSpring:      "festival_spring",
	calendar.FestivalLantern:     "festival_lantern",
	calendar.FestivalDragonBoat:  "festival_dragon_boat",
	calendar.FestivalQixi:        "festival_qixi",
	calendar.FestivalGhost:       "festival_ghost",
	calendar.FestivalMidAutumn:   "festival_mid_autumn",
	calendar.FestivalDoubleNinth: "festival_double_ninth",
	calendar.FestivalLaba:        "festival_laba",
	calendar.FestivalNewYearsEve: "festival_new_years_eve",
}

// TermID returns the message id of a solar term.
func TermID(termIndex int) string {
	return fmt.Sprintf("term_%02d", termIndex)
}

// ZodiacID returns the message id of an animal sign by cycle position.
func ZodiacID(index int) string {
	return fmt.Sprintf("zodiac_%02d", index)
}

// WeekdayID returns the message id of a short weekday label, 0 = Sunday.
func WeekdayID(weekday int) string {
	return fmt.Sprintf("weekday_%d", weekday)
}

// nameIDs indexes every translatable canonical name by its message id.
func nameIDs() map[string]string {
	ids := make(map[string]string, calendar.TermCount+12+len(festivalIDs))
	for i := 0; i < calendar.TermCount; i++ {
		ids[calendar.TermName(i)] = TermID(i)
	}
	// Year 4 opens the cycle with the rat.
	for i := 0; i < 12; i++ {
		ids[calendar.Zodiac(4+i)] = ZodiacID(i)
	}
	for name, id := range festivalIDs {
		ids[name] = id
	}
	return ids
}

// Translator holds the loaded message bundle.
type Translator struct {
	bundle      *goi18n.Bundle
	matcher     language.Matcher
	supported   []language.Tag
	defaultLang string
	ids         map[string]string
}

// New loads the embedded locale files. defaultLang is used when a request
// names no supported language.
func New(defaultLang string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.Chinese)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	var tags []language.Tag
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug("skipping locale file", slog.String("file", name))
			continue
		}

		mf, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name)
		if err != nil {
			return nil, fmt.Errorf("load locale %s: %w", name, err)
		}
		tags = append(tags, mf.Tag)
	}

	t := &Translator{
		bundle:    bundle,
		supported: orderTags(tags, defaultLang),
		ids:       nameIDs(),
	}
	if len(t.supported) == 0 {
		return nil, fmt.Errorf("no locales loaded")
	}
	t.defaultLang = baseOf(t.supported[0])
	if t.defaultLang != defaultLang {
		return nil, fmt.Errorf("default language %q has no locale file", defaultLang)
	}
	t.matcher = language.NewMatcher(t.supported)

	return t, nil
}

// orderTags moves the default language to the front; the matcher falls back
// to the first tag.
func orderTags(tags []language.Tag, defaultLang string) []language.Tag {
	ordered := make([]language.Tag, 0, len(tags))
	for _, tag := range tags {
		if baseOf(tag) == defaultLang {
			ordered = append([]language.Tag{tag}, ordered...)
			continue
		}
		ordered = append(ordered, tag)
	}
	return ordered
}

func baseOf(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// Languages returns the supported language codes, default first.
func (t *Translator) Languages() []string {
	langs := make([]string, len(t.supported))
	for i, tag := range t.supported {
		langs[i] = baseOf(tag)
	}
	return langs
}

// Default returns the default language code.
func (t *Translator) Default() string {
	return t.defaultLang
}

// Match picks the supported language for a ?lang= value or an
// Accept-Language header. Unparseable or unsupported input yields the default.
func (t *Translator) Match(preference string) string {
	tags, _, err := language.ParseAcceptLanguage(preference)
	if err != nil || len(tags) == 0 {
		return t.defaultLang
	}

	_, index, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return t.defaultLang
	}
	return baseOf(t.supported[index])
}

// For returns a localizer for a language code. Unsupported codes fall back
// to the default language.
func (t *Translator) For(lang string) *Localizer {
	lang = t.Match(lang)
	return &Localizer{
		lang: lang,
		loc:  goi18n.NewLocalizer(t.bundle, lang, t.defaultLang),
		ids:  t.ids,
	}
}

// Localizer renders messages in one language.
type Localizer struct {
	lang string
	loc  *goi18n.Localizer
	ids  map[string]string
}

// Lang returns the language code this localizer renders.
func (l *Localizer) Lang() string {
	return l.lang
}

// Message renders a message id with optional template data. A missing
// message renders as its id.
func (l *Localizer) Message(id string, data map[string]any) string {
	msg, err := l.loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug("missing translation",
			slog.String("lang", l.lang),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return id
	}
	return msg
}

// Name translates a canonical term, festival or zodiac name. Other strings,
// including the empty string, are returned unchanged.
func (l *Localizer) Name(canonical string) string {
	id, ok := l.ids[canonical]
	if !ok {
		return canonical
	}
	return l.Message(id, nil)
}

// LunarDate translates the zodiac and festival of a converted date. The
// traditional month, day and year names stay in Chinese.
func (l *Localizer) LunarDate(d calendar.LunarDate) calendar.LunarDate {
	d.Zodiac = l.Name(d.Zodiac)
	d.Festival = l.Name(d.Festival)
	return d
}

// Weekdays returns the seven short weekday labels, Sunday first.
func (l *Localizer) Weekdays() [7]string {
	var labels [7]string
	for i := range labels {
		labels[i] = l.Message(WeekdayID(i), nil)
	}
	return labels
}

package i18n

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/lunar-calendar-api/internal/calendar"
)

func newTranslator(t *testing.T) *Translator {
	t.Helper()
	tr, err := New("zh")
	require.NoError(t, err)
	return tr
}

func localeKeys(t *testing.T, lang string) map[string]string {
	t.Helper()
	content, err := localeFS.ReadFile("locales/active." + lang + ".json")
	require.NoError(t, err, "must load active.%s.json", lang)

	var messages map[string]string
	require.NoError(t, json.Unmarshal(content, &messages), "JSON must be valid")
	return messages
}

// Every id the code asks for must exist in every locale, and the locales must
// carry the same key set.
func TestLocaleIntegrity(t *testing.T) {
	var ids []string
	for i := 0; i < calendar.TermCount; i++ {
		ids = append(ids, TermID(i))
	}
	for i := 0; i < 12; i++ {
		ids = append(ids, ZodiacID(i))
	}
	for i := 0; i < 7; i++ {
		ids = append(ids, WeekdayID(i))
	}
	for _, id := range festivalIDs {
		ids = append(ids, id)
	}
	ids = append(ids, MsgCalendarName, MsgGridTitle, MsgWeekLabel, MsgLeapLabel)

	en := localeKeys(t, "en")
	zh := localeKeys(t, "zh")

	for _, id := range ids {
		assert.Contains(t, en, id, "missing in active.en.json")
		assert.Contains(t, zh, id, "missing in active.zh.json")
	}

	keys := func(m map[string]string) []string {
		out := make([]string, 0, len(m))
		for k := range m {
			out = append(out, k)
		}
		sort.Strings(out)
		return out
	}
	assert.Equal(t, keys(en), keys(zh))
	assert.Len(t, en, len(ids))
}

// The Chinese locale must reproduce the canonical names exactly.
func TestChineseLocaleMatchesCanonicalNames(t *testing.T) {
	zh := localeKeys(t, "zh")
	for i := 0; i < calendar.TermCount; i++ {
		assert.Equal(t, calendar.TermName(i), zh[TermID(i)])
	}
	for i := 0; i < 12; i++ {
		assert.Equal(t, calendar.Zodiac(4+i), zh[ZodiacID(i)])
	}
	for name, id := range festivalIDs {
		assert.Equal(t, name, zh[id])
	}
}

func TestNew(t *testing.T) {
	tr := newTranslator(t)
	assert.Equal(t, "zh", tr.Default())
	assert.Equal(t, []string{"zh", "en"}, tr.Languages())

	en, err := New("en")
	require.NoError(t, err)
	assert.Equal(t, "en", en.Default())
	assert.Equal(t, "en", en.Languages()[0])

	_, err = New("fr")
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	tr := newTranslator(t)

	tests := []struct {
		in   string
		want string
	}{
		{"", "zh"},
		{"en", "en"},
		{"zh", "zh"},
		{"en-US,en;q=0.9", "en"},
		{"zh-CN,zh;q=0.9,en;q=0.8", "zh"},
		{"fr-FR", "zh"},
		{"fr-FR,en;q=0.5", "en"},
		{"not a language!!", "zh"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tr.Match(tt.in), "Match(%q)", tt.in)
	}
}

func TestLocalizer_Name(t *testing.T) {
	tr := newTranslator(t)
	en := tr.For("en")
	zh := tr.For("zh")

	assert.Equal(t, "en", en.Lang())
	assert.Equal(t, "Start of Spring", en.Name("立春"))
	assert.Equal(t, "Winter Solstice", en.Name(calendar.TermName(23)))
	assert.Equal(t, "Dragon", en.Name("龙"))
	assert.Equal(t, "Mid-Autumn Festival", en.Name(calendar.FestivalMidAutumn))
	assert.Equal(t, "立春", zh.Name("立春"))

	// Unknown and empty names pass through.
	assert.Equal(t, "甲辰", en.Name("甲辰"))
	assert.Equal(t, "", en.Name(""))
}

func TestLocalizer_UnsupportedFallsBack(t *testing.T) {
	loc := newTranslator(t).For("de")
	assert.Equal(t, "zh", loc.Lang())
	assert.Equal(t, "龙", loc.Name("龙"))
}

func TestLocalizer_Templates(t *testing.T) {
	tr := newTranslator(t)

	data := map[string]any{"Year": 2024, "Month": 2}
	assert.Equal(t, "2024年2月", tr.For("zh").Message(MsgGridTitle, data))
	assert.Equal(t, "2024-2", tr.For("en").Message(MsgGridTitle, data))
	assert.Equal(t, "Week 6", tr.For("en").Message(MsgWeekLabel, map[string]any{"Week": 6}))
	assert.Equal(t, "no_such_message", tr.For("en").Message("no_such_message", nil))
}

func TestLocalizer_LunarDate(t *testing.T) {
	d, err := calendar.ToLunar(2024, 2, 10)
	require.NoError(t, err)

	got := newTranslator(t).For("en").LunarDate(d)
	assert.Equal(t, "Dragon", got.Zodiac)
	assert.Equal(t, "Spring Festival", got.Festival)
	assert.Equal(t, "正月", got.MonthName)
	assert.Equal(t, "龙", d.Zodiac, "input must not be modified")
}

func TestLocalizer_Weekdays(t *testing.T) {
	tr := newTranslator(t)
	assert.Equal(t, [7]string{"日", "一", "二", "三", "四", "五", "六"}, tr.For("zh").Weekdays())
	assert.Equal(t, "Su", tr.For("en").Weekdays()[0])
}

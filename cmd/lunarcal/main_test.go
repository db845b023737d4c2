package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/lunar-calendar-api/internal/calendar"
)

// execute runs lunarcal with an isolated config home.
func execute(t *testing.T, configTOML string, args ...string) (string, error) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	if configTOML != "" {
		dir := filepath.Join(home, "lunarcal")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(configTOML), 0o644))
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestConvert(t *testing.T) {
	out, err := execute(t, "", "convert", "2024-02-10")
	require.NoError(t, err)

	assert.Contains(t, out, "Date:     2024-02-10")
	assert.Contains(t, out, "Lunar:    甲辰年正月初一")
	assert.Contains(t, out, "Zodiac:   龙")
	assert.Contains(t, out, "Festival: 春节")
	assert.Contains(t, out, "第6周")
	assert.NotContains(t, out, "Term:")
}

func TestConvert_English(t *testing.T) {
	out, err := execute(t, "", "convert", "--lang", "en", "2024-02-04")
	require.NoError(t, err)

	assert.Contains(t, out, "Term:     Start of Spring")
	assert.Contains(t, out, "Zodiac:   Rabbit")
	assert.Contains(t, out, "Week 6")
}

func TestConvert_Errors(t *testing.T) {
	_, err := execute(t, "", "convert", "2024/02/10")
	assert.Error(t, err)

	_, err = execute(t, "", "convert", "1899-06-01")
	require.Error(t, err)
	assert.True(t, calendar.IsOutOfRange(err))

	_, err = execute(t, "", "convert", "--lang", "fr", "2024-02-10")
	assert.Error(t, err)
}

func TestSolar(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"new year", []string{"solar", "2024", "1", "1"}, "2024-02-10"},
		{"regular month", []string{"solar", "2023", "2", "1"}, "2023-02-20"},
		{"leap month", []string{"solar", "--leap", "2023", "2", "1"}, "2023-03-22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, "Date:     "+tt.want)
		})
	}
}

func TestSolar_Errors(t *testing.T) {
	_, err := execute(t, "", "solar", "2024", "2", "1", "--leap")
	assert.True(t, calendar.IsOutOfRange(err))

	_, err = execute(t, "", "solar", "2024", "two", "1")
	assert.Error(t, err)

	_, err = execute(t, "", "solar", "2024", "2")
	assert.Error(t, err)
}

func TestTerms(t *testing.T) {
	out, err := execute(t, "", "terms", "2024")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, calendar.TermCount)
	assert.Equal(t, "2024-01-06  小寒", lines[0])
	assert.Equal(t, "2024-02-04  立春", lines[2])
	assert.Equal(t, "2024-12-21  冬至", lines[23])

	out, err = execute(t, "", "terms", "--lang", "en", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-02-04  Start of Spring")

	_, err = execute(t, "", "terms", "2101")
	assert.True(t, calendar.IsOutOfRange(err))
}

func TestGrid(t *testing.T) {
	out, err := execute(t, "", "grid", "--color=false", "2024", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "2024年2月")
	for _, want := range []string{"日", "六", "廿二", "立春", "除夕", "春节", "29"} {
		assert.Contains(t, out, want)
	}

	_, err = execute(t, "", "grid", "2024", "13")
	assert.True(t, calendar.IsOutOfRange(err))

	_, err = execute(t, "", "grid", "2024")
	assert.Error(t, err)
}

func TestGrid_ConfigWeekdays(t *testing.T) {
	cfg := `
[display]
color = false
weekdays = ["Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"]
`
	out, err := execute(t, cfg, "grid", "2024", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Sun")
	assert.Contains(t, out, "Sat")
}

func TestWeek(t *testing.T) {
	out, err := execute(t, "", "week", "2024-01-07")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-07  第2周\n", out)

	out, err = execute(t, "", "week", "--lang", "en", "2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31  Week 53\n", out)
}

func TestConfigFile(t *testing.T) {
	cfg := `
[display]
lang = "en"
`
	out, err := execute(t, cfg, "convert", "2024-02-04")
	require.NoError(t, err)
	assert.Contains(t, out, "Start of Spring")

	// Flags win over the file.
	out, err = execute(t, cfg, "convert", "--lang", "zh", "2024-02-04")
	require.NoError(t, err)
	assert.Contains(t, out, "立春")

	_, err = execute(t, "[display]\nlanguage = \"en\"\n", "convert", "2024-02-04")
	assert.Error(t, err)
}

func TestFit(t *testing.T) {
	assert.Equal(t, "初一", fit("初一"))
	got := fit("Spring Festival")
	assert.True(t, strings.HasPrefix(got, "Sprin"), got)
	assert.True(t, strings.HasSuffix(got, "…"), got)
	assert.LessOrEqual(t, len([]rune(fit("Start of Spring"))), cellWidth)
}

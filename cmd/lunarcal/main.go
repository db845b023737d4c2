// Package main provides the lunarcal command line calendar.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/lunar-calendar-api/internal/calendar"
	"github.com/zapponejosh/lunar-calendar-api/internal/config"
	"github.com/zapponejosh/lunar-calendar-api/internal/i18n"
)

// app holds the resolved flags of one invocation.
type app struct {
	configPath string
	lang       string
	color      bool
	leap       bool

	weekdays []string
	tr       *i18n.Translator
	now      func() time.Time
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	rootCmd := &cobra.Command{
		Use:           "lunarcal",
		Short:         "Chinese lunar calendar, solar terms and month grids",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultConfigPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&a.lang, "lang", config.LangChinese, "output language (zh, en)")
	rootCmd.PersistentFlags().BoolVar(&a.color, "color", true, "colorize the month grid")

	rootCmd.AddCommand(a.newConvertCmd())
	rootCmd.AddCommand(a.newSolarCmd())
	rootCmd.AddCommand(a.newTermsCmd())
	rootCmd.AddCommand(a.newGridCmd())
	rootCmd.AddCommand(a.newWeekCmd())

	return rootCmd
}

// load applies the config file under any flags given on the command line.
func (a *app) load(cmd *cobra.Command) error {
	fileCfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cmd.Flags().Changed("lang") {
		a.lang = fileCfg.Display.LangOr(a.lang)
	}
	if !cmd.Flags().Changed("color") {
		a.color = fileCfg.Display.ColorOr(a.color)
	}
	a.weekdays = fileCfg.Display.Weekdays

	if a.lang != config.LangChinese && a.lang != config.LangEnglish {
		return fmt.Errorf("--lang must be zh or en, got %q", a.lang)
	}

	a.tr, err = i18n.New(config.LangChinese)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	return nil
}

func (a *app) localizer() *i18n.Localizer {
	return a.tr.For(a.lang)
}

// dateArg parses an optional YYYY-MM-DD argument, defaulting to today.
func (a *app) dateArg(args []string) (time.Time, error) {
	if len(args) == 0 {
		now := a.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := calendar.ParseDateString(args[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", args[0])
	}
	return date, nil
}

func intArgs(args []string, names ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, s := range args {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", names[i], s)
		}
		out[i] = n
	}
	return out, nil
}

// =============================================================================
// convert
// =============================================================================

func (a *app) newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [DATE]",
		Short: "Convert a Gregorian date (default today) to the lunar calendar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := a.dateArg(args)
			if err != nil {
				return err
			}
			return a.printDay(cmd.OutOrStdout(), date)
		},
	}
}

func (a *app) printDay(w io.Writer, date time.Time) error {
	lunar, err := calendar.ToLunarTime(date)
	if err != nil {
		return err
	}
	year, month, day := date.Year(), int(date.Month()), date.Day()
	term, _, err := calendar.TermOf(year, month, day)
	if err != nil {
		return err
	}

	loc := a.localizer()
	lunar = loc.LunarDate(lunar)

	fmt.Fprintf(w, "Date:     %s\n", calendar.FormatDate(date))
	fmt.Fprintf(w, "Lunar:    %s\n", lunar)
	fmt.Fprintf(w, "Zodiac:   %s\n", lunar.Zodiac)
	if lunar.Festival != "" {
		fmt.Fprintf(w, "Festival: %s\n", lunar.Festival)
	}
	if term != "" {
		fmt.Fprintf(w, "Term:     %s\n", loc.Name(term))
	}
	week := calendar.WeekNumber(year, month, day)
	fmt.Fprintf(w, "Week:     %s\n", loc.Message(i18n.MsgWeekLabel, map[string]any{"Week": week}))
	return nil
}

// =============================================================================
// solar
// =============================================================================

func (a *app) newSolarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solar YEAR MONTH DAY",
		Short: "Convert a lunar date to the Gregorian calendar",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := intArgs(args, "year", "month", "day")
			if err != nil {
				return err
			}
			date, err := calendar.FromLunar(n[0], n[1], n[2], a.leap)
			if err != nil {
				return err
			}
			return a.printDay(cmd.OutOrStdout(), date)
		},
	}
	cmd.Flags().BoolVar(&a.leap, "leap", false, "the month is a leap month")
	return cmd
}

// =============================================================================
// terms
// =============================================================================

func (a *app) newTermsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terms YEAR",
		Short: "List the 24 solar terms of a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := intArgs(args, "year")
			if err != nil {
				return err
			}
			terms, err := calendar.TermsOfYear(n[0])
			if err != nil {
				return err
			}

			loc := a.localizer()
			w := cmd.OutOrStdout()
			for _, t := range terms {
				fmt.Fprintf(w, "%s  %s\n", calendar.FormatDate(t.Date), loc.Name(t.Name))
			}
			return nil
		},
	}
}

// =============================================================================
// grid
// =============================================================================

func (a *app) newGridCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grid [YEAR MONTH]",
		Short: "Print a month grid with lunar days, terms and festivals",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("grid takes no arguments or YEAR MONTH, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			year, month := now.Year(), int(now.Month())
			if len(args) == 2 {
				n, err := intArgs(args, "year", "month")
				if err != nil {
					return err
				}
				year, month = n[0], n[1]
			}
			if year < calendar.MinYear || year > calendar.MaxYear || month < 1 || month > 12 {
				return fmt.Errorf("month %04d-%02d: %w", year, month, calendar.ErrOutOfRange)
			}

			w := cmd.OutOrStdout()
			out := renderGrid(newPalette(w, a.color), a.localizer(), a.weekdays, year, month, a.now())
			_, err := fmt.Fprintln(w, out)
			return err
		},
	}
}

// =============================================================================
// week
// =============================================================================

func (a *app) newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week [DATE]",
		Short: "Show the week of the year for a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := a.dateArg(args)
			if err != nil {
				return err
			}
			year, month, day := date.Year(), int(date.Month()), date.Day()
			week := calendar.WeekNumber(year, month, day)

			label := a.localizer().Message(i18n.MsgWeekLabel, map[string]any{"Week": week})
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", calendar.FormatDate(date), label)
			return err
		},
	}
}

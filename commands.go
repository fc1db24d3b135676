package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wu/datetime"
	"wu/logger"
	"wu/remind"
	"wu/reminder"
	"wu/state"
)

func init() {
	// add
	var dateFlag, timeFlag string
	addCmd := &cobra.Command{
		Use:   "add MESSAGE...",
		Short: "Seal a new letter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("cli", func(a *app) error {
				return runAdd(cmd.Context(), a, cmd.OutOrStdout(), dateFlag, timeFlag, strings.Join(args, " "))
			})
		},
	}
	addCmd.Flags().StringVarP(&dateFlag, "date", "d", "today", "Day to open the letter (today, tomorrow, +3d, friday, 2026-01-15)")
	addCmd.Flags().StringVarP(&timeFlag, "time", "t", "", "Time of day (15:04, 3pm) (required)")
	_ = addCmd.MarkFlagRequired("time")
	rootCmd.AddCommand(addCmd)

	// list
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sealed letters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("cli", func(a *app) error {
				return runList(cmd.Context(), a, cmd.OutOrStdout())
			})
		},
	}
	rootCmd.AddCommand(listCmd)

	// rm
	rmCmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a letter and cancel its reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			return withApp("cli", func(a *app) error {
				return a.ctrl.Delete(cmd.Context(), id)
			})
		},
	}
	rootCmd.AddCommand(rmCmd)

	// theme
	themeCmd := &cobra.Command{
		Use:   "theme [light|dark|system]",
		Short: "Show or set the appearance of the terminal UI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("cli", func(a *app) error {
				return runTheme(cmd.Context(), a, cmd.OutOrStdout(), args)
			})
		},
	}
	rootCmd.AddCommand(themeCmd)

	// daemon
	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Deliver due reminders as desktop notifications until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp("daemon", func(a *app) error {
				a.log.Info().
					Str("db", a.cfg.DBPath()).
					Dur("interval", a.cfg.PollInterval).
					Msg("daemon started")
				a.worker(a.desktop()).Run(ctx)
				a.log.Info().Msg("daemon stopped")
				return nil
			})
		},
	}
	rootCmd.AddCommand(daemonCmd)
}

// withApp runs fn with an opened app logging to the console.
func withApp(component string, fn func(a *app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := openApp(cfg, logger.Console(component, logger.ParseLevel(cfg.LogLevel)))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func runAdd(ctx context.Context, a *app, out io.Writer, date, clock, message string) error {
	day, err := datetime.ParseDate(date, a.ctrl.Now())
	if err != nil {
		return err
	}
	hour, minute, err := datetime.ParseClock(clock)
	if err != nil {
		return err
	}

	res, err := a.ctrl.Submit(ctx, message, a.ctrl.ComputeTrigger(day, hour, minute))
	if err != nil {
		return adviceError(err)
	}
	fmt.Fprintln(out, res.Sealed())
	fmt.Fprintf(out, "%d  %s\n", res.Reminder.ID, datetime.CountdownLabel(res.Reminder.TriggerAt.Sub(a.ctrl.Now())))
	return nil
}

func runList(ctx context.Context, a *app, out io.Writer) error {
	entries := a.ctrl.List(ctx)
	if len(entries) == 0 {
		fmt.Fprintln(out, "暂无内容")
		return nil
	}

	now := a.ctrl.Now()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tOPENS\tSTATE\tCOUNTDOWN\tMESSAGE")
	for _, e := range entries {
		countdown := "-"
		if e.State == reminder.Pending {
			countdown = datetime.Countdown(e.TriggerAt.Sub(now))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, datetime.FormatStamp(e.TriggerAt), e.State, countdown, strings.ReplaceAll(e.Message, "\n", " "))
	}
	return tw.Flush()
}

func runTheme(ctx context.Context, a *app, out io.Writer, args []string) error {
	if len(args) == 0 {
		mode := a.themes.Mode(ctx)
		fmt.Fprintf(out, "%s (%s)\n", strings.ToLower(string(mode)), mode.Label())
		return nil
	}
	mode, err := state.ParseThemeMode(args[0])
	if err != nil {
		return err
	}
	return a.themes.SetMode(ctx, mode)
}

// adviceError replaces the validation errors with the text shown to the user.
func adviceError(err error) error {
	if errors.Is(err, remind.ErrEmptyMessage) ||
		errors.Is(err, remind.ErrTimeInPast) ||
		errors.Is(err, remind.ErrSchedulingDenied) {
		return errors.New(remind.Advice(err))
	}
	return err
}

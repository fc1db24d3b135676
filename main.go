package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"wu/logger"
	"wu/notify"
	"wu/tui"
	"wu/watcher"
)

var (
	dataDirFlag string
	rootCmd     = &cobra.Command{
		Use:   "wu",
		Short: "Seal letters to your future self and get reminded when they open",
		Long: "wu keeps short messages and delivers each one as a notification at the time you pick.\n" +
			"Without a subcommand it opens the terminal UI and delivers due reminders while it runs.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&dataDirFlag, "data-dir", "D", "", "Data directory (overrides WU_DATA_DIR)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runTUI opens the terminal UI with an embedded alarm worker. Fired alarms
// are shown both as desktop notifications and inside the UI.
func runTUI() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, logFile, err := logger.File("tui", cfg.LogPath(), logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	defer logFile.Close()

	a, err := openApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	// Set up database watcher so writes from other processes show up
	w, err := watcher.New(cfg.DBPath(), log)
	if err != nil {
		return fmt.Errorf("cannot watch database: %w", err)
	}
	defer w.Stop()
	w.Start()

	model := tui.New(a.ctrl, a.themes, w.Events)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Deferred after a.Close, so the worker is gone before the database closes.
	stop := a.startWorker(notify.Fanout(a.desktop(), tui.Banner(p.Send)))
	defer stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

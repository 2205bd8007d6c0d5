package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"rtconsole/cases"
	"rtconsole/config"
	"rtconsole/provider"
	"rtconsole/storage"
	"rtconsole/ui"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

const License = "Apache-2.0"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rtconsole",
		Short: "rtconsole - realtime function calling console",
		Long: "rtconsole is a terminal console for a realtime conversational session.\n" +
			"Function calls from the model are rendered as widgets, and typed customer\n" +
			"requests are matched against a case catalog.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd)
		},
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newMatchCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newCalcCmd())
	cmd.AddCommand(newPromptsCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newCredentialsCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rtconsole %s (commit: %s, license: %s)\n", Version, Commit, License)
		},
	}
}

func runConsole(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return showStartupError("Configuration Error", fmt.Sprintf("Failed to load config:\n\n%v", err))
	}

	config.InitDebugLog(cfg.DataDir())
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Main] starting rtconsole %s with transport %s", Version, cfg.Transport.Kind)
	}

	catalog, err := cases.Load(config.ExpandPath(cfg.Cases.CatalogPath))
	if err != nil {
		return showStartupError("Case Catalog Error", fmt.Sprintf("Failed to load case catalog:\n\n%v", err))
	}

	if err := config.WriteKeybindingsTemplate(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Main] keybindings template: %v", err)
	}
	keys, err := config.LoadKeybindings()
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Main] keybindings: %v, using defaults", err)
		}
		keys = config.DefaultKeybindings()
	}
	if ok, problem := keys.Validate(); !ok {
		return showStartupError("Keybinding Error", problem)
	}

	opts := ui.Options{
		Config:  cfg,
		Keys:    keys,
		Cases:   catalog,
		Dial:    provider.Dialer(cfg, catalog),
		Version: Version,
	}

	// Only assign when opened so a nil *Journal never lands in the interface
	var journal *storage.Journal
	if cfg.JournalEnabled {
		journal, err = storage.NewJournal(cfg.DataDir())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: journal disabled: %v\n", err)
		} else {
			defer journal.Close()
			opts.Journal = journal
		}
	}

	p := tea.NewProgram(ui.NewAppView(opts), tea.WithAltScreen())
	final, err := p.Run()
	if view, ok := final.(ui.AppView); ok {
		if cerr := view.Shutdown(); cerr != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Main] shutdown: %v", cerr)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to run console: %w", err)
	}
	return nil
}

func showStartupError(title, message string) error {
	p := tea.NewProgram(ui.NewErrorModal(title, message), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("%s: %s", title, message)
	}
	return fmt.Errorf("%s", title)
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}

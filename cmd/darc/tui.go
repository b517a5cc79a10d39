package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/darc-project/darc/internal/analysis"
	"github.com/darc-project/darc/internal/auth"
	"github.com/darc-project/darc/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().String("page", "landing", "Page to open first (landing, signup, login, dashboard)")
}

// runTUI is the main function that runs the TUI
func runTUI(cmd *cobra.Command, args []string) error {
	pageName, _ := cmd.Flags().GetString("page")
	start := tui.Page(pageName)
	switch start {
	case tui.PageLanding, tui.PageSignup, tui.PageLogin, tui.PageDashboard:
	default:
		return fmt.Errorf("unknown page %q", pageName)
	}

	var (
		analyzer *analysis.Client
		accounts *auth.Client
	)
	stop, err := startApp(cmd.Context(), &analyzer, &accounts)
	if err != nil {
		return err
	}
	defer stop()

	p := tea.NewProgram(tui.NewAppModel(analyzer, accounts, start), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/intervo/internal/adapters/driving/tui"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run an interview in the terminal",
	Long: `Launch the interactive terminal interview runner.

Pick a discussion guide, then answer its questions one at a time.
Accepted answers may trigger AI-generated follow-up questions; rejected
answers stay in the input so they can be reworked.

Controls:
  ↑/k, ↓/j - Navigate guides
  Enter    - Start / Submit answer
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runInterview,
}

func init() {
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(cmd *cobra.Command, _ []string) error {
	if guideService == nil || sessionService == nil {
		return errors.New("services not configured")
	}

	// Panic recovery to get stack traces out of the alt screen
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in interview UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(guideService, sessionService))
	if err != nil {
		return fmt.Errorf("creating interview UI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interview UI error: %w", err)
	}
	return nil
}

package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Yates-Labs/storyjourney/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a story interactively",
	Long: `Start an interactive story in the terminal.

Type your premise and press Enter. Once the narrator offers options, press
1, 2 or 3 to choose. Press Esc or Ctrl+C to quit.

Log lines are suppressed while playing unless LOG_OUTPUT names a file.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.close()

	program := tea.NewProgram(tui.New(cmd.Context(), s.orch), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = program.Run()
	return err
}

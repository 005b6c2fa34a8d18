package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/storyjourney/internal/orchestrator"
	"github.com/Yates-Labs/storyjourney/internal/story"
	"github.com/Yates-Labs/storyjourney/internal/tui"
)

var (
	choices      []string
	exportFile   string
	exportFormat string
)

var tellCmd = &cobra.Command{
	Use:   "tell [premise]",
	Short: "Tell a story non-interactively",
	Long: `Start a story from a premise and follow a fixed list of choices.

Each --choose picks an option from the previous scene, in order.

Examples:
  storyjourney tell "a haunted lighthouse"
  storyjourney tell "a haunted lighthouse" --choose 2 --choose 1
  storyjourney tell "pirates" --choose 3 --export story.md --format markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runTell,
}

func init() {
	rootCmd.AddCommand(tellCmd)
	tellCmd.Flags().StringArrayVar(&choices, "choose", nil, "Option label to pick after each scene (repeatable)")
	tellCmd.Flags().StringVar(&exportFile, "export", "", "Export the transcript to a file: --export <filename>")
	tellCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json or markdown")
}

func runTell(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.close()

	if err := tellStory(cmd, s.orch, args[0], choices); err != nil {
		return err
	}
	if exportFile != "" {
		return handleExport(cmd.OutOrStdout(), s.orch.Snapshot().Conversation, exportFile, exportFormat)
	}
	return nil
}

// tellStory plays the premise and then each choice, printing every scene.
func tellStory(cmd *cobra.Command, orch *orchestrator.Orchestrator, premise string, picks []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.RenderTurn(story.Turn{Role: story.RoleAssistant, Content: story.OpeningQuestion}, 0))
	fmt.Fprintln(out, tui.PlayerStyle.Render(premise))
	fmt.Fprintln(out)

	result, err := orch.SubmitFreeText(ctx, premise)
	if err := printResult(out, result, err); err != nil {
		return err
	}

	for _, label := range picks {
		fmt.Fprintln(out, tui.HeaderStyle.Render("Choice "+label))
		fmt.Fprintln(out)

		result, err = orch.SelectOption(ctx, label)
		if err := printResult(out, result, err); err != nil {
			return err
		}
	}
	return nil
}

// printResult shows the new scene. An error with a result means the scene
// was kept without its illustration, so the story goes on.
func printResult(out io.Writer, result *orchestrator.Result, err error) error {
	if result == nil {
		return err
	}

	fmt.Fprintln(out, tui.RenderTurn(result.Turn, 0))
	fmt.Fprintln(out)
	if err != nil {
		fmt.Fprintln(out, tui.RenderError(err))
		fmt.Fprintln(out)
	}
	if len(result.Options) > 0 {
		fmt.Fprintln(out, tui.RenderOptions(result.Options))
		fmt.Fprintln(out)
	}
	return nil
}

func handleExport(out io.Writer, conv story.Conversation, filename, format string) error {
	// Create output file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := story.ExportConversation(conv, format, file); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(out, "✓ Exported %d turns to %s\n", len(conv), filename)
	return nil
}

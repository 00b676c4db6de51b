package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// editCommand creates the edit command: open a photo in the interactive
// terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	var (
		savePath string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "edit <photo>",
		Short: "Open a photo in the interactive editor",
		Long: `Open a photo in the interactive terminal editor.

Place stickers from the palette, drag them around, and let overlap and
proximity detection group them into fusions and chains. Applying the
composition sends it to the configured image-generation service and
commits the result to the session history (undo/redo).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			model, err := newEditorModel(cmd.Context(), c, args[0], artifact, savePath, noCache)
			if err != nil {
				return err
			}

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
			final, err := p.Run()
			if err != nil {
				return err
			}

			if m, ok := final.(editorModel); ok {
				return m.finish()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&savePath, "save", "", "write the marker document to this path on exit")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the generation response cache")

	return cmd
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mlehnert/stickerforge/pkg/relate"
	"github.com/mlehnert/stickerforge/pkg/render"
	"github.com/mlehnert/stickerforge/pkg/sticker"
)

// previewCommand creates the preview command: composite a saved marker
// document over a photo without calling the generation service.
func (c *CLI) previewCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "preview <photo> <markers.json>",
		Short: "Composite markers over a photo as a PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			set, err := sticker.ReadSetFile(args[1])
			if err != nil {
				return err
			}

			result := relate.Detect(set.Markers, set.BrokenSet(), set.Container)
			loggerFromContext(cmd.Context()).Debug("compositing preview",
				"markers", len(set.Markers),
				"fusions", len(result.Fusions),
				"chains", len(result.Chains))
			out, err := render.Compose(artifact, set.Markers, result)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, out, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Preview written")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "preview.png", "output PNG path")

	return cmd
}

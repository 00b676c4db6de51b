package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/mlehnert/stickerforge/pkg/errors"
	"github.com/mlehnert/stickerforge/pkg/genai"
	"github.com/mlehnert/stickerforge/pkg/relate"
	"github.com/mlehnert/stickerforge/pkg/sticker"
)

// applyCommand creates the apply command: run relationship detection over
// a saved marker document and send the composition to the generation
// service in one shot, without the interactive editor.
func (c *CLI) applyCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "apply <photo> <markers.json>",
		Short: "Apply a saved marker document to a photo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			artifact, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			set, err := sticker.ReadSetFile(args[1])
			if err != nil {
				return err
			}
			if len(set.Markers) == 0 {
				return apperrors.New(apperrors.ErrCodeEmptyInput, "no stickers placed")
			}

			result := relate.Detect(set.Markers, set.BrokenSet(), set.Container)
			placements := genai.Placements(set.Markers, result)
			c.Logger.Debug("composition",
				"fusions", len(result.Fusions),
				"chains", len(result.Chains),
				"placements", len(placements))

			client := c.newGenClient(ctx, noCache)

			spin := newSpinnerWithContext(ctx, "Applying stickers...")
			spin.Start()
			generated, err := client.Generate(ctx, genai.Request{
				Artifact:   artifact,
				Placements: placements,
			})
			if err != nil {
				spin.StopWithError(fmt.Sprintf("Failed to apply the stickers. %s", apperrors.UserMessage(err)))
				return err
			}
			spin.StopWithSuccess("Stickers applied")

			if err := os.WriteFile(output, generated, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "generated.png", "output image path")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the generation response cache")

	return cmd
}

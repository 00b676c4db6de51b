package cli

import (
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/mlehnert/stickerforge/pkg/render"
)

// cropCommand creates the crop command: extract a pixel region from a
// photo in source-image pixel space.
func (c *CLI) cropCommand() *cobra.Command {
	var (
		output string
		region []int
		scale  float64
	)

	cmd := &cobra.Command{
		Use:   "crop <photo>",
		Short: "Extract a pixel region from a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(region) != 4 {
				return fmt.Errorf("--region requires x,y,width,height")
			}

			artifact, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			rect := image.Rect(region[0], region[1], region[0]+region[2], region[1]+region[3])
			if scale != 1 {
				rect = render.DisplayToSource(
					float64(region[0]), float64(region[1]),
					float64(region[2]), float64(region[3]), scale)
			}

			loggerFromContext(cmd.Context()).Debug("cropping", "rect", rect, "scale", scale)
			out, err := render.Crop(artifact, rect)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, out, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Cropped %dx%d region", rect.Dx(), rect.Dy())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "cropped.png", "output PNG path")
	cmd.Flags().IntSliceVarP(&region, "region", "r", nil, "region as x,y,width,height")
	cmd.Flags().Float64Var(&scale, "scale", 1, "display-to-source scale factor (device pixel ratio)")

	return cmd
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlehnert/stickerforge/pkg/relate"
	"github.com/mlehnert/stickerforge/pkg/sticker"
)

// relateCommand creates the relate command: run relationship detection
// over a saved marker document and report the result.
func (c *CLI) relateCommand() *cobra.Command {
	var (
		dotOut string
		svgOut string
	)

	cmd := &cobra.Command{
		Use:   "relate <markers.json>",
		Short: "Report fusions and chains for a saved marker document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := sticker.ReadSetFile(args[0])
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			result := relate.Detect(set.Markers, set.BrokenSet(), set.Container)
			prog.done(fmt.Sprintf("Detected %d fusions, %d chains over %d markers",
				len(result.Fusions), len(result.Chains), len(set.Markers)))

			printReport(set, result)

			if dotOut != "" || svgOut != "" {
				dot := relate.ToDOT(set.Markers, set.BrokenSet(), set.Container)
				if dotOut != "" {
					if err := os.WriteFile(dotOut, []byte(dot), 0644); err != nil {
						return fmt.Errorf("write %s: %w", dotOut, err)
					}
					printFile(dotOut)
				}
				if svgOut != "" {
					spin := newSpinner("Rendering SVG...")
					spin.Start()
					svg, err := relate.RenderSVG(dot)
					if err != nil {
						spin.StopWithError("Rendering failed")
						return err
					}
					spin.StopWithSuccess("SVG rendered")
					if err := os.WriteFile(svgOut, svg, 0644); err != nil {
						return fmt.Errorf("write %s: %w", svgOut, err)
					}
					printFile(svgOut)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dotOut, "dot", "", "write the relationship graph as Graphviz DOT")
	cmd.Flags().StringVar(&svgOut, "svg", "", "render the relationship graph as SVG")

	return cmd
}

// printReport prints the detection result grouped by component kind.
func printReport(set sticker.Set, result relate.Result) {
	tags := make(map[string]string, len(set.Markers))
	for _, m := range set.Markers {
		tags[m.ID] = m.Tag
	}

	if result.Empty() {
		printInfo("No relationships detected")
		return
	}

	for i, f := range result.Fusions {
		printSuccess("Fusion %d: %s", i+1, componentLabel(f, tags))
	}
	for i, ch := range result.Chains {
		printInfo("Chain %d: %s", i+1, componentLabel(ch, tags))
	}

	claimed := result.Claimed()
	var singles []string
	for _, m := range set.Markers {
		if !claimed[m.ID] {
			singles = append(singles, m.Tag)
		}
	}
	if len(singles) > 0 {
		printDetail("Singles: %s", strings.Join(singles, " "))
	}
}

func componentLabel(comp relate.Component, tags map[string]string) string {
	parts := make([]string, len(comp))
	for i, id := range comp {
		parts[i] = tags[id]
	}
	return strings.Join(parts, " + ")
}

package relate

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mlehnert/stickerforge/pkg/geo"
	"github.com/mlehnert/stickerforge/pkg/sticker"
)

// ToDOT converts the relationship graph over the given markers to Graphviz
// DOT format. Fusion edges are drawn solid, chain edges dashed; markers in
// the broken-link set are greyed out. The result can be rendered with
// [RenderSVG].
func ToDOT(markers []sticker.Marker, broken map[string]bool, c geo.Container) string {
	var buf bytes.Buffer
	buf.WriteString("graph relationships {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=18];\n")
	buf.WriteString("\n")

	for _, m := range markers {
		attrs := []string{fmt.Sprintf("label=%q", m.Tag)}
		if broken[m.ID] {
			attrs = append(attrs, "fillcolor=lightgrey", "fontcolor=grey")
		}
		if c.Valid() {
			x, y := c.Pixels(m.Pos)
			// neato positions are in points with y growing upward.
			attrs = append(attrs, fmt.Sprintf("pos=\"%.0f,%.0f!\"", x/4, -y/4))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", m.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := range markers {
		for j := i + 1; j < len(markers); j++ {
			a, b := markers[i], markers[j]
			switch {
			case Overlaps(a, b, c):
				fmt.Fprintf(&buf, "  %q -- %q [color=crimson, penwidth=2];\n", a.ID, b.ID)
			case Connects(a, b, c) && !broken[a.ID] && !broken[b.ID]:
				fmt.Fprintf(&buf, "  %q -- %q [style=dashed, color=steelblue];\n", a.ID, b.ID)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

package genai

import (
	"fmt"
	"strings"
)

// Instruction formats a structured placement list into the instruction
// text sent to the service. It is a pure function: identical placements
// always produce identical text.
func Instruction(placements []Placement) string {
	if len(placements) == 0 {
		return ""
	}
	lines := make([]string, 0, len(placements))
	for _, p := range placements {
		lines = append(lines, describe(p))
	}
	return strings.Join(lines, " ")
}

func describe(p Placement) string {
	where := fmt.Sprintf("positioned at %.0f%% across and %.0f%% down", p.Pos.X, p.Pos.Y)
	switch p.Kind {
	case KindFusion:
		return fmt.Sprintf("Blend %s into a single combined element, %s size, %s, with %s impact.",
			joinTags(p.Tags), p.Size, where, p.Impact)
	case KindChain:
		return fmt.Sprintf("Repeat %s as a connected series of %s elements centered %s, with %s impact.",
			joinTags(p.Tags), p.Size, where, p.Impact)
	default:
		return fmt.Sprintf("Add a %s %s element %s, with %s impact.",
			p.Size, joinTags(p.Tags), where, p.Impact)
	}
}

func joinTags(tags []string) string {
	switch len(tags) {
	case 0:
		return "an element"
	case 1:
		return tags[0]
	case 2:
		return tags[0] + " and " + tags[1]
	default:
		return strings.Join(tags[:len(tags)-1], ", ") + ", and " + tags[len(tags)-1]
	}
}

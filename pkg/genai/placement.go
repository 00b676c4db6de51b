package genai

import (
	"github.com/mlehnert/stickerforge/pkg/geo"
	"github.com/mlehnert/stickerforge/pkg/relate"
	"github.com/mlehnert/stickerforge/pkg/sticker"
)

// Placements converts the current marker set and detection result into
// placement descriptors for a generation request: one fusion descriptor
// per fusion component, one chain descriptor per chain component, and a
// single descriptor for every marker claimed by neither.
//
// Group descriptors average the members' positions and sizes; the impact
// level of the first member represents the group. Order follows marker
// iteration order, groups first.
func Placements(markers []sticker.Marker, rel relate.Result) []Placement {
	byID := make(map[string]sticker.Marker, len(markers))
	for _, m := range markers {
		byID[m.ID] = m
	}

	var out []Placement
	for _, f := range rel.Fusions {
		out = append(out, groupPlacement(KindFusion, f, byID))
	}
	for _, c := range rel.Chains {
		out = append(out, groupPlacement(KindChain, c, byID))
	}

	claimed := rel.Claimed()
	for _, m := range markers {
		if claimed[m.ID] {
			continue
		}
		out = append(out, Placement{
			Kind:   KindSingle,
			Tags:   []string{m.Tag},
			Pos:    m.Pos,
			Size:   sticker.Categorize(m.Size),
			Impact: m.Impact,
		})
	}
	return out
}

func groupPlacement(kind Kind, comp relate.Component, byID map[string]sticker.Marker) Placement {
	var (
		tags   []string
		sumX   float64
		sumY   float64
		sumSz  float64
		n      float64
		impact sticker.Impact
	)
	for _, id := range comp {
		m, ok := byID[id]
		if !ok {
			continue
		}
		if impact == "" {
			impact = m.Impact
		}
		if kind == KindFusion || len(tags) == 0 {
			tags = appendUnique(tags, m.Tag)
		}
		sumX += m.Pos.X
		sumY += m.Pos.Y
		sumSz += m.Size
		n++
	}
	if n == 0 {
		return Placement{Kind: kind, Impact: sticker.DefaultImpact}
	}
	return Placement{
		Kind:   kind,
		Tags:   tags,
		Pos:    geo.Pos{X: sumX / n, Y: sumY / n},
		Size:   sticker.Categorize(sumSz / n),
		Impact: impact,
	}
}

func appendUnique(tags []string, tag string) []string {
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}

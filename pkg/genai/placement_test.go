package genai

import (
	"reflect"
	"testing"

	"github.com/mlehnert/stickerforge/pkg/geo"
	"github.com/mlehnert/stickerforge/pkg/relate"
	"github.com/mlehnert/stickerforge/pkg/sticker"
)

func mk(id, tag string, x, y, size float64) sticker.Marker {
	return sticker.Marker{
		ID:     id,
		Tag:    tag,
		Pos:    geo.Pos{X: x, Y: y},
		Size:   size,
		Impact: sticker.DefaultImpact,
	}
}

func TestPlacementsSinglesOnly(t *testing.T) {
	markers := []sticker.Marker{
		mk("a", "🔥", 10, 20, 48),
		mk("b", "⭐", 80, 90, 170),
	}

	got := Placements(markers, relate.Result{})

	want := []Placement{
		{Kind: KindSingle, Tags: []string{"🔥"}, Pos: geo.Pos{X: 10, Y: 20}, Size: sticker.SizeSmall, Impact: sticker.ImpactSubtle},
		{Kind: KindSingle, Tags: []string{"⭐"}, Pos: geo.Pos{X: 80, Y: 90}, Size: sticker.SizeLarge, Impact: sticker.ImpactSubtle},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Placements() = %+v, want %+v", got, want)
	}
}

func TestPlacementsFusionAveragesMembers(t *testing.T) {
	markers := []sticker.Marker{
		mk("a", "🔥", 40, 40, 48),
		mk("b", "⭐", 60, 60, 80),
	}
	markers[0].Impact = sticker.ImpactTotal
	rel := relate.Result{Fusions: []relate.Component{{"a", "b"}}}

	got := Placements(markers, rel)

	if len(got) != 1 {
		t.Fatalf("Placements() = %d descriptors, want 1", len(got))
	}
	p := got[0]
	if p.Kind != KindFusion {
		t.Errorf("Kind = %v, want fusion", p.Kind)
	}
	if !reflect.DeepEqual(p.Tags, []string{"🔥", "⭐"}) {
		t.Errorf("Tags = %v, want both tags", p.Tags)
	}
	if p.Pos != (geo.Pos{X: 50, Y: 50}) {
		t.Errorf("Pos = %+v, want averaged 50,50", p.Pos)
	}
	if p.Size != sticker.SizeMedium { // avg 64
		t.Errorf("Size = %v, want medium", p.Size)
	}
	if p.Impact != sticker.ImpactTotal {
		t.Errorf("Impact = %v, want first member's total", p.Impact)
	}
}

func TestPlacementsChainUsesSingleTag(t *testing.T) {
	markers := []sticker.Marker{
		mk("a", "🌊", 10, 50, 48),
		mk("b", "🌊", 20, 50, 48),
		mk("c", "🌊", 30, 50, 48),
	}
	rel := relate.Result{Chains: []relate.Component{{"a", "b", "c"}}}

	got := Placements(markers, rel)

	if len(got) != 1 {
		t.Fatalf("Placements() = %d descriptors, want 1", len(got))
	}
	if !reflect.DeepEqual(got[0].Tags, []string{"🌊"}) {
		t.Errorf("Tags = %v, want the one shared tag", got[0].Tags)
	}
	if got[0].Pos != (geo.Pos{X: 20, Y: 50}) {
		t.Errorf("Pos = %+v, want centroid 20,50", got[0].Pos)
	}
}

func TestPlacementsGroupsBeforeSingles(t *testing.T) {
	markers := []sticker.Marker{
		mk("solo", "🎈", 90, 10, 48),
		mk("a", "🔥", 40, 40, 48),
		mk("b", "⭐", 42, 40, 48),
	}
	rel := relate.Result{Fusions: []relate.Component{{"a", "b"}}}

	got := Placements(markers, rel)

	if len(got) != 2 {
		t.Fatalf("Placements() = %d descriptors, want 2", len(got))
	}
	if got[0].Kind != KindFusion || got[1].Kind != KindSingle {
		t.Errorf("order = %v, %v; want fusion then single", got[0].Kind, got[1].Kind)
	}
	if !reflect.DeepEqual(got[1].Tags, []string{"🎈"}) {
		t.Errorf("single tags = %v, want 🎈", got[1].Tags)
	}
}

func TestPlacementsEmpty(t *testing.T) {
	if got := Placements(nil, relate.Result{}); len(got) != 0 {
		t.Errorf("Placements(nil) = %v, want none", got)
	}
}

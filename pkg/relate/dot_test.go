package relate

import (
	"strings"
	"testing"

	"github.com/mlehnert/stickerforge/pkg/geo"
	"github.com/mlehnert/stickerforge/pkg/sticker"
)

func TestToDOT(t *testing.T) {
	markers := []sticker.Marker{
		mk("a", "🔥", 50, 50),
		mk("s", "⭐", 50, 50),
		mk("b", "🌊", 10, 10),
		mk("c", "🌊", 15, 10),
	}

	dot := ToDOT(markers, map[string]bool{"c": true}, testContainer)

	if !strings.HasPrefix(dot, "graph relationships {") {
		t.Errorf("DOT header missing: %q", dot[:40])
	}
	if !strings.Contains(dot, `"a" -- "s" [color=crimson`) {
		t.Error("fusion edge missing")
	}
	if strings.Contains(dot, `"b" -- "c"`) {
		t.Error("chain edge drawn despite broken link")
	}
	if !strings.Contains(dot, "fillcolor=lightgrey") {
		t.Error("broken marker not greyed out")
	}
	for _, id := range []string{"a", "s", "b", "c"} {
		if !strings.Contains(dot, `"`+id+`" [`) {
			t.Errorf("node %s missing", id)
		}
	}
}

func TestToDOTChainEdge(t *testing.T) {
	markers := []sticker.Marker{
		mk("b", "🌊", 10, 10),
		mk("c", "🌊", 15, 10),
	}

	dot := ToDOT(markers, nil, testContainer)

	if !strings.Contains(dot, `"b" -- "c" [style=dashed`) {
		t.Error("chain edge missing")
	}
}

func TestToDOTUnmeasuredContainerOmitsPositions(t *testing.T) {
	markers := []sticker.Marker{mk("a", "🔥", 50, 50)}

	dot := ToDOT(markers, nil, geo.Container{})

	if strings.Contains(dot, "pos=") {
		t.Error("position pin emitted for an unmeasured container")
	}
}

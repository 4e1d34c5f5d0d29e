package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matsen/citegraph/internal/paper"
)

func TestWriteGraphML(t *testing.T) {
	g := &Graph{
		Nodes: []paper.Paper{
			{
				OpenAlexID:   "W1",
				DOI:          "10.1/a",
				Title:        "A study",
				Year:         2020,
				InCollection: true,
				Tally:        paper.Tally{Supporting: 2, Total: 3},
			},
			{OpenAlexID: "W2", InCollection: true}, // no DOI, no title, no year
		},
		Edges: []paper.Edge{{CitingID: "W1", CitedID: "W2"}},
	}

	var buf bytes.Buffer
	if err := WriteGraphML(&buf, g); err != nil {
		t.Fatalf("WriteGraphML() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<graphml xmlns="http://graphml.graphdrawing.org/xmlns">`,
		`attr.name="doi"`,
		`attr.name="scite_citingPublications"`,
		`edgedefault="directed"`,
		`<node id="W1">`,
		`<data key="d0">10.1/a</data>`,
		`<data key="d2">2020</data>`,
		`<data key="d3">true</data>`,
		`<data key="d4">2</data>`,
		`<edge source="W1" target="W2">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	// Missing year serializes as an empty element, never a NaN sentinel.
	if !strings.Contains(out, `<data key="d2"></data>`) {
		t.Errorf("missing year should serialize as empty string\n%s", out)
	}
	if strings.Contains(out, "NaN") {
		t.Error("output contains a NaN sentinel")
	}
}

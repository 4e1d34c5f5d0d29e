package roles

import (
	"testing"

	"github.com/matsen/citegraph/internal/paper"
)

func TestValidRole(t *testing.T) {
	for _, r := range []Role{RoleSupport, RoleDispute, RoleBackground, RoleMethod} {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%s) = false", r)
		}
	}
	if ValidRole("NEUTRAL") {
		t.Error("ValidRole(NEUTRAL) = true, want false")
	}
	if ValidRole("support") {
		t.Error("roles are case-sensitive uppercase tokens")
	}
}

func TestRenderableEdges(t *testing.T) {
	edges := []paper.Edge{
		{CitingID: "W1", CitedID: "W2"},
		{CitingID: "W1", CitedID: "W3"},
		{CitingID: "W2", CitedID: "W1"}, // reverse pair: distinct ordered pair
	}
	anns := []Annotation{
		{CitingID: "W1", CitedID: "W2", Role: RoleSupport},
		{CitingID: "W2", CitedID: "W1", Role: RoleMethod},
	}

	renderable := RenderableEdges(edges, anns)
	if len(renderable) != 2 {
		t.Fatalf("got %d renderable edges, want 2", len(renderable))
	}
	for _, e := range renderable {
		if e.CitedID == "W3" {
			t.Error("edge without annotation must not be renderable")
		}
	}
}

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Classification
		wantErr bool
	}{
		{
			name:    "valid",
			content: `{"role":"SUPPORT","confidence":0.9,"reason":"extends the result"}`,
			want:    Classification{Role: RoleSupport, Confidence: 0.9, Reason: "extends the result"},
		},
		{
			name:    "unknown role coerces to background",
			content: `{"role":"WHATEVER","confidence":0.8,"reason":"x"}`,
			want:    Classification{Role: RoleBackground, Confidence: 0.8, Reason: "x"},
		},
		{
			name:    "missing confidence defaults",
			content: `{"role":"METHOD","reason":"uses the assay"}`,
			want:    Classification{Role: RoleMethod, Confidence: 0.5, Reason: "uses the assay"},
		},
		{
			name:    "confidence clamped",
			content: `{"role":"DISPUTE","confidence":3.0}`,
			want:    Classification{Role: RoleDispute, Confidence: 1},
		},
		{
			name:    "non-numeric confidence defaults",
			content: `{"role":"SUPPORT","confidence":"high"}`,
			want:    Classification{Role: RoleSupport, Confidence: 0.5},
		},
		{
			name:    "not json",
			content: `I think this citation is supportive.`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClassification(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClassification() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseClassification() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

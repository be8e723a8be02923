package assist

import (
	"context"
	"testing"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/geometry"
)

func fields(ambiguities []Ambiguity) map[string]bool {
	out := make(map[string]bool)
	for _, a := range ambiguities {
		out[a.Field] = true
	}
	return out
}

func TestDetectAmbiguities(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []string
		wantNot []string
	}{
		{
			name: "bare box prompt",
			text: "make a box",
			want: []string{"dimensions", "material"},
		},
		{
			name:    "fully specified box",
			text:    "steel box 100mm x 50mm x 10mm",
			wantNot: []string{"dimensions", "material"},
		},
		{
			name: "bracket without orientation",
			text: "aluminum mounting bracket 80mm x 40mm x 5mm",
			want: []string{"orientation"},
		},
		{
			name: "hole without placement",
			text: "steel plate 100mm 50mm 10mm with a 6mm hole",
			want: []string{"hole_placement"},
		},
		{
			name:    "hole in the center",
			text:    "steel plate 100mm 50mm 10mm with a 6mm hole in the center",
			wantNot: []string{"hole_placement"},
		},
		{
			name: "gear without teeth",
			text: "steel gear 60mm diameter",
			want: []string{"teeth"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := geometry.Parse(tt.text)
			got := fields(DetectAmbiguities(tt.text, p))
			for _, f := range tt.want {
				if !got[f] {
					t.Errorf("expected ambiguity %q, got %v", f, got)
				}
			}
			for _, f := range tt.wantNot {
				if got[f] {
					t.Errorf("did not expect ambiguity %q", f)
				}
			}
		})
	}
}

func TestChatWithoutKey(t *testing.T) {
	a := NewAssistant("", "gpt-4", 0.2)
	if a.Enabled() {
		t.Error("assistant without key should be disabled")
	}
	if _, err := a.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}); err != ErrUnavailable {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestSuggestedPrompts(t *testing.T) {
	for _, shape := range []geometry.Shape{geometry.ShapeBox, geometry.ShapeGear, geometry.ShapeSphere} {
		if len(SuggestedPrompts(shape)) == 0 {
			t.Errorf("no suggestions for %s", shape)
		}
	}
}

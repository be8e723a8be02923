package assist

import (
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/geometry"
)

// Ambiguity is one underspecified aspect of a prompt, phrased as a question
// the UI can put to the user before generating.
type Ambiguity struct {
	Field    string   `json:"field"`
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
}

var orientationWords = []string{"horizontal", "vertical", "flat", "upright", "standing", "lying"}

var placementWords = []string{"center", "centre", "corner", "edge", "offset", "middle", "at ("}

var materialWords = []string{"steel", "aluminum", "aluminium", "brass", "titanium", "pla", "abs", "plastic", "metal"}

// DetectAmbiguities inspects the raw prompt alongside its parse and flags
// the gaps the defaults papered over. The parse always succeeds, so this is
// advisory only.
func DetectAmbiguities(text string, p geometry.Parsed) []Ambiguity {
	lower := strings.ToLower(text)
	tokens := tokenize(lower)

	ambiguities := []Ambiguity{}

	numbers := countNumericTokens(tokens)

	switch p.Shape {
	case geometry.ShapeBox:
		if numbers < 3 {
			ambiguities = append(ambiguities, Ambiguity{
				Field:    "dimensions",
				Question: "A box needs length, width and height. Which dimensions should I use?",
				Options:  []string{"50x50x10mm (default plate)", "100x50x25mm", "specify your own"},
			})
		}
		if containsAny(lower, []string{"bracket", "plate", "mount"}) && !containsAny(lower, orientationWords) {
			ambiguities = append(ambiguities, Ambiguity{
				Field:    "orientation",
				Question: "Should the part lie flat or stand upright?",
				Options:  []string{"flat", "upright"},
			})
		}
	case geometry.ShapeCylinder, geometry.ShapeCone:
		if numbers < 2 {
			ambiguities = append(ambiguities, Ambiguity{
				Field:    "dimensions",
				Question: "I need a diameter and a height. Which should I use?",
			})
		}
	case geometry.ShapeGear:
		if !strings.Contains(lower, "teeth") && !strings.Contains(lower, "tooth") {
			ambiguities = append(ambiguities, Ambiguity{
				Field:    "teeth",
				Question: "How many teeth should the gear have?",
				Options:  []string{"12", "20", "36"},
			})
		}
	}

	if len(p.Features.Holes) > 0 && !containsAny(lower, placementWords) {
		ambiguities = append(ambiguities, Ambiguity{
			Field:    "hole_placement",
			Question: "Where should the hole go? I will center it unless you say otherwise.",
			Options:  []string{"center", "each corner", "custom position"},
		})
	}

	if !containsAny(lower, materialWords) {
		ambiguities = append(ambiguities, Ambiguity{
			Field:    "material",
			Question: "What material is this part for? It affects weight and cost estimates.",
			Options:  []string{"steel", "aluminum", "pla", "abs"},
		})
	}

	return ambiguities
}

// tokenize runs the NLP tokenizer, falling back to whitespace splitting if
// the model fails to load.
func tokenize(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return strings.Fields(text)
	}

	tokens := doc.Tokens()
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Text)
	}
	return out
}

func countNumericTokens(tokens []string) int {
	count := 0
	for _, t := range tokens {
		if len(t) > 0 && t[0] >= '0' && t[0] <= '9' {
			count++
		}
	}
	return count
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// SuggestedPrompts returns example follow-up prompts for the current shape,
// shown in the chat panel.
func SuggestedPrompts(shape geometry.Shape) []string {
	switch shape {
	case geometry.ShapeBox:
		return []string{
			"make it 20% larger",
			"add a 6mm hole",
			"add 2mm fillet to the edges",
		}
	case geometry.ShapeCylinder:
		return []string{
			"double the height",
			"set the diameter to 40",
			"add a chamfer",
		}
	case geometry.ShapeGear:
		return []string{
			"set the teeth to 36",
			"make it 10% smaller",
			"increase the thickness",
		}
	default:
		return []string{
			"make it larger",
			"add a hole",
			"what material should I use?",
		}
	}
}

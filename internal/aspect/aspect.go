package aspect

import (
	"context"
	"fmt"
	"strings"
)

// Other is the aspect used when a review fits none of its category's aspects
// or when no tagger answer is available.
const Other = "Other"

// Tagger names the single most prominent aspect of a review, conditioned on
// the attraction category.
type Tagger interface {
	Tag(ctx context.Context, text, category string) (string, error)
}

var categoryAspects = map[string][]string{
	"Religious Place": {"Aesthetics", "Scenery", "Atmosphere", "Spirituality", "Location"},
	"Nature":          {"Atmosphere", "Cleanliness", "Nature", "Scenery", "Aesthetics"},
	"Museum":          {"Dinosaurs", "Educational", "Cleanliness", "Family-friendly"},
	"Zoos":            {"Animals", "Price", "Service", "Cleanliness", "Atmosphere"},
	"Parks":           {"Atmosphere", "Aesthetics", "Relaxation", "Exercise", "Cleanliness", "Weather"},
	"Markets":         {"Food", "Atmosphere", "Price", "Parking", "Shopping"},
	"Homestay":        {"Service", "Atmosphere", "Cleanliness", "Room", "Food"},
	"Historic Site":   {"Aesthetics", "Atmosphere", "History"},
}

// Cafés and any category not listed above.
var defaultAspects = []string{"Desserts and drinks", "Atmosphere", "Service", "Price"}

// Aspects returns the aspects a review in category may be tagged with.
func Aspects(category string) []string {
	if a, ok := categoryAspects[category]; ok {
		return a
	}
	return defaultAspects
}

// Prompt builds the tagging instruction for one review.
func Prompt(text, category string) string {
	return fmt.Sprintf(`Analyze the following review text: '%s'. Your task is to classify the single most prominent aspect discussed in the text. You must respond with only one word, chosen from this exact list of categories: %s. If the review content does not clearly and strongly align with any of these options, respond with %s.`,
		text, strings.Join(Aspects(category), ", "), Other)
}

// Strip trims a raw model answer, falling back to Other when it is empty.
func Strip(answer string) string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Other
	}
	return answer
}

// Nop tags every review as Other. It stands in when no model is configured.
type Nop struct{}

func (Nop) Tag(context.Context, string, string) (string, error) {
	return Other, nil
}

// Package segments classifies group aggregates into performance categories
// relative to the current filtered view, and derives ranked insights from
// the classification.
//
// Category thresholds are the medians of the entity set being classified,
// so labels are relative: the same page can move category when the filters
// change. That is the contract, not an accident - categories answer "how
// does this entity perform within the current view".
package segments

import (
	"sort"

	"trafficlens/internal/analytics"
)

// Category is the four-quadrant performance label.
type Category string

const (
	CategoryStarPerformer            Category = "Star Performer"
	CategoryHighTrafficLowConversion Category = "High Traffic / Low Conversion"
	CategoryHiddenGem                Category = "Hidden Gem"
	CategoryNeedsAttention           Category = "Needs Attention"
)

// recommendedActions is the fixed category-to-action mapping.
var recommendedActions = map[Category]string{
	CategoryStarPerformer:            "Maintain momentum; use as a template for weaker pages",
	CategoryHighTrafficLowConversion: "Run A/B tests on calls to action and page layout",
	CategoryHiddenGem:                "Increase visibility through internal linking and campaigns",
	CategoryNeedsAttention:           "Review content relevance, load speed and calls to action",
}

// RecommendedAction returns the fixed action text for the category.
func (c Category) RecommendedAction() string {
	return recommendedActions[c]
}

// Priority orders categories by actionability; 1 is the most actionable.
func (c Category) Priority() int {
	switch c {
	case CategoryNeedsAttention:
		return 1
	case CategoryHighTrafficLowConversion:
		return 2
	case CategoryHiddenGem:
		return 3
	default:
		return 4
	}
}

// Assignment attaches a category to a group aggregate.
type Assignment struct {
	analytics.GroupAggregate
	Category          Category `json:"category"`
	RecommendedAction string   `json:"recommended_action"`
}

// Median returns the standard median of the values; with an even count the
// two middle values are averaged. An empty input yields 0.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Classify partitions the entity set into the four categories using the
// set's own session and conversion-rate medians. Comparisons are inclusive:
// an entity sitting exactly on both medians is a Star Performer. Every
// entity receives exactly one category; an empty input yields an empty
// result.
func Classify(groups []analytics.GroupAggregate) []Assignment {
	if len(groups) == 0 {
		return []Assignment{}
	}

	sessions := make([]float64, len(groups))
	rates := make([]float64, len(groups))
	for i, g := range groups {
		sessions[i] = float64(g.Sessions)
		rates[i] = g.ConversionRate
	}
	sessionMedian := Median(sessions)
	rateMedian := Median(rates)

	assignments := make([]Assignment, len(groups))
	for i, g := range groups {
		highTraffic := float64(g.Sessions) >= sessionMedian
		highConversion := g.ConversionRate >= rateMedian

		var category Category
		switch {
		case highTraffic && highConversion:
			category = CategoryStarPerformer
		case highTraffic:
			category = CategoryHighTrafficLowConversion
		case highConversion:
			category = CategoryHiddenGem
		default:
			category = CategoryNeedsAttention
		}

		assignments[i] = Assignment{
			GroupAggregate:    g,
			Category:          category,
			RecommendedAction: category.RecommendedAction(),
		}
	}

	return assignments
}

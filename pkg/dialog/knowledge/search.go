package knowledge

import (
	"log"
	"strings"
)

// FoundThreshold is the minimum confidence for a lookup to count as a hit.
// Below it the caller should escalate to open-ended generation.
const FoundThreshold = 0.65

const (
	baseConfidence     = 0.6
	subcategoryWeight  = 0.2
	questionWordBonus  = 0.15
	actionWordBonus    = 0.1
)

var questionWords = []string{"was", "wie", "warum", "wieso", "welche", "what", "how", "why", "which"}
var actionWords = []string{"möchte", "will", "brauche", "want", "need"}

// Result is the outcome of a knowledge base lookup.
type Result struct {
	Found       bool    `json:"found"`
	Category    string  `json:"category,omitempty"`
	Subcategory string  `json:"subcategory,omitempty"`
	Confidence  float64 `json:"confidence"`
	Answer      string  `json:"answer,omitempty"`
}

// Searcher scores a message against the static category/subcategory tables.
type Searcher struct {
	categories []Category
	logger     *log.Logger
}

func NewSearcher(categories []Category, logger *log.Logger) *Searcher {
	return &Searcher{categories: categories, logger: logger}
}

// Search finds the best (category, subcategory) combination for the message.
// Matching is case-insensitive substring containment, not tokenized; ties
// resolve to the first category evaluated.
func (s *Searcher) Search(message string) Result {
	norm := strings.ToLower(message)

	bonus := 0.0
	if containsAny(norm, questionWords) {
		bonus += questionWordBonus
	}
	if containsAny(norm, actionWords) {
		bonus += actionWordBonus
	}

	best := Result{}
	for _, cat := range s.categories {
		if !containsAny(norm, cat.Keywords) {
			continue
		}

		subMatched := false
		for _, sub := range cat.Subcategories {
			hits := countMatches(norm, sub.Keywords)
			if hits == 0 {
				continue
			}
			subMatched = true
			conf := clamp(baseConfidence + subcategoryWeight*float64(hits) + bonus)
			if conf > best.Confidence {
				best = Result{
					Category:    cat.Name,
					Subcategory: sub.Name,
					Confidence:  conf,
					Answer:      sub.Answer,
				}
			}
		}

		// Category gate matched but no subcategory: fall back to the first
		// entry at category-level confidence.
		if !subMatched && len(cat.Subcategories) > 0 {
			conf := clamp(baseConfidence + bonus)
			if conf > best.Confidence {
				best = Result{
					Category:    cat.Name,
					Subcategory: cat.Subcategories[0].Name,
					Confidence:  conf,
					Answer:      cat.Subcategories[0].Answer,
				}
			}
		}
	}

	best.Found = best.Confidence >= FoundThreshold
	if !best.Found {
		// Keep the score for diagnostics but drop the tentative answer.
		best.Answer = ""
	}
	if s.logger != nil {
		s.logger.Printf("[KB] query=%q category=%s/%s confidence=%.2f found=%v",
			truncate(message, 60), best.Category, best.Subcategory, best.Confidence, best.Found)
	}
	return best
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func countMatches(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

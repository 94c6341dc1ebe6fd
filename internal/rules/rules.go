// Package rules implements keyword and pattern scoring over short texts.
//
// Two consumers share this machinery: the emotion classifier scores a
// response against affect categories, and the static knowledge base picks a
// topic category for a query. Both were historically near-identical scoring
// loops; they now differ only in their category tables and selection rule.
package rules

import "regexp"

// Category is one scored bucket: a name, a keyword set, an optional
// pattern set, and an optional canned response template.
type Category struct {
	Name     string
	Keywords []string
	Patterns []*regexp.Regexp
	Template string
}

// Matcher scores lowercased text against an ordered category list.
// Declaration order is significant: ties and first-match queries resolve
// in favor of earlier categories.
type Matcher struct {
	categories []Category
}

// NewMatcher builds a matcher over the given categories. The slice is
// retained; callers must not mutate it afterwards.
func NewMatcher(categories []Category) *Matcher {
	return &Matcher{categories: categories}
}

// Categories returns the category table in declaration order.
func (m *Matcher) Categories() []Category {
	return m.categories
}

// Scores computes a base score per category over already-lowercased text:
// one point per keyword occurrence plus two points per pattern match.
// Patterns weigh double because they capture syntactic context rather than
// bare vocabulary. The result is index-aligned with Categories.
func (m *Matcher) Scores(lowered string) []int {
	scores := make([]int, len(m.categories))
	for i, cat := range m.categories {
		score := 0
		for _, kw := range cat.Keywords {
			score += countOccurrences(lowered, kw)
		}
		for _, pat := range cat.Patterns {
			score += 2 * len(pat.FindAllStringIndex(lowered, -1))
		}
		scores[i] = score
	}
	return scores
}

// Best selects the category with the maximum score, breaking ties by
// declaration order. ok is false when every score is zero.
func (m *Matcher) Best(scores []int) (Category, bool) {
	bestIdx, bestScore := -1, 0
	for i, s := range scores {
		if s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	if bestIdx < 0 {
		return Category{}, false
	}
	return m.categories[bestIdx], true
}

// FirstMatch returns the first category (declaration order) with any
// keyword contained in the lowercased text. Used by the topic fallback,
// where first-match-wins is the contract rather than best-score.
func (m *Matcher) FirstMatch(lowered string) (Category, bool) {
	for _, cat := range m.categories {
		for _, kw := range cat.Keywords {
			if containsWord(lowered, kw) {
				return cat, true
			}
		}
	}
	return Category{}, false
}

// countOccurrences counts non-overlapping occurrences of sub in s.
func countOccurrences(s, sub string) int {
	if sub == "" {
		return 0
	}
	count := 0
	for i := 0; i+len(sub) <= len(s); {
		if s[i:i+len(sub)] == sub {
			count++
			i += len(sub)
			continue
		}
		i++
	}
	return count
}

// containsWord reports whether sub occurs anywhere in s. Plain substring
// containment is deliberately permissive ("ml" matches inside "html" too);
// the keyword tables are tuned with that in mind.
func containsWord(s, sub string) bool {
	return countOccurrences(s, sub) > 0
}

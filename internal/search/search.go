// Package search ranks settings against a typed query.
//
// A query matches a setting when its runes appear in order, ignoring case,
// in the setting's name or in its display label. Each field is scored on
// its own and the better one counts. Scores favor:
//   - consecutive matched runes
//   - matches at word starts, after "_", spaces or punctuation
//   - a query that is a prefix of the field
//   - shorter fields
//
// Gaps between matched runes and runes skipped before the first match
// lower the score.
package search

import (
	"slices"
	"strings"
	"unicode"

	"github.com/dshills/menuconf/internal/registry"
	"github.com/dshills/menuconf/internal/setting"
)

// Field names which text of a setting matched.
type Field string

const (
	FieldName  Field = "name"
	FieldLabel Field = "label"
)

// Hit is one ranked setting.
type Hit struct {
	Setting *setting.Setting
	Score   int
	Field   Field

	// Matches holds the rune indices of the matched runes in Field.
	Matches []int
}

// Weights tunes the scoring.
type Weights struct {
	// Base is the starting score for any match.
	Base int

	// Consecutive is added for each rune matched right after the previous one.
	Consecutive int

	// WordStart is added for each rune matched at a word start.
	WordStart int

	// Leading is added when the first rune of the field matches.
	Leading int

	// ExactPrefix is added when the query is a prefix of the field.
	ExactPrefix int

	// GapPenalty is subtracted for each unmatched rune between matches.
	GapPenalty int

	// SkipPenalty is subtracted for each rune before the first match.
	SkipPenalty int

	// ShortLength grants a bonus to fields shorter than this many runes.
	ShortLength int
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Base:        100,
		Consecutive: 20,
		WordStart:   15,
		Leading:     25,
		ExactPrefix: 50,
		GapPenalty:  2,
		SkipPenalty: 1,
		ShortLength: 20,
	}
}

// Finder ranks the settings of a registry.
type Finder struct {
	weights Weights
}

// New creates a finder scoring with w.
func New(w Weights) *Finder {
	return &Finder{weights: w}
}

// Find returns the value entries of reg matching query, best first. Equal
// scores keep path order. A limit of zero or less returns every hit. An
// empty query matches nothing.
func (f *Finder) Find(reg *registry.Registry, query string, limit int) []Hit {
	q := []rune(strings.ToLower(strings.TrimSpace(query)))
	if len(q) == 0 {
		return nil
	}

	var hits []Hit
	for s := range reg.Entries() {
		if s.Kind.IsStructural() {
			continue
		}
		best := Hit{Setting: s}
		for _, field := range []struct {
			name Field
			text string
		}{{FieldName, s.Name}, {FieldLabel, s.Label}} {
			score, matches := f.weights.Score(q, field.text)
			if score > best.Score {
				best.Score, best.Field, best.Matches = score, field.name, matches
			}
		}
		if best.Score > 0 {
			hits = append(hits, best)
		}
	}

	slices.SortStableFunc(hits, func(a, b Hit) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return strings.Compare(a.Setting.Path(), b.Setting.Path())
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// Score matches the lower-case query against text and returns the score
// with the matched rune indices. A score of zero means no match.
func (w Weights) Score(query []rune, text string) (int, []int) {
	if text == "" || len(query) == 0 {
		return 0, nil
	}
	original := []rune(text)
	lower := []rune(strings.ToLower(text))
	if len(lower) != len(original) {
		// Case mapping changed the rune count; match on the mapped form.
		original = lower
	}

	// Greedy left-to-right scan.
	matches := make([]int, 0, len(query))
	qi := 0
	for i := 0; i < len(lower) && qi < len(query); i++ {
		if lower[i] == query[qi] {
			matches = append(matches, i)
			qi++
		}
	}
	if qi != len(query) {
		return 0, nil
	}

	score := w.Base
	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			score += w.Consecutive
		}
	}
	for _, idx := range matches {
		if wordStart(original, idx) {
			score += w.WordStart
		}
	}
	if matches[0] == 0 {
		score += w.Leading
	}
	if gap := matches[len(matches)-1] - matches[0] - len(matches) + 1; gap > 0 {
		score -= gap * w.GapPenalty
	}
	score -= matches[0] * w.SkipPenalty
	if len(lower) < w.ShortLength {
		score += w.ShortLength - len(lower)
	}
	if len(lower) >= len(query) && slices.Equal(lower[:len(query)], query) {
		score += w.ExactPrefix
	}

	return max(score, 1), matches
}

// wordStart reports whether the rune at idx begins a word: the first rune,
// a rune after a space or punctuation, or an upper-case rune after a
// lower-case one.
func wordStart(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx >= len(runes) {
		return false
	}
	prev, cur := runes[idx-1], runes[idx]
	return unicode.IsSpace(prev) || unicode.IsPunct(prev) ||
		unicode.IsLower(prev) && unicode.IsUpper(cur)
}

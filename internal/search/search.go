package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/pfrederiksen/unisport/internal/course"
)

const (
	// MinTermLength is the shortest term that narrows results
	MinTermLength = 3

	// DefaultThreshold is the highest error (0 exact, 1 unrelated) that still matches
	DefaultThreshold = 0.3
)

// Field weights, highest first
const (
	NameWeight        = 1.0
	DescriptionWeight = 0.5
	LocationWeight    = 0.3
)

// Index finds courses matching a search term, best match first
type Index interface {
	Search(term string) []*course.Course
}

// Active reports whether term is long enough to filter by. Whitespace
// counts, so "yo " is active; a term of blanks only matches nothing.
func Active(term string) bool {
	return utf8.RuneCountInString(term) >= MinTermLength
}

// Result is a matched course with its score in (0, 1]
type Result struct {
	Course *course.Course
	Score  float64
}

type field struct {
	weight float64
	text   string   // lowercased
	words  []string // lowercased tokens of text
}

type document struct {
	course *course.Course
	fields []field
}

// FuzzyIndex scores courses by edit distance between the term and the words
// of each indexed field. It is built once and never updated.
type FuzzyIndex struct {
	docs      []document
	threshold float64
}

// Option configures a FuzzyIndex
type Option func(*FuzzyIndex)

// WithThreshold overrides DefaultThreshold
func WithThreshold(threshold float64) Option {
	return func(idx *FuzzyIndex) {
		idx.threshold = threshold
	}
}

// Build indexes course names, plain-text descriptions and slot venue names
func Build(courses []*course.Course, opts ...Option) *FuzzyIndex {
	idx := &FuzzyIndex{
		docs:      make([]document, len(courses)),
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(idx)
	}

	for i, c := range courses {
		doc := document{course: c}
		doc.fields = append(doc.fields,
			newField(c.Name, NameWeight),
			newField(c.DescriptionText, DescriptionWeight),
		)
		for _, name := range c.LocationNames() {
			doc.fields = append(doc.fields, newField(name, LocationWeight))
		}
		idx.docs[i] = doc
	}

	return idx
}

func newField(text string, weight float64) field {
	lower := strings.ToLower(text)
	return field{
		weight: weight,
		text:   lower,
		words:  tokenize(lower),
	}
}

// Search returns matching courses, best first. Terms shorter than
// MinTermLength match every course in index order.
func (idx *FuzzyIndex) Search(term string) []*course.Course {
	results := idx.SearchResults(term)
	courses := make([]*course.Course, len(results))
	for i, r := range results {
		courses[i] = r.Course
	}
	return courses
}

// SearchResults is Search with scores. A course scores the best
// weight*(1-error) over its fields whose error is within the threshold.
func (idx *FuzzyIndex) SearchResults(term string) []Result {
	if !Active(term) {
		results := make([]Result, len(idx.docs))
		for i, doc := range idx.docs {
			results[i] = Result{Course: doc.course, Score: 1}
		}
		return results
	}

	lower := strings.ToLower(strings.TrimSpace(term))
	tokens := tokenize(lower)
	if len(tokens) == 0 {
		return nil
	}

	var results []Result
	for _, doc := range idx.docs {
		best := 0.0
		for _, f := range doc.fields {
			errScore := fieldError(lower, tokens, f)
			if errScore > idx.threshold {
				continue
			}
			if score := f.weight * (1 - errScore); score > best {
				best = score
			}
		}
		if best > 0 {
			results = append(results, Result{Course: doc.course, Score: best})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// fieldError is the mean over term tokens of the best word error in the field
func fieldError(term string, tokens []string, f field) float64 {
	if f.text == "" {
		return 1
	}
	if strings.Contains(f.text, term) {
		return 0
	}

	var total float64
	for _, t := range tokens {
		best := 1.0
		for _, w := range f.words {
			if e := wordError(t, w); e < best {
				best = e
				if best == 0 {
					break
				}
			}
		}
		total += best
	}
	return total / float64(len(tokens))
}

// wordError compares a term token with an indexed word: 0 if the word
// contains the token, otherwise the edit distance to the word or to its
// prefix of the token's length, relative to the token length.
func wordError(token, word string) float64 {
	if strings.Contains(word, token) {
		return 0
	}

	n := utf8.RuneCountInString(token)
	d := levenshtein.ComputeDistance(token, word)

	if runes := []rune(word); len(runes) > n {
		if p := levenshtein.ComputeDistance(token, string(runes[:n])); p < d {
			d = p
		}
	}

	e := float64(d) / float64(n)
	if e > 1 {
		return 1
	}
	return e
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

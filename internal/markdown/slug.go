package markdown

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugger generates GitHub-compatible heading anchors, unique per document.
// It is not safe for concurrent use; create one per document.
type Slugger struct {
	occurrences map[string]int
}

// NewSlugger returns an empty slugger.
func NewSlugger() *Slugger {
	return &Slugger{occurrences: make(map[string]int)}
}

// Slug returns the anchor for value, suffixing `-1`, `-2`, ... on repeats.
func (s *Slugger) Slug(value string) string {
	slug := Slugify(value)
	original := slug
	for s.has(slug) {
		s.occurrences[original]++
		slug = original + "-" + strconv.Itoa(s.occurrences[original])
	}
	s.occurrences[slug] = 0
	return slug
}

// Reset forgets all generated slugs.
func (s *Slugger) Reset() {
	clear(s.occurrences)
}

func (s *Slugger) has(slug string) bool {
	_, ok := s.occurrences[slug]
	return ok
}

// Slugify lower-cases value, removes punctuation and symbols, and replaces
// spaces with dashes. It does not ensure uniqueness.
func Slugify(value string) string {
	lower := cases.Lower(language.Und).String(value)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-',
			unicode.IsLetter(r),
			unicode.IsNumber(r),
			unicode.IsMark(r),
			unicode.Is(unicode.Pc, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

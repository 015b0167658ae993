// Package terms finds candidate legal terminology in free text.
//
// The scan is a heuristic. Ordinary sentence-initial words match the
// capitalized-phrase pattern; the server-side explanation is the backstop.
package terms

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xprabhudayal/genai/internal/models"
)

const (
	// MaxTerms caps the size of a TermSet.
	MaxTerms = 10
	// minTermLength is exclusive: matches this short or shorter are dropped.
	minTermLength = 3
)

var (
	// phraseSpace is the ECMAScript \s set; RE2's \s omits \v, NBSP and the Unicode spaces.
	phraseSpace       = `[\t\n\v\f\r \x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`
	capitalizedPhrase = regexp.MustCompile(`\b[A-Z][a-z]+(?:` + phraseSpace + `+[A-Z][a-z]+)*\b`)
	legalConnectives  = regexp.MustCompile(`(?i)\b(?:hereby|whereas|hereinafter|aforesaid|pursuant|whereby|notwithstanding)\b`)
	legalConcepts     = regexp.MustCompile(`(?i)\b(?:party|parties|agreement|contract|terms|conditions|liability|damages|breach|termination)\b`)

	latinTerms       = regexp.MustCompile(`(?i)\b(?:prima facie|de facto|de jure|pro bono|ad hoc|ex parte|in camera|subpoena)\b`)
	contractElements = regexp.MustCompile(`(?i)\b(?:consideration|offer|acceptance|capacity|legality|mutual assent|meeting of minds)\b`)
)

// DefaultPatterns are the three scans run by Extract, in order.
var DefaultPatterns = []*regexp.Regexp{capitalizedPhrase, legalConnectives, legalConcepts}

// CommonTerms is a quick-access list of frequently confusing legal terms.
var CommonTerms = []string{
	"Force Majeure",
	"Indemnification",
	"Breach of Contract",
	"Liquidated Damages",
	"Arbitration",
	"Jurisdiction",
	"Statute of Limitations",
	"Consideration",
	"Due Diligence",
	"Material Adverse Effect",
	"Severability",
	"Waiver",
	"Covenant",
	"Representation",
	"Warranty",
	"Default",
	"Remedy",
	"Damages",
	"Specific Performance",
	"Injunction",
}

// Extractor scans text with an ordered list of patterns.
type Extractor struct {
	patterns []*regexp.Regexp
	limit    int
}

type Option func(*Extractor)

// WithExtendedVocabulary adds Latin and contract-element scans after the defaults.
func WithExtendedVocabulary() Option {
	return func(e *Extractor) {
		e.patterns = append(e.patterns, latinTerms, contractElements)
	}
}

// WithPatterns appends custom scans after the ones already configured.
func WithPatterns(patterns ...*regexp.Regexp) Option {
	return func(e *Extractor) {
		e.patterns = append(e.patterns, patterns...)
	}
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		patterns: append([]*regexp.Regexp{}, DefaultPatterns...),
		limit:    MaxTerms,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the default scans over text.
func Extract(text string) models.TermSet {
	return defaultExtractor.Extract(text)
}

var defaultExtractor = NewExtractor()

// Extract returns up to ten distinct lowercase matches longer than three
// characters, in pattern order then match order. The result is never nil.
func (e *Extractor) Extract(text string) models.TermSet {
	seen := make(map[string]struct{})
	out := make(models.TermSet, 0, e.limit)

	for _, pattern := range e.patterns {
		for _, match := range pattern.FindAllString(text, -1) {
			if utf8.RuneCountInString(match) <= minTermLength {
				continue
			}
			term := strings.ToLower(match)
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			out = append(out, term)
		}
	}

	if len(out) > e.limit {
		out = out[:e.limit]
	}
	return out
}

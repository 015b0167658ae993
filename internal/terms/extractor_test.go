package terms

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contractSentence = "Whereas the Party hereby agrees to the Agreement pursuant to Section 5, termination shall not exceed 10 days."

func TestExtract_ContractSentence(t *testing.T) {
	got := Extract(contractSentence)

	for _, want := range []string{"whereas", "party", "hereby", "agreement", "pursuant", "termination"} {
		assert.Contains(t, got, want)
	}
	assert.Equal(t, []string{"whereas", "party", "agreement", "section", "hereby", "pursuant", "termination"}, []string(got))
}

func TestExtract_NoMatches(t *testing.T) {
	for _, input := range []string{"hi", "", "   ", "the cat sat on a mat", "A Bc"} {
		got := Extract(input)
		require.NotNil(t, got, "input %q", input)
		assert.Empty(t, got, "input %q", input)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	text := strings.Repeat("Notwithstanding the Contract, Liability for Damages and Breach lies with the Parties. ", 3)
	first := Extract(text)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Extract(text))
	}
}

func TestExtract_Bounds(t *testing.T) {
	inputs := []string{
		contractSentence,
		"Alpha Beta. Gamma. Delta. Epsilon. Zeta. Theta. Iota. Kappa. Lambda. Omicron. Sigma. Upsilon.",
		"WHEREAS HEREBY whereby Hereinafter aforesaid CONDITIONS terms Terms TERMS",
		"Ab Cd Ef tiny words Only",
	}
	for _, input := range inputs {
		got := Extract(input)
		assert.LessOrEqual(t, len(got), MaxTerms, "input %q", input)
		for _, term := range got {
			assert.Greater(t, len(term), 3, "term %q", term)
			assert.Equal(t, strings.ToLower(term), term)
		}
	}
}

func TestExtract_CapitalizedSequencesJoin(t *testing.T) {
	got := Extract("This Service Level Agreement applies.")
	assert.Equal(t, []string{"this service level agreement", "agreement"}, []string(got))
}

func TestExtract_CapitalizedSequencesJoinAcrossUnicodeSpaces(t *testing.T) {
	got := Extract("Force\u00a0Majeure applies.")
	assert.Equal(t, []string{"force\u00a0majeure"}, []string(got))

	got = Extract("Due\u3000Diligence and Good\vFaith")
	assert.Equal(t, []string{"due\u3000diligence", "good\vfaith"}, []string(got))
}

func TestExtract_CaseVariantsCollapse(t *testing.T) {
	got := Extract("breach BREACH Breach")
	assert.Equal(t, []string{"breach"}, []string(got))
}

func TestExtract_TruncatesAfterDedup(t *testing.T) {
	text := "Alpha x Bravo x Charlie x Delta x Echo x Foxtrot x Golf x Hotel x India x Juliet x Kilo x Lima"
	got := Extract(text)
	require.Len(t, got, MaxTerms)
	assert.Equal(t, "alpha", got[0])
	assert.Equal(t, "juliet", got[9])
}

func TestExtract_ShortMatchesDropped(t *testing.T) {
	// "Bob" and "Ann" are three characters and are dropped; "Anna" is kept.
	got := Extract("Bob met Ann and Anna.")
	assert.Equal(t, []string{"anna"}, []string(got))
}

func TestExtractor_ExtendedVocabulary(t *testing.T) {
	text := "the offer lacked consideration and was void ab initio under a subpoena"

	assert.Empty(t, Extract(text))

	got := NewExtractor(WithExtendedVocabulary()).Extract(text)
	assert.Equal(t, []string{"subpoena", "offer", "consideration"}, []string(got))
}

func TestExtractor_CustomPatterns(t *testing.T) {
	e := NewExtractor(WithPatterns(regexp.MustCompile(`(?i)\bindemnif\w+`)))
	got := e.Extract("each side shall indemnify the other")
	assert.Equal(t, []string{"indemnify"}, []string(got))
}

func TestCommonTerms(t *testing.T) {
	assert.Len(t, CommonTerms, 20)
	assert.Contains(t, CommonTerms, "Force Majeure")
}

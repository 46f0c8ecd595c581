package scorer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RoleMatcher/internal/config"
)

func testScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		Weights: config.ScoringWeights{
			Seniority:      30,
			PnL:            20,
			Transformation: 20,
			Industry:       20,
			Geo:            10,
			BannedPenalty:  10,
		},
		Keywords: config.KeywordConfig{
			SeniorityVP:             []string{"vp", "vice president"},
			SenioritySeniorDirector: []string{"senior director", "sr director", "sr. director"},
			SeniorityDirector:       []string{"director"},
			PnLStrong:               []string{"p&l", "profit and loss", "ebitda"},
			PnLMedium:               []string{"revenue growth", "financial performance"},
			Transformation:          []string{"digital transformation", "modernization"},
			IndustryStrong:          []string{"industrial iot", "factory automation", "scada"},
			IndustryAdjacent:        []string{"enterprise software", "machine learning"},
		},
		Geography: config.GeographyConfig{
			Preferred: []string{"latam", "mexico"},
			Banned:    []string{"russia"},
		},
	}
}

func TestExtractSeniorityTiers(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(testScoringConfig())

	tests := []struct {
		title string
		level string
		score int
	}{
		{"VP Digital Transformation", "VP", 30},
		{"Vice President of Engineering", "VP", 30},
		{"Senior Director of Operations", "Senior Director", 25},
		{"Sr. Director, Manufacturing", "Senior Director", 25},
		{"Director of Operations", "Director", 20},
		{"Software Engineer", "Other", 0},
	}

	for _, tt := range tests {
		signal := extractor.ExtractSeniority(tt.title)
		assert.Equal(t, tt.level, signal.Level, "title %q", tt.title)
		assert.Equal(t, tt.score, signal.Score, "title %q", tt.title)
	}
}

func TestExtractSeniorityDoesNotFallThrough(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(testScoringConfig())

	// "Senior Director" contains "director"; the more specific tier must win.
	signal := extractor.ExtractSeniority("Senior Director, Industrial Automation")
	assert.Equal(t, "Senior Director", signal.Level)
	assert.Equal(t, 25, signal.Score)
}

func TestExtractPnLTiers(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(testScoringConfig())

	strong := extractor.ExtractPnL("Full P&L responsibility for the region.")
	assert.Equal(t, MaxPnLScore, strong.Score)
	assert.Contains(t, strong.Evidence, "P&L")

	medium := extractor.ExtractPnL("Drive revenue growth across markets.")
	assert.Equal(t, 15, medium.Score)
	assert.Contains(t, medium.Evidence, "revenue growth")

	none := extractor.ExtractPnL("Maintain the build system.")
	assert.Zero(t, none.Score)
	assert.Empty(t, none.Evidence)
}

func TestExtractPnLStrongBeatsMedium(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(testScoringConfig())

	signal := extractor.ExtractPnL("Own revenue growth and EBITDA targets.")
	assert.Equal(t, MaxPnLScore, signal.Score)
	assert.Contains(t, strings.ToLower(signal.Evidence), "ebitda")
}

func TestExtractTransformationIsBinary(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(testScoringConfig())

	hit := extractor.ExtractTransformation("Lead the digital transformation program.")
	assert.Equal(t, MaxTransformationScore, hit.Score)

	miss := extractor.ExtractTransformation("Manage the support team.")
	assert.Zero(t, miss.Score)
}

func TestExtractIndustryTiers(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(testScoringConfig())

	strong := extractor.ExtractIndustry("Experience with SCADA systems required.")
	assert.Equal(t, MaxIndustryScore, strong.Score)

	adjacent := extractor.ExtractIndustry("Background in enterprise software sales.")
	assert.Equal(t, MaxIndustryScore/2, adjacent.Score)

	none := extractor.ExtractIndustry("Retail experience preferred.")
	assert.Zero(t, none.Score)
}

func TestExtractGeoPreferredAndBannedAreIndependent(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(testScoringConfig())

	both := extractor.ExtractGeo("Covers LATAM and Russia operations.", "Mexico City")
	assert.Equal(t, MaxGeoScore, both.Score)
	assert.True(t, both.Banned)

	preferredOnly := extractor.ExtractGeo("Regional role.", "Mexico City")
	assert.Equal(t, MaxGeoScore, preferredOnly.Score)
	assert.False(t, preferredOnly.Banned)
	assert.Equal(t, "Location: Mexico City", preferredOnly.Evidence)

	bannedOnly := extractor.ExtractGeo("Based in our Moscow office.", "Russia")
	assert.Zero(t, bannedOnly.Score)
	assert.True(t, bannedOnly.Banned)
}

func TestExtractEvidenceWindow(t *testing.T) {
	t.Parallel()

	padding := strings.Repeat("x", 200)
	text := padding + " EBITDA " + padding

	snippet := extractEvidence(text, []string{"ebitda"})
	require.NotEmpty(t, snippet)

	assert.True(t, strings.HasPrefix(snippet, "..."))
	assert.True(t, strings.HasSuffix(snippet, "..."))
	assert.Contains(t, snippet, "EBITDA")
	// 80 chars each side plus keyword and ellipses
	assert.LessOrEqual(t, len(snippet), 80+len(" EBITDA ")+80+6)
}

func TestExtractEvidenceShortTextHasNoEllipsis(t *testing.T) {
	t.Parallel()

	snippet := extractEvidence("Owns the EBITDA line.", []string{"ebitda"})
	assert.Equal(t, "Owns the EBITDA line.", snippet)
}

func TestExtractEvidenceFirstKeywordInListOrderWins(t *testing.T) {
	t.Parallel()

	// "profit and loss" appears earlier in the text, but "p&l" is first in
	// the list, so it supplies the evidence.
	text := "Responsible for profit and loss. Reports on P&L monthly."
	snippet := extractEvidence(text, []string{"p&l", "profit and loss"})
	assert.Contains(t, snippet, "P&L monthly")
}

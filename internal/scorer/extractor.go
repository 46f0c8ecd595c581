package scorer

import (
	"strings"

	"RoleMatcher/internal/config"
)

const evidenceWindow = 80

// Extractor scans posting text for the five evidence dimensions. All methods
// are pure functions of their inputs: case-insensitive substring matching
// against the configured keyword lists, in list order.
type Extractor struct {
	keywords  config.KeywordConfig
	geography config.GeographyConfig
}

// NewExtractor builds an extractor from explicit scoring configuration.
func NewExtractor(cfg config.ScoringConfig) *Extractor {
	return &Extractor{keywords: cfg.Keywords, geography: cfg.Geography}
}

// ExtractSeniority reads the seniority tier from the title alone. More
// specific phrasing is checked first so "Senior Director" does not fall
// through to the generic "Director" tier.
func (e *Extractor) ExtractSeniority(title string) SenioritySignal {
	lower := strings.ToLower(title)

	if containsAny(lower, e.keywords.SeniorityVP) {
		return SenioritySignal{Level: "VP", Score: seniorityVP}
	}
	if containsAny(lower, e.keywords.SenioritySeniorDirector) {
		return SenioritySignal{Level: "Senior Director", Score: senioritySeniorDirector}
	}
	if containsAny(lower, e.keywords.SeniorityDirector) {
		return SenioritySignal{Level: "Director", Score: seniorityDirector}
	}
	return SenioritySignal{Level: "Other", Score: 0}
}

// ExtractPnL checks the body for profit-and-loss ownership keywords, strong
// tier before medium tier.
func (e *Extractor) ExtractPnL(description string) PnLSignal {
	lower := strings.ToLower(description)

	if containsAny(lower, e.keywords.PnLStrong) {
		return PnLSignal{Score: MaxPnLScore, Evidence: extractEvidence(description, e.keywords.PnLStrong)}
	}
	if containsAny(lower, e.keywords.PnLMedium) {
		return PnLSignal{Score: MaxPnLScore * 3 / 4, Evidence: extractEvidence(description, e.keywords.PnLMedium)}
	}
	return PnLSignal{}
}

// ExtractTransformation checks the body for a transformation mandate. Full
// score or zero; no graduated tier.
func (e *Extractor) ExtractTransformation(description string) TransformationSignal {
	lower := strings.ToLower(description)

	if containsAny(lower, e.keywords.Transformation) {
		return TransformationSignal{
			Score:    MaxTransformationScore,
			Evidence: extractEvidence(description, e.keywords.Transformation),
		}
	}
	return TransformationSignal{}
}

// ExtractIndustry checks the body for industry relevance, strong tier before
// adjacent-software tier at half score.
func (e *Extractor) ExtractIndustry(description string) IndustrySignal {
	lower := strings.ToLower(description)

	if containsAny(lower, e.keywords.IndustryStrong) {
		return IndustrySignal{Score: MaxIndustryScore, Evidence: extractEvidence(description, e.keywords.IndustryStrong)}
	}
	if containsAny(lower, e.keywords.IndustryAdjacent) {
		return IndustrySignal{Score: MaxIndustryScore / 2, Evidence: extractEvidence(description, e.keywords.IndustryAdjacent)}
	}
	return IndustrySignal{}
}

// ExtractGeo checks combined body and location text against the preferred and
// banned geography lists. The two checks are independent.
func (e *Extractor) ExtractGeo(description, location string) GeoSignal {
	combined := strings.ToLower(description) + " " + strings.ToLower(location)

	var signal GeoSignal
	for _, geo := range e.geography.Preferred {
		if strings.Contains(combined, strings.ToLower(geo)) {
			signal.Score = MaxGeoScore
			signal.Evidence = extractEvidence(description, []string{geo})
			if signal.Evidence == "" {
				signal.Evidence = "Location: " + location
			}
			break
		}
	}

	for _, geo := range e.geography.Banned {
		if strings.Contains(combined, strings.ToLower(geo)) {
			signal.Banned = true
			evidence := extractEvidence(description, []string{geo})
			if evidence == "" {
				evidence = "Location: " + location
			}
			signal.Evidence = evidence
			break
		}
	}

	return signal
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// extractEvidence captures a fixed-width window of text around the first
// matching keyword, with ellipsis markers where the window was truncated.
// Returns "" when no keyword matches.
func extractEvidence(text string, keywords []string) string {
	lower := strings.ToLower(text)

	for _, kw := range keywords {
		idx := strings.Index(lower, strings.ToLower(kw))
		if idx < 0 {
			continue
		}

		start := idx - evidenceWindow
		if start < 0 {
			start = 0
		}
		end := idx + len(kw) + evidenceWindow
		if end > len(text) {
			end = len(text)
		}

		snippet := strings.TrimSpace(text[start:end])
		if start > 0 {
			snippet = "..." + snippet
		}
		if end < len(text) {
			snippet = snippet + "..."
		}
		return snippet
	}

	return ""
}

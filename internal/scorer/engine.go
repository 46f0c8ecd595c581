package scorer

import (
	"fmt"
	"strings"

	"RoleMatcher/internal/config"
	"RoleMatcher/internal/domain"
)

// Action thresholds over the clamped fit score.
const (
	applyThreshold = 75
	watchThreshold = 60
)

// Concern kinds attached to evaluations.
const (
	ConcernSeniority      = "Below target seniority"
	ConcernNoPnL          = "No P&L ownership"
	ConcernNoTransform    = "No transformation mandate"
	ConcernNoIndustry     = "No industry match"
	ConcernBannedGeo      = "Banned geography"
	ConcernPartialContent = "Incomplete description"
)

// Engine turns a posting into an evaluation: extracts the five signals,
// rescales them by the configured weights, applies the banned-geography
// penalty, clamps to 0-100, and synthesizes concerns and a summary. It holds
// no mutable state and never fails; empty text yields an all-zero evaluation.
type Engine struct {
	weights   config.ScoringWeights
	extractor *Extractor
}

// NewEngine builds a scoring engine from explicit weights and an extractor.
func NewEngine(cfg config.ScoringConfig, extractor *Extractor) *Engine {
	return &Engine{weights: cfg.Weights, extractor: extractor}
}

// Evaluate scores one posting. Pure: same posting and weights, same result.
func (e *Engine) Evaluate(job domain.JobPosting) domain.Evaluation {
	seniority := e.extractor.ExtractSeniority(job.Title)
	pnl := e.extractor.ExtractPnL(job.Description)
	transformation := e.extractor.ExtractTransformation(job.Description)
	industry := e.extractor.ExtractIndustry(job.Description)
	geo := e.extractor.ExtractGeo(job.Description, job.Location)

	// Each raw dimension score is rescaled to its configured weight.
	total := float64(seniority.Score)/MaxSeniorityScore*float64(e.weights.Seniority) +
		float64(pnl.Score)/MaxPnLScore*float64(e.weights.PnL) +
		float64(transformation.Score)/MaxTransformationScore*float64(e.weights.Transformation) +
		float64(industry.Score)/MaxIndustryScore*float64(e.weights.Industry) +
		float64(geo.Score)/MaxGeoScore*float64(e.weights.Geo)

	if geo.Banned {
		total -= float64(e.weights.BannedPenalty)
	}

	score := clampScore(int(total))
	action := determineAction(score)

	return domain.Evaluation{
		JobID:               job.ID,
		FitScore:            score,
		SeniorityScore:      seniority.Score,
		PnLScore:            pnl.Score,
		TransformationScore: transformation.Score,
		IndustryScore:       industry.Score,
		GeoScore:            geo.Score,
		Action:              action,
		Summary:             buildSummary(job, seniority, pnl, transformation, industry, geo, action, score),
		Concerns:            buildConcerns(job, seniority, pnl, transformation, industry, geo),
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func determineAction(score int) domain.Action {
	switch {
	case score >= applyThreshold:
		return domain.ActionApply
	case score >= watchThreshold:
		return domain.ActionWatch
	default:
		return domain.ActionSkip
	}
}

// buildConcerns lists every applicable concern in a fixed order, each with an
// evidence string. Generic descriptions stand in when no keyword evidence was
// captured.
func buildConcerns(
	job domain.JobPosting,
	seniority SenioritySignal,
	pnl PnLSignal,
	transformation TransformationSignal,
	industry IndustrySignal,
	geo GeoSignal,
) []domain.Concern {
	var concerns []domain.Concern

	if seniority.Score < senioritySeniorDirector {
		concerns = append(concerns, domain.Concern{
			Type:     ConcernSeniority,
			Evidence: "Title: " + job.Title,
		})
	}

	if pnl.Score == 0 {
		concerns = append(concerns, domain.Concern{
			Type:     ConcernNoPnL,
			Evidence: "No mention of P&L, profitability, or budget control",
		})
	}

	if transformation.Score == 0 {
		concerns = append(concerns, domain.Concern{
			Type:     ConcernNoTransform,
			Evidence: "No mention of digital transformation or modernization",
		})
	}

	if industry.Score < MaxIndustryScore/2 {
		concerns = append(concerns, domain.Concern{
			Type:     ConcernNoIndustry,
			Evidence: "No mention of industrial IoT, manufacturing, or hardware",
		})
	}

	if geo.Banned {
		evidence := geo.Evidence
		if evidence == "" {
			evidence = "Location: " + job.Location
		}
		concerns = append(concerns, domain.Concern{
			Type:     ConcernBannedGeo,
			Evidence: evidence,
		})
	}

	if job.PartialDescription {
		concerns = append(concerns, domain.Concern{
			Type:     ConcernPartialContent,
			Evidence: "Full job description text not available",
		})
	}

	return concerns
}

// buildSummary renders the fixed template: role line, the top two strengths,
// the single highest-priority gap, the action, and the score.
func buildSummary(
	job domain.JobPosting,
	seniority SenioritySignal,
	pnl PnLSignal,
	transformation TransformationSignal,
	industry IndustrySignal,
	geo GeoSignal,
	action domain.Action,
	score int,
) string {
	var strengths []string
	if pnl.Score >= MaxPnLScore*3/4 {
		strengths = append(strengths, "P&L ownership")
	}
	if transformation.Score >= MaxTransformationScore {
		strengths = append(strengths, "transformation mandate")
	}
	if industry.Score >= MaxIndustryScore {
		strengths = append(strengths, "industry match")
	}
	if geo.Score >= MaxGeoScore {
		strengths = append(strengths, "geographic scope")
	}
	if seniority.Score >= senioritySeniorDirector {
		strengths = append(strengths, "senior level")
	}

	fit := "none"
	if len(strengths) > 0 {
		if len(strengths) > 2 {
			strengths = strengths[:2]
		}
		fit = strings.Join(strengths, ", ")
	}

	gap := "none"
	switch {
	case seniority.Score < senioritySeniorDirector:
		gap = "below target seniority"
	case pnl.Score == 0:
		gap = "no P&L ownership"
	case transformation.Score == 0:
		gap = "no transformation mandate"
	case industry.Score < MaxIndustryScore/2:
		gap = "no industry match"
	case geo.Banned:
		gap = "banned geography"
	}

	return fmt.Sprintf(
		"Role: %s at %s in %s. Fit: %s. Gap: %s. Action: %s. Score: %d.",
		job.Title, job.CompanyName, job.Location, fit, gap, action, score,
	)
}

package scorer

// Raw maximum per dimension; the engine rescales these to the configured
// weights before summing.
const (
	MaxSeniorityScore      = 30
	MaxPnLScore            = 20
	MaxTransformationScore = 20
	MaxIndustryScore       = 20
	MaxGeoScore            = 10
)

// Seniority tier scores, from title phrasing specificity.
const (
	seniorityVP             = 30
	senioritySeniorDirector = 25
	seniorityDirector       = 20
)

// SenioritySignal is the seniority level read from the title.
type SenioritySignal struct {
	Level string
	Score int
}

// PnLSignal records evidence of profit-and-loss ownership in the body.
type PnLSignal struct {
	Score    int
	Evidence string
}

// TransformationSignal records evidence of a transformation mandate.
type TransformationSignal struct {
	Score    int
	Evidence string
}

// IndustrySignal records how closely the body matches the target industry.
type IndustrySignal struct {
	Score    int
	Evidence string
}

// GeoSignal records geographic scope. Banned is set independently of Score:
// a posting can match a preferred and a banned geography at once.
type GeoSignal struct {
	Score    int
	Banned   bool
	Evidence string
}

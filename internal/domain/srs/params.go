package srs

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	// Quality scale
	MinQuality     int
	MaxQuality     int
	PassingQuality int

	// Ease factor floor shared by successful and failed recalls
	MinEaseFactor float64

	// EaseFactorAdjustment is applied to the ease factor on successful recall,
	// keyed by quality (PassingQuality..MaxQuality)
	EaseFactorAdjustment map[int]float64

	// LapseEasePenalty is subtracted from the ease factor on failed recall
	LapseEasePenalty float64

	// Intervals in days for the first and second successful repetitions,
	// and after a lapse
	FirstInterval  int
	SecondInterval int
	LapseInterval  int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinQuality:     0,
		MaxQuality:     5,
		PassingQuality: 3,

		MinEaseFactor: 1.3,

		EaseFactorAdjustment: map[int]float64{
			3: -0.15,
			4: 0.0,
			5: 0.10,
		},

		LapseEasePenalty: 0.20,

		FirstInterval:  1,
		SecondInterval: 6,
		LapseInterval:  1,
	}
}

// ValidQuality reports whether q lies on the configured quality scale.
func (p *Params) ValidQuality(q int) bool {
	return q >= p.MinQuality && q <= p.MaxQuality
}

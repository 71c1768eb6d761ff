package stats

// DefaultTop is the default number of rows in a detail table.
const DefaultTop = 5

// Options holds the read-only tuning shared by every report.
type Options struct {
	Threshold int
	Top       int
	Rounding  Rounding
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		Top:       DefaultTop,
		Rounding:  RoundIndependent,
	}
}

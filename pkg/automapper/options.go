package automapper

// Default classification thresholds.
const (
	// DefaultConfirmThreshold is the minimum score for a Confirmed match.
	DefaultConfirmThreshold = 0.60
	// DefaultLowThreshold is the minimum score for a LowConfidence match.
	DefaultLowThreshold = 0.40
)

// Option is a functional option for configuring the auto-mapper.
type Option func(*mapper)

// WithConfirmThreshold sets the minimum score for a Confirmed match.
func WithConfirmThreshold(threshold float64) Option {
	return func(m *mapper) {
		m.confirmThreshold = threshold
	}
}

// WithLowThreshold sets the minimum score for a LowConfidence match.
func WithLowThreshold(threshold float64) Option {
	return func(m *mapper) {
		m.lowThreshold = threshold
	}
}

package config

// LocatorConfig defines configuration for the tiered snippet locator.
// The bitap length cap, window size and acceptance threshold are tunables
// without a documented derivation; they default to the values the search
// was calibrated with but stay configurable for recalibration against
// real drift patterns.
type LocatorConfig struct {
	MaxBitapLength int     `json:"max_bitap_length,omitempty" yaml:"max_bitap_length,omitempty" validate:"omitempty,min=1,max=32"`
	WindowSize     int     `json:"window_size,omitempty" yaml:"window_size,omitempty" validate:"omitempty,min=8"`
	ScoreThreshold float64 `json:"score_threshold,omitempty" yaml:"score_threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
	MatchThreshold float64 `json:"match_threshold,omitempty" yaml:"match_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
	MatchDistance  int     `json:"match_distance,omitempty" yaml:"match_distance,omitempty" validate:"omitempty,min=0"`
}

// NewDefaultLocatorConfig creates default locator configuration
func NewDefaultLocatorConfig() LocatorConfig {
	return LocatorConfig{
		MaxBitapLength: DefaultLocatorMaxBitapLength,
		WindowSize:     DefaultLocatorWindowSize,
		ScoreThreshold: DefaultLocatorScoreThreshold,
		MatchThreshold: DefaultLocatorMatchThreshold,
		MatchDistance:  DefaultLocatorMatchDistance,
	}
}

package melody

import (
	"github.com/jsphweid/digiscore/constants"
)

type Weights struct {
	Density float64
	Pitch   float64
	Change  float64
}

// Config holds the heuristic knobs. The keyword list and the pitch threshold
// are empirical guesses, so both can be overridden from the environment.
type Config struct {
	Keywords       []string
	NameBonus      float64
	PitchThreshold float64
	Weights        Weights
}

func DefaultConfig() Config {
	return Config{
		Keywords:       append([]string(nil), constants.MelodyKeywords...),
		NameBonus:      constants.NameBonus,
		PitchThreshold: constants.PitchThreshold,
		Weights: Weights{
			Density: constants.DensityWeight,
			Pitch:   constants.PitchWeight,
			Change:  constants.ChangeWeight,
		},
	}
}

func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if kws := constants.GetMelodyKeywords(); kws != nil {
		cfg.Keywords = kws
	}
	cfg.PitchThreshold = constants.GetMelodyPitchThreshold()
	cfg.NameBonus = constants.GetMelodyNameBonus()
	return cfg
}

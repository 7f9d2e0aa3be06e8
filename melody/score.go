package melody

import (
	"sort"

	"github.com/jsphweid/digiscore/logger"
	"github.com/jsphweid/digiscore/model"
	"github.com/jsphweid/digiscore/util"
)

func maxPositive(values []float64) float64 {
	var positive []float64
	for _, v := range values {
		if v > 0 {
			positive = append(positive, v)
		}
	}
	return util.Max(positive, 1)
}

// Score fills in the score components and returns the tracks best first.
// Ties keep their original order.
func Score(features []model.TrackFeatures, cfg Config) []model.TrackFeatures {
	if len(features) == 0 {
		return nil
	}

	densities := make([]float64, len(features))
	changes := make([]float64, len(features))
	for i, f := range features {
		densities[i] = f.NoteDensity
		changes[i] = f.AvgPitchChange
	}
	maxDensity := maxPositive(densities)
	maxPitchChange := maxPositive(changes)

	res := make([]model.TrackFeatures, len(features))
	for i, f := range features {
		f.DensityScore = cfg.Weights.Density * f.NoteDensity / maxDensity

		f.PitchScore = 0
		if cfg.PitchThreshold > 0 && f.AvgPitch > cfg.PitchThreshold {
			f.PitchScore = cfg.Weights.Pitch * (f.AvgPitch - cfg.PitchThreshold) / cfg.PitchThreshold
		}

		f.ChangeScore = 0
		if maxPitchChange > 0 && f.AvgPitchChange > 0 {
			f.ChangeScore = cfg.Weights.Change * f.AvgPitchChange / maxPitchChange
		}

		f.MelodyScore = f.NameScore + f.DensityScore + f.PitchScore + f.ChangeScore
		res[i] = f

		logger.Debug("Scored track", logger.Fields{
			"index":         f.Index,
			"name":          f.Name,
			"score":         f.MelodyScore,
			"name_score":    f.NameScore,
			"density_score": f.DensityScore,
			"pitch_score":   f.PitchScore,
			"change_score":  f.ChangeScore,
		})
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].MelodyScore > res[j].MelodyScore
	})
	return res
}

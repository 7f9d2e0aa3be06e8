package midi

import (
	"math"
	"sort"

	"github.com/jsphweid/digiscore/model"
)

type tempoPoint struct {
	tick    int64
	seconds float64
	bpm     float64
}

// tempoMap converts between absolute ticks and seconds for one resolution.
type tempoMap struct {
	resolution float64
	points     []tempoPoint
}

type tickTempo struct {
	tick int64
	bpm  float64
}

func newTempoMapFromTicks(resolution uint16, tempos []tickTempo) *tempoMap {
	sort.SliceStable(tempos, func(i, j int) bool {
		return tempos[i].tick < tempos[j].tick
	})
	m := &tempoMap{resolution: float64(resolution)}
	m.points = append(m.points, tempoPoint{bpm: model.DefaultTempo})
	for _, t := range tempos {
		if t.bpm <= 0 {
			continue
		}
		last := m.points[len(m.points)-1]
		if t.tick == last.tick {
			m.points[len(m.points)-1].bpm = t.bpm
			continue
		}
		m.points = append(m.points, tempoPoint{
			tick:    t.tick,
			seconds: last.seconds + m.span(t.tick-last.tick, last.bpm),
			bpm:     t.bpm,
		})
	}
	return m
}

func newTempoMapFromSeconds(resolution uint16, tempos []model.TempoChange) *tempoMap {
	sorted := append([]model.TempoChange(nil), tempos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})
	m := &tempoMap{resolution: float64(resolution)}
	m.points = append(m.points, tempoPoint{bpm: model.DefaultTempo})
	for _, t := range sorted {
		if t.BPM <= 0 {
			continue
		}
		tick := m.Ticks(t.Time)
		last := m.points[len(m.points)-1]
		if tick == last.tick {
			m.points[len(m.points)-1].bpm = t.BPM
			continue
		}
		m.points = append(m.points, tempoPoint{tick: tick, seconds: m.Seconds(tick), bpm: t.BPM})
	}
	return m
}

func (m *tempoMap) span(ticks int64, bpm float64) float64 {
	return float64(ticks) * 60 / (bpm * m.resolution)
}

func (m *tempoMap) Seconds(tick int64) float64 {
	i := sort.Search(len(m.points), func(i int) bool {
		return m.points[i].tick > tick
	}) - 1
	if i < 0 {
		i = 0
	}
	p := m.points[i]
	return p.seconds + m.span(tick-p.tick, p.bpm)
}

// Ticks rounds to the nearest tick; negative times clamp to 0.
func (m *tempoMap) Ticks(seconds float64) int64 {
	if seconds <= 0 {
		return 0
	}
	i := sort.Search(len(m.points), func(i int) bool {
		return m.points[i].seconds > seconds
	}) - 1
	if i < 0 {
		i = 0
	}
	p := m.points[i]
	return p.tick + int64(math.Round((seconds-p.seconds)*p.bpm*m.resolution/60))
}

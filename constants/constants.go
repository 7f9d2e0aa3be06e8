package constants

import (
	"os"
	"runtime"
	"strconv"
	"strings"
)

func GetInputDir() string {
	path := os.Getenv("INPUT_PATH")
	if path != "" {
		return path
	}
	return "./data"
}

func GetOutputDir() string {
	path := os.Getenv("OUTPUT_PATH")
	if path != "" {
		return path
	}
	return "./data_mel"
}

func GetWorkers() int {
	if n, err := strconv.Atoi(os.Getenv("DIGISCORE_WORKERS")); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

func GetAddr() string {
	addr := os.Getenv("DIGISCORE_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

func GetLedgerTable() string {
	return os.Getenv("LEDGER_TABLE")
}

func GetLedgerEndpoint() string {
	return os.Getenv("LEDGER_ENDPOINT")
}

func GetRegion() string {
	region := os.Getenv("AWS_REGION")
	if region != "" {
		return region
	}
	return "localhost"
}

func GetSentryDSN() string {
	return os.Getenv("SENTRY_DSN")
}

func GetEnvironment() string {
	env := os.Getenv("DIGISCORE_ENV")
	if env != "" {
		return env
	}
	return "development"
}

func IsDebug() bool {
	v := strings.ToLower(os.Getenv("DIGISCORE_DEBUG"))
	return v != "" && v != "0" && v != "false"
}

// GetMelodyKeywords returns the comma separated MELODY_KEYWORDS override, nil when unset.
func GetMelodyKeywords() []string {
	raw := os.Getenv("MELODY_KEYWORDS")
	if raw == "" {
		return nil
	}
	var res []string
	for _, kw := range strings.Split(raw, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			res = append(res, kw)
		}
	}
	return res
}

func GetMelodyPitchThreshold() float64 {
	return getFloat("MELODY_PITCH_THRESHOLD", PitchThreshold)
}

func GetMelodyNameBonus() float64 {
	return getFloat("MELODY_NAME_BONUS", NameBonus)
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

// melody heuristic defaults
const (
	NameBonus      = 10.0
	PitchThreshold = 40.0
	DensityWeight  = 0.4
	PitchWeight    = 0.3
	ChangeWeight   = 0.3
)

var MelodyKeywords = []string{"melody", "旋律", "主题", "主奏", "solo", "lead", "main"}

const MelodyTrackName = "Melody"

// 480 ticks per quarter when a document carries no resolution of its own
const DefaultResolution = 480

const DrumChannel = 9

var TrioTrackNames = [3]string{"Drums", "Melody", "Bass"}

const TrioDirName = "trio_midis"

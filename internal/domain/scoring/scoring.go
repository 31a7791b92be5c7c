// Package scoring computes composite performance scores from raw academic
// metrics and classifies recent score trajectories.
//
// Every function here is pure and total: malformed numeric input degrades to
// zero instead of erroring, so legacy or partially-filled records still
// produce a score.
package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Scoring policy constants. These are fixed behavioral policy, not tunables:
// changing any of them silently changes what "improving" or "consistent"
// means for every stored record.
const (
	gpaWeight        = 0.5
	attendanceWeight = 0.3
	assignmentWeight = 0.2

	// gpaScale brings a 4-point GPA onto roughly the same range as the
	// percentage metrics before weighting.
	gpaScale = 10

	// HistoryWindow bounds the rolling score history kept per student.
	HistoryWindow = 5

	// trendWindow is how many trailing samples trend classification reads.
	trendWindow = 3

	// sampleEpsilon is the smallest score change worth recording. Repeated
	// saves with identical inputs must not grow the history.
	sampleEpsilon = 0.001

	// trendThreshold separates up/down from stable.
	trendThreshold = 0.05

	// varianceThreshold separates high from low consistency.
	varianceThreshold = 2.0
)

// Trend classifies the short-term direction of recent scores.
type Trend string

// Trend values.
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Consistency classifies the stability of recent scores.
type Consistency string

// Consistency values.
const (
	ConsistencyHigh Consistency = "high"
	ConsistencyLow  Consistency = "low"
)

// Metric coerces a loosely typed value into a float64 metric. Strings are
// trimmed and may carry a trailing "%"; anything unparsable, NaN or infinite
// degrades to 0. This is the single place the leniency policy lives.
func Metric(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(x), "%")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ComputeScore converts raw academic metrics into a single comparable score:
// GPA carries half the weight, attendance 30% and the assignment score 20%.
// The result is rounded to two decimals.
func ComputeScore(gpa, attendance, assignment float64) float64 {
	score := gpa*gpaScale*gpaWeight +
		attendance*attendanceWeight +
		assignment*assignmentWeight
	return round2(score)
}

// AppendSample folds score into history, keeping at most HistoryWindow
// samples with drop-oldest eviction. A change within sampleEpsilon of the
// last sample is treated as a repeat save and not recorded. The returned
// slice is always a fresh copy; the input is never mutated.
func AppendSample(history []float64, score float64) []float64 {
	if len(history) == 0 {
		return []float64{score}
	}
	if math.Abs(score-history[len(history)-1]) <= sampleEpsilon {
		return lastN(history, HistoryWindow)
	}
	grown := make([]float64, 0, len(history)+1)
	grown = append(grown, history...)
	grown = append(grown, score)
	return lastN(grown, HistoryWindow)
}

// ClassifyTrend compares the oldest and newest of the last trendWindow
// samples. Fewer than two samples is stable by definition.
func ClassifyTrend(history []float64) Trend {
	recent := lastN(history, trendWindow)
	if len(recent) < 2 {
		return TrendStable
	}
	delta := recent[len(recent)-1] - recent[0]
	switch {
	case delta > trendThreshold:
		return TrendUp
	case delta < -trendThreshold:
		return TrendDown
	default:
		return TrendStable
	}
}

// ClassifyConsistency classifies the population variance of the last
// HistoryWindow samples. Fewer than two samples defaults to high.
func ClassifyConsistency(history []float64) Consistency {
	recent := lastN(history, HistoryWindow)
	if len(recent) < 2 {
		return ConsistencyHigh
	}
	if variance(recent) <= varianceThreshold {
		return ConsistencyHigh
	}
	return ConsistencyLow
}

// DescribeTrend renders a trend as a short human-readable message. It lives
// next to the thresholds the wording depends on; presentation layers may
// replace it wholesale.
func DescribeTrend(t Trend, sampleCount int) string {
	switch t {
	case TrendUp:
		n := sampleCount
		if n > trendWindow {
			n = trendWindow
		}
		return fmt.Sprintf("improving across the last %d updates", n)
	case TrendDown:
		return "recent scores show a decline"
	default:
		return "performance has been steady"
	}
}

// lastN returns a copy of the trailing n samples.
func lastN(samples []float64, n int) []float64 {
	if len(samples) > n {
		samples = samples[len(samples)-n:]
	}
	out := make([]float64, len(samples))
	copy(out, samples)
	return out
}

// variance is the population variance of samples.
func variance(samples []float64) float64 {
	var sum float64
	for _, s := range samples {
		sum += s
	}
	mean := sum / float64(len(samples))
	var sq float64
	for _, s := range samples {
		d := s - mean
		sq += d * d
	}
	return sq / float64(len(samples))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

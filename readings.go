package healthenc

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Metric names a vital sign. The string value is the "type" field on the wire.
type Metric string

const (
	HeartRate   Metric = "heart_rate"
	SpO2        Metric = "spo2"
	Temperature Metric = "temperature"
)

// Metrics lists every supported metric in display order.
var Metrics = []Metric{HeartRate, SpO2, Temperature}

type metricInfo struct {
	scale    float64 // applied before rounding to an integer plaintext
	label    string
	unit     string
	min, max float64 // plausible range, console warnings only
}

var metricTable = map[Metric]metricInfo{
	HeartRate:   {scale: 1, label: "Heart Rate", unit: "bpm", min: 30, max: 220},
	SpO2:        {scale: 1, label: "SpO₂", unit: "%", min: 70, max: 100},
	Temperature: {scale: 10, label: "Temperature", unit: "°C", min: 30, max: 45},
}

// largest magnitude a float64 holds without losing integer precision
const maxExactFloat = 1 << 53

// Reading is one raw value as typed by a user or reported by a sensor.
type Reading struct {
	Metric Metric
	Value  string
}

// ParseMetric maps a wire name to a Metric.
func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if _, ok := metricTable[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
	return m, nil
}

// Scale returns the integer plaintext for value: value * scale, rounded to
// the nearest integer. A blank value reports ok == false and no error; the
// reading is skipped.
func Scale(metric Metric, value string) (plaintext *big.Int, ok bool, err error) {
	info, known := metricTable[metric]
	if !known {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, false, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false, fmt.Errorf("%w: %s %q", ErrInvalidReading, metric, value)
	}
	scaled := math.Round(f * info.scale)
	if math.Abs(scaled) > maxExactFloat {
		return nil, false, fmt.Errorf("%w: %s %q too large", ErrInvalidReading, metric, value)
	}
	return big.NewInt(int64(scaled)), true, nil
}

// Scale is the package-level Scale applied to r.
func (r Reading) Scale() (*big.Int, bool, error) {
	return Scale(r.Metric, r.Value)
}

// Plausible reports whether v lies in the usual physiological range.
// Unknown metrics are never plausible.
func Plausible(metric Metric, v float64) bool {
	info, ok := metricTable[metric]
	return ok && v >= info.min && v <= info.max
}

// Range returns the plausible range for metric.
func (m Metric) Range() (lo, hi float64) {
	info := metricTable[m]
	return info.min, info.max
}

func (m Metric) Label() string {
	if info, ok := metricTable[m]; ok {
		return info.label
	}
	return string(m)
}

func (m Metric) Unit() string {
	return metricTable[m].unit
}

package trend

import (
	"math"
	"time"

	"github.com/Gokul1734/factsense/internal/model"
)

// horizonHours is how far ahead the rumor-volume forecast extends.
const horizonHours = 12

// minClaims gates model fitting; with this many or fewer observed claims
// the forecast is empty and no alert fires.
const minClaims = 10

// Point is one forecasted hourly claim count with uncertainty bounds.
type Point struct {
	At       time.Time `json:"at"`
	Expected float64   `json:"expected"`
	Upper    float64   `json:"upper"`
	Lower    float64   `json:"lower"`
}

// Forecast is the rumor-volume projection. Alert is true when any expected
// point exceeds the historical hourly maximum (floored at 3).
type Forecast struct {
	Alert    bool    `json:"alert"`
	Forecast []Point `json:"forecast"`
}

// Project bins the claim history into hourly counts and extrapolates a
// linear trend 12 hours ahead, with bounds derived from the residual
// spread. With 10 or fewer claims it returns an empty, non-alerting
// forecast.
func Project(history []model.Claim) Forecast {
	if len(history) <= minClaims {
		return Forecast{Forecast: []Point{}}
	}

	times, counts := hourlyBins(history)
	if len(counts) == 0 {
		return Forecast{Forecast: []Point{}}
	}

	slope, intercept := fitLine(counts)
	spread := residualSpread(counts, slope, intercept)

	histMax := 0.0
	for _, c := range counts {
		if c > histMax {
			histMax = c
		}
	}
	alertBar := math.Max(histMax, 3)

	lastHour := times[len(times)-1]
	points := make([]Point, 0, horizonHours)
	alert := false
	for h := 1; h <= horizonHours; h++ {
		x := float64(len(counts) - 1 + h)
		expected := slope*x + intercept
		if expected < 0 {
			expected = 0
		}
		lower := expected - spread
		if lower < 0 {
			lower = 0
		}
		if expected > alertBar {
			alert = true
		}
		points = append(points, Point{
			At:       lastHour.Add(time.Duration(h) * time.Hour),
			Expected: expected,
			Upper:    expected + spread,
			Lower:    lower,
		})
	}

	return Forecast{Alert: alert, Forecast: points}
}

// hourlyBins counts claims per hour across the observed span, including
// empty hours between the first and last observation.
func hourlyBins(history []model.Claim) ([]time.Time, []float64) {
	if len(history) == 0 {
		return nil, nil
	}

	first := history[0].Timestamp.Truncate(time.Hour)
	last := first
	byHour := make(map[time.Time]float64)
	for _, claim := range history {
		hour := claim.Timestamp.Truncate(time.Hour)
		byHour[hour]++
		if hour.Before(first) {
			first = hour
		}
		if hour.After(last) {
			last = hour
		}
	}

	var times []time.Time
	var counts []float64
	for hour := first; !hour.After(last); hour = hour.Add(time.Hour) {
		times = append(times, hour)
		counts = append(counts, byHour[hour])
	}
	return times, counts
}

// fitLine is an ordinary least-squares fit of counts against their index.
func fitLine(counts []float64) (slope, intercept float64) {
	n := float64(len(counts))
	if n == 1 {
		return 0, counts[0]
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range counts {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// residualSpread is the standard deviation of the fit residuals, floored at
// 1 so the bounds never collapse on short histories.
func residualSpread(counts []float64, slope, intercept float64) float64 {
	var sumSq float64
	for i, y := range counts {
		r := y - (slope*float64(i) + intercept)
		sumSq += r * r
	}
	spread := math.Sqrt(sumSq / float64(len(counts)))
	if spread < 1 {
		return 1
	}
	return spread
}

// Package forecast fits an additive decomposition model (trend plus weekly
// and yearly seasonality) over a daily spending series and extracts a point
// prediction with confidence bounds for the final day of the horizon.
package forecast

import (
	"fmt"
	"math"

	"github.com/dvloznov/finance-ai/internal/timeseries"
)

// ModelFitError indicates a series the model cannot fit. Fatal to the
// forecast request, not recovered locally.
type ModelFitError struct {
	Reason string
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("model fit failed: %s", e.Reason)
}

// Config tunes the decomposition model.
type Config struct {
	// ChangepointPriorScale controls how aggressively the trend bends to
	// recent data. Lower values regularize harder.
	ChangepointPriorScale float64

	// WeeklySeasonality and YearlySeasonality toggle the seasonal terms.
	WeeklySeasonality bool
	YearlySeasonality bool
}

// DefaultConfig mirrors the production defaults: low changepoint
// sensitivity, weekly and yearly terms on, no daily term.
func DefaultConfig() Config {
	return Config{
		ChangepointPriorScale: 0.05,
		WeeklySeasonality:     true,
		YearlySeasonality:     true,
	}
}

const (
	nChangepoints      = 25
	changepointRange   = 0.8 // changepoints span the first 80% of history
	weeklyPeriod       = 7.0
	yearlyPeriod       = 365.25
	weeklyFourierOrder = 3
	yearlyFourierOrder = 5
	seasonalPenalty    = 0.1
	intervalZ          = 1.28 // ~80% interval
)

// Engine fits the decomposition model. A zero-value Engine is not usable;
// construct with NewEngine.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	if cfg.ChangepointPriorScale <= 0 {
		cfg.ChangepointPriorScale = DefaultConfig().ChangepointPriorScale
	}
	return &Engine{cfg: cfg}
}

// model is a fitted decomposition over a daily series.
type model struct {
	cfg          Config
	beta         []float64
	changepoints []float64 // in scaled-time units
	historyLen   int
	startWeekday int // weekday of the first observed day
	sigma        float64 // residual standard deviation
}

// Forecast fits the model to the series and predicts `periods` calendar days
// past the last observed day. The scalar fields of the Result come from the
// final day of the horizon; the tail keeps `periods + 7` rows for charting.
func (e *Engine) Forecast(series timeseries.Daily, periods int, category string) (*Result, error) {
	if periods <= 0 {
		return nil, fmt.Errorf("forecast horizon must be positive, got %d", periods)
	}

	m, err := fit(series, e.cfg)
	if err != nil {
		return nil, err
	}

	n := m.historyLen
	total := n + periods

	tailLen := periods + 7
	if tailLen > total {
		tailLen = total
	}

	result := &Result{Category: category, Tail: make([]TailPoint, 0, tailLen)}

	for i := total - tailLen; i < total; i++ {
		trend, weekly, yearly := m.components(i)
		yhat := trend + weekly + yearly
		day := series.Start().AddDate(0, 0, i)

		point := TailPoint{
			Day:   day,
			Yhat:  round2(yhat),
			Lower: round2(yhat - intervalZ*m.sigma),
			Upper: round2(yhat + intervalZ*m.sigma),
		}
		result.Tail = append(result.Tail, point)

		if i == total-1 {
			result.ForecastDate = day
			result.PredictedAmount = point.Yhat
			result.ConfidenceLower = point.Lower
			result.ConfidenceUpper = point.Upper
			result.Trend = round2(trend)
			result.WeeklyComponent = round2(weekly)
			result.YearlyComponent = round2(yearly)
		}
	}

	return result, nil
}

// fit estimates the model coefficients by penalized least squares. The
// trend is piecewise linear with hinge terms at the changepoints; seasonal
// terms are Fourier series over the weekly and yearly periods.
func fit(series timeseries.Daily, cfg Config) (*model, error) {
	n := len(series)
	if n < 2 {
		return nil, &ModelFitError{Reason: "series has fewer than two distinct days"}
	}

	y := series.Values()
	scale := 0.0
	for _, v := range y {
		if a := math.Abs(v); a > scale {
			scale = a
		}
	}
	if scale == 0 {
		return nil, &ModelFitError{Reason: "series is constant at zero"}
	}

	m := &model{cfg: cfg, historyLen: n, startWeekday: int(series.Start().Weekday())}

	ncp := nChangepoints
	if ncp > n-2 {
		ncp = n - 2
	}
	if ncp < 0 {
		ncp = 0
	}
	m.changepoints = make([]float64, ncp)
	for j := range m.changepoints {
		m.changepoints[j] = changepointRange * float64(j+1) / float64(ncp+1)
	}

	// Design matrix, one row per observed day.
	cols := m.numFeatures()
	X := make([][]float64, n)
	for i := 0; i < n; i++ {
		X[i] = m.features(i)
	}

	// Normal equations with per-column ridge penalties.
	penalty := m.penalties()
	ata := make([][]float64, cols)
	atb := make([]float64, cols)
	for j := 0; j < cols; j++ {
		ata[j] = make([]float64, cols)
		for k := 0; k < cols; k++ {
			s := 0.0
			for i := 0; i < n; i++ {
				s += X[i][j] * X[i][k]
			}
			ata[j][k] = s
		}
		ata[j][j] += penalty[j]
		s := 0.0
		for i := 0; i < n; i++ {
			s += X[i][j] * y[i]
		}
		atb[j] = s
	}

	beta, err := solve(ata, atb)
	if err != nil {
		return nil, &ModelFitError{Reason: err.Error()}
	}
	m.beta = beta

	// Residual spread drives the confidence interval width.
	var sse float64
	for i := 0; i < n; i++ {
		pred := 0.0
		for j := 0; j < cols; j++ {
			pred += X[i][j] * beta[j]
		}
		r := y[i] - pred
		sse += r * r
	}
	m.sigma = math.Sqrt(sse / float64(n))

	return m, nil
}

// numFeatures returns the design-matrix width for the configured model.
func (m *model) numFeatures() int {
	cols := 2 + len(m.changepoints)
	if m.cfg.WeeklySeasonality {
		cols += 2 * weeklyFourierOrder
	}
	if m.cfg.YearlySeasonality {
		cols += 2 * yearlyFourierOrder
	}
	return cols
}

// features builds the design row for day index i (0 = first observed day).
func (m *model) features(i int) []float64 {
	t := m.scaledTime(i)

	row := make([]float64, 0, m.numFeatures())
	row = append(row, 1, t)
	for _, cp := range m.changepoints {
		row = append(row, hinge(t-cp))
	}
	if m.cfg.WeeklySeasonality {
		dayOfWeek := float64((m.startWeekday + i) % 7)
		row = append(row, fourier(dayOfWeek, weeklyPeriod, weeklyFourierOrder)...)
	}
	if m.cfg.YearlySeasonality {
		row = append(row, fourier(float64(i), yearlyPeriod, yearlyFourierOrder)...)
	}
	return row
}

// components evaluates the fitted trend, weekly and yearly terms at day i.
func (m *model) components(i int) (trend, weekly, yearly float64) {
	t := m.scaledTime(i)

	trend = m.beta[0] + m.beta[1]*t
	idx := 2
	for _, cp := range m.changepoints {
		trend += m.beta[idx] * hinge(t-cp)
		idx++
	}
	if m.cfg.WeeklySeasonality {
		dayOfWeek := float64((m.startWeekday + i) % 7)
		for _, f := range fourier(dayOfWeek, weeklyPeriod, weeklyFourierOrder) {
			weekly += m.beta[idx] * f
			idx++
		}
	}
	if m.cfg.YearlySeasonality {
		for _, f := range fourier(float64(i), yearlyPeriod, yearlyFourierOrder) {
			yearly += m.beta[idx] * f
			idx++
		}
	}
	return trend, weekly, yearly
}

// scaledTime maps day index i onto [0,1] over the observed history; future
// days extend past 1 on the same scale.
func (m *model) scaledTime(i int) float64 {
	return float64(i) / float64(m.historyLen-1)
}

// penalties returns the ridge penalty per design column. The trend intercept
// and slope are unpenalized; changepoint terms shrink with the inverse of the
// changepoint prior scale; seasonal terms get a fixed mild penalty.
func (m *model) penalties() []float64 {
	p := make([]float64, 0, m.numFeatures())
	p = append(p, 0, 0)
	for range m.changepoints {
		p = append(p, 1/m.cfg.ChangepointPriorScale)
	}
	seasonalCols := m.numFeatures() - 2 - len(m.changepoints)
	for j := 0; j < seasonalCols; j++ {
		p = append(p, seasonalPenalty)
	}
	return p
}

func hinge(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// fourier returns sin/cos pairs of the given order for position x in a cycle
// of the given period.
func fourier(x, period float64, order int) []float64 {
	out := make([]float64, 0, 2*order)
	for k := 1; k <= order; k++ {
		arg := 2 * math.Pi * float64(k) * x / period
		out = append(out, math.Sin(arg), math.Cos(arg))
	}
	return out
}

// solve runs Gaussian elimination with partial pivoting on a copy of the
// inputs. A vanishing pivot means the system is degenerate.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)
	m := make([][]float64, n)
	for i := range a {
		m[i] = make([]float64, n+1)
		copy(m[i], a[i])
		m[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("degenerate series: singular normal equations")
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := col + 1; r < n; r++ {
			f := m[r][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[r][c] -= f * m[col][c]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		s := m[i][n]
		for j := i + 1; j < n; j++ {
			s -= m[i][j] * x[j]
		}
		x[i] = s / m[i][i]
	}
	return x, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

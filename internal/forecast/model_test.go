package forecast

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/dvloznov/finance-ai/internal/timeseries"
)

// syntheticSeries builds a gapless daily series with a linear trend and a
// weekend spending bump, starting 2024-01-01.
func syntheticSeries(days int) timeseries.Daily {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(timeseries.Daily, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		total := 500 + 2*float64(i)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			total += 300
		}
		series[i] = timeseries.Point{Day: day, Total: total}
	}
	return series
}

func TestForecast_BoundsInvariant(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	result, err := engine.Forecast(syntheticSeries(120), 30, "Dining")
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	if result.ConfidenceLower > result.PredictedAmount {
		t.Errorf("lower %v > predicted %v", result.ConfidenceLower, result.PredictedAmount)
	}
	if result.PredictedAmount > result.ConfidenceUpper {
		t.Errorf("predicted %v > upper %v", result.PredictedAmount, result.ConfidenceUpper)
	}
	if result.Adjusted {
		t.Error("Adjusted must be false before review")
	}
	if result.Category != "Dining" {
		t.Errorf("category = %q", result.Category)
	}
}

func TestForecast_HorizonDate(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	series := syntheticSeries(90)

	result, err := engine.Forecast(series, 60, "")
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	want := series.End().AddDate(0, 0, 60)
	if !result.ForecastDate.Equal(want) {
		t.Errorf("forecast date = %v, want %v", result.ForecastDate, want)
	}

	if len(result.Tail) != 67 {
		t.Errorf("tail length = %d, want periods+7 = 67", len(result.Tail))
	}
	last := result.Tail[len(result.Tail)-1]
	if last.Yhat != result.PredictedAmount {
		t.Errorf("scalar prediction %v must come from the final tail row %v", result.PredictedAmount, last.Yhat)
	}
}

func TestForecast_TracksTrend(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// Steadily rising series: the 30-day-ahead prediction should exceed
	// the historical mean.
	series := syntheticSeries(180)
	mean := 0.0
	for _, p := range series {
		mean += p.Total
	}
	mean /= float64(len(series))

	result, err := engine.Forecast(series, 30, "")
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if result.PredictedAmount <= mean {
		t.Errorf("predicted %v should exceed historical mean %v for a rising trend", result.PredictedAmount, mean)
	}
	for _, v := range []float64{result.Trend, result.WeeklyComponent, result.YearlyComponent} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite component in %+v", result)
		}
	}
}

func TestForecast_WeeklyPattern(t *testing.T) {
	engine := NewEngine(Config{ChangepointPriorScale: 0.05, WeeklySeasonality: true})

	// Flat trend, strong weekend bump: the fitted weekly component should
	// be clearly nonzero on at least one day of the tail.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(timeseries.Daily, 140)
	for i := range series {
		day := start.AddDate(0, 0, i)
		total := 100.0
		if day.Weekday() == time.Saturday {
			total = 800
		}
		series[i] = timeseries.Point{Day: day, Total: total}
	}

	result, err := engine.Forecast(series, 7, "")
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	spread := 0.0
	for i := 1; i < len(result.Tail); i++ {
		if d := math.Abs(result.Tail[i].Yhat - result.Tail[i-1].Yhat); d > spread {
			spread = d
		}
	}
	if spread < 100 {
		t.Errorf("expected a pronounced weekly swing in the tail, max day-over-day delta = %v", spread)
	}
}

func TestForecast_Degenerate(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name   string
		series timeseries.Daily
	}{
		{
			name:   "single day",
			series: syntheticSeries(1),
		},
		{
			name: "all zero",
			series: timeseries.Daily{
				{Day: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Total: 0},
				{Day: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Total: 0},
				{Day: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Total: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Forecast(tt.series, 30, "")
			var fitErr *ModelFitError
			if !errors.As(err, &fitErr) {
				t.Errorf("expected ModelFitError, got %v", err)
			}
		})
	}
}

func TestForecast_InvalidHorizon(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	if _, err := engine.Forecast(syntheticSeries(30), 0, ""); err == nil {
		t.Error("expected error for zero horizon")
	}
}

package forecast

import "time"

// Plausibility is the outcome of the oracle review of a forecast.
type Plausibility struct {
	IsPlausible bool   `json:"is_plausible"`
	Reason      string `json:"reason"`
}

// TailPoint is one row of the charting tail appended to a Result.
type TailPoint struct {
	Day   time.Time `json:"day"`
	Yhat  float64   `json:"yhat"`
	Lower float64   `json:"yhat_lower"`
	Upper float64   `json:"yhat_upper"`
}

// Result is a point forecast for the final day of the horizon.
//
// Before review, ConfidenceLower <= PredictedAmount <= ConfidenceUpper. A
// plausibility override replaces PredictedAmount without recomputing the
// bounds, so the invariant may not hold once Adjusted is true.
type Result struct {
	Category        string       `json:"category,omitempty"`
	ForecastDate    time.Time    `json:"forecast_date"`
	PredictedAmount float64      `json:"predicted_amount"`
	ConfidenceLower float64      `json:"confidence_lower"`
	ConfidenceUpper float64      `json:"confidence_upper"`
	Trend           float64      `json:"trend"`
	WeeklyComponent float64      `json:"weekly_seasonality"`
	YearlyComponent float64      `json:"yearly_seasonality"`
	Tail            []TailPoint  `json:"tail,omitempty"`
	Plausibility    Plausibility `json:"plausibility"`
	Adjusted        bool         `json:"adjusted"`
}

package alert

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestEvaluate_Tiers(t *testing.T) {
	tests := []struct {
		name      string
		spending  int64
		limit     int64
		pct       float64
		threshold int64
		want      Priority
		wantAlert bool
	}{
		{name: "critical at 150 pct", spending: 9000, limit: 5000, pct: 110, threshold: 5000, want: PriorityCritical, wantAlert: true},
		{name: "high at 125 pct", spending: 7000, limit: 5000, pct: 110, threshold: 5000, want: PriorityHigh, wantAlert: true},
		{name: "medium when over budget", spending: 5600, limit: 5000, pct: 110, threshold: 5000, want: PriorityMedium, wantAlert: true},
		{name: "low when over threshold only", spending: 5500, limit: 10000, pct: 110, threshold: 5000, want: PriorityLow, wantAlert: true},
		{name: "no alert", spending: 3000, limit: 5000, pct: 110, threshold: 5000, wantAlert: false},
		{name: "exactly at threshold", spending: 5000, limit: 100000, pct: 110, threshold: 5000, want: PriorityLow, wantAlert: true},
		{name: "exactly at 150", spending: 7500, limit: 5000, pct: 110, threshold: 100000, want: PriorityCritical, wantAlert: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(d(tt.spending), d(tt.limit), tt.pct, d(tt.threshold))
			if got.ShouldAlert != tt.wantAlert {
				t.Fatalf("ShouldAlert = %v, want %v", got.ShouldAlert, tt.wantAlert)
			}
			if tt.wantAlert && got.Priority != tt.want {
				t.Errorf("Priority = %s, want %s", got.Priority, tt.want)
			}
			if !tt.wantAlert && got.Priority != "" {
				t.Errorf("Priority = %s, want empty for no alert", got.Priority)
			}
		})
	}
}

func TestEvaluate_ZeroLimit(t *testing.T) {
	got := Evaluate(d(100), d(0), 110, d(5000))

	if got.PctUsed != 0 {
		t.Errorf("PctUsed = %v, want 0 for zero limit", got.PctUsed)
	}
	if got.OverBudget {
		t.Error("zero limit must not count as over budget")
	}
	if got.ShouldAlert {
		t.Error("small spend under threshold with zero limit must not alert")
	}
}

func TestEvaluate_PctRounding(t *testing.T) {
	// 5600 / 5000 = 112.00%; 1234 / 5678 = 21.7%
	got := Evaluate(d(5600), d(5000), 110, d(5000))
	if got.PctUsed != 112.0 {
		t.Errorf("PctUsed = %v, want 112.0", got.PctUsed)
	}

	got = Evaluate(d(1234), d(5678), 110, d(99999))
	if got.PctUsed != 21.7 {
		t.Errorf("PctUsed = %v, want 21.7", got.PctUsed)
	}
}

func TestEvaluate_Flags(t *testing.T) {
	got := Evaluate(d(9000), d(5000), 110, d(5000))
	if !got.OverBudget || !got.OverThreshold {
		t.Errorf("flags = over_budget:%v over_threshold:%v, want both true", got.OverBudget, got.OverThreshold)
	}

	got = Evaluate(d(5500), d(10000), 110, d(5000))
	if got.OverBudget {
		t.Error("55%% used must not be over budget")
	}
	if !got.OverThreshold {
		t.Error("5500 >= 5000 must be over threshold")
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.BudgetPct != 110.0 {
		t.Errorf("BudgetPct = %v", p.BudgetPct)
	}
	if !p.AbsoluteThreshold.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("AbsoluteThreshold = %v", p.AbsoluteThreshold)
	}
	if !p.EmailEnabled || p.SMSEnabled {
		t.Error("default policy is email on, SMS off")
	}
}

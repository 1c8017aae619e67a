package normalizer

import (
	"errors"
	"testing"
	"time"
)

const sampleCSV = "date,description,amount\n" +
	"2024-01-15,Swiggy order,450.00\n" +
	"2024-01-15,Uber trip,320.00\n" +
	"2024-01-16,BigBasket,2100.00\n" +
	"2024-01-16,Netflix,499.00\n" +
	"2024-01-17,Electricity bill,2500.00\n"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "rupee symbol with separators", input: "₹1,234.56", want: "1234.56"},
		{name: "accounting parentheses", input: "(500.00)", want: "500"},
		{name: "negative sign discarded", input: "-500.00", want: "500"},
		{name: "dollar symbol", input: "$99.99", want: "99.99"},
		{name: "plain number", input: "42", want: "42"},
		{name: "internal spaces", input: "1 234.50", want: "1234.5"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "non-numeric", input: "not-a-number", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
			}
			if got.IsNegative() {
				t.Errorf("ParseAmount(%q) returned a negative magnitude", tt.input)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "2024-01-15", want: "2024-01-15"},
		{input: "15-01-2024", want: "2024-01-15"},
		{input: "2024/01/15", want: "2024-01-15"},
		{input: "Jan 15, 2024", want: "2024-01-15"},
		{input: "15 January 2024", want: "2024-01-15"},
		{input: "2024-01-15T10:30:00Z", want: "2024-01-15"},
		{input: "2024-01-15 10:30:00", want: "2024-01-15"},
		{input: "yesterday", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestCleanDescription(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "collapses whitespace", input: "Swiggy   order \t here", want: "Swiggy order here"},
		{name: "trims", input: "  Uber trip  ", want: "Uber trip"},
		{name: "empty becomes Unknown", input: "", want: "Unknown"},
		{name: "whitespace becomes Unknown", input: "   ", want: "Unknown"},
		{name: "truncated to 500", input: string(long), want: string(long[:500])},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanDescription(tt.input); got != tt.want {
				t.Errorf("CleanDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    map[string]int
	}{
		{
			name:    "synonym headers",
			headers: []string{"Txn Date", "Payee", "Value"},
			want:    map[string]int{FieldDate: 0, FieldDescription: 1, FieldAmount: 2},
		},
		{
			name:    "order independent",
			headers: []string{"Amount", "Merchant", "Timestamp"},
			want:    map[string]int{FieldDate: 2, FieldDescription: 1, FieldAmount: 0},
		},
		{
			name:    "first match wins over duplicates",
			headers: []string{"date", "posted_date", "amount", "value"},
			want:    map[string]int{FieldDate: 0, FieldAmount: 2},
		},
		{
			name:    "unrelated headers",
			headers: []string{"foo", "bar"},
			want:    map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectColumns(tt.headers)
			if len(got) != len(tt.want) {
				t.Fatalf("DetectColumns() = %v, want %v", got, tt.want)
			}
			for field, idx := range tt.want {
				if got[field] != idx {
					t.Errorf("DetectColumns()[%s] = %d, want %d", field, got[field], idx)
				}
			}
		})
	}
}

func TestParse(t *testing.T) {
	n := New(Options{})

	result, err := n.Parse(sampleCSV)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(result.Accepted) != 5 {
		t.Fatalf("Expected 5 transactions, got %d", len(result.Accepted))
	}
	if len(result.Rejected) != 0 {
		t.Errorf("Expected no rejected rows, got %d", len(result.Rejected))
	}

	first := result.Accepted[0]
	if first.Description != "Swiggy order" {
		t.Errorf("first description = %q, want %q", first.Description, "Swiggy order")
	}
	if first.Amount.String() != "450" {
		t.Errorf("first amount = %s, want 450", first.Amount)
	}
	if !first.Date.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first date = %v", first.Date)
	}
	if first.IsIncome {
		t.Error("IsIncome should default to false")
	}
	if first.Source != "csv" {
		t.Errorf("source = %q, want csv", first.Source)
	}
}

func TestParse_SchemaError(t *testing.T) {
	n := New(Options{})

	_, err := n.Parse("foo,bar\n1,2\n")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected SchemaError, got %v", err)
	}
}

func TestParse_MixedRows(t *testing.T) {
	n := New(Options{})

	csv := "date,description,amount\n" +
		"2024-01-15,Good row,100.00\n" +
		"not-a-date,Bad date,50.00\n" +
		"2024-01-16,Bad amount,oops\n"

	result, err := n.Parse(csv)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Accepted) != 1 {
		t.Fatalf("Expected 1 accepted row, got %d", len(result.Accepted))
	}
	if len(result.Rejected) != 2 {
		t.Fatalf("Expected 2 rejected rows, got %d", len(result.Rejected))
	}
	if result.Rejected[0].Row != 2 || result.Rejected[1].Row != 3 {
		t.Errorf("rejected rows = %d, %d; want 2, 3", result.Rejected[0].Row, result.Rejected[1].Row)
	}
}

func TestParse_AllRowsFail(t *testing.T) {
	n := New(Options{})

	csv := "date,description,amount\n" +
		"bad,one,xx\n" +
		"worse,two,yy\n"

	_, err := n.Parse(csv)
	var aggErr *AggregateParseError
	if !errors.As(err, &aggErr) {
		t.Fatalf("Expected AggregateParseError, got %v", err)
	}
	if len(aggErr.Rows) != 2 {
		t.Errorf("Expected 2 row errors, got %d", len(aggErr.Rows))
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	n := New(Options{})

	_, err := n.Parse("date,description,amount\n")
	var aggErr *AggregateParseError
	if !errors.As(err, &aggErr) {
		t.Fatalf("Expected AggregateParseError for header-only input, got %v", err)
	}
	if len(aggErr.Rows) != 0 {
		t.Errorf("Expected no row errors, got %d", len(aggErr.Rows))
	}
	if aggErr.Error() == "" {
		t.Error("Expected a descriptive error message")
	}
}

func TestParse_MissingDescription(t *testing.T) {
	n := New(Options{})

	result, err := n.Parse("date,amount\n2024-01-15,100.00\n2024-01-16,200.00\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := result.Accepted[0].Description; got != "Transaction 1" {
		t.Errorf("placeholder description = %q, want %q", got, "Transaction 1")
	}
	if got := result.Accepted[1].Description; got != "Transaction 2" {
		t.Errorf("placeholder description = %q, want %q", got, "Transaction 2")
	}
}

func TestParse_InferIncomeFromSign(t *testing.T) {
	csv := "date,description,amount\n2024-01-15,Salary,-1000.00\n2024-01-16,Rent,800.00\n"

	// Default: sign discarded, never income.
	result, err := New(Options{}).Parse(csv)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if result.Accepted[0].IsIncome {
		t.Error("IsIncome must stay false when inference is off")
	}

	// Opt-in inference.
	result, err = New(Options{InferIncomeFromSign: true}).Parse(csv)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !result.Accepted[0].IsIncome {
		t.Error("negative row should be income when inference is on")
	}
	if result.Accepted[1].IsIncome {
		t.Error("positive row should not be income")
	}
	if result.Accepted[0].Amount.String() != "1000" {
		t.Errorf("amount = %s, want magnitude 1000", result.Accepted[0].Amount)
	}
}

func TestParseWithMapping(t *testing.T) {
	n := New(Options{})

	csv := "when,what,how_much\n2024-01-15,Coffee,4.50\nbad-date,Tea,3.00\n"
	mapping := map[string]string{
		FieldDate:        "when",
		FieldDescription: "what",
		FieldAmount:      "how_much",
	}

	txs, err := n.ParseWithMapping(csv, mapping)
	if err != nil {
		t.Fatalf("ParseWithMapping failed: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("Expected 1 transaction (bad row skipped silently), got %d", len(txs))
	}
	if txs[0].Description != "Coffee" {
		t.Errorf("description = %q, want Coffee", txs[0].Description)
	}
}

func TestParseWithMapping_MissingRequired(t *testing.T) {
	n := New(Options{})

	_, err := n.ParseWithMapping("a,b\n1,2\n", map[string]string{FieldDate: "a"})
	if err == nil {
		t.Fatal("Expected error for missing amount mapping")
	}
}

func TestParseWithMapping_AllRowsBad(t *testing.T) {
	n := New(Options{})

	csv := "when,how_much\nbad,xx\n"
	txs, err := n.ParseWithMapping(csv, map[string]string{FieldDate: "when", FieldAmount: "how_much"})
	if err != nil {
		t.Fatalf("ParseWithMapping must not fail on unparsable rows: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("Expected 0 transactions, got %d", len(txs))
	}
}

package normalizer

import (
	"fmt"
	"strings"
)

// SchemaError indicates that the required date or amount column could not be
// mapped from the CSV header row. The request is rejected, not retried.
type SchemaError struct {
	Headers []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("could not detect required columns (need date and amount). Found: [%s]",
		strings.Join(e.Headers, ", "))
}

// RowError records why a single row failed to parse. Row is the 1-based index
// of the data row (the header row is not counted).
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// AggregateParseError is returned when parsing produced zero transactions,
// either because every row failed or because the input had no data rows.
// It carries the reason for each failed row.
type AggregateParseError struct {
	Rows []RowError
}

func (e *AggregateParseError) Error() string {
	if len(e.Rows) == 0 {
		return "no valid transactions found"
	}
	reasons := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		reasons[i] = r.Error()
	}
	return fmt.Sprintf("no valid transactions found: %s", strings.Join(reasons, "; "))
}

// Package normalizer maps arbitrary delimited spending exports onto the
// canonical transaction shape. Column detection is heuristic: headers are
// matched against a fixed synonym list, so exports from different banks can
// be ingested without per-source configuration.
package normalizer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dvloznov/finance-ai/internal/domain"
)

// Options tunes normalization behavior.
type Options struct {
	// InferIncomeFromSign marks rows with a negative ingested amount as
	// income. Off by default: income classification is the categorizer's
	// job, and statement sign conventions vary by source.
	InferIncomeFromSign bool

	// Source is the provenance tag stamped on every transaction.
	// Defaults to "csv".
	Source string
}

// Result is the outcome of a bulk parse. Rejected rows are always surfaced
// alongside the accepted transactions; nothing is silently discarded.
type Result struct {
	Accepted []domain.Transaction
	Rejected []RowError
}

// Normalizer parses raw delimited text into canonical transactions.
type Normalizer struct {
	opts Options
}

// New creates a Normalizer with the given options.
func New(opts Options) *Normalizer {
	if opts.Source == "" {
		opts.Source = "csv"
	}
	return &Normalizer{opts: opts}
}

// Parse reads CSV content, auto-detects the column mapping and returns the
// accepted transactions plus a reason for every rejected row.
//
// It fails with a *SchemaError when no date or amount column can be mapped,
// and with an *AggregateParseError when zero transactions result.
func (n *Normalizer) Parse(csvContent string) (*Result, error) {
	headers, rows, err := readCSV(csvContent)
	if err != nil {
		return nil, err
	}

	columns := DetectColumns(headers)
	if _, ok := columns[FieldDate]; !ok {
		return nil, &SchemaError{Headers: headers}
	}
	if _, ok := columns[FieldAmount]; !ok {
		return nil, &SchemaError{Headers: headers}
	}

	result := n.parseRows(rows, columns)

	if len(result.Accepted) == 0 {
		return nil, &AggregateParseError{Rows: result.Rejected}
	}

	return result, nil
}

// ParseWithMapping parses CSV content with a caller-supplied field→column
// mapping instead of detection. Unparsable rows are skipped without error,
// even if zero transactions result.
func (n *Normalizer) ParseWithMapping(csvContent string, mapping map[string]string) ([]domain.Transaction, error) {
	for _, required := range []string{FieldDate, FieldAmount} {
		if _, ok := mapping[required]; !ok {
			return nil, fmt.Errorf("missing required column mapping: %s", required)
		}
	}

	headers, rows, err := readCSV(csvContent)
	if err != nil {
		return nil, err
	}

	columns := make(map[string]int)
	for field, name := range mapping {
		for i, h := range headers {
			if strings.TrimSpace(h) == name {
				columns[field] = i
				break
			}
		}
	}
	if _, ok := columns[FieldDate]; !ok {
		return nil, fmt.Errorf("mapped date column %q not found in header", mapping[FieldDate])
	}
	if _, ok := columns[FieldAmount]; !ok {
		return nil, fmt.Errorf("mapped amount column %q not found in header", mapping[FieldAmount])
	}

	result := n.parseRows(rows, columns)
	return result.Accepted, nil
}

// parseRows applies the row-level failure policy: a malformed row is
// recorded and skipped, never aborting the batch.
func (n *Normalizer) parseRows(rows [][]string, columns map[string]int) *Result {
	result := &Result{}

	descCol, hasDescription := columns[FieldDescription]

	for i, row := range rows {
		rowNum := i + 1

		date, err := ParseDate(cell(row, columns[FieldDate]))
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		amount, negative, err := parseSignedAmount(cell(row, columns[FieldAmount]))
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		description := fmt.Sprintf("Transaction %d", rowNum)
		if hasDescription {
			description = CleanDescription(cell(row, descCol))
		}

		result.Accepted = append(result.Accepted, domain.Transaction{
			Date:        date,
			Description: description,
			Amount:      amount,
			IsIncome:    n.opts.InferIncomeFromSign && negative,
			Source:      n.opts.Source,
		})
	}

	return result
}

// readCSV splits content into a trimmed header row and data rows.
func readCSV(csvContent string) (headers []string, rows [][]string, err error) {
	reader := csv.NewReader(strings.NewReader(csvContent))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err = reader.Read()
	if err == io.EOF {
		return nil, nil, &SchemaError{}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading CSV rows: %w", err)
		}
		rows = append(rows, record)
	}

	return headers, rows, nil
}

// cell returns the column value or "" when the row is short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

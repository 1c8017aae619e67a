package normalizer

import (
	"regexp"
	"strings"
)

// Canonical fields the detector maps CSV headers onto.
const (
	FieldDate        = "date"
	FieldDescription = "description"
	FieldAmount      = "amount"
)

// columnPatterns maps each canonical field to the synonym pattern its header
// must match. Matching is case-insensitive over the whole trimmed header.
var columnPatterns = map[string]*regexp.Regexp{
	FieldDate:        regexp.MustCompile(`(?i)^(date|txn date|txn_date|transaction_date|posted_date|time|datetime|timestamp)$`),
	FieldDescription: regexp.MustCompile(`(?i)^(description|desc|payee|merchant|narrative|details|particulars|transaction_type|memo)$`),
	FieldAmount:      regexp.MustCompile(`(?i)^(amount|value|sum|txn_amount|debit|credit|paid|received)$`),
}

// detectionOrder keeps column detection deterministic.
var detectionOrder = []string{FieldDate, FieldDescription, FieldAmount}

// DetectColumns maps canonical fields to column indexes by matching headers
// against the synonym patterns. The first matching header wins for each
// field; later duplicates are ignored. Headers are trimmed before matching.
func DetectColumns(headers []string) map[string]int {
	columns := make(map[string]int)
	for _, field := range detectionOrder {
		pattern := columnPatterns[field]
		for i, h := range headers {
			if pattern.MatchString(strings.TrimSpace(h)) {
				columns[field] = i
				break
			}
		}
	}
	return columns
}

// Package oracle wraps the LLM completion collaborator. Callers send a
// prompt and decode the response as one strict JSON object; any transport or
// parse failure is a recoverable error the caller degrades on.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// CompletionClient is the outbound LLM interface. Implementations must be
// safe for concurrent use; the categorizer fans out over a shared client.
type CompletionClient interface {
	// Complete sends a prompt and returns the model's free-text response.
	Complete(ctx context.Context, prompt string) (string, error)
}

// DecodeJSON parses the model's response text as a single JSON object into
// v, stripping surrounding Markdown code fences if the model ignored the
// strict-JSON instruction.
func DecodeJSON(raw string, v interface{}) error {
	clean := CleanModelJSON(raw)
	if clean == "" {
		return fmt.Errorf("empty response from model")
	}
	if err := json.Unmarshal([]byte(clean), v); err != nil {
		return fmt.Errorf("unmarshal model JSON: %w (raw response: %s)", err, raw)
	}
	return nil
}

// CleanModelJSON strips Markdown fences and surrounding junk from a model
// response, keeping only the outermost JSON object or array.
func CleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Extra safety: if there is still junk around the payload, keep only
	// from the first opening brace/bracket to the matching last closer.
	objStart := strings.Index(s, "{")
	arrStart := strings.Index(s, "[")

	opener, closer := "{", "}"
	if objStart == -1 || (arrStart != -1 && arrStart < objStart) {
		opener, closer = "[", "]"
	}
	if start := strings.Index(s, opener); start != -1 {
		if end := strings.LastIndex(s, closer); end > start {
			return strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

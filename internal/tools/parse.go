// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Post-processing of structured tool output

package tools

import (
	"encoding/json"
	"fmt"
)

// ParseOutputs unwraps `terraform output -json` envelopes into a flat
// name→value map. Terraform nests each output under {value, type,
// sensitive}; callers only want the values.
func ParseOutputs(stdout string) (map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stdout), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse terraform outputs: %w", err)
	}

	outputs := make(map[string]any, len(raw))
	for name, msg := range raw {
		var envelope struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(msg, &envelope); err == nil && envelope.Value != nil {
			var value any
			if err := json.Unmarshal(envelope.Value, &value); err == nil {
				outputs[name] = value
				continue
			}
		}
		var value any
		if err := json.Unmarshal(msg, &value); err == nil {
			outputs[name] = value
		}
	}
	return outputs, nil
}

// LintSummary aggregates a tflint JSON report by severity.
type LintSummary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Notices  int `json:"notices"`
}

// ParseLintSummary counts issues in tflint's --format json output.
// Unparseable output yields a nil summary; the raw stream remains the
// source of truth.
func ParseLintSummary(stdout string) *LintSummary {
	var report struct {
		Issues []struct {
			Rule struct {
				Severity string `json:"severity"`
			} `json:"rule"`
		} `json:"issues"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		return nil
	}

	summary := &LintSummary{Total: len(report.Issues)}
	for _, issue := range report.Issues {
		switch issue.Rule.Severity {
		case "error":
			summary.Errors++
		case "warning":
			summary.Warnings++
		default:
			summary.Notices++
		}
	}
	return summary
}

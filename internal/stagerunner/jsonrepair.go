package stagerunner

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrStageOutputInvalid means a stage's raw response was neither valid JSON
// nor repairable into valid JSON.
var ErrStageOutputInvalid = errors.New("stagerunner: stage output failed JSON validation")

// extractAndRepairJSON turns a raw model response into a validated JSON
// document, per the validation cascade: parse as-is, then strip common
// wrapping (markdown fences, leading/trailing prose) and retry, then give up.
func extractAndRepairJSON(raw string) ([]byte, error) {
	if json.Valid([]byte(raw)) {
		return compact([]byte(raw)), nil
	}

	repaired := stripCodeFence(raw)
	repaired = extractOutermostObject(repaired)
	repaired = stripTrailingCommas(repaired)

	if json.Valid([]byte(repaired)) {
		return compact([]byte(repaired)), nil
	}
	return nil, ErrStageOutputInvalid
}

func compact(raw []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

// stripCodeFence removes a surrounding ```json ... ``` or ``` ... ``` fence,
// the most common wrapping models add around an otherwise-valid document.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractOutermostObject trims any leading or trailing prose a model added
// around the JSON object by slicing from the first '{' to the last '}'.
func extractOutermostObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

// stripTrailingCommas removes ",}" and ",]" sequences, the other common
// near-miss where a model emits an otherwise well-formed object.
func stripTrailingCommas(s string) string {
	var out strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r == ',' {
			j := i + 1
			for j < len(runes) && (runes[j] == ' ' || runes[j] == '\n' || runes[j] == '\t' || runes[j] == '\r') {
				j++
			}
			if j < len(runes) && (runes[j] == '}' || runes[j] == ']') {
				continue
			}
		}
		out.WriteRune(r)
	}
	return out.String()
}

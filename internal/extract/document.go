// Package extract turns untrusted generated text into typed results.
// Every parser is total: malformed input degrades to documented defaults and never panics out.
package extract

import "strings"

// Failure markers substituted when no usable document text exists.
const (
	ChartFailurePrefix     = "AI 차트 생성 실패: "
	CostGuideFailurePrefix = "Error: "
	emptyResponseCause     = "empty response from inference service"
)

// maxInputBytes bounds the text any parser will look at.
const maxInputBytes = 64 << 10

// ParseChart returns the chart note text, or a failure marker when raw is blank.
func ParseChart(raw string) string {
	return parseDocument(raw, ChartFailurePrefix)
}

// ChartFailure renders the chart failure marker for cause.
func ChartFailure(cause string) string {
	return ChartFailurePrefix + cause
}

// ParseCostGuide returns the cost guide text, or a failure marker when raw is blank.
func ParseCostGuide(raw string) string {
	return parseDocument(raw, CostGuideFailurePrefix)
}

// CostGuideFailure renders the cost guide failure marker for cause.
func CostGuideFailure(cause string) string {
	return CostGuideFailurePrefix + cause
}

func parseDocument(raw, failurePrefix string) string {
	text := strings.TrimSpace(bound(raw))
	if text == "" {
		return failurePrefix + emptyResponseCause
	}
	return text
}

// bound truncates s to maxInputBytes without splitting a UTF-8 sequence.
func bound(s string) string {
	if len(s) <= maxInputBytes {
		return s
	}
	cut := maxInputBytes
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

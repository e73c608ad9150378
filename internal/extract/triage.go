package extract

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"patient-triage-server/internal/models"
)

// DefaultReason is used when no reason line was extracted.
const DefaultReason = "일반 진료 상담이 필요합니다. (General consultation recommended.)"

type triageField int

const (
	fieldNone triageField = iota
	fieldDepartment
	fieldUrgency
	fieldReason
	fieldReasonKR
	fieldReasonEN
)

var triageLabels = map[string]triageField{
	"department": fieldDepartment,
	"진료과":        fieldDepartment,
	"urgency":    fieldUrgency,
	"긴급도":        fieldUrgency,
	"reason":     fieldReason,
	"reason_kr":  fieldReasonKR,
	"reason_ko":  fieldReasonKR,
	"reason_en":  fieldReasonEN,
}

// TriageParser extracts the department/urgency/reason triple.
type TriageParser struct {
	FallbackDepartment string
	Logger             *zap.Logger
}

// NewTriageParser returns a parser defaulting the department to fallbackDepartment.
func NewTriageParser(fallbackDepartment string, logger *zap.Logger) *TriageParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TriageParser{FallbackDepartment: fallbackDepartment, Logger: logger}
}

// Defaults is the result for text with no recognizable fields.
func (p *TriageParser) Defaults() models.TriageResult {
	return models.TriageResult{
		Department: models.ValueOr(strings.TrimSpace(p.FallbackDepartment), "가정의학과"),
		Urgency:    models.UrgencyLow,
		Reason:     DefaultReason,
	}
}

// Parse scans raw line by line for "<Label>: value" lines. Order does not matter,
// unknown lines are skipped, and the first non-empty value of a label wins.
func (p *TriageParser) Parse(raw string) (result models.TriageResult) {
	result = p.Defaults()
	defer func() {
		if r := recover(); r != nil {
			p.Logger.Error("Triage extraction panicked, using defaults", zap.Any("panic", r))
			result = p.Defaults()
		}
	}()

	found := map[triageField]string{}
	text := norm.NFC.String(bound(raw))
	for _, line := range strings.Split(text, "\n") {
		label, value, ok := splitField(line)
		if !ok {
			continue
		}
		field := triageLabels[label]
		if field == fieldNone {
			continue
		}
		if _, seen := found[field]; !seen {
			found[field] = value
		}
	}

	if dept := found[fieldDepartment]; dept != "" {
		result.Department = dept
	}

	if value, ok := found[fieldUrgency]; ok {
		urgency, known := models.ParseUrgency(value)
		if !known {
			p.Logger.Warn("Unrecognized urgency, defaulting to Low", zap.String("urgency", value))
		}
		result.Urgency = urgency
	}

	switch {
	case found[fieldReason] != "":
		result.Reason = found[fieldReason]
	case found[fieldReasonKR] != "":
		result.Reason = found[fieldReasonKR]
	case found[fieldReasonEN] != "":
		result.Reason = found[fieldReasonEN]
	}
	result.ReasonEN = found[fieldReasonEN]

	return result
}

// trimListNumber drops a leading "1." or "2)" list marker.
func trimListNumber(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i == len(line) || (line[i] != '.' && line[i] != ')') {
		return line
	}
	return strings.TrimLeft(line[i+1:], "-*•#> \t")
}

// splitField reads a leading "Label: value" pair. Markdown bullets and bold markers
// around the label are ignored; the label is lower-cased with spaces and hyphens as "_".
func splitField(line string) (label, value string, ok bool) {
	line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	line = strings.TrimLeft(line, "-*•#> \t")
	line = trimListNumber(line)

	idx := strings.IndexAny(line, ":：")
	if idx <= 0 {
		return "", "", false
	}
	sep := ":"
	if strings.HasPrefix(line[idx:], "：") {
		sep = "："
	}

	label = strings.Trim(line[:idx], "* \t_")
	if label == "" || strings.ContainsAny(label, ".,;!?") {
		return "", "", false
	}
	label = strings.ToLower(label)
	label = strings.NewReplacer(" ", "_", "-", "_").Replace(label)

	value = strings.TrimSpace(line[idx+len(sep):])
	value = strings.TrimSpace(strings.Trim(value, "*"))
	if value == "" {
		return "", "", false
	}
	return label, value, true
}

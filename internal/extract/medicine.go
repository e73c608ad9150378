package extract

import (
	"strings"

	"patient-triage-server/internal/inference"
	"patient-triage-server/internal/models"
)

// MedicineUnavailable fills both languages when the provider returned nothing.
const MedicineUnavailable = "의약품 정보를 가져오지 못했습니다. (Medicine information is unavailable.)"

// ParseMedicine splits raw on the EN section marker. Without the marker both
// languages receive the whole raw text so nothing is dropped. Neither field is ever empty.
// The marker is only searched for in the first maxInputBytes of raw.
func ParseMedicine(raw string) (result models.MedicineResult) {
	defer func() {
		if r := recover(); r != nil {
			result = models.MedicineResult{InfoKR: raw, InfoEN: raw}
		}
	}()

	if strings.TrimSpace(raw) == "" {
		return MedicineFailure(MedicineUnavailable)
	}

	idx := strings.Index(bound(raw), inference.MedicineMarkerEN)
	if idx < 0 {
		return models.MedicineResult{InfoKR: raw, InfoEN: raw}
	}

	kr := strings.TrimSpace(strings.Replace(raw[:idx], inference.MedicineMarkerKR, "", 1))
	en := strings.TrimSpace(raw[idx+len(inference.MedicineMarkerEN):])

	switch {
	case kr == "" && en == "":
		return MedicineFailure(MedicineUnavailable)
	case kr == "":
		kr = en
	case en == "":
		en = kr
	}
	return models.MedicineResult{InfoKR: kr, InfoEN: en}
}

// MedicineFailure puts the same message in both languages.
func MedicineFailure(message string) models.MedicineResult {
	return models.MedicineResult{InfoKR: message, InfoEN: message}
}

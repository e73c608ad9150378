package models

import "strings"

// InsuranceCategory groups the free-text insurance info into billing branches
type InsuranceCategory string

const (
	InsuranceNHIS    InsuranceCategory = "NHIS"
	InsurancePrivate InsuranceCategory = "Private"
	InsuranceTravel  InsuranceCategory = "Travel"
	InsuranceUnknown InsuranceCategory = "Unknown"
)

var insuranceKeywords = []struct {
	category InsuranceCategory
	keywords []string
}{
	{InsuranceNHIS, []string{"nhis", "national health", "국민건강보험", "건강보험", "국민보험"}},
	{InsuranceTravel, []string{"travel", "여행자", "여행"}},
	{InsurancePrivate, []string{"private", "민간", "실손", "사보험"}},
}

// NormalizeInsurance classifies free-text insurance info. Blank or "None" is Unknown.
func NormalizeInsurance(info string) InsuranceCategory {
	text := strings.ToLower(strings.TrimSpace(info))
	if text == "" || text == "none" {
		return InsuranceUnknown
	}
	for _, group := range insuranceKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				return group.category
			}
		}
	}
	return InsuranceUnknown
}

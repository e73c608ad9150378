package models

import (
	"strings"
	"unicode"
)

// Urgency represents how soon the patient should be seen
type Urgency string

const (
	UrgencyEmergency Urgency = "Emergency"
	UrgencyHigh      Urgency = "High"
	UrgencyModerate  Urgency = "Moderate"
	UrgencyLow       Urgency = "Low"
)

// Urgencies lists every level from most to least urgent.
var Urgencies = []Urgency{UrgencyEmergency, UrgencyHigh, UrgencyModerate, UrgencyLow}

var urgencyAliases = map[string]Urgency{
	"emergency": UrgencyEmergency,
	"critical":  UrgencyEmergency,
	"응급":        UrgencyEmergency,
	"high":      UrgencyHigh,
	"urgent":    UrgencyHigh,
	"높음":        UrgencyHigh,
	"moderate":  UrgencyModerate,
	"medium":    UrgencyModerate,
	"보통":        UrgencyModerate,
	"low":       UrgencyLow,
	"낮음":        UrgencyLow,
}

// Rank orders urgencies, 0 being the most urgent. Unknown values rank last.
func (u Urgency) Rank() int {
	for i, level := range Urgencies {
		if u == level {
			return i
		}
	}
	return len(Urgencies)
}

// Valid reports whether u is a member of the urgency enum.
func (u Urgency) Valid() bool {
	return u.Rank() < len(Urgencies)
}

// ParseUrgency maps free text such as "high", "High - see today" or "응급" onto the enum.
// Only the leading word is considered; brackets, quotes and other symbols around it are ignored.
func ParseUrgency(s string) (Urgency, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return UrgencyLow, false
	}
	word := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(word) == 0 {
		return UrgencyLow, false
	}
	if u, ok := urgencyAliases[strings.ToLower(word[0])]; ok {
		return u, true
	}
	return UrgencyLow, false
}

// TriageResult is the department recommendation extracted for a symptom description
type TriageResult struct {
	Department string  `json:"department"`
	Urgency    Urgency `json:"urgency"`
	Reason     string  `json:"reason"`
	ReasonEN   string  `json:"reason_en,omitempty"`
}

// MedicineResult carries the bilingual medicine information and an optional illustration
type MedicineResult struct {
	InfoKR   string `json:"info_kr"`
	InfoEN   string `json:"info_en"`
	ImageURL string `json:"image_url,omitempty"`
}

// Coordinate is a WGS84 point in signed degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HospitalRecord is a nearby place matching the recommended department
type HospitalRecord struct {
	Name       string      `json:"name"`
	Department string      `json:"department"`
	Distance   string      `json:"distance"`
	Address    string      `json:"address"`
	Phone      string      `json:"phone,omitempty"`
	URL        string      `json:"url,omitempty"`
	Location   *Coordinate `json:"location,omitempty"`
}

// RecommendationResponse combines a triage result with nearby hospitals
type RecommendationResponse struct {
	RecommendedDepartment string           `json:"recommended_department"`
	UrgencyLevel          Urgency          `json:"urgency_level"`
	Reason                string           `json:"reason"`
	ReasonEN              string           `json:"reason_en,omitempty"`
	Hospitals             []HospitalRecord `json:"hospitals"`
}

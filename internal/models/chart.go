package models

import (
	"strings"
	"time"
)

// SymptomInput is the transient symptom description submitted for chart generation
type SymptomInput struct {
	SelectedSymptoms  []string `json:"selected_symptoms"`
	DetailDescription string   `json:"detail_description"`
}

// Normalized drops blank tags and duplicates, keeping the first occurrence order.
func (s SymptomInput) Normalized() SymptomInput {
	seen := make(map[string]struct{}, len(s.SelectedSymptoms))
	tags := make([]string, 0, len(s.SelectedSymptoms))
	for _, tag := range s.SelectedSymptoms {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return SymptomInput{
		SelectedSymptoms:  tags,
		DetailDescription: strings.TrimSpace(s.DetailDescription),
	}
}

// TagList renders the symptom tags as a comma-joined list.
func (s SymptomInput) TagList() string {
	return strings.Join(s.SelectedSymptoms, ", ")
}

// ChartEntry is a chart the patient explicitly saved, possibly after editing the generated text
type ChartEntry struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Symptoms  SymptomInput `json:"symptoms"`
	ChartText string       `json:"chart_text"`
}

// Clone returns a copy that does not share the symptom slice.
func (c ChartEntry) Clone() ChartEntry {
	cp := c
	if c.Symptoms.SelectedSymptoms != nil {
		cp.Symptoms.SelectedSymptoms = append([]string(nil), c.Symptoms.SelectedSymptoms...)
	}
	return cp
}

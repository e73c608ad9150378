package inference

import (
	"fmt"
	"strings"
	"text/template"
)

// TemplateID selects one of the fixed instruction templates
type TemplateID string

const (
	TemplateChartNote        TemplateID = "chart-note"
	TemplateCostGuide        TemplateID = "cost-guide"
	TemplateDepartmentTriage TemplateID = "department-triage"
	TemplateMedicineLookup   TemplateID = "medicine-lookup"
)

// Fields are the named context values substituted into a template
type Fields map[string]string

// Context field names
const (
	FieldName              = "name"
	FieldBirthDate         = "birth_date"
	FieldHistory           = "medical_history"
	FieldMedications       = "medications"
	FieldAllergies         = "allergies"
	FieldSymptoms          = "symptoms"
	FieldDetail            = "detail"
	FieldInsurance         = "insurance"
	FieldInsuranceCategory = "insurance_category"
	FieldSymptomText       = "symptom_text"
	FieldKeyword           = "keyword"
	FieldFallback          = "fallback_department"
)

// Markers emitted by the medicine template and consumed by the extractor.
const (
	MedicineMarkerKR = "=== MEDICINE INFO KR ==="
	MedicineMarkerEN = "=== MEDICINE INFO EN ==="
)

// Template is one instruction: an optional system message plus a user message body
type Template struct {
	System string
	Body   *template.Template
}

// TemplateSet maps ids to instructions. Billing and allergy-safety policy live here, not in code.
type TemplateSet map[TemplateID]Template

// NewTemplate parses body with missing fields rendering as empty strings.
func NewTemplate(id TemplateID, system, body string) (Template, error) {
	t, err := template.New(string(id)).Option("missingkey=zero").Parse(body)
	if err != nil {
		return Template{}, fmt.Errorf("parse template %s: %w", id, err)
	}
	return Template{System: system, Body: t}, nil
}

func mustTemplate(id TemplateID, system, body string) Template {
	t, err := NewTemplate(id, system, body)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTemplates returns the built-in instruction set.
func DefaultTemplates() TemplateSet {
	return TemplateSet{
		TemplateChartNote:        mustTemplate(TemplateChartNote, chartNoteSystem, chartNoteBody),
		TemplateCostGuide:        mustTemplate(TemplateCostGuide, "", costGuideBody),
		TemplateDepartmentTriage: mustTemplate(TemplateDepartmentTriage, departmentSystem, departmentBody),
		TemplateMedicineLookup:   mustTemplate(TemplateMedicineLookup, medicineSystem, medicineBody),
	}
}

// Render substitutes fields into the template verbatim. No escaping is applied.
func (ts TemplateSet) Render(id TemplateID, fields Fields) (system, user string, err error) {
	t, ok := ts[id]
	if !ok || t.Body == nil {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
	}
	data := map[string]string(fields)
	if data == nil {
		data = map[string]string{}
	}
	var sb strings.Builder
	if err := t.Body.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render template %s: %w", id, err)
	}
	return t.System, sb.String(), nil
}

const chartNoteSystem = "You are a factual medical scribe. Do not diagnose."

const chartNoteBody = `당신은 '의료 서기(Medical Scribe)'입니다.
환자의 진술을 바탕으로 의사가 진료 시 참고할 '기초 예진표(Pre-clinical Note)'를 작성하세요.

[작성 원칙]
1. 진단/조언 금지: 병명 추측이나 치료 조언을 절대 포함하지 마십시오. 오직 환자가 말한 '증상'과 '사실'만 기록하세요.
2. 전문 용어 변환: 환자의 구어체 표현을 간결한 '의학적 표현'으로 다듬으세요. (예: "열이 펄펄 끓음" -> "고열(High Fever)")
3. 객관적 서술: 통증의 위치, 시점, 양상을 드라이하게 나열하세요.

[환자 데이터]
- 환자명/생년월일: {{.name}} ({{.birth_date}})
- 기저질환(PHx): {{.medical_history}}
- 복용약(Rx): {{.medications}}
- 알러지: {{.allergies}}
- 입력 증상: {{.symptoms}}
- 상세 묘사: "{{.detail}}"

[출력 양식 (Text Only)]
=== 기초 예진 기록 (Medical History Taking) ===

1. 주호소 (Chief Complaint, C.C)
   - (환자가 호소하는 가장 주된 증상 1~2개와 발생 시점)

2. 현병력 (Present Illness, P.I)
   * 발병 시기 (Onset):
   * 부위 및 양상 (Location & Character):
   * 강도 및 빈도 (Severity & Frequency):
   * 동반 증상 (Associated Symptoms):
   * 악화/완화 요인 (Aggravating/Relieving Factors):

3. 특이사항 (Past History & Social Hx)
   * 기저질환: (환자의 기저질환 데이터 그대로 기재)
   * 복용약물: (환자의 약물 데이터 그대로 기재)
   * 알러지: (환자의 알러지 데이터 그대로 기재)
   * 기타: (여행력, 음식 섭취 등 특이사항이 있다면 건조하게 기록)
================================================
`

const costGuideBody = `You are a strictly realistic 'Hospital Billing Coordinator' in Korea.
Your goal is to provide accurate cost and procedure guidance based on the patient's specific insurance type.

[Patient Data]
- Name: {{.name}}
- Insurance: "{{.insurance}}"
- Insurance category (pre-classified): {{.insurance_category}}

[System Logic: Branch by Insurance Type]

CASE A: If Insurance is 'NHIS' (National Health Insurance / 국민건강보험)
- Billing: The patient only pays the Co-payment (본인부담금) at the desk.
- Process: Pay by card/cash -> Take the prescription to a pharmacy. (No refund claim needed).
- Cost: Very affordable due to government support.

CASE B: If Insurance is 'Private' or 'Travel Insurance' (민간/여행자 보험)
- Billing: Must Pay Full Amount Upfront at most clinics.
- Process: Pay -> Get English receipt & Itemized bill -> Claim refund from their own insurance company.
- Cost: Much higher than NHIS (Standard non-insured rates).

If the category is Unknown, explain both cases briefly.

[Output Format (English)]
=== Estimated Cost & Guide ===

1. Insurance Analysis:
   - [State clearly if the user is treated as NHIS or Private Insurance holder]

2. If you visit a Local Clinic (Primary):
   - Payment: (Describe based on CASE A or B)
   - Est. Cost: (NHIS: 5,000~15,000 KRW / Private: 30,000~60,000 KRW)
   - Tip: (If Private, remind them to get documents for reimbursement)

3. If you visit a University Hospital (Tertiary):
   - Payment: (Mention 'Referral Letter' is CRITICAL for NHIS to get benefits)
   - Est. Cost: (NHIS: 20,000~50,000+ KRW / Private: 150,000+ KRW)
   - Procedure: (Mention International Healthcare Center for Private insurance holders)
================================
`

const departmentSystem = "You are a triage nurse in a Korean hospital. Answer only in the requested line format."

const departmentBody = `Read the patient's symptom description and choose the single most appropriate
medical department in Korea (use the Korean department name, e.g. 내과, 정형외과, 이비인후과, 피부과, 소아청소년과, 응급의학과).
If unsure, use {{.fallback_department}}.

[Symptoms]
"{{.symptom_text}}"

[Urgency levels]
Emergency: life threatening, go to an emergency room now
High: should be seen today
Moderate: should be seen within a few days
Low: can wait or self-care

[Output Format - exactly these four lines, nothing else]
Department: <Korean department name>
Urgency: <Emergency|High|Moderate|Low>
Reason_kr: <one sentence in Korean>
Reason_en: <the same sentence in English>
`

const medicineSystem = "You are a licensed pharmacist in Korea. Be factual and conservative about safety."

const medicineBody = `Provide information about the medicine or ingredient "{{.keyword}}".

[Patient Allergies]
{{.allergies}}

[Safety Check Policy]
- If "{{.keyword}}" belongs to a drug class known to cross-react with any listed allergy
  (e.g. penicillin allergy vs. amoxicillin, NSAID allergy vs. ibuprofen/aspirin), start the section with
  "⚠️ UNSAFE" and explain the risk. Otherwise start it with "✅ SAFE".
- If allergies are "None", state that no allergy conflict was found.
- Classify the medicine as OTC or RX.

[Output Format - both sections are required, keep the markers exactly]
` + MedicineMarkerKR + `
(안전성 판정, 분류(OTC/RX), 효능, 복용법, 주의사항을 한국어로)
` + MedicineMarkerEN + `
(the same content in English)
`

package model

// Section headings emitted by the report explanation prompt. The analyzer
// instructs the model to structure its response under exactly these
// headings and the section parser splits on them.
const (
	SectionTerms     = "MEDICAL TERMS EXPLAINED"
	SectionSummary   = "REPORT SUMMARY FOR PATIENT"
	SectionFindings  = "KEY FINDINGS"
	SectionQuestions = "RECOMMENDED QUESTIONS FOR DOCTOR"
)

// SectionHeadings lists all report sections in display order.
var SectionHeadings = []string{
	SectionTerms,
	SectionSummary,
	SectionFindings,
	SectionQuestions,
}

// ReportExplanation is a patient-friendly breakdown of a medical report.
type ReportExplanation struct {
	Terms    []string          `json:"terms"`    // Medical terms identified in the report
	Sections map[string]string `json:"sections"` // Heading -> explanation text
}

package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidSubject is returned when a caller asks for analysis of an empty
// or blank subject name. It is the only error the pipeline surfaces; every
// other failure degrades into a still-valid report.
var ErrInvalidSubject = errors.New("subject name is empty")

// Overall score weights per ESG dimension.
const (
	WeightEnvironmental = 0.35
	WeightSocial        = 0.35
	WeightGovernance    = 0.30
)

// NeutralScore is the midpoint used for categories with no evidence.
const NeutralScore = 50.0

// ESGScoreSet holds the scored ESG dimensions for one subject.
// All category scores and Overall are in [0,100]; Confidence is in [0,1]
// and grows with the volume of evidence behind the scores.
type ESGScoreSet struct {
	Environmental float64 `db:"e_score"       json:"e_score"`
	Social        float64 `db:"s_score"       json:"s_score"`
	Governance    float64 `db:"g_score"       json:"g_score"`
	Overall       float64 `db:"overall_score" json:"overall_score"`
	Confidence    float64 `db:"confidence"    json:"confidence"`
	DataPoints    int     `db:"data_points"   json:"data_points"`
}

// OverallFrom computes the weighted overall score from category scores,
// rounded to two decimals.
func OverallFrom(e, s, g float64) float64 {
	return Round2(e*WeightEnvironmental + s*WeightSocial + g*WeightGovernance)
}

// Round2 rounds to two decimal places, matching how scores are reported.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Severity is the ordinal risk grade of a detected risk event.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRank orders severities for sorting; higher is worse.
var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the sort rank of the severity; unknown severities rank lowest.
func (s Severity) Rank() int {
	return severityRank[s]
}

// RiskEvent is a text whose sentiment fell below the risk threshold.
type RiskEvent struct {
	Excerpt        string    `db:"excerpt"         json:"excerpt"`
	Category       Category  `db:"category"        json:"category"`
	Severity       Severity  `db:"severity"        json:"severity"`
	SentimentScore float64   `db:"sentiment_score" json:"sentiment_score"`
	Confidence     float64   `db:"confidence"      json:"confidence"`
	DetectedAt     time.Time `db:"detected_at"     json:"detected_at"`
}

// AnalysisReport is the complete output of one analysis run. It is built
// once and never mutated afterwards.
type AnalysisReport struct {
	ID              string      `json:"id"`
	Subject         string      `json:"subject"`
	Scores          ESGScoreSet `json:"scores"`
	Risks           []RiskEvent `json:"risks"`
	Insights        []string    `json:"insights"`
	Recommendations []string    `json:"recommendations"`
	DataPoints      int         `json:"data_points"`
	Degraded        bool        `json:"degraded"`
	GeneratedAt     time.Time   `json:"generated_at"`
}

// Ranking is one row of a comparison result.
type Ranking struct {
	Rank    int         `json:"rank"`
	Subject string      `json:"subject"`
	Scores  ESGScoreSet `json:"scores"`
	Risks   int         `json:"risk_count"`
}

// Comparison is the output of comparing several subjects.
type Comparison struct {
	Subjects    []string                   `json:"subjects"`
	Rankings    []Ranking                  `json:"rankings"`
	Reports     map[string]*AnalysisReport `json:"reports"`
	Insights    []string                   `json:"insights"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// Render formats the report as a plain-text document.
func (r *AnalysisReport) Render() string {
	var b strings.Builder
	divider := strings.Repeat("-", 50)

	fmt.Fprintf(&b, "ESG ANALYSIS REPORT\n%s\n\n", strings.Repeat("=", 50))
	fmt.Fprintf(&b, "Subject: %s\nGenerated: %s\n\n", r.Subject, r.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "ESG SCORES\n%s\n", divider)
	fmt.Fprintf(&b, "Environmental: %.2f/100\n", r.Scores.Environmental)
	fmt.Fprintf(&b, "Social:        %.2f/100\n", r.Scores.Social)
	fmt.Fprintf(&b, "Governance:    %.2f/100\n", r.Scores.Governance)
	fmt.Fprintf(&b, "Overall:       %.2f/100\n", r.Scores.Overall)
	fmt.Fprintf(&b, "Confidence:    %.2f\n\n", r.Scores.Confidence)

	fmt.Fprintf(&b, "KEY INSIGHTS\n%s\n", divider)
	for _, in := range r.Insights {
		fmt.Fprintf(&b, "- %s\n", in)
	}

	fmt.Fprintf(&b, "\nRECOMMENDATIONS\n%s\n", divider)
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}

	if len(r.Risks) > 0 {
		fmt.Fprintf(&b, "\nTOP RISKS\n%s\n", divider)
		limit := len(r.Risks)
		if limit > 5 {
			limit = 5
		}
		for i := 0; i < limit; i++ {
			risk := r.Risks[i]
			fmt.Fprintf(&b, "%d. [%s] %s: %s\n", i+1, strings.ToUpper(string(risk.Severity)), risk.Category, risk.Excerpt)
		}
	}

	return b.String()
}

// Summary formats a short text summary of the report.
func (r *AnalysisReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s ESG Summary:\n", r.Subject)
	fmt.Fprintf(&b, "Overall Score: %.2f/100\n", r.Scores.Overall)
	limit := len(r.Insights)
	if limit > 3 {
		limit = 3
	}
	for i := 0; i < limit; i++ {
		fmt.Fprintf(&b, "  - %s\n", r.Insights[i])
	}
	return b.String()
}

package analyzer

import (
	"fmt"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
)

// Score bands for insight templates.
const (
	strongScoreBand    = 70.0
	moderateScoreBand  = 50.0
	attentionScoreBand = 40.0
)

// InsightGenerator turns an aggregate score set and a risk list into
// templated insights and recommendations. It is a pure function of its
// inputs: identical scores and risks always produce identical output, in a
// fixed order.
type InsightGenerator struct{}

func NewInsightGenerator() *InsightGenerator {
	return &InsightGenerator{}
}

// pillars drives the deterministic iteration order of per-category output.
var pillars = []struct {
	name  string
	cat   domain.Category
	score func(domain.ESGScoreSet) float64
}{
	{"environmental", domain.CategoryEnvironmental, func(s domain.ESGScoreSet) float64 { return s.Environmental }},
	{"social", domain.CategorySocial, func(s domain.ESGScoreSet) float64 { return s.Social }},
	{"governance", domain.CategoryGovernance, func(s domain.ESGScoreSet) float64 { return s.Governance }},
}

// Generate produces insights and recommendations for the score set and
// detected risks.
func (g *InsightGenerator) Generate(scores domain.ESGScoreSet, risks []domain.RiskEvent) (insights, recommendations []string) {
	if scores.DataPoints == 0 {
		insights = append(insights, "Insufficient data to assess ESG performance; scores reflect the neutral baseline.")
		recommendations = append(recommendations, "Broaden data collection to obtain a meaningful ESG signal.")
		return insights, recommendations
	}

	switch {
	case scores.Overall >= strongScoreBand:
		insights = append(insights, fmt.Sprintf("Strong overall ESG performance with a score of %.1f/100.", scores.Overall))
	case scores.Overall >= moderateScoreBand:
		insights = append(insights, fmt.Sprintf("Moderate overall ESG performance with a score of %.1f/100.", scores.Overall))
	default:
		insights = append(insights, fmt.Sprintf("ESG performance needs improvement; overall score is %.1f/100.", scores.Overall))
	}

	for _, p := range pillars {
		score := p.score(scores)
		switch {
		case score >= strongScoreBand:
			insights = append(insights, fmt.Sprintf("Strong %s performance (%.1f/100).", p.name, score))
		case score < attentionScoreBand:
			insights = append(insights, fmt.Sprintf("The %s dimension requires attention (%.1f/100).", p.name, score))
		}
	}

	var critical, high int
	criticalByCat := map[domain.Category]int{}
	for _, r := range risks {
		switch r.Severity {
		case domain.SeverityCritical:
			critical++
			criticalByCat[r.Category]++
		case domain.SeverityHigh:
			high++
		}
	}
	if critical > 0 {
		insights = append(insights, fmt.Sprintf("%d critical risk signal(s) detected across recent coverage.", critical))
	}
	if high > 0 {
		insights = append(insights, fmt.Sprintf("%d high-severity risk signal(s) detected.", high))
	}
	if scores.Confidence < 0.5 {
		insights = append(insights, fmt.Sprintf("Confidence is limited (%.2f) given %d data point(s).", scores.Confidence, scores.DataPoints))
	}

	for _, p := range pillars {
		if p.score(scores) < moderateScoreBand {
			recommendations = append(recommendations, recommendationFor(p.cat))
		}
	}
	for _, p := range pillars {
		if criticalByCat[p.cat] > 0 {
			recommendations = append(recommendations,
				fmt.Sprintf("Launch an immediate review of %s issues flagged as critical.", p.name))
		}
	}
	if criticalByCat[domain.CategoryGeneral] > 0 {
		recommendations = append(recommendations,
			"Launch an immediate review of the critical issues flagged in general coverage.")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Maintain current ESG practices and continue monitoring for emerging risks.")
	}

	return insights, recommendations
}

func recommendationFor(cat domain.Category) string {
	switch cat {
	case domain.CategoryEnvironmental:
		return "Strengthen environmental programs: emissions reduction, waste management, and resource efficiency."
	case domain.CategorySocial:
		return "Invest in social initiatives: workforce wellbeing, diversity, and community engagement."
	case domain.CategoryGovernance:
		return "Improve governance practices: board oversight, transparency, and compliance controls."
	default:
		return "Review ESG practices across all dimensions."
	}
}

// CompareInsights builds deterministic comparative insights for a set of
// ranked subjects, best first.
func (g *InsightGenerator) CompareInsights(rankings []domain.Ranking) []string {
	if len(rankings) == 0 {
		return nil
	}

	var insights []string
	best := rankings[0]
	insights = append(insights, fmt.Sprintf("%s leads with an overall ESG score of %.1f/100.", best.Subject, best.Scores.Overall))

	if len(rankings) > 1 {
		worst := rankings[len(rankings)-1]
		spread := domain.Round2(best.Scores.Overall - worst.Scores.Overall)
		insights = append(insights, fmt.Sprintf("%s trails the group at %.1f/100, a gap of %.1f points.", worst.Subject, worst.Scores.Overall, spread))
	}

	for _, r := range rankings {
		if r.Risks > 0 {
			insights = append(insights, fmt.Sprintf("%s has %d open risk signal(s).", r.Subject, r.Risks))
		}
	}

	return insights
}

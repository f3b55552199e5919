package analyzer

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
)

// LabeledText is one training example for the category model.
type LabeledText struct {
	Text     string
	Category domain.Category
}

// CategoryModel is an immutable multinomial naive-Bayes classifier over
// term-frequency features. Instances are built by TrainCategoryModel and
// never mutated; retraining produces a new instance that is swapped in
// atomically by the classifier.
type CategoryModel struct {
	Version string

	vocab   map[string]int
	classes []domain.Category
	// logPrior[c] and logLikelihood[c][t] with Laplace smoothing.
	logPrior      []float64
	logLikelihood [][]float64
}

// ErrNoTrainingData is returned when training is attempted with no examples.
var ErrNoTrainingData = errors.New("no training examples")

// TrainCategoryModel fits a multinomial naive-Bayes model with Laplace
// smoothing on token counts.
func TrainCategoryModel(version string, examples []LabeledText) (*CategoryModel, error) {
	if len(examples) == 0 {
		return nil, ErrNoTrainingData
	}

	classes := []domain.Category{
		domain.CategoryEnvironmental,
		domain.CategorySocial,
		domain.CategoryGovernance,
	}
	classIndex := make(map[domain.Category]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}

	vocab := make(map[string]int)
	classDocs := make([]int, len(classes))
	// termCounts[c][t] built after the vocabulary is known.
	tokenized := make([][]string, 0, len(examples))
	labels := make([]int, 0, len(examples))

	for _, ex := range examples {
		ci, ok := classIndex[ex.Category]
		if !ok {
			continue // "general" and unknown labels carry no signal
		}
		tokens := tokenizeWords(ex.Text)
		if len(tokens) == 0 {
			continue
		}
		for _, t := range tokens {
			if _, seen := vocab[t]; !seen {
				vocab[t] = len(vocab)
			}
		}
		tokenized = append(tokenized, tokens)
		labels = append(labels, ci)
		classDocs[ci]++
	}

	if len(tokenized) == 0 {
		return nil, ErrNoTrainingData
	}

	termCounts := make([][]float64, len(classes))
	classTotals := make([]float64, len(classes))
	for i := range termCounts {
		termCounts[i] = make([]float64, len(vocab))
	}
	for i, tokens := range tokenized {
		ci := labels[i]
		for _, t := range tokens {
			termCounts[ci][vocab[t]]++
			classTotals[ci]++
		}
	}

	m := &CategoryModel{
		Version:       version,
		vocab:         vocab,
		classes:       classes,
		logPrior:      make([]float64, len(classes)),
		logLikelihood: make([][]float64, len(classes)),
	}

	totalDocs := float64(len(tokenized))
	v := float64(len(vocab))
	for ci := range classes {
		// Smooth priors so a class absent from the corpus stays representable.
		m.logPrior[ci] = math.Log((float64(classDocs[ci]) + 1) / (totalDocs + float64(len(classes))))
		m.logLikelihood[ci] = make([]float64, len(vocab))
		for ti := 0; ti < len(vocab); ti++ {
			m.logLikelihood[ci][ti] = math.Log((termCounts[ci][ti] + 1) / (classTotals[ci] + v))
		}
	}

	return m, nil
}

// Proba returns the class probability distribution for the text. Tokens
// outside the training vocabulary are ignored. Text with no known tokens
// yields the (near-uniform) prior distribution.
func (m *CategoryModel) Proba(text string) map[domain.Category]float64 {
	logp := make([]float64, len(m.classes))
	copy(logp, m.logPrior)

	for _, t := range tokenizeWords(text) {
		ti, ok := m.vocab[t]
		if !ok {
			continue
		}
		for ci := range m.classes {
			logp[ci] += m.logLikelihood[ci][ti]
		}
	}

	lse := floats.LogSumExp(logp)
	out := make(map[domain.Category]float64, len(m.classes))
	for ci, c := range m.classes {
		out[c] = math.Exp(logp[ci] - lse)
	}
	return out
}

// DefaultCategoryModel trains the model shipped with the service from the
// seed corpus. Construction cannot fail on the seed data; a failure here is
// a programming error.
func DefaultCategoryModel() *CategoryModel {
	m, err := TrainCategoryModel("seed-1", seedExamples)
	if err != nil {
		panic(err)
	}
	return m
}

// seedExamples is the labeled seed corpus for the default model. Replace by
// retraining with real labeled data and swapping the model in.
var seedExamples = []LabeledText{
	{Text: "Company reduces carbon emissions by 30 percent", Category: domain.CategoryEnvironmental},
	{Text: "Renewable energy initiative launched across plants", Category: domain.CategoryEnvironmental},
	{Text: "New sustainability goals announced for supply chain", Category: domain.CategoryEnvironmental},
	{Text: "Pollution incident reported at manufacturing plant", Category: domain.CategoryEnvironmental},
	{Text: "Solar and wind power investments expand capacity", Category: domain.CategoryEnvironmental},
	{Text: "Net zero climate pledge covers scope three emissions", Category: domain.CategoryEnvironmental},
	{Text: "Recycling program cuts landfill waste in half", Category: domain.CategoryEnvironmental},
	{Text: "Greenhouse gas disclosure improves under new framework", Category: domain.CategoryEnvironmental},

	{Text: "Improved employee diversity and inclusion programs", Category: domain.CategorySocial},
	{Text: "Labor rights violations reported at supplier factories", Category: domain.CategorySocial},
	{Text: "Community outreach program expanded to rural regions", Category: domain.CategorySocial},
	{Text: "Workforce safety training reduces workplace accidents", Category: domain.CategorySocial},
	{Text: "Fair wages agreement reached with union workers", Category: domain.CategorySocial},
	{Text: "Employee welfare and health benefits extended", Category: domain.CategorySocial},
	{Text: "Discrimination lawsuit settled with former staff", Category: domain.CategorySocial},
	{Text: "Customer satisfaction scores rise after service overhaul", Category: domain.CategorySocial},

	{Text: "Board of directors enhances transparency in reporting", Category: domain.CategoryGovernance},
	{Text: "Executive compensation linked to performance metrics", Category: domain.CategoryGovernance},
	{Text: "Enhanced data privacy and security compliance measures", Category: domain.CategoryGovernance},
	{Text: "Audit committee strengthens internal controls", Category: domain.CategoryGovernance},
	{Text: "Shareholder proxy vote backs independent directors", Category: domain.CategoryGovernance},
	{Text: "Whistleblower policy updated after ethics review", Category: domain.CategoryGovernance},
	{Text: "Regulator fines firm over disclosure failures", Category: domain.CategoryGovernance},
	{Text: "Anti corruption program rolled out to subsidiaries", Category: domain.CategoryGovernance},
}

package analyzer

import (
	"strings"
	"unicode"
)

// lexiconEngine is the deterministic fallback sentiment engine: a polarity
// lexicon tuned to corporate/ESG news language, with negation flipping and
// intensity modifiers over a small token window.
type lexiconEngine struct {
	words     map[string]float64
	modifiers map[string]float64
	negations map[string]bool
}

// negationWindow is how many preceding tokens are checked for a negation.
const negationWindow = 3

func newLexiconEngine() *lexiconEngine {
	return &lexiconEngine{
		words:     sentimentWords,
		modifiers: sentimentModifiers,
		negations: sentimentNegations,
	}
}

// polarity estimates a [-1,1] polarity. The error return exists only to
// satisfy the engine contract; the lexicon path cannot fail.
func (e *lexiconEngine) polarity(text string) (float64, error) {
	tokens := tokenizeWords(text)
	if len(tokens) == 0 {
		return 0, nil
	}

	var total float64
	var matched int

	for i, tok := range tokens {
		weight, ok := e.words[tok]
		if !ok {
			continue
		}

		// Intensifiers and diminishers immediately before the word.
		if i > 0 {
			if factor, mod := e.modifiers[tokens[i-1]]; mod {
				weight *= factor
			}
		}

		// A negation within the window flips the polarity.
		start := i - negationWindow
		if start < 0 {
			start = 0
		}
		for j := start; j < i; j++ {
			if e.negations[tokens[j]] {
				weight = -weight
				break
			}
		}

		total += weight
		matched++
	}

	if matched == 0 {
		return 0, nil
	}

	p := total / float64(matched)
	if p > 1 {
		p = 1
	}
	if p < -1 {
		p = -1
	}
	return p, nil
}

// tokenizeWords lowercases and splits text on non-letter boundaries.
func tokenizeWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// sentimentWords maps terms to polarity weights in [-1,1]. The vocabulary
// leans toward the language of corporate disclosures and ESG reporting.
var sentimentWords = map[string]float64{
	// positive
	"achieve": 0.5, "achieved": 0.5, "award": 0.6, "awarded": 0.6,
	"benefit": 0.5, "best": 0.8, "breakthrough": 0.7, "clean": 0.5,
	"commend": 0.6, "commended": 0.6, "commitment": 0.4, "efficient": 0.5,
	"excellent": 0.9, "expand": 0.4, "expanded": 0.4, "gain": 0.5,
	"good": 0.6, "great": 0.8, "grow": 0.4, "growth": 0.5,
	"improve": 0.6, "improved": 0.6, "improvement": 0.6, "innovative": 0.6,
	"launch": 0.3, "launched": 0.3, "lead": 0.4, "leader": 0.5,
	"outperform": 0.7, "positive": 0.6, "praised": 0.7, "progress": 0.5,
	"recognized": 0.5, "reduce": 0.3, "reduced": 0.3, "renewable": 0.4,
	"responsible": 0.5, "strong": 0.6, "succeed": 0.7, "success": 0.7,
	"successful": 0.7, "sustainable": 0.5, "transparent": 0.5, "win": 0.6,
	// negative
	"accident": -0.6, "accused": -0.6, "bad": -0.6, "breach": -0.7,
	"bribery": -0.9, "collapse": -0.8, "contamination": -0.7,
	"corruption": -0.9, "crisis": -0.7, "damage": -0.6, "decline": -0.5,
	"discrimination": -0.8, "disaster": -0.8, "fail": -0.7, "failed": -0.7,
	"failure": -0.7, "fine": -0.5, "fined": -0.6, "fraud": -0.9,
	"harassment": -0.8, "harm": -0.6, "hazard": -0.6, "illegal": -0.8,
	"investigation": -0.5, "lawsuit": -0.7, "layoff": -0.6, "layoffs": -0.6,
	"leak": -0.5, "loss": -0.5, "misconduct": -0.8, "negative": -0.6,
	"penalty": -0.6, "pollute": -0.7, "pollution": -0.7, "poor": -0.6,
	"probe": -0.5, "recall": -0.5, "risk": -0.3, "scandal": -0.9,
	"spill": -0.7, "strike": -0.5, "terrible": -0.9, "toxic": -0.7,
	"unsafe": -0.7, "violation": -0.7, "violations": -0.7, "worst": -0.9,
}

// sentimentModifiers scale the weight of the following sentiment word.
var sentimentModifiers = map[string]float64{
	"absolutely": 1.5, "extremely": 1.5, "highly": 1.3, "very": 1.3,
	"really": 1.2, "significantly": 1.3, "slightly": 0.6, "somewhat": 0.7,
	"barely": 0.5, "marginally": 0.6,
}

// sentimentNegations flip the polarity of a nearby sentiment word.
var sentimentNegations = map[string]bool{
	"not": true, "no": true, "never": true, "without": true,
	"n't": true, "neither": true, "nor": true, "denies": true, "denied": true,
}

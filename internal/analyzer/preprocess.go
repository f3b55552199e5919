package analyzer

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
)

// defaultMinTokens is the minimum token count for an item to be analyzable.
const defaultMinTokens = 3

// Preprocessor cleans a raw corpus before scoring: drops empty and
// too-short items and removes duplicates, preserving first-seen order.
// Dropped items are not an error condition; they are counted and logged.
type Preprocessor struct {
	minTokens int
	logger    logging.Logger
}

// NewPreprocessor creates a preprocessor. minTokens <= 0 uses the default.
func NewPreprocessor(minTokens int, logger logging.Logger) *Preprocessor {
	if minTokens <= 0 {
		minTokens = defaultMinTokens
	}
	return &Preprocessor{minTokens: minTokens, logger: logger}
}

// Clean filters and deduplicates items, order-preserving. Duplicate
// detection is by normalized text equality: Unicode NFC, case-insensitive,
// whitespace-collapsed.
func (p *Preprocessor) Clean(items []domain.TextItem) []domain.TextItem {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]domain.TextItem, 0, len(items))
	var dropped, duplicates int

	for _, item := range items {
		fields := strings.Fields(item.Text)
		if len(fields) < p.minTokens {
			dropped++
			continue
		}

		key := norm.NFC.String(strings.ToLower(strings.Join(fields, " ")))
		if _, dup := seen[key]; dup {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}

	if dropped > 0 || duplicates > 0 {
		p.logger.Debug("corpus cleaned",
			logging.Int("input", len(items)),
			logging.Int("kept", len(out)),
			logging.Int("too_short", dropped),
			logging.Int("duplicates", duplicates),
		)
	}

	return out
}

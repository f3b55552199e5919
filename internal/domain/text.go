package domain

import "time"

// TextItem is a single piece of free text about a subject, produced by the
// acquisition collaborator. Items are immutable once created and are not
// persisted by this service; they live only for the duration of an analysis
// (plus the corpus cache TTL).
type TextItem struct {
	Text        string    `json:"text"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Subject     string    `json:"subject"`
}

// SentimentMethod identifies which engine produced a sentiment result.
type SentimentMethod string

const (
	MethodPrimary  SentimentMethod = "primary"
	MethodFallback SentimentMethod = "fallback"
)

// SentimentLabel is the discrete polarity class of a text.
type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNeutral  SentimentLabel = "neutral"
	LabelNegative SentimentLabel = "negative"
)

// SentimentResult holds the polarity of a single text. Score is normalized
// to [0,1] where 1.0 is most positive and 0.5 is neutral.
type SentimentResult struct {
	Label  SentimentLabel  `json:"label"`
	Score  float64         `json:"score"`
	Method SentimentMethod `json:"method"`
}

// Category is one of the ESG dimensions plus the catch-all "general".
type Category string

const (
	CategoryEnvironmental Category = "environmental"
	CategorySocial        Category = "social"
	CategoryGovernance    Category = "governance"
	CategoryGeneral       Category = "general"
)

// CategoryPriority is the fixed tie-break order: when two categories score
// equally, the one appearing earlier here wins.
var CategoryPriority = []Category{
	CategoryEnvironmental,
	CategorySocial,
	CategoryGovernance,
	CategoryGeneral,
}

// CategoryResult holds the classification of a single text.
type CategoryResult struct {
	Category   Category         `json:"category"`
	Confidence float64          `json:"confidence"`
	RawCounts  map[Category]int `json:"raw_counts"`
}

// ScoredItem pairs a text item with its per-item analysis results. It is the
// unit flowing from the scoring stage into aggregation and risk detection.
type ScoredItem struct {
	Item      TextItem        `json:"item"`
	Sentiment SentimentResult `json:"sentiment"`
	Category  CategoryResult  `json:"category"`
}

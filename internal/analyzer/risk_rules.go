package analyzer

// criticalKeywords escalate a risk candidate straight to critical severity,
// regardless of how mild its sentiment score is. Matched against normalized
// (lowercased, punctuation-stripped) text.
var criticalKeywords = []string{
	"fraud",
	"corruption",
	"investigation",
	"lawsuit",
	"bribery",
	"scandal",
	"indictment",
	"embezzlement",
	"oil spill",
	"money laundering",
}

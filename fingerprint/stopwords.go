package fingerprint

// stopWords are common function words excluded from keyword extraction.
// Only words longer than three characters appear; shorter ones never survive
// the length filter.
var stopWords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "will": {},
	"your": {}, "they": {}, "been": {}, "were": {}, "their": {}, "which": {},
	"would": {}, "there": {}, "what": {}, "about": {}, "into": {}, "than": {},
	"them": {}, "then": {}, "these": {}, "those": {}, "when": {}, "where": {},
	"while": {}, "after": {}, "before": {}, "other": {}, "some": {}, "such": {},
	"only": {}, "also": {}, "just": {}, "over": {}, "under": {}, "here": {},
	"very": {}, "more": {}, "most": {}, "must": {}, "each": {}, "should": {},
	"could": {}, "does": {}, "doing": {}, "because": {}, "between": {},
	"through": {}, "during": {}, "again": {}, "being": {}, "both": {},
	"same": {}, "itself": {},
}

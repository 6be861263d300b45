package extract

import "strings"

// generalStopwords covers function words that disqualify a candidate span.
// A span containing any stopword is rejected by the validity predicate.
var generalStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "were": true, "to": true, "of": true, "and": true, "or": true,
	"in": true, "that": true, "have": true, "has": true, "had": true,
	"it": true, "its": true, "for": true, "not": true, "on": true,
	"with": true, "as": true, "you": true, "your": true, "do": true,
	"does": true, "at": true, "this": true, "these": true, "those": true,
	"but": true, "by": true, "from": true, "they": true, "their": true,
	"we": true, "our": true, "he": true, "she": true, "his": true,
	"her": true, "will": true, "would": true, "can": true, "could": true,
	"should": true, "may": true, "might": true, "been": true, "being": true,
	"which": true, "what": true, "when": true, "where": true, "who": true,
	"how": true, "all": true, "each": true, "more": true, "most": true,
	"some": true, "such": true, "than": true, "then": true, "there": true,
	"also": true, "into": true, "about": true, "between": true,
	"through": true, "during": true, "other": true, "very": true,
	"just": true, "only": true, "both": true, "any": true, "because": true,
	"while": true, "if": true, "so": true, "no": true, "nor": true,
	"too": true, "over": true, "under": true, "same": true, "few": true,
}

// domainStopwords holds per-profile words that are too generic to stand as
// concepts within that domain, even though they are content words elsewhere.
var domainStopwords = map[string]map[string]bool{
	"tech": {
		"use": true, "used": true, "using": true, "example": true,
		"section": true, "chapter": true, "figure": true, "table": true,
		"page": true, "note": true, "way": true, "thing": true,
		"things": true, "following": true, "new": true, "different": true,
	},
	"academic": {
		"study": true, "studies": true, "paper": true, "result": true,
		"results": true, "finding": true, "findings": true, "shown": true,
		"respectively": true, "et": true, "al": true, "i.e": true,
		"e.g": true, "however": true, "therefore": true, "furthermore": true,
	},
}

// domainKeywords are content words whose presence in a two-word span marks
// the span as a likely domain term, whether the keyword acts as the head
// ("neural network") or the modifier ("network topology"). Used by the rule
// strategy's co-occurrence candidate generator.
var domainKeywords = map[string]bool{
	"learning": true, "intelligence": true, "machine": true,
	"artificial": true, "neural": true, "network": true, "networks": true,
	"data": true, "algorithm": true, "algorithms": true, "system": true,
	"systems": true, "model": true, "models": true, "analysis": true,
	"theory": true, "method": true, "language": true, "processing": true,
	"software": true, "hardware": true, "database": true, "security": true,
	"protocol": true, "architecture": true, "computing": true,
	"optimization": true, "inference": true, "training": true,
	"classification": true, "regression": true, "graph": true,
	"vector": true, "memory": true, "storage": true, "search": true,
	"engine": true, "framework": true, "pipeline": true, "compiler": true,
	"encryption": true, "quantum": true, "statistical": true,
}

// isStopword reports whether the lowercased word appears in the general set
// or in any of the named domain profiles.
func isStopword(word string, profiles ...string) bool {
	w := strings.ToLower(strings.TrimSpace(word))
	if generalStopwords[w] {
		return true
	}
	for _, p := range profiles {
		if domainStopwords[p][w] {
			return true
		}
	}
	return false
}

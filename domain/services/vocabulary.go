package services

import "factsaura-backend/domain/core/valueobjects"

// Fixed vocabularies backing domain classification, synonym-aware matching
// and contextual scoring. These are deliberately small closed sets; the
// classifier treats them as signal sources, not as exhaustive ontologies.

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "have": true, "his": true, "how": true, "its": true,
	"may": true, "new": true, "now": true, "old": true, "see": true,
	"two": true, "who": true, "did": true, "get": true, "him": true,
	"this": true, "that": true, "with": true, "from": true, "they": true,
	"been": true, "were": true, "will": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "would": true, "there": true,
	"their": true, "them": true, "then": true, "than": true, "these": true,
	"those": true, "some": true, "such": true, "into": true, "over": true,
	"after": true, "before": true, "under": true, "about": true, "above": true,
	"again": true, "against": true, "between": true, "both": true, "each": true,
	"just": true, "more": true, "most": true, "other": true, "only": true,
	"very": true, "same": true, "should": true, "could": true, "because": true,
	"being": true, "during": true, "through": true, "your": true, "yours": true,
	"also": true, "does": true, "doing": true, "here": true, "once": true,
	"within": true, "without": true, "any": true, "few": true, "too": true,
}

var domainVocabularies = map[valueobjects.DomainLabel][]string{
	valueobjects.DomainMedical: {
		"cure", "covid", "vaccine", "virus", "disease", "treatment",
		"doctor", "hospital", "medicine", "symptom", "infection", "health",
		"cancer", "drug", "remedy", "immune", "patient", "therapy",
		"diagnosis", "epidemic", "pandemic", "dose", "pill", "heal",
	},
	valueobjects.DomainDisaster: {
		"earthquake", "flood", "hurricane", "tsunami", "wildfire", "storm",
		"evacuation", "rescue", "emergency", "disaster", "collapse",
		"landslide", "tornado", "eruption", "aftershock", "casualties",
		"survivors", "damage", "relief", "shelter",
	},
	valueobjects.DomainFinancial: {
		"stock", "market", "crash", "investment", "bank", "currency",
		"bitcoin", "crypto", "inflation", "recession", "profit", "shares",
		"trading", "economy", "bankruptcy", "fraud", "scheme", "money",
		"fund", "interest",
	},
	valueobjects.DomainPolitical: {
		"election", "government", "president", "minister", "parliament",
		"policy", "vote", "campaign", "corruption", "scandal", "senate",
		"congress", "ballot", "candidate", "regime", "protest", "law",
		"reform", "party", "coalition",
	},
}

// domainSynonyms lists per-domain near-equivalents. An exact word match
// scores 1.0, a listed synonym 0.8.
var domainSynonyms = map[valueobjects.DomainLabel]map[string][]string{
	valueobjects.DomainMedical: {
		"cure":     {"heal", "remedy", "treatment", "fix"},
		"doctor":   {"physician", "medic", "practitioner"},
		"disease":  {"illness", "sickness", "infection", "condition"},
		"vaccine":  {"vaccination", "shot", "jab", "immunization"},
		"medicine": {"drug", "medication", "pill"},
		"hospital": {"clinic", "ward", "infirmary"},
		"virus":    {"pathogen", "germ", "bug"},
		"pandemic": {"epidemic", "outbreak", "plague"},
	},
	valueobjects.DomainDisaster: {
		"earthquake": {"quake", "tremor", "seism"},
		"flood":      {"flooding", "deluge", "inundation"},
		"storm":      {"hurricane", "cyclone", "typhoon"},
		"emergency":  {"crisis", "catastrophe", "calamity"},
		"damage":     {"destruction", "devastation", "ruin"},
	},
	valueobjects.DomainFinancial: {
		"crash":      {"collapse", "plunge", "meltdown"},
		"money":      {"cash", "funds", "capital"},
		"profit":     {"gain", "return", "earnings"},
		"fraud":      {"scam", "swindle", "scheme"},
		"investment": {"investing", "stake", "holding"},
	},
	valueobjects.DomainPolitical: {
		"election":   {"vote", "ballot", "poll"},
		"government": {"administration", "state", "regime"},
		"corruption": {"bribery", "graft", "misconduct"},
		"protest":    {"demonstration", "rally", "march"},
		"law":        {"legislation", "statute", "bill"},
	},
}

// Emotional keyword buckets used by the contextual axis
var emotionBuckets = map[string][]string{
	"positive": {
		"amazing", "miracle", "wonderful", "incredible", "breakthrough",
		"hope", "success", "great", "best", "cured", "safe", "win",
	},
	"negative": {
		"terrible", "horrible", "awful", "worst", "failure", "dangerous",
		"deadly", "toxic", "harmful", "banned", "exposed", "lies",
	},
	"urgent": {
		"urgent", "breaking", "immediately", "hurry", "asap", "alert",
		"critical", "act", "quickly", "deadline", "last", "final",
	},
	"fear": {
		"scared", "panic", "fear", "terrifying", "threat", "warning",
		"beware", "risk", "danger", "killing", "death", "destroy",
	},
}

// Urgency indicators, a narrower cue set than the urgent emotion bucket.
// These sets are matched against fingerprint words, so every entry must
// survive tokenization: no stop words, digits or punctuation.
var urgencyIndicators = []string{
	"urgent", "breaking", "immediately", "right", "asap",
	"hurry", "alert", "emergency", "critical", "share",
}

// Intent cue words keyed by the intent they signal
var intentCues = map[string][]string{
	"warning": {
		"warning", "beware", "caution", "avoid", "danger", "alert",
		"stop", "never",
	},
	"information": {
		"study", "research", "report", "found", "according", "data",
		"evidence", "shows", "confirmed", "announced",
	},
	"instruction": {
		"must", "take", "use", "apply", "drink", "eat",
		"follow", "try", "share", "forward",
	},
	"question": {
		"why", "really", "truth", "wonder",
	},
}

// Intensifiers whose appearance in a child but not its parent signals
// amplification
var intensifiers = []string{
	"extremely", "completely", "totally", "absolutely",
	"definitely", "urgent", "breaking", "shocking", "unbelievable",
	"guaranteed", "proven", "always", "never", "must",
}

// Closed location gazetteer for entity extraction
var locationGazetteer = []string{
	"india", "china", "usa", "america", "europe", "africa", "london",
	"delhi", "mumbai", "beijing", "york", "california", "texas",
	"wuhan", "italy", "brazil", "russia", "japan", "germany", "france",
	"australia", "canada", "mexico", "pakistan", "bangladesh",
}

// Closed list of organization acronyms and brand names
var organizationAcronyms = []string{
	"who", "cdc", "fda", "nasa", "fbi", "cia", "unicef", "nato",
	"imf", "rbi", "nih", "bbc", "cnn", "facebook", "whatsapp",
	"twitter", "google", "pfizer", "moderna", "un",
}

func containsWord(set []string, word string) bool {
	for _, candidate := range set {
		if candidate == word {
			return true
		}
	}
	return false
}

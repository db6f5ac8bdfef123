package valueobjects

// DomainLabel is the coarse topical domain assigned to a piece of content
type DomainLabel string

const (
	DomainMedical   DomainLabel = "medical"
	DomainDisaster  DomainLabel = "disaster"
	DomainFinancial DomainLabel = "financial"
	DomainPolitical DomainLabel = "political"
	DomainGeneral   DomainLabel = "general"
)

// EntityType classifies extracted entity-like patterns
type EntityType string

const (
	EntityNumber       EntityType = "number"
	EntityDate         EntityType = "date"
	EntityLocation     EntityType = "location"
	EntityOrganization EntityType = "organization"
)

// SentenceStats captures structural sentence-level features of a text
type SentenceStats struct {
	Count        int     `json:"count"`
	AvgLength    float64 `json:"avg_length"` // words per sentence
	Questions    int     `json:"questions"`
	Exclamations int     `json:"exclamations"`
	Statements   int     `json:"statements"`
}

// Fingerprint is the derived, comparable representation of a text.
// It is immutable once computed; callers must not modify its maps.
type Fingerprint struct {
	Hash             string                  `json:"hash"`
	Words            map[string]bool         `json:"-"`
	WordFrequencies  map[string]int          `json:"-"`
	NGrams           map[int]map[string]int  `json:"-"`
	Domain           DomainLabel             `json:"domain"`
	DomainConfidence float64                 `json:"domain_confidence"`
	Entities         map[EntityType][]string `json:"entities,omitempty"`
	Sentences        SentenceStats           `json:"sentences"`
	TokenCount       int                     `json:"token_count"`
	ContentLength    int                     `json:"content_length"`

	// Degraded marks a fallback fingerprint produced when full
	// preprocessing could not run; such fingerprints carry only the
	// word set and a general domain.
	Degraded bool `json:"degraded,omitempty"`
}

// IsEmpty reports whether the fingerprint carries no usable signal
func (f Fingerprint) IsEmpty() bool {
	return len(f.Words) == 0 && f.ContentLength == 0
}

// EntityCount returns the number of extracted entities of the given type
func (f Fingerprint) EntityCount(t EntityType) int {
	return len(f.Entities[t])
}

// SameHash reports whether two fingerprints derive from identical
// normalized content
func (f Fingerprint) SameHash(other Fingerprint) bool {
	return f.Hash != "" && f.Hash == other.Hash
}

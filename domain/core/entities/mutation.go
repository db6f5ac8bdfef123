package entities

// MutationType names the dominant kind of change observed between a node
// and its parent
type MutationType string

const (
	MutationLexical    MutationType = "lexical_variant"
	MutationSemantic   MutationType = "semantic_variant"
	MutationStructural MutationType = "structural_variant"
	MutationContextual MutationType = "contextual_variant"
)

// IsValid reports whether the mutation type is a known variant
func (t MutationType) IsValid() bool {
	switch t {
	case MutationLexical, MutationSemantic, MutationStructural, MutationContextual:
		return true
	default:
		return false
	}
}

// MutationPattern flags a concrete, axis-independent change between two texts
type MutationPattern string

const (
	PatternNumericChange  MutationPattern = "numeric_change"
	PatternLocationChange MutationPattern = "location_change"
	PatternAmplification  MutationPattern = "amplification"
	PatternExpansion      MutationPattern = "expansion"
	PatternContraction    MutationPattern = "contraction"
)

// SimilarityBreakdown holds the four independent similarity sub-scores
type SimilarityBreakdown struct {
	Lexical    float64 `json:"lexical"`
	Syntactic  float64 `json:"syntactic"`
	Semantic   float64 `json:"semantic"`
	Contextual float64 `json:"contextual"`
}

// MutationDescriptor records how a node differs from its parent. It is
// resolved at classification time and required on every non-root node.
type MutationDescriptor struct {
	Type       MutationType        `json:"type"`
	Confidence float64             `json:"confidence"`
	Breakdown  SimilarityBreakdown `json:"breakdown"`
	Patterns   []MutationPattern   `json:"patterns,omitempty"`
}

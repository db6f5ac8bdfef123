package config

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Similarity scoring
	SimilarityThreshold float64
	LexicalWeight       float64
	SyntacticWeight     float64
	SemanticWeight      float64
	ContextualWeight    float64

	// Preprocessing
	MinTokenLength int
	MaxNGramSize   int

	// Tree constraints
	MaxTreeDepth       int
	MaxChildrenPerNode int
	MaxContentLength   int

	// Classification
	MaxCandidates int

	// Similarity result cache
	ScoreCacheSize int

	// Pattern analysis insight thresholds
	DeepLineageDepth       int
	ViralBranchingFactor   float64
	HighDiversityTypeCount int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		SimilarityThreshold: 0.45,
		LexicalWeight:       0.4,
		SyntacticWeight:     0.3,
		SemanticWeight:      0.2,
		ContextualWeight:    0.1,

		MinTokenLength: 3,
		MaxNGramSize:   3,

		MaxTreeDepth:       20,
		MaxChildrenPerNode: 50,
		MaxContentLength:   50000,

		MaxCandidates: 200,

		ScoreCacheSize: 4096,

		DeepLineageDepth:       5,
		ViralBranchingFactor:   3.0,
		HighDiversityTypeCount: 4,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	cfg := DefaultDomainConfig()

	// Tighter limits for production
	cfg.MaxTreeDepth = 15
	cfg.MaxChildrenPerNode = 30
	cfg.MaxContentLength = 20000
	cfg.MaxCandidates = 100

	return cfg
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	cfg := DefaultDomainConfig()

	cfg.MaxTreeDepth = 50
	cfg.MaxChildrenPerNode = 200
	cfg.ScoreCacheSize = 256

	return cfg
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return errThresholdRange
	}
	if c.MaxTreeDepth < 1 || c.MaxChildrenPerNode < 1 {
		return errLimitRange
	}
	if c.MaxNGramSize < 2 {
		return errNGramRange
	}
	return nil
}

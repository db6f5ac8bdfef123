package config

import "errors"

var (
	errThresholdRange = errors.New("similarity threshold must be in [0, 1]")
	errLimitRange     = errors.New("tree limits must be positive")
	errNGramRange     = errors.New("max n-gram size must be at least 2")
)

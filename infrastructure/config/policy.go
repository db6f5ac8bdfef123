package config

import (
	domaincfg "factsaura-backend/domain/config"
	"factsaura-backend/domain/core/aggregates"
)

// TreePolicy resolves the limits and insight thresholds applied to family
// trees. When a runtime config watcher is attached its values win;
// otherwise the static domain config is used.
type TreePolicy struct {
	domain  *domaincfg.DomainConfig
	watcher *ConfigWatcher
}

// NewTreePolicy builds a policy over the static domain config and an
// optional watcher (nil is fine)
func NewTreePolicy(domain *domaincfg.DomainConfig, watcher *ConfigWatcher) *TreePolicy {
	return &TreePolicy{domain: domain, watcher: watcher}
}

// Limits returns the active tree growth limits
func (p *TreePolicy) Limits() aggregates.Limits {
	if p.watcher != nil {
		limits := p.watcher.Current().Limits
		return aggregates.Limits{
			MaxDepth:    limits.MaxTreeDepth,
			MaxChildren: limits.MaxChildrenPerNode,
		}
	}
	return aggregates.Limits{
		MaxDepth:    p.domain.MaxTreeDepth,
		MaxChildren: p.domain.MaxChildrenPerNode,
	}
}

// Insights returns the active evolution insight thresholds
func (p *TreePolicy) Insights() aggregates.InsightThresholds {
	if p.watcher != nil {
		insights := p.watcher.Current().Insights
		return aggregates.InsightThresholds{
			DeepLineageDepth:   insights.DeepLineageDepth,
			ViralBranching:     insights.ViralBranchingFactor,
			HighDiversityTypes: insights.HighDiversityTypeCount,
		}
	}
	return aggregates.InsightThresholds{
		DeepLineageDepth:   p.domain.DeepLineageDepth,
		ViralBranching:     p.domain.ViralBranchingFactor,
		HighDiversityTypes: p.domain.HighDiversityTypeCount,
	}
}

// MaxCandidates returns the active classification fan-out bound
func (p *TreePolicy) MaxCandidates() int {
	if p.watcher != nil {
		return p.watcher.Current().Limits.MaxCandidates
	}
	return p.domain.MaxCandidates
}

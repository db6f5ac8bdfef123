package ports

import (
	"context"
	"time"

	"factsaura-backend/domain/core/aggregates"
	"factsaura-backend/domain/core/entities"
	"factsaura-backend/domain/core/valueobjects"
	"factsaura-backend/domain/events"
)

// NodeView is the immutable read projection of a variant node. Reads hand
// out views, never live entities, so traversals observe a consistent
// child set.
type NodeView struct {
	ID          valueobjects.NodeID          `json:"id"`
	FamilyID    valueobjects.FamilyID        `json:"family_id"`
	Content     string                       `json:"content,omitempty"`
	Kind        entities.NodeKind            `json:"kind"`
	Generation  int                          `json:"generation"`
	Depth       int                          `json:"depth"`
	ParentID    *valueobjects.NodeID         `json:"parent_id,omitempty"`
	Children    []valueobjects.NodeID        `json:"children"`
	Mutation    *entities.MutationDescriptor `json:"mutation,omitempty"`
	Domain      valueobjects.DomainLabel     `json:"domain"`
	ContentHash string                       `json:"content_hash"`
	CreatedAt   time.Time                    `json:"created_at"`
}

// FamilyTreeView is the read projection of a whole family
type FamilyTreeView struct {
	FamilyID    valueobjects.FamilyID  `json:"family_id"`
	RootID      valueobjects.NodeID    `json:"root_id"`
	Nodes       []NodeView             `json:"nodes"`
	Metrics     aggregates.TreeMetrics `json:"metrics"`
	CreatedAt   time.Time              `json:"created_at"`
	LastUpdated time.Time              `json:"last_updated"`
}

// FamilySummary is the list-level projection of a family
type FamilySummary struct {
	FamilyID    valueobjects.FamilyID    `json:"family_id"`
	RootID      valueobjects.NodeID      `json:"root_id"`
	RootPreview string                   `json:"root_preview"`
	Domain      valueobjects.DomainLabel `json:"domain"`
	NodeCount   int                      `json:"node_count"`
	MaxDepth    int                      `json:"max_depth"`
	LastUpdated time.Time                `json:"last_updated"`
}

// TreeOptions tunes getFamilyTree projections
type TreeOptions struct {
	MaxDepth       int
	IncludeContent bool
}

// DescendantOptions tunes descendant enumeration
type DescendantOptions struct {
	MaxDepth   int
	TypeFilter entities.MutationType
}

// CreateFamilyResult identifies a newly seeded family
type CreateFamilyResult struct {
	FamilyID   valueobjects.FamilyID `json:"family_id"`
	RootNodeID valueobjects.NodeID   `json:"root_node_id"`
}

// AddMutationResult identifies a newly inserted variant
type AddMutationResult struct {
	NodeID     valueobjects.NodeID `json:"node_id"`
	Generation int                 `json:"generation"`
	Depth      int                 `json:"depth"`
}

// CommonAncestorResult reports the closest shared ancestor of two nodes
type CommonAncestorResult struct {
	Found        bool      `json:"found"`
	Ancestor     *NodeView `json:"ancestor,omitempty"`
	Relationship string    `json:"relationship,omitempty"`
}

// Candidate is the minimal node projection the classifier scores against
type Candidate struct {
	NodeID      valueobjects.NodeID
	FamilyID    valueobjects.FamilyID
	Fingerprint valueobjects.Fingerprint
}

// GenealogyStore owns all family trees and is the only mutable shared
// state in the core. Writers to the same family are serialized; reads are
// consistent snapshots and never mutate state.
type GenealogyStore interface {
	CreateFamily(ctx context.Context, content string, fingerprint valueobjects.Fingerprint) (CreateFamilyResult, error)
	AddMutation(ctx context.Context, familyID valueobjects.FamilyID, parentID valueobjects.NodeID,
		content string, fingerprint valueobjects.Fingerprint, descriptor entities.MutationDescriptor) (AddMutationResult, error)

	GetFamilyTree(ctx context.Context, familyID valueobjects.FamilyID, opts TreeOptions) (FamilyTreeView, error)
	ListFamilies(ctx context.Context) ([]FamilySummary, error)
	GetAncestryPath(ctx context.Context, nodeID valueobjects.NodeID) ([]NodeView, error)
	GetDescendants(ctx context.Context, nodeID valueobjects.NodeID, opts DescendantOptions) ([]NodeView, error)
	FindCommonAncestor(ctx context.Context, a, b valueobjects.NodeID) (CommonAncestorResult, error)
	AnalyzePatterns(ctx context.Context, familyID valueobjects.FamilyID) (aggregates.PatternReport, error)
	GenerateVisualization(ctx context.Context, familyID valueobjects.FamilyID) (aggregates.Visualization, error)

	// LookupByHash resolves a content hash to the node that carries it,
	// for the classifier's exact-duplicate short circuit.
	LookupByHash(ctx context.Context, hash string) (Candidate, bool)

	// Candidates returns a bounded set of nodes worth scoring against the
	// given fingerprint, pre-filtered by domain label.
	Candidates(ctx context.Context, fingerprint valueobjects.Fingerprint, limit int) []Candidate

	// NodeFingerprint resolves a node's fingerprint for descriptor
	// derivation on direct addMutation calls.
	NodeFingerprint(ctx context.Context, nodeID valueobjects.NodeID) (valueobjects.Fingerprint, error)

	Stats(ctx context.Context) StoreStats
}

// StoreStats is the health and metrics snapshot of the store
type StoreStats struct {
	FamilyCount int `json:"family_count"`
	NodeCount   int `json:"node_count"`
}

// EventPublisher delivers domain events to in-process subscribers
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent)
}

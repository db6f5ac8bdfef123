package entities

import (
	"strings"
	"time"

	"factsaura-backend/domain/core/valueobjects"
	pkgerrors "factsaura-backend/pkg/errors"
)

// NodeKind distinguishes a family's seed content from tracked mutations
type NodeKind string

const (
	KindOriginal NodeKind = "original"
	KindMutation NodeKind = "mutation"
)

// VariantNode is the main entity representing one observed version of a
// claim within a family tree. Nodes are append-only: once created, only
// the child set and the lastUpdated timestamp ever change.
type VariantNode struct {
	id          valueobjects.NodeID
	familyID    valueobjects.FamilyID
	content     string
	fingerprint valueobjects.Fingerprint
	kind        NodeKind

	// generation counts edges from the root; depth mirrors it for tree
	// topologies and is kept separate to allow future DAG genealogies
	generation int
	depth      int

	parentID valueobjects.NodeID
	children []valueobjects.NodeID
	mutation *MutationDescriptor

	createdAt   time.Time
	lastUpdated time.Time
}

// NewRootNode creates a family's seed node
func NewRootNode(familyID valueobjects.FamilyID, content string, fingerprint valueobjects.Fingerprint) (*VariantNode, error) {
	if familyID.IsZero() {
		return nil, pkgerrors.NewValidationError("familyID cannot be empty")
	}
	if strings.TrimSpace(content) == "" {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	now := time.Now()
	return &VariantNode{
		id:          valueobjects.NewNodeID(),
		familyID:    familyID,
		content:     content,
		fingerprint: fingerprint,
		kind:        KindOriginal,
		generation:  0,
		depth:       0,
		children:    []valueobjects.NodeID{},
		createdAt:   now,
		lastUpdated: now,
	}, nil
}

// NewMutationNode creates a node descending from parent. The mutation
// descriptor is mandatory: every non-root node records how it differs
// from its parent.
func NewMutationNode(
	parent *VariantNode,
	content string,
	fingerprint valueobjects.Fingerprint,
	descriptor MutationDescriptor,
) (*VariantNode, error) {
	if parent == nil {
		return nil, pkgerrors.NewValidationError("parent cannot be nil")
	}
	if strings.TrimSpace(content) == "" {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}
	if !descriptor.Type.IsValid() {
		return nil, pkgerrors.NewValidationError("mutation descriptor type is invalid")
	}

	now := time.Now()
	return &VariantNode{
		id:          valueobjects.NewNodeID(),
		familyID:    parent.familyID,
		content:     content,
		fingerprint: fingerprint,
		kind:        KindMutation,
		generation:  parent.generation + 1,
		depth:       parent.depth + 1,
		parentID:    parent.id,
		children:    []valueobjects.NodeID{},
		mutation:    &descriptor,
		createdAt:   now,
		lastUpdated: now,
	}, nil
}

// ID returns the node's unique identifier
func (n *VariantNode) ID() valueobjects.NodeID {
	return n.id
}

// FamilyID returns the owning family's identifier
func (n *VariantNode) FamilyID() valueobjects.FamilyID {
	return n.familyID
}

// Content returns the raw content
func (n *VariantNode) Content() string {
	return n.content
}

// Fingerprint returns the node's content fingerprint
func (n *VariantNode) Fingerprint() valueobjects.Fingerprint {
	return n.fingerprint
}

// Kind returns the node kind
func (n *VariantNode) Kind() NodeKind {
	return n.kind
}

// Generation returns the edge distance from the family root
func (n *VariantNode) Generation() int {
	return n.generation
}

// Depth returns the node's depth in the tree
func (n *VariantNode) Depth() int {
	return n.depth
}

// ParentID returns the parent's id (zero for the root)
func (n *VariantNode) ParentID() valueobjects.NodeID {
	return n.parentID
}

// IsRoot reports whether this node is the family's root
func (n *VariantNode) IsRoot() bool {
	return n.parentID.IsZero()
}

// Children returns a copy of the child id set
func (n *VariantNode) Children() []valueobjects.NodeID {
	children := make([]valueobjects.NodeID, len(n.children))
	copy(children, n.children)
	return children
}

// ChildCount returns the number of direct children
func (n *VariantNode) ChildCount() int {
	return len(n.children)
}

// HasChild reports whether childID is a direct child
func (n *VariantNode) HasChild(childID valueobjects.NodeID) bool {
	for _, id := range n.children {
		if id.Equals(childID) {
			return true
		}
	}
	return false
}

// AttachChild records a back-reference to a child. The aggregate, not the
// parent, is the authority for existence and enforces limits; this only
// maintains the reference.
func (n *VariantNode) AttachChild(childID valueobjects.NodeID) error {
	if n.HasChild(childID) {
		return pkgerrors.NewConflictError("child already attached")
	}
	n.children = append(n.children, childID)
	n.lastUpdated = time.Now()
	return nil
}

// Mutation returns the mutation descriptor, nil for root nodes
func (n *VariantNode) Mutation() *MutationDescriptor {
	if n.mutation == nil {
		return nil
	}
	d := *n.mutation
	return &d
}

// CreatedAt returns when the node was created
func (n *VariantNode) CreatedAt() time.Time {
	return n.createdAt
}

// LastUpdated returns when the node was last touched
func (n *VariantNode) LastUpdated() time.Time {
	return n.lastUpdated
}

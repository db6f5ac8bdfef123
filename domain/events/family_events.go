package events

import (
	"factsaura-backend/domain/core/entities"
	"factsaura-backend/domain/core/valueobjects"
)

const (
	EventFamilyCreated     = "family.created"
	EventMutationAttached  = "family.mutation_attached"
	EventContentClassified = "content.classified"
)

// FamilyCreated is emitted when a new family tree is seeded
type FamilyCreated struct {
	BaseEvent
	FamilyID valueobjects.FamilyID    `json:"family_id"`
	RootID   valueobjects.NodeID      `json:"root_id"`
	Domain   valueobjects.DomainLabel `json:"domain"`
}

// NewFamilyCreated creates a FamilyCreated event
func NewFamilyCreated(familyID valueobjects.FamilyID, rootID valueobjects.NodeID, domain valueobjects.DomainLabel) FamilyCreated {
	return FamilyCreated{
		BaseEvent: NewBaseEvent(EventFamilyCreated, familyID.String()),
		FamilyID:  familyID,
		RootID:    rootID,
		Domain:    domain,
	}
}

// MutationAttached is emitted when a variant is added to an existing family
type MutationAttached struct {
	BaseEvent
	FamilyID   valueobjects.FamilyID `json:"family_id"`
	NodeID     valueobjects.NodeID   `json:"node_id"`
	ParentID   valueobjects.NodeID   `json:"parent_id"`
	Generation int                   `json:"generation"`
	Type       entities.MutationType `json:"mutation_type"`
}

// NewMutationAttached creates a MutationAttached event
func NewMutationAttached(familyID valueobjects.FamilyID, node *entities.VariantNode) MutationAttached {
	var mutationType entities.MutationType
	if m := node.Mutation(); m != nil {
		mutationType = m.Type
	}
	return MutationAttached{
		BaseEvent:  NewBaseEvent(EventMutationAttached, familyID.String()),
		FamilyID:   familyID,
		NodeID:     node.ID(),
		ParentID:   node.ParentID(),
		Generation: node.Generation(),
		Type:       mutationType,
	}
}

// ContentClassified is emitted after the classifier resolves incoming content
type ContentClassified struct {
	BaseEvent
	Action     string                `json:"action"`
	FamilyID   valueobjects.FamilyID `json:"family_id,omitempty"`
	MatchedID  valueobjects.NodeID   `json:"matched_node_id,omitempty"`
	Confidence float64               `json:"confidence"`
}

// NewContentClassified creates a ContentClassified event
func NewContentClassified(action string, familyID valueobjects.FamilyID, matchedID valueobjects.NodeID, confidence float64) ContentClassified {
	return ContentClassified{
		BaseEvent:  NewBaseEvent(EventContentClassified, familyID.String()),
		Action:     action,
		FamilyID:   familyID,
		MatchedID:  matchedID,
		Confidence: confidence,
	}
}

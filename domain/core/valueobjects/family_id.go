package valueobjects

import "github.com/google/uuid"

// FamilyID represents a unique family-tree identifier
type FamilyID string

// NewFamilyID creates a new random FamilyID
func NewFamilyID() FamilyID {
	return FamilyID(uuid.New().String())
}

// String returns the string representation
func (id FamilyID) String() string {
	return string(id)
}

// IsZero checks if the FamilyID is the zero value
func (id FamilyID) IsZero() bool {
	return id == ""
}

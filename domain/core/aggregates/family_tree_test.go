package aggregates

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factsaura-backend/domain/core/entities"
	"factsaura-backend/domain/core/valueobjects"
	"factsaura-backend/domain/events"
	pkgerrors "factsaura-backend/pkg/errors"
)

func testFingerprint(hash string) valueobjects.Fingerprint {
	return valueobjects.Fingerprint{
		Hash:          hash,
		Words:         map[string]bool{hash: true},
		ContentLength: len(hash),
		Domain:        valueobjects.DomainGeneral,
	}
}

func testDescriptor(mutationType entities.MutationType) entities.MutationDescriptor {
	return entities.MutationDescriptor{
		Type:       mutationType,
		Confidence: 0.9,
		Breakdown:  entities.SimilarityBreakdown{Lexical: 0.9},
	}
}

func newTestTree(t *testing.T) *FamilyTree {
	t.Helper()
	tree, err := NewFamilyTree("original claim", testFingerprint("root-hash"))
	require.NoError(t, err)
	return tree
}

func mustAdd(t *testing.T, tree *FamilyTree, parentID valueobjects.NodeID, hash string, mutationType entities.MutationType) *entities.VariantNode {
	t.Helper()
	node, err := tree.AddMutation(parentID, "variant "+hash, testFingerprint(hash), testDescriptor(mutationType))
	require.NoError(t, err)
	return node
}

func TestAddMutationSetsLineageFields(t *testing.T) {
	tree := newTestTree(t)

	child := mustAdd(t, tree, tree.RootID(), "child", entities.MutationLexical)
	grandchild := mustAdd(t, tree, child.ID(), "grandchild", entities.MutationSemantic)

	assert.Equal(t, 1, child.Generation())
	assert.Equal(t, 1, child.Depth())
	assert.Equal(t, 2, grandchild.Generation())
	assert.Equal(t, 2, grandchild.Depth())
	assert.Equal(t, child.ID(), grandchild.ParentID())
	assert.True(t, tree.Root().HasChild(child.ID()))

	assert.NoError(t, tree.ValidateIntegrity(0))
}

func TestAddMutationUnknownParent(t *testing.T) {
	tree := newTestTree(t)

	_, err := tree.AddMutation(valueobjects.NewNodeID(), "orphan", testFingerprint("orphan"), testDescriptor(entities.MutationLexical))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestAddMutationDepthLimit(t *testing.T) {
	tree := newTestTree(t)
	limits := Limits{MaxDepth: 2}

	c1, err := tree.AddMutationWithLimits(tree.RootID(), "v1", testFingerprint("h1"), testDescriptor(entities.MutationLexical), limits)
	require.NoError(t, err)
	c2, err := tree.AddMutationWithLimits(c1.ID(), "v2", testFingerprint("h2"), testDescriptor(entities.MutationLexical), limits)
	require.NoError(t, err)

	_, err = tree.AddMutationWithLimits(c2.ID(), "v3", testFingerprint("h3"), testDescriptor(entities.MutationLexical), limits)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCapacity(err))
	assert.Equal(t, "DEPTH_LIMIT_EXCEEDED", pkgerrors.GetAppError(err).Code)

	// the failed insert must not leave partial state behind
	assert.Equal(t, 3, tree.NodeCount())
	assert.NoError(t, tree.ValidateIntegrity(limits.MaxDepth))
}

func TestAddMutationChildLimit(t *testing.T) {
	tree := newTestTree(t)
	limits := Limits{MaxChildren: 2}

	for i := 0; i < 2; i++ {
		_, err := tree.AddMutationWithLimits(tree.RootID(), "variant", testFingerprint(fmt.Sprintf("h%d", i)), testDescriptor(entities.MutationLexical), limits)
		require.NoError(t, err)
	}

	_, err := tree.AddMutationWithLimits(tree.RootID(), "variant", testFingerprint("h-extra"), testDescriptor(entities.MutationLexical), limits)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCapacity(err))
	assert.Equal(t, "CHILD_LIMIT_EXCEEDED", pkgerrors.GetAppError(err).Code)
}

func TestAddMutationDuplicateSibling(t *testing.T) {
	tree := newTestTree(t)
	child := mustAdd(t, tree, tree.RootID(), "shared", entities.MutationLexical)

	// identical content under the same parent is rejected
	_, err := tree.AddMutation(tree.RootID(), "again", testFingerprint("shared"), testDescriptor(entities.MutationLexical))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDuplicate(err))
	assert.Equal(t, "DUPLICATE_CONTENT", pkgerrors.GetAppError(err).Code)

	// the same content under a different parent is an independent re-derivation
	_, err = tree.AddMutation(child.ID(), "again", testFingerprint("shared"), testDescriptor(entities.MutationLexical))
	assert.NoError(t, err)
}

func TestAncestryPathOrdering(t *testing.T) {
	tree := newTestTree(t)
	child := mustAdd(t, tree, tree.RootID(), "child", entities.MutationLexical)
	grandchild := mustAdd(t, tree, child.ID(), "grandchild", entities.MutationSemantic)

	path := tree.AncestryPath(grandchild.ID())
	require.Len(t, path, 3)
	assert.Equal(t, grandchild.ID(), path[0].ID())
	assert.Equal(t, child.ID(), path[1].ID())
	assert.Equal(t, tree.RootID(), path[2].ID())

	assert.Empty(t, tree.AncestryPath(valueobjects.NewNodeID()))
}

func TestDescendantsTraversal(t *testing.T) {
	tree := newTestTree(t)
	c1 := mustAdd(t, tree, tree.RootID(), "c1", entities.MutationLexical)
	c2 := mustAdd(t, tree, tree.RootID(), "c2", entities.MutationSemantic)
	g1 := mustAdd(t, tree, c1.ID(), "g1", entities.MutationContextual)

	all := tree.Descendants(tree.RootID(), 0, "")
	assert.Len(t, all, 3)

	// level 1 only
	direct := tree.Descendants(tree.RootID(), 1, "")
	assert.Len(t, direct, 2)

	semantic := tree.Descendants(tree.RootID(), 0, entities.MutationSemantic)
	require.Len(t, semantic, 1)
	assert.Equal(t, c2.ID(), semantic[0].ID())

	below := tree.Descendants(c1.ID(), 0, "")
	require.Len(t, below, 1)
	assert.Equal(t, g1.ID(), below[0].ID())

	assert.Empty(t, tree.Descendants(valueobjects.NewNodeID(), 0, ""))
}

func TestCommonAncestorRelationships(t *testing.T) {
	tree := newTestTree(t)
	b := mustAdd(t, tree, tree.RootID(), "b", entities.MutationLexical)
	c := mustAdd(t, tree, b.ID(), "c", entities.MutationSemantic)
	d := mustAdd(t, tree, tree.RootID(), "d", entities.MutationContextual)
	e := mustAdd(t, tree, tree.RootID(), "e", entities.MutationLexical)

	ancestor, relation, found := tree.CommonAncestor(c.ID(), b.ID())
	require.True(t, found)
	assert.Equal(t, b.ID(), ancestor.ID())
	assert.Equal(t, RelationAncestorDescendant, relation)

	ancestor, relation, found = tree.CommonAncestor(d.ID(), e.ID())
	require.True(t, found)
	assert.Equal(t, tree.RootID(), ancestor.ID())
	assert.Equal(t, RelationSiblings, relation)

	ancestor, relation, found = tree.CommonAncestor(d.ID(), c.ID())
	require.True(t, found)
	assert.Equal(t, tree.RootID(), ancestor.ID())
	assert.Equal(t, RelationUncleNephew, relation)

	// c sits two levels below the root, d one level: neither is the
	// other's parent-generation relative
	ancestor, relation, found = tree.CommonAncestor(c.ID(), d.ID())
	require.True(t, found)
	assert.Equal(t, tree.RootID(), ancestor.ID())
	assert.Equal(t, RelationCousins, relation)

	_, _, found = tree.CommonAncestor(c.ID(), valueobjects.NewNodeID())
	assert.False(t, found)
}

func TestMetrics(t *testing.T) {
	tree := newTestTree(t)
	c1 := mustAdd(t, tree, tree.RootID(), "c1", entities.MutationLexical)
	mustAdd(t, tree, tree.RootID(), "c2", entities.MutationLexical)
	mustAdd(t, tree, c1.ID(), "g1", entities.MutationSemantic)

	metrics := tree.Metrics()
	assert.Equal(t, 4, metrics.NodeCount)
	assert.Equal(t, 2, metrics.MaxDepth)
	assert.Equal(t, 2, metrics.LeafCount)
	assert.Equal(t, 2, metrics.TypeDistribution[entities.MutationLexical])
	assert.Equal(t, 1, metrics.TypeDistribution[entities.MutationSemantic])
	assert.Equal(t, 1, metrics.GenerationCounts[0])
	assert.Equal(t, 2, metrics.GenerationCounts[1])
	assert.Equal(t, 1, metrics.GenerationCounts[2])

	// repeated reads serve the cached value
	assert.Equal(t, metrics, tree.Metrics())
}

func TestUncommittedEvents(t *testing.T) {
	tree := newTestTree(t)

	pending := tree.GetUncommittedEvents()
	require.Len(t, pending, 1)
	assert.Equal(t, events.EventFamilyCreated, pending[0].EventType())

	mustAdd(t, tree, tree.RootID(), "child", entities.MutationLexical)
	pending = tree.GetUncommittedEvents()
	require.Len(t, pending, 2)
	assert.Equal(t, events.EventMutationAttached, pending[1].EventType())

	tree.MarkEventsAsCommitted()
	assert.Empty(t, tree.GetUncommittedEvents())
}

func TestContainsHash(t *testing.T) {
	tree := newTestTree(t)
	child := mustAdd(t, tree, tree.RootID(), "child-hash", entities.MutationLexical)

	nodeID, ok := tree.ContainsHash("child-hash")
	require.True(t, ok)
	assert.Equal(t, child.ID(), nodeID)

	_, ok = tree.ContainsHash("missing")
	assert.False(t, ok)
}

package aggregates

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"factsaura-backend/domain/core/entities"
	"factsaura-backend/domain/core/valueobjects"
	"factsaura-backend/domain/events"
	pkgerrors "factsaura-backend/pkg/errors"
)

// Limits bounds tree growth. Values come from domain configuration and
// may change at runtime, so they are passed per call rather than frozen
// into the aggregate.
type Limits struct {
	MaxDepth    int
	MaxChildren int
}

// Relationship labels returned by CommonAncestor
const (
	RelationAncestorDescendant = "ancestor-descendant"
	RelationSiblings           = "siblings"
	RelationUncleNephew        = "uncle-nephew"
	RelationCousins            = "cousins"
)

// TreeMetrics is the cached per-family summary, recomputed lazily after
// writes
type TreeMetrics struct {
	NodeCount        int                           `json:"node_count"`
	MaxDepth         int                           `json:"max_depth"`
	LeafCount        int                           `json:"leaf_count"`
	AvgBranching     float64                       `json:"avg_branching"`
	TypeDistribution map[entities.MutationType]int `json:"mutation_type_distribution"`
	GenerationCounts map[int]int                   `json:"generation_distribution"`
}

// FamilyTree is the aggregate root for one misinformation family. It owns
// every node in the family and is the only writer to their child sets.
// Nodes are append-only: the tree never removes or re-parents a node.
type FamilyTree struct {
	id     valueobjects.FamilyID
	rootID valueobjects.NodeID
	nodes  map[valueobjects.NodeID]*entities.VariantNode

	metrics      *TreeMetrics
	metricsStale bool

	createdAt   time.Time
	lastUpdated time.Time

	pendingEvents []events.DomainEvent
}

// NewFamilyTree seeds a new family from its original content
func NewFamilyTree(content string, fingerprint valueobjects.Fingerprint) (*FamilyTree, error) {
	familyID := valueobjects.NewFamilyID()

	root, err := entities.NewRootNode(familyID, content, fingerprint)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tree := &FamilyTree{
		id:           familyID,
		rootID:       root.ID(),
		nodes:        map[valueobjects.NodeID]*entities.VariantNode{root.ID(): root},
		metricsStale: true,
		createdAt:    now,
		lastUpdated:  now,
	}
	tree.pendingEvents = append(tree.pendingEvents,
		events.NewFamilyCreated(familyID, root.ID(), fingerprint.Domain))
	return tree, nil
}

// ID returns the family identifier
func (t *FamilyTree) ID() valueobjects.FamilyID {
	return t.id
}

// RootID returns the root node's identifier
func (t *FamilyTree) RootID() valueobjects.NodeID {
	return t.rootID
}

// Root returns the root node
func (t *FamilyTree) Root() *entities.VariantNode {
	return t.nodes[t.rootID]
}

// Node looks up a node by id
func (t *FamilyTree) Node(id valueobjects.NodeID) (*entities.VariantNode, bool) {
	node, ok := t.nodes[id]
	return node, ok
}

// Nodes returns all nodes in the family, root first then by generation
func (t *FamilyTree) Nodes() []*entities.VariantNode {
	nodes := make([]*entities.VariantNode, 0, len(t.nodes))
	for _, node := range t.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Generation() != nodes[j].Generation() {
			return nodes[i].Generation() < nodes[j].Generation()
		}
		return nodes[i].CreatedAt().Before(nodes[j].CreatedAt())
	})
	return nodes
}

// NodeCount returns the number of nodes in the family
func (t *FamilyTree) NodeCount() int {
	return len(t.nodes)
}

// CreatedAt returns when the family was seeded
func (t *FamilyTree) CreatedAt() time.Time {
	return t.createdAt
}

// LastUpdated returns when the family last changed
func (t *FamilyTree) LastUpdated() time.Time {
	return t.lastUpdated
}

// AddMutation inserts a new variant under parentID. The insertion is
// all-or-nothing: on any failure the tree is left exactly as it was.
func (t *FamilyTree) AddMutation(
	parentID valueobjects.NodeID,
	content string,
	fingerprint valueobjects.Fingerprint,
	descriptor entities.MutationDescriptor,
) (*entities.VariantNode, error) {
	return t.AddMutationWithLimits(parentID, content, fingerprint, descriptor, Limits{})
}

// AddMutationWithLimits inserts a new variant under parentID, enforcing
// depth and child-count limits. A zero limit disables that check.
func (t *FamilyTree) AddMutationWithLimits(
	parentID valueobjects.NodeID,
	content string,
	fingerprint valueobjects.Fingerprint,
	descriptor entities.MutationDescriptor,
	limits Limits,
) (*entities.VariantNode, error) {
	parent, ok := t.nodes[parentID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("parent node").WithCode("PARENT_NOT_FOUND")
	}

	if limits.MaxDepth > 0 && parent.Depth()+1 > limits.MaxDepth {
		return nil, pkgerrors.NewCapacityError("insertion would exceed maximum tree depth").
			WithCode("DEPTH_LIMIT_EXCEEDED").
			WithDetails(map[string]interface{}{"max_depth": limits.MaxDepth})
	}
	if limits.MaxChildren > 0 && parent.ChildCount() >= limits.MaxChildren {
		return nil, pkgerrors.NewCapacityError("parent already has the maximum number of children").
			WithCode("CHILD_LIMIT_EXCEEDED").
			WithDetails(map[string]interface{}{"max_children": limits.MaxChildren})
	}

	// Duplicate check is sibling-scoped: the same content may legitimately
	// appear under different parents (independent re-derivations).
	for _, siblingID := range parent.Children() {
		sibling, ok := t.nodes[siblingID]
		if !ok {
			return nil, pkgerrors.NewInvariantError("parent references a child the family does not contain")
		}
		if sibling.Fingerprint().SameHash(fingerprint) {
			return nil, pkgerrors.NewDuplicateError("identical content already exists under this parent").
				WithCode("DUPLICATE_CONTENT").
				WithDetails(map[string]interface{}{"existing_node_id": siblingID.String()})
		}
	}

	node, err := entities.NewMutationNode(parent, content, fingerprint, descriptor)
	if err != nil {
		return nil, err
	}
	if err := parent.AttachChild(node.ID()); err != nil {
		return nil, err
	}

	t.nodes[node.ID()] = node
	t.metricsStale = true
	t.lastUpdated = time.Now()
	t.pendingEvents = append(t.pendingEvents, events.NewMutationAttached(t.id, node))
	return node, nil
}

// AncestryPath returns the path from the node to the root, node first.
// Unknown ids yield an empty path.
func (t *FamilyTree) AncestryPath(nodeID valueobjects.NodeID) []*entities.VariantNode {
	node, ok := t.nodes[nodeID]
	if !ok {
		return nil
	}

	path := make([]*entities.VariantNode, 0, node.Depth()+1)
	seen := make(map[valueobjects.NodeID]bool)
	for node != nil && !seen[node.ID()] {
		path = append(path, node)
		seen[node.ID()] = true
		if node.IsRoot() {
			return path
		}
		node = t.nodes[node.ParentID()]
	}
	// A broken parent chain means the family is internally inconsistent;
	// return what was walked so read paths stay total.
	return path
}

// Descendants enumerates nodes below nodeID breadth-first. maxDepth bounds
// the traversal relative to the starting node (0 means unbounded) and
// typeFilter keeps only matching mutation types ("" keeps all). A visited
// set guarantees termination even if the child links were ever corrupted
// into a cycle.
func (t *FamilyTree) Descendants(
	nodeID valueobjects.NodeID,
	maxDepth int,
	typeFilter entities.MutationType,
) []*entities.VariantNode {
	start, ok := t.nodes[nodeID]
	if !ok {
		return nil
	}

	type frame struct {
		node  *entities.VariantNode
		level int
	}
	var result []*entities.VariantNode
	visited := map[valueobjects.NodeID]bool{start.ID(): true}
	queue := []frame{{node: start, level: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if maxDepth > 0 && current.level >= maxDepth {
			continue
		}
		for _, childID := range current.node.Children() {
			if visited[childID] {
				continue
			}
			visited[childID] = true
			child, ok := t.nodes[childID]
			if !ok {
				continue
			}
			if typeFilter == "" || matchesType(child, typeFilter) {
				result = append(result, child)
			}
			queue = append(queue, frame{node: child, level: current.level + 1})
		}
	}
	return result
}

func matchesType(node *entities.VariantNode, filter entities.MutationType) bool {
	m := node.Mutation()
	return m != nil && m.Type == filter
}

// CommonAncestor intersects the ancestry paths of the two nodes and returns
// the path-closest shared node plus a kinship label.
func (t *FamilyTree) CommonAncestor(a, b valueobjects.NodeID) (*entities.VariantNode, string, bool) {
	pathA := t.AncestryPath(a)
	pathB := t.AncestryPath(b)
	if len(pathA) == 0 || len(pathB) == 0 {
		return nil, "", false
	}

	onPathB := make(map[valueobjects.NodeID]int, len(pathB))
	for dist, node := range pathB {
		onPathB[node.ID()] = dist
	}

	for distA, node := range pathA {
		distB, ok := onPathB[node.ID()]
		if !ok {
			continue
		}
		return node, classifyKinship(distA, distB), true
	}
	return nil, "", false
}

// classifyKinship maps ancestor distances to a human-readable relationship.
// distA is measured from the first query node, distB from the second.
func classifyKinship(distA, distB int) string {
	switch {
	case distA == 0 || distB == 0:
		return RelationAncestorDescendant
	case distA == 1 && distB == 1:
		return RelationSiblings
	case distA == 1 && distB == 2:
		return RelationUncleNephew
	default:
		return RelationCousins
	}
}

// Metrics returns the family's cached summary, recomputing it if any write
// happened since the last call
func (t *FamilyTree) Metrics() TreeMetrics {
	if t.metricsStale || t.metrics == nil {
		t.metrics = t.computeMetrics()
		t.metricsStale = false
	}
	return *t.metrics
}

func (t *FamilyTree) computeMetrics() *TreeMetrics {
	metrics := &TreeMetrics{
		NodeCount:        len(t.nodes),
		TypeDistribution: make(map[entities.MutationType]int),
		GenerationCounts: make(map[int]int),
	}

	internalNodes := 0
	totalChildren := 0
	for _, node := range t.nodes {
		if node.Depth() > metrics.MaxDepth {
			metrics.MaxDepth = node.Depth()
		}
		metrics.GenerationCounts[node.Generation()]++
		if m := node.Mutation(); m != nil {
			metrics.TypeDistribution[m.Type]++
		}
		if node.ChildCount() == 0 {
			metrics.LeafCount++
		} else {
			internalNodes++
			totalChildren += node.ChildCount()
		}
	}
	if internalNodes > 0 {
		metrics.AvgBranching = float64(totalChildren) / float64(internalNodes)
	}
	return metrics
}

// InsightThresholds configures when AnalyzePatterns emits evolution flags
type InsightThresholds struct {
	DeepLineageDepth   int
	ViralBranching     float64
	HighDiversityTypes int
}

// BranchingStatistics summarizes the family's fan-out
type BranchingStatistics struct {
	AvgBranching  float64 `json:"avg_branching"`
	MaxBranching  int     `json:"max_branching"`
	LeafCount     int     `json:"leaf_count"`
	InternalCount int     `json:"internal_count"`
}

// TemporalStatistics summarizes the family's observation window
type TemporalStatistics struct {
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	SpanSeconds float64   `json:"span_seconds"`
}

// PatternReport is the read-only analytics projection for one family
type PatternReport struct {
	FamilyID         valueobjects.FamilyID         `json:"family_id"`
	TypeDistribution map[entities.MutationType]int `json:"mutation_type_distribution"`
	GenerationCounts map[int]int                   `json:"generation_distribution"`
	Branching        BranchingStatistics           `json:"branching_statistics"`
	Temporal         TemporalStatistics            `json:"temporal_statistics"`
	Insights         []string                      `json:"evolution_insights"`
}

// AnalyzePatterns builds the mutation-pattern report. It never mutates the
// tree beyond refreshing the cached metrics.
func (t *FamilyTree) AnalyzePatterns(thresholds InsightThresholds) PatternReport {
	metrics := t.Metrics()

	report := PatternReport{
		FamilyID:         t.id,
		TypeDistribution: make(map[entities.MutationType]int, len(metrics.TypeDistribution)),
		GenerationCounts: make(map[int]int, len(metrics.GenerationCounts)),
		Branching: BranchingStatistics{
			AvgBranching: metrics.AvgBranching,
			LeafCount:    metrics.LeafCount,
		},
	}
	for k, v := range metrics.TypeDistribution {
		report.TypeDistribution[k] = v
	}
	for k, v := range metrics.GenerationCounts {
		report.GenerationCounts[k] = v
	}

	first, last := t.createdAt, t.createdAt
	for _, node := range t.nodes {
		if node.ChildCount() > report.Branching.MaxBranching {
			report.Branching.MaxBranching = node.ChildCount()
		}
		if node.ChildCount() > 0 {
			report.Branching.InternalCount++
		}
		if node.CreatedAt().Before(first) {
			first = node.CreatedAt()
		}
		if node.CreatedAt().After(last) {
			last = node.CreatedAt()
		}
	}
	report.Temporal = TemporalStatistics{
		FirstSeen:   first,
		LastSeen:    last,
		SpanSeconds: last.Sub(first).Seconds(),
	}

	report.Insights = t.evolutionInsights(metrics, thresholds)
	return report
}

func (t *FamilyTree) evolutionInsights(metrics TreeMetrics, thresholds InsightThresholds) []string {
	var insights []string
	if thresholds.DeepLineageDepth > 0 && metrics.MaxDepth > thresholds.DeepLineageDepth {
		insights = append(insights, fmt.Sprintf(
			"deep lineage: mutation chain exceeds %d generations", thresholds.DeepLineageDepth))
	}
	if thresholds.ViralBranching > 0 && metrics.AvgBranching > thresholds.ViralBranching {
		insights = append(insights,
			"viral spread signal: average branching factor above configured threshold")
	}
	if thresholds.HighDiversityTypes > 0 && len(metrics.TypeDistribution) >= thresholds.HighDiversityTypes {
		insights = append(insights, fmt.Sprintf(
			"high mutation diversity: family shows %d distinct mutation types", len(metrics.TypeDistribution)))
	}
	return insights
}

// GetUncommittedEvents returns events raised since the last commit
func (t *FamilyTree) GetUncommittedEvents() []events.DomainEvent {
	evts := make([]events.DomainEvent, len(t.pendingEvents))
	copy(evts, t.pendingEvents)
	return evts
}

// MarkEventsAsCommitted clears the pending event list
func (t *FamilyTree) MarkEventsAsCommitted() {
	t.pendingEvents = nil
}

// ValidateIntegrity runs the defensive parent/child agreement checks. It
// returns the first violation found, or nil when the tree is consistent.
func (t *FamilyTree) ValidateIntegrity(maxDepth int) error {
	root, ok := t.nodes[t.rootID]
	if !ok {
		return pkgerrors.NewInvariantError("family root is missing from the node set")
	}
	if !root.IsRoot() {
		return pkgerrors.NewInvariantError("family root records a parent")
	}

	for id, node := range t.nodes {
		if !id.Equals(node.ID()) {
			return pkgerrors.NewInvariantError("node is indexed under a foreign id")
		}
		if node.Generation() != node.Depth() {
			return pkgerrors.NewInvariantError("node generation disagrees with depth")
		}
		if node.IsRoot() {
			continue
		}
		parent, ok := t.nodes[node.ParentID()]
		if !ok {
			return pkgerrors.NewInvariantError("node references an unknown parent")
		}
		if !parent.HasChild(id) {
			return pkgerrors.NewInvariantError("child's recorded parent disagrees with parent's recorded children")
		}
		if node.Depth() != parent.Depth()+1 {
			return pkgerrors.NewInvariantError("node depth is not parent depth plus one")
		}
		path := t.AncestryPath(id)
		if len(path) == 0 || !path[len(path)-1].IsRoot() {
			return pkgerrors.NewInvariantError("parent chain does not terminate at the root")
		}
		if maxDepth > 0 && len(path)-1 > maxDepth {
			return pkgerrors.NewInvariantError("parent chain is longer than the configured maximum depth")
		}
	}
	return nil
}

// ContainsHash reports whether any node in the family carries the given
// content hash
func (t *FamilyTree) ContainsHash(hash string) (valueobjects.NodeID, bool) {
	if strings.TrimSpace(hash) == "" {
		return valueobjects.NodeID{}, false
	}
	for id, node := range t.nodes {
		if node.Fingerprint().Hash == hash {
			return id, true
		}
	}
	return valueobjects.NodeID{}, false
}

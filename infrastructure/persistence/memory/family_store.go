package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"factsaura-backend/application/ports"
	"factsaura-backend/domain/core/aggregates"
	"factsaura-backend/domain/core/entities"
	"factsaura-backend/domain/core/valueobjects"
	"factsaura-backend/domain/events"
	pkgerrors "factsaura-backend/pkg/errors"
)

// TreePolicy supplies the growth limits and insight thresholds applied at
// call time. Backed by the dynamic config so operators can retune a
// running store.
type TreePolicy interface {
	Limits() aggregates.Limits
	Insights() aggregates.InsightThresholds
}

// nodeRef locates a node across families
type nodeRef struct {
	nodeID   valueobjects.NodeID
	familyID valueobjects.FamilyID
}

// familyEntry pairs a tree with its own lock. Writers to one family are
// serialized by this lock; other families proceed independently.
type familyEntry struct {
	mu   sync.RWMutex
	tree *aggregates.FamilyTree
}

// FamilyStore is the in-memory genealogy store. A global lock guards the
// registry and indexes; each family carries its own read/write lock so
// child-set updates are atomic with respect to readers.
type FamilyStore struct {
	mu       sync.RWMutex
	families map[valueobjects.FamilyID]*familyEntry

	// global lookup indexes, insertion-ordered where order matters
	nodeIndex   map[valueobjects.NodeID]valueobjects.FamilyID
	hashIndex   map[string]nodeRef
	domainIndex map[valueobjects.DomainLabel][]nodeRef
	nodeOrder   []nodeRef

	// ancestryMemo caches id chains only. The store is append-only, so a
	// node's chain to the root never changes; views are rebuilt per read
	// so child sets stay current.
	memoMu       sync.Mutex
	ancestryMemo map[valueobjects.NodeID][]valueobjects.NodeID

	policy    TreePolicy
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewFamilyStore creates an empty store
func NewFamilyStore(policy TreePolicy, publisher ports.EventPublisher, logger *zap.Logger) *FamilyStore {
	return &FamilyStore{
		families:     make(map[valueobjects.FamilyID]*familyEntry),
		nodeIndex:    make(map[valueobjects.NodeID]valueobjects.FamilyID),
		hashIndex:    make(map[string]nodeRef),
		domainIndex:  make(map[valueobjects.DomainLabel][]nodeRef),
		ancestryMemo: make(map[valueobjects.NodeID][]valueobjects.NodeID),
		policy:       policy,
		publisher:    publisher,
		logger:       logger,
	}
}

// CreateFamily seeds a new family tree and registers it globally
func (s *FamilyStore) CreateFamily(ctx context.Context, content string, fingerprint valueobjects.Fingerprint) (ports.CreateFamilyResult, error) {
	tree, err := aggregates.NewFamilyTree(content, fingerprint)
	if err != nil {
		return ports.CreateFamilyResult{}, err
	}
	root := tree.Root()

	s.mu.Lock()
	if _, exists := s.families[tree.ID()]; exists {
		s.mu.Unlock()
		return ports.CreateFamilyResult{}, pkgerrors.NewInvariantError("generated family id collides with an existing family")
	}
	s.families[tree.ID()] = &familyEntry{tree: tree}
	s.indexNodeLocked(root)
	s.mu.Unlock()

	evts := tree.GetUncommittedEvents()
	tree.MarkEventsAsCommitted()
	s.publish(ctx, evts)
	return ports.CreateFamilyResult{FamilyID: tree.ID(), RootNodeID: root.ID()}, nil
}

// AddMutation inserts a variant under a parent, serialized per family.
// Global indexes are updated only after the tree accepts the node, so a
// failed insert leaves no trace.
func (s *FamilyStore) AddMutation(
	ctx context.Context,
	familyID valueobjects.FamilyID,
	parentID valueobjects.NodeID,
	content string,
	fingerprint valueobjects.Fingerprint,
	descriptor entities.MutationDescriptor,
) (ports.AddMutationResult, error) {
	entry, err := s.entry(familyID)
	if err != nil {
		return ports.AddMutationResult{}, err
	}

	entry.mu.Lock()
	node, err := entry.tree.AddMutationWithLimits(parentID, content, fingerprint, descriptor, s.policy.Limits())
	if err != nil {
		entry.mu.Unlock()
		return ports.AddMutationResult{}, err
	}
	evts := entry.tree.GetUncommittedEvents()
	entry.tree.MarkEventsAsCommitted()
	entry.mu.Unlock()

	s.mu.Lock()
	s.indexNodeLocked(node)
	s.mu.Unlock()

	s.publish(ctx, evts)

	return ports.AddMutationResult{
		NodeID:     node.ID(),
		Generation: node.Generation(),
		Depth:      node.Depth(),
	}, nil
}

// indexNodeLocked registers a node in the global indexes; callers hold the
// store lock
func (s *FamilyStore) indexNodeLocked(node *entities.VariantNode) {
	ref := nodeRef{nodeID: node.ID(), familyID: node.FamilyID()}
	s.nodeIndex[node.ID()] = node.FamilyID()
	if hash := node.Fingerprint().Hash; hash != "" {
		if _, exists := s.hashIndex[hash]; !exists {
			s.hashIndex[hash] = ref
		}
	}
	domain := node.Fingerprint().Domain
	s.domainIndex[domain] = append(s.domainIndex[domain], ref)
	s.nodeOrder = append(s.nodeOrder, ref)
}

// GetFamilyTree returns a consistent snapshot of a family. It takes the
// family's write lock because it may refresh the cached metrics.
func (s *FamilyStore) GetFamilyTree(ctx context.Context, familyID valueobjects.FamilyID, opts ports.TreeOptions) (ports.FamilyTreeView, error) {
	entry, err := s.entry(familyID)
	if err != nil {
		return ports.FamilyTreeView{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	tree := entry.tree
	view := ports.FamilyTreeView{
		FamilyID:    tree.ID(),
		RootID:      tree.RootID(),
		Metrics:     tree.Metrics(),
		CreatedAt:   tree.CreatedAt(),
		LastUpdated: tree.LastUpdated(),
	}
	for _, node := range tree.Nodes() {
		if opts.MaxDepth > 0 && node.Depth() > opts.MaxDepth {
			continue
		}
		view.Nodes = append(view.Nodes, toNodeView(node, opts.IncludeContent))
	}
	return view, nil
}

// ListFamilies returns the summary of every family
func (s *FamilyStore) ListFamilies(ctx context.Context) ([]ports.FamilySummary, error) {
	s.mu.RLock()
	entries := make([]*familyEntry, 0, len(s.families))
	for _, entry := range s.families {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	summaries := make([]ports.FamilySummary, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		tree := entry.tree
		metrics := tree.Metrics()
		root := tree.Root()
		summaries = append(summaries, ports.FamilySummary{
			FamilyID:    tree.ID(),
			RootID:      tree.RootID(),
			RootPreview: preview(root.Content()),
			Domain:      root.Fingerprint().Domain,
			NodeCount:   metrics.NodeCount,
			MaxDepth:    metrics.MaxDepth,
			LastUpdated: tree.LastUpdated(),
		})
		entry.mu.Unlock()
	}
	return summaries, nil
}

// GetAncestryPath returns the node-to-root path. Only the id chain is
// memoized; views are rebuilt from the live tree on every read so a
// parent's child set is never served stale. Unknown ids yield an empty
// path rather than an error.
func (s *FamilyStore) GetAncestryPath(ctx context.Context, nodeID valueobjects.NodeID) ([]ports.NodeView, error) {
	entry, ok := s.entryForNode(nodeID)
	if !ok {
		return []ports.NodeView{}, nil
	}

	s.memoMu.Lock()
	chain, memoized := s.ancestryMemo[nodeID]
	s.memoMu.Unlock()

	entry.mu.RLock()
	defer entry.mu.RUnlock()

	if !memoized {
		nodes := entry.tree.AncestryPath(nodeID)
		chain = make([]valueobjects.NodeID, 0, len(nodes))
		for _, node := range nodes {
			chain = append(chain, node.ID())
		}
		s.memoMu.Lock()
		s.ancestryMemo[nodeID] = chain
		s.memoMu.Unlock()
	}

	path := make([]ports.NodeView, 0, len(chain))
	for _, id := range chain {
		node, ok := entry.tree.Node(id)
		if !ok {
			return nil, pkgerrors.NewInvariantError("memoized ancestry refers to a missing node")
		}
		path = append(path, toNodeView(node, true))
	}
	return path, nil
}

// GetDescendants enumerates nodes below a starting node breadth-first
func (s *FamilyStore) GetDescendants(ctx context.Context, nodeID valueobjects.NodeID, opts ports.DescendantOptions) ([]ports.NodeView, error) {
	entry, ok := s.entryForNode(nodeID)
	if !ok {
		return []ports.NodeView{}, nil
	}

	entry.mu.RLock()
	defer entry.mu.RUnlock()

	nodes := entry.tree.Descendants(nodeID, opts.MaxDepth, opts.TypeFilter)
	views := make([]ports.NodeView, 0, len(nodes))
	for _, node := range nodes {
		views = append(views, toNodeView(node, true))
	}
	return views, nil
}

// FindCommonAncestor intersects two ancestry paths. Nodes from different
// families are reported as not found.
func (s *FamilyStore) FindCommonAncestor(ctx context.Context, a, b valueobjects.NodeID) (ports.CommonAncestorResult, error) {
	s.mu.RLock()
	familyA, okA := s.nodeIndex[a]
	familyB, okB := s.nodeIndex[b]
	s.mu.RUnlock()

	if !okA || !okB {
		return ports.CommonAncestorResult{}, pkgerrors.NewNotFoundError("node")
	}
	if familyA != familyB {
		return ports.CommonAncestorResult{Found: false}, nil
	}

	entry, err := s.entry(familyA)
	if err != nil {
		return ports.CommonAncestorResult{}, err
	}

	entry.mu.RLock()
	defer entry.mu.RUnlock()

	ancestor, relationship, found := entry.tree.CommonAncestor(a, b)
	if !found {
		return ports.CommonAncestorResult{Found: false}, nil
	}
	view := toNodeView(ancestor, true)
	return ports.CommonAncestorResult{
		Found:        true,
		Ancestor:     &view,
		Relationship: relationship,
	}, nil
}

// AnalyzePatterns builds the analytics report for one family
func (s *FamilyStore) AnalyzePatterns(ctx context.Context, familyID valueobjects.FamilyID) (aggregates.PatternReport, error) {
	entry, err := s.entry(familyID)
	if err != nil {
		return aggregates.PatternReport{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.tree.AnalyzePatterns(s.policy.Insights()), nil
}

// GenerateVisualization builds the render-ready export for one family
func (s *FamilyStore) GenerateVisualization(ctx context.Context, familyID valueobjects.FamilyID) (aggregates.Visualization, error) {
	entry, err := s.entry(familyID)
	if err != nil {
		return aggregates.Visualization{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.tree.Visualize(), nil
}

// LookupByHash resolves a content hash to its first registered node
func (s *FamilyStore) LookupByHash(ctx context.Context, hash string) (ports.Candidate, bool) {
	if hash == "" {
		return ports.Candidate{}, false
	}
	s.mu.RLock()
	ref, ok := s.hashIndex[hash]
	s.mu.RUnlock()
	if !ok {
		return ports.Candidate{}, false
	}
	return s.candidateFor(ref)
}

// Candidates returns up to limit nodes worth scoring, preferring the same
// domain label and topping up from the rest of the store in insertion
// order
func (s *FamilyStore) Candidates(ctx context.Context, fingerprint valueobjects.Fingerprint, limit int) []ports.Candidate {
	if limit <= 0 {
		return nil
	}

	s.mu.RLock()
	refs := make([]nodeRef, 0, limit)
	seen := make(map[valueobjects.NodeID]bool, limit)
	for _, ref := range s.domainIndex[fingerprint.Domain] {
		if len(refs) == limit {
			break
		}
		refs = append(refs, ref)
		seen[ref.nodeID] = true
	}
	for _, ref := range s.nodeOrder {
		if len(refs) == limit {
			break
		}
		if !seen[ref.nodeID] {
			refs = append(refs, ref)
			seen[ref.nodeID] = true
		}
	}
	s.mu.RUnlock()

	candidates := make([]ports.Candidate, 0, len(refs))
	for _, ref := range refs {
		if candidate, ok := s.candidateFor(ref); ok {
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

// NodeFingerprint resolves a node's stored fingerprint
func (s *FamilyStore) NodeFingerprint(ctx context.Context, nodeID valueobjects.NodeID) (valueobjects.Fingerprint, error) {
	entry, ok := s.entryForNode(nodeID)
	if !ok {
		return valueobjects.Fingerprint{}, pkgerrors.NewNotFoundError("node")
	}

	entry.mu.RLock()
	defer entry.mu.RUnlock()
	node, ok := entry.tree.Node(nodeID)
	if !ok {
		return valueobjects.Fingerprint{}, pkgerrors.NewInvariantError("indexed node is missing from its family")
	}
	return node.Fingerprint(), nil
}

// Stats reports store-wide counts
func (s *FamilyStore) Stats(ctx context.Context) ports.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ports.StoreStats{
		FamilyCount: len(s.families),
		NodeCount:   len(s.nodeIndex),
	}
}

func (s *FamilyStore) entry(familyID valueobjects.FamilyID) (*familyEntry, error) {
	s.mu.RLock()
	entry, ok := s.families[familyID]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.NewNotFoundError("family").WithCode("FAMILY_NOT_FOUND")
	}
	return entry, nil
}

func (s *FamilyStore) entryForNode(nodeID valueobjects.NodeID) (*familyEntry, bool) {
	s.mu.RLock()
	familyID, ok := s.nodeIndex[nodeID]
	if !ok {
		s.mu.RUnlock()
		return nil, false
	}
	entry, ok := s.families[familyID]
	s.mu.RUnlock()
	return entry, ok
}

func (s *FamilyStore) candidateFor(ref nodeRef) (ports.Candidate, bool) {
	entry, err := s.entry(ref.familyID)
	if err != nil {
		return ports.Candidate{}, false
	}
	entry.mu.RLock()
	defer entry.mu.RUnlock()
	node, ok := entry.tree.Node(ref.nodeID)
	if !ok {
		return ports.Candidate{}, false
	}
	return ports.Candidate{
		NodeID:      ref.nodeID,
		FamilyID:    ref.familyID,
		Fingerprint: node.Fingerprint(),
	}, true
}

// publish delivers committed events outside any family lock
func (s *FamilyStore) publish(ctx context.Context, evts []events.DomainEvent) {
	if s.publisher == nil || len(evts) == 0 {
		return
	}
	s.publisher.Publish(ctx, evts...)
}

func toNodeView(node *entities.VariantNode, includeContent bool) ports.NodeView {
	view := ports.NodeView{
		ID:          node.ID(),
		FamilyID:    node.FamilyID(),
		Kind:        node.Kind(),
		Generation:  node.Generation(),
		Depth:       node.Depth(),
		Children:    node.Children(),
		Mutation:    node.Mutation(),
		Domain:      node.Fingerprint().Domain,
		ContentHash: node.Fingerprint().Hash,
		CreatedAt:   node.CreatedAt(),
	}
	if includeContent {
		view.Content = node.Content()
	}
	if !node.IsRoot() {
		parentID := node.ParentID()
		view.ParentID = &parentID
	}
	return view
}

func preview(content string) string {
	const max = 80
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "…"
}

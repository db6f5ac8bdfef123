package aggregates

import (
	"factsaura-backend/domain/core/entities"
	"factsaura-backend/domain/core/valueobjects"
)

// VisualizationNode is a render-ready node projection. Color and size are
// presentation hints only and carry no store semantics.
type VisualizationNode struct {
	ID              valueobjects.NodeID   `json:"id"`
	Label           string                `json:"label"`
	Kind            entities.NodeKind     `json:"kind"`
	MutationType    entities.MutationType `json:"mutation_type,omitempty"`
	Generation      int                   `json:"generation"`
	DescendantCount int                   `json:"descendant_count"`
	Color           string                `json:"color"`
	Size            int                   `json:"size"`
}

// VisualizationEdge links a parent to a child in render order
type VisualizationEdge struct {
	From valueobjects.NodeID `json:"from"`
	To   valueobjects.NodeID `json:"to"`
}

// LayoutHints guide the renderer without constraining it
type LayoutHints struct {
	Direction    string `json:"direction"`
	LevelSpacing int    `json:"level_spacing"`
	NodeSpacing  int    `json:"node_spacing"`
}

// VisualizationStatistics is the summary block attached to an export
type VisualizationStatistics struct {
	NodeCount    int     `json:"node_count"`
	EdgeCount    int     `json:"edge_count"`
	MaxDepth     int     `json:"max_depth"`
	LeafCount    int     `json:"leaf_count"`
	AvgBranching float64 `json:"avg_branching"`
}

// Visualization is the complete derived view for rendering one family
type Visualization struct {
	FamilyID   valueobjects.FamilyID         `json:"family_id"`
	Nodes      []VisualizationNode           `json:"nodes"`
	Edges      []VisualizationEdge           `json:"edges"`
	Levels     map[int][]valueobjects.NodeID `json:"levels"`
	Layout     LayoutHints                   `json:"layout_hints"`
	Statistics VisualizationStatistics       `json:"statistics"`
}

const labelPreviewLength = 60

var mutationColors = map[entities.MutationType]string{
	entities.MutationLexical:    "#f2a44a",
	entities.MutationSemantic:   "#d9534f",
	entities.MutationStructural: "#5bc0de",
	entities.MutationContextual: "#9b59b6",
}

const rootColor = "#2e7d32"

// Visualize builds the render-ready projection of the family. It is a pure
// derived view and never mutates the tree beyond the cached metrics.
func (t *FamilyTree) Visualize() Visualization {
	metrics := t.Metrics()
	nodes := t.Nodes()

	viz := Visualization{
		FamilyID: t.id,
		Nodes:    make([]VisualizationNode, 0, len(nodes)),
		Edges:    make([]VisualizationEdge, 0, len(nodes)-1),
		Levels:   make(map[int][]valueobjects.NodeID),
		Layout: LayoutHints{
			Direction:    "top-down",
			LevelSpacing: 120,
			NodeSpacing:  80,
		},
		Statistics: VisualizationStatistics{
			NodeCount:    metrics.NodeCount,
			EdgeCount:    metrics.NodeCount - 1,
			MaxDepth:     metrics.MaxDepth,
			LeafCount:    metrics.LeafCount,
			AvgBranching: metrics.AvgBranching,
		},
	}

	for _, node := range nodes {
		descendants := len(t.Descendants(node.ID(), 0, ""))
		viz.Nodes = append(viz.Nodes, VisualizationNode{
			ID:              node.ID(),
			Label:           previewLabel(node.Content()),
			Kind:            node.Kind(),
			MutationType:    mutationTypeOf(node),
			Generation:      node.Generation(),
			DescendantCount: descendants,
			Color:           nodeColor(node),
			Size:            nodeSize(descendants),
		})
		viz.Levels[node.Generation()] = append(viz.Levels[node.Generation()], node.ID())
		if !node.IsRoot() {
			viz.Edges = append(viz.Edges, VisualizationEdge{From: node.ParentID(), To: node.ID()})
		}
	}
	return viz
}

func previewLabel(content string) string {
	runes := []rune(content)
	if len(runes) <= labelPreviewLength {
		return content
	}
	return string(runes[:labelPreviewLength]) + "…"
}

func mutationTypeOf(node *entities.VariantNode) entities.MutationType {
	if m := node.Mutation(); m != nil {
		return m.Type
	}
	return ""
}

func nodeColor(node *entities.VariantNode) string {
	if node.IsRoot() {
		return rootColor
	}
	if color, ok := mutationColors[mutationTypeOf(node)]; ok {
		return color
	}
	return "#888888"
}

// nodeSize scales with reach so widely copied variants stand out
func nodeSize(descendants int) int {
	size := 20 + descendants*4
	if size > 60 {
		size = 60
	}
	return size
}

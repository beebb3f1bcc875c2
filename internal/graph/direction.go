package graph

import "github.com/sevigo/grepiku/internal/core"

// outgoingOnlyEdgeTypes are the edge kinds traversable only in their
// recorded direction.
var outgoingOnlyEdgeTypes = map[core.GraphEdgeType]bool{
	core.EdgeDirContainsDir:    true,
	core.EdgeDirContainsFile:   true,
	core.EdgeModuleContains:    true,
	core.EdgeContainsSymbol:    true,
	core.EdgeSymbolContainsSym: true,
	core.EdgeClassContainsSym:  true,
}

// Direction identifies which way an edge is being traversed relative to its
// recorded (from, to) orientation.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// CanTraverseDirection reports whether edgeType may be walked in direction,
// the traversal direction policy consumed by the context-pack graph walk.
func CanTraverseDirection(edgeType core.GraphEdgeType, direction Direction) bool {
	if outgoingOnlyEdgeTypes[edgeType] {
		return direction == DirectionOutgoing
	}
	return true
}

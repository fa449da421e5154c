package huffman

import (
	"container/heap"

	"github.com/dargueta/bitpress/utilities/compression/stats"
)

// NodeID is the index of a node in a [Tree].
type NodeID int

// NoChild marks a missing child link, i.e. the node is a leaf.
const NoChild NodeID = -1

const totalLeaves = 256
const totalNodes = 2*totalLeaves - 1

// Node is either a leaf for a single byte value or an internal node joining two
// subtrees. Children are referenced by index into the owning tree.
type Node struct {
	Weight uint64
	Symbol byte
	Left   NodeID
	Right  NodeID
}

func (n Node) IsLeaf() bool {
	return n.Left == NoChild
}

// Tree is a Huffman tree stored as a flat arena.
//
// Nodes 0 through 255 are the leaves for byte values 0 through 255, whether or not
// the symbol occurred in the input. Nodes 256 and up are internal nodes in the
// order they were created. The last node is the root.
type Tree struct {
	nodes []Node
}

// BuildTree constructs the Huffman tree for `table` by repeatedly merging the two
// lightest nodes. The first node removed becomes the left child.
//
// Nodes with equal weight are ordered by their index, so a lower byte value wins
// among leaves, an older node wins among internal nodes, and leaves win over
// internal nodes. The tree shape is therefore a pure function of the table.
func BuildTree(table *stats.FrequencyTable) *Tree {
	tree := &Tree{nodes: make([]Node, 0, totalNodes)}
	queue := nodeQueue{tree: tree, ids: make([]NodeID, 0, totalLeaves)}

	for i := 0; i < totalLeaves; i++ {
		tree.nodes = append(
			tree.nodes,
			Node{
				Weight: table.Count(byte(i)),
				Symbol: byte(i),
				Left:   NoChild,
				Right:  NoChild,
			},
		)
		queue.ids = append(queue.ids, NodeID(i))
	}
	heap.Init(&queue)

	for queue.Len() > 1 {
		left := heap.Pop(&queue).(NodeID)
		right := heap.Pop(&queue).(NodeID)

		tree.nodes = append(
			tree.nodes,
			Node{
				Weight: tree.nodes[left].Weight + tree.nodes[right].Weight,
				Left:   left,
				Right:  right,
			},
		)
		heap.Push(&queue, NodeID(len(tree.nodes)-1))
	}
	return tree
}

// Root returns the ID of the root node.
func (t *Tree) Root() NodeID {
	return NodeID(len(t.nodes) - 1)
}

// Node returns a copy of the node with the given ID.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Len returns the total number of nodes in the tree. For a tree built by
// [BuildTree] this is always 511.
func (t *Tree) Len() int {
	return len(t.nodes)
}

////////////////////////////////////////////////////////////////////////////////

// nodeQueue is a min-heap of node IDs ordered by (weight, ID).
type nodeQueue struct {
	tree *Tree
	ids  []NodeID
}

func (q nodeQueue) Len() int { return len(q.ids) }

func (q nodeQueue) Less(i, j int) bool {
	a := q.ids[i]
	b := q.ids[j]
	weightA := q.tree.nodes[a].Weight
	weightB := q.tree.nodes[b].Weight
	if weightA != weightB {
		return weightA < weightB
	}
	return a < b
}

func (q nodeQueue) Swap(i, j int) { q.ids[i], q.ids[j] = q.ids[j], q.ids[i] }

func (q *nodeQueue) Push(x interface{}) { q.ids = append(q.ids, x.(NodeID)) }

func (q *nodeQueue) Pop() interface{} {
	old := q.ids
	n := len(old)
	item := old[n-1]
	q.ids = old[0 : n-1]
	return item
}

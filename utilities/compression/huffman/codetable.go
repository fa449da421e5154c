package huffman

import (
	"fmt"

	"github.com/dargueta/bitpress"
	bs "github.com/dargueta/bitpress/utilities/bitstream"
)

// CodeTable maps every byte value to its prefix code.
type CodeTable struct {
	codes [256]bs.Code
}

// GenerateCodeTable assigns codes by walking `tree` depth-first, appending a 0 bit
// for every left edge and a 1 bit for every right edge. Every byte value gets a
// code, including ones that never occurred in the input.
func GenerateCodeTable(tree *Tree) CodeTable {
	type pending struct {
		id   NodeID
		code bs.Code
	}

	table := CodeTable{}
	stack := []pending{{id: tree.Root()}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := tree.Node(current.id)
		if node.IsLeaf() {
			table.codes[node.Symbol] = current.code
			continue
		}
		// Right is pushed first so the left subtree is visited first.
		stack = append(
			stack,
			pending{id: node.Right, code: current.code.Append(true)},
			pending{id: node.Left, code: current.code.Append(false)},
		)
	}
	return table
}

// NewCodeTable creates a table from explicit codes, e.g. ones read from a container
// header. The codes must be prefix-free; this is checked by [NewDecoder], not here.
func NewCodeTable(codes [256]bs.Code) CodeTable {
	return CodeTable{codes: codes}
}

// Code returns the code for `symbol`.
func (t *CodeTable) Code(symbol byte) bs.Code {
	return t.codes[symbol]
}

// AverageLength returns the expected code length in bits per symbol for data with
// the given symbol probabilities.
func (t *CodeTable) AverageLength(histogram [256]float64) float64 {
	total := 0.0
	for i, p := range histogram {
		if p != 0 {
			total += p * float64(t.codes[i].Len())
		}
	}
	return total
}

////////////////////////////////////////////////////////////////////////////////

type trieNode struct {
	children [2]int32
	symbol   byte
	isLeaf   bool
}

// Decoder is the inverse of a [CodeTable]: a binary trie that resolves a sequence
// of bits to the symbol whose code it spells.
type Decoder struct {
	nodes []trieNode
}

// NewDecoder builds the inverse of `table`. It fails with
// [bitpress.ErrCorruptHeader] if two codes collide or one is a prefix of another.
func NewDecoder(table *CodeTable) (*Decoder, error) {
	decoder := &Decoder{
		nodes: make([]trieNode, 1, totalNodes),
	}
	decoder.nodes[0] = trieNode{children: [2]int32{-1, -1}}

	for i := 0; i < 256; i++ {
		err := decoder.insert(byte(i), table.codes[i])
		if err != nil {
			return nil, err
		}
	}
	return decoder, nil
}

func (d *Decoder) insert(symbol byte, code bs.Code) error {
	current := int32(0)
	for i := 0; i < code.Len(); i++ {
		if d.nodes[current].isLeaf {
			return bitpress.ErrCorruptHeader.WithMessage(
				fmt.Sprintf(
					"code for symbol %d (%s) extends the code for symbol %d",
					symbol,
					code,
					d.nodes[current].symbol,
				),
			)
		}

		branch := 0
		if code.Bit(i) {
			branch = 1
		}
		next := d.nodes[current].children[branch]
		if next < 0 {
			d.nodes = append(d.nodes, trieNode{children: [2]int32{-1, -1}})
			next = int32(len(d.nodes) - 1)
			d.nodes[current].children[branch] = next
		}
		current = next
	}

	node := &d.nodes[current]
	if node.isLeaf || node.children[0] >= 0 || node.children[1] >= 0 {
		return bitpress.ErrCorruptHeader.WithMessage(
			fmt.Sprintf("code for symbol %d (%s) is not prefix-free", symbol, code))
	}
	node.isLeaf = true
	node.symbol = symbol
	return nil
}

// DecodeSymbol reads bits from `reader` until they spell a complete code, and
// returns that code's symbol.
func (d *Decoder) DecodeSymbol(reader *bs.Reader) (byte, error) {
	current := int32(0)
	for !d.nodes[current].isLeaf {
		bit, err := reader.ReadBit()
		if err != nil {
			return 0, err
		}

		branch := 0
		if bit {
			branch = 1
		}
		next := d.nodes[current].children[branch]
		if next < 0 {
			byteIndex, bitIndex := reader.Position()
			return 0, bitpress.ErrCorruptHeader.WithMessage(
				fmt.Sprintf(
					"bit sequence ending at byte %d bit %d matches no code",
					byteIndex,
					bitIndex,
				),
			)
		}
		current = next
	}
	return d.nodes[current].symbol, nil
}

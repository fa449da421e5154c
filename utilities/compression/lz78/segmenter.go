package lz78

import (
	"math/bits"

	"github.com/dargueta/bitpress"
)

// Token is one unit of LZ78 output: a reference to an earlier dictionary entry
// followed by one literal byte. Prefix 0 means "no prefix".
type Token struct {
	Prefix  uint64
	Literal byte
}

type edge struct {
	prefix  uint64
	literal byte
}

// Dictionary is the growing list of segments shared by the encoder and decoder.
// Entries are numbered from 1, and entry i is stored as the token that created it,
// so entry i is always entry Prefix-1 followed by Literal.
type Dictionary struct {
	entries []Token
	index   map[edge]uint64
}

func NewDictionary() *Dictionary {
	return &Dictionary{index: make(map[edge]uint64)}
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Lookup returns the index of the entry formed by extending entry `prefix` with
// `literal`, or 0 if there is no such entry.
func (d *Dictionary) Lookup(prefix uint64, literal byte) uint64 {
	return d.index[edge{prefix, literal}]
}

// Add registers a new entry and returns its index.
func (d *Dictionary) Add(token Token) uint64 {
	d.entries = append(d.entries, token)
	id := uint64(len(d.entries))
	d.index[edge{token.Prefix, token.Literal}] = id
	return id
}

// Token returns the token that created entry `id`.
func (d *Dictionary) Token(id uint64) Token {
	return d.entries[id-1]
}

// Entry reconstructs the bytes of entry `id` by following its prefix chain.
func (d *Dictionary) Entry(id uint64) []byte {
	var reversed []byte
	for id != 0 {
		token := d.entries[id-1]
		reversed = append(reversed, token.Literal)
		id = token.Prefix
	}
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	return reversed
}

// IndexWidth returns the number of bits needed to store any prefix index a
// dictionary of `size` entries can produce, i.e. ceil(log2(size)).
//
// Prefixes never refer to the newest entry, so the largest possible prefix is
// size-1, and a dictionary with a single entry needs no index bits at all.
func IndexWidth(size int) uint8 {
	if size <= 1 {
		return 0
	}
	return uint8(bits.Len64(uint64(size - 1)))
}

// Segmentation is the result of scanning a buffer.
type Segmentation struct {
	Tokens     []Token
	Dictionary *Dictionary
	// IndexWidth is the number of bits used to store each token's prefix.
	IndexWidth uint8
}

// Segment splits `data` into LZ78 tokens.
//
// Bytes are appended to a candidate segment until it no longer matches an entry
// in the dictionary; the candidate is then registered as a new entry and emitted
// as a token. If the input ends while the candidate still matches an existing
// entry, that entry's own token is emitted once more without registering
// anything. The index width is only known after the whole input was scanned.
//
// Empty input fails with [bitpress.ErrEmptyInput].
func Segment(data []byte, observer bitpress.ProgressObserver) (Segmentation, error) {
	if len(data) == 0 {
		return Segmentation{}, bitpress.ErrEmptyInput.WithMessage("nothing to segment")
	}

	ticker := bitpress.NewProgressTicker(observer, bitpress.StageEncoding, int64(len(data)))
	dictionary := NewDictionary()
	tokens := make([]Token, 0, len(data)/4+1)
	candidate := uint64(0)

	for i, b := range data {
		next := dictionary.Lookup(candidate, b)
		if next != 0 {
			candidate = next
		} else {
			token := Token{Prefix: candidate, Literal: b}
			dictionary.Add(token)
			tokens = append(tokens, token)
			candidate = 0
		}
		ticker.Tick(int64(i + 1))
	}

	if candidate != 0 {
		tokens = append(tokens, dictionary.Token(candidate))
	}

	return Segmentation{
		Tokens:     tokens,
		Dictionary: dictionary,
		IndexWidth: IndexWidth(dictionary.Len()),
	}, nil
}

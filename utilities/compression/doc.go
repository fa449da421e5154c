// Package compression ties the codecs of this module together and provides the
// file-level operations used by the command-line tools.
//
// Two codecs are available, each with its own container format:
//
//   - huffman: a static Huffman prefix coder. Byte frequencies are counted over the
//     whole input, a code tree is built from all 256 byte values, and the resulting
//     code table is stored in the container header. Files get a `.hfp` extension.
//   - lz78: an LZ78 dictionary coder. The input is split into segments, each of
//     which is an earlier segment extended by one byte. Only (prefix index, byte)
//     pairs are stored; the decoder rebuilds the dictionary as it goes. Files get
//     a `.lzp` extension.
//
// Both codecs buffer the entire input in memory. Neither is a streaming format:
// the Huffman header needs statistics over the whole input, and the LZ78 index
// width is only known once the whole input was segmented.
//
// Huffman coding does well on data with a skewed byte distribution but little
// repetition of longer strings. LZ78 does well once whole phrases repeat, but needs
// a few kilobytes of input before its dictionary pays for itself.
//
// The Huffman code table alone takes at least 512 bytes, so tiny inputs always grow.
package compression

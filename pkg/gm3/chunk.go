package gm3

import "fmt"

// ChunkKind is the 32-bit numeric form of a chunk's four-character code.
type ChunkKind uint32

// Known chunk kinds.
const (
	ChunkDot2 ChunkKind = 0x32746F44 // "Dot2" packed-integer vertex stream
	ChunkFDot ChunkKind = 0x746F4446 // "FDot" compressed vertex stream
	ChunkPrim ChunkKind = 0x6D697250 // "Prim" simple primitive stream
	ChunkLine ChunkKind = 0x656E694C // "Line" complex primitive/surface stream
	ChunkSoPF ChunkKind = 0x46506F73 // "soPF" animation property frame
	ChunkFPos ChunkKind = 0x736F5046 // "FPos" animation position frame
	ChunkTxNm ChunkKind = 0x6D4E7854 // "TxNm" texture names
	ChunkEnd  ChunkKind = 0x20646E45 // "End " terminator (trailing space)
)

// Known reports whether the kind is one of the defined chunk kinds.
func (k ChunkKind) Known() bool {
	switch k {
	case ChunkDot2, ChunkFDot, ChunkPrim, ChunkLine, ChunkSoPF, ChunkFPos, ChunkTxNm, ChunkEnd:
		return true
	}
	return false
}

// String returns the four-character code for known kinds, printable ASCII
// decoded for plausible codes, and a hex form otherwise.
func (k ChunkKind) String() string {
	b := [4]byte{byte(k), byte(k >> 8), byte(k >> 16), byte(k >> 24)}
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return fmt.Sprintf("0x%08X", uint32(k))
		}
	}
	return string(b[:])
}

// ChunkHeader locates one chunk inside the input buffer. Offset is the
// position of the chunk's id field.
type ChunkHeader struct {
	Kind   ChunkKind
	Size   uint32
	Offset int
}

// TotalSize is the chunk's full footprint: 8-byte header plus payload.
func (h ChunkHeader) TotalSize() int { return 8 + int(h.Size) }

// ScanChunks walks the chunk stream from start, returning headers up to
// and including the first End chunk. A chunk whose declared footprint
// overruns the buffer, or a stream with no End marker, is truncated.
func ScanChunks(data []byte, start int) ([]ChunkHeader, error) {
	var headers []ChunkHeader
	off := start

	for {
		if off+8 > len(data) {
			return headers, decodeErr(ErrTruncated, CodeNullOrInvalidInput, "no End chunk before offset %d", off)
		}
		id, _ := ReadU32LE(data, off)
		size, _ := ReadU32LE(data, off+4)

		h := ChunkHeader{Kind: ChunkKind(id), Size: size, Offset: off}
		if off+h.TotalSize() > len(data) {
			return headers, decodeErr(ErrTruncated, CodeNullOrInvalidInput,
				"chunk %s at %d declares %d bytes past end of input", h.Kind, off, size)
		}
		headers = append(headers, h)

		if h.Kind == ChunkEnd {
			return headers, nil
		}
		off += h.TotalSize()
	}
}

// ChunkData returns the payload slice for a scanned header.
func ChunkData(data []byte, h ChunkHeader) []byte {
	return data[h.Offset+8 : h.Offset+8+int(h.Size)]
}

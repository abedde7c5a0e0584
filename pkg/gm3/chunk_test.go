package gm3

import (
	"encoding/binary"
	"errors"
	"testing"
)

// appendChunk appends a chunk header and payload to buf.
func appendChunk(buf []byte, kind ChunkKind, payload []byte) []byte {
	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:], uint32(kind))
	binary.LittleEndian.PutUint32(header[4:], uint32(len(payload)))
	buf = append(buf, header[:]...)
	return append(buf, payload...)
}

func TestScanChunks_Basic(t *testing.T) {
	var data []byte
	data = appendChunk(data, ChunkDot2, make([]byte, 20))
	data = appendChunk(data, ChunkPrim, make([]byte, 4))
	data = appendChunk(data, ChunkEnd, nil)

	headers, err := ScanChunks(data, 0)
	if err != nil {
		t.Fatalf("ScanChunks failed: %v", err)
	}
	if len(headers) != 3 {
		t.Fatalf("got %d headers, want 3", len(headers))
	}

	wantKinds := []ChunkKind{ChunkDot2, ChunkPrim, ChunkEnd}
	for i, h := range headers {
		if h.Kind != wantKinds[i] {
			t.Errorf("header %d kind = %s, want %s", i, h.Kind, wantKinds[i])
		}
	}
	if headers[2].Size != 0 {
		t.Errorf("End chunk size = %d, want 0", headers[2].Size)
	}
}

func TestScanChunks_StopsAtEnd(t *testing.T) {
	var data []byte
	data = appendChunk(data, ChunkEnd, nil)
	data = appendChunk(data, ChunkPrim, make([]byte, 2))

	headers, err := ScanChunks(data, 0)
	if err != nil {
		t.Fatalf("ScanChunks failed: %v", err)
	}
	if len(headers) != 1 || headers[0].Kind != ChunkEnd {
		t.Errorf("scan should stop at first End, got %d headers", len(headers))
	}
}

func TestScanChunks_DeclaredOverrun(t *testing.T) {
	var data []byte
	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:], uint32(ChunkDot2))
	binary.LittleEndian.PutUint32(header[4:], 1000)
	data = append(data, header[:]...)
	data = append(data, make([]byte, 4)...)

	if _, err := ScanChunks(data, 0); !errors.Is(err, ErrTruncated) {
		t.Errorf("overrunning chunk should be truncated, got %v", err)
	}
}

func TestScanChunks_MissingEnd(t *testing.T) {
	var data []byte
	data = appendChunk(data, ChunkPrim, make([]byte, 2))

	if _, err := ScanChunks(data, 0); !errors.Is(err, ErrTruncated) {
		t.Errorf("stream without End should be truncated, got %v", err)
	}
}

func TestScanChunks_UnknownKindScanned(t *testing.T) {
	var data []byte
	data = appendChunk(data, ChunkKind(0xDEADBEEF), make([]byte, 4))
	data = appendChunk(data, ChunkEnd, nil)

	headers, err := ScanChunks(data, 0)
	if err != nil {
		t.Fatalf("ScanChunks failed: %v", err)
	}
	if len(headers) != 2 {
		t.Fatalf("got %d headers, want 2", len(headers))
	}
	if headers[0].Kind.Known() {
		t.Error("0xDEADBEEF should not be a known kind")
	}
}

func TestScanChunks_Boundedness(t *testing.T) {
	var data []byte
	data = appendChunk(data, ChunkDot2, make([]byte, 32))
	data = appendChunk(data, ChunkTxNm, []byte("a.bmp\x00"))
	data = appendChunk(data, ChunkEnd, nil)

	headers, err := ScanChunks(data, 0)
	if err != nil {
		t.Fatalf("ScanChunks failed: %v", err)
	}
	total := 0
	for _, h := range headers {
		total += h.TotalSize()
	}
	if total > len(data) {
		t.Errorf("chunk footprints sum to %d, input is %d bytes", total, len(data))
	}
}

func TestChunkData(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	data := appendChunk(nil, ChunkPrim, payload)
	data = appendChunk(data, ChunkEnd, nil)

	headers, err := ScanChunks(data, 0)
	if err != nil {
		t.Fatalf("ScanChunks failed: %v", err)
	}
	got := ChunkData(data, headers[0])
	if len(got) != len(payload) {
		t.Fatalf("payload length = %d, want %d", len(got), len(payload))
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Errorf("payload[%d] = %d, want %d", i, got[i], payload[i])
		}
	}
}

func TestChunkKind_String(t *testing.T) {
	tests := []struct {
		kind ChunkKind
		want string
	}{
		{ChunkDot2, "Dot2"},
		{ChunkFDot, "FDot"},
		{ChunkPrim, "Prim"},
		{ChunkLine, "Line"},
		{ChunkSoPF, "soPF"},
		{ChunkFPos, "FPos"},
		{ChunkTxNm, "TxNm"},
		{ChunkEnd, "End "},
		{ChunkKind(0x00000001), "0x00000001"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

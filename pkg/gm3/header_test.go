package gm3

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestDetectHeader_Classification(t *testing.T) {
	full := make([]byte, 12)
	binary.LittleEndian.PutUint32(full[0:], Magic3DGM)
	binary.LittleEndian.PutUint32(full[4:], 0x04000100)
	binary.LittleEndian.PutUint32(full[8:], 0xAABBCCDD)

	versionOnly := make([]byte, 4)
	binary.LittleEndian.PutUint32(versionOnly, 0x01000100)

	tests := []struct {
		name       string
		data       []byte
		wantType   HeaderType
		wantOffset int
		wantErr    error
	}{
		{"empty buffer", nil, 0, 0, ErrBadHeader},
		{"three bytes", []byte{1, 2, 3}, 0, 0, ErrBadHeader},
		{"full header", full, FullHeader, 12, nil},
		{"magic but short", full[:8], 0, 0, ErrBadHeader},
		{"version range min", versionOnly, VersionOnly, 4, nil},
		{"arbitrary bytes", []byte{0xDE, 0xAD, 0xBE, 0xEF}, NoHeader, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := DetectHeader(tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectHeader failed: %v", err)
			}
			if h.Type != tt.wantType {
				t.Errorf("type = %s, want %s", h.Type, tt.wantType)
			}
			if h.ChunkOffset != tt.wantOffset {
				t.Errorf("chunk offset = %d, want %d", h.ChunkOffset, tt.wantOffset)
			}
		})
	}
}

func TestDetectHeader_VersionRange(t *testing.T) {
	tests := []struct {
		value uint32
		want  HeaderType
	}{
		{0x01000100, VersionOnly},
		{0x03000100, VersionOnly},
		{0x04000100, VersionOnly},
		{0x10000100, VersionOnly},
		{0x010000FF, NoHeader},
		{0x10000101, NoHeader},
		{0x00000000, NoHeader},
	}

	for _, tt := range tests {
		data := make([]byte, 4)
		binary.LittleEndian.PutUint32(data, tt.value)
		h, err := DetectHeader(data)
		if err != nil {
			t.Fatalf("DetectHeader(0x%08X) failed: %v", tt.value, err)
		}
		if h.Type != tt.want {
			t.Errorf("0x%08X classified as %s, want %s", tt.value, h.Type, tt.want)
		}
		if tt.want == VersionOnly && h.Version != tt.value {
			t.Errorf("version = 0x%08X, want 0x%08X", h.Version, tt.value)
		}
	}
}

func TestDetectHeader_FullHeaderFields(t *testing.T) {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:], Magic3DGM)
	binary.LittleEndian.PutUint32(data[4:], 0x03000100)
	binary.LittleEndian.PutUint32(data[8:], 42)

	h, err := DetectHeader(data)
	if err != nil {
		t.Fatalf("DetectHeader failed: %v", err)
	}
	if h.Magic != Magic3DGM {
		t.Errorf("magic = 0x%08X", h.Magic)
	}
	if h.Version != 0x03000100 {
		t.Errorf("version = 0x%08X", h.Version)
	}
	if h.Info != 42 {
		t.Errorf("info = %d", h.Info)
	}
	if h.HeaderSize != 12 {
		t.Errorf("header size = %d", h.HeaderSize)
	}
}

func TestValidateHeader(t *testing.T) {
	h := FileHeader{Type: VersionOnly, Version: 0x01000100, HeaderSize: 4, ChunkOffset: 4}

	if err := ValidateHeader(h, 12); err != nil {
		t.Errorf("12-byte file should validate: %v", err)
	}
	if err := ValidateHeader(h, 4); !errors.Is(err, ErrTruncated) {
		t.Errorf("4-byte file should leave no room for chunks, got %v", err)
	}

	bad := FileHeader{Type: VersionOnly, Version: 0xFFFFFFFF, ChunkOffset: 4}
	if err := ValidateHeader(bad, 100); !errors.Is(err, ErrBadHeader) {
		t.Errorf("out-of-range version should fail, got %v", err)
	}
}

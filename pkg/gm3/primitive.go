package gm3

import "fmt"

// PrimitiveKind is the raw 16-bit primitive type token from Prim and Line
// streams.
type PrimitiveKind uint16

// Primitive kinds.
const (
	TriangleStrip    PrimitiveKind = 16646
	QuadStripInput   PrimitiveKind = 18189 // rewritten to QuadStrip on read
	QuadStrip        PrimitiveKind = 18190
	TriangleList     PrimitiveKind = 20486
	PointSprite      PrimitiveKind = 21251
	LineStrip        PrimitiveKind = 28422
	LineStripAlt     PrimitiveKind = 28423 // rewritten to PointSprite on read
	ComplexPrimitive PrimitiveKind = 30733
)

// Control tokens.
const (
	EndMarker          uint16 = 0x6000 // ends primitive processing
	PrimListTerminator uint16 = 0xFFFE // ends a primitive list
	LineDataTerminator uint16 = 0x7000 // ends a line-data run
	ComplexLineMarker  uint16 = 17165  // 0x430D, triggers complex materialization
)

// complexElementCount is the fixed data payload of a ComplexPrimitive.
const complexElementCount = 10

// String returns a human-readable kind name.
func (k PrimitiveKind) String() string {
	switch k {
	case TriangleStrip:
		return "TriangleStrip"
	case QuadStripInput:
		return "QuadStripInput"
	case QuadStrip:
		return "QuadStrip"
	case TriangleList:
		return "TriangleList"
	case PointSprite:
		return "PointSprite"
	case LineStrip:
		return "LineStrip"
	case LineStripAlt:
		return "LineStripAlt"
	case ComplexPrimitive:
		return "ComplexPrimitive"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", uint16(k))
	}
}

// Known reports whether k is a defined primitive kind.
func (k PrimitiveKind) Known() bool {
	switch k {
	case TriangleStrip, QuadStripInput, QuadStrip, TriangleList,
		PointSprite, LineStrip, LineStripAlt, ComplexPrimitive:
		return true
	}
	return false
}

// Canonical applies the in-stream type rewrites.
func (k PrimitiveKind) Canonical() PrimitiveKind {
	switch k {
	case QuadStripInput:
		return QuadStrip
	case LineStripAlt:
		return PointSprite
	default:
		return k
	}
}

// FlagWord is the primitive-flag register value written for the kind. The
// byte subfields classify the primitive for the surface table.
func (k PrimitiveKind) FlagWord() uint32 {
	switch k {
	case TriangleStrip, TriangleList:
		return 0x00010001
	case QuadStrip:
		return 0x00000201
	case PointSprite:
		return 0x00000001
	case LineStrip:
		return 0x00000101
	case ComplexPrimitive:
		return 0x00000101
	default:
		return 0
	}
}

// expandTriangleStrip converts strip indices into a triangle list,
// alternating winding so orientation is preserved.
func expandTriangleStrip(s []uint16) []uint16 {
	if len(s) < 3 {
		return nil
	}
	out := make([]uint16, 0, (len(s)-2)*3)
	for i := 0; i+2 < len(s); i++ {
		if i%2 == 0 {
			out = append(out, s[i], s[i+1], s[i+2])
		} else {
			out = append(out, s[i], s[i-1], s[i+2])
		}
	}
	return out
}

// expandQuadStrip converts stride-4 quads (a,b,c,d) into the triangle
// pairs (a,b,c) and (a,c,d).
func expandQuadStrip(q []uint16) ([]uint16, error) {
	if len(q)%4 != 0 {
		return nil, decodeErr(ErrTruncatedPrimitive, CodeNullOrInvalidInput,
			"quad strip of %d indices is not a multiple of 4", len(q))
	}
	out := make([]uint16, 0, len(q)/4*6)
	for i := 0; i+3 < len(q); i += 4 {
		a, b, c, d := q[i], q[i+1], q[i+2], q[i+3]
		out = append(out, a, b, c, a, c, d)
	}
	return out, nil
}

// primStream is a cursor over the 16-bit little-endian tokens of a Prim
// payload.
type primStream struct {
	data []byte
	off  int
}

func (s *primStream) remaining() int { return (len(s.data) - s.off) / 2 }

func (s *primStream) next() (uint16, error) {
	v, err := ReadU16LE(s.data, s.off)
	if err != nil {
		return 0, decodeErr(ErrTruncatedPrimitive, CodeNullOrInvalidInput,
			"primitive stream ends at byte %d", s.off)
	}
	s.off += 2
	return v, nil
}

func (s *primStream) take(n int) ([]uint16, error) {
	if s.remaining() < n {
		return nil, decodeErr(ErrTruncatedPrimitive, CodeNullOrInvalidInput,
			"need %d tokens, %d left", n, s.remaining())
	}
	out := make([]uint16, n)
	for i := range out {
		out[i], _ = ReadU16LE(s.data, s.off)
		s.off += 2
	}
	return out, nil
}

// decodePrim interprets a Prim chunk payload. Each primitive is a type
// token, a count token, and count index tokens; ComplexPrimitive carries
// its fixed 10 data elements with no count. EndMarker stops processing,
// PrimListTerminator separates lists.
func (d *Decoder) decodePrim(payload []byte) error {
	s := &primStream{data: payload}

	for s.remaining() > 0 {
		tok, err := s.next()
		if err != nil {
			return err
		}
		if tok == EndMarker {
			break
		}
		if tok == PrimListTerminator {
			continue
		}

		kind := PrimitiveKind(tok)
		if !kind.Known() {
			return decodeErr(ErrUnsupportedPrimitive, CodeNullOrInvalidInput,
				"type token %d", tok)
		}
		kind = kind.Canonical()
		d.primFlags = kind.FlagWord()

		if kind == ComplexPrimitive {
			data, err := s.take(complexElementCount)
			if err != nil {
				return err
			}
			if err := d.emitPrimitive(kind, nil, data); err != nil {
				return err
			}
			continue
		}

		count, err := s.next()
		if err != nil {
			return err
		}
		indices, err := s.take(int(count))
		if err != nil {
			return err
		}

		record := indices
		var tris []uint16
		switch kind {
		case TriangleStrip:
			tris = expandTriangleStrip(indices)
			record = tris
		case TriangleList:
			if len(indices)%3 != 0 {
				return decodeErr(ErrTruncatedPrimitive, CodeNullOrInvalidInput,
					"triangle list of %d indices is not a multiple of 3", len(indices))
			}
			tris = indices
		case QuadStrip:
			if tris, err = expandQuadStrip(indices); err != nil {
				return err
			}
			record = tris
		case PointSprite, LineStrip:
			// Degenerate kinds pass through without triangle expansion.
		}

		d.shape.PrimitiveBuffer = append(d.shape.PrimitiveBuffer, tris...)
		if err := d.emitPrimitive(kind, record, nil); err != nil {
			return err
		}
	}

	d.shape.Flags |= FlagPrimProcessed
	return nil
}

// emitPrimitive registers the primitive's surface and records it for the
// export view. Complex primitives carry raw data words instead of
// indices.
func (d *Decoder) emitPrimitive(kind PrimitiveKind, indices []uint16, data []uint16) error {
	id, err := d.surfaces.GetOrCreate(kind, d.shape.TextureID, 0, d.primFlags)
	if err != nil {
		return err
	}
	surf := d.surfaces.Surface(id)
	surf.PrimitiveCount++
	surf.Indices = append(surf.Indices, indices...)

	prim := Primitive{
		Kind:      kind,
		TextureID: d.shape.TextureID,
		SurfaceID: id,
	}
	if indices != nil {
		prim.Indices = make([]uint32, len(indices))
		for i, v := range indices {
			prim.Indices[i] = uint32(v)
		}
	}
	if data != nil {
		prim.Data = make([]uint32, len(data))
		for i, v := range data {
			prim.Data[i] = uint32(v)
		}
	}
	d.shape.Primitives = append(d.shape.Primitives, prim)
	return nil
}

package gm3

import (
	"math"

	"github.com/chewxy/math32"
)

// ShapeFlags is the shape-wide decode flag bitset.
type ShapeFlags uint32

// Shape flag bits.
const (
	FlagPrimProcessed ShapeFlags = 1 << 2
	FlagLineProcessed ShapeFlags = 1 << 3
	FlagAnimated      ShapeFlags = 1 << 7
)

// Primitive is one decoded primitive for the export view. From Prim
// chunks, triangle-bearing kinds carry triangle-list indices; PointSprite
// and LineStrip carry their raw index run; ComplexPrimitive carries its
// data words instead. Primitives from Line chunks carry their 18-word
// record in Data and no indices.
type Primitive struct {
	Kind      PrimitiveKind
	Indices   []uint32
	Data      []uint32
	TextureID int16
	Flags     uint16
	SurfaceID uint16
}

// BoundingBox is the axis-aligned extent of the decoded vertices.
type BoundingBox struct {
	Min [3]float32
	Max [3]float32
}

// Shape is the decoder's output.
type Shape struct {
	// VertexBuffer holds VertexStride floats per vertex plus one trailing
	// terminator float. It is nil until a vertex chunk is decoded.
	VertexBuffer []float32
	VertexCount  int

	// PrimitiveBuffer holds triangle-list indices into VertexBuffer after
	// topology expansion.
	PrimitiveBuffer []uint16

	Primitives []Primitive
	Surfaces   []*Surface
	Animation  *Animation

	Flags     ShapeFlags
	TextureID int16

	TextureNames []string
	Bounds       *BoundingBox
}

// newShape returns the empty shape a decode session populates.
func newShape() *Shape {
	return &Shape{TextureID: -1}
}

// Stride is the per-vertex float lane count.
func (s *Shape) Stride() int { return VertexStride }

// HasAnimation reports whether animation chunks were consumed.
func (s *Shape) HasAnimation() bool { return s.Animation != nil }

// AnimationFrameCount is the number of position frames attached, zero
// without animation.
func (s *Shape) AnimationFrameCount() int {
	if s.Animation == nil {
		return 0
	}
	return s.Animation.FrameCount()
}

// Position returns the xyz lanes of vertex i.
func (s *Shape) Position(i int) [3]float32 {
	base := i * VertexStride
	return [3]float32{s.VertexBuffer[base], s.VertexBuffer[base+1], s.VertexBuffer[base+2]}
}

// Positions copies the xyz lanes of every vertex.
func (s *Shape) Positions() [][3]float32 {
	out := make([][3]float32, s.VertexCount)
	for i := range out {
		out[i] = s.Position(i)
	}
	return out
}

// Normals returns per-vertex normals. The reserved lanes of the 3GM
// format never carry them, so this is nil; it exists for the exporter
// contract.
func (s *Shape) Normals() []float32 { return nil }

// TexCoords returns per-vertex texture coordinates, nil for this format.
func (s *Shape) TexCoords() []float32 { return nil }

// Colors returns per-vertex colors, nil for this format.
func (s *Shape) Colors() []float32 { return nil }

// anim returns the animation store, creating it on first use.
func (s *Shape) anim() *Animation {
	if s.Animation == nil {
		s.Animation = &Animation{}
	}
	return s.Animation
}

// computeBounds fills Bounds from the vertex positions. Shapes without
// vertices keep a nil Bounds.
func (s *Shape) computeBounds() {
	if s.VertexCount == 0 {
		return
	}
	first := s.Position(0)
	box := BoundingBox{Min: first, Max: first}
	for i := 1; i < s.VertexCount; i++ {
		p := s.Position(i)
		for c := 0; c < 3; c++ {
			box.Min[c] = math32.Min(box.Min[c], p[c])
			box.Max[c] = math32.Max(box.Max[c], p[c])
		}
	}
	s.Bounds = &box
}

// Validate enforces the post-decode invariants: vertex buffer length and
// terminator, primitive indices in range, all surfaces active with
// primitives attached.
func (s *Shape) Validate() error {
	if s.VertexBuffer == nil {
		if s.VertexCount != 0 {
			return decodeErr(ErrShapeInvariant, 0, "vertex count %d with no vertex buffer", s.VertexCount)
		}
	} else {
		want := s.VertexCount*VertexStride + 1
		if len(s.VertexBuffer) != want {
			return decodeErr(ErrShapeInvariant, 0,
				"vertex buffer length %d, want %d", len(s.VertexBuffer), want)
		}
		tail := math.Float32bits(s.VertexBuffer[len(s.VertexBuffer)-1])
		if tail != VertexTerminator {
			return decodeErr(ErrShapeInvariant, 0,
				"vertex terminator bits 0x%08X, want 0x%08X", tail, VertexTerminator)
		}
	}

	for i, idx := range s.PrimitiveBuffer {
		if int(idx) >= s.VertexCount {
			return decodeErr(ErrShapeInvariant, 0,
				"primitive index %d at %d exceeds %d vertices", idx, i, s.VertexCount)
		}
	}

	for _, surf := range s.Surfaces {
		if !surf.Active() {
			return decodeErr(ErrShapeInvariant, 0, "inactive surface registered")
		}
		if surf.PrimitiveCount == 0 {
			return decodeErr(ErrShapeInvariant, 0, "surface without primitives")
		}
	}
	return nil
}

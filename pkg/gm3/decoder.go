package gm3

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Limits bound the surface table of a decode session. Exceeding either is
// a reported error, never silent truncation.
type Limits struct {
	MaxSurfaces int
	MaxTextures int
}

// DefaultLimits returns the engine's capacity defaults.
func DefaultLimits() Limits {
	return Limits{MaxSurfaces: 2000, MaxTextures: 1000}
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger attaches a logger for decode diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(d *Decoder) { d.log = log }
}

// WithLimits overrides the surface-table capacity bounds.
func WithLimits(l Limits) Option {
	return func(d *Decoder) { d.limits = l }
}

// Decoder decodes 3GM buffers. Each Decode call is an isolated session:
// the shape, surface table and primitive-flag register are created for
// the call and released with it. A Decoder must not be used from multiple
// goroutines concurrently.
type Decoder struct {
	log    *zap.Logger
	limits Limits

	// Session state, valid during one Decode call.
	shape     *Shape
	surfaces  *SurfaceTable
	primFlags uint32
}

// NewDecoder creates a Decoder with the given options.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		log:    zap.NewNop(),
		limits: DefaultLimits(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode decodes a complete 3GM buffer with default options.
func Decode(data []byte) (*Shape, error) {
	return NewDecoder().Decode(data)
}

// chunkHandlers maps each decodable chunk kind to its routine. End is
// handled by the scanner; unknown kinds are skipped.
var chunkHandlers = map[ChunkKind]func(*Decoder, []byte) error{
	ChunkDot2: (*Decoder).decodeDot2,
	ChunkFDot: (*Decoder).decodeFDot,
	ChunkPrim: (*Decoder).decodePrim,
	ChunkLine: (*Decoder).decodeLine,
	ChunkSoPF: (*Decoder).decodeSoPF,
	ChunkFPos: (*Decoder).decodeFPos,
	ChunkTxNm: (*Decoder).decodeTxNm,
}

// Decode runs one decode session over data and returns the populated
// shape. The first chunk error aborts the decode; partial state is
// discarded.
func (d *Decoder) Decode(data []byte) (*Shape, error) {
	session := uuid.NewString()
	log := d.log.With(zap.String("session", session), zap.Int("bytes", len(data)))

	d.shape = newShape()
	d.surfaces = NewSurfaceTable(d.limits.MaxTextures, d.limits.MaxSurfaces)
	d.primFlags = 0
	defer func() {
		d.shape = nil
		d.surfaces = nil
	}()

	header, err := DetectHeader(data)
	if err != nil {
		return nil, err
	}
	log.Debug("header detected",
		zap.Stringer("type", header.Type),
		zap.Uint32("version", header.Version),
		zap.Int("chunk_offset", header.ChunkOffset))

	headers, err := ScanChunks(data, header.ChunkOffset)
	if err != nil {
		return nil, err
	}

	shape := d.shape
	for _, h := range headers {
		if h.Kind == ChunkEnd {
			break
		}
		handler, ok := chunkHandlers[h.Kind]
		if !ok {
			log.Debug("skipping unknown chunk",
				zap.Stringer("kind", h.Kind), zap.Uint32("size", h.Size))
			continue
		}
		if err := handler(d, ChunkData(data, h)); err != nil {
			return nil, chunkErr(err, h.Kind.String(), h.Offset)
		}
	}

	for _, surf := range d.surfaces.Allocated() {
		shape.Surfaces = append(shape.Surfaces, surf)
	}
	shape.computeBounds()

	if err := shape.Validate(); err != nil {
		return nil, err
	}
	log.Debug("decode complete",
		zap.Int("vertices", shape.VertexCount),
		zap.Int("triangle_indices", len(shape.PrimitiveBuffer)),
		zap.Int("surfaces", len(shape.Surfaces)),
		zap.Bool("animated", shape.HasAnimation()))
	return shape, nil
}

func (d *Decoder) decodeDot2(payload []byte) error {
	buf, err := DecodePackedVertices(payload)
	if err != nil {
		return err
	}
	d.shape.VertexBuffer = buf
	d.shape.VertexCount = (len(buf) - 1) / VertexStride
	return nil
}

func (d *Decoder) decodeFDot(payload []byte) error {
	buf, err := DecrunchDots(payload)
	if err != nil {
		return err
	}
	d.shape.VertexBuffer = buf
	d.shape.VertexCount = (len(buf) - 1) / VertexStride
	return nil
}

func (d *Decoder) decodeSoPF(payload []byte) error {
	chunk, err := ParseSoPF(payload)
	if err != nil {
		return err
	}
	anim := d.shape.anim()
	anim.SoPF = append(anim.SoPF, chunk)
	d.shape.Flags |= FlagAnimated
	return nil
}

func (d *Decoder) decodeFPos(payload []byte) error {
	chunk, err := ParseFPos(payload)
	if err != nil {
		return err
	}
	anim := d.shape.anim()
	anim.FPos = append(anim.FPos, chunk)
	d.shape.Flags |= FlagAnimated
	return nil
}

package gm3

// Line chunks encode surfaces directly instead of feeding triangles. The
// token stream is big-endian; the decoder rewrites it into a 32-bit work
// buffer over four phases and emits a surface per special primitive.

// lineScratchSize is the word count of the primitive scratch record.
const lineScratchSize = 18

// Work-buffer sentinels.
const (
	lineRunSentinel   uint32 = 0xFFFFFFFF // closes a line-data run
	lineFinalSentinel uint32 = 0xFFFFFFFE // closes the work buffer
)

// lineState carries the decode state across the four phases.
type lineState struct {
	data    []byte
	off     int
	current uint16 // last primitive-type token read

	out     []uint32 // work buffer
	scratch [lineScratchSize]uint32

	pending []lineConversion
}

// lineConversion is a type rewrite recorded during phase 1 and formalized
// in phase 2.
type lineConversion struct {
	original  PrimitiveKind
	converted PrimitiveKind
}

func (s *lineState) tokensLeft() int { return (len(s.data) - s.off) / 2 }

// nextToken reads the next 16-bit token, big-endian.
func (s *lineState) nextToken() (uint16, error) {
	v, err := ReadU16LE(s.data, s.off)
	if err != nil {
		return 0, decodeErr(ErrTruncatedLine, CodeNullOrInvalidInput,
			"line stream ends at byte %d", s.off)
	}
	s.off += 2
	return Swap16(v), nil
}

// decodeLine runs the line pipeline over one Line chunk payload.
func (d *Decoder) decodeLine(payload []byte) error {
	s := &lineState{data: payload}

	tok, err := s.nextToken()
	if err != nil {
		return err
	}
	s.current = tok

	if err := d.linePhase1(s); err != nil {
		return err
	}
	linePhase2(s)
	if err := d.linePhase3(s); err != nil {
		return err
	}
	if err := d.linePhase4(s); err != nil {
		return err
	}

	s.out = append(s.out, lineFinalSentinel)
	d.shape.Flags |= FlagLineProcessed
	return nil
}

// linePhase1 reads segment records until the end marker. Each record is a
// type token, a count token, and count segments; segments are emitted
// into the work buffer. LineStrip and QuadStripInput records additionally
// produce a surface.
func (d *Decoder) linePhase1(s *lineState) error {
	for s.current != EndMarker {
		count, err := s.nextToken()
		if err != nil {
			return err
		}
		segStart := len(s.out)
		for i := 0; i < int(count); i++ {
			seg, err := s.nextToken()
			if err != nil {
				return err
			}
			s.out = append(s.out, uint32(seg))
		}

		kind := PrimitiveKind(s.current)
		if kind == LineStrip || kind == LineStripAlt || kind == QuadStripInput {
			if err := d.lineSpecial(s, kind, uint32(count), segStart); err != nil {
				return err
			}
		}

		if s.current, err = s.nextToken(); err != nil {
			return err
		}
	}
	return nil
}

// lineSpecial extracts the record into the scratch buffer, queues the type
// conversion for phase 2 and emits a surface under the converted type.
// Unlike the Prim path, both LineStrip and LineStripAlt convert to
// PointSprite here; QuadStripInput converts to QuadStrip.
func (d *Decoder) lineSpecial(s *lineState, kind PrimitiveKind, count uint32, segStart int) error {
	for i := range s.scratch {
		s.scratch[i] = 0
	}
	s.scratch[0] = uint32(kind)
	s.scratch[1] = count
	for i := 0; i < 3 && segStart+i < len(s.out); i++ {
		s.scratch[2+i] = s.out[segStart+i]
	}

	converted := kind.Canonical()
	if kind == LineStrip {
		converted = PointSprite
	}
	s.pending = append(s.pending, lineConversion{original: kind, converted: converted})
	return d.emitLineSurface(converted, uint16(s.scratch[5]&0xFFFF), s.scratch)
}

// linePhase2 formalizes the rewrites: the scratch record's type slot takes
// the canonical value and its flag slot is cleared.
func linePhase2(s *lineState) {
	for _, conv := range s.pending {
		s.scratch[0] = uint32(conv.converted)
		s.scratch[5] = 0
	}
}

// linePhase3 copies the line-data run into the work buffer until the
// terminator, then closes the run with the 32-bit sentinel.
func (d *Decoder) linePhase3(s *lineState) error {
	tok, err := s.nextToken()
	if err != nil {
		return err
	}
	for tok != LineDataTerminator {
		s.out = append(s.out, uint32(tok))
		if tok, err = s.nextToken(); err != nil {
			return err
		}
	}
	s.out = append(s.out, lineRunSentinel)
	return nil
}

// linePhase4 materializes a complex primitive when the stream continues
// with the complex marker: an 18-word record is assembled from the first
// 13 work-buffer words under a fixed permutation and emitted as a
// surface.
func (d *Decoder) linePhase4(s *lineState) error {
	if s.tokensLeft() == 0 {
		return nil
	}
	tok, err := s.nextToken()
	if err != nil {
		return err
	}
	s.current = tok
	if tok != ComplexLineMarker {
		return nil
	}
	if len(s.out) < 13 {
		return decodeErr(ErrTruncatedLine, CodeNullOrInvalidInput,
			"complex materialization needs 13 work words, have %d", len(s.out))
	}

	var rec [lineScratchSize]uint32
	rec[0] = uint32(ComplexPrimitive)
	rec[3] = s.out[2]
	rec[4] = s.out[3]
	rec[9] = s.out[4]
	rec[6] = s.out[10]
	rec[12] = s.out[5]
	rec[7] = s.out[11]
	rec[8] = s.out[12]
	rec[10] = s.out[6]
	rec[13] = s.out[7]
	rec[11] = s.out[8]
	rec[14] = s.out[9]

	return d.emitLineSurface(ComplexPrimitive, uint16(rec[5]&0xFFFF), rec)
}

// emitLineSurface registers a surface for a line-path primitive record.
// Line surfaces bind to texture slot 0.
func (d *Decoder) emitLineSurface(kind PrimitiveKind, flags uint16, record [lineScratchSize]uint32) error {
	d.primFlags = kind.FlagWord()

	id, err := d.surfaces.GetOrCreate(kind, 0, flags, d.primFlags)
	if err != nil {
		return err
	}
	surf := d.surfaces.Surface(id)
	surf.PrimitiveCount++
	surf.PrimitiveData = append(surf.PrimitiveData, record[:]...)

	d.shape.Primitives = append(d.shape.Primitives, Primitive{
		Kind:      kind,
		TextureID: 0,
		Flags:     flags,
		SurfaceID: id,
		Data:      append([]uint32(nil), record[:]...),
	})
	return nil
}

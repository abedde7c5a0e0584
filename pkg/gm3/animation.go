package gm3

import "math"

// SoPFChunk is a parsed animation property frame.
type SoPFChunk struct {
	ShapeID       uint32
	PropertyCount uint32
	TimeStamp     float32
	Data          []byte
}

// FPosChunk is a parsed animation position frame.
type FPosChunk struct {
	FrameCount uint32
	StartTime  float32
	EndTime    float32
	Positions  []float32
}

// Batch is one animation batch record.
type Batch struct {
	BatchID        uint32
	CurrentTime    float32
	TargetTime     float32
	KeyframeCount  uint32
	KeyframeOffset uint32
	// ChildBatch links to a nested batch as a 1-based index; 0 means no
	// child.
	ChildBatch     uint32
	RenderData     uint32
	IsActive       bool
	RequiresUpdate bool
}

// Keyframe is one entry in the shared keyframe pool. Keyframes of a batch
// occupy a contiguous window and are sorted by time ascending.
type Keyframe struct {
	Time    float32
	BatchID uint32
}

// Animation owns the animation data attached to a shape.
type Animation struct {
	SoPF []SoPFChunk
	FPos []FPosChunk

	Batches    []Batch
	Keyframes  []Keyframe
	GlobalTime float32
}

// FrameCount sums the position frames of all FPos chunks.
func (a *Animation) FrameCount() int {
	n := 0
	for _, f := range a.FPos {
		n += int(f.FrameCount)
	}
	return n
}

// ParseSoPF decodes a soPF payload: four 32-bit header fields then
// data_size opaque property bytes.
func ParseSoPF(payload []byte) (SoPFChunk, error) {
	if len(payload) < 16 {
		return SoPFChunk{}, decodeErr(ErrInvalidAnimation, CodeInvalidAnimation,
			"soPF payload of %d bytes is shorter than the 16-byte header", len(payload))
	}

	shapeID, _ := ReadU32LE(payload, 0)
	propertyCount, _ := ReadU32LE(payload, 4)
	stampBits, _ := ReadU32LE(payload, 8)
	dataSize, _ := ReadU32LE(payload, 12)

	if 16+int(dataSize) > len(payload) {
		return SoPFChunk{}, decodeErr(ErrInvalidAnimation, CodeInvalidAnimation,
			"soPF data size %d overruns %d-byte payload", dataSize, len(payload))
	}

	return SoPFChunk{
		ShapeID:       shapeID,
		PropertyCount: propertyCount,
		TimeStamp:     math.Float32frombits(stampBits),
		Data:          append([]byte(nil), payload[16:16+dataSize]...),
	}, nil
}

// ParseFPos decodes an FPos payload: four header fields then frame_count
// little-endian floats. position_data_size must equal frame_count*4.
func ParseFPos(payload []byte) (FPosChunk, error) {
	if len(payload) < 16 {
		return FPosChunk{}, decodeErr(ErrInvalidAnimation, CodeInvalidAnimation,
			"FPos payload of %d bytes is shorter than the 16-byte header", len(payload))
	}

	frameCount, _ := ReadU32LE(payload, 0)
	startBits, _ := ReadU32LE(payload, 4)
	endBits, _ := ReadU32LE(payload, 8)
	dataSize, _ := ReadU32LE(payload, 12)

	if dataSize != frameCount*4 {
		return FPosChunk{}, decodeErr(ErrFPosSizeMismatch, CodeInvalidDynamicData,
			"position data size %d, frame count %d", dataSize, frameCount)
	}
	if 16+int(dataSize) > len(payload) {
		return FPosChunk{}, decodeErr(ErrInvalidAnimation, CodeInvalidAnimation,
			"FPos data size %d overruns %d-byte payload", dataSize, len(payload))
	}

	positions := make([]float32, frameCount)
	for i := range positions {
		bits, _ := ReadU32LE(payload, 16+4*i)
		positions[i] = math.Float32frombits(bits)
	}

	return FPosChunk{
		FrameCount: frameCount,
		StartTime:  math.Float32frombits(startBits),
		EndTime:    math.Float32frombits(endBits),
		Positions:  positions,
	}, nil
}

// SetBatchTime sets a batch's current time. batchIndex -1 targets the
// global clock; with recursive it propagates into every batch and each
// batch's child chain.
func (a *Animation) SetBatchTime(batchIndex int, time float32, recursive bool) error {
	if batchIndex == -1 {
		a.GlobalTime = time
		if recursive {
			for i := range a.Batches {
				a.Batches[i].CurrentTime = time
				if a.Batches[i].ChildBatch != 0 {
					a.setChildTime(a.Batches[i].ChildBatch, time, make(map[uint32]bool))
				}
			}
		}
		return nil
	}

	if batchIndex < 0 || batchIndex >= len(a.Batches) {
		return decodeErr(ErrInvalidDynamicData, CodeInvalidDynamicData,
			"batch index %d of %d batches", batchIndex, len(a.Batches))
	}
	a.Batches[batchIndex].CurrentTime = time
	if recursive && a.Batches[batchIndex].ChildBatch != 0 {
		a.setChildTime(a.Batches[batchIndex].ChildBatch, time, make(map[uint32]bool))
	}
	return nil
}

// setChildTime follows 1-based child links, guarding against cycles.
func (a *Animation) setChildTime(child uint32, time float32, seen map[uint32]bool) {
	for child != 0 && !seen[child] {
		seen[child] = true
		idx := int(child) - 1
		if idx < 0 || idx >= len(a.Batches) {
			return
		}
		a.Batches[idx].CurrentTime = time
		child = a.Batches[idx].ChildBatch
	}
}

// Interpolation is the result of locating a batch's keyframe pair.
type Interpolation struct {
	FromBatch uint32
	ToBatch   uint32
	Factor    float32
	Static    bool
}

// InterpolateBatchKeyframe finds the keyframe pair bracketing the batch's
// target time and the interpolation factor between them. A batch without
// keyframes is static. The global clock must not be past the target.
func (a *Animation) InterpolateBatchKeyframe(batchIndex int) (Interpolation, error) {
	if batchIndex < 0 || batchIndex >= len(a.Batches) {
		return Interpolation{}, decodeErr(ErrInvalidDynamicData, CodeInvalidDynamicData,
			"batch index %d of %d batches", batchIndex, len(a.Batches))
	}
	batch := &a.Batches[batchIndex]

	if a.GlobalTime > batch.TargetTime {
		return Interpolation{}, decodeErr(ErrTimeBeyondTarget, CodeTimeBeyondTarget,
			"global time %g past target %g", a.GlobalTime, batch.TargetTime)
	}

	if batch.KeyframeCount == 0 {
		return Interpolation{
			FromBatch: uint32(batchIndex),
			ToBatch:   uint32(batchIndex),
			Static:    true,
		}, nil
	}

	lo := int(batch.KeyframeOffset)
	hi := lo + int(batch.KeyframeCount)
	if hi > len(a.Keyframes) {
		return Interpolation{}, decodeErr(ErrInvalidAnimation, CodeInvalidAnimation,
			"keyframe window [%d, %d) of %d keyframes", lo, hi, len(a.Keyframes))
	}

	target := batch.TargetTime
	from, to := lo, hi-1
	for i := lo; i+1 < hi; i++ {
		if a.Keyframes[i].Time <= target && target < a.Keyframes[i+1].Time {
			from, to = i, i+1
			break
		}
	}

	kf, kt := a.Keyframes[from], a.Keyframes[to]
	if kf.Time == kt.Time {
		return Interpolation{FromBatch: kf.BatchID, ToBatch: kf.BatchID, Static: true}, nil
	}
	return Interpolation{
		FromBatch: kf.BatchID,
		ToBatch:   kt.BatchID,
		Factor:    (target - kf.Time) / (kt.Time - kf.Time),
	}, nil
}

package gm3

import "math"

// dot2ParamSize is the compression-parameter block skipped at the start of
// a Dot2 payload; fdotParamSize the same for FDot.
const (
	dot2ParamSize = 8
	fdotParamSize = 24

	packedVertexSize   = 12 // three big-endian 32-bit words
	crunchedVertexSize = 6  // three 16-bit components
)

// terminatorFloat is the sentinel appended after the last vertex record.
func terminatorFloat() float32 {
	return math.Float32frombits(VertexTerminator)
}

// DecodePackedVertices decodes a Dot2 payload: an 8-byte parameter block
// followed by one packed 12-byte triple per vertex. The result holds
// VertexStride floats per vertex plus the trailing terminator.
func DecodePackedVertices(payload []byte) ([]float32, error) {
	if payload == nil {
		return nil, decodeErr(ErrVertexPayload, CodeNullOrInvalidInput, "nil Dot2 payload")
	}
	if len(payload) < dot2ParamSize || (len(payload)-dot2ParamSize)%packedVertexSize != 0 {
		return nil, decodeErr(ErrVertexPayload, CodeNullOrInvalidInput,
			"Dot2 payload of %d bytes is not 8 + 12*N", len(payload))
	}
	return decodePackedTriples(payload[dot2ParamSize:])
}

// DecodePackedVertices3Component decodes the sequential packed variant:
// no parameter block, 12 bytes per vertex.
func DecodePackedVertices3Component(payload []byte) ([]float32, error) {
	if payload == nil {
		return nil, decodeErr(ErrVertexPayload, CodeNullOrInvalidInput, "nil packed payload")
	}
	if len(payload)%packedVertexSize != 0 {
		return nil, decodeErr(ErrVertexPayload, CodeNullOrInvalidInput,
			"packed payload of %d bytes is not 12*N", len(payload))
	}
	return decodePackedTriples(payload)
}

// decodePackedTriples converts big-endian packed coordinate words into the
// 8-wide float layout shared by all codecs.
func decodePackedTriples(data []byte) ([]float32, error) {
	n := len(data) / packedVertexSize
	out := make([]float32, n*VertexStride+1)

	for i := 0; i < n; i++ {
		in := i * packedVertexSize
		q := i * VertexStride
		for c := 0; c < 3; c++ {
			w, _ := ReadU32LE(data, in+4*c)
			out[q+c] = float32(ComplexSwap32(w))
		}
	}
	out[n*VertexStride] = terminatorFloat()
	return out, nil
}

// DecrunchDots decodes an FDot payload: a 24-byte parameter block followed
// by three 16-bit components per vertex. The components are widened into
// the first three lanes of each 8-wide record; the remaining lanes stay
// zero.
//
// TODO: recover the scale transform the parameter block controls once a
// real FDot-bearing file is available; until then the components are used
// as-is.
func DecrunchDots(payload []byte) ([]float32, error) {
	if payload == nil {
		return nil, decodeErr(ErrVertexPayload, CodeNullOrInvalidInput, "nil FDot payload")
	}
	if len(payload) < fdotParamSize || (len(payload)-fdotParamSize)%crunchedVertexSize != 0 {
		return nil, decodeErr(ErrVertexPayload, CodeNullOrInvalidInput,
			"FDot payload of %d bytes is not 24 + 6*N", len(payload))
	}

	data := payload[fdotParamSize:]
	n := len(data) / crunchedVertexSize
	out := make([]float32, n*VertexStride+1)

	for i := 0; i < n; i++ {
		in := i * crunchedVertexSize
		q := i * VertexStride
		for c := 0; c < 3; c++ {
			w, _ := ReadU16LE(data, in+2*c)
			out[q+c] = float32(int16(w))
		}
	}
	out[n*VertexStride] = terminatorFloat()
	return out, nil
}

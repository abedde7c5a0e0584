package gm3

import "bytes"

// decodeTxNm splits a TxNm payload into NUL-terminated texture names. The
// chunk is metadata only; decode never fails on it.
func (d *Decoder) decodeTxNm(payload []byte) error {
	for _, part := range bytes.Split(payload, []byte{0}) {
		if len(part) == 0 {
			continue
		}
		d.shape.TextureNames = append(d.shape.TextureNames, string(part))
	}
	return nil
}

// Package gm3 decodes the legacy Clusterball 3GM binary model container
// into an in-memory shape suitable for export.
package gm3

// VertexTerminator is the bit pattern of the sentinel float appended after
// the last vertex record of every decoded vertex buffer (a quiet NaN).
const VertexTerminator uint32 = 0x7FC00000

// VertexStride is the number of float lanes per vertex. Lanes 0-2 hold
// x, y, z; lanes 3-7 are reserved and zero unless a codec writes them.
const VertexStride = 8

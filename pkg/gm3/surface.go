package gm3

// Surface status bits.
const (
	surfaceActive uint16 = 1 << 0
	surfaceAlpha  uint16 = 1 << 1
)

// MissingSurface is returned by Lookup when no surface matches.
const MissingSurface uint16 = 0xFFFF

// Surface is one render surface keyed by (primitive type, texture, flags).
type Surface struct {
	TextureID     int16
	PrimitiveType PrimitiveKind
	Flags         uint16
	status        uint16

	// Register value at creation time; its byte subfields classify the
	// primitive that produced the surface.
	PipelineFlags uint32

	Indices        []uint16
	PrimitiveData  []uint32
	VertexOffset   int
	IndexOffset    int
	PrimitiveCount int
}

// Active reports whether the surface slot is allocated.
func (s *Surface) Active() bool { return s.status&surfaceActive != 0 }

// Alpha reports whether the surface renders with alpha.
func (s *Surface) Alpha() bool { return s.status&surfaceAlpha != 0 }

// surfaceHashEntry links one surface into its texture's collision chain.
type surfaceHashEntry struct {
	searchKey uint32
	surfaceID uint16
	nextEntry int32 // -1 terminates the chain
}

// searchKey combines primitive type and flags into the chain search key.
func searchKey(prim PrimitiveKind, flags uint16) uint32 {
	return uint32(prim)<<16 | uint32(flags)
}

// SurfaceTable deduplicates surfaces across one decode session. Chains
// hang off a texture-indexed head table; index texture+1 maps the -1
// "no texture" sentinel into slot 0. Surface id 0 is reserved.
type SurfaceTable struct {
	maxTextures int
	maxSurfaces int

	first    []int32
	entries  []surfaceHashEntry
	surfaces []Surface

	nextSurface uint16
	nextEntry   int
}

// NewSurfaceTable creates a table bounded by maxTextures and maxSurfaces.
func NewSurfaceTable(maxTextures, maxSurfaces int) *SurfaceTable {
	t := &SurfaceTable{
		maxTextures: maxTextures,
		maxSurfaces: maxSurfaces,
		first:       make([]int32, maxTextures+1),
		entries:     make([]surfaceHashEntry, 0, maxSurfaces*2),
		surfaces:    make([]Surface, maxSurfaces),
		nextSurface: 1,
	}
	for i := range t.first {
		t.first[i] = -1
	}
	for i := range t.surfaces {
		t.surfaces[i].TextureID = -1
	}
	return t
}

// Lookup finds an existing surface id without mutating the table. It
// returns MissingSurface when the key has no surface.
func (t *SurfaceTable) Lookup(prim PrimitiveKind, texture int16, flags uint16) (uint16, error) {
	if int(texture) >= t.maxTextures || texture < -1 {
		return MissingSurface, decodeErr(ErrInvalidTexture, CodeInvalidTexture, "texture id %d", texture)
	}

	entry := t.first[texture+1]
	key := searchKey(prim, flags)
	for entry != -1 {
		if t.entries[entry].searchKey == key {
			return t.entries[entry].surfaceID, nil
		}
		entry = t.entries[entry].nextEntry
	}
	return MissingSurface, nil
}

// GetOrCreate returns the surface id for the key, allocating and chaining
// a new surface when none exists. The chain is LIFO, so the most recent
// entry is found first. pipelineFlags is the primitive-flag register
// value recorded on newly created surfaces.
func (t *SurfaceTable) GetOrCreate(prim PrimitiveKind, texture int16, flags uint16, pipelineFlags uint32) (uint16, error) {
	id, err := t.Lookup(prim, texture, flags)
	if err != nil {
		return 0, err
	}
	if id != MissingSurface {
		if err := t.UpdateAlpha(id); err != nil {
			return 0, err
		}
		return id, nil
	}

	if int(t.nextSurface) >= t.maxSurfaces {
		return 0, decodeErr(ErrSurfaceLimit, CodeSurfaceLimit, "surface id %d", t.nextSurface)
	}
	id = t.nextSurface
	if t.surfaces[id].Active() {
		return 0, decodeErr(ErrSurfaceAllocConflict, CodeSurfaceAllocConflict, "surface id %d", id)
	}
	t.nextSurface++

	surf := &t.surfaces[id]
	surf.status = surfaceActive
	surf.PrimitiveType = prim
	surf.TextureID = texture
	surf.Flags = flags
	surf.PipelineFlags = pipelineFlags

	entryIdx := int32(len(t.entries))
	t.entries = append(t.entries, surfaceHashEntry{
		searchKey: searchKey(prim, flags),
		surfaceID: id,
		nextEntry: t.first[texture+1],
	})
	t.first[texture+1] = entryIdx

	if err := t.UpdateAlpha(id); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateAlpha derives the surface's alpha bit from its primitive type.
// Triangle strips are the alpha-capable class.
func (t *SurfaceTable) UpdateAlpha(id uint16) error {
	if int(id) >= t.maxSurfaces || !t.surfaces[id].Active() {
		return decodeErr(ErrSurfaceNotAllocated, CodeSurfaceNotAllocated, "surface id %d", id)
	}
	if t.surfaces[id].PrimitiveType == TriangleStrip {
		t.surfaces[id].status |= surfaceAlpha
	}
	return nil
}

// Surface returns the surface record for an allocated id, or nil.
func (t *SurfaceTable) Surface(id uint16) *Surface {
	if id == 0 || int(id) >= t.maxSurfaces || !t.surfaces[id].Active() {
		return nil
	}
	return &t.surfaces[id]
}

// Count is the number of allocated surfaces.
func (t *SurfaceTable) Count() int { return int(t.nextSurface) - 1 }

// Allocated returns the allocated surfaces in creation order.
func (t *SurfaceTable) Allocated() []*Surface {
	out := make([]*Surface, 0, t.Count())
	for id := uint16(1); id < t.nextSurface; id++ {
		out = append(out, &t.surfaces[id])
	}
	return out
}

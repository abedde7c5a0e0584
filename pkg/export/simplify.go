package export

import (
	"github.com/fogleman/simplify"

	"github.com/Faultbox/clusterball-3gm/pkg/gm3"
)

// simplifyTriangles reduces the triangle soup to ratio of its original
// count and rebuilds an indexed mesh from the result.
func simplifyTriangles(positions [][3]float32, tris []uint32, ratio float64) ([][3]float32, []uint32) {
	triangles := make([]*simplify.Triangle, 0, len(tris)/3)
	for i := 0; i+2 < len(tris); i += 3 {
		a := toVector(positions[tris[i]])
		b := toVector(positions[tris[i+1]])
		c := toVector(positions[tris[i+2]])
		triangles = append(triangles, simplify.NewTriangle(a, b, c))
	}

	mesh := simplify.NewMesh(triangles).Simplify(ratio)

	outPositions := make([][3]float32, 0, len(mesh.Triangles)*3)
	outTris := make([]uint32, 0, len(mesh.Triangles)*3)
	seen := make(map[[3]float32]uint32)
	for _, t := range mesh.Triangles {
		for _, v := range []simplify.Vector{t.V1, t.V2, t.V3} {
			p := fromVector(v)
			idx, ok := seen[p]
			if !ok {
				idx = uint32(len(outPositions))
				seen[p] = idx
				outPositions = append(outPositions, p)
			}
			outTris = append(outTris, idx)
		}
	}
	return outPositions, outTris
}

func toVector(p [3]float32) simplify.Vector {
	return simplify.Vector{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}

func fromVector(v simplify.Vector) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// SimplifyShapeTriangles exposes simplification over a decoded shape for
// callers that post-process outside the OBJ path.
func SimplifyShapeTriangles(shape *gm3.Shape, ratio float64) ([][3]float32, []uint32) {
	return simplifyTriangles(shape.Positions(), triangleIndices(shape), ratio)
}

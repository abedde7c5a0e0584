package export

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/clusterball-3gm/pkg/gm3"
)

// WriteGLTF exports the shape's triangle geometry as a single-mesh glTF
// document.
func WriteGLTF(shape *gm3.Shape, path string) error {
	positions := shape.Positions()
	tris := triangleIndices(shape)
	if len(positions) == 0 || len(tris) == 0 {
		return errors.New("shape has no triangle geometry to export")
	}

	doc := gltf.NewDocument()
	posAccessor := modeler.WritePosition(doc, positions)
	idxAccessor := modeler.WriteIndices(doc, tris)

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "shape",
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(idxAccessor),
			Attributes: map[string]int{
				gltf.POSITION: posAccessor,
			},
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "shape", Mesh: gltf.Index(len(doc.Meshes) - 1)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)

	return errors.Wrap(gltf.Save(doc, path), "writing glTF file")
}

package geometry

// Plane builds a unit quad in the xy plane facing +z, centered on the origin.
//
// Returns:
//   - Geometry: a new static geometry
func Plane() Geometry {
	return NewGeometry(
		WithBuffer(BufferPositions, []float32{
			-1, 1, 0,
			-1, -1, 0,
			1, 1, 0,
			1, -1, 0,
		}, 3),
		WithBuffer(BufferTexCoords, []float32{0, 0, 0, 1, 1, 0, 1, 1}, 2),
		WithBuffer(BufferNormals, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1}, 3),
		WithBuffer(BufferIndices, []float32{0, 1, 2, 1, 3, 2}, 1),
	)
}

// boxFaces lists each face as its normal and the two in-plane axes, ordered so the corners
// wind counter-clockwise when seen from outside.
var boxFaces = [6][3][3]float32{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
}

// Box builds a unit cube spanning [-1, 1] on every axis with per face normals.
//
// Returns:
//   - Geometry: a new static geometry
func Box() Geometry {
	var positions, texCoords, normals, indices []float32
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for f, face := range boxFaces {
		n, u, v := face[0], face[1], face[2]
		for _, c := range corners {
			for i := 0; i < 3; i++ {
				positions = append(positions, n[i]+c[0]*u[i]+c[1]*v[i])
			}
			normals = append(normals, n[0], n[1], n[2])
			texCoords = append(texCoords, (c[0]+1)/2, 1-(c[1]+1)/2)
		}
		base := float32(f * 4)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return NewGeometry(
		WithBuffer(BufferPositions, positions, 3),
		WithBuffer(BufferTexCoords, texCoords, 2),
		WithBuffer(BufferNormals, normals, 3),
		WithBuffer(BufferIndices, indices, 1),
	)
}

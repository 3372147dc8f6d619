// Package geometry builds the draw surfaces the renderer uploads to the GPU.
// All visual complexity lives in the fragment stage; the geometry exists to
// give it pixels to run on.
package geometry

// Mesh is a static vertex list in normalized device coordinates plus a
// triangle index list. Built once, uploaded once, immutable afterwards.
type Mesh struct {
	// Vertices holds interleaved x,y pairs.
	Vertices []float32
	Indices  []uint32
}

// IndexCount is the element count passed to the indexed draw call.
func (m Mesh) IndexCount() int {
	return len(m.Indices)
}

// VertexCount is the number of 2D positions in the mesh.
func (m Mesh) VertexCount() int {
	return len(m.Vertices) / 2
}

// FullScreenQuad returns a unit square spanning clip space, as two triangles.
func FullScreenQuad() Mesh {
	return Mesh{
		Vertices: []float32{
			-1.0, -1.0,
			1.0, -1.0,
			1.0, 1.0,
			-1.0, 1.0,
		},
		Indices: []uint32{
			0, 1, 2,
			0, 2, 3,
		},
	}
}

// SubdividedPlane returns a regular grid covering clip space with
// subdivisions cells per axis. Kept for vertex-level displacement effects;
// the gradient itself only ever draws the quad.
func SubdividedPlane(subdivisions int) Mesh {
	if subdivisions < 1 {
		subdivisions = 1
	}
	side := subdivisions + 1

	m := Mesh{
		Vertices: make([]float32, 0, side*side*2),
		Indices:  make([]uint32, 0, subdivisions*subdivisions*6),
	}

	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			m.Vertices = append(m.Vertices,
				-1.0+2.0*float32(x)/float32(subdivisions),
				-1.0+2.0*float32(y)/float32(subdivisions),
			)
		}
	}

	for y := 0; y < subdivisions; y++ {
		for x := 0; x < subdivisions; x++ {
			i := uint32(y*side + x)
			m.Indices = append(m.Indices,
				i, i+1, i+uint32(side)+1,
				i, i+uint32(side)+1, i+uint32(side),
			)
		}
	}
	return m
}

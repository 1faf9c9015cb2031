package glquad

import "slices"

// Attrib describes one vertex attribute inside a vertex buffer.
type Attrib struct {
	Index      uint32
	Components int32
	Type       DataType
	Normalized bool
	Offset     uintptr
}

// Layout describes how the bytes of a vertex buffer map to shader inputs.
type Layout struct {
	Stride  int32
	Attribs []Attrib
}

// Equal reports whether two layouts bind the same attributes the same way.
func (l Layout) Equal(other Layout) bool {
	return l.Stride == other.Stride && slices.Equal(l.Attribs, other.Attribs)
}

// PositionLayout is a single attribute at slot 0 of two tightly packed
// floats.
func PositionLayout() Layout {
	return Layout{
		Stride: int32(2 * Float32.Size()),
		Attribs: []Attrib{
			{Index: 0, Components: 2, Type: Float32, Offset: 0},
		},
	}
}

// Mesh is static indexed geometry.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
	Layout   Layout
}

// QuadMesh returns a square centered on the origin with the given half
// extent, as 4 vertices and 2 triangles wound 0-1-2, 2-3-0.
func QuadMesh(half float32) Mesh {
	corners := []Vec2{
		{-half, -half},
		{half, -half},
		{half, half},
		{-half, half},
	}
	vertices := make([]float32, 0, 2*len(corners))
	for _, c := range corners {
		vertices = append(vertices, c.X, c.Y)
	}
	return Mesh{
		Vertices: vertices,
		Indices:  []uint32{0, 1, 2, 2, 3, 0},
		Layout:   PositionLayout(),
	}
}

// VertexBytes returns the upload size of the vertex data.
func (m Mesh) VertexBytes() int {
	return len(m.Vertices) * Float32.Size()
}

// IndexBytes returns the upload size of the index data, sized by the index
// element type.
func (m Mesh) IndexBytes() int {
	return len(m.Indices) * Uint32.Size()
}

// Buffer is a GL buffer object and what was uploaded to it.
type Buffer struct {
	Handle uint32
	Target uint32 // ARRAY_BUFFER or ELEMENT_ARRAY_BUFFER
	Type   DataType
	Usage  Usage
	Size   int
	Count  int
	Layout Layout // vertex buffers only
}

// VertexArray is a GL vertex array object and the attribute layout it was
// configured with.
type VertexArray struct {
	Handle uint32
	Layout Layout
}

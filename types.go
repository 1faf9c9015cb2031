// Package glquad builds a shader program from source files, uploads one
// quad, and draws it each frame with an animated color uniform. Every GL call
// is checked against the driver's error queue.
//
// The package does not create windows or contexts. A host supplies a GL
// implementation (see backend/opengl) and calls the Harness hooks.
package glquad

// StageKind is the kind of a shader stage.
type StageKind uint8

const (
	VertexStage StageKind = iota
	FragmentStage
)

func (k StageKind) String() string {
	switch k {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// glType returns the GL shader type for the stage.
func (k StageKind) glType() uint32 {
	if k == FragmentStage {
		return FRAGMENT_SHADER
	}
	return VERTEX_SHADER
}

// Vec2 represents a 2D position.
type Vec2 struct {
	X, Y float32
}

// Color is an RGBA color with float components (0.0-1.0).
type Color struct {
	R, G, B, A float32
}

// DataType is the element type of buffer data or of a vertex attribute.
type DataType uint32

const (
	Float32 DataType = DataType(FLOAT)
	Uint32  DataType = DataType(UNSIGNED_INT)
	Uint16  DataType = DataType(UNSIGNED_SHORT)
	Uint8   DataType = DataType(UNSIGNED_BYTE)
)

// Size returns the size of one element in bytes.
func (t DataType) Size() int {
	switch t {
	case Float32, Uint32:
		return 4
	case Uint16:
		return 2
	case Uint8:
		return 1
	default:
		return 0
	}
}

// Usage is a buffer usage hint.
type Usage uint32

const (
	StaticDraw  Usage = Usage(STATIC_DRAW)
	DynamicDraw Usage = Usage(DYNAMIC_DRAW)
)

// clampf clamps a float32 value to a range.
func clampf(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

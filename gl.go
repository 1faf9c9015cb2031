package glquad

// OpenGL enum values used by the harness. They match the values of the
// OpenGL 3.3 core headers so a backend can pass them through unchanged.
const (
	NO_ERROR                      uint32 = 0
	INVALID_ENUM                  uint32 = 0x0500
	INVALID_VALUE                 uint32 = 0x0501
	INVALID_OPERATION             uint32 = 0x0502
	STACK_OVERFLOW                uint32 = 0x0503
	STACK_UNDERFLOW               uint32 = 0x0504
	OUT_OF_MEMORY                 uint32 = 0x0505
	INVALID_FRAMEBUFFER_OPERATION uint32 = 0x0506

	FALSE int32 = 0
	TRUE  int32 = 1

	VERSION uint32 = 0x1F02

	FRAGMENT_SHADER uint32 = 0x8B30
	VERTEX_SHADER   uint32 = 0x8B31
	COMPILE_STATUS  uint32 = 0x8B81
	LINK_STATUS     uint32 = 0x8B82
	VALIDATE_STATUS uint32 = 0x8B83
	INFO_LOG_LENGTH uint32 = 0x8B84

	ARRAY_BUFFER         uint32 = 0x8892
	ELEMENT_ARRAY_BUFFER uint32 = 0x8893
	STATIC_DRAW          uint32 = 0x88E4
	DYNAMIC_DRAW         uint32 = 0x88E8

	UNSIGNED_BYTE  uint32 = 0x1401
	UNSIGNED_SHORT uint32 = 0x1403
	UNSIGNED_INT   uint32 = 0x1405
	FLOAT          uint32 = 0x1406

	TRIANGLES        uint32 = 0x0004
	COLOR_BUFFER_BIT uint32 = 0x00004000

	RGBA uint32 = 0x1908
)

// GL is the function table of a current OpenGL context.
//
// The harness never looks up a context on its own. A backend (see
// backend/opengl) hands one in, which keeps every component testable without
// a live driver. Implementations are bound to the thread owning the context
// and are not safe for concurrent use.
type GL interface {
	GetError() uint32
	GetString(name uint32) string

	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader, pname uint32) int32
	// GetShaderInfoLog fills buf and returns the number of bytes written,
	// excluding the terminating NUL.
	GetShaderInfoLog(shader uint32, buf []byte) int32
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	ValidateProgram(program uint32)
	GetProgramiv(program, pname uint32) int32
	GetProgramInfoLog(program uint32, buf []byte) int32
	UseProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	Uniform4f(location int32, v0, v1, v2, v3 float32)
	DeleteProgram(program uint32)

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	GenBuffer() uint32
	BindBuffer(target, buffer uint32)
	// BufferData uploads size bytes of data, which is a slice of a fixed
	// size element type ([]float32, []uint32, []uint16 or []uint8).
	BufferData(target uint32, size int, data any, usage uint32)
	DeleteBuffer(buffer uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	EnableVertexAttribArray(index uint32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	DrawElements(mode uint32, count int32, xtype uint32, offset uintptr)
	// ReadPixels reads an RGBA, unsigned byte rectangle of the current read
	// buffer into buf, which must hold width*height*4 bytes.
	ReadPixels(x, y, width, height int32, buf []byte)
}

// errorName returns the symbolic name of a GL error code.
func errorName(code uint32) string {
	switch code {
	case NO_ERROR:
		return "NO_ERROR"
	case INVALID_ENUM:
		return "INVALID_ENUM"
	case INVALID_VALUE:
		return "INVALID_VALUE"
	case INVALID_OPERATION:
		return "INVALID_OPERATION"
	case STACK_OVERFLOW:
		return "STACK_OVERFLOW"
	case STACK_UNDERFLOW:
		return "STACK_UNDERFLOW"
	case OUT_OF_MEMORY:
		return "OUT_OF_MEMORY"
	case INVALID_FRAMEBUFFER_OPERATION:
		return "INVALID_FRAMEBUFFER_OPERATION"
	default:
		return "UNKNOWN"
	}
}

// Package opengl provides the OpenGL 3.3 core backend for glquad: a GL
// implementation over go-gl and a GLFW window acting as the host.
package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/go-theft-auto/glquad"
)

// Context implements glquad.GL on the context current on the calling
// thread. gl.Init must have run for that context (see Init).
type Context struct{}

var _ glquad.GL = Context{}

// Init loads the OpenGL function pointers. A context must be current.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("could not initialise OpenGL context: %w", err)
	}
	return nil
}

func (Context) GetError() uint32 {
	return gl.GetError()
}

func (Context) GetString(name uint32) string {
	p := gl.GetString(name)
	if p == nil {
		return ""
	}
	return gl.GoStr(p)
}

func (Context) CreateShader(xtype uint32) uint32 {
	return gl.CreateShader(xtype)
}

func (Context) ShaderSource(shader uint32, source string) {
	csource, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, csource, nil)
}

func (Context) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (Context) GetShaderiv(shader, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (Context) GetShaderInfoLog(shader uint32, buf []byte) int32 {
	if len(buf) == 0 {
		return 0
	}
	var n int32
	gl.GetShaderInfoLog(shader, int32(len(buf)), &n, &buf[0])
	return n
}

func (Context) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (Context) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (Context) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (Context) DetachShader(program, shader uint32) {
	gl.DetachShader(program, shader)
}

func (Context) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (Context) ValidateProgram(program uint32) {
	gl.ValidateProgram(program)
}

func (Context) GetProgramiv(program, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (Context) GetProgramInfoLog(program uint32, buf []byte) int32 {
	if len(buf) == 0 {
		return 0
	}
	var n int32
	gl.GetProgramInfoLog(program, int32(len(buf)), &n, &buf[0])
	return n
}

func (Context) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (Context) GetUniformLocation(program uint32, name string) int32 {
	cname, free := gl.Strs(name + "\x00")
	defer free()
	return gl.GetUniformLocation(program, *cname)
}

func (Context) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	gl.Uniform4f(location, v0, v1, v2, v3)
}

func (Context) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (Context) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (Context) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (Context) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (Context) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (Context) BindBuffer(target, buffer uint32) {
	gl.BindBuffer(target, buffer)
}

func (Context) BufferData(target uint32, size int, data any, usage uint32) {
	var ptr unsafe.Pointer
	if size > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(target, size, ptr, usage)
}

func (Context) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (Context) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, offset)
}

func (Context) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (Context) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (Context) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (Context) ReadPixels(x, y, width, height int32, buf []byte) {
	if len(buf) == 0 {
		return
	}
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(buf))
}

func (Context) Clear(mask uint32) {
	gl.Clear(mask)
}

func (Context) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	gl.DrawElementsWithOffset(mode, count, xtype, offset)
}

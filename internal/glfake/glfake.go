// Package glfake is an in-memory stand-in for an OpenGL 3.3 core context.
//
// It keeps object tables and an error queue like a driver would, performs a
// rough syntax check of GLSL text in CompileShader, resolves uniforms declared
// in the attached sources at link time and records every call. It is meant
// for tests of code written against glquad.GL.
package glfake

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/go-theft-auto/glquad"
)

// Version is what GetString(VERSION) reports.
const Version = "3.3.0 glfake"

// Call is one recorded GL call.
type Call struct {
	Name string
	Args []any
}

// Draw is one recorded DrawElements call.
type Draw struct {
	Mode    uint32
	Count   int32
	Type    uint32
	Offset  uintptr
	Program uint32
	VAO     uint32
	IBO     uint32
}

type shader struct {
	kind     uint32
	source   string
	compiled bool
	log      string
	deleted  bool
}

type program struct {
	attached  []uint32
	linked    bool
	validated bool
	log       string
	uniforms  map[string]int32
	values    map[int32][4]float32
	deleted   bool
}

// Buffer is the state of a buffer object.
type Buffer struct {
	Target  uint32
	Size    int
	Usage   uint32
	Data    any
	Deleted bool
}

// Attrib is a vertex attribute recorded in a vertex array.
type Attrib struct {
	Size       int32
	Type       uint32
	Normalized bool
	Stride     int32
	Offset     uintptr
	Buffer     uint32
	Enabled    bool
}

// VertexArray is the state of a vertex array object.
type VertexArray struct {
	Attribs map[uint32]*Attrib
	IBO     uint32
	Deleted bool
}

type fault struct {
	call string
	nth  int
	code uint32
}

// GL implements glquad.GL.
type GL struct {
	Calls []Call
	Draws []Draw

	errors  []uint32
	faults  []fault
	counter map[string]int
	next    uint32

	shaders  map[uint32]*shader
	programs map[uint32]*program
	buffers  map[uint32]*Buffer
	vaos     map[uint32]*VertexArray

	current    uint32
	vao        uint32
	bound      map[uint32]uint32
	clears     int
	clearColor [4]float32
	viewport   [4]int32
}

var _ glquad.GL = (*GL)(nil)

// New returns an empty context.
func New() *GL {
	return &GL{
		counter:  make(map[string]int),
		next:     1,
		shaders:  make(map[uint32]*shader),
		programs: make(map[uint32]*program),
		buffers:  make(map[uint32]*Buffer),
		vaos:     make(map[uint32]*VertexArray),
		bound:    make(map[uint32]uint32),
	}
}

// PushError appends code to the error queue as if an earlier call failed.
func (g *GL) PushError(code uint32) {
	g.errors = append(g.errors, code)
}

// FailOn makes the nth call (1-based) to the named method raise code. The
// call still runs; for Gen* methods it returns 0.
func (g *GL) FailOn(call string, nth int, code uint32) {
	g.faults = append(g.faults, fault{call: call, nth: nth, code: code})
}

// Count returns how often the named method was called.
func (g *GL) Count(name string) int {
	return g.counter[name]
}

// Names returns the names of all recorded calls, in order.
func (g *GL) Names() []string {
	names := make([]string, len(g.Calls))
	for i, c := range g.Calls {
		names[i] = c.Name
	}
	return names
}

// Buffer returns the state of a buffer object.
func (g *GL) Buffer(handle uint32) (Buffer, bool) {
	b, ok := g.buffers[handle]
	if !ok {
		return Buffer{}, false
	}
	return *b, true
}

// VertexArray returns the state of a vertex array object.
func (g *GL) VertexArray(handle uint32) (VertexArray, bool) {
	v, ok := g.vaos[handle]
	if !ok {
		return VertexArray{}, false
	}
	return *v, true
}

// UniformValue returns the last vec4 set at location in program.
func (g *GL) UniformValue(prog uint32, location int32) ([4]float32, bool) {
	p, ok := g.programs[prog]
	if !ok {
		return [4]float32{}, false
	}
	v, ok := p.values[location]
	return v, ok
}

// ShaderLive reports whether a shader object exists and was not deleted.
func (g *GL) ShaderLive(handle uint32) bool {
	s, ok := g.shaders[handle]
	return ok && !s.deleted
}

// ProgramLive reports whether a program object exists and was not deleted.
func (g *GL) ProgramLive(handle uint32) bool {
	p, ok := g.programs[handle]
	return ok && !p.deleted
}

// Live returns the number of objects that were created and not deleted.
func (g *GL) Live() int {
	n := 0
	for _, s := range g.shaders {
		if !s.deleted {
			n++
		}
	}
	for _, p := range g.programs {
		if !p.deleted {
			n++
		}
	}
	for _, b := range g.buffers {
		if !b.Deleted {
			n++
		}
	}
	for _, v := range g.vaos {
		if !v.Deleted {
			n++
		}
	}
	return n
}

// Clears returns the number of Clear calls.
func (g *GL) Clears() int {
	return g.clears
}

// record logs the call and reports whether an injected fault fired.
func (g *GL) record(name string, args ...any) bool {
	g.Calls = append(g.Calls, Call{Name: name, Args: args})
	g.counter[name]++
	for _, f := range g.faults {
		if f.call == name && f.nth == g.counter[name] {
			g.raise(f.code)
			return true
		}
	}
	return false
}

func (g *GL) raise(code uint32) {
	g.errors = append(g.errors, code)
}

func (g *GL) alloc() uint32 {
	h := g.next
	g.next++
	return h
}

func (g *GL) GetError() uint32 {
	if len(g.errors) == 0 {
		return glquad.NO_ERROR
	}
	code := g.errors[0]
	g.errors = g.errors[1:]
	return code
}

func (g *GL) GetString(name uint32) string {
	g.record("GetString", name)
	if name != glquad.VERSION {
		g.raise(glquad.INVALID_ENUM)
		return ""
	}
	return Version
}

func (g *GL) CreateShader(xtype uint32) uint32 {
	if g.record("CreateShader", xtype) {
		return 0
	}
	if xtype != glquad.VERTEX_SHADER && xtype != glquad.FRAGMENT_SHADER {
		g.raise(glquad.INVALID_ENUM)
		return 0
	}
	h := g.alloc()
	g.shaders[h] = &shader{kind: xtype}
	return h
}

func (g *GL) liveShader(h uint32) *shader {
	s, ok := g.shaders[h]
	if !ok || s.deleted {
		g.raise(glquad.INVALID_VALUE)
		return nil
	}
	return s
}

func (g *GL) ShaderSource(h uint32, source string) {
	if g.record("ShaderSource", h) {
		return
	}
	if s := g.liveShader(h); s != nil {
		s.source = source
	}
}

func (g *GL) CompileShader(h uint32) {
	if g.record("CompileShader", h) {
		return
	}
	s := g.liveShader(h)
	if s == nil {
		return
	}
	s.log = checkSyntax(s.source)
	s.compiled = s.log == ""
}

func (g *GL) GetShaderiv(h, pname uint32) int32 {
	if g.record("GetShaderiv", h, pname) {
		return 0
	}
	s := g.liveShader(h)
	if s == nil {
		return 0
	}
	switch pname {
	case glquad.COMPILE_STATUS:
		if s.compiled {
			return glquad.TRUE
		}
		return glquad.FALSE
	case glquad.INFO_LOG_LENGTH:
		if s.log == "" {
			return 0
		}
		return int32(len(s.log) + 1)
	default:
		g.raise(glquad.INVALID_ENUM)
		return 0
	}
}

func (g *GL) GetShaderInfoLog(h uint32, buf []byte) int32 {
	if g.record("GetShaderInfoLog", h, len(buf)) {
		return 0
	}
	s := g.liveShader(h)
	if s == nil {
		return 0
	}
	return copyLog(buf, s.log)
}

func (g *GL) DeleteShader(h uint32) {
	g.record("DeleteShader", h)
	if h == 0 {
		return
	}
	if s := g.liveShader(h); s != nil {
		s.deleted = true
	}
}

func (g *GL) CreateProgram() uint32 {
	if g.record("CreateProgram") {
		return 0
	}
	h := g.alloc()
	g.programs[h] = &program{values: make(map[int32][4]float32)}
	return h
}

func (g *GL) liveProgram(h uint32) *program {
	p, ok := g.programs[h]
	if !ok || p.deleted {
		g.raise(glquad.INVALID_VALUE)
		return nil
	}
	return p
}

func (g *GL) AttachShader(prog, h uint32) {
	if g.record("AttachShader", prog, h) {
		return
	}
	p := g.liveProgram(prog)
	if p == nil {
		return
	}
	if g.liveShader(h) == nil {
		return
	}
	if slices.Contains(p.attached, h) {
		g.raise(glquad.INVALID_OPERATION)
		return
	}
	p.attached = append(p.attached, h)
}

func (g *GL) DetachShader(prog, h uint32) {
	if g.record("DetachShader", prog, h) {
		return
	}
	p := g.liveProgram(prog)
	if p == nil {
		return
	}
	i := slices.Index(p.attached, h)
	if i < 0 {
		g.raise(glquad.INVALID_OPERATION)
		return
	}
	p.attached = slices.Delete(p.attached, i, i+1)
}

var (
	uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)\s*;`)
	inDecl      = regexp.MustCompile(`(?m)^\s*in\s+\w+\s+(\w+)\s*;`)
	outDecl     = regexp.MustCompile(`(?m)^\s*out\s+\w+\s+(\w+)\s*;`)
)

func declared(re *regexp.Regexp, src string) []string {
	var names []string
	for _, m := range re.FindAllStringSubmatch(src, -1) {
		names = append(names, m[1])
	}
	return names
}

func (g *GL) LinkProgram(prog uint32) {
	if g.record("LinkProgram", prog) {
		return
	}
	p := g.liveProgram(prog)
	if p == nil {
		return
	}

	p.linked, p.validated = false, false
	p.uniforms = make(map[string]int32)
	p.values = make(map[int32][4]float32)

	kinds := make(map[uint32]int)
	var sources []string
	var vertex, fragment string
	for _, h := range p.attached {
		s := g.shaders[h]
		switch {
		case s.deleted:
			p.log = fmt.Sprintf("error: shader %d was deleted before link", h)
			return
		case !s.compiled:
			p.log = fmt.Sprintf("error: shader %d is not compiled", h)
			return
		}
		kinds[s.kind]++
		sources = append(sources, s.source)
		if s.kind == glquad.VERTEX_SHADER {
			vertex = s.source
		} else {
			fragment = s.source
		}
	}
	if kinds[glquad.VERTEX_SHADER] != 1 || kinds[glquad.FRAGMENT_SHADER] != 1 {
		p.log = "error: program needs exactly one vertex and one fragment shader"
		return
	}
	outputs := declared(outDecl, vertex)
	for _, in := range declared(inDecl, fragment) {
		if !slices.Contains(outputs, in) {
			p.log = fmt.Sprintf("error: fragment shader input `%s' has no matching output in the previous stage", in)
			return
		}
	}

	var next int32
	for _, src := range sources {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			if _, ok := p.uniforms[m[1]]; !ok {
				p.uniforms[m[1]] = next
				next++
			}
		}
	}
	p.log = ""
	p.linked = true
}

func (g *GL) ValidateProgram(prog uint32) {
	if g.record("ValidateProgram", prog) {
		return
	}
	p := g.liveProgram(prog)
	if p == nil {
		return
	}
	p.validated = p.linked
	if !p.validated {
		p.log = "error: program is not linked"
	}
}

func (g *GL) GetProgramiv(prog, pname uint32) int32 {
	if g.record("GetProgramiv", prog, pname) {
		return 0
	}
	p := g.liveProgram(prog)
	if p == nil {
		return 0
	}
	flag := func(b bool) int32 {
		if b {
			return glquad.TRUE
		}
		return glquad.FALSE
	}
	switch pname {
	case glquad.LINK_STATUS:
		return flag(p.linked)
	case glquad.VALIDATE_STATUS:
		return flag(p.validated)
	case glquad.INFO_LOG_LENGTH:
		if p.log == "" {
			return 0
		}
		return int32(len(p.log) + 1)
	default:
		g.raise(glquad.INVALID_ENUM)
		return 0
	}
}

func (g *GL) GetProgramInfoLog(prog uint32, buf []byte) int32 {
	if g.record("GetProgramInfoLog", prog, len(buf)) {
		return 0
	}
	p := g.liveProgram(prog)
	if p == nil {
		return 0
	}
	return copyLog(buf, p.log)
}

func (g *GL) UseProgram(prog uint32) {
	if g.record("UseProgram", prog) {
		return
	}
	if prog == 0 {
		g.current = 0
		return
	}
	p := g.liveProgram(prog)
	if p == nil {
		return
	}
	if !p.linked {
		g.raise(glquad.INVALID_OPERATION)
		return
	}
	g.current = prog
}

func (g *GL) GetUniformLocation(prog uint32, name string) int32 {
	if g.record("GetUniformLocation", prog, name) {
		return -1
	}
	p := g.liveProgram(prog)
	if p == nil {
		return -1
	}
	if !p.linked {
		g.raise(glquad.INVALID_OPERATION)
		return -1
	}
	loc, ok := p.uniforms[name]
	if !ok {
		return -1
	}
	return loc
}

func (g *GL) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	if g.record("Uniform4f", location, v0, v1, v2, v3) {
		return
	}
	if g.current == 0 {
		g.raise(glquad.INVALID_OPERATION)
		return
	}
	if location == -1 {
		return
	}
	p := g.programs[g.current]
	if location < 0 || int(location) >= len(p.uniforms) {
		g.raise(glquad.INVALID_OPERATION)
		return
	}
	p.values[location] = [4]float32{v0, v1, v2, v3}
}

func (g *GL) DeleteProgram(prog uint32) {
	g.record("DeleteProgram", prog)
	if prog == 0 {
		return
	}
	if p := g.liveProgram(prog); p != nil {
		p.deleted = true
		if g.current == prog {
			g.current = 0
		}
	}
}

func (g *GL) GenVertexArray() uint32 {
	if g.record("GenVertexArray") {
		return 0
	}
	h := g.alloc()
	g.vaos[h] = &VertexArray{Attribs: make(map[uint32]*Attrib)}
	return h
}

func (g *GL) BindVertexArray(h uint32) {
	if g.record("BindVertexArray", h) {
		return
	}
	if h == 0 {
		g.vao = 0
		return
	}
	v, ok := g.vaos[h]
	if !ok || v.Deleted {
		g.raise(glquad.INVALID_OPERATION)
		return
	}
	g.vao = h
}

func (g *GL) DeleteVertexArray(h uint32) {
	g.record("DeleteVertexArray", h)
	if v, ok := g.vaos[h]; ok && !v.Deleted {
		v.Deleted = true
		if g.vao == h {
			g.vao = 0
		}
	}
}

func (g *GL) GenBuffer() uint32 {
	if g.record("GenBuffer") {
		return 0
	}
	h := g.alloc()
	g.buffers[h] = &Buffer{}
	return h
}

func (g *GL) BindBuffer(target, h uint32) {
	if g.record("BindBuffer", target, h) {
		return
	}
	if target != glquad.ARRAY_BUFFER && target != glquad.ELEMENT_ARRAY_BUFFER {
		g.raise(glquad.INVALID_ENUM)
		return
	}
	if h != 0 {
		b, ok := g.buffers[h]
		if !ok || b.Deleted {
			g.raise(glquad.INVALID_OPERATION)
			return
		}
		b.Target = target
	}
	if target == glquad.ELEMENT_ARRAY_BUFFER {
		if g.vao == 0 {
			g.raise(glquad.INVALID_OPERATION)
			return
		}
		g.vaos[g.vao].IBO = h
		return
	}
	g.bound[target] = h
}

func (g *GL) boundBuffer(target uint32) uint32 {
	if target == glquad.ELEMENT_ARRAY_BUFFER {
		if g.vao == 0 {
			return 0
		}
		return g.vaos[g.vao].IBO
	}
	return g.bound[target]
}

func (g *GL) BufferData(target uint32, size int, data any, usage uint32) {
	if g.record("BufferData", target, size, usage) {
		return
	}
	h := g.boundBuffer(target)
	if h == 0 {
		g.raise(glquad.INVALID_OPERATION)
		return
	}
	if size < 0 || size > byteLen(data) {
		g.raise(glquad.INVALID_VALUE)
		return
	}
	b := g.buffers[h]
	b.Size, b.Usage, b.Data = size, usage, data
}

func (g *GL) DeleteBuffer(h uint32) {
	g.record("DeleteBuffer", h)
	b, ok := g.buffers[h]
	if !ok || b.Deleted {
		return
	}
	b.Deleted = true
	for t, bound := range g.bound {
		if bound == h {
			g.bound[t] = 0
		}
	}
}

func (g *GL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	if g.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset) {
		return
	}
	if g.vao == 0 || g.bound[glquad.ARRAY_BUFFER] == 0 {
		g.raise(glquad.INVALID_OPERATION)
		return
	}
	if size < 1 || size > 4 || stride < 0 {
		g.raise(glquad.INVALID_VALUE)
		return
	}
	v := g.vaos[g.vao]
	a, ok := v.Attribs[index]
	if !ok {
		a = &Attrib{}
		v.Attribs[index] = a
	}
	a.Size, a.Type, a.Normalized, a.Stride, a.Offset = size, xtype, normalized, stride, offset
	a.Buffer = g.bound[glquad.ARRAY_BUFFER]
}

func (g *GL) EnableVertexAttribArray(index uint32) {
	if g.record("EnableVertexAttribArray", index) {
		return
	}
	if g.vao == 0 {
		g.raise(glquad.INVALID_OPERATION)
		return
	}
	v := g.vaos[g.vao]
	a, ok := v.Attribs[index]
	if !ok {
		a = &Attrib{}
		v.Attribs[index] = a
	}
	a.Enabled = true
}

// ViewportRect returns the last viewport set.
func (g *GL) ViewportRect() [4]int32 {
	return g.viewport
}

func (g *GL) Viewport(x, y, width, height int32) {
	if g.record("Viewport", x, y, width, height) {
		return
	}
	if width < 0 || height < 0 {
		g.raise(glquad.INVALID_VALUE)
		return
	}
	g.viewport = [4]int32{x, y, width, height}
}

func (g *GL) ClearColor(r, gr, b, a float32) {
	if g.record("ClearColor", r, gr, b, a) {
		return
	}
	g.clearColor = [4]float32{r, gr, b, a}
}

// ReadPixels fills buf with the clear color, as if nothing was drawn.
func (g *GL) ReadPixels(x, y, width, height int32, buf []byte) {
	if g.record("ReadPixels", x, y, width, height, len(buf)) {
		return
	}
	if width < 0 || height < 0 || len(buf) < int(width)*int(height)*4 {
		g.raise(glquad.INVALID_VALUE)
		return
	}
	var px [4]byte
	for i, c := range g.clearColor {
		px[i] = byte(min(max(c, 0), 1) * 255)
	}
	for i := 0; i+4 <= int(width)*int(height)*4; i += 4 {
		copy(buf[i:i+4], px[:])
	}
}

func (g *GL) Clear(mask uint32) {
	if g.record("Clear", mask) {
		return
	}
	g.clears++
}

func (g *GL) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	if g.record("DrawElements", mode, count, xtype, offset) {
		return
	}
	if g.current == 0 || g.vao == 0 {
		g.raise(glquad.INVALID_OPERATION)
		return
	}
	ibo := g.vaos[g.vao].IBO
	if ibo == 0 {
		g.raise(glquad.INVALID_OPERATION)
		return
	}
	g.Draws = append(g.Draws, Draw{
		Mode:    mode,
		Count:   count,
		Type:    xtype,
		Offset:  offset,
		Program: g.current,
		VAO:     g.vao,
		IBO:     ibo,
	})
}

// checkSyntax returns an info log in the style of Mesa for text that is
// obviously not a shader, or "" if it passes.
func checkSyntax(text string) string {
	if !strings.Contains(text, "#version") {
		return "0:1(1): error: no #version directive"
	}
	if !strings.Contains(text, "void main") {
		return "0:1(1): error: main function not found"
	}

	depth := map[rune]int{}
	line := 1
	for _, r := range text {
		switch r {
		case '\n':
			line++
		case '{', '(':
			depth[r]++
		case '}':
			depth['{']--
		case ')':
			depth['(']--
		}
		if depth['{'] < 0 || depth['('] < 0 {
			return fmt.Sprintf("0:%d(1): error: syntax error, unexpected '%c'", line, r)
		}
	}
	if depth['{'] != 0 || depth['('] != 0 {
		return fmt.Sprintf("0:%d(1): error: syntax error, unexpected end of file", line)
	}
	return ""
}

func copyLog(buf []byte, log string) int32 {
	if len(buf) == 0 {
		return 0
	}
	n := copy(buf[:len(buf)-1], log)
	buf[n] = 0
	return int32(n)
}

func byteLen(data any) int {
	switch d := data.(type) {
	case []float32:
		return 4 * len(d)
	case []uint32:
		return 4 * len(d)
	case []uint16:
		return 2 * len(d)
	case []uint8:
		return len(d)
	default:
		return 0
	}
}

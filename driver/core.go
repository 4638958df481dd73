// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// GPU is the main interface to an underlying driver
// implementation.
// It is used to create other types and to execute commands.
// A GPU is obtained from a call to Driver.Open.
type GPU interface {
	// Driver returns the Driver that owns the GPU.
	Driver() Driver

	// Commit commits a batch of command buffers to the GPU
	// for execution.
	// Command buffers execute in the order they appear in
	// cb. This method sends the result to ch when all
	// commands complete execution. Command buffers in cb
	// cannot be used for recording until then.
	Commit(cb []CmdBuffer, ch chan<- error)

	// NewCmdBuffer creates a new command buffer.
	NewCmdBuffer() (CmdBuffer, error)

	// NewProgram creates a new shader program.
	NewProgram(desc *ProgramDesc) (Program, error)

	// NewPipeline creates a new pipeline.
	// The state parameter must be a pointer to a
	// GraphState.
	NewPipeline(state any) (Pipeline, error)

	// NewBuffer creates a new buffer.
	NewBuffer(size int64, visible bool, usg Usage) (Buffer, error)

	// Limits returns the implementation limits.
	// They are immutable for the lifetime of the GPU.
	Limits() Limits
}

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface may allocate external
// memory that is not managed by GC, so Destroy must be
// called explicitly to ensure such memory is deallocated.
type Destroyer interface {
	Destroy()
}

// CmdBuffer is the interface that defines a command buffer.
// Commands are recorded into command buffers and later
// committed to the GPU for execution. The usage is as
// follows:
//
//	1. call Begin to prepare the command buffer
//	2. call Set* methods to configure rendering state
//	3. call Draw
//	4. repeat 2-3 as needed
//	5. call End and, if it succeeds, GPU.Commit
type CmdBuffer interface {
	Destroyer

	// Begin prepares the command buffer for recording.
	// This method must be called before any command
	// is recorded in the command buffer. It needs to
	// be called again if the command buffer is
	// executed or reset.
	Begin() error

	// SetPipeline sets the graphics pipeline.
	SetPipeline(pl Pipeline)

	// SetVertexBuf sets one or more vertex buffers.
	// The buffer at buf[i] is bound to the vertex input
	// at index start+i of the bound pipeline, with data
	// starting off[i] bytes into the buffer.
	// off must be aligned to the size of the data
	// format's component.
	SetVertexBuf(start int, buf []Buffer, off []int64)

	// Draw draws primitives.
	Draw(vertCount, instCount, baseVert, baseInst int)

	// End ends command recording and prepares the
	// command buffer for execution.
	// New recordings are not allowed until the
	// command buffer is executed or reset.
	// Upon failure, the command buffer is reset.
	End() error

	// Reset discards all recorded commands from the
	// command buffer.
	Reset() error
}

// ProgramDesc describes a shader program.
// VertSrc and FragSrc hold source code for drivers that
// compile shaders. Input declares the vertex inputs of the
// program for drivers that cannot introspect it; drivers
// that can are free to ignore it.
type ProgramDesc struct {
	VertSrc []byte
	FragSrc []byte
	Input   []VertexIn
}

// Program is the interface that defines a linked shader
// program.
type Program interface {
	Destroyer

	// Input looks up a vertex input by name.
	// The Nr field of the returned VertexIn is the
	// location of the input within the program and
	// Stride is zero.
	Input(name string) (VertexIn, bool)

	// Inputs returns all vertex inputs of the program.
	Inputs() []VertexIn
}

// VertexFmt describes the format of a vertex input.
type VertexFmt int

// Vertex formats.
const (
	// Signed 8-bit integer, 1-4 components.
	Int8 VertexFmt = iota
	Int8x2
	Int8x3
	Int8x4
	// Signed 16-bit integer, 1-4 components.
	Int16
	Int16x2
	Int16x3
	Int16x4
	// Signed 32-bit integer, 1-4 components.
	Int32
	Int32x2
	Int32x3
	Int32x4
	// Unsigned 8-bit integer, 1-4 components.
	UInt8
	UInt8x2
	UInt8x3
	UInt8x4
	// Unsigned 16-bit integer, 1-4 components.
	UInt16
	UInt16x2
	UInt16x3
	UInt16x4
	// Unsigned 32-bit integer, 1-4 components.
	UInt32
	UInt32x2
	UInt32x3
	UInt32x4
	// Single precision floating-point, 1-4 components.
	Float32
	Float32x2
	Float32x3
	Float32x4

	maxVertexFmt
)

// Components returns the number of components of f.
func (f VertexFmt) Components() int {
	if f < 0 || f >= maxVertexFmt {
		panic("invalid VertexFmt value")
	}
	return int(f)%4 + 1
}

// Size returns the size in bytes of a single element of f.
func (f VertexFmt) Size() int {
	var n int
	switch {
	case f < 0 || f >= maxVertexFmt:
		panic("invalid VertexFmt value")
	case f <= Int8x4, f >= UInt8 && f <= UInt8x4:
		n = 1
	case f <= Int16x4, f >= UInt16 && f <= UInt16x4:
		n = 2
	default:
		n = 4
	}
	return n * f.Components()
}

// IsFloat returns whether f is a floating-point format.
func (f VertexFmt) IsFloat() bool { return f >= Float32 && f < maxVertexFmt }

// String implements fmt.Stringer.
func (f VertexFmt) String() string {
	if f < 0 || f >= maxVertexFmt {
		return "[!] invalid VertexFmt value"
	}
	var s string
	switch {
	case f <= Int8x4:
		s = "Int8"
	case f <= Int16x4:
		s = "Int16"
	case f <= Int32x4:
		s = "Int32"
	case f <= UInt8x4:
		s = "UInt8"
	case f <= UInt16x4:
		s = "UInt16"
	case f <= UInt32x4:
		s = "UInt32"
	default:
		s = "Float32"
	}
	switch n := f.Components(); n {
	case 1:
		return s
	default:
		return s + "x" + string(rune('0'+n))
	}
}

// VertexIn describes a vertex input.
// Consecutive vertices are fetched Stride bytes apart.
// A Stride of zero means that vertices are tightly packed.
// Each vertex input represents a separate buffer binding,
// interleaved inputs are not supported.
// Nr is the location of the input in the shader program
// and Name is the name under which the shader declares it.
type VertexIn struct {
	Format VertexFmt
	Stride int
	Nr     int
	Name   string
}

// Topology is the type of primitive topologies,
// which determines how vertex data is assembled.
type Topology int

// Primitive topologies.
const (
	TPoint Topology = iota
	TLine
	TLnStrip
	TTriangle
	TTriStrip
)

// Valid returns whether t is a known topology.
func (t Topology) Valid() bool { return t >= TPoint && t <= TTriStrip }

// Primitives returns the number of whole primitives that
// vertCount vertices assemble into.
func (t Topology) Primitives(vertCount int) int {
	if vertCount <= 0 {
		return 0
	}
	switch t {
	case TPoint:
		return vertCount
	case TLine:
		return vertCount / 2
	case TLnStrip:
		return vertCount - 1
	case TTriangle:
		return vertCount / 3
	case TTriStrip:
		if vertCount < 3 {
			return 0
		}
		return vertCount - 2
	default:
		panic("invalid Topology value")
	}
}

// String implements fmt.Stringer.
func (t Topology) String() string {
	switch t {
	case TPoint:
		return "TPoint"
	case TLine:
		return "TLine"
	case TLnStrip:
		return "TLnStrip"
	case TTriangle:
		return "TTriangle"
	case TTriStrip:
		return "TTriStrip"
	default:
		return "[!] invalid Topology value"
	}
}

// GraphState defines the state of a graphics pipeline.
// Graphics pipelines are created from graphics states.
// Input[i] is fed by the vertex buffer bound at index i.
type GraphState struct {
	Program  Program
	Input    []VertexIn
	Topology Topology
}

// Pipeline is the interface that defines a GPU pipeline.
type Pipeline interface {
	Destroyer
}

// Usage is a mask indicating valid uses for a resource.
type Usage int

// Usage flags for Buffer.
const (
	// The resource can be read in shaders.
	UShaderRead Usage = 1 << iota
	// The resource can be written in shaders.
	UShaderWrite
	// The resource can provide constant data for shaders.
	UShaderConst
	// The resource can provide vertex data for draw calls.
	UVertexData
	// The resource can be used for any purpose.
	UGeneric Usage = 1<<iota - 1
)

// Buffer is the interface that defines a GPU buffer.
// The size of the buffer is fixed. When a larger buffer
// is necessary, a new one must be created and the data
// must be copied explicitly.
type Buffer interface {
	Destroyer

	// Visible returns whether the buffer is host visible.
	// Non-visible memory cannot be accessed by the CPU
	// other than through Write and Read.
	Visible() bool

	// Bytes returns a slice of length Cap referring to the
	// underlying data. If the buffer is not host visible,
	// it returns nil instead.
	// The slice is valid for the lifetime of the buffer.
	Bytes() []byte

	// Cap returns the capacity of the buffer in bytes,
	// which may be greater than the size requested during
	// buffer creation.
	// This value is immutable.
	Cap() int64

	// Write copies data into the buffer starting at byte
	// off. The range must lie within the buffer.
	Write(off int64, data []byte) error

	// Read copies len(p) bytes from the buffer starting
	// at byte off into p. The range must lie within the
	// buffer.
	Read(off int64, p []byte) error
}

// Limits describes the implementation limits.
type Limits struct {
	// Maximum number of vertex inputs in a graphics
	// pipeline.
	MaxVertexIn int
	// Maximum size of a buffer, in bytes.
	MaxBuffer int64
}

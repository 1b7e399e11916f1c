// Package renderer draws the grid world as flat-shaded cubes with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/fezlike/internal/engine/shader"
	"github.com/Faultbox/fezlike/pkg/math"
)

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uMVP;

out vec3 vNormal;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	vNormal = aNormal;
}
`

const fragmentShader = `
#version 410 core

in vec3 vNormal;

uniform vec4 uColor;
uniform vec3 uLightDir;

out vec4 FragColor;

void main() {
	float diffuse = max(dot(normalize(vNormal), -uLightDir), 0.0);
	FragColor = vec4(uColor.rgb * (0.45 + 0.55 * diffuse), uColor.a);
}
`

// Color is linear RGBA.
type Color [4]float32

// Batch is a set of cubes sharing a color.
type Batch struct {
	Color Color
	Cells []math.Vec3
	Size  math.Vec3 // cube extent per axis
}

// Frame is everything drawn in one frame.
type Frame struct {
	ViewProjection math.Mat4
	LightDir       math.Vec3
	Batches        []Batch
}

// Renderer owns the GL state for the cube pass.
type Renderer struct {
	log     *zap.Logger
	program *shader.Program
	vao     uint32
	vbo     uint32
	count   int32
	width   int
	height  int
}

// New initializes OpenGL and uploads the cube mesh.
// Must be called after the GL context is current.
func New(width, height int, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &Renderer{log: log}

	var err error
	r.program, err = shader.Compile(vertexShader, fragmentShader, "uMVP", "uColor", "uLightDir")
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.uploadCube()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.55, 0.75, 0.9, 1.0)
	r.Resize(width, height)

	return r, nil
}

func (r *Renderer) uploadCube() {
	vertices := cubeVertices()
	r.count = int32(len(vertices) / floatsPerVertex)

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.log.Debug("cube mesh uploaded", zap.Uint32("vao", r.vao), zap.Int32("vertices", r.count))
}

// Close releases GL resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Aspect returns width / height of the viewport.
func (r *Renderer) Aspect() float32 {
	if r.height == 0 {
		return 1
	}
	return float32(r.width) / float32(r.height)
}

// Draw clears the screen and draws every batch. Opaque batches should come
// before translucent ones.
func (r *Renderer) Draw(f Frame) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.program.Use()
	light := f.LightDir.Normalize()
	gl.Uniform3f(r.program.Uniform("uLightDir"), light.X, light.Y, light.Z)
	gl.BindVertexArray(r.vao)

	for _, b := range f.Batches {
		gl.Uniform4f(r.program.Uniform("uColor"), b.Color[0], b.Color[1], b.Color[2], b.Color[3])
		scale := math.Scale(b.Size.X, b.Size.Y, b.Size.Z)
		for _, c := range b.Cells {
			mvp := f.ViewProjection.Mul(math.Translate(c.X, c.Y, c.Z)).Mul(scale)
			gl.UniformMatrix4fv(r.program.Uniform("uMVP"), 1, false, mvp.Ptr())
			gl.DrawArrays(gl.TRIANGLES, 0, r.count)
		}
	}

	gl.BindVertexArray(0)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	pixels := make([]byte, r.width*r.height*4)
	if len(pixels) == 0 {
		return pixels, r.width, r.height
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, r.width, r.height
}

// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/engine/renderer/shaders"
	"github.com/Faultbox/showroom/internal/engine/shader"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/scene"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background string     // "#rrggbb"
	LightDir   mgl32.Vec3 // Towards the key light; zero picks a default
}

// Frame is the camera state for one draw.
type Frame struct {
	ViewProjection mgl32.Mat4
	Eye            mgl32.Vec3

	// Highlight reports nodes drawn brighter, such as the hovered part.
	Highlight func(*scene.Node) bool
}

// gpuPrimitive holds the buffers uploaded for one primitive.
type gpuPrimitive struct {
	vao, vbo, ebo uint32
	count         int32
	indexed       bool
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config  Config
	program *shader.Program
	prims   map[*scene.Primitive]*gpuPrimitive

	lightDir mgl32.Vec3
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		prims:    make(map[*scene.Primitive]*gpuPrimitive),
		lightDir: mgl32.Vec3{0.4, 0.8, 0.45}.Normalize(),
	}
	if cfg.LightDir.Len() > 0 {
		r.lightDir = cfg.LightDir.Normalize()
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	r.SetBackground(cfg.Background)

	var err error
	r.program, err = shader.New("mesh", shaders.MeshVertexShader, shaders.MeshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// SetBackground sets the clear color from an sRGB hex string. Invalid
// strings keep the current color.
func (r *Renderer) SetBackground(hex string) {
	if hex == "" {
		return
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		logger.Warn("invalid background color", zap.String("color", hex), zap.Error(err))
		return
	}
	gl.ClearColor(float32(c.R), float32(c.G), float32(c.B), 1)
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.Release()
	if r.program != nil {
		r.program.Delete()
	}
}

// Release deletes the buffers of every uploaded primitive. Call it when the
// model is replaced.
func (r *Renderer) Release() {
	for _, g := range r.prims {
		gl.DeleteVertexArrays(1, &g.vao)
		gl.DeleteBuffers(1, &g.vbo)
		if g.ebo != 0 {
			gl.DeleteBuffers(1, &g.ebo)
		}
	}
	if len(r.prims) > 0 {
		logger.Debug("released mesh buffers", zap.Int("primitives", len(r.prims)))
	}
	clear(r.prims)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// DrawScene draws every mesh under root. Materials are read each frame, so
// recolored parts show up without re-uploading anything.
func (r *Renderer) DrawScene(root *scene.Node, f Frame) {
	if root == nil {
		return
	}
	opaque, transparent := collect(root, f.Eye)

	r.program.Use()
	r.program.SetMat4("uViewProjection", f.ViewProjection)
	r.program.SetVec3("uLightDir", r.lightDir)
	r.program.SetVec3("uCameraPos", f.Eye)

	for _, item := range opaque {
		r.draw(item, f)
	}

	if len(transparent) > 0 {
		gl.Enable(gl.BLEND)
		gl.DepthMask(false)
		for _, item := range transparent {
			r.draw(item, f)
		}
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
}

func (r *Renderer) draw(item drawItem, f Frame) {
	g := r.upload(item.prim)
	if g == nil {
		return
	}

	color := mgl32.Vec4{0.8, 0.8, 0.8, 1}
	unlit := false
	if m := item.prim.Material; m != nil {
		color = m.Color
		unlit = m.Kind == scene.ShadingBasic
	}
	var highlight float32
	if f.Highlight != nil && f.Highlight(item.node) {
		highlight = 0.25
	}

	r.program.SetMat4("uModel", item.world)
	r.program.SetMat3("uNormalMatrix", item.world.Mat3().Inv().Transpose())
	r.program.SetVec4("uColor", color)
	r.program.SetBool("uUnlit", unlit)
	r.program.SetFloat("uHighlight", highlight)

	gl.BindVertexArray(g.vao)
	if g.indexed {
		gl.DrawElements(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, g.count)
	}
}

// upload creates the buffers for a primitive on first use.
func (r *Renderer) upload(p *scene.Primitive) *gpuPrimitive {
	if g, ok := r.prims[p]; ok {
		return g
	}

	vertices := vertexData(p)
	if len(vertices) == 0 {
		return nil
	}

	g := &gpuPrimitive{}
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	if len(p.Indices) > 0 {
		gl.GenBuffers(1, &g.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(p.Indices)*4, gl.Ptr(p.Indices), gl.STATIC_DRAW)
		g.indexed = true
		g.count = int32(len(p.Indices))
	} else {
		g.count = int32(len(p.Positions))
	}

	gl.BindVertexArray(0)
	r.prims[p] = g
	return g
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

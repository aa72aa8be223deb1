// Package renderer draws the bolt scene with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arclight/camera"
	"github.com/pthm-cable/arclight/components"
	"github.com/pthm-cable/arclight/geom"
	"github.com/pthm-cable/arclight/octfield"
	"github.com/pthm-cable/arclight/scene"
)

// Overlays toggles optional scene layers.
type Overlays struct {
	Fields  bool
	Probes  bool
	Anchors bool
	Grid    bool
}

// FieldView is a field plus the anchors it tracks, for drawing.
type FieldView struct {
	Field   *octfield.Field
	Tracked map[octfield.Handle]*scene.Anchor
}

// SceneRenderer draws segments, anchors, probes and field bounds in 3D.
type SceneRenderer struct {
	cam rl.Camera3D
}

// NewSceneRenderer creates a scene renderer.
func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{
		cam: rl.Camera3D{
			Up:         rl.NewVector3(0, 1, 0),
			Fovy:       45,
			Projection: rl.CameraPerspective,
		},
	}
}

// SetCamera copies the orbit camera's placement.
func (r *SceneRenderer) SetCamera(c *camera.Camera) {
	r.cam.Position = toRL(c.Position())
	r.cam.Target = toRL(c.Target)
}

// Draw renders one frame of the scene. Call between BeginDrawing and EndDrawing.
func (r *SceneRenderer) Draw(s *scene.Scene, fields []FieldView, ov Overlays) {
	rl.BeginMode3D(r.cam)
	defer rl.EndMode3D()

	if ov.Grid {
		rl.DrawGrid(40, 1)
	}

	s.ForEachSegment(func(frame geom.Frame, size r3.Vec, c color.RGBA) {
		a, b := SegmentEnds(frame, size)
		radius := float32(size.Y / 4)
		rl.DrawCylinderEx(toRL(a), toRL(b), radius, radius, 6, toRLColor(c))
	})

	if ov.Anchors {
		for _, a := range s.Anchors() {
			rl.DrawSphere(toRL(a.Position()), 0.35, rl.RayWhite)
		}
	}

	if ov.Probes {
		s.ForEachVolume(func(vol components.Volume, pos r3.Vec) {
			if !vol.InUse {
				return
			}
			rl.DrawCubeWiresV(toRL(pos), toRL(vol.Size.Vec()), rl.Orange)
		})
	}

	if ov.Fields {
		for _, fv := range fields {
			r.drawField(fv)
		}
	}
}

func (r *SceneRenderer) drawField(fv FieldView) {
	f := fv.Field
	rl.DrawCubeWiresV(toRL(f.Center()), toRL(f.Dimensions().Vec()), rl.DarkGray)

	for h, anchor := range fv.Tracked {
		code, ok := f.Code(h)
		if !ok {
			continue
		}
		c := toRLColor(DepthColor(octfield.Depth(code)))
		rl.DrawSphereWires(toRL(anchor.Position()), 0.6, 6, 6, c)
	}
}

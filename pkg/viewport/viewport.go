// Package viewport maps between screen and flow coordinates.
package viewport

import (
	"math"

	"golang.org/x/image/math/f64"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

const (
	DefaultMinZoom = 0.5
	DefaultMaxZoom = 2
)

// Viewport is a pan offset in screen pixels and a zoom factor:
// screen = flow*Zoom + (X, Y).
type Viewport struct {
	X    float64 `json:"x" yaml:"x" toml:"x"`
	Y    float64 `json:"y" yaml:"y" toml:"y"`
	Zoom float64 `json:"zoom" yaml:"zoom" toml:"zoom"`
}

// Identity is the viewport with no pan and zoom 1.
var Identity = Viewport{Zoom: 1}

func (v Viewport) zoom() float64 {
	if v.Zoom == 0 {
		return 1
	}
	return v.Zoom
}

// Matrix returns the flow-to-screen transform.
func (v Viewport) Matrix() f64.Aff3 {
	z := v.zoom()
	return f64.Aff3{
		z, 0, v.X,
		0, z, v.Y,
	}
}

// Inverse returns the screen-to-flow transform.
func (v Viewport) Inverse() f64.Aff3 {
	z := v.zoom()
	return f64.Aff3{
		1 / z, 0, -v.X / z,
		0, 1 / z, -v.Y / z,
	}
}

// Apply transforms p by m.
func Apply(m f64.Aff3, p geometry.Point) geometry.Point {
	return geometry.Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// ToFlow converts a screen position to flow coordinates.
func (v Viewport) ToFlow(screen geometry.Point) geometry.Point {
	return Apply(v.Inverse(), screen)
}

// ToScreen converts a flow position to screen coordinates.
func (v Viewport) ToScreen(p geometry.Point) geometry.Point {
	return Apply(v.Matrix(), p)
}

// Pan moves the viewport by a screen-space delta.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.X += dx
	v.Y += dy
	return v
}

// ZoomAt scales the zoom by factor, clamped to [minZoom, maxZoom], keeping the flow
// point under screen position p fixed.
func (v Viewport) ZoomAt(p geometry.Point, factor, minZoom, maxZoom float64) Viewport {
	anchor := v.ToFlow(p)
	z := geometry.Clamp(v.zoom()*factor, minZoom, maxZoom)

	return Viewport{
		X:    p.X - anchor.X*z,
		Y:    p.Y - anchor.Y*z,
		Zoom: z,
	}
}

// ForBounds returns the viewport that centres bounds in a width x height
// screen, leaving padding (a fraction of the bounds) around it.
func ForBounds(bounds geometry.Rect, width, height, minZoom, maxZoom, padding float64) Viewport {
	zoomX := width / (bounds.Width * (1 + padding))
	zoomY := height / (bounds.Height * (1 + padding))
	z := geometry.Clamp(math.Min(zoomX, zoomY), minZoom, maxZoom)

	c := bounds.Center()
	return Viewport{
		X:    width/2 - c.X*z,
		Y:    height/2 - c.Y*z,
		Zoom: z,
	}
}

// ScreenHandle is a handle's measured screen-space box.
type ScreenHandle struct {
	ID       string
	Position flow.Side
	Rect     geometry.Rect
	// Connectable and ConnectableEnd are copied to the handle element.
	Connectable    *bool
	ConnectableEnd *bool
}

// HandleBounds converts measured screen boxes into handle bounds relative
// to the node's origin in flow units.
func HandleBounds(nodeRect geometry.Rect, handles []ScreenHandle, zoom float64) []flow.HandleElement {
	if zoom == 0 {
		zoom = 1
	}

	result := make([]flow.HandleElement, 0, len(handles))
	for _, h := range handles {
		result = append(result, flow.HandleElement{
			ID:             h.ID,
			Position:       h.Position,
			X:              (h.Rect.X - nodeRect.X) / zoom,
			Y:              (h.Rect.Y - nodeRect.Y) / zoom,
			Width:          h.Rect.Width / zoom,
			Height:         h.Rect.Height / zoom,
			Connectable:    h.Connectable,
			ConnectableEnd: h.ConnectableEnd,
		})
	}
	return result
}

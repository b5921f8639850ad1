package placement

import "github.com/vk/flowcanvas/internal/node"

// Viewport is the canvas pan and zoom as reported by the renderer, plus the
// screen offset of the canvas element itself.
type Viewport struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Zoom    float64 `json:"zoom"`
	OriginX float64 `json:"originX"`
	OriginY float64 `json:"originY"`
}

// Identity is the viewport of an unpanned, unzoomed canvas at the screen origin.
var Identity = Viewport{Zoom: 1}

// ToCanvas converts a screen point into canvas coordinates.
func (v Viewport) ToCanvas(screen node.Position) node.Position {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return node.Position{
		X: (screen.X - v.OriginX - v.X) / zoom,
		Y: (screen.Y - v.OriginY - v.Y) / zoom,
	}
}

// ToScreen is the inverse of ToCanvas.
func (v Viewport) ToScreen(canvas node.Position) node.Position {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return node.Position{
		X: canvas.X*zoom + v.X + v.OriginX,
		Y: canvas.Y*zoom + v.Y + v.OriginY,
	}
}

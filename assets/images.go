package assets

import (
	"hash/fnv"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/toybox/prefabs"
)

const spriteMargin = 6

var (
	images     = map[string]*ebiten.Image{}
	whiteImage *ebiten.Image
)

// Image returns a registered sprite. Unknown ids get a magenta placeholder
// so a bad prefab is visible instead of invisible.
func Image(id string) *ebiten.Image {
	if img, ok := images[id]; ok {
		return img
	}
	img := ebiten.NewImage(16, 16)
	img.Fill(colornames.Magenta)
	images[id] = img
	return img
}

// EnsureToyImages builds and registers the default and hovered sprites for
// a toy prefab. Already-registered ids are kept as-is.
func EnsureToyImages(spec prefabs.ToySpec, defID, hovID string) {
	if _, ok := images[defID]; ok {
		if _, ok := images[hovID]; ok {
			return
		}
	}

	base := toyColor(spec)
	images[defID] = renderToy(spec.Shape, base, false)
	images[hovID] = renderToy(spec.Shape, lighten(base, 0.35), true)
}

// Invalidate drops registered sprites so a reloaded prefab gets fresh ones.
func Invalidate(ids ...string) {
	for _, id := range ids {
		delete(images, id)
	}
}

func toyColor(spec prefabs.ToySpec) color.NRGBA {
	if spec.Tint != nil && spec.Tint.Color != nil {
		r, g, b, a := spec.Tint.Color.RGBA()
		return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	}

	// stable name hash so a variant keeps its color between runs
	h := fnv.New32a()
	h.Write([]byte(spec.Name))
	name := colornames.Names[int(h.Sum32())%len(colornames.Names)]
	c := colornames.Map[name]
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func lighten(c color.NRGBA, amount float64) color.NRGBA {
	mix := func(v uint8) uint8 {
		return uint8(float64(v) + (255-float64(v))*amount)
	}
	return color.NRGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}

func renderToy(shape prefabs.ShapeSpec, fill color.NRGBA, outlined bool) *ebiten.Image {
	halfW, halfH := shapeExtents(shape)
	if halfW <= 0 {
		halfW = 8
	}
	if halfH <= 0 {
		halfH = 8
	}

	w := int(math.Ceil(halfW))*2 + spriteMargin*2
	h := int(math.Ceil(halfH))*2 + spriteMargin*2
	img := ebiten.NewImage(w, h)

	cx := float64(w) / 2
	cy := float64(h) / 2
	drawShape(img, shape, cx, cy, fill, outlined)
	return img
}

func drawShape(img *ebiten.Image, s prefabs.ShapeSpec, cx, cy float64, fill color.NRGBA, outlined bool) {
	outline := color.NRGBA{R: fill.R / 2, G: fill.G / 2, B: fill.B / 2, A: 255}
	stroke := float32(2)
	if outlined {
		stroke = 3
	}

	x := float32(cx + s.OffsetX)
	y := float32(cy + s.OffsetY)

	switch s.Kind {
	case "circle":
		r := float32(s.Radius)
		vector.DrawFilledCircle(img, x, y, r+stroke, outline, true)
		vector.DrawFilledCircle(img, x, y, r, fill, true)
	case "box":
		w := float32(s.Width)
		h := float32(s.Height)
		vector.DrawFilledRect(img, x-w/2, y-h/2, w, h, fill, true)
		vector.StrokeRect(img, x-w/2, y-h/2, w, h, stroke, outline, true)
	case "poly":
		fillConvexPolygon(img, s.Verts, cx+s.OffsetX, cy+s.OffsetY, fill)
		strokePolygon(img, s.Verts, cx+s.OffsetX, cy+s.OffsetY, stroke, outline)
	case "compound":
		for _, part := range s.Parts {
			drawShape(img, part, cx, cy, fill, outlined)
		}
	}
}

// fillConvexPolygon fans triangles out of the first vertex over a white
// texture, tinting through the vertex colors.
func fillConvexPolygon(dst *ebiten.Image, verts []prefabs.VertSpec, cx, cy float64, clr color.NRGBA) {
	if len(verts) < 3 {
		return
	}
	if whiteImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
	}

	cr := float32(clr.R) / 255
	cg := float32(clr.G) / 255
	cb := float32(clr.B) / 255
	ca := float32(clr.A) / 255

	vs := make([]ebiten.Vertex, len(verts))
	for i, v := range verts {
		vs[i] = ebiten.Vertex{
			DstX:   float32(cx + v.X),
			DstY:   float32(cy + v.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		}
	}

	is := make([]uint16, 0, (len(verts)-2)*3)
	for i := 1; i < len(verts)-1; i++ {
		is = append(is, 0, uint16(i), uint16(i+1))
	}
	dst.DrawTriangles(vs, is, whiteImage, nil)
}

func strokePolygon(dst *ebiten.Image, verts []prefabs.VertSpec, cx, cy float64, width float32, clr color.NRGBA) {
	for i := range verts {
		a := verts[i]
		b := verts[(i+1)%len(verts)]
		vector.StrokeLine(dst,
			float32(cx+a.X), float32(cy+a.Y),
			float32(cx+b.X), float32(cy+b.Y),
			width, clr, true)
	}
}

func shapeExtents(s prefabs.ShapeSpec) (float64, float64) {
	switch s.Kind {
	case "circle":
		return math.Abs(s.OffsetX) + s.Radius, math.Abs(s.OffsetY) + s.Radius
	case "box":
		return math.Abs(s.OffsetX) + s.Width/2, math.Abs(s.OffsetY) + s.Height/2
	case "poly":
		var w, h float64
		for _, v := range s.Verts {
			w = math.Max(w, math.Abs(s.OffsetX+v.X))
			h = math.Max(h, math.Abs(s.OffsetY+v.Y))
		}
		return w, h
	case "compound":
		var w, h float64
		for _, part := range s.Parts {
			pw, ph := shapeExtents(part)
			w = math.Max(w, pw)
			h = math.Max(h, ph)
		}
		return w, h
	}
	return 0, 0
}

package snapshot

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// SoftwareBackend paints a scene directly in Go. It needs no browser and draws the
// same geometry, fills and text the HTML document describes.
type SoftwareBackend struct {
	fonts *fontSet
}

// NewSoftwareBackend parses the bundled fonts
func NewSoftwareBackend() (*SoftwareBackend, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &SoftwareBackend{fonts: fonts}, nil
}

var _ Backend = (*SoftwareBackend)(nil)

func (b *SoftwareBackend) Name() string { return BackendSoftware }

// Attach paints the scene at the job's scale onto an off-screen bitmap
func (b *SoftwareBackend) Attach(ctx context.Context, job Job) (Surface, error) {
	if err := job.Scene.Validate(); err != nil {
		return nil, err
	}
	width := int(math.Round(float64(job.Scene.Width) * job.Scale))
	height := int(math.Round(float64(job.Scene.Height) * job.Scale))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}

	p := &painter{
		dst:   image.NewRGBA(image.Rect(0, 0, width, height)),
		scale: job.Scale,
		fonts: b.fonts,
		faces: make(map[faceKey]font.Face),
	}
	if err := p.paint(ctx, job.Scene); err != nil {
		return nil, err
	}
	return &bitmapSurface{img: p.dst}, nil
}

type bitmapSurface struct {
	mu  sync.Mutex
	img *image.RGBA
}

func (s *bitmapSurface) Capture(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return nil, ErrSurfaceDetached
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.img, nil
}

func (s *bitmapSurface) Detach() {
	s.mu.Lock()
	s.img = nil
	s.mu.Unlock()
}

type faceKey struct {
	weight int
	size   float64
}

type painter struct {
	dst   *image.RGBA
	scale float64
	fonts *fontSet
	faces map[faceKey]font.Face
}

// devRect is a rectangle in device pixels, still fractional
type devRect struct {
	x0, y0, x1, y1 float64
}

func (p *painter) device(r Rect) devRect {
	return devRect{x0: r.X * p.scale, y0: r.Y * p.scale, x1: (r.X + r.W) * p.scale, y1: (r.Y + r.H) * p.scale}
}

func (r devRect) bounds() image.Rectangle {
	return image.Rect(int(math.Floor(r.x0)), int(math.Floor(r.y0)), int(math.Ceil(r.x1)), int(math.Ceil(r.y1)))
}

func (p *painter) paint(ctx context.Context, scene Scene) error {
	root := p.device(Rect{W: float64(scene.Width), H: float64(scene.Height)})
	p.fillGradient(root, scene.Radius*p.scale, scene.Background, nil)
	// children are clipped to the rounded root like overflow: hidden
	clip := roundedMask(root, scene.Radius*p.scale, p.dst.Bounds())

	for _, node := range scene.Nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.node(node, clip); err != nil {
			return fmt.Errorf("failed to paint %s: %w", node.Name, err)
		}
	}
	return nil
}

func (p *painter) node(node Node, clip *image.Alpha) error {
	r := p.device(node.Rect)
	switch {
	case node.Image != "":
		return p.image(r, node.Image, clip)
	case node.Text != nil:
		return p.text(r, *node.Text)
	}

	style, err := Resolve(node)
	if err != nil {
		return err
	}
	radius := style.Radius * p.scale
	if style.BackdropBlur > 0 {
		p.blur(r, radius, style.BackdropBlur*p.scale, clip)
	}
	if node.Gradient != nil {
		p.fillGradient(r, radius, *node.Gradient, clip)
	} else if style.Background != nil {
		p.fillSolid(r, radius, *style.Background, clip)
	}
	if style.Border != nil {
		p.border(r, radius, p.scale, *style.Border, clip)
	}
	return nil
}

func (p *painter) fillSolid(r devRect, radius float64, c Color, clip *image.Alpha) {
	mask := roundedMask(r, radius, p.dst.Bounds())
	if mask == nil {
		return
	}
	intersectMask(mask, clip)
	draw.DrawMask(p.dst, mask.Rect, image.NewUniform(c.NRGBA()), image.Point{}, mask, mask.Rect.Min, draw.Over)
}

func (p *painter) fillGradient(r devRect, radius float64, g Gradient, clip *image.Alpha) {
	mask := roundedMask(r, radius, p.dst.Bounds())
	if mask == nil {
		return
	}
	intersectMask(mask, clip)

	src := image.NewNRGBA(mask.Rect)
	w, h := r.x1-r.x0, r.y1-r.y0
	for y := mask.Rect.Min.Y; y < mask.Rect.Max.Y; y++ {
		for x := mask.Rect.Min.X; x < mask.Rect.Max.X; x++ {
			t := g.Param(float64(x)+0.5-r.x0, float64(y)+0.5-r.y0, w, h)
			src.SetNRGBA(x, y, g.At(t))
		}
	}
	draw.DrawMask(p.dst, mask.Rect, src, mask.Rect.Min, mask, mask.Rect.Min, draw.Over)
}

// blur replaces the area under the node with a blurred copy, like backdrop-filter
func (p *painter) blur(r devRect, radius, sigma float64, clip *image.Alpha) {
	mask := roundedMask(r, radius, p.dst.Bounds())
	if mask == nil {
		return
	}
	intersectMask(mask, clip)

	margin := int(math.Ceil(sigma * 3))
	region := mask.Rect.Inset(-margin).Intersect(p.dst.Bounds())
	backdrop := imaging.Crop(p.dst, region)

	// large kernels are blurred on a downsampled copy
	var blurred *image.NRGBA
	if factor := int(sigma / 4); factor > 1 {
		w, h := region.Dx(), region.Dy()
		small := imaging.Resize(backdrop, max(w/factor, 1), max(h/factor, 1), imaging.Linear)
		blurred = imaging.Resize(imaging.Blur(small, sigma/float64(factor)), w, h, imaging.Linear)
	} else {
		blurred = imaging.Blur(backdrop, sigma)
	}
	draw.DrawMask(p.dst, mask.Rect, blurred, mask.Rect.Min.Sub(region.Min), mask, mask.Rect.Min, draw.Over)
}

func (p *painter) border(r devRect, radius, width float64, c Color, clip *image.Alpha) {
	outer := roundedMask(r, radius, p.dst.Bounds())
	if outer == nil {
		return
	}
	inner := roundedMask(devRect{x0: r.x0 + width, y0: r.y0 + width, x1: r.x1 - width, y1: r.y1 - width}, max(radius-width, 0), p.dst.Bounds())
	if inner != nil {
		for y := inner.Rect.Min.Y; y < inner.Rect.Max.Y; y++ {
			for x := inner.Rect.Min.X; x < inner.Rect.Max.X; x++ {
				o := outer.AlphaAt(x, y).A
				i := inner.AlphaAt(x, y).A
				outer.SetAlpha(x, y, color.Alpha{A: uint8(uint16(o) * uint16(255-i) / 255)})
			}
		}
	}
	intersectMask(outer, clip)
	draw.DrawMask(p.dst, outer.Rect, image.NewUniform(c.NRGBA()), image.Point{}, outer, outer.Rect.Min, draw.Over)
}

func (p *painter) text(r devRect, t Text) error {
	if t.Content == "" {
		return nil
	}
	face, err := p.face(t.Weight, t.Size*p.scale)
	if err != nil {
		return err
	}

	box := r.bounds().Intersect(p.dst.Bounds())
	if box.Empty() {
		return nil
	}
	maxWidth := fixed.Int26_6((r.x1 - r.x0) * 64)
	content := fitText(face, t.Content, maxWidth)
	width := font.MeasureString(face, content)

	var x fixed.Int26_6
	switch t.Align {
	case AlignLeft:
		x = fixed.Int26_6(r.x0 * 64)
	case AlignRight:
		x = fixed.Int26_6(r.x1*64) - width
	default:
		x = fixed.Int26_6((r.x0+r.x1)/2*64) - width/2
	}
	metrics := face.Metrics()
	// centre the line box vertically, as line-height equal to the box height does
	baseline := fixed.Int26_6((r.y0+r.y1)/2*64) + (metrics.Ascent-metrics.Descent)/2

	d := &font.Drawer{
		Dst:  p.dst.SubImage(box).(*image.RGBA),
		Src:  image.NewUniform(t.Color.NRGBA()),
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: baseline},
	}
	d.DrawString(content)
	return nil
}

func (p *painter) image(r devRect, src string, clip *image.Alpha) error {
	img, err := decodeDataURI(src)
	if err != nil {
		return err
	}
	box := r.bounds().Intersect(p.dst.Bounds())
	if box.Empty() {
		return nil
	}
	fitted := imaging.Fit(img, box.Dx(), box.Dy(), imaging.Lanczos)
	offset := image.Pt(box.Min.X+(box.Dx()-fitted.Bounds().Dx())/2, box.Min.Y+(box.Dy()-fitted.Bounds().Dy())/2)
	target := fitted.Bounds().Add(offset)
	if clip == nil {
		draw.Draw(p.dst, target, fitted, image.Point{}, draw.Over)
		return nil
	}
	draw.DrawMask(p.dst, target, fitted, image.Point{}, clip, target.Min, draw.Over)
	return nil
}

func (p *painter) face(weight int, px float64) (font.Face, error) {
	key := faceKey{weight: weight, size: px}
	if face, ok := p.faces[key]; ok {
		return face, nil
	}
	face, err := p.fonts.newFace(weight, px)
	if err != nil {
		return nil, err
	}
	p.faces[key] = face
	return face, nil
}

// roundedMask computes anti-aliased coverage of a rounded rectangle, limited to
// limit. It returns nil when nothing is covered.
func roundedMask(r devRect, radius float64, limit image.Rectangle) *image.Alpha {
	bounds := r.bounds().Intersect(limit)
	if bounds.Empty() {
		return nil
	}
	hw, hh := (r.x1-r.x0)/2, (r.y1-r.y0)/2
	if hw <= 0 || hh <= 0 {
		return nil
	}
	radius = min(max(radius, 0), hw, hh)
	cx, cy := r.x0+hw, r.y0+hh

	mask := image.NewAlpha(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			d := roundedRectDistance(float64(x)+0.5-cx, float64(y)+0.5-cy, hw, hh, radius)
			coverage := min(max(0.5-d, 0), 1)
			mask.SetAlpha(x, y, color.Alpha{A: uint8(coverage*255 + 0.5)})
		}
	}
	return mask
}

// roundedRectDistance is the signed distance from a point (relative to the centre)
// to a rounded rectangle with half extents hw, hh; negative inside.
func roundedRectDistance(px, py, hw, hh, radius float64) float64 {
	qx := math.Abs(px) - (hw - radius)
	qy := math.Abs(py) - (hh - radius)
	outside := math.Hypot(max(qx, 0), max(qy, 0))
	inside := min(max(qx, qy), 0)
	return outside + inside - radius
}

// intersectMask multiplies mask by clip in place
func intersectMask(mask, clip *image.Alpha) {
	if clip == nil {
		return
	}
	for y := mask.Rect.Min.Y; y < mask.Rect.Max.Y; y++ {
		for x := mask.Rect.Min.X; x < mask.Rect.Max.X; x++ {
			m := mask.AlphaAt(x, y).A
			c := clip.AlphaAt(x, y).A
			mask.SetAlpha(x, y, color.Alpha{A: uint8(uint16(m) * uint16(c) / 255)})
		}
	}
}

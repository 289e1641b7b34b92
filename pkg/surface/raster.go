package surface

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Raster is a Surface backed by an RGBA image. Resizing rescales the
// current pixels to the new bounds. Safe for concurrent use.
type Raster struct {
	mu        sync.Mutex
	width     float64
	height    float64
	img       *image.RGBA
	destroyed bool
}

// NewRaster returns a transparent raster of the given logical size. Pixel
// dimensions are the size rounded up.
func NewRaster(width, height float64) (*Raster, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	return &Raster{
		width:  width,
		height: height,
		img:    image.NewRGBA(pixelRect(width, height)),
	}, nil
}

func pixelRect(width, height float64) image.Rectangle {
	return image.Rect(0, 0, int(math.Ceil(width)), int(math.Ceil(height)))
}

// Size returns the logical size.
func (r *Raster) Size() (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Resize changes the logical size and rescales the pixels.
func (r *Raster) Resize(width, height float64) error {
	if err := checkSize(width, height); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return ErrSurfaceDestroyed
	}
	dst := image.NewRGBA(pixelRect(width, height))
	if !r.img.Bounds().Empty() && !dst.Bounds().Empty() {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), r.img, r.img.Bounds(), xdraw.Src, nil)
	}
	r.img = dst
	r.width, r.height = width, height
	return nil
}

// Destroy releases the pixel buffer. Later calls are no-ops.
func (r *Raster) Destroy() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroyed = true
	r.img = nil
	return nil
}

// Destroyed reports whether Destroy was called.
func (r *Raster) Destroyed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyed
}

// Image returns the backing image, or nil once destroyed.
func (r *Raster) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.img
}

// Fill paints every pixel with c.
func (r *Raster) Fill(c color.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return ErrSurfaceDestroyed
	}
	xdraw.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
	return nil
}

// DrawText draws s with its baseline at (x, y) using a fixed 7x13 face.
func (r *Raster) DrawText(s string, x, y int, c color.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return ErrSurfaceDestroyed
	}
	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
	return nil
}

// EncodePNG writes the current pixels to w.
func (r *Raster) EncodePNG(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return ErrSurfaceDestroyed
	}
	return png.Encode(w, r.img)
}

// RasterFactory creates Raster surfaces.
type RasterFactory struct{}

// NewSurface returns a new Raster with plugins applied.
func (RasterFactory) NewSurface(width, height float64, plugins []Plugin) (Surface, error) {
	r, err := NewRaster(width, height)
	if err != nil {
		return nil, err
	}
	if err := ApplyPlugins(r, plugins); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

package reader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/tsawler/pdfconv/core"
	"github.com/tsawler/pdfconv/graphicsstate"
	"github.com/tsawler/pdfconv/internal/filters"
	"github.com/tsawler/pdfconv/model"
)

// Image is an image painted on a page.
type Image struct {
	// Name is the XObject resource name, or "inline".
	Name string
	// Data is an encoded image file: PNG for decoded samples, or the
	// JPEG / JPEG 2000 payload as stored.
	Data []byte
	// Filter is the passthrough filter that produced Data, or empty when
	// Data is a PNG built from samples.
	Filter string
	// Width and Height are the bitmap size in pixels.
	Width, Height int
	// CTM maps the unit square onto the page.
	CTM model.Matrix
}

// Bounds returns the area the image covers on the page.
func (img Image) Bounds() model.Rect {
	return img.CTM.UnitSquare()
}

var errNoData = errors.New("image has no data")

func (r *Reader) decodeImage(p graphicsstate.ImagePaint) (*Image, error) {
	if p.Stream == nil {
		return nil, errNoData
	}
	dict := p.Stream.Dict
	w, _ := core.ResolveNumber(r, dict.Get("Width"))
	h, _ := core.ResolveNumber(r, dict.Get("Height"))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid size %vx%v", w, h)
	}
	img := &Image{Name: p.Name, Width: int(w), Height: int(h), CTM: p.CTM}

	data, err := p.Stream.Decode()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errNoData
	}
	for _, f := range p.Stream.Filters() {
		if filters.IsPassthrough(f) {
			img.Filter = f
			img.Data = data
			return img, nil
		}
	}

	raw := rawImage{width: img.Width, height: img.Height, data: data, bpc: 8}
	if bpc, ok := core.ResolveNumber(r, dict.Get("BitsPerComponent")); ok {
		raw.bpc = int(bpc)
	}
	if mask, ok := dict.Get("ImageMask").(core.Bool); ok && bool(mask) {
		raw.bpc = 1
		raw.cs = colorSpace{kind: csGray, comps: 1}
	} else {
		raw.cs, err = r.colorSpace(dict.Get("ColorSpace"), p.Resources, 0)
		if err != nil {
			return nil, err
		}
	}
	if arr, ok := core.ResolveArray(r, dict.Get("Decode")); ok {
		raw.decode, _ = arr.Floats()
	}

	img.Data, err = raw.png()
	if err != nil {
		return nil, err
	}
	return img, nil
}

type csKind int

const (
	csGray csKind = iota
	csRGB
	csCMYK
	csIndexed
	// csSeparation is a single tint: 0 is no ink, 1 is full ink.
	csSeparation
)

type colorSpace struct {
	kind  csKind
	comps int
	// base and palette are set for indexed colour spaces.
	base    *colorSpace
	palette []byte
}

func (r *Reader) colorSpace(obj core.Object, res core.Dict, depth int) (colorSpace, error) {
	if depth > 4 {
		return colorSpace{}, fmt.Errorf("colour space nested too deeply")
	}
	o, err := core.ResolveFully(r, obj)
	if err != nil {
		return colorSpace{}, err
	}

	switch v := o.(type) {
	case nil, core.Null:
		return colorSpace{kind: csGray, comps: 1}, nil
	case core.Name:
		switch v {
		case "DeviceGray", "G", "CalGray":
			return colorSpace{kind: csGray, comps: 1}, nil
		case "DeviceRGB", "RGB", "CalRGB":
			return colorSpace{kind: csRGB, comps: 3}, nil
		case "DeviceCMYK", "CMYK":
			return colorSpace{kind: csCMYK, comps: 4}, nil
		}
		// A named resource, as used by inline images.
		spaces, _ := core.ResolveDict(r, res.Get("ColorSpace"))
		if named := spaces.Get(string(v)); named != nil {
			return r.colorSpace(named, res, depth+1)
		}
		return colorSpace{}, fmt.Errorf("unknown colour space /%s", v)
	case core.Array:
		family, _ := v.Get(0).(core.Name)
		switch family {
		case "CalGray", "CalRGB", "DeviceGray", "DeviceRGB", "DeviceCMYK":
			return r.colorSpace(family, res, depth+1)
		case "ICCBased":
			stream, ok := core.ResolveStream(r, v.Get(1))
			if !ok {
				return colorSpace{}, fmt.Errorf("ICCBased without profile stream")
			}
			n, _ := stream.Dict.GetInt("N")
			switch n {
			case 1:
				return colorSpace{kind: csGray, comps: 1}, nil
			case 3:
				return colorSpace{kind: csRGB, comps: 3}, nil
			case 4:
				return colorSpace{kind: csCMYK, comps: 4}, nil
			}
			if alt := stream.Dict.Get("Alternate"); alt != nil {
				return r.colorSpace(alt, res, depth+1)
			}
			return colorSpace{}, fmt.Errorf("ICCBased with %d components", n)
		case "Indexed", "I":
			return r.indexed(v, res, depth)
		case "Separation":
			return colorSpace{kind: csSeparation, comps: 1}, nil
		}
		return colorSpace{}, fmt.Errorf("unsupported colour space /%s", family)
	}
	return colorSpace{}, fmt.Errorf("invalid colour space %T", o)
}

func (r *Reader) indexed(arr core.Array, res core.Dict, depth int) (colorSpace, error) {
	if len(arr) < 4 {
		return colorSpace{}, fmt.Errorf("indexed colour space has %d entries", len(arr))
	}
	base, err := r.colorSpace(arr.Get(1), res, depth+1)
	if err != nil {
		return colorSpace{}, err
	}
	if base.kind == csIndexed {
		return colorSpace{}, fmt.Errorf("indexed colour space over indexed base")
	}
	hival, _ := core.ResolveNumber(r, arr.Get(2))

	var palette []byte
	lookup, err := core.ResolveFully(r, arr.Get(3))
	if err != nil {
		return colorSpace{}, err
	}
	switch l := lookup.(type) {
	case core.String:
		palette = []byte(l)
	case *core.Stream:
		palette, err = l.Decode()
		if err != nil {
			return colorSpace{}, fmt.Errorf("indexed lookup: %w", err)
		}
	default:
		return colorSpace{}, fmt.Errorf("indexed lookup is %T", lookup)
	}
	if need := (int(hival) + 1) * base.comps; len(palette) < need {
		return colorSpace{}, fmt.Errorf("indexed lookup has %d bytes, need %d", len(palette), need)
	}
	return colorSpace{kind: csIndexed, comps: 1, base: &base, palette: palette}, nil
}

// rawImage is uncompressed sample data.
type rawImage struct {
	width, height int
	bpc           int
	cs            colorSpace
	decode        []float64
	data          []byte
}

func (ri rawImage) png() ([]byte, error) {
	img, err := ri.toImage()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (ri rawImage) toImage() (image.Image, error) {
	switch ri.bpc {
	case 1, 2, 4, 8, 16:
	default:
		return nil, fmt.Errorf("unsupported bits per component: %d", ri.bpc)
	}
	if ri.cs.comps == 0 {
		ri.cs = colorSpace{kind: csGray, comps: 1}
	}
	stride := (ri.width*ri.cs.comps*ri.bpc + 7) / 8
	if need := stride * ri.height; len(ri.data) < need {
		return nil, fmt.Errorf("insufficient data: got %d, expected %d", len(ri.data), need)
	}

	rect := image.Rect(0, 0, ri.width, ri.height)
	var gray *image.Gray
	var rgba *image.RGBA
	if ri.cs.kind == csGray || ri.cs.kind == csSeparation {
		gray = image.NewGray(rect)
	} else {
		rgba = image.NewRGBA(rect)
	}

	samples := make([]int, ri.cs.comps)
	for y := 0; y < ri.height; y++ {
		row := ri.data[y*stride : (y+1)*stride]
		for x := 0; x < ri.width; x++ {
			for c := range samples {
				samples[c] = ri.sample(row, x*ri.cs.comps+c, c)
			}
			switch ri.cs.kind {
			case csGray:
				gray.Pix[y*gray.Stride+x] = uint8(samples[0])
			case csSeparation:
				gray.Pix[y*gray.Stride+x] = 255 - uint8(samples[0])
			case csRGB:
				rgba.SetRGBA(x, y, color.RGBA{uint8(samples[0]), uint8(samples[1]), uint8(samples[2]), 255})
			case csCMYK:
				cr, cg, cb := color.CMYKToRGB(uint8(samples[0]), uint8(samples[1]), uint8(samples[2]), uint8(samples[3]))
				rgba.SetRGBA(x, y, color.RGBA{cr, cg, cb, 255})
			case csIndexed:
				rgba.SetRGBA(x, y, ri.cs.lookup(samples[0]))
			}
		}
	}
	if gray != nil {
		return gray, nil
	}
	return rgba, nil
}

// sample returns component i of a row. Values are scaled to 0..255, or
// left as palette indexes for indexed images. A /Decode pair with min >
// max inverts the component.
func (ri rawImage) sample(row []byte, i, comp int) int {
	var v, top int
	switch ri.bpc {
	case 16:
		v = int(row[i*2])
		top = 255
	case 8:
		v = int(row[i])
		top = 255
	default:
		bit := i * ri.bpc
		shift := 8 - ri.bpc - bit%8
		top = 1<<ri.bpc - 1
		v = int(row[bit/8]>>shift) & top
	}
	if len(ri.decode) >= 2*comp+2 && ri.decode[2*comp] > ri.decode[2*comp+1] {
		v = top - v
	}
	if ri.cs.kind == csIndexed {
		return v
	}
	return v * 255 / top
}

func (cs colorSpace) lookup(index int) color.RGBA {
	n := cs.base.comps
	off := index * n
	if off+n > len(cs.palette) {
		return color.RGBA{A: 255}
	}
	e := cs.palette[off : off+n]
	switch cs.base.kind {
	case csRGB:
		return color.RGBA{e[0], e[1], e[2], 255}
	case csCMYK:
		r, g, b := color.CMYKToRGB(e[0], e[1], e[2], e[3])
		return color.RGBA{r, g, b, 255}
	case csSeparation:
		return color.RGBA{255 - e[0], 255 - e[0], 255 - e[0], 255}
	}
	return color.RGBA{e[0], e[0], e[0], 255}
}

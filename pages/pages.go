package pages

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfconv/core"
	"github.com/tsawler/pdfconv/model"
)

// maxDepth bounds the page tree height.
const maxDepth = 64

// ErrNoPageTree is returned when the catalog has no usable /Pages entry.
var ErrNoPageTree = errors.New("catalog has no page tree")

// DefaultMediaBox is US Letter, used when no box is declared anywhere.
var DefaultMediaBox = model.Rect{Width: 612, Height: 792}

// Catalog wraps the document catalog.
type Catalog struct {
	dict     core.Dict
	resolver core.Resolver
}

// NewCatalog returns a catalog view of dict.
func NewCatalog(dict core.Dict, resolver core.Resolver) *Catalog {
	return &Catalog{dict: dict, resolver: resolver}
}

// Version returns the /Version override, or "".
func (c *Catalog) Version() string {
	n, _ := core.ResolveName(c.resolver, c.dict.Get("Version"))
	return string(n)
}

// PageTree builds the page tree rooted at /Pages.
func (c *Catalog) PageTree() (*PageTree, error) {
	root, ok := core.ResolveDict(c.resolver, c.dict.Get("Pages"))
	if !ok {
		return nil, ErrNoPageTree
	}
	return NewPageTree(root, c.resolver)
}

// inherited holds attributes passed down from /Pages nodes.
type inherited struct {
	resources core.Object
	mediaBox  core.Object
	cropBox   core.Object
	rotate    core.Object
}

func (in inherited) with(node core.Dict) inherited {
	if v := node.Get("Resources"); v != nil {
		in.resources = v
	}
	if v := node.Get("MediaBox"); v != nil {
		in.mediaBox = v
	}
	if v := node.Get("CropBox"); v != nil {
		in.cropBox = v
	}
	if v := node.Get("Rotate"); v != nil {
		in.rotate = v
	}
	return in
}

// PageTree is the flattened, document-ordered page list.
type PageTree struct {
	pages []*Page
}

// NewPageTree walks the tree rooted at root.
func NewPageTree(root core.Dict, resolver core.Resolver) (*PageTree, error) {
	t := &PageTree{}
	w := walker{resolver: resolver, seen: make(map[int]bool), tree: t}
	if err := w.visit(root, inherited{}, 0); err != nil {
		return nil, fmt.Errorf("page tree: %w", err)
	}
	return t, nil
}

// Count returns the number of leaf pages found.
func (t *PageTree) Count() int {
	return len(t.pages)
}

// Page returns the page at a 0-based index.
func (t *PageTree) Page(index int) (*Page, error) {
	if index < 0 || index >= len(t.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(t.pages))
	}
	return t.pages[index], nil
}

// Pages returns all pages in document order.
func (t *PageTree) Pages() []*Page {
	return t.pages
}

type walker struct {
	resolver core.Resolver
	seen     map[int]bool
	tree     *PageTree
}

func (w *walker) visit(node core.Dict, in inherited, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("tree deeper than %d levels", maxDepth)
	}
	in = in.with(node)

	kids, hasKids := core.ResolveArray(w.resolver, node.Get("Kids"))
	typ, _ := node.GetName("Type")
	if typ == "Page" || (typ != "Pages" && !hasKids) {
		w.tree.pages = append(w.tree.pages, newPage(node, in, len(w.tree.pages)+1, w.resolver))
		return nil
	}

	for _, kid := range kids {
		if ref, ok := kid.(core.IndirectRef); ok {
			if w.seen[ref.Number] {
				continue
			}
			w.seen[ref.Number] = true
		}
		child, ok := core.ResolveDict(w.resolver, kid)
		if !ok {
			continue
		}
		if err := w.visit(child, in, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Page is one leaf of the page tree with its effective attributes.
type Page struct {
	// Number is the 1-based position in document order.
	Number int

	dict      core.Dict
	resources core.Dict
	mediaBox  model.Rect
	cropBox   model.Rect
	rotate    int
	resolver  core.Resolver
}

func newPage(dict core.Dict, in inherited, number int, r core.Resolver) *Page {
	p := &Page{Number: number, dict: dict, resolver: r, mediaBox: DefaultMediaBox}
	if res, ok := core.ResolveDict(r, in.resources); ok {
		p.resources = res
	} else {
		p.resources = core.Dict{}
	}
	if box, ok := resolveBox(r, in.mediaBox); ok {
		p.mediaBox = box
	}
	p.cropBox = p.mediaBox
	if box, ok := resolveBox(r, in.cropBox); ok {
		p.cropBox = box
	}
	if rot, ok := core.ResolveNumber(r, in.rotate); ok {
		p.rotate = ((int(rot)%360 + 360) % 360) / 90 * 90
	}
	return p
}

func resolveBox(r core.Resolver, obj core.Object) (model.Rect, bool) {
	arr, ok := core.ResolveArray(r, obj)
	if !ok || len(arr) != 4 {
		return model.Rect{}, false
	}
	v := make([]float64, 4)
	for i, o := range arr {
		n, ok := core.ResolveNumber(r, o)
		if !ok {
			return model.Rect{}, false
		}
		v[i] = n
	}
	x0, x1 := min(v[0], v[2]), max(v[0], v[2])
	y0, y1 := min(v[1], v[3]), max(v[1], v[3])
	if x1-x0 <= 0 || y1-y0 <= 0 {
		return model.Rect{}, false
	}
	return model.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// Dict returns the page dictionary.
func (p *Page) Dict() core.Dict { return p.dict }

// Resources returns the effective resource dictionary, never nil.
func (p *Page) Resources() core.Dict { return p.resources }

// MediaBox returns the effective media box.
func (p *Page) MediaBox() model.Rect { return p.mediaBox }

// CropBox returns the effective crop box, defaulting to the media box.
func (p *Page) CropBox() model.Rect { return p.cropBox }

// Rotate returns the rotation in degrees: 0, 90, 180 or 270.
func (p *Page) Rotate() int { return p.rotate }

// Contents returns the concatenated, decoded content streams. Streams are
// joined with a newline so operators cannot fuse across the boundary.
func (p *Page) Contents() ([]byte, error) {
	obj, err := core.ResolveFully(p.resolver, p.dict.Get("Contents"))
	if err != nil {
		return nil, err
	}
	var streams []*core.Stream
	switch v := obj.(type) {
	case nil, core.Null:
		return nil, nil
	case *core.Stream:
		streams = append(streams, v)
	case core.Array:
		for i, o := range v {
			s, ok := core.ResolveStream(p.resolver, o)
			if !ok {
				return nil, fmt.Errorf("contents[%d] is not a stream", i)
			}
			streams = append(streams, s)
		}
	default:
		return nil, fmt.Errorf("invalid /Contents type %s", obj.Type())
	}

	var out []byte
	for i, s := range streams {
		data, err := s.Decode()
		if err != nil {
			return nil, fmt.Errorf("contents[%d]: %w", i, err)
		}
		out = append(out, data...)
		out = append(out, '\n')
	}
	return out, nil
}

package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/tsawler/pdfconv/core"
	"github.com/tsawler/pdfconv/font"
	"github.com/tsawler/pdfconv/graphicsstate"
	"github.com/tsawler/pdfconv/model"
	"github.com/tsawler/pdfconv/pages"
	"github.com/tsawler/pdfconv/text"
)

var (
	// ErrEmpty is returned for a zero-length input.
	ErrEmpty = errors.New("empty input")
	// ErrNotPDF is returned when the input has no %PDF- header.
	ErrNotPDF = errors.New("missing %PDF- header")
	// ErrEncrypted is returned for documents with an /Encrypt dictionary.
	ErrEncrypted = errors.New("encrypted documents are not supported")
)

// headerWindow is how far into the file the %PDF- marker may appear.
const headerWindow = 1024

// PDFVersion is the version declared in the file header.
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as "1.7".
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Reader gives access to the objects and pages of one PDF held in
// memory. It is safe for concurrent use.
type Reader struct {
	data    []byte
	version PDFVersion
	xref    *core.XRefTable
	trailer core.Dict

	mu         sync.Mutex
	cache      map[int]core.Object
	objStreams map[int]*core.ObjectStream

	treeOnce sync.Once
	tree     *pages.PageTree
	treeErr  error
}

// New reads size bytes from r and parses the document structure.
func New(r io.ReaderAt, size int64) (*Reader, error) {
	if size <= 0 {
		return nil, ErrEmpty
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(r, 0, size), data); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return FromBytes(data)
}

// Open reads the file at path.
func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return FromBytes(data)
}

// FromBytes parses a document held in data. The slice must not be
// modified afterwards.
func FromBytes(data []byte) (*Reader, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	version, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	xref, err := core.LoadXRef(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load xref: %w", err)
	}
	if xref.Trailer.Has("Encrypt") {
		return nil, ErrEncrypted
	}
	return &Reader{
		data:       data,
		version:    version,
		xref:       xref,
		trailer:    xref.Trailer,
		cache:      make(map[int]core.Object),
		objStreams: make(map[int]*core.ObjectStream),
	}, nil
}

var versionPattern = regexp.MustCompile(`^%PDF-(\d+)\.(\d+)`)

func parseHeader(data []byte) (PDFVersion, error) {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	idx := bytes.Index(window, []byte("%PDF-"))
	if idx < 0 {
		return PDFVersion{}, ErrNotPDF
	}
	m := versionPattern.FindSubmatch(window[idx:])
	if m == nil {
		return PDFVersion{}, fmt.Errorf("invalid version in header: %w", ErrNotPDF)
	}
	major, _ := strconv.Atoi(string(m[1]))
	minor, _ := strconv.Atoi(string(m[2]))
	return PDFVersion{Major: major, Minor: minor}, nil
}

// Close drops the document buffer and cached objects.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = nil
	r.cache = make(map[int]core.Object)
	r.objStreams = make(map[int]*core.ObjectStream)
	return nil
}

// Version returns the header version.
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Trailer returns the merged trailer dictionary.
func (r *Reader) Trailer() core.Dict {
	return r.trailer
}

// Size returns the input length in bytes.
func (r *Reader) Size() int {
	return len(r.data)
}

// Object returns object num. Objects missing from the cross-reference
// table, or marked free, are null.
func (r *Reader) Object(num int) (core.Object, error) {
	r.mu.Lock()
	obj, ok := r.cache[num]
	r.mu.Unlock()
	if ok {
		return obj, nil
	}

	obj, err := r.load(num, make(map[int]bool))
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.cache[num] = obj
	r.mu.Unlock()
	return obj, nil
}

// load parses an object without holding the lock. visiting holds the
// objects being loaded by this call chain, so an indirect /Length that
// points back into the chain fails instead of recursing.
func (r *Reader) load(num int, visiting map[int]bool) (core.Object, error) {
	entry, ok := r.xref.Get(num)
	if !ok || entry.Type == core.XRefEntryFree {
		return core.Null{}, nil
	}
	if visiting[num] {
		return nil, fmt.Errorf("object %d is needed to load itself", num)
	}
	visiting[num] = true
	defer delete(visiting, num)

	switch entry.Type {
	case core.XRefEntryCompressed:
		stm, err := r.objectStream(entry.Stream, visiting)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", num, err)
		}
		return stm.Object(num, entry.Index)
	default:
		if entry.Offset < 0 || entry.Offset >= int64(len(r.data)) {
			return nil, fmt.Errorf("object %d offset %d outside file", num, entry.Offset)
		}
		p := core.NewParser(r.data)
		p.SetReferenceResolver(&lengthResolver{r: r, visiting: visiting})
		p.Seek(int(entry.Offset))
		ind, err := p.ParseIndirectObject()
		if err != nil {
			return nil, fmt.Errorf("failed to parse object %d: %w", num, err)
		}
		if ind.Ref.Number != num {
			return nil, fmt.Errorf("object number mismatch: expected %d, got %d", num, ind.Ref.Number)
		}
		return ind.Object, nil
	}
}

func (r *Reader) objectStream(num int, visiting map[int]bool) (*core.ObjectStream, error) {
	r.mu.Lock()
	stm, ok := r.objStreams[num]
	r.mu.Unlock()
	if ok {
		return stm, nil
	}

	obj, err := r.load(num, visiting)
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(*core.Stream)
	if !ok {
		return nil, fmt.Errorf("object stream %d is %T", num, obj)
	}
	stm, err = core.NewObjectStream(stream)
	if err != nil {
		return nil, fmt.Errorf("object stream %d: %w", num, err)
	}
	r.mu.Lock()
	r.objStreams[num] = stm
	r.mu.Unlock()
	return stm, nil
}

// lengthResolver resolves indirect stream lengths inside one load chain.
type lengthResolver struct {
	r        *Reader
	visiting map[int]bool
}

func (lr *lengthResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	lr.r.mu.Lock()
	obj, ok := lr.r.cache[ref.Number]
	lr.r.mu.Unlock()
	if ok {
		return obj, nil
	}
	return lr.r.load(ref.Number, lr.visiting)
}

// ResolveReference returns the object ref points to.
func (r *Reader) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.Object(ref.Number)
}

// Resolve implements core.Resolver.
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return r.ResolveReference(ref)
	}
	return obj, nil
}

// Catalog returns the document catalog.
func (r *Reader) Catalog() (*pages.Catalog, error) {
	if !r.trailer.Has("Root") {
		return nil, fmt.Errorf("trailer missing /Root entry")
	}
	dict, ok := core.ResolveDict(r, r.trailer.Get("Root"))
	if !ok {
		return nil, fmt.Errorf("catalog is not a dictionary")
	}
	return pages.NewCatalog(dict, r), nil
}

// Info returns the document information dictionary as metadata. A
// missing dictionary yields zero metadata.
func (r *Reader) Info() model.Metadata {
	var md model.Metadata
	info, ok := core.ResolveDict(r, r.trailer.Get("Info"))
	if !ok {
		return md
	}
	str := func(key string) string {
		o, err := core.ResolveFully(r, info.Get(key))
		if err != nil {
			return ""
		}
		s, _ := o.(core.String)
		return font.DecodeTextString([]byte(s))
	}
	md.Title = str("Title")
	md.Author = str("Author")
	md.Subject = str("Subject")
	md.Keywords = str("Keywords")
	md.Creator = str("Creator")
	md.Producer = str("Producer")
	md.CreationDate, _ = ParseDate(str("CreationDate"))
	md.ModDate, _ = ParseDate(str("ModDate"))
	return md
}

var datePattern = regexp.MustCompile(`^(?:D:)?(\d{4})(\d{2})?(\d{2})?(\d{2})?(\d{2})?(\d{2})?([Zz+\-])?(\d{2})?'?(\d{2})?'?`)

// ParseDate parses a date string such as "D:20240131120000+01'00'".
// Missing trailing fields take their lowest value.
func ParseDate(s string) (time.Time, error) {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	field := func(i, def int) int {
		if m[i] == "" {
			return def
		}
		n, _ := strconv.Atoi(m[i])
		return n
	}
	loc := time.UTC
	if sign := m[7]; sign == "+" || sign == "-" {
		offset := field(8, 0)*3600 + field(9, 0)*60
		if sign == "-" {
			offset = -offset
		}
		loc = time.FixedZone("", offset)
	}
	return time.Date(field(1, 0), time.Month(field(2, 1)), field(3, 1),
		field(4, 0), field(5, 0), field(6, 0), 0, loc), nil
}

func (r *Reader) pageTree() (*pages.PageTree, error) {
	r.treeOnce.Do(func() {
		cat, err := r.Catalog()
		if err != nil {
			r.treeErr = err
			return
		}
		r.tree, r.treeErr = cat.PageTree()
	})
	return r.tree, r.treeErr
}

// PageCount returns the number of pages.
func (r *Reader) PageCount() (int, error) {
	tree, err := r.pageTree()
	if err != nil {
		return 0, err
	}
	return tree.Count(), nil
}

// Page returns the page at index (0-based).
func (r *Reader) Page(index int) (*pages.Page, error) {
	tree, err := r.pageTree()
	if err != nil {
		return nil, err
	}
	return tree.Page(index)
}

// Pages returns every page in document order.
func (r *Reader) Pages() ([]*pages.Page, error) {
	tree, err := r.pageTree()
	if err != nil {
		return nil, err
	}
	return tree.Pages(), nil
}

// PageContent is what one page's content stream shows and paints.
type PageContent struct {
	Lines    []text.Line
	Images   []Image
	Warnings []string
}

// Text returns the page text, one line per line and an empty line
// between paragraphs.
func (c *PageContent) Text() string {
	var b bytes.Buffer
	for i, l := range c.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.Text)
	}
	return b.String()
}

// pageHandler collects text through the embedded collector and decodes
// painted images.
type pageHandler struct {
	*text.Collector
	r        *Reader
	images   []Image
	warnings []string
}

func (h *pageHandler) PaintImage(p graphicsstate.ImagePaint) {
	img, err := h.r.decodeImage(p)
	if err != nil {
		h.warnings = append(h.warnings, fmt.Sprintf("image /%s: %v", p.Name, err))
		return
	}
	h.images = append(h.images, *img)
}

// Interpret runs the page's content stream. A content stream that cannot
// be parsed is an error; problems confined to one font, image or form are
// returned as warnings.
func (r *Reader) Interpret(page *pages.Page) (*PageContent, error) {
	data, err := page.Contents()
	if err != nil {
		return nil, fmt.Errorf("page %d contents: %w", page.Number, err)
	}
	h := &pageHandler{Collector: text.NewCollector(), r: r}
	in := graphicsstate.NewInterpreter(r, h)
	if err := in.Run(data, page.Resources()); err != nil {
		return nil, fmt.Errorf("page %d content stream: %w", page.Number, err)
	}
	return &PageContent{
		Lines:    h.Lines(),
		Images:   h.images,
		Warnings: append(in.Warnings(), h.warnings...),
	}, nil
}

// PageText returns the text of a page.
func (r *Reader) PageText(page *pages.Page) (string, error) {
	c, err := r.Interpret(page)
	if err != nil {
		return "", err
	}
	return c.Text(), nil
}

// PageImages returns the images painted on a page.
func (r *Reader) PageImages(page *pages.Page) ([]Image, error) {
	c, err := r.Interpret(page)
	if err != nil {
		return nil, err
	}
	return c.Images, nil
}

// Package reader reads PDF documents held in memory and interprets their
// pages.
//
// # Opening Documents
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// [New] reads from an io.ReaderAt and [FromBytes] takes a buffer. The
// whole file is loaded up front, so a Reader never shares a file offset
// between goroutines. Encrypted documents are rejected with
// [ErrEncrypted].
//
// # Objects
//
// Objects are parsed on first use and cached. Both classic
// cross-reference tables and cross-reference streams are supported, as
// are objects stored in object streams. A Reader implements
// core.Resolver.
//
// # Pages
//
//	n, _ := r.PageCount()
//	page, _ := r.Page(0)
//	content, err := r.Interpret(page)
//
// [Reader.Interpret] runs the page's content stream once and returns its
// text lines and its images. Images are re-encoded as PNG unless they
// are stored as JPEG or JPEG 2000.
package reader

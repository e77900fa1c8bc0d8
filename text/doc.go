// Package text assembles the strings shown on a page into lines of text.
//
// A [Collector] receives text runs from the content stream interpreter,
// keeps them as positioned [Fragment] values, and groups them into
// [Line] values in reading order:
//
//	c := text.NewCollector()
//	in := graphicsstate.NewInterpreter(resolver, c)
//	_ = in.Run(content, resources)
//	for _, line := range c.Lines() {
//		fmt.Println(line.Text)
//	}
//
// # Spacing
//
// Fragments on the same baseline are joined with a space when the gap
// between them is wide enough to be a word break. Word-level streams are
// measured against the width of the font's space glyph; streams that
// place one character at a time use the distribution of gaps on the line.
//
// # Paragraphs
//
// A vertical gap larger than one and a half times the font size between
// two lines is reported as an empty [Line], so the joined text separates
// paragraphs with a blank line.
//
// # Text Direction
//
// Lines dominated by right-to-left scripts (Arabic, Hebrew and others)
// are ordered right to left. See [DetectDirection].
package text

// Package graphicsstate interprets page content streams.
//
// [State] models the parts of the PDF graphics state that matter for
// recovering text and images: the current transformation matrix and the
// text state (font, size, spacing, scaling, leading, rise and the text
// matrices). q and Q save and restore it.
//
// [Interpreter] runs a content stream against a page's resources and
// reports what it paints to a [Handler]:
//
//	in := graphicsstate.NewInterpreter(resolver, handler)
//	err := in.Run(content, resources)
//	warnings := in.Warnings()
//
// Form XObjects are entered recursively with their /Matrix applied and
// their own resources, and a form that invokes itself is skipped. Image
// XObjects and inline images are reported with the CTM in effect when
// they are painted.
package graphicsstate

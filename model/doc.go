// Package model defines the geometry model shared by extraction and every
// output format: a Document of Pages, each holding positioned Elements.
//
// Coordinates are PDF user-space points with y growing upward. Within a
// page, elements are kept in reading order: descending y, then ascending x.
// [Page.Add] restores that order after every append.
//
// A Document is built once per conversion and is not modified after the
// extraction stage hands it over.
package model

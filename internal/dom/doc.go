// Package dom is the reference host surface for caret: a parsed HTML
// document with a single native selection, a focus model and a simple
// monospace layout that answers bounding-rectangle and scroll-metric
// queries.
//
// Native nodes are *html.Node values from golang.org/x/net/html. A native
// boundary is a (node, offset) pair: for text nodes the offset counts
// runes, for element nodes it counts children.
//
// Layout model:
//
//   - every element child of the editing root is one row of LineHeight
//   - text runes and embedded elements are CharWidth wide, <br> and the
//     zero-width no-break space are 0 wide
//   - elements registered with SetBox carry explicit document-absolute
//     geometry and scroll state; everything inside them moves with their
//     scroll offsets
package dom

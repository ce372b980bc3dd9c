// Package blot is the reference content tree: a linear index space laid
// over the editing root of a dom.Document.
//
// The DOM stays the source of truth. The Scroll keeps a registry from
// native nodes to blots and resynchronizes it whenever the tree is
// updated or optimized.
//
// Index space:
//
//	<p>ab<img></p><p><br></p>
//	 0 1 2    3     4
//
// Text contributes one unit per rune, embeds one unit, breaks and the
// cursor placeholder nothing, and every block one trailing newline.
package blot

package dom

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ZeroWidth is the zero-width no-break space used by placeholders.
const ZeroWidth = "\ufeff"

const zeroWidthRune = '\ufeff'

// IsText returns true for text nodes.
func IsText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// IsElement returns true for element nodes.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// IsBreak returns true for <br> elements.
func IsBreak(n *html.Node) bool {
	return IsElement(n) && n.DataAtom == atom.Br
}

// TextLength returns the rune length of a text node, 0 otherwise.
func TextLength(n *html.Node) int {
	if !IsText(n) {
		return 0
	}
	return utf8.RuneCountInString(n.Data)
}

// MaxOffset returns the largest valid boundary offset inside n.
func MaxOffset(n *html.Node) int {
	if IsText(n) {
		return TextLength(n)
	}
	return ChildCount(n)
}

// ChildCount returns the number of children of n.
func ChildCount(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// ChildAt returns the i-th child of n or nil.
func ChildAt(n *html.Node, i int) *html.Node {
	if i < 0 {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if i == 0 {
			return c
		}
		i--
	}
	return nil
}

// ChildIndex returns the position of n among its siblings, or -1 when
// n has no parent.
func ChildIndex(n *html.Node) int {
	if n == nil || n.Parent == nil {
		return -1
	}
	i := 0
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c == n {
			return i
		}
		i++
	}
	return -1
}

// Contains reports whether n is parent or one of its descendants.
func Contains(parent, n *html.Node) bool {
	if parent == nil {
		return false
	}
	for ; n != nil; n = n.Parent {
		if n == parent {
			return true
		}
	}
	return false
}

// Attached reports whether n has a parent.
func Attached(n *html.Node) bool {
	return n != nil && n.Parent != nil
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertBefore moves child under parent, before ref. A nil ref appends.
func InsertBefore(parent, child, ref *html.Node) {
	Detach(child)
	parent.InsertBefore(child, ref)
}

// NewText creates a detached text node.
func NewText(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

// NewElement creates a detached element with optional key/value attributes.
func NewElement(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasClass reports whether n carries class name.
func HasClass(n *html.Node, name string) bool {
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == name {
			return true
		}
	}
	return false
}

// SplitText splits a text node at rune offset, leaving the head in n and
// inserting the tail as a new sibling which is returned.
func SplitText(n *html.Node, offset int) *html.Node {
	runes := []rune(n.Data)
	if offset < 0 {
		offset = 0
	}
	if offset > len(runes) {
		offset = len(runes)
	}
	tail := NewText(string(runes[offset:]))
	n.Data = string(runes[:offset])
	if n.Parent != nil {
		n.Parent.InsertBefore(tail, n.NextSibling)
	}
	return tail
}

// TextContent returns the concatenated text of n and its descendants.
func TextContent(n *html.Node) string {
	if IsText(n) {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(TextContent(c))
	}
	return b.String()
}

// Render serializes n to HTML.
func Render(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

func visibleRunes(s string) int {
	return utf8.RuneCountInString(strings.ReplaceAll(s, ZeroWidth, ""))
}

func visibleRunesBefore(s string, offset int) int {
	count := 0
	i := 0
	for _, r := range s {
		if i >= offset {
			break
		}
		if r != zeroWidthRune {
			count++
		}
		i++
	}
	return count
}

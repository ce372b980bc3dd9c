package blot

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/dom"
)

var inlineTags = map[string]string{
	"bold":      "strong",
	"italic":    "em",
	"underline": "u",
	"strike":    "s",
	"code":      "code",
	"link":      "a",
}

var blockFormats = map[string]bool{
	"header":     true,
	"list":       true,
	"blockquote": true,
	"code-block": true,
	"align":      true,
	"direction":  true,
	"indent":     true,
}

// inline elements never start a line of their own.
var inlineElements = map[string]bool{
	"a": true, "b": true, "code": true, "em": true, "i": true, "s": true,
	"span": true, "strong": true, "sub": true, "sup": true, "u": true,
	"img": true, "br": true, "video": true, "iframe": true,
}

var embedElements = map[string]bool{
	"img":    true,
	"video":  true,
	"iframe": true,
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	return true
}

// formatElement creates the wrapper carrying format name.
func formatElement(name string, value any) *html.Node {
	tag, ok := inlineTags[name]
	switch {
	case name == "link":
		return dom.NewElement("a", "href", fmt.Sprint(value))
	case ok:
		return dom.NewElement(tag)
	}
	return dom.NewElement("span", "class", "ql-"+name+"-"+fmt.Sprint(value))
}

// formatOf reports the format a wrapper element carries.
func formatOf(n *html.Node) (string, any, bool) {
	if !dom.IsElement(n) {
		return "", nil, false
	}
	for name, tag := range inlineTags {
		if n.Data != tag {
			continue
		}
		if name == "link" {
			href, _ := dom.Attr(n, "href")
			return name, href, true
		}
		return name, true, true
	}
	if n.Data == "span" {
		class, _ := dom.Attr(n, "class")
		for _, c := range strings.Fields(class) {
			rest, ok := strings.CutPrefix(c, "ql-")
			if !ok || rest == "cursor" {
				continue
			}
			if name, value, ok := strings.Cut(rest, "-"); ok {
				return name, value, true
			}
		}
	}
	return "", nil, false
}

package utils

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLNode is an alias for the nodes of the (X)HTML parse tree,
// with some convenience methods.
type HTMLNode html.Node

// AsHTMLNode returns the underlying net/html node.
func (h *HTMLNode) AsHTMLNode() *html.Node { return (*html.Node)(h) }

// Get returns the value of the first attribute named `name`, or
// the empty string if it is absent.
func (h *HTMLNode) Get(name string) string {
	for _, attr := range h.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// NodeChildren returns the direct element and text children of the node.
// If `skipBlank` is true, text nodes containing only whitespace are dropped.
func (h *HTMLNode) NodeChildren(skipBlank bool) (children []*HTMLNode) {
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			children = append(children, (*HTMLNode)(c))
		case html.TextNode:
			if skipBlank && strings.TrimSpace(c.Data) == "" {
				continue
			}
			children = append(children, (*HTMLNode)(c))
		}
	}
	return children
}

func IsIn(l []string, s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

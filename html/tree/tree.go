// Package tree parses an HTML document and resolves the "display"
// classification of each element, building the styled tree consumed
// by the box construction passes (package html/boxes).
package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/benoitkugler/boxtree/logger"
	"github.com/benoitkugler/boxtree/utils"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML represents an HTML document parsed by net/html.
type HTML struct {
	Root *utils.HTMLNode

	// UAStyleSheet is the user agent style sheet, defaulting to
	// the embedded one. It is only consulted for "display".
	UAStyleSheet CSS

	authorSheets []CSS
}

// NewHTML parses an HTML document.
// Scripting is disabled, since no script will ever run.
func NewHTML(input io.Reader) (*HTML, error) {
	logger.ProgressLogger.Println("Step 1 - Parsing HTML")

	root, err := html.ParseWithOptions(input, html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, fmt.Errorf("invalid html input: %s", err)
	}

	var out HTML
	// html.Parse wraps the <html> tag in a document node
	child := root.FirstChild
	for child != nil && child.Type != html.ElementNode {
		child = child.NextSibling
	}
	if child == nil {
		return nil, fmt.Errorf("invalid html input: no root element")
	}
	out.Root = (*utils.HTMLNode)(child)
	out.Root.Parent = nil
	out.UAStyleSheet = UAStylesheet
	return &out, nil
}

// NewHTMLFromString is a convenience wrapper around [NewHTML].
func NewHTMLFromString(content string) (*HTML, error) {
	return NewHTML(strings.NewReader(content))
}

// StyledElement exposes the input contract of the box construction passes:
// a resolved display classification, the element's leading text run, its
// child elements in document order, and, per child, the text following it
// ("tail" text, owned by the parent).
//
// Elements with "display: none" are kept in the tree: the box builder is in
// charge of skipping them, so that their tail text is preserved.
type StyledElement struct {
	// Element is the source of this node in the HTML parse tree.
	Element *utils.HTMLNode

	// Display is the resolved display classification, such as
	// "block" or "inline".
	Display string

	// Text is the text run before the first child element.
	Text string

	// Tail is the text run following this element, before its
	// next sibling.
	Tail string

	Children []*StyledElement
}

// Tag returns the element name, such as "div".
func (s *StyledElement) Tag() string { return s.Element.Data }

// StyledTree resolves the display classification of every element of the
// document, from the user agent style sheet, the document's <style>
// elements and the "style" attributes.
//
// The returned tree is the expected input of boxes.BuildFormattingStructure.
func (h *HTML) StyledTree() *StyledElement {
	logger.ProgressLogger.Println("Step 2 - Resolving display classifications")

	h.authorSheets = h.extractStyleElements()
	return h.styledElement(h.Root.AsHTMLNode())
}

func (h *HTML) styledElement(element *html.Node) *StyledElement {
	out := &StyledElement{
		Element: (*utils.HTMLNode)(element),
		Display: h.resolveDisplay(element),
	}
	var last *StyledElement
	for child := element.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			if last == nil {
				out.Text += child.Data
			} else {
				last.Tail += child.Data
			}
		case html.ElementNode:
			last = h.styledElement(child)
			out.Children = append(out.Children, last)
		}
	}
	return out
}

// extractStyleElements collects and parses the content of the document's
// <style> elements, in document order. Unparsable sheets are ignored with
// a warning.
func (h *HTML) extractStyleElements() (sheets []CSS) {
	var walk func(node *utils.HTMLNode)
	walk = func(node *utils.HTMLNode) {
		if node.DataAtom == atom.Style {
			var content strings.Builder
			for _, child := range node.NodeChildren(false) {
				if child.Type == html.TextNode {
					content.WriteString(child.Data)
				}
			}
			sheet, err := NewCSS(content.String())
			if err != nil {
				logger.WarningLogger.Printf("invalid style element: %s", err)
				return
			}
			sheets = append(sheets, sheet)
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode {
				walk((*utils.HTMLNode)(child))
			}
		}
	}
	walk(h.Root)
	return sheets
}

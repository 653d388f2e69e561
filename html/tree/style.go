package tree

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	douceur "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/benoitkugler/boxtree/logger"
	"github.com/benoitkugler/boxtree/utils"
	"golang.org/x/net/html"
)

var (
	// UAStylesheet is the user agent style sheet, mapping the standard
	// HTML elements to their display classification.
	UAStylesheet CSS

	//go:embed ua.css
	uaCSS string
)

func init() {
	var err error
	UAStylesheet, err = NewCSS(uaCSS)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded stylesheet: %s", err))
	}
}

// CSS represents a parsed CSS stylesheet.
//
// Only qualified rules are retained: at-rules (@media, @page, ...) are out
// of scope for display resolution and are silently dropped.
type CSS struct {
	matcher matcher
}

// NewCSS parses a stylesheet. Rules with unparsable selectors are dropped
// with a warning.
func NewCSS(content string) (CSS, error) {
	stylesheet, err := parser.Parse(content)
	if err != nil {
		return CSS{}, fmt.Errorf("error parsing css input: %s", err)
	}

	var m matcher
	for _, rule := range stylesheet.Rules {
		if rule.Kind != douceur.QualifiedRule {
			continue
		}
		group, err := cascadia.ParseGroup(rule.Prelude)
		if err != nil {
			logger.WarningLogger.Printf("invalid selector %q: %s", rule.Prelude, err)
			continue
		}
		m = append(m, match{selector: group, declarations: rule.Declarations})
	}
	return CSS{matcher: m}, nil
}

func (c CSS) IsNone() bool { return c.matcher == nil }

type match struct {
	selector     cascadia.SelectorGroup
	declarations []*douceur.Declaration
}

type matcher []match

type matchResult struct {
	pseudoType  string
	payload     []*douceur.Declaration
	specificity cascadia.Specificity
}

func (m matcher) Match(element *html.Node) (out []matchResult) {
	for _, mat := range m {
		for _, sel := range mat.selector {
			if sel.Match(element) {
				out = append(out, matchResult{
					specificity: sel.Specificity(),
					pseudoType:  sel.PseudoElement(),
					payload:     mat.declarations,
				})
			}
		}
	}
	return out
}

// displayFromSheets returns the display value won by the cascade across
// the given sheets (one origin): highest specificity first, later rules
// winning ties.
func displayFromSheets(sheets []CSS, element *html.Node) (value string, found bool) {
	var best cascadia.Specificity
	for _, sheet := range sheets {
		for _, mr := range sheet.matcher.Match(element) {
			if mr.pseudoType != "" {
				// pseudo elements do not carry a display of their own here
				continue
			}
			if found && mr.specificity.Less(best) {
				continue
			}
			for _, decl := range mr.payload {
				if strings.EqualFold(decl.Property, "display") {
					value, found, best = strings.TrimSpace(decl.Value), true, mr.specificity
				}
			}
		}
	}
	return value, found
}

// resolveDisplay cascades the display property for one element:
// author sheets override the user agent sheet, and the inline "style"
// attribute overrides both. Other style properties are never consulted.
func (h *HTML) resolveDisplay(element *html.Node) string {
	display := ""
	if v, ok := displayFromSheets([]CSS{h.UAStyleSheet}, element); ok {
		display = v
	}
	if v, ok := displayFromSheets(h.authorSheets, element); ok {
		display = v
	}
	if styleAttr := (*utils.HTMLNode)(element).Get("style"); styleAttr != "" {
		// douceur only flushes the last declaration when it is terminated,
		// so normalize the attribute with a trailing semicolon.
		declarations, err := parser.ParseDeclarations(styleAttr + ";")
		if err != nil {
			logger.WarningLogger.Printf("invalid style attribute %q: %s", styleAttr, err)
		} else {
			for _, decl := range declarations {
				if strings.EqualFold(decl.Property, "display") {
					display = strings.TrimSpace(decl.Value)
				}
			}
		}
	}
	if display == "" {
		display = "inline" // CSS initial value
	}
	return display
}

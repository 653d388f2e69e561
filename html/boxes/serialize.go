package boxes

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// SerBox is a compact, structural serialization of a box, convenient to
// compare box trees in tests and error messages.
type SerBox struct {
	Tag     string
	Type    BoxType
	Content BC
}

// BC stores the content of a serialized box: the text run for a text box,
// the serialized children otherwise.
type BC struct {
	Text string
	C    []SerBox
}

func (s SerBox) String() string {
	return fmt.Sprintf("<%s %s> %s %v", s.Tag, s.Type, s.Content.Text, s.Content.C)
}

// Serialize returns a structural representation of the list of boxes.
func Serialize(boxList []Box) []SerBox {
	out := make([]SerBox, len(boxList))
	for i, box := range boxList {
		out[i].Tag = box.Box().ElementTag()
		out[i].Type = box.Type()
		if text, ok := box.(*TextBox); ok {
			out[i].Content.Text = text.Text
		} else {
			out[i].Content.C = Serialize(box.Box().Children)
		}
	}
	return out
}

// SerializedBoxEquals compares two serialized trees, treating nil and
// empty children lists as equal.
func SerializedBoxEquals(got, exp []SerBox) bool {
	if len(got) != len(exp) {
		return false
	}
	for i := range got {
		g, e := got[i], exp[i]
		if g.Tag != e.Tag || g.Type != e.Type || g.Content.Text != e.Content.Text {
			return false
		}
		if !SerializedBoxEquals(g.Content.C, e.Content.C) {
			return false
		}
	}
	return true
}

// PrintTree returns a human readable dump of the box tree, useful when
// debugging the construction passes.
func PrintTree(box Box) string {
	printer := treeprint.NewWithRoot(boxLabel(box))
	printTree(box, printer)
	return printer.String()
}

func boxLabel(box Box) string {
	if text, ok := box.(*TextBox); ok {
		return fmt.Sprintf("%s<%s> %q", box.Type(), box.Box().ElementTag(), text.Text)
	}
	return fmt.Sprintf("%s<%s>", box.Type(), box.Box().ElementTag())
}

func printTree(box Box, printer treeprint.Tree) {
	for _, child := range box.Box().Children {
		if len(child.Box().Children) == 0 {
			printer.AddNode(boxLabel(child))
		} else {
			printTree(child, printer.AddBranch(boxLabel(child)))
		}
	}
}

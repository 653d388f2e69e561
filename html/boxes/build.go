package boxes

import (
	"fmt"
	"strings"

	"github.com/benoitkugler/boxtree/html/tree"
	"github.com/benoitkugler/boxtree/logger"
	"github.com/benoitkugler/boxtree/utils"
)

// UnsupportedDisplayError is returned when an element exposes a display
// classification the builder does not know how to box. No fallback box is
// ever synthesized.
type UnsupportedDisplayError struct {
	Value string
}

func (e UnsupportedDisplayError) Error() string {
	return fmt.Sprintf("unsupported display: %s", e.Value)
}

// InvariantError reports an input breaking a structural precondition of
// the construction passes, indicating a bug in pass ordering or in the
// upstream collaborator.
type InvariantError string

func (e InvariantError) Error() string {
	return "box tree invariant violated: " + string(e)
}

func isBlockLevelDisplay(display string) bool {
	return utils.IsIn([]string{"block", "list-item", "table"}, display) ||
		strings.HasPrefix(display, "table-")
}

func isInlineLevelDisplay(display string) bool {
	return utils.IsIn([]string{"inline", "inline-block", "inline-table", "ruby"}, display)
}

// ElementToBox converts a styled element (and its children) into a box
// (with children).
//
// For instance
//
//	<p>Some <em>emphasised</em> text.</p>
//
// gives (not actual syntax)
//
//	BlockBox[
//	    TextBox("Some "),
//	    InlineBox[
//	        TextBox("emphasised"),
//	    ],
//	    TextBox(" text."),
//	]
//
// The returned box has no parent: the caller attaches it as needed.
// Child elements with "display: none" generate no box, but the text
// following them is preserved.
func ElementToBox(element *tree.StyledElement) (Box, error) {
	display := element.Display
	if display == "none" {
		return nil, InvariantError("element with display 'none' reached the builder")
	}

	var box Box
	switch {
	case isBlockLevelDisplay(display):
		box = NewBlockBox(element)
	case isInlineLevelDisplay(display):
		box = NewInlineBox(element)
	default:
		return nil, UnsupportedDisplayError{Value: display}
	}

	if element.Text != "" {
		AddChild(box, NewTextBox(element, element.Text))
	}
	for _, child := range element.Children {
		if child.Display != "none" {
			childBox, err := ElementToBox(child)
			if err != nil {
				return nil, err
			}
			AddChild(box, childBox)
		}
		if child.Tail != "" {
			AddChild(box, NewTextBox(element, child.Tail))
		}
	}

	return box, nil
}

// InlineInBlock wraps the consecutive inline-level children of each
// block-level box into a line box, itself wrapped into an anonymous
// block-level box when block-level siblings are present. A block-level box
// whose entire content is inline-level gets a single line box child, with
// no anonymous wrapper.
//
// This is the first case in
// http://www.w3.org/TR/CSS21/visuren.html#anonymous-block-level
//
// The box tree is changed in place; the (unchanged) root is returned for
// convenience. Applying the pass twice is a no-op.
//
// For instance
//
//	BlockBox[
//	    TextBox("Some "),
//	    InlineBox[TextBox("text")],
//	    BlockBox[
//	        TextBox("More text"),
//	    ]
//	]
//
// is turned into
//
//	BlockBox[
//	    AnonymousBlockBox[
//	        LineBox[
//	            TextBox("Some "),
//	            InlineBox[TextBox("text")],
//	        ]
//	    ],
//	    BlockBox[
//	        LineBox[
//	            TextBox("More text"),
//	        ]
//	    ]
//	]
func InlineInBlock(box Box) Box {
	for _, child := range box.Box().Children {
		InlineInBlock(child)
	}

	if !IsBlockLevel(box) {
		return box
	}

	children := box.Box().Children
	if len(children) == 1 && children[0].Type() == LineT {
		// this box was already normalized
		return box
	}

	box.Box().Children = nil
	lineBox := NewLineBox(box.Box().Element)
	for _, child := range children {
		if child.Type() == LineT {
			panic(InvariantError("nested line box"))
		}
		if IsBlockLevel(child) {
			if len(lineBox.Children) != 0 {
				// inlines are consecutive no more: emit the line box
				// and start a new one
				anonymous := NewAnonymousBlockBox(box.Box().Element)
				AddChild(anonymous, lineBox)
				AddChild(box, anonymous)
				lineBox = NewLineBox(box.Box().Element)
			}
			AddChild(box, child)
		} else {
			AddChild(lineBox, child)
		}
	}
	if len(lineBox.Children) != 0 {
		// there were inlines at the end
		if len(box.Box().Children) != 0 {
			anonymous := NewAnonymousBlockBox(box.Box().Element)
			AddChild(anonymous, lineBox)
			AddChild(box, anonymous)
		} else {
			// only inline-level children: one line box
			AddChild(box, lineBox)
		}
	}

	return box
}

// BlockInInline rewrites the inline-level boxes containing a block-level
// box: the enclosing line is split around the block, each side wrapped in
// an anonymous block-level box, and the inline ancestor chain is cloned
// (empty) on the after side to receive what followed the block.
//
// This is the second case in
// http://www.w3.org/TR/CSS21/visuren.html#anonymous-block-level
//
// The box tree is changed in place; the (unchanged) root is returned for
// convenience. The pass expects InlineInBlock to have run, and is a no-op
// on an already valid tree.
func BlockInInline(box Box) Box {
	if IsBlockLevel(box) {
		if parent := box.Box().Parent; parent != nil && parent.Type() == InlineT {
			splitInlineChain(box)
		}
	}

	// the split re-homes trailing siblings: recurse over a snapshot so
	// that moved boxes are still visited
	children := append([]Box(nil), box.Box().Children...)
	for _, child := range children {
		BlockInInline(child)
	}
	return box
}

// splitInlineChain splits the line containing box (a block-level box owned
// by an inline box) per the anonymous block rule for block-in-inline.
func splitInlineChain(box Box) {
	// collect the inline ancestor chain, nearest first, bounded by the
	// nearest enclosing line box
	var (
		inlineChain   []Box
		parentLineBox Box
	)
	ancestors := Ancestors(box)
	for parent := ancestors(); parent != nil; parent = ancestors() {
		if parent.Type() == InlineT {
			inlineChain = append(inlineChain, parent)
		} else {
			parentLineBox = parent
			break
		}
	}
	if parentLineBox == nil || parentLineBox.Type() != LineT {
		panic(InvariantError("block box nested in inline boxes without an enclosing line box"))
	}

	// the whole original line becomes the before side
	before := NewAnonymousBlockBox(parentLineBox.Box().Element)
	lineParent := parentLineBox.Box().Parent
	InsertChild(lineParent, IndexInParent(parentLineBox), before)
	removeChild(lineParent, parentLineBox)
	AddChild(before, parentLineBox)

	// the after side receives empty clones of the inline chain,
	// outermost first
	after := NewAnonymousBlockBox(parentLineBox.Box().Element)
	InsertChild(before.Box().Parent, IndexInParent(before)+1, after)

	var afterCursor Box = after
	for i := len(inlineChain) - 1; i >= 0; i-- {
		clone := NewInlineBox(inlineChain[i].Box().Element)
		AddChild(afterCursor, clone)
		afterCursor = clone
	}

	// walking back up from the block box, move what followed it at each
	// ancestor level onto the matching level of the after clone
	splitter := box
	for parent := box.Box().Parent; parent != parentLineBox; parent = parent.Box().Parent {
		index := IndexInParent(splitter)
		siblings := parent.Box().Children
		nextChildren := append([]Box(nil), siblings[index+1:]...)
		if splitter == box {
			// the block box leaves its inline parent: it is re-attached
			// between the two halves below
			parent.Box().Children = siblings[:index]
		} else {
			// inline ancestors stay on the before side, with what
			// preceded the block inside them
			parent.Box().Children = siblings[:index+1]
		}
		for _, child := range nextChildren {
			AddChild(afterCursor, child)
		}
		splitter = parent
		afterCursor = afterCursor.Box().Parent
	}

	// finally the block box itself sits between the two anonymous halves
	InsertChild(before.Box().Parent, IndexInParent(before)+1, box)

	// restore the normalizer invariant on the two halves, so that further
	// splits deeper in the tree always find their enclosing line box
	InlineInBlock(before)
	InlineInBlock(after)
}

// BuildFormattingStructure converts the styled element tree into a box
// tree satisfying the structural invariants of the visual formatting
// model, ready for layout. This is the only entry point needed per
// document.
func BuildFormattingStructure(root *tree.StyledElement) (Box, error) {
	logger.ProgressLogger.Println("Step 3 - Building the box tree")

	box, err := ElementToBox(root)
	if err != nil {
		return nil, err
	}
	box = InlineInBlock(box)
	box = BlockInInline(box)
	return box, nil
}

// Package boxes turns a styled element tree into the box tree used by
// layout, following the CSS visual formatting model rules for anonymous
// box generation:
// http://www.w3.org/TR/CSS21/visuren.html#anonymous
//
// The box tree is built by ElementToBox and then normalized in place by
// InlineInBlock and BlockInInline; BuildFormattingStructure chains the
// three passes.
package boxes

import (
	"github.com/benoitkugler/boxtree/html/tree"
)

// BoxType identifies one of the five box variants.
// The set is closed: layout dispatches on it exhaustively.
type BoxType uint8

const (
	// BlockT is a block-level box generated by an element.
	BlockT BoxType = iota
	// AnonymousBlockT is a block-level box with no originating element,
	// generated to restore the structural invariants.
	AnonymousBlockT
	// LineT holds one line of inline content, prior to line breaking.
	LineT
	// InlineT is an inline-level box generated by an element.
	InlineT
	// TextT is an anonymous inline box wrapping a literal text run.
	TextT
)

func (bt BoxType) String() string {
	switch bt {
	case BlockT:
		return "BlockBox"
	case AnonymousBlockT:
		return "AnonymousBlockBox"
	case LineT:
		return "LineBox"
	case InlineT:
		return "InlineBox"
	case TextT:
		return "TextBox"
	}
	return "<invalid box type>"
}

// IsInstance reports whether box is of type bt, accounting for the
// anonymous block box being a block box.
func (bt BoxType) IsInstance(box Box) bool {
	t := box.Type()
	return t == bt || (bt == BlockT && t == AnonymousBlockT)
}

// Box is the common interface of the box variants.
type Box interface {
	// Box returns the fields shared by all variants.
	Box() *BoxFields

	Type() BoxType
}

// BoxFields holds the fields common to all box variants.
type BoxFields struct {
	// Element is a back reference to the originating styled element,
	// used for identity only, never for ownership. Anonymous boxes
	// inherit the element of the box they were generated for.
	Element *tree.StyledElement

	// Parent is a non owning back reference to the exclusive owner,
	// nil for the root.
	Parent Box

	// Children is the ordered, owned sequence of child boxes.
	// It is nil for text boxes.
	Children []Box
}

func (b *BoxFields) Box() *BoxFields { return b }

// ElementTag returns the name of the originating element, or "" for a box
// with no source.
func (b *BoxFields) ElementTag() string {
	if b.Element == nil {
		return ""
	}
	return b.Element.Tag()
}

type BlockBox struct {
	BoxFields
}

type AnonymousBlockBox struct {
	BlockBox
}

type LineBox struct {
	BoxFields
}

type InlineBox struct {
	BoxFields
}

type TextBox struct {
	BoxFields

	// Text is the literal text run, immutable once created.
	Text string
}

func (*BlockBox) Type() BoxType          { return BlockT }
func (*AnonymousBlockBox) Type() BoxType { return AnonymousBlockT }
func (*LineBox) Type() BoxType           { return LineT }
func (*InlineBox) Type() BoxType         { return InlineT }
func (*TextBox) Type() BoxType           { return TextT }

func NewBlockBox(element *tree.StyledElement) *BlockBox {
	return &BlockBox{BoxFields: BoxFields{Element: element}}
}

func NewAnonymousBlockBox(element *tree.StyledElement) *AnonymousBlockBox {
	return &AnonymousBlockBox{BlockBox: *NewBlockBox(element)}
}

func NewLineBox(element *tree.StyledElement) *LineBox {
	return &LineBox{BoxFields: BoxFields{Element: element}}
}

func NewInlineBox(element *tree.StyledElement) *InlineBox {
	return &InlineBox{BoxFields: BoxFields{Element: element}}
}

func NewTextBox(element *tree.StyledElement, text string) *TextBox {
	if len(text) == 0 {
		panic("NewTextBox called with empty text")
	}
	return &TextBox{BoxFields: BoxFields{Element: element}, Text: text}
}

// IsBlockLevel reports whether box generates a block-level formatting
// context.
func IsBlockLevel(box Box) bool {
	t := box.Type()
	return t == BlockT || t == AnonymousBlockT
}

// IsInlineLevel reports whether box generates an inline-level formatting
// context.
func IsInlineLevel(box Box) bool {
	t := box.Type()
	return t == InlineT || t == TextT
}

// AddChild appends child to parent's children and sets parent as the
// child's owner. The child must not be owned by another box: callers are
// in charge of detaching it first.
func AddChild(parent, child Box) {
	child.Box().Parent = parent
	parent.Box().Children = append(parent.Box().Children, child)
}

// InsertChild inserts child into parent's children at the given index,
// with the same ownership contract as AddChild.
func InsertChild(parent Box, index int, child Box) {
	child.Box().Parent = parent
	children := parent.Box().Children
	children = append(children, nil)
	copy(children[index+1:], children[index:])
	children[index] = child
	parent.Box().Children = children
}

// removeChild detaches child from parent's children sequence.
// The child's parent pointer is left for the caller to rewire.
func removeChild(parent, child Box) {
	children := parent.Box().Children
	for i, c := range children {
		if c == child {
			parent.Box().Children = append(children[:i], children[i+1:]...)
			return
		}
	}
	panic(InvariantError("box not found in its parent's children"))
}

// Ancestors returns a lazy iterator over box's ancestors, nearest first,
// ending at (and including) the root. Each call yields the next ancestor,
// or nil once exhausted. The iterator is not restartable.
func Ancestors(box Box) func() Box {
	current := box
	return func() Box {
		if current == nil {
			return nil
		}
		current = current.Box().Parent
		return current
	}
}

// IndexInParent returns box's position in its parent's children, or -1 for
// the root. The lookup is by identity and costs O(children).
func IndexInParent(box Box) int {
	parent := box.Box().Parent
	if parent == nil {
		return -1
	}
	for i, child := range parent.Box().Children {
		if child == box {
			return i
		}
	}
	panic(InvariantError("box not found in its parent's children"))
}

// Descendants returns box and all its descendants, in tree order.
func Descendants(box Box) []Box {
	out := []Box{box}
	for _, child := range box.Box().Children {
		out = append(out, Descendants(child)...)
	}
	return out
}

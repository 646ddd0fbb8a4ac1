package discogs

import (
	"encoding/xml"
	"iter"
	"slices"
	"strings"
)

// Element is one node of a release fragment. Text holds the character data
// that appears before the first child element.
type Element struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Element
}

// attribute values read tabs and line breaks as spaces
var attrWhitespace = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func newElement(start xml.StartElement) *Element {
	el := &Element{
		Name:  start.Name.Local,
		Attrs: make(map[string]string, len(start.Attr)),
	}

	for _, attr := range start.Attr {
		el.Attrs[attr.Name.Local] = attrWhitespace.Replace(attr.Value)
	}

	return el
}

func (e *Element) Attr(name string) (string, bool) {
	value, found := e.Attrs[name]
	return value, found
}

// Child returns the first direct child with the given name, or nil.
func (e *Element) Child(name string) *Element {
	for _, child := range e.Children {
		if child.Name == name {
			return child
		}
	}

	return nil
}

// FindText returns the text of the first direct child with the given name.
// The bool is false when there is no such child.
func (e *Element) FindText(name string) (string, bool) {
	child := e.Child(name)
	if child == nil {
		return "", false
	}

	return child.Text, true
}

// Descendants walks the tree below e in document order, yielding every element
// with the given name. e itself is never yielded.
func (e *Element) Descendants(name string) iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		stack := make([]*Element, 0, len(e.Children))
		stack = append(stack, reversed(e.Children)...)

		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if current.Name == name {
				if !yield(current) {
					return
				}
			}

			stack = append(stack, reversed(current.Children)...)
		}
	}
}

// FindAll collects the direct `child` elements of every `parent` found at any
// depth below e, e.g. every artist in any artists block.
func (e *Element) FindAll(parent, child string) []*Element {
	found := []*Element{}

	for p := range e.Descendants(parent) {
		for _, c := range p.Children {
			if c.Name == child {
				found = append(found, c)
			}
		}
	}

	return found
}

func reversed(elements []*Element) []*Element {
	r := slices.Clone(elements)
	slices.Reverse(r)
	return r
}

package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Factory constructs detached elements from an HTML attribute string and
// optional children, e.g. E.Button(`class="primary" style="display: flex"`).
type Factory struct{}

// E is the shared factory.
var E Factory

// Build creates an element with tag, attributes parsed from attrs and the
// given children appended in order.
func (Factory) Build(tag, attrs string, children ...*Element) (*Element, error) {
	parsed, err := ParseAttributes(attrs)
	if err != nil {
		return nil, fmt.Errorf("build <%s>: %w", tag, err)
	}
	e := NewElement(tag)
	for _, a := range parsed {
		e.SetAttr(a.Key, a.Val)
	}
	e.AppendChild(children...)
	return e, nil
}

// must is used by the tag helpers, whose attribute strings are program
// literals.
func (f Factory) must(tag, attrs string, children ...*Element) *Element {
	e, err := f.Build(tag, attrs, children...)
	if err != nil {
		panic(err)
	}
	return e
}

func (f Factory) Div(attrs string, children ...*Element) *Element {
	return f.must("div", attrs, children...)
}

func (f Factory) Label(attrs string, children ...*Element) *Element {
	return f.must("label", attrs, children...)
}

func (f Factory) Button(attrs string, children ...*Element) *Element {
	return f.must("button", attrs, children...)
}

func (f Factory) Input(attrs string) *Element { return f.must("input", attrs) }

func (f Factory) Textarea(attrs string) *Element { return f.must("textarea", attrs) }

func (f Factory) Image(attrs string) *Element { return f.must("img", attrs) }

func (f Factory) IFrame(attrs string) *Element { return f.must("iframe", attrs) }

func (f Factory) Path(attrs string) *Element { return f.must("path", attrs) }

// A creates an anchor wrapping a single text node.
func (f Factory) A(attrs string, text *Element) *Element {
	return f.must("a", attrs, text)
}

// SVG creates an svg element with the SVG namespace set.
func (f Factory) SVG(attrs string, paths ...*Element) *Element {
	e := f.must("svg", attrs, paths...)
	e.SetAttr("xmlns", "http://www.w3.org/2000/svg")
	return e
}

// Text creates a text node.
func (Factory) Text(content string) *Element { return NewText(content) }

// ParseAttributes parses an HTML attribute string using the HTML5 tokenizer
// rules, so quoting, entities and boolean attributes behave as in a browser.
func ParseAttributes(attrs string) ([]html.Attribute, error) {
	attrs = strings.TrimSpace(attrs)
	if attrs == "" {
		return nil, nil
	}
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader("<div "+attrs+"></div>"), context)
	if err != nil {
		return nil, fmt.Errorf("parse attributes %q: %w", attrs, err)
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.DataAtom == atom.Div {
			return n.Attr, nil
		}
	}
	return nil, fmt.Errorf("parse attributes %q: no element produced", attrs)
}

// Ref holds an element (or control) captured while building a tree inline.
type Ref[T any] struct {
	Val T
}

// Assign stores v in ref and returns v, so a constructor call can be wrapped
// without breaking the surrounding expression.
func Assign[T any](ref *Ref[T], v T) T {
	ref.Val = v
	return v
}

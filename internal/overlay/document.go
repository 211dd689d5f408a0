// Package overlay holds the HTML document the exhibit's informational
// overlays are authored in, and the view state of the modal that shows them.
package overlay

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNotFound is returned when an element id is not in the document.
var ErrNotFound = errors.New("overlay: element not found")

// Document is a parsed overlay document.
type Document struct {
	doc *goquery.Document
}

// Parse reads an HTML document. UTF-16 documents are accepted when they
// start with a byte order mark; anything else is read as UTF-8.
func Parse(r io.Reader) (*Document, error) {
	r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing overlay document: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ByID returns the element with the given id attribute.
func (d *Document) ByID(id string) (*Element, error) {
	sel := d.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	}).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: #%s", ErrNotFound, id)
	}
	return &Element{sel: sel}, nil
}

// IDs returns the ids of every element carrying class, in document order.
func (d *Document) IDs(class string) []string {
	var ids []string
	d.doc.Find("." + class).Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok {
			ids = append(ids, id)
		}
	})
	return ids
}

// Element is one node of the document.
type Element struct {
	sel *goquery.Selection
}

// ID returns the element's id attribute.
func (e *Element) ID() string {
	id, _ := e.sel.Attr("id")
	return id
}

// Clone returns a detached deep copy.
func (e *Element) Clone() *Element {
	return &Element{sel: e.sel.Clone()}
}

// Find returns the first descendant matching selector, or nil.
func (e *Element) Find(selector string) *Element {
	sel := e.sel.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return &Element{sel: sel}
}

// Text returns the element's text with runs of whitespace collapsed.
func (e *Element) Text() string {
	return collapse(e.sel.Text())
}

// SetText replaces the text of every descendant matching selector. It
// reports whether any matched.
func (e *Element) SetText(selector, text string) bool {
	sel := e.sel.Find(selector)
	if sel.Length() == 0 {
		return false
	}
	sel.SetText(text)
	return true
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

// SetAttr sets an attribute value.
func (e *Element) SetAttr(name, value string) {
	e.sel.SetAttr(name, value)
}

// HasClass reports whether the element carries class.
func (e *Element) HasClass(class string) bool {
	return e.sel.HasClass(class)
}

// AddClass adds class to the element.
func (e *Element) AddClass(class string) {
	e.sel.AddClass(class)
}

// RemoveClass removes class from the element.
func (e *Element) RemoveClass(class string) {
	e.sel.RemoveClass(class)
}

// HTML returns the element's outer HTML.
func (e *Element) HTML() (string, error) {
	return goquery.OuterHtml(e.sel)
}

// BlockKind classifies a run of overlay text.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockPosition
)

// Block is a run of text the 2D renderer lays out on its own line(s).
type Block struct {
	Kind BlockKind
	Text string
}

// Blocks flattens the element into headings, paragraphs and position
// readouts in document order. An element without any of those yields its
// whole text as one paragraph.
func (e *Element) Blocks() []Block {
	var blocks []Block
	e.sel.Find("h1, h2, h3, p, .position").Each(func(_ int, s *goquery.Selection) {
		text := collapse(s.Text())
		if text == "" {
			return
		}
		kind := BlockParagraph
		switch {
		case s.HasClass("position"):
			kind = BlockPosition
		case s.Is("h1, h2, h3"):
			kind = BlockHeading
		}
		blocks = append(blocks, Block{Kind: kind, Text: text})
	})
	if len(blocks) == 0 {
		if text := e.Text(); text != "" {
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: text})
		}
	}
	return blocks
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

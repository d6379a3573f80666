// Package h2k parses HOT2000 (.h2k) source documents into an in-memory
// tree. Only minimal root-level structure is validated here; field-level
// validation belongs to the pipeline stages.
package h2k

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
)

// rootElement is the expected document root of a HOT2000 file.
const rootElement = "HouseFile"

// Document is an immutable, in-memory view of one source document.
// It is read-only for the duration of a pipeline run.
type Document struct {
	doc  *etree.Document
	root *etree.Element
}

// Parse turns raw input bytes into a Document. Malformed XML or a missing
// HouseFile root yields a *domain.ParseError, which fails only the current
// document, never the batch.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &domain.ParseError{Reason: "malformed XML", Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &domain.ParseError{Reason: "document has no root element"}
	}
	if root.Tag != rootElement {
		return nil, &domain.ParseError{Reason: "unexpected root element <" + root.Tag + ">, want <" + rootElement + ">"}
	}
	return &Document{doc: doc, root: root}, nil
}

// Root returns the HouseFile element.
func (d *Document) Root() *etree.Element {
	return d.root
}

// Find returns the first element at a slash-separated path relative to the
// root, or nil.
func (d *Document) Find(path string) *etree.Element {
	return d.root.FindElement(path)
}

// FindAll returns all elements at a path relative to the root.
func (d *Document) FindAll(path string) []*etree.Element {
	return d.root.FindElements(path)
}

// Has reports whether an element exists at the path.
func (d *Document) Has(path string) bool {
	return d.Find(path) != nil
}

// Text returns the trimmed text content of the element at the path.
func (d *Document) Text(path string) (string, bool) {
	el := d.Find(path)
	if el == nil {
		return "", false
	}
	return strings.TrimSpace(el.Text()), true
}

// Attr returns an attribute of the element at the path.
func (d *Document) Attr(path, key string) (string, bool) {
	el := d.Find(path)
	if el == nil {
		return "", false
	}
	a := el.SelectAttr(key)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// Value returns the conventional HOT2000 value of the element at the path:
// the "code" attribute when present, otherwise the trimmed element text.
// The boolean is false when the element is absent or carries neither.
func (d *Document) Value(path string) (string, bool) {
	el := d.Find(path)
	if el == nil {
		return "", false
	}
	return elementValue(el)
}

// ElementValue applies the same code-attribute-or-text convention to an
// already located element, for stages that iterate repeated components.
func ElementValue(el *etree.Element) (string, bool) {
	if el == nil {
		return "", false
	}
	return elementValue(el)
}

func elementValue(el *etree.Element) (string, bool) {
	if a := el.SelectAttr("code"); a != nil {
		return a.Value, true
	}
	if text := strings.TrimSpace(el.Text()); text != "" {
		return text, true
	}
	return "", false
}

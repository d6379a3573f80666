// Package hpxml builds and validates target-schema documents for the
// downstream simulation engine. The tree is mutable only within one
// pipeline run; serialization is deterministic so that repeated runs on
// the same source yield byte-identical output.
package hpxml

import (
	"strings"

	"github.com/beevik/etree"
)

// Target schema constants.
const (
	Namespace     = "http://hpxmlonline.com/2023/09"
	SchemaVersion = "4.0"
	generatedBy   = "hearth-cli"
)

// Document is a target-schema document under construction.
type Document struct {
	doc  *etree.Document
	root *etree.Element
}

// New creates a target document with the standard transaction header.
// The header carries no timestamp: generation time lives in the outcome
// store, keeping target bytes reproducible.
func New() *Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("HPXML")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("schemaVersion", SchemaVersion)

	header := root.CreateElement("XMLTransactionHeaderInformation")
	header.CreateElement("XMLType").SetText("HPXML")
	header.CreateElement("XMLGeneratedBy").SetText(generatedBy)
	header.CreateElement("Transaction").SetText("create")

	software := root.CreateElement("SoftwareInfo")
	software.CreateElement("SoftwareProgramUsed").SetText(generatedBy)

	return &Document{doc: doc, root: root}
}

// Root returns the HPXML element.
func (d *Document) Root() *etree.Element {
	return d.root
}

// Ensure returns the element at a slash-separated path relative to the
// root, creating any missing intermediate elements.
func (d *Document) Ensure(path string) *etree.Element {
	el := d.root
	for _, tag := range strings.Split(path, "/") {
		if tag == "" {
			continue
		}
		child := el.SelectElement(tag)
		if child == nil {
			child = el.CreateElement(tag)
		}
		el = child
	}
	return el
}

// Set ensures the element at the path and sets its text content.
func (d *Document) Set(path, text string) {
	d.Ensure(path).SetText(text)
}

// SetAttr ensures the element at the path and sets an attribute on it.
func (d *Document) SetAttr(path, key, value string) {
	d.Ensure(path).CreateAttr(key, value)
}

// Add appends a new child element under the (ensured) parent path and
// returns it. Unlike Ensure, Add always creates a new element, for
// repeated components such as walls and windows.
func (d *Document) Add(parentPath, tag string) *etree.Element {
	return d.Ensure(parentPath).CreateElement(tag)
}

// Find returns the first element at the path, or nil.
func (d *Document) Find(path string) *etree.Element {
	return d.root.FindElement(path)
}

// FindAll returns all elements at the path.
func (d *Document) FindAll(path string) []*etree.Element {
	return d.root.FindElements(path)
}

// Text returns the trimmed text of the element at the path.
func (d *Document) Text(path string) (string, bool) {
	el := d.Find(path)
	if el == nil {
		return "", false
	}
	return strings.TrimSpace(el.Text()), true
}

// Bytes serializes the document with stable two-space indentation.
func (d *Document) Bytes() ([]byte, error) {
	d.doc.Indent(2)
	return d.doc.WriteToBytes()
}

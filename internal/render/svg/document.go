// Package svg is the vector backend. It builds an element tree for a scene
// and serializes it as SVG markup.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Attr is one element attribute.
type Attr struct {
	Name, Value string
}

// Element is a node of the document tree. Attributes keep insertion order so
// the output is stable.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
}

// El creates an element from alternating attribute names and values.
func El(name string, kv ...string) *Element {
	e := &Element{Name: name}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Set(kv[i], kv[i+1])
	}
	return e
}

// Set adds or replaces an attribute.
func (e *Element) Set(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// Get returns an attribute value.
func (e *Element) Get(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Append adds children.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

func (e *Element) write(w *bytes.Buffer) {
	w.WriteByte('<')
	w.WriteString(e.Name)
	for _, a := range e.Attrs {
		w.WriteByte(' ')
		w.WriteString(a.Name)
		w.WriteString(`="`)
		xml.EscapeText(w, []byte(a.Value))
		w.WriteByte('"')
	}
	if len(e.Children) == 0 {
		w.WriteString("/>")
		return
	}
	w.WriteByte('>')
	for _, c := range e.Children {
		c.write(w)
	}
	w.WriteString("</")
	w.WriteString(e.Name)
	w.WriteByte('>')
}

// Document is an SVG document of a fixed size.
type Document struct {
	Width, Height int
	root          *Element
	defs          *Element
	ids           int
}

// DocumentFunc creates the document a render draws into.
type DocumentFunc func(width, height int) *Document

// NewDocument returns an empty width×height document.
func NewDocument(width, height int) *Document {
	w, h := fmt.Sprint(width), fmt.Sprint(height)
	root := El("svg",
		"xmlns", "http://www.w3.org/2000/svg",
		"xmlns:xlink", "http://www.w3.org/1999/xlink",
		"width", w,
		"height", h,
		"viewBox", "0 0 "+w+" "+h,
	)
	defs := El("defs")
	root.Append(defs)
	return &Document{Width: width, Height: height, root: root, defs: defs}
}

// Root returns the svg element.
func (d *Document) Root() *Element { return d.root }

// Define adds elements to the document's defs.
func (d *Document) Define(elems ...*Element) {
	d.defs.Append(elems...)
}

// NewID returns a document-unique id starting with prefix.
func (d *Document) NewID(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, d.ids)
	d.ids++
	return id
}

// Append adds elements to the end of the document, on top of everything
// drawn so far.
func (d *Document) Append(elems ...*Element) {
	d.root.Append(elems...)
}

// Elements returns the top-level drawing elements, defs excluded.
func (d *Document) Elements() []*Element {
	var out []*Element
	for _, c := range d.root.Children {
		if c != d.defs {
			out = append(out, c)
		}
	}
	return out
}

// Bytes serializes the document with an XML declaration. Empty defs are
// left out.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	root := *d.root
	if len(d.defs.Children) == 0 {
		root.Children = d.Elements()
	}
	root.write(&buf)
	return buf.Bytes()
}

// WriteTo writes the serialized document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Bytes())
	return int64(n), err
}

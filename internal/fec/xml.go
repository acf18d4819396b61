package fec

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/wincap-dev/wincap/internal/model"
)

// entryTagAliases are the wrapper element names that accounting packages
// use for one journal line in XML exports.
var entryTagAliases = map[string]bool{
	"ecriture":  true,
	"ligne":     true,
	"operation": true,
}

type xmlNode struct {
	name     string // normalized local name
	text     string
	children []*xmlNode
}

// parseXML locates entry-like elements and runs the same field validation
// as the delimited path. When no known wrapper tag exists it falls back to
// treating any element with a CompteNum-like child as an entry.
func parseXML(text string) ([]model.LedgerEntry, []ParseError, []Warning) {
	root, err := buildTree(text)
	if err != nil {
		return nil, []ParseError{{Row: 0, Field: "-", Message: "malformed XML: " + err.Error()}}, nil
	}

	wrappers := collectWrappers(root)
	if len(wrappers) == 0 {
		wrappers = collectByAccountChild(root)
	}

	var entries []model.LedgerEntry
	var errs []ParseError
	var warnings []Warning

	for i, w := range wrappers {
		record, cols := recordFromNode(w)
		entry, rowErrs, rowWarns := parseRow(record, cols, i+1)
		errs = append(errs, rowErrs...)
		warnings = append(warnings, rowWarns...)
		if len(rowErrs) == 0 {
			entries = append(entries, entry)
		}
	}
	return entries, errs, warnings
}

func buildTree(text string) (*xmlNode, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	root := &xmlNode{name: ""}
	stack := []*xmlNode{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{name: normalizeHeader(t.Name.Local)}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			cur := stack[len(stack)-1]
			cur.text += string(t)
		}
	}
	return root, nil
}

func collectWrappers(node *xmlNode) []*xmlNode {
	var out []*xmlNode
	for _, c := range node.children {
		if entryTagAliases[c.name] {
			out = append(out, c)
			continue
		}
		out = append(out, collectWrappers(c)...)
	}
	return out
}

// collectByAccountChild finds parents holding a CompteNum-like child and
// reconstructs entries from their sibling elements.
func collectByAccountChild(node *xmlNode) []*xmlNode {
	var out []*xmlNode
	for _, c := range node.children {
		if hasDirectChild(c, colCompteNum) {
			out = append(out, c)
			continue
		}
		out = append(out, collectByAccountChild(c)...)
	}
	return out
}

func hasDirectChild(node *xmlNode, name string) bool {
	for _, c := range node.children {
		if c.name == name {
			return true
		}
	}
	return false
}

// recordFromNode flattens an entry element's children into the record/
// column shape the delimited row parser consumes.
func recordFromNode(node *xmlNode) ([]string, map[string]int) {
	record := make([]string, 0, len(node.children))
	cols := make(map[string]int, len(node.children))
	for _, c := range node.children {
		if _, seen := cols[c.name]; seen {
			continue
		}
		cols[c.name] = len(record)
		record = append(record, strings.TrimSpace(c.text))
	}
	return record, cols
}

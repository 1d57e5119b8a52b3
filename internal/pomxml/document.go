// Package pomxml parses Maven build descriptors into an offset-carrying tree
// and computes textual patches against the original source.
//
// The tree is never mutated after Parse. Every edit is expressed as a byte
// range of Document.Source plus replacement text, so untouched regions keep
// their exact formatting (indentation, line endings, comments).
package pomxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Tag names the injector cares about.
const (
	TagProject              = "project"
	TagParent               = "parent"
	TagDependencies         = "dependencies"
	TagDependency           = "dependency"
	TagDependencyManagement = "dependencyManagement"
	TagRepositories         = "repositories"
	TagRepository           = "repository"
	TagGroupID              = "groupId"
	TagArtifactID           = "artifactId"
	TagVersion              = "version"
	TagScope                = "scope"
	TagRelativePath         = "relativePath"
)

// NodeKind distinguishes element nodes from text nodes.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
	documentNode
)

// Node is one element or text run of a parsed document.
//
// For elements, [Start, End) spans the whole element including its tags and
// [ContentStart, ContentEnd) spans what lies between the opening and closing
// tag. A self-closing element has ContentStart == ContentEnd == End.
// For text nodes, [Start, End) spans the raw text and Data holds the
// unescaped value.
type Node struct {
	Kind         NodeKind
	Tag          string
	Data         string
	Start        int
	End          int
	ContentStart int
	ContentEnd   int
	SelfClosing  bool
	Children     []*Node
}

// Child returns the first direct child element named tag, or nil.
func (n *Node) Child(tag string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == ElementNode && c.Tag == tag {
			return c
		}
	}
	return nil
}

// Elements returns the direct child elements named tag. An empty tag matches
// every child element.
func (n *Node) Elements(tag string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == ElementNode && (tag == "" || c.Tag == tag) {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the concatenated direct text content of n, trimmed.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	for _, c := range n.Children {
		if c.Kind == TextNode {
			sb.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(sb.String())
}

// ChildText returns the text of the first direct child named tag.
func (n *Node) ChildText(tag string) string {
	return n.Child(tag).Text()
}

// Document is a parsed build descriptor together with the exact source it
// was parsed from. Offsets in the tree are only valid against Source.
type Document struct {
	Source string
	root   *Node
}

// Parse builds the node tree for src. It fails with *MalformedDocumentError
// when src is not well-formed XML or does not have exactly one root element.
func Parse(src string) (*Document, error) {
	dec := xml.NewDecoder(strings.NewReader(src))
	dec.Strict = true
	// Offsets must stay byte-exact, so declared encodings are read as-is.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	root := &Node{Kind: documentNode, End: len(src), ContentEnd: len(src)}
	stack := []*Node{root}
	for {
		start := int(dec.InputOffset())
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newMalformed(src, start, err)
		}
		end := int(dec.InputOffset())
		parent := stack[len(stack)-1]

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 1 && len(root.Elements("")) > 0 {
				return nil, newMalformed(src, start, fmt.Errorf("second root element <%s>", t.Name.Local))
			}
			n := &Node{
				Kind:         ElementNode,
				Tag:          t.Name.Local,
				Start:        start,
				ContentStart: end,
				SelfClosing:  strings.HasSuffix(src[start:end], "/>"),
			}
			parent.Children = append(parent.Children, n)
			stack = append(stack, n)
		case xml.EndElement:
			n := stack[len(stack)-1]
			if n.SelfClosing {
				n.ContentEnd = n.ContentStart
				n.End = n.ContentStart
			} else {
				n.ContentEnd = start
				n.End = end
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 1 && strings.TrimSpace(string(t)) != "" {
				return nil, newMalformed(src, start, errors.New("text outside the root element"))
			}
			parent.Children = append(parent.Children, &Node{
				Kind:  TextNode,
				Data:  string(t),
				Start: start,
				End:   end,
			})
		}
	}

	if len(stack) != 1 {
		return nil, newMalformed(src, len(src), fmt.Errorf("unclosed element <%s>", stack[len(stack)-1].Tag))
	}
	if len(root.Elements("")) == 0 {
		return nil, newMalformed(src, 0, errors.New("no root element"))
	}
	return &Document{Source: src, root: root}, nil
}

// Root returns the top-level element.
func (d *Document) Root() *Node {
	return d.root.Elements("")[0]
}

// FindByTag returns every element named tag in document order. Matches are
// not searched for nested matches of the same tag.
func (d *Document) FindByTag(tag string) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Kind == ElementNode && n.Tag == tag {
			out = append(out, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(d.root)
	return out
}

// Unique returns the single element named tag, or *ShapeError when the
// document has zero or several of them.
func (d *Document) Unique(tag string) (*Node, error) {
	nodes := d.FindByTag(tag)
	if len(nodes) != 1 {
		return nil, &ShapeError{Tag: tag, Count: len(nodes)}
	}
	return nodes[0], nil
}

// Project returns the unique <project> element.
func (d *Document) Project() (*Node, error) {
	return d.Unique(TagProject)
}

// EOL reports the document's line ending: CRLF when the source uses it
// anywhere, LF otherwise.
func (d *Document) EOL() string {
	if strings.Contains(d.Source, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// lineStart returns the offset of the first byte of the line holding offset.
func (d *Document) lineStart(offset int) int {
	return strings.LastIndexByte(d.Source[:offset], '\n') + 1
}

// indentation returns the leading whitespace of the line holding offset,
// cut at offset.
func (d *Document) indentation(offset int) string {
	ls := d.lineStart(offset)
	i := ls
	for i < offset && (d.Source[i] == ' ' || d.Source[i] == '\t') {
		i++
	}
	return d.Source[ls:i]
}

// onlyWhitespace reports whether Source[from:to] is blank.
func (d *Document) onlyWhitespace(from, to int) bool {
	return strings.TrimSpace(d.Source[from:to]) == ""
}

func lineOf(src string, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return strings.Count(src[:offset], "\n") + 1
}

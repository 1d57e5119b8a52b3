package pomxml

import (
	"sort"
	"strings"
)

// Edit replaces Source[Start:End] with Text. Start == End is an insertion.
type Edit struct {
	Start int
	End   int
	Text  string

	// expand marks content for a self-closing element. Such edits are
	// merged per element before they leave the package.
	expand *Node
}

// expandSelfClosing folds all content scheduled for each self-closing
// element into a single rewrite of that element, keeping its attributes.
func expandSelfClosing(doc *Document, edits []Edit) []Edit {
	var out []Edit
	merged := map[*Node]int{}
	for _, e := range edits {
		if e.expand == nil {
			out = append(out, e)
			continue
		}
		if i, ok := merged[e.expand]; ok {
			out[i].Text += e.Text
			continue
		}
		merged[e.expand] = len(out)
		out = append(out, e)
	}
	for i, e := range out {
		n := e.expand
		if n == nil {
			continue
		}
		open := strings.TrimRight(strings.TrimSuffix(doc.Source[n.Start:n.End], "/>"), " \t\r\n")
		closing := doc.EOL() + doc.indentation(n.Start) + "</" + n.Tag + ">"
		out[i] = Edit{Start: n.Start, End: n.End, Text: open + ">" + e.Text + closing}
	}
	return out
}

// Apply materializes edits against src in a single pass. All edits must be
// computed against src itself; overlapping ranges are rejected with
// *OverlapError and src is left untouched. Insertions sharing an offset keep
// their relative order.
func Apply(src string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return src, nil
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	var sb strings.Builder
	sb.Grow(len(src))
	pos := 0
	for i, e := range sorted {
		if e.Start < pos || e.End < e.Start || e.End > len(src) {
			prev := Edit{}
			if i > 0 {
				prev = sorted[i-1]
			}
			return "", &OverlapError{First: prev, Second: e}
		}
		sb.WriteString(src[pos:e.Start])
		sb.WriteString(e.Text)
		pos = e.End
	}
	sb.WriteString(src[pos:])
	return sb.String(), nil
}

// Plan collects removals and additions computed from one parse and applies
// them together, so no edit is ever computed against shifted offsets.
type Plan struct {
	doc      *Document
	injector *Injector
	edits    []Edit
	removed  map[coordinate]bool
}

// NewPlan starts an empty edit batch for doc.
func NewPlan(doc *Document, injector *Injector) *Plan {
	if injector == nil {
		injector = NewInjector("")
	}
	return &Plan{doc: doc, injector: injector, removed: map[coordinate]bool{}}
}

// Remove schedules deletion of the dependency with the given coordinates.
// An absent dependency schedules nothing.
func (p *Plan) Remove(groupID, artifactID string) error {
	edits, err := RemoveDependency(p.doc, groupID, artifactID)
	if err != nil {
		return err
	}
	if len(edits) > 0 {
		p.removed[coordinate{groupID, artifactID}] = true
	}
	p.edits = append(p.edits, edits...)
	return nil
}

// Add schedules insertion of artifacts and BOM imports. Entries already in
// the document are skipped unless they were scheduled for removal.
func (p *Plan) Add(artifacts []Artifact, boms []Bom) error {
	edits, err := p.injector.addDependencies(p.doc, artifacts, boms, p.removed)
	if err != nil {
		return err
	}
	p.edits = append(p.edits, edits...)
	return nil
}

// AddRepositories schedules insertion of repository declarations.
func (p *Plan) AddRepositories(repos []Repository) error {
	edits, err := p.injector.addRepositories(p.doc, repos)
	if err != nil {
		return err
	}
	p.edits = append(p.edits, edits...)
	return nil
}

// Edits returns the scheduled edits.
func (p *Plan) Edits() []Edit {
	return expandSelfClosing(p.doc, p.edits)
}

// Empty reports whether the plan changes nothing.
func (p *Plan) Empty() bool {
	return len(p.edits) == 0
}

// Apply returns the patched source.
func (p *Plan) Apply() (string, error) {
	return Apply(p.doc.Source, p.Edits())
}

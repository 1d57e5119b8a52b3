package pomxml

import (
	"encoding/xml"
	"strings"
)

// defaultScope is implied by Maven and never written out.
const defaultScope = "compile"

// Artifact is a dependency to declare.
type Artifact struct {
	GroupID    string
	ArtifactID string
	Version    string
	Scope      string
}

// Bom is a bill-of-materials import for <dependencyManagement>.
type Bom struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// Repository is a <repositories> entry some starters need.
type Repository struct {
	ID               string
	Name             string
	URL              string
	SnapshotsEnabled bool
}

type coordinate struct {
	groupID    string
	artifactID string
}

// Injector renders new entries using the host editor's indent unit.
type Injector struct {
	Indent string
}

// NewInjector returns an injector indenting with indent, or a tab when empty.
func NewInjector(indent string) *Injector {
	if indent == "" {
		indent = "\t"
	}
	return &Injector{Indent: indent}
}

// IndentUnit builds the indent string for an editor configuration.
func IndentUnit(insertSpaces bool, tabSize int) string {
	if !insertSpaces || tabSize <= 0 {
		return "\t"
	}
	return strings.Repeat(" ", tabSize)
}

// AddDependencies computes the insertions that declare artifacts and import
// boms. Artifacts already declared in <project><dependencies> and BOMs already
// imported are skipped.
func (in *Injector) AddDependencies(doc *Document, artifacts []Artifact, boms []Bom) ([]Edit, error) {
	edits, err := in.addDependencies(doc, artifacts, boms, nil)
	if err != nil {
		return nil, err
	}
	return expandSelfClosing(doc, edits), nil
}

func (in *Injector) addDependencies(doc *Document, artifacts []Artifact, boms []Bom, removed map[coordinate]bool) ([]Edit, error) {
	project, err := doc.Project()
	if err != nil {
		return nil, err
	}
	indent := in.indent()
	var edits []Edit

	existing := declared(project.Child(TagDependencies))
	for c := range removed {
		delete(existing, c)
	}
	var fresh []Artifact
	for _, a := range artifacts {
		c := coordinate{a.GroupID, a.ArtifactID}
		if existing[c] {
			continue
		}
		existing[c] = true
		fresh = append(fresh, a)
	}
	if len(fresh) > 0 {
		var lines []string
		for _, a := range fresh {
			lines = append(lines, artifactLines(a, indent)...)
		}
		if deps := project.Child(TagDependencies); deps != nil {
			edits = append(edits, in.insert(doc, deps, lines))
		} else {
			edits = append(edits, in.insert(doc, project, wrap(lines, indent, TagDependencies)))
		}
	}

	mgmt := project.Child(TagDependencyManagement)
	imported := declared(mgmt.Child(TagDependencies))
	var freshBoms []Bom
	for _, b := range boms {
		c := coordinate{b.GroupID, b.ArtifactID}
		if imported[c] {
			continue
		}
		imported[c] = true
		freshBoms = append(freshBoms, b)
	}
	if len(freshBoms) > 0 {
		var lines []string
		for _, b := range freshBoms {
			lines = append(lines, bomLines(b, indent)...)
		}
		switch {
		case mgmt == nil:
			lines = wrap(wrap(lines, indent, TagDependencies), indent, TagDependencyManagement)
			edits = append(edits, in.insert(doc, project, lines))
		case mgmt.Child(TagDependencies) == nil:
			edits = append(edits, in.insert(doc, mgmt, wrap(lines, indent, TagDependencies)))
		default:
			edits = append(edits, in.insert(doc, mgmt.Child(TagDependencies), lines))
		}
	}
	return edits, nil
}

// AddRepositories computes the insertions that declare repos. Repositories
// whose id is already declared are skipped.
func (in *Injector) AddRepositories(doc *Document, repos []Repository) ([]Edit, error) {
	edits, err := in.addRepositories(doc, repos)
	if err != nil {
		return nil, err
	}
	return expandSelfClosing(doc, edits), nil
}

func (in *Injector) addRepositories(doc *Document, repos []Repository) ([]Edit, error) {
	project, err := doc.Project()
	if err != nil {
		return nil, err
	}
	indent := in.indent()
	container := project.Child(TagRepositories)
	known := map[string]bool{}
	for _, r := range container.Elements(TagRepository) {
		known[r.ChildText("id")] = true
	}
	var lines []string
	for _, r := range repos {
		if known[r.ID] {
			continue
		}
		known[r.ID] = true
		lines = append(lines, repositoryLines(r, indent)...)
	}
	if len(lines) == 0 {
		return nil, nil
	}
	if container != nil {
		return []Edit{in.insert(doc, container, lines)}, nil
	}
	return []Edit{in.insert(doc, project, wrap(lines, indent, TagRepositories))}, nil
}

// RemoveDependency computes the deletion of every <project><dependencies>
// entry matching groupID and artifactID exactly. An entry alone on its lines
// is removed with those lines. No match yields no edits.
func RemoveDependency(doc *Document, groupID, artifactID string) ([]Edit, error) {
	project, err := doc.Project()
	if err != nil {
		return nil, err
	}
	var edits []Edit
	for _, dep := range project.Child(TagDependencies).Elements(TagDependency) {
		if dep.ChildText(TagGroupID) != groupID || dep.ChildText(TagArtifactID) != artifactID {
			continue
		}
		start, end := doc.lineSpan(dep.Start, dep.End)
		edits = append(edits, Edit{Start: start, End: end})
	}
	return edits, nil
}

// Dependencies lists the artifacts declared in <project><dependencies>.
func Dependencies(doc *Document) ([]Artifact, error) {
	project, err := doc.Project()
	if err != nil {
		return nil, err
	}
	var out []Artifact
	for _, dep := range project.Child(TagDependencies).Elements(TagDependency) {
		out = append(out, Artifact{
			GroupID:    dep.ChildText(TagGroupID),
			ArtifactID: dep.ChildText(TagArtifactID),
			Version:    dep.ChildText(TagVersion),
			Scope:      dep.ChildText(TagScope),
		})
	}
	return out, nil
}

// BootVersion returns the version of a spring-boot-starter-parent <parent>,
// or "" when the project does not inherit from it.
func BootVersion(doc *Document) (string, error) {
	project, err := doc.Project()
	if err != nil {
		return "", err
	}
	parent := project.Child(TagParent)
	if parent.ChildText(TagGroupID) != "org.springframework.boot" ||
		parent.ChildText(TagArtifactID) != "spring-boot-starter-parent" {
		return "", nil
	}
	return parent.ChildText(TagVersion), nil
}

// ParentRelativePath returns where Maven looks for the parent descriptor.
// It is "" without a <parent>, and "../pom.xml" when <relativePath> is absent.
func ParentRelativePath(doc *Document) (string, error) {
	project, err := doc.Project()
	if err != nil {
		return "", err
	}
	parent := project.Child(TagParent)
	if parent == nil {
		return "", nil
	}
	rel := parent.Child(TagRelativePath)
	if rel == nil {
		return "../pom.xml", nil
	}
	return rel.Text(), nil
}

func (in *Injector) indent() string {
	if in == nil || in.Indent == "" {
		return "\t"
	}
	return in.Indent
}

// insert places lines as the last content of parent. The block is indented
// one unit deeper than the line holding parent's closing tag. When that tag
// sits alone on its line the block goes in front of the line, so the tag
// never shares a line with injected content. A self-closing parent yields
// an unresolved edit for expandSelfClosing.
func (in *Injector) insert(doc *Document, parent *Node, lines []string) Edit {
	eol := doc.EOL()
	indent := in.indent()
	var sb strings.Builder

	if parent.SelfClosing {
		base := doc.indentation(parent.Start)
		for _, l := range lines {
			sb.WriteString(eol + base + indent + l)
		}
		return Edit{Start: parent.Start, End: parent.End, Text: sb.String(), expand: parent}
	}

	pos := parent.ContentEnd
	base := doc.indentation(pos)
	lineStart := doc.lineStart(pos)
	if lineStart > parent.ContentStart && doc.onlyWhitespace(lineStart, pos) {
		for _, l := range lines {
			sb.WriteString(base + indent + l + eol)
		}
		return Edit{Start: lineStart, End: lineStart, Text: sb.String()}
	}
	for _, l := range lines {
		sb.WriteString(eol + base + indent + l)
	}
	sb.WriteString(eol + base)
	return Edit{Start: pos, End: pos, Text: sb.String()}
}

// lineSpan widens [start, end) to whole lines when nothing else shares them.
func (d *Document) lineSpan(start, end int) (int, int) {
	ls := d.lineStart(start)
	if !d.onlyWhitespace(ls, start) {
		return start, end
	}
	le := end
	for le < len(d.Source) && (d.Source[le] == ' ' || d.Source[le] == '\t') {
		le++
	}
	if le < len(d.Source) && d.Source[le] == '\r' {
		le++
	}
	switch {
	case le < len(d.Source) && d.Source[le] == '\n':
		return ls, le + 1
	case le == len(d.Source):
		return ls, le
	}
	return start, end
}

func declared(container *Node) map[coordinate]bool {
	out := map[coordinate]bool{}
	for _, dep := range container.Elements(TagDependency) {
		out[coordinate{dep.ChildText(TagGroupID), dep.ChildText(TagArtifactID)}] = true
	}
	return out
}

func artifactLines(a Artifact, indent string) []string {
	lines := []string{
		element(TagGroupID, a.GroupID),
		element(TagArtifactID, a.ArtifactID),
	}
	if a.Version != "" {
		lines = append(lines, element(TagVersion, a.Version))
	}
	if a.Scope != "" && a.Scope != defaultScope {
		lines = append(lines, element(TagScope, a.Scope))
	}
	return wrap(lines, indent, TagDependency)
}

func bomLines(b Bom, indent string) []string {
	return wrap([]string{
		element(TagGroupID, b.GroupID),
		element(TagArtifactID, b.ArtifactID),
		element(TagVersion, b.Version),
		element("type", "pom"),
		element(TagScope, "import"),
	}, indent, TagDependency)
}

func repositoryLines(r Repository, indent string) []string {
	enabled := "false"
	if r.SnapshotsEnabled {
		enabled = "true"
	}
	return wrap([]string{
		element("id", r.ID),
		element("name", r.Name),
		element("url", r.URL),
		"<snapshots>",
		indent + element("enabled", enabled),
		"</snapshots>",
	}, indent, TagRepository)
}

func wrap(lines []string, indent, tag string) []string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, "<"+tag+">")
	for _, l := range lines {
		out = append(out, indent+l)
	}
	return append(out, "</"+tag+">")
}

func element(tag, value string) string {
	var sb strings.Builder
	sb.WriteString("<" + tag + ">")
	_ = xml.EscapeText(&sb, []byte(value))
	sb.WriteString("</" + tag + ">")
	return sb.String()
}

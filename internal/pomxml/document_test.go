package pomxml_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"initializr/internal/pomxml"
)

const samplePom = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
	<modelVersion>4.0.0</modelVersion>
	<parent>
		<groupId>org.springframework.boot</groupId>
		<artifactId>spring-boot-starter-parent</artifactId>
		<version>3.2.1</version>
		<relativePath/> <!-- lookup parent from repository -->
	</parent>
	<dependencies>
		<dependency>
			<groupId>org.springframework.boot</groupId>
			<artifactId>spring-boot-starter-web</artifactId>
		</dependency>
	</dependencies>
</project>
`

func TestParseOffsetsPointIntoSource(t *testing.T) {
	doc, err := pomxml.Parse(samplePom)
	require.NoError(t, err)

	deps := doc.FindByTag(pomxml.TagDependencies)
	require.Len(t, deps, 1)
	n := deps[0]

	whole := doc.Source[n.Start:n.End]
	assert.True(t, strings.HasPrefix(whole, "<dependencies>"), "got %q", whole)
	assert.True(t, strings.HasSuffix(whole, "</dependencies>"), "got %q", whole)

	content := doc.Source[n.ContentStart:n.ContentEnd]
	assert.Contains(t, content, "spring-boot-starter-web")
	assert.False(t, strings.Contains(content, "<dependencies>"))
}

func TestParseNamespacedRootUsesLocalName(t *testing.T) {
	doc, err := pomxml.Parse(samplePom)
	require.NoError(t, err)

	project, err := doc.Project()
	require.NoError(t, err)
	assert.Equal(t, "project", project.Tag)
	assert.Equal(t, "4.0.0", project.ChildText("modelVersion"))
	assert.Same(t, project, doc.Root())
}

func TestParseSelfClosingElement(t *testing.T) {
	doc, err := pomxml.Parse(samplePom)
	require.NoError(t, err)

	rel := doc.FindByTag(pomxml.TagRelativePath)
	require.Len(t, rel, 1)
	assert.True(t, rel[0].SelfClosing)
	assert.Equal(t, "<relativePath/>", doc.Source[rel[0].Start:rel[0].End])
	assert.Equal(t, rel[0].ContentStart, rel[0].ContentEnd)
	assert.Equal(t, "", rel[0].Text())
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"mismatched": "<project><dependencies></project>",
		"unclosed":   "<project>\n<dependencies>\n",
		"empty":      "",
		"garbage":    "not xml at all",
		"leading":    "junk<project></project>",
		"trailing":   "<project></project>trailing text",
		"two roots":  "<project></project><other/>",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := pomxml.Parse(src)
			require.Error(t, err)
			var me *pomxml.MalformedDocumentError
			assert.True(t, errors.As(err, &me), "want MalformedDocumentError, got %T", err)
		})
	}
}

func TestParseAllowsProlog(t *testing.T) {
	src := "<?xml version=\"1.0\"?>\n<!-- build -->\n<project/>\n<!-- end -->\n"
	doc, err := pomxml.Parse(src)
	require.NoError(t, err)
	assert.Equal(t, "project", doc.Root().Tag)
}

func TestProjectShapeErrors(t *testing.T) {
	doc, err := pomxml.Parse("<root><project/><project/></root>")
	require.NoError(t, err)
	_, err = doc.Project()
	var se *pomxml.ShapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Count)

	doc, err = pomxml.Parse("<settings/>")
	require.NoError(t, err)
	_, err = doc.Project()
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 0, se.Count)
}

func TestFindByTagDoesNotDescendIntoMatches(t *testing.T) {
	doc, err := pomxml.Parse("<a><b><b/></b><c><b/></c></a>")
	require.NoError(t, err)
	assert.Len(t, doc.FindByTag("b"), 2)
}

func TestEOLDetection(t *testing.T) {
	lf, err := pomxml.Parse("<project>\n</project>\n")
	require.NoError(t, err)
	assert.Equal(t, "\n", lf.EOL())

	crlf, err := pomxml.Parse("<project>\r\n</project>\r\n")
	require.NoError(t, err)
	assert.Equal(t, "\r\n", crlf.EOL())
}

func TestBootVersionAndParentPath(t *testing.T) {
	doc, err := pomxml.Parse(samplePom)
	require.NoError(t, err)

	v, err := pomxml.BootVersion(doc)
	require.NoError(t, err)
	assert.Equal(t, "3.2.1", v)

	rel, err := pomxml.ParentRelativePath(doc)
	require.NoError(t, err)
	assert.Equal(t, "", rel)

	child, err := pomxml.Parse(`<project><parent><groupId>com.acme</groupId><artifactId>acme-parent</artifactId></parent></project>`)
	require.NoError(t, err)
	v, err = pomxml.BootVersion(child)
	require.NoError(t, err)
	assert.Equal(t, "", v)
	rel, err = pomxml.ParentRelativePath(child)
	require.NoError(t, err)
	assert.Equal(t, "../pom.xml", rel)

	orphan, err := pomxml.Parse(`<project/>`)
	require.NoError(t, err)
	rel, err = pomxml.ParentRelativePath(orphan)
	require.NoError(t, err)
	assert.Equal(t, "", rel)
}

package metadata

import (
	"net/url"
	"strings"
)

// ProjectRequest describes an archive to generate.
type ProjectRequest struct {
	ServiceURL   string
	BuildTool    string // "maven" or "gradle"
	Language     string
	JavaVersion  string
	GroupID      string
	ArtifactID   string
	PackageName  string
	Packaging    string
	BootVersion  string
	Dependencies []string
}

// ProjectType maps a build tool to the service's project type id.
func ProjectType(buildTool string) string {
	if buildTool == "gradle" {
		return "gradle-project"
	}
	return "maven-project"
}

// URL returns the starter.zip location for r. The archive's base directory
// is named after the artifact id.
func (r ProjectRequest) URL() string {
	q := url.Values{}
	q.Set("type", ProjectType(r.BuildTool))
	q.Set("language", r.Language)
	q.Set("javaVersion", r.JavaVersion)
	q.Set("groupId", r.GroupID)
	q.Set("artifactId", r.ArtifactID)
	q.Set("name", r.ArtifactID)
	if r.PackageName != "" {
		q.Set("packageName", r.PackageName)
	}
	q.Set("packaging", r.Packaging)
	q.Set("bootVersion", r.BootVersion)
	q.Set("baseDir", r.ArtifactID)
	q.Set("dependencies", strings.Join(r.Dependencies, ","))
	return baseURL(r.ServiceURL) + "starter.zip?" + q.Encode()
}

// Package metadata talks to an Initializr-compatible service: it fetches the
// option catalog (platform versions, languages, dependency groups), the
// per-version starter coordinates, and generated project archives.
package metadata

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
)

// MediaType is the metadata format requested from the service.
const MediaType = "application/vnd.initializr.v2.1+json"

// DefaultServiceURL is used when no service URL is configured.
const DefaultServiceURL = "https://start.spring.io/"

// Port fetches catalogs for a service location.
type Port interface {
	Catalog(ctx context.Context, serviceURL string) (*Catalog, error)
	Starters(ctx context.Context, serviceURL, bootVersion string) (*Starters, error)
}

// Option is one selectable value of a catalog category.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Link points at documentation for a dependency.
type Link struct {
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
}

// Links groups the documentation references of a dependency.
type Links struct {
	Home      []Link
	Sample    []Link
	Reference []Link
	Guide     []Link
	Other     []Link
}

// All returns every link in display order.
func (l Links) All() []Link {
	var out []Link
	for _, group := range [][]Link{l.Home, l.Sample, l.Reference, l.Guide, l.Other} {
		out = append(out, group...)
	}
	return out
}

// UnmarshalJSON accepts each relation as a single link or a list of links.
func (l *Links) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for rel, msg := range raw {
		links, err := decodeLinks(msg)
		if err != nil {
			return err
		}
		switch rel {
		case "home":
			l.Home = links
		case "sample":
			l.Sample = links
		case "reference":
			l.Reference = links
		case "guide":
			l.Guide = links
		default:
			l.Other = append(l.Other, links...)
		}
	}
	return nil
}

func decodeLinks(msg json.RawMessage) ([]Link, error) {
	var many []Link
	if err := json.Unmarshal(msg, &many); err == nil {
		return many, nil
	}
	var one Link
	if err := json.Unmarshal(msg, &one); err != nil {
		return nil, err
	}
	if one.Href == "" {
		return nil, nil
	}
	return []Link{one}, nil
}

// Dependency is one entry of the dependency catalog.
type Dependency struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Group        string `json:"-"`
	Description  string `json:"description"`
	VersionRange string `json:"versionRange"`
	Links        Links  `json:"_links"`
}

// Group is a named category of dependencies, in catalog order.
type Group struct {
	Name         string       `json:"name"`
	Dependencies []Dependency `json:"values"`
}

// Catalog is the service overview document.
type Catalog struct {
	BootVersions       []Option
	DefaultBootVersion string
	Languages          []Option
	DefaultLanguage    string
	JavaVersions       []Option
	DefaultJavaVersion string
	Packagings         []Option
	DefaultPackaging   string
	Types              []Option
	Groups             []Group
}

// Dependencies flattens the catalog, keeping only entries compatible with
// bootVersion. An empty bootVersion keeps everything.
func (c *Catalog) Dependencies(bootVersion string) []Dependency {
	var out []Dependency
	for _, g := range c.Groups {
		for _, d := range g.Dependencies {
			if bootVersion != "" && d.VersionRange != "" && !MatchRange(bootVersion, d.VersionRange) {
				continue
			}
			d.Group = g.Name
			out = append(out, d)
		}
	}
	return out
}

// OffersType reports whether the service generates projects of type id. A
// catalog that lists no types accepts any.
func (c *Catalog) OffersType(id string) bool {
	if len(c.Types) == 0 {
		return true
	}
	for _, t := range c.Types {
		if t.ID == id {
			return true
		}
	}
	return false
}

type category struct {
	Default string   `json:"default"`
	Values  []Option `json:"values"`
}

type overview struct {
	BootVersion  category `json:"bootVersion"`
	Language     category `json:"language"`
	JavaVersion  category `json:"javaVersion"`
	Packaging    category `json:"packaging"`
	Type         category `json:"type"`
	Dependencies struct {
		Values []Group `json:"values"`
	} `json:"dependencies"`
}

func (o *overview) catalog() *Catalog {
	return &Catalog{
		BootVersions:       defaultFirst(o.BootVersion),
		DefaultBootVersion: o.BootVersion.Default,
		Languages:          o.Language.Values,
		DefaultLanguage:    o.Language.Default,
		JavaVersions:       o.JavaVersion.Values,
		DefaultJavaVersion: o.JavaVersion.Default,
		Packagings:         o.Packaging.Values,
		DefaultPackaging:   o.Packaging.Default,
		Types:              o.Type.Values,
		Groups:             o.Dependencies.Values,
	}
}

// defaultFirst moves the category default to the front.
func defaultFirst(c category) []Option {
	out := make([]Option, 0, len(c.Values))
	for _, v := range c.Values {
		if v.ID == c.Default {
			out = append(out, v)
		}
	}
	for _, v := range c.Values {
		if v.ID != c.Default {
			out = append(out, v)
		}
	}
	return out
}

// Starter holds the build coordinates of one dependency id.
type Starter struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version,omitempty"`
	Scope      string `json:"scope,omitempty"`
	Bom        string `json:"bom,omitempty"`
	Repository string `json:"repository,omitempty"`
}

// Repository is an extra artifact repository a starter needs.
type Repository struct {
	Name            string `json:"name"`
	URL             string `json:"url"`
	SnapshotEnabled bool   `json:"snapshotEnabled"`
}

// Bom is a bill of materials a starter imports.
type Bom struct {
	GroupID      string   `json:"groupId"`
	ArtifactID   string   `json:"artifactId"`
	Version      string   `json:"version"`
	Repositories []string `json:"repositories,omitempty"`
}

// Starters is the dependency detail document for one platform version.
type Starters struct {
	BootVersion  string                `json:"bootVersion"`
	Dependencies map[string]Starter    `json:"dependencies"`
	Repositories map[string]Repository `json:"repositories"`
	Boms         map[string]Bom        `json:"boms"`
}

// IDsFor returns, in key order, the starter ids whose coordinates appear in
// present (keyed "groupId:artifactId").
func (s *Starters) IDsFor(present map[string]bool) []string {
	var ids []string
	for _, id := range slices.Sorted(maps.Keys(s.Dependencies)) {
		st := s.Dependencies[id]
		if present[st.GroupID+":"+st.ArtifactID] {
			ids = append(ids, id)
		}
	}
	return ids
}

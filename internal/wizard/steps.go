package wizard

import (
	"context"
	"regexp"
	"strings"

	"initializr/internal/dependency"
	"initializr/internal/metadata"
	"initializr/internal/prompt"
)

var (
	groupIDPattern     = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z0-9_]+)*$`)
	artifactIDPattern  = regexp.MustCompile(`^[a-z_][a-z0-9_]*(-[a-z_][a-z0-9_]*)*$`)
	packageNamePattern = groupIDPattern
)

// ValidateGroupID returns a message when v is not a valid group id.
func ValidateGroupID(v string) string {
	if groupIDPattern.MatchString(v) {
		return ""
	}
	return "Invalid Group Id"
}

// ValidateArtifactID returns a message when v is not a valid artifact id.
func ValidateArtifactID(v string) string {
	if artifactIDPattern.MatchString(v) {
		return ""
	}
	return "Invalid Artifact Id"
}

// ValidatePackageName returns a message when v is not a valid package name.
func ValidatePackageName(v string) string {
	if packageNamePattern.MatchString(v) {
		return ""
	}
	return "Invalid Package Name"
}

func fixed(value string) func(*Record) (string, bool) {
	return func(*Record) (string, bool) {
		return value, value != ""
	}
}

// ServiceURLStep picks among the configured service URLs. A single URL is
// used without asking.
func ServiceURLStep(urls []string) *Step {
	return &Step{
		Name: "ServiceUrl",
		Kind: Pick,
		Prompt: prompt.Config{
			Title:       "Select the service URL",
			Placeholder: "Filter service URLs",
		},
		Resolve: func(*Record) (string, bool) {
			switch len(urls) {
			case 0:
				return metadata.DefaultServiceURL, true
			case 1:
				return urls[0], true
			}
			return "", false
		},
		Load: func(context.Context, *Record) (Options, error) {
			var opts Options
			for _, u := range urls {
				opts.Items = append(opts.Items, Option{Value: u, Label: u})
			}
			return opts, nil
		},
		Set: func(rec *Record, v string) { rec.ServiceURL = v },
	}
}

// catalogPick builds a Pick step whose options come from the service
// overview of the record's service URL.
func catalogPick(md metadata.Port, name, title, placeholder, def string,
	from func(*metadata.Catalog) ([]metadata.Option, string),
	set func(*Record, string),
) *Step {
	return &Step{
		Name: name,
		Kind: Pick,
		Prompt: prompt.Config{
			Title:       title,
			Placeholder: placeholder,
		},
		Busy:    "Fetching metadata...",
		Resolve: fixed(def),
		Load: func(ctx context.Context, rec *Record) (Options, error) {
			cat, err := md.Catalog(ctx, rec.ServiceURL)
			if err != nil {
				return Options{}, err
			}
			values, dflt := from(cat)
			opts := Options{Default: dflt}
			for _, v := range values {
				label := v.Name
				if label == "" {
					label = v.ID
				}
				opts.Items = append(opts.Items, Option{Value: v.ID, Label: label})
			}
			return opts, nil
		},
		Set: set,
	}
}

// LanguageStep picks the project language.
func LanguageStep(md metadata.Port, def string) *Step {
	return catalogPick(md, "Language", "Specify project language", "Filter languages", def,
		func(c *metadata.Catalog) ([]metadata.Option, string) { return c.Languages, c.DefaultLanguage },
		func(rec *Record, v string) { rec.Language = v })
}

// JavaVersionStep picks the runtime version.
func JavaVersionStep(md metadata.Port, def string) *Step {
	return catalogPick(md, "JavaVersion", "Specify Java version", "Filter versions", def,
		func(c *metadata.Catalog) ([]metadata.Option, string) { return c.JavaVersions, c.DefaultJavaVersion },
		func(rec *Record, v string) { rec.JavaVersion = v })
}

// PackagingStep picks the packaging kind.
func PackagingStep(md metadata.Port, def string) *Step {
	return catalogPick(md, "Packaging", "Specify packaging type", "Filter packaging types", def,
		func(c *metadata.Catalog) ([]metadata.Option, string) { return c.Packagings, c.DefaultPackaging },
		func(rec *Record, v string) { rec.Packaging = v })
}

// BootVersionStep picks the platform version. The service default is
// listed first.
func BootVersionStep(md metadata.Port, def string) *Step {
	return catalogPick(md, "BootVersion", "Specify Spring Boot version", "Filter versions", def,
		func(c *metadata.Catalog) ([]metadata.Option, string) { return c.BootVersions, c.DefaultBootVersion },
		func(rec *Record, v string) { rec.BootVersion = v })
}

func orDefault(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// GroupIDStep asks for the group id.
func GroupIDStep(def string) *Step {
	return &Step{
		Name: "GroupId",
		Kind: Input,
		Prompt: prompt.Config{
			Title:       "Input Group Id",
			Placeholder: "e.g. com.example",
			Prompt:      "Input Group Id for your project.",
		},
		Initial: func(_ *Record, last string) string {
			return orDefault(last, def, "com.example")
		},
		Validate: ValidateGroupID,
		Set:      func(rec *Record, v string) { rec.GroupID = v },
	}
}

// ArtifactIDStep asks for the artifact id.
func ArtifactIDStep(def string) *Step {
	return &Step{
		Name: "ArtifactId",
		Kind: Input,
		Prompt: prompt.Config{
			Title:       "Input Artifact Id",
			Placeholder: "e.g. demo",
			Prompt:      "Input Artifact Id for your project.",
		},
		Initial: func(_ *Record, last string) string {
			return orDefault(last, def, "demo")
		},
		Validate: ValidateArtifactID,
		Set:      func(rec *Record, v string) { rec.ArtifactID = v },
	}
}

// RecommendedPackageName derives a package name from group and artifact id.
func RecommendedPackageName(groupID, artifactID string) string {
	if groupID == "" || artifactID == "" {
		return ""
	}
	return strings.ReplaceAll(groupID+"."+artifactID, "-", "_")
}

// PackageNameStep asks for the base package. It suggests one derived from
// the current group and artifact id, falling back to the last answer.
func PackageNameStep() *Step {
	return &Step{
		Name: "PackageName",
		Kind: Input,
		Prompt: prompt.Config{
			Title:       "Input Package Name",
			Placeholder: "e.g. com.example",
			Prompt:      "Input Package Name for your project.",
		},
		Initial: func(rec *Record, last string) string {
			return orDefault(RecommendedPackageName(rec.GroupID, rec.ArtifactID), last)
		},
		Validate: ValidatePackageName,
		Set:      func(rec *Record, v string) { rec.PackageName = v },
	}
}

// DependenciesStep runs the dependency selection loop against the catalog
// filtered for the record's platform version.
func DependenciesStep(md metadata.Port, history *dependency.History, preselected []string) *Step {
	return &Step{
		Name: "Dependencies",
		Kind: Dependencies,
		Prompt: prompt.Config{
			Title:       "Choose dependencies",
			Placeholder: "Search for dependencies.",
		},
		Busy: "Fetching dependencies...",
		Deps: &DependencySource{
			Catalog: func(ctx context.Context, rec *Record) ([]metadata.Dependency, error) {
				cat, err := md.Catalog(ctx, rec.ServiceURL)
				if err != nil {
					return nil, err
				}
				return cat.Dependencies(rec.BootVersion), nil
			},
			History:     history,
			Preselected: preselected,
		},
	}
}

package wizard

import (
	"initializr/internal/config"
	"initializr/internal/dependency"
	"initializr/internal/metadata"
)

// Sources are the collaborators chains are built from.
type Sources struct {
	Config   *config.Config
	Metadata metadata.Port
	History  *dependency.History
}

func (s Sources) config() *config.Config {
	if s.Config == nil {
		return config.Default()
	}
	return s.Config
}

// GenerateChain builds a fresh chain for creating a new project:
// ServiceUrl, Language, JavaVersion, GroupId, ArtifactId, PackageName,
// Packaging, BootVersion, Dependencies.
func GenerateChain(src Sources) (*Chain, error) {
	cfg := src.config()
	d := cfg.Defaults
	return NewChain(
		ServiceURLStep(cfg.ServiceURL),
		LanguageStep(src.Metadata, d.Language),
		JavaVersionStep(src.Metadata, d.JavaVersion),
		GroupIDStep(d.GroupID),
		ArtifactIDStep(d.ArtifactID),
		PackageNameStep(),
		PackagingStep(src.Metadata, d.Packaging),
		BootVersionStep(src.Metadata, d.BootVersion),
		DependenciesStep(src.Metadata, src.History, d.Dependencies),
	)
}

// EditChain builds a fresh chain for changing the dependencies of an
// existing project. The record's BootVersion must already be set. existing
// reports the ids the project declares; with lock they cannot be deselected.
func EditChain(src Sources, existing ExistingFunc, lock bool) (*Chain, error) {
	cfg := src.config()
	deps := DependenciesStep(src.Metadata, src.History, nil)
	deps.Deps.Existing = existing
	deps.Deps.LockExisting = lock
	return NewChain(
		ServiceURLStep(cfg.ServiceURL),
		deps,
	)
}

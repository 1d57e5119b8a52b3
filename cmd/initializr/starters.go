package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"initializr/internal/metadata"
	"initializr/internal/pomxml"
	"initializr/internal/store"
	"initializr/internal/wizard"
)

// ErrNotBootProject means no spring-boot-starter-parent was found up the
// parent chain.
var ErrNotBootProject = errors.New("not a valid Spring Boot project")

// baseStarter is declared when an edit leaves no starter selected.
var baseStarter = metadata.Starter{GroupID: "org.springframework.boot", ArtifactID: "spring-boot-starter"}

func runAdd(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: initializr add <pom.xml>")
	}
	return editStarters(ctx, a, args[0], true)
}

func runEdit(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: initializr edit <pom.xml>")
	}
	return editStarters(ctx, a, args[0], false)
}

// editStarters runs the dependency wizard against the descriptor at path and
// patches it in place. With addOnly, declared starters cannot be removed.
func editStarters(ctx context.Context, a *app, path string, addOnly bool) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, "pom.xml")
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := pomxml.Parse(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	bootVersion, err := searchBootVersion(path, doc)
	if err != nil {
		return err
	}
	if bootVersion == "" {
		return ErrNotBootProject
	}
	logger := a.logger.With("pom", path, "bootVersion", bootVersion)

	declared, err := pomxml.Dependencies(doc)
	if err != nil {
		return err
	}
	present := map[string]bool{}
	for _, d := range declared {
		present[d.GroupID+":"+d.ArtifactID] = true
	}

	var (
		catalog  *metadata.Catalog
		starters *metadata.Starters
		existing []string
	)
	loadExisting := func(ctx context.Context, rec *wizard.Record) ([]string, error) {
		cat, st, err := a.client.FetchAll(ctx, rec.ServiceURL, rec.BootVersion)
		if err != nil {
			return nil, err
		}
		catalog, starters, existing = cat, st, st.IDsFor(present)
		return existing, nil
	}

	chain, err := wizard.EditChain(a.sources(), loadExisting, addOnly)
	if err != nil {
		return err
	}
	rec, err := a.engine().Run(ctx, chain, &wizard.Record{BootVersion: bootVersion})
	if err != nil {
		return err
	}

	selected := rec.DependencyIDs()
	toAdd := without(selected, existing)
	var toRemove []string
	if !addOnly {
		toRemove = without(existing, selected)
	}
	if len(toAdd)+len(toRemove) == 0 {
		a.remember(rec)
		fmt.Fprintln(a.out, "No changes.")
		return nil
	}

	ok, err := a.prompt.Confirm(ctx, changeSummary(dependencyNames(catalog), toRemove, toAdd))
	if err != nil {
		return err
	}
	if !ok {
		return &wizard.AbortedError{Field: "Confirmation"}
	}

	plan := pomxml.NewPlan(doc, pomxml.NewInjector(pomxml.IndentUnit(a.cfg.Editor.InsertSpaces, a.cfg.Editor.TabSize)))
	for _, id := range toRemove {
		st := starters.Dependencies[id]
		if err := plan.Remove(st.GroupID, st.ArtifactID); err != nil {
			return err
		}
	}
	if !addOnly && len(selected) == 0 {
		if starters.Dependencies == nil {
			starters.Dependencies = map[string]metadata.Starter{}
		}
		starters.Dependencies[baseStarter.ArtifactID] = baseStarter
		toAdd = append(toAdd, baseStarter.ArtifactID)
	}
	artifacts, boms, repos := resolveStarters(starters, toAdd)
	if err := plan.Add(artifacts, boms); err != nil {
		return err
	}
	if err := plan.AddRepositories(repos); err != nil {
		return err
	}
	out, err := plan.Apply()
	if err != nil {
		return err
	}
	if err := store.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.remember(rec)
	logger.Info("pom updated", "added", len(toAdd), "removed", len(toRemove), "edits", len(plan.Edits()))
	fmt.Fprintln(a.out, "Pom file successfully updated.")
	return nil
}

// searchBootVersion reads the platform version from path's parent, following
// <relativePath> through local parent descriptors.
func searchBootVersion(path string, doc *pomxml.Document) (string, error) {
	visited := map[string]bool{}
	for {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", err
		}
		if visited[abs] {
			return "", nil
		}
		visited[abs] = true

		v, err := pomxml.BootVersion(doc)
		if err != nil || v != "" {
			return v, err
		}
		rel, err := pomxml.ParentRelativePath(doc)
		if err != nil || rel == "" {
			return "", err
		}
		next := filepath.Join(filepath.Dir(path), filepath.FromSlash(rel))
		info, err := os.Stat(next)
		if err != nil {
			return "", nil
		}
		if info.IsDir() {
			next = filepath.Join(next, "pom.xml")
		}
		src, err := os.ReadFile(next)
		if err != nil {
			return "", nil
		}
		if doc, err = pomxml.Parse(string(src)); err != nil {
			return "", fmt.Errorf("%s: %w", next, err)
		}
		path = next
	}
}

// dependencyNames maps every catalog id to its display name.
func dependencyNames(cat *metadata.Catalog) map[string]string {
	names := map[string]string{}
	for _, d := range cat.Dependencies("") {
		names[d.ID] = d.Name
	}
	return names
}

// changeSummary renders "Removing: [A]. Adding: [B, C]. Proceed?".
func changeSummary(names map[string]string, toRemove, toAdd []string) string {
	list := func(ids []string) string {
		var out []string
		for _, id := range ids {
			if n := names[id]; n != "" {
				out = append(out, n)
			}
		}
		return strings.Join(out, ", ")
	}
	var parts []string
	if len(toRemove) > 0 {
		parts = append(parts, fmt.Sprintf("Removing: [%s].", list(toRemove)))
	}
	if len(toAdd) > 0 {
		parts = append(parts, fmt.Sprintf("Adding: [%s].", list(toAdd)))
	}
	return strings.Join(append(parts, "Proceed?"), " ")
}

// resolveStarters maps ids to the entries the injector writes. Each BOM and
// repository appears once even when several starters need it.
func resolveStarters(st *metadata.Starters, ids []string) ([]pomxml.Artifact, []pomxml.Bom, []pomxml.Repository) {
	var (
		artifacts []pomxml.Artifact
		boms      []pomxml.Bom
		repos     []pomxml.Repository
		seenBom   = map[string]bool{}
		seenRepo  = map[string]bool{}
	)
	addRepo := func(id string) {
		r, ok := st.Repositories[id]
		if id == "" || !ok || seenRepo[id] {
			return
		}
		seenRepo[id] = true
		repos = append(repos, pomxml.Repository{ID: id, Name: r.Name, URL: r.URL, SnapshotsEnabled: r.SnapshotEnabled})
	}
	for _, id := range ids {
		s, ok := st.Dependencies[id]
		if !ok {
			continue
		}
		artifacts = append(artifacts, pomxml.Artifact{GroupID: s.GroupID, ArtifactID: s.ArtifactID, Version: s.Version, Scope: s.Scope})
		if b, ok := st.Boms[s.Bom]; ok && !seenBom[s.Bom] {
			seenBom[s.Bom] = true
			boms = append(boms, pomxml.Bom{GroupID: b.GroupID, ArtifactID: b.ArtifactID, Version: b.Version})
			for _, r := range b.Repositories {
				addRepo(r)
			}
		}
		addRepo(s.Repository)
	}
	return artifacts, boms, repos
}

// without returns the ids of a not in b, keeping a's order.
func without(a, b []string) []string {
	var out []string
	for _, id := range a {
		if !slices.Contains(b, id) {
			out = append(out, id)
		}
	}
	return out
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"initializr/internal/archive"
	"initializr/internal/metadata"
	"initializr/internal/prompt"
	"initializr/internal/wizard"
)

func runNew(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	gradle := fs.Bool("gradle", false, "generate a Gradle build")
	dir := fs.String("dir", ".", "parent directory")
	force := fs.Bool("force", false, "overwrite an existing folder")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return fmt.Errorf("usage: initializr new [-gradle] [-dir DIR] [-force]")
	}

	chain, err := wizard.GenerateChain(a.sources())
	if err != nil {
		return err
	}
	rec, err := a.engine().Run(ctx, chain, &wizard.Record{})
	if err != nil {
		return err
	}

	buildTool := "maven"
	if *gradle {
		buildTool = "gradle"
	}
	cat, err := a.client.Catalog(ctx, rec.ServiceURL)
	if err != nil {
		return err
	}
	if typ := metadata.ProjectType(buildTool); !cat.OffersType(typ) {
		return fmt.Errorf("%s does not generate %s projects", rec.ServiceURL, typ)
	}

	target := filepath.Join(*dir, rec.ArtifactID)
	if _, err := os.Stat(target); err == nil && !*force {
		msg := fmt.Sprintf("A folder [%s] already exists in %s. Overwrite?", rec.ArtifactID, *dir)
		ok, err := a.prompt.Confirm(ctx, msg)
		if err != nil {
			return err
		}
		if !ok {
			return &wizard.AbortedError{Field: "TargetFolder"}
		}
	}

	req := metadata.ProjectRequest{
		ServiceURL:   rec.ServiceURL,
		BuildTool:    buildTool,
		Language:     rec.Language,
		JavaVersion:  rec.JavaVersion,
		GroupID:      rec.GroupID,
		ArtifactID:   rec.ArtifactID,
		PackageName:  rec.PackageName,
		Packaging:    rec.Packaging,
		BootVersion:  rec.BootVersion,
		Dependencies: rec.DependencyIDs(),
	}

	tmp, err := os.CreateTemp("", "initializr-*.zip")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	err = a.prompt.Busy(ctx, "Downloading project...", func(ctx context.Context) error {
		return a.client.Download(ctx, req, tmp)
	})
	tmp.Close()
	if errors.Is(err, prompt.ErrCancelled) {
		return &wizard.AbortedError{Field: "Download"}
	}
	if err != nil {
		return fmt.Errorf("download project: %w", err)
	}

	if _, err := archive.Extract(tmpPath, *dir); err != nil {
		return fmt.Errorf("unpack project: %w", err)
	}
	a.remember(rec)
	a.logger.Info("project generated", "dir", target, "dependencies", len(req.Dependencies))
	fmt.Fprintf(a.out, "Generated %s in %s\n", rec.ArtifactID, target)
	return nil
}

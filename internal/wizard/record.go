// Package wizard runs ordered, resumable chains of prompts that fill a
// Record one field per step, with backward navigation and cancellation.
package wizard

import (
	"initializr/internal/dependency"
)

// Record accumulates the answers of one wizard run. It is created by the
// caller, filled by the steps, and only returned when the run completes.
type Record struct {
	ServiceURL  string
	Language    string
	JavaVersion string
	GroupID     string
	ArtifactID  string
	PackageName string
	Packaging   string
	BootVersion string
	// Dependencies is the confirming choice: a Confirm or LastUsed entry
	// whose ID is the comma-joined id list.
	Dependencies dependency.Choice
}

// DependencyIDs returns the confirmed dependency ids.
func (r *Record) DependencyIDs() []string {
	return r.Dependencies.IDs()
}

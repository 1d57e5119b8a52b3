// Package dependency tracks the set of dependencies picked during a session
// and renders it as a choice list.
package dependency

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"initializr/internal/metadata"
)

// ChoiceKind tells the dependency step what a picked entry means.
type ChoiceKind int

const (
	// LastUsed re-applies the remembered id list.
	LastUsed ChoiceKind = iota
	// Confirm ends selection with the current set.
	Confirm
	// Separator is a non-selectable group heading.
	Separator
	// Toggle flips one dependency in or out of the set.
	Toggle
)

func (k ChoiceKind) String() string {
	switch k {
	case LastUsed:
		return "lastUsed"
	case Confirm:
		return "selection"
	case Separator:
		return "separator"
	case Toggle:
		return "dependency"
	}
	return fmt.Sprintf("ChoiceKind(%d)", int(k))
}

// ConfirmHint is shown under the confirm entry.
const ConfirmHint = "Press <Enter> to continue."

// Choice is one rendered entry of the dependency list. For LastUsed and
// Confirm entries ID holds the comma-joined id list they stand for.
type Choice struct {
	Kind        ChoiceKind
	ID          string
	Label       string
	Description string
	Detail      string
	Selected    bool
	Locked      bool
	Links       []metadata.Link
}

// IDs splits a LastUsed or Confirm choice back into ids.
func (c Choice) IDs() []string {
	return SplitIDs(c.ID)
}

// Selection is the working set of chosen dependency ids plus an index of
// the catalog they come from. Ids keep insertion order.
type Selection struct {
	catalog []metadata.Dependency
	index   map[string]metadata.Dependency
	ids     []string
	locked  map[string]bool
	logger  *log.Logger
}

// NewSelection indexes deps, which must already be filtered for the
// platform version in use.
func NewSelection(deps []metadata.Dependency, logger *log.Logger) *Selection {
	if logger == nil {
		logger = log.Default()
	}
	s := &Selection{
		catalog: deps,
		index:   make(map[string]metadata.Dependency, len(deps)),
		locked:  map[string]bool{},
		logger:  logger,
	}
	for _, d := range deps {
		s.index[d.ID] = d
	}
	return s
}

// Select adds ids that are known and not yet selected.
func (s *Selection) Select(ids ...string) {
	for _, id := range ids {
		if !s.known(id) || s.Has(id) {
			continue
		}
		s.ids = append(s.ids, id)
	}
}

// Lock selects ids and prevents them from being toggled off.
func (s *Selection) Lock(ids ...string) {
	s.Select(ids...)
	for _, id := range ids {
		if s.known(id) {
			s.locked[id] = true
		}
	}
}

// Toggle adds id when absent and removes it when present. It reports whether
// the set changed; unknown and locked ids leave it unchanged.
func (s *Selection) Toggle(id string) bool {
	if !s.known(id) {
		s.logger.Debug("ignoring unknown dependency", "id", id)
		return false
	}
	if i := slices.Index(s.ids, id); i >= 0 {
		if s.locked[id] {
			s.logger.Debug("dependency is locked", "id", id)
			return false
		}
		s.ids = slices.Delete(s.ids, i, i+1)
		return true
	}
	s.ids = append(s.ids, id)
	return true
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	return slices.Contains(s.ids, id)
}

// IDs returns the selected ids in insertion order.
func (s *Selection) IDs() []string {
	return slices.Clone(s.ids)
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Names maps ids to display names, dropping unknown ids.
func (s *Selection) Names(ids []string) []string {
	var names []string
	for _, id := range ids {
		if d, ok := s.index[id]; ok {
			names = append(names, d.Name)
		}
	}
	return names
}

// Choices renders the list in fixed order: the last-used shortcut (only
// before anything is selected, and only when some remembered id is still
// in the catalog), the confirm entry, the selected dependencies, then every
// remaining group with its unselected dependencies in catalog order.
func (s *Selection) Choices(lastUsed string) []Choice {
	var out []Choice

	if s.Len() == 0 {
		if c, ok := s.lastUsedChoice(lastUsed); ok {
			out = append(out, c)
		}
	}

	noun := "dependencies"
	if s.Len() == 1 {
		noun = "dependency"
	}
	out = append(out, Choice{
		Kind:   Confirm,
		ID:     strings.Join(s.ids, ","),
		Label:  fmt.Sprintf("Selected %d %s", s.Len(), noun),
		Detail: ConfirmHint,
	})

	if s.Len() > 0 {
		out = append(out, Choice{Kind: Separator, ID: "Selected", Label: "Selected"})
		for _, id := range s.ids {
			out = append(out, s.dependencyChoice(s.index[id], true))
		}
	}

	group := ""
	first := true
	for _, d := range s.catalog {
		if s.Has(d.ID) {
			continue
		}
		if first || d.Group != group {
			group, first = d.Group, false
			out = append(out, Choice{Kind: Separator, ID: group, Label: group})
		}
		out = append(out, s.dependencyChoice(d, false))
	}
	return out
}

func (s *Selection) lastUsedChoice(lastUsed string) (Choice, bool) {
	var ids []string
	for _, id := range SplitIDs(lastUsed) {
		if s.known(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return Choice{}, false
	}
	return Choice{
		Kind:   LastUsed,
		ID:     strings.Join(ids, ","),
		Label:  "Last used",
		Detail: strings.Join(s.Names(ids), ", "),
	}, true
}

func (s *Selection) dependencyChoice(d metadata.Dependency, selected bool) Choice {
	return Choice{
		Kind:        Toggle,
		ID:          d.ID,
		Label:       d.Name,
		Description: d.Group,
		Detail:      d.Description,
		Selected:    selected,
		Locked:      s.locked[d.ID],
		Links:       d.Links.All(),
	}
}

func (s *Selection) known(id string) bool {
	_, ok := s.index[id]
	return ok
}

// SplitIDs parses a comma-joined id list, dropping blanks.
func SplitIDs(joined string) []string {
	var ids []string
	for _, id := range strings.Split(joined, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

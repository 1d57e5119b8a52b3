package dependency

import "strings"

// Policy decides how remembered dependency sets are keyed.
type Policy int

const (
	// Global keeps one process-wide slot.
	Global Policy = iota
	// PerBootVersion keeps one slot per platform version.
	PerBootVersion
)

// ParsePolicy maps a config scope to a Policy. Anything but "bootVersion"
// is Global.
func ParsePolicy(scope string) Policy {
	if scope == "bootVersion" {
		return PerBootVersion
	}
	return Global
}

// Store persists comma-joined id lists under a key; "" is the global key.
type Store interface {
	ReadLastUsed(key string) (string, error)
	WriteLastUsed(key, ids string) error
}

// History reads and writes the last confirmed dependency set.
type History struct {
	store  Store
	policy Policy
}

// NewHistory returns a history backed by st. A nil st remembers nothing.
func NewHistory(st Store, policy Policy) *History {
	return &History{store: st, policy: policy}
}

func (h *History) key(bootVersion string) string {
	if h.policy == PerBootVersion {
		return bootVersion
	}
	return ""
}

// Load returns the remembered ids for bootVersion, comma-joined.
func (h *History) Load(bootVersion string) (string, error) {
	if h == nil || h.store == nil {
		return "", nil
	}
	return h.store.ReadLastUsed(h.key(bootVersion))
}

// Save overwrites the remembered ids for bootVersion.
func (h *History) Save(bootVersion string, ids []string) error {
	if h == nil || h.store == nil {
		return nil
	}
	return h.store.WriteLastUsed(h.key(bootVersion), strings.Join(ids, ","))
}

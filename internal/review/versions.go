package review

import (
	"fmt"
	"slices"
	"strings"

	"github.com/docflow-ai/docflow-go/internal/database"
)

// Tab is a section of the review screen.
type Tab string

const (
	TabMetadata Tab = "metadata"
	TabHistory  Tab = "history"
	TabComments Tab = "comments"
	TabVersions Tab = "versions"
)

// AllTabs returns the tabs in display order.
func AllTabs() []Tab {
	return []Tab{TabMetadata, TabHistory, TabComments, TabVersions}
}

// ParseTab parses a tab name, case-insensitive.
func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(AllTabs(), t) {
		return "", fmt.Errorf("unknown tab: %q", s)
	}
	return t, nil
}

// SetTab switches the visible section.
func (s *Session) SetTab(t Tab) error {
	if !slices.Contains(AllTabs(), t) {
		return fmt.Errorf("unknown tab: %q", t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = t
	return nil
}

// Tab returns the visible section.
func (s *Session) Tab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

// Comparison pairs a selected version with the latest one.
type Comparison struct {
	Selected database.Version
	Latest   database.Version
}

// Same reports whether the selected version is the latest.
func (c Comparison) Same() bool {
	return c.Selected.ID == c.Latest.ID
}

// Span returns how many versions separate the two.
func (c Comparison) Span() int {
	return c.Latest.Version - c.Selected.Version
}

// latestVersion returns the index of the highest version number, or -1.
// Callers hold s.mu.
func (s *Session) latestVersion() int {
	best := -1
	for i, v := range s.review.Versions {
		if best < 0 || v.Version > s.review.Versions[best].Version {
			best = i
		}
	}
	return best
}

func (s *Session) versionIndex(id string) int {
	return slices.IndexFunc(s.review.Versions, func(v database.Version) bool { return v.ID == id })
}

// Versions returns the submitted versions in stored order.
func (s *Session) Versions() []database.Version {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.review.Versions)
}

// SelectVersion marks a version for comparison.
func (s *Session) SelectVersion(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.versionIndex(id) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownVersion, id)
	}
	s.version = id
	s.logger.Debug("Version selected")
	return nil
}

// SelectedVersion returns the id of the version marked for comparison.
func (s *Session) SelectedVersion() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, s.version != ""
}

// Compare pairs the selected version with the latest.
func (s *Session) Compare() (Comparison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version == "" {
		return Comparison{}, ErrNoVersionSelected
	}
	i := s.versionIndex(s.version)
	if i < 0 {
		return Comparison{}, fmt.Errorf("%w: %q", ErrUnknownVersion, s.version)
	}
	return Comparison{
		Selected: s.review.Versions[i],
		Latest:   s.review.Versions[s.latestVersion()],
	}, nil
}

// Package store persists reports as a single JSON document on disk. It is
// the durable side of the report lifecycle: the in-memory "current report" is
// only a read view once a report has been saved here.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/testpilot-ai/testpilot/pkg/schema"
)

// Store is the persistence contract. Save inserts new reports at the front
// and replaces by identifier when one already exists.
type Store interface {
	List() ([]schema.Report, error)
	Get(id string) (schema.Report, bool, error)
	Save(r schema.Report) ([]schema.Report, error)
	Delete(id string) ([]schema.Report, error)
}

// FileStore keeps all reports in one JSON array file.
type FileStore struct {
	Path string
}

// NewFileStore creates a store backed by the given file path. The file and
// its directory are created lazily on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// DefaultPath returns the conventional report file location under the user's
// home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".testpilot", "reports.json"), nil
}

// List reads all stored reports, newest first. Entries missing their
// identifier, type, or timestamp are silently filtered out. A file that is
// not valid JSON at all is treated as empty and cleared.
func (s *FileStore) List() ([]schema.Report, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []schema.Report{}, nil
		}
		return nil, fmt.Errorf("read report store: %w", err)
	}

	var rawEntries []json.RawMessage
	if err := json.Unmarshal(data, &rawEntries); err != nil {
		// Unparsable store: drop the invalid content rather than wedging
		// every listing from here on.
		if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("clear invalid report store: %w", err)
		}
		return []schema.Report{}, nil
	}

	reports := make([]schema.Report, 0, len(rawEntries))
	for _, raw := range rawEntries {
		var probe any
		if err := json.Unmarshal(raw, &probe); err != nil {
			continue
		}
		if !schema.ValidStoredReport(probe) {
			continue
		}
		var r schema.Report
		if err := json.Unmarshal(raw, &r); err != nil {
			continue
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Get returns the stored report with the given identifier, if present.
func (s *FileStore) Get(id string) (schema.Report, bool, error) {
	reports, err := s.List()
	if err != nil {
		return schema.Report{}, false, err
	}
	for _, r := range reports {
		if r.ID == id {
			return r, true, nil
		}
	}
	return schema.Report{}, false, nil
}

// Save upserts a report: replaced in place when the identifier exists,
// otherwise inserted at the front. Returns the updated listing.
func (s *FileStore) Save(r schema.Report) ([]schema.Report, error) {
	reports, err := s.List()
	if err != nil {
		return nil, err
	}

	replaced := false
	for i := range reports {
		if reports[i].ID == r.ID {
			reports[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		reports = append([]schema.Report{r}, reports...)
	}

	if err := s.write(reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Delete removes the report with the given identifier and returns the
// updated listing. Deleting an unknown identifier is not an error.
func (s *FileStore) Delete(id string) ([]schema.Report, error) {
	reports, err := s.List()
	if err != nil {
		return nil, err
	}

	kept := reports[:0]
	for _, r := range reports {
		if r.ID != id {
			kept = append(kept, r)
		}
	}

	if err := s.write(kept); err != nil {
		return nil, err
	}
	return kept, nil
}

func (s *FileStore) write(reports []schema.Report) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create report store dir: %w", err)
	}
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reports: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("write report store: %w", err)
	}
	return nil
}

// Package registry maintains the durable list of known databases, ordered
// most-recently-used first and capped at types.RegistryLimit entries. Every
// mutation is a full read, modify, atomic rewrite of the registry file.
package registry

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledgerbook/ledgerbook/internal/jsonl"
	"github.com/ledgerbook/ledgerbook/pkg/types"
)

// FileName is the registry file inside the data directory.
const FileName = "databases.jsonl"

// Registry persists database descriptors in a JSONL file.
type Registry struct {
	path string
	now  func() time.Time
}

// New returns a Registry stored in the given data directory.
func New(dataDir string) *Registry {
	return &Registry{
		path: filepath.Join(dataDir, FileName),
		now:  time.Now,
	}
}

// List returns the full registry, most-recently-used first. A missing
// registry file reads as empty.
func (r *Registry) List() ([]types.DatabaseDescriptor, error) {
	records, err := jsonl.Read(r.path)
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}
	return jsonl.Unmarshal[types.DatabaseDescriptor](records), nil
}

// Register inserts-or-replaces a descriptor at the front of the list. An
// existing entry with the same file identifier moves to the front with the
// new display name. The list is truncated to types.RegistryLimit entries.
func (r *Registry) Register(name, fileID string) error {
	entries, err := r.List()
	if err != nil {
		return err
	}

	kept := make([]types.DatabaseDescriptor, 0, len(entries)+1)
	kept = append(kept, types.DatabaseDescriptor{
		Name:      name,
		FileID:    fileID,
		EnteredAt: r.now().UTC(),
	})
	for _, e := range entries {
		if e.FileID == fileID {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > types.RegistryLimit {
		kept = kept[:types.RegistryLimit]
	}

	return r.write(kept)
}

// Touch records that fileID was switched to or restored into. An existing
// entry keeps its display name and moves to the front; an unknown file is
// registered under a name derived from its file name. The implicit default
// database is never registered.
func (r *Registry) Touch(fileID string) error {
	if fileID == types.DefaultDatabaseFile {
		return nil
	}
	entries, err := r.List()
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(fileID, filepath.Ext(fileID))
	for _, e := range entries {
		if e.FileID == fileID {
			name = e.Name
			break
		}
	}
	return r.Register(name, fileID)
}

// Remove deletes the entry with the given file identifier. Removing an
// absent entry is not an error.
func (r *Registry) Remove(fileID string) error {
	entries, err := r.List()
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.FileID != fileID {
			kept = append(kept, e)
		}
	}
	return r.write(kept)
}

func (r *Registry) write(entries []types.DatabaseDescriptor) error {
	records, err := jsonl.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	if err := jsonl.Write(r.path, records); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	return nil
}

package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/flowmap/pkg/domain"
)

// LayoutStore implements ports.LayoutStore using the local filesystem.
// It stores one JSON document per workflow in a configured directory.
type LayoutStore struct {
	BasePath string
}

// NewLayoutStore creates a new LayoutStore with the given base path.
// If basePath is empty, it defaults to ".flowmap/layouts".
func NewLayoutStore(basePath string) *LayoutStore {
	if basePath == "" {
		basePath = filepath.Join(".flowmap", "layouts")
	}
	return &LayoutStore{BasePath: basePath}
}

// SaveLayout persists the positions map atomically.
func (s *LayoutStore) SaveLayout(ctx context.Context, workflowID string, positions domain.PositionsMap) error {
	if err := validID(workflowID); err != nil {
		return err
	}
	if positions == nil {
		positions = domain.PositionsMap{}
	}

	data, err := json.MarshalIndent(positions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	return writeAtomic(s.BasePath, workflowID+".json", data)
}

// LoadLayout retrieves the positions map from its JSON file.
func (s *LayoutStore) LoadLayout(ctx context.Context, workflowID string) (domain.PositionsMap, error) {
	if err := validID(workflowID); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.BasePath, workflowID+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}

	positions := domain.PositionsMap{}
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal layout: %w", err)
	}

	return positions, nil
}

// DeleteLayout removes the layout file.
func (s *LayoutStore) DeleteLayout(ctx context.Context, workflowID string) error {
	if err := validID(workflowID); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.BasePath, workflowID+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete layout file: %w", err)
	}

	return nil
}

// ListLayouts returns the ids of every saved layout, sorted.
func (s *LayoutStore) ListLayouts(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)

	return ids, nil
}

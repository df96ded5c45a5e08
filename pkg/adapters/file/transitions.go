package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/aretw0/flowmap/internal/dto"
	"github.com/aretw0/flowmap/pkg/domain"
	"gopkg.in/yaml.v3"
)

// workflowExtensions are tried in order when resolving a workflow file.
var workflowExtensions = []string{".yaml", ".yml", ".json"}

// document is the on-disk shape of a workflow file.
// Transitions stay loosely typed so historical field names survive decoding.
type document struct {
	ID          string           `json:"id" yaml:"id"`
	Transitions []map[string]any `json:"transitions" yaml:"transitions"`
}

// TransitionSource implements ports.TransitionStore over a directory of workflow files.
type TransitionSource struct {
	Dir string
}

// NewTransitionSource creates a TransitionSource reading from dir.
// If dir is empty, it defaults to ".flowmap/workflows".
func NewTransitionSource(dir string) *TransitionSource {
	if dir == "" {
		dir = filepath.Join(".flowmap", "workflows")
	}
	return &TransitionSource{Dir: dir}
}

// ListTransitions reads and normalizes the transitions of a workflow file.
func (s *TransitionSource) ListTransitions(ctx context.Context, workflowID string) ([]domain.TransitionRecord, error) {
	if err := validID(workflowID); err != nil {
		return nil, err
	}

	path, err := s.resolve(workflowID)
	if err != nil {
		return nil, err
	}

	return ReadWorkflowFile(path)
}

// SaveTransitions writes the workflow as a YAML document.
// An existing JSON or .yml file for the same workflow is replaced.
func (s *TransitionSource) SaveTransitions(ctx context.Context, workflowID string, transitions []domain.TransitionRecord) error {
	if err := validID(workflowID); err != nil {
		return err
	}

	wf := domain.Workflow{ID: workflowID, Transitions: transitions}
	if wf.Transitions == nil {
		wf.Transitions = []domain.TransitionRecord{}
	}

	data, err := yaml.Marshal(wf)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow: %w", err)
	}

	if err := writeAtomic(s.Dir, workflowID+".yaml", data); err != nil {
		return err
	}

	for _, ext := range workflowExtensions[1:] {
		_ = os.Remove(filepath.Join(s.Dir, workflowID+ext))
	}
	return nil
}

// ListWorkflows returns the ids of every workflow file in the directory, sorted.
func (s *TransitionSource) ListWorkflows(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	seen := make(map[string]bool)
	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if entry.IsDir() || !slices.Contains(workflowExtensions, ext) || strings.HasPrefix(name, "tmp-") {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *TransitionSource) resolve(workflowID string) (string, error) {
	for _, ext := range workflowExtensions {
		path := filepath.Join(s.Dir, workflowID+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrWorkflowNotFound, workflowID)
}

// ReadWorkflowFile decodes a YAML or JSON workflow document at path.
func ReadWorkflowFile(path string) ([]domain.TransitionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrWorkflowNotFound, path)
		}
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}

	var doc document
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse workflow file %s: %w", path, err)
	}

	transitions, err := dto.DecodeTransitions(doc.Transitions)
	if err != nil {
		return nil, fmt.Errorf("workflow file %s: %w", path, err)
	}
	return transitions, nil
}

package flowmap

import (
	"path/filepath"

	"github.com/aretw0/flowmap/pkg/adapters/file"
	"github.com/aretw0/flowmap/pkg/diagram"
	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/aretw0/flowmap/pkg/layouts"
)

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/aretw0/flowmap.Version=...".
var Version = "0.1.0-dev"

// Draw runs the whole pipeline for one workflow: build the graph, then position it.
// A nil saved map means every position is computed.
func Draw(transitions []domain.TransitionRecord, saved domain.PositionsMap, currentStateName string, opts ...diagram.ArrangeOption) domain.Graph {
	return diagram.Arrange(diagram.Build(transitions, currentStateName), saved, opts...)
}

// New creates a layout manager over a project directory: workflow files are read from
// <dir>/workflows and layouts are saved under <dir>/layouts.
func New(dir string, opts ...layouts.Option) *layouts.Manager {
	return layouts.NewManager(
		file.NewTransitionSource(filepath.Join(dir, "workflows")),
		file.NewLayoutStore(filepath.Join(dir, "layouts")),
		opts...,
	)
}

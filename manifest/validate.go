package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Validate checks the structural properties of the manifest. Findings are
// joined so a single pass reports everything:
//
//   - spec-version present
//   - exactly one agent, with name, model provider and model name
//   - exactly two action packages (the reconcile and validate packages) with
//     distinct, non-empty paths
//   - a worker-config whose type is a known mode; document workers must name
//     a document-type
func (p *Package) Validate() error {
	var errs []error

	if p.SpecVersion == "" {
		errs = append(errs, errors.New("missing spec-version"))
	}
	if len(p.Agents) != 1 {
		errs = append(errs, fmt.Errorf("expected exactly one agent, got %d", len(p.Agents)))
	}

	for i := range p.Agents {
		errs = append(errs, p.Agents[i].validate()...)
	}

	return errors.Join(errs...)
}

func (a *Agent) validate() []error {
	var errs []error

	if a.Name == "" {
		errs = append(errs, errors.New("agent: missing name"))
	}
	if a.Model.Provider == "" {
		errs = append(errs, fmt.Errorf("agent %q: missing model provider", a.Name))
	}
	if a.Model.Name == "" {
		errs = append(errs, fmt.Errorf("agent %q: missing model name", a.Name))
	}
	if a.Runbook == "" {
		errs = append(errs, fmt.Errorf("agent %q: missing runbook", a.Name))
	}

	if len(a.ActionPackages) != 2 {
		errs = append(errs, fmt.Errorf("agent %q: expected the reconcile and validate action packages, got %d entries", a.Name, len(a.ActionPackages)))
	}
	paths := map[string]string{}
	for _, ap := range a.ActionPackages {
		if ap.Name == "" {
			errs = append(errs, fmt.Errorf("agent %q: action package with empty name", a.Name))
		}
		if ap.Path == "" {
			errs = append(errs, fmt.Errorf("agent %q: action package %q has no path", a.Name, ap.Name))
			continue
		}
		if other, dup := paths[ap.Path]; dup {
			errs = append(errs, fmt.Errorf("agent %q: action packages %q and %q share path %q", a.Name, other, ap.Name, ap.Path))
		}
		paths[ap.Path] = ap.Name
	}

	switch a.Metadata.WorkerConfig.Type {
	case WorkerTypeDocument:
		if a.Metadata.WorkerConfig.DocumentType == "" {
			errs = append(errs, fmt.Errorf("agent %q: document worker without document-type", a.Name))
		}
	case WorkerTypeChat:
	case "":
		errs = append(errs, fmt.Errorf("agent %q: missing worker-config type", a.Name))
	default:
		errs = append(errs, fmt.Errorf("agent %q: unknown worker-config type %q", a.Name, a.Metadata.WorkerConfig.Type))
	}

	return errs
}

// ResolveActionPackages verifies the referenced action package folders exist
// under root and returns their resolved paths keyed by package name.
func (a *Agent) ResolveActionPackages(root string) (map[string]string, error) {
	resolved := make(map[string]string, len(a.ActionPackages))
	var errs []error
	for _, ap := range a.ActionPackages {
		path := filepath.Join(root, filepath.FromSlash(ap.Path))
		info, err := os.Stat(path)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("action package %q: %w", ap.Name, err))
		case !info.IsDir():
			errs = append(errs, fmt.Errorf("action package %q: %s is not a directory", ap.Name, path))
		default:
			resolved[ap.Name] = path
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return resolved, nil
}

// LoadRunbook reads the agent's runbook markdown relative to root.
func (a *Agent) LoadRunbook(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(a.Runbook)))
	if err != nil {
		return "", fmt.Errorf("load runbook: %w", err)
	}
	return string(data), nil
}

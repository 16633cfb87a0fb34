package manifest

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// WorkerType values understood by the agent runtime.
const (
	// WorkerTypeDocument marks an agent performing autonomous document
	// processing work rather than interactive chat.
	WorkerTypeDocument = "document"
	// WorkerTypeChat marks an interactive conversational agent.
	WorkerTypeChat = "chat"
)

// document is the top level YAML shape: everything sits under agent-package.
type document struct {
	AgentPackage *Package `yaml:"agent-package"`
}

// Package is the agent-package declaration.
type Package struct {
	SpecVersion string  `yaml:"spec-version"`
	Agents      []Agent `yaml:"agents"`
}

// Agent declares one agent: identity, model, runbook and the action packages
// it may invoke.
type Agent struct {
	Name           string          `yaml:"name"`
	Description    string          `yaml:"description"`
	Model          ModelSpec       `yaml:"model"`
	Version        string          `yaml:"version"`
	Architecture   string          `yaml:"architecture"`
	Reasoning      string          `yaml:"reasoning"`
	Runbook        string          `yaml:"runbook"`
	ActionPackages []ActionPackage `yaml:"action-packages"`
	Knowledge      []yaml.Node     `yaml:"knowledge"`
	Metadata       Metadata        `yaml:"metadata"`
}

// ModelSpec names the model provider and model.
type ModelSpec struct {
	Provider string `yaml:"provider"`
	Name     string `yaml:"name"`
}

// ActionPackage references one folder of action implementations by path; the
// implementations themselves are external to this module.
type ActionPackage struct {
	Name         string `yaml:"name"`
	Organization string `yaml:"organization"`
	Version      string `yaml:"version"`
	Path         string `yaml:"path"`
	Type         string `yaml:"type"`
	Whitelist    string `yaml:"whitelist"`
}

// WhitelistedActions parses the comma separated whitelist. An empty
// whitelist exposes no actions.
func (a ActionPackage) WhitelistedActions() []string {
	if strings.TrimSpace(a.Whitelist) == "" {
		return nil
	}
	parts := strings.Split(a.Whitelist, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Metadata carries runtime metadata; currently only the worker config.
type Metadata struct {
	WorkerConfig WorkerConfig `yaml:"worker-config"`
}

// WorkerConfig declares the agent's operating mode and, for document workers,
// the document type it processes.
type WorkerConfig struct {
	Type         string `yaml:"type"`
	DocumentType string `yaml:"document-type"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	pkg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return pkg, nil
}

// Parse parses a manifest document. Unknown keys are rejected.
func Parse(data []byte) (*Package, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("malformed yaml: %w", err)
	}
	if doc.AgentPackage == nil {
		return nil, fmt.Errorf("missing top level agent-package key")
	}
	return doc.AgentPackage, nil
}

// Encode re-emits the manifest as YAML under the agent-package key. Every
// declared key survives a Parse/Encode round trip.
func (p *Package) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(document{AgentPackage: p}); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the encoded manifest to a file.
func (p *Package) Save(path string) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Agent returns the single agent declared by the package. It fails when the
// package declares none or more than one.
func (p *Package) Agent() (*Agent, error) {
	if len(p.Agents) != 1 {
		return nil, fmt.Errorf("expected exactly one agent, got %d", len(p.Agents))
	}
	return &p.Agents[0], nil
}

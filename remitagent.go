// Package remitagent provides a high-level façade over the declarative
// artifacts of a payment remittance reconciliation agent package: the YAML
// agent manifest, the per-action-package INI logging configurations, and the
// reconciliation ledger. Most applications interact with this package by:
//  1. Opening a package directory via Open() (manifest validated, loggers
//     built, ledger opened)
//  2. Resolving the manifest's model block to a provider client via
//     ResolveModel when model access is needed
//  3. Storing payments and running reconciliation analyses through the
//     attached ledger
//
// All defaults are safe for local development and testing; production
// deployments typically supply a durable ledger path and let the shipped
// logging configs drive output.
package remitagent

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"

	"github.com/finvex/remitagent/ledger"
	"github.com/finvex/remitagent/logconf"
	"github.com/finvex/remitagent/logging"
	"github.com/finvex/remitagent/manifest"
	"github.com/finvex/remitagent/model"
	"github.com/finvex/remitagent/model/anthropic"
	"github.com/finvex/remitagent/model/openai"
)

// ManifestFileName is the manifest file expected at the package root.
const ManifestFileName = "agent-spec.yaml"

// LoggingFileName is the logging config expected inside each action package
// folder.
const LoggingFileName = "logging.conf"

// Options configures an opened agent package.
type Options struct {
	// LedgerPath is the sqlite file backing the reconciliation ledger.
	// Empty opens an in-memory ledger.
	LedgerPath string

	// Threshold is the monetary tolerance for reconciliation analyses.
	Threshold decimal.Decimal

	// Stdout and Stderr override the console logging destinations.
	Stdout, Stderr io.Writer

	// Logger receives façade and ledger progress entries when the package
	// ships no usable logging config.
	Logger logging.Logger
}

// AgentPackage is an opened, validated remittance agent package.
type AgentPackage struct {
	// Dir is the package root directory.
	Dir string
	// Manifest is the validated agent-package manifest.
	Manifest *manifest.Package
	// Registries holds the loggers built per action package, keyed by
	// action package name. Packages without a logging config are absent.
	Registries map[string]*logging.Registry
	// Ledger is the reconciliation ledger.
	Ledger *ledger.Ledger

	threshold decimal.Decimal
}

// Open loads and validates the agent package rooted at dir.
func Open(dir string, optFns ...func(o *Options)) (*AgentPackage, error) {
	opts := Options{
		Threshold: ledger.DefaultThreshold,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	pkg, err := manifest.Load(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return nil, err
	}
	if err := pkg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	agent, err := pkg.Agent()
	if err != nil {
		return nil, err
	}
	resolved, err := agent.ResolveActionPackages(dir)
	if err != nil {
		return nil, err
	}

	registries := map[string]*logging.Registry{}
	for name, path := range resolved {
		confPath := filepath.Join(path, LoggingFileName)
		if _, err := os.Stat(confPath); err != nil {
			continue // action package ships no logging config
		}
		cfg, err := logconf.Load(confPath)
		if err != nil {
			closeRegistries(registries)
			return nil, err
		}
		registry, err := cfg.Build(func(o *logconf.BuildOptions) {
			o.Dir = path
			o.Stdout = opts.Stdout
			o.Stderr = opts.Stderr
		})
		if err != nil {
			closeRegistries(registries)
			return nil, fmt.Errorf("action package %q: %w", name, err)
		}
		registries[name] = registry
	}

	ledgerLogger := opts.Logger
	if reg, ok := reconcileRegistry(agent, registries); ok {
		ledgerLogger = reg.Root()
	}
	lgr, err := ledger.Open(opts.LedgerPath, func(o *ledger.Options) {
		o.Logger = ledgerLogger
	})
	if err != nil {
		closeRegistries(registries)
		return nil, err
	}

	return &AgentPackage{
		Dir:        dir,
		Manifest:   pkg,
		Registries: registries,
		Ledger:     lgr,
		threshold:  opts.Threshold,
	}, nil
}

// Agent returns the package's single agent declaration.
func (p *AgentPackage) Agent() *manifest.Agent {
	return &p.Manifest.Agents[0]
}

// Reconcile analyzes the payment identified by reference against the ledger's
// AR records using the package threshold.
func (p *AgentPackage) Reconcile(ctx context.Context, reference string) (*ledger.Result, error) {
	return p.Ledger.Analyze(ctx, reference, p.threshold)
}

// StorePayment records a payment with its allocations in the ledger.
func (p *AgentPackage) StorePayment(ctx context.Context, in ledger.PaymentInput, invoices []ledger.AllocationInput) (*ledger.StoreResult, error) {
	return p.Ledger.StorePayment(ctx, in, invoices)
}

// Close releases the ledger and any log files owned by the registries.
func (p *AgentPackage) Close() error {
	err := p.Ledger.Close()
	closeRegistries(p.Registries)
	return err
}

func closeRegistries(registries map[string]*logging.Registry) {
	for _, r := range registries {
		_ = r.Close()
	}
}

// reconcileRegistry finds the logger registry of the reconcile action package.
// The package is identified by the "reconcile" fragment in its manifest name
// rather than a fixed name, so renamed packages keep their ledger logging.
func reconcileRegistry(agent *manifest.Agent, registries map[string]*logging.Registry) (*logging.Registry, bool) {
	for _, ap := range agent.ActionPackages {
		if !strings.Contains(strings.ToLower(ap.Name), "reconcile") {
			continue
		}
		if reg, ok := registries[ap.Name]; ok {
			return reg, true
		}
	}
	return nil, false
}

// ResolveModel resolves the manifest's model block to a provider-backed
// client. Supported providers are "openai" and "anthropic" (matched case
// insensitively); anything else is an error naming the supported set.
func ResolveModel(spec manifest.ModelSpec) (model.Model, error) {
	switch strings.ToLower(strings.TrimSpace(spec.Provider)) {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			o.Model = spec.Name
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.Model = anthropicsdk.Model(spec.Name)
		}), nil
	default:
		return nil, fmt.Errorf("unsupported model provider %q (supported: openai, anthropic)", spec.Provider)
	}
}

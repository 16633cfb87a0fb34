package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finvex/remitagent/logconf"
	"github.com/finvex/remitagent/manifest"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <package-dir|manifest.yaml|logging.conf>",
		Short: "Validate an agent package or a single artifact",
		Long: "Validates the structural properties of the given artifact. For a package directory " +
			"the manifest, the referenced action package folders and every logging config are checked together.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			info, err := os.Stat(target)
			if err != nil {
				return err
			}
			if info.IsDir() {
				return validatePackage(cmd, target)
			}
			return validateFile(cmd, target)
		},
	}
}

func validateFile(cmd *cobra.Command, path string) error {
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		pkg, err := manifest.Load(path)
		if err != nil {
			return err
		}
		if err := pkg.Validate(); err != nil {
			return reportFindings(cmd, path, err)
		}
	case strings.HasSuffix(path, ".conf"), strings.HasSuffix(path, ".ini"):
		cfg, err := logconf.Load(path)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return reportFindings(cmd, path, err)
		}
	default:
		return fmt.Errorf("unrecognized artifact type: %s", path)
	}
	cmd.Printf("%s: OK\n", path)
	return nil
}

func validatePackage(cmd *cobra.Command, dir string) error {
	manifestPath := filepath.Join(dir, "agent-spec.yaml")
	pkg, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	if err := pkg.Validate(); err != nil {
		return reportFindings(cmd, manifestPath, err)
	}
	cmd.Printf("%s: OK\n", manifestPath)

	agent, err := pkg.Agent()
	if err != nil {
		return err
	}
	resolved, err := agent.ResolveActionPackages(dir)
	if err != nil {
		return err
	}

	for name, path := range resolved {
		confPath := filepath.Join(path, "logging.conf")
		if _, err := os.Stat(confPath); err != nil {
			cmd.Printf("%s: no logging config\n", name)
			continue
		}
		if err := validateFile(cmd, confPath); err != nil {
			return err
		}
	}
	return nil
}

// reportFindings prints one line per joined validation finding and returns a
// terminal error so the command exits non-zero.
func reportFindings(cmd *cobra.Command, path string, err error) error {
	for _, line := range strings.Split(err.Error(), "\n") {
		cmd.PrintErrf("%s: %s\n", path, line)
	}
	return fmt.Errorf("%s: validation failed", path)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finvex/remitagent/logconf"
	"github.com/finvex/remitagent/manifest"
)

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <manifest.yaml|logging.conf>",
		Short: "Parse an artifact and re-emit it to stdout",
		Long: "Round-trips a declarative artifact through its typed representation. " +
			"Useful to normalize formatting and to confirm that no declared key is lost.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			switch {
			case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
				pkg, err := manifest.Load(path)
				if err != nil {
					return err
				}
				data, err := pkg.Encode()
				if err != nil {
					return err
				}
				cmd.Print(string(data))
			case strings.HasSuffix(path, ".conf"), strings.HasSuffix(path, ".ini"):
				cfg, err := logconf.Load(path)
				if err != nil {
					return err
				}
				data, err := cfg.Encode()
				if err != nil {
					return err
				}
				cmd.Print(string(data))
			default:
				return fmt.Errorf("unrecognized artifact type: %s", path)
			}
			return nil
		},
	}
}

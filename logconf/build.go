package logconf

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/finvex/remitagent/logging"
)

// BuildOptions configures how a Config is turned into live loggers.
type BuildOptions struct {
	// Dir is the base directory for relative FileHandler paths.
	Dir string
	// Stdout and Stderr override the console handler destinations, which is
	// what tests use to capture output.
	Stdout io.Writer
	Stderr io.Writer
}

// Build materializes the configuration into a logging.Registry.
//
// Handler classes understood here are StreamHandler (console, sys.stdout or
// sys.stderr per args) and FileHandler (file path and mode per args, with
// mode "a" appending). Other classes fail construction even when the config
// is declaration-complete. Each handler owns one destination shared by all
// loggers referencing it, so interleaved writes stay line-atomic.
func (c *Config) Build(optFns ...func(o *BuildOptions)) (*logging.Registry, error) {
	opts := BuildOptions{Stdout: os.Stdout, Stderr: os.Stderr}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}

	registry := logging.NewRegistry(nil)

	formats := map[string]*formatSpec{}
	for _, fc := range c.Formatters {
		formats[fc.Name] = &formatSpec{
			format: logging.ParseLineFormat(fc.Format),
			layout: logging.TranslateTimeLayout(fc.Datefmt),
		}
	}

	prototypes := map[string]*logging.LineHandler{}
	for _, hc := range c.Handlers {
		proto, err := buildHandler(hc, formats, &opts, registry)
		if err != nil {
			return nil, fmt.Errorf("handler %q: %w", hc.Name, err)
		}
		prototypes[hc.Name] = proto
	}

	root, hasRoot := c.Logger("root")
	var rootHandlerNames []string
	if hasRoot {
		rootHandlerNames = root.Handlers
		registry.Register("root", buildLogger(root, "root", root.Handlers, prototypes))
	}

	for _, lc := range c.Loggers {
		if lc.Name == "root" {
			continue
		}
		handlerNames := lc.Handlers
		if lc.Propagates() && hasRoot {
			handlerNames = append(append([]string{}, handlerNames...), rootHandlerNames...)
		}
		qualname := lc.QualifiedName()
		registry.Register(qualname, buildLogger(lc, qualname, handlerNames, prototypes))
	}

	return registry, nil
}

type formatSpec struct {
	format *logging.LineFormat
	layout string
}

func buildHandler(hc HandlerConfig, formats map[string]*formatSpec, opts *BuildOptions, registry *logging.Registry) (*logging.LineHandler, error) {
	var w io.Writer
	switch normalizeClass(hc.Class) {
	case "StreamHandler":
		if strings.Contains(hc.Args, "sys.stdout") {
			w = opts.Stdout
		} else {
			// Python's StreamHandler defaults to stderr.
			w = opts.Stderr
		}
	case "FileHandler":
		args := parseArgsTuple(hc.Args)
		if len(args) == 0 {
			return nil, fmt.Errorf("args %q carry no file name", hc.Args)
		}
		path := args[0]
		if !filepath.IsAbs(path) && opts.Dir != "" {
			path = filepath.Join(opts.Dir, path)
		}
		flags := os.O_CREATE | os.O_WRONLY
		if len(args) > 1 && args[1] == "w" {
			flags |= os.O_TRUNC
		} else {
			flags |= os.O_APPEND
		}
		file, err := os.OpenFile(path, flags, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		registry.AddCloser(file)
		w = file
	default:
		return nil, fmt.Errorf("unsupported handler class %q", hc.Class)
	}

	level := logging.LevelDebug
	if hc.Level != "" {
		level, _ = logging.ParseLevel(hc.Level)
	}

	spec := formats[hc.Formatter]

	return logging.NewLineHandler(w, func(o *logging.LineHandlerOptions) {
		o.Level = level
		if spec != nil {
			o.Format = spec.format
			o.TimeLayout = spec.layout
		}
	}), nil
}

func buildLogger(lc LoggerConfig, qualname string, handlerNames []string, prototypes map[string]*logging.LineHandler) logging.Logger {
	level := logging.LevelDebug
	if lc.Level != "" {
		level, _ = logging.ParseLevel(lc.Level)
	}

	seen := map[string]bool{}
	var hs []slog.Handler
	for _, name := range handlerNames {
		if seen[name] {
			// Duplicate references (e.g. via propagation to root using the
			// same handlers) are applied once.
			continue
		}
		seen[name] = true
		if proto, ok := prototypes[name]; ok {
			hs = append(hs, proto.WithName(qualname))
		}
	}

	return logging.NewLineLogger(level, hs...)
}

// normalizeClass strips the module prefixes seen in the wild
// (logging.StreamHandler, logging.handlers.RotatingFileHandler, ...).
func normalizeClass(class string) string {
	if idx := strings.LastIndex(class, "."); idx >= 0 {
		return class[idx+1:]
	}
	return class
}

// parseArgsTuple reads the Python-tuple shaped args value, e.g.
// ('reconcile_actions.log', 'a') or (sys.stdout,). Elements are returned with
// surrounding quotes and whitespace stripped.
func parseArgsTuple(args string) []string {
	s := strings.TrimSpace(args)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.Trim(p, `'"`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

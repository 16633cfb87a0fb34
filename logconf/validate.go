package logconf

import (
	"errors"
	"fmt"

	"github.com/finvex/remitagent/logging"
)

// Validate checks the structural integrity of the configuration. All findings
// are reported together as a joined error; a nil return means the config is
// structurally sound.
//
// Checked properties:
//   - every name under [loggers] keys= has a [logger_<name>] section, and
//     every such section is declared (symmetrically for handlers/formatters)
//   - every handler referenced by a logger's handlers= is declared
//   - every formatter referenced by a handler is declared
//   - every non-empty level parses as a known level name
func (c *Config) Validate() error {
	var errs []error

	errs = append(errs, checkRegistry("logger", c.LoggerKeys, loggerNames(c.Loggers))...)
	errs = append(errs, checkRegistry("handler", c.HandlerKeys, handlerNames(c.Handlers))...)
	errs = append(errs, checkRegistry("formatter", c.FormatterKeys, formatterNames(c.Formatters))...)

	declaredHandlers := toSet(c.HandlerKeys)
	for _, l := range c.Loggers {
		if l.Level != "" {
			if _, err := logging.ParseLevel(l.Level); err != nil {
				errs = append(errs, fmt.Errorf("[logger_%s]: %w", l.Name, err))
			}
		}
		for _, h := range l.Handlers {
			if !declaredHandlers[h] {
				errs = append(errs, fmt.Errorf("[logger_%s]: handler %q is not declared under [handlers] keys=", l.Name, h))
			}
		}
	}

	declaredFormatters := toSet(c.FormatterKeys)
	for _, h := range c.Handlers {
		if h.Level != "" {
			if _, err := logging.ParseLevel(h.Level); err != nil {
				errs = append(errs, fmt.Errorf("[handler_%s]: %w", h.Name, err))
			}
		}
		if h.Class == "" {
			errs = append(errs, fmt.Errorf("[handler_%s]: missing class", h.Name))
		}
		if h.Formatter != "" && !declaredFormatters[h.Formatter] {
			errs = append(errs, fmt.Errorf("[handler_%s]: formatter %q is not declared under [formatters] keys=", h.Name, h.Formatter))
		}
	}

	return errors.Join(errs...)
}

// checkRegistry verifies the keys= list and the per-name sections agree.
func checkRegistry(kind string, declared, present []string) []error {
	var errs []error
	presentSet := toSet(present)
	for _, name := range declared {
		if !presentSet[name] {
			errs = append(errs, fmt.Errorf("declared %s %q has no [%s_%s] section", kind, name, kind, name))
		}
	}
	declaredSet := toSet(declared)
	for _, name := range present {
		if !declaredSet[name] {
			errs = append(errs, fmt.Errorf("section [%s_%s] is not declared under [%ss] keys=", kind, name, kind))
		}
	}
	return errs
}

func loggerNames(ls []LoggerConfig) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Name
	}
	return out
}

func handlerNames(hs []HandlerConfig) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Name
	}
	return out
}

func formatterNames(fs []FormatterConfig) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

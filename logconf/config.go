package logconf

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// Section name constants of the three registries.
const (
	sectionLoggers    = "loggers"
	sectionHandlers   = "handlers"
	sectionFormatters = "formatters"

	prefixLogger    = "logger_"
	prefixHandler   = "handler_"
	prefixFormatter = "formatter_"
)

// KV is a single preserved key/value pair from a section: a key that is not
// one of the well known ones, or a declared key with an empty value. Kept so
// Encode loses nothing.
type KV struct {
	Key   string
	Value string
}

// LoggerConfig is one [logger_<name>] section.
type LoggerConfig struct {
	Name      string   // section name suffix
	Level     string   // DEBUG..CRITICAL, empty when absent
	Handlers  []string // parsed handlers= list
	Qualname  string   // dotted logger name used at runtime
	Propagate string   // raw value; empty means "propagate" (the default)
	Extra     []KV
}

// Propagates reports whether records forwarded by this logger also reach the
// root logger's handlers. Only explicit 0/false disable it.
func (l LoggerConfig) Propagates() bool {
	switch strings.ToLower(strings.TrimSpace(l.Propagate)) {
	case "0", "false", "no":
		return false
	default:
		return true
	}
}

// QualifiedName returns the runtime logger name: qualname when set, otherwise
// the section name.
func (l LoggerConfig) QualifiedName() string {
	if l.Qualname != "" {
		return l.Qualname
	}
	return l.Name
}

// HandlerConfig is one [handler_<name>] section.
type HandlerConfig struct {
	Name      string
	Class     string // StreamHandler, FileHandler (optionally logging. prefixed)
	Level     string
	Formatter string
	Args      string // verbatim tuple literal, e.g. ('reconcile_actions.log', 'a')
	Extra     []KV
}

// FormatterConfig is one [formatter_<name>] section.
type FormatterConfig struct {
	Name    string
	Format  string // %(field)s style record format
	Datefmt string // strftime timestamp format
	Extra   []KV
}

// Config is a parsed logging configuration.
//
// The three *Keys slices hold the names declared under keys= in the registry
// sections; the Loggers/Handlers/Formatters slices hold every per-name
// section found in the file, in file order. The two views may disagree on a
// malformed file; Validate reports the mismatches.
type Config struct {
	LoggerKeys    []string
	HandlerKeys   []string
	FormatterKeys []string

	Loggers    []LoggerConfig
	Handlers   []HandlerConfig
	Formatters []FormatterConfig
}

// Load reads and parses a logging configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read logging config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses an INI logging configuration.
func Parse(data []byte) (*Config, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		// The %(asctime)s placeholders in formatter sections must survive
		// verbatim, so no value interpolation of any kind.
		IgnoreInlineComment: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("malformed ini: %w", err)
	}

	cfg := &Config{
		LoggerKeys:    splitList(f.Section(sectionLoggers).Key("keys").Value()),
		HandlerKeys:   splitList(f.Section(sectionHandlers).Key("keys").Value()),
		FormatterKeys: splitList(f.Section(sectionFormatters).Key("keys").Value()),
	}

	for _, sec := range f.Sections() {
		name := sec.Name()
		switch {
		case strings.HasPrefix(name, prefixLogger):
			cfg.Loggers = append(cfg.Loggers, parseLoggerSection(sec))
		case strings.HasPrefix(name, prefixHandler):
			cfg.Handlers = append(cfg.Handlers, parseHandlerSection(sec))
		case strings.HasPrefix(name, prefixFormatter):
			cfg.Formatters = append(cfg.Formatters, parseFormatterSection(sec))
		}
	}

	return cfg, nil
}

func parseLoggerSection(sec *ini.Section) LoggerConfig {
	lc := LoggerConfig{Name: strings.TrimPrefix(sec.Name(), prefixLogger)}
	for _, key := range sec.Keys() {
		if key.Value() == "" {
			// A declared key with an empty value carries no configuration but
			// must survive re-emission.
			lc.Extra = append(lc.Extra, KV{Key: key.Name()})
			continue
		}
		switch key.Name() {
		case "level":
			lc.Level = key.Value()
		case "handlers":
			lc.Handlers = splitList(key.Value())
		case "qualname":
			lc.Qualname = key.Value()
		case "propagate":
			lc.Propagate = key.Value()
		default:
			lc.Extra = append(lc.Extra, KV{Key: key.Name(), Value: key.Value()})
		}
	}
	return lc
}

func parseHandlerSection(sec *ini.Section) HandlerConfig {
	hc := HandlerConfig{Name: strings.TrimPrefix(sec.Name(), prefixHandler)}
	for _, key := range sec.Keys() {
		if key.Value() == "" {
			hc.Extra = append(hc.Extra, KV{Key: key.Name()})
			continue
		}
		switch key.Name() {
		case "class":
			hc.Class = key.Value()
		case "level":
			hc.Level = key.Value()
		case "formatter":
			hc.Formatter = key.Value()
		case "args":
			hc.Args = key.Value()
		default:
			hc.Extra = append(hc.Extra, KV{Key: key.Name(), Value: key.Value()})
		}
	}
	return hc
}

func parseFormatterSection(sec *ini.Section) FormatterConfig {
	fc := FormatterConfig{Name: strings.TrimPrefix(sec.Name(), prefixFormatter)}
	for _, key := range sec.Keys() {
		if key.Value() == "" {
			fc.Extra = append(fc.Extra, KV{Key: key.Name()})
			continue
		}
		switch key.Name() {
		case "format":
			fc.Format = key.Value()
		case "datefmt":
			fc.Datefmt = key.Value()
		default:
			fc.Extra = append(fc.Extra, KV{Key: key.Name(), Value: key.Value()})
		}
	}
	return fc
}

// Logger returns the logger section with the given name.
func (c *Config) Logger(name string) (LoggerConfig, bool) {
	for _, l := range c.Loggers {
		if l.Name == name {
			return l, true
		}
	}
	return LoggerConfig{}, false
}

// Handler returns the handler section with the given name.
func (c *Config) Handler(name string) (HandlerConfig, bool) {
	for _, h := range c.Handlers {
		if h.Name == name {
			return h, true
		}
	}
	return HandlerConfig{}, false
}

// Formatter returns the formatter section with the given name.
func (c *Config) Formatter(name string) (FormatterConfig, bool) {
	for _, f := range c.Formatters {
		if f.Name == name {
			return f, true
		}
	}
	return FormatterConfig{}, false
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

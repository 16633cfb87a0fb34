package logconf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// Encode re-emits the configuration as INI text. Every declared key/value
// pair survives a Parse/Encode round trip; formatting details (spacing,
// comments) are normalized.
func (c *Config) Encode() ([]byte, error) {
	f := ini.Empty()
	// ini.Empty seeds an unnamed default section; drop it from output by
	// never adding keys to it.

	write := func(section, key, value string) error {
		sec, err := f.GetSection(section)
		if err != nil {
			if sec, err = f.NewSection(section); err != nil {
				return err
			}
		}
		_, err = sec.NewKey(key, value)
		return err
	}

	if err := write(sectionLoggers, "keys", strings.Join(c.LoggerKeys, ",")); err != nil {
		return nil, err
	}
	if err := write(sectionHandlers, "keys", strings.Join(c.HandlerKeys, ",")); err != nil {
		return nil, err
	}
	if err := write(sectionFormatters, "keys", strings.Join(c.FormatterKeys, ",")); err != nil {
		return nil, err
	}

	for _, l := range c.Loggers {
		sec := prefixLogger + l.Name
		if l.Level != "" {
			if err := write(sec, "level", l.Level); err != nil {
				return nil, err
			}
		}
		if len(l.Handlers) > 0 {
			if err := write(sec, "handlers", strings.Join(l.Handlers, ",")); err != nil {
				return nil, err
			}
		}
		if l.Qualname != "" {
			if err := write(sec, "qualname", l.Qualname); err != nil {
				return nil, err
			}
		}
		if l.Propagate != "" {
			if err := write(sec, "propagate", l.Propagate); err != nil {
				return nil, err
			}
		}
		for _, kv := range l.Extra {
			if err := write(sec, kv.Key, kv.Value); err != nil {
				return nil, err
			}
		}
		if _, err := f.GetSection(sec); err != nil {
			// Logger with no keys at all still needs its section emitted.
			if _, err := f.NewSection(sec); err != nil {
				return nil, err
			}
		}
	}

	for _, h := range c.Handlers {
		sec := prefixHandler + h.Name
		if h.Class != "" {
			if err := write(sec, "class", h.Class); err != nil {
				return nil, err
			}
		}
		if h.Level != "" {
			if err := write(sec, "level", h.Level); err != nil {
				return nil, err
			}
		}
		if h.Formatter != "" {
			if err := write(sec, "formatter", h.Formatter); err != nil {
				return nil, err
			}
		}
		if h.Args != "" {
			if err := write(sec, "args", h.Args); err != nil {
				return nil, err
			}
		}
		for _, kv := range h.Extra {
			if err := write(sec, kv.Key, kv.Value); err != nil {
				return nil, err
			}
		}
	}

	for _, fc := range c.Formatters {
		sec := prefixFormatter + fc.Name
		if fc.Format != "" {
			if err := write(sec, "format", fc.Format); err != nil {
				return nil, err
			}
		}
		if fc.Datefmt != "" {
			if err := write(sec, "datefmt", fc.Datefmt); err != nil {
				return nil, err
			}
		}
		for _, kv := range fc.Extra {
			if err := write(sec, kv.Key, kv.Value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode logging config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the encoded configuration to a file.
func (c *Config) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

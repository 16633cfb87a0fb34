package logconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ReconcileConfig(t *testing.T) {
	cfg, err := Load("testdata/reconcile_logging.conf")
	require.NoError(t, err)

	assert.Equal(t, []string{"root", "reconciliation_ledger", "payment_reconciliation"}, cfg.LoggerKeys)
	assert.Equal(t, []string{"consoleHandler", "fileHandler"}, cfg.HandlerKeys)
	assert.Equal(t, []string{"standardFormatter"}, cfg.FormatterKeys)

	root, ok := cfg.Logger("root")
	require.True(t, ok)
	assert.Equal(t, "INFO", root.Level)
	assert.Equal(t, []string{"consoleHandler", "fileHandler"}, root.Handlers)
	assert.True(t, root.Propagates())

	ledger, ok := cfg.Logger("reconciliation_ledger")
	require.True(t, ok)
	assert.Equal(t, "DEBUG", ledger.Level)
	assert.Equal(t, "reconciliation_ledger", ledger.Qualname)
	assert.False(t, ledger.Propagates())

	console, ok := cfg.Handler("consoleHandler")
	require.True(t, ok)
	assert.Equal(t, "StreamHandler", console.Class)
	assert.Equal(t, "standardFormatter", console.Formatter)
	assert.Equal(t, "(sys.stdout,)", console.Args)

	file, ok := cfg.Handler("fileHandler")
	require.True(t, ok)
	assert.Equal(t, "FileHandler", file.Class)
	assert.Equal(t, "('reconcile_actions.log', 'a')", file.Args)

	fmtc, ok := cfg.Formatter("standardFormatter")
	require.True(t, ok)
	// The %(asctime)s placeholders must survive parsing verbatim.
	assert.Equal(t, "%(asctime)s - %(name)s - %(levelname)s - %(message)s", fmtc.Format)
	assert.Equal(t, "%Y-%m-%d %H:%M:%S", fmtc.Datefmt)
}

func TestParse_ExtraKeysPreserved(t *testing.T) {
	cfg, err := Parse([]byte(`
[loggers]
keys=root

[handlers]
keys=consoleHandler

[formatters]
keys=standardFormatter

[logger_root]
level=INFO
handlers=consoleHandler
encoding=utf-8

[handler_consoleHandler]
class=StreamHandler
formatter=standardFormatter
args=(sys.stdout,)

[formatter_standardFormatter]
format=%(message)s
style=%
`))
	require.NoError(t, err)

	root, ok := cfg.Logger("root")
	require.True(t, ok)
	assert.Equal(t, []KV{{Key: "encoding", Value: "utf-8"}}, root.Extra)

	fmtc, ok := cfg.Formatter("standardFormatter")
	require.True(t, ok)
	assert.Equal(t, []KV{{Key: "style", Value: "%"}}, fmtc.Extra)
}

func TestLoggerConfig_Propagates(t *testing.T) {
	assert.True(t, LoggerConfig{}.Propagates())
	assert.True(t, LoggerConfig{Propagate: "1"}.Propagates())
	assert.False(t, LoggerConfig{Propagate: "0"}.Propagates())
	assert.False(t, LoggerConfig{Propagate: "false"}.Propagates())
	assert.False(t, LoggerConfig{Propagate: " No "}.Propagates())
}

func TestValidate_CleanConfig(t *testing.T) {
	cfg, err := Load("testdata/validate_logging.conf")
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ReportsAllFindings(t *testing.T) {
	cfg, err := Parse([]byte(`
[loggers]
keys=root,ghost

[handlers]
keys=consoleHandler

[formatters]
keys=standardFormatter

[logger_root]
level=LOUD
handlers=consoleHandler,missingHandler

[handler_consoleHandler]
class=StreamHandler
formatter=fancyFormatter

[handler_rogueHandler]
class=StreamHandler

[formatter_standardFormatter]
format=%(message)s
`))
	require.NoError(t, err)

	verr := cfg.Validate()
	require.Error(t, verr)
	msg := verr.Error()
	assert.Contains(t, msg, `declared logger "ghost" has no [logger_ghost] section`)
	assert.Contains(t, msg, `section [handler_rogueHandler] is not declared under [handlers] keys=`)
	assert.Contains(t, msg, `unknown log level "LOUD"`)
	assert.Contains(t, msg, `handler "missingHandler" is not declared`)
	assert.Contains(t, msg, `formatter "fancyFormatter" is not declared`)
}

func TestValidate_MissingHandlerClass(t *testing.T) {
	cfg, err := Parse([]byte(`
[loggers]
keys=root

[handlers]
keys=h

[formatters]
keys=

[logger_root]
handlers=h

[handler_h]
level=INFO
`))
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "[handler_h]: missing class")
}

func TestEncode_RoundTrip(t *testing.T) {
	for _, name := range []string{"testdata/reconcile_logging.conf", "testdata/validate_logging.conf"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(name)
			require.NoError(t, err)

			data, err := cfg.Encode()
			require.NoError(t, err)

			again, err := Parse(data)
			require.NoError(t, err)
			assert.Equal(t, cfg, again)
		})
	}
}

func TestEncode_EmptyValuedKeysSurvive(t *testing.T) {
	cfg, err := Parse([]byte(`
[loggers]
keys=root

[handlers]
keys=h

[formatters]
keys=

[logger_root]
level=INFO
handlers=h
qualname=

[handler_h]
class=StreamHandler
level=
args=
`))
	require.NoError(t, err)

	root, ok := cfg.Logger("root")
	require.True(t, ok)
	assert.Equal(t, []KV{{Key: "qualname"}}, root.Extra)

	h, ok := cfg.Handler("h")
	require.True(t, ok)
	assert.Equal(t, "StreamHandler", h.Class)
	assert.Equal(t, []KV{{Key: "level"}, {Key: "args"}}, h.Extra)

	data, err := cfg.Encode()
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestEncode_EmptyLoggerSectionEmitted(t *testing.T) {
	cfg := &Config{
		LoggerKeys: []string{"root", "quiet"},
		Loggers: []LoggerConfig{
			{Name: "root", Level: "INFO"},
			{Name: "quiet"},
		},
	}

	data, err := cfg.Encode()
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	_, ok := again.Logger("quiet")
	assert.True(t, ok)
}

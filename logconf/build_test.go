package logconf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_ConsoleAndFileHandlers(t *testing.T) {
	cfg, err := Load("testdata/reconcile_logging.conf")
	require.NoError(t, err)

	dir := t.TempDir()
	var stdout bytes.Buffer
	registry, err := cfg.Build(func(o *BuildOptions) {
		o.Dir = dir
		o.Stdout = &stdout
	})
	require.NoError(t, err)
	defer registry.Close()

	ledger := registry.Get("reconciliation_ledger")
	ledger.Info("Payment stored")
	ledger.Debug("allocation detail")

	out := stdout.String()
	assert.Contains(t, out, " - reconciliation_ledger - INFO - Payment stored")
	// The console handler is gated at INFO; only the file sees debug records.
	assert.NotContains(t, out, "allocation detail")

	require.NoError(t, registry.Close())
	data, err := os.ReadFile(filepath.Join(dir, "reconcile_actions.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), " - reconciliation_ledger - INFO - Payment stored")
	assert.Contains(t, string(data), " - reconciliation_ledger - DEBUG - allocation detail")
}

func TestBuild_RootFallback(t *testing.T) {
	cfg, err := Load("testdata/validate_logging.conf")
	require.NoError(t, err)

	dir := t.TempDir()
	var stdout bytes.Buffer
	registry, err := cfg.Build(func(o *BuildOptions) {
		o.Dir = dir
		o.Stdout = &stdout
	})
	require.NoError(t, err)
	defer registry.Close()

	// Unregistered qualnames fall back to the root logger.
	registry.Get("unrelated.module").Info("forwarded")
	assert.Contains(t, stdout.String(), " - root - INFO - forwarded")
}

func TestBuild_PropagateAppendsRootHandlersOnce(t *testing.T) {
	cfg, err := Parse([]byte(`
[loggers]
keys=root,chatty

[handlers]
keys=consoleHandler

[formatters]
keys=standardFormatter

[logger_root]
level=INFO
handlers=consoleHandler

[logger_chatty]
level=DEBUG
handlers=consoleHandler
qualname=chatty
propagate=1

[handler_consoleHandler]
class=StreamHandler
level=DEBUG
formatter=standardFormatter
args=(sys.stdout,)

[formatter_standardFormatter]
format=%(name)s - %(levelname)s - %(message)s
`))
	require.NoError(t, err)

	var stdout bytes.Buffer
	registry, err := cfg.Build(func(o *BuildOptions) { o.Stdout = &stdout })
	require.NoError(t, err)

	registry.Get("chatty").Info("once only")
	assert.Equal(t, "chatty - INFO - once only\n", stdout.String())
}

func TestBuild_StderrDefaultForStreamHandler(t *testing.T) {
	cfg, err := Parse([]byte(`
[loggers]
keys=root

[handlers]
keys=errHandler

[formatters]
keys=plain

[logger_root]
level=INFO
handlers=errHandler

[handler_errHandler]
class=logging.StreamHandler
formatter=plain
args=(sys.stderr,)

[formatter_plain]
format=%(levelname)s - %(message)s
`))
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	registry, err := cfg.Build(func(o *BuildOptions) {
		o.Stdout = &stdout
		o.Stderr = &stderr
	})
	require.NoError(t, err)

	registry.Root().Error("went sideways")
	assert.Empty(t, stdout.String())
	assert.Equal(t, "ERROR - went sideways\n", stderr.String())
}

func TestBuild_InvalidConfigRejected(t *testing.T) {
	cfg, err := Parse([]byte(`
[loggers]
keys=root,ghost

[handlers]
keys=

[formatters]
keys=

[logger_root]
`))
	require.NoError(t, err)

	_, err = cfg.Build()
	assert.ErrorContains(t, err, "invalid logging config")
}

func TestBuild_UnsupportedHandlerClass(t *testing.T) {
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
class=SMTPHandler
args=()
`))
	require.NoError(t, err)

	_, err = cfg.Build()
	assert.ErrorContains(t, err, `unsupported handler class "SMTPHandler"`)
}

func TestParseArgsTuple(t *testing.T) {
	assert.Equal(t, []string{"reconcile_actions.log", "a"}, parseArgsTuple("('reconcile_actions.log', 'a')"))
	assert.Equal(t, []string{"sys.stdout"}, parseArgsTuple("(sys.stdout,)"))
	assert.Empty(t, parseArgsTuple("()"))
}

func TestBuild_FileHandlerWriteMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.log")
	require.NoError(t, os.WriteFile(path, []byte("stale content\n"), 0o644))

	cfg, err := Parse([]byte(`
[loggers]
keys=root

[handlers]
keys=f

[formatters]
keys=plain

[logger_root]
level=INFO
handlers=f

[handler_f]
class=FileHandler
formatter=plain
args=('run.log', 'w')

[formatter_plain]
format=%(message)s
`))
	require.NoError(t, err)

	registry, err := cfg.Build(func(o *BuildOptions) { o.Dir = dir })
	require.NoError(t, err)

	registry.Root().Info("fresh start")
	require.NoError(t, registry.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh start\n", string(data))
}

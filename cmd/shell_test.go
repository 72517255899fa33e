package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fzft/go-chainset/config"
)

func newTestShell(t *testing.T, keyType string) (*Shell, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Set.KeyType = keyType
	var out bytes.Buffer
	sh, err := NewShell(cfg, &out)
	require.NoError(t, err)
	return sh, &out
}

func TestSplitArgs(t *testing.T) {
	assert.Equal(t, []string{"insert", "a", "b c", "d\te", "it's"},
		splitArgs(`insert a "b c" "d\te" "it's"`))
	assert.Equal(t, []string{"find", `x"y`}, splitArgs(`find 'x"y'`))
	assert.Equal(t, []string{"insert", ""}, splitArgs(`insert ""`))
	assert.Empty(t, splitArgs("   "))
	assert.NotNil(t, splitArgs(""))
	assert.Nil(t, splitArgs(`insert "open`))
}

func TestShellInsertFindErase(t *testing.T) {
	sh, out := newTestShell(t, config.KeyTypeString)

	require.NoError(t, sh.Exec("insert a b a"))
	assert.Equal(t, "(integer) 2\n", out.String())
	out.Reset()

	require.NoError(t, sh.Exec("find b"))
	require.NoError(t, sh.Exec("find z"))
	require.NoError(t, sh.Exec("count a"))
	require.NoError(t, sh.Exec("contains z"))
	assert.Equal(t, "\"b\"\n(nil)\n(integer) 1\n(false)\n", out.String())
	out.Reset()

	require.NoError(t, sh.Exec("erase a z"))
	require.NoError(t, sh.Exec("SIZE"))
	assert.Equal(t, "(integer) 1\n(integer) 1\n", out.String())
}

func TestShellIntKeys(t *testing.T) {
	sh, out := newTestShell(t, config.KeyTypeInt)

	require.NoError(t, sh.Exec("insert 1 8 3"))
	out.Reset()
	require.NoError(t, sh.Exec("keys"))
	assert.Equal(t, "1) \"8\"\n2) \"1\"\n3) \"3\"\n", out.String())

	out.Reset()
	require.NoError(t, sh.Exec("dump"))
	assert.True(t, strings.HasPrefix(out.String(), "table_size = 7, current_size = 3\n0: \n1: 8, 1, \n"))

	err := sh.Exec("insert x")
	assert.ErrorIs(t, err, ErrInvalidArgs)
}

func TestShellGrowthAndClear(t *testing.T) {
	sh, out := newTestShell(t, config.KeyTypeInt)

	require.NoError(t, sh.Exec("insert 1 2 8 9 3"))
	out.Reset()
	require.NoError(t, sh.Exec("cap"))
	assert.Equal(t, "(integer) 14\n", out.String())

	out.Reset()
	require.NoError(t, sh.Exec("clear"))
	require.NoError(t, sh.Exec("empty"))
	require.NoError(t, sh.Exec("cap"))
	require.NoError(t, sh.Exec("keys"))
	assert.Equal(t, "OK\n(true)\n(integer) 7\n(empty set)\n", out.String())
}

func TestShellRepeat(t *testing.T) {
	sh, out := newTestShell(t, config.KeyTypeString)
	require.NoError(t, sh.Exec("3 insert k"))
	assert.Equal(t, "(integer) 1\n(integer) 0\n(integer) 0\n", out.String())

	assert.ErrorIs(t, sh.Exec("0 insert k"), ErrInvalidArgs)
}

func TestShellSnapshot(t *testing.T) {
	sh, out := newTestShell(t, config.KeyTypeString)

	assert.ErrorIs(t, sh.Exec("equal"), ErrNoSnapshot)
	assert.ErrorIs(t, sh.Exec("restore"), ErrNoSnapshot)

	require.NoError(t, sh.Exec("insert a b"))
	require.NoError(t, sh.Exec("snapshot"))
	require.NoError(t, sh.Exec("erase a"))
	out.Reset()
	require.NoError(t, sh.Exec("equal"))
	require.NoError(t, sh.Exec("restore"))
	require.NoError(t, sh.Exec("equal"))
	require.NoError(t, sh.Exec("size"))
	assert.Equal(t, "(false)\nOK\n(true)\n(integer) 2\n", out.String())
}

func TestShellErrors(t *testing.T) {
	sh, _ := newTestShell(t, config.KeyTypeString)

	assert.ErrorIs(t, sh.Exec("frobnicate"), ErrUnknownCommand)
	assert.ErrorIs(t, sh.Exec("insert"), ErrArity)
	assert.ErrorIs(t, sh.Exec("find a b"), ErrArity)
	assert.ErrorIs(t, sh.Exec(`insert "a`), ErrInvalidArgs)
	assert.ErrorIs(t, sh.Exec("quit"), ErrQuit)
	assert.NoError(t, sh.Exec(""))
}

func TestShellHelp(t *testing.T) {
	sh, out := newTestShell(t, config.KeyTypeString)
	require.NoError(t, sh.Exec("help insert"))
	assert.Contains(t, out.String(), "insert")
	assert.NotContains(t, out.String(), "erase")

	assert.Contains(t, out.String(), "write")

	out.Reset()
	require.NoError(t, sh.Exec("help"))
	for _, name := range commandNames() {
		assert.Contains(t, out.String(), name)
	}

	out.Reset()
	require.NoError(t, sh.Exec("help size"))
	assert.Contains(t, out.String(), "readonly")
}

func TestCommandFlagsString(t *testing.T) {
	assert.Equal(t, "write", CmdWrite.String())
	assert.Equal(t, "readonly", CmdReadOnly.String())
	assert.Equal(t, "shell", CmdShell.String())
	assert.Equal(t, "none", CommandFlags(0).String())
}

func TestShellCommandsSkipLock(t *testing.T) {
	sh, _ := newTestShell(t, config.KeyTypeString)
	mu := sh.Locker()
	mu.Lock()
	defer mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- sh.Exec("help size") }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("help blocked on the set lock")
	}
}

func TestShellClearScreen(t *testing.T) {
	sh, out := newTestShell(t, config.KeyTypeString)
	require.NoError(t, sh.Exec("clear-screen"))
	assert.Equal(t, "\x1b[H\x1b[2J", out.String())
	assert.ErrorIs(t, sh.Exec("clear-screen now"), ErrArity)
}

func TestShellRunScript(t *testing.T) {
	sh, out := newTestShell(t, config.KeyTypeString)
	err := sh.RunScript("insert a; bogus; find a; find; quit; insert b")

	var multi MultiError
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi, 2)
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.ErrorIs(t, err, ErrArity)
	assert.Contains(t, out.String(), "\"a\"\n")
	assert.Equal(t, 1, sh.Stats().Size)

	assert.NoError(t, sh.RunScript("insert c"))
}

func TestShellRunLines(t *testing.T) {
	sh, out := newTestShell(t, config.KeyTypeString)
	in := strings.NewReader("insert a b\nnope\nsize\nquit\ninsert c\n")
	require.NoError(t, sh.Run(context.Background(), in))
	assert.Contains(t, out.String(), "(error) ERR unknown command 'nope'\n")
	assert.True(t, strings.HasSuffix(out.String(), "(integer) 2\n"))
}

func TestShellRunStopsOnCancel(t *testing.T) {
	sh, _ := newTestShell(t, config.KeyTypeString)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sh.Run(ctx, strings.NewReader("insert a\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sh.Stats().Size)
}

func TestGetDotfilePath(t *testing.T) {
	t.Setenv(HistFileEnv, "/tmp/custom_history")
	assert.Equal(t, "/tmp/custom_history", getDotfilePath(HistFileEnv, ".chainset_history"))

	t.Setenv(HistFileEnv, os.DevNull)
	assert.Equal(t, "", getDotfilePath(HistFileEnv, ".chainset_history"))

	abs := filepath.Join(t.TempDir(), "h")
	assert.Equal(t, abs, getDotfilePath("CHAINSET_UNSET_FOR_TEST", abs))
	assert.Equal(t, "", getDotfilePath("CHAINSET_UNSET_FOR_TEST", ""))
}

func TestNewShellHasher(t *testing.T) {
	cfg := config.Default()
	cfg.Set.Hasher = "xxhash"
	sh, err := NewShell(cfg, &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, sh.Exec("insert a b c"))
	assert.Equal(t, 3, sh.Stats().Size)

	cfg.Set.Hasher = "crc"
	_, err = NewShell(cfg, &bytes.Buffer{})
	assert.Error(t, err)
}

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/fzft/go-chainset/config"
	"github.com/fzft/go-chainset/deps/linenoise"
	"github.com/fzft/go-chainset/log"
	"github.com/fzft/go-chainset/set"
)

const HistFileEnv = "CHAINSET_HISTFILE"

// Shell runs commands against a single set.
type Shell struct {
	cfg  *config.Config
	keys keySet
	out  io.Writer

	// mu serialises set commands with metric scrapes. Shell commands do not
	// touch the set and run without it.
	mu sync.Mutex
}

func NewShell(cfg *config.Config, out io.Writer) (*Shell, error) {
	keys, err := newKeySet(cfg)
	if err != nil {
		return nil, err
	}
	return &Shell{cfg: cfg, keys: keys, out: out}, nil
}

// Stats lets the shell's set be registered as a metrics source together
// with Locker.
func (sh *Shell) Stats() set.Stats {
	return sh.keys.Stats()
}

func (sh *Shell) Locker() sync.Locker {
	return &sh.mu
}

// Exec runs one command line. A leading positive integer repeats the command
// that many times. Exec returns ErrQuit for quit and exit.
func (sh *Shell) Exec(line string) error {
	argv := splitArgs(line)
	if argv == nil {
		return ErrInvalidArgs
	}
	if len(argv) == 0 {
		return nil
	}

	repeat := 1
	if n, err := strconv.Atoi(argv[0]); err == nil && len(argv) > 1 {
		if n <= 0 {
			return fmt.Errorf("%w: repeat count %d", ErrInvalidArgs, n)
		}
		repeat = n
		argv = argv[1:]
	}

	c, err := lookupCommand(argv[0])
	if err != nil {
		return err
	}
	if err := c.checkArity(len(argv)); err != nil {
		return err
	}

	start := time.Now()
	if c.flags&CmdShell == 0 {
		sh.mu.Lock()
		defer sh.mu.Unlock()
	}
	for i := 0; i < repeat; i++ {
		if err := c.proc(sh, argv); err != nil {
			return err
		}
	}
	log.Logger.Debug("command",
		zap.String("name", c.name),
		zap.Int("argc", len(argv)),
		zap.Int("repeat", repeat),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// RunScript executes ';'-separated commands and returns every failure.
func (sh *Shell) RunScript(script string) error {
	var errs MultiError
	for _, line := range strings.Split(script, ";") {
		err := sh.Exec(line)
		if errors.Is(err, ErrQuit) {
			break
		}
		if err != nil {
			sh.replyError(err)
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Run reads commands from in until EOF, quit, or ctx is done. A terminal gets
// line editing and history.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return sh.repl(ctx)
	}
	return sh.runLines(ctx, in)
}

func (sh *Shell) runLines(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := sh.Exec(scanner.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			sh.replyError(err)
		}
	}
	return scanner.Err()
}

func (sh *Shell) repl(ctx context.Context) error {
	line := linenoise.New(commandNames())
	defer line.Close()

	historyFile := getDotfilePath(HistFileEnv, sh.cfg.Shell.HistoryFile)
	if historyFile != "" {
		if err := line.HistoryLoad(historyFile); err != nil {
			log.Logger.Warn("load history", zap.String("file", historyFile), zap.Error(err))
		}
	}

	for ctx.Err() == nil {
		input, err := line.Prompt(sh.cfg.Shell.Prompt)
		if errors.Is(err, linenoise.ErrAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}

		line.AppendHistory(input)
		if historyFile != "" {
			if err := line.HistorySave(historyFile); err != nil {
				log.Logger.Warn("save history", zap.String("file", historyFile), zap.Error(err))
			}
		}

		err = sh.Exec(input)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			sh.replyError(err)
		}
	}
	return ctx.Err()
}

// getDotfilePath returns the value of envVar if set, otherwise name under
// the home directory. An empty result disables the file, and so does setting
// envVar to /dev/null.
func getDotfilePath(envVar, name string) string {
	if path, ok := os.LookupEnv(envVar); ok {
		if path == os.DevNull {
			return ""
		}
		return path
	}
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, name)
}

// splitArgs splits a command line into words. Double quotes allow \n, \t and
// \" escapes, single quotes are literal. It returns nil when a quote is left
// open.
func splitArgs(line string) []string {
	args := []string{}
	var (
		cur    strings.Builder
		inWord bool
		quote  rune
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			if r == '\\' && quote == '"' && i+1 < len(runes) {
				i++
				r = runes[i]
				switch r {
				case 'n':
					r = '\n'
				case 't':
					r = '\t'
				}
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args
}

func (sh *Shell) replyOK() {
	fmt.Fprintln(sh.out, "OK")
}

func (sh *Shell) replyInteger(n int) {
	fmt.Fprintf(sh.out, "(integer) %d\n", n)
}

func (sh *Shell) replyBool(b bool) {
	fmt.Fprintf(sh.out, "(%t)\n", b)
}

func (sh *Shell) replyError(err error) {
	fmt.Fprintf(sh.out, "(error) ERR %v\n", err)
}

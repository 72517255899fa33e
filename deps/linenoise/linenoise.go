package linenoise

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/peterh/liner"
)

// ErrAborted is returned by Prompt when the user presses Ctrl-C.
var ErrAborted = liner.ErrPromptAborted

type LineNoise struct {
	*liner.State
}

// New puts the terminal into raw mode. Close restores it.
func New(completions []string) *LineNoise {
	ln := &LineNoise{liner.NewLiner()}
	ln.SetCtrlCAborts(true)
	if len(completions) > 0 {
		ln.SetCompleter(Completer(completions))
	}
	return ln
}

// Completer completes the first word of a line from words.
func Completer(words []string) liner.Completer {
	return func(line string) []string {
		var out []string
		for _, w := range words {
			if len(line) <= len(w) && w[:len(line)] == line {
				out = append(out, w)
			}
		}
		return out
	}
}

// HistoryLoad reads filepath into the history. A missing file is not an error.
func (ln *LineNoise) HistoryLoad(filepath string) error {
	content, err := os.ReadFile(filepath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = ln.ReadHistory(bytes.NewReader(content))
	return err
}

func (ln *LineNoise) HistorySave(filepath string) error {
	var buf bytes.Buffer
	_, err := ln.WriteHistory(&buf)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, buf.Bytes(), 0644)
}

func ClearScreen(w io.Writer) error {
	_, err := fmt.Fprint(w, "\x1b[H\x1b[2J")
	return err
}

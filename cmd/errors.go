package cmd

import (
	"errors"
	"strings"
)

type MultiError []error

func (m MultiError) Error() string {
	var b strings.Builder
	b.WriteString("multiple errors:")
	for _, err := range m {
		b.WriteString("\n- " + err.Error())
	}
	return b.String()
}

func (m MultiError) Unwrap() []error {
	return m
}

var (
	ErrQuit           = errors.New("quit")
	ErrUnknownCommand = errors.New("unknown command")
	ErrArity          = errors.New("wrong number of arguments")
	ErrInvalidArgs    = errors.New("invalid argument(s)")
	ErrNoSnapshot     = errors.New("no snapshot taken")
)

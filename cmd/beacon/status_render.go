package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"beacon/internal/progress"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

var titleCaser = cases.Title(language.Und)

func stateLabel(state progress.State, colorize bool) string {
	label := titleCaser.String(state.String())
	if !colorize {
		return label
	}
	if color := stateColor(state); color != "" {
		return color + label + ansiReset
	}
	return label
}

func stateColor(state progress.State) string {
	switch state {
	case progress.Loaded:
		return ansiGreen
	case progress.Loading:
		return ansiYellow
	case progress.Failed:
		return ansiRed
	default:
		return ""
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

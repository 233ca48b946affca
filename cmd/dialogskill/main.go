// Command dialogskill converts CSV dialogue scripts into Watson Assistant
// dialog-skill JSON documents.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// version is stamped at build time via -ldflags.
var version = "1.0.0"

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run dispatches to a subcommand. It exists apart from main so tests can
// drive the CLI with captured output.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stderr)
		return 2
	}

	switch args[1] {
	case "convert":
		return runConvertCmd(args[2:], stdout, stderr)
	case "check":
		return runCheckCmd(args[2:], stdout, stderr)
	case "version", "--version":
		_, _ = fmt.Fprintf(stdout, "dialogskill %s\n", version)
		return 0
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprint(w, `dialogskill converts dialogue scripts into Watson Assistant dialog skills

Usage:
  dialogskill convert [flags] <script.csv>   Convert a script to a skill document
  dialogskill check   [flags] <script.csv>   Validate a script without writing output
  dialogskill version                        Print the version
  dialogskill help                           Show this help

Run 'dialogskill <command> -h' for command flags.
`)
}

// setupLogging routes the default logger to stderr. Verbose enables debug
// records; conversion warnings (merged intent collisions, watch rebuild
// failures) are Info/Warn and always shown.
func setupLogging(stderr io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
}

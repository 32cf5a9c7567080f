package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/hybridnote/internal/commands"
	"github.com/gerunddev/hybridnote/internal/config"
	"github.com/gerunddev/hybridnote/internal/styles"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var run func(*commands.Env, []string) error
	switch command {
	case "detect":
		run = (*commands.Env).Detect
	case "outline":
		run = (*commands.Env).Outline
	case "render":
		run = (*commands.Env).Render
	case "info":
		run = (*commands.Env).Info
	case "diff":
		run = (*commands.Env).Diff
	case "convert":
		run = (*commands.Env).Convert
	case "view":
		run = (*commands.Env).View
	case "export":
		run = (*commands.Env).Export
	case "sync":
		run = (*commands.Env).Sync
	case "log":
		run = (*commands.Env).ShowLog
	case "version", "-v", "--version":
		fmt.Printf("hybridnote v%s\n", version)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	env, cleanup, err := commands.Setup()
	if err != nil {
		fail(err)
	}
	err = run(env, os.Args[2:])
	cleanup()
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
	os.Exit(1)
}

func printUsage() {
	usage := fmt.Sprintf(`hybridnote - Parse, inspect and convert mixed markdown/org/LaTeX documents

Usage:
  hybridnote <command> [options]

Commands:
  detect      Show the syntax chunks of a document
  outline     Show the heading tree of a document
  render      Parse a document and print its canonical form
  info        Show a note's title, ID, tags, links and attachments
  diff        Show what a parse/render round trip changes (--convert for org<->md)
  convert     Convert a note between markdown and org
  view        Render a note in the terminal
  export      Export a note as HTML
  sync        Convert a directory of notes, skipping unchanged ones
  log         Show recent log entries
  version     Show version information
  help        Show this help message

Examples:
  hybridnote detect notes/mixed.md
  hybridnote outline notes/project.org
  hybridnote diff notes/mixed.md --plain
  hybridnote diff notes/project.org --convert
  hybridnote convert notes/project.org --out vault/project.md --ids ids.json
  hybridnote convert notes/todo.md --to org
  hybridnote export notes/todo.md --standalone --out todo.html
  hybridnote sync ~/org ~/vault --from org --dry-run
  cat notes/mixed.md | hybridnote render -

Configuration:
  Config file: %s
  State file:  %s
  Log file:    %s
`, config.ConfigPath(), config.StateFilePath(), config.LogFilePath())
	fmt.Print(usage)
}

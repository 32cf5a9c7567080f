// Package commands implements the hybridnote subcommands.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gerunddev/hybridnote/internal/config"
	"github.com/gerunddev/hybridnote/internal/logger"
)

// Env carries what every command needs: the loaded configuration, a logger
// and the writer output goes to.
type Env struct {
	Config *config.Config
	Log    *logger.Logger
	Out    io.Writer
	In     io.Reader
}

// Setup loads the configuration and opens the log file. The returned
// cleanup closes the log file.
func Setup() (*Env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	log, cleanup, err := logger.NewFileLogger(cfg.LogFile, logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.ConfigLoaded(config.ConfigPath(), cfg.StrictDetection)

	return &Env{Config: cfg, Log: log, Out: os.Stdout, In: os.Stdin}, cleanup, nil
}

// args splits command arguments into positional values and --flags.
// A flag takes the next argument as its value unless it is listed in
// booleans.
type args struct {
	positional []string
	flags      map[string]string
}

func parseArgs(raw []string, booleans ...string) (args, error) {
	a := args{flags: make(map[string]string)}
	isBool := make(map[string]bool, len(booleans))
	for _, b := range booleans {
		isBool[b] = true
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		if !strings.HasPrefix(arg, "--") || arg == "--" {
			a.positional = append(a.positional, arg)
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		switch {
		case hasValue:
			a.flags[name] = value
		case isBool[name]:
			a.flags[name] = "true"
		case i+1 < len(raw):
			a.flags[name] = raw[i+1]
			i++
		default:
			return a, fmt.Errorf("flag --%s needs a value", name)
		}
	}
	return a, nil
}

func (a args) flag(name string) (string, bool) {
	v, ok := a.flags[name]
	return v, ok
}

func (a args) has(name string) bool {
	_, ok := a.flags[name]
	return ok
}

// input returns the single file argument of a command
func (a args) input(command string) (string, error) {
	switch len(a.positional) {
	case 0:
		return "", fmt.Errorf("%s: no input file specified", command)
	case 1:
		return a.positional[0], nil
	default:
		return "", fmt.Errorf("%s: expected one input file, got %d", command, len(a.positional))
	}
}

// read returns the contents of path, or standard input for "-"
func (e *Env) read(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(e.In)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// loadIDMap reads a JSON object mapping org IDs to note names
func loadIDMap(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read id map: %w", err)
	}
	var ids map[string]string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse id map: %w", err)
	}
	return ids, nil
}

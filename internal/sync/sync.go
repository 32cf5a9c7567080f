// Package sync converts a directory of notes into the other dialect,
// skipping notes that have not changed since the last run.
package sync

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gerunddev/hybridnote/convert"
	"github.com/gerunddev/hybridnote/format"
	"github.com/gerunddev/hybridnote/internal/config"
	"github.com/gerunddev/hybridnote/internal/logger"
	"github.com/gerunddev/hybridnote/internal/state"
	"github.com/gerunddev/hybridnote/org"
)

// Options selects what one sync run converts
type Options struct {
	SourceDir string
	DestDir   string
	From      string // source dialect: "markdown" or "org"
	DryRun    bool
	Force     bool
}

// Syncer converts note directories one way, markdown to org or org to markdown
type Syncer struct {
	config *config.Config
	state  *state.State
	log    *logger.Logger
}

// NewSyncer creates a new syncer instance
func NewSyncer(cfg *config.Config, st *state.State) *Syncer {
	return &Syncer{
		config: cfg,
		state:  st,
		log:    logger.Discard(),
	}
}

// SetLogger sets the logger for the syncer
func (s *Syncer) SetLogger(l *logger.Logger) {
	s.log = l
}

// SyncResult represents the result of a sync operation
type SyncResult struct {
	Converted []string // destination paths, planned ones on a dry run
	DryRun    bool
	Skipped   int
	Pruned    []string
	Errors    []error
	StartTime time.Time
	EndTime   time.Time
}

// note is one source file read for a run
type note struct {
	path    string
	content string
	name    string
	// id is assigned to markdown notes without one
	id string
}

// Sync converts every changed note under opts.SourceDir into opts.DestDir.
// Per-note failures are collected in the result; only setup errors are
// returned.
func (s *Syncer) Sync(opts Options) (*SyncResult, error) {
	result := &SyncResult{StartTime: time.Now(), DryRun: opts.DryRun}

	from, err := format.ByName(opts.From)
	if err != nil {
		return nil, err
	}
	to := format.Format(format.NewOrg(s.config.TodoKeywords))
	if from.Name() == "org" {
		to = format.NewMarkdown()
	}

	srcDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory: %w", err)
	}
	destDir, err := filepath.Abs(opts.DestDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination directory: %w", err)
	}

	files, err := ScanDirectory(srcDir, from.Extension())
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", srcDir, err)
	}

	// Every note's ID is learned before any is converted so links between
	// notes resolve regardless of order.
	notes := make([]*note, 0, len(files))
	keep := make(map[string]bool, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.FileError(path, err)
			result.Errors = append(result.Errors, fmt.Errorf("failed to read %s: %w", path, err))
			continue
		}
		n := &note{path: path, content: string(data), name: format.FileStem(path)}
		s.learnID(n, from.Name())
		notes = append(notes, n)
		keep[path] = true
	}

	for _, n := range notes {
		rel, err := filepath.Rel(srcDir, n.path)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		dest := filepath.Join(destDir, strings.TrimSuffix(rel, filepath.Ext(rel))+to.Extension())

		changed, err := s.state.HasChanged(n.path, dest)
		if err != nil {
			s.log.FileError(n.path, err)
			result.Errors = append(result.Errors, err)
			continue
		}
		if !changed && !opts.Force {
			result.Skipped++
			continue
		}

		out, err := s.convert(n, from.Name())
		if err != nil {
			s.log.FileError(n.path, err)
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", n.path, err))
			continue
		}
		if opts.DryRun {
			result.Converted = append(result.Converted, dest)
			continue
		}

		if err := writeNote(dest, out); err != nil {
			s.log.FileError(dest, err)
			result.Errors = append(result.Errors, err)
			continue
		}
		if err := s.state.Update(n.path, dest); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to record %s: %w", n.path, err))
			continue
		}
		s.log.FileConverted(n.path, dest, to.Name())
		result.Converted = append(result.Converted, dest)
	}

	if !opts.DryRun {
		result.Pruned = s.state.Prune(srcDir, keep)
	}

	result.EndTime = time.Now()
	return result, nil
}

// Watch syncs once, then again every interval until ctx is done. After
// each run the state is persisted with save and the result passed to report.
// A failed run is logged and retried on the next tick.
func (s *Syncer) Watch(ctx context.Context, opts Options, interval time.Duration, save func() error, report func(*SyncResult)) error {
	if interval <= 0 {
		return fmt.Errorf("invalid watch interval %v", interval)
	}

	s.log.Info("watch started",
		"source", opts.SourceDir,
		"dest", opts.DestDir,
		"interval", interval)

	run := func() {
		result, err := s.Sync(opts)
		if err != nil {
			s.log.Error("sync failed", "error", err)
			return
		}
		s.log.SyncCompleted(len(result.Converted), result.Skipped, len(result.Errors))
		if err := save(); err != nil {
			s.log.Error("failed to save state", "error", err)
		}
		report(result)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	run()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("watch stopping")
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			run()
		}
	}
}

// learnID records the note's org ID under its name. Markdown notes without
// an id get the one recorded for their name on an earlier run, or a new one.
func (s *Syncer) learnID(n *note, from string) {
	if from == "org" {
		doc := org.Parse(n.content, s.config.TodoKeywords)
		if id, ok := doc.Property("ID"); ok && id != "" {
			s.state.IDMap[id] = n.name
		}
		return
	}

	fm, _, _ := format.SplitFrontMatter(n.content)
	if fm.ID != "" {
		s.state.IDMap[fm.ID] = n.name
		return
	}
	id, ok := s.state.IDFor(n.name)
	if !ok {
		id = convert.GenerateOrgID()
		s.state.IDMap[id] = n.name
	}
	n.id = id
}

func (s *Syncer) convert(n *note, from string) (string, error) {
	if from == "org" {
		return convert.OrgToMarkdown(n.content, s.state.IDMap)
	}
	content := n.content
	if n.id != "" {
		var err error
		content, err = withID(content, n.id)
		if err != nil {
			return "", err
		}
	}
	return convert.MarkdownToOrg(content, s.state.IDMap)
}

// withID sets the front matter id of a markdown note
func withID(content, id string) (string, error) {
	fm, body, _ := format.SplitFrontMatter(content)
	fm.ID = id
	header, err := format.RenderFrontMatter(fm)
	if err != nil {
		return "", err
	}
	return header + body, nil
}

func writeNote(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ScanDirectory returns the files under dir with extension ext in lexical
// order. Hidden directories such as .git and .obsidian are skipped.
func ScanDirectory(dir string, ext string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// String returns a human-readable summary of the sync result
func (r *SyncResult) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	return fmt.Sprintf(
		"Sync complete: %d converted, %d unchanged, %d errors (took %v)",
		len(r.Converted),
		r.Skipped,
		len(r.Errors),
		duration.Round(time.Millisecond),
	)
}

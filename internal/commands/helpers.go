package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gerunddev/hybridnote/internal/styles"
)

// LogSummary is what the log command reports about recent activity
type LogSummary struct {
	Lines      []string
	LastParse  time.Time
	LastBlocks int
	Warnings   int
}

// ParseLogFile reads the last maxLines lines of the log file and finds the
// most recent document parse
func ParseLogFile(logPath string, maxLines int) (LogSummary, error) {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return LogSummary{}, fmt.Errorf("failed to read log file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}

	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	summary := LogSummary{Lines: lines[startIdx:]}

	for _, line := range summary.Lines {
		if strings.Contains(line, " WARN ") {
			summary.Warnings++
		}
	}

	for i := len(summary.Lines) - 1; i >= 0; i-- {
		line := summary.Lines[i]
		if !strings.Contains(line, "document parsed") {
			continue
		}
		// Format: 2025-11-27 14:11:57 DEBU document parsed blocks=3 ...
		if len(line) > 19 {
			if t, err := time.Parse(time.DateTime, line[:19]); err == nil {
				summary.LastParse = t
			}
		}
		if idx := strings.Index(line, "blocks="); idx != -1 {
			_, _ = fmt.Sscanf(line[idx:], "blocks=%d", &summary.LastBlocks) //nolint:errcheck // best effort parsing
		}
		break
	}

	return summary, nil
}

// ShowLog prints recent log entries. Usage: log [--lines N]
func (e *Env) ShowLog(raw []string) error {
	a, err := parseArgs(raw)
	if err != nil {
		return err
	}
	maxLines := 20
	if v, ok := a.flag("lines"); ok {
		if _, err := fmt.Sscanf(v, "%d", &maxLines); err != nil || maxLines <= 0 {
			return fmt.Errorf("invalid --lines value %q", v)
		}
	}

	summary, err := ParseLogFile(e.Config.LogFile, maxLines)
	if err != nil {
		return err
	}

	fmt.Fprintln(e.Out, styles.TitleStyle.Render("Log: "+e.Config.LogFile))
	if summary.LastParse.IsZero() {
		fmt.Fprintln(e.Out, styles.DimStyle.Render("No documents parsed yet"))
	} else {
		fmt.Fprintf(e.Out, "Last parse: %s (%d blocks)\n",
			summary.LastParse.Format(time.DateTime), summary.LastBlocks)
	}
	if summary.Warnings > 0 {
		fmt.Fprintln(e.Out, styles.WarningStyle.Render(fmt.Sprintf("%d warnings", summary.Warnings)))
	}
	fmt.Fprintln(e.Out)
	for _, line := range summary.Lines {
		fmt.Fprintln(e.Out, styles.DimStyle.Render(line))
	}
	return nil
}

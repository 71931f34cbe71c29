package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/vonpupp/ord-plan/internal/core/daterange"
	"github.com/vonpupp/ord-plan/internal/core/org"
	"github.com/vonpupp/ord-plan/internal/core/plan"
	"github.com/vonpupp/ord-plan/internal/core/rules"
	"github.com/vonpupp/ord-plan/internal/core/styles"
	"github.com/vonpupp/ord-plan/pkg/utils"
)

// GenerateCmd implements the ord-plan generate command.
type GenerateCmd struct {
	flags *Flags

	rulesPath string
	filePath  string
	fromDate  string
	toDate    string
	keyword   string
	force     bool
	dryRun    bool
}

// NewGenerateCmd creates a new generate command.
func NewGenerateCmd(flags *Flags) *GenerateCmd {
	return &GenerateCmd{flags: flags}
}

// Register adds the generate command to the application.
func (cmd *GenerateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "generate",
		Usage:     "Generate outline events from cron-based rules",
		UsageText: "ord-plan generate --rules <path|glob> [--file <org>] [--from <date>] [--to <date>]",
		Description: `Reads YAML rule files containing event definitions with cron expressions
and renders a hierarchical outline organized Year > Week > Date > Events.

When --file points at an existing document its content is preserved:
events already in the file stay exactly where they are and newly
generated ones are appended under the matching date.

Date formats for --from/--to:
  absolute   2025-01-15
  relative   today, tomorrow, yesterday, next monday, next week, next month, next year
  offset     +7 days

Examples:
  ord-plan generate --rules events.yaml --file tasks.org
  ord-plan generate --rules 'rules/**/*.yaml' --from 2025-01-01 --to 2025-01-31 --file january.org
  ord-plan generate --rules events.yaml --from today --to '+30 days'`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "rules",
				Aliases:     []string{"r"},
				Usage:       "path or glob of YAML rules files",
				Required:    true,
				Destination: &cmd.rulesPath,
			},
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "target outline file (omit to write to stdout)",
				Destination: &cmd.filePath,
			},
			&cli.StringFlag{
				Name:        "from",
				Usage:       "start date (default: Monday of current week)",
				Destination: &cmd.fromDate,
			},
			&cli.StringFlag{
				Name:        "to",
				Usage:       "end date (default: Sunday of current week)",
				Destination: &cmd.toDate,
			},
			&cli.StringFlag{
				Name:        "keyword",
				Usage:       "default state keyword for events without one",
				Destination: &cmd.keyword,
			},
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "bypass past/future date warnings",
				Destination: &cmd.force,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "show what would be generated without writing files",
				Destination: &cmd.dryRun,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *GenerateCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	stderr := c.Root().ErrWriter

	ruleSet, err := rules.LoadGlob(cmd.rulesPath)
	if err != nil {
		return err
	}
	if err := rules.Validate(ruleSet); err != nil {
		fmt.Fprintln(stderr, styles.Error.Render("rule validation errors:"))
		fmt.Fprintln(stderr, err.Error())
		return fmt.Errorf("invalid rules in %s", cmd.rulesPath)
	}

	iv, err := daterange.Resolve(cmd.fromDate, cmd.toDate, time.Now())
	if err != nil {
		if errors.Is(err, daterange.ErrStartAfterEnd) {
			return fmt.Errorf("invalid date range: %w", err)
		}
		return err
	}

	if len(iv.Warnings) > 0 {
		if cmd.force {
			fmt.Fprintln(stderr, styles.Warning.Render("bypassing warnings with --force:"))
			for _, w := range iv.Warnings {
				fmt.Fprintln(stderr, "  - "+w)
			}
		} else {
			proceed, err := confirmWarnings(iv.Warnings)
			if err != nil {
				return err
			}
			if !proceed {
				fmt.Fprintln(stderr, "aborted")
				return nil
			}
		}
	}

	// Fail on an unwritable target before any generation work happens.
	if cmd.filePath != "" && !cmd.dryRun {
		if err := ensureWritable(cmd.filePath); err != nil {
			return err
		}
	}

	var existing []org.DateNode
	if cmd.filePath != "" {
		existing, err = org.ReadFile(cmd.filePath, cfg.RecognizedKeywords)
		if err != nil {
			return err
		}
	}

	keyword := cmd.keyword
	if keyword == "" {
		keyword = cfg.DefaultKeyword
	}

	res, err := plan.Generate(plan.Request{
		Rules:          ruleSet,
		Interval:       iv,
		Existing:       existing,
		DefaultKeyword: keyword,
		EventLevel:     cfg.EventLevel,
		MaxPerRule:     cfg.MaxEventsPerRule,
	})
	if err != nil {
		return err
	}

	content := org.Render(res.Nodes)

	if cmd.dryRun {
		fmt.Fprintln(stderr, styles.Bold.Render("dry run, nothing written"))
		fmt.Fprintf(stderr, "  rules:    %s\n", cmd.rulesPath)
		fmt.Fprintf(stderr, "  range:    %s to %s (%d days)\n",
			iv.Start.Format("2006-01-02"), iv.End.Format("2006-01-02"), iv.Days())
		cmd.printSummary(stderr, res.Summary)
		return nil
	}

	var w utils.DeferredWriter
	if _, err := io.WriteString(&w, content); err != nil {
		return err
	}

	if cmd.filePath == "" {
		if err := w.Flush(c.Root().Writer); err != nil {
			return err
		}
		fmt.Fprintln(c.Root().Writer)
		return nil
	}

	if cfg.BackupExistingFiles {
		backup, err := backupFile(cmd.filePath)
		if err != nil {
			return err
		}
		if backup != "" {
			log.Info().Str("backup", backup).Msg("backed up existing file")
		}
	}

	if err := w.FlushFile(cmd.filePath); err != nil {
		return err
	}

	fmt.Fprintln(stderr, styles.Success.Render("events written to "+cmd.filePath))
	cmd.printSummary(stderr, res.Summary)
	return nil
}

func (cmd *GenerateCmd) printSummary(w io.Writer, s plan.Summary) {
	fmt.Fprintf(w, "  total events:       %d\n", s.Total)
	fmt.Fprintf(w, "  new events added:   %d\n", s.New)
	fmt.Fprintf(w, "  existing preserved: %d\n", s.Existing)
}

// ensureWritable reports an error when path exists but cannot be written,
// or when its closest existing parent directory refuses file creation.
func ensureWritable(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return fmt.Errorf("target %s is a directory, not a file", path)
		}
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("target file is not writable: %w", err)
		}
		return f.Close()
	case os.IsNotExist(err):
		dir := filepath.Dir(path)
		for {
			if _, err := os.Stat(dir); err == nil {
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
		tmp, err := os.CreateTemp(dir, ".ord-plan-*")
		if err != nil {
			return fmt.Errorf("cannot create file in %s: %w", filepath.Dir(path), err)
		}
		name := tmp.Name()
		_ = tmp.Close()
		return os.Remove(name)
	default:
		return fmt.Errorf("cannot access target %s: %w", path, err)
	}
}

// backupFile copies path to a timestamped sibling. Missing targets need
// no backup and return an empty path.
func backupFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read for backup: %w", err)
	}

	backup := fmt.Sprintf("%s.backup_%s", path, time.Now().Format("20060102_150405"))
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return backup, nil
}

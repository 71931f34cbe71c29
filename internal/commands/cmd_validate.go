package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/vonpupp/ord-plan/internal/core/rules"
	"github.com/vonpupp/ord-plan/internal/core/styles"
)

// ValidateCmd implements the ord-plan validate command.
type ValidateCmd struct {
	flags *Flags

	rulesPath string
}

// NewValidateCmd creates a new validate command.
func NewValidateCmd(flags *Flags) *ValidateCmd {
	return &ValidateCmd{flags: flags}
}

// Register adds the validate command to the application.
func (cmd *ValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "validate",
		Usage:     "Validate rules files without generating anything",
		UsageText: "ord-plan validate --rules <path|glob>",
		Description: `Checks rules files for schema problems and invalid cron expressions.
All problems are reported in one pass.

Examples:
  ord-plan validate --rules events.yaml
  ord-plan validate --rules 'rules/**/*.yaml'`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "rules",
				Aliases:     []string{"r"},
				Usage:       "path or glob of YAML rules files",
				Required:    true,
				Destination: &cmd.rulesPath,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ValidateCmd) run(ctx context.Context, c *cli.Command) error {
	ruleSet, err := rules.LoadGlob(cmd.rulesPath)
	if err != nil {
		return err
	}

	if err := rules.Validate(ruleSet); err != nil {
		fmt.Fprintln(c.Root().ErrWriter, styles.Error.Render("rule validation errors:"))
		fmt.Fprintln(c.Root().ErrWriter, err.Error())
		return fmt.Errorf("invalid rules in %s", cmd.rulesPath)
	}

	fmt.Fprintln(c.Root().Writer, styles.Success.Render(fmt.Sprintf("ok: %d rules valid", len(ruleSet))))
	return nil
}

package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// initCmd creates the database schema.
type initCmd struct {
	config string
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create the portfolio database schema" }
func (*initCmd) Usage() string {
	return `carteira init [-config <file>]

  Creates the portfolio tables when they do not exist yet.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "path to TOML config file")
}

func (c *initCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := newApp(c.config)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	if err := a.db.EnsureSchema(ctx); err != nil {
		return fail(err)
	}

	fmt.Println("schema ready")
	return subcommands.ExitSuccess
}

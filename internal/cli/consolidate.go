package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// consolidateCmd replays every holding against current market data.
type consolidateCmd struct {
	config string
}

func (*consolidateCmd) Name() string     { return "consolidate" }
func (*consolidateCmd) Synopsis() string { return "recompute every holding's valuation series" }
func (*consolidateCmd) Usage() string {
	return `carteira consolidate [-config <file>]

  Replays every holding from scratch against the stored market data.
  Holdings that cannot be consolidated are reported and skipped.
`
}

func (c *consolidateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "path to TOML config file")
}

func (c *consolidateCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := newApp(c.config)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	if err := a.svc.ConsolidateAll(ctx, today()); err != nil {
		return fail(err)
	}

	fmt.Println("portfolio consolidated")
	return subcommands.ExitSuccess
}

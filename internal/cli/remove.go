package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/google/uuid"
)

// removeCmd deletes a holding and everything derived from it.
type removeCmd struct {
	config string
	id     string
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "delete a holding and its derived data" }
func (*removeCmd) Usage() string {
	return `carteira remove -id <holding>

  Deletes the holding, its redemptions, valuation series and summary.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "path to TOML config file")
	f.StringVar(&c.id, "id", "", "holding ID")
}

func (c *removeCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	holdingID, err := uuid.Parse(c.id)
	if err != nil {
		return fail(fmt.Errorf("invalid holding ID %q: %w", c.id, err))
	}

	a, err := newApp(c.config)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	if err := a.svc.RemoveHolding(ctx, holdingID); err != nil {
		return fail(err)
	}

	fmt.Printf("holding %s removed\n", holdingID)
	return subcommands.ExitSuccess
}

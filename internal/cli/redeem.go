package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmfontes/carteira-backend/internal/domain"
)

// redeemCmd registers a withdrawal against a holding.
type redeemCmd struct {
	config string
	id     string
	date   string
	amount string
}

func (*redeemCmd) Name() string     { return "redeem" }
func (*redeemCmd) Synopsis() string { return "register a redemption against a holding" }
func (*redeemCmd) Usage() string {
	return `carteira redeem -id <holding> -date <date> -amount <value>

  Registers a withdrawal and replays the holding's valuation series from
  the redemption date onward.
`
}

func (c *redeemCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "path to TOML config file")
	f.StringVar(&c.id, "id", "", "holding ID")
	f.StringVar(&c.date, "date", "", "redemption date (YYYY-MM-DD)")
	f.StringVar(&c.amount, "amount", "", "redeemed amount")
}

func (c *redeemCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	holdingID, err := uuid.Parse(c.id)
	if err != nil {
		return fail(fmt.Errorf("invalid holding ID %q: %w", c.id, err))
	}
	date, err := parseDate(c.date)
	if err != nil {
		return fail(err)
	}
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", c.amount, err))
	}

	a, err := newApp(c.config)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	summary, err := a.svc.AddRedemption(ctx, holdingID, date, amount, today())
	if err != nil {
		return fail(err)
	}

	if summary.Status == domain.PositionClosed {
		fmt.Printf("holding %s closed, total redeemed %s\n", holdingID, brl(summary.Redeemed))
	} else {
		fmt.Printf("partial redemption registered, remaining balance %s\n", brl(summary.Balance))
	}
	return subcommands.ExitSuccess
}

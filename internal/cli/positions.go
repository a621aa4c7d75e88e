package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	money "github.com/Rhymond/go-money"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmfontes/carteira-backend/internal/domain"
)

// positionsCmd lists the consolidated position summaries.
type positionsCmd struct {
	config string
	all    bool
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "list consolidated positions" }
func (*positionsCmd) Usage() string {
	return `carteira positions [-config <file>] [-all]

  Lists each holding's balance, redemptions, gross yield and the yield
  net of the regressive income-tax bracket for its holding period.
  Closed holdings are hidden unless -all is given.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "path to TOML config file")
	f.BoolVar(&c.all, "all", false, "include closed holdings")
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := newApp(c.config)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	summaries, err := a.svc.Positions(ctx)
	if err != nil {
		return fail(err)
	}
	holdings, err := a.svc.ListHoldings(ctx)
	if err != nil {
		return fail(err)
	}
	purchases := make(map[uuid.UUID]time.Time, len(holdings))
	for _, h := range holdings {
		purchases[h.ID] = h.PurchaseDate
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HOLDING\tSTATUS\tBALANCE\tREDEEMED\tGROSS YIELD\tIR\tNET YIELD\tUPDATED")
	for _, s := range summaries {
		if s.Status == domain.PositionClosed && !c.all {
			continue
		}
		days := daysHeld(purchases[s.HoldingID], s.UpdatedAt)
		tax := domain.IncomeTax(s.GrossYield, days)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.1f%%\t%s\t%s\n",
			s.HoldingID,
			s.Status,
			brl(s.Balance),
			brl(s.Redeemed),
			brl(s.GrossYield),
			domain.IncomeTaxRate(days)*100,
			brl(s.GrossYield.Sub(tax)),
			s.UpdatedAt.Format(dateLayout),
		)
	}
	w.Flush()

	return subcommands.ExitSuccess
}

// brl formats a decimal amount as Brazilian reais
func brl(d decimal.Decimal) string {
	cents := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(cents, money.BRL).Display()
}

// daysHeld counts the calendar days from purchase to the series' last date,
// the holding period the regressive tax brackets are read against
func daysHeld(purchase, updated time.Time) int {
	if purchase.IsZero() || updated.Before(purchase) {
		return 0
	}
	return int(updated.Sub(purchase).Hours() / 24)
}

package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/rmfontes/carteira-backend/internal/domain"
)

// addCmd registers a fixed-income purchase and projects its series.
type addCmd struct {
	config   string
	broker   string
	issuer   string
	kind     string
	form     string
	regime   string
	purchase string
	maturity string
	rate     float64
	amount   string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "register a fixed-income holding" }
func (*addCmd) Usage() string {
	return `carteira add -regime <CDI|Pré|IPCA+> -purchase <date> -maturity <date> -rate <fraction> -amount <value> [options]

  Registers a purchase and projects its full valuation series.
  The rate is an annual fraction: 0.12 means 12% a.a., 1.10 means 110% of CDI.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "path to TOML config file")
	f.StringVar(&c.broker, "broker", "", "broker name")
	f.StringVar(&c.issuer, "issuer", "", "issuer name")
	f.StringVar(&c.kind, "kind", "", "instrument kind (CDB, LCA, Tesouro...)")
	f.StringVar(&c.form, "form", "", "instrument form")
	f.StringVar(&c.regime, "regime", "", "indexing regime: CDI, Pré or IPCA+")
	f.StringVar(&c.purchase, "purchase", "", "purchase date (YYYY-MM-DD)")
	f.StringVar(&c.maturity, "maturity", "", "maturity date (YYYY-MM-DD)")
	f.Float64Var(&c.rate, "rate", 0, "contracted annual rate as a fraction")
	f.StringVar(&c.amount, "amount", "", "principal amount")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	purchase, err := parseDate(c.purchase)
	if err != nil {
		return fail(err)
	}
	maturity, err := parseDate(c.maturity)
	if err != nil {
		return fail(err)
	}
	principal, err := decimal.NewFromString(c.amount)
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", c.amount, err))
	}

	a, err := newApp(c.config)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	holding := &domain.Holding{
		Broker:       c.broker,
		Issuer:       c.issuer,
		Kind:         c.kind,
		Form:         c.form,
		Regime:       domain.Regime(c.regime),
		PurchaseDate: purchase,
		MaturityDate: maturity,
		AnnualRate:   c.rate,
		Principal:    principal,
	}

	summary, err := a.svc.AddHolding(ctx, holding, today())
	if err != nil {
		return fail(err)
	}

	fmt.Printf("holding %s registered, balance %s on %s\n",
		holding.ID, brl(summary.Balance), summary.UpdatedAt.Format(dateLayout))
	return subcommands.ExitSuccess
}

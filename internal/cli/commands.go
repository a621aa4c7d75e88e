package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/rmfontes/carteira-backend/internal/domain"
)

// Commands lists every subcommand the carteira binary registers
var Commands = []subcommands.Command{
	&initCmd{},
	&addCmd{},
	&redeemCmd{},
	&consolidateCmd{},
	&positionsCmd{},
	&removeCmd{},
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return domain.DayOf(d), nil
}

func today() time.Time {
	return domain.DayOf(time.Now())
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

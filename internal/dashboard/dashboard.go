// Package dashboard assembles the per-role overview pages: parallel fetches
// against the remote API combined into the monthly series the charts render.
package dashboard

import (
	"context"
	"time"

	"finboard/internal/api"
	"finboard/internal/session"

	"golang.org/x/sync/errgroup"
)

// MonthlySeries holds one value per calendar month (index 0 = January) for a
// single year.
type MonthlySeries [12]float64

func (s MonthlySeries) Total() float64 {
	var total float64

	for _, v := range s {
		total += v
	}

	return total
}

// monthlySums buckets amounts by month for the given year. Arrival order of
// the underlying fetches does not matter; everything is combined after the
// fact.
func monthlySums(year int, dated []datedAmount) MonthlySeries {
	var series MonthlySeries

	for _, d := range dated {
		if d.at.IsZero() || d.at.Year() != year {
			continue
		}

		series[int(d.at.Month())-1] += d.amount
	}

	return series
}

type datedAmount struct {
	at     time.Time
	amount float64
}

// ExpenseSeries aggregates expense amounts by month.
func ExpenseSeries(year int, expenses []api.Expense) MonthlySeries {
	dated := make([]datedAmount, 0, len(expenses))

	for _, e := range expenses {
		dated = append(dated, datedAmount{at: e.Date, amount: e.Amount})
	}

	return monthlySums(year, dated)
}

// PaymentSeries aggregates payment amounts by month.
func PaymentSeries(year int, payments []api.Payment) MonthlySeries {
	dated := make([]datedAmount, 0, len(payments))

	for _, p := range payments {
		dated = append(dated, datedAmount{at: p.PaidAt, amount: p.Amount})
	}

	return monthlySums(year, dated)
}

// Overview is the CFO dashboard view model.
type Overview struct {
	Year     int
	Expenses MonthlySeries
	Payments MonthlySeries
	Projects []api.Project
}

// BuildOverview fetches expenses, payments and projects concurrently and
// combines them once all three have completed. A failure in any fetch fails
// the whole overview; the page renders a toast instead of partial data.
func BuildOverview(ctx context.Context, fin *api.Finance, sess *session.Session, year int) (Overview, error) {
	var (
		expenses []api.Expense
		payments []api.Payment
		projects []api.Project
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		expenses, err = fin.Expenses.List(gctx, sess)
		return err
	})

	g.Go(func() error {
		var err error
		payments, err = fin.Payments.List(gctx, sess)
		return err
	})

	g.Go(func() error {
		var err error
		projects, err = fin.Projects.List(gctx, sess)
		return err
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	return Overview{
		Year:     year,
		Expenses: ExpenseSeries(year, expenses),
		Payments: PaymentSeries(year, payments),
		Projects: projects,
	}, nil
}

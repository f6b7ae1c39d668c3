package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"finboard/internal/api"
	"finboard/internal/roles"
	"finboard/internal/session"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestExpenseSeries(t *testing.T) {
	expenses := []api.Expense{
		{Amount: 100, Date: date(2026, time.January, 5)},
		{Amount: 50, Date: date(2026, time.January, 20)},
		{Amount: 75, Date: date(2026, time.March, 1)},
		{Amount: 999, Date: date(2025, time.December, 31)}, // other year, ignored
		{Amount: 10},                                       // zero date, ignored
	}

	series := ExpenseSeries(2026, expenses)

	if series[0] != 150 {
		t.Errorf("January = %v, want 150", series[0])
	}

	if series[2] != 75 {
		t.Errorf("March = %v, want 75", series[2])
	}

	if series[11] != 0 {
		t.Errorf("December = %v, want 0", series[11])
	}

	if series.Total() != 225 {
		t.Errorf("Total = %v, want 225", series.Total())
	}
}

func TestPaymentSeriesOrderIndependent(t *testing.T) {
	a := []api.Payment{
		{Amount: 30, PaidAt: date(2026, time.June, 1)},
		{Amount: 20, PaidAt: date(2026, time.February, 9)},
	}

	b := []api.Payment{a[1], a[0]}

	if PaymentSeries(2026, a) != PaymentSeries(2026, b) {
		t.Error("aggregation must not depend on arrival order")
	}
}

func newTestFinance(t *testing.T, handler http.Handler) *api.Finance {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := api.New(srv.URL, 5*time.Second, log, nil)

	if err != nil {
		t.Fatalf("api.New: %v", err)
	}

	return api.NewFinance(client)
}

func TestBuildOverview(t *testing.T) {
	var calls int32

	fin := newTestFinance(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		switch r.URL.Path {
		case "/expenses":
			json.NewEncoder(w).Encode([]api.Expense{{Amount: 40, Date: date(2026, time.April, 2)}})
		case "/payment":
			json.NewEncoder(w).Encode([]api.Payment{{Amount: 90, PaidAt: date(2026, time.April, 15)}})
		case "/project":
			json.NewEncoder(w).Encode([]api.Project{{ID: "p-1", Name: "Expansion", Budget: 5000}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	sess := &session.Session{UserID: "u-1", Role: roles.CFO, Token: "tok"}

	overview, err := BuildOverview(context.Background(), fin, sess, 2026)

	if err != nil {
		t.Fatalf("BuildOverview: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 upstream calls, got %d", got)
	}

	if overview.Expenses[3] != 40 {
		t.Errorf("April expenses = %v, want 40", overview.Expenses[3])
	}

	if overview.Payments[3] != 90 {
		t.Errorf("April payments = %v, want 90", overview.Payments[3])
	}

	if len(overview.Projects) != 1 || overview.Projects[0].Name != "Expansion" {
		t.Errorf("unexpected projects: %+v", overview.Projects)
	}
}

func TestBuildOverviewFailsWhole(t *testing.T) {
	fin := newTestFinance(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/payment" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		json.NewEncoder(w).Encode([]any{})
	}))

	sess := &session.Session{UserID: "u-1", Role: roles.CFO, Token: "tok"}

	if _, err := BuildOverview(context.Background(), fin, sess, 2026); err == nil {
		t.Fatal("expected overview to fail when one fetch fails")
	}
}

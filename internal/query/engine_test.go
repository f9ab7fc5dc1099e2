package query

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/david/salesforce-mock/internal/db"
	"github.com/david/salesforce-mock/internal/models"
	"github.com/david/salesforce-mock/internal/seed"
)

var clients = []string{"Cobalt Industries", "Delta Partners", "Acme Corp", "Northwind Traders"}

// testRecords builds OPP001..OPPn with statuses and clients cycling through
// fixed lists, so filter results can be computed by hand.
func testRecords(n int) []models.Opportunity {
	out := make([]models.Opportunity, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Opportunity{
			OpportunityNumber: seed.OpportunityNumber(i),
			ProposalName:      "Proposal",
			ClientName:        clients[(i-1)%len(clients)],
			Value:             "50000.00",
			Status:            models.Statuses[(i-1)%len(models.Statuses)],
			Description:       "Description.",
		})
	}
	return out
}

func newTestEngine(t *testing.T, n int) (*Engine, []models.Opportunity) {
	t.Helper()
	records := testRecords(n)
	store, err := db.NewStore(records)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return NewEngine(store, NoDelay), records
}

func TestLookup(t *testing.T) {
	e, _ := newTestEngine(t, 200)
	ctx := context.Background()

	tests := []struct {
		id        string
		wantFound bool
		wantID    string
	}{
		{id: "OPP001", wantFound: true, wantID: "OPP001"},
		{id: "opp001", wantFound: true, wantID: "OPP001"},
		{id: "oPp200", wantFound: true, wantID: "OPP200"},
		{id: "OPP999", wantFound: false},
		{id: "", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			res, err := e.Lookup(ctx, tt.id)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Found != tt.wantFound {
				t.Fatalf("expected found=%v, got %v", tt.wantFound, res.Found)
			}
			if tt.wantFound && res.Opportunity.OpportunityNumber != tt.wantID {
				t.Fatalf("expected %s, got %s", tt.wantID, res.Opportunity.OpportunityNumber)
			}
		})
	}
}

func TestLookup_EveryStoredIDIgnoringCase(t *testing.T) {
	e, records := newTestEngine(t, 200)
	for _, rec := range records {
		res, err := e.Lookup(context.Background(), strings.ToLower(rec.OpportunityNumber))
		if err != nil || !res.Found {
			t.Fatalf("lookup %s: found=%v err=%v", rec.OpportunityNumber, res.Found, err)
		}
		if res.Opportunity.OpportunityNumber != rec.OpportunityNumber {
			t.Fatalf("expected %s, got %s", rec.OpportunityNumber, res.Opportunity.OpportunityNumber)
		}
	}
}

func TestLookup_CancelledDuringDelay(t *testing.T) {
	records := testRecords(1)
	store, err := db.NewStore(records)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	e := NewEngine(store, SleepDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Lookup(ctx, "OPP001"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestList_FirstPageNoFilters(t *testing.T) {
	e, records := newTestEngine(t, 200)

	got := e.List(ListParams{Page: 1, Limit: 10})
	if diff := cmp.Diff(records[:10], got); diff != "" {
		t.Fatalf("first page mismatch (-want +got):\n%s", diff)
	}
}

func TestList_StatusFilterIgnoresCase(t *testing.T) {
	e, _ := newTestEngine(t, 200)

	got := e.List(ListParams{Page: 1, Limit: 100, Status: "approved"})
	if len(got) != 40 {
		t.Fatalf("expected 40 approved records, got %d", len(got))
	}
	for _, rec := range got {
		if rec.Status != "Approved" {
			t.Fatalf("unexpected status %q in %s", rec.Status, rec.OpportunityNumber)
		}
	}
}

func TestList_StatusIsExactNotSubstring(t *testing.T) {
	e, _ := newTestEngine(t, 50)
	if got := e.List(ListParams{Page: 1, Limit: 100, Status: "approv"}); len(got) != 0 {
		t.Fatalf("expected no matches for partial status, got %d", len(got))
	}
}

func TestList_StatusAndClientCompose(t *testing.T) {
	e, records := newTestEngine(t, 200)

	got := e.List(ListParams{Page: 1, Limit: 100, Status: "APPROVED", Client: "co"})

	var want []models.Opportunity
	for _, rec := range records {
		if rec.Status == "Approved" && strings.Contains(strings.ToLower(rec.ClientName), "co") {
			want = append(want, rec)
		}
	}
	if len(want) == 0 {
		t.Fatal("test data should contain matches")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("composed filter mismatch (-want +got):\n%s", diff)
	}
	for _, rec := range got {
		if !strings.Contains(strings.ToLower(rec.ClientName), "co") {
			t.Fatalf("client %q does not contain co", rec.ClientName)
		}
	}
}

func TestList_PagesPartitionStore(t *testing.T) {
	e, records := newTestEngine(t, 200)

	for _, limit := range []int{1, 7, 10, 25, 100} {
		var joined []models.Opportunity
		k := len(records) / limit
		for page := 1; page <= k; page++ {
			joined = append(joined, e.List(ListParams{Page: page, Limit: limit})...)
		}
		if diff := cmp.Diff(records[:k*limit], joined); diff != "" {
			t.Fatalf("limit=%d: pages do not partition the store (-want +got):\n%s", limit, diff)
		}
	}
}

func TestList_PartialAndOutOfRangePages(t *testing.T) {
	e, records := newTestEngine(t, 200)

	last := e.List(ListParams{Page: 3, Limit: 90})
	if diff := cmp.Diff(records[180:], last); diff != "" {
		t.Fatalf("partial last page mismatch (-want +got):\n%s", diff)
	}

	empty := e.List(ListParams{Page: 999, Limit: 10})
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}

	for _, tt := range []struct {
		page, limit int
	}{
		{page: math.MaxInt/2 + 2, limit: 4},
		{page: math.MaxInt/4 + 2, limit: 8},
		{page: math.MaxInt, limit: 100},
		{page: 21, limit: 10},
	} {
		got := e.List(ListParams{Page: tt.page, Limit: tt.limit})
		if got == nil || len(got) != 0 {
			t.Fatalf("page=%d limit=%d: expected empty non-nil slice, got %d records", tt.page, tt.limit, len(got))
		}
	}

	lastFull := e.List(ListParams{Page: 20, Limit: 10})
	if diff := cmp.Diff(records[190:], lastFull); diff != "" {
		t.Fatalf("last full page mismatch (-want +got):\n%s", diff)
	}

	noMatch := e.List(ListParams{Page: 1, Limit: 10, Client: "no such client"})
	if noMatch == nil || len(noMatch) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", noMatch)
	}
}

func TestSleepDelay_Waits(t *testing.T) {
	start := time.Now()
	if err := SleepDelay(20 * time.Millisecond).Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("returned after %s, expected at least 20ms", elapsed)
	}
}

func TestPaginate_EmptyInput(t *testing.T) {
	if got := Paginate(nil, 1, 10); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

// Package query evaluates lookups and filtered, paginated listings against the
// opportunity store.
package query

import (
	"context"
	"strings"

	"github.com/david/salesforce-mock/internal/db"
	"github.com/david/salesforce-mock/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListParams are validated by the caller: Page >= 1 and 1 <= Limit <= MaxLimit.
// Empty Status or Client means no filter.
type ListParams struct {
	Page   int
	Limit  int
	Status string // Exact match, ignoring case
	Client string // Substring of the client name, ignoring case
}

// Result of a lookup. A miss is a normal outcome, not an error.
type Result struct {
	Found       bool
	Opportunity models.Opportunity
}

type Engine struct {
	store *db.Store
	delay Delay
}

// NewEngine binds an engine to a store. A nil delay means NoDelay.
func NewEngine(store *db.Store, delay Delay) *Engine {
	if delay == nil {
		delay = NoDelay
	}
	return &Engine{store: store, delay: delay}
}

// Lookup waits out the configured delay and then fetches id, ignoring case.
// The only error is the context's, if it ends during the wait.
func (e *Engine) Lookup(ctx context.Context, id string) (Result, error) {
	if err := e.delay.Wait(ctx); err != nil {
		return Result{}, err
	}
	rec, ok := e.store.Get(id)
	if !ok {
		return Result{}, nil
	}
	return Result{Found: true, Opportunity: rec}, nil
}

// List filters the store by params and returns the requested page. A page past
// the end yields an empty, non-nil slice.
func (e *Engine) List(params ListParams) []models.Opportunity {
	return Paginate(Filter(e.store.All(), params), params.Page, params.Limit)
}

// Filter keeps the records matching every filter present in params, in store
// order.
func Filter(records []models.Opportunity, params ListParams) []models.Opportunity {
	client := strings.ToLower(params.Client)

	out := make([]models.Opportunity, 0, len(records))
	for _, rec := range records {
		if params.Status != "" && !strings.EqualFold(rec.Status, params.Status) {
			continue
		}
		if client != "" && !strings.Contains(strings.ToLower(rec.ClientName), client) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Paginate returns records[(page-1)*limit : page*limit], clamped to the slice.
func Paginate(records []models.Opportunity, page, limit int) []models.Opportunity {
	// Compare by division so huge pages cannot overflow into an earlier page.
	if limit <= 0 || page < 1 || len(records) == 0 || page-1 > (len(records)-1)/limit {
		return []models.Opportunity{}
	}
	start := (page - 1) * limit
	end := len(records)
	if limit < end-start {
		end = start + limit
	}
	return records[start:end]
}

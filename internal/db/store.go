package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/david/salesforce-mock/internal/models"
)

var (
	ErrEmptyID     = errors.New("opportunity number is empty")
	ErrDuplicateID = errors.New("duplicate opportunity number")
)

// Store is the read-only opportunity collection. It is built once and never
// mutated, so concurrent readers need no locking.
type Store struct {
	byID  map[string]models.Opportunity
	order []models.Opportunity
}

// NormalizeID maps an opportunity number to the key the store is indexed by.
func NormalizeID(id string) string {
	return strings.ToUpper(id)
}

// NewStore indexes records by normalized opportunity number, keeping the
// given order as the store order.
func NewStore(records []models.Opportunity) (*Store, error) {
	s := &Store{
		byID:  make(map[string]models.Opportunity, len(records)),
		order: make([]models.Opportunity, 0, len(records)),
	}
	for i, rec := range records {
		key := NormalizeID(rec.OpportunityNumber)
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("record %d: %w", i, ErrEmptyID)
		}
		if _, exists := s.byID[key]; exists {
			return nil, fmt.Errorf("record %d (%s): %w", i, rec.OpportunityNumber, ErrDuplicateID)
		}
		s.byID[key] = rec
		s.order = append(s.order, rec)
	}
	return s, nil
}

// Get returns the record whose opportunity number matches id, ignoring case.
func (s *Store) Get(id string) (models.Opportunity, bool) {
	rec, ok := s.byID[NormalizeID(id)]
	return rec, ok
}

// All returns a copy of every record in store order.
func (s *Store) All() []models.Opportunity {
	out := make([]models.Opportunity, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Store) Len() int {
	return len(s.order)
}

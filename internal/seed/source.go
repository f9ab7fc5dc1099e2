package seed

import (
	"github.com/david/salesforce-mock/internal/config"
	"github.com/david/salesforce-mock/internal/db"
	"github.com/david/salesforce-mock/internal/models"
)

// Records returns the fixture file's records when one is configured, and
// generated records otherwise.
func Records(cfg config.SeedConfig) ([]models.Opportunity, error) {
	if cfg.FixtureFile != "" {
		return db.LoadFixtures(cfg.FixtureFile)
	}
	return NewGenerator(cfg.Count, cfg.Seed).Generate(), nil
}

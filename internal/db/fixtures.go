package db

import (
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/david/salesforce-mock/internal/models"
)

// fixtureFile is the on-disk layout of a record fixture.
type fixtureFile struct {
	Opportunities []models.Opportunity `yaml:"opportunities"`
}

// LoadFixtures reads opportunity records from a YAML file. Environment
// variables in the file are expanded before parsing. Markup in the free-text
// fields is stripped so fixture content is served as plain text.
func LoadFixtures(path string) ([]models.Opportunity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return ParseFixtures(data)
}

// ParseFixtures is LoadFixtures without the file read.
func ParseFixtures(data []byte) ([]models.Opportunity, error) {
	expanded := os.ExpandEnv(string(data))

	var f fixtureFile
	if err := yaml.Unmarshal([]byte(expanded), &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	p := bluemonday.StrictPolicy()
	out := make([]models.Opportunity, 0, len(f.Opportunities))
	for i, rec := range f.Opportunities {
		status, ok := models.CanonicalStatus(strings.TrimSpace(rec.Status))
		if !ok {
			return nil, fmt.Errorf("fixture record %d (%s): unknown status %q", i, rec.OpportunityNumber, rec.Status)
		}
		rec.Status = status
		value, err := decimal.NewFromString(strings.TrimSpace(rec.Value))
		if err != nil {
			return nil, fmt.Errorf("fixture record %d (%s): invalid value %q: %w", i, rec.OpportunityNumber, rec.Value, err)
		}
		rec.Value = value.StringFixed(2)
		rec.OpportunityNumber = NormalizeID(strings.TrimSpace(rec.OpportunityNumber))
		rec.ProposalName = plainText(p, rec.ProposalName)
		rec.ClientName = plainText(p, rec.ClientName)
		rec.Description = plainText(p, rec.Description)
		out = append(out, rec)
	}
	return out, nil
}

// plainText strips tags; the policy escapes entities, which are decoded back
// since records are rendered as JSON strings, not HTML.
func plainText(p *bluemonday.Policy, s string) string {
	return strings.TrimSpace(html.UnescapeString(p.Sanitize(s)))
}

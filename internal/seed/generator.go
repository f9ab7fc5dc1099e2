// Package seed produces the synthetic opportunity records the service serves.
package seed

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/david/salesforce-mock/internal/models"
)

const (
	DefaultCount = 200
	DefaultSeed  = 42

	minValue = 50000
	maxValue = 500000

	descriptionSentences = 3
)

// Generator builds Count records numbered OPP001 upwards. The same Seed always
// yields the same records.
type Generator struct {
	Count int
	Seed  uint64
}

func NewGenerator(count int, seed uint64) *Generator {
	if count <= 0 {
		count = DefaultCount
	}
	return &Generator{Count: count, Seed: seed}
}

func (g *Generator) Generate() []models.Opportunity {
	f := gofakeit.New(g.Seed)
	title := cases.Title(language.English)

	records := make([]models.Opportunity, 0, g.Count)
	for i := 1; i <= g.Count; i++ {
		records = append(records, models.Opportunity{
			OpportunityNumber: OpportunityNumber(i),
			ProposalName:      title.String(f.HackerVerb() + " " + f.BuzzWord() + " " + f.BS()),
			ClientName:        f.Company(),
			Value:             decimal.NewFromInt(int64(f.IntRange(minValue, maxValue))).StringFixed(2),
			Status:            f.RandomString(models.Statuses),
			Description:       paragraph(f, descriptionSentences),
		})
	}
	return records
}

// OpportunityNumber formats the i-th identifier, zero padded to three digits.
func OpportunityNumber(i int) string {
	return fmt.Sprintf("OPP%03d", i)
}

func paragraph(f *gofakeit.Faker, sentences int) string {
	parts := make([]string, 0, sentences)
	for i := 0; i < sentences; i++ {
		n := f.IntRange(6, 14)
		words := make([]string, n)
		for j := range words {
			words[j] = f.Word()
		}
		s := strings.Join(words, " ")
		parts = append(parts, strings.ToUpper(s[:1])+s[1:]+".")
	}
	return strings.Join(parts, " ")
}

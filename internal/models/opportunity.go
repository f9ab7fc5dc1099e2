package models

import "strings"

// Statuses is the closed set of values an opportunity status can take.
var Statuses = []string{"New", "Approved", "Draft", "Submitted", "Rejected"}

// NotFoundMessage is returned in the envelope when a lookup misses.
const NotFoundMessage = "Opportunity number not found."

type Opportunity struct {
	OpportunityNumber string `json:"opportunityNumber" yaml:"opportunityNumber"`
	ProposalName      string `json:"proposalName" yaml:"proposalName"`
	ClientName        string `json:"clientName" yaml:"clientName"`
	Value             string `json:"value" yaml:"value"` // Decimal text, two fractional digits
	Status            string `json:"status" yaml:"status"`
	Description       string `json:"description" yaml:"description"`
}

// APIResponse wraps single-opportunity lookups. The list endpoint returns a
// bare array instead.
type APIResponse struct {
	Success bool         `json:"success"`
	Data    *Opportunity `json:"data"`
	Message *string      `json:"message"`
}

// CanonicalStatus returns the entry of Statuses matching s ignoring case.
func CanonicalStatus(s string) (string, bool) {
	for _, known := range Statuses {
		if strings.EqualFold(known, s) {
			return known, true
		}
	}
	return "", false
}

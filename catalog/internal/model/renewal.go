package model

import (
	"time"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
)

const (
	RenewalMaxAhead   = 4 * 7 * 24 * time.Hour
	RenewalProposedIn = 3 * 7 * 24 * time.Hour

	MsgRenewalInPast = "Invalid date - renewal in past"
	MsgRenewalTooFar = "Invalid date - renewal more than 4 weeks ahead"
)

// ProposedRenewalDate is the date offered by the renewal form.
func ProposedRenewalDate(today time.Time) time.Time {
	return DateOf(today).Add(RenewalProposedIn)
}

// ValidateRenewalDate accepts dates from today up to four weeks ahead, both inclusive.
func ValidateRenewalDate(date, today time.Time) error {
	date, today = DateOf(date), DateOf(today)
	if date.Before(today) {
		return errs.NewValidationError("due_back", MsgRenewalInPast)
	}
	if date.After(today.Add(RenewalMaxAhead)) {
		return errs.NewValidationError("due_back", MsgRenewalTooFar)
	}
	return nil
}

// Package emi computes equated monthly installments for amortized loans.
package emi

import (
	"errors"
	"math"
)

var (
	ErrInvalidPrincipal = errors.New("principal must be greater than 0")
	ErrInvalidRate      = errors.New("annual rate must not be negative")
	ErrInvalidTerm      = errors.New("term must be greater than 0 months")
	ErrUnknownPeriod    = errors.New("unknown repayment period")
)

// Repayment periods offered on the application form, in months.
var periodMonths = map[string]int{
	"6 months": 6,
	"1 year":   12,
	"2 years":  24,
	"3 years":  36,
	"5 years":  60,
}

// TermMonths converts a repayment period selection to a month count.
func TermMonths(period string) (int, error) {
	months, ok := periodMonths[period]
	if !ok {
		return 0, ErrUnknownPeriod
	}
	return months, nil
}

// Compute returns the monthly installment for a loan of the given principal,
// annual interest rate (percent) and term, rounded half-up to 2 decimals.
// A zero rate degenerates to straight principal/term repayment.
func Compute(principal, annualRatePercent float64, termMonths int) (float64, error) {
	if principal <= 0 {
		return 0, ErrInvalidPrincipal
	}
	if annualRatePercent < 0 {
		return 0, ErrInvalidRate
	}
	if termMonths <= 0 {
		return 0, ErrInvalidTerm
	}

	monthlyRate := annualRatePercent / 100 / 12
	if monthlyRate == 0 {
		return round2(principal / float64(termMonths)), nil
	}

	factor := math.Pow(1+monthlyRate, float64(termMonths))
	installment := principal * monthlyRate * factor / (factor - 1)
	return round2(installment), nil
}

func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

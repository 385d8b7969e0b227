package dscr

import "math"

// This file is the calculator's only floating-point region. The amortizing
// annuity and its inversion run in float64 dollars and convert to cents
// exactly once, truncating toward zero. Everything else in the package is
// integer-cents and decimal arithmetic.

// monthlyPaymentCents returns the monthly principal-and-interest payment.
// Interest-only loans pay P*r. A zero rate amortizes linearly. A
// non-positive term yields zero; the config layer rejects such inputs at
// the boundary.
func monthlyPaymentCents(loanCents int64, annualRate float64, termMonths int, interestOnly bool) int64 {
	loanDollars := float64(loanCents) / 100
	monthlyRate := annualRate / 12

	if interestOnly {
		return int64(loanDollars * monthlyRate * 100)
	}
	if termMonths <= 0 {
		return 0
	}

	var pi float64
	if monthlyRate > 0 {
		factor := math.Pow(1+monthlyRate, float64(termMonths))
		pi = (loanDollars * monthlyRate * factor) / (factor - 1)
	} else {
		pi = loanDollars / float64(termMonths)
	}
	return int64(pi * 100)
}

// maxLoanCents inverts the annuity: the largest principal whose monthly
// payment stays within maxPICents.
func maxLoanCents(maxPICents int64, annualRate float64, termMonths int) int64 {
	monthlyRate := annualRate / 12
	if monthlyRate > 0 {
		factor := math.Pow(1+monthlyRate, float64(termMonths))
		return int64(float64(maxPICents) * (factor - 1) / (monthlyRate * factor))
	}
	return maxPICents * int64(termMonths)
}

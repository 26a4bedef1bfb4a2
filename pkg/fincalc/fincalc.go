// Package fincalc holds the deterministic money math behind the retirement,
// loan, inflation and tax calculators. All functions are pure; callers are
// expected to have validated that magnitudes are finite and non-negative and
// that month counts are positive. Rates are periodic fractions (annual percent
// / 100 / 12), and a zero rate is always legal.
package fincalc

import "math"

// CompoundedLumpSum grows a single principal at monthlyRate for totalMonths.
func CompoundedLumpSum(principal, monthlyRate float64, totalMonths int) float64 {
	return principal * math.Pow(1+monthlyRate, float64(totalMonths))
}

// FutureValueOfAnnuity accumulates a fixed monthly contribution at monthlyRate
// for totalMonths. At zero rate the closed form divides by zero, so the sum
// degenerates to contribution*months.
func FutureValueOfAnnuity(monthlyContribution, monthlyRate float64, totalMonths int) float64 {
	if monthlyRate == 0 {
		return monthlyContribution * float64(totalMonths)
	}
	return monthlyContribution * (math.Pow(1+monthlyRate, float64(totalMonths)) - 1) / monthlyRate
}

// EqualMonthlyInstallment is the fixed payment that fully amortizes principal
// over totalMonths at monthlyRate. Zero rate means straight division.
func EqualMonthlyInstallment(principal, monthlyRate float64, totalMonths int) float64 {
	n := float64(totalMonths)
	if monthlyRate == 0 {
		return principal / n
	}
	f := math.Pow(1+monthlyRate, n)
	return principal * monthlyRate * f / (f - 1)
}

// Shortfall is how far a projected corpus falls short of the target. Negative
// means the target is exceeded.
func Shortfall(targetCorpus, projectedCorpus float64) float64 {
	return targetCorpus - projectedCorpus
}

// RequiredMonthlyContribution solves the annuity formula for the payment that
// closes a shortfall over totalMonths at monthlyRate.
func RequiredMonthlyContribution(shortfall, monthlyRate float64, totalMonths int) float64 {
	n := float64(totalMonths)
	if monthlyRate == 0 {
		return shortfall / n
	}
	return shortfall * monthlyRate / (math.Pow(1+monthlyRate, n) - 1)
}

// MonthlyRate converts an annual percentage (e.g. 8 for 8%/yr) to the periodic
// fraction the other functions expect.
func MonthlyRate(annualPct float64) float64 {
	return annualPct / 100 / 12
}

// Projection is the result of a retirement projection run.
type Projection struct {
	ProjectedCorpus float64 `json:"projectedCorpus"`
	TotalInvested   float64 `json:"totalInvested"`
	WealthGained    float64 `json:"wealthGained"`
	Shortfall       float64 `json:"shortfall"`
	// ExtraMonthlyNeeded is the additional monthly contribution that would
	// close the shortfall; zero when the goal is already met.
	ExtraMonthlyNeeded float64 `json:"extraMonthlyNeeded"`
	OnTrack            bool    `json:"onTrack"`
}

// ProjectRetirement combines a compounded lump sum with a monthly SIP stream
// and compares the outcome against a target corpus.
func ProjectRetirement(targetCorpus, currentSavings, monthlyContribution, annualReturnPct float64, years int) Projection {
	n := years * 12
	r := MonthlyRate(annualReturnPct)
	corpus := CompoundedLumpSum(currentSavings, r, n) + FutureValueOfAnnuity(monthlyContribution, r, n)
	invested := currentSavings + monthlyContribution*float64(n)
	p := Projection{
		ProjectedCorpus: corpus,
		TotalInvested:   invested,
		WealthGained:    corpus - invested,
	}
	if short := Shortfall(targetCorpus, corpus); short > 0 {
		p.Shortfall = short
		p.ExtraMonthlyNeeded = RequiredMonthlyContribution(short, r, n)
	} else {
		p.OnTrack = true
	}
	return p
}

// InflationImpact returns the extra monthly cost of the given monthly spending
// under the given inflation percentage.
func InflationImpact(monthlySpending, inflationPct float64) float64 {
	return monthlySpending*(1+inflationPct/100) - monthlySpending
}

// EstimateTax applies the old-regime slab schedule used by the tax calculator:
// 5% over 2.5L, 20% over 5L, 30% over 10L. Deductions reduce taxable income,
// floored at zero.
func EstimateTax(income, deductions float64) (taxable, tax float64) {
	taxable = math.Max(0, income-deductions)
	switch {
	case taxable > 1000000:
		tax = 112500 + (taxable-1000000)*0.30
	case taxable > 500000:
		tax = 12500 + (taxable-500000)*0.20
	case taxable > 250000:
		tax = (taxable - 250000) * 0.05
	}
	return taxable, tax
}

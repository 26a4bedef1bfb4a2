package fincalc

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCompoundedLumpSumMatchesClosedForm(t *testing.T) {
	cases := []struct {
		principal float64
		rate      float64
		months    int
	}{
		{100000, 0.08 / 12, 120},
		{0, 0.01, 24},
		{5000, 0, 36},
		{250000, 0.12 / 12, 60},
	}
	for _, c := range cases {
		got := CompoundedLumpSum(c.principal, c.rate, c.months)
		want := c.principal * math.Pow(1+c.rate, float64(c.months))
		if !almostEqual(got, want, 1e-6) {
			t.Fatalf("CompoundedLumpSum(%v,%v,%d)=%v want %v", c.principal, c.rate, c.months, got, want)
		}
	}
}

func TestAnnuityZeroRateIsPlainSum(t *testing.T) {
	got := FutureValueOfAnnuity(5000, 0, 120)
	if got != 5000*120 {
		t.Fatalf("zero-rate annuity = %v, want %v", got, 5000*120)
	}
}

func TestEMIZeroRateIsStraightDivision(t *testing.T) {
	got := EqualMonthlyInstallment(120000, 0, 12)
	if got != 10000 {
		t.Fatalf("zero-rate EMI = %v, want 10000", got)
	}
}

func TestEMIStandardCheckValue(t *testing.T) {
	// 8,00,000 at 9%/yr over 5 years is the standard amortization check:
	// roughly 16,607/month.
	emi := EqualMonthlyInstallment(800000, MonthlyRate(9), 5*12)
	if !almostEqual(emi, 16607, 5) {
		t.Fatalf("EMI = %v, want ~16607", emi)
	}
}

func TestEMIRoundTripAmortizesToZero(t *testing.T) {
	p := 800000.0
	r := MonthlyRate(9)
	n := 60
	emi := EqualMonthlyInstallment(p, r, n)
	balance := p
	for i := 0; i < n; i++ {
		balance = balance*(1+r) - emi
	}
	if !almostEqual(balance, 0, 1e-4) {
		t.Fatalf("outstanding balance after %d installments = %v, want ~0", n, balance)
	}
}

func TestProjectionGrowthBeatsDeposits(t *testing.T) {
	// 1,00,000 lump at 8%/yr plus 5,000/month for 120 months must beat the
	// raw deposits (principal + 5000*120).
	p := ProjectRetirement(0, 100000, 5000, 8, 10)
	deposits := 100000 + 5000.0*120
	if p.ProjectedCorpus <= deposits {
		t.Fatalf("corpus %v did not exceed deposits %v", p.ProjectedCorpus, deposits)
	}
	if !almostEqual(p.TotalInvested, deposits, 1e-9) {
		t.Fatalf("invested = %v, want %v", p.TotalInvested, deposits)
	}
	if !almostEqual(p.WealthGained, p.ProjectedCorpus-deposits, 1e-6) {
		t.Fatalf("wealth gained inconsistent: %v", p.WealthGained)
	}
}

func TestProjectionShortfallAndExtraSIP(t *testing.T) {
	target := 10000000.0
	p := ProjectRetirement(target, 100000, 5000, 8, 10)
	if p.OnTrack {
		t.Fatalf("expected shortfall against a 1cr target")
	}
	if p.Shortfall <= 0 {
		t.Fatalf("shortfall = %v, want > 0", p.Shortfall)
	}
	// Adding the suggested extra SIP should close the gap.
	p2 := ProjectRetirement(target, 100000, 5000+p.ExtraMonthlyNeeded, 8, 10)
	if !p2.OnTrack && !almostEqual(p2.Shortfall, 0, 1) {
		t.Fatalf("extra SIP did not close the gap, residual shortfall %v", p2.Shortfall)
	}
}

func TestProjectionOnTrackHasNoExtra(t *testing.T) {
	p := ProjectRetirement(100, 100000, 5000, 8, 10)
	if !p.OnTrack || p.Shortfall != 0 || p.ExtraMonthlyNeeded != 0 {
		t.Fatalf("trivial target should be on track: %+v", p)
	}
}

func TestRequiredContributionZeroRate(t *testing.T) {
	got := RequiredMonthlyContribution(1200, 0, 12)
	if got != 100 {
		t.Fatalf("zero-rate required contribution = %v, want 100", got)
	}
}

func TestInflationImpact(t *testing.T) {
	got := InflationImpact(10000, 6)
	if !almostEqual(got, 600, 1e-9) {
		t.Fatalf("InflationImpact(10000,6) = %v, want 600", got)
	}
}

func TestEstimateTaxSlabs(t *testing.T) {
	cases := []struct {
		income, deductions, wantTaxable, wantTax float64
	}{
		{200000, 0, 200000, 0},
		{300000, 0, 300000, 2500},
		{600000, 0, 600000, 32500},
		{1200000, 0, 1200000, 172500},
		{600000, 150000, 450000, 10000},
		{100000, 200000, 0, 0},
	}
	for _, c := range cases {
		taxable, tax := EstimateTax(c.income, c.deductions)
		if !almostEqual(taxable, c.wantTaxable, 1e-9) || !almostEqual(tax, c.wantTax, 1e-9) {
			t.Fatalf("EstimateTax(%v,%v) = (%v,%v), want (%v,%v)",
				c.income, c.deductions, taxable, tax, c.wantTaxable, c.wantTax)
		}
	}
}

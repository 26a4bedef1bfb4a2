package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"ecosaarthi/pkg/fincalc"
	"ecosaarthi/pkg/providers"

	"github.com/gin-gonic/gin"
)

// profileSnapshot is the identity summary handed to the job-search UI and the
// advice prompts: catalog title plus default skill set, never the full user.
type profileSnapshot struct {
	CurrentRole string   `json:"currentRole"`
	Title       string   `json:"title"`
	Skills      []string `json:"skills"`
}

func snapshotForRole(name string) profileSnapshot {
	snap := profileSnapshot{CurrentRole: name, Title: name}
	if role, ok := lookupRole(name); ok {
		snap.Title = role.Title
		snap.Skills = role.SkillList()
	}
	return snap
}

// jobsHandler proxies a job search and pairs the listings with the caller's
// profile snapshot so the client can run its skill-gap analysis.
func jobsHandler(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	location := strings.TrimSpace(c.Query("location"))
	if query == "" || location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query and location are required"})
		return
	}
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	jobs, err := jobsClient.Search(c.Request.Context(), query, location)
	if err != nil {
		logger.Warnw("job search failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs. The external API may be down."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "userProfile": snapshotForRole(user.CurrentRole)})
}

// careerAnalysisHandler searches for the target job and asks the advice
// provider for a shift analysis. No listings at all is a 404; advice-provider
// trouble degrades to fallback text rather than an error.
func careerAnalysisHandler(c *gin.Context) {
	var req struct {
		DesiredJobTitle string `json:"desiredJobTitle" binding:"required"`
		Location        string `json:"location" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	jobs, err := jobsClient.Search(c.Request.Context(), req.DesiredJobTitle, req.Location)
	if err != nil {
		logger.Warnw("job search failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs. The external API may be down."})
		return
	}
	if len(jobs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No jobs found to analyze for this search."})
		return
	}
	advice := adviceClient.Generate(c.Request.Context(), careerPrompt(snapshotForRole(user.CurrentRole), jobs[0]))
	c.JSON(http.StatusOK, gin.H{"advice": advice})
}

func schemesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": schemes.Search(c.Query("query"))})
}

func economicDataHandler(c *gin.Context) {
	year, err := providers.YearOrDefault(c.Query("year"), time.Now().Year())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, err := econClient.Fetch(c.Request.Context(), year)
	if err != nil {
		logger.Warnw("economic data fetch failed", "year", year, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch primary economic data."})
		return
	}
	explanation := adviceClient.Generate(c.Request.Context(), economyPrompt(year, snap))
	c.JSON(http.StatusOK, gin.H{"data": snap, "explanation": explanation})
}

func financialAdviceHandler(c *gin.Context) {
	var req struct {
		SpendingData struct {
			Income       float64 `json:"income"`
			Transactions []struct {
				Description string  `json:"description"`
				Amount      float64 `json:"amount"`
				Category    string  `json:"category"`
			} `json:"transactions"`
		} `json:"spendingData" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "spendingData is required"})
		return
	}
	totals := map[string]float64{}
	var spent float64
	for _, t := range req.SpendingData.Transactions {
		totals[t.Category] += t.Amount
		spent += t.Amount
	}
	prompt := spendingPrompt(req.SpendingData.Income, spent, totals)
	c.JSON(http.StatusOK, gin.H{"advice": adviceClient.Generate(c.Request.Context(), prompt)})
}

func taxAdviceHandler(c *gin.Context) {
	var req struct {
		Profession string `json:"profession" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Profession is required."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"advice": adviceClient.Generate(c.Request.Context(), taxPrompt(req.Profession))})
}

func stockDataHandler(c *gin.Context) {
	var req struct {
		Symbol string `json:"symbol" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}
	quote, err := marketClient.QuoteEquity(c.Request.Context(), strings.ToUpper(req.Symbol))
	if err != nil {
		logger.Warnw("equity quote failed", "symbol", req.Symbol, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "market data unavailable"})
		return
	}
	c.JSON(http.StatusOK, quote)
}

func cryptoDataHandler(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	quote, err := marketClient.QuoteAsset(c.Request.Context(), strings.ToLower(req.ID))
	if err != nil {
		logger.Warnw("asset quote failed", "id", req.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "market data unavailable"})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// --- calculator endpoints ---

func retirementCalcHandler(c *gin.Context) {
	var req struct {
		TargetCorpus        float64 `json:"targetCorpus"`
		CurrentSavings      float64 `json:"currentSavings"`
		MonthlyContribution float64 `json:"monthlyContribution"`
		AnnualReturnPct     float64 `json:"annualReturnPct"`
		Years               int     `json:"years"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Years <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "years must be positive"})
		return
	}
	if req.CurrentSavings < 0 || req.MonthlyContribution < 0 || req.TargetCorpus < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amounts cannot be negative"})
		return
	}
	p := fincalc.ProjectRetirement(req.TargetCorpus, req.CurrentSavings,
		req.MonthlyContribution, req.AnnualReturnPct, req.Years)
	c.JSON(http.StatusOK, p)
}

func emiCalcHandler(c *gin.Context) {
	var req struct {
		Principal     float64 `json:"principal"`
		AnnualRatePct float64 `json:"annualRatePct"`
		Years         int     `json:"years"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Principal <= 0 || req.Years <= 0 || req.AnnualRatePct < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "principal and years must be positive"})
		return
	}
	n := req.Years * 12
	emi := fincalc.EqualMonthlyInstallment(req.Principal, fincalc.MonthlyRate(req.AnnualRatePct), n)
	// The UI also shows what a 1% rate rise would do.
	emiUp := fincalc.EqualMonthlyInstallment(req.Principal, fincalc.MonthlyRate(req.AnnualRatePct+1), n)
	c.JSON(http.StatusOK, gin.H{"emi": emi, "emiIfRateUpOnePct": emiUp})
}

func inflationCalcHandler(c *gin.Context) {
	var req struct {
		MonthlySpending float64 `json:"monthlySpending"`
		InflationPct    float64 `json:"inflationPct"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MonthlySpending <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "monthlySpending must be positive"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"extraCost": fincalc.InflationImpact(req.MonthlySpending, req.InflationPct)})
}

func taxCalcHandler(c *gin.Context) {
	var req struct {
		Income     float64 `json:"income"`
		Deductions float64 `json:"deductions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Income < 0 || req.Deductions < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amounts cannot be negative"})
		return
	}
	taxable, tax := fincalc.EstimateTax(req.Income, req.Deductions)
	c.JSON(http.StatusOK, gin.H{"taxableIncome": taxable, "estimatedTax": tax})
}

// --- advice prompts ---

func careerPrompt(profile profileSnapshot, job providers.JobListing) string {
	desc := job.Description
	if len(desc) > 1000 {
		desc = desc[:1000]
	}
	return fmt.Sprintf(`You are an expert career advisor named "EcoSaarthi AI".
A user with the current profile is considering a new job. Provide a short, encouraging, and insightful analysis for them in 3 short paragraphs.

**User's Current Profile ("From"):**
- Title: %s
- Current Skills: %s

**Target Job ("To"):**
- Title: %s
- Description: %s

**Your Analysis (Use markdown for bolding):**
1. **Profitability & Shift Analysis:** Briefly comment on the career shift. Is it a logical step up? Is this field generally considered profitable and in demand?
2. **Future Scope:** Based on the job title and description, what is the likely 5-year scope or career trajectory in this field?
3. **Salary & Final Advice:** Give a realistic estimated average salary range for this role in the job's location. Conclude with a single sentence of positive advice.`,
		profile.Title, strings.Join(profile.Skills, ", "), job.Title, desc)
}

func economyPrompt(year string, snap *providers.EconomicSnapshot) string {
	return fmt.Sprintf("Analyze India's economy for %s. Data: Inflation %s%%, GDP Growth %s%%. Explain the impact on the average person. Be concise.",
		year, snap.Inflation, snap.GDP)
}

func spendingPrompt(income, spent float64, byCategory map[string]float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are \"EcoSaarthi AI\", a friendly personal finance coach.\n")
	fmt.Fprintf(&b, "A user earns ₹%.0f per month and spent ₹%.0f this month, broken down by category:\n", income, spent)
	for cat, amt := range byCategory {
		fmt.Fprintf(&b, "- %s: ₹%.0f\n", cat, amt)
	}
	b.WriteString("Give 3-4 specific, actionable savings tips based on this breakdown. Use markdown for bolding category headers.")
	return b.String()
}

func taxPrompt(profession string) string {
	return fmt.Sprintf(`You are "EcoSaarthi AI," an expert tax advisor for freelancers in India.
A user with the profession %q has asked for help finding tax deductions.
List 4-5 common, often-missed tax deductions relevant to this profession.
For each deduction, provide a brief, one-sentence explanation.
Keep the tone helpful and professional. Use markdown for bolding category headers.`, profession)
}

// Package scoring computes a 0-100 fit score for construction leads from
// their qualification fields and contact coverage. The engine is pure and
// safe for concurrent use.
package scoring

import (
	"strings"

	"salescrm_backend/internal/leads/domain"
)

const (
	minScore = 0
	maxScore = 100

	// Complexity fit (0-40)
	publicWorksBonus      = 20
	certifiedPayrollBonus = 10
	unionBonus            = 10

	// Size/urgency (0-25)
	sweetSpotBonus    = 15
	growthSignalBonus = 10
	sweetSpotMin      = 30
	sweetSpotMax      = 300

	// Workflow pain (0-25)
	manualWorkflowBonus = 10
	multiJobsiteBonus   = 5
	payrollPainBonus    = 10

	// Reachability (0-10)
	primaryContactBonus = 10
	anyContactBonus     = 3
)

const (
	ReasonPublicWorks      = "Public works / prevailing wage likely"
	ReasonCertifiedPayroll = "Mentions certified payroll/prevailing wage"
	ReasonUnion            = "Union reporting likely"
	ReasonSweetSpot        = "30–300 employees sweet spot"
	ReasonGrowth           = "Growth signals (hiring/multi-location)"
	ReasonManualWorkflow   = "Manual time/payroll workflow"
	ReasonMultiJobsite     = "Multiple jobsites increases complexity"
	ReasonPayrollPain      = "Payroll corrections/rework pain"
	ReasonPrimaryContact   = "Primary contact with direct info"
	ReasonAnyContact       = "Contact exists, not primary/direct"
)

const (
	AnglePrevailingWage = "Prevailing wage + certified payroll automation"
	AngleUnion          = "Union reporting + compliance automation"
	AngleTimeTracking   = "Time tracking → payroll integration + fewer corrections"
)

var (
	certifiedPayrollKeywords = []string{"certified payroll", "prevailing wage", "union wage", "government contract"}
	growthKeywords           = []string{"hiring", "growing", "growing fast", "multiple locations", "expanding", "new site"}
	manualKeywords           = []string{"manual", "manually", "spreadsheet", "streadsheet", "excel", "paper", "paper timecard"}
	payrollPainKeywords      = []string{"payroll errors", "late payroll", "rework", "timesheet errors", "incorrect hours"}
)

// Signals describes the lead's contacts as far as reachability is concerned.
type Signals struct {
	PrimaryContactExists bool
	HasDirectContactInfo bool
	AnyContactExists     bool
}

// SignalsFromContacts derives Signals from a lead's contacts. Direct info is
// an email or phone on the primary contact.
func SignalsFromContacts(contacts []domain.Contact) Signals {
	signals := Signals{AnyContactExists: len(contacts) > 0}
	for _, c := range contacts {
		if !c.IsPrimary {
			continue
		}
		signals.PrimaryContactExists = true
		if c.HasDirectInfo() {
			signals.HasDirectContactInfo = true
		}
	}
	return signals
}

// Result holds scoring output.
type Result struct {
	Score   int
	Reasons []string
	Angle   string
}

// factor is one scoring category. Categories run in a fixed order so the
// reasons list is stable.
type factor func(lead domain.Lead, pain string, signals Signals) (int, []string)

var factors = []factor{
	complexityFit,
	sizeUrgency,
	workflowPain,
	reachability,
}

// Score evaluates lead against the rubric.
func Score(lead domain.Lead, signals Signals) Result {
	pain := painText(lead)

	total := 0
	reasons := make([]string, 0, 10)
	for _, f := range factors {
		points, why := f(lead, pain, signals)
		total += points
		reasons = append(reasons, why...)
	}

	return Result{
		Score:   clamp(total, minScore, maxScore),
		Reasons: reasons,
		Angle:   RecommendedAngle(lead),
	}
}

// RecommendedAngle picks the sales pitch for lead.
func RecommendedAngle(lead domain.Lead) string {
	pain := painText(lead)
	if lead.DoesPublicWorks.IsYes() || containsAny(pain, certifiedPayrollKeywords) {
		return AnglePrevailingWage
	}
	if lead.UnionLikely.IsYes() {
		return AngleUnion
	}
	return AngleTimeTracking
}

func complexityFit(lead domain.Lead, pain string, _ Signals) (int, []string) {
	score := 0
	var reasons []string
	if lead.DoesPublicWorks.IsYes() {
		score += publicWorksBonus
		reasons = append(reasons, ReasonPublicWorks)
	}
	if containsAny(pain, certifiedPayrollKeywords) {
		score += certifiedPayrollBonus
		reasons = append(reasons, ReasonCertifiedPayroll)
	}
	if lead.UnionLikely.IsYes() {
		score += unionBonus
		reasons = append(reasons, ReasonUnion)
	}
	return score, reasons
}

func sizeUrgency(lead domain.Lead, pain string, _ Signals) (int, []string) {
	score := 0
	var reasons []string
	if n := lead.EmployeeEstimate; n != nil && *n >= sweetSpotMin && *n <= sweetSpotMax {
		score += sweetSpotBonus
		reasons = append(reasons, ReasonSweetSpot)
	}
	if containsAny(pain, growthKeywords) {
		score += growthSignalBonus
		reasons = append(reasons, ReasonGrowth)
	}
	return score, reasons
}

func workflowPain(lead domain.Lead, pain string, _ Signals) (int, []string) {
	score := 0
	var reasons []string
	if containsAny(pain, manualKeywords) {
		score += manualWorkflowBonus
		reasons = append(reasons, ReasonManualWorkflow)
	}
	if lead.MultiJobsite.IsYes() {
		score += multiJobsiteBonus
		reasons = append(reasons, ReasonMultiJobsite)
	}
	if containsAny(pain, payrollPainKeywords) {
		score += payrollPainBonus
		reasons = append(reasons, ReasonPayrollPain)
	}
	return score, reasons
}

func reachability(_ domain.Lead, _ string, signals Signals) (int, []string) {
	switch {
	case signals.PrimaryContactExists && signals.HasDirectContactInfo:
		return primaryContactBonus, []string{ReasonPrimaryContact}
	case signals.PrimaryContactExists || signals.AnyContactExists:
		return anyContactBonus, []string{ReasonAnyContact}
	default:
		return 0, nil
	}
}

func painText(lead domain.Lead) string {
	if lead.PainSignals == nil {
		return ""
	}
	return strings.ToLower(*lead.PainSignals)
}

func containsAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

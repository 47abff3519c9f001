package services

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"solarhub-transferdesk/internal/adapters/persistence/models"
)

// Check severities
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityOK      = "ok"
)

// CheckResult is the outcome of one validation check
type CheckResult struct {
	Passed   bool   `json:"passed"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ValidationResult is the full outcome of a validation run
type ValidationResult struct {
	OverallScore int                    `json:"overall_score"`
	IsValid      bool                   `json:"is_valid"`
	Checks       map[string]CheckResult `json:"checks"`
	Issues       []string               `json:"issues"`
	Warnings     []string               `json:"warnings"`
}

// checkWeights is the scoring table. Checks can be added without touching the
// scoring algorithm: error-severity checks weigh 3, warning-severity 1.
var checkWeights = map[string]int{
	"required_fields":    3,
	"evidence_uploaded":  3,
	"proprietor_names":   3,
	"email_format":       3,
	"sale_date":          1,
	"phone_format":       1,
	"mobile_format":      1,
}

// checkSeverities maps each check to the severity its failure carries
var checkSeverities = map[string]string{
	"required_fields":   SeverityError,
	"evidence_uploaded": SeverityError,
	"proprietor_names":  SeverityError,
	"email_format":      SeverityError,
	"sale_date":         SeverityWarning,
	"phone_format":      SeverityWarning,
	"mobile_format":     SeverityWarning,
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)
)

// saleDateFutureSlack tolerates completion dates slightly ahead of today
// (conveyancing paperwork often lands before the recorded completion date)
const saleDateFutureSlack = 30 * 24 * time.Hour

// ValidationService runs the fixed check battery against a submission and
// produces a weighted compliance score. Re-running on unchanged input yields
// byte-identical results.
type ValidationService struct{}

// NewValidationService creates a new validation service
func NewValidationService() *ValidationService {
	return &ValidationService{}
}

// Run executes every check against the submitted transfer
func (s *ValidationService) Run(transfer *models.Transfer, site *models.Site) *ValidationResult {
	checks := map[string]CheckResult{
		"required_fields":   s.checkRequiredFields(transfer),
		"evidence_uploaded": s.checkEvidence(transfer),
		"proprietor_names":  s.checkProprietors(transfer),
		"email_format":      s.checkEmail(transfer),
		"sale_date":         s.checkSaleDate(transfer, site),
		"phone_format":      s.checkPhone("phone", transfer.Phone),
		"mobile_format":     s.checkPhone("mobile", transfer.Mobile),
	}

	result := &ValidationResult{
		Checks:   checks,
		IsValid:  true,
		Issues:   []string{},
		Warnings: []string{},
	}

	// Sorted iteration keeps issue ordering and scoring deterministic
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	totalWeight := 0
	passedWeight := 0
	for _, name := range names {
		check := checks[name]
		weight := checkWeights[name]
		totalWeight += weight
		if check.Passed {
			passedWeight += weight
			continue
		}
		switch check.Severity {
		case SeverityError:
			result.IsValid = false
			result.Issues = append(result.Issues, check.Message)
		case SeverityWarning:
			result.Warnings = append(result.Warnings, check.Message)
		}
	}

	if totalWeight > 0 {
		result.OverallScore = int(math.Round(100 * float64(passedWeight) / float64(totalWeight)))
	}

	return result
}

func (s *ValidationService) checkRequiredFields(t *models.Transfer) CheckResult {
	missing := []string{}
	if t.SaleCompletionDate == nil {
		missing = append(missing, "sale_completion_date")
	}
	if strings.TrimSpace(t.FormEmail) == "" {
		missing = append(missing, "form_email")
	}
	if strings.TrimSpace(t.PostalAddress) == "" {
		missing = append(missing, "postal_address")
	}
	if strings.TrimSpace(t.Phone) == "" && strings.TrimSpace(t.Mobile) == "" {
		missing = append(missing, "phone or mobile")
	}
	if len(missing) > 0 {
		return CheckResult{
			Passed:   false,
			Severity: checkSeverities["required_fields"],
			Message:  "missing required fields: " + strings.Join(missing, ", "),
		}
	}
	return CheckResult{Passed: true, Severity: SeverityOK, Message: "all required fields present"}
}

func (s *ValidationService) checkEvidence(t *models.Transfer) CheckResult {
	if !t.EvidenceUploaded {
		return CheckResult{
			Passed:   false,
			Severity: checkSeverities["evidence_uploaded"],
			Message:  "no evidence document has been uploaded",
		}
	}
	return CheckResult{Passed: true, Severity: SeverityOK, Message: "evidence document uploaded"}
}

func (s *ValidationService) checkProprietors(t *models.Transfer) CheckResult {
	if strings.TrimSpace(t.Proprietor1) == "" {
		return CheckResult{
			Passed:   false,
			Severity: checkSeverities["proprietor_names"],
			Message:  "at least one legal proprietor name is required",
		}
	}
	return CheckResult{Passed: true, Severity: SeverityOK, Message: "proprietor names provided"}
}

func (s *ValidationService) checkEmail(t *models.Transfer) CheckResult {
	email := strings.TrimSpace(t.FormEmail)
	if email == "" || !emailPattern.MatchString(email) {
		return CheckResult{
			Passed:   false,
			Severity: checkSeverities["email_format"],
			Message:  "contact email is missing or malformed",
		}
	}
	return CheckResult{Passed: true, Severity: SeverityOK, Message: "contact email looks valid"}
}

func (s *ValidationService) checkSaleDate(t *models.Transfer, site *models.Site) CheckResult {
	if t.SaleCompletionDate == nil {
		return CheckResult{
			Passed:   false,
			Severity: checkSeverities["sale_date"],
			Message:  "sale completion date not provided",
		}
	}
	date := *t.SaleCompletionDate
	if time.Until(date) > saleDateFutureSlack {
		return CheckResult{
			Passed:   false,
			Severity: checkSeverities["sale_date"],
			Message:  "sale completion date is too far in the future",
		}
	}
	if site != nil && !site.InstallDate.IsZero() && date.Before(site.InstallDate) {
		return CheckResult{
			Passed:   false,
			Severity: checkSeverities["sale_date"],
			Message:  fmt.Sprintf("sale completion date predates the site install date (%s)", site.InstallDate.Format("2006-01-02")),
		}
	}
	return CheckResult{Passed: true, Severity: SeverityOK, Message: "sale completion date is plausible"}
}

func (s *ValidationService) checkPhone(field, value string) CheckResult {
	value = strings.TrimSpace(value)
	if value == "" {
		// optional on its own; required_fields covers the both-empty case
		return CheckResult{Passed: true, Severity: SeverityOK, Message: field + " not provided"}
	}
	if !phonePattern.MatchString(value) {
		return CheckResult{
			Passed:   false,
			Severity: checkSeverities[field+"_format"],
			Message:  field + " number format looks invalid",
		}
	}
	return CheckResult{Passed: true, Severity: SeverityOK, Message: field + " number format looks valid"}
}

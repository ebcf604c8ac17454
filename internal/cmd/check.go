package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docflow-ai/docflow-go/internal/database"
	"github.com/docflow-ai/docflow-go/internal/output"
)

// Check statuses.
const (
	CheckPass = "pass"
	CheckWarn = "warn"
	CheckFail = "fail"
)

// CheckResult is the outcome of one seed check.
type CheckResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthResult is the outcome of all seed checks.
type HealthResult struct {
	Status   string        `json:"status"`
	Checks   []CheckResult `json:"checks"`
	Errors   []string      `json:"errors"`
	Warnings []string      `json:"warnings"`
}

func newCheckCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "check",
		Aliases: []string{"health"},
		Short:   "Check the seed data for CI/CD pipelines",
		Long: `Check the configured seed data before it is loaded into the portal.

Exit codes:
  0  All checks passed
  1  Warnings present (non-blocking issues)
  2  Errors present (blocking issues)

Use --json for machine-readable output in CI/CD pipelines.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var checks []CheckResult
			seed, err := a.loadSeed()
			if err != nil {
				checks = []CheckResult{{Name: "seed", Status: CheckFail, Message: err.Error()}}
			} else {
				source := "built-in sample data"
				if path := a.cfg.SeedPath(a.baseDir); path != "" {
					source = path
				}
				checks = append([]CheckResult{{Name: "seed", Status: CheckPass, Message: "loaded " + source}}, checkSeed(seed)...)
			}

			result := summarize(checks)
			if jsonOut {
				if err := printJSON(cmd, result); err != nil {
					return err
				}
			} else {
				printHealth(cmd, result)
			}

			switch result.Status {
			case CheckFail:
				return NewExitError(ExitBlocked, fmt.Sprintf("%d check(s) failed", len(result.Errors)))
			case CheckWarn:
				return NewExitError(ExitFailure, fmt.Sprintf("%d warning(s)", len(result.Warnings)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

// checkSeed runs every data check on seed.
func checkSeed(seed *database.Seed) []CheckResult {
	return []CheckResult{
		checkUnique("sponsor ids", seed.Sponsors, func(s database.Sponsor) int { return s.ID }),
		checkUnique("requirement ids", seed.Requirements, func(r database.Requirement) string { return r.ID }),
		checkEnums(seed),
		checkRates(seed),
		checkDocuments(seed.Requirements),
		checkDueDates(seed.Requirements),
		checkAssignments(seed.Requirements),
		checkReview(seed.Review),
	}
}

func checkUnique[K comparable, T any](name string, records []T, key func(T) K) CheckResult {
	if _, err := database.NewStore(key, records...); err != nil {
		return CheckResult{Name: name, Status: CheckFail, Message: err.Error()}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: fmt.Sprintf("%d unique", len(records))}
}

func checkEnums(seed *database.Seed) CheckResult {
	var errs []error
	for _, s := range seed.Sponsors {
		if _, err := database.ParseSponsorStatus(string(s.Status)); err != nil {
			errs = append(errs, fmt.Errorf("sponsor %d: %w", s.ID, err))
		}
	}
	for _, r := range seed.Requirements {
		if _, err := database.ParseRequirementStatus(string(r.Status)); err != nil {
			errs = append(errs, fmt.Errorf("requirement %s: %w", r.ID, err))
		}
		if _, err := database.ParsePriority(string(r.Priority)); err != nil {
			errs = append(errs, fmt.Errorf("requirement %s: %w", r.ID, err))
		}
	}
	if len(errs) > 0 {
		return CheckResult{Name: "statuses", Status: CheckFail, Message: errors.Join(errs...).Error()}
	}
	return CheckResult{Name: "statuses", Status: CheckPass, Message: "all statuses and priorities known"}
}

func checkRates(seed *database.Seed) CheckResult {
	bad := 0
	for _, s := range seed.Sponsors {
		if s.CompletionRate < 0 || s.CompletionRate > 100 {
			bad++
		}
	}
	for _, r := range seed.Requirements {
		if r.CompletionRate < 0 || r.CompletionRate > 100 {
			bad++
		}
	}
	if bad > 0 {
		return CheckResult{Name: "completion rates", Status: CheckFail, Message: fmt.Sprintf("%d rate(s) outside 0-100", bad)}
	}
	return CheckResult{Name: "completion rates", Status: CheckPass, Message: "all within 0-100"}
}

func checkDocuments(reqs []database.Requirement) CheckResult {
	var over []string
	for _, r := range reqs {
		if r.TotalDocuments < 0 || r.SubmittedDocuments < 0 {
			return CheckResult{Name: "documents", Status: CheckFail, Message: "requirement " + r.ID + " has a negative document count"}
		}
		if r.SubmittedDocuments > r.TotalDocuments {
			over = append(over, r.ID)
		}
	}
	if len(over) > 0 {
		return CheckResult{Name: "documents", Status: CheckWarn, Message: fmt.Sprintf("more submitted than required: %v", over)}
	}
	return CheckResult{Name: "documents", Status: CheckPass, Message: "submitted counts within totals"}
}

func checkDueDates(reqs []database.Requirement) CheckResult {
	var bad []string
	for _, r := range reqs {
		if _, err := database.ParseDate(r.DueDate); err != nil {
			bad = append(bad, r.ID)
		}
	}
	if len(bad) > 0 {
		return CheckResult{Name: "due dates", Status: CheckWarn, Message: fmt.Sprintf("unparseable due dates sort last: %v", bad)}
	}
	return CheckResult{Name: "due dates", Status: CheckPass, Message: "all due dates parse"}
}

func checkAssignments(reqs []database.Requirement) CheckResult {
	var none []string
	for _, r := range reqs {
		if len(r.AssignedSponsors) == 0 {
			none = append(none, r.ID)
		}
	}
	if len(none) > 0 {
		return CheckResult{Name: "assignments", Status: CheckWarn, Message: fmt.Sprintf("no sponsors assigned: %v", none)}
	}
	return CheckResult{Name: "assignments", Status: CheckPass, Message: "every requirement has a sponsor"}
}

func checkReview(r *database.Review) CheckResult {
	if r == nil {
		return CheckResult{Name: "review", Status: CheckWarn, Message: "no document under review"}
	}
	if len(r.Versions) == 0 {
		return CheckResult{Name: "review", Status: CheckWarn, Message: "document has no versions"}
	}
	if _, err := database.NewStore(func(v database.Version) string { return v.ID }, r.Versions...); err != nil {
		return CheckResult{Name: "review", Status: CheckFail, Message: "versions: " + err.Error()}
	}
	return CheckResult{Name: "review", Status: CheckPass, Message: fmt.Sprintf("%s with %d version(s)", r.Document.ID, len(r.Versions))}
}

func summarize(checks []CheckResult) HealthResult {
	result := HealthResult{Status: CheckPass, Checks: checks, Errors: []string{}, Warnings: []string{}}
	for _, c := range checks {
		switch c.Status {
		case CheckFail:
			result.Errors = append(result.Errors, c.Name+": "+c.Message)
			result.Status = CheckFail
		case CheckWarn:
			result.Warnings = append(result.Warnings, c.Name+": "+c.Message)
			if result.Status == CheckPass {
				result.Status = CheckWarn
			}
		}
	}
	return result
}

func printHealth(cmd *cobra.Command, result HealthResult) {
	width := 80
	cmd.Println(output.Header("Seed Health Check", width))
	cmd.Println()
	for _, c := range result.Checks {
		var tag string
		switch c.Status {
		case CheckPass:
			tag = output.Color("[PASS]", output.Green)
		case CheckWarn:
			tag = output.Color("[WARN]", output.Yellow)
		default:
			tag = output.Color("[FAIL]", output.Red)
		}
		cmd.Printf("  %s %s: %s\n", tag, c.Name, c.Message)
	}
	cmd.Println()

	switch result.Status {
	case CheckFail:
		cmd.Printf("Status: %s\n", output.Color("UNHEALTHY", output.Red))
	case CheckWarn:
		cmd.Printf("Status: %s\n", output.Color("HEALTHY (with warnings)", output.Yellow))
	default:
		cmd.Printf("Status: %s\n", output.Color("HEALTHY", output.Green))
	}
}

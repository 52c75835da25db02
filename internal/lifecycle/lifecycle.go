// Package lifecycle holds the pure derivation rules that map a
// verification outcome to an asset's compliance posture and to the
// cascading changes on that asset's open tasks. Everything here is a
// pure function; the store and engine decide when to apply the result.
package lifecycle

import (
	"strings"
	"time"

	"assetline/internal/domain"
)

// DefaultIntervalDays is the compliance window a passed verification
// opens before the next one is due.
const DefaultIntervalDays = 180

const dateLayout = "2006-01-02"

// Derivation is the computed posture for an asset after a
// verification outcome.
type Derivation struct {
	Status       domain.AssetStatus
	LastVerified string
	NextDue      string
}

// Derive computes the asset's next status, last-verified date and
// next-due date for a verification record. A failed check keeps the
// last good evidence date and the existing due date; only a pass
// advances the evidence clock and resets the compliance window.
func Derive(asset domain.Asset, rec domain.VerificationRecord, intervalDays int) Derivation {
	if intervalDays <= 0 {
		intervalDays = DefaultIntervalDays
	}
	switch rec.Outcome {
	case domain.OutcomeFailed:
		return Derivation{
			Status:       domain.AssetFlagged,
			LastVerified: asset.LastVerified,
			NextDue:      asset.NextDue,
		}
	case domain.OutcomeInProgress:
		return Derivation{
			Status:       domain.AssetPending,
			LastVerified: asset.LastVerified,
			NextDue:      asset.NextDue,
		}
	default:
		return Derivation{
			Status:       domain.AssetVerified,
			LastVerified: rec.Date,
			NextDue:      AddDays(rec.Date, intervalDays),
		}
	}
}

// TaskChange is one task status mutation the caller must apply.
type TaskChange struct {
	TaskID string
	Status domain.TaskStatus
}

// CascadePlan determines the task-status changes a verification
// outcome triggers for an asset. Tasks must be given oldest first.
// A pass closes exactly the oldest open task (one verification event
// resolves one pending cycle); a failure escalates every open task,
// since failed evidence invalidates confidence in all pending
// remediations for the asset. In-progress triggers nothing.
func CascadePlan(tasks []domain.VerificationTask, assetID string, outcome domain.VerificationOutcome) []TaskChange {
	var open []domain.VerificationTask
	for _, t := range tasks {
		if t.AssetID == assetID && t.Status != domain.TaskCompleted {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return nil
	}
	switch outcome {
	case domain.OutcomePassed:
		return []TaskChange{{TaskID: open[0].ID, Status: domain.TaskCompleted}}
	case domain.OutcomeFailed:
		changes := make([]TaskChange, 0, len(open))
		for _, t := range open {
			changes = append(changes, TaskChange{TaskID: t.ID, Status: domain.TaskOverdue})
		}
		return changes
	default:
		return nil
	}
}

// ParseIssues splits a comma-separated issue string, trimming each
// fragment and dropping empty ones.
func ParseIssues(raw string) []string {
	var issues []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			issues = append(issues, trimmed)
		}
	}
	return issues
}

// ActivitySeverity is the documented convention for activity entries
// logged alongside a verification outcome.
func ActivitySeverity(outcome domain.VerificationOutcome) domain.Severity {
	switch outcome {
	case domain.OutcomeFailed:
		return domain.SeverityCritical
	case domain.OutcomeInProgress:
		return domain.SeverityWarning
	default:
		return domain.SeverityInfo
	}
}

// AddDays shifts a calendar date (YYYY-MM-DD) by n days. An
// unparseable input is returned unchanged.
func AddDays(date string, n int) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(dateLayout)
}

// Package scope derives the display status of a project's revision allowance.
package scope

// Status is the derived scope state of a project.
type Status string

const (
	WithinScope      Status = "Within Scope"
	LastFreeRevision Status = "Last Free Revision"
	OutOfScope       Status = "Out of Scope"
)

// Of returns the status for count revisions recorded against limit. It is total:
// a limit of zero or less is already out of scope.
func Of(count, limit int) Status {
	switch {
	case limit <= 0, count >= limit:
		return OutOfScope
	case count == limit-1:
		return LastFreeRevision
	default:
		return WithinScope
	}
}

// Remaining returns how many revisions may still be recorded, never negative.
func Remaining(count, limit int) int {
	if limit <= 0 || count >= limit {
		return 0
	}
	return limit - count
}

// Summary bundles a count with its limit and derived status for responses.
type Summary struct {
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Status    Status `json:"status"`
}

// Summarize builds a Summary for count and limit.
func Summarize(count, limit int) Summary {
	return Summary{
		Used:      count,
		Limit:     limit,
		Remaining: Remaining(count, limit),
		Status:    Of(count, limit),
	}
}

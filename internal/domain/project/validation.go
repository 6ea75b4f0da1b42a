package project

import (
	"fmt"
	"math"
	"strings"
)

// MaxExtraRevisionCost bounds the overage price so its cent value fits in int64
// with room to spare.
const MaxExtraRevisionCost = 1_000_000_000

// ValidateCreateInput validates fields required to create a project.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.RevisionLimit < 1 {
		return fmt.Errorf("%w: revision_limit must be at least 1", ErrInvalidInput)
	}
	if math.IsNaN(req.ExtraRevisionCost) || math.IsInf(req.ExtraRevisionCost, 0) || req.ExtraRevisionCost < 0 {
		return fmt.Errorf("%w: extra_revision_cost must be zero or more", ErrInvalidInput)
	}
	if req.ExtraRevisionCost > MaxExtraRevisionCost {
		return fmt.Errorf("%w: extra_revision_cost must not exceed %d", ErrInvalidInput, MaxExtraRevisionCost)
	}
	return nil
}

// ToCents converts a decimal amount to whole cents, rounding half away from zero.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

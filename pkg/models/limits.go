package models

import "fmt"

// PlanTier identifies a subscription plan.
type PlanTier string

const (
	PlanStarter      PlanTier = "starter"
	PlanProfessional PlanTier = "professional"
	PlanEnterprise   PlanTier = "enterprise"
)

// ParsePlanTier validates a string as a PlanTier.
func ParsePlanTier(s string) (PlanTier, error) {
	switch PlanTier(s) {
	case PlanStarter, PlanProfessional, PlanEnterprise:
		return PlanTier(s), nil
	}
	return "", fmt.Errorf("unknown plan tier: %q", s)
}

// APITypeLimit holds the daily and monthly ceiling for one API type.
type APITypeLimit struct {
	Daily   int64 `json:"daily" yaml:"daily"`
	Monthly int64 `json:"monthly" yaml:"monthly"`
}

// PlanLimits maps each API type to its ceilings for one plan tier.
type PlanLimits map[APIType]APITypeLimit

// WarningLevel classifies how close current usage is to a limit.
type WarningLevel string

const (
	WarningNone        WarningLevel = "none"
	WarningApproaching WarningLevel = "approaching"
	WarningNearLimit   WarningLevel = "near_limit"
	WarningAtLimit     WarningLevel = "at_limit"
)

// LimitStatus is the result of a soft-limit check. Allowed is always true:
// the platform tracks and warns but never blocks a call.
type LimitStatus struct {
	Allowed      bool         `json:"allowed"`
	CurrentUsage int64        `json:"current_usage"`
	Limit        int64        `json:"limit"`
	Percentage   float64      `json:"percentage"`
	Remaining    int64        `json:"remaining"`
	Warning      WarningLevel `json:"warning"`
}

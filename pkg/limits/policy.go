// Package limits evaluates per-plan usage quotas. Limits are soft: the
// policy reports warning bands but never blocks a call — enforcement, if
// ever wanted, is a decision for the call site.
package limits

import (
	"context"
	"fmt"

	"github.com/turismoguilherme/descubra-ms-sub014/pkg/models"
	"github.com/turismoguilherme/descubra-ms-sub014/pkg/tracker"
)

// Warning band boundaries, as percentages of the daily limit.
const (
	approachingPct = 80
	nearLimitPct   = 95
)

// Policy checks usage against the plan quota table.
type Policy struct {
	plans   map[models.PlanTier]models.PlanLimits
	tracker tracker.Tracker
}

// New creates a Policy with the given plan table and tracker. A nil plans
// map falls back to DefaultPlans.
func New(plans map[models.PlanTier]models.PlanLimits, t tracker.Tracker) *Policy {
	if plans == nil {
		plans = DefaultPlans()
	}
	return &Policy{plans: plans, tracker: t}
}

// CheckLimit evaluates today's usage of one API type against the daily
// ceiling for the user's plan. The result's Allowed field is always true.
func (p *Policy) CheckLimit(ctx context.Context, userID string, tier models.PlanTier, apiType models.APIType) (models.LimitStatus, error) {
	limit, err := p.dailyLimit(tier, apiType)
	if err != nil {
		return models.LimitStatus{}, err
	}

	usage, err := p.tracker.Today(ctx, userID)
	if err != nil {
		return models.LimitStatus{}, fmt.Errorf("limit check: %w", err)
	}

	return evaluate(usage.CountFor(apiType), limit), nil
}

// MonthlyStatus evaluates the month's usage of every API type against the
// monthly ceilings for the user's plan.
func (p *Policy) MonthlyStatus(ctx context.Context, userID string, tier models.PlanTier) (map[models.APIType]models.LimitStatus, error) {
	plan, ok := p.plans[tier]
	if !ok {
		return nil, fmt.Errorf("unknown plan tier: %q", tier)
	}

	usage, err := p.tracker.MonthlyStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("monthly status: %w", err)
	}

	statuses := make(map[models.APIType]models.LimitStatus, len(plan))
	for _, t := range models.AllAPITypes() {
		statuses[t] = evaluate(usage.CountFor(t), plan[t].Monthly)
	}
	return statuses, nil
}

func (p *Policy) dailyLimit(tier models.PlanTier, apiType models.APIType) (int64, error) {
	plan, ok := p.plans[tier]
	if !ok {
		return 0, fmt.Errorf("unknown plan tier: %q", tier)
	}
	limit, ok := plan[apiType]
	if !ok {
		return 0, fmt.Errorf("%w: %q", models.ErrUnknownAPIType, apiType)
	}
	return limit.Daily, nil
}

// evaluate maps current usage against a ceiling to a LimitStatus.
func evaluate(used, limit int64) models.LimitStatus {
	status := models.LimitStatus{
		Allowed:      true,
		CurrentUsage: used,
		Limit:        limit,
		Warning:      models.WarningNone,
	}
	if limit <= 0 {
		return status
	}

	status.Percentage = float64(used) / float64(limit) * 100
	status.Remaining = limit - used
	if status.Remaining < 0 {
		status.Remaining = 0
	}

	switch {
	case status.Percentage >= 100:
		status.Warning = models.WarningAtLimit
	case status.Percentage >= nearLimitPct:
		status.Warning = models.WarningNearLimit
	case status.Percentage >= approachingPct:
		status.Warning = models.WarningApproaching
	}
	return status
}

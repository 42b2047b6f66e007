package feature

import (
	"context"

	"travelops/internal/model"
	"travelops/internal/tenant"
)

// Denial reasons. Denials are expected, frequent outcomes; they carry a
// machine-readable reason and the feature key so callers can render an
// upgrade prompt.
const (
	ReasonNoTenant  = "no tenant context"
	ReasonNoPlan    = "no active plan"
	ReasonNotInPlan = "feature not in plan"
)

// Decision is the outcome of a gate check. For allowed limited features,
// Limit nil means unlimited while a present zero means a cap of zero; the two
// are distinct states and must stay that way. Quota accounting against the
// limit is the caller's job; the gate only certifies the capability.
type Decision struct {
	Allowed    bool   `json:"allowed"`
	FeatureKey string `json:"feature_key"`
	Reason     string `json:"reason,omitempty"`
	HasLimit   bool   `json:"has_limit,omitempty"`
	Limit      *int64 `json:"limit,omitempty"`
}

// PlanStore looks up subscription plans and their feature bindings.
// Implementations return (nil, nil) when nothing matches.
type PlanStore interface {
	FindPlan(ctx context.Context, id uint) (*model.SubscriptionPlan, error)
	FindPlanFeature(ctx context.Context, planID uint, key string) (*model.SubscriptionPlanFeature, error)
}

// Gate decides whether a company's subscription plan permits a capability.
// It is a pure decision function over loaded plan data; re-evaluated per
// request with no caching.
type Gate struct {
	plans PlanStore
}

// NewGate creates a feature gate over the given plan store.
func NewGate(plans PlanStore) *Gate {
	return &Gate{plans: plans}
}

// Check evaluates the feature key against the request's resolved tenant.
// Super admins bypass plan checks entirely. Every ambiguous case denies.
func (g *Gate) Check(ctx context.Context, rc tenant.RequestContext, key string) (Decision, error) {
	if rc.Principal != nil && rc.Principal.IsSuperAdmin {
		return Decision{Allowed: true, FeatureKey: key}, nil
	}

	if rc.Company == nil {
		return Decision{FeatureKey: key, Reason: ReasonNoTenant}, nil
	}

	if rc.Company.SubscriptionPlanID == nil {
		return Decision{FeatureKey: key, Reason: ReasonNoPlan}, nil
	}

	plan, err := g.plans.FindPlan(ctx, *rc.Company.SubscriptionPlanID)
	if err != nil {
		return Decision{}, err
	}
	if plan == nil || !plan.IsActive {
		return Decision{FeatureKey: key, Reason: ReasonNoPlan}, nil
	}

	binding, err := g.plans.FindPlanFeature(ctx, plan.ID, key)
	if err != nil {
		return Decision{}, err
	}
	if binding == nil || !binding.IsEnabled {
		return Decision{FeatureKey: key, Reason: ReasonNotInPlan}, nil
	}

	d := Decision{Allowed: true, FeatureKey: key}
	if def, ok := Lookup(key); ok && def.HasLimit {
		d.HasLimit = true
		d.Limit = binding.LimitValue
	}
	return d, nil
}

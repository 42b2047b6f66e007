package feature

import (
	"context"
	"fmt"
	"testing"

	"travelops/internal/model"
	"travelops/internal/tenant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlanStore struct {
	plans    map[uint]*model.SubscriptionPlan
	bindings map[string]*model.SubscriptionPlanFeature // planID:key
}

func (s *fakePlanStore) FindPlan(_ context.Context, id uint) (*model.SubscriptionPlan, error) {
	return s.plans[id], nil
}

func (s *fakePlanStore) FindPlanFeature(_ context.Context, planID uint, key string) (*model.SubscriptionPlanFeature, error) {
	return s.bindings[bindingKey(planID, key)], nil
}

func bindingKey(planID uint, key string) string {
	return fmt.Sprintf("%d:%s", planID, key)
}

func newFakePlanStore() *fakePlanStore {
	return &fakePlanStore{
		plans:    map[uint]*model.SubscriptionPlan{},
		bindings: map[string]*model.SubscriptionPlanFeature{},
	}
}

func (s *fakePlanStore) addPlan(id uint, active bool) {
	s.plans[id] = &model.SubscriptionPlan{ID: id, Name: "Plan", IsActive: active}
}

func (s *fakePlanStore) bind(planID uint, key string, enabled bool, limit *int64) {
	s.bindings[bindingKey(planID, key)] = &model.SubscriptionPlanFeature{
		SubscriptionPlanID: planID,
		FeatureKey:         key,
		IsEnabled:          enabled,
		LimitValue:         limit,
	}
}

func companyOnPlan(planID uint) *model.Company {
	id := planID
	return &model.Company{ID: 1, Status: model.CompanyStatusActive, SubscriptionPlanID: &id}
}

func int64p(v int64) *int64 { return &v }

func TestCheck_SuperAdminBypassesPlan(t *testing.T) {
	g := NewGate(newFakePlanStore())
	rc := tenant.RequestContext{Principal: &model.Principal{UserID: 1, IsSuperAdmin: true}}

	d, err := g.Check(context.Background(), rc, "whatsapp")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Reason)
}

func TestCheck_NoTenantDenies(t *testing.T) {
	g := NewGate(newFakePlanStore())
	rc := tenant.RequestContext{Principal: &model.Principal{UserID: 2}}

	d, err := g.Check(context.Background(), rc, "leads_management")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNoTenant, d.Reason)
}

func TestCheck_NoPlanDenies(t *testing.T) {
	g := NewGate(newFakePlanStore())
	rc := tenant.RequestContext{
		Company:   &model.Company{ID: 1, Status: model.CompanyStatusActive},
		Principal: &model.Principal{UserID: 2},
	}

	d, err := g.Check(context.Background(), rc, "leads_management")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNoPlan, d.Reason)
}

func TestCheck_InactivePlanDenies(t *testing.T) {
	store := newFakePlanStore()
	store.addPlan(3, false)
	store.bind(3, "leads_management", true, nil)
	g := NewGate(store)

	d, err := g.Check(context.Background(), tenant.RequestContext{Company: companyOnPlan(3)}, "leads_management")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNoPlan, d.Reason)
}

func TestCheck_MissingBindingDenies(t *testing.T) {
	store := newFakePlanStore()
	store.addPlan(3, true)
	g := NewGate(store)

	d, err := g.Check(context.Background(), tenant.RequestContext{Company: companyOnPlan(3)}, "whatsapp")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotInPlan, d.Reason)
	assert.Equal(t, "whatsapp", d.FeatureKey)
}

func TestCheck_DisabledBindingDenies(t *testing.T) {
	store := newFakePlanStore()
	store.addPlan(3, true)
	store.bind(3, "whatsapp", false, nil)
	g := NewGate(store)

	d, err := g.Check(context.Background(), tenant.RequestContext{Company: companyOnPlan(3)}, "whatsapp")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotInPlan, d.Reason)
}

func TestCheck_EnabledBindingAllows(t *testing.T) {
	store := newFakePlanStore()
	store.addPlan(3, true)
	store.bind(3, "leads_management", true, nil)
	g := NewGate(store)

	d, err := g.Check(context.Background(), tenant.RequestContext{Company: companyOnPlan(3)}, "leads_management")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.False(t, d.HasLimit)
}

func TestCheck_NilLimitMeansUnlimited(t *testing.T) {
	store := newFakePlanStore()
	store.addPlan(3, true)
	store.bind(3, "whatsapp", true, nil)
	g := NewGate(store)

	d, err := g.Check(context.Background(), tenant.RequestContext{Company: companyOnPlan(3)}, "whatsapp")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.True(t, d.HasLimit)
	assert.Nil(t, d.Limit)
}

func TestCheck_ZeroLimitIsNotUnlimited(t *testing.T) {
	store := newFakePlanStore()
	store.addPlan(3, true)
	store.bind(3, "whatsapp", true, int64p(0))
	g := NewGate(store)

	d, err := g.Check(context.Background(), tenant.RequestContext{Company: companyOnPlan(3)}, "whatsapp")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.True(t, d.HasLimit)
	require.NotNil(t, d.Limit)
	assert.Equal(t, int64(0), *d.Limit)
}

func TestCheck_PositiveLimitCarried(t *testing.T) {
	store := newFakePlanStore()
	store.addPlan(3, true)
	store.bind(3, "campaigns", true, int64p(500))
	g := NewGate(store)

	d, err := g.Check(context.Background(), tenant.RequestContext{Company: companyOnPlan(3)}, "campaigns")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	require.NotNil(t, d.Limit)
	assert.Equal(t, int64(500), *d.Limit)
}

func TestLookup(t *testing.T) {
	def, ok := Lookup("whatsapp")
	require.True(t, ok)
	assert.True(t, def.HasLimit)

	_, ok = Lookup("no_such_feature")
	assert.False(t, ok)
}

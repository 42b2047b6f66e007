package scope

import (
	"context"
	"errors"

	"travelops/internal/model"
	"travelops/internal/tenant"

	"gorm.io/gorm"
)

var (
	// ErrAmbiguousOwnership is returned when a non-super-admin tries to write
	// a record carrying a company_id other than the resolved tenant's. The
	// write is rejected rather than silently re-stamped, so client bugs stay
	// visible.
	ErrAmbiguousOwnership = errors.New("record company does not match resolved tenant")

	// ErrNoTenantContext is returned when a write is attempted with no
	// resolved tenant and a non-super-admin principal.
	ErrNoTenantContext = errors.New("no tenant context")
)

// Scoping describes how an entity kind is isolated.
type Scoping int

const (
	// TenantScoped entities are filtered by company_id only.
	TenantScoped Scoping = iota + 1
	// HierarchyScoped entities are additionally filtered by the viewer's
	// position in the reporting hierarchy.
	HierarchyScoped
)

// PredicateKind enumerates the shapes a visibility predicate can take.
type PredicateKind int

const (
	// PredicateNone matches nothing. The fail-closed default for every
	// ambiguous case.
	PredicateNone PredicateKind = iota
	// PredicateUnrestricted matches everything, across companies.
	PredicateUnrestricted
	// PredicateCompany matches all rows of one company.
	PredicateCompany
	// PredicateOwners matches company rows assigned to a set of users.
	PredicateOwners
	// PredicateOwnerOrCreator matches company rows assigned to or created by
	// one user.
	PredicateOwnerOrCreator
)

// Predicate is the visibility constraint the data layer applies before
// executing any read against a scoped entity.
type Predicate struct {
	Kind      PredicateKind
	CompanyID uint
	OwnerIDs  []uint
	UserID    uint
}

// Apply attaches the predicate to a gorm query. Every call site touching a
// scoped table goes through here deliberately; there is no implicit
// model-level scope to forget to inherit.
func (p Predicate) Apply(db *gorm.DB) *gorm.DB {
	switch p.Kind {
	case PredicateUnrestricted:
		return db
	case PredicateCompany:
		return db.Where("company_id = ?", p.CompanyID)
	case PredicateOwners:
		return db.Where("company_id = ?", p.CompanyID).Where("assigned_to IN ?", p.OwnerIDs)
	case PredicateOwnerOrCreator:
		return db.Where("company_id = ?", p.CompanyID).
			Where("assigned_to = ? OR created_by = ?", p.UserID, p.UserID)
	default:
		return db.Where("1 = 0")
	}
}

// TenantRecord is any persistable record carrying a company_id.
type TenantRecord interface {
	GetCompanyID() uint
	SetCompanyID(uint)
}

// Enforcer builds visibility predicates and stamps ownership on writes.
type Enforcer struct {
	dir Directory
}

// NewEnforcer creates an enforcer backed by the given user directory.
func NewEnforcer(dir Directory) *Enforcer {
	return &Enforcer{dir: dir}
}

// BuildPredicate returns the visibility predicate for one entity kind under
// the given request context. It always returns a usable predicate; every
// ambiguous case resolves to PredicateNone, never to unrestricted.
//
// Tier precedence is fixed: super admin, then company admin, then manager,
// then the subordinate hierarchy. The first matching tier wins.
func (e *Enforcer) BuildPredicate(ctx context.Context, scoping Scoping, rc tenant.RequestContext) (Predicate, error) {
	p := rc.Principal
	if p == nil {
		return Predicate{Kind: PredicateNone}, nil
	}

	if p.IsSuperAdmin {
		return Predicate{Kind: PredicateUnrestricted}, nil
	}

	if rc.Company == nil {
		// An unresolved tenant must never default to "show everything".
		return Predicate{Kind: PredicateNone}, nil
	}

	if !principalBelongsTo(p, rc.Company.ID) {
		// A non-super-admin's effective tenant is always their own company.
		// Reaching the service under another company's subdomain or domain
		// must not attribute that company's context to them.
		return Predicate{Kind: PredicateNone}, nil
	}

	companyID := rc.Company.ID

	if scoping == TenantScoped {
		return Predicate{Kind: PredicateCompany, CompanyID: companyID}, nil
	}

	switch p.Tier {
	case model.TierCompanyAdmin:
		return Predicate{Kind: PredicateCompany, CompanyID: companyID}, nil
	case model.TierManager:
		// Managers see what they own or created. The subordinate rule does
		// not apply even when they happen to have reports.
		return Predicate{Kind: PredicateOwnerOrCreator, CompanyID: companyID, UserID: p.UserID}, nil
	case model.TierStaff:
		closure, err := SubordinateClosure(ctx, e.dir, p.UserID)
		if err != nil {
			return Predicate{Kind: PredicateNone}, err
		}
		return Predicate{Kind: PredicateOwners, CompanyID: companyID, OwnerIDs: closure}, nil
	default:
		return Predicate{Kind: PredicateNone}, nil
	}
}

// principalBelongsTo reports whether a non-super-admin principal is a member
// of the given company.
func principalBelongsTo(p *model.Principal, companyID uint) bool {
	return p.CompanyID != nil && *p.CompanyID == companyID
}

// StampCompany enforces the create-time ownership rule. For non-super-admins
// the record must end up in the resolved tenant: an unset company_id is
// stamped, a conflicting one is rejected. Super admins may write anywhere,
// including company-less rows when acting without tenant context.
func (e *Enforcer) StampCompany(rc tenant.RequestContext, rec TenantRecord) error {
	p := rc.Principal
	if p != nil && p.IsSuperAdmin {
		if rec.GetCompanyID() == 0 && rc.Company != nil {
			rec.SetCompanyID(rc.Company.ID)
		}
		return nil
	}

	if rc.Company == nil {
		return ErrNoTenantContext
	}
	if !principalBelongsTo(p, rc.Company.ID) {
		return ErrNoTenantContext
	}

	switch rec.GetCompanyID() {
	case 0:
		rec.SetCompanyID(rc.Company.ID)
	case rc.Company.ID:
		// Already correct.
	default:
		return ErrAmbiguousOwnership
	}
	return nil
}

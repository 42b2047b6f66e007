package model

// RoleTier is the closed set of visibility tiers. Role strings are mapped to a
// tier exactly once, when the principal is built from the authenticated user;
// everything downstream switches on the tier, never on role names.
type RoleTier int

const (
	// TierStaff sees records assigned to themselves or their subordinates.
	TierStaff RoleTier = iota
	// TierManager sees records they own or created, regardless of subordinates.
	TierManager
	// TierCompanyAdmin sees every record within their own company.
	TierCompanyAdmin
	// TierSuperAdmin sees everything across companies.
	TierSuperAdmin
)

// String returns the tier name for logs and metrics labels.
func (t RoleTier) String() string {
	switch t {
	case TierSuperAdmin:
		return "super_admin"
	case TierCompanyAdmin:
		return "company_admin"
	case TierManager:
		return "manager"
	default:
		return "staff"
	}
}

// Principal is the authenticated actor attached to a request.
type Principal struct {
	UserID       uint
	Email        string
	CompanyID    *uint
	IsSuperAdmin bool
	Tier         RoleTier

	// Company is the principal's own company, loaded when available. Used by
	// the tenant resolver as the bare-domain fallback.
	Company *Company
}

// TierForRole maps a stored role name to its visibility tier. Unknown roles
// land on the most restrictive tier.
func TierForRole(isSuperAdmin bool, role string) RoleTier {
	if isSuperAdmin {
		return TierSuperAdmin
	}
	switch role {
	case RoleCompanyAdmin, RoleAdmin:
		return TierCompanyAdmin
	case RoleManager:
		return TierManager
	default:
		return TierStaff
	}
}

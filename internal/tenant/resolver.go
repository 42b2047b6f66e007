package tenant

import (
	"context"
	"errors"
	"net"
	"strings"

	"travelops/internal/model"
)

// ErrCompanyNotFound is returned when a subdomain names no active company.
// Unknown and deactivated subdomains are deliberately indistinguishable to the
// client; callers must surface this as a terminal 404 for the request.
var ErrCompanyNotFound = errors.New("company not found or inactive")

// Subdomains that never identify a company.
var reservedSubdomains = map[string]bool{
	"www":   true,
	"admin": true,
	"api":   true,
}

// CompanyStore is the lookup surface the resolver needs. Implementations
// return (nil, nil) when nothing matches.
type CompanyStore interface {
	FindActiveBySubdomain(ctx context.Context, subdomain string) (*model.Company, error)
	FindActiveByDomain(ctx context.Context, candidates []string) (*model.Company, error)
}

// Resolver determines which company, if any, an inbound request belongs to.
type Resolver struct {
	companies   CompanyStore
	aliasPrefix string
}

// NewResolver creates a resolver. aliasPrefix is the leading host label of the
// public CRM URL scheme (c.acme.example.com -> acme).
func NewResolver(companies CompanyStore, aliasPrefix string) *Resolver {
	if aliasPrefix == "" {
		aliasPrefix = "c"
	}
	return &Resolver{companies: companies, aliasPrefix: aliasPrefix}
}

// Resolve maps (host, explicit hint, principal) to a company context.
//
// A nil company with a nil error is an intentionally tenant-less request (the
// management surface). ErrCompanyNotFound is terminal for the request: the
// host does not change mid-request, so there is nothing to retry.
//
// Auth and bootstrap paths never reach the resolver; the HTTP layer skips
// them via a fixed allow-list.
func (r *Resolver) Resolve(ctx context.Context, host, hint string, principal *model.Principal) (*model.Company, error) {
	// An explicit hint (dev header or query parameter) wins over the host.
	if hint != "" {
		sub := r.subdomainFromHint(hint)
		if sub != "" && !reservedSubdomains[sub] {
			company, err := r.companies.FindActiveBySubdomain(ctx, sub)
			if err != nil {
				return nil, err
			}
			if company == nil {
				return nil, ErrCompanyNotFound
			}
			return company, nil
		}
	}

	host = normalizeHost(host)

	// Companies on a custom domain match the full host before any subdomain
	// parsing happens.
	if candidates := domainCandidates(host); len(candidates) > 0 {
		company, err := r.companies.FindActiveByDomain(ctx, candidates)
		if err != nil {
			return nil, err
		}
		if company != nil {
			return company, nil
		}
	}

	sub := r.extractSubdomain(host)

	if sub == "" || reservedSubdomains[sub] {
		// Main/bare domain. For local development and same-origin setups,
		// fall back to the authenticated user's own company.
		if principal != nil && !principal.IsSuperAdmin &&
			principal.Company != nil && principal.Company.IsActive() {
			return principal.Company, nil
		}
		// Otherwise this is the management surface: no tenant.
		return nil, nil
	}

	company, err := r.companies.FindActiveBySubdomain(ctx, sub)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrCompanyNotFound
	}
	return company, nil
}

// extractSubdomain pulls the candidate subdomain out of a host name.
func (r *Resolver) extractSubdomain(host string) string {
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}

	parts := strings.Split(host, ".")

	// Public CRM URL scheme: c.acme.example.com -> acme.
	if len(parts) > 2 && parts[0] == r.aliasPrefix {
		return parts[1]
	}

	// company1.travelops.com -> company1. Local development hosts like
	// acme.localhost also land here and resolve their first label.
	if len(parts) > 2 {
		return parts[0]
	}
	if len(parts) == 2 && parts[1] == "localhost" && parts[0] != "www" {
		return parts[0]
	}

	return ""
}

// subdomainFromHint applies the same alias-prefix rule to a dotted hint, so
// X-Subdomain: c.acme.example.com and X-Subdomain: acme behave alike.
func (r *Resolver) subdomainFromHint(hint string) string {
	hint = normalizeHost(hint)
	if !strings.Contains(hint, ".") {
		return hint
	}
	if sub := r.extractSubdomain(hint); sub != "" {
		return sub
	}
	return strings.Split(hint, ".")[0]
}

// domainCandidates builds the exact-host matches tried against the custom
// domain column: the host itself, the host without "www.", and the host with
// the "crm." prefix toggled.
func domainCandidates(host string) []string {
	if host == "" || host == "localhost" || net.ParseIP(host) != nil {
		return nil
	}

	candidates := []string{host}

	noWWW := strings.TrimPrefix(host, "www.")
	if noWWW != host {
		candidates = append(candidates, noWWW)
	}

	if strings.HasPrefix(noWWW, "crm.") {
		candidates = append(candidates, strings.TrimPrefix(noWWW, "crm."))
	} else {
		candidates = append(candidates, "crm."+noWWW)
	}

	return candidates
}

// normalizeHost lowercases the host and strips any port suffix.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

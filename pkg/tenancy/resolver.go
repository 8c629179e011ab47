package tenancy

import (
	"fmt"
	"net/http"
	"regexp"
)

// maxCompanyIDLen is the maximum length for a company id.
const maxCompanyIDLen = 63

// companyIDRe validates company id format: lowercase alphanumeric and
// hyphens, must start and end with an alphanumeric character.
var companyIDRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// CompanyQueryParam is the query parameter name used for company resolution.
const CompanyQueryParam = "company"

// CompanyHeader is the HTTP header used for company resolution.
const CompanyHeader = "X-Company-Id"

// TenantResolver resolves the tenant context from an HTTP request.
type TenantResolver interface {
	Resolve(r *http.Request) (TenantContext, error)
}

// SingleTenantResolver always returns the "default" company.
type SingleTenantResolver struct{}

// Resolve always returns a TenantContext with CompanyID "default".
func (s SingleTenantResolver) Resolve(_ *http.Request) (TenantContext, error) {
	return TenantContext{CompanyID: "default"}, nil
}

// CompanyTenantResolver reads the company id from the request query
// parameter or header. In multi-tenant mode a company id is always required.
type CompanyTenantResolver struct{}

// Resolve extracts the company id from the request. It checks the query
// parameter first, then falls back to the X-Company-Id header. Returns an
// error if the company id is missing or invalid.
func (c CompanyTenantResolver) Resolve(r *http.Request) (TenantContext, error) {
	id := r.URL.Query().Get(CompanyQueryParam)
	if id == "" {
		id = r.Header.Get(CompanyHeader)
	}

	if id == "" {
		return TenantContext{}, fmt.Errorf("company id is required in multi-tenant mode (use ?company= query param or X-Company-Id header)")
	}

	if err := validateCompanyID(id); err != nil {
		return TenantContext{}, err
	}

	return TenantContext{CompanyID: id}, nil
}

// validateCompanyID checks that a company id conforms to DNS label rules:
// lowercase alphanumeric and hyphens, 1-63 characters, starts and ends with
// an alphanumeric character.
func validateCompanyID(id string) error {
	if len(id) > maxCompanyIDLen {
		return fmt.Errorf("company id %q exceeds maximum length of %d characters", id, maxCompanyIDLen)
	}
	if !companyIDRe.MatchString(id) {
		return fmt.Errorf("company id %q is invalid: must consist of lowercase alphanumeric characters or hyphens, and must start and end with an alphanumeric character", id)
	}
	return nil
}

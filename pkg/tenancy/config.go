// Package tenancy provides multi-tenant context resolution and middleware
// for the governance server. It supports single-tenant (backward compatible)
// and company-scoped multi-tenant modes.
package tenancy

// TenancyMode controls how tenant context is resolved.
type TenancyMode string

const (
	// ModeSingle uses the "default" company for all requests (backward compat).
	ModeSingle TenancyMode = "single"
	// ModeCompany requires a company id per request (multi-tenant).
	ModeCompany TenancyMode = "company"
)

package authz

// Well-known roles. The engine treats roles as opaque strings; these
// constants only name the defaults.
const (
	RoleOwner    = "OWNER"
	RoleOrgAdmin = "ORG_ADMIN"
	RoleMember   = "MEMBER"
)

// RoleMapper decides whether a role string grants baseline-admin rights.
type RoleMapper struct {
	adminRoles map[string]bool
}

// NewRoleMapper creates a mapper with the given admin allow-list. An empty
// list falls back to the defaults (OWNER, ORG_ADMIN).
func NewRoleMapper(adminRoles []string) *RoleMapper {
	if len(adminRoles) == 0 {
		adminRoles = []string{RoleOwner, RoleOrgAdmin}
	}
	set := make(map[string]bool, len(adminRoles))
	for _, r := range adminRoles {
		set[r] = true
	}
	return &RoleMapper{adminRoles: set}
}

// IsAdmin reports whether the role may mutate baseline state.
func (m *RoleMapper) IsAdmin(role string) bool {
	return m.adminRoles[role]
}

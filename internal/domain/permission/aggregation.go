package permission

import "sort"

// EffectivePermissions is the sorted union of codes across roles.
// Holding the admin role yields the full catalog.
func EffectivePermissions(roles []*Role) []string {
	if HasAdminRole(roles) {
		return AllCodes()
	}
	set := make(map[string]struct{})
	for _, r := range roles {
		if r == nil {
			continue
		}
		for _, c := range r.permissionCodes {
			set[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func HasAdminRole(roles []*Role) bool {
	for _, r := range roles {
		if r != nil && r.IsAdmin() {
			return true
		}
	}
	return false
}

// HasPermission reports whether any role grants code. Admins pass every check.
func HasPermission(roles []*Role, code string) bool {
	if HasAdminRole(roles) {
		return true
	}
	for _, r := range roles {
		if r != nil && r.HasCode(code) {
			return true
		}
	}
	return false
}

func RoleNames(roles []*Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		if r != nil {
			names = append(names, r.Name())
		}
	}
	sort.Strings(names)
	return names
}

package permission

import "sort"

// Permission codes known to the system. Codes are "<resource>.<action>".
const (
	UsersRead         = "users.read"
	UsersWrite        = "users.write"
	RolesRead         = "roles.read"
	RolesWrite        = "roles.write"
	PermissionsRead   = "permissions.read"
	AuditRead         = "audit.read"
	TicketsRead       = "tickets.read"
	TicketsWrite      = "tickets.write"
	TicketsAssign     = "tickets.assign"
	TicketsComplete   = "tickets.complete"
	TicketsUpload     = "tickets.upload"
	WarrantyRead      = "warranty.read"
	WarrantyReindex   = "warranty.reindex"
	CentersWrite      = "centers.write"
	AIWorkflowRun     = "ai.workflow.run"
	AIChat            = "ai.chat"
	GeoRead           = "geo.read"
	SystemAdmin       = "system.admin"
	DefaultCategory   = "general"
	AdminRoleName     = "admin"
	AgentRoleName     = "agent"
	ViewerRoleName    = "viewer"
	OpsManagerRole    = "ops_manager"
	DefaultSignupRole = ViewerRoleName
)

// CatalogEntry describes one seeded permission.
type CatalogEntry struct {
	Code        string
	Description string
	Category    string
}

var catalog = []CatalogEntry{
	{UsersRead, "View users", "users"},
	{UsersWrite, "Create and edit users", "users"},
	{RolesRead, "View roles", "roles"},
	{RolesWrite, "Create, edit and delete roles", "roles"},
	{PermissionsRead, "View permissions", "roles"},
	{AuditRead, "View audit logs", "audit"},
	{TicketsRead, "View tickets", "tickets"},
	{TicketsWrite, "Confirm, update and cancel tickets", "tickets"},
	{TicketsAssign, "Assign technicians to tickets", "tickets"},
	{TicketsComplete, "Complete tickets", "tickets"},
	{TicketsUpload, "Upload ticket images", "tickets"},
	{WarrantyRead, "Query warranty information", "warranty"},
	{WarrantyReindex, "Rebuild the warranty index", "warranty"},
	{CentersWrite, "Edit service centers", "centers"},
	{AIWorkflowRun, "Run AI workflows", "ai"},
	{AIChat, "Use AI chat", "ai"},
	{GeoRead, "Query geolocation", "geo"},
	{SystemAdmin, "System administration", "system"},
}

// systemRoleCore lists the permissions a system role must always keep. admin is handled separately: it keeps everything.
var systemRoleCore = map[string][]string{
	AgentRoleName:  {TicketsRead, TicketsWrite, TicketsUpload, WarrantyRead},
	ViewerRoleName: {TicketsRead, WarrantyRead},
	OpsManagerRole: {UsersRead, TicketsRead, TicketsAssign, TicketsComplete, WarrantyReindex, CentersWrite},
}

var systemRoleDescriptions = map[string]string{
	AdminRoleName:  "System administrator with every permission",
	AgentRoleName:  "Customer service agent handling tickets",
	ViewerRoleName: "Read-only access to tickets and warranty",
	OpsManagerRole: "Operations manager dispatching technicians",
}

// Catalog returns a copy of every known permission.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}

func AllCodes() []string {
	codes := make([]string, len(catalog))
	for i, e := range catalog {
		codes[i] = e.Code
	}
	sort.Strings(codes)
	return codes
}

func IsKnownCode(code string) bool {
	for _, e := range catalog {
		if e.Code == code {
			return true
		}
	}
	return false
}

// SystemRoleNames returns the seeded roles in a stable order.
func SystemRoleNames() []string {
	return []string{AdminRoleName, OpsManagerRole, AgentRoleName, ViewerRoleName}
}

func IsSystemRoleName(name string) bool {
	_, ok := systemRoleDescriptions[name]
	return ok
}

func SystemRoleDescription(name string) string {
	return systemRoleDescriptions[name]
}

// CorePermissions returns the permissions a system role can never lose. Non-system roles have none.
func CorePermissions(roleName string) []string {
	if roleName == AdminRoleName {
		return AllCodes()
	}
	core := systemRoleCore[roleName]
	out := make([]string, len(core))
	copy(out, core)
	sort.Strings(out)
	return out
}

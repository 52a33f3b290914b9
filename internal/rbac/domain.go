package rbac

// Role is a tenant-scoped permission grouping. A role whose name equals
// "super admin" case-insensitively bypasses permission checks.
type Role struct {
	ID          int64
	CollegeID   *int64
	Code        string
	Name        string
	Description string
	IsActive    bool
}

// Permission is an atomic capability identified by a unique code such as
// "faculty.view".
type Permission struct {
	ID       int64
	Code     string
	Module   string
	IsActive bool
}

// Grant ties a permission to a role. The grant carries its own active flag
// and can be soft-disabled independently of either side.
type Grant struct {
	RoleID       int64
	PermissionID int64
	IsActive     bool
}

// Assignment links a user to a role. A user may hold several; the active
// assignment with the smallest role id is the primary one.
type Assignment struct {
	UserID   int64
	RoleID   int64
	IsActive bool
}

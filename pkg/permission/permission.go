// Package permission maps staff roles to the permissions they hold.
package permission

import (
	"slices"
	"strings"
)

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
	RoleUser       Role = "USER"
)

func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

type Permission string

const All Permission = "*"

const (
	MoviesCreate Permission = "movies.create"
	MoviesRead   Permission = "movies.read"
	MoviesUpdate Permission = "movies.update"
	MoviesDelete Permission = "movies.delete"
	MoviesManage Permission = "movies.manage"

	TheatersCreate Permission = "theaters.create"
	TheatersRead   Permission = "theaters.read"
	TheatersUpdate Permission = "theaters.update"
	TheatersDelete Permission = "theaters.delete"
	TheatersManage Permission = "theaters.manage"

	ShowtimesCreate Permission = "showtimes.create"
	ShowtimesRead   Permission = "showtimes.read"
	ShowtimesUpdate Permission = "showtimes.update"
	ShowtimesDelete Permission = "showtimes.delete"
	ShowtimesManage Permission = "showtimes.manage"

	StaffCreate Permission = "staff.create"
	StaffRead   Permission = "staff.read"
	StaffUpdate Permission = "staff.update"
	StaffDelete Permission = "staff.delete"
	StaffManage Permission = "staff.manage"

	AuthLogin   Permission = "auth.login"
	AuthLogout  Permission = "auth.logout"
	AuthRefresh Permission = "auth.refresh"
	AuthMe      Permission = "auth.me"
)

var authPermissions = []Permission{AuthLogin, AuthLogout, AuthRefresh, AuthMe}

var rolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {All},
	RoleAdmin: append([]Permission{
		MoviesManage,
		TheatersManage,
		ShowtimesManage,
		StaffManage,
	}, authPermissions...),
	RoleStaff: append([]Permission{
		MoviesRead,
		MoviesCreate,
		TheatersRead,
		ShowtimesRead,
		ShowtimesCreate,
		ShowtimesUpdate,
		StaffRead,
	}, authPermissions...),
	RoleUser: append([]Permission{
		MoviesRead,
		TheatersRead,
		ShowtimesRead,
	}, authPermissions...),
}

// ForRole returns a copy of the permissions granted to role.
func ForRole(role Role) []Permission {
	return slices.Clone(rolePermissions[role])
}

// Has reports whether role holds perm, either directly, through the wildcard,
// or through the "<resource>.manage" permission of perm's resource.
func Has(role Role, perm Permission) bool {
	granted, ok := rolePermissions[role]
	if !ok {
		return false
	}

	manage := perm
	if resource, _, found := strings.Cut(string(perm), "."); found {
		manage = Permission(resource + ".manage")
	}

	for _, g := range granted {
		if g == All || g == perm || g == manage {
			return true
		}
	}
	return false
}

func HasAny(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if Has(role, p) {
			return true
		}
	}
	return false
}

func HasAll(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if !Has(role, p) {
			return false
		}
	}
	return true
}

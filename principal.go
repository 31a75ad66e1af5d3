package pasetoAuth

import (
	"github.com/MrEthical07/pasetoAuth/permission"
	"github.com/MrEthical07/pasetoAuth/store"
)

// Principal is the authorization view attached to an authenticated request.
// Grants are materialized once at resolution; checks never hit the store.
type Principal interface {
	// Authenticated reports whether a live identity backs this principal.
	Authenticated() bool
	// HasPermission checks an exact "module.action" grant.
	HasPermission(name string) bool
	// HasAnyOf reports membership in the named group.
	HasAnyOf(groupName string) bool
	// HasModulePermissions reports whether any grant falls under the module.
	HasModulePermissions(module string) bool
}

// AnonymousPrincipal is the principal for requests whose token decoded but
// whose owner is missing, inactive, or revoked. Every check answers false.
type AnonymousPrincipal struct{}

// Authenticated implements [Principal].
func (AnonymousPrincipal) Authenticated() bool { return false }

// HasPermission implements [Principal].
func (AnonymousPrincipal) HasPermission(string) bool { return false }

// HasAnyOf implements [Principal].
func (AnonymousPrincipal) HasAnyOf(string) bool { return false }

// HasModulePermissions implements [Principal].
func (AnonymousPrincipal) HasModulePermissions(string) bool { return false }

// UserPrincipal is the principal behind a user access token. Grants are the
// union of the account's direct permissions and its group permissions.
type UserPrincipal struct {
	User UserRecord

	grants permission.Set
	groups map[string]struct{}
}

// NewUserPrincipal materializes the authorization view of a user record.
func NewUserPrincipal(rec UserRecord) *UserPrincipal {
	groups := make(map[string]struct{}, len(rec.Groups))
	for _, g := range rec.Groups {
		groups[g.Name] = struct{}{}
	}
	return &UserPrincipal{
		User:   rec,
		grants: permission.NewSet(rec.Permissions...).Union(permission.Flatten(rec.Groups)),
		groups: groups,
	}
}

// Authenticated implements [Principal].
func (*UserPrincipal) Authenticated() bool { return true }

// HasPermission implements [Principal].
func (p *UserPrincipal) HasPermission(name string) bool { return p.grants.Has(name) }

// HasAnyOf implements [Principal].
func (p *UserPrincipal) HasAnyOf(groupName string) bool {
	_, ok := p.groups[groupName]
	return ok
}

// HasModulePermissions implements [Principal].
func (p *UserPrincipal) HasModulePermissions(module string) bool {
	return p.grants.HasModule(module)
}

// AppPrincipal is the principal behind an app access token. Its grants come
// entirely from the stored credential record.
type AppPrincipal struct {
	Record *store.AppTokenRecord

	grants permission.Set
	groups map[string]struct{}
}

// NewAppPrincipal materializes the authorization view of an app token record.
func NewAppPrincipal(rec *store.AppTokenRecord) *AppPrincipal {
	groups := make(map[string]struct{}, len(rec.Groups))
	for _, g := range rec.Groups {
		groups[g.Name] = struct{}{}
	}
	return &AppPrincipal{
		Record: rec,
		grants: permission.NewSet(rec.Permissions...).Union(permission.Flatten(rec.Groups)),
		groups: groups,
	}
}

// Authenticated implements [Principal].
func (*AppPrincipal) Authenticated() bool { return true }

// HasPermission implements [Principal].
func (p *AppPrincipal) HasPermission(name string) bool { return p.grants.Has(name) }

// HasAnyOf implements [Principal].
func (p *AppPrincipal) HasAnyOf(groupName string) bool {
	_, ok := p.groups[groupName]
	return ok
}

// HasModulePermissions implements [Principal].
func (p *AppPrincipal) HasModulePermissions(module string) bool {
	return p.grants.HasModule(module)
}

package review

import (
	"fmt"
	"strings"
)

// Role is what a reviewer is allowed to do in the workspace.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleEditor   Role = "editor"
	RoleReviewer Role = "reviewer"
	RoleViewer   Role = "viewer"
)

// Permission names a single guarded action.
type Permission string

const (
	PermComment          Permission = "comment"
	PermResolve          Permission = "resolve"
	PermDeleteAnyComment Permission = "delete-any-comment"
	PermUpload           Permission = "upload"
	PermDeleteAsset      Permission = "delete-asset"
	PermShare            Permission = "share"
)

var rolePermissions = map[Role][]Permission{
	RoleOwner:    {PermComment, PermResolve, PermDeleteAnyComment, PermUpload, PermDeleteAsset, PermShare},
	RoleEditor:   {PermComment, PermResolve, PermUpload, PermShare},
	RoleReviewer: {PermComment, PermResolve},
	RoleViewer:   {},
}

// ParseRole turns a config value into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rolePermissions[r]; !ok {
		return "", fmt.Errorf("unknown role %q (valid: owner, editor, reviewer, viewer)", s)
	}
	return r, nil
}

// Can reports whether r grants p.
func (r Role) Can(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// Actor is the person issuing commands.
type Actor struct {
	Name string
	Role Role
}

// Require returns ErrPermission when the actor's role lacks p.
func (a Actor) Require(p Permission) error {
	if !a.Role.Can(p) {
		return fmt.Errorf("%s cannot %s: %w", a.Role, p, ErrPermission)
	}
	return nil
}

// CanDelete reports whether the actor may delete c. Authors can always
// delete their own comments.
func (a Actor) CanDelete(c Comment) bool {
	if c.Author == a.Name && a.Role.Can(PermComment) {
		return true
	}
	return a.Role.Can(PermDeleteAnyComment)
}

package model

import "time"

// Role determines which parts of the dashboard a staff member can use.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleArtist Role = "artist"
)

// Permission names referenced by the API middleware.
const (
	PermReservations = "reservations"
	PermStaff        = "staff"
	PermEconomics    = "economics"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleArtist:
		return true
	}
	return false
}

// PermissionsFor is the single authority for role permission derivation.
// Stored permission sets are always re-derived from the role on write and
// never trusted from the caller.
func PermissionsFor(role Role) []string {
	switch role {
	case RoleAdmin:
		return []string{PermReservations, PermStaff, PermEconomics}
	case RoleStaff:
		return []string{PermReservations, PermEconomics}
	case RoleArtist:
		return []string{PermReservations}
	default:
		return nil
	}
}

// Staff is a dashboard account. PasswordHash is a bcrypt hash and is never
// serialized in API responses.
type Staff struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Permissions  []string  `json:"permissions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPermission checks the stored permission set.
func (s *Staff) HasPermission(perm string) bool {
	for _, p := range s.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// StaffPatch carries a partial staff update; nil fields are left untouched.
// Role implies a permission re-derivation, Password implies a re-hash.
type StaffPatch struct {
	Name     *string `json:"name,omitempty"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *Role   `json:"role,omitempty"`
}

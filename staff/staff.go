package staff

import (
	"slices"
	"time"
)

// RoleType represents an application role assigned to a staff user
type RoleType string

const (
	RoleCSR           RoleType = "CSR"           // Citizen service representative
	RoleSCSR          RoleType = "SCSR"          // Senior citizen service representative
	RoleSDM           RoleType = "SDM"           // Service delivery manager
	RoleAdministrator RoleType = "Administrator" // Full administrative access
)

// RoleHierarchy orders roles from least to most privileged. A user may edit
// users holding their own role or any role below it.
var RoleHierarchy = []RoleType{RoleCSR, RoleSCSR, RoleSDM, RoleAdministrator}

// StaffUser links an IdP subject to an application-level identity record.
type StaffUser struct {
	GUID       string     `json:"guid"`                  // GUID claim of the IdP subject, primary key
	Sub        string     `json:"sub"`                   // Full subject string from the IdP
	Role       RoleType   `json:"role"`                  // Assigned application role
	IsActive   bool       `json:"is_active"`             // Availability flag for queue assignment
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`  // Soft-archive marker; non-nil means archived
	LocationID *int64     `json:"location_id,omitempty"` // Current service location, nil when unassigned
	CreatedAt  time.Time  `json:"created_at,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at,omitempty"`
}

// IsArchived reports whether the user has been soft-deleted. Archived users
// must be blocked from performing actions.
func (u *StaffUser) IsArchived() bool {
	return u != nil && u.DeletedAt != nil
}

func roleIndex(r RoleType) int {
	return slices.Index(RoleHierarchy, r)
}

// HighestRole returns the most privileged hierarchy role among the held role
// names, or false when none of them appear in the hierarchy.
func HighestRole(held []string) (RoleType, bool) {
	highest := -1
	for _, h := range held {
		if i := roleIndex(RoleType(h)); i > highest {
			highest = i
		}
	}
	if highest < 0 {
		return "", false
	}
	return RoleHierarchy[highest], true
}

// EditableRoles returns the roles a user holding the given role names may
// assign to others: the hierarchy prefix up to and including their highest
// held role. Users with no hierarchy role may edit nothing.
func EditableRoles(held []string) []RoleType {
	highest, ok := HighestRole(held)
	if !ok {
		return []RoleType{}
	}
	return slices.Clone(RoleHierarchy[:roleIndex(highest)+1])
}

package model

import "time"

// Role is the resolved role of an authenticated principal. End users are
// always USER; staff officers are OFFICER at login and may be refined to
// ADMIN by their own officer role.
type Role string

const (
	RoleUser    Role = "USER"
	RoleOfficer Role = "OFFICER"
	RoleAdmin   Role = "ADMIN"
)

// OfficerRole mirrors officers.role.
type OfficerRole string

const (
	OfficerRoleAdmin   OfficerRole = "ADMIN"
	OfficerRoleOfficer OfficerRole = "OFFICER"
)

// User represents an end user record as stored in the `users` table.
// PasswordHash never leaves the service; JSON output omits it.
//
// Fields:
//
//	ID           – uuid primary key.
//	Email        – unique across users and officers.
//	PasswordHash – bcrypt digest.
//	IsVerified   – set by an administrator once documents are checked.
//	IsOnboarded  – true after the onboarding form was completed.
type User struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	PasswordHash          string     `json:"-"`
	FirstName             string     `json:"firstName"`
	LastName              string     `json:"lastName,omitempty"`
	PhoneNumber           string     `json:"phoneNumber,omitempty"`
	NationalID            string     `json:"nationalId,omitempty"`
	DateOfBirth           *time.Time `json:"dateOfBirth,omitempty"`
	Address               string     `json:"address,omitempty"`
	City                  string     `json:"city,omitempty"`
	Province              string     `json:"province,omitempty"`
	GNDivision            string     `json:"gnDivision,omitempty"`
	DivisionalSecretariat string     `json:"divisionalSecretariat,omitempty"`
	PostalCode            string     `json:"postalCode,omitempty"`
	IsVerified            bool       `json:"isVerified"`
	IsOnboarded           bool       `json:"isOnboarded"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// Principal returns the public snapshot of the user tagged with RoleUser.
func (u User) Principal() Principal {
	return Principal{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        RoleUser,
		IsVerified:  u.IsVerified,
		IsOnboarded: u.IsOnboarded,
	}
}

// Officer represents a staff officer record as stored in the `officers`
// table. Officers share the email namespace with users.
type Officer struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName,omitempty"`
	Role         OfficerRole `json:"role"`
	DepartmentID string      `json:"departmentId,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Principal returns the public snapshot of the officer tagged with
// RoleOfficer. The officer's own role is carried separately.
func (o Officer) Principal() Principal {
	return Principal{
		ID:           o.ID,
		Email:        o.Email,
		FirstName:    o.FirstName,
		LastName:     o.LastName,
		Role:         RoleOfficer,
		OfficerRole:  o.Role,
		DepartmentID: o.DepartmentID,
		IsVerified:   true,
		IsOnboarded:  true,
	}
}

// Principal is the password-free snapshot of an authenticated user or
// officer. It is what tokens carry and what sign-in returns.
type Principal struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName,omitempty"`
	Role         Role        `json:"role"`
	OfficerRole  OfficerRole `json:"officerRole,omitempty"`
	DepartmentID string      `json:"departmentId,omitempty"`
	IsVerified   bool        `json:"isVerified"`
	IsOnboarded  bool        `json:"isOnboarded"`
}

// EffectiveRole refines OFFICER to ADMIN for administrators.
func (p Principal) EffectiveRole() Role {
	if p.Role == RoleOfficer && p.OfficerRole == OfficerRoleAdmin {
		return RoleAdmin
	}
	return p.Role
}

package model

import "time"

// Onboarding is the profile a user submits after sign-up.
type Onboarding struct {
	FirstName             string
	LastName              string
	PhoneNumber           string
	NationalID            string
	DateOfBirth           time.Time
	Address               string
	City                  string
	Province              string
	GNDivision            string
	DivisionalSecretariat string
	PostalCode            string
}

// UserUpdate is a partial profile update; nil fields are left untouched.
type UserUpdate struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Address     *string
	City        *string
	Province    *string
	PostalCode  *string
	IsVerified  *bool
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.PhoneNumber == nil &&
		u.Address == nil && u.City == nil && u.Province == nil &&
		u.PostalCode == nil && u.IsVerified == nil
}

package model

import "time"

// Role discriminates what kind of account a user holds. It replaces a
// pile of independent boolean flags so that a user is always exactly one
// of student, teacher, or administrator.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// User represents a platform account.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName    string `json:"first_name" gorm:"size:150"`
	MiddleName   string `json:"middle_name" gorm:"size:150"`
	LastName     string `json:"last_name" gorm:"size:150"`
	PasswordHash string `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role   `json:"role" gorm:"size:20;not null;default:'student';index"`

	// Authorized is only meaningful for students: it flips to true once the
	// email verification code is confirmed (or an admin grants it). Teachers
	// and admins are authorized by construction, see CanUsePlatform.
	Authorized bool `json:"authorized" gorm:"default:false"`

	VerificationCodeHash      string     `json:"-" gorm:"size:64"`
	VerificationCodeExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanUsePlatform reports whether the account may reach gated content.
// Only students carry a pending-verification state.
func (u *User) CanUsePlatform() bool {
	if u.Role != RoleStudent {
		return true
	}
	return u.Authorized
}

// DisplayName returns the name used in outbound email greetings.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

package users

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Role represents a portal user role. Roles are fixed for the lifetime of a
// session; only an administrative action (outside this module) may change one.
type Role string

const (
	RoleCitizen Role = "citizen" // Can view own parcels, apply for mutations, pay tax
	RoleOfficer Role = "officer" // Can process applications and disputes for a department
	RoleAdmin   Role = "admin"   // Can manage users, roles, and view analytics
)

// Valid reports whether the role is one of the known portal roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleOfficer, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts a string into a Role, defaulting to citizen for the
// empty string (self-registration never grants elevated roles).
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleCitizen, nil
	}
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

// User is the authenticated principal of the portal.
type User struct {
	ID          string `json:"id,omitempty"`          // Unique identifier for the user
	Name        string `json:"name,omitempty"`        // Display name
	Email       string `json:"email,omitempty"`       // Email address, compared case-insensitively
	Role        Role   `json:"role,omitempty"`        // citizen, officer or admin
	Aadhaar     string `json:"aadhaar,omitempty"`     // Optional national-id reference
	Phone       string `json:"phone,omitempty"`       // Optional phone number
	Department  string `json:"department,omitempty"`  // Department, non-citizen roles only
	Designation string `json:"designation,omitempty"` // Designation, non-citizen roles only
}

// Validate enforces the shape of a User at construction time. Optional fields
// are explicit: citizens must not carry department or designation, so no
// caller ever needs a runtime presence check on the record.
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user ID is required")
	}
	if u.Name == "" {
		return fmt.Errorf("user name is required")
	}
	if u.Email == "" {
		return fmt.Errorf("user email is required")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("unknown role %q", u.Role)
	}
	if u.Role == RoleCitizen && (u.Department != "" || u.Designation != "") {
		return fmt.Errorf("citizen users must not carry department or designation")
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email for case-insensitive
// comparison. All directory lookups and duplicate checks go through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MinSecretLength is the minimum accepted secret length for sign-in. The
// portal's legacy accounts were created under this rule; new registrations
// should prefer ValidateSecretStrength.
const MinSecretLength = 4

// ValidateSecret checks the legacy minimum-length policy.
func ValidateSecret(secret string) error {
	if len(secret) < MinSecretLength {
		return fmt.Errorf("secret must be at least %d characters long", MinSecretLength)
	}
	return nil
}

// ValidateSecretStrength checks if a secret meets the recommended requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidateSecretStrength(secret string) error {
	if len(secret) < 8 {
		return fmt.Errorf("secret must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range secret {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("secret must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("secret must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("secret must contain at least one number")
	}

	return nil
}

func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckSecretHash(secret, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	return err == nil
}

package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the coarse account type. A user holds exactly one role, assigned at
// first sign-in and immutable afterwards.
type Role string

const (
	RolePatient    Role = "patient"
	RoleSpecialist Role = "specialist"
	RoleAdmin      Role = "admin"
)

// Specialty is a clinical specialisation tag. The catalog matches the list the
// drafting gateway chooses from when recommending a reviewer.
type Specialty string

const (
	Andrologist         Specialty = "Andrologist"
	Cardiologist        Specialty = "Cardiologist"
	Dermatologist       Specialty = "Dermatologist"
	Gastroenterologist  Specialty = "Gastroenterologist"
	Pulmonologist       Specialty = "Pulmonologist"
	Nephrologist        Specialty = "Nephrologist"
	Hepatologist        Specialty = "Hepatologist"
	Rheumatologist      Specialty = "Rheumatologist"
	Endocrinologist     Specialty = "Endocrinologist"
	Neurologist         Specialty = "Neurologist"
	Ophthalmologist     Specialty = "Ophthalmologist"
	Otolaryngologist    Specialty = "Otolaryngologist"
	Urologist           Specialty = "Urologist"
	GeneralPractitioner Specialty = "GeneralPractitioner"
	Pediatrician        Specialty = "Pediatrician"
)

// Specialties is the closed set of recognized specialty tags.
var Specialties = []Specialty{
	Andrologist, Cardiologist, Dermatologist, Gastroenterologist,
	Pulmonologist, Nephrologist, Hepatologist, Rheumatologist,
	Endocrinologist, Neurologist, Ophthalmologist, Otolaryngologist,
	Urologist, GeneralPractitioner, Pediatrician,
}

// ParseSpecialty matches free text against the specialty catalog. The gateway
// sometimes answers with display forms like "General Practitioner (GP)" or
// "Otolaryngologist (ENT)", so matching is done on a normalized form.
func ParseSpecialty(s string) (Specialty, bool) {
	norm := normalizeSpecialty(s)
	for _, sp := range Specialties {
		if norm == normalizeSpecialty(string(sp)) {
			return sp, true
		}
	}
	return "", false
}

func normalizeSpecialty(s string) string {
	// Drop any parenthetical suffix, e.g. "(GP)".
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// User maps to the app_user table.
type User struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ExternalID string     `db:"external_id" json:"external_id"`
	Email      string     `db:"email" json:"email"`
	Name       string     `db:"name" json:"name"`
	Role       Role       `db:"role" json:"role"`
	Specialty  *Specialty `db:"specialty" json:"specialty,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// IsSpecialist reports whether the user reviews queries.
func (u *User) IsSpecialist() bool { return u.Role == RoleSpecialist }

// IsAdmin reports whether the user has unrestricted read access.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// SpecialtyTag returns the user's specialty, or empty for non-specialists.
func (u *User) SpecialtyTag() Specialty {
	if u.Specialty == nil {
		return ""
	}
	return *u.Specialty
}

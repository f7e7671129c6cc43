package identity

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Resolver assigns a role to an email address. It is consulted exactly once
// per identity, when the user record is first created; later changes to the
// directory never touch existing accounts.
type Resolver struct {
	specialists map[string]Specialty
	admins      map[string]bool
}

// NewResolver builds a resolver from an email→specialty table and a list of
// admin emails. Lookups are case-insensitive on the email.
func NewResolver(specialists map[string]Specialty, adminEmails []string) *Resolver {
	r := &Resolver{
		specialists: make(map[string]Specialty, len(specialists)),
		admins:      make(map[string]bool, len(adminEmails)),
	}
	for email, sp := range specialists {
		r.specialists[strings.ToLower(email)] = sp
	}
	for _, email := range adminEmails {
		r.admins[strings.ToLower(strings.TrimSpace(email))] = true
	}
	return r
}

// LoadDirectory reads a specialist directory file. Each non-comment line is
// "email specialty"; a missing file yields an empty directory rather than an
// error so fresh deployments start with patients only.
func LoadDirectory(path string) (map[string]Specialty, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Specialty{}, nil
		}
		return nil, fmt.Errorf("open specialist directory %s: %w", path, err)
	}
	defer f.Close()

	dir := make(map[string]Specialty)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("specialist directory %s:%d: expected \"email specialty\", got %q", path, line, text)
		}
		sp, ok := ParseSpecialty(fields[1])
		if !ok {
			return nil, fmt.Errorf("specialist directory %s:%d: unknown specialty %q", path, line, fields[1])
		}
		dir[fields[0]] = sp
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read specialist directory %s: %w", path, err)
	}
	return dir, nil
}

// Resolve maps an email to a role. Total and deterministic: unknown emails
// are patients.
func (r *Resolver) Resolve(email string) (Role, *Specialty) {
	key := strings.ToLower(email)
	if r.admins[key] {
		return RoleAdmin, nil
	}
	if sp, ok := r.specialists[key]; ok {
		return RoleSpecialist, &sp
	}
	return RolePatient, nil
}

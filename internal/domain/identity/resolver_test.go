package identity

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(map[string]Specialty{
		"gp@care.example":     GeneralPractitioner,
		"Cardio@care.example": Cardiologist,
	}, []string{"admin@care.example"})

	role, sp := r.Resolve("gp@care.example")
	if role != RoleSpecialist || sp == nil || *sp != GeneralPractitioner {
		t.Errorf("expected GP specialist, got %s %v", role, sp)
	}

	// Email matching is case-insensitive.
	role, sp = r.Resolve("cardio@CARE.example")
	if role != RoleSpecialist || sp == nil || *sp != Cardiologist {
		t.Errorf("expected cardiologist, got %s %v", role, sp)
	}

	role, _ = r.Resolve("admin@care.example")
	if role != RoleAdmin {
		t.Errorf("expected admin, got %s", role)
	}

	// Unknown emails default to patient; resolution is total.
	role, sp = r.Resolve("anyone@gmail.com")
	if role != RolePatient || sp != nil {
		t.Errorf("expected patient, got %s %v", role, sp)
	}
}

func TestResolver_Deterministic(t *testing.T) {
	r := NewResolver(map[string]Specialty{"gp@care.example": GeneralPractitioner}, nil)
	for i := 0; i < 3; i++ {
		role, _ := r.Resolve("gp@care.example")
		if role != RoleSpecialist {
			t.Fatalf("resolution changed on call %d", i)
		}
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "specialists.conf")
	content := `# care network clinicians
gp@care.example GeneralPractitioner
cardio@care.example Cardiologist

derm@care.example Dermatologist
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadDirectory(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got["cardio@care.example"] != Cardiologist {
		t.Errorf("expected Cardiologist, got %s", got["cardio@care.example"])
	}
}

func TestLoadDirectory_MissingFileIsEmpty(t *testing.T) {
	got, err := LoadDirectory("/nonexistent/specialists.conf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty directory, got %d entries", len(got))
	}
}

func TestLoadDirectory_RejectsUnknownSpecialty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "specialists.conf")
	if err := os.WriteFile(path, []byte("x@y.z Astrologist\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDirectory(path); err == nil {
		t.Error("expected error for unknown specialty")
	}
}

package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/caretriage/caretriage/internal/domain/identity"
	"github.com/caretriage/caretriage/internal/platform/apperror"
)

// -- Mock Repository --

type mockNotificationRepo struct {
	items []*Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *Notification) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	m.items = append(m.items, n)
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id uuid.UUID) (*Notification, error) {
	for _, n := range m.items {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, apperror.NotFound("notification not found")
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	for _, n := range m.items {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return apperror.NotFound("notification not found")
}

func (m *mockNotificationRepo) ListByRecipient(_ context.Context, recipientID uuid.UUID, limit, offset int) ([]*Notification, int, error) {
	var mine []*Notification
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].RecipientID == recipientID {
			mine = append(mine, m.items[i])
		}
	}
	total := len(mine)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return mine[offset:end], total, nil
}

func recipient() *identity.User {
	return &identity.User{ID: uuid.New(), Role: identity.RolePatient}
}

// -- Tests --

func TestAppendAndList(t *testing.T) {
	repo := newMockNotificationRepo()
	svc := NewService(repo)
	u := recipient()

	for _, msg := range []string{"first", "second", "third"} {
		if err := svc.Append(context.Background(), u.ID, msg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	items, total, err := svc.List(context.Background(), u.ID, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("expected 3 notifications, got %d (total %d)", len(items), total)
	}
	// Newest first.
	if items[0].Message != "third" || items[2].Message != "first" {
		t.Errorf("expected reverse insertion order, got %q..%q", items[0].Message, items[2].Message)
	}
}

func TestList_OnlyOwnNotifications(t *testing.T) {
	repo := newMockNotificationRepo()
	svc := NewService(repo)
	a, b := recipient(), recipient()

	_ = svc.Append(context.Background(), a.ID, "for a")
	_ = svc.Append(context.Background(), b.ID, "for b")

	items, total, err := svc.List(context.Background(), a.ID, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || items[0].Message != "for a" {
		t.Errorf("expected only a's notification, got %d items", total)
	}
}

func TestMarkRead(t *testing.T) {
	repo := newMockNotificationRepo()
	svc := NewService(repo)
	u := recipient()

	_ = svc.Append(context.Background(), u.ID, "hello")
	id := repo.items[0].ID

	if err := svc.MarkRead(context.Background(), u, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.items[0].Read {
		t.Error("expected notification to be marked read")
	}

	// Repeating the call succeeds without touching the repo again.
	if err := svc.MarkRead(context.Background(), u, id); err != nil {
		t.Errorf("expected idempotent mark-read, got %v", err)
	}
}

func TestMarkRead_WrongRecipient(t *testing.T) {
	repo := newMockNotificationRepo()
	svc := NewService(repo)
	owner, other := recipient(), recipient()

	_ = svc.Append(context.Background(), owner.ID, "private")
	id := repo.items[0].ID

	err := svc.MarkRead(context.Background(), other, id)
	if !apperror.IsKind(err, apperror.KindAuthorization) {
		t.Errorf("expected authorization error, got %v", err)
	}
	if repo.items[0].Read {
		t.Error("notification must stay unread after a rejected mark-read")
	}
}

func TestMarkRead_NotFound(t *testing.T) {
	svc := NewService(newMockNotificationRepo())

	err := svc.MarkRead(context.Background(), recipient(), uuid.New())
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

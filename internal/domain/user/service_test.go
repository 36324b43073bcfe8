package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/hms/internal/platform/auth"
)

type mockRepo struct {
	users map[uuid.UUID]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return u, nil
}

func (m *mockRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(_ context.Context, u *User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.users, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	var result []*User
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, len(result), nil
}

func newTestService() *Service {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewService(newMockRepo(), issuer)
}

func TestRegister_PasswordPolicy(t *testing.T) {
	svc := newTestService()
	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"tooshort", "ab1", true},
		{"nodigit", "abcdefgh", true},
		{"noletter", "12345678", true},
		{"valid", "abcdef12", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), "u-"+tc.name, tc.name+"@clinic.test", tc.password, nil)
			if tc.wantErr && err == nil {
				t.Errorf("expected error for password %q", tc.password)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error for password %q: %v", tc.password, err)
			}
		})
	}
}

func TestRegister_RejectsInvalidEmail(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Register(context.Background(), "ada", "not-an-email", "abcdef12", nil); err == nil {
		t.Error("expected error for invalid email")
	}
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Register(context.Background(), "ada", "ada@clinic.test", "abcdef12", []string{"superuser"}); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestRegister_DefaultsToReceptionist(t *testing.T) {
	svc := newTestService()
	u, err := svc.Register(context.Background(), "ada", "ada@clinic.test", "abcdef12", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !u.HasRole("receptionist") {
		t.Errorf("expected default receptionist role, got %v", u.Roles)
	}
	if u.PasswordHash == "abcdef12" {
		t.Error("password stored without hashing")
	}
}

func TestRegister_RejectsDuplicateUsername(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Register(context.Background(), "ada", "ada@clinic.test", "abcdef12", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Register(context.Background(), "ada", "other@clinic.test", "abcdef12", nil); err == nil {
		t.Error("expected error for duplicate username")
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Register(context.Background(), "ada", "ada@clinic.test", "abcdef12", []string{"doctor"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, u, err := svc.Login(context.Background(), "ada", "abcdef12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected a signed token")
	}
	if u.Username != "ada" {
		t.Errorf("expected user ada, got %s", u.Username)
	}

	if _, _, err := svc.Login(context.Background(), "ada", "wrongpass1"); err == nil {
		t.Error("expected error for wrong password")
	}
	if _, _, err := svc.Login(context.Background(), "ghost", "abcdef12"); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc := newTestService()
	u, err := svc.Register(context.Background(), "ada", "ada@clinic.test", "abcdef12", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.SetActive(context.Background(), u.ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ada", "abcdef12"); err == nil {
		t.Error("expected error for disabled account")
	}
}

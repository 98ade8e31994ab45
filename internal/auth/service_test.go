package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pathlight-lms/pathlight/internal/authz"
	"github.com/pathlight-lms/pathlight/internal/shared"
)

type mockRepository struct {
	byEmail map[string]*User
	byID    map[int64]*User

	findErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		byEmail: make(map[string]*User),
		byID:    make(map[int64]*User),
	}
}

func (m *mockRepository) add(u User) {
	cp := u
	m.byEmail[u.Email] = &cp
	m.byID[u.ID] = &cp
}

func (m *mockRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockRepository) FindByID(_ context.Context, id int64) (*User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *u
	cp.PasswordHash = ""
	return &cp, nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestService(t *testing.T, repo Repository) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisTokenStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return NewService(repo, store, "test-secret", time.Hour), mr
}

func seedUser(t *testing.T, repo *mockRepository) User {
	t.Helper()
	u := User{
		ID:           7,
		Email:        "sam@pathlight.local",
		Name:         "Sam",
		Role:         "Instructor",
		PasswordHash: hashOf(t, "correct-horse"),
		IsActive:     true,
	}
	repo.add(u)
	return u
}

func TestAuthenticate(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "sam@pathlight.local", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Empty(t, user.PasswordHash, "hash must not leave the service")
}

func TestAuthenticateFailuresAreUniform(t *testing.T) {
	repo := newMockRepository()
	u := seedUser(t, repo)
	inactive := u
	inactive.ID = 8
	inactive.Email = "gone@pathlight.local"
	inactive.IsActive = false
	repo.add(inactive)

	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	tests := []struct {
		name, email, password string
	}{
		{"unknown email", "nobody@pathlight.local", "correct-horse"},
		{"wrong password", "sam@pathlight.local", "wrong"},
		{"deactivated account", "gone@pathlight.local", "correct-horse"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tc.email, tc.password)
			assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
		})
	}
}

func TestIssueAndResolveIdentity(t *testing.T) {
	repo := newMockRepository()
	u := seedUser(t, repo)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	token, err := svc.IssueToken(&u)
	require.NoError(t, err)

	id, err := svc.ResolveIdentity(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.ID)
	assert.Equal(t, authz.RoleInstructor, id.Role, "role is normalized at the boundary")
	assert.Equal(t, u.Email, id.Email)
}

func TestResolveIdentityRejectsGarbage(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo)
	svc, _ := newTestService(t, repo)

	_, err := svc.ResolveIdentity(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, shared.ErrTokenFailed)
}

func TestResolveIdentityWrongSecret(t *testing.T) {
	repo := newMockRepository()
	u := seedUser(t, repo)
	svc, _ := newTestService(t, repo)

	other := NewService(repo, nil, "different-secret", time.Hour)
	token, err := other.IssueToken(&u)
	require.NoError(t, err)

	_, err = svc.ResolveIdentity(context.Background(), token)
	assert.ErrorIs(t, err, shared.ErrTokenFailed)
}

func TestResolveIdentityExpiredToken(t *testing.T) {
	repo := newMockRepository()
	u := seedUser(t, repo)
	svc := NewService(repo, nil, "test-secret", time.Nanosecond)

	token, err := svc.IssueToken(&u)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = svc.ResolveIdentity(context.Background(), token)
	assert.ErrorIs(t, err, shared.ErrTokenFailed)
}

// A token stays valid cryptographically after the account is deleted or
// deactivated; resolution must still fail as an authentication error.
func TestResolveIdentityDeadSubject(t *testing.T) {
	repo := newMockRepository()
	u := seedUser(t, repo)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	token, err := svc.IssueToken(&u)
	require.NoError(t, err)

	t.Run("deleted user", func(t *testing.T) {
		delete(repo.byID, u.ID)
		_, err := svc.ResolveIdentity(ctx, token)
		assert.ErrorIs(t, err, shared.ErrTokenFailed)
	})

	t.Run("deactivated user", func(t *testing.T) {
		dead := u
		dead.IsActive = false
		repo.add(dead)
		_, err := svc.ResolveIdentity(ctx, token)
		assert.ErrorIs(t, err, shared.ErrTokenFailed)
	})
}

func TestRevokeToken(t *testing.T) {
	repo := newMockRepository()
	u := seedUser(t, repo)
	svc, mr := newTestService(t, repo)
	ctx := context.Background()

	token, err := svc.IssueToken(&u)
	require.NoError(t, err)

	_, err = svc.ResolveIdentity(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(ctx, token))

	_, err = svc.ResolveIdentity(ctx, token)
	assert.ErrorIs(t, err, shared.ErrTokenFailed)

	// Revocation entries expire with the token itself.
	mr.FastForward(2 * time.Hour)
	keys := mr.Keys()
	assert.Empty(t, keys)
}

func TestVerifyTokenRejectsWrongIssuer(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo)
	svc, _ := newTestService(t, repo)

	_, err := svc.VerifyToken(context.Background(), "")
	assert.ErrorIs(t, err, shared.ErrTokenFailed)
}

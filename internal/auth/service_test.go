package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/adeolasoneye/mingle-backend/internal/auth"
)

type fakeUserRepo struct {
	nextID int64
	byID   map[int64]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[int64]*auth.User)}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *auth.User) error {
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, user.Email) {
			return auth.ErrEmailAlreadyExists
		}
		if existing.Username == user.Username {
			return auth.ErrUsernameAlreadyExists
		}
	}

	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()

	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*auth.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	for _, user := range f.byID {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func newTestAuth(t *testing.T) (auth.Service, *fakeUserRepo) {
	t.Helper()

	repo := newFakeUserRepo()
	svc := auth.NewService(repo, nil, &auth.Config{
		JWTSecret:          "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		BCryptCost:         bcrypt.MinCost,
	})
	return svc, repo
}

func signupRequest() *auth.SignupRequest {
	return &auth.SignupRequest{
		Username:    "alice",
		DisplayName: "Alice",
		Email:       "alice@example.com",
		Gender:      "female",
		Password:    "correct-horse",
	}
}

func TestSignupIssuesTokens(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice", resp.User.Username)

	claims, err := svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "access", claims.Type)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	dup := signupRequest()
	dup.Username = "alice2"
	_, err = svc.Signup(ctx, dup)
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

func TestSigninVerifiesPassword(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	resp, err := svc.Signin(ctx, &auth.SigninRequest{
		Email:    "Alice@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Signin(ctx, &auth.SigninRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestSigninUnknownEmail(t *testing.T) {
	svc, _ := newTestAuth(t)

	_, err := svc.Signin(context.Background(), &auth.SigninRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	signup, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, signup.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, signup.User.ID, refreshed.User.ID)

	// An access token is not accepted as a refresh token.
	_, err = svc.RefreshToken(ctx, signup.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuth(t)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPasswordStoredHashed(t *testing.T) {
	svc, repo := newTestAuth(t)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	stored := repo.byID[resp.User.ID]
	assert.NotEqual(t, "correct-horse", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct-horse")))
}

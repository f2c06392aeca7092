package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"numbertalk/internal/auth"
	"numbertalk/internal/models"
)

// memoryUserRepo stores users by name.
func memoryUserRepo() *userRepoStub {
	users := map[string]*models.User{}
	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, u *models.User) error {
		u.ID = uuid.NewString()
		if u.Role == "" {
			u.Role = "registered"
		}
		users[u.Username] = u
		return nil
	}
	repo.getByUsernameFn = func(_ context.Context, name string) (*models.User, error) {
		return users[name], nil
	}
	repo.getByIDFn = func(_ context.Context, id string) (*models.User, error) {
		for _, u := range users {
			if u.ID == id {
				return u, nil
			}
		}
		return nil, models.NewNotFoundError("User", id)
	}
	return repo
}

func newUserService(t *testing.T) (*UserService, *auth.TokenManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewUserService(memoryUserRepo(), tokens, auth.NewRevocationStore(rdb), bcrypt.MinCost), tokens
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, tokens := newUserService(t)

	res, err := svc.Register(ctx, Credentials{Username: "ada", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada", res.User.Username)
	assert.Equal(t, "registered", res.User.Role)

	claims, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)
	assert.Equal(t, "ada", claims.Username)

	_, err = svc.Register(ctx, Credentials{Username: "ada", Password: "another1"})
	assertAppError(t, err, models.CodeConflict)

	_, err = svc.Register(ctx, Credentials{Username: "ab", Password: "secret1"})
	assertValidationError(t, err)

	_, err = svc.Register(ctx, Credentials{Username: "grace", Password: "123"})
	assertValidationError(t, err)

	// longer than bcrypt can hash
	_, err = svc.Register(ctx, Credentials{Username: "grace", Password: strings.Repeat("a", 100)})
	assertValidationError(t, err)
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newUserService(t)

	_, err := svc.Register(ctx, Credentials{Username: "ada", Password: "secret1"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, Credentials{Username: "ada", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, Credentials{Username: "ada", Password: "wrong-pass"})
	assertAppError(t, err, models.CodeUnauthorized)

	_, err = svc.Login(ctx, Credentials{Username: "nobody", Password: "secret1"})
	assertAppError(t, err, models.CodeUnauthorized)

	_, err = svc.Login(ctx, Credentials{})
	assertValidationError(t, err)
}

func TestUserService_LogoutRevokesToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newUserService(t)

	res, err := svc.Register(ctx, Credentials{Username: "ada", Password: "secret1"})
	require.NoError(t, err)

	claims, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)

	me, err := svc.Me(ctx, claims.Subject)
	require.NoError(t, err)
	assert.Equal(t, "ada", me.Username)

	require.NoError(t, svc.Logout(ctx, claims))

	_, err = svc.Authenticate(ctx, res.Token)
	assertAppError(t, err, models.CodeUnauthorized)
}

func TestUserService_AuthenticateRejectsGarbage(t *testing.T) {
	t.Parallel()
	svc, _ := newUserService(t)

	_, err := svc.Authenticate(context.Background(), "not.a.token")
	assertAppError(t, err, models.CodeUnauthorized)
}

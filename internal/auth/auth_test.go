package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/models"
)

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]*models.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]*models.User{}} }

func (f *fakeUsers) CreateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return apperr.Auth(apperr.CodeEmailTaken, "email already in use")
		}
	}
	cp := *u
	f.byID[u.UID] = &cp
	return nil
}

func (f *fakeUsers) GetUser(_ context.Context, uid string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[uid]
	if !ok {
		return nil, apperr.NotFound("user %s not found", uid)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user %s not found", email)
}

func (f *fakeUsers) SetUserRole(_ context.Context, uid string, role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[uid]
	if !ok {
		return apperr.NotFound("user %s not found", uid)
	}
	u.Role = role
	return nil
}

type fakeRevoker struct{ ids map[string]time.Time }

func (f *fakeRevoker) Revoke(_ context.Context, id string, until time.Time) error {
	f.ids[id] = until
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := f.ids[id]
	return ok, nil
}

type published struct{ uid, event string }

type fakePublisher struct{ events []published }

func (f *fakePublisher) PublishTo(uid, event string, _ interface{}) {
	f.events = append(f.events, published{uid, event})
}

func newTestIdentity() (*Identity, *fakeUsers, *fakeRevoker, *fakePublisher) {
	users := newFakeUsers()
	rev := &fakeRevoker{ids: map[string]time.Time{}}
	pub := &fakePublisher{}
	id := NewIdentity(users, NewTokenManager("test-secret", time.Hour), rev, pub)
	id.HashCost = bcrypt.MinCost
	return id, users, rev, pub
}

func TestSignUpDefaultsToClient(t *testing.T) {
	id, _, _, _ := newTestIdentity()
	u, err := id.SignUp(context.Background(), "  Teacher@School.org ", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, u.Role)
	assert.Equal(t, "teacher@school.org", u.Email)
	assert.NotEmpty(t, u.UID)
	assert.NotEqual(t, "secret1", u.PasswordHash)
}

func TestSignUpRejections(t *testing.T) {
	id, _, _, _ := newTestIdentity()
	ctx := context.Background()
	_, err := id.SignUp(ctx, "a@b.org", "secret1", models.RoleAdmin)
	require.NoError(t, err)

	_, err = id.SignUp(ctx, "a@b.org", "secret2", "")
	assert.ErrorIs(t, err, apperr.ErrAuth)

	_, err = id.SignUp(ctx, "not-an-email", "secret1", "")
	assert.ErrorIs(t, err, apperr.ErrAuth)

	for _, email := range []string{"Bob <bob@school.org>", "bob@school.org, eve@school.org", "<bob@school.org>"} {
		_, err = id.SignUp(ctx, email, "secret1", "")
		assert.ErrorIs(t, err, apperr.ErrAuth, email)
	}

	_, err = id.SignUp(ctx, "c@b.org", "123", "")
	assert.ErrorIs(t, err, apperr.ErrAuth)

	_, err = id.SignUp(ctx, "d@b.org", "secret1", "superadmin")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSignInAndAuthenticate(t *testing.T) {
	id, _, _, _ := newTestIdentity()
	ctx := context.Background()
	u, err := id.SignUp(ctx, "p@b.org", "secret1", models.RolePowerUser)
	require.NoError(t, err)

	_, err = id.SignIn(ctx, "p@b.org", "wrong")
	assert.ErrorIs(t, err, apperr.ErrAuth)
	_, err = id.SignIn(ctx, "nobody@b.org", "secret1")
	assert.ErrorIs(t, err, apperr.ErrAuth)

	s, err := id.SignIn(ctx, "P@b.org", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.UID, s.User.UID)
	assert.NotEmpty(t, s.Token)

	got, err := id.Authenticate(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RolePowerUser, got.User.Role)
	assert.Equal(t, s.TokenID, got.TokenID)
}

func TestAuthenticateSeesRoleChanges(t *testing.T) {
	id, _, _, pub := newTestIdentity()
	ctx := context.Background()
	u, _ := id.SignUp(ctx, "c@b.org", "secret1", "")
	s, err := id.SignIn(ctx, "c@b.org", "secret1")
	require.NoError(t, err)

	require.NoError(t, id.SetUserRole(ctx, u.UID, models.RoleAdmin))
	got, err := id.Authenticate(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.User.Role)
	assert.Equal(t, []published{{u.UID, EventRoleChanged}}, pub.events)

	assert.ErrorIs(t, id.SetUserRole(ctx, u.UID, "owner"), apperr.ErrValidation)
	assert.ErrorIs(t, id.SetUserRole(ctx, "missing", models.RoleClient), apperr.ErrNotFound)
}

func TestSignOutRevokesToken(t *testing.T) {
	id, _, rev, pub := newTestIdentity()
	ctx := context.Background()
	u, _ := id.SignUp(ctx, "c@b.org", "secret1", "")
	s, err := id.SignIn(ctx, "c@b.org", "secret1")
	require.NoError(t, err)

	require.NoError(t, id.SignOut(ctx, s))
	assert.Contains(t, rev.ids, s.TokenID)
	assert.Equal(t, []published{{u.UID, EventSignedOut}}, pub.events)

	_, err = id.Authenticate(ctx, s.Token)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindAuth, Code: apperr.CodeSessionRevoked})
}

func TestFetchUserRecordMissingIsNil(t *testing.T) {
	id, _, _, _ := newTestIdentity()
	u, err := id.FetchUserRecord(context.Background(), "ghost")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestNotInitialized(t *testing.T) {
	var id *Identity
	_, err := id.SignIn(context.Background(), "a@b.org", "x")
	assert.ErrorIs(t, err, apperr.ErrNotInitialized)
}

func TestTokenManagerRejectsTamperingAndExpiry(t *testing.T) {
	m := NewTokenManager("k1", time.Minute)
	user := models.User{UID: "u1", Email: "a@b.org", Role: models.RoleClient}
	tok, _, _, err := m.Issue(user)
	require.NoError(t, err)

	_, err = NewTokenManager("k2", time.Minute).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &JWTClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ID: "x"}})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokenManager("k1", time.Minute).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ID: "x"}})
	raw, err = noExp.SignedString([]byte("k1"))
	require.NoError(t, err)
	_, err = NewTokenManager("k1", time.Minute).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionContext(t *testing.T) {
	assert.Nil(t, CurrentUser(context.Background()))
	var nilSession *Session
	assert.Nil(t, nilSession.Role())

	s := &Session{User: models.User{UID: "u1", Role: models.RoleAdmin}}
	ctx := WithSession(context.Background(), s)
	assert.Same(t, s, CurrentUser(ctx))
	assert.Equal(t, models.RoleAdmin, *CurrentUser(ctx).Role())
}

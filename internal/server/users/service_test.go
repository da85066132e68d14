package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avelichka/skinform/internal/common"
	"github.com/avelichka/skinform/internal/server/auth"
	"github.com/avelichka/skinform/internal/server/config"
)

type fakeUserRepo struct {
	byPhone map[string]*User
	nextID  int
	setHash map[string][]byte
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byPhone: map[string]*User{}, setHash: map[string][]byte{}}
}

func (r *fakeUserRepo) GetByPhone(ctx context.Context, phone string) (*User, error) {
	u, ok := r.byPhone[phone]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, phone string) (*User, error) {
	r.nextID++
	u := &User{ID: string(rune('a' + r.nextID)), Phone: phone, CreatedAt: time.Now()}
	r.byPhone[phone] = u
	return u, nil
}

func (r *fakeUserRepo) SetPasswordHash(ctx context.Context, userID string, hash []byte) error {
	for _, u := range r.byPhone {
		if u.ID == userID {
			r.setHash[userID] = hash
			return nil
		}
	}
	return common.ErrNotFound
}

type fakeChallengeRepo struct {
	latest *Challenge
}

func (r *fakeChallengeRepo) Create(ctx context.Context, c *Challenge) (*Challenge, error) {
	c.ID = "ch1"
	c.CreatedAt = time.Now()
	r.latest = c
	return c, nil
}

func (r *fakeChallengeRepo) Latest(ctx context.Context, phone string) (*Challenge, error) {
	if r.latest == nil || r.latest.Phone != phone {
		return nil, common.ErrNotFound
	}
	cp := *r.latest
	return &cp, nil
}

func (r *fakeChallengeRepo) RecordAttempt(ctx context.Context, id string) error {
	r.latest.Attempts++
	return nil
}

func (r *fakeChallengeRepo) Consume(ctx context.Context, id string) error {
	now := time.Now()
	r.latest.ConsumedAt = &now
	return nil
}

type captureSender struct {
	phone string
	code  string
}

func (s *captureSender) SendCode(ctx context.Context, phone, code string) error {
	s.phone = phone
	s.code = code
	return nil
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	return c
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeChallengeRepo, *captureSender) {
	t.Helper()
	repo := newFakeUserRepo()
	challenges := &fakeChallengeRepo{}
	sender := &captureSender{}
	return NewService(repo, challenges, sender, testConfig()), repo, challenges, sender
}

func TestRequestOTP_SendsSixDigitCode(t *testing.T) {
	s, _, challenges, sender := newTestService(t)
	ctx := context.Background()

	err := s.RequestOTP(ctx, "555-123-4567")
	require.NoError(t, err)

	assert.Equal(t, "5551234567", sender.phone)
	assert.Len(t, sender.code, 6)

	require.NotNil(t, challenges.latest)
	assert.NoError(t, bcrypt.CompareHashAndPassword(challenges.latest.CodeHash, []byte(sender.code)))
	assert.True(t, challenges.latest.ExpiresAt.After(time.Now()))
}

func TestRequestOTP_RejectsBadPhone(t *testing.T) {
	s, _, _, _ := newTestService(t)

	err := s.RequestOTP(context.Background(), "123")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestVerifyOTP_CreatesUserAndIssuesToken(t *testing.T) {
	s, repo, _, sender := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.RequestOTP(ctx, "5551234567"))

	user, token, err := s.VerifyOTP(ctx, "5551234567", sender.code)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "5551234567", user.Phone)

	gotID, err := auth.GetUserIDFromToken(token, []byte(testConfig().SecretKey))
	require.NoError(t, err)
	assert.Equal(t, user.ID, gotID)

	// Same phone verifies into the same account next time.
	require.NoError(t, s.RequestOTP(ctx, "5551234567"))
	again, _, err := s.VerifyOTP(ctx, "5551234567", sender.code)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Len(t, repo.byPhone, 1)
}

func TestVerifyOTP_WrongCodeCountsAttempt(t *testing.T) {
	s, _, challenges, sender := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.RequestOTP(ctx, "5551234567"))

	wrong := "000000"
	if wrong == sender.code {
		wrong = "000001"
	}

	_, _, err := s.VerifyOTP(ctx, "5551234567", wrong)
	require.ErrorIs(t, err, common.ErrOTPRejected)
	assert.Equal(t, 1, challenges.latest.Attempts)

	// The correct code still works within the attempt budget.
	_, _, err = s.VerifyOTP(ctx, "5551234567", sender.code)
	require.NoError(t, err)
}

func TestVerifyOTP_AttemptBudgetExhausted(t *testing.T) {
	s, _, challenges, sender := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.RequestOTP(ctx, "5551234567"))
	challenges.latest.Attempts = testConfig().OTPMaxAttempts

	_, _, err := s.VerifyOTP(ctx, "5551234567", sender.code)
	require.ErrorIs(t, err, common.ErrOTPRejected)
}

func TestVerifyOTP_ExpiredCode(t *testing.T) {
	s, _, _, sender := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.RequestOTP(ctx, "5551234567"))

	s.now = func() time.Time { return time.Now().Add(time.Hour) }

	_, _, err := s.VerifyOTP(ctx, "5551234567", sender.code)
	require.ErrorIs(t, err, common.ErrOTPRejected)
}

func TestVerifyOTP_CannotReplayConsumedCode(t *testing.T) {
	s, _, _, sender := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.RequestOTP(ctx, "5551234567"))
	_, _, err := s.VerifyOTP(ctx, "5551234567", sender.code)
	require.NoError(t, err)

	_, _, err = s.VerifyOTP(ctx, "5551234567", sender.code)
	require.ErrorIs(t, err, common.ErrOTPRejected)
}

func TestVerifyOTP_NoChallengeIssued(t *testing.T) {
	s, _, _, _ := newTestService(t)

	_, _, err := s.VerifyOTP(context.Background(), "5551234567", "123456")
	require.ErrorIs(t, err, common.ErrOTPRejected)
}

func TestResetPassword(t *testing.T) {
	s, repo, _, sender := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.RequestOTP(ctx, "5551234567"))
	user, _, err := s.VerifyOTP(ctx, "5551234567", sender.code)
	require.NoError(t, err)

	err = s.ResetPassword(ctx, user.ID, "weak")
	require.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, s.ResetPassword(ctx, user.ID, "Sup3rSecret"))
	hash := repo.setHash[user.ID]
	require.NotEmpty(t, hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("Sup3rSecret")))

	err = s.ResetPassword(ctx, "missing", "Sup3rSecret")
	require.ErrorIs(t, err, common.ErrNotFound)
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/goverify/internal/pkg/config"
	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/pkg/mail"
	"github.com/shandysiswandi/goverify/internal/pkg/validator"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	records map[string]entity.OTP
	ttls    map[string]time.Duration
	putErr  error
	getErr  error
	delErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		records: make(map[string]entity.OTP),
		ttls:    make(map[string]time.Duration),
	}
}

func (f *fakeCache) Put(_ context.Context, otp entity.OTP, ttl time.Duration) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.records[otp.Email] = otp
	f.ttls[otp.Email] = ttl
	return nil
}

func (f *fakeCache) Get(_ context.Context, email string) (*entity.OTP, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	record, ok := f.records[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &record, nil
}

func (f *fakeCache) Delete(_ context.Context, email string) error {
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.records, email)
	delete(f.ttls, email)
	return nil
}

type fakeDirectory struct {
	emails []string
	err    error
	calls  int
}

func (f *fakeDirectory) ListGroupEmails(_ context.Context, _ int64) ([]string, error) {
	f.calls++
	return f.emails, f.err
}

type fakeMail struct {
	sent []mail.Message
	err  error
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fixedClock struct {
	now time.Time
}

func (f *fixedClock) Now() time.Time {
	return f.now
}

type fixedOTP struct {
	codes []string
	next  int
}

func (f *fixedOTP) Generate() string {
	code := f.codes[f.next%len(f.codes)]
	f.next++
	return code
}

type fixture struct {
	uc    *Usecase
	cache *fakeCache
	dir   *fakeDirectory
	mail  *fakeMail
	clock *fixedClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
directory:
  group_id: 42
modules:
  verification:
    otp_ttl_seconds: 300
`))
	require.NoError(t, err)

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	f := &fixture{
		cache: newFakeCache(),
		dir:   &fakeDirectory{emails: []string{"alice@example.com", "bob@example.com"}},
		mail:  &fakeMail{},
		clock: &fixedClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)},
	}

	f.uc = NewVerification(Dependency{
		RepoCache:     f.cache,
		RepoDirectory: f.dir,
		RepoMail:      f.mail,
		Config:        cfg,
		Clock:         f.clock,
		OTP:           &fixedOTP{codes: []string{"123456", "654321"}},
		Validator:     v10,
		Instrument:    instrument.NewNoop(),
	})

	return f
}

func assertBusinessError(t *testing.T, err error, msg string) {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, msg, gerr.Msg())
	assert.Equal(t, goerror.TypeBusiness, gerr.Type())
}

func TestOTPSend(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.OTPSend(context.Background(), OTPSendInput{Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", out.Email)
	assert.Equal(t, "123456", out.Code)

	record, ok := f.cache.records["alice@example.com"]
	require.True(t, ok)
	assert.Equal(t, "123456", record.Code)
	assert.Equal(t, f.clock.now, record.IssuedAt)
	assert.Equal(t, 300*time.Second, f.cache.ttls["alice@example.com"])

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, []string{"alice@example.com"}, f.mail.sent[0].To)
	assert.Contains(t, f.mail.sent[0].TextBody, "123456")
	assert.Contains(t, f.mail.sent[0].TextBody, "5 minutes")
}

func TestOTPSendInvalidEmailFormat(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.OTPSend(context.Background(), OTPSendInput{Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, 0, f.dir.calls)
}

func TestOTPSendUnauthorizedEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.OTPSend(context.Background(), OTPSendInput{Email: "mallory@example.com"})
	assertBusinessError(t, err, "Invalid email")

	assert.Empty(t, f.cache.records)
	assert.Empty(t, f.mail.sent)
}

func TestOTPSendDirectoryFailure(t *testing.T) {
	f := newFixture(t)
	f.dir.err = errors.New("directory unreachable")

	_, err := f.uc.OTPSend(context.Background(), OTPSendInput{Email: "alice@example.com"})
	require.Error(t, err)
	assert.Empty(t, f.cache.records)
}

func TestOTPSendDeliveryFailure(t *testing.T) {
	f := newFixture(t)
	f.mail.err = errors.New("smtp down")

	_, err := f.uc.OTPSend(context.Background(), OTPSendInput{Email: "alice@example.com"})
	assertBusinessError(t, err, "Failed to send OTP")

	// The record is stored before delivery, so it persists after the failure.
	_, ok := f.cache.records["alice@example.com"]
	assert.True(t, ok)
}

func TestOTPSendOverwritesPendingCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.uc.OTPSend(ctx, OTPSendInput{Email: "alice@example.com"})
	require.NoError(t, err)

	second, err := f.uc.OTPSend(ctx, OTPSendInput{Email: "alice@example.com"})
	require.NoError(t, err)
	require.NotEqual(t, first.Code, second.Code)

	_, err = f.uc.OTPVerify(ctx, OTPVerifyInput{Email: "alice@example.com", Code: first.Code})
	assertBusinessError(t, err, "Invalid OTP")

	out, err := f.uc.OTPVerify(ctx, OTPVerifyInput{Email: "alice@example.com", Code: second.Code})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", out.Email)
}

func TestOTPVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sent, err := f.uc.OTPSend(ctx, OTPSendInput{Email: "alice@example.com"})
	require.NoError(t, err)

	out, err := f.uc.OTPVerify(ctx, OTPVerifyInput{Email: "alice@example.com", Code: sent.Code})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", out.Email)

	// Success consumes the record, so a second attempt finds nothing.
	_, err = f.uc.OTPVerify(ctx, OTPVerifyInput{Email: "alice@example.com", Code: sent.Code})
	assertBusinessError(t, err, "No OTP found for this email")
}

func TestOTPVerifyNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.OTPVerify(context.Background(), OTPVerifyInput{Email: "alice@example.com", Code: "123456"})
	assertBusinessError(t, err, "No OTP found for this email")
}

func TestOTPVerifyExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sent, err := f.uc.OTPSend(ctx, OTPSendInput{Email: "alice@example.com"})
	require.NoError(t, err)

	f.clock.now = f.clock.now.Add(300 * time.Second)

	// A correct code past the window still fails as expired.
	_, err = f.uc.OTPVerify(ctx, OTPVerifyInput{Email: "alice@example.com", Code: sent.Code})
	assertBusinessError(t, err, "OTP has expired")

	// Expiry consumes the record.
	_, err = f.uc.OTPVerify(ctx, OTPVerifyInput{Email: "alice@example.com", Code: sent.Code})
	assertBusinessError(t, err, "No OTP found for this email")
}

func TestOTPVerifyMismatchKeepsRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sent, err := f.uc.OTPSend(ctx, OTPSendInput{Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = f.uc.OTPVerify(ctx, OTPVerifyInput{Email: "alice@example.com", Code: "000000"})
	assertBusinessError(t, err, "Invalid OTP")

	out, err := f.uc.OTPVerify(ctx, OTPVerifyInput{Email: "alice@example.com", Code: sent.Code})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", out.Email)
}

func TestOTPVerifyJustInsideWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sent, err := f.uc.OTPSend(ctx, OTPSendInput{Email: "alice@example.com"})
	require.NoError(t, err)

	f.clock.now = f.clock.now.Add(299 * time.Second)

	out, err := f.uc.OTPVerify(ctx, OTPVerifyInput{Email: "alice@example.com", Code: sent.Code})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", out.Email)
}

package otp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/notify/mocks"
	"github.com/chris/retailer-services/pkg/storage"
	"github.com/chris/retailer-services/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const mobile = "9876543210"

type fixture struct {
	mu     sync.Mutex
	now    time.Time
	codes  []string
	store  *memory.Store
	sender *mocks.Sender
	mgr    *Manager
}

func newFixture(t *testing.T, codes ...string) *fixture {
	f := &fixture{
		now:    time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		codes:  codes,
		sender: mocks.NewSender(t),
	}
	f.store = memory.New(memory.WithClock(f.clock))
	f.mgr = NewManager(f.store, f.sender, DefaultConfig(),
		WithClock(f.clock),
		WithHashCost(bcrypt.MinCost),
		WithCodeGenerator(f.nextCode),
	)
	return f
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func (f *fixture) nextCode(length int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.codes) == 0 {
		return "", errors.New("no more codes")
	}
	code := f.codes[0]
	f.codes = f.codes[1:]
	return code, nil
}

func TestSendAndVerify(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "123456")
	f.sender.On("SendCode", mock.Anything, mobile, "123456").Return(nil).Once()

	issued, err := f.mgr.Send(ctx, mobile, models.PurposeLogin, nil)
	require.NoError(t, err)
	assert.Equal(t, f.clock().Add(5*time.Minute), issued.ExpiresAt)
	assert.Equal(t, 3, issued.RemainingResends)

	require.NoError(t, f.mgr.Verify(ctx, mobile, models.PurposeLogin, "123456"))

	t.Run("Second Verify Finds No Active Challenge", func(t *testing.T) {
		err := f.mgr.Verify(ctx, mobile, models.PurposeLogin, "123456")
		assert.ErrorIs(t, err, apperr.ErrNoActiveChallenge)
	})

	t.Run("Purposes Are Independent", func(t *testing.T) {
		err := f.mgr.Verify(ctx, mobile, models.PurposeRegister, "123456")
		assert.ErrorIs(t, err, apperr.ErrNoActiveChallenge)
	})
}

func TestVerify_LocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "123456")
	f.sender.On("SendCode", mock.Anything, mobile, "123456").Return(nil).Once()

	_, err := f.mgr.Send(ctx, mobile, models.PurposeRegister, nil)
	require.NoError(t, err)

	for want := 4; want >= 0; want-- {
		err := f.mgr.Verify(ctx, mobile, models.PurposeRegister, "000000")
		var invalid *InvalidCodeError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, want, invalid.Remaining)
		assert.ErrorIs(t, err, apperr.ErrInvalidCode)
	}

	err = f.mgr.Verify(ctx, mobile, models.PurposeRegister, "123456")
	assert.ErrorIs(t, err, apperr.ErrLocked)

	ch, err := f.store.GetChallenge(ctx, mobile, models.PurposeRegister)
	require.NoError(t, err)
	assert.True(t, ch.Locked)
	assert.True(t, ch.Used)
	assert.Equal(t, 5, ch.Attempts)
}

func TestResend_LimitLeavesChallengeUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "111111", "222222", "333333", "444444", "555555")
	f.sender.On("SendCode", mock.Anything, mobile, mock.Anything).Return(nil).Times(4)

	_, err := f.mgr.Send(ctx, mobile, models.PurposeLogin, nil)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		f.advance(time.Minute)
		issued, err := f.mgr.Resend(ctx, mobile, models.PurposeLogin, nil)
		require.NoError(t, err)
		assert.Equal(t, i, issued.ResendCount)
	}

	before, err := f.store.GetChallenge(ctx, mobile, models.PurposeLogin)
	require.NoError(t, err)

	_, err = f.mgr.Resend(ctx, mobile, models.PurposeLogin, nil)
	assert.ErrorIs(t, err, apperr.ErrResendLimitExceeded)

	after, err := f.store.GetChallenge(ctx, mobile, models.PurposeLogin)
	require.NoError(t, err)
	assert.Equal(t, before.CodeHash, after.CodeHash)
	assert.Equal(t, before.ExpiresAt, after.ExpiresAt)
	assert.Equal(t, 3, after.ResendCount)

	assert.NoError(t, f.mgr.Verify(ctx, mobile, models.PurposeLogin, "444444"))
}

func TestResend_ResetsAttempts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "111111", "222222")
	f.sender.On("SendCode", mock.Anything, mobile, mock.Anything).Return(nil).Twice()

	_, err := f.mgr.Send(ctx, mobile, models.PurposeLogin, nil)
	require.NoError(t, err)
	for range 3 {
		require.Error(t, f.mgr.Verify(ctx, mobile, models.PurposeLogin, "999999"))
	}

	_, err = f.mgr.Resend(ctx, mobile, models.PurposeLogin, nil)
	require.NoError(t, err)

	ch, err := f.store.GetChallenge(ctx, mobile, models.PurposeLogin)
	require.NoError(t, err)
	assert.Zero(t, ch.Attempts)

	assert.ErrorIs(t, f.mgr.Verify(ctx, mobile, models.PurposeLogin, "111111"), apperr.ErrInvalidCode)
	assert.NoError(t, f.mgr.Verify(ctx, mobile, models.PurposeLogin, "222222"))
}

func TestResend_WithoutActiveChallengeSendsFresh(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "111111")
	f.sender.On("SendCode", mock.Anything, mobile, "111111").Return(nil).Once()

	issued, err := f.mgr.Resend(ctx, mobile, models.PurposeLogin, nil)
	require.NoError(t, err)
	assert.Zero(t, issued.ResendCount)
	assert.NoError(t, f.mgr.Verify(ctx, mobile, models.PurposeLogin, "111111"))
}

func TestVerify_ExpiredEvenWithMatchingCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "123456")
	f.sender.On("SendCode", mock.Anything, mobile, "123456").Return(nil).Once()

	_, err := f.mgr.Send(ctx, mobile, models.PurposeLogin, nil)
	require.NoError(t, err)

	f.advance(5*time.Minute + time.Second)
	err = f.mgr.Verify(ctx, mobile, models.PurposeLogin, "123456")
	assert.ErrorIs(t, err, apperr.ErrExpired)
	assert.Equal(t, apperr.KindExpired, apperr.KindOf(err))
}

func TestSend_DeliveryFailureRemovesChallenge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "123456")
	f.sender.On("SendCode", mock.Anything, mobile, "123456").Return(errors.New("sms gateway down")).Once()

	_, err := f.mgr.Send(ctx, mobile, models.PurposeRegister, nil)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))

	_, err = f.store.GetChallenge(ctx, mobile, models.PurposeRegister)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestResend_DeliveryFailureRestoresPreviousCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "111111", "222222")
	f.sender.On("SendCode", mock.Anything, mobile, "111111").Return(nil).Once()
	f.sender.On("SendCode", mock.Anything, mobile, "222222").Return(errors.New("sms gateway down")).Once()

	_, err := f.mgr.Send(ctx, mobile, models.PurposeLogin, nil)
	require.NoError(t, err)

	_, err = f.mgr.Resend(ctx, mobile, models.PurposeLogin, nil)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))

	ch, err := f.store.GetChallenge(ctx, mobile, models.PurposeLogin)
	require.NoError(t, err)
	assert.Zero(t, ch.ResendCount)
	assert.NoError(t, f.mgr.Verify(ctx, mobile, models.PurposeLogin, "111111"))
}

func TestSend_ConcurrentFailedDeliveryKeepsNewerChallenge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "111111", "222222")
	delivering := make(chan struct{})
	release := make(chan struct{})
	f.sender.On("SendCode", mock.Anything, mobile, "111111").
		Run(func(mock.Arguments) {
			close(delivering)
			<-release
		}).
		Return(errors.New("sms gateway down")).Once()
	f.sender.On("SendCode", mock.Anything, mobile, "222222").Return(nil).Once()

	failed := make(chan error, 1)
	go func() {
		_, err := f.mgr.Send(ctx, mobile, models.PurposeLogin, nil)
		failed <- err
	}()
	<-delivering

	_, err := f.mgr.Send(ctx, mobile, models.PurposeLogin, nil)
	require.NoError(t, err)
	close(release)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(<-failed))

	ch, err := f.store.GetChallenge(ctx, mobile, models.PurposeLogin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ch.Version)
	assert.NoError(t, f.mgr.Verify(ctx, mobile, models.PurposeLogin, "222222"))
}

func TestSend_GuardRejects(t *testing.T) {
	f := newFixture(t, "123456")
	guard := func(ctx context.Context, subject string, purpose models.OtpPurpose) error {
		return apperr.ErrAlreadyRegistered
	}

	_, err := f.mgr.Send(context.Background(), mobile, models.PurposeRegister, guard)
	assert.ErrorIs(t, err, apperr.ErrAlreadyRegistered)
	f.sender.AssertNotCalled(t, "SendCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_ReplacesPreviousChallenge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "111111", "222222")
	f.sender.On("SendCode", mock.Anything, mobile, mock.Anything).Return(nil).Twice()

	_, err := f.mgr.Send(ctx, mobile, models.PurposeLogin, nil)
	require.NoError(t, err)
	_, err = f.mgr.Send(ctx, mobile, models.PurposeLogin, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, f.mgr.Verify(ctx, mobile, models.PurposeLogin, "111111"), apperr.ErrInvalidCode)
	assert.NoError(t, f.mgr.Verify(ctx, mobile, models.PurposeLogin, "222222"))
}

func TestVerify_ConcurrentConsumersOnlyOneWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "123456")
	f.sender.On("SendCode", mock.Anything, mobile, "123456").Return(nil).Once()

	_, err := f.mgr.Send(ctx, mobile, models.PurposeLogin, nil)
	require.NoError(t, err)

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.mgr.Verify(ctx, mobile, models.PurposeLogin, "123456")
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.True(t,
			errors.Is(err, apperr.ErrAlreadyUsedChallenge) || errors.Is(err, apperr.ErrNoActiveChallenge),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, successes)
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "123456")
	f.sender.On("SendCode", mock.Anything, mobile, "123456").Return(nil).Once()

	_, err := f.mgr.Send(ctx, mobile, models.PurposeLogin, nil)
	require.NoError(t, err)

	removed, err := f.mgr.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	f.advance(10 * time.Minute)
	removed, err = f.mgr.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestRandomDigits(t *testing.T) {
	code, err := RandomDigits(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}

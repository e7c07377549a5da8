package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/replyhub/replyhub-backend/pkg/types"
)

// Proactive renewal fires this long before the session expires.
const renewalLead = 60 * time.Second

// ErrRefreshRejected marks a terminal rejection: the refresh token itself was
// refused, so retrying with the same credentials cannot succeed.
var ErrRefreshRejected = errors.New("refresh token rejected")

// RefreshFunc exchanges the current session for a new one.
type RefreshFunc func(ctx context.Context, current types.Session) (types.Session, error)

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Scheduler abstracts timer creation. Schedule runs fn after d and returns a
// cancel function.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

func (timerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

type refreshOutcome struct {
	session types.Session
	err     error
}

// RefreshCoordinator serializes refresh attempts: one caller performs the
// exchange while concurrent callers wait for the shared outcome. It also owns
// the proactive renewal timer.
type RefreshCoordinator struct {
	refresh   RefreshFunc
	store     *SessionStore
	clock     Clock
	scheduler Scheduler

	mu          sync.Mutex
	inFlight    bool
	waiters     []chan refreshOutcome
	cancelTimer func()
}

// CoordinatorOptions configures a RefreshCoordinator. Clock and Scheduler
// default to the real ones.
type CoordinatorOptions struct {
	Refresh   RefreshFunc
	Store     *SessionStore
	Clock     Clock
	Scheduler Scheduler
}

func NewRefreshCoordinator(opts CoordinatorOptions) (*RefreshCoordinator, error) {
	if opts.Refresh == nil {
		return nil, errors.New("refresh func required")
	}
	if opts.Store == nil {
		return nil, errors.New("session store required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = timerScheduler{}
	}
	return &RefreshCoordinator{
		refresh:   opts.Refresh,
		store:     opts.Store,
		clock:     clock,
		scheduler: scheduler,
	}, nil
}

// Refresh performs a single-flight token refresh. Concurrent callers block
// until the in-flight attempt completes and then share its outcome.
func (c *RefreshCoordinator) Refresh(ctx context.Context) (types.Session, error) {
	c.mu.Lock()
	if c.inFlight {
		waiter := make(chan refreshOutcome, 1)
		c.waiters = append(c.waiters, waiter)
		c.mu.Unlock()

		select {
		case outcome := <-waiter:
			return outcome.session, outcome.err
		case <-ctx.Done():
			return types.Session{}, ctx.Err()
		}
	}
	c.inFlight = true
	c.mu.Unlock()

	var outcome refreshOutcome
	// The flag and waiters are released in a defer so a panic inside the
	// refresh func cannot wedge every future caller.
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		waiters := c.waiters
		c.waiters = nil
		c.mu.Unlock()
		for _, waiter := range waiters {
			waiter <- outcome
		}
	}()

	current, _ := c.store.LoadSession()
	session, err := c.refresh(ctx, current)
	if err != nil {
		outcome = refreshOutcome{err: err}
		return types.Session{}, err
	}

	if err := c.store.SaveSession(session); err != nil {
		outcome = refreshOutcome{err: err}
		return types.Session{}, err
	}
	c.scheduleRenewal(session)

	outcome = refreshOutcome{session: session}
	return session, nil
}

// SessionStored registers a session obtained outside the coordinator (signin,
// signup) and arms the proactive renewal timer for it.
func (c *RefreshCoordinator) SessionStored(session types.Session) {
	c.scheduleRenewal(session)
}

// Stop cancels any pending renewal timer.
func (c *RefreshCoordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelTimer != nil {
		c.cancelTimer()
		c.cancelTimer = nil
	}
}

func (c *RefreshCoordinator) scheduleRenewal(session types.Session) {
	delay := session.Expiry().Sub(c.clock.Now()) - renewalLead
	if delay < 0 {
		delay = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelTimer != nil {
		c.cancelTimer()
	}
	c.cancelTimer = c.scheduler.Schedule(delay, func() {
		_, _ = c.Refresh(context.Background())
	})
}

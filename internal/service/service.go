package service

import (
	"errors"
	"time"

	"github.com/golang-sql/civil"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"meditrack/internal/auth"
	"meditrack/internal/model"
	"meditrack/internal/ratelimit"
	"meditrack/internal/store"
)

// UserStore is the persistence the tracker needs. *store.Store
// satisfies it.
type UserStore interface {
	UserExists(username string) (bool, error)
	LoadUser(username string) (*model.User, error)
	SaveUser(u *model.User) error
}

type Options struct {
	Clock         clockwork.Clock
	Limiter       *ratelimit.Limiter
	SessionSecret string
	SessionTTL    time.Duration
	Logger        *zap.Logger
}

// Tracker holds no session state: every operation names the user it
// acts for.
type Tracker struct {
	store   UserStore
	clock   clockwork.Clock
	limiter *ratelimit.Limiter
	secret  string
	ttl     time.Duration
	log     *zap.Logger
}

func New(st UserStore, opts Options) *Tracker {
	t := &Tracker{
		store:   st,
		clock:   opts.Clock,
		limiter: opts.Limiter,
		secret:  opts.SessionSecret,
		ttl:     opts.SessionTTL,
		log:     opts.Logger,
	}
	if t.clock == nil {
		t.clock = clockwork.NewRealClock()
	}
	if t.limiter == nil {
		t.limiter = ratelimit.New(30*time.Second, 5, 10*time.Minute)
	}
	if t.secret == "" {
		// sessions then end with the process
		if secret, err := auth.NewSecret(); err == nil {
			t.secret = secret
		}
	}
	if t.ttl <= 0 {
		t.ttl = 15 * time.Minute
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	t.log = t.log.With(zap.String("component", "tracker"))
	return t
}

// Today is the reference date for every date rule.
func (t *Tracker) Today() civil.Date {
	return civil.DateOf(t.clock.Now())
}

// user loads the acting user. An unknown name is an authentication
// failure: the caller holds an identity that is no longer valid.
func (t *Tracker) user(username string) (*model.User, error) {
	u, err := t.store.LoadUser(username)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrAuthentication
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return u, nil
}

func (t *Tracker) save(u *model.User) error {
	if err := t.store.SaveUser(u); err != nil {
		t.log.Error("save failed", zap.String("username", u.Username), zap.Error(err))
		return storageErr(err)
	}
	return nil
}

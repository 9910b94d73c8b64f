package service

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"meditrack/internal/auth"
	"meditrack/internal/model"
	"meditrack/internal/store"
)

// Registration is raw shell input. Text fields are trimmed; passwords
// are taken as given.
type Registration struct {
	Username         string
	Name             string
	Password         string
	ConfirmPassword  string
	EmergencyContact string
	EmergencyPhone   string
}

func (t *Tracker) Register(r Registration) (*model.User, error) {
	username := strings.TrimSpace(r.Username)
	name := strings.TrimSpace(r.Name)

	if username == "" {
		return nil, invalid("username cannot be empty")
	}
	exists, err := t.store.UserExists(username)
	if err != nil {
		return nil, storageErr(err)
	}
	if exists {
		return nil, invalid("username already exists")
	}
	if name == "" {
		return nil, invalid("name cannot be empty")
	}
	if r.Password == "" {
		return nil, invalid("password cannot be empty")
	}
	if r.Password != r.ConfirmPassword {
		return nil, invalid("passwords don't match")
	}

	hash, err := auth.HashPassword(r.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := model.NewUser(username, hash, name)
	u.EmergencyContact = strings.TrimSpace(r.EmergencyContact)
	u.EmergencyPhone = strings.TrimSpace(r.EmergencyPhone)

	if err := t.save(u); err != nil {
		return nil, err
	}
	t.log.Info("user registered", zap.String("username", username))
	return u, nil
}

// Authenticate never says whether the username or the password was
// wrong. Repeated failures for one username are throttled.
func (t *Tracker) Authenticate(username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	now := t.clock.Now()

	if !t.limiter.Allowed(username, now) {
		t.log.Warn("login throttled", zap.String("username", username))
		return nil, ErrTooManyAttempts
	}

	u, err := t.store.LoadUser(username)
	if err != nil && !errors.Is(err, store.ErrUserNotFound) {
		return nil, storageErr(err)
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		t.limiter.Fail(username, now)
		t.log.Info("login failed", zap.String("username", username))
		return nil, fmt.Errorf("%w: invalid username or password", ErrAuthentication)
	}
	t.limiter.Reset(username)

	if !auth.IsHashed(u.PasswordHash) {
		t.upgradePassword(u, password)
	}
	return u, nil
}

// upgradePassword replaces a legacy plaintext password with its hash.
// Failure is logged, not returned: the login itself succeeded.
func (t *Tracker) upgradePassword(u *model.User, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.log.Warn("password upgrade: hash failed", zap.Error(err))
		return
	}
	plain := u.PasswordHash
	u.PasswordHash = hash
	if err := t.save(u); err != nil {
		u.PasswordHash = plain
		return
	}
	t.log.Info("legacy password upgraded", zap.String("username", u.Username))
}

func (t *Tracker) ChangePassword(username, current, newPassword, confirm string) error {
	u, err := t.user(username)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, current) {
		return fmt.Errorf("%w: current password incorrect", ErrAuthentication)
	}
	if newPassword == "" {
		return invalid("password cannot be empty")
	}
	if newPassword != confirm {
		return invalid("passwords don't match")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	if err := t.save(u); err != nil {
		return err
	}
	t.log.Info("password changed", zap.String("username", username))
	return nil
}

// StartSession issues an idle session token for u.
func (t *Tracker) StartSession(u *model.User) (string, error) {
	tok, err := auth.MakeToken(u.Username, t.secret, t.ttl, t.clock.Now())
	if err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}
	return tok, nil
}

// ResumeSession returns the user behind a live token. Expired or forged
// tokens are ErrAuthentication.
func (t *Tracker) ResumeSession(token string) (*model.User, error) {
	c, err := auth.ParseToken(token, t.secret, t.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: session expired", ErrAuthentication)
	}
	return t.user(c.Username)
}

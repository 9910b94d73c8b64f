package config

import (
	"errors"
	"fmt"
	"strings"
)

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, errors.New("store.path is required"))
	}
	if c.Session.IdleTTL <= 0 {
		errs = append(errs, fmt.Errorf("session.idle_ttl must be positive, got %s", c.Session.IdleTTL))
	}
	if c.Login.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("login.max_failures must be at least 1, got %d", c.Login.MaxFailures))
	}
	if c.Login.RefillEvery <= 0 {
		errs = append(errs, fmt.Errorf("login.refill_every must be positive, got %s", c.Login.RefillEvery))
	}
	if c.Login.ForgetAfter < c.Login.RefillEvery {
		errs = append(errs, errors.New("login.forget_after must not be shorter than login.refill_every"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

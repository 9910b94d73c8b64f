package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meditrack/internal/auth"
	"meditrack/internal/model"
	"meditrack/internal/service"
)

func TestRegister(t *testing.T) {
	e := setup(t)

	u, err := e.tr.Register(service.Registration{
		Username: "alice", Name: "Alice A", Password: "pw1", ConfirmPassword: "pw1",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "Alice A", u.Name)
	assert.Empty(t, u.EmergencyContact)
	assert.Empty(t, u.EmergencyPhone)

	// stored hashed, never as given
	stored, err := e.st.LoadUser("alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.PasswordHash)
	assert.True(t, auth.IsHashed(stored.PasswordHash))
}

func TestRegisterDuplicate(t *testing.T) {
	e := setup(t)
	registerUser(t, e.tr, "alice")

	_, err := e.tr.Register(service.Registration{
		Username: "alice", Name: "Other", Password: "pw2", ConfirmPassword: "pw2",
	})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, 1, e.st.saves)
}

func TestRegisterValidation(t *testing.T) {
	e := setup(t)

	tests := []struct {
		name string
		req  service.Registration
	}{
		{"empty username", service.Registration{Username: " ", Name: "X", Password: "pw", ConfirmPassword: "pw"}},
		{"empty name", service.Registration{Username: "x", Name: "", Password: "pw", ConfirmPassword: "pw"}},
		{"empty password", service.Registration{Username: "x", Name: "X", Password: "", ConfirmPassword: ""}},
		{"mismatch", service.Registration{Username: "x", Name: "X", Password: "pw", ConfirmPassword: "wp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.tr.Register(tt.req)
			assert.ErrorIs(t, err, service.ErrValidation)
		})
	}
	assert.Zero(t, e.st.saves)
}

func TestRegisterEmergencyContact(t *testing.T) {
	e := setup(t)
	_, err := e.tr.Register(service.Registration{
		Username: "alice", Name: "Alice", Password: "pw", ConfirmPassword: "pw",
		EmergencyContact: " Bob ", EmergencyPhone: "555-0100",
	})
	require.NoError(t, err)

	u, err := e.st.LoadUser("alice")
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.EmergencyContact)
	assert.Equal(t, "555-0100", u.EmergencyPhone)
}

func TestAuthenticate(t *testing.T) {
	e := setup(t)
	registerUser(t, e.tr, "alice")

	u, err := e.tr.Authenticate("alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "Test User", u.Name)
}

func TestAuthenticateFailuresLookAlike(t *testing.T) {
	e := setup(t)
	registerUser(t, e.tr, "alice")

	_, wrongPw := e.tr.Authenticate("alice", "nope")
	_, noUser := e.tr.Authenticate("nobody", "pw1")

	assert.ErrorIs(t, wrongPw, service.ErrAuthentication)
	assert.ErrorIs(t, noUser, service.ErrAuthentication)
	assert.Equal(t, wrongPw.Error(), noUser.Error())
}

func TestAuthenticateThrottled(t *testing.T) {
	e := setup(t)
	registerUser(t, e.tr, "alice")

	for i := 0; i < 3; i++ {
		_, err := e.tr.Authenticate("alice", "nope")
		require.ErrorIs(t, err, service.ErrAuthentication)
	}

	// even the right password is refused while throttled
	_, err := e.tr.Authenticate("alice", "pw1")
	assert.ErrorIs(t, err, service.ErrTooManyAttempts)

	e.clock.Advance(31 * time.Second)
	_, err = e.tr.Authenticate("alice", "pw1")
	assert.NoError(t, err)
}

func TestAuthenticateSuccessResetsThrottle(t *testing.T) {
	e := setup(t)
	registerUser(t, e.tr, "alice")

	for i := 0; i < 2; i++ {
		_, _ = e.tr.Authenticate("alice", "nope")
	}
	_, err := e.tr.Authenticate("alice", "pw1")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _ = e.tr.Authenticate("alice", "nope")
	}
	_, err = e.tr.Authenticate("alice", "pw1")
	assert.NoError(t, err)
}

func TestAuthenticateUpgradesLegacyPassword(t *testing.T) {
	e := setup(t)
	require.NoError(t, e.st.SaveUser(model.NewUser("legacy", "plainpw", "Old Timer")))

	_, err := e.tr.Authenticate("legacy", "plainpw")
	require.NoError(t, err)

	u, err := e.st.LoadUser("legacy")
	require.NoError(t, err)
	assert.True(t, auth.IsHashed(u.PasswordHash))

	_, err = e.tr.Authenticate("legacy", "plainpw")
	assert.NoError(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	e := setup(t)
	registerUser(t, e.tr, "alice")

	err := e.tr.ChangePassword("alice", "wrong", "pw2", "pw2")
	assert.ErrorIs(t, err, service.ErrAuthentication)

	_, err = e.tr.Authenticate("alice", "pw1")
	assert.NoError(t, err)
}

func TestChangePasswordValidation(t *testing.T) {
	e := setup(t)
	registerUser(t, e.tr, "alice")

	assert.ErrorIs(t, e.tr.ChangePassword("alice", "pw1", "", ""), service.ErrValidation)
	assert.ErrorIs(t, e.tr.ChangePassword("alice", "pw1", "pw2", "pw3"), service.ErrValidation)

	_, err := e.tr.Authenticate("alice", "pw1")
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	e := setup(t)
	registerUser(t, e.tr, "alice")

	require.NoError(t, e.tr.ChangePassword("alice", "pw1", "pw2", "pw2"))

	_, err := e.tr.Authenticate("alice", "pw2")
	assert.NoError(t, err)
	_, err = e.tr.Authenticate("alice", "pw1")
	assert.ErrorIs(t, err, service.ErrAuthentication)
}

func TestSession(t *testing.T) {
	e := setup(t)
	u := registerUser(t, e.tr, "alice")

	tok, err := e.tr.StartSession(u)
	require.NoError(t, err)

	e.clock.Advance(10 * time.Minute)
	got, err := e.tr.ResumeSession(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	e.clock.Advance(6 * time.Minute)
	_, err = e.tr.ResumeSession(tok)
	assert.ErrorIs(t, err, service.ErrAuthentication)
}

func TestSessionForged(t *testing.T) {
	e := setup(t)
	tok, err := auth.MakeToken("alice", "other-secret", time.Hour, now)
	require.NoError(t, err)

	_, err = e.tr.ResumeSession(tok)
	assert.ErrorIs(t, err, service.ErrAuthentication)
}

func TestUnknownUser(t *testing.T) {
	e := setup(t)

	_, err := e.tr.ListMedicines("ghost")
	assert.ErrorIs(t, err, service.ErrAuthentication)
	_, err = e.tr.TakeMedicineDose("ghost", 0)
	assert.ErrorIs(t, err, service.ErrAuthentication)
}

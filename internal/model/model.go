package model

import (
	"errors"

	"github.com/golang-sql/civil"
)

const (
	LowStockThreshold      = 5
	CriticalStockThreshold = 2
	UrgentWindowDays       = 3
)

var ErrOutOfStock = errors.New("out of stock")

// User owns its medicines and appointments outright; nothing else
// references them.
type User struct {
	Username         string
	PasswordHash     string
	Name             string
	EmergencyContact string
	EmergencyPhone   string
	Medicines        []Medicine
	Appointments     []Appointment
}

func NewUser(username, passwordHash, name string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Name:         name,
		Medicines:    []Medicine{},
		Appointments: []Appointment{},
	}
}

// Upcoming returns the appointments that are not completed and not in
// the past, in list order. The pointers alias u.Appointments.
func (u *User) Upcoming(today civil.Date) []*Appointment {
	var out []*Appointment
	for i := range u.Appointments {
		if u.Appointments[i].IsUpcoming(today) {
			out = append(out, &u.Appointments[i])
		}
	}
	return out
}

func (u *User) HasEmergencyContact() bool {
	return u.EmergencyContact != ""
}

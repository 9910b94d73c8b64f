package model

import "github.com/golang-sql/civil"

type Appointment struct {
	Title     string
	Doctor    string
	Date      civil.Date
	Time      string // HH:MM
	Location  string
	Completed bool
}

// DaysUntil is the signed number of days from ref to the appointment.
// Negative means the appointment is in the past.
func (a *Appointment) DaysUntil(ref civil.Date) int {
	return a.Date.DaysSince(ref)
}

func (a *Appointment) IsUpcoming(ref civil.Date) bool {
	return !a.Completed && a.DaysUntil(ref) >= 0
}

// Complete is one-way; nothing clears Completed.
func (a *Appointment) Complete() {
	a.Completed = true
}

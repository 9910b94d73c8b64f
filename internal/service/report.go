package service

import (
	"github.com/golang-sql/civil"

	"meditrack/internal/model"
)

// The functions in this file are pure: they read a user as of a given
// day and never persist anything.

type NotificationKind string

const (
	NotifyToday    NotificationKind = "today"
	NotifyUpcoming NotificationKind = "upcoming"
	NotifyLowStock NotificationKind = "low-stock"
)

// Notification is one reminder. Title is the appointment title or the
// medicine name depending on Kind.
type Notification struct {
	Kind      NotificationKind
	Title     string
	Doctor    string
	DaysUntil int
	Stock     int
}

// Notifications lists appointment reminders (in list order) followed by
// low-stock medicines (in list order). Completed appointments never
// appear.
func Notifications(u *model.User, today civil.Date) []Notification {
	var out []Notification
	for i := range u.Appointments {
		a := &u.Appointments[i]
		if a.Completed {
			continue
		}
		days := a.DaysUntil(today)
		switch {
		case days == 0:
			out = append(out, Notification{Kind: NotifyToday, Title: a.Title, Doctor: a.Doctor})
		case days >= 1 && days <= model.UrgentWindowDays:
			out = append(out, Notification{Kind: NotifyUpcoming, Title: a.Title, Doctor: a.Doctor, DaysUntil: days})
		}
	}
	for i := range u.Medicines {
		m := &u.Medicines[i]
		if m.LowStock() {
			out = append(out, Notification{Kind: NotifyLowStock, Title: m.Name, Stock: m.Stock})
		}
	}
	return out
}

type Summary struct {
	DosesTaken           int
	DosesMissed          int
	Medicines            int
	UpcomingAppointments int
	LowStockMedicines    int
	// Adherence is a percentage, nil when no doses were recorded.
	Adherence *float64
}

func WeeklySummary(u *model.User, today civil.Date) Summary {
	s := Summary{
		Medicines:            len(u.Medicines),
		UpcomingAppointments: len(u.Upcoming(today)),
	}
	for i := range u.Medicines {
		m := &u.Medicines[i]
		s.DosesTaken += m.TakenToday
		s.DosesMissed += m.MissedToday
		if m.LowStock() {
			s.LowStockMedicines++
		}
	}
	if total := s.DosesTaken + s.DosesMissed; total > 0 {
		rate := float64(s.DosesTaken) * 100 / float64(total)
		s.Adherence = &rate
	}
	return s
}

type Snapshot struct {
	Username string
	Name     string

	// ContactSet is false when no emergency contact was given; the
	// contact fields are then empty.
	ContactSet       bool
	EmergencyContact string
	EmergencyPhone   string

	CriticalMedicines  []model.Medicine
	UrgentAppointments []AppointmentView
}

// EmergencySnapshot gathers what a responder needs: identity, contact,
// nearly exhausted medicines and incomplete appointments due within the
// urgent window (overdue ones included).
func EmergencySnapshot(u *model.User, today civil.Date) Snapshot {
	s := Snapshot{
		Username:   u.Username,
		Name:       u.Name,
		ContactSet: u.HasEmergencyContact(),
	}
	if s.ContactSet {
		s.EmergencyContact = u.EmergencyContact
		s.EmergencyPhone = u.EmergencyPhone
	}
	for i := range u.Medicines {
		if u.Medicines[i].CriticalStock() {
			s.CriticalMedicines = append(s.CriticalMedicines, u.Medicines[i])
		}
	}
	for i := range u.Appointments {
		a := &u.Appointments[i]
		if !a.Completed && a.DaysUntil(today) <= model.UrgentWindowDays {
			s.UrgentAppointments = append(s.UrgentAppointments, view(a, today))
		}
	}
	return s
}

func (t *Tracker) NotificationsFor(username string) ([]Notification, error) {
	u, err := t.user(username)
	if err != nil {
		return nil, err
	}
	return Notifications(u, t.Today()), nil
}

func (t *Tracker) WeeklySummaryFor(username string) (Summary, error) {
	u, err := t.user(username)
	if err != nil {
		return Summary{}, err
	}
	return WeeklySummary(u, t.Today()), nil
}

func (t *Tracker) EmergencySnapshotFor(username string) (Snapshot, error) {
	u, err := t.user(username)
	if err != nil {
		return Snapshot{}, err
	}
	return EmergencySnapshot(u, t.Today()), nil
}

package service

import (
	"strings"
	"time"

	"github.com/golang-sql/civil"
	"go.uber.org/zap"

	"meditrack/internal/model"
)

const defaultAppointmentTime = "10:00"

type NewAppointment struct {
	Title    string
	Doctor   string
	Date     string // YYYY-MM-DD
	Time     string // HH:MM, optional
	Location string
}

// AppointmentView pairs an appointment with its distance from today.
type AppointmentView struct {
	model.Appointment
	DaysUntil int
}

func view(a *model.Appointment, today civil.Date) AppointmentView {
	return AppointmentView{Appointment: *a, DaysUntil: a.DaysUntil(today)}
}

func (t *Tracker) AddAppointment(username string, in NewAppointment) (AppointmentView, error) {
	title := strings.TrimSpace(in.Title)
	doctor := strings.TrimSpace(in.Doctor)
	date := strings.TrimSpace(in.Date)
	if title == "" {
		return AppointmentView{}, invalid("title required")
	}
	if doctor == "" {
		return AppointmentView{}, invalid("doctor required")
	}
	if date == "" {
		return AppointmentView{}, invalid("date required")
	}
	d, err := civil.ParseDate(date)
	if err != nil {
		return AppointmentView{}, invalid("date %q is not YYYY-MM-DD", date)
	}

	at := defaultAppointmentTime
	if s := strings.TrimSpace(in.Time); s != "" {
		tm, err := time.Parse("15:04", s)
		if err != nil {
			return AppointmentView{}, invalid("time %q is not HH:MM", s)
		}
		at = tm.Format("15:04")
	}

	u, err := t.user(username)
	if err != nil {
		return AppointmentView{}, err
	}

	a := model.Appointment{
		Title:    title,
		Doctor:   doctor,
		Date:     d,
		Time:     at,
		Location: strings.TrimSpace(in.Location),
	}
	u.Appointments = append(u.Appointments, a)
	if err := t.save(u); err != nil {
		return AppointmentView{}, err
	}
	t.log.Debug("appointment added", zap.String("username", username), zap.String("title", title))
	return view(&a, t.Today()), nil
}

// UpcomingAppointments lists the incomplete appointments from today on.
// CompleteAppointment indexes into this list, not the full one.
func (t *Tracker) UpcomingAppointments(username string) ([]AppointmentView, error) {
	u, err := t.user(username)
	if err != nil {
		return nil, err
	}
	today := t.Today()
	var out []AppointmentView
	for _, a := range u.Upcoming(today) {
		out = append(out, view(a, today))
	}
	return out, nil
}

func (t *Tracker) CompleteAppointment(username string, index int) (model.Appointment, error) {
	u, err := t.user(username)
	if err != nil {
		return model.Appointment{}, err
	}
	upcoming := u.Upcoming(t.Today())
	if index < 0 || index >= len(upcoming) {
		return model.Appointment{}, ErrOutOfRange
	}

	a := upcoming[index]
	a.Complete()
	if err := t.save(u); err != nil {
		return model.Appointment{}, err
	}
	return *a, nil
}

// ListAppointments splits all appointments into those from today on
// (completed included) and those in the past, each in list order.
func (t *Tracker) ListAppointments(username string) (upcoming, past []AppointmentView, err error) {
	u, err := t.user(username)
	if err != nil {
		return nil, nil, err
	}
	today := t.Today()
	for i := range u.Appointments {
		v := view(&u.Appointments[i], today)
		if v.DaysUntil >= 0 {
			upcoming = append(upcoming, v)
		} else {
			past = append(past, v)
		}
	}
	return upcoming, past, nil
}

package model

import (
	"fmt"

	"github.com/golang-sql/civil"
)

// Records mirror the persisted JSON document. Fields missing from older
// documents decode to their zero value, which is the documented default.

type UserRecord struct {
	Username         string              `json:"username"`
	Password         string              `json:"password"`
	Name             string              `json:"name"`
	Medicines        []MedicineRecord    `json:"medicines"`
	Appointments     []AppointmentRecord `json:"appointments"`
	EmergencyContact string              `json:"emergency_contact"`
	EmergencyPhone   string              `json:"emergency_phone"`
}

type MedicineRecord struct {
	Name        string `json:"name"`
	Dosage      string `json:"dosage"`
	Frequency   string `json:"frequency"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Stock       int    `json:"stock"`
	TakenToday  int    `json:"taken_today"`
	MissedToday int    `json:"missed_today"`
}

type AppointmentRecord struct {
	Title     string `json:"title"`
	Doctor    string `json:"doctor"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Location  string `json:"location"`
	Completed bool   `json:"completed"`
}

func (m *Medicine) ToRecord() MedicineRecord {
	return MedicineRecord{
		Name:        m.Name,
		Dosage:      m.Dosage,
		Frequency:   string(m.Frequency),
		StartDate:   m.StartDate.String(),
		EndDate:     m.EndDate.String(),
		Stock:       m.Stock,
		TakenToday:  m.TakenToday,
		MissedToday: m.MissedToday,
	}
}

func MedicineFromRecord(r MedicineRecord) (Medicine, error) {
	start, err := civil.ParseDate(r.StartDate)
	if err != nil {
		return Medicine{}, fmt.Errorf("medicine %q: start_date: %w", r.Name, err)
	}
	end, err := civil.ParseDate(r.EndDate)
	if err != nil {
		return Medicine{}, fmt.Errorf("medicine %q: end_date: %w", r.Name, err)
	}
	return Medicine{
		Name:        r.Name,
		Dosage:      r.Dosage,
		Frequency:   Frequency(r.Frequency),
		StartDate:   start,
		EndDate:     end,
		Stock:       r.Stock,
		TakenToday:  r.TakenToday,
		MissedToday: r.MissedToday,
	}, nil
}

func (a *Appointment) ToRecord() AppointmentRecord {
	return AppointmentRecord{
		Title:     a.Title,
		Doctor:    a.Doctor,
		Date:      a.Date.String(),
		Time:      a.Time,
		Location:  a.Location,
		Completed: a.Completed,
	}
}

func AppointmentFromRecord(r AppointmentRecord) (Appointment, error) {
	d, err := civil.ParseDate(r.Date)
	if err != nil {
		return Appointment{}, fmt.Errorf("appointment %q: date: %w", r.Title, err)
	}
	return Appointment{
		Title:     r.Title,
		Doctor:    r.Doctor,
		Date:      d,
		Time:      r.Time,
		Location:  r.Location,
		Completed: r.Completed,
	}, nil
}

func (u *User) ToRecord() UserRecord {
	rec := UserRecord{
		Username:         u.Username,
		Password:         u.PasswordHash,
		Name:             u.Name,
		Medicines:        make([]MedicineRecord, 0, len(u.Medicines)),
		Appointments:     make([]AppointmentRecord, 0, len(u.Appointments)),
		EmergencyContact: u.EmergencyContact,
		EmergencyPhone:   u.EmergencyPhone,
	}
	for i := range u.Medicines {
		rec.Medicines = append(rec.Medicines, u.Medicines[i].ToRecord())
	}
	for i := range u.Appointments {
		rec.Appointments = append(rec.Appointments, u.Appointments[i].ToRecord())
	}
	return rec
}

func UserFromRecord(r UserRecord) (*User, error) {
	u := NewUser(r.Username, r.Password, r.Name)
	u.EmergencyContact = r.EmergencyContact
	u.EmergencyPhone = r.EmergencyPhone

	for _, mr := range r.Medicines {
		m, err := MedicineFromRecord(mr)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", r.Username, err)
		}
		u.Medicines = append(u.Medicines, m)
	}
	for _, ar := range r.Appointments {
		a, err := AppointmentFromRecord(ar)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", r.Username, err)
		}
		u.Appointments = append(u.Appointments, a)
	}
	return u, nil
}

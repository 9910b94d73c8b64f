package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"meditrack/internal/model"
	"meditrack/internal/service"
)

const rule = "------------------------------------------------------------"

// shell is the terminal front end. It owns all wording and layout; the
// tracker only classifies outcomes.
type shell struct {
	tr    *service.Tracker
	in    *bufio.Scanner
	out   io.Writer
	token string
	eof   bool
}

func newShell(tr *service.Tracker, in io.Reader, out io.Writer) *shell {
	return &shell{tr: tr, in: bufio.NewScanner(in), out: out}
}

func (s *shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *shell) ask(label string) string {
	s.printf("%s", label)
	if !s.in.Scan() {
		s.eof = true
		return ""
	}
	return strings.TrimSpace(s.in.Text())
}

func (s *shell) fail(err error) {
	var msg string
	switch {
	case errors.Is(err, service.ErrTooManyAttempts):
		msg = "Too many failed attempts, try again later"
	case errors.Is(err, service.ErrAuthentication):
		msg = "Invalid username or password"
	case errors.Is(err, service.ErrOutOfStock):
		msg = "Out of stock! Please refill"
	case errors.Is(err, service.ErrOutOfRange):
		msg = "Invalid choice"
	case errors.Is(err, service.ErrValidation):
		msg = strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	case errors.Is(err, service.ErrStorage):
		msg = "Could not save your data: " + err.Error()
	default:
		msg = err.Error()
	}
	s.printf("Error: %s\n", msg)
}

func (s *shell) run() error {
	s.printf("%s\n           MEDITRACK - HEALTHCARE SYSTEM\n%s\n", rule, rule)
	for !s.eof {
		if s.token == "" {
			if done := s.loggedOut(); done {
				break
			}
			continue
		}
		u, err := s.tr.ResumeSession(s.token)
		if err != nil {
			s.token = ""
			s.printf("Session expired, please log in again\n")
			continue
		}
		if done := s.loggedIn(u); done {
			break
		}
		if s.token != "" {
			// any action keeps the session alive
			if tok, err := s.tr.StartSession(u); err == nil {
				s.token = tok
			}
		}
	}
	s.printf("\nThank you for using MediTrack!\n")
	return nil
}

func (s *shell) loggedOut() bool {
	s.printf("\nMAIN MENU\n%s\n1. Login\n2. Register\n3. Exit\n%s\n", rule, rule)
	switch s.ask("Select (1-3): ") {
	case "1":
		s.login()
	case "2":
		s.register()
	case "3":
		return true
	case "":
	default:
		s.printf("Invalid choice\n")
	}
	return false
}

func (s *shell) loggedIn(u *model.User) bool {
	s.printf("\nMAIN MENU - Welcome %s\n%s\n", u.Name, rule)
	s.printf(" 1. Weekly summary\n 2. Notifications\n 3. View medicines\n 4. Add medicine\n")
	s.printf(" 5. Mark medicine taken\n 6. View appointments\n 7. Add appointment\n")
	s.printf(" 8. Mark appointment completed\n 9. Change password\n10. Emergency mode\n")
	s.printf("11. Logout\n12. Exit\n%s\n", rule)

	switch s.ask("Select (1-12): ") {
	case "1":
		s.summary(u)
	case "2":
		s.notifications(u)
	case "3":
		s.medicines(u)
	case "4":
		s.addMedicine(u)
	case "5":
		s.takeDose(u)
	case "6":
		s.appointments(u)
	case "7":
		s.addAppointment(u)
	case "8":
		s.completeAppointment(u)
	case "9":
		s.changePassword(u)
	case "10":
		s.emergency(u)
	case "11":
		s.printf("Goodbye %s!\n", u.Name)
		s.token = ""
	case "12":
		return true
	case "":
	default:
		s.printf("Invalid choice\n")
	}
	return false
}

func (s *shell) register() {
	r := service.Registration{
		Username:         s.ask("Username: "),
		Name:             s.ask("Full Name: "),
		Password:         s.ask("Password: "),
		ConfirmPassword:  s.ask("Confirm Password: "),
		EmergencyContact: s.ask("Emergency Contact Name (optional): "),
		EmergencyPhone:   s.ask("Emergency Contact Phone (optional): "),
	}
	if s.eof {
		return
	}
	u, err := s.tr.Register(r)
	if err != nil {
		s.fail(err)
		return
	}
	s.printf("Registration successful! Welcome to MediTrack, %s!\n", u.Name)
}

func (s *shell) login() {
	username := s.ask("Username: ")
	password := s.ask("Password: ")
	if s.eof {
		return
	}
	u, err := s.tr.Authenticate(username, password)
	if err != nil {
		s.fail(err)
		return
	}
	tok, err := s.tr.StartSession(u)
	if err != nil {
		s.fail(err)
		return
	}
	s.token = tok
	s.printf("Welcome back %s!\n", u.Name)
	s.notifications(u)
}

func (s *shell) notifications(u *model.User) {
	notes := service.Notifications(u, s.tr.Today())
	if len(notes) == 0 {
		return
	}
	s.printf("\nNOTIFICATIONS:\n")
	for _, n := range notes {
		switch n.Kind {
		case service.NotifyToday:
			s.printf("  * %s with Dr. %s is TODAY!\n", n.Title, n.Doctor)
		case service.NotifyUpcoming:
			s.printf("  * %s with Dr. %s in %d days\n", n.Title, n.Doctor, n.DaysUntil)
		case service.NotifyLowStock:
			s.printf("  * %s low stock: %d doses left\n", n.Title, n.Stock)
		}
	}
}

func (s *shell) summary(u *model.User) {
	sum := service.WeeklySummary(u, s.tr.Today())
	s.printf("\nThis Week's Summary:\n")
	s.printf("   Doses Taken: %d\n   Doses Missed: %d\n", sum.DosesTaken, sum.DosesMissed)
	s.printf("   Active Medicines: %d\n   Upcoming Appointments: %d\n", sum.Medicines, sum.UpcomingAppointments)
	if sum.LowStockMedicines > 0 {
		s.printf("   Low Stock Medicines: %d\n", sum.LowStockMedicines)
	}
	if sum.Adherence != nil {
		s.printf("   Adherence Rate: %.1f%%\n", *sum.Adherence)
	}
}

func (s *shell) medicines(u *model.User) {
	if len(u.Medicines) == 0 {
		s.printf("No medicines added yet\n")
		return
	}
	for i := range u.Medicines {
		m := &u.Medicines[i]
		s.printf("%d. %s - %s\n   Frequency: %s\n   Stock: %d doses (%s)\n",
			i+1, m.Name, m.Dosage, m.Frequency, m.Stock, m.Level())
		if m.LowStock() {
			s.printf("   Low stock! Please refill soon\n")
		}
	}
}

func (s *shell) addMedicine(u *model.User) {
	in := service.NewMedicine{
		Name:   s.ask("Medicine Name: "),
		Dosage: s.ask("Dosage (e.g., 500mg): "),
	}
	s.printf("Frequency: 1. Once daily  2. Twice daily  3. Three times daily  4. Four times daily\n")
	in.FrequencyChoice = s.ask("Select (1-4): ")
	in.EndDate = s.ask(fmt.Sprintf("End Date (YYYY-MM-DD) [%s]: ", s.tr.Today().AddDays(30)))
	in.Stock = s.ask("Initial stock [30]: ")
	if s.eof {
		return
	}

	m, err := s.tr.AddMedicine(u.Username, in)
	if err != nil {
		s.fail(err)
		return
	}
	s.printf("%s added: %s, %s, %d doses\n", m.Name, m.Dosage, m.Frequency, m.Stock)
}

func (s *shell) takeDose(u *model.User) {
	if len(u.Medicines) == 0 {
		s.printf("No medicines\n")
		return
	}
	for i, m := range u.Medicines {
		s.printf("%d. %s - %s (%s)\n", i+1, m.Name, m.Dosage, m.Frequency)
	}
	n, ok := s.choice("Select medicine: ")
	if !ok {
		return
	}
	res, err := s.tr.TakeMedicineDose(u.Username, n-1)
	if err != nil {
		s.fail(err)
		return
	}
	s.printf("%s marked as taken. Remaining stock: %d doses\n", res.Medicine, res.Remaining)
	if res.LowStock {
		s.printf("Low stock! Please refill soon\n")
	}
}

func (s *shell) appointments(u *model.User) {
	upcoming, past, err := s.tr.ListAppointments(u.Username)
	if err != nil {
		s.fail(err)
		return
	}
	if len(upcoming)+len(past) == 0 {
		s.printf("No appointments scheduled\n")
		return
	}
	if len(upcoming) > 0 {
		s.printf("UPCOMING APPOINTMENTS:\n")
		for i, a := range upcoming {
			when := fmt.Sprintf("in %d days", a.DaysUntil)
			if a.DaysUntil == 0 {
				when = "TODAY!"
			}
			s.printf("%d. [%s] %s with Dr. %s\n   Date: %s %s (%s)\n",
				i+1, mark(a.Completed, "done", "open"), a.Title, a.Doctor, a.Date, a.Time, when)
			if a.Location != "" {
				s.printf("   Location: %s\n", a.Location)
			}
		}
	}
	if len(past) > 0 {
		s.printf("PAST APPOINTMENTS:\n")
		for i, a := range past {
			s.printf("%d. [%s] %s with Dr. %s\n   Date: %s (%d days ago)\n",
				i+1, mark(a.Completed, "done", "missed"), a.Title, a.Doctor, a.Date, -a.DaysUntil)
		}
	}
}

func (s *shell) addAppointment(u *model.User) {
	in := service.NewAppointment{
		Title:    s.ask("Appointment Title: "),
		Doctor:   s.ask("Doctor's Name: "),
		Date:     s.ask("Date (YYYY-MM-DD): "),
		Time:     s.ask("Time (HH:MM) [10:00]: "),
		Location: s.ask("Location (optional): "),
	}
	if s.eof {
		return
	}
	v, err := s.tr.AddAppointment(u.Username, in)
	if err != nil {
		s.fail(err)
		return
	}
	when := fmt.Sprintf("in %d days", v.DaysUntil)
	if v.DaysUntil == 0 {
		when = "TODAY!"
	}
	s.printf("Appointment added: %s with Dr. %s on %s at %s (%s)\n", v.Title, v.Doctor, v.Date, v.Time, when)
}

func (s *shell) completeAppointment(u *model.User) {
	upcoming, err := s.tr.UpcomingAppointments(u.Username)
	if err != nil {
		s.fail(err)
		return
	}
	if len(upcoming) == 0 {
		s.printf("No upcoming appointments\n")
		return
	}
	for i, a := range upcoming {
		s.printf("%d. %s with Dr. %s on %s\n", i+1, a.Title, a.Doctor, a.Date)
	}
	n, ok := s.choice("Select appointment: ")
	if !ok {
		return
	}
	a, err := s.tr.CompleteAppointment(u.Username, n-1)
	if err != nil {
		s.fail(err)
		return
	}
	s.printf("%s marked as completed\n", a.Title)
}

func (s *shell) changePassword(u *model.User) {
	current := s.ask("Current Password: ")
	next := s.ask("New Password: ")
	confirm := s.ask("Confirm Password: ")
	if s.eof {
		return
	}
	if err := s.tr.ChangePassword(u.Username, current, next, confirm); err != nil {
		s.fail(err)
		return
	}
	s.printf("Password changed successfully!\n")
}

func (s *shell) emergency(u *model.User) {
	snap := service.EmergencySnapshot(u, s.tr.Today())
	s.printf("\nCRITICAL INFORMATION - FOR EMERGENCY USE\n%s\n", rule)
	s.printf("PATIENT: %s\n", snap.Name)
	if snap.ContactSet {
		s.printf("   Emergency Contact: %s\n   Contact Phone: %s\n", snap.EmergencyContact, snap.EmergencyPhone)
	} else {
		s.printf("   No emergency contact set\n")
	}
	if len(snap.CriticalMedicines) > 0 {
		s.printf("CRITICAL MEDICATIONS (LOW STOCK):\n")
		for _, m := range snap.CriticalMedicines {
			s.printf("   * %s: %d doses left\n", m.Name, m.Stock)
		}
	}
	if len(snap.UrgentAppointments) > 0 {
		s.printf("URGENT APPOINTMENTS:\n")
		for _, a := range snap.UrgentAppointments {
			s.printf("   * %s with Dr. %s\n", a.Title, a.Doctor)
		}
	}
	s.printf("%s\nIn a real emergency, share this information with responders\n", rule)
}

// choice reads a 1-based menu number.
func (s *shell) choice(label string) (int, bool) {
	raw := s.ask(label)
	if s.eof {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.printf("Invalid input\n")
		return 0, false
	}
	return n, true
}

func mark(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

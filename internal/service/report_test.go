package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meditrack/internal/model"
	"meditrack/internal/service"
)

func reportUser() *model.User {
	u := model.NewUser("alice", "x", "Alice A")
	u.Appointments = []model.Appointment{
		{Title: "overdue", Doctor: "A", Date: today.AddDays(-1)},
		{Title: "soon", Doctor: "B", Date: today.AddDays(2)},
		{Title: "today", Doctor: "C", Date: today},
		{Title: "done today", Doctor: "D", Date: today, Completed: true},
		{Title: "done soon", Doctor: "E", Date: today.AddDays(1), Completed: true},
		{Title: "edge", Doctor: "F", Date: today.AddDays(3)},
		{Title: "far", Doctor: "G", Date: today.AddDays(4)},
	}
	u.Medicines = []model.Medicine{
		{Name: "plenty", Stock: 20},
		{Name: "low", Stock: 5},
		{Name: "critical", Stock: 2},
		{Name: "empty", Stock: 0},
	}
	return u
}

func TestNotifications(t *testing.T) {
	got := service.Notifications(reportUser(), today)

	want := []service.Notification{
		{Kind: service.NotifyUpcoming, Title: "soon", Doctor: "B", DaysUntil: 2},
		{Kind: service.NotifyToday, Title: "today", Doctor: "C"},
		{Kind: service.NotifyUpcoming, Title: "edge", Doctor: "F", DaysUntil: 3},
		{Kind: service.NotifyLowStock, Title: "low", Stock: 5},
		{Kind: service.NotifyLowStock, Title: "critical", Stock: 2},
		{Kind: service.NotifyLowStock, Title: "empty", Stock: 0},
	}
	assert.Equal(t, want, got)
}

func TestNotificationsNeverListCompleted(t *testing.T) {
	u := reportUser()
	for i := range u.Appointments {
		u.Appointments[i].Complete()
	}
	for _, n := range service.Notifications(u, today) {
		assert.Equal(t, service.NotifyLowStock, n.Kind)
	}
}

func TestNotificationsEmpty(t *testing.T) {
	assert.Empty(t, service.Notifications(model.NewUser("a", "x", "A"), today))
}

func TestWeeklySummary(t *testing.T) {
	u := reportUser()
	u.Medicines[0].TakenToday = 4
	u.Medicines[0].MissedToday = 1
	u.Medicines[1].TakenToday = 3
	u.Medicines[1].MissedToday = 2

	s := service.WeeklySummary(u, today)
	assert.Equal(t, 7, s.DosesTaken)
	assert.Equal(t, 3, s.DosesMissed)
	assert.Equal(t, 4, s.Medicines)
	// soon, today, edge, far
	assert.Equal(t, 4, s.UpcomingAppointments)
	assert.Equal(t, 3, s.LowStockMedicines)
	require.NotNil(t, s.Adherence)
	assert.InDelta(t, 70.0, *s.Adherence, 1e-9)
}

func TestWeeklySummaryNoDoses(t *testing.T) {
	s := service.WeeklySummary(reportUser(), today)
	assert.Zero(t, s.DosesTaken)
	assert.Zero(t, s.DosesMissed)
	assert.Nil(t, s.Adherence)

	s = service.WeeklySummary(model.NewUser("a", "x", "A"), today)
	assert.Zero(t, s.Medicines)
	assert.Nil(t, s.Adherence)
}

func TestEmergencySnapshot(t *testing.T) {
	s := service.EmergencySnapshot(reportUser(), today)

	assert.Equal(t, "alice", s.Username)
	assert.Equal(t, "Alice A", s.Name)
	assert.False(t, s.ContactSet)
	assert.Empty(t, s.EmergencyContact)

	var meds []string
	for _, m := range s.CriticalMedicines {
		meds = append(meds, m.Name)
	}
	assert.Equal(t, []string{"critical", "empty"}, meds)

	var appts []string
	for _, a := range s.UrgentAppointments {
		appts = append(appts, a.Title)
	}
	assert.Equal(t, []string{"overdue", "soon", "today", "edge"}, appts)
	assert.Equal(t, -1, s.UrgentAppointments[0].DaysUntil)
}

func TestEmergencySnapshotContact(t *testing.T) {
	u := reportUser()
	u.EmergencyContact = "Bob"
	u.EmergencyPhone = "555-0100"

	s := service.EmergencySnapshot(u, today)
	assert.True(t, s.ContactSet)
	assert.Equal(t, "Bob", s.EmergencyContact)
	assert.Equal(t, "555-0100", s.EmergencyPhone)
}

func TestReportsForUser(t *testing.T) {
	e := setup(t)
	registerUser(t, e.tr, "alice")
	_, err := e.tr.AddMedicine("alice", service.NewMedicine{Name: "A", Dosage: "1mg", Stock: "1"})
	require.NoError(t, err)
	_, err = e.tr.TakeMedicineDose("alice", 0)
	require.NoError(t, err)

	s, err := e.tr.WeeklySummaryFor("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, s.DosesTaken)
	require.NotNil(t, s.Adherence)
	assert.InDelta(t, 100.0, *s.Adherence, 1e-9)

	snap, err := e.tr.EmergencySnapshotFor("alice")
	require.NoError(t, err)
	require.Len(t, snap.CriticalMedicines, 1)
	assert.Equal(t, 0, snap.CriticalMedicines[0].Stock)

	notes, err := e.tr.NotificationsFor("alice")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, service.NotifyLowStock, notes[0].Kind)
}

package appointment_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/portal-api/internal/model"
	"github.com/clinicore/portal-api/internal/repository"
	"github.com/clinicore/portal-api/internal/service/appointment"
	"github.com/clinicore/portal-api/internal/service/doctor"
	"github.com/clinicore/portal-api/internal/service/patient"
	"github.com/clinicore/portal-api/pkg/logger"
)

type fakeAppointmentRepo struct {
	appointments []*model.Appointment
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	f.appointments = append(f.appointments, a)
	return nil
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	for _, a := range f.appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAppointmentRepo) List(ctx context.Context) ([]*model.Appointment, error) {
	out := make([]*model.Appointment, len(f.appointments))
	copy(out, f.appointments)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate < out[j].AppointmentDate
		}
		return out[i].AppointmentTime < out[j].AppointmentTime
	})
	return out, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	for _, a := range f.appointments {
		if a.ID == id {
			a.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeDoctorRepo struct {
	doctors []*model.Doctor
}

func (f *fakeDoctorRepo) Create(ctx context.Context, d *model.Doctor) error {
	f.doctors = append(f.doctors, d)
	return nil
}

func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	for _, d := range f.doctors {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDoctorRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	for _, d := range f.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDoctorRepo) List(ctx context.Context) ([]*model.Doctor, error) {
	return f.doctors, nil
}

func (f *fakeDoctorRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Doctor, error) {
	var out []*model.Doctor
	for _, d := range f.doctors {
		for _, id := range ids {
			if d.ID == id {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

type fakePatientRepo struct {
	patients []*model.Patient
}

func (f *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error {
	f.patients = append(f.patients, p)
	return nil
}

func (f *fakePatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) List(ctx context.Context) ([]*model.Patient, error) {
	return f.patients, nil
}

func (f *fakePatientRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range f.patients {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*model.Profile
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *model.Profile) error { return nil }

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) ListByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*model.Profile, error) {
	var out []*model.Profile
	for _, id := range userIDs {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeEmailService struct {
	confirmations []string
}

func (f *fakeEmailService) SendAppointmentConfirmation(ctx context.Context, to, patientName, date, timeOfDay string) error {
	f.confirmations = append(f.confirmations, to)
	return nil
}

func (f *fakeEmailService) SendWelcome(ctx context.Context, to, name string) error { return nil }

// fixture is a clinic with one doctor (Dr. Chen), one named patient and
// one patient record without a profile.
type fixture struct {
	svc          *appointment.Service
	appointments *fakeAppointmentRepo
	doctors      *fakeDoctorRepo
	patients     *fakePatientRepo
	email        *fakeEmailService

	doctorUserID  uuid.UUID
	doctorID      uuid.UUID
	patientUserID uuid.UUID
	patientID     uuid.UUID
	orphanID      uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		appointments:  &fakeAppointmentRepo{},
		email:         &fakeEmailService{},
		doctorUserID:  uuid.New(),
		doctorID:      uuid.New(),
		patientUserID: uuid.New(),
		patientID:     uuid.New(),
		orphanID:      uuid.New(),
	}

	f.doctors = &fakeDoctorRepo{doctors: []*model.Doctor{
		{ID: f.doctorID, UserID: f.doctorUserID, Specialty: "Cardiology", ConsultationFee: 150},
	}}
	f.patients = &fakePatientRepo{patients: []*model.Patient{
		{ID: f.patientID, UserID: f.patientUserID},
		{ID: f.orphanID, UserID: uuid.New()},
	}}
	profiles := &fakeProfileRepo{profiles: map[uuid.UUID]*model.Profile{
		f.doctorUserID:  {UserID: f.doctorUserID, Name: "Dr. Chen", Email: "chen@example.com"},
		f.patientUserID: {UserID: f.patientUserID, Name: "Sam Lee", Email: "sam@example.com"},
	}}

	f.svc = appointment.NewService(
		f.appointments, f.doctors, f.patients, profiles,
		gocache.New(time.Minute, time.Minute),
		f.email, logger.NewLogger(nil), nil,
	)
	return f
}

func (f *fixture) addAppointment(patientID uuid.UUID, date, timeOfDay string) *model.Appointment {
	a := &model.Appointment{
		ID:              uuid.New(),
		PatientID:       patientID,
		DoctorID:        f.doctorID,
		AppointmentDate: date,
		AppointmentTime: timeOfDay,
		Status:          model.AppointmentStatusScheduled,
		Reason:          "checkup",
	}
	f.appointments.appointments = append(f.appointments.appointments, a)
	return a
}

func TestListAppointmentsTwoHopJoin(t *testing.T) {
	f := newFixture(t)
	f.addAppointment(f.patientID, "2026-09-01", "09:00")
	f.addAppointment(f.orphanID, "2026-09-01", "10:00")

	out, err := f.svc.ListAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Dr. Chen", out[0].DoctorName)
	assert.Equal(t, "Cardiology", out[0].DoctorSpecialty)
	assert.Equal(t, "Sam Lee", out[0].PatientName)

	// the orphan's record exists but its profile does not
	assert.Equal(t, "Dr. Chen", out[1].DoctorName)
	assert.Equal(t, patient.UnknownPatientName, out[1].PatientName)
}

func TestListAppointmentsDanglingRecords(t *testing.T) {
	f := newFixture(t)
	a := f.addAppointment(uuid.New(), "2026-09-01", "09:00")
	a.DoctorID = uuid.New()

	out, err := f.svc.ListAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, doctor.UnknownDoctorName, out[0].DoctorName)
	assert.Equal(t, patient.UnknownPatientName, out[0].PatientName)
	assert.Empty(t, out[0].DoctorSpecialty)
}

func TestListAppointmentsPreservesOrdering(t *testing.T) {
	f := newFixture(t)
	f.addAppointment(f.patientID, "2026-09-02", "08:00")
	f.addAppointment(f.patientID, "2026-09-01", "15:30")
	f.addAppointment(f.patientID, "2026-09-01", "09:00")

	out, err := f.svc.ListAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)

	for i := 1; i < len(out); i++ {
		prev := out[i-1].AppointmentDate + " " + out[i-1].AppointmentTime
		cur := out[i].AppointmentDate + " " + out[i].AppointmentTime
		assert.LessOrEqual(t, prev, cur)
	}
}

func TestListAppointmentsEmpty(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.ListAppointments(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestAppointmentsForUserScoping(t *testing.T) {
	f := newFixture(t)
	mine := f.addAppointment(f.patientID, "2026-09-01", "09:00")
	f.addAppointment(f.orphanID, "2026-09-01", "10:00")

	out, err := f.svc.AppointmentsForUser(context.Background(), f.patientUserID, model.RolePatient)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, mine.ID, out[0].ID)

	// the doctor participates in both
	out, err = f.svc.AppointmentsForUser(context.Background(), f.doctorUserID, model.RoleDoctor)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestAppointmentsForUserWithoutRecord(t *testing.T) {
	f := newFixture(t)
	f.addAppointment(f.patientID, "2026-09-01", "09:00")

	out, err := f.svc.AppointmentsForUser(context.Background(), uuid.New(), model.RolePatient)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestAppointmentsForUserUnknownRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AppointmentsForUser(context.Background(), uuid.New(), model.RoleAdmin)
	assert.Error(t, err)
}

func TestCreateAppointmentDefaults(t *testing.T) {
	f := newFixture(t)

	apt, err := f.svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID:       f.patientID.String(),
		DoctorID:        f.doctorID.String(),
		AppointmentDate: "2026-09-10",
		AppointmentTime: "11:00",
		Reason:          "follow-up",
	})
	require.NoError(t, err)

	assert.Equal(t, model.DefaultAppointmentDuration, apt.Duration)
	assert.Equal(t, model.AppointmentTypeConsultation, apt.Type)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)

	// confirmation goes to the booked patient's profile email
	require.Len(t, f.email.confirmations, 1)
	assert.Equal(t, "sam@example.com", f.email.confirmations[0])
}

func TestCreateAppointmentValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID:       f.patientID.String(),
		DoctorID:        f.doctorID.String(),
		AppointmentDate: "2026-09-10",
		AppointmentTime: "11:00",
		Reason:          "",
	})
	assert.Error(t, err)
	assert.Empty(t, f.appointments.appointments)
}

func TestWritesInvalidateCachedList(t *testing.T) {
	f := newFixture(t)
	f.addAppointment(f.patientID, "2026-09-01", "09:00")

	out, err := f.svc.ListAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)

	_, err = f.svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID:       f.patientID.String(),
		DoctorID:        f.doctorID.String(),
		AppointmentDate: "2026-09-02",
		AppointmentTime: "10:00",
		Reason:          "checkup",
	})
	require.NoError(t, err)

	out, err = f.svc.ListAppointments(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 2, "cached list must be rebuilt after a write")
}

func TestUpdateAppointmentStatus(t *testing.T) {
	f := newFixture(t)
	a := f.addAppointment(f.patientID, "2026-09-01", "09:00")

	updated, err := f.svc.UpdateAppointmentStatus(context.Background(), a.ID, model.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)

	_, err = f.svc.UpdateAppointmentStatus(context.Background(), a.ID, model.AppointmentStatus("archived"))
	assert.Error(t, err)

	_, err = f.svc.UpdateAppointmentStatus(context.Background(), uuid.New(), model.AppointmentStatusConfirmed)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	today := time.Now().Format("2006-01-02")

	f.addAppointment(f.patientID, today, "09:00")
	done := f.addAppointment(f.patientID, "2026-01-15", "10:00")
	done.Status = model.AppointmentStatusCompleted
	cancelled := f.addAppointment(f.orphanID, "2026-01-16", "11:00")
	cancelled.Status = model.AppointmentStatusCancelled

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalDoctors)
	assert.Equal(t, 2, stats.TotalPatients)
	assert.Equal(t, 3, stats.TotalAppointments)
	assert.Equal(t, 1, stats.TodayAppointments)
	assert.Equal(t, 1, stats.PendingAppointments)
	assert.Equal(t, 1, stats.CompletedAppointments)
	assert.Equal(t, 150.0, stats.Revenue)
}

package appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicore/portal-api/internal/email"
	"github.com/clinicore/portal-api/internal/model"
	"github.com/clinicore/portal-api/internal/repository"
	"github.com/clinicore/portal-api/internal/service/doctor"
	"github.com/clinicore/portal-api/internal/service/patient"
	"github.com/clinicore/portal-api/pkg/logger"
	"github.com/clinicore/portal-api/pkg/metrics"
	"github.com/clinicore/portal-api/pkg/validator"
)

const enrichedListKey = "appointments:enriched"

// Service builds the enriched appointment read model. The join is two
// hops: appointment -> doctor/patient record -> profile. Results are
// cached until the next write invalidates them.
type Service struct {
	repo     repository.AppointmentRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	profiles repository.ProfileRepository
	cache    *gocache.Cache
	validate *validator.Validator
	emailSvc email.Service
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewService(
	repo repository.AppointmentRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	profiles repository.ProfileRepository,
	cache *gocache.Cache,
	emailSvc email.Service,
	l *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:     repo,
		doctors:  doctors,
		patients: patients,
		profiles: profiles,
		cache:    cache,
		validate: validator.New(),
		emailSvc: emailSvc,
		logger:   l,
		metrics:  m,
	}
}

// ListAppointments returns all appointments enriched with doctor and
// patient display names, ordered ascending by (date, time). Missing
// foreign rows become sentinel names, never errors and never drops.
func (s *Service) ListAppointments(ctx context.Context) ([]*model.EnrichedAppointment, error) {
	if v, ok := s.cache.Get(enrichedListKey); ok {
		s.metrics.ObserveCacheHit()
		return v.([]*model.EnrichedAppointment), nil
	}
	s.metrics.ObserveCacheMiss()

	enriched, err := s.buildEnrichedList(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(enrichedListKey, enriched, gocache.DefaultExpiration)
	return enriched, nil
}

func (s *Service) buildEnrichedList(ctx context.Context) ([]*model.EnrichedAppointment, error) {
	start := time.Now()

	appointments, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	if len(appointments) == 0 {
		return []*model.EnrichedAppointment{}, nil
	}

	doctorIDs := uniqueIDs(appointments, func(a *model.Appointment) uuid.UUID { return a.DoctorID })
	patientIDs := uniqueIDs(appointments, func(a *model.Appointment) uuid.UUID { return a.PatientID })

	// The doctor and patient sides of the join are independent; fetch
	// them in parallel.
	var (
		wg    sync.WaitGroup
		dSide doctorSide
		pSide patientSide
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		dSide = s.fetchDoctorSide(ctx, doctorIDs)
	}()
	go func() {
		defer wg.Done()
		pSide = s.fetchPatientSide(ctx, patientIDs)
	}()
	wg.Wait()

	if dSide.err != nil {
		return nil, dSide.err
	}
	if pSide.err != nil {
		return nil, pSide.err
	}

	enriched := make([]*model.EnrichedAppointment, 0, len(appointments))
	for _, a := range appointments {
		e := &model.EnrichedAppointment{
			Appointment: *a,
			DoctorName:  doctor.UnknownDoctorName,
			PatientName: patient.UnknownPatientName,
		}

		if d, ok := dSide.records[a.DoctorID]; ok {
			e.DoctorSpecialty = d.Specialty
			if p, ok := dSide.profiles[d.UserID]; ok {
				e.DoctorName = p.Name
			}
		}
		if rec, ok := pSide.records[a.PatientID]; ok {
			if p, ok := pSide.profiles[rec.UserID]; ok {
				e.PatientName = p.Name
			}
		}

		enriched = append(enriched, e)
	}

	s.metrics.ObserveJoin("appointment", time.Since(start).Seconds())
	return enriched, nil
}

type doctorSide struct {
	records  map[uuid.UUID]*model.Doctor
	profiles map[uuid.UUID]*model.Profile
	err      error
}

type patientSide struct {
	records  map[uuid.UUID]*model.Patient
	profiles map[uuid.UUID]*model.Profile
	err      error
}

func (s *Service) fetchDoctorSide(ctx context.Context, ids []uuid.UUID) doctorSide {
	doctors, err := s.doctors.ListByIDs(ctx, ids)
	if err != nil {
		return doctorSide{err: fmt.Errorf("failed to fetch appointment doctors: %w", err)}
	}

	records := make(map[uuid.UUID]*model.Doctor, len(doctors))
	userIDs := make([]uuid.UUID, 0, len(doctors))
	for _, d := range doctors {
		records[d.ID] = d
		userIDs = append(userIDs, d.UserID)
	}

	profiles, err := s.profileMap(ctx, userIDs)
	if err != nil {
		return doctorSide{err: fmt.Errorf("failed to fetch doctor profiles: %w", err)}
	}
	return doctorSide{records: records, profiles: profiles}
}

func (s *Service) fetchPatientSide(ctx context.Context, ids []uuid.UUID) patientSide {
	patients, err := s.patients.ListByIDs(ctx, ids)
	if err != nil {
		return patientSide{err: fmt.Errorf("failed to fetch appointment patients: %w", err)}
	}

	records := make(map[uuid.UUID]*model.Patient, len(patients))
	userIDs := make([]uuid.UUID, 0, len(patients))
	for _, p := range patients {
		records[p.ID] = p
		userIDs = append(userIDs, p.UserID)
	}

	profiles, err := s.profileMap(ctx, userIDs)
	if err != nil {
		return patientSide{err: fmt.Errorf("failed to fetch patient profiles: %w", err)}
	}
	return patientSide{records: records, profiles: profiles}
}

func (s *Service) profileMap(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*model.Profile, error) {
	profiles, err := s.profiles.ListByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uuid.UUID]*model.Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}
	return byUser, nil
}

// AppointmentsForUser resolves the caller's doctor or patient record and
// filters the enriched list down to it. A user without a matching record
// gets an empty list, not an error.
func (s *Service) AppointmentsForUser(ctx context.Context, userID uuid.UUID, role model.UserRole) ([]*model.EnrichedAppointment, error) {
	var recordID uuid.UUID

	switch role {
	case model.RoleDoctor:
		d, err := s.doctors.GetByUserID(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return []*model.EnrichedAppointment{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve doctor record: %w", err)
		}
		recordID = d.ID
	case model.RolePatient:
		p, err := s.patients.GetByUserID(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return []*model.EnrichedAppointment{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve patient record: %w", err)
		}
		recordID = p.ID
	default:
		return nil, fmt.Errorf("role %q has no appointment scope", role)
	}

	all, err := s.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}

	scoped := make([]*model.EnrichedAppointment, 0, len(all))
	for _, a := range all {
		if (role == model.RoleDoctor && a.DoctorID == recordID) ||
			(role == model.RolePatient && a.PatientID == recordID) {
			scoped = append(scoped, a)
		}
	}
	return scoped, nil
}

// CreateAppointment validates the request, applies defaults and persists
// the row. The enriched list cache is invalidated so the next read
// reflects the write.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, fmt.Errorf("invalid appointment: %w", err)
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("invalid patient id: %w", err)
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("invalid doctor id: %w", err)
	}

	apt := &model.Appointment{
		ID:              uuid.New(),
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Duration:        req.Duration,
		Type:            model.AppointmentType(req.Type),
		Status:          model.AppointmentStatusScheduled,
		Reason:          req.Reason,
		Notes:           req.Notes,
	}
	if apt.Duration == 0 {
		apt.Duration = model.DefaultAppointmentDuration
	}
	if apt.Type == "" {
		apt.Type = model.AppointmentTypeConsultation
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.cache.Delete(enrichedListKey)
	s.sendConfirmation(ctx, apt)

	return apt, nil
}

// UpdateAppointmentStatus moves an appointment to the given status and
// invalidates the read model cache.
func (s *Service) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid appointment status %q", status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.cache.Delete(enrichedListKey)

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload appointment: %w", err)
	}
	return apt, nil
}

// Stats aggregates the dashboard counters from the enriched read models.
func (s *Service) Stats(ctx context.Context) (*model.DashboardStats, error) {
	appointments, err := s.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}

	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	feeByDoctor := make(map[uuid.UUID]float64, len(doctors))
	for _, d := range doctors {
		feeByDoctor[d.ID] = d.ConsultationFee
	}

	today := time.Now().Format("2006-01-02")
	stats := &model.DashboardStats{
		TotalDoctors:      len(doctors),
		TotalPatients:     len(patients),
		TotalAppointments: len(appointments),
	}

	for _, a := range appointments {
		if a.AppointmentDate == today {
			stats.TodayAppointments++
		}
		switch a.Status {
		case model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed:
			stats.PendingAppointments++
		case model.AppointmentStatusCompleted:
			stats.CompletedAppointments++
			stats.Revenue += feeByDoctor[a.DoctorID]
		}
	}

	return stats, nil
}

// sendConfirmation emails the booked patient. Best effort: failures are
// logged and never fail the write.
func (s *Service) sendConfirmation(ctx context.Context, apt *model.Appointment) {
	rec, err := s.patients.Get(ctx, apt.PatientID)
	if err != nil {
		s.logger.Warn("skipping confirmation email, patient record unavailable", "appointment_id", apt.ID.String())
		return
	}

	profile, err := s.profiles.GetByUserID(ctx, rec.UserID)
	if err != nil {
		s.logger.Warn("skipping confirmation email, profile unavailable", "appointment_id", apt.ID.String())
		return
	}

	err = s.emailSvc.SendAppointmentConfirmation(ctx, profile.Email, profile.Name, apt.AppointmentDate, apt.AppointmentTime)
	s.metrics.ObserveEmail(err)
	if err != nil {
		s.logger.Error(err, "failed to send confirmation email", "appointment_id", apt.ID.String())
	}
}

func uniqueIDs(appointments []*model.Appointment, pick func(*model.Appointment) uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(appointments))
	ids := make([]uuid.UUID, 0, len(appointments))
	for _, a := range appointments {
		id := pick(a)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

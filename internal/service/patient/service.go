package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/portal-api/internal/model"
	"github.com/clinicore/portal-api/internal/repository"
	"github.com/clinicore/portal-api/pkg/metrics"
)

// UnknownPatientName is substituted when a patient's profile is missing.
const UnknownPatientName = "Unknown Patient"

type Service struct {
	repo     repository.PatientRepository
	profiles repository.ProfileRepository
	metrics  *metrics.Metrics
}

func NewService(repo repository.PatientRepository, profiles repository.ProfileRepository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, profiles: profiles, metrics: m}
}

// ListPatients returns every patient enriched with profile display
// fields, in base fetch order, one enriched row per base row.
func (s *Service) ListPatients(ctx context.Context) ([]*model.EnrichedPatient, error) {
	start := time.Now()

	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	if len(patients) == 0 {
		return []*model.EnrichedPatient{}, nil
	}

	profileByUser, err := s.profilesFor(ctx, patients)
	if err != nil {
		return nil, err
	}

	enriched := make([]*model.EnrichedPatient, 0, len(patients))
	for _, p := range patients {
		enriched = append(enriched, Enrich(p, profileByUser[p.UserID]))
	}

	s.metrics.ObserveJoin("patient", time.Since(start).Seconds())
	return enriched, nil
}

// GetPatient returns a single enriched patient. A missing base record is
// a hard error; a missing profile falls back to sentinel display fields.
func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.EnrichedPatient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	profile, err := s.profiles.GetByUserID(ctx, patient.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get patient profile: %w", err)
	}

	return Enrich(patient, profile), nil
}

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	patient := &model.Patient{
		ID:          uuid.New(),
		UserID:      userID,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		BloodGroup:  req.BloodGroup,
		Address:     req.Address,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) profilesFor(ctx context.Context, patients []*model.Patient) (map[uuid.UUID]*model.Profile, error) {
	seen := make(map[uuid.UUID]struct{}, len(patients))
	userIDs := make([]uuid.UUID, 0, len(patients))
	for _, p := range patients {
		if _, ok := seen[p.UserID]; ok {
			continue
		}
		seen[p.UserID] = struct{}{}
		userIDs = append(userIDs, p.UserID)
	}

	profiles, err := s.profiles.ListByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient profiles: %w", err)
	}

	byUser := make(map[uuid.UUID]*model.Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}
	return byUser, nil
}

// Enrich left-joins a patient row to its profile, substituting sentinel
// display fields when the profile is missing.
func Enrich(p *model.Patient, profile *model.Profile) *model.EnrichedPatient {
	e := &model.EnrichedPatient{Patient: *p, Name: UnknownPatientName, Email: ""}
	if profile != nil {
		e.Name = profile.Name
		e.Email = profile.Email
		e.Phone = profile.Phone
		e.AvatarURL = profile.AvatarURL
	}
	return e
}

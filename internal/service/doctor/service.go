package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clinicore/portal-api/internal/model"
	"github.com/clinicore/portal-api/internal/repository"
	"github.com/clinicore/portal-api/pkg/metrics"
)

// UnknownDoctorName is substituted when a doctor's profile is missing.
const UnknownDoctorName = "Unknown Doctor"

type Service struct {
	repo     repository.DoctorRepository
	profiles repository.ProfileRepository
	metrics  *metrics.Metrics
}

func NewService(repo repository.DoctorRepository, profiles repository.ProfileRepository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, profiles: profiles, metrics: m}
}

// ListDoctors returns every doctor enriched with profile display fields.
// Output order matches the base fetch (creation time, newest first) and
// every base row yields exactly one enriched row.
func (s *Service) ListDoctors(ctx context.Context) ([]*model.EnrichedDoctor, error) {
	start := time.Now()

	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	if len(doctors) == 0 {
		return []*model.EnrichedDoctor{}, nil
	}

	profileByUser, err := s.profilesFor(ctx, doctors)
	if err != nil {
		return nil, err
	}

	enriched := make([]*model.EnrichedDoctor, 0, len(doctors))
	for _, d := range doctors {
		enriched = append(enriched, Enrich(d, profileByUser[d.UserID]))
	}

	s.metrics.ObserveJoin("doctor", time.Since(start).Seconds())
	return enriched, nil
}

// GetDoctor returns a single enriched doctor. A missing base record is a
// hard error; a missing profile falls back to sentinel display fields.
func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.EnrichedDoctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	profile, err := s.profiles.GetByUserID(ctx, doctor.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}

	return Enrich(doctor, profile), nil
}

func (s *Service) CreateDoctor(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	doctor := &model.Doctor{
		ID:                uuid.New(),
		UserID:            userID,
		Specialty:         req.Specialty,
		Bio:               req.Bio,
		Experience:        req.Experience,
		ConsultationFee:   req.ConsultationFee,
		AvailableDays:     pq.StringArray(req.AvailableDays),
		WorkingHoursStart: req.WorkingHoursStart,
		WorkingHoursEnd:   req.WorkingHoursEnd,
		Status:            model.DoctorStatusActive,
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) profilesFor(ctx context.Context, doctors []*model.Doctor) (map[uuid.UUID]*model.Profile, error) {
	seen := make(map[uuid.UUID]struct{}, len(doctors))
	userIDs := make([]uuid.UUID, 0, len(doctors))
	for _, d := range doctors {
		if _, ok := seen[d.UserID]; ok {
			continue
		}
		seen[d.UserID] = struct{}{}
		userIDs = append(userIDs, d.UserID)
	}

	profiles, err := s.profiles.ListByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor profiles: %w", err)
	}

	byUser := make(map[uuid.UUID]*model.Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}
	return byUser, nil
}

// Enrich left-joins a doctor row to its profile. A nil profile yields
// the sentinel display fields instead of an error.
func Enrich(d *model.Doctor, p *model.Profile) *model.EnrichedDoctor {
	e := &model.EnrichedDoctor{Doctor: *d, Name: UnknownDoctorName, Email: ""}
	if p != nil {
		e.Name = p.Name
		e.Email = p.Email
		e.Phone = p.Phone
		e.AvatarURL = p.AvatarURL
	}
	return e
}

package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/clinicore/portal-api/internal/model"
)

// ErrNotFound is returned when a row does not exist. Callers distinguish
// a miss (recoverable via sentinels or a hard not-found, depending on the
// path) from a service failure with errors.Is.
var ErrNotFound = errors.New("record not found")

// All repository interfaces in one file. Together they form the
// request/response contract against the backing data service; the
// services depend only on these, never on the postgres package.
type (
	AuthUserRepository interface {
		Create(ctx context.Context, user *model.AuthUser) error
		GetByEmail(ctx context.Context, email string) (*model.AuthUser, error)
	}

	ProfileRepository interface {
		Create(ctx context.Context, profile *model.Profile) error
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
		ListByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*model.Profile, error)
	}

	RoleRepository interface {
		Assign(ctx context.Context, userID uuid.UUID, role model.UserRole) error
		GetByUserID(ctx context.Context, userID uuid.UUID) (model.UserRole, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
		// List returns all doctors ordered by creation time, newest first.
		List(ctx context.Context) ([]*model.Doctor, error)
		ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Doctor, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
		// List returns all patients ordered by creation time, newest first.
		List(ctx context.Context) ([]*model.Patient, error)
		ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Patient, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		// List returns all appointments ordered ascending by
		// (appointment_date, appointment_time).
		List(ctx context.Context) ([]*model.Appointment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
	}
)

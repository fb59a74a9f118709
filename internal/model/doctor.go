package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type DoctorStatus string

const (
	DoctorStatusActive   DoctorStatus = "active"
	DoctorStatusInactive DoctorStatus = "inactive"
	DoctorStatusOnLeave  DoctorStatus = "on-leave"
)

// Doctor is the entity-specific row; display fields (name, contact)
// live in the profile referenced by UserID.
type Doctor struct {
	ID                uuid.UUID      `db:"id" json:"id"`
	UserID            uuid.UUID      `db:"user_id" json:"user_id"`
	Specialty         string         `db:"specialty" json:"specialty"`
	Bio               *string        `db:"bio" json:"bio"`
	Experience        int            `db:"experience" json:"experience"`
	Rating            float64        `db:"rating" json:"rating"`
	ConsultationFee   float64        `db:"consultation_fee" json:"consultation_fee"`
	AvailableDays     pq.StringArray `db:"available_days" json:"available_days"`
	WorkingHoursStart string         `db:"working_hours_start" json:"working_hours_start"`
	WorkingHoursEnd   string         `db:"working_hours_end" json:"working_hours_end"`
	Status            DoctorStatus   `db:"status" json:"status"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// EnrichedDoctor is the read model emitted by the doctor join: the base
// row plus profile-derived display fields. Recomputed on every fetch.
type EnrichedDoctor struct {
	Doctor
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

type CreateDoctorRequest struct {
	UserID            string   `json:"user_id" binding:"required,uuid"`
	Specialty         string   `json:"specialty" binding:"required"`
	Bio               *string  `json:"bio"`
	Experience        int      `json:"experience" binding:"gte=0"`
	ConsultationFee   float64  `json:"consultation_fee" binding:"gte=0"`
	AvailableDays     []string `json:"available_days"`
	WorkingHoursStart string   `json:"working_hours_start"`
	WorkingHoursEnd   string   `json:"working_hours_end"`
}

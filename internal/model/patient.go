package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Patient is the entity-specific row; display fields come from the
// profile referenced by UserID.
type Patient struct {
	ID                           uuid.UUID      `db:"id" json:"id"`
	UserID                       uuid.UUID      `db:"user_id" json:"user_id"`
	DateOfBirth                  *string        `db:"date_of_birth" json:"date_of_birth"`
	Gender                       *string        `db:"gender" json:"gender"`
	BloodGroup                   *string        `db:"blood_group" json:"blood_group"`
	Address                      *string        `db:"address" json:"address"`
	EmergencyContactName         *string        `db:"emergency_contact_name" json:"emergency_contact_name"`
	EmergencyContactPhone        *string        `db:"emergency_contact_phone" json:"emergency_contact_phone"`
	EmergencyContactRelationship *string        `db:"emergency_contact_relationship" json:"emergency_contact_relationship"`
	MedicalHistory               pq.StringArray `db:"medical_history" json:"medical_history"`
	Allergies                    pq.StringArray `db:"allergies" json:"allergies"`
	CreatedAt                    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt                    time.Time      `db:"updated_at" json:"updated_at"`
}

// EnrichedPatient is the patient read model: base row plus
// profile-derived display fields.
type EnrichedPatient struct {
	Patient
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

type CreatePatientRequest struct {
	UserID      string  `json:"user_id" binding:"required,uuid"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Gender      *string `json:"gender" binding:"omitempty,oneof=male female other"`
	BloodGroup  *string `json:"blood_group"`
	Address     *string `json:"address"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in-progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no-show"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed,
		AppointmentStatusInProgress, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

type AppointmentType string

const (
	AppointmentTypeConsultation   AppointmentType = "consultation"
	AppointmentTypeFollowUp       AppointmentType = "follow-up"
	AppointmentTypeEmergency      AppointmentType = "emergency"
	AppointmentTypeRoutineCheckup AppointmentType = "routine-checkup"
)

const DefaultAppointmentDuration = 30

// Appointment references doctors and patients by their record ids, not
// by profile user ids. Date and time are kept as the wire strings
// ("2006-01-02", "15:04") so tuple ordering matches the storage order.
type Appointment struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	PatientID       uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	AppointmentDate string            `db:"appointment_date" json:"appointment_date"`
	AppointmentTime string            `db:"appointment_time" json:"appointment_time"`
	Duration        int               `db:"duration" json:"duration"`
	Type            AppointmentType   `db:"type" json:"type"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Reason          string            `db:"reason" json:"reason"`
	Notes           *string           `db:"notes" json:"notes"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// EnrichedAppointment is the appointment read model produced by the
// two-hop join (appointment -> doctor/patient -> profile).
type EnrichedAppointment struct {
	Appointment
	PatientName     string `json:"patient_name"`
	DoctorName      string `json:"doctor_name"`
	DoctorSpecialty string `json:"doctor_specialty,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientID       string  `json:"patient_id" binding:"required,uuid" validate:"required"`
	DoctorID        string  `json:"doctor_id" binding:"required,uuid" validate:"required"`
	AppointmentDate string  `json:"appointment_date" binding:"required,datetime=2006-01-02" validate:"required"`
	AppointmentTime string  `json:"appointment_time" binding:"required,datetime=15:04" validate:"required"`
	Duration        int     `json:"duration" binding:"omitempty,gt=0"`
	Type            string  `json:"type" binding:"omitempty,oneof=consultation follow-up emergency routine-checkup"`
	Reason          string  `json:"reason" binding:"required" validate:"required"`
	Notes           *string `json:"notes"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=scheduled confirmed in-progress completed cancelled no-show"`
}

// DashboardStats aggregates the admin dashboard counters.
type DashboardStats struct {
	TotalDoctors          int     `json:"total_doctors"`
	TotalPatients         int     `json:"total_patients"`
	TotalAppointments     int     `json:"total_appointments"`
	TodayAppointments     int     `json:"today_appointments"`
	PendingAppointments   int     `json:"pending_appointments"`
	CompletedAppointments int     `json:"completed_appointments"`
	Revenue               float64 `json:"revenue"`
}

package view

import "github.com/clinicore/portal-api/internal/model"

// Variant is the dashboard variant presented for a role.
type Variant string

const (
	VariantAdmin   Variant = "admin"
	VariantDoctor  Variant = "doctor"
	VariantPatient Variant = "patient"
)

// Select maps a role onto its dashboard variant. Total over all inputs:
// anything unrecognized gets the patient variant.
func Select(role model.UserRole) Variant {
	switch role {
	case model.RoleAdmin:
		return VariantAdmin
	case model.RoleDoctor:
		return VariantDoctor
	default:
		return VariantPatient
	}
}

// NavItem is one navigation entry of the dashboard shell.
type NavItem struct {
	Label string `json:"label"`
	Route string `json:"route"`
}

var (
	adminNav = []NavItem{
		{Label: "Dashboard", Route: "/dashboard"},
		{Label: "Doctors", Route: "/dashboard/doctors"},
		{Label: "Patients", Route: "/dashboard/patients"},
		{Label: "Appointments", Route: "/dashboard/appointments"},
		{Label: "Reports", Route: "/dashboard/reports"},
		{Label: "Settings", Route: "/dashboard/settings"},
	}
	doctorNav = []NavItem{
		{Label: "Dashboard", Route: "/dashboard"},
		{Label: "My Patients", Route: "/dashboard/patients"},
		{Label: "Appointments", Route: "/dashboard/appointments"},
		{Label: "Medical Records", Route: "/dashboard/records"},
	}
	patientNav = []NavItem{
		{Label: "Dashboard", Route: "/dashboard"},
		{Label: "Appointments", Route: "/dashboard/appointments"},
		{Label: "Find Doctors", Route: "/dashboard/doctors"},
		{Label: "My Records", Route: "/dashboard/records"},
	}
)

// NavigationItems returns the fixed, ordered navigation set for a role.
// The shared "Dashboard" item always comes first. Callers get a copy so
// the canonical sets stay stable across calls.
func NavigationItems(role model.UserRole) []NavItem {
	var items []NavItem
	switch role {
	case model.RoleAdmin:
		items = adminNav
	case model.RoleDoctor:
		items = doctorNav
	default:
		items = patientNav
	}

	out := make([]NavItem, len(items))
	copy(out, items)
	return out
}

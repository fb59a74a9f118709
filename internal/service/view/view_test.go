package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinicore/portal-api/internal/model"
	"github.com/clinicore/portal-api/internal/service/view"
)

func TestSelect(t *testing.T) {
	assert.Equal(t, view.VariantAdmin, view.Select(model.RoleAdmin))
	assert.Equal(t, view.VariantDoctor, view.Select(model.RoleDoctor))
	assert.Equal(t, view.VariantPatient, view.Select(model.RolePatient))

	// unknown roles fall back to the least-privileged variant
	assert.Equal(t, view.VariantPatient, view.Select(model.UserRole("superuser")))
	assert.Equal(t, view.VariantPatient, view.Select(model.UserRole("")))
}

func TestNavigationItemsAdmin(t *testing.T) {
	items := view.NavigationItems(model.RoleAdmin)

	assert.Len(t, items, 6)
	assert.Equal(t, "Dashboard", items[0].Label)
	assert.Equal(t, "Settings", items[len(items)-1].Label)
}

func TestNavigationItemsPerRole(t *testing.T) {
	doctor := view.NavigationItems(model.RoleDoctor)
	patient := view.NavigationItems(model.RolePatient)

	assert.Len(t, doctor, 4)
	assert.Len(t, patient, 4)

	// every role shares the dashboard entry first
	assert.Equal(t, "Dashboard", doctor[0].Label)
	assert.Equal(t, "Dashboard", patient[0].Label)

	// unknown roles see the patient navigation
	assert.Equal(t, patient, view.NavigationItems(model.UserRole("something-else")))
}

func TestNavigationItemsReturnsCopy(t *testing.T) {
	first := view.NavigationItems(model.RoleAdmin)
	first[0].Label = "Mutated"

	second := view.NavigationItems(model.RoleAdmin)
	assert.Equal(t, "Dashboard", second[0].Label)
}

func TestNavigationItemsStable(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, view.NavigationItems(model.RoleAdmin), view.NavigationItems(model.RoleAdmin))
	}
}

package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, role, name string) (token, userID string) {
	t.Helper()

	email := uniqueEmail(role)
	resp := makeRequest("POST", "/auth/register", map[string]interface{}{
		"email":    email,
		"password": "password123",
		"name":     name,
		"role":     role,
	}, "")
	require.True(t, resp.IsSuccess(), "failed to register %s: %s", role, resp.Message)

	token = resp.GetString("access_token")
	require.NotEmpty(t, token)

	me := makeRequest("GET", "/me", nil, token)
	require.True(t, me.IsSuccess())

	identity, ok := me.Data["identity"].(map[string]interface{})
	require.True(t, ok, "me response missing identity: %s", me.RawData)
	userID, _ = identity["id"].(string)
	require.NotEmpty(t, userID)
	return token, userID
}

func TestAuthAndViewSelection(t *testing.T) {
	adminToken, _ := registerUser(t, "admin", "Admin User")

	me := makeRequest("GET", "/me", nil, adminToken)
	require.True(t, me.IsSuccess())
	assert.Equal(t, "admin", me.Data["view"])

	var nav []struct {
		Label string `json:"label"`
	}
	navRaw, err := json.Marshal(me.Data["navigation"])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(navRaw, &nav))
	require.Len(t, nav, 6)
	assert.Equal(t, "Dashboard", nav[0].Label)
	assert.Equal(t, "Settings", nav[5].Label)

	// unauthenticated requests are pointed back to the login route
	denied := makeRequest("GET", "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, denied.Code)
	assert.Equal(t, "/auth", denied.GetString("redirect"))
}

func TestClinicFlow(t *testing.T) {
	adminToken, _ := registerUser(t, "admin", "Flow Admin")
	doctorToken, doctorUserID := registerUser(t, "doctor", "Dr. Flow")
	patientToken, patientUserID := registerUser(t, "patient", "Flow Patient")

	// admin enrolls the doctor and patient records
	docResp := makeRequest("POST", "/doctors", map[string]interface{}{
		"user_id":   doctorUserID,
		"specialty": "Cardiology",
	}, adminToken)
	require.True(t, docResp.IsSuccess(), "failed to create doctor: %s", docResp.Message)
	doctorID := docResp.GetString("id")

	patResp := makeRequest("POST", "/patients", map[string]interface{}{
		"user_id": patientUserID,
	}, adminToken)
	require.True(t, patResp.IsSuccess(), "failed to create patient: %s", patResp.Message)
	patientID := patResp.GetString("id")

	// a patient cannot touch the patient roster
	forbidden := makeRequest("GET", "/patients", nil, patientToken)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	// book an appointment
	aptResp := makeRequest("POST", "/appointments", map[string]interface{}{
		"patient_id":       patientID,
		"doctor_id":        doctorID,
		"appointment_date": "2030-01-15",
		"appointment_time": "10:30",
		"reason":           "annual checkup",
	}, patientToken)
	require.True(t, aptResp.IsSuccess(), "failed to create appointment: %s", aptResp.Message)
	aptID := aptResp.GetString("id")

	// the patient sees it enriched with the doctor's display name
	var list []map[string]interface{}
	listResp := makeRequest("GET", "/appointments", nil, patientToken)
	require.True(t, listResp.IsSuccess())
	require.NoError(t, json.Unmarshal([]byte(listResp.RawData), &list))

	var found bool
	for _, a := range list {
		if a["id"] == aptID {
			found = true
			assert.Equal(t, "Dr. Flow", a["doctor_name"])
			assert.Equal(t, "Flow Patient", a["patient_name"])
		}
	}
	assert.True(t, found, "appointment missing from the patient's list")

	// the doctor confirms it
	updResp := makeRequest("PATCH", "/appointments/"+aptID+"/status", map[string]interface{}{
		"status": "confirmed",
	}, doctorToken)
	require.True(t, updResp.IsSuccess(), "failed to confirm: %s", updResp.Message)
	assert.Equal(t, "confirmed", updResp.Data["status"])

	// stats are admin only
	stats := makeRequest("GET", "/dashboard/stats", nil, adminToken)
	require.True(t, stats.IsSuccess())
	assert.GreaterOrEqual(t, stats.Data["total_appointments"].(float64), 1.0)

	deniedStats := makeRequest("GET", "/dashboard/stats", nil, doctorToken)
	assert.Equal(t, http.StatusForbidden, deniedStats.Code)
}

package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/optivue/scheduling/internal/config"
	"github.com/optivue/scheduling/internal/schedule"
	"github.com/optivue/scheduling/internal/service"
	"github.com/optivue/scheduling/internal/store/memory"
	"github.com/optivue/scheduling/pkg/auth"
)

type testServer struct {
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	hours := schedule.WorkingHours{Start: "09:00", End: "18:00", SlotDuration: 30}
	booking := service.NewBookingService(store, hours, nil, zap.NewNop(), nil)
	query := service.NewQueryService(store)

	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:         "test-secret",
		Issuer:         "optivue-test",
		AccessTokenTTL: time.Hour,
	})
	token, err := jwtManager.GenerateToken(&auth.StaffClaims{
		StaffID: uuid.New(),
		Name:    "Front Desk",
		Role:    "receptionist",
	})
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Booking:    booking,
		Query:      query,
		JWTManager: jwtManager,
		Log:        zap.NewNop(),
		Env:        "test",
		Version:    "test",
	})
	return &testServer{router: router, token: token}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func bookingPayload(hhmm string) map[string]any {
	return map[string]any{
		"patientId":      "PAT-1",
		"patientName":    "Jordan Reyes",
		"date":           "2024-12-05",
		"time":           hhmm,
		"duration":       30,
		"type":           "eye-exam",
		"practitionerId": "OPT001",
	}
}

func TestCreateAppointmentEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/appointments", bookingPayload("10:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			ID      string `json:"id"`
			Number  string `json:"appointmentNumber"`
			Status  string `json:"status"`
			EndTime string `json:"endTime"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "APT-0001", resp.Data.Number)
	assert.Equal(t, "scheduled", resp.Data.Status)
	assert.Equal(t, "10:30", resp.Data.EndTime)
}

func TestCreateConflictReturns409(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/appointments", bookingPayload("10:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/appointments", bookingPayload("10:00"))
	require.Equal(t, http.StatusConflict, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SLOT_UNAVAILABLE", resp.Code)
}

func TestCreateValidationReturns400(t *testing.T) {
	srv := newTestServer(t)

	payload := bookingPayload("10:00")
	delete(payload, "patientId")
	w := srv.do(t, http.MethodPost, "/api/v1/appointments", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnauthenticatedRequestReturns401(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/appointments", bookingPayload("09:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/availability?date=2024-12-05&practitionerId=OPT001", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []schedule.TimeSlot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 18)
	assert.False(t, resp.Data[0].Available)
	assert.True(t, resp.Data[1].Available)

	w = srv.do(t, http.MethodGet, "/api/v1/availability?date=2024-12-05", nil)
	require.Equal(t, http.StatusBadRequest, w.Code, "practitionerId is required")
}

func TestStatusLifecycleEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/appointments", bookingPayload("10:00"))
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	statusPath := fmt.Sprintf("/api/v1/appointments/%s/status", created.Data.ID)

	// Cancelling without a reason is rejected.
	w = srv.do(t, http.MethodPatch, statusPath, map[string]any{"status": "cancelled"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPatch, statusPath, map[string]any{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)

	// Confirmed cannot jump straight to completed.
	w = srv.do(t, http.MethodPatch, statusPath, map[string]any{"status": "completed"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPatch, statusPath, map[string]any{"status": "in-progress"})
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodPatch, statusPath, map[string]any{"status": "completed", "medicalRecordId": "MR-2024-001"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestGetAppointmentNotFound(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/appointments/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/appointments/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAppointmentEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/appointments", bookingPayload("10:00"))
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = srv.do(t, http.MethodDelete, "/api/v1/appointments/"+created.Data.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/appointments/"+created.Data.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListByPatientEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/appointments", bookingPayload("10:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/patients/PAT-1/appointments", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}

func TestHealthEndpointSkipsAuth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

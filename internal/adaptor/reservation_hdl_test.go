package adaptor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"court-booking/internal/apperror"
	"court-booking/internal/data/entity"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubReservationService lets each test pin the service outcome.
type stubReservationService struct {
	reserveErr    error
	transitionErr error
	reservation   *response.ReservationResponse
}

func (s *stubReservationService) Reserve(_ context.Context, _ uuid.UUID, _ *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	if s.reserveErr != nil {
		return nil, s.reserveErr
	}
	return s.reservation, nil
}

func (s *stubReservationService) Transition(_ context.Context, _ string, _ entity.ReservationStatus, _ uuid.UUID, _ bool, _ int64) (*response.ReservationResponse, error) {
	if s.transitionErr != nil {
		return nil, s.transitionErr
	}
	return s.reservation, nil
}

func (s *stubReservationService) ListAvailability(_ context.Context, _ string, _ string) ([]response.SlotAvailabilityResponse, error) {
	return nil, nil
}

func (s *stubReservationService) ListForRequester(_ context.Context, _ uuid.UUID, _ *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	return response.NewPaginatedResponse([]response.ReservationResponse{}, 1, 10, 0), nil
}

func (s *stubReservationService) ListAll(_ context.Context, _ *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	return response.NewPaginatedResponse([]response.ReservationResponse{}, 1, 10, 0), nil
}

func (s *stubReservationService) GetByID(_ context.Context, _ string) (*response.ReservationResponse, error) {
	return s.reservation, nil
}

func (s *stubReservationService) CompleteElapsed(_ context.Context) (int64, error) {
	return 0, nil
}

func newTestRouter(stub *stubReservationService) *chi.Mux {
	h := NewReservationHandler(stub, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/reservations", h.Create)
	r.Patch("/api/reservations/{id}/status", h.Transition)
	r.Get("/api/user/reservations", h.ListForRequester)
	return r
}

func withIdentity(r *http.Request, requesterID uuid.UUID, isAdmin bool) *http.Request {
	return r.WithContext(utils.SetRequesterContext(r.Context(), requesterID, isAdmin))
}

func validCreateBody() string {
	return `{"court_id":"` + uuid.New().String() + `","date":"2026-09-02","start_time":"09:00"}`
}

func TestCreateHandler(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		stub := &stubReservationService{reservation: &response.ReservationResponse{ID: uuid.New().String()}}
		router := newTestRouter(stub)

		req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(validCreateBody()))
		req = withIdentity(req, uuid.New(), false)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var envelope utils.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.True(t, envelope.Status)
	})

	t.Run("Missing Identity", func(t *testing.T) {
		router := newTestRouter(&stubReservationService{})

		req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(validCreateBody()))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Invalid Body", func(t *testing.T) {
		router := newTestRouter(&stubReservationService{})

		req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(`{"court_id":"nope"}`))
		req = withIdentity(req, uuid.New(), false)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Error Mapping", func(t *testing.T) {
		cases := []struct {
			err  error
			code int
		}{
			{apperror.ErrInvalidSlot, http.StatusBadRequest},
			{apperror.ErrSlotUnavailable, http.StatusConflict},
			{apperror.ErrUnresolvedModifier, http.StatusBadRequest},
			{apperror.ErrNotFound, http.StatusNotFound},
		}

		for _, tc := range cases {
			router := newTestRouter(&stubReservationService{reserveErr: tc.err})

			req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(validCreateBody()))
			req = withIdentity(req, uuid.New(), false)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
		}
	})
}

func TestTransitionHandler(t *testing.T) {
	transitionBody := `{"status":"cancelled","expected_version":1}`

	t.Run("Success", func(t *testing.T) {
		stub := &stubReservationService{reservation: &response.ReservationResponse{Status: entity.StatusCancelled}}
		router := newTestRouter(stub)

		req := httptest.NewRequest(http.MethodPatch, "/api/reservations/"+uuid.New().String()+"/status", strings.NewReader(transitionBody))
		req = withIdentity(req, uuid.New(), false)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Unknown Status Rejected", func(t *testing.T) {
		router := newTestRouter(&stubReservationService{})

		req := httptest.NewRequest(http.MethodPatch, "/api/reservations/"+uuid.New().String()+"/status", strings.NewReader(`{"status":"expired","expected_version":1}`))
		req = withIdentity(req, uuid.New(), false)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Error Mapping", func(t *testing.T) {
		cases := []struct {
			err  error
			code int
		}{
			{apperror.ErrIllegalTransition, http.StatusBadRequest},
			{apperror.ErrVersionConflict, http.StatusConflict},
			{apperror.ErrUnauthorized, http.StatusForbidden},
			{apperror.ErrNotFound, http.StatusNotFound},
		}

		for _, tc := range cases {
			router := newTestRouter(&stubReservationService{transitionErr: tc.err})

			req := httptest.NewRequest(http.MethodPatch, "/api/reservations/"+uuid.New().String()+"/status", strings.NewReader(transitionBody))
			req = withIdentity(req, uuid.New(), false)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
		}
	})
}

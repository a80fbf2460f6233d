package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger so controller tests don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createErr            error
	updateErr            error
	deleteErr            error
	addParticipantErr    error
	removeParticipantErr error
	listParticipantsErr  error

	eventByID    map[string]*domain.Event
	participants []*domain.Participant

	lastCreated        *domain.Event
	lastUpdatePatch    domain.EventPatch
	lastActorID        string
	lastAddedUserID    string
	lastRemovedUserID  string
	lastDeletedEventID string
}

func (f *fakeEventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	event.ID = "ev-created"
	f.lastCreated = event
	return nil
}

func (f *fakeEventService) GetEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	if e, ok := f.eventByID[eventID]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventService) ListEventsByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	return []*domain.Event{}, nil
}

func (f *fakeEventService) ListEventsByParticipant(ctx context.Context, userID string) ([]*domain.Event, error) {
	return []*domain.Event{}, nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, eventID, actorID string, patch domain.EventPatch) (*domain.Event, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.lastUpdatePatch = patch
	f.lastActorID = actorID
	e, ok := f.eventByID[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, eventID, actorID string) error {
	f.lastDeletedEventID = eventID
	f.lastActorID = actorID
	return f.deleteErr
}

func (f *fakeEventService) AddParticipant(ctx context.Context, eventID, userID, actorID, role string) (*domain.Participant, error) {
	if f.addParticipantErr != nil {
		return nil, f.addParticipantErr
	}
	f.lastAddedUserID = userID
	f.lastActorID = actorID
	return &domain.Participant{EventID: eventID, UserID: userID, Role: role, Username: "bob"}, nil
}

func (f *fakeEventService) RemoveParticipant(ctx context.Context, eventID, userID, actorID string) error {
	f.lastRemovedUserID = userID
	f.lastActorID = actorID
	return f.removeParticipantErr
}

func (f *fakeEventService) ListParticipants(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	if f.listParticipantsErr != nil {
		return nil, f.listParticipantsErr
	}
	return f.participants, nil
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be a valid JSON envelope")
	return envelope
}

func TestEventController_CreateEvent(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		noUserContext  bool
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"title":"Launch party"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "no user in context",
			body:           `{"title":"Launch party"}`,
			noUserContext:  true,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "unauthorized",
		},
		{
			name:           "invalid json",
			body:           `{invalid`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid",
		},
		{
			name:           "missing title",
			body:           `{}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "title is required",
		},
		{
			name:           "end before start",
			body:           `{"title":"Launch party","start_date":"2026-07-01T18:00:00Z","end_date":"2026-07-01T12:00:00Z"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "end_date must not be before start_date",
		},
		{
			name:           "unknown field rejected",
			body:           `{"title":"Launch party","owner_id":"user-9"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "unknown field",
		},
		{
			name:           "service error",
			body:           `{"title":"Launch party"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{createErr: tt.fakeErr}
			ctrl := NewEventController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if !tt.noUserContext {
				req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			}
			rr := httptest.NewRecorder()

			ctrl.CreateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				require.NotNil(t, fake.lastCreated)
				assert.Equal(t, "Launch party", fake.lastCreated.Title)
				assert.Equal(t, "user-123", fake.lastCreated.OwnerID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestEventController_DeleteEvent(t *testing.T) {
	tests := []struct {
		name       string
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "not found", fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "forbidden", fakeErr: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: helpers.ErrCodeForbidden},
		{name: "service error", fakeErr: errors.New("db error"), wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{deleteErr: tt.fakeErr}
			ctrl := NewEventController(testLogger, fake)
			req := httptest.NewRequest(http.MethodDelete, "/events/ev-1", nil)
			req.SetPathValue("eventID", "ev-1")
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()

			ctrl.DeleteEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "ev-1", fake.lastDeletedEventID)
				assert.Equal(t, "user-123", fake.lastActorID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestEventController_AddParticipant(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"user_id":"user-2"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "missing user_id",
			body:           `{}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "user_id is required",
		},
		{
			name:           "unknown user",
			body:           `{"user_id":"user-2"}`,
			fakeErr:        domain.ErrUserNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "user not found",
		},
		{
			name:           "not owner",
			body:           `{"user_id":"user-2"}`,
			fakeErr:        domain.ErrForbidden,
			wantStatus:     http.StatusForbidden,
			wantBodySubstr: "forbidden",
		},
		{
			name:           "already on roster",
			body:           `{"user_id":"user-2"}`,
			fakeErr:        domain.ErrAlreadyParticipant,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "already a participant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{addParticipantErr: tt.fakeErr}
			ctrl := NewEventController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/events/ev-1/participants", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("eventID", "ev-1")
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()

			ctrl.AddParticipant(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "user-2", fake.lastAddedUserID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestEventController_RemoveParticipant(t *testing.T) {
	tests := []struct {
		name       string
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "participant not on roster", fakeErr: domain.ErrNotParticipant, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeConflict},
		{name: "event not found", fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "owner cannot be removed", fakeErr: domain.ErrOwnerParticipant, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeConflict},
		{name: "not owner", fakeErr: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: helpers.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{removeParticipantErr: tt.fakeErr}
			ctrl := NewEventController(testLogger, fake)
			req := httptest.NewRequest(http.MethodDelete, "/events/ev-1/participants/user-2", nil)
			req.SetPathValue("eventID", "ev-1")
			req.SetPathValue("userID", "user-2")
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()

			ctrl.RemoveParticipant(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "user-2", fake.lastRemovedUserID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

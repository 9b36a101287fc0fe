package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/rudrasish2003/Xenon-Backend/services"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation map", services.ValidationErrors{"team_id": "must be provided"}, http.StatusUnprocessableEntity},
		{"plain validation", services.ErrNoFieldsToUpdate, http.StatusBadRequest},
		{"match not found", services.ErrMatchNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("loading: %w", services.ErrTeamNotFound), http.StatusNotFound},
		{"conflict", services.ErrRosterEntryConflict, http.StatusConflict},
		{"tournament in use", services.ErrTournamentInUse, http.StatusConflict},
		{"photo storage off", services.ErrPhotoStorageUnavailable, http.StatusServiceUnavailable},
		{"accrual incomplete", fmt.Errorf("%w: boom", services.ErrAccrualIncomplete), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			mapServiceErrorToHTTP(rec, req, tt.err)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestNotFoundMessageIsSpecific(t *testing.T) {
	rec := httptest.NewRecorder()
	mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), services.ErrMatchNotFound)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "match not found" {
		t.Fatalf("error = %q, want %q", body["error"], "match not found")
	}
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"Cup"}`, ""},
		{"empty", ``, "body must not be empty"},
		{"unknown field", `{"name":"Cup","extra":1}`, "unknown key"},
		{"two values", `{"name":"a"}{"name":"b"}`, "single JSON value"},
		{"wrong type", `{"name":5}`, "incorrect JSON type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst struct {
				Name string `json:"name"`
			}
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := readJSON(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("readJSON() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("readJSON() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetIDFromURL(t *testing.T) {
	newReq := func(value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("matchID", value)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	if id, err := getIDFromURL(newReq("3f1c2d4e-5a6b-4c7d-8e9f-0a1b2c3d4e5f"), "matchID"); err != nil || id == "" {
		t.Fatalf("getIDFromURL() = %q, %v", id, err)
	}
	if _, err := getIDFromURL(newReq("12"), "matchID"); err == nil {
		t.Fatal("getIDFromURL() accepted a non-UUID id")
	}
	if _, err := getIDFromURL(newReq(""), "matchID"); err == nil {
		t.Fatal("getIDFromURL() accepted an empty id")
	}
}

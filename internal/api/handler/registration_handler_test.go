package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
)

func TestRegistrationHandler_Submit(t *testing.T) {
	var got ports.SubmitRegistrationInput
	stub := &stubRegistrationService{
		submitFn: func(_ context.Context, in ports.SubmitRegistrationInput) (*domain.RegistrationRequest, error) {
			got = in
			return &domain.RegistrationRequest{ID: "reg-1", Status: domain.RegistrationPending}, nil
		},
	}
	body := `{"username":"dave","phone_no":"5550001","email_id":"dave@example.com","message":"I would like to join","preferred_role":"user","gender":"male","dob":"1992-05-01"}`
	c, rec := newContext(http.MethodPost, "/api/contact-admin", strings.NewReader(body), echo.MIMEApplicationJSON, nil)

	if err := NewRegistrationHandler(stub).Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Username != "dave" || got.Email != "dave@example.com" || got.PreferredRole != "user" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if !strings.Contains(rec.Body.String(), `"registration_id":"reg-1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRegistrationHandler_Submit_Errors(t *testing.T) {
	h := NewRegistrationHandler(&stubRegistrationService{
		submitFn: func(context.Context, ports.SubmitRegistrationInput) (*domain.RegistrationRequest, error) {
			return nil, domain.ErrDuplicateSubmission
		},
	})

	c, _ := newContext(http.MethodPost, "/api/contact-admin", strings.NewReader(`{"username":"dave"}`), echo.MIMEApplicationJSON, nil)
	if err := h.Submit(c); !errors.Is(err, domain.ErrDuplicateSubmission) {
		t.Fatalf("expected ErrDuplicateSubmission, got %v", err)
	}

	c, _ = newContext(http.MethodPost, "/api/contact-admin", strings.NewReader(`not json`), echo.MIMEApplicationJSON, nil)
	if err := h.Submit(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRegistrationHandler_ListPending(t *testing.T) {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	stub := &stubRegistrationService{
		pendingFn: func(context.Context) ([]*domain.RegistrationRequest, error) {
			return []*domain.RegistrationRequest{
				{ID: "reg-2", Username: "erin", Status: domain.RegistrationPending, CreatedAt: created.Add(time.Hour)},
				{ID: "reg-1", Username: "dave", Status: domain.RegistrationPending, CreatedAt: created},
			}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/pending-requests", nil, "", adminClaims)
	if err := NewRegistrationHandler(stub).ListPending(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Status   string `json:"status"`
		Requests []struct {
			ID string `json:"registration_id"`
		} `json:"requests"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "success" || len(resp.Requests) != 2 || resp.Requests[0].ID != "reg-2" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestRegistrationHandler_ListPending_EmptyIsArray(t *testing.T) {
	stub := &stubRegistrationService{
		pendingFn: func(context.Context) ([]*domain.RegistrationRequest, error) { return nil, nil },
	}
	c, rec := newContext(http.MethodGet, "/api/pending-requests", nil, "", adminClaims)
	if err := NewRegistrationHandler(stub).ListPending(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"requests":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestRegistrationHandler_Approve(t *testing.T) {
	stub := &stubRegistrationService{
		approveFn: func(_ context.Context, id string, admin *domain.Claims) (*ports.ApprovalResult, error) {
			if id != "reg-1" || admin.UserID != adminClaims.UserID {
				t.Fatalf("unexpected args: %s %+v", id, admin)
			}
			return &ports.ApprovalResult{RegistrationID: id, UserID: "user-9", Username: "dave", TempPassword: "pubfitnessstudio"}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/approve-request/reg-1", nil, "", adminClaims)
	c.SetParamNames("id")
	c.SetParamValues("reg-1")

	if err := NewRegistrationHandler(stub).Approve(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["user_id"] != "user-9" || resp["temp_password"] != "pubfitnessstudio" || resp["username"] != "dave" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestRegistrationHandler_Approve_Errors(t *testing.T) {
	for _, want := range []error{domain.ErrUserExists, domain.ErrRegistrationProcessed, domain.ErrRegistrationNotFound} {
		stub := &stubRegistrationService{
			approveFn: func(context.Context, string, *domain.Claims) (*ports.ApprovalResult, error) { return nil, want },
		}
		c, rec := newContext(http.MethodPost, "/api/approve-request/reg-1", nil, "", adminClaims)
		c.SetParamNames("id")
		c.SetParamValues("reg-1")

		if err := NewRegistrationHandler(stub).Approve(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
		if rec.Body.Len() != 0 {
			t.Fatalf("nothing may be written on failure")
		}
	}
}

func TestRegistrationHandler_Reject(t *testing.T) {
	var gotReason string
	stub := &stubRegistrationService{
		rejectFn: func(_ context.Context, id, reason string, _ *domain.Claims) error {
			if id != "reg-3" {
				t.Fatalf("unexpected id %s", id)
			}
			gotReason = reason
			return nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/reject-request/reg-3", strings.NewReader(`{"reason":"incomplete"}`), echo.MIMEApplicationJSON, adminClaims)
	c.SetParamNames("id")
	c.SetParamValues("reg-3")

	if err := NewRegistrationHandler(stub).Reject(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || gotReason != "incomplete" {
		t.Fatalf("unexpected result: %d %q", rec.Code, gotReason)
	}
}

func TestRegistrationHandler_Reject_EmptyBody(t *testing.T) {
	gotReason := "unset"
	stub := &stubRegistrationService{
		rejectFn: func(_ context.Context, _, reason string, _ *domain.Claims) error {
			gotReason = reason
			return nil
		},
	}
	c, _ := newContext(http.MethodPost, "/api/reject-request/reg-3", nil, "", adminClaims)
	c.SetParamNames("id")
	c.SetParamValues("reg-3")

	if err := NewRegistrationHandler(stub).Reject(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotReason != "" {
		t.Fatalf("expected empty reason to reach the service, got %q", gotReason)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
	"slotbook/pkg/session"
)

const testSecret = "Zm9yLWxvY2FsLWRldmVsb3BtZW50LW9ubHktMDAwMDA="

type mockUserService struct {
	registerFunc      func(ctx context.Context, u *model.User) error
	updateProfileFunc func(ctx context.Context, userID string, update *model.ProfileUpdate) error
}

func (m *mockUserService) Register(ctx context.Context, u *model.User) error {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, u)
	}
	u.ID = "507f1f77bcf86cd799439011"
	return nil
}
func (m *mockUserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if username == "john-doe" {
		return &model.User{ID: "507f1f77bcf86cd799439011", Username: username, Name: "John Doe"}, nil
	}
	return nil, apperrors.NotFoundWithID("User", username)
}
func (m *mockUserService) UpdateProfile(ctx context.Context, userID string, update *model.ProfileUpdate) error {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, userID, update)
	}
	return nil
}

func newTestRouter(t *testing.T, svc *mockUserService) (*httprouter.Router, *session.Manager) {
	t.Helper()

	sessions, err := session.NewManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to build session manager: %v", err)
	}

	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})

	router := httprouter.New()
	NewUserHandler(svc, sessions, log).RegisterRoutes(router)
	return router, sessions
}

func TestCreate_SetsSessionCookie(t *testing.T) {
	router, sessions := newTestRouter(t, &mockUserService{})

	body := `{"username": "john-doe", "name": "John Doe"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("expected session cookie on registration")
	}

	userID, err := sessions.Parse(sessionCookie.Value)
	if err != nil {
		t.Fatalf("cookie does not parse: %v", err)
	}
	if userID != "507f1f77bcf86cd799439011" {
		t.Errorf("cookie carries wrong identity: %q", userID)
	}
}

func TestCreate_ConflictPassedThrough(t *testing.T) {
	svc := &mockUserService{
		registerFunc: func(ctx context.Context, u *model.User) error {
			return apperrors.Conflict("Username already taken")
		},
	}
	router, _ := newTestRouter(t, svc)

	body := `{"username": "john-doe", "name": "John Doe"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no cookie should be set on a failed registration")
	}
}

func TestGetByUsername(t *testing.T) {
	router, _ := newTestRouter(t, &mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/john-doe", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data model.User `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Username != "john-doe" {
		t.Errorf("unexpected user in response: %+v", resp.Data)
	}
}

func TestGetByUsername_NotFound(t *testing.T) {
	router, _ := newTestRouter(t, &mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/nobody", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateProfile_RequiresSession(t *testing.T) {
	router, _ := newTestRouter(t, &mockUserService{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(`{"bio": "hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUpdateProfile_WithSession(t *testing.T) {
	var gotUserID string
	svc := &mockUserService{
		updateProfileFunc: func(ctx context.Context, userID string, update *model.ProfileUpdate) error {
			gotUserID = userID
			return nil
		},
	}
	router, sessions := newTestRouter(t, svc)

	token, err := sessions.Issue("507f1f77bcf86cd799439011")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(`{"bio": "hi"}`))
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotUserID != "507f1f77bcf86cd799439011" {
		t.Errorf("service saw wrong identity: %q", gotUserID)
	}
}

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"authd/internal/common"
	"authd/internal/logging"
	"authd/internal/server/identity"
	"authd/internal/server/models"
)

type fakeAuth struct {
	registerOut *identity.Session
	registerErr error

	loginOut *identity.Session
	loginErr error

	findOut *models.Identity
	findErr error

	listOut []models.Identity
	listErr error
}

func (f *fakeAuth) Register(ctx context.Context, draft *models.Draft) (*identity.Session, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registerOut, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*identity.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginOut, nil
}

func (f *fakeAuth) FindByID(ctx context.Context, id string) (*models.Identity, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeAuth) ListAll(ctx context.Context) ([]models.Identity, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func newTestRouter(t *testing.T, auth AuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := gin.New()
	NewHandler(auth, logger).Routes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegister_Created(t *testing.T) {
	session := &identity.Session{
		Identity: &models.Identity{ID: "u-1", Email: "a@x.com", Name: "A", IsActive: true, Roles: []string{"user"}},
		Token:    "signed.token.value",
	}
	router := newTestRouter(t, &fakeAuth{registerOut: session})

	w := doJSON(t, router, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","name":"A","password":"secret1"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d want %d, body %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp struct {
		Identity map[string]any `json:"identity"`
		Token    string         `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response decode error: %v", err)
	}
	if resp.Token != "signed.token.value" {
		t.Fatalf("unexpected token: %q", resp.Token)
	}
	if resp.Identity["id"] != "u-1" {
		t.Fatalf("unexpected identity: %v", resp.Identity)
	}

	// no digest-shaped field may ever appear in the wire representation
	for _, k := range []string{"password", "passwordDigest", "password_digest"} {
		if _, ok := resp.Identity[k]; ok {
			t.Fatalf("field %q leaked into the response: %v", k, resp.Identity)
		}
	}
}

func TestRegister_Duplicate(t *testing.T) {
	router := newTestRouter(t, &fakeAuth{registerErr: common.ErrDuplicateIdentity})

	w := doJSON(t, router, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","name":"A","password":"secret1"}`)

	if w.Code != http.StatusConflict {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusConflict)
	}
}

func TestRegister_ValidationFailure(t *testing.T) {
	router := newTestRouter(t, &fakeAuth{
		registerErr: fmt.Errorf("%w: password must be at least 6 characters", common.ErrValidation),
	})

	w := doJSON(t, router, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","name":"A","password":"ab"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusBadRequest)
	}
}

func TestRegister_MalformedBody(t *testing.T) {
	router := newTestRouter(t, &fakeAuth{})

	w := doJSON(t, router, http.MethodPost, "/auth/register", `{not json`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusBadRequest)
	}
}

func TestRegister_PersistenceFailure_OpaqueBody(t *testing.T) {
	router := newTestRouter(t, &fakeAuth{
		registerErr: errors.Join(common.ErrPersistence, errors.New("pq: connection refused at 10.0.0.5")),
	})

	w := doJSON(t, router, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","name":"A","password":"secret1"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusInternalServerError)
	}
	if strings.Contains(w.Body.String(), "10.0.0.5") {
		t.Fatalf("storage details leaked: %s", w.Body.String())
	}
}

func TestLogin_OK(t *testing.T) {
	session := &identity.Session{
		Identity: &models.Identity{ID: "u-1", Email: "a@x.com"},
		Token:    "tok",
	}
	router := newTestRouter(t, &fakeAuth{loginOut: session})

	w := doJSON(t, router, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"secret1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router := newTestRouter(t, &fakeAuth{loginErr: common.ErrInvalidCredentials})

	wrongPw := doJSON(t, router, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"wrong"}`)
	unknown := doJSON(t, router, http.MethodPost, "/auth/login",
		`{"email":"nouser@x.com","password":"x"}`)

	if wrongPw.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("both must be 401: got %d and %d", wrongPw.Code, unknown.Code)
	}
	if wrongPw.Body.String() != unknown.Body.String() {
		t.Fatalf("responses must be indistinguishable: %s vs %s", wrongPw.Body.String(), unknown.Body.String())
	}
}

func TestGetByID_OK(t *testing.T) {
	router := newTestRouter(t, &fakeAuth{
		findOut: &models.Identity{ID: "u-1", Email: "a@x.com", Roles: []string{"user"}},
	})

	w := doJSON(t, router, http.MethodGet, "/auth/u-1", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusOK)
	}

	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("response decode error: %v", err)
	}
	if got["id"] != "u-1" {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	router := newTestRouter(t, &fakeAuth{findErr: common.ErrNotFound})

	w := doJSON(t, router, http.MethodGet, "/auth/nope", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusNotFound)
	}
}

func TestList_OK(t *testing.T) {
	router := newTestRouter(t, &fakeAuth{
		listOut: []models.Identity{{ID: "u-1"}, {ID: "u-2"}},
	})

	w := doJSON(t, router, http.MethodGet, "/auth", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusOK)
	}

	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("response decode error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 identities, got %d", len(got))
	}
}

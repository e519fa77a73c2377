package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"homehub/auth"
	"homehub/internal/db"
	"homehub/internal/models"
	"homehub/internal/web/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testRouter() (*gin.Engine, *middleware.MiddlewareManager) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Token validation only needs the shared secret, so nil db/redis are fine
	authModule := auth.NewAuthModule(nil, nil, testSecret)
	return r, middleware.NewMiddlewareManager(nil, nil, authModule)
}

func authToken(t *testing.T, userID string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authToken(t, userID))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSONNoAuth(t *testing.T, r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBuffer(nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// httpResult bundles a recorded response for terse assertions
type httpResult struct {
	code int
	body []byte
	w    *httptest.ResponseRecorder
}

func (r *httpResult) String() string { return string(r.body) }

func (r *httpResult) decode(v any) error { return json.Unmarshal(r.body, v) }

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// --- fakes ---

type fakeHomeStore struct {
	homes map[string]*models.Home
}

func newFakeHomeStore(homes ...*models.Home) *fakeHomeStore {
	f := &fakeHomeStore{homes: map[string]*models.Home{}}
	for _, h := range homes {
		f.homes[h.ID] = h
	}
	return f
}

func (f *fakeHomeStore) CreateHome(_ context.Context, name, ownerID string) (string, error) {
	id := fmt.Sprintf("home-%d", len(f.homes)+1)
	f.homes[id] = &models.Home{ID: id, Name: name, OwnerID: ownerID}
	return id, nil
}

func (f *fakeHomeStore) GetHomeByID(_ context.Context, id string) (*models.Home, error) {
	h, ok := f.homes[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return h, nil
}

func (f *fakeHomeStore) ListHomesByOwner(_ context.Context, ownerID string) ([]models.Home, error) {
	list := []models.Home{}
	for _, h := range f.homes {
		if h.OwnerID == ownerID {
			list = append(list, *h)
		}
	}
	return list, nil
}

type fakeAutomationStore struct {
	byID  map[string]*models.Automation
	order []string
	calls []string
	seq   int
}

func newFakeAutomationStore() *fakeAutomationStore {
	return &fakeAutomationStore{byID: map[string]*models.Automation{}}
}

func (f *fakeAutomationStore) ListAutomationsByHome(_ context.Context, homeID string) ([]models.Automation, error) {
	f.calls = append(f.calls, "list")
	list := []models.Automation{}
	for _, id := range f.order {
		if a := f.byID[id]; a != nil && a.HomeID == homeID {
			list = append(list, *a)
		}
	}
	return list, nil
}

func (f *fakeAutomationStore) GetAutomationByID(_ context.Context, id string) (*models.Automation, error) {
	f.calls = append(f.calls, "get")
	a, ok := f.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAutomationStore) CreateAutomation(_ context.Context, a *models.Automation) (string, error) {
	f.calls = append(f.calls, "create")
	f.seq++
	id := fmt.Sprintf("auto-%d", f.seq)
	stored := *a
	stored.ID = id
	f.byID[id] = &stored
	f.order = append(f.order, id)
	return id, nil
}

func (f *fakeAutomationStore) UpdateAutomation(_ context.Context, a *models.Automation) error {
	f.calls = append(f.calls, "update")
	stored := *a
	f.byID[a.ID] = &stored
	return nil
}

func (f *fakeAutomationStore) DeleteAutomation(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete")
	delete(f.byID, id)
	return nil
}

func (f *fakeAutomationStore) ToggleAutomation(_ context.Context, id string) (bool, error) {
	f.calls = append(f.calls, "toggle")
	a, ok := f.byID[id]
	if !ok {
		return false, db.ErrNotFound
	}
	a.Enabled = !a.Enabled
	return a.Enabled, nil
}

type fakeSceneStore struct {
	byID  map[string]*models.Scene
	order []string
	calls []string
	seq   int
}

func newFakeSceneStore() *fakeSceneStore {
	return &fakeSceneStore{byID: map[string]*models.Scene{}}
}

func (f *fakeSceneStore) ListScenesByHome(_ context.Context, homeID string) ([]models.Scene, error) {
	f.calls = append(f.calls, "list")
	list := []models.Scene{}
	for _, id := range f.order {
		if s := f.byID[id]; s != nil && s.HomeID == homeID {
			list = append(list, *s)
		}
	}
	return list, nil
}

func (f *fakeSceneStore) GetSceneByID(_ context.Context, id string) (*models.Scene, error) {
	f.calls = append(f.calls, "get")
	s, ok := f.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSceneStore) CreateScene(_ context.Context, s *models.Scene) (string, error) {
	f.calls = append(f.calls, "create")
	f.seq++
	id := fmt.Sprintf("scene-%d", f.seq)
	stored := *s
	stored.ID = id
	f.byID[id] = &stored
	f.order = append(f.order, id)
	return id, nil
}

func (f *fakeSceneStore) DeleteScene(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete")
	delete(f.byID, id)
	return nil
}

type fakeEngine struct {
	refreshed []string
	removed   []string
}

func (f *fakeEngine) RefreshAssociations(id string) error {
	f.refreshed = append(f.refreshed, id)
	return nil
}

func (f *fakeEngine) RemoveAssociations(id string) error {
	f.removed = append(f.removed, id)
	return nil
}

package webserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-stack/grievance-portal/src/portal/config"
	"github.com/civic-stack/grievance-portal/src/portal/storage"
	"github.com/civic-stack/grievance-portal/src/portal/types"
	"github.com/civic-stack/grievance-portal/src/portal/webserver"
)

const testSecret = "test-secret"

type nopNotifier struct{}

func (nopNotifier) Send(context.Context, string, string, string) error { return nil }

func newTestServer(t *testing.T) (*gin.Engine, *storage.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		JWTSecret:  testSecret,
		RateLimit:  100,
		RateWindow: time.Minute,
	}
	store := storage.NewMemory()
	r := webserver.New(cfg, store, nil, nopNotifier{}, nil)
	return r, store
}

func token(t *testing.T, id, role, email, name string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   id,
		"role":  role,
		"email": email,
		"name":  name,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func doJSON(r *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitAnonymousWithoutToken(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(r, http.MethodPost, "/v1/complaints", "", gin.H{
		"submissionType": "anonymous",
		"subject":        "Noise at night",
		"description":    "Construction noise past midnight.",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Complaint types.Complaint `json:"complaint"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Complaint.UserID)
	assert.Equal(t, "pending", resp.Complaint.Status)
}

func TestSubmitPublicCarriesIdentity(t *testing.T) {
	r, _ := newTestServer(t)
	user := token(t, "u1", "user", "u1@example.com", "User One")

	w := doJSON(r, http.MethodPost, "/v1/complaints", user, gin.H{
		"submissionType": "public",
		"subject":        "Pothole on Main St",
		"description":    "Deep pothole near the crossing.",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Complaint types.Complaint `json:"complaint"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Complaint.UserID)
	assert.Equal(t, "u1", *resp.Complaint.UserID)
}

func TestSubmitPublicWithoutTokenRejected(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(r, http.MethodPost, "/v1/complaints", "", gin.H{
		"submissionType": "public",
		"subject":        "s",
		"description":    "d",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRequiresToken(t *testing.T) {
	r, _ := newTestServer(t)
	w := doJSON(r, http.MethodGet, "/v1/complaints", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestComplaintVisibility(t *testing.T) {
	r, store := newTestServer(t)
	ownerID := "u1"
	c := &types.Complaint{
		SubmissionType: "public",
		Subject:        "s", Description: "d",
		UserID: &ownerID,
	}
	require.NoError(t, store.CreateComplaint(c))

	owner := token(t, "u1", "user", "", "")
	stranger := token(t, "u2", "user", "", "")
	admin := token(t, "a1", "admin", "", "")

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/v1/complaints/"+c.ID, owner, nil).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(r, http.MethodGet, "/v1/complaints/"+c.ID, stranger, nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/v1/complaints/"+c.ID, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/v1/complaints/missing", admin, nil).Code)
}

func TestAdminGate(t *testing.T) {
	r, _ := newTestServer(t)
	user := token(t, "u1", "user", "", "")
	admin := token(t, "a1", "admin", "", "")

	assert.Equal(t, http.StatusForbidden, doJSON(r, http.MethodGet, "/v1/admin/complaints", user, nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/v1/admin/complaints", admin, nil).Code)
}

func TestAdminSetStatus(t *testing.T) {
	r, store := newTestServer(t)
	c := &types.Complaint{SubmissionType: "anonymous", Subject: "s", Description: "d"}
	require.NoError(t, store.CreateComplaint(c))
	admin := token(t, "a1", "admin", "", "")

	w := doJSON(r, http.MethodPut, "/v1/admin/complaints/"+c.ID+"/status", admin, gin.H{"status": "resolved"})
	require.Equal(t, http.StatusOK, w.Code)

	got, err := store.FindComplaint(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "resolved", got.Status)

	w = doJSON(r, http.MethodPut, "/v1/admin/complaints/"+c.ID+"/status", admin, gin.H{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminEscalate(t *testing.T) {
	r, store := newTestServer(t)
	c := &types.Complaint{SubmissionType: "anonymous", Subject: "s", Description: "d"}
	require.NoError(t, store.CreateComplaint(c))
	admin := token(t, "a1", "admin", "", "")

	w := doJSON(r, http.MethodPost, "/v1/admin/complaints/"+c.ID+"/escalate", admin, gin.H{
		"authorityName":  "City Inspectorate",
		"authorityEmail": "inspector@city.gov",
		"reason":         "no response in 10 days",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	got, err := store.FindComplaint(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", got.Status)

	es, err := store.AllEscalations()
	require.NoError(t, err)
	require.Len(t, es, 1)
	assert.Equal(t, "inspector@city.gov", es[0].AuthorityEmail)
}

func TestReportEndpoints(t *testing.T) {
	r, store := newTestServer(t)
	require.NoError(t, store.CreateComplaint(&types.Complaint{
		SubmissionType: "anonymous", Subject: "s", Description: "d", Status: "resolved",
	}))
	admin := token(t, "a1", "admin", "", "")

	w := doJSON(r, http.MethodGet, "/v1/admin/reports/summary", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Total    int              `json:"total"`
		ByDay    []map[string]any `json:"byDay"`
		ByStatus map[string]int   `json:"byStatus"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Total)
	assert.Len(t, summary.ByDay, 30)
	assert.Equal(t, 1, summary.ByStatus["resolved"])

	w = doJSON(r, http.MethodGet, "/v1/admin/reports/export.csv?status=resolved", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=complaints_")

	w = doJSON(r, http.MethodGet, "/v1/admin/reports/export.pdf", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

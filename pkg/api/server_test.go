package api

import (
	"context"
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

	"github.com/agentexec/agentexec/pkg/activity"
	"github.com/agentexec/agentexec/pkg/database"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeReader struct {
	page      *activity.Page
	detail    *activity.Detail
	detailErr error
	active    int

	gotList   activity.ListOptions
	gotDetail map[string]interface{}
}

func (f *fakeReader) List(_ context.Context, opts activity.ListOptions) (*activity.Page, error) {
	f.gotList = opts
	return f.page, nil
}

func (f *fakeReader) Detail(_ context.Context, _ uuid.UUID, md map[string]interface{}) (*activity.Detail, error) {
	f.gotDetail = md
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeReader) CountActive(context.Context) (int, error) {
	return f.active, nil
}

type fakeHealth struct {
	err error
}

func (f *fakeHealth) Health(context.Context) (*database.HealthStatus, error) {
	if f.err != nil {
		return &database.HealthStatus{Status: "unhealthy"}, f.err
	}
	return &database.HealthStatus{Status: "healthy"}, nil
}

func doRequest(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Router().ServeHTTP(w, req)
	return w
}

func TestListActivities(t *testing.T) {
	pct := 100
	reader := &fakeReader{
		page: &activity.Page{
			Items: []activity.Summary{{
				AgentID:    uuid.New(),
				AgentType:  "double",
				Status:     activity.StatusComplete,
				Message:    "Completed successfully.",
				Percentage: &pct,
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			}},
			Total: 1, Limit: 50,
		},
	}
	s := NewServer(reader, &fakeHealth{})

	w := doRequest(t, s, "/api/v1/activities?limit=10&offset=5&metadata.tenant=acme")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 10, reader.gotList.Limit)
	assert.Equal(t, 5, reader.gotList.Offset)
	assert.Equal(t, map[string]interface{}{"tenant": "acme"}, reader.gotList.Metadata)

	var page activity.Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, activity.StatusComplete, page.Items[0].Status)
	assert.Equal(t, 1, page.Total)
}

func TestListActivities_BadPaging(t *testing.T) {
	s := NewServer(&fakeReader{page: &activity.Page{}}, &fakeHealth{})

	w := doRequest(t, s, "/api/v1/activities?limit=ten")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, s, "/api/v1/activities?offset=x")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetActivity(t *testing.T) {
	id := uuid.New()
	reader := &fakeReader{
		detail: &activity.Detail{
			Summary: activity.Summary{AgentID: id, AgentType: "double", Status: activity.StatusRunning},
			Logs: []activity.LogEntry{
				{Status: activity.StatusQueued, Message: "Waiting to start."},
				{Status: activity.StatusRunning, Message: "Started processing."},
			},
		},
	}
	s := NewServer(reader, &fakeHealth{})

	w := doRequest(t, s, "/api/v1/activities/"+id.String())
	require.Equal(t, http.StatusOK, w.Code)

	var detail activity.Detail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, id, detail.AgentID)
	assert.Len(t, detail.Logs, 2)
}

func TestGetActivity_NotFound(t *testing.T) {
	reader := &fakeReader{detailErr: fmt.Errorf("%w: gone", activity.ErrUnknownAgent)}
	s := NewServer(reader, &fakeHealth{})

	w := doRequest(t, s, "/api/v1/activities/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetActivity_MetadataFilterForwarded(t *testing.T) {
	reader := &fakeReader{detail: &activity.Detail{}}
	s := NewServer(reader, &fakeHealth{})

	w := doRequest(t, s, "/api/v1/activities/"+uuid.NewString()+"?metadata.tenant=acme&metadata.env=prod")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"tenant": "acme", "env": "prod"}, reader.gotDetail)
}

func TestGetActivity_BadID(t *testing.T) {
	s := NewServer(&fakeReader{}, &fakeHealth{})

	w := doRequest(t, s, "/api/v1/activities/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthz(t *testing.T) {
	s := NewServer(&fakeReader{active: 2}, &fakeHealth{})

	w := doRequest(t, s, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.EqualValues(t, 2, body["active_activities"])
}

func TestHealthz_Unhealthy(t *testing.T) {
	s := NewServer(&fakeReader{}, &fakeHealth{err: fmt.Errorf("connection refused")})

	w := doRequest(t, s, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

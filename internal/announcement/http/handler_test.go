package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Hurtuk18/server-announcements-be/internal/announcement"
	"github.com/Hurtuk18/server-announcements-be/internal/pkg/apperror"
)

// fakeService scripts the service layer for handler tests.
type fakeService struct {
	byID        map[string]*announcement.Announcement
	listResult  []*announcement.Announcement
	lastFilter  announcement.Filter
	definitions any
	createErr   error
}

func (f *fakeService) List(_ context.Context, filter announcement.Filter) ([]*announcement.Announcement, int, error) {
	f.lastFilter = filter
	return f.listResult, len(f.listResult), nil
}

func (f *fakeService) GetByID(_ context.Context, id string) (*announcement.Announcement, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound(fmt.Sprintf("Announcement %s not found", id))
	}
	return a, nil
}

func (f *fakeService) Create(_ context.Context, req announcement.CreateRequest) (*announcement.Announcement, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a := sampleAnnouncement()
	a.Title = req.Title
	a.Content = req.Content
	return a, nil
}

func (f *fakeService) Update(ctx context.Context, id string, req announcement.UpdateRequest) (*announcement.Announcement, error) {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	return a, nil
}

func (f *fakeService) Delete(ctx context.Context, id string) (*announcement.Announcement, error) {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	delete(f.byID, id)
	return a, nil
}

func (f *fakeService) Definitions() (any, error) {
	if f.definitions == nil {
		return nil, fmt.Errorf("definitions path is not configured")
	}
	return f.definitions, nil
}

func newTestRouter(svc announcement.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, NewHandler(svc))
	return r
}

func executeRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListReturnsItemsAndTotal(t *testing.T) {
	svc := &fakeService{listResult: []*announcement.Announcement{sampleAnnouncement()}}
	r := newTestRouter(svc)

	w := executeRequest(r, http.MethodGet, "/announcements?search=road&categories=CITY&categories=HEALTH&sort=title&order=asc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.Equal(t, 1, resp.Total)

	require.Equal(t, "road", svc.lastFilter.Search)
	require.Equal(t, []string{"CITY", "HEALTH"}, svc.lastFilter.Categories)
	require.Equal(t, announcement.SortByTitle, svc.lastFilter.SortBy)
	require.False(t, svc.lastFilter.Descending)
}

func TestListDefaultsToLastUpdateDescending(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc)

	w := executeRequest(r, http.MethodGet, "/announcements", nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, announcement.SortByLastUpdate, svc.lastFilter.SortBy)
	require.True(t, svc.lastFilter.Descending)
}

func TestListRejectsUnknownSortField(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := executeRequest(r, http.MethodGet, "/announcements?sort=content", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetByIDNotFound(t *testing.T) {
	r := newTestRouter(&fakeService{byID: map[string]*announcement.Announcement{}})

	id := uuid.NewString()
	w := executeRequest(r, http.MethodGet, "/announcements/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body["message"], id)
}

func TestGetByIDRejectsNonUUID(t *testing.T) {
	r := newTestRouter(&fakeService{byID: map[string]*announcement.Announcement{}})

	w := executeRequest(r, http.MethodGet, "/announcements/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReturns201(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := executeRequest(r, http.MethodPost, "/announcements", gin.H{
		"title":           "New",
		"content":         "Body",
		"publicationDate": "01/01/2026 10:00",
		"categories":      []string{"CITY"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp AnnouncementFullResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "New", resp.Title)
	require.Equal(t, "Body", resp.Content)
}

func TestCreateValidationErrorIs400(t *testing.T) {
	svc := &fakeService{createErr: apperror.Validation("Unknown categories: NOPE")}
	r := newTestRouter(svc)

	w := executeRequest(r, http.MethodPost, "/announcements", gin.H{
		"title":           "New",
		"content":         "Body",
		"publicationDate": "01/01/2026 10:00",
		"categories":      []string{"NOPE"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body["message"], "NOPE")
}

func TestCreateUnexpectedErrorIsGeneric500(t *testing.T) {
	svc := &fakeService{createErr: fmt.Errorf("connection refused")}
	r := newTestRouter(svc)

	w := executeRequest(r, http.MethodPost, "/announcements", gin.H{
		"title":           "New",
		"content":         "Body",
		"publicationDate": "01/01/2026 10:00",
		"categories":      []string{"CITY"},
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Internal server error", body["message"])
	require.NotContains(t, w.Body.String(), "connection refused")
}

func TestUpdateNotFound(t *testing.T) {
	r := newTestRouter(&fakeService{byID: map[string]*announcement.Announcement{}})

	w := executeRequest(r, http.MethodPut, "/announcements/"+uuid.NewString(), gin.H{"title": "x"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteReturnsDeletedEntity(t *testing.T) {
	a := sampleAnnouncement()
	id := uuid.NewString()
	a.ID = id
	svc := &fakeService{byID: map[string]*announcement.Announcement{id: a}}
	r := newTestRouter(svc)

	w := executeRequest(r, http.MethodDelete, "/announcements/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AnnouncementFullResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, id, resp.ID)
	require.Equal(t, "Road closure", resp.Title)

	// A second delete for the same id 404s.
	w = executeRequest(r, http.MethodDelete, "/announcements/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDefinitionsReturnedVerbatim(t *testing.T) {
	svc := &fakeService{definitions: map[string]any{
		"categories": []any{map[string]any{"code": "CITY", "label": "City"}},
	}}
	r := newTestRouter(svc)

	w := executeRequest(r, http.MethodGet, "/announcements/definitions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body, "categories")
}

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/avelasquez/courseapi/internal/models"
	"github.com/avelasquez/courseapi/internal/store"
)

// memStore is an in-memory stand-in for the Postgres store, enforcing the
// same constraints: unique email, existence and ownership on mutation.
type memStore struct {
	mu      sync.Mutex
	users   map[string]*models.User // by id
	byEmail map[string]string
	courses map[string]*models.Course
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
		courses: make(map[string]*models.Course),
	}
}

func (m *memStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.byEmail[u.EmailAddress]; dup {
		return nil, &store.ValidationError{Messages: []string{"Such email already exists"}}
	}
	u.ID = uuid.NewString()
	cp := *u
	m.users[u.ID] = &cp
	m.byEmail[u.EmailAddress] = u.ID
	return u, nil
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *m.users[id]
	return &cp, nil
}

func (m *memStore) detail(c *models.Course) models.CourseDetail {
	owner := m.users[c.UserID]
	return models.CourseDetail{
		Course: *c,
		User:   models.CourseOwner{FirstName: owner.FirstName, LastName: owner.LastName},
	}
}

func (m *memStore) ListCourses(ctx context.Context) ([]models.CourseDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CourseDetail
	for _, c := range m.courses {
		out = append(out, m.detail(c))
	}
	return out, nil
}

func (m *memStore) GetCourse(ctx context.Context, id string) (*models.CourseDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	d := m.detail(c)
	return &d, nil
}

func (m *memStore) CreateCourse(ctx context.Context, c *models.Course) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.NewString()
	cp := *c
	m.courses[c.ID] = &cp
	return c, nil
}

func (m *memStore) UpdateCourse(ctx context.Context, id, ownerID string, upd *models.CoursePayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return store.ErrNotFound
	}
	if c.UserID != ownerID {
		return store.ErrNotOwner
	}
	if upd.Title != nil {
		c.Title = *upd.Title
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.EstimatedTime != nil {
		c.EstimatedTime = *upd.EstimatedTime
	}
	if upd.MaterialsNeeded != nil {
		c.MaterialsNeeded = *upd.MaterialsNeeded
	}
	return nil
}

func (m *memStore) DeleteCourse(ctx context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return store.ErrNotFound
	}
	if c.UserID != ownerID {
		return store.ErrNotOwner
	}
	delete(m.courses, id)
	return nil
}

type client struct {
	t   *testing.T
	srv *httptest.Server
}

func (c *client) do(method, path, body, email, password string) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(method, c.srv.URL+path, strings.NewReader(body))
	require.NoError(c.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		req.SetBasicAuth(email, password)
	}
	resp, err := c.srv.Client().Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestEndToEndFlow(t *testing.T) {
	db := newMemStore()
	srv := httptest.NewServer(newRouter(db, db, nil))
	defer srv.Close()
	c := &client{t: t, srv: srv}

	// Register the owner.
	resp := c.do(http.MethodPost, "/api/users",
		`{"firstName":"A","lastName":"B","emailAddress":"a@b.com","password":"longenough"}`, "", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	// Same email again: uniqueness failure, no partial record.
	resp = c.do(http.MethodPost, "/api/users",
		`{"firstName":"A2","lastName":"B2","emailAddress":"a@b.com","password":"longenough"}`, "", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var dup struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dup))
	require.Equal(t, []string{"Such email already exists"}, dup.Errors)
	require.Len(t, db.users, 1)

	// A second, distinct user for the ownership checks.
	resp = c.do(http.MethodPost, "/api/users",
		`{"firstName":"C","lastName":"D","emailAddress":"c@d.com","password":"alsolongenough"}`, "", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Creating a course needs credentials.
	resp = c.do(http.MethodPost, "/api/courses", `{"title":"T","description":"D"}`, "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Create as the owner; the Location header carries the new id.
	resp = c.do(http.MethodPost, "/api/courses",
		`{"title":"T","description":"D"}`, "a@b.com", "longenough")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	loc := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(loc, "/api/courses/"), "Location %q", loc)

	// Read it back, owner names attached.
	resp = c.do(http.MethodGet, loc, "", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		Course models.CourseDetail `json:"course"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, "T", got.Course.Title)
	require.Equal(t, models.CourseOwner{FirstName: "A", LastName: "B"}, got.Course.User)

	// A different authenticated user may not edit it.
	resp = c.do(http.MethodPut, loc, `{"title":"hijacked"}`, "c@d.com", "alsolongenough")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The owner may; partial update leaves the description alone.
	resp = c.do(http.MethodPut, loc, `{"title":"T2"}`, "a@b.com", "longenough")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = c.do(http.MethodGet, loc, "", "", "")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, "T2", got.Course.Title)
	require.Equal(t, "D", got.Course.Description)

	// Deleting is owner-only too.
	resp = c.do(http.MethodDelete, loc, "", "c@d.com", "alsolongenough")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = c.do(http.MethodDelete, loc, "", "a@b.com", "longenough")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = c.do(http.MethodGet, loc, "", "", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The collection is readable without credentials and now empty.
	resp = c.do(http.MethodGet, "/api/courses", "", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Courses []models.CourseDetail `json:"courses"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Empty(t, list.Courses)

	// The identity endpoint returns the profile, nothing more.
	resp = c.do(http.MethodGet, "/api/users", "", "a@b.com", "longenough")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	require.Equal(t, map[string]any{
		"firstName":    "A",
		"lastName":     "B",
		"emailAddress": "a@b.com",
	}, profile)
}

func TestEndToEnd_ShortPasswordNeverStored(t *testing.T) {
	db := newMemStore()
	srv := httptest.NewServer(newRouter(db, db, nil))
	defer srv.Close()
	c := &client{t: t, srv: srv}

	resp := c.do(http.MethodPost, "/api/users",
		`{"firstName":"A","lastName":"B","emailAddress":"short@b.com","password":"short"}`, "", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Empty(t, db.users, "a too-short password must be rejected, not stored as plaintext")
}

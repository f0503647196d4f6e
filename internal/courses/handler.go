package courses

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelasquez/courseapi/internal/auth"
	"github.com/avelasquez/courseapi/internal/models"
	"github.com/avelasquez/courseapi/internal/store"
	"github.com/avelasquez/courseapi/internal/validate"
)

// CourseStore defines the interface for course persistence. The owned
// mutations take the acting user's id and report ErrNotFound/ErrNotOwner,
// evaluated against a consistent snapshot.
type CourseStore interface {
	ListCourses(ctx context.Context) ([]models.CourseDetail, error)
	GetCourse(ctx context.Context, id string) (*models.CourseDetail, error)
	CreateCourse(ctx context.Context, c *models.Course) (*models.Course, error)
	UpdateCourse(ctx context.Context, id, ownerID string, upd *models.CoursePayload) error
	DeleteCourse(ctx context.Context, id, ownerID string) error
}

// Handler holds course HTTP handlers.
type Handler struct {
	store CourseStore
	cache *Cache
}

func NewHandler(store CourseStore, cache *Cache) *Handler {
	return &Handler{store: store, cache: cache}
}

// List returns all courses with their owners' names.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.GetList(r.Context()); ok {
		writeJSON(w, http.StatusOK, map[string]any{"courses": cached})
		return
	}

	courses, err := h.store.ListCourses(r.Context())
	if err != nil {
		fault(w, "list courses", err)
		return
	}
	if courses == nil {
		courses = []models.CourseDetail{}
	}
	h.cache.SetList(r.Context(), courses)
	writeJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

// Get returns a single course with its owner's names.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if cached, ok := h.cache.GetCourse(r.Context(), id); ok {
		writeJSON(w, http.StatusOK, map[string]any{"course": cached})
		return
	}

	course, err := h.store.GetCourse(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"message": "Sorry! We couldn't find the course you are looking for.",
			})
			return
		}
		fault(w, "get course", err)
		return
	}
	h.cache.SetCourse(r.Context(), course)
	writeJSON(w, http.StatusOK, map[string]any{"course": course})
}

// Create stores a new course owned by the authenticated user. Any userId in
// the body is ignored; the owner is always the acting identity.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Access Denied"})
		return
	}

	var req models.CoursePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	if errs := validate.NewCourse(&req); errs != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	course := &models.Course{
		Title:           *req.Title,
		Description:     *req.Description,
		EstimatedTime:   strVal(req.EstimatedTime),
		MaterialsNeeded: strVal(req.MaterialsNeeded),
		UserID:          user.ID,
	}
	if _, err := h.store.CreateCourse(r.Context(), course); err != nil {
		fault(w, "create course", err)
		return
	}

	h.cache.Invalidate(r.Context(), "")
	w.Header().Set("Location", "/api/courses/"+course.ID)
	w.WriteHeader(http.StatusCreated)
}

// Update applies a partial update to a course the authenticated user owns.
// A missing course and an ownership mismatch both answer 403.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Access Denied"})
		return
	}
	id := chi.URLParam(r, "id")

	// An empty body reads as an empty payload, making the update a no-op.
	var req models.CoursePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	if errs := validate.CourseUpdate(&req); errs != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	if err := h.store.UpdateCourse(r.Context(), id, user.ID, &req); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrNotOwner) {
			writeJSON(w, http.StatusForbidden, map[string]string{
				"message": "Sorry! Only course owner can edit this course.",
			})
			return
		}
		fault(w, "update course", err)
		return
	}

	h.cache.Invalidate(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a course the authenticated user owns.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Access Denied"})
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteCourse(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrNotOwner) {
			writeJSON(w, http.StatusForbidden, map[string]string{
				"message": "Sorry! Only course owner can delete this course.",
			})
			return
		}
		fault(w, "delete course", err)
		return
	}

	h.cache.Invalidate(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// fault logs the underlying error and answers with a generic 500 that leaks
// no internal detail.
func fault(w http.ResponseWriter, op string, err error) {
	log.Printf("%s: %v", op, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

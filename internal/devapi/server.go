// Package devapi is an in-memory implementation of the dashboard's remote API.
// It backs the staffdash-devapi command and the client's tests.
package devapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"staffdash/internal/auth"
	"staffdash/internal/domain"
	"staffdash/internal/listing"
)

// Options configures a Server
type Options struct {
	Secret            []byte
	TokenTTL          time.Duration
	AllowedOrigins    []string
	RequestsPerMinute int
	// Latency delays every list response, handy for watching the refresh indicator
	Latency time.Duration
}

// Server serves the API from a Store
type Server struct {
	store *Store
	opts  Options
	now   func() time.Time
}

// NewServer creates a server over store
func NewServer(store *Store, opts Options) *Server {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 12 * time.Hour
	}
	return &Server{store: store, opts: opts, now: time.Now}
}

// Handler returns the routed API
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(recovery)
	r.Use(logging)
	r.Use(corsHandler(s.opts.AllowedOrigins))
	r.Use(newRateLimiter(s.opts.RequestsPerMinute).handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/users/login", s.login)
		api.Post("/users/{userId}/reset-password/{token}", s.resetPassword)

		api.Group(func(authed chi.Router) {
			authed.Use(s.requireAuth)

			authed.Get("/projects/info", s.projectsInfo)

			mountRecords(authed, s, domain.EntityEmployees, s.store.employees, "searchTerm", "isEmployed")
			mountRecords(authed, s, domain.EntityProjects, s.store.projects, "name", "projectStatus")
			mountRecords(authed, s, domain.EntityInvoices, s.store.invoices, "client", "invoiceStatus")
		})
	})

	return r
}

func mountRecords[T domain.Record](r chi.Router, s *Server, entity domain.Entity, t *table[T], searchParam, statusParam string) {
	base := "/" + string(entity)
	admin := r.With(requireRole(domain.RoleAdmin))

	r.Get(base, listRecords(s, entity, t, searchParam, statusParam))
	admin.Post(base, createRecord(s, t))
	admin.Patch(base+"/{id}", updateRecord(s, t))
	admin.Delete(base+"/{id}", deleteRecord(s, t))
}

type pageInfo struct {
	Total       int `json:"total"`
	CurrentPage int `json:"currentPage"`
	LastPage    int `json:"lastPage"`
}

func parseListRequest(r *http.Request, searchParam, statusParam string) (listRequest, error) {
	q := r.URL.Query()
	req := listRequest{
		search:    strings.TrimSpace(q.Get(searchParam)),
		status:    q.Get(statusParam),
		sortField: q.Get("orderByField"),
		direction: listing.Asc,
		take:      10,
		page:      1,
	}

	switch strings.ToLower(q.Get("orderDirection")) {
	case "", "asc":
	case "desc":
		req.direction = listing.Desc
	default:
		return req, fieldError{Field: "orderDirection", Msg: "must be asc or desc"}
	}

	if raw := q.Get("take"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			return req, fieldError{Field: "take", Msg: "must be between 1 and 100"}
		}
		req.take = n
	}
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return req, fieldError{Field: "page", Msg: "must be a positive number"}
		}
		req.page = n
	}
	return req, nil
}

func listRecords[T domain.Record](s *Server, entity domain.Entity, t *table[T], searchParam, statusParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseListRequest(r, searchParam, statusParam)
		if err != nil {
			writeFailure(w, err)
			return
		}

		if s.opts.Latency > 0 {
			select {
			case <-time.After(s.opts.Latency):
			case <-r.Context().Done():
				return
			}
		}

		s.store.mu.RLock()
		items, total, page, err := t.list(req)
		s.store.mu.RUnlock()
		if err != nil {
			writeFailure(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			string(entity): items,
			"pageInfo": pageInfo{
				Total:       total,
				CurrentPage: page,
				LastPage:    listing.LastPageFor(total, req.take),
			},
		})
	}
}

func createRecord[T domain.Record](s *Server, t *table[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read body", "body")
			return
		}
		var rec T
		if err := json.Unmarshal(body, &rec); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body", "body")
			return
		}
		if err := t.validate(rec); err != nil {
			writeFailure(w, err)
			return
		}
		rec = t.withID(rec, uuid.NewString())

		s.store.mu.Lock()
		rec, err = t.save(rec, body)
		s.store.mu.Unlock()
		if err != nil {
			writeFailure(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, rec)
	}
}

func updateRecord[T domain.Record](s *Server, t *table[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		id := chi.URLParam(r, "id")

		patch, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read body", "body")
			return
		}

		s.store.mu.Lock()
		defer s.store.mu.Unlock()

		current, ok := t.get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "record not found", "")
			return
		}
		merged, err := mergePatch(current, patch)
		if err != nil {
			writeFailure(w, err)
			return
		}
		if err := t.validate(merged); err != nil {
			writeFailure(w, err)
			return
		}
		if merged, err = t.save(merged, patch); err != nil {
			writeFailure(w, err)
			return
		}

		writeJSON(w, http.StatusOK, merged)
	}
}

func deleteRecord[T domain.Record](s *Server, t *table[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		s.store.mu.Lock()
		removed := t.delete(id)
		s.store.mu.Unlock()

		if !removed {
			writeError(w, http.StatusNotFound, "record not found", "")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "body")
		return
	}
	if strings.TrimSpace(payload.Email) == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required", "email")
		return
	}

	user, err := s.store.Authenticate(payload.Email, payload.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error(), "")
		return
	}

	token, err := auth.Sign(s.opts.Secret, user, s.opts.TokenTTL, s.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token", "")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// minPasswordLength is enforced on reset
const minPasswordLength = 8

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "body")
		return
	}
	if len(payload.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters", "password")
		return
	}

	err := s.store.ResetPassword(chi.URLParam(r, "userId"), chi.URLParam(r, "token"), payload.Password)
	if errors.Is(err, errInvalidResetToken) {
		writeError(w, http.StatusBadRequest, err.Error(), "token")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset password", "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

func (s *Server) projectsInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ProjectsInfo())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg, field string) {
	writeJSON(w, status, errorResponse{Error: msg, Field: field})
}

// writeFailure maps store errors onto responses
func writeFailure(w http.ResponseWriter, err error) {
	var fe fieldError
	if errors.As(err, &fe) {
		writeError(w, http.StatusBadRequest, fe.Msg, fe.Field)
		return
	}
	writeError(w, http.StatusInternalServerError, "unexpected server error", "")
}

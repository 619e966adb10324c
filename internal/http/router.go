package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"academy-manager/backend/internal/authctx"
	"academy-manager/backend/internal/config"
	"academy-manager/backend/internal/dateutil"
	"academy-manager/backend/internal/domain/analytics"
	"academy-manager/backend/internal/domain/attendance"
	"academy-manager/backend/internal/domain/booking"
	"academy-manager/backend/internal/domain/session"
	"academy-manager/backend/internal/domain/template"
	"academy-manager/backend/internal/httpjson"
	"academy-manager/backend/internal/middleware"
)

const dateLayout = "2006-01-02"

type RouterDeps struct {
	Cfg            config.Config
	Log            *zap.Logger
	AuthClient     *auth.Client
	SessionSvc     *session.Service
	BookingSvc     *booking.Service
	AnalyticsSvc   *analytics.Service
	TemplateRepo   *template.Repo
	AttendanceRepo *attendance.Repo
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(d.Cfg.AllowedOrigins))
	r.Use(middleware.RequestLogger(d.Log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpjson.Write(w, 200, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
	})

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.WithAuth(d.AuthClient))

		pr.Get("/v1/me", func(w http.ResponseWriter, r *http.Request) {
			actor, _ := authctx.ActorFrom(r.Context())
			httpjson.Write(w, 200, map[string]any{
				"uid":   actor.UID,
				"email": actor.Email,
				"role":  actor.Role,
			})
		})

		// ===== Templates =====
		pr.Get("/v1/templates", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.TemplateRepo.ListActive(r.Context())
			if err != nil {
				fail(w, 500, "INTERNAL", "failed to list templates")
				return
			}
			httpjson.Write(w, 200, map[string]any{"templates": out})
		})

		// ===== Sessions =====
		pr.Post("/v1/sessions/generate", func(w http.ResponseWriter, r *http.Request) {
			actor, _ := authctx.ActorFrom(r.Context())

			var in struct {
				StartDate string `json:"startDate"`
				EndDate   string `json:"endDate"`
			}
			if err := httpjson.Read(r, &in); err != nil {
				fail(w, 400, "BAD_REQUEST", "invalid json")
				return
			}

			window, err := parseWindow(in.StartDate, in.EndDate)
			if err != nil {
				fail(w, 400, "BAD_REQUEST", err.Error())
				return
			}

			out, err := d.SessionSvc.Generate(r.Context(), actor, window)
			if err != nil {
				status, code := mapSessionError(err)
				fail(w, status, code, err.Error())
				return
			}
			httpjson.Write(w, 200, out)
		})

		pr.Get("/v1/sessions", func(w http.ResponseWriter, r *http.Request) {
			f, err := parseListFilter(r)
			if err != nil {
				fail(w, 400, "BAD_REQUEST", err.Error())
				return
			}

			out, err := d.SessionSvc.List(r.Context(), f)
			if err != nil {
				status, code := mapSessionError(err)
				fail(w, status, code, err.Error())
				return
			}
			if out == nil {
				out = []session.WithUtilization{}
			}
			httpjson.Write(w, 200, map[string]any{"sessions": out})
		})

		pr.Patch("/v1/sessions/{sessionId}/status", func(w http.ResponseWriter, r *http.Request) {
			actor, _ := authctx.ActorFrom(r.Context())
			sessionID := chi.URLParam(r, "sessionId")

			var in struct {
				Status string `json:"status"`
			}
			if err := httpjson.Read(r, &in); err != nil {
				fail(w, 400, "BAD_REQUEST", "invalid json")
				return
			}

			out, err := d.SessionSvc.UpdateStatus(r.Context(), actor, sessionID, session.Status(strings.TrimSpace(in.Status)))
			if err != nil {
				status, code := mapSessionError(err)
				fail(w, status, code, err.Error())
				return
			}
			httpjson.Write(w, 200, out)
		})

		pr.Get("/v1/sessions/{sessionId}/attendance", func(w http.ResponseWriter, r *http.Request) {
			actor, _ := authctx.ActorFrom(r.Context())
			if !actor.Operator() {
				fail(w, 403, "FORBIDDEN", "coach or admin capability required")
				return
			}

			out, err := d.AttendanceRepo.ListBySession(r.Context(), chi.URLParam(r, "sessionId"))
			if err != nil {
				fail(w, 500, "INTERNAL", "failed to list attendance")
				return
			}
			if out == nil {
				out = []attendance.Record{}
			}
			httpjson.Write(w, 200, map[string]any{"attendance": out})
		})

		// ===== Bookings =====
		pr.Post("/v1/bookings", func(w http.ResponseWriter, r *http.Request) {
			actor, _ := authctx.ActorFrom(r.Context())

			var in struct {
				SessionID string `json:"sessionId"`
			}
			if err := httpjson.Read(r, &in); err != nil {
				fail(w, 400, "BAD_REQUEST", "invalid json")
				return
			}

			out, err := d.BookingSvc.Book(r.Context(), actor, strings.TrimSpace(in.SessionID))
			if err != nil {
				status, code := mapBookingError(err)
				fail(w, status, code, err.Error())
				return
			}
			httpjson.Write(w, 201, out)
		})

		pr.Get("/v1/bookings/me", func(w http.ResponseWriter, r *http.Request) {
			actor, _ := authctx.ActorFrom(r.Context())

			limit := 0
			if raw := r.URL.Query().Get("limit"); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil || n < 0 {
					fail(w, 400, "BAD_REQUEST", "invalid limit")
					return
				}
				limit = n
			}

			out, err := d.BookingSvc.ListForUser(r.Context(), actor, limit)
			if err != nil {
				status, code := mapBookingError(err)
				fail(w, status, code, err.Error())
				return
			}
			if out == nil {
				out = []booking.Booking{}
			}
			httpjson.Write(w, 200, map[string]any{"bookings": out})
		})

		pr.Get("/v1/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
			actor, _ := authctx.ActorFrom(r.Context())

			out, err := d.BookingSvc.Get(r.Context(), actor, chi.URLParam(r, "bookingId"))
			if err != nil {
				status, code := mapBookingError(err)
				fail(w, status, code, err.Error())
				return
			}
			httpjson.Write(w, 200, out)
		})

		pr.Post("/v1/bookings/{bookingId}/checkin", func(w http.ResponseWriter, r *http.Request) {
			actor, _ := authctx.ActorFrom(r.Context())

			out, err := d.BookingSvc.CheckIn(r.Context(), actor, chi.URLParam(r, "bookingId"))
			if err != nil {
				status, code := mapBookingError(err)
				fail(w, status, code, err.Error())
				return
			}
			httpjson.Write(w, 200, out)
		})

		pr.Post("/v1/bookings/{bookingId}/cancel", func(w http.ResponseWriter, r *http.Request) {
			actor, _ := authctx.ActorFrom(r.Context())

			out, err := d.BookingSvc.Cancel(r.Context(), actor, chi.URLParam(r, "bookingId"))
			if err != nil {
				status, code := mapBookingError(err)
				fail(w, status, code, err.Error())
				return
			}
			httpjson.Write(w, 200, out)
		})

		// ===== Analytics =====
		pr.Get("/v1/members/{userId}/analytics", func(w http.ResponseWriter, r *http.Request) {
			actor, _ := authctx.ActorFrom(r.Context())

			out, err := d.AnalyticsSvc.MemberAnalytics(r.Context(), actor, chi.URLParam(r, "userId"))
			if err != nil {
				status, code := mapAnalyticsError(err)
				fail(w, status, code, err.Error())
				return
			}
			httpjson.Write(w, 200, out)
		})
	})

	return r
}

func parseWindow(startDate, endDate string) (dateutil.Window, error) {
	start, err := time.Parse(dateLayout, strings.TrimSpace(startDate))
	if err != nil {
		return dateutil.Window{}, errInvalidDate("startDate")
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(endDate))
	if err != nil {
		return dateutil.Window{}, errInvalidDate("endDate")
	}
	return dateutil.Window{Start: start, End: end}, nil
}

type paramError string

func (e paramError) Error() string { return string(e) }

func errInvalidDate(field string) error {
	return paramError(field + " must be a date in YYYY-MM-DD format")
}

func parseListFilter(r *http.Request) (session.ListFilter, error) {
	q := r.URL.Query()
	f := session.ListFilter{
		TemplateID: strings.TrimSpace(q.Get("templateId")),
	}

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		if !session.IsValidStatus(raw) {
			return f, paramError("status must be scheduled, completed or cancelled")
		}
		f.Status = session.Status(raw)
	}

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return f, errInvalidDate("from")
		}
		f.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return f, errInvalidDate("to")
		}
		f.To = &t
	}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, paramError("page must be a non-negative integer")
		}
		f.Page = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, paramError("limit must be a non-negative integer")
		}
		f.Limit = n
	}
	return f, nil
}

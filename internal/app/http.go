package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"planner/api/internal/auth"
	"planner/api/internal/photos"
	"planner/api/internal/rbac"
)

type HTTPServer struct {
	service    *Service
	corsOrigin string
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"database": map[string]any{"status": "ok"},
		}
		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["database"] = map[string]any{"status": "error", "error": err.Error()}
		}
		checks["sessions"] = map[string]any{"status": "ok"}
		if err := s.service.PingSessions(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["sessions"] = map[string]any{"status": "error", "error": err.Error()}
		}
		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	// Auth routes (no session required)
	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signin" {
		s.handleSignIn(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/reset-password/request" {
		s.handleRequestReset(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/reset-password" {
		s.handleResetPassword(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/session" {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
			return
		}
		session, err := s.service.SessionFromToken(r.Context(), token)
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"authenticated": true,
			"user":          sessionUserPayload(session),
		})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/refresh" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		session, err := s.service.Refresh(r.Context(), body.RefreshToken)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Refresh token invalid", nil)
			return
		}
		writeJSON(w, http.StatusOK, sessionPayload(session))
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/logout" {
		session := Session{}
		if token := bearerToken(r); token != "" {
			if parsed, err := s.service.SessionFromToken(r.Context(), token); err == nil {
				session = parsed
			}
		}
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = decodeBody(r, &body)
		_ = s.service.Logout(r.Context(), session, body.RefreshToken)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	// Everything below needs a session.
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/change-password" {
		var body struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.ChangePassword(r.Context(), session, body.CurrentPassword, body.NewPassword); err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	parts := splitPath(r.URL.Path)
	if len(parts) < 2 || parts[0] != "api" {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	switch parts[1] {
	case "stores":
		s.handleStores(w, r, session, parts)
	case "planner":
		s.handlePlanner(w, r, session, parts)
	case "schedules":
		s.handleSchedules(w, r, session, parts)
	case "analytics":
		s.handleAnalytics(w, r, session, parts)
	case "reports":
		s.handleReports(w, r, session, parts)
	case "search":
		s.handleSearch(w, r, session, parts)
	case "admin":
		s.handleAdmin(w, r, session, parts)
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

func (s *HTTPServer) handleStores(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	// GET/POST /api/stores
	if len(parts) == 2 {
		switch r.Method {
		case http.MethodGet:
			items, err := s.service.ListStores(r.Context(), session)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"stores": items})
		case http.MethodPost:
			var body CreateStoreInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			item, err := s.service.CreateStore(r.Context(), session, body)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, item)
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	storeID, ok := parseID(w, parts[2])
	if !ok {
		return
	}

	// GET /api/stores/{id}
	if len(parts) == 3 && r.Method == http.MethodGet {
		item, err := s.service.GetStore(r.Context(), session, storeID)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
		return
	}

	// POST /api/stores/{id}/assign
	if len(parts) == 4 && parts[3] == "assign" && r.Method == http.MethodPost {
		var body struct {
			ManagerID int64 `json:"managerId"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		item, err := s.service.AssignStore(r.Context(), session, storeID, body.ManagerID)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
		return
	}

	// GET /api/stores/{id}/planner  (history)
	if len(parts) == 4 && parts[3] == "planner" && r.Method == http.MethodGet {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, _ = strconv.Atoi(raw)
		}
		items, err := s.service.EntryHistory(r.Context(), session, storeID, limit)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": items})
		return
	}

	// GET /api/stores/{id}/planner/{date}/export
	if len(parts) == 6 && parts[3] == "planner" && parts[5] == "export" && r.Method == http.MethodGet {
		result, err := s.service.ExportDaySheet(r.Context(), session, storeID, parts[4])
		if err != nil {
			s.fail(w, err)
			return
		}
		w.Header().Set("Content-Type", result.MimeType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Data)
		return
	}

	// GET/POST /api/stores/{id}/planner/{date}
	if len(parts) == 5 && parts[3] == "planner" {
		date := parts[4]
		switch r.Method {
		case http.MethodGet:
			item, err := s.service.GetEntry(r.Context(), session, storeID, date)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusOK, item)
		case http.MethodPost:
			item, err := s.service.GetOrCreateEntry(r.Context(), session, storeID, date)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusOK, item)
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handlePlanner(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	if len(parts) < 3 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}
	entryID, ok := parseID(w, parts[2])
	if !ok {
		return
	}

	// PATCH /api/planner/{entryId}
	if len(parts) == 3 && r.Method == http.MethodPatch {
		var body UpdateEntryInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		item, err := s.service.UpdateEntry(r.Context(), session, entryID, body)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
		return
	}

	// GET/POST /api/planner/{entryId}/schedules
	if len(parts) == 4 && parts[3] == "schedules" {
		switch r.Method {
		case http.MethodGet:
			items, err := s.service.ListSchedules(r.Context(), session, entryID)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"schedules": items})
		case http.MethodPost:
			var body ScheduleInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			item, err := s.service.CreateSchedule(r.Context(), session, entryID, body)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, item)
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	// POST /api/planner/{entryId}/photos
	if len(parts) == 4 && parts[3] == "photos" && r.Method == http.MethodPost {
		s.handlePhotoUpload(w, r, session, entryID)
		return
	}

	// DELETE /api/planner/{entryId}/photos/{key...}
	// Photo ids are object keys and contain slashes, so the id spans
	// the rest of the path.
	if len(parts) >= 5 && parts[3] == "photos" && r.Method == http.MethodDelete {
		photoID := strings.Join(parts[4:], "/")
		item, err := s.service.DeletePhoto(r.Context(), session, entryID, photoID)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handlePhotoUpload(w http.ResponseWriter, r *http.Request, session Session, entryID int64) {
	if err := r.ParseMultipartForm(photos.MaxUploadBytes + 1<<20); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Expected multipart form upload", nil)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Missing photo field", nil)
		return
	}
	defer file.Close()

	item, err := s.service.UploadPhoto(r.Context(), session, entryID, UploadPhotoInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Category:    r.FormValue("category"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *HTTPServer) handleSchedules(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	if len(parts) != 3 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}
	scheduleID, ok := parseID(w, parts[2])
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPut:
		var body ScheduleInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		item, err := s.service.UpdateSchedule(r.Context(), session, scheduleID, body)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		if err := s.service.DeleteSchedule(r.Context(), session, scheduleID); err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	}
}

func (s *HTTPServer) handleAnalytics(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}
	requested := parseStoreIDs(r.URL.Query().Get("storeIds"))

	// GET /api/analytics/export
	if len(parts) == 3 && parts[2] == "export" {
		result, err := s.service.ExportAnalytics(r.Context(), session, requested)
		if err != nil {
			s.fail(w, err)
			return
		}
		w.Header().Set("Content-Type", result.MimeType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Data)
		return
	}

	// GET /api/analytics
	if len(parts) == 2 {
		items, err := s.service.Analytics(r.Context(), session, requested)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"analytics": items})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleReports(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	if r.Method != http.MethodGet || len(parts) != 3 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}
	switch parts[2] {
	case "store-performance":
		items, err := s.service.StoreActivity(r.Context(), session, r.URL.Query().Get("since"))
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"stores": items})
	case "aggregated":
		item, err := s.service.ReportSummary(r.Context(), session)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

func (s *HTTPServer) handleSearch(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	if len(parts) != 2 || r.Method != http.MethodGet {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))
	response, err := s.service.Search(r.Context(), session, SearchInput{
		Text:       query.Get("q"),
		FilterType: query.Get("type"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *HTTPServer) handleAdmin(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	// GET/POST /api/admin/users
	if len(parts) == 3 && parts[2] == "users" {
		switch r.Method {
		case http.MethodGet:
			items, err := s.service.ListUsers(r.Context(), session, r.URL.Query().Get("role"))
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"users": items})
		case http.MethodPost:
			var body InviteUserInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			item, err := s.service.InviteUser(r.Context(), session, body)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, item)
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	// POST /api/admin/analytics
	if len(parts) == 3 && parts[2] == "analytics" && r.Method == http.MethodPost {
		var body RecordAnalyticsInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		item, err := s.service.RecordAnalytics(r.Context(), session, body)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
		return
	}

	if len(parts) >= 4 && parts[2] == "users" {
		userID, ok := parseID(w, parts[3])
		if !ok {
			return
		}

		// PUT /api/admin/users/{id}/role
		if len(parts) == 5 && parts[4] == "role" && r.Method == http.MethodPut {
			var body UpdateRoleInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			item, err := s.service.UpdateUserRole(r.Context(), session, userID, body)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusOK, item)
			return
		}

		// POST/DELETE /api/admin/users/{id}/stores/{storeId}
		if len(parts) == 6 && parts[4] == "stores" {
			storeID, ok := parseID(w, parts[5])
			if !ok {
				return
			}
			switch r.Method {
			case http.MethodPost:
				if err := s.service.AddAssignment(r.Context(), session, userID, storeID); err != nil {
					s.fail(w, err)
					return
				}
				writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			case http.MethodDelete:
				if err := s.service.RemoveAssignment(r.Context(), session, userID, storeID); err != nil {
					s.fail(w, err)
					return
				}
				writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			default:
				writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			}
			return
		}
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

// Auth handlers

func (s *HTTPServer) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	session, err := s.service.SignIn(r.Context(), body.Login, body.Password)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionPayload(session))
}

func (s *HTTPServer) handleRequestReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Login string `json:"login"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	devToken, err := s.service.RequestPasswordReset(r.Context(), body.Login)
	if err != nil {
		s.fail(w, err)
		return
	}
	response := map[string]any{
		"ok":      true,
		"message": "If the account exists, a reset link was sent",
	}
	// Without SMTP there is no mail to click through, so surface the
	// token for local development.
	if devToken != "" {
		response["devToken"] = devToken
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *HTTPServer) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if err := s.service.ResetPassword(r.Context(), body.Token, body.NewPassword); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Helpers

func sessionPayload(session Session) map[string]any {
	return map[string]any{
		"token":        session.Token,
		"refreshToken": session.RefreshToken,
		"expiresAt":    session.ExpiresAt,
		"user":         sessionUserPayload(session),
	}
}

func sessionUserPayload(session Session) map[string]any {
	return map[string]any{
		"id":          session.UserID,
		"username":    session.Username,
		"firstName":   session.FirstName,
		"lastName":    session.LastName,
		"role":        session.Role,
		"homeStoreId": session.HomeStoreID,
	}
}

func (s *HTTPServer) fail(w http.ResponseWriter, err error) {
	status, code, message, details := mapError(err)
	writeError(w, status, code, message, details)
}

func parseID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return 0, false
	}
	return id, true
}

func parseStoreIDs(raw string) []int64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	session, err := s.service.SessionFromToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) || errors.Is(err, auth.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
			return Session{}, false
		}
		writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Session lookup failed", nil)
		return Session{}, false
	}
	return session, true
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		// An empty body leaves target at its zero value; the handlers
		// validate required fields themselves.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, sql.ErrNoRows) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	}
	if errors.Is(err, rbac.ErrInvalidRole) {
		// A stored role outside the closed set is a data problem, never
		// a quiet downgrade to some weaker role.
		return http.StatusInternalServerError, "INVALID_ROLE", "Stored role is invalid", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}

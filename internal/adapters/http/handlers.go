package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"dogreg/internal/adapters/http/middleware"
	"dogreg/internal/application/orchestrators"
	"dogreg/internal/application/router"
	"dogreg/internal/application/views"
	"dogreg/internal/ports/gateway"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is dropped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError sends the failure as an inline-message payload. Every
// handler failure becomes a UI state, never a dead page.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleView handles GET /views/{token}. It runs the router's
// fetch-and-build cycle for the requested view and returns the
// rendered fragment.
func handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	locationToken := strings.TrimPrefix(r.URL.Path, "/views")
	sessionToken := middleware.TokenFromContext(ctx)

	page, err := app.Router.Navigate(ctx, sessionToken, locationToken)
	if errors.Is(err, router.ErrSuperseded) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"view":       string(page.View),
		"redirected": page.Redirected,
		"html":       page.HTML,
	})
}

// handleSession handles GET /api/session. It reports the signed-in
// state and the resolved profile for nav visibility toggling.
func handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	prof, err := app.Resolver.CurrentProfile(ctx, middleware.TokenFromContext(ctx))
	if err != nil {
		internalError(w, err)
		return
	}
	if prof == nil {
		writeJSON(w, http.StatusOK, map[string]any{"signedIn": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"signedIn": true,
		"label":    prof.Label(),
		"role":     prof.Role,
		"admin":    prof.IsAdmin(),
	})
}

// handleLogin handles POST /api/login.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	var input struct {
		User     string `json:"user"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	sess, err := orchestrators.ExecuteLogin(ctx,
		orchestrators.LoginInput{UserOrEmail: input.User, Password: input.Password},
		orchestrators.LoginDeps{Gateway: app.Gateway},
	)
	if errors.Is(err, orchestrators.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User not found.")
		return
	}
	if errors.Is(err, gateway.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid username/email or password.")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	middleware.SetSessionCookie(w, sess.AccessToken)
	w.WriteHeader(http.StatusNoContent)
}

// handleLogout handles POST /api/logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if token := middleware.TokenFromContext(ctx); token != "" {
		if err := app.Gateway.SignOut(ctx, token); err != nil {
			slog.Error("sign_out_failed", "error", err.Error())
		}
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleRegister handles POST /api/register.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	var input struct {
		DisplayName string `json:"display_name"`
		Username    string `json:"username"`
		Email       string `json:"email"`
		Password    string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	err := orchestrators.ExecuteRegister(ctx,
		orchestrators.RegisterInput{
			DisplayName: input.DisplayName,
			Username:    input.Username,
			Email:       input.Email,
			Password:    input.Password,
		},
		orchestrators.RegisterDeps{Gateway: app.Gateway, EmailSender: app.EmailSender},
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Account created. Sign in with your username or email.",
	})
}

// handleSubmitRecord handles POST /api/records. Status never comes
// from the form; submissions are always pending.
func handleSubmitRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	token := middleware.TokenFromContext(ctx)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "sign in to submit a record")
		return
	}

	var input struct {
		Name            string `json:"name"`
		Sex             string `json:"sex"`
		DateOfBirth     string `json:"date_of_birth"`
		Color           string `json:"color"`
		MicrochipNumber string `json:"microchip_number"`
		PedigreeNumber  string `json:"pedigree_number"`
		Notes           string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	err := orchestrators.ExecuteSubmitRecord(ctx,
		orchestrators.SubmitRecordInput{
			Token:           token,
			Name:            input.Name,
			Sex:             input.Sex,
			DateOfBirth:     input.DateOfBirth,
			Color:           input.Color,
			MicrochipNumber: input.MicrochipNumber,
			PedigreeNumber:  input.PedigreeNumber,
			Notes:           input.Notes,
		},
		orchestrators.SubmitRecordDeps{Gateway: app.Gateway},
	)
	if errors.Is(err, gateway.ErrUnauthorized) {
		writeError(w, http.StatusUnauthorized, "sign in to submit a record")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Record submitted for review.",
	})
}

// handleModerate handles POST /api/admin/records/{id}/{action} where
// action is approve or reject. It returns the re-fetched, re-rendered
// pending queue so the admin view always shows gateway truth.
func handleModerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	token := middleware.TokenFromContext(ctx)

	rest := strings.TrimPrefix(r.URL.Path, "/api/admin/records/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}

	pending, err := orchestrators.ExecuteModerate(ctx,
		orchestrators.ModerateInput{Token: token, RecordID: parts[0], Action: parts[1]},
		orchestrators.ModerateDeps{Gateway: app.Gateway},
	)
	if errors.Is(err, gateway.ErrUnauthorized) {
		writeError(w, http.StatusForbidden, "admin only")
		return
	}
	if errors.Is(err, orchestrators.ErrInvalidAction) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	cards := views.BuildCards(pending, true)
	writeJSON(w, http.StatusOK, map[string]any{"html": views.RenderList(cards)})
}

// handleAnnouncements handles GET (published list) and POST (create,
// admin only) for /api/announcements.
func handleAnnouncements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		list, err := app.AnnouncementStore.ListPublished(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		type item struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			HTML  string `json:"html"`
		}
		items := make([]item, 0, len(list))
		for _, a := range list {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(a.Content), &buf); err != nil {
				continue
			}
			items = append(items, item{ID: a.ID, Title: a.Title, HTML: buf.String()})
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	if r.Method == "POST" {
		prof, err := app.Resolver.CurrentProfile(ctx, middleware.TokenFromContext(ctx))
		if err != nil {
			internalError(w, err)
			return
		}
		if prof == nil || !prof.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin only")
			return
		}

		var input struct {
			Title   string `json:"title"`
			Content string `json:"content"`
			Publish bool   `json:"publish"`
		}
		if err := strictDecode(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		created, err := orchestrators.ExecuteCreateAnnouncement(ctx,
			orchestrators.CreateAnnouncementInput{
				Title:   input.Title,
				Content: input.Content,
				Author:  *prof,
				Publish: input.Publish,
			},
			orchestrators.CreateAnnouncementDeps{
				AnnouncementStore: app.AnnouncementStore,
				GenerateID:        generateID,
				Now:               time.Now,
			},
		)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": created.ID})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

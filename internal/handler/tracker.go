package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/sakif/travel-tracker/internal/apperror"
	"github.com/sakif/travel-tracker/internal/model"
	"github.com/sakif/travel-tracker/internal/service"
	"github.com/sakif/travel-tracker/internal/session"
)

// User-facing messages on the home page.
const (
	MsgCountryNotFound = "Country name does not exist, try again."
	MsgAlreadyAdded    = "You've already added this country."
	MsgNoCurrentUser   = "That family member doesn't exist. Pick a tab or add someone new."
)

const title = "Travel Tracker"

// Colors offered on the new-member form.
var Colors = []string{"red", "orange", "yellow", "olive", "green", "teal", "blue", "violet", "purple", "pink"}

// Tracker is the part of service.TrackerService the handlers use.
type Tracker interface {
	Home(ctx context.Context, userID int64) (*service.HomeView, error)
	AddCountry(ctx context.Context, userID int64, input string) (service.AddOutcome, error)
	CreateUser(ctx context.Context, name, color string) (*model.User, error)
}

// TrackerHandler serves the home page and the three form posts.
//
// ROUTES:
//
//	GET  /      → home page for the session's user
//	POST /add   → form field "country"
//	POST /user  → "add=new" shows the new-member form, otherwise "user=<id>" switches
//	POST /new   → form fields "name" and "color"
type TrackerHandler struct {
	tracker  Tracker
	sessions session.Store
	pages    *Pages
	logger   *slog.Logger
}

func NewTrackerHandler(tracker Tracker, sessions session.Store, pages *Pages, logger *slog.Logger) *TrackerHandler {
	return &TrackerHandler{
		tracker:  tracker,
		sessions: sessions,
		pages:    pages,
		logger:   logger,
	}
}

// homePage is the data bag for index.html.
type homePage struct {
	Title         string
	Countries     []string
	Total         int
	Users         []model.User
	Color         string
	CurrentUserID int64
	Error         string
}

type newUserPage struct {
	Title  string
	Colors []string
	Name   string
	Color  string
	Error  string
}

// currentUser reads the id session.Middleware resolved. Outside the
// middleware (direct handler tests) it falls back to user 1.
func currentUser(r *http.Request) int64 {
	if id, ok := session.UserIDFromContext(r.Context()); ok {
		return id
	}
	return 1
}

// HandleHome renders the map and list for the session's user.
//
// HTTP: GET /
func (h *TrackerHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.renderHome(w, r, "")
}

// renderHome is shared by GET / and the error paths of POST /add.
func (h *TrackerHandler) renderHome(w http.ResponseWriter, r *http.Request, errMsg string) {
	userID := currentUser(r)

	view, err := h.tracker.Home(r.Context(), userID)
	if err != nil {
		h.pages.writeError(w, r, err)
		return
	}

	data := homePage{
		Title:         title,
		Countries:     view.Countries,
		Total:         view.Total,
		Users:         view.Users,
		CurrentUserID: userID,
		Error:         errMsg,
	}
	if view.CurrentUser != nil {
		data.Color = view.CurrentUser.Color
	} else if data.Error == "" {
		data.Error = MsgNoCurrentUser
	}

	h.pages.Render(w, http.StatusOK, pageIndex, data)
}

// HandleAdd records a visited country for the session's user.
//
// HTTP: POST /add (form: country)
//
// Lookup failures and database errors both show MsgCountryNotFound. The
// service has already logged the real cause.
func (h *TrackerHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)

	outcome, err := h.tracker.AddCountry(r.Context(), userID, r.PostFormValue("country"))
	if err != nil {
		h.logger.Warn("add country failed",
			slog.Int64("userID", userID),
			slog.String("outcome", outcome.String()),
			slog.String("error", err.Error()),
		)
	}

	switch outcome {
	case service.OutcomeInserted:
		http.Redirect(w, r, "/", http.StatusFound)
	case service.OutcomeAlreadyAdded:
		h.renderHome(w, r, MsgAlreadyAdded)
	default:
		h.renderHome(w, r, MsgCountryNotFound)
	}
}

// HandleUser either shows the new-member form or switches the session's user.
//
// HTTP: POST /user (form: add, user)
//
// The id is not checked against the users table; an id with no row shows
// MsgNoCurrentUser on the home page.
func (h *TrackerHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	if r.PostFormValue("add") == "new" {
		h.pages.Render(w, http.StatusOK, pageNew, newUserPage{Title: title, Colors: Colors})
		return
	}

	raw := strings.TrimSpace(r.PostFormValue("user"))
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.pages.writeError(w, r, apperror.ValidationFailed("user", "Unknown family member."))
		return
	}

	if err := h.sessions.Save(w, r, userID); err != nil {
		h.pages.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleNew creates a family member and makes them the session's user.
//
// HTTP: POST /new (form: name, color)
//
// Validation and duplicate-name errors re-render the form with the
// submitted values kept.
func (h *TrackerHandler) HandleNew(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("name")
	color := r.PostFormValue("color")

	user, err := h.tracker.CreateUser(r.Context(), name, color)
	if err != nil {
		var appErr *apperror.AppError
		userFacing := errors.Is(err, apperror.ErrValidation) || errors.Is(err, apperror.ErrConflict)
		if userFacing && errors.As(err, &appErr) {
			h.pages.Render(w, http.StatusOK, pageNew, newUserPage{
				Title:  title,
				Colors: Colors,
				Name:   name,
				Color:  color,
				Error:  appErr.Message,
			})
			return
		}
		h.pages.writeError(w, r, err)
		return
	}

	if err := h.sessions.Save(w, r, user.ID); err != nil {
		h.pages.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

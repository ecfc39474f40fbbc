// Package service contains the business rules of the travel tracker.
//
// The handler layer parses forms and renders pages. The repository layer
// runs SQL. Everything in between lives here: resolving a typed country name
// to a reference row, refusing duplicate visits, validating new users, and
// assembling the home view.
//
// TrackerService depends on the repository interfaces, not on a concrete
// backend. The same code runs on SQLite in tests and on Postgres in
// production.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/travel-tracker/internal/apperror"
	"github.com/sakif/travel-tracker/internal/model"
	"github.com/sakif/travel-tracker/internal/repository"
)

// Limits match the VARCHAR(15) columns of the users table.
const (
	MaxUserNameLength = 15
	MaxColorLength    = 15
)

// AddOutcome is the result of AddCountry.
type AddOutcome int

const (
	// OutcomeInserted means a new visit row was written.
	OutcomeInserted AddOutcome = iota
	// OutcomeNotFound means no country matched the input.
	OutcomeNotFound
	// OutcomeAlreadyAdded means the user already visited the matched country.
	OutcomeAlreadyAdded
	// OutcomeFailed means a repository error; AddCountry also returns it.
	OutcomeFailed
)

func (o AddOutcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeAlreadyAdded:
		return "already_added"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("AddOutcome(%d)", int(o))
	}
}

// HomeView is everything the home page shows for one user.
type HomeView struct {
	Countries []string
	Total     int
	Users     []model.User
	// CurrentUser is nil when the selected id is not in Users.
	CurrentUser *model.User
}

// TrackerService handles the household's users and their visited countries.
type TrackerService struct {
	users     repository.UserRepository
	countries repository.CountryRepository
	visits    repository.VisitRepository
	logger    *slog.Logger
}

// NewTrackerService wires the service to its repositories. A single
// repository.Store satisfies all three.
func NewTrackerService(
	users repository.UserRepository,
	countries repository.CountryRepository,
	visits repository.VisitRepository,
	logger *slog.Logger,
) *TrackerService {
	return &TrackerService{
		users:     users,
		countries: countries,
		visits:    visits,
		logger:    logger,
	}
}

// Home loads the visited codes for userID and the full user list.
//
// The user list is re-queried on every call; the household is small and
// there is no cache to invalidate when /new adds someone.
func (s *TrackerService) Home(ctx context.Context, userID int64) (*HomeView, error) {
	codes, err := s.visits.ListCodes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading visits: %w", err)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}

	view := &HomeView{
		Countries: codes,
		Total:     len(codes),
		Users:     users,
	}
	for i := range users {
		if users[i].ID == userID {
			view.CurrentUser = &users[i]
			break
		}
	}
	return view, nil
}

// AddCountry resolves input to a country and records a visit for userID.
//
// Resolution is exact (case-insensitive) first, then substring. The error
// result is non-nil only with OutcomeFailed, and carries the real cause so
// the caller can log it without showing it to the user.
func (s *TrackerService) AddCountry(ctx context.Context, userID int64, input string) (AddOutcome, error) {
	name := strings.TrimSpace(input)
	if name == "" {
		// An empty string is a substring of every name.
		return OutcomeNotFound, nil
	}

	country, err := s.resolveCountry(ctx, name)
	if errors.Is(err, apperror.ErrNotFound) {
		s.logger.Info("country not found", slog.String("input", name))
		return OutcomeNotFound, nil
	}
	if err != nil {
		s.logger.Error("country lookup failed",
			slog.String("input", name),
			slog.String("error", err.Error()),
		)
		return OutcomeFailed, fmt.Errorf("resolving country %q: %w", name, err)
	}

	exists, err := s.visits.Exists(ctx, userID, country.Code)
	if err != nil {
		s.logger.Error("visit check failed",
			slog.Int64("userID", userID),
			slog.String("code", country.Code),
			slog.String("error", err.Error()),
		)
		return OutcomeFailed, fmt.Errorf("checking visit: %w", err)
	}
	if exists {
		return OutcomeAlreadyAdded, nil
	}

	if err := s.visits.Add(ctx, userID, country.Code); err != nil {
		s.logger.Error("failed to add visit",
			slog.Int64("userID", userID),
			slog.String("code", country.Code),
			slog.String("error", err.Error()),
		)
		return OutcomeFailed, fmt.Errorf("adding visit: %w", err)
	}

	s.logger.Info("country added",
		slog.Int64("userID", userID),
		slog.String("code", country.Code),
		slog.String("input", name),
	)
	return OutcomeInserted, nil
}

func (s *TrackerService) resolveCountry(ctx context.Context, name string) (*model.Country, error) {
	country, err := s.countries.FindExact(ctx, name)
	if err == nil || !errors.Is(err, apperror.ErrNotFound) {
		return country, err
	}
	return s.countries.FindContaining(ctx, name)
}

// CreateUser validates and saves a new household member.
// A taken name comes back as apperror.ErrConflict from the repository.
func (s *TrackerService) CreateUser(ctx context.Context, name, color string) (*model.User, error) {
	name = strings.TrimSpace(name)
	color = strings.TrimSpace(color)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if utf8.RuneCountInString(name) > MaxUserNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxUserNameLength))
	}
	if color == "" {
		return nil, apperror.ValidationFailed("color", "pick a color")
	}
	if utf8.RuneCountInString(color) > MaxColorLength {
		return nil, apperror.ValidationFailed("color",
			fmt.Sprintf("color must be %d characters or less", MaxColorLength))
	}

	user := &model.User{Name: name, Color: color}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created",
		slog.Int64("userID", user.ID),
		slog.String("name", user.Name),
	)
	return user, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sandesh/weatherly/internal/model"
	"github.com/sandesh/weatherly/internal/weather"
)

// Cities is the static list backing the dashboard's city switcher.
var Cities = []string{
	"Kathmandu", "Pokhara", "Lalitpur", "Bhaktapur", "Biratnagar",
}

// WeatherProvider is the slice of the weather client the dashboard
// needs. An interface so tests can inject canned snapshots and failures.
type WeatherProvider interface {
	Current(ctx context.Context, city string) (*weather.Snapshot, error)
}

// DashboardView is everything the dashboard template renders.
type DashboardView struct {
	Tasks   []model.Task
	Weather *weather.Snapshot // nil when the lookup failed
	City    string            // the city this render resolved to
	Cities  []string
}

// DashboardService assembles the dashboard view: the user's task list,
// a weather snapshot for the resolved city, and the city switcher.
type DashboardService struct {
	auth    *AuthService
	tasks   *TaskService
	weather WeatherProvider
	logger  *slog.Logger
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(
	authSvc *AuthService,
	tasks *TaskService,
	provider WeatherProvider,
	logger *slog.Logger,
) *DashboardService {
	return &DashboardService{
		auth:    authSvc,
		tasks:   tasks,
		weather: provider,
		logger:  logger,
	}
}

// View builds the dashboard for a user.
//
// requestedCity overrides the user's preferred city for this render
// only — it is never written back to the stored preference. A failed
// weather lookup leaves Weather nil and the page renders without the
// panel; the task list never depends on the weather call succeeding.
func (s *DashboardService) View(ctx context.Context, userID, requestedCity string) (*DashboardView, error) {
	user, err := s.auth.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	city := requestedCity
	if city == "" {
		city = user.PreferredCity
	}

	tasks, err := s.tasks.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	snapshot, err := s.weather.Current(ctx, city)
	if err != nil {
		// Degrade, don't fail. The client already logged the cause;
		// this records that a page went out without weather.
		s.logger.Info("rendering dashboard without weather",
			slog.String("city", city),
		)
		snapshot = nil
	}

	return &DashboardView{
		Tasks:   tasks,
		Weather: snapshot,
		City:    city,
		Cities:  Cities,
	}, nil
}

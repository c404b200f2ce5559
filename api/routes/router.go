package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moodpath/moodpath-backend/api/controllers"
	"github.com/moodpath/moodpath-backend/api/middleware"
	"github.com/moodpath/moodpath-backend/internal/admin"
	"github.com/moodpath/moodpath-backend/internal/auth"
	"github.com/moodpath/moodpath-backend/internal/correlation"
	"github.com/moodpath/moodpath-backend/internal/forum"
	"github.com/moodpath/moodpath-backend/internal/journals"
	"github.com/moodpath/moodpath-backend/internal/lifecycle"
	"github.com/moodpath/moodpath-backend/internal/moodlogs"
	"github.com/moodpath/moodpath-backend/internal/prediction"
	"github.com/moodpath/moodpath-backend/pkg/auth/session"
	"github.com/moodpath/moodpath-backend/pkg/config"
	"github.com/moodpath/moodpath-backend/pkg/db/models"
	"github.com/moodpath/moodpath-backend/pkg/enums"
	"github.com/moodpath/moodpath-backend/pkg/logger"
	"github.com/moodpath/moodpath-backend/pkg/redis"
	"github.com/moodpath/moodpath-backend/pkg/storage/s3"
)

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	Redis          *redis.Client
	SessionManager session.AccessSessionChecker

	AuthService        auth.Service
	RegisterService    auth.RegisterService
	Users              middleware.AccountLoader
	MoodLogService     moodlogs.Service
	MoodLogRepo        *moodlogs.Repository
	Predictor          *prediction.Runner
	JournalService     journals.Service
	Storage            *s3.Client
	ForumService       forum.Service
	CorrelationService correlation.Service
	AdminService       admin.Service
	LifecycleService   lifecycle.Service
	LifecycleRepo      userFinder
}

// NewRouter assembles the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.Redis, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, deps.Users, logg))

		r.Route("/mood-logs", func(r chi.Router) {
			r.Post("/", controllers.CreateMoodLog(deps.MoodLogService, logg))
			r.Get("/", controllers.ListMoodLogs(deps.MoodLogService, logg))
			r.Get("/insights", controllers.MoodInsights(deps.MoodLogRepo, deps.Predictor, logg))
		})

		r.Route("/journals", func(r chi.Router) {
			r.Post("/", controllers.CreateJournal(deps.JournalService, logg))
			r.Get("/", controllers.ListJournals(deps.JournalService, logg))
			r.Get("/{journalId}", controllers.GetJournal(deps.JournalService, logg))
			r.Patch("/{journalId}", controllers.UpdateJournal(deps.JournalService, logg))
			r.Delete("/{journalId}", controllers.DeleteJournal(deps.JournalService, logg))
		})

		r.Route("/forum", func(r chi.Router) {
			r.Get("/todays-prompt", controllers.TodaysPrompt(deps.ForumService, logg))
			r.Post("/comments", controllers.CreateForumComment(deps.ForumService, logg))
			r.Delete("/comments/{commentId}", controllers.DeleteForumComment(deps.ForumService, logg))
			r.Get("/prompts/{promptId}/comments", controllers.ListForumComments(deps.ForumService, logg))
		})

		r.Get("/correlations/weekly", controllers.WeeklyCorrelation(deps.CorrelationService, logg))

		if deps.Storage != nil {
			r.Post("/media/presign", controllers.JournalMediaPresign(deps.Storage, logg))
		}
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, deps.SessionManager, deps.Users, logg),
			middleware.RequireRole(string(enums.RoleAdmin), logg),
		)

		r.Get("/metrics/overview", controllers.AdminOverview(deps.AdminService, logg))
		r.Get("/correlations", controllers.AdminRecentSnapshots(deps.AdminService, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(deps.AdminService, logg))
			r.Get("/inactive", controllers.AdminListInactive(deps.LifecycleService, logg))
			r.Post("/check-expired", controllers.AdminCheckExpired(deps.LifecycleService, logg))
			r.Post("/bulk-deactivate", controllers.AdminBulkDeactivate(deps.LifecycleService, logg))
			r.Post("/{userId}/deactivate", controllers.AdminDeactivateUser(deps.LifecycleService, logg))
			r.Post("/{userId}/reactivate", controllers.AdminReactivateUser(deps.LifecycleService, deps.LifecycleRepo, cfg.Lifecycle, logg))
			r.Post("/{userId}/soft-delete", controllers.AdminSoftDeleteUser(deps.LifecycleService, logg))
		})

		r.Route("/prompts", func(r chi.Router) {
			r.Post("/", controllers.AdminCreatePrompt(deps.ForumService, logg))
			r.Get("/", controllers.AdminListPrompts(deps.ForumService, logg))
			r.Delete("/{promptId}", controllers.AdminDeletePrompt(deps.ForumService, logg))
		})
	})

	return r
}

package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bug_tracker/internal/db"
	"github.com/Skotchmaster/bug_tracker/internal/logging"
	authmw "github.com/Skotchmaster/bug_tracker/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/bug_tracker/internal/middleware/logging"
	"github.com/Skotchmaster/bug_tracker/internal/models"
)

type Deps struct {
	DB            *gorm.DB
	Authn         *authmw.Authenticator
	Policy        *authmw.Policy
	Auth          *AuthHTTP
	Users         *UserHTTP
	Projects      *ProjectHTTP
	Bugs          *BugHTTP
	Notifications *NotificationHTTP
	Qualities     *QualityHTTP
	Reports       *ReportHTTP
}

var (
	admin     = []models.Role{models.RoleAdmin}
	adminView = []models.Role{models.RoleAdmin, models.RoleStakeholder}
	reporters = []models.Role{models.RoleAdmin, models.RoleTester}
	editors   = []models.Role{models.RoleAdmin, models.RoleDeveloper, models.RoleTester}
	readers   = []models.Role{models.RoleAdmin, models.RoleDeveloper, models.RoleTester, models.RoleStakeholder}
)

// New builds the echo instance with the full middleware chain and all routes.
func New(base *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Secure(),
		loggingmw.RequestLogger(base),
		d.Authn.Middleware(),
		d.Policy.Guard(),
	)

	Register(e, d)
	return e
}

// gated registers a route together with the roles allowed on it.
type gated struct {
	g      *echo.Group
	prefix string
	policy *authmw.Policy
}

func (r gated) add(method, path string, h echo.HandlerFunc, roles []models.Role) {
	r.g.Add(method, path, h)
	r.policy.Require(method, r.prefix+path, roles...)
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			logging.FromContext(c.Request().Context()).Error("readiness_failed", "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	auth := e.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.LogOut)
	// logout revokes whatever it is handed, so a stale bearer must still reach it
	d.Authn.Lenient(http.MethodPost, "/auth/logout")
	auth.POST("/refresh", d.Auth.Refresh)

	users := gated{g: e.Group("/api/users"), prefix: "/api/users", policy: d.Policy}
	users.add(http.MethodPost, "", d.Users.Create, admin)
	users.add(http.MethodGet, "", d.Users.List, admin)
	users.add(http.MethodGet, "/:id", d.Users.Get, admin)
	users.add(http.MethodPut, "/:id", d.Users.Update, admin)
	users.add(http.MethodDelete, "/:id", d.Users.Delete, admin)

	projects := gated{g: e.Group("/api/projects"), prefix: "/api/projects", policy: d.Policy}
	projects.add(http.MethodPost, "", d.Projects.Create, admin)
	projects.add(http.MethodGet, "", d.Projects.List, adminView)
	projects.add(http.MethodGet, "/:id", d.Projects.Get, adminView)
	projects.add(http.MethodGet, "/manager/:managerId", d.Projects.ByManager, admin)
	projects.add(http.MethodPut, "/:id", d.Projects.Update, admin)
	projects.add(http.MethodDelete, "/:id", d.Projects.Delete, admin)

	bugs := gated{g: e.Group("/api/bugs"), prefix: "/api/bugs", policy: d.Policy}
	bugs.add(http.MethodPost, "", d.Bugs.Create, reporters)
	bugs.add(http.MethodGet, "", d.Bugs.List, readers)
	bugs.add(http.MethodGet, "/search", d.Bugs.Search, readers)
	bugs.add(http.MethodGet, "/project/:projectId", d.Bugs.ByProject, readers)
	bugs.add(http.MethodGet, "/priority/:priority", d.Bugs.ByPriority, readers)
	bugs.add(http.MethodGet, "/:id", d.Bugs.Get, readers)
	bugs.add(http.MethodPut, "/:id", d.Bugs.Update, editors)
	bugs.add(http.MethodDelete, "/:id", d.Bugs.Delete, admin)

	notifications := gated{g: e.Group("/api/notifications"), prefix: "/api/notifications", policy: d.Policy}
	notifications.add(http.MethodPost, "", d.Notifications.Create, editors)
	notifications.add(http.MethodGet, "", d.Notifications.List, readers)
	notifications.add(http.MethodGet, "/user/:userId", d.Notifications.ByUser, readers)
	notifications.add(http.MethodGet, "/:id", d.Notifications.Get, readers)
	notifications.add(http.MethodPut, "/:id", d.Notifications.Update, editors)
	notifications.add(http.MethodDelete, "/:id", d.Notifications.Delete, editors)

	qualities := gated{g: e.Group("/api/qualities"), prefix: "/api/qualities", policy: d.Policy}
	qualities.add(http.MethodPost, "", d.Qualities.Create, editors)
	qualities.add(http.MethodGet, "", d.Qualities.List, readers)
	qualities.add(http.MethodGet, "/project/:projectId", d.Qualities.ByProject, readers)
	qualities.add(http.MethodGet, "/:id", d.Qualities.Get, readers)
	qualities.add(http.MethodPut, "/:id", d.Qualities.Update, editors)
	qualities.add(http.MethodDelete, "/:id", d.Qualities.Delete, editors)

	reports := gated{g: e.Group("/api/reports"), prefix: "/api/reports", policy: d.Policy}
	reports.add(http.MethodPost, "", d.Reports.Create, admin)
	reports.add(http.MethodGet, "", d.Reports.List, readers)
	reports.add(http.MethodGet, "/type/:type", d.Reports.ByType, readers)
	reports.add(http.MethodGet, "/creator/:generatedBy", d.Reports.ByCreator, readers)
	reports.add(http.MethodGet, "/:id", d.Reports.Get, readers)
	reports.add(http.MethodPut, "/:id", d.Reports.Update, admin)
	reports.add(http.MethodDelete, "/:id", d.Reports.Delete, admin)
}

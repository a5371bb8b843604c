package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskly/backend/internal/auth"
	"github.com/taskly/backend/internal/metrics"
	"github.com/taskly/backend/internal/middleware"
	"github.com/taskly/backend/internal/services"
	"github.com/taskly/backend/internal/store"
)

// RouterDeps carries everything the route tree needs.
type RouterDeps struct {
	Accounts *services.AccountService
	Projects *services.ProjectService
	Tasks    *services.TaskService
	Team     *services.TeamService
	Notes    *services.NoteService

	Sessions *auth.SessionIssuer
	Store    *store.Store

	AllowedOrigin string
	Log           *slog.Logger
}

// NewRouter builds the full route tree. Auth endpoints are rate limited per
// IP; everything under /api/projects requires a session, and the nested
// task routes resolve and relation-check their params before any handler.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(deps.AllowedOrigin))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	authHandler := NewAuthHandler(deps.Accounts, deps.Log)
	projectHandler := NewProjectHandler(deps.Projects, deps.Log)
	taskHandler := NewTaskHandler(deps.Tasks, deps.Log)
	teamHandler := NewTeamHandler(deps.Team, deps.Log)
	noteHandler := NewNoteHandler(deps.Notes, deps.Log)

	authenticated := middleware.Authenticate(deps.Sessions, deps.Store.Users)

	authRoutes := router.Group("/api/auth")
	authRoutes.Use(middleware.AuthRateLimit())
	{
		authRoutes.POST("/create-account", authHandler.CreateAccount)
		authRoutes.POST("/confirm-account", authHandler.ConfirmAccount)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/request-code", authHandler.RequestCode)
		authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
		authRoutes.POST("/validate-token", authHandler.ValidateToken)
		authRoutes.POST("/update-password/:token", authHandler.ResetPassword)

		authRoutes.GET("/user", authenticated, authHandler.GetUser)
		authRoutes.PUT("/profile", authenticated, authHandler.UpdateProfile)
		authRoutes.POST("/update-password", authenticated, authHandler.UpdatePassword)
		authRoutes.POST("/check-password", authenticated, authHandler.CheckPassword)
	}

	projects := router.Group("/api/projects")
	projects.Use(authenticated)
	{
		projects.POST("", projectHandler.Create)
		projects.GET("", projectHandler.List)

		project := projects.Group("/:projectID")
		project.Use(middleware.ResolveProject(deps.Store.Projects))
		{
			project.GET("", projectHandler.Get)
			project.PUT("", middleware.RequireManager(), projectHandler.Update)
			project.DELETE("", middleware.RequireManager(), projectHandler.Delete)

			project.POST("/tasks", middleware.RequireManager(), taskHandler.Create)
			project.GET("/tasks", taskHandler.List)

			task := project.Group("/tasks/:taskID")
			task.Use(middleware.ResolveTask(deps.Store.Tasks))
			{
				task.GET("", taskHandler.Get)
				task.PUT("", middleware.RequireManager(), taskHandler.Update)
				task.DELETE("", middleware.RequireManager(), taskHandler.Delete)
				task.POST("/status", taskHandler.UpdateStatus)

				task.POST("/notes", noteHandler.Create)
				task.GET("/notes", noteHandler.List)
				task.DELETE("/notes/:noteID", noteHandler.Delete)
			}

			project.POST("/team/find", teamHandler.Find)
			project.GET("/team", teamHandler.List)
			project.POST("/team", middleware.RequireManager(), teamHandler.Add)
			project.DELETE("/team/:userID", middleware.RequireManager(), teamHandler.Remove)
		}
	}

	return router
}

package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/portalhq/portal/internal/api/handler"
	"github.com/portalhq/portal/internal/api/middleware"
	"github.com/portalhq/portal/internal/attachment"
	"github.com/portalhq/portal/internal/auth"
	"github.com/portalhq/portal/internal/comment"
	"github.com/portalhq/portal/internal/notification"
	"github.com/portalhq/portal/internal/task"
	"github.com/portalhq/portal/internal/team"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Auth          *auth.Service
	Teams         *team.Service
	Tasks         *task.Service
	Comments      *comment.Service
	Notifications *notification.Service
	Attachments   *attachment.Service
	DBPinger      handler.DBPinger
	Version       string
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	userHandler := handler.NewUserHandler(deps.Auth)
	r.Post("/users", userHandler.Register)

	teamHandler := handler.NewTeamHandler(deps.Teams)
	taskHandler := handler.NewTaskHandler(deps.Tasks)
	commentHandler := handler.NewCommentHandler(deps.Comments)
	notificationHandler := handler.NewNotificationHandler(deps.Notifications)
	attachmentHandler := handler.NewAttachmentHandler(deps.Attachments)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.Auth))

		r.Get("/users/me", userHandler.Me)

		r.Route("/teams", func(r chi.Router) {
			r.Post("/", teamHandler.Create)
			r.Get("/", teamHandler.List)
			r.Get("/{id}", teamHandler.Get)
			r.Patch("/{id}", teamHandler.Update)
			r.Delete("/{id}", teamHandler.Delete)

			r.Post("/{id}/members", teamHandler.AddMember)
			r.Get("/{id}/members", teamHandler.ListMembers)
			r.Delete("/{id}/members/{userID}", teamHandler.RemoveMember)
			r.Patch("/{id}/members/{userID}", teamHandler.ChangeRole)

			r.Post("/{id}/tasks", taskHandler.Create)
			r.Get("/{id}/tasks", taskHandler.List)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/{id}", taskHandler.Get)
			r.Patch("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
			r.Get("/{id}/activity", taskHandler.Activity)

			r.Post("/{id}/comments", commentHandler.Create)
			r.Get("/{id}/comments", commentHandler.List)

			r.Post("/{id}/attachments", attachmentHandler.UploadToTask)
			r.Get("/{id}/attachments", attachmentHandler.ListForTask)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Delete("/{id}", commentHandler.Delete)
			r.Post("/{id}/attachments", attachmentHandler.UploadToComment)
		})

		r.Route("/attachments", func(r chi.Router) {
			r.Get("/{id}", attachmentHandler.Download)
			r.Delete("/{id}", attachmentHandler.Delete)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.List)
			r.Get("/unread", notificationHandler.ListUnread)
			r.Post("/{id}/read", notificationHandler.MarkRead)
			r.Post("/read-all", notificationHandler.MarkAllRead)
		})
	})

	return r
}

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-blog-api/internal/config"
	"go-blog-api/internal/handler"
	"go-blog-api/internal/middleware"
	"go-blog-api/internal/model"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Post     *handler.PostHandler
	Taxonomy *handler.TaxonomyHandler
	Comment  *handler.CommentHandler
	Media    *handler.MediaHandler
	User     *handler.UserHandler
	Page     *handler.PageHandler
}

func New(cfg *config.Config, gate *middleware.Gate, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Server-rendered pages behind the redirecting gate.
	r.Group(func(pages chi.Router) {
		pages.Use(gate.Pages)

		pages.Get("/", h.Page.Home)
		pages.Get("/login", h.Page.Login)
		pages.Get("/register", h.Page.Register)
		pages.Get("/profile", h.Page.Profile)
		pages.Get("/dashboard", h.Page.Dashboard)
		pages.Get("/admin", h.Page.Admin)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/register", h.Auth.Register)
			auth.Post("/logout", h.Auth.Logout)
			auth.Get("/session", h.Auth.Session)
		})

		api.Route("/posts", func(posts chi.Router) {
			posts.Get("/", h.Post.List)
			posts.With(gate.OptionalSession).Get("/slug/{slug}", h.Post.GetBySlug)
			posts.With(gate.RequireSession).Post("/", h.Post.Create)
			posts.With(gate.RequireSession).Get("/mine", h.Post.ListMine)
			posts.With(gate.RequireSession).Put("/{post_id}", h.Post.Update)
			posts.With(gate.RequireSession).Delete("/{post_id}", h.Post.Delete)

			posts.Get("/{post_id}/comments", h.Comment.ListByPost)
			posts.With(gate.RequireSession).Post("/{post_id}/comments", h.Comment.Create)
		})

		api.With(gate.RequireSession).Delete("/comments/{comment_id}", h.Comment.Delete)

		api.Get("/categories", h.Taxonomy.ListCategories)
		api.With(gate.RequireSession, gate.RequireRole(model.RoleAdmin)).Post("/categories", h.Taxonomy.CreateCategory)
		api.With(gate.RequireSession, gate.RequireRole(model.RoleAdmin)).Delete("/categories/{category_id}", h.Taxonomy.DeleteCategory)
		api.Get("/tags", h.Taxonomy.ListTags)

		api.Route("/media", func(media chi.Router) {
			media.With(gate.RequireSession).Post("/", h.Media.Upload)
			media.With(gate.RequireSession).Get("/", h.Media.ListMine)
			media.Get("/{media_id}", h.Media.Serve)
			media.Get("/{media_id}/thumbnail", h.Media.Thumbnail)
		})

		api.With(gate.RequireSession).Get("/profile", h.User.Profile)
		api.With(gate.RequireSession).Put("/profile", h.User.UpdateProfile)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(gate.RequireSession, gate.RequireRole(model.RoleAdmin))
			admin.Get("/users", h.User.ListUsers)
			admin.Put("/users/{user_id}/role", h.User.UpdateRole)
		})
	})

	return r
}

package server

import (
	"errors"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/web"
)

// Server wires the repositories, services and HTTP handlers together.
type Server struct {
	config *config.Config
	db     *gorm.DB
	cache  *cache.Cache

	blocklist []string

	userRepo    repository.UserRepository
	groupRepo   repository.GroupRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository

	postService    *service.PostService
	commentService *service.CommentService
	followService  *service.FollowService
}

// NewServer connects to the database and cache described by cfg.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	c := cache.New(cfg.RedisURL, middleware.Logger)
	return NewServerWithDeps(cfg, db, c), nil
}

// NewServerWithDeps builds a Server on top of already-initialized
// dependencies. Tests use it with an in-memory database and miniredis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, c *cache.Cache) *Server {
	middleware.InitMiddleware(cfg)

	s := &Server{
		config:    cfg,
		db:        db,
		cache:     c,
		blocklist: cfg.ForbiddenWordList(),
	}

	s.userRepo = repository.NewUserRepository(db)
	s.groupRepo = repository.NewGroupRepository(db)
	s.postRepo = repository.NewPostRepository(db)
	s.commentRepo = repository.NewCommentRepository(db)
	s.followRepo = repository.NewFollowRepository(db)

	s.postService = service.NewPostService(s.postRepo, s.groupRepo, s.userRepo, c, cfg.PageSize, cfg.IndexCacheTTL)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo)

	return s
}

// NewApp builds the Fiber application with the embedded view engine,
// middleware chain and routes registered.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        web.Engine(),
		ErrorHandler: s.errorHandler,
		BodyLimit:    10 * 1024 * 1024,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{Max: 300}))

	prom := fiberprometheus.New("inkwell")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Use(middleware.LoadUser())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.StructuredLogger())
}

func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.Live)
	app.Get("/health/ready", s.Ready)

	auth := app.Group("/auth")
	auth.Get("/signup", s.SignupPage)
	auth.Post("/signup", s.Signup)
	auth.Get("/login", s.LoginPage)
	auth.Post("/login", s.Login)
	auth.Get("/logout", s.Logout)

	app.Get("/", s.Index)
	app.Get("/group/:slug", s.GroupPosts)

	writeLimit := middleware.RateLimit(s.cache, "write", 30, time.Minute)

	app.Get("/create", middleware.RequireUser(), s.PostCreatePage)
	app.Post("/create", middleware.RequireUser(), writeLimit, s.PostCreate)
	app.Get("/follow", middleware.RequireUser(), s.FollowIndex)

	app.Get("/posts/:id", s.PostDetail)
	app.Get("/posts/:id/edit", middleware.RequireUser(), s.PostEditPage)
	app.Post("/posts/:id/edit", middleware.RequireUser(), s.PostEdit)
	app.Post("/posts/:id/comment", middleware.RequireUser(), writeLimit, s.AddComment)

	app.Get("/profile/:username", s.Profile)
	app.Get("/profile/:username/follow", middleware.RequireUser(), s.ProfileFollow)
	app.Post("/profile/:username/follow", middleware.RequireUser(), s.ProfileFollow)
	app.Get("/profile/:username/unfollow", middleware.RequireUser(), s.ProfileUnfollow)
	app.Post("/profile/:username/unfollow", middleware.RequireUser(), s.ProfileUnfollow)

	app.Static("/media", s.config.MediaRoot)

	app.Use(func(c *fiber.Ctx) error {
		return s.renderNotFound(c)
	})
}

// Close releases the server's external connections.
func (s *Server) Close() error {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// errorHandler turns errors bubbled out of handlers into HTML error
// pages. Not-found domain errors render the 404 page, everything else
// is logged and rendered as a 500.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	if models.IsNotFound(err) {
		return s.renderNotFound(c)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusNotFound {
			return s.renderNotFound(c)
		}
		if fiberErr.Code < fiber.StatusInternalServerError {
			return c.Status(fiberErr.Code).SendString(fiberErr.Message)
		}
	}

	middleware.Logger.ErrorContext(c.Context(), "unhandled request error",
		"path", c.Path(),
		"method", c.Method(),
		"error", err)
	return s.renderServerError(c)
}

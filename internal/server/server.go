package server

import (
	"net/http"
	"time"

	"anoa.com/studentprofile/internal/config"
	"anoa.com/studentprofile/internal/middleware"
	"anoa.com/studentprofile/pkg/storage"
	"anoa.com/studentprofile/pkg/token"

	authHttp "anoa.com/studentprofile/internal/modules/auth/delivery/http"
	authRepo "anoa.com/studentprofile/internal/modules/auth/repository"
	authService "anoa.com/studentprofile/internal/modules/auth/service"

	fileHttp "anoa.com/studentprofile/internal/modules/file/delivery/http"
	fileRepo "anoa.com/studentprofile/internal/modules/file/repository"
	fileService "anoa.com/studentprofile/internal/modules/file/service"

	moocHttp "anoa.com/studentprofile/internal/modules/mooc/delivery/http"
	moocRepo "anoa.com/studentprofile/internal/modules/mooc/repository"
	moocService "anoa.com/studentprofile/internal/modules/mooc/service"

	notiHttp "anoa.com/studentprofile/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/studentprofile/internal/modules/notification/repository"
	notifService "anoa.com/studentprofile/internal/modules/notification/service"

	profileHttp "anoa.com/studentprofile/internal/modules/profile/delivery/http"
	profileRepo "anoa.com/studentprofile/internal/modules/profile/repository"
	profileService "anoa.com/studentprofile/internal/modules/profile/service"

	projectHttp "anoa.com/studentprofile/internal/modules/project/delivery/http"
	projectRepo "anoa.com/studentprofile/internal/modules/project/repository"
	projectService "anoa.com/studentprofile/internal/modules/project/service"

	searchService "anoa.com/studentprofile/internal/modules/search/service"

	statHttp "anoa.com/studentprofile/internal/modules/stat/delivery/http"
	statRepo "anoa.com/studentprofile/internal/modules/stat/repository"
	statService "anoa.com/studentprofile/internal/modules/stat/service"

	teacherHttp "anoa.com/studentprofile/internal/modules/teacher/delivery/http"
	teacherRepo "anoa.com/studentprofile/internal/modules/teacher/repository"
	teacherService "anoa.com/studentprofile/internal/modules/teacher/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps are the shared resources built once at startup. Redis and Search are optional.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *redis.Client
	Search  searchService.SearchService
	Storage storage.FileStorage
	Tokens  *token.Manager
	Log     zerolog.Logger
}

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(deps Deps) *Server {
	cfg := deps.Config
	db := deps.DB

	authRepository := authRepo.NewAuthRepository(db)
	authSvc := authService.NewAuthService(authRepository, deps.Tokens, deps.Redis, deps.Search, authService.Options{
		LoginMaxAttempts: cfg.LoginMaxAttempts,
		LoginWindow:      cfg.LoginWindow,
		RegistrationKey:  cfg.TeacherRegistrationKey,
	}, deps.Log)
	authHandler := authHttp.NewAuthHandler(authSvc)

	// Notification Module
	var feedRepository notifRepo.FeedRepository
	if deps.Redis != nil {
		feedRepository = notifRepo.NewFeedRepository(deps.Redis)
	}
	feedSvc := notifService.NewFeedService(feedRepository)
	feedHandler := notiHttp.NewFeedHandler(feedSvc, deps.Log)

	projectRepository := projectRepo.NewProjectRepository(db)
	projectSvc := projectService.NewProjectService(projectRepository)
	projectHandler := projectHttp.NewProjectHandler(projectSvc)

	moocRepository := moocRepo.NewMoocRepository(db)
	moocSvc := moocService.NewMoocService(moocRepository)
	moocHandler := moocHttp.NewMoocHandler(moocSvc)

	profileRepository := profileRepo.NewProfileRepository(db)
	profileSvc := profileService.NewProfileService(profileRepository, projectRepository, moocRepository, deps.Search, feedSvc, deps.Log)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	teacherRepository := teacherRepo.NewStudentDirectoryRepository(db)
	teacherSvc := teacherService.NewTeacherService(teacherRepository, deps.Search, deps.Log)
	teacherHandler := teacherHttp.NewTeacherHandler(teacherSvc)

	statHandler := statHttp.NewStatHandler(statService.NewStatService(statRepo.NewStatRepository(db)))

	fileRepository := fileRepo.NewFileRepository(db)
	fileSvc := fileService.NewFileService(fileRepository, deps.Storage, profileRepository, deps.Redis, fileService.Options{
		MaxUploadSize:  cfg.Storage.MaxUploadSize,
		UploadCooldown: cfg.UploadCooldown,
		Folder:         cfg.Cloudinary.UploadFolder,
	}, deps.Log)
	fileHandler := fileHttp.NewFileHandler(fileSvc, cfg.Storage.MaxUploadSize)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Log, "/health"))

	if cfg.Storage.Provider == "local" {
		router.Static("/uploads", cfg.Storage.UploadDir)
	}

	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := middleware.NewAuthMiddleware(deps.Tokens)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}
	api.POST("/teacher/login", authHandler.Login)
	api.POST("/teacher/register", authHandler.RegisterTeacher)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		profile := protected.Group("/student-profile")
		{
			profile.POST("", profileHandler.UpsertProfile)
			profile.PUT("/update", profileHandler.UpdateProfile)
			profile.GET("/:studentId", profileHandler.GetProfile)
		}

		teacher := protected.Group("/teacher")
		teacher.Use(authMiddleware.RequireRole(token.RoleTeacher))
		{
			teacher.GET("/students", teacherHandler.ListStudents)
			teacher.GET("/stats", statHandler.Overview)
			teacher.GET("/feed", feedHandler.StreamFeed)
			teacher.GET("/feed/recent", feedHandler.RecentEvents)
		}

		projects := protected.Group("/projects")
		projects.Use(authMiddleware.RequireRole(token.RoleStudent))
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.PUT("/:projectId", projectHandler.UpdateProject)
			projects.DELETE("/:projectId", projectHandler.DeleteProject)
		}

		mooc := protected.Group("/mooc-certificates")
		{
			mooc.GET("/:studentId", moocHandler.ListCertificates)
			mooc.POST("", moocHandler.CreateCertificate)
			mooc.PUT("/:certificateId", moocHandler.UpdateCertificate)
			mooc.DELETE("/:certificateId", moocHandler.DeleteCertificate)
		}

		files := protected.Group("/files")
		{
			files.POST("/:type/upload", fileHandler.UploadFile)
			files.GET("/:type", fileHandler.ListFiles)
			files.DELETE("/:type", fileHandler.DeleteFile)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: deps.Redis,
	}
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Registration-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

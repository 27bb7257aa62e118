package server

import (
	"strings"
	"time"

	"nga.at/communityforum/internal/config"
	"nga.at/communityforum/internal/middleware"
	"nga.at/communityforum/pkg/mailer"

	categoryHttp "nga.at/communityforum/internal/modules/category/delivery/http"
	categoryRepo "nga.at/communityforum/internal/modules/category/repository"
	categoryService "nga.at/communityforum/internal/modules/category/service"

	pollHttp "nga.at/communityforum/internal/modules/poll/delivery/http"
	pollRepo "nga.at/communityforum/internal/modules/poll/repository"
	pollService "nga.at/communityforum/internal/modules/poll/service"

	postHttp "nga.at/communityforum/internal/modules/post/delivery/http"
	postRepo "nga.at/communityforum/internal/modules/post/repository"
	postService "nga.at/communityforum/internal/modules/post/service"

	reactionHttp "nga.at/communityforum/internal/modules/reaction/delivery/http"
	reactionRepo "nga.at/communityforum/internal/modules/reaction/repository"
	reactionService "nga.at/communityforum/internal/modules/reaction/service"

	userHttp "nga.at/communityforum/internal/modules/user/delivery/http"
	userRepo "nga.at/communityforum/internal/modules/user/repository"
	userService "nga.at/communityforum/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

func NewServer(db *gorm.DB, cfg *config.Config) *Server {
	mail := mailer.NewMailer()

	userRepository := userRepo.NewUserRepository(db)
	authSvc := userService.NewAuthService(userRepository, mail, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := userHttp.NewAuthHandler(authSvc)

	categoryRepository := categoryRepo.NewCategoryRepository(db)
	categorySvc := categoryService.NewCategoryService(categoryRepository)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	postRepository := postRepo.NewPostRepository(db)
	reactionRepository := reactionRepo.NewReactionRepository(db)

	postSvc := postService.NewPostService(postRepository, categoryRepository, reactionRepository)
	postHandler := postHttp.NewPostHandler(postSvc)

	reactionSvc := reactionService.NewReactionService(reactionRepository, postRepository)
	reactionHandler := reactionHttp.NewReactionHandler(reactionSvc)

	pollRepository := pollRepo.NewPollRepository(db)
	pollSvc := pollService.NewPollService(pollRepository)
	pollHandler := pollHttp.NewPollHandler(pollSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	setupCORS(router, cfg.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(userRepository, cfg.JWTSecret)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/verify-email", authHandler.VerifyEmail)

		authProtected := auth.Group("")
		authProtected.Use(authMiddleware.RequireAuth())
		{
			authProtected.POST("/send-verification", authHandler.SendVerification)
			authProtected.GET("/profile", authHandler.GetProfile)
			authProtected.PUT("/update-profile", authHandler.UpdateProfile)
			authProtected.PUT("/change-password", authHandler.ChangePassword)
		}
	}

	forum := api.Group("/forum")
	{
		forum.GET("/categories", categoryHandler.GetAllCategories)
		forum.GET("/categories/:id/posts", postHandler.GetPostsByCategory)
		forum.GET("/posts/:id", authMiddleware.OptionalAuth(), postHandler.GetPostByID)
		forum.GET("/reactions/:targetType/:targetID", authMiddleware.OptionalAuth(), reactionHandler.GetReactions)

		adminGroup := forum.Group("")
		adminGroup.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/categories", categoryHandler.CreateCategory)
			adminGroup.DELETE("/categories/:id", categoryHandler.DeleteCategory)
		}

		protected := forum.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			protected.POST("/posts", postHandler.CreatePost)
			protected.POST("/posts/:id/comments", postHandler.AddComment)
			protected.POST("/react", reactionHandler.ToggleReaction)
		}
	}

	polls := api.Group("/polls")
	{
		polls.GET("", pollHandler.GetPolls)
		polls.GET("/:id", authMiddleware.OptionalAuth(), pollHandler.GetPollByID)
		polls.GET("/:id/results", pollHandler.GetPollResults)

		protected := polls.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			protected.GET("/my/polls", pollHandler.GetMyPolls)
			protected.POST("", pollHandler.CreatePoll)
			protected.POST("/:id/vote", pollHandler.Vote)
			protected.PUT("/:id", pollHandler.UpdatePoll)
			protected.DELETE("/:id", pollHandler.DeletePoll)
		}
	}

	return &Server{
		engine: router,
		db:     db,
		cfg:    cfg,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

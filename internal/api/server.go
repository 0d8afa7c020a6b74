package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/yizeng/gab/gin/redis/holiday-planner/docs"
	v1 "github.com/yizeng/gab/gin/redis/holiday-planner/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/api/middleware"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/config"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/repository"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/service"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/storage"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, store storage.Store) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	availabilityHandler := s.initAvailabilityHandler(store)
	secretSantaHandler := s.initSecretSantaHandler(store)
	s.MountHandlers(availabilityHandler, secretSantaHandler)

	return s
}

func (s *Server) initAvailabilityHandler(store storage.Store) *v1.AvailabilityHandler {
	repo := repository.NewAvailabilityRepository(store)
	svc := service.NewAvailabilityService(repo)
	handler := v1.NewAvailabilityHandler(svc)

	return handler
}

func (s *Server) initSecretSantaHandler(store storage.Store) *v1.SecretSantaHandler {
	repo := repository.NewParticipantRepository(store)
	svc := service.NewSecretSantaService(repo)
	handler := v1.NewSecretSantaHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(availabilityHandler *v1.AvailabilityHandler, secretSantaHandler *v1.SecretSantaHandler) {
	const basePath = "/api/v1"

	availability := s.Router.Group(basePath)
	{
		availability.GET("/availability", availabilityHandler.HandleListVotes)
		availability.POST("/availability", availabilityHandler.HandleVote)
		availability.GET("/availability/ranking", availabilityHandler.HandleRanking)
	}

	secretSanta := s.Router.Group(basePath)
	{
		secretSanta.POST("/secret-santa/register", secretSantaHandler.HandleRegister)
		secretSanta.POST("/secret-santa/login", secretSantaHandler.HandleLogin)
		secretSanta.GET("/secret-santa/participants", secretSantaHandler.HandleGetParticipants)
		secretSanta.DELETE("/secret-santa/user", secretSantaHandler.HandleRemoveUser)
		secretSanta.POST("/secret-santa/wishlist", secretSantaHandler.HandleUpdateWishlist)
		secretSanta.POST("/secret-santa/raffle", secretSantaHandler.HandleRaffle)
		secretSanta.GET("/secret-santa/status", secretSantaHandler.HandleStatus)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "API for gin/holiday-planner"
	docs.SwaggerInfo.Description = "Availability poll and Secret Santa API with Gin."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

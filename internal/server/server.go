package server

import (
	"net/http"

	"ambassadors/internal/aggregation"
	"ambassadors/internal/handler"
	"ambassadors/internal/repository"
	"ambassadors/internal/warning"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

type Server struct {
	router     *gin.Engine
	db         *sqlx.DB
	engine     *warning.Engine
	aggregator *aggregation.Aggregator
	logger     *zap.Logger
	log        *logrus.Logger
}

func NewServer(db *sqlx.DB, engine *warning.Engine, aggregator *aggregation.Aggregator, logger *zap.Logger, log *logrus.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router:     router,
		db:         db,
		engine:     engine,
		aggregator: aggregator,
		logger:     logger,
		log:        log,
	}

	// Setup routes
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	userRepo := repository.NewUserRepository(s.db, s.logger)
	activityRepo := repository.NewActivityRepository(s.db, s.logger)
	warningRepo := repository.NewWarningRepository(s.db, s.logger)
	ruleRepo := repository.NewRuleRepository(s.db, s.logger)

	analyticsHandler := handler.NewAnalyticsHandler(s.aggregator, s.logger)
	warningHandler := handler.NewWarningHandler(s.engine, warningRepo, s.logger)
	ruleHandler := handler.NewRuleHandler(ruleRepo, s.logger)
	activityHandler := handler.NewActivityHandler(activityRepo, userRepo, s.logger)
	userHandler := handler.NewUserHandler(userRepo, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := s.router.Group("/api")
	{
		api.GET("/analytics/compliance", analyticsHandler.GetAllCompliance)
		api.GET("/analytics/compliance/:userID", analyticsHandler.GetUserCompliance)
		api.GET("/analytics/team-compliance", analyticsHandler.GetTeamCompliance)
		api.GET("/analytics/trend", analyticsHandler.GetTrend)

		api.POST("/warnings/evaluate-now", warningHandler.EvaluateNow)
		api.GET("/warnings/:userID", warningHandler.GetUserWarnings)
		api.PATCH("/warnings/:userID/clear", warningHandler.ClearWarnings)
		api.PATCH("/warnings/:userID/pause", warningHandler.PauseWarnings)

		api.GET("/rules", ruleHandler.GetPostingRule)
		api.PUT("/rules", ruleHandler.UpdatePostingRule)
		api.GET("/warning-config", ruleHandler.GetWarningConfig)
		api.PUT("/warning-config", ruleHandler.UpdateWarningConfig)

		api.POST("/activities", activityHandler.CreateManualActivity)
		api.GET("/activities/:userID", activityHandler.GetUserActivities)

		api.GET("/users", userHandler.GetAllUsers)
		api.GET("/users/:userID", userHandler.GetUserByID)
	}
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}

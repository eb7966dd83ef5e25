package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"curvas/internal/cache"
	"curvas/internal/config"
	"curvas/internal/database"
	"curvas/internal/external"
	"curvas/internal/handlers"
	"curvas/internal/messaging"
	"curvas/internal/metrics"
	"curvas/internal/middleware"
	"curvas/internal/repository"
	"curvas/internal/search"
	"curvas/internal/service"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	// Search and cache are optional: the API degrades to Postgres when
	// either is unreachable.
	var repos *repository.Repositories
	esClient, err := search.NewElasticsearchClient(config.LoadElasticsearchConfig())
	if err != nil {
		log.Printf("Elasticsearch unavailable, match search disabled: %v", err)
		repos = repository.NewRepositories(db)
	} else {
		repos = repository.NewRepositoriesWithElasticsearch(db, esClient)
	}

	valkeyClient, err := cache.NewValkeyClient()
	if err != nil {
		log.Printf("Valkey unavailable, caching disabled: %v", err)
		valkeyClient = nil
	}

	paymentClient := external.NewPaymentClient(cfg.Payment)

	services := service.NewServices(repos, natsClient, paymentClient)

	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(metrics.Middleware())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.valkey)

	api := s.router.Group("/api")
	api.Use(middleware.BasicAuth(s.repos.Users, s.valkey))
	{
		matches := api.Group("/matches")
		{
			matches.POST("", h.CreateMatch)
			matches.GET("", h.ListMatches)
			matches.GET("/:id", h.GetMatch)
			matches.PATCH("/start", h.StartMatch)
			matches.PATCH("/score", h.UpdateScore)
			matches.PATCH("/end", h.EndMatch)
		}

		tickets := api.Group("/tickets")
		{
			tickets.POST("", h.PurchaseTicket)
			tickets.GET("", h.ListTickets)
			tickets.PATCH("/status", h.ChangeTicketStatus)
			tickets.PATCH("/initiatePayment", h.InitiatePayment)
		}

		curvas := api.Group("/curvas")
		{
			curvas.GET("", h.ListCurvas)
		}
	}

	// Gateway callbacks carry no operator credentials.
	payments := s.router.Group("/api/payments")
	{
		payments.GET("/success", h.NotifyPaymentCompleted)
		payments.GET("/fail", h.NotifyPaymentFailed)
		payments.POST("/notifications", h.OnPaymentUpdates)
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", metrics.Handler())
}

func (s *Server) healthCheck(c *gin.Context) {
	check := s.db.HealthCheck(c.Request.Context())
	status := http.StatusOK
	if check.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":   check.Status,
		"service":  "curvas-api",
		"database": check,
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			log.Printf("Error closing Valkey connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}

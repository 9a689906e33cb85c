package app

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "rldguard/docs"
	"rldguard/internal/authz"
	"rldguard/internal/compliance"
	"rldguard/internal/config"
	"rldguard/internal/handlers"
	"rldguard/internal/pdf"
	"rldguard/internal/repositories"
	"rldguard/internal/routes"
	"rldguard/internal/services"
	"rldguard/migrations"
)

func Run(configPath string) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal("Ошибка конфигурации: ", err)
	}

	router, cleanup, err := Build(cfg)
	if err != nil {
		log.Fatal("Ошибка инициализации: ", err)
	}
	defer cleanup()

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

// Build wires every component described by cfg and returns the router plus
// a cleanup func for the resources it opened.
func Build(cfg *config.Config) (*gin.Engine, func(), error) {
	cleanup := func() {}

	rules, err := cfg.Rules()
	if err != nil {
		return nil, cleanup, err
	}
	log.Printf("[config] holidays=%d years=%v expansions=%s min_days=%d tz=%s",
		rules.Holidays.Len(), rules.Holidays.Years(), rules.ExpansionsPipeline, rules.MinLeadDays, rules.Location)

	// === DB (audit log) ===
	var events repositories.OverrideEventRepository
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, cleanup, fmt.Errorf("open db: %w", err)
		}
		cleanup = func() {
			if err := db.Close(); err != nil {
				log.Printf("Ошибка закрытия БД: %v", err)
			}
		}
		if err := migrations.Up(db); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("migrations: %w", err)
		}
		events = repositories.NewOverrideEventRepository(db)
	} else {
		log.Printf("[audit] database.url empty, keeping override history in memory")
		events = repositories.NewMemoryOverrideEventRepository()
	}

	// === Services ===
	httpClient := &http.Client{Timeout: 15 * time.Second}
	store := services.NewHubSpotClient(cfg.HubSpot.BaseURL, cfg.HubSpot.AccessToken, httpClient)
	evaluator := compliance.NewEvaluator(rules, time.Now)
	policy := authz.NewPolicy(cfg.Approvers.UserIDs, cfg.Approvers.Teams)

	slack := services.NewSlackService(cfg.Slack.WebhookURL, cfg.HubSpot.PortalID, cfg.Slack.SigningSecret != "", rules.Location, httpClient)
	notifiers := []services.OverrideNotifier{slack}
	if cfg.Telegram.BotToken != "" {
		tg, err := services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			// Telegram is a mirror; the service runs without it
			log.Printf("[tg][init][err] %v", err)
		} else {
			notifiers = append(notifiers, tg)
		}
	}

	var mailer services.EmailService
	if cfg.Email.SMTPHost != "" && cfg.Email.FromEmail != "" {
		mailer = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}

	dealService := services.NewDealService(services.DealServiceOptions{
		Store:     store,
		Evaluator: evaluator,
		Policy:    policy,
		Notifiers: notifiers,
		Mailer:    mailer,
		Reports:   pdf.NewReportGenerator(cfg.Report.FontPath),
		Events:    events,
	})

	// === Handlers ===
	dealHandler := handlers.NewDealHandler(dealService)
	var slackHandler *handlers.SlackHandler
	if cfg.Slack.SigningSecret != "" {
		slackHandler = handlers.NewSlackHandler(dealService, slack, cfg.Slack.SigningSecret)
	}

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, []byte(cfg.Auth.JWTSecret), policy, dealHandler, slackHandler)
	return router, cleanup, nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

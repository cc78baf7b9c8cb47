package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gradschool-portal/internal/controllers"
	"gradschool-portal/internal/legacy"
	"gradschool-portal/internal/repositories"
	"gradschool-portal/internal/services"
	"gradschool-portal/pkg/config"
	"gradschool-portal/pkg/mail"
	"gradschool-portal/pkg/middleware"
	"gradschool-portal/pkg/pdf"
	"gradschool-portal/pkg/service"
)

type Loggers struct {
	Main *zap.Logger
	Auth *zap.Logger
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, loggers *Loggers, cfg *config.Config) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)

	// Repositories
	userRepo := repositories.NewUserRepository(dbConn, loggers.Main)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	adviserRepo := repositories.NewAdviserRepository(dbConn, loggers.Main)
	defenseRepo := repositories.NewDefenseRepository(dbConn, loggers.Main)
	examRepo := repositories.NewExamRepository(dbConn, loggers.Main)
	paymentRepo := repositories.NewPaymentRepository(dbConn, loggers.Main)
	messageRepo := repositories.NewMessageRepository(dbConn, loggers.Main)

	// External clients
	portalClient := legacy.NewClient(cfg.Legacy.BaseURL, cfg.Legacy.RequestTimeout, loggers.Auth)
	mailer := mail.NewMailer(cfg.Mail.Domain, cfg.Mail.APIKey, cfg.Mail.APIBase)
	pdfService := pdf.NewService(cfg.PDF.APIBase, cfg.PDF.APIKey)

	// Login flow components
	resolver := services.NewUserResolver(userRepo, cfg.Auth.EmailDomain, loggers.Auth)
	enricher := services.NewClearanceEnricher(portalClient, loggers.Auth)
	sessionStore := services.NewLegacySessionStore(cacheRepo, cfg.Legacy.SessionTTL, cfg.Legacy.EnrichmentTTL, loggers.Auth)
	rateLimiter := services.NewLoginRateLimiter(cacheRepo, cfg.Auth.MaxLoginAttempts, cfg.Auth.LockoutDuration, loggers.Auth)

	// Services
	authService := services.NewAuthService(userRepo, resolver, portalClient, enricher, sessionStore, rateLimiter, loggers.Auth, &cfg.Auth)
	userService := services.NewUserService(userRepo, loggers.Main)
	adviserService := services.NewAdviserService(adviserRepo, userRepo, loggers.Main)
	defenseService := services.NewDefenseService(defenseRepo, userRepo, mailer, cfg.Mail.Sender, loggers.Main)
	examService := services.NewExamService(examRepo, loggers.Main)
	paymentService := services.NewPaymentService(paymentRepo, examRepo, loggers.Main)
	messageService := services.NewMessageService(messageRepo, userRepo, loggers.Main)
	formService := services.NewFormService(pdfService, userRepo, examRepo, defenseRepo, cfg.Server.PublicBaseURL, loggers.Main)

	// Controllers
	authCtrl := controllers.NewAuthController(authService, jwtSvc, loggers.Auth)
	userCtrl := controllers.NewUserController(userService, loggers.Main)
	adviserCtrl := controllers.NewAdviserController(adviserService, loggers.Main)
	defenseCtrl := controllers.NewDefenseController(defenseService, loggers.Main)
	examCtrl := controllers.NewExamController(examService, loggers.Main)
	paymentCtrl := controllers.NewPaymentController(paymentService, loggers.Main)
	messageCtrl := controllers.NewMessageController(messageService, loggers.Main)
	formCtrl := controllers.NewFormController(formService, loggers.Main)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authCtrl, authMW)
	runUserRouter(secureGroup, userCtrl, authMW)
	runAdviserRouter(secureGroup, adviserCtrl, authMW)
	runDefenseRouter(secureGroup, defenseCtrl, authMW)
	runExamRouter(secureGroup, examCtrl, authMW)
	runPaymentRouter(secureGroup, paymentCtrl, authMW)
	runMessageRouter(secureGroup, messageCtrl)
	runFormRouter(secureGroup, formCtrl)
}

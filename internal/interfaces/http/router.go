package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	mailingUC "noryx/internal/application/mailing/usecases"
	notificationUC "noryx/internal/application/notification/usecases"
	"noryx/internal/application/vpn/services"
	vpnUC "noryx/internal/application/vpn/usecases"
	"noryx/internal/infrastructure/auth"
	"noryx/internal/infrastructure/config"
	"noryx/internal/infrastructure/email"
	"noryx/internal/infrastructure/panel"
	"noryx/internal/infrastructure/repository"
	"noryx/internal/infrastructure/token"
	"noryx/internal/interfaces/http/handlers"
	"noryx/internal/interfaces/http/middleware"
	"noryx/internal/shared/logger"
)

// Router wires repositories, services and use cases onto the gin engine.
type Router struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	panel  *panel.Client
	logger logger.Interface

	// Jobs are handed to the scheduler by the server command.
	ExpiryScan   *notificationUC.NotifyExpiringUseCase
	MailingDrain *mailingUC.ProcessMailingsUseCase
	Cleanup      *vpnUC.CleanupExpiredUseCase
}

func NewRouter(db *gorm.DB, panelClient *panel.Client, cfg *config.Config, log logger.Interface) *Router {
	return &Router{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		panel:  panelClient,
		logger: log,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.Logger(r.logger))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	subRepo := repository.NewSubscriptionRepository(r.db)
	tariffRepo := repository.NewTariffRepository(r.db)
	userRepo := repository.NewUserRepository(r.db)
	notifRepo := repository.NewNotificationRepository(r.db)
	notifHistoryRepo := repository.NewNotificationHistoryRepository(r.db)
	notifTemplateRepo := repository.NewNotificationTemplateRepository(r.db)
	mailingRepo := repository.NewMailingRepository(r.db)
	mailingTemplateRepo := repository.NewMailingTemplateRepository(r.db)
	mailingHistoryRepo := repository.NewMailingHistoryRepository(r.db)
	connLogRepo := repository.NewConnectionLogRepository(r.db)
	countryRepo := repository.NewCountryRepository(r.db)

	var mailer email.Mailer = email.NoopMailer{}
	if r.cfg.Email.IsConfigured() {
		mailer = email.NewSMTPMailer(&r.cfg.Email)
	}

	tokens := token.NewDownloadTokenService(r.cfg.Delivery.HMACSecret, r.cfg.Delivery.TokenTTL())
	provisioning := services.NewProvisioningService(r.panel, subRepo, r.cfg.Delivery.DefaultTrafficGB, r.logger)
	delivery := services.NewDeliveryService(tokens)

	connectUC := vpnUC.NewConnectUseCase(subRepo, countryRepo, provisioning, delivery, connLogRepo, r.logger)
	downloadUC := vpnUC.NewDownloadConfigUseCase(tokens, subRepo, delivery, r.logger)
	changeCountryUC := vpnUC.NewChangeCountryUseCase(subRepo, countryRepo, r.logger)
	listCountriesUC := vpnUC.NewListCountriesUseCase(countryRepo)
	getStatsUC := vpnUC.NewGetStatsUseCase(subRepo, provisioning)
	r.Cleanup = vpnUC.NewCleanupExpiredUseCase(provisioning)

	r.ExpiryScan = notificationUC.NewNotifyExpiringUseCase(
		subRepo, tariffRepo, userRepo, notifRepo, notifHistoryRepo, notifTemplateRepo, mailer, r.logger)
	r.MailingDrain = mailingUC.NewProcessMailingsUseCase(
		mailingRepo, mailingTemplateRepo, mailingHistoryRepo, userRepo, mailer, r.logger)

	vpnHandler := handlers.NewVPNHandler(
		connectUC, downloadUC, changeCountryUC, listCountriesUC, getStatsUC, r.Cleanup)

	jwtService := auth.NewJWTService(r.cfg.Auth.JWT.Secret, r.cfg.Auth.JWT.AccessExpMinutes)
	authMW := middleware.NewAuthMiddleware(jwtService, r.cfg.Auth.AllowUserIDFallback, r.logger)

	api := r.engine.Group("/api")
	vpn := api.Group("/vpn")
	{
		// The download link must work from a bare browser, so the token in
		// the path is the only credential.
		vpn.GET("/download/:token", vpnHandler.DownloadConfig)
		vpn.GET("/countries", vpnHandler.ListCountries)

		vpn.POST("/connect", authMW.RequireUser(), vpnHandler.Connect)
		vpn.POST("/change-country", authMW.RequireUser(), vpnHandler.ChangeCountry)
		vpn.GET("/stats", authMW.RequireUser(), vpnHandler.GetStats)

		vpn.POST("/admin/cleanup", authMW.RequireAdmin(), vpnHandler.CleanupExpired)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

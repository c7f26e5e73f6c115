package cmd

import (
	"database/sql"
	"net"
	"net/http"
	"os"

	"github.com/vibast-solutions/ms-go-newsletter/app/controller"
	"github.com/vibast-solutions/ms-go-newsletter/app/email"
	"github.com/vibast-solutions/ms-go-newsletter/app/middleware"
	"github.com/vibast-solutions/ms-go-newsletter/app/repository"
	"github.com/vibast-solutions/ms-go-newsletter/app/service"
	"github.com/vibast-solutions/ms-go-newsletter/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the HTTP (Echo) server for the mailing-list service.`,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func configureLogging() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	configureLogging()

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	subscriberRepo := repository.NewSubscriberRepository(db)
	userRepo := repository.NewUserRepository(db)

	emailClient := email.NewClient(cfg.Email)
	passwordVerifier := service.NewPasswordVerifier(cfg.PasswordWorkers)
	defer passwordVerifier.Close()

	subscriptionService := service.NewSubscriptionService(db, subscriberRepo, emailClient, cfg.BaseURL)
	newsletterService := service.NewNewsletterService(subscriberRepo, emailClient)
	authService := service.NewAuthService(userRepo, passwordVerifier, cfg.SessionSecret, cfg.SessionTTL)

	startHTTPServer(cfg, subscriptionService, newsletterService, authService)
}

func startHTTPServer(
	cfg *config.Config,
	subscriptionService *service.SubscriptionService,
	newsletterService *service.NewsletterService,
	authService *service.AuthService,
) {
	e := echo.New()
	defer e.Close()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	subscriptionController := controller.NewSubscriptionController(subscriptionService)
	newsletterController := controller.NewNewsletterController(newsletterService, authService)
	loginController := controller.NewLoginController(authService, cfg.HMACSecret, cfg.SessionTTL)
	sessionMiddleware := middleware.NewSessionMiddleware(authService)

	e.GET("/health_check", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	e.POST("/subscriptions", subscriptionController.Subscribe)
	e.GET("/subscriptions/confirm", subscriptionController.Confirm)

	e.POST("/newsletters", newsletterController.Publish)

	e.GET("/login", loginController.LoginForm)
	e.POST("/login", loginController.Login)

	admin := e.Group("/admin")
	admin.Use(sessionMiddleware.RequireSession)
	admin.GET("/dashboard", loginController.Dashboard)

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}

// Package server assembles the HTTP router from the domain packages.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"companysite/internal/config"
	"companysite/internal/domain/admin"
	"companysite/internal/domain/auth"
	"companysite/internal/domain/catalog"
	"companysite/internal/domain/contact"
	"companysite/internal/domain/messaging"
	"companysite/internal/domain/remoteaction"
	"companysite/internal/domain/site"
	"companysite/internal/domain/staff"
	"companysite/internal/domain/task"
	"companysite/internal/logging"
	"companysite/internal/middleware"
	"companysite/internal/pkg/jwt"
	"companysite/internal/session"
	"companysite/internal/storage"
	"companysite/internal/web"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	maxUploadMemory   = 32 << 20
)

type Options struct {
	Config   *config.Config
	DB       *gorm.DB
	Store    storage.Store
	Settings config.Provider
	Sender   messaging.Sender
	Log      logging.Logger
}

// NewRouter wires repositories, services and handlers into one engine.
func NewRouter(o Options) (*gin.Engine, error) {
	cfg := o.Config
	if o.Sender == nil {
		o.Sender = messaging.NewSMTPSender()
	}
	uploads := storage.NewUploader(o.Store, o.Log)

	services := catalog.NewService(catalog.NewRepository(o.DB), uploads, o.Log)
	employees := staff.NewService(staff.NewRepository(o.DB), uploads, o.Log)
	authSvc := auth.NewService(auth.NewUserRepository(o.DB), auth.NewLogRepository(o.DB), o.Settings, o.Log)
	tasks := task.NewService(task.NewRepository(o.DB), uploads, o.Log)
	contacts := contact.NewService(contact.NewRepository(o.DB), o.Log)
	actions := remoteaction.NewService(remoteaction.NewRepository(o.DB), o.Log)
	messages := messaging.NewService(o.Settings, o.Sender, uploads, config.NewEnvFile(cfg.EnvFile), cfg.PublicBaseURL, o.Log)
	dashboard := admin.NewService(admin.Sources{
		Services:  services,
		Employees: employees,
		Users:     authSvc,
		Tasks:     tasks,
		Contacts:  contacts,
		Actions:   actions,
	}, o.Log)

	sessions := session.NewManager(jwt.New(cfg.SessionSecret, cfg.SessionTTL), cfg.CookieSecure)

	r := gin.New()
	r.MaxMultipartMemory = maxUploadMemory
	if err := web.Install(r, uploads.URL); err != nil {
		return nil, err
	}
	r.Use(middleware.RequestLogger(o.Log))
	r.Use(middleware.LoadIdentity(sessions))
	r.Static("/static", cfg.StaticDir)

	// webhooks sit outside the CSRF-protected page group
	hooks := r.Group("/hooks", middleware.CORS(cfg.CORSAllowedOrigins), middleware.WebhookToken(o.Settings.WebhookToken, o.Log))
	remoteaction.NewHandler(actions, o.Log).RegisterWebhook(hooks)

	pages := r.Group("/")
	if cfg.CSRFEnabled {
		pages.Use(middleware.CSRF([]byte(cfg.CSRFKey), cfg.CookieSecure, o.Log, "/hooks/"))
	}

	site.NewHandler(o.Settings, services, employees, tasks, o.Log).RegisterRoutes(pages)
	contact.NewHandler(contacts, o.Log).RegisterRoutes(pages)
	authHandler := auth.NewHandler(authSvc, sessions, employees, o.Log)
	authHandler.RegisterRoutes(pages)

	taskHandler := task.NewHandler(tasks, employees, o.Log)
	my := pages.Group("/my", middleware.RequireEmployeeOrAdmin())
	taskHandler.RegisterEmployeeRoutes(my)

	adm := pages.Group("/admin", middleware.RequireAdmin())
	admin.NewHandler(dashboard, authSvc, o.Log).RegisterRoutes(adm)
	catalog.NewHandler(services, o.Log).RegisterAdminRoutes(adm)
	staff.NewHandler(employees, o.Log).RegisterAdminRoutes(adm)
	authHandler.RegisterAdminRoutes(adm)
	taskHandler.RegisterAdminRoutes(adm)
	messaging.NewHandler(messages, o.Log).RegisterAdminRoutes(adm)
	remoteaction.NewHandler(actions, o.Log).RegisterAdminRoutes(adm)

	r.NoRoute(func(c *gin.Context) {
		web.Render(c, http.StatusNotFound, "error.html", gin.H{
			"Title":   "Not found",
			"Heading": "Page not found",
			"Detail":  "The page you are looking for does not exist.",
		})
	})
	return r, nil
}

// Serve runs h on addr until ctx is cancelled, then drains in-flight requests.
func Serve(ctx context.Context, addr string, h http.Handler, log logging.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kinetsulist/kinetsulist-backend/internal/admin"
	"github.com/kinetsulist/kinetsulist-backend/internal/catalog"
	"github.com/kinetsulist/kinetsulist-backend/internal/config"
	"github.com/kinetsulist/kinetsulist-backend/internal/hiddengem"
	"github.com/kinetsulist/kinetsulist-backend/internal/logging"
	"github.com/kinetsulist/kinetsulist-backend/internal/metrics"
	"github.com/kinetsulist/kinetsulist-backend/internal/mylist"
	"github.com/kinetsulist/kinetsulist-backend/internal/recommendation"
	"github.com/kinetsulist/kinetsulist-backend/internal/web"
)

const serviceName = "kinetsulist-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(serviceName, cfg.Logging.Level, cfg.Logging.Format, os.Stdout)

	cat, err := catalog.Load(context.Background(), cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to load models and datasets")
	}

	app, err := newApp(cfg, cat, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build server")
	}

	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("listening")
		if err := app.Listen(cfg.Server.Addr); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.WithError(err).Error("shutdown did not complete")
	}
}

// newApp registers middleware and every handler on a fresh Fiber app.
func newApp(cfg *config.Config, cat *catalog.Catalog, log *logrus.Entry) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:               "KinetsuList API",
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})
	app.Use(fiberrecover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	setupCORS(app)
	app.Use(logging.Middleware(log))
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	d := cfg.Data
	pages, err := web.NewHandler(web.Options{
		TemplatesDir: d.Path(d.TemplatesDir),
		StaticDir:    d.Path(d.StaticDir),
		AssetFile:    d.Path(d.AssetVersionFilePath),
		Version:      cfg.Server.Version,
	})
	if err != nil {
		return nil, err
	}
	pages.RegisterPublicRoutes(app)

	rc := cfg.Recommend
	placeholder := cfg.Images.PlaceholderURL

	recommendationHandler := recommendation.NewHandler(
		recommendation.NewService(cat, recommendation.Options{LikeThreshold: rc.LikeThreshold, Placeholder: placeholder}),
		rc.DefaultUserID, rc.DefaultLimit,
	)
	recommendationHandler.RegisterPublicRoutes(app)

	hiddenGemHandler := hiddengem.NewHandler(
		hiddengem.NewService(cat, hiddengem.Options{Cluster: rc.HiddenGemCluster, Placeholder: placeholder}),
		rc.HiddenGemLimit,
	)
	hiddenGemHandler.RegisterPublicRoutes(app)

	myListHandler := mylist.NewHandler(mylist.NewService(cat, placeholder), rc.DefaultUserID, rc.ListLimit)
	myListHandler.RegisterPublicRoutes(app)

	adminHandler := admin.NewHandler(
		admin.NewService(cat, admin.Options{RatingThreshold: rc.RecommendRatingThreshold, FallbackImage: cfg.Images.FallbackPath}),
		cfg.Admin.JWTSecret,
	)
	adminHandler.RegisterProtectedRoutes(app)

	return app, nil
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

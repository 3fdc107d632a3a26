package router

import (
	authsvc "energy-market-backend/internal/application/auth"
	offersvc "energy-market-backend/internal/application/offers"
	"energy-market-backend/internal/config"
	authhandler "energy-market-backend/internal/interfaces/handlers/auth"
	healthhandler "energy-market-backend/internal/interfaces/handlers/health"
	offerhandler "energy-market-backend/internal/interfaces/handlers/offers"
	"energy-market-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Deps are the process-wide handles the routes are built on. Rdb is optional.
type Deps struct {
	DB     *gorm.DB
	Rdb    *redis.Client
	Offers *offersvc.Service
}

// NewOffersService builds the offer service with the Redis leaderboard cache
// when a client is configured.
func NewOffersService(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *offersvc.Service {
	svc := &offersvc.Service{DB: db}
	if rdb != nil {
		svc.Cache = &offersvc.LeaderboardCache{Rdb: rdb, TTL: cfg.LeaderboardCacheTTL}
	}
	return svc
}

// CreateApp builds the Fiber app with global middleware and all routes.
func CreateApp(cfg *config.Config, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.HealthMarker(deps.Rdb))
	app.Use(middleware.Session(sessionCfg, deps.Rdb))

	hh := &healthhandler.Handlers{
		Rdb:            deps.Rdb,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	if deps.DB != nil {
		hh.DB = &gormDBPinger{db: deps.DB}
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/health/reset", hh.Reset)

	offers := deps.Offers
	if offers == nil {
		offers = NewOffersService(cfg, deps.DB, deps.Rdb)
	}
	oh := &offerhandler.Handlers{Service: offers}
	ah := &authhandler.Handlers{
		Service: &authsvc.Service{DB: deps.DB},
		Rdb:     deps.Rdb,
		Config:  sessionCfg,
	}

	api := app.Group("/api")
	api.Get("/energy-offers", oh.ListOffers)
	api.Get("/energy-offers/:offerId", oh.GetOffer)
	api.Get("/producers/:producer/offers", oh.ProducerOffers)
	api.Post("/list-energy", oh.ListEnergy)
	api.Post("/purchase-energy", oh.PurchaseEnergy)
	api.Get("/leaderboard", oh.Leaderboard)

	api.Post("/register", ah.Register)
	api.Post("/login", ah.Login)
	api.Get("/me", middleware.RequireAuth(), ah.Me)
	api.Post("/logout", ah.Logout)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	})
	return app
}

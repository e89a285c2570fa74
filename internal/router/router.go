package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-vaccinations/docs"
	mem "pet-vaccinations/internal/adapters/storage/memory"
	pg "pet-vaccinations/internal/adapters/storage/postgres"
	"pet-vaccinations/internal/domain/health"
	"pet-vaccinations/internal/domain/notifications"
	"pet-vaccinations/internal/domain/pets"
	"pet-vaccinations/internal/domain/vaccinations"
	"pet-vaccinations/internal/middleware"
	"pet-vaccinations/internal/platform/logger"
	"pet-vaccinations/internal/platform/metrics"
	"pet-vaccinations/internal/platform/taskqueue"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: si no viene, broker in-memory (un solo proceso).
	Broker taskqueue.Broker

	Logger  logger.Logger
	Metrics *metrics.Metrics

	Location         *time.Location
	ExpiringSoonDays int
}

// App es el router más los services que también necesitan el worker y el scheduler.
type App struct {
	Handler http.Handler

	Pets            *pets.Service
	Vaccinations    *vaccinations.Service
	VaccinationRepo vaccinations.Repository
	Broker          taskqueue.Broker
}

func NewRouter(opts Options) http.Handler {
	return Build(opts).Handler
}

func Build(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Broker == nil {
		opts.Broker = taskqueue.NewMemoryBroker()
	}

	var (
		petRepo pets.Repository
		recRepo vaccinations.Repository
		storage health.Pinger
	)
	if opts.DB != nil {
		petRepo = pg.NewPetsRepo(opts.DB)
		recRepo = pg.NewVaccinationsRepo(opts.DB)
		storage = pg.NewPinger(opts.DB)
	} else {
		store := mem.NewStore()
		petRepo = mem.NewPetRepo(store)
		recRepo = mem.NewVaccinationRepo(store)
		storage = store
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	vaccSvc := vaccinations.NewService(recRepo, petsSvc, vaccinations.Options{
		Location:         opts.Location,
		ExpiringSoonDays: opts.ExpiringSoonDays,
		Notifier:         notifications.NewNotifier(opts.Broker),
		Logger:           opts.Logger,
		Metrics:          opts.Metrics,
	})
	checker := health.NewChecker(storage, opts.Broker, opts.Broker)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(opts.Logger, opts.Metrics))
	r.Use(middleware.Recover(opts.Logger))

	r.Get("/up", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo
	r.Route("/api/v1", func(api chi.Router) {
		pets.RegisterRoutes(api, petsSvc, vaccSvc)
		vaccinations.RegisterRoutes(api, vaccSvc)
		health.RegisterRoutes(api, checker)
	})

	return &App{
		Handler:         r,
		Pets:            petsSvc,
		Vaccinations:    vaccSvc,
		VaccinationRepo: recRepo,
		Broker:          opts.Broker,
	}
}

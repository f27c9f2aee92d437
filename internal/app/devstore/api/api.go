// GET    /health                  # Состояние сервера (публичный)
// POST   /auth/v1/signup          # Регистрация (apikey)
// POST   /auth/v1/token           # Вход и обновление сессии (apikey)
// POST   /auth/v1/logout          # Выход (apikey + bearer)
// GET    /rest/v1/{table}         # Выборка строк (apikey + bearer)
// POST   /rest/v1/{table}         # Вставка (apikey + bearer)
// PATCH  /rest/v1/{table}         # Изменение по фильтру (apikey + bearer)
// DELETE /rest/v1/{table}         # Удаление по фильтру (apikey + bearer)
// GET    /metrics                 # Метрики prometheus

package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"

	"pettrack/internal/app/devstore/account"
	accountAPI "pettrack/internal/app/devstore/api/http/account"
	healthAPI "pettrack/internal/app/devstore/api/http/health"
	"pettrack/internal/app/devstore/api/http/middleware"
	"pettrack/internal/app/devstore/api/http/middleware/apikey"
	"pettrack/internal/app/devstore/api/http/middleware/auth"
	"pettrack/internal/app/devstore/api/http/middleware/logger"
	"pettrack/internal/app/devstore/api/http/middleware/metrics"
	restAPI "pettrack/internal/app/devstore/api/http/rest"
	"pettrack/internal/app/devstore/tables"
)

type Handlers struct {
	Health  *healthAPI.Handler
	Account *accountAPI.Handler
	Rest    *restAPI.Handler
}

// Deps зависимости API
type Deps struct {
	DB       *tables.DB
	Accounts *account.Service
	AnonKey  string
	// Registry nil отключает /metrics
	Registry *prometheus.Registry
}

// New создает *chi.Mux со всеми операциями через huma.Register
func New(deps Deps, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Pettrack devstore", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
	}

	API := humachi.New(mux, config)

	h := handlers(deps, log)
	h.Health.SetupRoutes(API)
	h.Account.SetupRoutes(API)
	h.Rest.SetupRoutes(API)

	if deps.Registry != nil {
		mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	return mux
}

func handlers(deps Deps, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	keyMW := apikey.New(deps.AnonKey, log)
	authMW := auth.New(deps.Accounts, log)
	middlewares := middleware.NewContainer()

	var metricsMW func(huma.Context, func(huma.Context))
	if deps.Registry != nil {
		metricsMW = metrics.New(deps.Registry).Middleware()
	}

	middlewares.Add(metricsMW, loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(deps.DB, tableNames(), log, middlewares.GetAllAndClear())

	middlewares.Add(metricsMW, loggerMW.Middleware(), keyMW.Middleware())
	public := middlewares.GetAllAndClear()
	middlewares.Add(metricsMW, loggerMW.Middleware(), keyMW.Middleware(), authMW.Middleware())
	private := middlewares.GetAllAndClear()
	accountHandler := accountAPI.NewHandler(deps.Accounts, log, public, private)

	middlewares.Add(metricsMW, loggerMW.Middleware(), keyMW.Middleware(), authMW.Middleware())
	restHandler := restAPI.NewHandler(deps.DB, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:  healthHandler,
		Account: accountHandler,
		Rest:    restHandler,
	}
}

func tableNames() []string {
	schemas := tables.Schemas()
	names := make([]string, 0, len(schemas))
	for _, s := range schemas {
		names = append(names, s.Name)
	}
	return names
}

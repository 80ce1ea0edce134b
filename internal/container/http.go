package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/puzzle-link/internal/handlers"
	"github.com/serroba/puzzle-link/internal/health"
	"github.com/serroba/puzzle-link/internal/link"
	"github.com/serroba/puzzle-link/internal/middleware"
	"go.uber.org/zap"
)

// HTTPPackage provides the router and the huma API with every route registered.
// Invoking huma.API is what registers the routes.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Use(middleware.CORS)

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)

		api := humachi.New(router, huma.DefaultConfig("Puzzle Link", "1.0.0"))
		api.UseMiddleware(middleware.RequestLogger(logger))

		handlers.RegisterRoutes(api, handlers.NewLinkHandler(do.MustInvoke[*link.Service](i), logger))
		health.RegisterRoutes(api, do.MustInvoke[*health.Handler](i))

		return api, nil
	})
}

package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/treasuretrove/ledger/pkg/app"
	"github.com/treasuretrove/ledger/pkg/session"
	"github.com/treasuretrove/ledger/services/inventory/application/handlers"
	appsvcs "github.com/treasuretrove/ledger/services/inventory/application/services"
)

// InventoryRoutes registers inventory endpoints on the provided chi router.
func InventoryRoutes(r chi.Router, a *app.Application, svcs *appsvcs.Services) {
	r.Group(func(r chi.Router) {
		if a.SessionStore != nil {
			r.Use(session.Middleware(a.SessionStore, a.Logger))
		}

		r.Get("/form", handlers.NewGetFormHandler(svcs).Execute)
		r.Post("/submissions", handlers.NewPostSubmissionHandler(svcs, a.SessionStore, a.Logger).Execute)

		r.Route("/containers", func(r chi.Router) {
			r.Get("/", handlers.NewGetContainersHandler(svcs).Execute)
			r.Post("/{id}/label", handlers.NewPostContainerLabelHandler(svcs).Execute)
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", handlers.NewGetItemsHandler(svcs).Execute)
			r.Get("/export", handlers.NewGetExportHandler(svcs).Execute)
		})
	})
}

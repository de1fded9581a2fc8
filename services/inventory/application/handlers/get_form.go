package handlers

import (
	"net/http"

	"github.com/treasuretrove/ledger/pkg/errhttp"
	"github.com/treasuretrove/ledger/pkg/httpx"
	"github.com/treasuretrove/ledger/pkg/session"
	appsvcs "github.com/treasuretrove/ledger/services/inventory/application/services"
)

// FormResponse carries what the submission form needs to render.
type FormResponse struct {
	Containers []ContainerResponse  `json:"containers"`
	Defaults   session.FormDefaults `json:"defaults"`
} // @name FormResponse

// GetFormHandler handles GET /form requests.
type GetFormHandler struct {
	svc *appsvcs.Services
}

func NewGetFormHandler(svc *appsvcs.Services) *GetFormHandler {
	return &GetFormHandler{svc: svc}
}

// Execute returns the container choices plus the defaults remembered by
// session.Middleware.
//
//	@Summary	Submission form data
//	@Tags		submissions
//	@Produce	json
//	@Success	200	{object}	FormResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/form [get]
func (h *GetFormHandler) Execute(w http.ResponseWriter, r *http.Request) {
	containers, err := h.svc.Inventory.ListContainers(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, FormResponse{
		Containers: toContainerResponses(containers),
		Defaults:   session.DefaultsFromCtx(r.Context()),
	})
}

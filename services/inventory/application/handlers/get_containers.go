package handlers

import (
	"net/http"

	"github.com/treasuretrove/ledger/pkg/errhttp"
	"github.com/treasuretrove/ledger/pkg/httpx"
	appsvcs "github.com/treasuretrove/ledger/services/inventory/application/services"
)

// GetContainersHandler handles GET /containers requests.
type GetContainersHandler struct {
	svc *appsvcs.Services
}

func NewGetContainersHandler(svc *appsvcs.Services) *GetContainersHandler {
	return &GetContainersHandler{svc: svc}
}

// Execute lists every container.
//
//	@Summary	List containers
//	@Tags		containers
//	@Produce	json
//	@Success	200	{object}	ContainersResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/containers [get]
func (h *GetContainersHandler) Execute(w http.ResponseWriter, r *http.Request) {
	containers, err := h.svc.Inventory.ListContainers(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ContainersResponse{Containers: toContainerResponses(containers)})
}

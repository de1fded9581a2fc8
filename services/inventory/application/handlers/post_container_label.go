package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/treasuretrove/ledger/pkg/errhttp"
	"github.com/treasuretrove/ledger/pkg/httpx"
	appsvcs "github.com/treasuretrove/ledger/services/inventory/application/services"
	"github.com/treasuretrove/ledger/services/inventory/domain"
)

// PostContainerLabelHandler handles POST /containers/{id}/label requests.
type PostContainerLabelHandler struct {
	svc *appsvcs.Services
}

func NewPostContainerLabelHandler(svc *appsvcs.Services) *PostContainerLabelHandler {
	return &PostContainerLabelHandler{svc: svc}
}

// Execute reprints a container's label. 202 once the label is handed off.
//
//	@Summary	Reprint a container label
//	@Tags		containers
//	@Produce	json
//	@Param		id	path		string	true	"Container ID"	format(uuid)
//	@Success	202	{object}	LabelResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	502	{object}	ErrorResponse
//	@Router		/containers/{id}/label [post]
func (h *PostContainerLabelHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, domain.ErrContainerNotFound)
		return
	}

	label, err := h.svc.Inventory.PrintContainerLabel(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, LabelResponse{Label: label})
}

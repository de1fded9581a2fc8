package handlers

import (
	"bytes"
	"net/http"

	"github.com/treasuretrove/ledger/pkg/errhttp"
	"github.com/treasuretrove/ledger/pkg/httpx"
	appsvcs "github.com/treasuretrove/ledger/services/inventory/application/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetExportHandler handles GET /items/export requests.
type GetExportHandler struct {
	svc *appsvcs.Services
}

func NewGetExportHandler(svc *appsvcs.Services) *GetExportHandler {
	return &GetExportHandler{svc: svc}
}

// Execute streams the whole inventory as inventory.xlsx. The workbook is
// built in memory so a failure still produces a JSON error.
//
//	@Summary	Export the inventory
//	@Tags		items
//	@Produce	application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Success	200	{file}		binary
//	@Failure	503	{object}	ErrorResponse
//	@Router		/items/export [get]
func (h *GetExportHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := h.svc.Inventory.Export(r.Context(), &buf); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.Attachment(w, xlsxContentType, "inventory.xlsx", &buf)
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/treasuretrove/ledger/pkg/errhttp"
	"github.com/treasuretrove/ledger/pkg/httpx"
	pkgvalidator "github.com/treasuretrove/ledger/pkg/validator"
	appsvcs "github.com/treasuretrove/ledger/services/inventory/application/services"
	"github.com/treasuretrove/ledger/services/inventory/domain/repositories"
)

const defaultPageSize = 50

// ListItemsResponse is one page of the inventory in display order.
type ListItemsResponse struct {
	Items  []ItemResponse `json:"items"`
	Total  int            `json:"total"  example:"42"`
	Limit  int            `json:"limit"  example:"50"`
	Offset int            `json:"offset" example:"0"`
} // @name ListItemsResponse

// GetItemsHandler handles GET /items requests.
type GetItemsHandler struct {
	svc *appsvcs.Services
}

func NewGetItemsHandler(svc *appsvcs.Services) *GetItemsHandler {
	return &GetItemsHandler{svc: svc}
}

type listItemsQuery struct {
	Limit  int `json:"limit"  validate:"min=1,max=500"`
	Offset int `json:"offset" validate:"min=0"`
}

// Execute accepts ?limit (1..500, default 50) and ?offset (>= 0).
//
//	@Summary	List items
//	@Tags		items
//	@Produce	json
//	@Param		limit	query		int	false	"Page size"	minimum(1)	maximum(500)	default(50)
//	@Param		offset	query		int	false	"Items to skip"	minimum(0)
//	@Success	200		{object}	ListItemsResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	503		{object}	ErrorResponse
//	@Router		/items [get]
func (h *GetItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	q, err := parsePage(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := pkgvalidator.Validate(&q); err != nil {
		pkgvalidator.WriteValidationError(w, http.StatusBadRequest, err)
		return
	}
	opts := repositories.QueryOpts{Limit: q.Limit, Offset: q.Offset}

	entries, total, err := h.svc.Inventory.ListItems(r.Context(), opts)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	items := make([]ItemResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toItemResponse(e.Item, e.ContainerName))
	}
	httpx.JSON(w, http.StatusOK, ListItemsResponse{
		Items:  items,
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

func parsePage(r *http.Request) (listItemsQuery, error) {
	q := listItemsQuery{Limit: defaultPageSize}
	params := r.URL.Query()
	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, errors.New("limit must be an integer")
		}
		q.Limit = n
	}
	if v := params.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, errors.New("offset must be an integer")
		}
		q.Offset = n
	}
	return q, nil
}

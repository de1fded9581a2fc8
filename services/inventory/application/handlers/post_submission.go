package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/treasuretrove/ledger/pkg/errhttp"
	"github.com/treasuretrove/ledger/pkg/httpx"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/pkg/session"
	pkgvalidator "github.com/treasuretrove/ledger/pkg/validator"
	appsvcs "github.com/treasuretrove/ledger/services/inventory/application/services"
	"github.com/treasuretrove/ledger/services/inventory/domain"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// CreateSubmissionRequest is the request body for POST /submissions.
type CreateSubmissionRequest struct {
	Text               string  `json:"text"             validate:"required,notblank,max=20000" example:"3 boxes of nails\nhammer"`
	ContainerSelection *string `json:"container_select" validate:"omitempty,max=120"           example:"0b7d7c9e-3f5a-4c1e-9a57-2f0c1d6b8e11"`
	ContainerNewName   *string `json:"container_new"    validate:"omitempty,max=480"           example:"Loft box"`
	Location           *string `json:"location"         validate:"omitempty,max=500"           example:"loft, left of the hatch"`
} // @name CreateSubmissionRequest

// SubmissionResponse is returned for recorded and for unsaved submissions.
type SubmissionResponse struct {
	SubmissionID uuid.UUID          `json:"submission_id"       example:"9a1b2c3d-4e5f-4a6b-8c7d-0e1f2a3b4c5d"`
	Persisted    bool               `json:"persisted"           example:"true"`
	Container    *ContainerResponse `json:"container,omitempty"`
	Items        []ItemResponse     `json:"items"`
	Label        models.Label       `json:"label"`
	Extraction   string             `json:"extraction"          example:"fallback" enums:"structured,fallback"`
	Warnings     []string           `json:"warnings"`
	Error        string             `json:"error,omitempty"     example:"inventory not saved"`
} // @name SubmissionResponse

// PostSubmissionHandler handles POST /submissions requests.
type PostSubmissionHandler struct {
	svc   *appsvcs.Services
	store sessions.Store
	log   logger.Logger
}

// NewPostSubmissionHandler returns a handler; store may be nil to skip
// remembering form defaults.
func NewPostSubmissionHandler(svc *appsvcs.Services, store sessions.Store, log logger.Logger) *PostSubmissionHandler {
	return &PostSubmissionHandler{svc: svc, store: store, log: log}
}

// Execute records a free-text submission. 201 when saved, 503 with the
// unsaved items when storage fails.
//
//	@Summary		Record a submission
//	@Description	Extracts items from free text, files them into a container and prints a label
//	@Tags			submissions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateSubmissionRequest	true	"Free-text submission"
//	@Success		201		{object}	SubmissionResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		503		{object}	SubmissionResponse
//	@Router			/submissions [post]
func (h *PostSubmissionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateSubmissionRequest](w, r)
	if !ok {
		return
	}

	res, err := h.svc.Submission.Submit(r.Context(), models.Submission{
		RawText:            req.Text,
		ContainerSelection: req.ContainerSelection,
		ContainerNewName:   req.ContainerNewName,
		Location:           req.Location,
	})
	if err != nil && !errors.Is(err, domain.ErrStorage) {
		errhttp.WriteError(w, err)
		return
	}

	body := toSubmissionResponse(res)
	if err != nil {
		body.Error = err.Error()
		httpx.JSON(w, errhttp.StatusFor(err), body)
		return
	}

	h.remember(w, r, res)
	httpx.JSON(w, http.StatusCreated, body)
}

func (h *PostSubmissionHandler) remember(w http.ResponseWriter, r *http.Request, res *appsvcs.SubmissionResult) {
	if h.store == nil {
		return
	}
	var d session.FormDefaults
	if res.Container != nil {
		d.ContainerID = res.Container.ID.String()
	}
	if len(res.Items) > 0 && res.Items[0].LocationHint != nil {
		d.Location = *res.Items[0].LocationHint
	}
	if err := session.Remember(w, r, h.store, d); err != nil {
		h.log.WarnContext(r.Context(), "form defaults not saved", "error", err)
	}
}

func toSubmissionResponse(res *appsvcs.SubmissionResult) SubmissionResponse {
	items := make([]ItemResponse, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, toItemResponse(it, nil))
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return SubmissionResponse{
		SubmissionID: res.SubmissionID,
		Persisted:    res.Persisted,
		Container:    toContainerResponse(res.Container),
		Items:        items,
		Label:        res.Label,
		Extraction:   res.Extraction,
		Warnings:     warnings,
	}
}

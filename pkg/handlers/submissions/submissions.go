package submissions

import (
	"context"
	"net/http"

	"github.com/chris/retailer-services/pkg/api"
	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/mapping"
	"github.com/chris/retailer-services/pkg/middleware"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/respond"
	"github.com/chris/retailer-services/pkg/submission"
)

// Workflow is the submission workflow the handlers drive.
type Workflow interface {
	Create(ctx context.Context, in submission.CreateInput) (*submission.Result, error)
	RetryPayment(ctx context.Context, retailerID, id string, method models.PaymentMethod) (*submission.Result, error)
	GetForRetailer(ctx context.Context, retailerID, id string) (*models.Submission, error)
	ListForRetailer(ctx context.Context, retailerID string) ([]models.Submission, error)
	ReUpload(ctx context.Context, retailerID, id string, files []models.FileRef) (*models.Submission, error)
	Get(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context) ([]models.Submission, error)
	UpdateStatus(ctx context.Context, adminID, id string, to models.ReviewStatus, remarks string) (*models.Submission, error)
}

// SubmissionsHandler holds the dependencies for the retailer and admin
// submission handlers.
type SubmissionsHandler struct {
	Workflow Workflow
	KeyID    string
}

// NewSubmissionsHandler creates a new SubmissionsHandler.
func NewSubmissionsHandler(workflow Workflow, keyID string) *SubmissionsHandler {
	return &SubmissionsHandler{Workflow: workflow, KeyID: keyID}
}

func principal(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthorized("authentication required"))
		return "", false
	}
	return claims.UserID, true
}

// writeResult answers 201 for a stored submission, 402 when it was stored but
// the payment did not go through.
func (h *SubmissionsHandler) writeResult(w http.ResponseWriter, status int, res *submission.Result) {
	if res.PaymentFailed {
		status = http.StatusPaymentRequired
	}
	respond.JSON(w, status, mapping.ToApiSubmissionResult(res, h.KeyID))
}

// CreateSubmission stores a new submission and pays for it.
func (h *SubmissionsHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	retailerID, ok := principal(w, r)
	if !ok {
		return
	}

	var req api.NewSubmission
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := h.Workflow.Create(r.Context(), submission.CreateInput{
		RetailerID:    retailerID,
		OptionID:      req.OptionId,
		Data:          req.Data,
		Files:         mapping.ToDomainFiles(req.Files),
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	h.writeResult(w, http.StatusCreated, res)
}

// ListSubmissions returns the caller's submissions.
func (h *SubmissionsHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	retailerID, ok := principal(w, r)
	if !ok {
		return
	}

	subs, err := h.Workflow.ListForRetailer(r.Context(), retailerID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiSubmissions(subs))
}

// GetSubmission returns one of the caller's submissions.
func (h *SubmissionsHandler) GetSubmission(w http.ResponseWriter, r *http.Request, id string) {
	retailerID, ok := principal(w, r)
	if !ok {
		return
	}

	sub, err := h.Workflow.GetForRetailer(r.Context(), retailerID, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiSubmission(sub))
}

// RetryPayment pays a submission whose payment failed or is still pending.
func (h *SubmissionsHandler) RetryPayment(w http.ResponseWriter, r *http.Request, id string) {
	retailerID, ok := principal(w, r)
	if !ok {
		return
	}

	var req api.RetryPaymentRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := h.Workflow.RetryPayment(r.Context(), retailerID, id, models.PaymentMethod(req.PaymentMethod))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	h.writeResult(w, http.StatusOK, res)
}

// ReUploadDocuments answers a document request with new files.
func (h *SubmissionsHandler) ReUploadDocuments(w http.ResponseWriter, r *http.Request, id string) {
	retailerID, ok := principal(w, r)
	if !ok {
		return
	}

	var req api.ReUploadRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	sub, err := h.Workflow.ReUpload(r.Context(), retailerID, id, mapping.ToDomainFiles(req.Files))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiSubmission(sub))
}

// AdminListSubmissions returns every submission.
func (h *SubmissionsHandler) AdminListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Workflow.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiSubmissions(subs))
}

// AdminGetSubmission returns any submission.
func (h *SubmissionsHandler) AdminGetSubmission(w http.ResponseWriter, r *http.Request, id string) {
	sub, err := h.Workflow.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiSubmission(sub))
}

// UpdateStatus applies an admin review decision.
func (h *SubmissionsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, id string) {
	adminID, ok := principal(w, r)
	if !ok {
		return
	}

	var req api.StatusUpdate
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	sub, err := h.Workflow.UpdateStatus(r.Context(), adminID, id, models.ReviewStatus(req.Status), req.Remarks)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiSubmission(sub))
}

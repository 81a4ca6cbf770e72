package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/internhub/internhub/pkg/models"
	"github.com/internhub/internhub/pkg/repository"
)

type ApplicationsHandler struct {
	applications repository.ApplicationRepo
}

func NewApplicationsHandler(ar repository.ApplicationRepo) *ApplicationsHandler {
	return &ApplicationsHandler{applications: ar}
}

type applyRequest struct {
	CoverLetter *string `json:"cover_letter"`
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// Apply submits a student's application to one internship.
func (h *ApplicationsHandler) Apply(w http.ResponseWriter, r *http.Request, user *models.User) {
	internshipID, ok := pathID(r)
	if !ok {
		validationFailed(w, "invalid internship id")
		return
	}

	var req applyRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			validationFailed(w, "invalid request")
			return
		}
	}

	app, err := h.applications.Apply(r.Context(), user.ID, internshipID, req.CoverLetter)
	switch err {
	case nil:
	case repository.ErrNotFound:
		notFound(w, "internship not found")
		return
	case repository.ErrDuplicate:
		conflict(w, "already applied")
		return
	default:
		internalError(w, err)
		return
	}

	writeJSON(w, app, http.StatusCreated)
}

// ListMine lists the calling student's applications; include=internship
// expands the target posting.
func (h *ApplicationsHandler) ListMine(w http.ResponseWriter, r *http.Request, user *models.User) {
	out, err := h.applications.ListApplicationsByUser(r.Context(), user.ID, parseListOptions(r))
	if err != nil {
		internalError(w, err)
		return
	}
	if out == nil {
		out = []models.Application{}
	}

	writeJSON(w, out, http.StatusOK)
}

// ListForInternship lists an internship's applications for an admin;
// include=user expands the applicant.
func (h *ApplicationsHandler) ListForInternship(w http.ResponseWriter, r *http.Request, user *models.User) {
	internshipID, ok := pathID(r)
	if !ok {
		validationFailed(w, "invalid internship id")
		return
	}

	out, err := h.applications.ListApplicationsByInternship(r.Context(), internshipID, parseListOptions(r))
	if err != nil {
		internalError(w, err)
		return
	}
	if out == nil {
		out = []models.Application{}
	}

	writeJSON(w, out, http.StatusOK)
}

// UpdateStatus overwrites an application's status; any recognized status to
// any other is permitted.
func (h *ApplicationsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, ok := pathID(r)
	if !ok {
		validationFailed(w, "invalid application id")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		validationFailed(w, "invalid request")
		return
	}
	if err := validatePayload(r.Context(), applicationStatusSchema, body); err != nil {
		validationFailed(w, err.Error())
		return
	}

	var req statusUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		validationFailed(w, "invalid request")
		return
	}

	app, err := h.applications.UpdateApplicationStatus(r.Context(), id, models.Status(req.Status))
	switch err {
	case nil:
	case repository.ErrNotFound:
		notFound(w, "application not found")
		return
	default:
		internalError(w, err)
		return
	}

	writeJSON(w, app, http.StatusOK)
}

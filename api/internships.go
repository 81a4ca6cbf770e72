package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/internhub/internhub/pkg/models"
	"github.com/internhub/internhub/pkg/repository"
)

type InternshipsHandler struct {
	internships repository.InternshipRepo
}

func NewInternshipsHandler(ir repository.InternshipRepo) *InternshipsHandler {
	return &InternshipsHandler{internships: ir}
}

type internshipCreateRequest struct {
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Company             string    `json:"company"`
	Location            *string   `json:"location"`
	ApplicationDeadline time.Time `json:"application_deadline"`
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

func (h *InternshipsHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.internships.ListInternships(r.Context(), parseListOptions(r))
	if err != nil {
		internalError(w, err)
		return
	}
	if out == nil {
		out = []models.Internship{}
	}

	writeJSON(w, out, http.StatusOK)
}

func (h *InternshipsHandler) ListMine(w http.ResponseWriter, r *http.Request, user *models.User) {
	out, err := h.internships.ListInternshipsByCreator(r.Context(), user.ID, parseListOptions(r))
	if err != nil {
		internalError(w, err)
		return
	}
	if out == nil {
		out = []models.Internship{}
	}

	writeJSON(w, out, http.StatusOK)
}

func (h *InternshipsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		validationFailed(w, "invalid internship id")
		return
	}

	in, err := h.internships.GetInternshipByID(r.Context(), id, parseListOptions(r))
	if err != nil {
		internalError(w, err)
		return
	}
	if in == nil {
		notFound(w, "internship not found")
		return
	}

	writeJSON(w, in, http.StatusOK)
}

func (h *InternshipsHandler) Create(w http.ResponseWriter, r *http.Request, user *models.User) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		validationFailed(w, "invalid request")
		return
	}
	if err := validatePayload(r.Context(), internshipCreateSchema, body); err != nil {
		validationFailed(w, err.Error())
		return
	}

	var req internshipCreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		validationFailed(w, "invalid request")
		return
	}

	in := &models.Internship{
		Title:               req.Title,
		Description:         req.Description,
		Company:             req.Company,
		Location:            req.Location,
		ApplicationDeadline: req.ApplicationDeadline,
		CreatedBy:           user.ID,
	}
	id, err := h.internships.CreateInternship(r.Context(), in)
	if err != nil {
		internalError(w, err)
		return
	}
	in.ID = id

	writeJSON(w, in, http.StatusCreated)
}

func (h *InternshipsHandler) Update(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, ok := pathID(r)
	if !ok {
		validationFailed(w, "invalid internship id")
		return
	}

	var upd models.InternshipUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		validationFailed(w, "invalid request")
		return
	}

	in, err := h.internships.UpdateInternship(r.Context(), id, upd, user.ID)
	switch err {
	case nil:
	case repository.ErrNotFound:
		notFound(w, "internship not found")
		return
	case repository.ErrNotOwner:
		forbidden(w, "you can only update your own internships")
		return
	default:
		internalError(w, err)
		return
	}

	writeJSON(w, in, http.StatusOK)
}

func (h *InternshipsHandler) Delete(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, ok := pathID(r)
	if !ok {
		validationFailed(w, "invalid internship id")
		return
	}

	err := h.internships.DeleteInternship(r.Context(), id, user.ID)
	switch err {
	case nil:
	case repository.ErrNotFound:
		notFound(w, "internship not found")
		return
	case repository.ErrNotOwner:
		forbidden(w, "you can only delete your own internships")
		return
	default:
		internalError(w, err)
		return
	}

	writeJSON(w, map[string]bool{"ok": true}, http.StatusOK)
}

package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	goahttp "goa.design/goa/v3/http"

	"robolab/internal/domain"
	"robolab/internal/repository"
	"robolab/internal/validation"
	apperrors "robolab/pkg/errors"
)

type handlers struct {
	svc Services
}

type okResponse struct {
	OK bool `json:"ok"`
}

type createdResponse struct {
	OK bool      `json:"ok"`
	ID uuid.UUID `json:"id"`
}

type dataResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type validationResponse struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors"`
}

type lookupView struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type inquiryDetailView struct {
	domain.Inquiry
	Parent  *parentView  `json:"parent,omitempty"`
	Partner *partnerView `json:"partner,omitempty"`
}

type parentView struct {
	NumKids         int          `json:"num_kids"`
	PrimaryAgeGroup string       `json:"primary_age_group"`
	AgeGroups       []lookupView `json:"age_groups"`
}

type partnerView struct {
	OrgName      string     `json:"org_name"`
	OrgType      lookupView `json:"org_type"`
	OrgTypeOther *string    `json:"org_type_other"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.svc.Health.Check(r.Context()))
}

func (h *handlers) submit(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := goahttp.RequestDecoder(r).Decode(&raw); err != nil || raw == nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, validationResponse{
			Errors: []string{"request body must be a JSON object"},
		})
		return
	}

	id, err := h.svc.Inquiries.Submit(r.Context(), raw)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, createdResponse{OK: true, ID: id})
}

func (h *handlers) ageGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.Inquiries.AgeGroups(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	data := make([]lookupView, len(groups))
	for i, g := range groups {
		data[i] = lookupView{Code: g.Code, Label: g.Label}
	}
	writeJSON(r.Context(), w, http.StatusOK, dataResponse{OK: true, Data: data})
}

func (h *handlers) orgTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.svc.Inquiries.OrgTypes(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	data := make([]lookupView, len(types))
	for i, t := range types {
		data[i] = lookupView{Code: t.Code, Label: t.Label}
	}
	writeJSON(r.Context(), w, http.StatusOK, dataResponse{OK: true, Data: data})
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	inquiries, err := h.svc.Admin.List(r.Context(), q.Get("status"), q.Get("q"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if inquiries == nil {
		inquiries = []domain.Inquiry{}
	}
	writeJSON(r.Context(), w, http.StatusOK, dataResponse{OK: true, Data: inquiries})
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request, id string) {
	detail, err := h.svc.Admin.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, dataResponse{OK: true, Data: detailView(detail)})
}

func (h *handlers) setStatus(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Status string `json:"status"`
	}
	if err := goahttp.RequestDecoder(r).Decode(&body); err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid_status"})
		return
	}
	if err := h.svc.Admin.SetStatus(r.Context(), id, body.Status); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, okResponse{OK: true})
}

func detailView(d *repository.InquiryDetail) *inquiryDetailView {
	view := &inquiryDetailView{Inquiry: d.Inquiry}
	if d.Parent != nil {
		pv := &parentView{NumKids: d.Parent.NumKids, AgeGroups: make([]lookupView, 0, len(d.AgeGroups))}
		for _, g := range d.AgeGroups {
			if g.ID == d.Parent.PrimaryAgeGroupID {
				pv.PrimaryAgeGroup = g.Code
			}
			pv.AgeGroups = append(pv.AgeGroups, lookupView{Code: g.Code, Label: g.Label})
		}
		view.Parent = pv
	}
	if d.Partner != nil {
		pv := &partnerView{OrgName: d.Partner.OrgName, OrgTypeOther: d.Partner.OrgTypeOther}
		if d.OrgType != nil {
			pv.OrgType = lookupView{Code: d.OrgType.Code, Label: d.OrgType.Label}
		}
		view.Partner = pv
	}
	return view
}

// writeError maps an application error onto its status and body. Server
// errors never expose internal detail.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeValidation:
		var failure *validation.Failure
		messages := []string{err.Error()}
		if errors.As(err, &failure) {
			messages = failure.Messages
		}
		writeJSON(ctx, w, http.StatusBadRequest, validationResponse{Errors: messages})
	case apperrors.ErrCodeInvalidStatus:
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid_status"})
	case apperrors.ErrCodeUnauthorized:
		writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case apperrors.ErrCodeNotFound:
		writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: "not_found"})
	default:
		log.Printf("[ERROR] %v", err)
		writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "server_error"})
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	enc := goahttp.ResponseEncoder(ctx, w)
	w.WriteHeader(status)
	if err := enc.Encode(v); err != nil {
		log.Printf("[ERROR] Failed to encode response: %v", err)
	}
}

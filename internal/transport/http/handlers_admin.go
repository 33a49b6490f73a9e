package httptransport

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"samajsetu/internal/admin"
	"samajsetu/internal/member"
	"samajsetu/internal/platform/middleware"
	dErrors "samajsetu/pkg/domain-errors"
	"samajsetu/pkg/httputil"
)

// AdminHandler serves the authenticated read API.
type AdminHandler struct {
	service *admin.Service
	logger  *slog.Logger
}

func NewAdminHandler(service *admin.Service, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Get("/members", h.HandleListMembers)
	r.Get("/members/{memberID}", h.HandleGetMember)
	r.Get("/samaj", h.HandleListSamaj)
	r.Get("/families/summary", h.HandleListFamilies)
	r.Get("/families/{familyID}/members", h.HandleFamilyMembers)
	r.Get("/export/csv", h.HandleExportCSV)
}

func (h *AdminHandler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	listings, err := h.service.ListMembers(r.Context(), filters)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]MemberSummaryResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toMemberSummary(l))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) HandleGetMember(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "memberID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid member id"))
		return
	}

	listing, err := h.service.GetMember(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toMemberDetail(listing))
}

func (h *AdminHandler) HandleListSamaj(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListSamajSummaries(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]SamajResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, toSamajResponse(s))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) HandleListFamilies(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListFamilySummaries(r.Context(), r.URL.Query().Get("samaj_name"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]FamilySummaryResponse, 0, len(summaries))
	for _, f := range summaries {
		out = append(out, toFamilySummary(f))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) HandleFamilyMembers(w http.ResponseWriter, r *http.Request) {
	familyID, err := strconv.ParseInt(chi.URLParam(r, "familyID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid family id"))
		return
	}

	listings, err := h.service.ListFamilyMembers(r.Context(), familyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]FamilyMemberResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toFamilyMember(l))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filters, err := parseFilters(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	filename, data, err := h.service.ExportCSV(ctx, filters)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "members exported",
		"request_id", middleware.GetRequestID(ctx),
		"admin", middleware.GetUsername(ctx),
		"bytes", len(data),
	)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func parseFilters(q url.Values) (member.Filters, error) {
	f := member.Filters{
		SamajName:  q.Get("samaj_name"),
		FamilyName: q.Get("family_name"),
		Name:       q.Get("name"),
		Role:       q.Get("role"),
		BloodGroup: q.Get("blood_group"),
		City:       q.Get("city"),
		Profession: q.Get("profession"),
	}

	var err error
	if f.AgeMin, err = intParam(q, "age_min"); err != nil {
		return f, err
	}
	if f.AgeMax, err = intParam(q, "age_max"); err != nil {
		return f, err
	}

	if raw := q.Get("is_family_head"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, dErrors.New(dErrors.CodeBadRequest, "invalid is_family_head filter")
		}
		f.IsFamilyHead = &v
	}

	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return f, dErrors.New(dErrors.CodeBadRequest, "invalid limit")
		}
		f.Limit = v
	}
	if raw := q.Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return f, dErrors.New(dErrors.CodeBadRequest, "invalid offset")
		}
		f.Offset = v
	}
	return f, nil
}

func intParam(q url.Values, key string) (*int, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid "+key+" filter")
	}
	return &v, nil
}

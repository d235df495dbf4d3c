package skill

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	requestutil "github.com/quickshift/quickshift/internal/platform/request"
	"github.com/quickshift/quickshift/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listSkills)
	router.Get("/{id}", handler.getSkill)
	router.Get("/by-slug/{slug}", handler.getSkillBySlug)
}

func (handler *Handler) listSkills(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListSkills(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) getSkill(writer http.ResponseWriter, request *http.Request) {
	idStr := requestutil.ID(request, "id")
	skillID, err := strconv.Atoi(idStr)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	skill, err := handler.service.GetSkill(request.Context(), skillID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, skill)
}

func (handler *Handler) getSkillBySlug(writer http.ResponseWriter, request *http.Request) {
	slug := chi.URLParam(request, "slug")

	skill, err := handler.service.GetSkillBySlug(request.Context(), slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, skill)
}

package handler

import (
	"errors"
	"fmt"
	"strings"

	"expertise-marketplace/internal/delivery/http/dto"
	"expertise-marketplace/internal/delivery/http/middleware"
	"expertise-marketplace/internal/pkg/response"
	"expertise-marketplace/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ExpertHandler struct {
	uc usecase.DirectoryUsecase
}

func NewExpertHandler(uc usecase.DirectoryUsecase) *ExpertHandler {
	return &ExpertHandler{uc: uc}
}

func (h *ExpertHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/experts")
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
	grp.Get("/search", h.Search)
	grp.Get("/match", h.Match)
	grp.Get("/:id", h.Get)
}

func (h *ExpertHandler) List(c fiber.Ctx) error {
	experts, err := h.uc.ListExperts(c.Context())
	if err != nil {
		return mapDirectoryError(err, "Failed to fetch experts")
	}
	return response.JSON(c, fiber.StatusOK, dto.ExpertListResponse{Experts: experts})
}

func (h *ExpertHandler) Search(c fiber.Ctx) error {
	q := c.Query("q")
	experts, err := h.uc.SearchExperts(c.Context(), q)
	if err != nil {
		return mapDirectoryError(err, "Failed to search experts")
	}
	return response.JSON(c, fiber.StatusOK, dto.ExpertSearchResponse{Query: q, Experts: experts})
}

func (h *ExpertHandler) Create(c fiber.Ctx) error {
	var req usecase.CreateExpertInput
	if err := bindJSON(c, &req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageInvalidBody, err)
	}

	created, err := h.uc.CreateExpert(c.Context(), req)
	if err != nil {
		return mapDirectoryError(err, "Failed to add expert")
	}

	return response.JSON(c, fiber.StatusCreated, dto.CreateExpertResponse{
		Success:  true,
		ExpertID: created.ID,
		Message:  fmt.Sprintf("Successfully added %s to the expert directory", created.Name),
	})
}

func (h *ExpertHandler) Get(c fiber.Ctx) error {
	e, err := h.uc.GetExpert(c.Context(), c.Params("id"))
	if err != nil {
		return mapDirectoryError(err, "Failed to fetch expert")
	}
	return response.JSON(c, fiber.StatusOK, dto.ExpertResponse{Expert: e})
}

// Match applies the directory filter server-side: category (with optional
// comma-separated keywords) ranks by keyword score, otherwise q filters text.
func (h *ExpertHandler) Match(c fiber.Ctx) error {
	res, err := h.uc.MatchExperts(c.Context(), usecase.MatchParams{
		Category: c.Query("category"),
		Keywords: splitList(c.Query("keywords")),
		Query:    c.Query("q"),
	})
	if err != nil {
		return mapDirectoryError(err, "Failed to match experts")
	}

	return response.JSON(c, fiber.StatusOK, dto.MatchResponse{
		Mode:     string(res.Selection.Mode()),
		Category: res.Category,
		Keywords: res.Selection.Keywords(),
		Query:    res.Selection.Query(),
		Experts:  dto.NewMatchedExperts(res.Matches),
	})
}

// bindJSON decodes the request body. A body sent without a Content-Type is
// read as JSON; any declared type goes through the normal binder.
func bindJSON(c fiber.Ctx, out any) error {
	if len(c.Request().Header.ContentType()) == 0 {
		return c.App().Config().JSONDecoder(c.Body(), out)
	}
	return c.Bind().Body(out)
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mapDirectoryError turns usecase errors into HTTP errors. Store failures get
// the operation's generic message; the cause is kept for the error log.
func mapDirectoryError(err error, storeMessage string) error {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		return middleware.NewAppError(fiber.StatusBadRequest, verr.Message, err)
	case errors.Is(err, usecase.ErrValidation):
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, usecase.ErrConflict.Error(), err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, usecase.ErrNotFound.Error(), err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, storeMessage, err)
	}
}

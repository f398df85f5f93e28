package handler

import (
	"expertise-marketplace/internal/delivery/http/dto"
	"expertise-marketplace/internal/pkg/response"
	"expertise-marketplace/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CategoryHandler struct {
	uc usecase.DirectoryUsecase
}

func NewCategoryHandler(uc usecase.DirectoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/categories", h.List)
}

func (h *CategoryHandler) List(c fiber.Ctx) error {
	return response.JSON(c, fiber.StatusOK, dto.CategoryListResponse{Categories: h.uc.ListCategories()})
}

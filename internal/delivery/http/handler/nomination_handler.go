package handler

import (
	"fmt"

	"expertise-marketplace/internal/delivery/http/dto"
	"expertise-marketplace/internal/delivery/http/middleware"
	"expertise-marketplace/internal/pkg/response"
	"expertise-marketplace/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type NominationHandler struct {
	uc usecase.DirectoryUsecase
}

func NewNominationHandler(uc usecase.DirectoryUsecase) *NominationHandler {
	return &NominationHandler{uc: uc}
}

func (h *NominationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/nominations", h.Submit)
}

func (h *NominationHandler) Submit(c fiber.Ctx) error {
	var req usecase.SubmitNominationInput
	if err := bindJSON(c, &req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageInvalidBody, err)
	}

	n, err := h.uc.SubmitNomination(c.Context(), req)
	if err != nil {
		return mapDirectoryError(err, "Failed to submit nominations")
	}

	return response.JSON(c, fiber.StatusCreated, dto.SubmitNominationResponse{
		Success:      true,
		NominationID: n.ID,
		Message:      fmt.Sprintf("Successfully submitted %d nomination(s)", len(n.Experts)),
	})
}

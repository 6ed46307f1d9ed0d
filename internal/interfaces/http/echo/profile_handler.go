package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/account-import/internal/application/account"
)

type ProfileHandler struct {
	useCase app.GetProfileByID
}

func NewProfileHandler(useCase app.GetProfileByID) *ProfileHandler {
	return &ProfileHandler{useCase: useCase}
}

func (h *ProfileHandler) GetProfileByID(c echo.Context) error {
	out, err := h.useCase.Execute(c.Request().Context(), app.GetProfileByIDInput{
		ID: c.Param("id"),
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidUserID) {
			return writeError(c, http.StatusBadRequest, "invalid_user_id", "id must be a valid user id")
		}
		if errors.Is(err, app.ErrProfileNotFound) {
			return writeError(c, http.StatusNotFound, "not_found", "profile not found")
		}

		return writeError(c, http.StatusInternalServerError, "internal_error", "failed to get profile")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

package controllers

import (
	"net/http"
	"strconv"

	"gradschool-portal/internal/dto"
	"gradschool-portal/internal/entities"
	"gradschool-portal/internal/services"
	apperrors "gradschool-portal/pkg/errors"
	"gradschool-portal/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type UserController struct {
	userService services.UserServiceInterface
	logger      *zap.Logger
}

func NewUserController(userService services.UserServiceInterface, logger *zap.Logger) *UserController {
	return &UserController{userService: userService, logger: logger}
}

func parseIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewBadRequestError("Invalid id parameter")
	}
	return id, nil
}

func toListItemDTO(user *entities.User) dto.UserListItemDTO {
	return dto.UserListItemDTO{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Role:          user.Role,
		StudentNumber: user.StudentNumber,
		SchoolID:      user.SchoolID,
		DegreeCode:    user.DegreeCode,
		YearLevel:     user.YearLevel,
	}
}

func (ctrl *UserController) GetUsers(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())

	users, total, err := ctrl.userService.GetUsers(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	list := make([]dto.UserListItemDTO, 0, len(users))
	for i := range users {
		list = append(list, toListItemDTO(&users[i]))
	}
	return utils.SuccessResponse(c, list, "OK", http.StatusOK, total)
}

func (ctrl *UserController) GetUser(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	user, err := ctrl.userService.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, toProfileDTO(user), "OK", http.StatusOK)
}

func (ctrl *UserController) GetRoles(c echo.Context) error {
	roles, err := ctrl.userService.GetAllRoles(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, roles, "OK", http.StatusOK)
}

func (ctrl *UserController) GrantRole(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.GrantRoleDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Invalid request body"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.userService.GrantRole(c.Request().Context(), id, payload.Role); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Role granted", http.StatusOK)
}

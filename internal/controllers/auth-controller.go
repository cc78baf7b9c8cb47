package controllers

import (
	"net/http"
	"time"

	"gradschool-portal/internal/dto"
	"gradschool-portal/internal/entities"
	"gradschool-portal/internal/services"
	apperrors "gradschool-portal/pkg/errors"
	"gradschool-portal/pkg/service"
	"gradschool-portal/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const refreshCookieName = "refresh_token"

type AuthController struct {
	authService services.AuthServiceInterface
	jwtService  service.JWTService
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, jwtService service.JWTService, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		jwtService:  jwtService,
		logger:      logger,
	}
}

func toProfileDTO(user *entities.User) dto.UserProfileDTO {
	return dto.UserProfileDTO{
		ID:                  user.ID,
		Email:               user.Email,
		FirstName:           user.FirstName,
		LastName:            user.LastName,
		Role:                user.Role,
		Roles:               user.Roles,
		StudentNumber:       user.StudentNumber,
		SchoolID:            user.SchoolID,
		DegreeCode:          user.DegreeCode,
		YearLevel:           user.YearLevel,
		ClearanceStatusCode: user.ClearanceStatusCode,
	}
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Invalid request body"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	result, err := ctrl.authService.Login(c.Request().Context(), payload, c.RealIP())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	accessToken, refreshToken, err := ctrl.jwtService.GenerateTokens(
		result.User.ID, result.Roles,
		ctrl.jwtService.GetAccessTokenTTL(), ctrl.jwtService.GetRefreshTokenTTL(),
	)
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusInternalServerError, "Could not issue tokens", err, nil), ctrl.logger)
	}

	ctrl.setRefreshCookie(c, refreshToken, payload.Remember)

	return utils.SuccessResponse(c, dto.AuthResponseDTO{
		AccessToken: accessToken,
		FirstLogin:  result.FirstLogin,
		User:        toProfileDTO(result.User),
	}, "Login successful", http.StatusOK)
}

func (ctrl *AuthController) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
	}

	claims, err := ctrl.jwtService.ValidateToken(cookie.Value)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if !claims.IsRefreshToken {
		return utils.ErrorResponse(c, apperrors.ErrTokenIsNotRefresh, ctrl.logger)
	}

	user, err := ctrl.authService.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	accessToken, refreshToken, err := ctrl.jwtService.GenerateTokens(
		user.ID, user.Roles,
		ctrl.jwtService.GetAccessTokenTTL(), ctrl.jwtService.GetRefreshTokenTTL(),
	)
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusInternalServerError, "Could not issue tokens", err, nil), ctrl.logger)
	}

	ctrl.setRefreshCookie(c, refreshToken, true)

	return utils.SuccessResponse(c, dto.AuthResponseDTO{
		AccessToken: accessToken,
		User:        toProfileDTO(user),
	}, "Token refreshed", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	return utils.SuccessResponse(c, nil, "Logged out", http.StatusOK)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
	}

	user, err := ctrl.authService.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, toProfileDTO(user), "OK", http.StatusOK)
}

// setRefreshCookie stores the refresh token HttpOnly. With remember set the
// cookie outlives the browser session for the full refresh TTL.
func (ctrl *AuthController) setRefreshCookie(c echo.Context, token string, remember bool) {
	cookie := &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
	if remember {
		cookie.Expires = time.Now().Add(ctrl.jwtService.GetRefreshTokenTTL())
	}
	c.SetCookie(cookie)
}

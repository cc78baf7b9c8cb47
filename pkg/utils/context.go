package utils

import (
	"context"

	"gradschool-portal/pkg/contextkeys"
	apperrors "gradschool-portal/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetUserRolesFromCtx(ctx context.Context) []string {
	roles, ok := ctx.Value(contextkeys.UserRolesKey).([]string)
	if !ok {
		return nil
	}
	return roles
}

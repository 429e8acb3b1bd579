package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	RequesterIDKey contextKey = "requester_id"
	AdminKey       contextKey = "is_admin"
)

func GetRequesterIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	idVal := ctx.Value(RequesterIDKey)
	if idVal == nil {
		return uuid.Nil, false
	}

	idStr, ok := idVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}

func IsAdminFromContext(ctx context.Context) bool {
	adminVal := ctx.Value(AdminKey)
	if adminVal == nil {
		return false
	}

	isAdmin, ok := adminVal.(bool)
	return ok && isAdmin
}

func SetRequesterContext(ctx context.Context, requesterID uuid.UUID, isAdmin bool) context.Context {
	ctx = context.WithValue(ctx, RequesterIDKey, requesterID.String())
	ctx = context.WithValue(ctx, AdminKey, isAdmin)
	return ctx
}

package context

import (
	"context"

	"github.com/chapavet/marketplace/constant"
)

func GetUserID(ctx context.Context) (uint64, bool) {
	v := ctx.Value(constant.UserIDKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

func GetRole(ctx context.Context) constant.Role {
	role, _ := ctx.Value(constant.UserRoleKey).(constant.Role)
	return role
}

func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(constant.SessionIDKey).(string)
	return id
}

// WithSession embeds the authenticated caller into ctx.
func WithSession(ctx context.Context, userID uint64, role constant.Role, sessionID string) context.Context {
	ctx = context.WithValue(ctx, constant.UserIDKey, userID)
	ctx = context.WithValue(ctx, constant.UserRoleKey, role)
	return context.WithValue(ctx, constant.SessionIDKey, sessionID)
}

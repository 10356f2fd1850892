package auth

import "context"

type ctxKey int

const (
	userNameKey ctxKey = iota + 1
	userIDKey
)

// SetAuthContext stores the authenticated user on the request context.
func SetAuthContext(ctx context.Context, userID int, userName string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userNameKey, userName)
}

func UserName(ctx context.Context) string {
	name, _ := ctx.Value(userNameKey).(string)
	return name
}

func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok && id != 0
}

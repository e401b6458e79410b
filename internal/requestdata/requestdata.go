package requestdata

import (
	"context"

	"github.com/google/uuid"
)

type contextKey struct{}

// RequestData is the authenticated identity carried through a request's
// context. SessionID is the refresh-token session the access token was
// minted for.
type RequestData struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Role      string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, contextKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	rd, _ := ctx.Value(contextKey{}).(*RequestData)
	return rd
}

package claims

import (
	"context"
	"errors"
)

// Claims identify the shopper behind a request. Owner keys the shopper's
// state; UserID is the account the remote cart service knows them by.
type Claims struct {
	Owner  string
	UserID int
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}

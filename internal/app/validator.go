package app

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Michael-Parekh/proshop/internal/auth"
	"github.com/Michael-Parekh/proshop/internal/domain"
	"github.com/Michael-Parekh/proshop/pkg/middleware"
)

// userResolver resolves a token subject to its current user record.
type userResolver interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// newTokenValidator builds the validation hook for the auth middleware. The
// token only proves identity; the email and admin flag come from the stored
// user record, so an admin demotion or promotion takes effect on the next
// request and deleted accounts lose access immediately rather than at token
// expiry.
func newTokenValidator(tokens *auth.TokenManager, users userResolver) middleware.TokenValidator {
	return func(ctx context.Context, token string) (*middleware.Claims, error) {
		claims, err := tokens.Validate(token)
		if err != nil {
			return nil, err
		}
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid subject: %w", err)
		}
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("resolve user: %w", err)
		}
		return &middleware.Claims{
			UserID:  claims.UserID,
			Email:   user.Email,
			IsAdmin: user.IsAdmin,
		}, nil
	}
}

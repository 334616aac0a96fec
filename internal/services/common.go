package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/data/repos/users"
	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/apierr"
	"github.com/aneslog/aneslog-backend/internal/requestdata"
)

var (
	errUnauthorized = apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("caller identity not set"))
	errSeniorOnly   = apierr.New(http.StatusForbidden, "senior_only", fmt.Errorf("operation restricted to seniors"))
)

// actorFromContext resolves the calling user row from the request identity.
// Every service needs the actor's team to scope catalog and threshold reads.
func actorFromContext(ctx context.Context, tx *gorm.DB, userRepo users.UserRepo) (*domain.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, errUnauthorized
	}
	actor, err := userRepo.GetByID(ctx, tx, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("error fetching caller: %w", err)
	}
	if actor == nil || !actor.IsActive {
		return nil, errUnauthorized
	}
	return actor, nil
}

func requireSenior(ctx context.Context, tx *gorm.DB, userRepo users.UserRepo) (*domain.User, error) {
	actor, err := actorFromContext(ctx, tx, userRepo)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleSenior {
		return nil, errSeniorOnly
	}
	return actor, nil
}

package requestdata

import (
	"context"

	"github.com/google/uuid"

	"github.com/aneslog/aneslog-backend/internal/domain"
)

type requestDataKey struct{}

// RequestData is the caller identity extracted from the trusted upstream
// headers. Auth itself lives in front of this service; by the time a
// request gets here the headers are assumed verified.
type RequestData struct {
	UserID uuid.UUID
	Role   domain.Role
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

func (rd *RequestData) IsSenior() bool {
	return rd != nil && rd.Role == domain.RoleSenior
}

package api

import (
	"context"

	"github.com/terra-clan/techdesk/internal/models"
)

type ctxKey int

const (
	callerKey ctxKey = iota
	callerSlotKey
)

// callerSlot lets the request logger, which runs before authentication,
// see who made the request.
type callerSlot struct {
	name string
}

// CallerFromContext returns the authenticated API client.
// It is nil when authentication is disabled.
func CallerFromContext(ctx context.Context) *models.ApiClient {
	caller, _ := ctx.Value(callerKey).(*models.ApiClient)
	return caller
}

func withCaller(ctx context.Context, caller *models.ApiClient) context.Context {
	if slot, ok := ctx.Value(callerSlotKey).(*callerSlot); ok {
		slot.name = caller.Name
	}
	return context.WithValue(ctx, callerKey, caller)
}

func withCallerSlot(ctx context.Context) (context.Context, *callerSlot) {
	slot := &callerSlot{}
	return context.WithValue(ctx, callerSlotKey, slot), slot
}

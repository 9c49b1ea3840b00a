package utils

import (
	"context"

	"github.com/aguo890/linesight/appctx"
)

var (
	ContextKeyBusinessId    = appctx.ContextKeyBusinessId
	ContextKeyFactoryId     = appctx.ContextKeyFactoryId
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeyImportId      = appctx.ContextKeyImportId
)

func GetBusinessIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyBusinessId)
}

func GetFactoryIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyFactoryId)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func GetImportIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyImportId)
}

func SetBusinessIdInContext(ctx context.Context, businessId string) context.Context {
	return appctx.Set(ctx, ContextKeyBusinessId, businessId)
}

func SetFactoryIdInContext(ctx context.Context, factoryId int) context.Context {
	return appctx.Set(ctx, ContextKeyFactoryId, factoryId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func SetImportIdInContext(ctx context.Context, importId int) context.Context {
	return appctx.Set(ctx, ContextKeyImportId, importId)
}

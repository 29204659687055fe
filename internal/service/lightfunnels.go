package service

import (
	"context"

	"searchier/pkg/lightfunnels"
)

// LightfunnelsAPI 服务层依赖的平台能力，*lightfunnels.Client 实现该接口
type LightfunnelsAPI interface {
	FetchAccount(ctx context.Context, token string) (*lightfunnels.Account, error)
	ListAccountStores(ctx context.Context, token string) ([]lightfunnels.Store, error)
	GetHeaderScripts(ctx context.Context, token, storeID string) (string, error)
	UpdateHeaderScripts(ctx context.Context, token, storeID, scripts string) error
	SearchProducts(ctx context.Context, token, query string, first int, after string) (*lightfunnels.ProductConnection, error)
}

var _ LightfunnelsAPI = (*lightfunnels.Client)(nil)

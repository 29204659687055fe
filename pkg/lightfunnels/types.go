package lightfunnels

// ================== 账号 ==================

// Account 当前授权账号
type Account struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	AccountName string `json:"account_name"`
	Image       *Image `json:"image,omitempty"`
}

type Image struct {
	URL string `json:"url,omitempty"`
}

// ImageURL 头像地址，可能为空
func (a *Account) ImageURL() string {
	if a.Image == nil {
		return ""
	}
	return a.Image.URL
}

// ================== 店铺 ==================

// Domain 店铺域名
type Domain struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

// Store 平台店铺（只读镜像）
type Store struct {
	Typename       string  `json:"__typename,omitempty"`
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	DefaultDomain  *string `json:"defaultDomain"`
	Published      bool    `json:"published"`
	Currency       string  `json:"currency"`
	CurrencyFormat *string `json:"currency_format"`
	PrimaryDomain  *Domain `json:"primary_domain"`
}

// Domain 优先主域名，其次默认域名
func (s *Store) Domain() string {
	if s.PrimaryDomain != nil && s.PrimaryDomain.Name != nil && *s.PrimaryDomain.Name != "" {
		return *s.PrimaryDomain.Name
	}
	if s.DefaultDomain != nil {
		return *s.DefaultDomain
	}
	return ""
}

// StoreEdge 店铺分页边
type StoreEdge struct {
	Cursor string `json:"cursor"`
	Node   Store  `json:"node"`
}

// StoreConnection 店铺分页结果
type StoreConnection struct {
	Edges    []StoreEdge `json:"edges"`
	PageInfo PageInfo    `json:"pageInfo"`
}

// ================== 商品 ==================

// Thumbnail 商品缩略图
type Thumbnail struct {
	Path *string `json:"path"`
}

// Product 平台商品（只读，不落库）
type Product struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Thumbnail *Thumbnail `json:"thumbnail,omitempty"`
}

// ThumbnailPath 缩略图路径，可能为空
func (p *Product) ThumbnailPath() string {
	if p.Thumbnail == nil || p.Thumbnail.Path == nil {
		return ""
	}
	return *p.Thumbnail.Path
}

// ProductEdge 商品分页边
type ProductEdge struct {
	Cursor string  `json:"cursor"`
	Node   Product `json:"node"`
}

// ProductConnection 商品分页结果，只支持向后翻页
type ProductConnection struct {
	Edges    []ProductEdge   `json:"edges"`
	PageInfo ProductPageInfo `json:"pageInfo"`
}

// ================== 分页 ==================

// PageInfo 游标分页信息
type PageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

// ProductPageInfo 商品分页信息，向前翻页恒为 false/null
type ProductPageInfo struct {
	PageInfo
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
}

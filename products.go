package mws

import "context"

// Product ID types accepted by GetMatchingProductForID
const (
	IDTypeASIN      = "ASIN"
	IDTypeGCID      = "GCID"
	IDTypeSellerSKU = "SellerSKU"
	IDTypeUPC       = "UPC"
	IDTypeEAN       = "EAN"
	IDTypeISBN      = "ISBN"
	IDTypeJAN       = "JAN"
)

// Item conditions
const (
	ConditionAny         = "Any"
	ConditionNew         = "New"
	ConditionUsed        = "Used"
	ConditionCollectible = "Collectible"
	ConditionRefurbished = "Refurbished"
	ConditionClub        = "Club"
)

// ProductService defines catalog and pricing lookups. Every call is scoped
// to the client's marketplace.
type ProductService interface {
	ListMatchingProducts(ctx context.Context, query, queryContextID string) (*Response, error)
	GetMatchingProductForID(ctx context.Context, idType string, ids ...string) (*Response, error)
	GetCompetitivePricingForSKU(ctx context.Context, skus ...string) (*Response, error)
	GetLowestOfferListingsForSKU(ctx context.Context, opts SKUPricingOptions) (*Response, error)
	GetMyPriceForSKU(ctx context.Context, opts SKUPricingOptions) (*Response, error)
	GetServiceStatus(ctx context.Context) (*ServiceStatus, error)
}

// SKUPricingOptions selects SKUs for the pricing lookups. ExcludeMe is only
// sent by GetLowestOfferListingsForSKU.
type SKUPricingOptions struct {
	SKUs          []string
	ItemCondition string
	ExcludeMe     *bool
}

// productService implements ProductService
type productService struct {
	client *Client
}

func (s *productService) marketplace() Value {
	return String(s.client.marketplaceID)
}

func (s *productService) ListMatchingProducts(ctx context.Context, query, queryContextID string) (*Response, error) {
	return s.client.invoke(ctx, "", ActionListMatchingProducts, Args{
		"MarketplaceId":  s.marketplace(),
		"Query":          optString(query),
		"QueryContextId": optString(queryContextID),
	})
}

func (s *productService) GetMatchingProductForID(ctx context.Context, idType string, ids ...string) (*Response, error) {
	return s.client.invoke(ctx, "", ActionGetMatchingProductForID, Args{
		"MarketplaceId": s.marketplace(),
		"IdType":        optString(idType),
		"IdList":        optStrings("Id", ids),
	})
}

func (s *productService) GetCompetitivePricingForSKU(ctx context.Context, skus ...string) (*Response, error) {
	return s.client.invoke(ctx, "", ActionGetCompetitivePricingForSKU, Args{
		"MarketplaceId": s.marketplace(),
		"SellerSKUList": optStrings("SellerSKU", skus),
	})
}

func (s *productService) GetLowestOfferListingsForSKU(ctx context.Context, opts SKUPricingOptions) (*Response, error) {
	return s.client.invoke(ctx, "", ActionGetLowestOfferListingsForSKU, Args{
		"MarketplaceId": s.marketplace(),
		"SellerSKUList": optStrings("SellerSKU", opts.SKUs),
		"ItemCondition": optString(opts.ItemCondition),
		"ExcludeMe":     optBool(opts.ExcludeMe),
	})
}

func (s *productService) GetMyPriceForSKU(ctx context.Context, opts SKUPricingOptions) (*Response, error) {
	return s.client.invoke(ctx, "", ActionGetMyPriceForSKU, Args{
		"MarketplaceId": s.marketplace(),
		"SellerSKUList": optStrings("SellerSKU", opts.SKUs),
		"ItemCondition": optString(opts.ItemCondition),
	})
}

func (s *productService) GetServiceStatus(ctx context.Context) (*ServiceStatus, error) {
	return s.client.serviceStatus(ctx, SectionProducts)
}

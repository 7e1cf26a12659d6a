package mws

import (
	"context"
	"errors"
	"time"
)

// Inventory response groups
const (
	ResponseGroupBasic    = "Basic"
	ResponseGroupDetailed = "Detailed"
)

// InventoryService defines FBA inventory supply operations
type InventoryService interface {
	ListInventorySupply(ctx context.Context, opts ListInventorySupplyOptions) (*InventorySupplyList, error)
	ListInventorySupplyByNextToken(ctx context.Context, nextToken string) (*InventorySupplyList, error)
	GetServiceStatus(ctx context.Context) (*ServiceStatus, error)
}

// InventorySupply represents the supply of one SKU
type InventorySupply struct {
	SellerSKU             string `xml:"SellerSKU"`
	FNSKU                 string `xml:"FNSKU"`
	ASIN                  string `xml:"ASIN"`
	Condition             string `xml:"Condition"`
	TotalSupplyQuantity   int    `xml:"TotalSupplyQuantity"`
	InStockSupplyQuantity int    `xml:"InStockSupplyQuantity"`
}

// InventorySupplyList is one page of inventory supply results.
type InventorySupplyList struct {
	NextToken string            `xml:"NextToken"`
	Supplies  []InventorySupply `xml:"InventorySupplyList>member"`
}

// ListInventorySupplyOptions selects SKUs either by name or by change date.
// Exactly one of SellerSKUs and QueryStartDateTime must be set.
type ListInventorySupplyOptions struct {
	SellerSKUs         []string
	QueryStartDateTime *time.Time
	ResponseGroup      string
	MarketplaceID      string
}

// Args implements the argument builder for ListInventorySupply.
func (o ListInventorySupplyOptions) Args() (Args, error) {
	if (len(o.SellerSKUs) == 0) == (o.QueryStartDateTime == nil) {
		return nil, errors.New("exactly one of SellerSKUs and QueryStartDateTime is required")
	}
	return Args{
		"SellerSkus":         optStrings("member", o.SellerSKUs),
		"QueryStartDateTime": optTime(o.QueryStartDateTime),
		"ResponseGroup":      optString(o.ResponseGroup),
		"MarketplaceId":      optString(o.MarketplaceID),
	}, nil
}

// inventoryService implements InventoryService
type inventoryService struct {
	client *Client
}

func (s *inventoryService) ListInventorySupply(ctx context.Context, opts ListInventorySupplyOptions) (*InventorySupplyList, error) {
	resp, err := s.client.invokeInput(ctx, ActionListInventorySupply, opts)
	if err != nil {
		return nil, err
	}
	return decodeInventorySupply(resp)
}

func (s *inventoryService) ListInventorySupplyByNextToken(ctx context.Context, nextToken string) (*InventorySupplyList, error) {
	resp, err := s.client.invoke(ctx, "", ActionListInventorySupplyByNextToken, Args{"NextToken": optString(nextToken)})
	if err != nil {
		return nil, err
	}
	return decodeInventorySupply(resp)
}

func (s *inventoryService) GetServiceStatus(ctx context.Context) (*ServiceStatus, error) {
	return s.client.serviceStatus(ctx, SectionFulfillmentInventory)
}

func decodeInventorySupply(resp *Response) (*InventorySupplyList, error) {
	var result struct {
		First *InventorySupplyList `xml:"ListInventorySupplyResult"`
		Next  *InventorySupplyList `xml:"ListInventorySupplyByNextTokenResult"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return firstNonNil(result.First, result.Next), nil
}

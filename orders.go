package mws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses
const (
	OrderStatusPendingAvailability = "PendingAvailability"
	OrderStatusPending             = "Pending"
	OrderStatusUnshipped           = "Unshipped"
	OrderStatusPartiallyShipped    = "PartiallyShipped"
	OrderStatusShipped             = "Shipped"
	OrderStatusInvoiceUnconfirmed  = "InvoiceUnconfirmed"
	OrderStatusCanceled            = "Canceled"
	OrderStatusUnfulfillable       = "Unfulfillable"
)

// maxGetOrderIDs is the number of order IDs GetOrder accepts per call.
const maxGetOrderIDs = 50

// OrderService defines operations for order retrieval
type OrderService interface {
	ListOrders(ctx context.Context, opts ListOrdersOptions) (*OrderList, error)
	ListOrdersByNextToken(ctx context.Context, nextToken string) (*OrderList, error)
	GetOrder(ctx context.Context, amazonOrderIDs ...string) ([]Order, error)
	ListOrderItems(ctx context.Context, amazonOrderID string) (*OrderItemList, error)
	ListOrderItemsByNextToken(ctx context.Context, nextToken string) (*OrderItemList, error)
	GetServiceStatus(ctx context.Context) (*ServiceStatus, error)
}

// Money is a currency amount as returned by the API.
type Money struct {
	CurrencyCode string          `xml:"CurrencyCode"`
	Amount       decimal.Decimal `xml:"Amount"`
}

// OrderAddress represents a buyer shipping address
type OrderAddress struct {
	Name          string `xml:"Name"`
	AddressLine1  string `xml:"AddressLine1"`
	AddressLine2  string `xml:"AddressLine2"`
	AddressLine3  string `xml:"AddressLine3"`
	City          string `xml:"City"`
	County        string `xml:"County"`
	District      string `xml:"District"`
	StateOrRegion string `xml:"StateOrRegion"`
	PostalCode    string `xml:"PostalCode"`
	CountryCode   string `xml:"CountryCode"`
	Phone         string `xml:"Phone"`
	AddressType   string `xml:"AddressType"`
}

// Order represents an order
type Order struct {
	AmazonOrderID          string        `xml:"AmazonOrderId"`
	SellerOrderID          string        `xml:"SellerOrderId"`
	PurchaseDate           time.Time     `xml:"PurchaseDate"`
	LastUpdateDate         time.Time     `xml:"LastUpdateDate"`
	OrderStatus            string        `xml:"OrderStatus"`
	FulfillmentChannel     string        `xml:"FulfillmentChannel"`
	SalesChannel           string        `xml:"SalesChannel"`
	ShipServiceLevel       string        `xml:"ShipServiceLevel"`
	ShippingAddress        *OrderAddress `xml:"ShippingAddress"`
	OrderTotal             *Money        `xml:"OrderTotal"`
	NumberOfItemsShipped   int           `xml:"NumberOfItemsShipped"`
	NumberOfItemsUnshipped int           `xml:"NumberOfItemsUnshipped"`
	PaymentMethod          string        `xml:"PaymentMethod"`
	MarketplaceID          string        `xml:"MarketplaceId"`
	BuyerEmail             string        `xml:"BuyerEmail"`
	BuyerName              string        `xml:"BuyerName"`
	OrderType              string        `xml:"OrderType"`
	IsPrime                bool          `xml:"IsPrime"`
	IsBusinessOrder        bool          `xml:"IsBusinessOrder"`
}

// OrderItem represents one line of an order
type OrderItem struct {
	ASIN            string   `xml:"ASIN"`
	SellerSKU       string   `xml:"SellerSKU"`
	OrderItemID     string   `xml:"OrderItemId"`
	Title           string   `xml:"Title"`
	QuantityOrdered int      `xml:"QuantityOrdered"`
	QuantityShipped int      `xml:"QuantityShipped"`
	ItemPrice       *Money   `xml:"ItemPrice"`
	ShippingPrice   *Money   `xml:"ShippingPrice"`
	ItemTax         *Money   `xml:"ItemTax"`
	PromotionIDs    []string `xml:"PromotionIds>PromotionId"`
	ConditionID     string   `xml:"ConditionId"`
}

// OrderList is one page of ListOrders results.
type OrderList struct {
	NextToken         string    `xml:"NextToken"`
	CreatedBefore     time.Time `xml:"CreatedBefore"`
	LastUpdatedBefore time.Time `xml:"LastUpdatedBefore"`
	Orders            []Order   `xml:"Orders>Order"`
}

// OrderItemList is one page of ListOrderItems results.
type OrderItemList struct {
	NextToken     string      `xml:"NextToken"`
	AmazonOrderID string      `xml:"AmazonOrderId"`
	Items         []OrderItem `xml:"OrderItems>OrderItem"`
}

// ListOrdersOptions filters ListOrders. Exactly one of CreatedAfter and
// LastUpdatedAfter must be set. MarketplaceIDs defaults to the client's
// marketplace.
type ListOrdersOptions struct {
	CreatedAfter           *time.Time
	CreatedBefore          *time.Time
	LastUpdatedAfter       *time.Time
	LastUpdatedBefore      *time.Time
	OrderStatus            []string
	MarketplaceIDs         []string
	FulfillmentChannels    []string
	PaymentMethods         []string
	BuyerEmail             string
	SellerOrderID          string
	MaxResultsPerPage      int
	TFMShipmentStatus      []string
	EasyShipShipmentStatus []string
}

// Args implements the argument builder for ListOrders.
func (o ListOrdersOptions) Args() (Args, error) {
	if (o.CreatedAfter == nil) == (o.LastUpdatedAfter == nil) {
		return nil, errors.New("exactly one of CreatedAfter and LastUpdatedAfter is required")
	}
	if o.MaxResultsPerPage < 0 || o.MaxResultsPerPage > 100 {
		return nil, fmt.Errorf("MaxResultsPerPage must be between 1 and 100, got %d", o.MaxResultsPerPage)
	}
	return Args{
		"CreatedAfter":           optTime(o.CreatedAfter),
		"CreatedBefore":          optTime(o.CreatedBefore),
		"LastUpdatedAfter":       optTime(o.LastUpdatedAfter),
		"LastUpdatedBefore":      optTime(o.LastUpdatedBefore),
		"OrderStatus":            optStrings("Status", o.OrderStatus),
		"MarketplaceId":          optStrings("Id", o.MarketplaceIDs),
		"FulfillmentChannel":     optStrings("Channel", o.FulfillmentChannels),
		"PaymentMethod":          optStrings("Method", o.PaymentMethods),
		"BuyerEmail":             optString(o.BuyerEmail),
		"SellerOrderId":          optString(o.SellerOrderID),
		"MaxResultsPerPage":      optInt(o.MaxResultsPerPage),
		"TFMShipmentStatus":      optStrings("Status", o.TFMShipmentStatus),
		"EasyShipShipmentStatus": optStrings("Status", o.EasyShipShipmentStatus),
	}, nil
}

// orderService implements OrderService
type orderService struct {
	client *Client
}

func (s *orderService) ListOrders(ctx context.Context, opts ListOrdersOptions) (*OrderList, error) {
	if len(opts.MarketplaceIDs) == 0 {
		opts.MarketplaceIDs = []string{s.client.marketplaceID}
	}
	resp, err := s.client.invokeInput(ctx, ActionListOrders, opts)
	if err != nil {
		return nil, err
	}
	return decodeOrderList(resp)
}

func (s *orderService) ListOrdersByNextToken(ctx context.Context, nextToken string) (*OrderList, error) {
	resp, err := s.client.invoke(ctx, "", ActionListOrdersByNextToken, Args{"NextToken": optString(nextToken)})
	if err != nil {
		return nil, err
	}
	return decodeOrderList(resp)
}

func (s *orderService) GetOrder(ctx context.Context, amazonOrderIDs ...string) ([]Order, error) {
	if len(amazonOrderIDs) > maxGetOrderIDs {
		return nil, fmt.Errorf("GetOrder accepts at most %d order IDs, got %d", maxGetOrderIDs, len(amazonOrderIDs))
	}
	resp, err := s.client.invoke(ctx, "", ActionGetOrder, Args{"AmazonOrderId": optStrings("Id", amazonOrderIDs)})
	if err != nil {
		return nil, err
	}

	var result struct {
		Orders []Order `xml:"GetOrderResult>Orders>Order"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return result.Orders, nil
}

func (s *orderService) ListOrderItems(ctx context.Context, amazonOrderID string) (*OrderItemList, error) {
	resp, err := s.client.invoke(ctx, "", ActionListOrderItems, Args{"AmazonOrderId": optString(amazonOrderID)})
	if err != nil {
		return nil, err
	}
	return decodeOrderItemList(resp)
}

func (s *orderService) ListOrderItemsByNextToken(ctx context.Context, nextToken string) (*OrderItemList, error) {
	resp, err := s.client.invoke(ctx, "", ActionListOrderItemsByNextToken, Args{"NextToken": optString(nextToken)})
	if err != nil {
		return nil, err
	}
	return decodeOrderItemList(resp)
}

func (s *orderService) GetServiceStatus(ctx context.Context) (*ServiceStatus, error) {
	return s.client.serviceStatus(ctx, SectionOrders)
}

func decodeOrderList(resp *Response) (*OrderList, error) {
	var result struct {
		First *OrderList `xml:"ListOrdersResult"`
		Next  *OrderList `xml:"ListOrdersByNextTokenResult"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return firstNonNil(result.First, result.Next), nil
}

func decodeOrderItemList(resp *Response) (*OrderItemList, error) {
	var result struct {
		First *OrderItemList `xml:"ListOrderItemsResult"`
		Next  *OrderItemList `xml:"ListOrderItemsByNextTokenResult"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return firstNonNil(result.First, result.Next), nil
}

// firstNonNil picks whichever result element the response carried; an empty
// page is returned when neither was present.
func firstNonNil[T any](first, next *T) *T {
	switch {
	case first != nil:
		return first
	case next != nil:
		return next
	default:
		return new(T)
	}
}

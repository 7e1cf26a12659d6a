package mws

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Delivery experience values
const (
	DeliveryConfirmationWithAdultSignature = "DeliveryConfirmationWithAdultSignature"
	DeliveryConfirmationWithSignature      = "DeliveryConfirmationWithSignature"
	DeliveryConfirmationWithoutSignature   = "DeliveryConfirmationWithoutSignature"
	NoTracking                             = "NoTracking"
)

// MerchantFulfillmentService defines the shipping label operations.
type MerchantFulfillmentService interface {
	GetEligibleShippingServices(ctx context.Context, in GetEligibleShippingServicesInput) (*Response, error)
	GetAdditionalSellerInputs(ctx context.Context, in GetAdditionalSellerInputsInput) (*Response, error)
	CreateShipment(ctx context.Context, in CreateShipmentInput) (*Response, error)
	GetShipment(ctx context.Context, shipmentID string) (*Response, error)
	CancelShipment(ctx context.Context, shipmentID string) (*Response, error)
	GetServiceStatus(ctx context.Context) (*ServiceStatus, error)
}

// Address represents a ship-from address
type Address struct {
	Name                string
	AddressLine1        string
	AddressLine2        string
	AddressLine3        string
	DistrictOrCounty    string
	Email               string
	City                string
	StateOrProvinceCode string
	PostalCode          string
	CountryCode         string
	Phone               string
}

func (a *Address) value() Value {
	if a == nil {
		return nil
	}
	return compact(
		Field{"Name", optString(a.Name)},
		Field{"AddressLine1", optString(a.AddressLine1)},
		Field{"AddressLine2", optString(a.AddressLine2)},
		Field{"AddressLine3", optString(a.AddressLine3)},
		Field{"DistrictOrCounty", optString(a.DistrictOrCounty)},
		Field{"Email", optString(a.Email)},
		Field{"City", optString(a.City)},
		Field{"StateOrProvinceCode", optString(a.StateOrProvinceCode)},
		Field{"PostalCode", optString(a.PostalCode)},
		Field{"CountryCode", optString(a.CountryCode)},
		Field{"Phone", optString(a.Phone)},
	)
}

// PackageDimensions is either explicit measurements or a predefined package
// name.
type PackageDimensions struct {
	Length                      *decimal.Decimal
	Width                       *decimal.Decimal
	Height                      *decimal.Decimal
	Unit                        string // inches or centimeters
	PredefinedPackageDimensions string
}

func (d *PackageDimensions) value() Value {
	if d == nil {
		return nil
	}
	return compact(
		Field{"Length", optDecimal(d.Length)},
		Field{"Width", optDecimal(d.Width)},
		Field{"Height", optDecimal(d.Height)},
		Field{"Unit", optString(d.Unit)},
		Field{"PredefinedPackageDimensions", optString(d.PredefinedPackageDimensions)},
	)
}

// Weight represents a package or item weight
type Weight struct {
	Value decimal.Decimal
	Unit  string // ounces or grams
}

func (w *Weight) value() Value {
	if w == nil {
		return nil
	}
	return Struct{
		{"Value", Decimal(w.Value)},
		{"Unit", optString(w.Unit)},
	}
}

// CurrencyAmount represents a monetary amount
type CurrencyAmount struct {
	CurrencyCode string
	Amount       decimal.Decimal
}

func (c *CurrencyAmount) value() Value {
	if c == nil {
		return nil
	}
	return Struct{
		{"CurrencyCode", optString(c.CurrencyCode)},
		{"Amount", Decimal(c.Amount)},
	}
}

// AdditionalSellerInput is one extra field a carrier asks for. Set exactly
// the ValueAs* member matching DataType.
type AdditionalSellerInput struct {
	FieldName        string
	DataType         string
	ValueAsString    string
	ValueAsBoolean   *bool
	ValueAsInteger   *int
	ValueAsTimestamp *time.Time
	ValueAsAddress   *Address
	ValueAsWeight    *Weight
	ValueAsDimension *PackageDimensions
	ValueAsCurrency  *CurrencyAmount
}

func (in AdditionalSellerInput) value() Value {
	var asInt Value
	if in.ValueAsInteger != nil {
		asInt = Int(*in.ValueAsInteger)
	}
	return Struct{
		{"AdditionalInputFieldName", optString(in.FieldName)},
		{"AdditionalSellerInput", compact(
			Field{"DataType", optString(in.DataType)},
			Field{"ValueAsString", optString(in.ValueAsString)},
			Field{"ValueAsBoolean", optBool(in.ValueAsBoolean)},
			Field{"ValueAsInteger", asInt},
			Field{"ValueAsTimestamp", optTime(in.ValueAsTimestamp)},
			Field{"ValueAsAddress", in.ValueAsAddress.value()},
			Field{"ValueAsWeight", in.ValueAsWeight.value()},
			Field{"ValueAsDimension", in.ValueAsDimension.value()},
			Field{"ValueAsCurrency", in.ValueAsCurrency.value()},
		)},
	}
}

func sellerInputs(inputs []AdditionalSellerInput) Value {
	if len(inputs) == 0 {
		return nil
	}
	l := List{Member: "member", Items: make([]Value, len(inputs))}
	for i, in := range inputs {
		l.Items[i] = in.value()
	}
	return l
}

// ShipmentItem represents one order item in the package
type ShipmentItem struct {
	OrderItemID       string
	Quantity          int
	ItemWeight        *Weight
	ItemDescription   string
	TransparencyCodes []string
	SellerInputs      []AdditionalSellerInput
}

func (it ShipmentItem) value() Value {
	return Struct{
		{"OrderItemId", optString(it.OrderItemID)},
		{"Quantity", Int(it.Quantity)},
		{"ItemWeight", it.ItemWeight.value()},
		{"ItemDescription", optString(it.ItemDescription)},
		{"TransparencyCodeList", optStrings("member", it.TransparencyCodes)},
		{"ItemLevelSellerInputsList", sellerInputs(it.SellerInputs)},
	}
}

// ShippingServiceOptions represents the requested service level
type ShippingServiceOptions struct {
	DeliveryExperience string
	DeclaredValue      *CurrencyAmount
	CarrierWillPickUp  bool
	LabelFormat        string
}

// LabelCustomization represents custom label text
type LabelCustomization struct {
	CustomTextForLabel string
	StandardIDForLabel string
}

// ShipmentRequestDetails describes the package to ship.
type ShipmentRequestDetails struct {
	AmazonOrderID          string
	SellerOrderID          string
	Items                  []ShipmentItem
	ShipFromAddress        Address
	PackageDimensions      PackageDimensions
	Weight                 Weight
	MustArriveByDate       *time.Time
	ShipDate               *time.Time
	ShippingServiceOptions ShippingServiceOptions
	LabelCustomization     *LabelCustomization
}

func (d *ShipmentRequestDetails) value() Value {
	var items Value
	if len(d.Items) > 0 {
		l := List{Member: "Item", Items: make([]Value, len(d.Items))}
		for i, it := range d.Items {
			l.Items[i] = it.value()
		}
		items = l
	}

	var label Value
	if d.LabelCustomization != nil {
		label = compact(
			Field{"CustomTextForLabel", optString(d.LabelCustomization.CustomTextForLabel)},
			Field{"StandardIdForLabel", optString(d.LabelCustomization.StandardIDForLabel)},
		)
	}

	opts := d.ShippingServiceOptions
	return Struct{
		{"AmazonOrderId", optString(d.AmazonOrderID)},
		{"SellerOrderId", optString(d.SellerOrderID)},
		{"ItemList", items},
		{"ShipFromAddress", d.ShipFromAddress.value()},
		{"PackageDimensions", d.PackageDimensions.value()},
		{"Weight", d.Weight.value()},
		{"MustArriveByDate", optTime(d.MustArriveByDate)},
		{"ShipDate", optTime(d.ShipDate)},
		{"ShippingServiceOptions", Struct{
			{"DeliveryExperience", optString(opts.DeliveryExperience)},
			{"DeclaredValue", opts.DeclaredValue.value()},
			{"CarrierWillPickUp", Bool(opts.CarrierWillPickUp)},
			{"LabelFormat", optString(opts.LabelFormat)},
		}},
		{"LabelCustomization", label},
	}
}

// ShippingOfferingFilter narrows the returned shipping services
type ShippingOfferingFilter struct {
	IncludePackingSlipWithLabel   *bool
	IncludeComplexShippingOptions *bool
	CarrierWillPickUp             *bool
	DeliveryExperience            string
}

// GetEligibleShippingServicesInput is the GetEligibleShippingServices request.
type GetEligibleShippingServicesInput struct {
	ShipmentRequestDetails ShipmentRequestDetails
	ShippingOfferingFilter *ShippingOfferingFilter
}

// Args implements the argument builder for GetEligibleShippingServices.
func (in GetEligibleShippingServicesInput) Args() (Args, error) {
	args := Args{"ShipmentRequestDetails": in.ShipmentRequestDetails.value()}
	if f := in.ShippingOfferingFilter; f != nil {
		args["ShippingOfferingFilter"] = compact(
			Field{"IncludePackingSlipWithLabel", optBool(f.IncludePackingSlipWithLabel)},
			Field{"IncludeComplexShippingOptions", optBool(f.IncludeComplexShippingOptions)},
			Field{"CarrierWillPickUp", optBool(f.CarrierWillPickUp)},
			Field{"DeliveryExperience", optString(f.DeliveryExperience)},
		)
	}
	return args, nil
}

// GetAdditionalSellerInputsInput is the GetAdditionalSellerInputs request.
type GetAdditionalSellerInputsInput struct {
	OrderID           string
	ShippingServiceID string
	ShipFromAddress   Address
}

// Args implements the argument builder for GetAdditionalSellerInputs.
func (in GetAdditionalSellerInputsInput) Args() (Args, error) {
	return Args{
		"OrderId":           optString(in.OrderID),
		"ShippingServiceId": optString(in.ShippingServiceID),
		"ShipFromAddress":   in.ShipFromAddress.value(),
	}, nil
}

// CreateShipmentInput is the CreateShipment request.
type CreateShipmentInput struct {
	ShipmentRequestDetails      ShipmentRequestDetails
	ShippingServiceID           string
	ShippingServiceOfferID      string
	HazmatType                  string // None or LQHazmat
	IncludePackingSlipWithLabel *bool
	SellerInputs                []AdditionalSellerInput
}

// Args implements the argument builder for CreateShipment.
func (in CreateShipmentInput) Args() (Args, error) {
	args := Args{
		"ShipmentRequestDetails":        in.ShipmentRequestDetails.value(),
		"ShippingServiceId":             optString(in.ShippingServiceID),
		"ShippingServiceOfferId":        optString(in.ShippingServiceOfferID),
		"HazmatType":                    optString(in.HazmatType),
		"ShipmentLevelSellerInputsList": sellerInputs(in.SellerInputs),
	}
	if in.IncludePackingSlipWithLabel != nil {
		args["LabelFormatOption"] = Struct{{"IncludePackingSlipWithLabel", Bool(*in.IncludePackingSlipWithLabel)}}
	}
	return args, nil
}

// merchantFulfillmentService implements MerchantFulfillmentService
type merchantFulfillmentService struct {
	client *Client
}

func (s *merchantFulfillmentService) GetEligibleShippingServices(ctx context.Context, in GetEligibleShippingServicesInput) (*Response, error) {
	return s.client.invokeInput(ctx, ActionGetEligibleShippingServices, in)
}

func (s *merchantFulfillmentService) GetAdditionalSellerInputs(ctx context.Context, in GetAdditionalSellerInputsInput) (*Response, error) {
	return s.client.invokeInput(ctx, ActionGetAdditionalSellerInputs, in)
}

func (s *merchantFulfillmentService) CreateShipment(ctx context.Context, in CreateShipmentInput) (*Response, error) {
	return s.client.invokeInput(ctx, ActionCreateShipment, in)
}

func (s *merchantFulfillmentService) GetShipment(ctx context.Context, shipmentID string) (*Response, error) {
	return s.client.invoke(ctx, "", ActionGetShipment, Args{"ShipmentId": optString(shipmentID)})
}

func (s *merchantFulfillmentService) CancelShipment(ctx context.Context, shipmentID string) (*Response, error) {
	return s.client.invoke(ctx, "", ActionCancelShipment, Args{"ShipmentId": optString(shipmentID)})
}

func (s *merchantFulfillmentService) GetServiceStatus(ctx context.Context) (*ServiceStatus, error) {
	return s.client.serviceStatus(ctx, SectionMerchantFulfillment)
}

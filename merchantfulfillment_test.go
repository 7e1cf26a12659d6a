package mws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shipDate = time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)

func testShipFromAddress() Address {
	return Address{
		Name:                "Jane Seller",
		AddressLine1:        "1 Main St",
		Email:               "jane@example.com",
		City:                "Seattle",
		StateOrProvinceCode: "WA",
		PostalCode:          "98101",
		CountryCode:         "US",
		Phone:               "2065550100",
	}
}

func testShipmentRequestDetails() ShipmentRequestDetails {
	length, width, height := decimal.NewFromInt(12), decimal.RequireFromString("9.5"), decimal.NewFromInt(3)
	return ShipmentRequestDetails{
		AmazonOrderID: "903-5563053-5647845",
		SellerOrderID: "903-5563053-5647845",
		Items: []ShipmentItem{
			{OrderItemID: "52986411826454", Quantity: 1},
			{OrderItemID: "52986411826455", Quantity: 5},
		},
		ShipFromAddress: testShipFromAddress(),
		PackageDimensions: PackageDimensions{
			Length: &length,
			Width:  &width,
			Height: &height,
			Unit:   "inches",
		},
		Weight:   Weight{Value: decimal.NewFromInt(10), Unit: "oz"},
		ShipDate: &shipDate,
		ShippingServiceOptions: ShippingServiceOptions{
			DeliveryExperience: DeliveryConfirmationWithoutSignature,
			CarrierWillPickUp:  false,
			DeclaredValue:      &CurrencyAmount{CurrencyCode: "USD", Amount: decimal.RequireFromString("10.00")},
		},
	}
}

func expectedShipmentRequestParams() Params {
	return Params{
		"ShipmentRequestDetails.AmazonOrderId":                                     "903-5563053-5647845",
		"ShipmentRequestDetails.SellerOrderId":                                     "903-5563053-5647845",
		"ShipmentRequestDetails.ItemList.Item.1.OrderItemId":                       "52986411826454",
		"ShipmentRequestDetails.ItemList.Item.1.Quantity":                          "1",
		"ShipmentRequestDetails.ItemList.Item.2.OrderItemId":                       "52986411826455",
		"ShipmentRequestDetails.ItemList.Item.2.Quantity":                          "5",
		"ShipmentRequestDetails.ShipFromAddress.Name":                              "Jane Seller",
		"ShipmentRequestDetails.ShipFromAddress.AddressLine1":                      "1 Main St",
		"ShipmentRequestDetails.ShipFromAddress.Email":                             "jane@example.com",
		"ShipmentRequestDetails.ShipFromAddress.City":                              "Seattle",
		"ShipmentRequestDetails.ShipFromAddress.StateOrProvinceCode":               "WA",
		"ShipmentRequestDetails.ShipFromAddress.PostalCode":                        "98101",
		"ShipmentRequestDetails.ShipFromAddress.CountryCode":                       "US",
		"ShipmentRequestDetails.ShipFromAddress.Phone":                             "2065550100",
		"ShipmentRequestDetails.PackageDimensions.Length":                          "12",
		"ShipmentRequestDetails.PackageDimensions.Width":                           "9.5",
		"ShipmentRequestDetails.PackageDimensions.Height":                          "3",
		"ShipmentRequestDetails.PackageDimensions.Unit":                            "inches",
		"ShipmentRequestDetails.Weight.Value":                                      "10",
		"ShipmentRequestDetails.Weight.Unit":                                       "oz",
		"ShipmentRequestDetails.ShipDate":                                          "2024-06-03T15:00:00Z",
		"ShipmentRequestDetails.ShippingServiceOptions.DeliveryExperience":         "DeliveryConfirmationWithoutSignature",
		"ShipmentRequestDetails.ShippingServiceOptions.CarrierWillPickUp":          "false",
		"ShipmentRequestDetails.ShippingServiceOptions.DeclaredValue.CurrencyCode": "USD",
		"ShipmentRequestDetails.ShippingServiceOptions.DeclaredValue.Amount":       "10.00",
	}
}

func newOfflineClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(testSellerID, testAccessKey, testSecretKey, "US", WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return c
}

func TestGetEligibleShippingServicesParams(t *testing.T) {
	c := newOfflineClient(t)

	p, err := c.BuildInputParams(ActionGetEligibleShippingServices, GetEligibleShippingServicesInput{
		ShipmentRequestDetails: testShipmentRequestDetails(),
		ShippingOfferingFilter: &ShippingOfferingFilter{IncludeComplexShippingOptions: boolPtr(false)},
	})
	require.NoError(t, err)

	want := expectedShipmentRequestParams()
	want["ShippingOfferingFilter.IncludeComplexShippingOptions"] = "false"
	if diff := cmp.Diff(want, withoutEnvelope(p)); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "GetEligibleShippingServices", p[ParamAction])
	assert.Equal(t, "2015-06-01", p[ParamVersion])
}

func TestGetEligibleShippingServicesDynamicParity(t *testing.T) {
	c := newOfflineClient(t)

	typed, err := c.BuildInputParams(ActionGetEligibleShippingServices, GetEligibleShippingServicesInput{
		ShipmentRequestDetails: testShipmentRequestDetails(),
	})
	require.NoError(t, err)

	dynamic := map[string]any{
		"ShipmentRequestDetails": map[string]any{
			"AmazonOrderId": "903-5563053-5647845",
			"SellerOrderId": "903-5563053-5647845",
			"ItemList": []any{
				map[string]any{"OrderItemId": "52986411826454", "Quantity": "1"},
				map[string]any{"OrderItemId": "52986411826455", "Quantity": 5},
			},
			"ShipFromAddress": map[string]any{
				"Name":                "Jane Seller",
				"AddressLine1":        "1 Main St",
				"Email":               "jane@example.com",
				"City":                "Seattle",
				"StateOrProvinceCode": "WA",
				"PostalCode":          "98101",
				"CountryCode":         "US",
				"Phone":               "2065550100",
			},
			"PackageDimensions":      map[string]any{"Length": "12", "Width": "9.5", "Height": 3, "Unit": "inches"},
			"Weight":                 map[string]any{"Value": "10", "Unit": "oz"},
			"ShipDate":               shipDate,
			"ShippingServiceOptions": map[string]any{
				"DeliveryExperience":         DeliveryConfirmationWithoutSignature,
				"CarrierWillPickUp":          false,
				"DeclaredValue.CurrencyCode": "USD",
				"DeclaredValue.Amount":       "10.00",
			},
		},
	}
	args := Args{}
	for k, v := range dynamic {
		args[k], err = ValueOf(v)
		require.NoError(t, err)
	}

	got, err := c.BuildParams("", ActionGetEligibleShippingServices, args)
	require.NoError(t, err)
	if diff := cmp.Diff(typed, got); diff != "" {
		t.Errorf("dynamic params differ from typed params (-typed +dynamic):\n%s", diff)
	}
}

func TestCreateShipmentParams(t *testing.T) {
	c := newOfflineClient(t)

	details := testShipmentRequestDetails()
	details.Items[0].SellerInputs = []AdditionalSellerInput{{FieldName: "ItemCategory", DataType: "STRING", ValueAsString: "toys"}}
	details.LabelCustomization = &LabelCustomization{CustomTextForLabel: "Fragile"}

	p, err := c.BuildInputParams(ActionCreateShipment, CreateShipmentInput{
		ShipmentRequestDetails:      details,
		ShippingServiceID:           "UPS_PTP_GND",
		ShippingServiceOfferID:      "offer-1",
		HazmatType:                  "None",
		IncludePackingSlipWithLabel: boolPtr(true),
		SellerInputs: []AdditionalSellerInput{{
			FieldName:      "SHIPPER_WEIGHT",
			DataType:       "WEIGHT",
			ValueAsWeight:  &Weight{Value: decimal.RequireFromString("1.5"), Unit: "g"},
			ValueAsBoolean: boolPtr(false),
		}},
	})
	require.NoError(t, err)

	want := expectedShipmentRequestParams()
	for k, v := range map[string]string{
		"ShipmentRequestDetails.ItemList.Item.1.ItemLevelSellerInputsList.member.1.AdditionalInputFieldName":            "ItemCategory",
		"ShipmentRequestDetails.ItemList.Item.1.ItemLevelSellerInputsList.member.1.AdditionalSellerInput.DataType":      "STRING",
		"ShipmentRequestDetails.ItemList.Item.1.ItemLevelSellerInputsList.member.1.AdditionalSellerInput.ValueAsString": "toys",
		"ShipmentRequestDetails.LabelCustomization.CustomTextForLabel":                                                  "Fragile",
		"ShippingServiceId":                                                                                             "UPS_PTP_GND",
		"ShippingServiceOfferId":                                                                                        "offer-1",
		"HazmatType":                                                                                                    "None",
		"LabelFormatOption.IncludePackingSlipWithLabel":                                                                 "true",
		"ShipmentLevelSellerInputsList.member.1.AdditionalInputFieldName":                                               "SHIPPER_WEIGHT",
		"ShipmentLevelSellerInputsList.member.1.AdditionalSellerInput.DataType":                                         "WEIGHT",
		"ShipmentLevelSellerInputsList.member.1.AdditionalSellerInput.ValueAsBoolean":                                   "false",
		"ShipmentLevelSellerInputsList.member.1.AdditionalSellerInput.ValueAsWeight.Value":                              "1.5",
		"ShipmentLevelSellerInputsList.member.1.AdditionalSellerInput.ValueAsWeight.Unit":                               "g",
	} {
		want[k] = v
	}
	if diff := cmp.Diff(want, withoutEnvelope(p)); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestGetAdditionalSellerInputsParams(t *testing.T) {
	c := newOfflineClient(t)

	p, err := c.BuildInputParams(ActionGetAdditionalSellerInputs, GetAdditionalSellerInputsInput{
		OrderID:           "903-5563053-5647845",
		ShippingServiceID: "UPS_PTP_GND",
		ShipFromAddress:   testShipFromAddress(),
	})
	require.NoError(t, err)

	got := withoutEnvelope(p)
	assert.Equal(t, "903-5563053-5647845", got["OrderId"])
	assert.Equal(t, "UPS_PTP_GND", got["ShippingServiceId"])
	assert.Equal(t, "Seattle", got["ShipFromAddress.City"])
	assert.NotContains(t, got, "ShipFromAddress.AddressLine2")
	assert.Len(t, got, 10)
}

func TestShipmentRequestValidation(t *testing.T) {
	c := newOfflineClient(t)

	tests := []struct {
		name    string
		mutate  func(*ShipmentRequestDetails)
		missing string
	}{
		{
			name:    "missing email",
			mutate:  func(d *ShipmentRequestDetails) { d.ShipFromAddress.Email = "" },
			missing: "ShipmentRequestDetails.ShipFromAddress.Email",
		},
		{
			name:    "no items",
			mutate:  func(d *ShipmentRequestDetails) { d.Items = nil },
			missing: "ShipmentRequestDetails.ItemList",
		},
		{
			name:    "no order item id",
			mutate:  func(d *ShipmentRequestDetails) { d.Items[1].OrderItemID = "" },
			missing: "ShipmentRequestDetails.ItemList.Item.2.OrderItemId",
		},
		{
			name:    "no package dimensions",
			mutate:  func(d *ShipmentRequestDetails) { d.PackageDimensions = PackageDimensions{} },
			missing: "ShipmentRequestDetails.PackageDimensions",
		},
		{
			name:    "no delivery experience",
			mutate:  func(d *ShipmentRequestDetails) { d.ShippingServiceOptions.DeliveryExperience = "" },
			missing: "ShipmentRequestDetails.ShippingServiceOptions.DeliveryExperience",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := testShipmentRequestDetails()
			tt.mutate(&details)

			_, err := c.BuildInputParams(ActionGetEligibleShippingServices, GetEligibleShippingServicesInput{ShipmentRequestDetails: details})
			var missing *MissingParamError
			require.True(t, errors.As(err, &missing), "got %v", err)
			assert.Equal(t, tt.missing, missing.Key)
		})
	}
}

func TestDynamicShipmentRejectsWrongShape(t *testing.T) {
	c := newOfflineClient(t)

	_, err := c.Call(context.Background(), "", ActionGetEligibleShippingServices, map[string]any{
		"ShipmentRequestDetails": map[string]any{
			"AmazonOrderId":   "1",
			"ShipFromAddress": "Seattle",
		},
	})
	var typeErr *TypeError
	require.True(t, errors.As(err, &typeErr), "got %v", err)
	assert.Equal(t, "ShipmentRequestDetails.ShipFromAddress", typeErr.Path)
}

func TestCreateShipmentSendsRequest(t *testing.T) {
	c, rec := newTestClient(t, xmlResponse(`<CreateShipmentResponse><CreateShipmentResult><Shipment>`+
		`<ShipmentId>6f77095e</ShipmentId></Shipment></CreateShipmentResult></CreateShipmentResponse>`))

	resp, err := c.MerchantFulfillment.CreateShipment(context.Background(), CreateShipmentInput{
		ShipmentRequestDetails: testShipmentRequestDetails(),
		ShippingServiceID:      "UPS_PTP_GND",
	})
	require.NoError(t, err)

	var shipment struct {
		ID string `xml:"CreateShipmentResult>Shipment>ShipmentId"`
	}
	require.NoError(t, resp.Decode(&shipment))
	assert.Equal(t, "6f77095e", shipment.ID)

	sent := valuesToParams(rec.last(t))
	assert.Equal(t, "CreateShipment", sent[ParamAction])
	assert.Equal(t, "52986411826455", sent["ShipmentRequestDetails.ItemList.Item.2.OrderItemId"])
	assert.Equal(t, "false", sent["ShipmentRequestDetails.ShippingServiceOptions.CarrierWillPickUp"])
}

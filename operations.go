package mws

// Shared actions
const (
	ActionGetServiceStatus = "GetServiceStatus"
)

// Merchant fulfillment actions
const (
	ActionGetEligibleShippingServices = "GetEligibleShippingServices"
	ActionGetAdditionalSellerInputs   = "GetAdditionalSellerInputs"
	ActionCreateShipment              = "CreateShipment"
	ActionGetShipment                 = "GetShipment"
	ActionCancelShipment              = "CancelShipment"
)

// Orders actions
const (
	ActionListOrders                = "ListOrders"
	ActionListOrdersByNextToken     = "ListOrdersByNextToken"
	ActionGetOrder                  = "GetOrder"
	ActionListOrderItems            = "ListOrderItems"
	ActionListOrderItemsByNextToken = "ListOrderItemsByNextToken"
)

// Fulfillment inventory actions
const (
	ActionListInventorySupply            = "ListInventorySupply"
	ActionListInventorySupplyByNextToken = "ListInventorySupplyByNextToken"
)

// Sellers actions
const (
	ActionListMarketplaceParticipations            = "ListMarketplaceParticipations"
	ActionListMarketplaceParticipationsByNextToken = "ListMarketplaceParticipationsByNextToken"
)

// Products actions
const (
	ActionListMatchingProducts         = "ListMatchingProducts"
	ActionGetMatchingProductForID      = "GetMatchingProductForId"
	ActionGetCompetitivePricingForSKU  = "GetCompetitivePricingForSKU"
	ActionGetLowestOfferListingsForSKU = "GetLowestOfferListingsForSKU"
	ActionGetMyPriceForSKU             = "GetMyPriceForSKU"
)

// Feeds actions
const (
	ActionSubmitFeed                       = "SubmitFeed"
	ActionGetFeedSubmissionList            = "GetFeedSubmissionList"
	ActionGetFeedSubmissionListByNextToken = "GetFeedSubmissionListByNextToken"
	ActionGetFeedSubmissionCount           = "GetFeedSubmissionCount"
	ActionCancelFeedSubmissions            = "CancelFeedSubmissions"
	ActionGetFeedSubmissionResult          = "GetFeedSubmissionResult"
)

// Reports actions
const (
	ActionRequestReport                   = "RequestReport"
	ActionGetReportRequestList            = "GetReportRequestList"
	ActionGetReportRequestListByNextToken = "GetReportRequestListByNextToken"
	ActionGetReportList                   = "GetReportList"
	ActionGetReportListByNextToken        = "GetReportListByNextToken"
	ActionGetReport                       = "GetReport"
	ActionCancelReportRequests            = "CancelReportRequests"
)

func required(key string, kind Kind) Param { return Param{Key: key, Kind: kind, Required: true} }
func optional(key string, kind Kind) Param { return Param{Key: key, Kind: kind} }

func structParam(key string, req bool, fields ...Param) Param {
	return Param{Key: key, Kind: KindStruct, Required: req, Fields: fields}
}

func listParam(key, member string, req bool, limit int, elem Param) Param {
	return Param{Key: key, Kind: KindList, Required: req, Member: member, Max: limit, Elem: &elem}
}

func stringList(key, member string, req bool, limit int) Param {
	return listParam(key, member, req, limit, Param{Kind: KindString})
}

func nextToken() []Param { return []Param{required("NextToken", KindString)} }

func addressFields() []Param {
	return []Param{
		required("Name", KindString),
		required("AddressLine1", KindString),
		optional("AddressLine2", KindString),
		optional("AddressLine3", KindString),
		optional("DistrictOrCounty", KindString),
		required("Email", KindString),
		required("City", KindString),
		optional("StateOrProvinceCode", KindString),
		required("PostalCode", KindString),
		required("CountryCode", KindString),
		required("Phone", KindString),
	}
}

func weightFields() []Param {
	return []Param{required("Value", KindScalar), required("Unit", KindString)}
}

func dimensionFields() []Param {
	return []Param{
		optional("Length", KindScalar),
		optional("Width", KindScalar),
		optional("Height", KindScalar),
		optional("Unit", KindString),
		optional("PredefinedPackageDimensions", KindString),
	}
}

func currencyFields() []Param {
	return []Param{required("CurrencyCode", KindString), required("Amount", KindScalar)}
}

func additionalInputShape() Param {
	return Param{Kind: KindStruct, Fields: []Param{
		required("AdditionalInputFieldName", KindString),
		structParam("AdditionalSellerInput", true,
			required("DataType", KindString),
			optional("ValueAsString", KindString),
			optional("ValueAsBoolean", KindBool),
			optional("ValueAsInteger", KindInt),
			optional("ValueAsTimestamp", KindTime),
			structParam("ValueAsAddress", false, addressFields()...),
			structParam("ValueAsWeight", false, weightFields()...),
			structParam("ValueAsDimension", false, dimensionFields()...),
			structParam("ValueAsCurrency", false, currencyFields()...),
		),
	}}
}

func shipmentRequestDetails() Param {
	item := Param{Kind: KindStruct, Fields: []Param{
		required("OrderItemId", KindString),
		required("Quantity", KindScalar),
		structParam("ItemWeight", false, weightFields()...),
		optional("ItemDescription", KindString),
		stringList("TransparencyCodeList", "member", false, 0),
		listParam("ItemLevelSellerInputsList", "member", false, 0, additionalInputShape()),
	}}
	return structParam("ShipmentRequestDetails", true,
		required("AmazonOrderId", KindString),
		optional("SellerOrderId", KindString),
		listParam("ItemList", "Item", true, 0, item),
		structParam("ShipFromAddress", true, addressFields()...),
		structParam("PackageDimensions", true, dimensionFields()...),
		structParam("Weight", true, weightFields()...),
		optional("MustArriveByDate", KindTime),
		optional("ShipDate", KindTime),
		structParam("ShippingServiceOptions", true,
			required("DeliveryExperience", KindString),
			structParam("DeclaredValue", false, currencyFields()...),
			required("CarrierWillPickUp", KindBool),
			optional("LabelFormat", KindString),
		),
		structParam("LabelCustomization", false,
			optional("CustomTextForLabel", KindString),
			optional("StandardIdForLabel", KindString),
		),
	)
}

func orderListParams() []Param {
	return []Param{
		optional("CreatedAfter", KindTime),
		optional("CreatedBefore", KindTime),
		optional("LastUpdatedAfter", KindTime),
		optional("LastUpdatedBefore", KindTime),
		stringList("OrderStatus", "Status", false, 0),
		stringList("MarketplaceId", "Id", true, 50),
		stringList("FulfillmentChannel", "Channel", false, 0),
		stringList("PaymentMethod", "Method", false, 0),
		optional("BuyerEmail", KindString),
		optional("SellerOrderId", KindString),
		optional("MaxResultsPerPage", KindInt),
		stringList("TFMShipmentStatus", "Status", false, 0),
		stringList("EasyShipShipmentStatus", "Status", false, 0),
	}
}

func feedFilterParams() []Param {
	return []Param{
		stringList("FeedTypeList", "Type", false, 0),
		stringList("FeedProcessingStatusList", "Status", false, 0),
		optional("SubmittedFromDate", KindTime),
		optional("SubmittedToDate", KindTime),
	}
}

func reportRequestFilterParams() []Param {
	return []Param{
		stringList("ReportRequestIdList", "Id", false, 0),
		stringList("ReportTypeList", "Type", false, 0),
		stringList("ReportProcessingStatusList", "Status", false, 0),
		optional("RequestedFromDate", KindTime),
		optional("RequestedToDate", KindTime),
	}
}

func skuPricingParams(withCondition, withExcludeMe bool) []Param {
	p := []Param{
		required("MarketplaceId", KindString),
		stringList("SellerSKUList", "SellerSKU", true, 20),
	}
	if withCondition {
		p = append(p, optional("ItemCondition", KindString))
	}
	if withExcludeMe {
		p = append(p, optional("ExcludeMe", KindBool))
	}
	return p
}

// DefaultOperations returns a fresh copy of the built-in operation catalog.
func DefaultOperations() Operations {
	ops := []Operation{
		// Shared: the section comes from the caller
		{Action: ActionGetServiceStatus},

		// Merchant fulfillment
		{Action: ActionGetEligibleShippingServices, Section: SectionMerchantFulfillment, Params: []Param{
			shipmentRequestDetails(),
			structParam("ShippingOfferingFilter", false,
				optional("IncludePackingSlipWithLabel", KindBool),
				optional("IncludeComplexShippingOptions", KindBool),
				optional("CarrierWillPickUp", KindBool),
				optional("DeliveryExperience", KindString),
			),
		}},
		{Action: ActionGetAdditionalSellerInputs, Section: SectionMerchantFulfillment, Params: []Param{
			required("OrderId", KindString),
			required("ShippingServiceId", KindString),
			structParam("ShipFromAddress", true, addressFields()...),
		}},
		{Action: ActionCreateShipment, Section: SectionMerchantFulfillment, Params: []Param{
			shipmentRequestDetails(),
			required("ShippingServiceId", KindString),
			optional("ShippingServiceOfferId", KindString),
			optional("HazmatType", KindString),
			structParam("LabelFormatOption", false, optional("IncludePackingSlipWithLabel", KindBool)),
			listParam("ShipmentLevelSellerInputsList", "member", false, 0, additionalInputShape()),
		}},
		{Action: ActionGetShipment, Section: SectionMerchantFulfillment, Params: []Param{required("ShipmentId", KindString)}},
		{Action: ActionCancelShipment, Section: SectionMerchantFulfillment, Params: []Param{required("ShipmentId", KindString)}},

		// Orders
		{Action: ActionListOrders, Section: SectionOrders, Params: orderListParams()},
		{Action: ActionListOrdersByNextToken, Section: SectionOrders, Params: nextToken()},
		{Action: ActionGetOrder, Section: SectionOrders, Params: []Param{stringList("AmazonOrderId", "Id", true, 50)}},
		{Action: ActionListOrderItems, Section: SectionOrders, Params: []Param{required("AmazonOrderId", KindString)}},
		{Action: ActionListOrderItemsByNextToken, Section: SectionOrders, Params: nextToken()},

		// Fulfillment inventory
		{Action: ActionListInventorySupply, Section: SectionFulfillmentInventory, Params: []Param{
			stringList("SellerSkus", "member", false, 50),
			optional("QueryStartDateTime", KindTime),
			optional("ResponseGroup", KindString),
			optional("MarketplaceId", KindString),
		}},
		{Action: ActionListInventorySupplyByNextToken, Section: SectionFulfillmentInventory, Params: nextToken()},

		// Sellers
		{Action: ActionListMarketplaceParticipations, Section: SectionSellers},
		{Action: ActionListMarketplaceParticipationsByNextToken, Section: SectionSellers, Params: nextToken()},

		// Products
		{Action: ActionListMatchingProducts, Section: SectionProducts, Params: []Param{
			required("MarketplaceId", KindString),
			required("Query", KindString),
			optional("QueryContextId", KindString),
		}},
		{Action: ActionGetMatchingProductForID, Section: SectionProducts, Params: []Param{
			required("MarketplaceId", KindString),
			required("IdType", KindString),
			stringList("IdList", "Id", true, 5),
		}},
		{Action: ActionGetCompetitivePricingForSKU, Section: SectionProducts, Params: skuPricingParams(false, false)},
		{Action: ActionGetLowestOfferListingsForSKU, Section: SectionProducts, Params: skuPricingParams(true, true)},
		{Action: ActionGetMyPriceForSKU, Section: SectionProducts, Params: skuPricingParams(true, false)},

		// Feeds
		{Action: ActionSubmitFeed, Section: SectionFeeds, Params: []Param{
			required("FeedType", KindString),
			stringList("MarketplaceIdList", "Id", false, 0),
			optional("PurgeAndReplace", KindBool),
			optional("FeedOptions", KindString),
			required("ContentMD5Value", KindString),
		}},
		{Action: ActionGetFeedSubmissionList, Section: SectionFeeds, Params: append([]Param{
			stringList("FeedSubmissionIdList", "Id", false, 100),
			optional("MaxCount", KindInt),
		}, feedFilterParams()...)},
		{Action: ActionGetFeedSubmissionListByNextToken, Section: SectionFeeds, Params: nextToken()},
		{Action: ActionGetFeedSubmissionCount, Section: SectionFeeds, Params: feedFilterParams()},
		{Action: ActionCancelFeedSubmissions, Section: SectionFeeds, Params: []Param{
			stringList("FeedSubmissionIdList", "Id", false, 100),
			stringList("FeedTypeList", "Type", false, 0),
			optional("SubmittedFromDate", KindTime),
			optional("SubmittedToDate", KindTime),
		}},
		{Action: ActionGetFeedSubmissionResult, Section: SectionFeeds, Params: []Param{required("FeedSubmissionId", KindString)}},

		// Reports
		{Action: ActionRequestReport, Section: SectionReports, Params: []Param{
			required("ReportType", KindString),
			optional("StartDate", KindTime),
			optional("EndDate", KindTime),
			optional("ReportOptions", KindString),
			stringList("MarketplaceIdList", "Id", false, 0),
		}},
		{Action: ActionGetReportRequestList, Section: SectionReports, Params: append(reportRequestFilterParams(),
			optional("MaxCount", KindInt),
		)},
		{Action: ActionGetReportRequestListByNextToken, Section: SectionReports, Params: nextToken()},
		{Action: ActionGetReportList, Section: SectionReports, Params: []Param{
			optional("MaxCount", KindInt),
			stringList("ReportTypeList", "Type", false, 0),
			optional("Acknowledged", KindBool),
			stringList("ReportRequestIdList", "Id", false, 0),
			optional("AvailableFromDate", KindTime),
			optional("AvailableToDate", KindTime),
		}},
		{Action: ActionGetReportListByNextToken, Section: SectionReports, Params: nextToken()},
		{Action: ActionGetReport, Section: SectionReports, Params: []Param{required("ReportId", KindString)}},
		{Action: ActionCancelReportRequests, Section: SectionReports, Params: reportRequestFilterParams()},
	}

	catalog := make(Operations, len(ops))
	for _, op := range ops {
		catalog[op.Action] = op
	}
	return catalog
}

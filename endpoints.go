package mws

import "strings"

// API sections
const (
	SectionMerchantFulfillment  = "MerchantFulfillment"
	SectionOrders               = "Orders"
	SectionFulfillmentInventory = "FulfillmentInventory"
	SectionSellers              = "Sellers"
	SectionProducts             = "Products"
	SectionFeeds                = "Feeds"
	SectionReports              = "Reports"
)

// Account parameter names. Feeds and Reports identify the seller as
// Merchant, every other section as SellerId.
const (
	AccountSellerID = "SellerId"
	AccountMerchant = "Merchant"
)

// Section describes where an API section lives and which version it speaks.
type Section struct {
	Name       string
	Path       string
	Version    string
	AccountKey string
}

// defaultSections can be overridden per client with WithEndpointOverrides.
var defaultSections = map[string]Section{
	SectionMerchantFulfillment:  {Name: SectionMerchantFulfillment, Path: "/MerchantFulfillment/2015-06-01", Version: "2015-06-01", AccountKey: AccountSellerID},
	SectionOrders:               {Name: SectionOrders, Path: "/Orders/2013-09-01", Version: "2013-09-01", AccountKey: AccountSellerID},
	SectionFulfillmentInventory: {Name: SectionFulfillmentInventory, Path: "/FulfillmentInventory/2010-10-01", Version: "2010-10-01", AccountKey: AccountSellerID},
	SectionSellers:              {Name: SectionSellers, Path: "/Sellers/2011-07-01", Version: "2011-07-01", AccountKey: AccountSellerID},
	SectionProducts:             {Name: SectionProducts, Path: "/Products/2011-10-01", Version: "2011-10-01", AccountKey: AccountSellerID},
	SectionFeeds:                {Name: SectionFeeds, Path: "/", Version: "2009-01-01", AccountKey: AccountMerchant},
	SectionReports:              {Name: SectionReports, Path: "/", Version: "2009-01-01", AccountKey: AccountMerchant},
}

// Marketplace ties a country code to its MWS endpoint and marketplace ID.
type Marketplace struct {
	Code    string
	BaseURL string
	ID      string
}

const (
	hostNA = "https://mws.amazonservices.com"
	hostEU = "https://mws-eu.amazonservices.com"
	hostFE = "https://mws-fe.amazonservices.com"
)

var marketplaces = map[string]Marketplace{
	"AE": {Code: "AE", BaseURL: "https://mws.amazonservices.ae", ID: "A2VIGQ35RCS4UG"},
	"AU": {Code: "AU", BaseURL: "https://mws.amazonservices.com.au", ID: "A39IBJ37TRP1C6"},
	"BR": {Code: "BR", BaseURL: hostNA, ID: "A2Q3Y263D00KWC"},
	"CA": {Code: "CA", BaseURL: "https://mws.amazonservices.ca", ID: "A2EUQ1WTGCTBG2"},
	"DE": {Code: "DE", BaseURL: hostEU, ID: "A1PA6795UKMFR9"},
	"EG": {Code: "EG", BaseURL: hostEU, ID: "ARBP9OOSHTCHU"},
	"ES": {Code: "ES", BaseURL: hostEU, ID: "A1RKKUPIHCS9HS"},
	"FR": {Code: "FR", BaseURL: hostEU, ID: "A13V1IB3VIYZZH"},
	"GB": {Code: "GB", BaseURL: hostEU, ID: "A1F83G8C2ARO7P"},
	"IN": {Code: "IN", BaseURL: "https://mws.amazonservices.in", ID: "A21TJRUUN4KGV"},
	"IT": {Code: "IT", BaseURL: hostEU, ID: "APJ6JRA9NG5V4"},
	"JP": {Code: "JP", BaseURL: "https://mws.amazonservices.jp", ID: "A1VC38T7YXB528"},
	"MX": {Code: "MX", BaseURL: "https://mws.amazonservices.com.mx", ID: "A1AM78C64UM0Y8"},
	"NL": {Code: "NL", BaseURL: hostEU, ID: "A1805IZSGTT6HS"},
	"SA": {Code: "SA", BaseURL: hostEU, ID: "A17E79C6D8DWNP"},
	"SE": {Code: "SE", BaseURL: hostEU, ID: "A2NODRKZP88ZB9"},
	"SG": {Code: "SG", BaseURL: hostFE, ID: "A19VAU5U5O7RUS"},
	"TR": {Code: "TR", BaseURL: hostEU, ID: "A33AVAJ2PDY3EV"},
	"UK": {Code: "UK", BaseURL: hostEU, ID: "A1F83G8C2ARO7P"},
	"US": {Code: "US", BaseURL: hostNA, ID: "ATVPDKIKX0DER"},
}

// LookupMarketplace returns the marketplace for a two-letter country code.
func LookupMarketplace(code string) (Marketplace, bool) {
	m, ok := marketplaces[strings.ToUpper(code)]
	return m, ok
}

// section returns the section taking overrides into account.
func (c *Client) section(name string) (Section, bool) {
	s, ok := defaultSections[name]
	if !ok {
		return Section{}, false
	}
	if v, ok2 := c.endpoints[name]; ok2 {
		s.Path = v
	}
	return s, true
}

// WithEndpointOverrides replaces the request path of the named sections.
func WithEndpointOverrides(m map[string]string) ClientOption {
	return func(c *Client) {
		if c.endpoints == nil {
			c.endpoints = map[string]string{}
		}
		for k, v := range m {
			c.endpoints[k] = v
		}
	}
}

// GetEndpoints returns the merged section paths. The map is a copy.
func (c *Client) GetEndpoints() map[string]string {
	merged := make(map[string]string, len(defaultSections))
	for k, v := range defaultSections {
		merged[k] = v.Path
	}
	for k, v := range c.endpoints {
		merged[k] = v
	}
	return merged
}

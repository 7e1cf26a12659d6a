package mws

import "context"

// SellerService defines seller account operations
type SellerService interface {
	ListMarketplaceParticipations(ctx context.Context) (*ParticipationList, error)
	ListMarketplaceParticipationsByNextToken(ctx context.Context, nextToken string) (*ParticipationList, error)
	GetServiceStatus(ctx context.Context) (*ServiceStatus, error)
}

// Participation links the seller to a marketplace
type Participation struct {
	MarketplaceID              string `xml:"MarketplaceId"`
	SellerID                   string `xml:"SellerId"`
	HasSellerSuspendedListings string `xml:"HasSellerSuspendedListings"`
}

// MarketplaceInfo describes a marketplace the seller can sell in
type MarketplaceInfo struct {
	MarketplaceID       string `xml:"MarketplaceId"`
	Name                string `xml:"Name"`
	DefaultCountryCode  string `xml:"DefaultCountryCode"`
	DefaultCurrencyCode string `xml:"DefaultCurrencyCode"`
	DefaultLanguageCode string `xml:"DefaultLanguageCode"`
	DomainName          string `xml:"DomainName"`
}

// ParticipationList is one page of marketplace participations.
type ParticipationList struct {
	NextToken      string            `xml:"NextToken"`
	Participations []Participation   `xml:"ListParticipations>Participation"`
	Marketplaces   []MarketplaceInfo `xml:"ListMarketplaces>Marketplace"`
}

// sellerService implements SellerService
type sellerService struct {
	client *Client
}

func (s *sellerService) ListMarketplaceParticipations(ctx context.Context) (*ParticipationList, error) {
	resp, err := s.client.invoke(ctx, "", ActionListMarketplaceParticipations, nil)
	if err != nil {
		return nil, err
	}
	return decodeParticipations(resp)
}

func (s *sellerService) ListMarketplaceParticipationsByNextToken(ctx context.Context, nextToken string) (*ParticipationList, error) {
	resp, err := s.client.invoke(ctx, "", ActionListMarketplaceParticipationsByNextToken, Args{"NextToken": optString(nextToken)})
	if err != nil {
		return nil, err
	}
	return decodeParticipations(resp)
}

func (s *sellerService) GetServiceStatus(ctx context.Context) (*ServiceStatus, error) {
	return s.client.serviceStatus(ctx, SectionSellers)
}

func decodeParticipations(resp *Response) (*ParticipationList, error) {
	var result struct {
		First *ParticipationList `xml:"ListMarketplaceParticipationsResult"`
		Next  *ParticipationList `xml:"ListMarketplaceParticipationsByNextTokenResult"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return firstNonNil(result.First, result.Next), nil
}

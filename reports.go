package mws

import (
	"context"
	"time"
)

// Report processing statuses
const (
	ReportStatusSubmitted  = "_SUBMITTED_"
	ReportStatusInProgress = "_IN_PROGRESS_"
	ReportStatusCancelled  = "_CANCELLED_"
	ReportStatusDone       = "_DONE_"
	ReportStatusDoneNoData = "_DONE_NO_DATA_"
)

// ReportService defines report request and download operations
type ReportService interface {
	RequestReport(ctx context.Context, in RequestReportInput) (*ReportRequestInfo, error)
	GetReportRequestList(ctx context.Context, opts ReportRequestListOptions) (*ReportRequestList, error)
	GetReportRequestListByNextToken(ctx context.Context, nextToken string) (*ReportRequestList, error)
	GetReportList(ctx context.Context, opts ReportListOptions) (*ReportList, error)
	GetReportListByNextToken(ctx context.Context, nextToken string) (*ReportList, error)
	GetReport(ctx context.Context, reportID string) (*Response, error)
	CancelReportRequests(ctx context.Context, filter ReportRequestFilter) (*ReportRequestList, error)
}

// ReportRequestInfo describes a report request
type ReportRequestInfo struct {
	ReportRequestID        string    `xml:"ReportRequestId"`
	ReportType             string    `xml:"ReportType"`
	StartDate              time.Time `xml:"StartDate"`
	EndDate                time.Time `xml:"EndDate"`
	Scheduled              bool      `xml:"Scheduled"`
	SubmittedDate          time.Time `xml:"SubmittedDate"`
	ReportProcessingStatus string    `xml:"ReportProcessingStatus"`
	GeneratedReportID      string    `xml:"GeneratedReportId"`
}

// ReportInfo describes a generated report
type ReportInfo struct {
	ReportID        string    `xml:"ReportId"`
	ReportType      string    `xml:"ReportType"`
	ReportRequestID string    `xml:"ReportRequestId"`
	AvailableDate   time.Time `xml:"AvailableDate"`
	Acknowledged    bool      `xml:"Acknowledged"`
}

// ReportRequestList is one page of report requests. Count is only set by
// CancelReportRequests.
type ReportRequestList struct {
	NextToken string              `xml:"NextToken"`
	HasNext   bool                `xml:"HasNext"`
	Count     int                 `xml:"Count"`
	Requests  []ReportRequestInfo `xml:"ReportRequestInfo"`
}

// ReportList is one page of generated reports.
type ReportList struct {
	NextToken string       `xml:"NextToken"`
	HasNext   bool         `xml:"HasNext"`
	Reports   []ReportInfo `xml:"ReportInfo"`
}

// RequestReportInput is the RequestReport request.
type RequestReportInput struct {
	ReportType     string
	StartDate      *time.Time
	EndDate        *time.Time
	ReportOptions  string
	MarketplaceIDs []string
}

// Args implements the argument builder for RequestReport.
func (in RequestReportInput) Args() (Args, error) {
	return Args{
		"ReportType":        optString(in.ReportType),
		"StartDate":         optTime(in.StartDate),
		"EndDate":           optTime(in.EndDate),
		"ReportOptions":     optString(in.ReportOptions),
		"MarketplaceIdList": optStrings("Id", in.MarketplaceIDs),
	}, nil
}

// ReportRequestFilter narrows report request queries
type ReportRequestFilter struct {
	RequestIDs         []string
	ReportTypes        []string
	ProcessingStatuses []string
	RequestedFromDate  *time.Time
	RequestedToDate    *time.Time
}

// Args implements the argument builder for CancelReportRequests.
func (f ReportRequestFilter) Args() (Args, error) {
	return Args{
		"ReportRequestIdList":        optStrings("Id", f.RequestIDs),
		"ReportTypeList":             optStrings("Type", f.ReportTypes),
		"ReportProcessingStatusList": optStrings("Status", f.ProcessingStatuses),
		"RequestedFromDate":          optTime(f.RequestedFromDate),
		"RequestedToDate":            optTime(f.RequestedToDate),
	}, nil
}

// ReportRequestListOptions filters GetReportRequestList
type ReportRequestListOptions struct {
	ReportRequestFilter
	MaxCount int
}

// Args implements the argument builder for GetReportRequestList.
func (o ReportRequestListOptions) Args() (Args, error) {
	if err := checkMaxCount(o.MaxCount); err != nil {
		return nil, err
	}
	args, _ := o.ReportRequestFilter.Args()
	args["MaxCount"] = optInt(o.MaxCount)
	return args, nil
}

// ReportListOptions filters GetReportList
type ReportListOptions struct {
	MaxCount          int
	ReportTypes       []string
	Acknowledged      *bool
	RequestIDs        []string
	AvailableFromDate *time.Time
	AvailableToDate   *time.Time
}

// Args implements the argument builder for GetReportList.
func (o ReportListOptions) Args() (Args, error) {
	if err := checkMaxCount(o.MaxCount); err != nil {
		return nil, err
	}
	return Args{
		"MaxCount":            optInt(o.MaxCount),
		"ReportTypeList":      optStrings("Type", o.ReportTypes),
		"Acknowledged":        optBool(o.Acknowledged),
		"ReportRequestIdList": optStrings("Id", o.RequestIDs),
		"AvailableFromDate":   optTime(o.AvailableFromDate),
		"AvailableToDate":     optTime(o.AvailableToDate),
	}, nil
}

// reportService implements ReportService
type reportService struct {
	client *Client
}

func (s *reportService) RequestReport(ctx context.Context, in RequestReportInput) (*ReportRequestInfo, error) {
	resp, err := s.client.invokeInput(ctx, ActionRequestReport, in)
	if err != nil {
		return nil, err
	}
	var result struct {
		Info ReportRequestInfo `xml:"RequestReportResult>ReportRequestInfo"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result.Info, nil
}

func (s *reportService) GetReportRequestList(ctx context.Context, opts ReportRequestListOptions) (*ReportRequestList, error) {
	resp, err := s.client.invokeInput(ctx, ActionGetReportRequestList, opts)
	if err != nil {
		return nil, err
	}
	return decodeReportRequests(resp)
}

func (s *reportService) GetReportRequestListByNextToken(ctx context.Context, nextToken string) (*ReportRequestList, error) {
	resp, err := s.client.invoke(ctx, "", ActionGetReportRequestListByNextToken, Args{"NextToken": optString(nextToken)})
	if err != nil {
		return nil, err
	}
	return decodeReportRequests(resp)
}

func (s *reportService) GetReportList(ctx context.Context, opts ReportListOptions) (*ReportList, error) {
	resp, err := s.client.invokeInput(ctx, ActionGetReportList, opts)
	if err != nil {
		return nil, err
	}
	return decodeReportList(resp)
}

func (s *reportService) GetReportListByNextToken(ctx context.Context, nextToken string) (*ReportList, error) {
	resp, err := s.client.invoke(ctx, "", ActionGetReportListByNextToken, Args{"NextToken": optString(nextToken)})
	if err != nil {
		return nil, err
	}
	return decodeReportList(resp)
}

// GetReport downloads a generated report. The body is the raw report
// document, checked against Content-MD5 when present.
func (s *reportService) GetReport(ctx context.Context, reportID string) (*Response, error) {
	resp, err := s.client.invoke(ctx, "", ActionGetReport, Args{"ReportId": optString(reportID)})
	if err != nil {
		return nil, err
	}
	if err := resp.VerifyContentMD5(); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *reportService) CancelReportRequests(ctx context.Context, filter ReportRequestFilter) (*ReportRequestList, error) {
	resp, err := s.client.invokeInput(ctx, ActionCancelReportRequests, filter)
	if err != nil {
		return nil, err
	}
	return decodeReportRequests(resp)
}

func decodeReportRequests(resp *Response) (*ReportRequestList, error) {
	var result struct {
		List   *ReportRequestList `xml:"GetReportRequestListResult"`
		Next   *ReportRequestList `xml:"GetReportRequestListByNextTokenResult"`
		Cancel *ReportRequestList `xml:"CancelReportRequestsResult"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	if result.Cancel != nil {
		return result.Cancel, nil
	}
	return firstNonNil(result.List, result.Next), nil
}

func decodeReportList(resp *Response) (*ReportList, error) {
	var result struct {
		List *ReportList `xml:"GetReportListResult"`
		Next *ReportList `xml:"GetReportListByNextTokenResult"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return firstNonNil(result.List, result.Next), nil
}

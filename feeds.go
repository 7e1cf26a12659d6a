package mws

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Feed processing statuses
const (
	FeedStatusSubmitted  = "_SUBMITTED_"
	FeedStatusInProgress = "_IN_PROGRESS_"
	FeedStatusCancelled  = "_CANCELLED_"
	FeedStatusDone       = "_DONE_"
)

// Feed content types
const (
	ContentTypeXML      = "text/xml"
	ContentTypeFlatFile = "text/tab-separated-values; charset=iso-8859-1"
)

const maxListCount = 100

// FeedService defines feed submission operations
type FeedService interface {
	SubmitFeed(ctx context.Context, in SubmitFeedInput) (*FeedSubmissionInfo, error)
	GetFeedSubmissionList(ctx context.Context, opts FeedSubmissionListOptions) (*FeedSubmissionList, error)
	GetFeedSubmissionListByNextToken(ctx context.Context, nextToken string) (*FeedSubmissionList, error)
	GetFeedSubmissionCount(ctx context.Context, filter FeedFilter) (int, error)
	CancelFeedSubmissions(ctx context.Context, opts CancelFeedSubmissionsOptions) (*FeedSubmissionList, error)
	GetFeedSubmissionResult(ctx context.Context, feedSubmissionID string) (*Response, error)
}

// FeedSubmissionInfo describes a submitted feed
type FeedSubmissionInfo struct {
	FeedSubmissionID        string    `xml:"FeedSubmissionId"`
	FeedType                string    `xml:"FeedType"`
	SubmittedDate           time.Time `xml:"SubmittedDate"`
	FeedProcessingStatus    string    `xml:"FeedProcessingStatus"`
	StartedProcessingDate   time.Time `xml:"StartedProcessingDate"`
	CompletedProcessingDate time.Time `xml:"CompletedProcessingDate"`
}

// FeedSubmissionList is one page of feed submissions. Count is only set by
// CancelFeedSubmissions.
type FeedSubmissionList struct {
	NextToken   string               `xml:"NextToken"`
	HasNext     bool                 `xml:"HasNext"`
	Count       int                  `xml:"Count"`
	Submissions []FeedSubmissionInfo `xml:"FeedSubmissionInfo"`
}

// SubmitFeedInput is a feed upload. ContentType defaults to text/xml.
type SubmitFeedInput struct {
	FeedType        string
	Content         []byte
	ContentType     string
	MarketplaceIDs  []string
	PurgeAndReplace *bool
	FeedOptions     string
}

// Args implements the argument builder for SubmitFeed. The content digest
// travels both as a parameter and as the Content-MD5 header.
func (in SubmitFeedInput) Args() (Args, error) {
	if len(in.Content) == 0 {
		return nil, errors.New("feed content is required")
	}
	return Args{
		"FeedType":          optString(in.FeedType),
		"MarketplaceIdList": optStrings("Id", in.MarketplaceIDs),
		"PurgeAndReplace":   optBool(in.PurgeAndReplace),
		"FeedOptions":       optString(in.FeedOptions),
		"ContentMD5Value":   String(ContentMD5(in.Content)),
	}, nil
}

// FeedFilter narrows feed submission queries
type FeedFilter struct {
	FeedTypes          []string
	ProcessingStatuses []string
	SubmittedFromDate  *time.Time
	SubmittedToDate    *time.Time
}

// Args implements the argument builder for GetFeedSubmissionCount.
func (f FeedFilter) Args() (Args, error) {
	return Args{
		"FeedTypeList":             optStrings("Type", f.FeedTypes),
		"FeedProcessingStatusList": optStrings("Status", f.ProcessingStatuses),
		"SubmittedFromDate":        optTime(f.SubmittedFromDate),
		"SubmittedToDate":          optTime(f.SubmittedToDate),
	}, nil
}

// FeedSubmissionListOptions filters GetFeedSubmissionList
type FeedSubmissionListOptions struct {
	FeedFilter
	SubmissionIDs []string
	MaxCount      int
}

// Args implements the argument builder for GetFeedSubmissionList.
func (o FeedSubmissionListOptions) Args() (Args, error) {
	if err := checkMaxCount(o.MaxCount); err != nil {
		return nil, err
	}
	args, _ := o.FeedFilter.Args()
	args["FeedSubmissionIdList"] = optStrings("Id", o.SubmissionIDs)
	args["MaxCount"] = optInt(o.MaxCount)
	return args, nil
}

// CancelFeedSubmissionsOptions selects the submissions to cancel
type CancelFeedSubmissionsOptions struct {
	SubmissionIDs     []string
	FeedTypes         []string
	SubmittedFromDate *time.Time
	SubmittedToDate   *time.Time
}

// Args implements the argument builder for CancelFeedSubmissions.
func (o CancelFeedSubmissionsOptions) Args() (Args, error) {
	return Args{
		"FeedSubmissionIdList": optStrings("Id", o.SubmissionIDs),
		"FeedTypeList":         optStrings("Type", o.FeedTypes),
		"SubmittedFromDate":    optTime(o.SubmittedFromDate),
		"SubmittedToDate":      optTime(o.SubmittedToDate),
	}, nil
}

func checkMaxCount(n int) error {
	if n < 0 || n > maxListCount {
		return fmt.Errorf("MaxCount must be between 1 and %d, got %d", maxListCount, n)
	}
	return nil
}

// feedService implements FeedService
type feedService struct {
	client *Client
}

func (s *feedService) SubmitFeed(ctx context.Context, in SubmitFeedInput) (*FeedSubmissionInfo, error) {
	args, err := in.Args()
	if err != nil {
		return nil, err
	}
	req, err := s.client.prepare("", ActionSubmitFeed, args)
	if err != nil {
		return nil, err
	}
	req.Body = in.Content
	req.ContentType = in.ContentType
	if req.ContentType == "" {
		req.ContentType = ContentTypeXML
	}

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var result struct {
		Info FeedSubmissionInfo `xml:"SubmitFeedResult>FeedSubmissionInfo"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result.Info, nil
}

func (s *feedService) GetFeedSubmissionList(ctx context.Context, opts FeedSubmissionListOptions) (*FeedSubmissionList, error) {
	resp, err := s.client.invokeInput(ctx, ActionGetFeedSubmissionList, opts)
	if err != nil {
		return nil, err
	}
	return decodeFeedSubmissions(resp)
}

func (s *feedService) GetFeedSubmissionListByNextToken(ctx context.Context, nextToken string) (*FeedSubmissionList, error) {
	resp, err := s.client.invoke(ctx, "", ActionGetFeedSubmissionListByNextToken, Args{"NextToken": optString(nextToken)})
	if err != nil {
		return nil, err
	}
	return decodeFeedSubmissions(resp)
}

func (s *feedService) GetFeedSubmissionCount(ctx context.Context, filter FeedFilter) (int, error) {
	resp, err := s.client.invokeInput(ctx, ActionGetFeedSubmissionCount, filter)
	if err != nil {
		return 0, err
	}
	var result struct {
		Count int `xml:"GetFeedSubmissionCountResult>Count"`
	}
	if err := resp.Decode(&result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

func (s *feedService) CancelFeedSubmissions(ctx context.Context, opts CancelFeedSubmissionsOptions) (*FeedSubmissionList, error) {
	resp, err := s.client.invokeInput(ctx, ActionCancelFeedSubmissions, opts)
	if err != nil {
		return nil, err
	}
	return decodeFeedSubmissions(resp)
}

// GetFeedSubmissionResult returns the processing report of a feed. The body
// is checked against the Content-MD5 header when the server sends one.
func (s *feedService) GetFeedSubmissionResult(ctx context.Context, feedSubmissionID string) (*Response, error) {
	resp, err := s.client.invoke(ctx, "", ActionGetFeedSubmissionResult, Args{"FeedSubmissionId": optString(feedSubmissionID)})
	if err != nil {
		return nil, err
	}
	if err := resp.VerifyContentMD5(); err != nil {
		return nil, err
	}
	return resp, nil
}

func decodeFeedSubmissions(resp *Response) (*FeedSubmissionList, error) {
	var result struct {
		List   *FeedSubmissionList `xml:"GetFeedSubmissionListResult"`
		Next   *FeedSubmissionList `xml:"GetFeedSubmissionListByNextTokenResult"`
		Cancel *FeedSubmissionList `xml:"CancelFeedSubmissionsResult"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	if result.Cancel != nil {
		return result.Cancel, nil
	}
	return firstNonNil(result.List, result.Next), nil
}

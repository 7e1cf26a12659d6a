package mws

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productFeed = `<?xml version="1.0" encoding="utf-8"?>
<AmazonEnvelope><Header><MerchantIdentifier>A1SELLER</MerchantIdentifier></Header>
<MessageType>Product</MessageType></AmazonEnvelope>`

func TestSubmitFeed(t *testing.T) {
	var body, contentType, contentMD5 string
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		contentType = r.Header.Get("Content-Type")
		contentMD5 = r.Header.Get("Content-MD5")
		xmlResponse(`<SubmitFeedResponse><SubmitFeedResult><FeedSubmissionInfo>` +
			`<FeedSubmissionId>50001</FeedSubmissionId><FeedType>_POST_PRODUCT_DATA_</FeedType>` +
			`<SubmittedDate>2024-06-01T12:00:01Z</SubmittedDate>` +
			`<FeedProcessingStatus>_SUBMITTED_</FeedProcessingStatus>` +
			`</FeedSubmissionInfo></SubmitFeedResult></SubmitFeedResponse>`)(w, r)
	})

	info, err := c.Feeds.SubmitFeed(context.Background(), SubmitFeedInput{
		FeedType:        "_POST_PRODUCT_DATA_",
		Content:         []byte(productFeed),
		MarketplaceIDs:  []string{"ATVPDKIKX0DER"},
		PurgeAndReplace: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "50001", info.FeedSubmissionID)
	assert.Equal(t, FeedStatusSubmitted, info.FeedProcessingStatus)
	assert.Equal(t, 2024, info.SubmittedDate.Year())

	assert.Equal(t, productFeed, body)
	assert.Equal(t, ContentTypeXML, contentType)
	assert.Equal(t, ContentMD5([]byte(productFeed)), contentMD5)

	sent := rec.last(t)
	assert.Equal(t, "SubmitFeed", sent.Get("Action"))
	assert.Equal(t, testSellerID, sent.Get("Merchant"))
	assert.Equal(t, "2009-01-01", sent.Get("Version"))
	assert.Equal(t, contentMD5, sent.Get("ContentMD5Value"))
	assert.Equal(t, "ATVPDKIKX0DER", sent.Get("MarketplaceIdList.Id.1"))
	assert.Equal(t, "false", sent.Get("PurgeAndReplace"))
	assert.False(t, sent.Has("SellerId"))
}

func TestSubmitFeedValidation(t *testing.T) {
	c, rec := newTestClient(t, xmlResponse(`<SubmitFeedResponse/>`))

	_, err := c.Feeds.SubmitFeed(context.Background(), SubmitFeedInput{FeedType: "_POST_PRODUCT_DATA_"})
	assert.Error(t, err)

	_, err = c.Feeds.SubmitFeed(context.Background(), SubmitFeedInput{Content: []byte("x")})
	var missing *MissingParamError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "FeedType", missing.Key)

	assert.Equal(t, int32(0), rec.calls.Load())
}

func TestGetFeedSubmissionList(t *testing.T) {
	c, rec := newTestClient(t, xmlResponse(`<GetFeedSubmissionListResponse><GetFeedSubmissionListResult>`+
		`<NextToken>f-2</NextToken><HasNext>true</HasNext>`+
		`<FeedSubmissionInfo><FeedSubmissionId>1</FeedSubmissionId></FeedSubmissionInfo>`+
		`<FeedSubmissionInfo><FeedSubmissionId>2</FeedSubmissionId></FeedSubmissionInfo>`+
		`</GetFeedSubmissionListResult></GetFeedSubmissionListResponse>`))

	list, err := c.Feeds.GetFeedSubmissionList(context.Background(), FeedSubmissionListOptions{
		FeedFilter:    FeedFilter{ProcessingStatuses: []string{FeedStatusDone}},
		SubmissionIDs: []string{"1", "2"},
		MaxCount:      10,
	})
	require.NoError(t, err)
	assert.True(t, list.HasNext)
	assert.Equal(t, "f-2", list.NextToken)
	assert.Len(t, list.Submissions, 2)

	sent := rec.last(t)
	assert.Equal(t, "_DONE_", sent.Get("FeedProcessingStatusList.Status.1"))
	assert.Equal(t, "2", sent.Get("FeedSubmissionIdList.Id.2"))
	assert.Equal(t, "10", sent.Get("MaxCount"))

	_, err = c.Feeds.GetFeedSubmissionList(context.Background(), FeedSubmissionListOptions{MaxCount: 101})
	assert.Error(t, err)

	_, err = c.Feeds.GetFeedSubmissionListByNextToken(context.Background(), "f-2")
	require.NoError(t, err)
	assert.Equal(t, "f-2", rec.last(t).Get("NextToken"))
}

func TestGetFeedSubmissionCountAndCancel(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.PostForm.Get("Action") {
		case ActionGetFeedSubmissionCount:
			xmlResponse(`<GetFeedSubmissionCountResponse><GetFeedSubmissionCountResult>` +
				`<Count>463</Count></GetFeedSubmissionCountResult></GetFeedSubmissionCountResponse>`)(w, r)
		default:
			xmlResponse(`<CancelFeedSubmissionsResponse><CancelFeedSubmissionsResult><Count>1</Count>` +
				`<FeedSubmissionInfo><FeedSubmissionId>7</FeedSubmissionId>` +
				`<FeedProcessingStatus>_CANCELLED_</FeedProcessingStatus></FeedSubmissionInfo>` +
				`</CancelFeedSubmissionsResult></CancelFeedSubmissionsResponse>`)(w, r)
		}
	})

	n, err := c.Feeds.GetFeedSubmissionCount(context.Background(), FeedFilter{FeedTypes: []string{"_POST_PRODUCT_DATA_"}})
	require.NoError(t, err)
	assert.Equal(t, 463, n)
	assert.Equal(t, "_POST_PRODUCT_DATA_", rec.last(t).Get("FeedTypeList.Type.1"))

	list, err := c.Feeds.CancelFeedSubmissions(context.Background(), CancelFeedSubmissionsOptions{SubmissionIDs: []string{"7"}})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)
	require.Len(t, list.Submissions, 1)
	assert.Equal(t, FeedStatusCancelled, list.Submissions[0].FeedProcessingStatus)
	assert.Equal(t, "7", rec.last(t).Get("FeedSubmissionIdList.Id.1"))
}

func TestGetFeedSubmissionResultVerifiesDigest(t *testing.T) {
	report := "Feed Processing Summary:\n\tNumber of records processed\t\t1\n"
	digest := ContentMD5([]byte(report))

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.PostForm.Get("FeedSubmissionId") == "bad" {
			w.Header().Set("Content-MD5", ContentMD5([]byte("something else")))
		} else {
			w.Header().Set("Content-MD5", digest)
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, report)
	})

	resp, err := c.Feeds.GetFeedSubmissionResult(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, report, string(resp.Body))

	_, err = c.Feeds.GetFeedSubmissionResult(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrContentMD5Mismatch)
}

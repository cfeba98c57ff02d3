package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shinde-pras/helix-insights-app/internal/fetch"
	"github.com/shinde-pras/helix-insights-app/internal/model"
	"github.com/shinde-pras/helix-insights-app/internal/util"
)

// FDAClient pulls 510(k) premarket notifications from the openFDA device API
type FDAClient struct {
	client   *fetch.Client
	baseURL  string
	apiKey   string
	pageSize int
	now      func() time.Time // Injectable for tests
}

// NewFDAClient creates a client for the openFDA 510(k) endpoint
func NewFDAClient(client *fetch.Client, cfg model.FDAConfig) *FDAClient {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}

	return &FDAClient{
		client:   client,
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// Name returns the source label used in records and reports
func (c *FDAClient) Name() string {
	return string(model.SourceFDA)
}

// fdaResponse mirrors the openFDA 510(k) result envelope
type fdaResponse struct {
	Meta struct {
		Results struct {
			Skip  int `json:"skip"`
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"results"`
	} `json:"meta"`
	Results []fdaResult `json:"results"`
}

type fdaResult struct {
	KNumber      string `json:"k_number"`
	Applicant    string `json:"applicant"`
	DeviceName   string `json:"device_name"`
	ProductCode  string `json:"product_code"`
	DecisionDate string `json:"decision_date"`
	DeviceClass  string `json:"device_class"`
}

// Fetch retrieves clearances whose decision date falls inside the query
// window, paging with the skip parameter until MaxRecords or the feed runs
// out. openFDA answers an empty result set with a 404, which is not an error.
func (c *FDAClient) Fetch(ctx context.Context, q Query) ([]model.Record, model.FetchMeta, error) {
	var (
		records []model.Record
		meta    model.FetchMeta
	)

	maxRecords := q.MaxRecords
	if maxRecords <= 0 {
		maxRecords = c.pageSize
	}

	for skip := 0; len(records) < maxRecords; skip += c.pageSize {
		reqURL := c.buildURL(q, skip, min(c.pageSize, maxRecords-len(records)))

		body, status, err := c.client.Get(ctx, reqURL)
		if err != nil {
			return nil, meta, fmt.Errorf("fda fetch: %w", err)
		}
		meta.StatusCode = status
		if status == http.StatusNotFound {
			break // No matches for this window
		}

		var resp fdaResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, meta, fmt.Errorf("fda decode: %w", err)
		}

		meta.Pages++
		for _, item := range resp.Results {
			records = append(records, normalizeFDA(item))
		}

		if len(resp.Results) < c.pageSize || skip+c.pageSize >= resp.Meta.Results.Total {
			break
		}
	}

	records = dedupe(records)
	meta.Records = len(records)

	return records, meta, nil
}

// buildURL assembles the openFDA query. The search expression uses the
// feed's own syntax; url.Values encodes its spaces as '+' the way openFDA
// expects.
func (c *FDAClient) buildURL(q Query, skip, limit int) string {
	now := c.now()
	from := now.AddDate(0, 0, -q.DaysBack).Format("20060102")
	to := now.Format("20060102")

	search := fmt.Sprintf("decision_date:[%s TO %s]", from, to)
	if q.Term != "" {
		search += fmt.Sprintf(" AND openfda.device_name:%q", q.Term)
	}

	params := url.Values{}
	params.Set("search", search)
	params.Set("limit", strconv.Itoa(limit))
	if skip > 0 {
		params.Set("skip", strconv.Itoa(skip))
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	return c.baseURL + "/device/510k.json?" + params.Encode()
}

// normalizeFDA maps an openFDA result onto the shared record schema
func normalizeFDA(item fdaResult) model.Record {
	company := util.StripMarkup(item.Applicant)
	if company == "" {
		company = "Unknown"
	}

	deviceName := util.StripMarkup(item.DeviceName)
	if deviceName == "" {
		deviceName = "Unknown Device"
	}

	decisionDate := item.DecisionDate
	if decisionDate == "" {
		decisionDate = "N/A"
	}

	class := item.DeviceClass
	if class == "" {
		class = "Unknown"
	}

	return model.Record{
		Source:          model.SourceFDA,
		ID:              item.KNumber,
		Company:         company,
		DeviceName:      deviceName,
		ProductCode:     item.ProductCode,
		DecisionDate:    decisionDate,
		RegulatoryClass: class,
		Status:          "Approved",
	}
}

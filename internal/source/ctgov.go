package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shinde-pras/helix-insights-app/internal/fetch"
	"github.com/shinde-pras/helix-insights-app/internal/model"
	"github.com/shinde-pras/helix-insights-app/internal/util"
)

// CTGovClient pulls interventional studies from the ClinicalTrials.gov v2 API
type CTGovClient struct {
	client   *fetch.Client
	baseURL  string
	pageSize int
	statuses []string
}

// NewCTGovClient creates a client for the ClinicalTrials.gov v2 studies endpoint
func NewCTGovClient(client *fetch.Client, cfg model.CTGovConfig) *CTGovClient {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}

	statuses := cfg.Statuses
	if len(statuses) == 0 {
		statuses = []string{"RECRUITING", "ACTIVE_NOT_RECRUITING", "COMPLETED"}
	}

	return &CTGovClient{
		client:   client,
		baseURL:  cfg.BaseURL,
		pageSize: pageSize,
		statuses: statuses,
	}
}

// Name returns the source label used in records and reports
func (c *CTGovClient) Name() string {
	return string(model.SourceClinicalTrials)
}

// ctgovResponse mirrors the v2 studies envelope. Only the modules the
// normalizer reads are declared.
type ctgovResponse struct {
	Studies       []ctgovStudy `json:"studies"`
	NextPageToken string       `json:"nextPageToken"`
}

type ctgovStudy struct {
	ProtocolSection struct {
		IdentificationModule struct {
			NCTID      string `json:"nctId"`
			BriefTitle string `json:"briefTitle"`
		} `json:"identificationModule"`
		StatusModule struct {
			OverallStatus  string    `json:"overallStatus"`
			StartDate      ctgovDate `json:"startDateStruct"`
			CompletionDate ctgovDate `json:"completionDateStruct"`
		} `json:"statusModule"`
		SponsorCollaboratorsModule struct {
			LeadSponsor struct {
				Name string `json:"name"`
			} `json:"leadSponsor"`
		} `json:"sponsorCollaboratorsModule"`
		DesignModule struct {
			Phases []string `json:"phases"`
		} `json:"designModule"`
	} `json:"protocolSection"`
}

type ctgovDate struct {
	Date string `json:"date"` // YYYY-MM-DD or YYYY-MM
}

// Fetch retrieves interventional studies matching the query, following
// nextPageToken until MaxRecords or the last page.
func (c *CTGovClient) Fetch(ctx context.Context, q Query) ([]model.Record, model.FetchMeta, error) {
	var (
		records   []model.Record
		meta      model.FetchMeta
		pageToken string
	)

	maxRecords := q.MaxRecords
	if maxRecords <= 0 {
		maxRecords = c.pageSize
	}

	for len(records) < maxRecords {
		reqURL := c.buildURL(q, min(c.pageSize, maxRecords-len(records)), pageToken)

		body, status, err := c.client.Get(ctx, reqURL)
		if err != nil {
			return nil, meta, fmt.Errorf("clinicaltrials fetch: %w", err)
		}
		meta.StatusCode = status
		if status == http.StatusNotFound {
			break
		}

		var resp ctgovResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, meta, fmt.Errorf("clinicaltrials decode: %w", err)
		}

		meta.Pages++
		for _, study := range resp.Studies {
			records = append(records, normalizeStudy(study))
		}

		if resp.NextPageToken == "" || len(resp.Studies) == 0 {
			break
		}
		pageToken = resp.NextPageToken
	}

	records = dedupe(records)
	meta.Records = len(records)

	return records, meta, nil
}

// buildURL assembles the v2 studies query using the registry's AREA syntax
func (c *CTGovClient) buildURL(q Query, pageSize int, pageToken string) string {
	term := "AREA[StudyType]Interventional"
	if q.Term != "" {
		term += " AND AREA[Condition]" + q.Term
	}

	params := url.Values{}
	params.Set("query.term", term)
	params.Set("filter.overallStatus", strings.Join(c.statuses, ","))
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("format", "json")
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	return c.baseURL + "/api/v2/studies?" + params.Encode()
}

// normalizeStudy maps a v2 study onto the shared record schema
func normalizeStudy(study ctgovStudy) model.Record {
	protocol := study.ProtocolSection

	company := util.StripMarkup(protocol.SponsorCollaboratorsModule.LeadSponsor.Name)
	if company == "" {
		company = "Unknown"
	}

	title := util.StripMarkup(protocol.IdentificationModule.BriefTitle)
	if title == "" {
		title = "Unknown Trial"
	}

	status := protocol.StatusModule.OverallStatus
	if status == "" {
		status = "Unknown"
	}

	startDate := protocol.StatusModule.StartDate.Date
	if startDate == "" {
		startDate = "N/A"
	}

	phase := "Unknown"
	if len(protocol.DesignModule.Phases) > 0 {
		phase = protocol.DesignModule.Phases[0]
	}

	return model.Record{
		Source:         model.SourceClinicalTrials,
		ID:             protocol.IdentificationModule.NCTID,
		Company:        company,
		TrialTitle:     title,
		Phase:          phase,
		Status:         status,
		StartDate:      startDate,
		CompletionDate: protocol.StatusModule.CompletionDate.Date,
	}
}

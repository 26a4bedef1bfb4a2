package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// JobListing is the normalized job-search result. Provider field names stop
// here; callers never see the upstream shape.
type JobListing struct {
	Title          string `json:"title"`
	EmployerName   string `json:"employerName"`
	ApplyURL       string `json:"applyUrl"`
	Description    string `json:"description"`
	City           string `json:"city"`
	Country        string `json:"country"`
	EmploymentType string `json:"employmentType"`
}

// JobSearchClient queries a JSearch-compatible endpoint.
type JobSearchClient struct {
	apiKey  string
	host    string
	baseURL string
	http    *http.Client
}

const defaultJobSearchURL = "https://jsearch.p.rapidapi.com"

func NewJobSearchClient(apiKey string) *JobSearchClient {
	return &JobSearchClient{
		apiKey:  apiKey,
		host:    "jsearch.p.rapidapi.com",
		baseURL: defaultJobSearchURL,
		http:    newHTTPClient(),
	}
}

// SetBaseURL points the client at a different endpoint. Used by tests.
func (c *JobSearchClient) SetBaseURL(u string) { c.baseURL = u }

type jsearchListing struct {
	JobTitle          string `json:"job_title"`
	EmployerName      string `json:"employer_name"`
	JobApplyLink      string `json:"job_apply_link"`
	JobDescription    string `json:"job_description"`
	JobCity           string `json:"job_city"`
	JobCountry        string `json:"job_country"`
	JobEmploymentType string `json:"job_employment_type"`
}

type jsearchResponse struct {
	Data    []jsearchListing `json:"data"`
	Message string           `json:"message"`
}

// Search runs one job search. Zero results is a success with an empty slice,
// not an error.
func (c *JobSearchClient) Search(ctx context.Context, query, location string) ([]JobListing, error) {
	q := url.Values{}
	q.Set("query", query+" in "+location)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, newError("jobsearch", "build request: %v", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newError("jobsearch", "request failed: %v", err)
	}
	defer resp.Body.Close()

	var body jsearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, newError("jobsearch", "decode response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := body.Message
		if msg == "" {
			msg = resp.Status
		}
		return nil, newError("jobsearch", "upstream status %d: %s", resp.StatusCode, msg)
	}

	out := make([]JobListing, 0, len(body.Data))
	for _, j := range body.Data {
		out = append(out, JobListing{
			Title:          j.JobTitle,
			EmployerName:   j.EmployerName,
			ApplyURL:       j.JobApplyLink,
			Description:    j.JobDescription,
			City:           j.JobCity,
			Country:        j.JobCountry,
			EmploymentType: j.JobEmploymentType,
		})
	}
	return out, nil
}

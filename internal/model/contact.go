package model

import (
	"math"
	"time"
)

// Stage is the lifecycle status of a contact request in the admin pipeline.
type Stage string

const (
	StageNew       Stage = "new"
	StageContacted Stage = "contacted"
	StageQualified Stage = "qualified"
	StageWon       Stage = "won"
	StageLost      Stage = "lost"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{StageNew, StageContacted, StageQualified, StageWon, StageLost}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	for _, st := range Stages {
		if s == st {
			return true
		}
	}
	return false
}

// SourceWebsite marks requests submitted through the public contact form.
const SourceWebsite = "website-kontakt"

// DefaultTag seeds ContactRequest.Tags when no utm_source was captured.
const DefaultTag = "website"

// EventContactRequestCreated is the type of the event written after a successful insert.
const EventContactRequestCreated = "contact.request.created"

// ContactRequestInput is the normalized form submission. It is never stored as is.
type ContactRequestInput struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       *string  `json:"phone,omitempty"`
	WeddingDate *string  `json:"wedding_date,omitempty"`
	Destination *string  `json:"destination,omitempty"`
	GuestCount  *int     `json:"guest_count,omitempty"`
	BudgetMin   *int     `json:"budget_min,omitempty"`
	BudgetMax   *int     `json:"budget_max,omitempty"`
	Services    []string `json:"services"`
	Message     *string  `json:"message,omitempty"`
	Subscribe   bool     `json:"subscribe"`
}

// RequestMetadata is the provenance captured once when a request is created.
type RequestMetadata struct {
	IPAddress   *string `json:"ip_address,omitempty"`
	UserAgent   *string `json:"user_agent,omitempty"`
	Referrer    *string `json:"referrer,omitempty"`
	UTMSource   *string `json:"utm_source,omitempty"`
	UTMMedium   *string `json:"utm_medium,omitempty"`
	UTMCampaign *string `json:"utm_campaign,omitempty"`
}

// ContactRequest is the persisted contact request.
type ContactRequest struct {
	ID          string          `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       *string         `json:"phone"`
	WeddingDate *string         `json:"wedding_date"`
	Destination *string         `json:"destination"`
	GuestCount  *int            `json:"guest_count"`
	BudgetMin   *int            `json:"budget_min"`
	BudgetMax   *int            `json:"budget_max"`
	Services    []string        `json:"services"`
	Message     *string         `json:"message"`
	Subscribe   bool            `json:"subscribe"`
	Stage       Stage           `json:"stage"`
	Source      string          `json:"source"`
	Tags        []string        `json:"tags"`
	Metadata    RequestMetadata `json:"metadata"`
}

// Clone returns a copy that shares no slices or pointers with c.
func (c *ContactRequest) Clone() ContactRequest {
	out := *c
	out.Phone = clonePtr(c.Phone)
	out.WeddingDate = clonePtr(c.WeddingDate)
	out.Destination = clonePtr(c.Destination)
	out.GuestCount = clonePtr(c.GuestCount)
	out.BudgetMin = clonePtr(c.BudgetMin)
	out.BudgetMax = clonePtr(c.BudgetMax)
	out.Message = clonePtr(c.Message)
	out.Services = cloneStrings(c.Services)
	out.Tags = cloneStrings(c.Tags)
	out.Metadata = RequestMetadata{
		IPAddress:   clonePtr(c.Metadata.IPAddress),
		UserAgent:   clonePtr(c.Metadata.UserAgent),
		Referrer:    clonePtr(c.Metadata.Referrer),
		UTMSource:   clonePtr(c.Metadata.UTMSource),
		UTMMedium:   clonePtr(c.Metadata.UTMMedium),
		UTMCampaign: clonePtr(c.Metadata.UTMCampaign),
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ContactRequestEvent is an append-only fact linked to a contact request.
type ContactRequestEvent struct {
	ID               string    `json:"id"`
	ContactRequestID string    `json:"contact_request_id"`
	Type             string    `json:"type"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Services         []string  `json:"services"`
	Source           string    `json:"source"`
	CreatedAt        time.Time `json:"created_at"`
}

// Sortable columns for the admin list.
const (
	SortByName      = "name"
	SortByEmail     = "email"
	SortByStage     = "stage"
	SortByCreatedAt = "created_at"
)

// ContactRequestsPerPage is the fixed admin page size.
const ContactRequestsPerPage = 20

// MaxContactListPage keeps Offset from overflowing.
const MaxContactListPage = math.MaxInt32 / ContactRequestsPerPage

// ContactListOptions carries the admin view's search, filter, sort and page.
// Zero values mean "no filter"; Normalize fills in defaults.
type ContactListOptions struct {
	Search    string `json:"search"`
	Stage     Stage  `json:"stage"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
	Page      int    `json:"page"`
}

// Normalize drops unknown stages and sort keys and clamps the page to
// [1, MaxContactListPage].
func (o ContactListOptions) Normalize() ContactListOptions {
	if o.Stage != "" && !o.Stage.Valid() {
		o.Stage = ""
	}
	switch o.SortBy {
	case SortByName, SortByEmail, SortByStage, SortByCreatedAt:
	default:
		o.SortBy = SortByCreatedAt
	}
	if o.SortOrder != "asc" {
		o.SortOrder = "desc"
	}
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Page > MaxContactListPage {
		o.Page = MaxContactListPage
	}
	return o
}

// Offset returns the row offset of the page.
func (o ContactListOptions) Offset() int {
	return (o.Page - 1) * ContactRequestsPerPage
}

// Pagination describes one page of the admin list.
type Pagination struct {
	Page         int `json:"page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
	ItemsPerPage int `json:"items_per_page"`
}

// ContactRequestPage is the admin list result.
type ContactRequestPage struct {
	ContactRequests []*ContactRequest  `json:"contact_requests"`
	Pagination      Pagination         `json:"pagination"`
	Filters         ContactListOptions `json:"filters"`
}

// NewPagination computes total pages for the given total item count.
func NewPagination(page, totalItems int) Pagination {
	totalPages := (totalItems + ContactRequestsPerPage - 1) / ContactRequestsPerPage
	return Pagination{
		Page:         page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: ContactRequestsPerPage,
	}
}

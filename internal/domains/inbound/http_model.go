package inbound

import "time"

type DomainResponse struct {
	ID          int64     `json:"id,string"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type DomainsResponse struct {
	Domains []DomainResponse `json:"domains"`
}

type DomainCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ApplicationReviewRequest struct {
	Decision string `json:"decision"`
}

// internal/models/job.go
package models

import "time"

// ContactInfo holds how applicants reach the employer for a listing
type ContactInfo struct {
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	ApplyInstructions string `json:"applyInstructions,omitempty"`
	CTAMessage        string `json:"ctaMessage,omitempty"`
	CTALink           string `json:"ctaLink,omitempty"`
}

// JobListing represents a published job posting
type JobListing struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Company     string `json:"company" db:"company"`
	Location    string `json:"location" db:"location"`
	JobType     string `json:"jobType" db:"job_type"`
	Description string `json:"description" db:"description"`
	Salary      string `json:"salary,omitempty" db:"salary"`
	// DemographicTags describe who the listing is aimed at, for example
	// "youth" or "graduates". Used by marketing rule targeting.
	DemographicTags []string    `json:"demographicTags,omitempty" db:"demographic_tags"`
	ContactInfo     ContactInfo `json:"contactInfo" db:"contact_info"`
	PostedAt        time.Time   `json:"postedAt" db:"posted_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

// JobSearchQuery is a search request against the job index
type JobSearchQuery struct {
	Keywords string `json:"keywords,omitempty"`
	Location string `json:"location,omitempty"`
	JobType  string `json:"jobType,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
}

// JobSearchResult is a page of matching job listings
type JobSearchResult struct {
	Jobs  []JobListing `json:"jobs"`
	Total int64        `json:"total"`
}

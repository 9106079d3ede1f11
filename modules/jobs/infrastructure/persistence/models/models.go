package models

import (
	"database/sql"
	"time"
)

type Job struct {
	ID             string
	EmployerID     string
	Title          string
	Status         string
	IsFeatured     bool
	FeaturedUntil  sql.NullTime
	IsFreelance    bool
	FreelanceUntil sql.NullTime
	Deadline       time.Time
	AdminNotes     sql.NullString
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type PromotionRequest struct {
	ID             string
	JobID          string
	EmployerID     string
	Kind           string
	Amount         string
	Currency       string
	TransactionRef string
	ScreenshotURL  sql.NullString
	Status         string
	SubmittedAt    time.Time
	ProcessedAt    sql.NullTime
	ProcessedBy    sql.NullString
	AdminNotes     sql.NullString
}

package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/promotionrequest"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/services"
	"github.com/hulujobs/hulujobs-sdk/pkg/application"
	"github.com/hulujobs/hulujobs-sdk/pkg/configuration"
)

type JobsAPIController struct {
	app        application.Application
	jobs       *services.JobService
	promotions *services.PromotionService
	approvals  *services.ApprovalService
	bulk       *services.BulkService
	basePath   string
}

func NewJobsAPIController(app application.Application) application.Controller {
	return &JobsAPIController{
		app:        app,
		jobs:       app.Service(services.JobService{}).(*services.JobService),
		promotions: app.Service(services.PromotionService{}).(*services.PromotionService),
		approvals:  app.Service(services.ApprovalService{}).(*services.ApprovalService),
		bulk:       app.Service(services.BulkService{}).(*services.BulkService),
		basePath:   "/jobs/api",
	}
}

func (c *JobsAPIController) Key() string {
	return c.basePath
}

// Register wires the routes. Write endpoints get no request-wide
// transaction: each service opens its own, so events (and the
// notifications they fan out) fire only after that commit, and bulk items
// keep their per-item isolation.
func (c *JobsAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/jobs", c.List).Methods(http.MethodGet)
	router.HandleFunc("/jobs/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/requests", c.ListRequests).Methods(http.MethodGet)

	router.HandleFunc("/jobs", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/jobs/bulk", c.BulkApply).Methods(http.MethodPost)
	router.HandleFunc("/jobs/{id}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/jobs/{id}/status", c.ChangeStatus).Methods(http.MethodPost)
	router.HandleFunc("/jobs/{id}/extend", c.Extend).Methods(http.MethodPost)
	router.HandleFunc("/jobs/{id}/review", c.Review).Methods(http.MethodPost)
	router.HandleFunc("/requests", c.SubmitRequest).Methods(http.MethodPost)
	router.HandleFunc("/requests/{id}/approve", c.ApproveRequest).Methods(http.MethodPost)
	router.HandleFunc("/requests/{id}/reject", c.RejectRequest).Methods(http.MethodPost)
	router.HandleFunc("/reconcile", c.Reconcile).Methods(http.MethodPost)
}

func jobToViewModel(j job.Job, now time.Time) map[string]any {
	eff := j.EffectiveAt(now)
	return map[string]any{
		"id":                  j.ID(),
		"employer_id":         j.EmployerID(),
		"title":               j.Title(),
		"status":              j.Status(),
		"is_featured":         j.IsFeatured(),
		"featured_until":      j.FeaturedUntil(),
		"is_freelance":        j.IsFreelance(),
		"freelance_until":     j.FreelanceUntil(),
		"deadline":            j.Deadline(),
		"admin_notes":         j.AdminNotes(),
		"effective_featured":  eff.Featured,
		"effective_freelance": eff.Freelance,
		"expired":             eff.Expired,
		"created_at":          j.CreatedAt(),
		"updated_at":          j.UpdatedAt(),
	}
}

func requestToViewModel(r promotionrequest.PromotionRequest) map[string]any {
	return map[string]any{
		"id":              r.ID(),
		"job_id":          r.JobID(),
		"employer_id":     r.EmployerID(),
		"kind":            r.Kind(),
		"amount":          r.Amount(),
		"currency":        r.Currency(),
		"transaction_ref": r.TransactionRef(),
		"screenshot_url":  r.ScreenshotURL(),
		"status":          r.Status(),
		"submitted_at":    r.SubmittedAt(),
		"processed_at":    r.ProcessedAt(),
		"processed_by":    r.ProcessedBy(),
		"admin_notes":     r.AdminNotes(),
	}
}

func parsePagination(r *http.Request) (limit, offset int) {
	conf := configuration.Use()
	limit = conf.PageSize
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= conf.MaxPageSize {
			limit = parsed
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	return id, err == nil
}

func (c *JobsAPIController) List(w http.ResponseWriter, r *http.Request) {
	params := &job.FindParams{}
	params.Limit, params.Offset = parsePagination(r)

	if v := strings.TrimSpace(r.URL.Query().Get("status")); v != "" {
		status, err := job.ParseStatus(v)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		params.Status = &status
	}
	if v := strings.TrimSpace(r.URL.Query().Get("employer_id")); v != "" {
		employerID, err := uuid.Parse(v)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_EMPLOYER_ID", "invalid employer id")
			return
		}
		params.EmployerID = &employerID
	}
	if v := strings.TrimSpace(r.URL.Query().Get("kind")); v != "" {
		kind, err := job.ParseKind(v)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		params.Kind = &kind
	}

	items, total, err := c.jobs.GetPaginated(r.Context(), params)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	now := time.Now()
	out := make([]map[string]any, 0, len(items))
	for _, j := range items {
		out = append(out, jobToViewModel(j, now))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *JobsAPIController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_ID", "invalid job id")
		return
	}
	j, err := c.jobs.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToViewModel(j, time.Now()))
}

type createJobDTO struct {
	EmployerID uuid.UUID `json:"employer_id"`
	Title      string    `json:"title"`
	Deadline   time.Time `json:"deadline"`
}

func (c *JobsAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto createJobDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_JSON", "invalid json")
		return
	}
	if dto.EmployerID == uuid.Nil || strings.TrimSpace(dto.Title) == "" || dto.Deadline.IsZero() {
		writeAPIError(w, http.StatusUnprocessableEntity, "JOBS_VALIDATION_FAILED", "employer_id, title and deadline are required")
		return
	}

	j, err := c.jobs.Create(r.Context(), dto.EmployerID, dto.Title, dto.Deadline)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jobToViewModel(j, time.Now()))
}

type changeStatusDTO struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (c *JobsAPIController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_ID", "invalid job id")
		return
	}
	var dto changeStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_JSON", "invalid json")
		return
	}
	status, err := job.ParseStatus(dto.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	j, err := c.jobs.ChangeStatus(r.Context(), id, status, dto.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToViewModel(j, time.Now()))
}

type extendDTO struct {
	Kind string `json:"kind"`
}

func (c *JobsAPIController) Extend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_ID", "invalid job id")
		return
	}
	var dto extendDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_JSON", "invalid json")
		return
	}
	kind, err := job.ParseKind(dto.Kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	j, err := c.promotions.Extend(r.Context(), id, kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToViewModel(j, time.Now()))
}

type reviewDTO struct {
	Kind    string `json:"kind"`
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

func (c *JobsAPIController) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_ID", "invalid job id")
		return
	}
	var dto reviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_JSON", "invalid json")
		return
	}
	kind, err := job.ParseKind(dto.Kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	j, err := c.approvals.ReviewJob(r.Context(), id, kind, dto.Approve, dto.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToViewModel(j, time.Now()))
}

func (c *JobsAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_ID", "invalid job id")
		return
	}
	if err := c.jobs.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type bulkDTO struct {
	IDs    []uuid.UUID `json:"ids"`
	Action struct {
		Type    string `json:"type"`
		Status  string `json:"status"`
		Enabled bool   `json:"enabled"`
		Notes   string `json:"notes"`
	} `json:"action"`
}

func (c *JobsAPIController) BulkApply(w http.ResponseWriter, r *http.Request) {
	var dto bulkDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_JSON", "invalid json")
		return
	}
	if len(dto.IDs) == 0 {
		writeAPIError(w, http.StatusUnprocessableEntity, "JOBS_VALIDATION_FAILED", "ids are required")
		return
	}

	var action services.BulkAction
	switch dto.Action.Type {
	case "status_change":
		status, err := job.ParseStatus(dto.Action.Status)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		action = services.StatusChange{Status: status, Notes: dto.Action.Notes}
	case "set_featured":
		action = services.SetFeatured{Enabled: dto.Action.Enabled}
	case "set_freelance":
		action = services.SetFreelance{Enabled: dto.Action.Enabled}
	case "delete":
		action = services.DeleteJobs{}
	default:
		writeAPIError(w, http.StatusBadRequest, "JOBS_UNKNOWN_BULK_ACTION", "unknown bulk action type")
		return
	}

	report, err := c.bulk.Apply(r.Context(), dto.IDs, action)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make(map[string]map[string]any, len(report.Items))
	for id, outcome := range report.Items {
		items[id.String()] = map[string]any{
			"outcome": outcome.Kind,
			"reason":  outcome.Reason,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":                items,
		"notifications_queued": report.NotificationsQueued,
	})
}

func (c *JobsAPIController) ListRequests(w http.ResponseWriter, r *http.Request) {
	params := &promotionrequest.FindParams{}
	params.Limit, params.Offset = parsePagination(r)

	if v := strings.TrimSpace(r.URL.Query().Get("status")); v != "" {
		status := promotionrequest.Status(v)
		params.Status = &status
	}
	if v := strings.TrimSpace(r.URL.Query().Get("job_id")); v != "" {
		jobID, err := uuid.Parse(v)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_ID", "invalid job id")
			return
		}
		params.JobID = &jobID
	}
	if v := strings.TrimSpace(r.URL.Query().Get("kind")); v != "" {
		kind, err := job.ParseKind(v)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		params.Kind = &kind
	}

	items, total, err := c.approvals.GetRequestsPaginated(r.Context(), params)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(items))
	for _, req := range items {
		out = append(out, requestToViewModel(req))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

type submitRequestDTO struct {
	JobID          uuid.UUID `json:"job_id"`
	EmployerID     uuid.UUID `json:"employer_id"`
	Kind           string    `json:"kind"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	TransactionRef string    `json:"transaction_ref"`
	ScreenshotURL  *string   `json:"screenshot_url"`
}

func (c *JobsAPIController) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var dto submitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_JSON", "invalid json")
		return
	}
	kind, err := job.ParseKind(dto.Kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	req, err := promotionrequest.FromEvidence(dto.JobID, dto.EmployerID, kind, dto.Amount, dto.Currency, dto.TransactionRef, dto.ScreenshotURL)
	if err != nil {
		writeAPIError(w, http.StatusUnprocessableEntity, "JOBS_VALIDATION_FAILED", err.Error())
		return
	}

	created, err := c.approvals.SubmitRequest(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, requestToViewModel(created))
}

func (c *JobsAPIController) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_ID", "invalid request id")
		return
	}
	req, err := c.approvals.Approve(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestToViewModel(req))
}

type rejectDTO struct {
	Reason string `json:"reason"`
}

func (c *JobsAPIController) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_ID", "invalid request id")
		return
	}
	var dto rejectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "JOBS_INVALID_JSON", "invalid json")
		return
	}

	req, err := c.approvals.Reject(r.Context(), id, dto.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestToViewModel(req))
}

func (c *JobsAPIController) Reconcile(w http.ResponseWriter, r *http.Request) {
	cleared, err := c.promotions.Reconcile(r.Context(), configuration.Use().Sweeper.BatchSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cleared": cleared,
	})
}

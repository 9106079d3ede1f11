package job

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PromotionKind is the axis of a time-boxed promotion. Featured and freelance
// windows are independent of each other.
type PromotionKind string

const (
	KindFeatured  PromotionKind = "featured"
	KindFreelance PromotionKind = "freelance"
)

func ParseKind(raw string) (PromotionKind, error) {
	k := PromotionKind(raw)
	switch k {
	case KindFeatured, KindFreelance:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
}

// Job is a posting owned by exactly one employer. The aggregate enforces the
// coupling between moderation status and promotion fields: rejection clears
// promotions, suspension preserves them, and a window timestamp is never set
// without its flag.
type Job struct {
	id             uuid.UUID
	employerID     uuid.UUID
	title          string
	status         Status
	isFeatured     bool
	featuredUntil  *time.Time
	isFreelance    bool
	freelanceUntil *time.Time
	deadline       time.Time
	adminNotes     *string
	createdAt      time.Time
	updatedAt      time.Time
}

// New creates a job in pending as submitted by an employer.
func New(employerID uuid.UUID, title string, deadline time.Time) Job {
	now := time.Now()
	return Job{
		id:         uuid.New(),
		employerID: employerID,
		title:      strings.TrimSpace(title),
		status:     StatusPending,
		deadline:   deadline,
		createdAt:  now,
		updatedAt:  now,
	}
}

func Hydrate(
	id uuid.UUID,
	employerID uuid.UUID,
	title string,
	status Status,
	isFeatured bool,
	featuredUntil *time.Time,
	isFreelance bool,
	freelanceUntil *time.Time,
	deadline time.Time,
	adminNotes *string,
	createdAt time.Time,
	updatedAt time.Time,
) Job {
	return Job{
		id:             id,
		employerID:     employerID,
		title:          strings.TrimSpace(title),
		status:         status,
		isFeatured:     isFeatured,
		featuredUntil:  featuredUntil,
		isFreelance:    isFreelance,
		freelanceUntil: freelanceUntil,
		deadline:       deadline,
		adminNotes:     adminNotes,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (j Job) ID() uuid.UUID              { return j.id }
func (j Job) EmployerID() uuid.UUID      { return j.employerID }
func (j Job) Title() string              { return j.title }
func (j Job) Status() Status             { return j.status }
func (j Job) IsFeatured() bool           { return j.isFeatured }
func (j Job) FeaturedUntil() *time.Time  { return j.featuredUntil }
func (j Job) IsFreelance() bool          { return j.isFreelance }
func (j Job) FreelanceUntil() *time.Time { return j.freelanceUntil }
func (j Job) Deadline() time.Time        { return j.deadline }
func (j Job) AdminNotes() *string        { return j.adminNotes }
func (j Job) CreatedAt() time.Time       { return j.createdAt }
func (j Job) UpdatedAt() time.Time       { return j.updatedAt }
func (j Job) IsZero() bool               { return j.id == uuid.Nil }

// Transition applies a status change, enforcing the transition table.
// A same-status request is an idempotent no-op. Moving to rejected clears
// every promotion field; moving to inactive suspends the job and preserves
// promotion fields so re-activation resumes the remaining window unchanged.
func (j Job) Transition(to Status) (Job, error) {
	if !to.IsValid() {
		return j, fmt.Errorf("%w: %q", ErrUnknownStatus, string(to))
	}
	if j.status == to {
		return j, nil
	}
	if !CanTransition(j.status, to) {
		return j, &InvalidTransitionError{From: j.status, To: to}
	}

	j.status = to
	if to == StatusRejected {
		j.isFeatured = false
		j.featuredUntil = nil
		j.isFreelance = false
		j.freelanceUntil = nil
	}
	return j, nil
}

// Decline parks the job in inactive outside the transition table. First-time
// review declines use it: the job was never live, so the usual active to
// inactive route does not apply, and inactive (unlike rejected) lets the
// employer amend and resubmit. Promotion fields are left as they are; a
// declined first-time review never granted any.
func (j Job) Decline() Job {
	j.status = StatusInactive
	return j
}

// WithAdminNotes records the last moderation decision.
func (j Job) WithAdminNotes(notes string) Job {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return j
	}
	j.adminNotes = &notes
	return j
}

// Grant sets a promotion window of the given kind. If the job already holds
// an unexpired window of that kind, the grant is a no-op: a duplicate
// approval never double-extends.
func (j Job) Grant(kind PromotionKind, until time.Time, now time.Time) Job {
	if j.HasActiveWindow(kind, now) {
		return j
	}
	switch kind {
	case KindFeatured:
		j.isFeatured = true
		j.featuredUntil = &until
	case KindFreelance:
		j.isFreelance = true
		j.freelanceUntil = &until
	}
	return j
}

// SetPromotionFlag toggles a promotion axis directly, as bulk admin actions
// do. Disabling clears the window; enabling leaves any window untouched.
func (j Job) SetPromotionFlag(kind PromotionKind, enabled bool) Job {
	switch kind {
	case KindFeatured:
		j.isFeatured = enabled
		if !enabled {
			j.featuredUntil = nil
		}
	case KindFreelance:
		j.isFreelance = enabled
		if !enabled {
			j.freelanceUntil = nil
		}
	}
	return j
}

// HasActiveWindow reports whether an unexpired window of the given kind is
// stored, regardless of moderation status.
func (j Job) HasActiveWindow(kind PromotionKind, now time.Time) bool {
	switch kind {
	case KindFeatured:
		return j.isFeatured && j.featuredUntil != nil && j.featuredUntil.After(now)
	case KindFreelance:
		return j.isFreelance && j.freelanceUntil != nil && j.freelanceUntil.After(now)
	}
	return false
}

// Extend pushes the promotion window of the given kind forward by days,
// counted from whichever is later of now or the current window end. Backdated
// time is never accumulated: extending an expired window starts from now.
// Only active and featured jobs may be extended.
func (j Job) Extend(kind PromotionKind, days int, now time.Time) (Job, error) {
	if j.status != StatusActive && j.status != StatusFeatured {
		return j, &ExtendNotAllowedError{Status: j.status}
	}

	var current *time.Time
	switch kind {
	case KindFeatured:
		current = j.featuredUntil
	case KindFreelance:
		current = j.freelanceUntil
	default:
		return j, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}

	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	until := base.AddDate(0, 0, days)

	switch kind {
	case KindFeatured:
		j.isFeatured = true
		j.featuredUntil = &until
	case KindFreelance:
		j.isFreelance = true
		j.freelanceUntil = &until
	}
	return j, nil
}

// ClearExpiredWindows drops promotion fields whose window has lapsed. It is
// the persistence half of lazy expiry; moderation status is deliberately
// untouched because expiry is a promotion event, not a moderation event.
// The returned bool reports whether anything changed.
func (j Job) ClearExpiredWindows(now time.Time) (Job, bool) {
	changed := false
	if j.isFeatured && j.featuredUntil != nil && !j.featuredUntil.After(now) {
		j.isFeatured = false
		j.featuredUntil = nil
		changed = true
	}
	if j.isFreelance && j.freelanceUntil != nil && !j.freelanceUntil.After(now) {
		j.isFreelance = false
		j.freelanceUntil = nil
		changed = true
	}
	return j, changed
}

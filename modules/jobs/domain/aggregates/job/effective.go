package job

import "time"

// Effective is the computed display state of a job at a point in time.
// Promotion flags are not cleared eagerly on expiry, so listings must go
// through this computation instead of reading the stored fields directly.
type Effective struct {
	Featured  bool
	Freelance bool
	Expired   bool
}

// EffectiveAt derives the effective visibility of the job at now.
//
// A promotion only shows on an active job: suspended, rejected and pending
// jobs never surface a badge no matter what the stored flags say. A freelance
// job without a window end is treated as not yet time-boxed rather than
// expired, so the absence of a timestamp does not hide it.
func (j Job) EffectiveAt(now time.Time) Effective {
	featured := j.isFeatured &&
		j.featuredUntil != nil &&
		j.featuredUntil.After(now) &&
		j.status == StatusActive

	freelance := j.isFreelance &&
		(j.freelanceUntil == nil || j.freelanceUntil.After(now)) &&
		j.status == StatusActive

	expired := (j.isFeatured && j.featuredUntil != nil && !j.featuredUntil.After(now)) ||
		(j.isFreelance && j.freelanceUntil != nil && !j.freelanceUntil.After(now)) ||
		!j.deadline.After(now)

	return Effective{
		Featured:  featured,
		Freelance: freelance,
		Expired:   expired,
	}
}

package services

import (
	"context"
	"errors"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/permissions"
	"github.com/hulujobs/hulujobs-sdk/pkg/authz"
	"github.com/hulujobs/hulujobs-sdk/pkg/composables"
)

// JobsAuthzObject represents the job moderation capability object.
const JobsAuthzObject = permissions.ObjectJobs

// RequestsAuthzObject represents the promotion request review capability object.
const RequestsAuthzObject = permissions.ObjectPromotionRequests

var authorizeJobsFn = defaultAuthorizeJobs

func authorizeJobs(ctx context.Context, object, action string) error {
	return authorizeJobsFn(ctx, object, action)
}

func defaultAuthorizeJobs(ctx context.Context, object, action string) error {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		if errors.Is(err, composables.ErrNoActor) {
			// Background tasks and internal callers carry no actor.
			return nil
		}
		return err
	}

	subject := actor.Subject
	if subject == "" {
		subject = authz.SubjectForUser(actor.ID)
	}

	req := authz.NewRequest(subject, object, action)
	return authz.Use().Authorize(ctx, req)
}

// Package permissions declares the capability objects and actions the jobs
// module is guarded by. The casbin policy files under config/access grant
// roles against these names.
package permissions

const (
	ObjectJobs              = "jobs.jobs"
	ObjectPromotionRequests = "jobs.promotion_requests"
)

const (
	ActionRead    = "read"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionReview  = "review"
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// Grant pairs an object with an action for policy seeding and docs.
type Grant struct {
	Object string
	Action string
}

var Catalog = []Grant{
	{ObjectJobs, ActionRead},
	{ObjectJobs, ActionCreate},
	{ObjectJobs, ActionUpdate},
	{ObjectJobs, ActionDelete},
	{ObjectJobs, ActionReview},
	{ObjectPromotionRequests, ActionRead},
	{ObjectPromotionRequests, ActionApprove},
	{ObjectPromotionRequests, ActionReject},
}

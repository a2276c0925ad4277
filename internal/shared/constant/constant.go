// Package constant holds authorization objects and actions shared between
// modules and the casbin policy store.
package constant

const (
	// PermIdentityMgmtUsers guards the user directory endpoints.
	PermIdentityMgmtUsers = "identity:mgmt:users"
	// PermDomainsMgmt guards skill domain administration.
	PermDomainsMgmt = "domains:mgmt"
	// PermDomainsReview guards membership application review.
	PermDomainsReview = "domains:review"
)

const (
	PermActCreate = "create"
	PermActRead   = "read"
	PermActUpdate = "update"
	PermActDelete = "delete"
)

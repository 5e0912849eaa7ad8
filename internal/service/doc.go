// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// The task and comment services compose three concerns per request: the
// authorization policy (internal/authz) gates the operation, the business
// rules (active-task quota, forced ownership) validate the proposed state,
// and the stores persist or reject the result. All rule checks run before
// any mutation; nothing here relies on post-hoc rollback.
package service

// Package models defines the core domain models for BookShare.
//
// # Models
//
//   - User: a registered account; members list and borrow books, admins moderate
//   - Book: a physical book listed for lending by its owner
//   - BorrowRequest: one user's request to borrow another user's book, with a
//     status lifecycle (pending -> approved/denied -> borrowed ->
//     return_initiated -> returned)
//   - Community: a group of users sharing a browsable shelf
//   - Notification: a per-user event record (request activity, reminders, broadcasts)
//   - Message: a direct message between two users
//   - ActivityLog: an append-only audit trail of moderation and lifecycle events
//
// # Design Principles
//
//  1. IDs are UUID strings, timestamps are Unix seconds (int64)
//  2. Relationships use ID strings instead of pointers to avoid circular references
//  3. Lifecycle rules live in the lending package, not on the models themselves
package models

// Package models defines the core domain models for the birthday service.
//
// # Identities
//
//   - User: a registered person, identified globally by mobile number
//   - PrivateUser: a contact record owned by one User; not a login identity
//
// # Groups
//
//   - Group: a public group joined through an invite code, with admin/member roles
//   - PrivateGroup: an owner-curated list of the owner's PrivateUser contacts
//
// # Design Principles
//
//  1. **Aggregates own their members**: a group's member list is the source of truth,
//     User.GroupIDs is a derived back-reference
//  2. **Avoid circular references**: relationships are ID strings, never pointers
//  3. **Strict dates**: dates of birth are a validated Date, parsed once at the boundary
//  4. **Versioned writes**: groups carry a Version used for optimistic concurrency
package models

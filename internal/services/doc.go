// Package services holds the cross-cutting error taxonomy and context
// annotations shared by the reconciliation engine's collaborators.
package services

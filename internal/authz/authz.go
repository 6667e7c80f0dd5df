// Package authz contains the access-control decision applied to every
// file-facing operation.
package authz

import "github.com/mkravets/filehub/internal/models"

// Operation is the kind of access being requested on a file.
type Operation int

const (
	// Read covers metadata and content reads.
	Read Operation = iota
	// Write covers mutations such as publish/unpublish.
	Write
)

// Anonymous is the actor id of an unauthenticated caller.
const Anonymous = ""

// Allowed reports whether the actor may perform op on file.
//
// Reads succeed on public files for anyone and on private files for the
// owner only. Writes are owner-only. Callers surface a deny as "not found"
// so private files are indistinguishable from absent ones.
func Allowed(actorID string, file *models.File, op Operation) bool {
	switch op {
	case Read:
		return file.IsPublic || (actorID != Anonymous && actorID == file.UserID)
	case Write:
		return actorID != Anonymous && actorID == file.UserID
	default:
		return false
	}
}

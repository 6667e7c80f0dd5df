package authz

import (
	"testing"

	"github.com/mkravets/filehub/internal/models"
)

func TestAllowed(t *testing.T) {
	private := &models.File{UserID: "owner", IsPublic: false}
	public := &models.File{UserID: "owner", IsPublic: true}

	tests := []struct {
		name  string
		actor string
		file  *models.File
		op    Operation
		want  bool
	}{
		{"owner reads private", "owner", private, Read, true},
		{"owner writes private", "owner", private, Write, true},
		{"stranger reads private", "other", private, Read, false},
		{"stranger writes private", "other", private, Write, false},
		{"anonymous reads private", Anonymous, private, Read, false},
		{"anonymous reads public", Anonymous, public, Read, true},
		{"stranger reads public", "other", public, Read, true},
		{"stranger writes public", "other", public, Write, false},
		{"anonymous writes public", Anonymous, public, Write, false},
		{"owner writes public", "owner", public, Write, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.actor, tt.file, tt.op); got != tt.want {
				t.Fatalf("Allowed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllowed_AnonymousOwnerlessNeverMatches(t *testing.T) {
	// A file record can never have an empty owner, but the anonymous actor
	// must not accidentally match one if it did.
	f := &models.File{UserID: "", IsPublic: false}
	if Allowed(Anonymous, f, Read) {
		t.Fatalf("anonymous actor must not read a private file")
	}
	if Allowed(Anonymous, f, Write) {
		t.Fatalf("anonymous actor must not write")
	}
}

// Package album manages per-album photo collections: the face embedding
// records of each album and the photo files stored on disk.
package album

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrInvalidAlbumID is returned for album IDs that cannot be used as a directory name.
	ErrInvalidAlbumID = errors.New("invalid album id")
	// ErrInvalidFilename is returned for photo names that would escape the album directory.
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrAlbumNotFound is returned when an album directory does not exist.
	ErrAlbumNotFound = errors.New("album not found")
	// ErrPhotoNotFound is returned when a photo does not exist in an album.
	ErrPhotoNotFound = errors.New("photo not found")
)

// NormalizeAlbumID returns the trimmed NFC form of a client-supplied id, or
// ErrInvalidAlbumID when the result is not a usable directory name.
// Use PhotoDir.Resolve to map a client id onto an existing album directory.
func NormalizeAlbumID(id string) (string, error) {
	id = norm.NFC.String(strings.TrimSpace(id))
	if err := ValidateAlbumID(id); err != nil {
		return "", err
	}
	return id, nil
}

// ValidateAlbumID checks that id can be used as an album directory name
// without rewriting it. Names read back from disk go through here.
func ValidateAlbumID(id string) error {
	if err := validateName(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAlbumID, id)
	}
	return nil
}

// ValidateFilename checks that name is a plain file name inside an album directory.
func ValidateFilename(name string) error {
	if err := validateName(name); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return nil
}

func validateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return errors.New("reserved name")
	case strings.ContainsAny(name, "/\\\x00"):
		return errors.New("contains separator")
	}
	return nil
}

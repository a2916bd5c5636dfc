package album

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/kozaktomas/face-match/internal/config"
)

// PhotoDir is the on-disk side of albums: <root>/<album_id>/<photo>.
type PhotoDir struct {
	cfg config.StorageConfig
}

// NewPhotoDir creates a PhotoDir rooted at cfg.PhotosDir.
func NewPhotoDir(cfg config.StorageConfig) *PhotoDir {
	return &PhotoDir{cfg: cfg}
}

// Root returns the photos root directory.
func (d *PhotoDir) Root() string {
	return d.cfg.PhotosDir
}

// AlbumPath returns the directory of an album. albumID is used verbatim.
func (d *PhotoDir) AlbumPath(albumID string) (string, error) {
	if err := ValidateAlbumID(albumID); err != nil {
		return "", err
	}
	return filepath.Join(d.cfg.PhotosDir, albumID), nil
}

// Resolve maps a client-supplied album ID to the name of the album directory.
// A directory named exactly albumID wins, then one named by its trimmed NFC
// form, then any directory whose name normalizes to that form. When none
// exists the normalized ID is returned, naming a new album.
func (d *PhotoDir) Resolve(albumID string) (string, error) {
	if ValidateAlbumID(albumID) == nil && d.isAlbum(albumID) {
		return albumID, nil
	}
	id, err := NormalizeAlbumID(albumID)
	if err != nil {
		return "", err
	}
	if d.isAlbum(id) {
		return id, nil
	}

	albums, err := d.Albums()
	if err != nil {
		return "", err
	}
	for _, name := range albums {
		if normalized, err := NormalizeAlbumID(name); err == nil && normalized == id {
			return name, nil
		}
	}
	return id, nil
}

func (d *PhotoDir) isAlbum(albumID string) bool {
	info, err := os.Stat(filepath.Join(d.cfg.PhotosDir, albumID))
	return err == nil && info.IsDir()
}

// PhotoPath returns the path of a photo inside an album.
func (d *PhotoDir) PhotoPath(albumID, filename string) (string, error) {
	dir, err := d.AlbumPath(albumID)
	if err != nil {
		return "", err
	}
	if err := ValidateFilename(filename); err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// Save writes a photo into the album directory, creating the album if needed.
func (d *PhotoDir) Save(albumID, filename string, data []byte) error {
	path, err := d.PhotoPath(albumID, filename)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating album directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // photos are served publicly
		return fmt.Errorf("writing photo: %w", err)
	}
	return nil
}

// Remove deletes a photo from an album. A missing photo is not an error.
func (d *PhotoDir) Remove(albumID, filename string) error {
	path, err := d.PhotoPath(albumID, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing photo: %w", err)
	}
	return nil
}

// Open opens a photo for reading. The caller must close the file.
func (d *PhotoDir) Open(albumID, filename string) (*os.File, fs.FileInfo, error) {
	path, err := d.PhotoPath(albumID, filename)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path) //nolint:gosec // path validated above
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, ErrPhotoNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening photo: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat photo: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, ErrPhotoNotFound
	}
	return f, info, nil
}

// ReadPhoto returns the content of a photo.
func (d *PhotoDir) ReadPhoto(albumID, filename string) ([]byte, error) {
	path, err := d.PhotoPath(albumID, filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path validated above
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrPhotoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	return data, nil
}

// List returns the image files physically present in the album directory,
// sorted by name. The embeddings document and non-image files are skipped.
// It may differ from the album's stored records if files were changed on disk.
func (d *PhotoDir) List(albumID string) ([]string, error) {
	dir, err := d.AlbumPath(albumID)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrAlbumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading album directory: %w", err)
	}

	photos := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Name() == d.cfg.MetadataFile {
			continue
		}
		if d.cfg.IsImageFile(e.Name()) {
			photos = append(photos, e.Name())
		}
	}
	sort.Strings(photos)
	return photos, nil
}

// Albums returns the album directories under the photos root, sorted by name.
// A missing root yields no albums.
func (d *PhotoDir) Albums() ([]string, error) {
	entries, err := os.ReadDir(d.cfg.PhotosDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading photos directory: %w", err)
	}

	albums := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			albums = append(albums, e.Name())
		}
	}
	sort.Strings(albums)
	return albums, nil
}

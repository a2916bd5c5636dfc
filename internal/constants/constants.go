// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Face matching constants
const (
	// DefaultDistanceThreshold is the default maximum Euclidean distance for two
	// face embeddings to be considered the same person.
	// Lower values = stricter matching
	DefaultDistanceThreshold = 0.6

	// DefaultEmbeddingDim is the length of the face descriptors produced by dlib.
	DefaultEmbeddingDim = 128
)

// Storage constants
const (
	// MetadataFileName is the per-album embeddings document stored next to the photos.
	MetadataFileName = "embeddings_db.json"

	// GlobalDBFileName is the default bulk import document holding records of all albums.
	GlobalDBFileName = "embeddings_db.json"

	// StoredPhotoExt is the extension given to photos ingested through the server.
	StoredPhotoExt = ".jpg"
)

// Processing constants
const (
	// MaxImageSize is the maximum dimension (width or height) for image processing
	MaxImageSize = 1920

	// JPEGQuality is used when re-encoding images before extraction
	JPEGQuality = 90
)

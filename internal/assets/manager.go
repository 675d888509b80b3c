package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Errors returned for rejected uploads and downloads
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrPathTraversal       = errors.New("path escapes the upload directory")
)

// allowedExtensions is the image extension allow-list, compared lowercased
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// AllowedExtension reports whether a filename carries an allowed image
// extension. The check is case-insensitive and looks after the last dot.
func AllowedExtension(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Manager stores and serves uploaded image files under a single managed
// directory. Stored names are sanitized and suffixed so two uploads with the
// same original name never collide.
type Manager struct {
	dir string
	log zerolog.Logger
}

// NewManager creates a Manager rooted at dir, creating it if needed
func NewManager(dir string, log zerolog.Logger) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Manager{
		dir: abs,
		log: log.With().Str("component", "assets").Logger(),
	}, nil
}

// Dir returns the absolute path of the managed directory
func (m *Manager) Dir() string {
	return m.dir
}

// Store validates the upload's extension against the image allow-list and
// writes it under a sanitized, uniquely suffixed name. Returns the stored
// filename.
func (m *Manager) Store(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedFileType
	}

	name := fmt.Sprintf("%s_%s%s", sanitizeBaseName(originalName), uuid.New().String()[:8], ext)
	path := filepath.Join(m.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create asset file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		// Don't leave a partial file behind
		os.Remove(path)
		return "", fmt.Errorf("failed to write asset file: %w", err)
	}

	m.log.Debug().Str("file", name).Msg("Asset stored")
	return name, nil
}

// Remove deletes a stored asset. Removing an absent file is a success.
func (m *Manager) Remove(name string) error {
	if name == "" {
		return nil
	}
	path, err := m.Resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Open opens a stored asset for reading
func (m *Manager) Open(name string) (*os.File, error) {
	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Resolve maps a stored filename to its absolute path, rejecting anything
// that would resolve outside the managed directory
func (m *Manager) Resolve(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || filepath.IsAbs(name) {
		return "", ErrPathTraversal
	}
	path := filepath.Join(m.dir, filepath.Clean(name))
	if filepath.Dir(path) != m.dir {
		return "", ErrPathTraversal
	}
	return path, nil
}

// sanitizeBaseName strips the extension and any path components from an
// upload name and reduces it to lowercase [a-z0-9_-]
func sanitizeBaseName(name string) string {
	base := filepath.Base(filepath.ToSlash(name))
	// Windows-style separators survive filepath.Base on other platforms
	if i := strings.LastIndexByte(base, '\\'); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ToLower(strings.TrimSpace(base))
	base = strings.ReplaceAll(base, " ", "_")
	base = unsafeChars.ReplaceAllString(base, "")
	base = strings.Trim(base, "_-")
	if base == "" {
		base = "image"
	}
	return base
}

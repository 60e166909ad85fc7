// package shared defines shared helpers
package shared

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var playlistIDPattern = regexp.MustCompile(`^[0-9A-Za-z]{22}$`)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// SetLogLevelString parses level ("debug", "info", ...) and applies it. Empty leaves the level unchanged.
func SetLogLevelString(l *log.Logger, level string) error {
	if level == "" {
		return nil
	}
	ll, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, level)
	}
	SetLogLevel(l, ll)
	return nil
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// MarshalJSON marshals data, indented when pretty is set.
func MarshalJSON(data any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// NormalizePlaylistID reduces a playlist reference to its bare id.
//
// Accepts a bare id, a prefixed uri ("spotify:playlist:<id>", any namespace)
// or an open.spotify.com link. Anything else is returned trimmed.
func NormalizePlaylistID(ref string) string {
	ref = strings.TrimSpace(ref)

	if idx := strings.LastIndex(ref, ":playlist:"); idx >= 0 {
		return ref[idx+len(":playlist:"):]
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		if u, err := url.Parse(ref); err == nil {
			parts := strings.Split(strings.Trim(u.Path, "/"), "/")
			for i := 0; i < len(parts)-1; i++ {
				if parts[i] == "playlist" {
					return parts[i+1]
				}
			}
		}
	}

	return ref
}

// ValidatePlaylistID checks that a normalized id is a 22 character base-62 string.
func ValidatePlaylistID(id string) error {
	if !playlistIDPattern.MatchString(id) {
		return fmt.Errorf("%w: playlist id %q must be 22 alphanumeric characters", ErrInvalidArgument, id)
	}
	return nil
}

// SanitizeText drops double quotes and replaces control characters with spaces.
func SanitizeText(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '"':
			return -1
		case unicode.IsControl(r):
			return ' '
		default:
			return r
		}
	}, s)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

package httpd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPort       = 80
	DefaultIndexFile  = "index.html"
	DefaultServerName = "staticd"
)

// Settings is process-wide configuration. Build it once with Normalize
// and share the result read-only.
type Settings struct {
	Root              string        // directory files are served from
	Port              int           // TCP port to listen on
	IndexFile         string        // served for "/" and appended to paths ending in "/"
	ThreadLimit       int           // scheduler hint applied by the CLI; 0 leaves the runtime default
	ReadTimeout       time.Duration // bound for reading one request
	WriteTimeoutPerKB time.Duration // base write bound, scaled by body size in KiB
	ServerName        string        // value of the Server header
	LogLevel          string
}

// Normalize fills defaults, makes Root absolute and clean, and checks
// that it names a directory.
func (s Settings) Normalize() (*Settings, error) {
	if strings.TrimSpace(s.Root) == "" {
		return nil, fmt.Errorf("%w: root directory is required", ErrInvalidSettings)
	}
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: root %q: %v", ErrInvalidSettings, s.Root, err)
	}
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: root %q: %v", ErrInvalidSettings, s.Root, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: root %q is not a directory", ErrInvalidSettings, s.Root)
	}
	s.Root = root
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.Port < 0 || s.Port > 65535 {
		return nil, fmt.Errorf("%w: port %d out of range", ErrInvalidSettings, s.Port)
	}
	if s.IndexFile == "" {
		s.IndexFile = DefaultIndexFile
	}
	if s.ThreadLimit < 0 {
		return nil, fmt.Errorf("%w: thread limit %d", ErrInvalidSettings, s.ThreadLimit)
	}
	if s.ServerName == "" {
		s.ServerName = DefaultServerName
	}
	return &s, nil
}

// Addr is the listen address for Port on all interfaces.
func (s *Settings) Addr() string {
	return ":" + strconv.Itoa(s.Port)
}

// Contains reports whether the clean absolute path p is Root or lies
// beneath it.
func (s *Settings) Contains(p string) bool {
	if p == s.Root {
		return true
	}
	prefix := s.Root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(p, prefix)
}

// MIMETable maps a file extension, dot included, to a Content-Type.
type MIMETable map[string]string

func (t MIMETable) Lookup(ext string) (string, bool) {
	ct, ok := t[ext]
	return ct, ok
}

var defaultMIMETypes = MIMETable{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".swf":  "application/x-shockwave-flash",
}

// DefaultMIMETypes returns a copy of the built-in extension table.
func DefaultMIMETypes() MIMETable {
	t := make(MIMETable, len(defaultMIMETypes))
	for k, v := range defaultMIMETypes {
		t[k] = v
	}
	return t
}

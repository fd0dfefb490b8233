package httpd

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ContentResolver maps the request path to a regular file under
// Settings.Root and fills status, length and type from it.
type ContentResolver struct {
	Settings  *Settings
	MIMETypes MIMETable
}

func (c ContentResolver) Apply(req *Request, resp *Response) error {
	if !resp.Success {
		return nil
	}
	path := req.Path
	if isBlank(path) {
		resp.Fail(StatusBadRequest)
		return nil
	}

	// A path naming a directory is refused even if its index exists.
	forbidden := false
	if path == "/" {
		path = c.Settings.IndexFile
	} else if strings.HasSuffix(path, "/") {
		forbidden = true
		path += c.Settings.IndexFile
	}
	path = strings.TrimPrefix(path, "/")

	full, fi, ok := c.locate(path)
	switch {
	case forbidden:
		resp.Fail(StatusForbidden)
		return nil
	case !ok:
		resp.Fail(StatusNotFound)
		return nil
	}

	resp.Status = StatusOK
	resp.ContentLength = fi.Size()
	resp.Header.Set("Content-Length", strconv.FormatInt(fi.Size(), 10))
	if ct, ok := c.MIMETypes.Lookup(filepath.Ext(full)); ok {
		resp.Header.Set("Content-Type", ct)
	}
	if req.Method == MethodGet {
		resp.BodyPath = full
	}
	return nil
}

// locate joins rel to the root and returns the result only if it stays
// under the root and names an existing regular file.
func (c ContentResolver) locate(rel string) (string, os.FileInfo, bool) {
	var full string
	if filepath.IsAbs(rel) {
		full = filepath.Clean(rel)
	} else {
		full = filepath.Join(c.Settings.Root, rel)
	}
	if !c.Settings.Contains(full) {
		return "", nil, false
	}
	fi, err := os.Stat(full)
	if err != nil || !fi.Mode().IsRegular() {
		return "", nil, false
	}
	return full, fi, true
}

// Package config loads server settings from a line-oriented file of
// "key value" pairs. Text after '#' is ignored, lines that do not match
// are skipped, and a repeated key keeps its last value.
//
//	listen        8080
//	document_root /srv/www    # served directory
//	index_file    index.html
//	thread_limit  4
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"dqx0.com/go/staticd/httpd"
)

const (
	KeyListen            = "listen"
	KeyDocumentRoot      = "document_root"
	KeyIndexFile         = "index_file"
	KeyThreadLimit       = "thread_limit"
	KeyReadTimeoutMS     = "read_timeout_ms"
	KeyWriteTimeoutMSPer = "write_timeout_ms_per_kb"
	KeyServerName        = "server_name"
	KeyLogLevel          = "log_level"

	DefaultPath = "httpd.conf"
)

var linePattern = regexp.MustCompile(`^\s*(\w*)\s([^#]*).*$`)

// Parse reads every matching line of r into a key/value map.
func Parse(r io.Reader) (map[string]string, error) {
	kv := make(map[string]string)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		m := linePattern.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		kv[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return kv, nil
}

// Load reads the file at path and builds normalized Settings. A missing
// file yields an error wrapping os.ErrNotExist.
func Load(path string) (*httpd.Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	kv, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Settings(kv)
}

// Settings converts parsed values into httpd.Settings.
func Settings(kv map[string]string) (*httpd.Settings, error) {
	st := httpd.Settings{
		Root:       kv[KeyDocumentRoot],
		IndexFile:  kv[KeyIndexFile],
		ServerName: kv[KeyServerName],
		LogLevel:   kv[KeyLogLevel],
	}
	var err error
	if st.Port, err = intValue(kv, KeyListen); err != nil {
		return nil, err
	}
	if st.ThreadLimit, err = intValue(kv, KeyThreadLimit); err != nil {
		return nil, err
	}
	if st.ReadTimeout, err = msValue(kv, KeyReadTimeoutMS); err != nil {
		return nil, err
	}
	if st.WriteTimeoutPerKB, err = msValue(kv, KeyWriteTimeoutMSPer); err != nil {
		return nil, err
	}
	out, err := st.Normalize()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return out, nil
}

func intValue(kv map[string]string, key string) (int, error) {
	v, ok := kv[key]
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: invalid integer %q", key, v)
	}
	return n, nil
}

func msValue(kv map[string]string, key string) (time.Duration, error) {
	n, err := intValue(kv, key)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("config: %s: negative duration %d", key, n)
	}
	return time.Duration(n) * time.Millisecond, nil
}

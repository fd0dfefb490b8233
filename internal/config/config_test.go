package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dqx0.com/go/staticd/httpd"
)

func TestParse(t *testing.T) {
	in := strings.Join([]string{
		"# comment line",
		"listen 8080",
		"   document_root /srv/www   # trailing comment",
		"thread_limit 4",
		"nospace",
		"listen 9090",
		"",
		"server_name my server",
	}, "\n")
	kv, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := map[string]string{
		"listen":        "9090",
		"document_root": "/srv/www",
		"thread_limit":  "4",
		"server_name":   "my server",
	}
	for k, v := range want {
		if kv[k] != v {
			t.Fatalf("%s=%q want %q (all: %v)", k, kv[k], v, kv)
		}
	}
	if _, ok := kv["nospace"]; ok {
		t.Fatal("line without separator was accepted")
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(t.TempDir(), "httpd.conf")
	body := "listen 8081\ndocument_root " + root + "\nindex_file home.html\nread_timeout_ms 250\nwrite_timeout_ms_per_kb 1000\nlog_level debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	st, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.Port != 8081 || st.Root != filepath.Clean(root) || st.IndexFile != "home.html" {
		t.Fatalf("settings=%+v", st)
	}
	if st.ReadTimeout != 250*time.Millisecond || st.WriteTimeoutPerKB != time.Second {
		t.Fatalf("timeouts=%v/%v", st.ReadTimeout, st.WriteTimeoutPerKB)
	}
	if st.ServerName != httpd.DefaultServerName || st.LogLevel != "debug" {
		t.Fatalf("settings=%+v", st)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.conf"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v, want ErrNotExist", err)
	}
}

func TestSettings_Invalid(t *testing.T) {
	root := t.TempDir()
	cases := []map[string]string{
		{KeyListen: "80"},
		{KeyDocumentRoot: root, KeyListen: "eighty"},
		{KeyDocumentRoot: root, KeyThreadLimit: "many"},
		{KeyDocumentRoot: root, KeyReadTimeoutMS: "-5"},
	}
	for _, kv := range cases {
		if _, err := Settings(kv); err == nil {
			t.Fatalf("Settings(%v) succeeded", kv)
		}
	}
	if _, err := Settings(map[string]string{KeyDocumentRoot: root}); err != nil {
		t.Fatalf("minimal config: %v", err)
	}
}

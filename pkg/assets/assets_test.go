package assets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskUploaderContentAddressing(t *testing.T) {
	u, err := NewDiskUploader(t.TempDir(), "https://assets.example.com/")
	if err != nil {
		t.Fatal(err)
	}

	url1, err := u.Upload(context.Background(), "logo.PNG", strings.NewReader("same bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	url2, err := u.Upload(context.Background(), "other-name.png", strings.NewReader("same bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if url1 != url2 {
		t.Errorf("identical content produced different URLs: %q vs %q", url1, url2)
	}
	if !strings.HasPrefix(url1, "https://assets.example.com/") {
		t.Errorf("URL not under base: %q", url1)
	}
	if !strings.HasSuffix(url1, ".png") {
		t.Errorf("extension not preserved lowercase: %q", url1)
	}
}

func TestDiskUploaderWritesFile(t *testing.T) {
	dir := t.TempDir()
	u, _ := NewDiskUploader(dir, "http://localhost:8080/assets")

	url, err := u.Upload(context.Background(), "a.jpg", strings.NewReader("jpeg-ish"))
	if err != nil {
		t.Fatal(err)
	}
	name := url[strings.LastIndexByte(url, '/')+1:]
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}
	if string(data) != "jpeg-ish" {
		t.Errorf("stored bytes = %q", data)
	}
}

func TestUploadRejectsUnsafeFilenames(t *testing.T) {
	u, err := NewDiskUploader(t.TempDir(), "https://assets.example.com")
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"", "../../etc/passwd", "dir/logo.png", ".hidden"} {
		if _, err := u.Upload(context.Background(), name, strings.NewReader("x")); err == nil {
			t.Errorf("Upload(%q) should be rejected", name)
		}
	}
}

func TestMemoryUploaderRoundTrip(t *testing.T) {
	u := NewMemoryUploader("mem://assets")

	url, err := u.Upload(context.Background(), "x.png", strings.NewReader("payload"))
	if err != nil {
		t.Fatal(err)
	}
	data, ok := u.File(url)
	if !ok || string(data) != "payload" {
		t.Errorf("File(%q) = %q, %v", url, data, ok)
	}
}

package vbi

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// fetchTimeout bounds remote index downloads. Index files are small compared
// to their sources, so a few minutes is generous.
const fetchTimeout = 5 * time.Minute

// FetchIndex loads a VBI index from a local path or, when the path contains
// a URL scheme, downloads it to a temporary file first. The temporary file
// is removed once the index is in memory.
func FetchIndex(path string) (*Index, error) {
	if !strings.Contains(path, "://") {
		return LoadIndex(path)
	}

	tmp, err := downloadIndex(path)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp)

	return LoadIndex(tmp)
}

func downloadIndex(url string) (string, error) {
	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("download index %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download index %s: HTTP %s", url, resp.Status)
	}

	f, err := os.CreateTemp("", "vbi-*.vbi")
	if err != nil {
		return "", fmt.Errorf("create temp index file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("download index %s: %w", url, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp index file: %w", err)
	}
	return f.Name(), nil
}

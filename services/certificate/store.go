package certificate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"
)

// Store persists a rendered artifact and returns a retrievable URL
type Store interface {
	Put(name string, artifact []byte) (string, error)
}

// LocalStore writes artifacts under the upload directory, served as static
// files by the app
type LocalStore struct {
	Dir     string
	BaseURL string
}

func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{Dir: dir, BaseURL: baseURL}
}

func (s *LocalStore) Put(name string, artifact []byte) (string, error) {
	destDir := filepath.Join(s.Dir, "certificates")
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(destDir, name), artifact, 0644); err != nil {
		return "", err
	}

	return s.BaseURL + "/certificates/" + name, nil
}

// MediaStore uploads artifacts to the external media storage provider
type MediaStore struct {
	client *resty.Client
	apiURL string
	apiKey string
}

func NewMediaStore(apiURL, apiKey string) *MediaStore {
	return &MediaStore{client: resty.New(), apiURL: apiURL, apiKey: apiKey}
}

func (s *MediaStore) Put(name string, artifact []byte) (string, error) {
	var uploadResp struct {
		Status bool `json:"status"`
		Data   struct {
			URL string `json:"url"`
		} `json:"data"`
		Message string `json:"message"`
	}

	resp, err := s.client.R().
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", s.apiKey)).
		SetFileReader("file", name, bytes.NewReader(artifact)).
		SetResult(&uploadResp).
		Post(s.apiURL + "/upload")
	if err != nil {
		return "", fmt.Errorf("media upload failed: %v", err)
	}
	if resp.StatusCode() != 200 || !uploadResp.Status {
		return "", fmt.Errorf("media upload rejected: %s", uploadResp.Message)
	}

	return uploadResp.Data.URL, nil
}

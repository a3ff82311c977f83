package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"time"

	"github.com/google/uuid"
)

// StorageService proxies authenticated uploads to the external
// object-storage/CDN provider
type StorageService struct {
	uploadURL  string
	privateKey string
	folder     string
	client     *http.Client
}

// UploadResult is the provider's answer: a public URL and a file id
type UploadResult struct {
	URL    string `json:"url"`
	FileID string `json:"fileId"`
}

// NewStorageService reads configuration from the environment
func NewStorageService() *StorageService {
	uploadURL := os.Getenv("STORAGE_UPLOAD_URL")
	privateKey := os.Getenv("STORAGE_PRIVATE_KEY")

	if uploadURL == "" || privateKey == "" {
		log.Printf("WARNING: storage service not fully configured:")
		if uploadURL == "" {
			log.Printf("  - STORAGE_UPLOAD_URL is missing")
		}
		if privateKey == "" {
			log.Printf("  - STORAGE_PRIVATE_KEY is missing")
		}
		log.Printf("File uploads will fail until these are set")
	}

	folder := os.Getenv("STORAGE_FOLDER")
	if folder == "" {
		folder = "stayhaven"
	}

	return &StorageService{
		uploadURL:  uploadURL,
		privateKey: privateKey,
		folder:     folder,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether uploads can be attempted
func (s *StorageService) Configured() bool {
	return s.uploadURL != "" && s.privateKey != ""
}

// Upload forwards file bytes to the storage provider and returns the
// public URL and file id
func (s *StorageService) Upload(ctx context.Context, data []byte, filename, contentType string) (*UploadResult, error) {
	if !s.Configured() {
		return nil, errors.New("storage service is not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}

	if err := writer.WriteField("fileName", filename); err != nil {
		return nil, err
	}
	if err := writer.WriteField("folder", s.folder); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBasicAuth(s.privateKey, "")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("storage upload failed: status=%d body=%s", resp.StatusCode, respBody)
		return nil, fmt.Errorf("storage provider returned status %d", resp.StatusCode)
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unexpected storage provider response: %w", err)
	}
	if result.FileID == "" {
		result.FileID = uuid.NewString()
	}
	return &result, nil
}

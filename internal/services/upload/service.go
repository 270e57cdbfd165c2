package upload

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/maroso-log/devtrack/internal/config"
)

const uploadURL = "https://api.cloudinary.com/v1_1/%s/%s/upload"

// Client uploads attachment bytes to Cloudinary and returns durable
// URLs. Failures degrade to an empty URL with a diagnostic in the log;
// the caller stores whatever comes back, so a failed upload simply
// leaves the attachment column blank.
type Client struct {
	cloudName string
	apiKey    string
	apiSecret string
	http      *http.Client
	now       func() time.Time
}

// NewClient creates the upload client.
func NewClient(cfg config.MediaConfig) *Client {
	return &Client{
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		http:      &http.Client{Timeout: 60 * time.Second},
		now:       time.Now,
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.cloudName != "" && c.apiKey != "" && c.apiSecret != ""
}

// Upload sends the bytes under a sanitized name and returns the secure
// URL, or "" on any failure. PDFs upload as raw resources with their
// extension kept; images upload with auto type detection and the host
// appends its own extension.
func (c *Client) Upload(data []byte, filename string) string {
	if len(data) == 0 {
		log.Println("⚠️ Upload: empty file, skipping")
		return ""
	}
	if !c.Configured() {
		log.Println("⚠️ Upload: Cloudinary credentials not configured")
		return ""
	}

	clean := SanitizeFilename(filename)

	resourceType := "auto"
	publicID := strings.TrimSuffix(clean, filepath.Ext(clean))
	if strings.EqualFold(filepath.Ext(clean), ".pdf") {
		resourceType = "raw"
		publicID = clean
	}

	url, err := c.upload(data, publicID, resourceType)
	if err != nil {
		log.Printf("⚠️ Upload: %s failed: %v", clean, err)
		return ""
	}
	return url
}

func (c *Client) upload(data []byte, publicID, resourceType string) (string, error) {
	timestamp := fmt.Sprintf("%d", c.now().Unix())

	// Signature over the alphabetically ordered signed params plus the
	// API secret, per the Cloudinary signed-upload contract.
	toSign := fmt.Sprintf("overwrite=true&public_id=%s&timestamp=%s%s", publicID, timestamp, c.apiSecret)
	digest := sha1.Sum([]byte(toSign))
	signature := hex.EncodeToString(digest[:])

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", publicID)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	fields := map[string]string{
		"api_key":   c.apiKey,
		"timestamp": timestamp,
		"public_id": publicID,
		"overwrite": "true",
		"signature": signature,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf(uploadURL, c.cloudName, resourceType)
	req, err := http.NewRequest(http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload returned status %d: %s", resp.StatusCode, raw)
	}

	var parsed struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}
	if parsed.SecureURL == "" {
		return "", fmt.Errorf("upload response missing secure_url")
	}
	return parsed.SecureURL, nil
}

var (
	invalidChars = regexp.MustCompile(`[^\w\-]`)
	repeatedSep  = regexp.MustCompile(`_+`)
)

// SanitizeFilename constrains a filename to letters, digits,
// underscore and dash; the media host rejects '#', '+', spaces and
// most punctuation in public IDs. The base name is capped at 80
// characters, keeping the extension.
func SanitizeFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	base = invalidChars.ReplaceAllString(base, "_")
	base = repeatedSep.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_")
	if len(base) > 80 {
		base = base[:80]
	}
	return base + ext
}

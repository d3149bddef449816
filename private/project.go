package private

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/filswan/go-swan-lib/logs"
	"github.com/google/uuid"
)

// ProjectToken is the capability needed to deploy a private project later.
type ProjectToken struct {
	DownloadURI         string `json:"download_uri"`
	EncryptionKeyBase64 string `json:"encryption_key_base64"`
}

func (t ProjectToken) Key() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(t.EncryptionKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}
	return key, nil
}

// Encode serializes the token as url-safe base64 json.
func (t ProjectToken) Encode() (string, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

func DecodeProjectToken(s string) (ProjectToken, error) {
	var t ProjectToken
	raw, err := base64.URLEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return t, fmt.Errorf("decode project token: %w", err)
	}
	if err = json.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("decode project token: %w", err)
	}
	if t.DownloadURI == "" {
		return t, fmt.Errorf("project token has no download uri")
	}
	if _, err = t.Key(); err != nil {
		return t, err
	}
	return t, nil
}

type Project struct {
	Path        string
	ExcludeDirs []string
	uploader    Uploader
}

func NewProject(path string, uploader Uploader) *Project {
	return &Project{Path: path, ExcludeDirs: DefaultExcludeDirs, uploader: uploader}
}

// Build packs and encrypts the project and uploads the ciphertext. The key is only
// returned in the token.
func (p *Project) Build(ctx context.Context) (*ProjectToken, error) {
	archive, err := Pack(p.Path, p.ExcludeDirs)
	if err != nil {
		logs.GetLogger().Errorf("Failed pack project %s, error: %v", p.Path, err)
		return nil, err
	}
	sealed, err := Encrypt(archive)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("%s-%s.tar.gz.enc", filepath.Base(filepath.Clean(p.Path)), uuid.NewString())
	uri, err := p.uploader.Upload(ctx, objectName, sealed.Artifact())
	if err != nil {
		logs.GetLogger().Errorf("Failed upload private project, error: %v", err)
		return nil, err
	}
	logs.GetLogger().Infof("private project uploaded, uri: %s, size: %d", uri, len(sealed.Ciphertext))
	return &ProjectToken{
		DownloadURI:         uri,
		EncryptionKeyBase64: base64.StdEncoding.EncodeToString(sealed.Key),
	}, nil
}

package private

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/filswan/go-swan-lib/logs"
	"github.com/go-http-utils/headers"
	"github.com/swanchain/go-swan-sdk/constants"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/retry"
)

// Task hands a private project to the temporary node that runs it.
type Task struct {
	nodeURL    string
	token      ProjectToken
	httpClient *http.Client
}

type TaskOption func(*Task)

func WithNodeHTTPClient(c *http.Client) TaskOption {
	return func(t *Task) {
		t.httpClient = c
	}
}

func NewTask(nodeURL string, token ProjectToken, options ...TaskOption) *Task {
	t := &Task{
		nodeURL:    strings.TrimSuffix(nodeURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, option := range options {
		option(t)
	}
	return t
}

// DeployTask waits for the node to answer its health check under policy, then hands
// over the download uri and the project key sealed to the node's public key.
func (t *Task) DeployTask(ctx context.Context, policy retry.Policy) error {
	err := policy.Poll(ctx, func(attempt int) (bool, error) {
		if err := t.health(ctx); err != nil {
			logs.GetLogger().Debugf("node %s not ready, attempt %d, error: %v", t.nodeURL, attempt, err)
			return false, nil
		}
		return true, nil
	})
	if errors.Is(err, retry.ErrExhausted) {
		logs.GetLogger().Errorf("Failed reach node %s, error: %v", t.nodeURL, err)
		return models.NewError(models.CategoryTransport, models.KindTransient, "DeployTask",
			fmt.Errorf("node %s: %v: %w", t.nodeURL, err, models.ErrDeploymentTimeout))
	}
	if err != nil {
		return err
	}
	return t.handoff(ctx)
}

func (t *Task) health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.nodeURL+constants.NODE_HEALTH_PATH, nil)
	if err != nil {
		return err
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health status code %d", resp.StatusCode)
	}
	return nil
}

// NodePublicKey fetches the node's PEM encoded RSA public key.
func (t *Task) NodePublicKey(ctx context.Context) (*rsa.PublicKey, error) {
	const op = "NodePublicKey"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.nodeURL+constants.NODE_PUBLIC_KEY_PATH, nil)
	if err != nil {
		return nil, models.ValidationError(op, err)
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, models.TransportError(op, models.KindTransient, fmt.Errorf("%w: %v", models.ErrTransport, err))
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.TransportError(op, models.KindTransient, fmt.Errorf("%w: %v", models.ErrTransport, err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, models.TransportError(op, models.KindInvalid, fmt.Errorf("%w: status code %d", models.ErrRequestRejected, resp.StatusCode))
	}
	return parsePublicKey(raw)
}

func parsePublicKey(raw []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, models.TransportError("NodePublicKey", models.KindFatal, fmt.Errorf("node public key is not PEM encoded"))
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		if pub, pkcs1Err := x509.ParsePKCS1PublicKey(block.Bytes); pkcs1Err == nil {
			return pub, nil
		}
		return nil, models.TransportError("NodePublicKey", models.KindFatal, err)
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, models.TransportError("NodePublicKey", models.KindFatal, fmt.Errorf("node public key is %T, want RSA", parsed))
	}
	return pub, nil
}

type handoffRequest struct {
	DownloadURI  string `json:"download_uri"`
	EncryptedKey string `json:"encrypted_key"`
}

func (t *Task) handoff(ctx context.Context) error {
	const op = "DeployTask"
	pub, err := t.NodePublicKey(ctx)
	if err != nil {
		return err
	}
	key, err := t.token.Key()
	if err != nil {
		return models.ValidationError(op, err)
	}
	sealedKey, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, key, nil)
	if err != nil {
		return models.ValidationError(op, fmt.Errorf("seal key for node: %w", err))
	}

	body, _ := json.Marshal(handoffRequest{
		DownloadURI:  t.token.DownloadURI,
		EncryptedKey: base64.StdEncoding.EncodeToString(sealedKey),
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.nodeURL+constants.NODE_DEPLOY_PATH, bytes.NewReader(body))
	if err != nil {
		return models.ValidationError(op, err)
	}
	req.Header.Set(headers.ContentType, "application/json")
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return models.TransportError(op, models.KindTransient, fmt.Errorf("%w: %v", models.ErrTransport, err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		return models.TransportError(op, models.KindInvalid, fmt.Errorf("%w: status code %d", models.ErrRequestRejected, resp.StatusCode))
	}
	logs.GetLogger().Infof("private project handed to node %s", t.nodeURL)
	return nil
}

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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swanchain/go-swan-sdk/constants"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/retry"
)

func writeFile(t *testing.T, root, rel, content string) {
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func sampleProject(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, root, "main.py", "print('hello')")
	writeFile(t, root, "app/handler.py", "def handle(): pass")
	writeFile(t, root, ".git/HEAD", "ref: refs/heads/main")
	writeFile(t, root, "app/node_modules/pkg/index.js", "module.exports = 1")
	writeFile(t, root, "app/.github/workflows/ci.yml", "on: push")
	writeFile(t, root, "docs/git/notes.md", "kept: name differs from .git")
	return root
}

func TestPackExcludesByDirectoryName(t *testing.T) {
	archive, err := Pack(sampleProject(t), DefaultExcludeDirs)
	require.NoError(t, err)

	files, err := Unpack(archive)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"main.py":           []byte("print('hello')"),
		"app/handler.py":    []byte("def handle(): pass"),
		"docs/git/notes.md": []byte("kept: name differs from .git"),
	}, files)

	all, err := Pack(sampleProject(t), nil)
	require.NoError(t, err)
	files, err = Unpack(all)
	require.NoError(t, err)
	assert.Len(t, files, 6)

	_, err = Pack(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestEncryptLayout(t *testing.T) {
	plain := []byte("private project bytes")
	sealed, err := Encrypt(plain)
	require.NoError(t, err)
	assert.Len(t, sealed.Key, KeySize)
	assert.Len(t, sealed.IV, IVSize)
	assert.Len(t, sealed.Ciphertext, len(plain))

	combined := sealed.Bytes()
	assert.Equal(t, sealed.Key, combined[:KeySize])
	assert.Equal(t, sealed.IV, combined[KeySize:KeySize+IVSize])

	artifact := sealed.Artifact()
	assert.Equal(t, combined[KeySize:], artifact)
	assert.False(t, bytes.Contains(artifact, sealed.Key))

	parsed, err := ParseSealed(combined)
	require.NoError(t, err)
	assert.Equal(t, sealed, parsed)

	opened, err := Decrypt(sealed.Key, artifact)
	require.NoError(t, err)
	assert.Equal(t, plain, opened)

	other, err := Encrypt(plain)
	require.NoError(t, err)
	assert.NotEqual(t, sealed.Key, other.Key)

	_, err = Decrypt(sealed.Key[:5], artifact)
	assert.Error(t, err)
	_, err = ParseSealed([]byte("short"))
	assert.Error(t, err)
}

type memoryUploader struct {
	objects map[string][]byte
}

func (m *memoryUploader) Upload(_ context.Context, objectName string, data []byte) (string, error) {
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[objectName] = append([]byte(nil), data...)
	return "https://gateway.example/ipfs/" + objectName, nil
}

func TestProjectBuild(t *testing.T) {
	uploader := &memoryUploader{}
	token, err := NewProject(sampleProject(t), uploader).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, uploader.objects, 1)
	var uploaded []byte
	for _, data := range uploader.objects {
		uploaded = data
	}
	key, err := token.Key()
	require.NoError(t, err)
	assert.False(t, bytes.Contains(uploaded, key))

	archive, err := Decrypt(key, uploaded)
	require.NoError(t, err)
	files, err := Unpack(archive)
	require.NoError(t, err)
	assert.Contains(t, files, "main.py")
	assert.NotContains(t, files, ".git/HEAD")

	encoded, err := token.Encode()
	require.NoError(t, err)
	restored, err := DecodeProjectToken(encoded)
	require.NoError(t, err)
	assert.Equal(t, *token, restored)

	_, err = DecodeProjectToken("!!!")
	assert.Error(t, err)
}

func TestTokenStore(t *testing.T) {
	store, err := OpenTokenStore(filepath.Join(t.TempDir(), "tokens"))
	require.NoError(t, err)
	defer store.Close()

	token := ProjectToken{DownloadURI: "https://gateway.example/ipfs/Qm1", EncryptionKeyBase64: base64.StdEncoding.EncodeToString(make([]byte, KeySize))}
	require.NoError(t, store.Put("hello", token))

	got, err := store.Get("hello")
	require.NoError(t, err)
	assert.Equal(t, token, got)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, names)

	require.NoError(t, store.Delete("hello"))
	_, err = store.Get("hello")
	assert.True(t, errors.Is(err, ErrTokenNotFound))
}

type fakeNode struct {
	key      *rsa.PrivateKey
	failures int32
	calls    int32
	received handoffRequest
}

func (n *fakeNode) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(constants.NODE_HEALTH_PATH, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n.calls, 1) <= atomic.LoadInt32(&n.failures) {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc(constants.NODE_PUBLIC_KEY_PATH, func(w http.ResponseWriter, r *http.Request) {
		der, err := x509.MarshalPKIXPublicKey(&n.key.PublicKey)
		require.NoError(t, err)
		_ = pem.Encode(w, &pem.Block{Type: "PUBLIC KEY", Bytes: der})
	})
	mux.HandleFunc(constants.NODE_DEPLOY_PATH, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&n.received); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})
	return mux
}

func testToken(t *testing.T) (ProjectToken, []byte) {
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return ProjectToken{DownloadURI: "https://gateway.example/ipfs/QmPrivate", EncryptionKeyBase64: base64.StdEncoding.EncodeToString(key)}, key
}

func TestDeployTask(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	node := &fakeNode{key: rsaKey, failures: 2}
	srv := httptest.NewServer(node.handler(t))
	defer srv.Close()

	token, key := testToken(t)
	task := NewTask(srv.URL, token)
	require.NoError(t, task.DeployTask(context.Background(), retry.Fixed(5, time.Millisecond)))
	assert.Equal(t, int32(3), atomic.LoadInt32(&node.calls))

	assert.Equal(t, token.DownloadURI, node.received.DownloadURI)
	sealedKey, err := base64.StdEncoding.DecodeString(node.received.EncryptedKey)
	require.NoError(t, err)
	opened, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, rsaKey, sealedKey, nil)
	require.NoError(t, err)
	assert.Equal(t, key, opened)
}

func TestDeployTaskTimeout(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	node := &fakeNode{key: rsaKey, failures: 100}
	srv := httptest.NewServer(node.handler(t))
	defer srv.Close()

	token, _ := testToken(t)
	err = NewTask(srv.URL, token).DeployTask(context.Background(), retry.Fixed(3, time.Millisecond))
	assert.True(t, errors.Is(err, models.ErrDeploymentTimeout))
	assert.Equal(t, int32(3), atomic.LoadInt32(&node.calls))
	assert.Empty(t, node.received.DownloadURI)
}

func TestNodePublicKeyRejectsGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not a key"))
	}))
	defer srv.Close()

	token, _ := testToken(t)
	_, err := NewTask(srv.URL, token).NodePublicKey(context.Background())
	assert.Error(t, err)
}

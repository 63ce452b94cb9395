package circuits

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vocdoni/zkage/config"
	"github.com/vocdoni/zkage/log"
	"github.com/vocdoni/zkage/types"
)

// ErrArtifactDownload is returned, wrapped, when an artifact cannot be
// fetched from its remote location or the fetched content does not match
// the expected hash.
var ErrArtifactDownload = errors.New("artifact download failed")

// CheckHashes is a flag that determines if the hashes of the artifacts should
// be checked when they are loaded or downloaded. It can be set to false by
// setting the ZKAGE_CHECK_HASHES environment variable to false or 0.
var CheckHashes = true

// BaseDir is the path where the artifact cache is expected to be found. If the
// artifacts are not found there, they will be downloaded and stored. Defaults
// to the env var ZKAGE_ARTIFACTS_DIR or the user cache directory.
var BaseDir string

func init() {
	if checkHashes := os.Getenv(config.CheckHashesEnv); checkHashes != "" {
		if strings.ToLower(checkHashes) == "false" || checkHashes == "0" {
			CheckHashes = false
		}
	}
	if dir := os.Getenv(config.ArtifactsDirEnv); dir != "" {
		BaseDir = dir
	} else {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			log.Warnf("unable to access user home directory, using temporary directory: %v", err)
			BaseDir = filepath.Join(os.TempDir(), config.DefaultArtifactsDirName)
		} else {
			BaseDir = filepath.Join(home, ".cache", config.DefaultArtifactsDirName)
		}
	}
}

// Artifact holds the remote URL of a setup file, the sha256 hash of its
// content and, once loaded, the content itself. The hash is also the name of
// the file in the local cache.
type Artifact struct {
	RemoteURL string
	Hash      []byte
	Content   []byte

	mu sync.Mutex
}

// NewArtifact returns an artifact for the hex encoded hash provided. It
// returns an error if the hash cannot be decoded.
func NewArtifact(remoteURL, hexHash string) (*Artifact, error) {
	hash, err := types.HexStringToHexBytes(hexHash)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact hash: %w", err)
	}
	if len(hash) != sha256.Size {
		return nil, fmt.Errorf("invalid artifact hash length %d", len(hash))
	}
	return &Artifact{RemoteURL: remoteURL, Hash: hash}, nil
}

// Load makes the artifact content available. It returns immediately if the
// content is already in memory, otherwise it reads the local cache and, if
// the file is not there, downloads it from the remote URL. Download failures
// wrap ErrArtifactDownload and are not cached: the next call tries again.
func (k *Artifact) Load(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.Content) != 0 {
		return nil
	}
	if len(k.Hash) == 0 {
		return fmt.Errorf("artifact hash not provided")
	}
	content, err := load(k.Hash)
	if err != nil {
		return err
	}
	if content == nil {
		if err := k.download(ctx); err != nil {
			return err
		}
		if content, err = load(k.Hash); err != nil {
			return err
		}
		if content == nil {
			return fmt.Errorf("%w: no content stored for %x", ErrArtifactDownload, k.Hash)
		}
	}
	k.Content = content
	return nil
}

// Download fetches the artifact into the local cache without loading it in
// memory. It does nothing if the file is already cached.
func (k *Artifact) Download(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.Content) != 0 {
		return nil
	}
	if _, err := os.Stat(filepath.Join(BaseDir, hex.EncodeToString(k.Hash))); err == nil {
		return nil
	}
	return k.download(ctx)
}

func (k *Artifact) download(ctx context.Context) error {
	if k.RemoteURL == "" {
		return fmt.Errorf("%w: artifact not cached and remote url not provided", ErrArtifactDownload)
	}
	if err := downloadAndStore(ctx, k.Hash, k.RemoteURL); err != nil {
		return fmt.Errorf("%w: %w", ErrArtifactDownload, err)
	}
	return nil
}

// CircuitArtifacts groups the setup files of a circuit: the compiled
// constraint system and the proving and verification keys. Any of them can
// be nil.
type CircuitArtifacts struct {
	circuitDefinition *Artifact
	provingKey        *Artifact
	verifyingKey      *Artifact
}

// NewCircuitArtifacts creates a new CircuitArtifacts with the artifacts
// provided.
func NewCircuitArtifacts(circuit, provingKey, verifyingKey *Artifact) *CircuitArtifacts {
	return &CircuitArtifacts{
		circuitDefinition: circuit,
		provingKey:        provingKey,
		verifyingKey:      verifyingKey,
	}
}

// DownloadAll fetches every artifact of the set that is not cached yet.
func (ca *CircuitArtifacts) DownloadAll(ctx context.Context) error {
	if ca.circuitDefinition != nil {
		if err := ca.circuitDefinition.Download(ctx); err != nil {
			return fmt.Errorf("error downloading circuit definition: %w", err)
		}
	}
	if ca.provingKey != nil {
		if err := ca.provingKey.Download(ctx); err != nil {
			return fmt.Errorf("error downloading proving key: %w", err)
		}
	}
	if ca.verifyingKey != nil {
		if err := ca.verifyingKey.Download(ctx); err != nil {
			return fmt.Errorf("error downloading verifying key: %w", err)
		}
	}
	return nil
}

// CircuitDefinition returns the constraint system artifact, if any.
func (ca *CircuitArtifacts) CircuitDefinition() *Artifact {
	return ca.circuitDefinition
}

// ProvingKey returns the proving key artifact, if any.
func (ca *CircuitArtifacts) ProvingKey() *Artifact {
	return ca.provingKey
}

// VerifyingKey returns the verifying key artifact, if any.
func (ca *CircuitArtifacts) VerifyingKey() *Artifact {
	return ca.verifyingKey
}

func ensureBaseDir() error {
	if _, err := os.Stat(BaseDir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("error checking the base directory: %w", err)
		}
		if err := os.MkdirAll(BaseDir, 0o755); err != nil {
			return fmt.Errorf("error creating the base directory: %w", err)
		}
	}
	return nil
}

func load(hash []byte) ([]byte, error) {
	if err := ensureBaseDir(); err != nil {
		return nil, err
	}
	path := filepath.Join(BaseDir, hex.EncodeToString(hash))
	content, err := os.ReadFile(path)
	if err != nil {
		// a missing file is not an error, the caller downloads it
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	if CheckHashes {
		fileHash := sha256.Sum256(content)
		if !bytes.Equal(fileHash[:], hash) {
			return nil, fmt.Errorf("hash mismatch for file %s: expected %x, got %x", path, hash, fileHash)
		}
	}
	return content, nil
}

// progressReader wraps an io.Reader and keeps track of the total bytes read.
type progressReader struct {
	reader        io.Reader
	total         int64 // updated atomically
	contentLength int64
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	atomic.AddInt64(&pr.total, int64(n))
	return n, err
}

// downloadAndStore downloads a file from a URL and stores it in the local
// cache, resuming a previous partial download when the server supports it.
func downloadAndStore(ctx context.Context, expectedHash []byte, fileURL string) error {
	if _, err := url.Parse(fileURL); err != nil {
		return fmt.Errorf("error parsing the file URL provided: %w", err)
	}
	if err := ensureBaseDir(); err != nil {
		return err
	}
	path := filepath.Join(BaseDir, hex.EncodeToString(expectedHash))
	partialPath := path + ".partial"

	var startByte int64
	if info, err := os.Stat(partialPath); err == nil {
		startByte = info.Size()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("error creating the file request: %w", err)
	}
	if startByte > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", startByte))
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("error performing the request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusPartialContent {
		return fmt.Errorf("error downloading file %s: http status: %d", fileURL, res.StatusCode)
	}
	var fileMode int
	if startByte > 0 && res.StatusCode == http.StatusPartialContent {
		fileMode = os.O_APPEND | os.O_WRONLY
	} else {
		fileMode = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		startByte = 0
	}
	hasher := sha256.New()
	if startByte > 0 {
		existing, err := os.Open(partialPath)
		if err == nil {
			_, _ = io.Copy(hasher, existing)
			existing.Close()
		}
	}
	fd, err := os.OpenFile(partialPath, fileMode, 0o644)
	if err != nil {
		return fmt.Errorf("error opening artifact file: %w", err)
	}
	defer fd.Close()

	pr := &progressReader{
		reader:        res.Body,
		contentLength: res.ContentLength + startByte,
	}
	mw := io.MultiWriter(fd, hasher)
	done := make(chan error, 1)
	go func() {
		_, err := io.Copy(mw, pr)
		done <- err
	}()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for waiting := true; waiting; {
		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("error copying data to file: %w", err)
			}
			waiting = false
		case <-ticker.C:
			total := atomic.LoadInt64(&pr.total)
			var percentage float64
			if pr.contentLength > 0 {
				percentage = (float64(total+startByte) / float64(pr.contentLength)) * 100
			}
			log.Debugw("download artifacts", "url", fileURL,
				"downloaded", fmt.Sprintf("%.2fMiB", float64(total)/(1024*1024)),
				"progress", fmt.Sprintf("%.2f%%", percentage))
		}
	}
	if CheckHashes {
		if computed := hasher.Sum(nil); !bytes.Equal(computed, expectedHash) {
			_ = os.Remove(partialPath)
			return fmt.Errorf("hash mismatch: expected %x, got %x", expectedHash, computed)
		}
	}
	if err := os.Rename(partialPath, path); err != nil {
		return fmt.Errorf("error renaming file: %w", err)
	}
	log.Infow("artifact downloaded", "url", fileURL, "hash", hex.EncodeToString(expectedHash))
	return nil
}

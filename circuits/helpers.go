package circuits

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"github.com/vocdoni/zkage/log"
)

// StoreConstraintSystem stores the constraint system in a file and returns
// the sha256 hash of the written content.
func StoreConstraintSystem(cs io.WriterTo, filepath string) ([]byte, error) {
	return store(cs, filepath, "constraint system")
}

// StoreProvingKey stores the proving key in a file and returns the sha256
// hash of the written content.
func StoreProvingKey(pk io.WriterTo, filepath string) ([]byte, error) {
	return store(pk, filepath, "proving key")
}

// StoreVerificationKey stores the verification key in a file and returns the
// sha256 hash of the written content.
func StoreVerificationKey(vk io.WriterTo, filepath string) ([]byte, error) {
	return store(vk, filepath, "verification key")
}

func store(src io.WriterTo, filepath, kind string) ([]byte, error) {
	fd, err := os.Create(filepath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	hasher := sha256.New()
	if _, err := src.WriteTo(io.MultiWriter(fd, hasher)); err != nil {
		return nil, fmt.Errorf("error writing %s: %w", kind, err)
	}
	hash := hasher.Sum(nil)
	log.Infow(kind+" written", "file", filepath, "hash", fmt.Sprintf("%x", hash))
	return hash, nil
}

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/consensys/gnark/backend/groth16"
	flag "github.com/spf13/pflag"

	"github.com/vocdoni/zkage/circuits"
	"github.com/vocdoni/zkage/circuits/agecheck"
	"github.com/vocdoni/zkage/config"
	"github.com/vocdoni/zkage/log"
)

func main() {
	outDir := flag.String("out", ".", "directory where the setup files are written")
	logLevel := flag.String("logLevel", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flag.Parse()
	log.Init(*logLevel, "stderr", nil)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	ccs, err := agecheck.Compile()
	if err != nil {
		log.Fatal(err)
	}
	log.Infow("circuit compiled", "constraints", ccs.GetNbConstraints(), "took", time.Since(start).String())

	start = time.Now()
	// not a multi-party ceremony, whoever runs this knows the toxic waste
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		log.Fatal(err)
	}
	log.Infow("setup done", "took", time.Since(start).String())

	ccsHash, err := circuits.StoreConstraintSystem(ccs, filepath.Join(*outDir, config.AgeCheckCircuitFile))
	if err != nil {
		log.Fatal(err)
	}
	pkHash, err := circuits.StoreProvingKey(pk, filepath.Join(*outDir, config.AgeCheckProvingKeyFile))
	if err != nil {
		log.Fatal(err)
	}
	vkHash, err := circuits.StoreVerificationKey(vk, filepath.Join(*outDir, config.AgeCheckVerificationKeyFile))
	if err != nil {
		log.Fatal(err)
	}

	// flags for cmd/zkaged
	fmt.Printf("--circuitHash=%s \\\n", hex.EncodeToString(ccsHash))
	fmt.Printf("--provingKeyHash=%s \\\n", hex.EncodeToString(pkHash))
	fmt.Printf("--verificationKeyHash=%s\n", hex.EncodeToString(vkHash))
}

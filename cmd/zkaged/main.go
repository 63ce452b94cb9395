package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/vocdoni/zkage/backend"
	"github.com/vocdoni/zkage/circuits"
	"github.com/vocdoni/zkage/circuits/agecheck"
	"github.com/vocdoni/zkage/config"
	"github.com/vocdoni/zkage/log"
	"github.com/vocdoni/zkage/prover"
	"github.com/vocdoni/zkage/service"
	"github.com/vocdoni/zkage/verifier"
)

func main() {
	host := flag.String("host", config.DefaultAPIHost, "API host to listen on")
	port := flag.Int("port", config.DefaultAPIPort, "API port to listen on")
	logLevel := flag.String("logLevel", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	logOutput := flag.String("logOutput", config.DefaultLogOutput, "log output (stdout, stderr or filepath)")
	baseURL := flag.String("artifactsURL", config.AgeCheckArtifactsBaseURL, "base URL of the circuit setup files")
	artifactsDir := flag.String("artifactsDir", "", "local cache of the setup files (defaults to $"+config.ArtifactsDirEnv+")")
	ccsHash := flag.String("circuitHash", "", "sha256 of the compiled circuit, compiled in process if empty")
	pkHash := flag.String("provingKeyHash", "", "sha256 of the proving key")
	vkHash := flag.String("verificationKeyHash", "", "sha256 of the verification key")
	prefetch := flag.Bool("prefetch", true, "download the setup files before serving")
	maxIdle := flag.Duration("sessionMaxIdle", config.DefaultSessionMaxIdle, "drop sessions idle for longer than this")
	flag.Parse()
	log.Init(*logLevel, *logOutput, nil)

	if *artifactsDir != "" {
		circuits.BaseDir = *artifactsDir
	}
	artifacts, err := agecheck.Artifacts(*baseURL, agecheck.ArtifactHashes{
		Circuit:         *ccsHash,
		ProvingKey:      *pkHash,
		VerificationKey: *vkHash,
	})
	if err != nil {
		log.Fatal(err)
	}
	if *prefetch {
		log.Infow("downloading circuit artifacts", "baseURL", *baseURL, "dir", circuits.BaseDir)
		if err := service.DownloadArtifacts(config.DownloadTimeout, artifacts); err != nil {
			log.Fatal(err)
		}
	}

	b, err := backend.New(backend.Config{Artifacts: artifacts})
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := service.NewAPI(prover.New(b, nil), verifier.New(b), *host, *port)
	if err := api.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer api.Stop()

	sweeper := service.NewSessionSweeper(api.API(), *maxIdle, config.DefaultSessionSweepInterval)
	if err := sweeper.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer sweeper.Stop()

	h, p := api.HostPort()
	log.Infow("zkage server ready", "host", h, "port", p, "circuit", agecheck.CircuitID, "version", agecheck.Version)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Warnf("received signal, shutting down")
}

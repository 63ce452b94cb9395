package main

import (
	"context"
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/vocdoni/zkage/api/client"
	"github.com/vocdoni/zkage/backend"
	"github.com/vocdoni/zkage/log"
	"github.com/vocdoni/zkage/prover"
	"github.com/vocdoni/zkage/service"
	"github.com/vocdoni/zkage/verifier"
)

func main() {
	host := flag.String("host", "", "API endpoint to test, a local server with a dev setup is started if empty")
	birthDate := flag.String("birthDate", "2000-01-01", "birth date to prove (YYYY-MM-DD)")
	minAge := flag.String("minAge", "18", "minimum age to prove")
	flag.Parse()
	log.Init("debug", "stdout", nil)

	endpoint := *host
	if endpoint == "" {
		start := time.Now()
		b, err := backend.New(backend.Config{})
		if err != nil {
			log.Fatal(err)
		}
		log.Infow("dev backend ready", "took", time.Since(start).String())
		api := service.NewAPI(prover.New(b, nil), verifier.New(b), "127.0.0.1", 0)
		if err := api.Start(context.Background()); err != nil {
			log.Fatal(err)
		}
		defer api.Stop()
		h, p := api.HostPort()
		endpoint = fmt.Sprintf("http://%s:%d", h, p)
	}

	cli, err := client.New(endpoint)
	if err != nil {
		log.Fatal(err)
	}
	id, err := cli.NewSession()
	if err != nil {
		log.Fatal(err)
	}
	log.Infow("session created", "sessionId", id)

	start := time.Now()
	view, err := cli.GenerateProof(id, *birthDate, *minAge)
	if err != nil {
		log.Fatal(err)
	}
	if view.ProofDetails == nil {
		log.Errorw(fmt.Errorf("%s", view.Result.Message), "proof not generated")
		return
	}
	log.Infow("proof generated", "size", view.ProofDetails.Size, "took", time.Since(start).String())

	start = time.Now()
	view, err = cli.VerifyProof(id)
	if err != nil {
		log.Fatal(err)
	}
	log.Infow("proof verified", "state", view.State, "message", view.Verdict.Message, "took", time.Since(start).String())

	bundle, err := cli.ProofBundle(id)
	if err != nil {
		log.Fatal(err)
	}
	res, err := cli.VerifyBundle(bundle)
	if err != nil {
		log.Fatal(err)
	}
	log.Infow("bundle verified", "valid", res.Valid, "bytes", len(bundle), "circuit", res.Circuit, "version", res.Version)

	if err := cli.DeleteSession(id); err != nil {
		log.Fatal(err)
	}
}

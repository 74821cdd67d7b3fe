// Command orchestrator runs a standalone orchestrator process (spec
// §4.4): the client-facing entry point that creates elections, submits
// ballots and closes voting, delegating initialization and verification
// to a single configured mediator.
package main

import (
	"flag"
	"os"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/vocdoni/arbo/memdb"
	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/log"
	"github.com/vocdoni/mpcvote/orchestrator"
	"github.com/vocdoni/mpcvote/storage"
)

func main() {
	host := flag.String("host", "0.0.0.0", "HTTP listen address")
	port := flag.Int("port", 8080, "HTTP listen port")
	dataDir := flag.String("dataDir", "", "on-disk storage directory; empty keeps everything in memory")
	dbType := flag.String("dbType", "pebble", "storage driver passed to metadb.New (pebble, goleveldb, ...)")
	logLevel := flag.String("logLevel", "info", "log level: debug, info, warn or error")
	mediatorEndpoint := flag.String("mediatorEndpoint", os.Getenv("MPCVOTE_MEDIATOR_ENDPOINT"), "base URL of the mediator this orchestrator talks to")
	mediatorSecret := flag.String("mediatorSecret", os.Getenv("MPCVOTE_MEDIATOR_SECRET"), "shared secret used to mint bearer tokens for calling the mediator")
	clientSecret := flag.String("clientSecret", os.Getenv("MPCVOTE_CLIENT_SECRET"), "shared secret used to verify bearer tokens from clients and the operator")
	flag.Parse()

	if err := log.Init(*logLevel, "stdout", nil); err != nil {
		panic(err)
	}

	if *mediatorEndpoint == "" {
		log.Fatalf("mediatorEndpoint must be set (flag -mediatorEndpoint or MPCVOTE_MEDIATOR_ENDPOINT)")
	}
	if *mediatorSecret == "" {
		log.Fatalf("mediatorSecret must be set (flag -mediatorSecret or MPCVOTE_MEDIATOR_SECRET)")
	}
	if *clientSecret == "" {
		log.Fatalf("clientSecret must be set (flag -clientSecret or MPCVOTE_CLIENT_SECRET)")
	}

	store := storage.New(openDB(*dataDir, *dbType))
	defer store.Close()

	mediatorSigner, err := api.NewTokenSigner([]byte(*mediatorSecret))
	if err != nil {
		log.Fatalf("building mediator token signer: %v", err)
	}
	clientSigner, err := api.NewTokenSigner([]byte(*clientSecret))
	if err != nil {
		log.Fatalf("building client token signer: %v", err)
	}

	o := orchestrator.New(store, mediatorSigner, *mediatorEndpoint)
	server := api.NewServer()
	o.RegisterRoutes(server, clientSigner)
	server.Start(*host, *port)

	log.Infow("orchestrator ready", "host", *host, "port", *port, "dataDir", *dataDir, "mediatorEndpoint", *mediatorEndpoint)
	select {}
}

// openDB opens an on-disk database at dir, or an in-memory one when dir
// is empty, mirroring the teacher's own memdb-or-metadb choice in
// tests/helpers.go and cmd/e2eTest/main.go.
func openDB(dir, dbType string) db.Database {
	if dir == "" {
		return memdb.New()
	}
	d, err := metadb.New(dbType, dir)
	if err != nil {
		log.Fatalf("opening %s database at %s: %v", dbType, dir, err)
	}
	return d
}

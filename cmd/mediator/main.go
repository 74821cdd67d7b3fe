// Command mediator runs a standalone mediator process (spec §4.3): it
// fans out election initialization to the collectors named in each
// request, and mediates the per-verification-request websocket session
// between the client's ballot and every collector.
package main

import (
	"flag"
	"os"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/vocdoni/arbo/memdb"
	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/log"
	"github.com/vocdoni/mpcvote/mediator"
	"github.com/vocdoni/mpcvote/storage"
)

func main() {
	host := flag.String("host", "0.0.0.0", "HTTP listen address")
	port := flag.Int("port", 8082, "HTTP listen port")
	dataDir := flag.String("dataDir", "", "on-disk storage directory; empty keeps everything in memory")
	dbType := flag.String("dbType", "pebble", "storage driver passed to metadb.New (pebble, goleveldb, ...)")
	logLevel := flag.String("logLevel", "info", "log level: debug, info, warn or error")
	collectorSecret := flag.String("collectorSecret", os.Getenv("MPCVOTE_COLLECTOR_SECRET"), "shared secret used to mint bearer tokens for calling collectors")
	orchestratorSecret := flag.String("orchestratorSecret", os.Getenv("MPCVOTE_ORCHESTRATOR_SECRET"), "shared secret used to verify bearer tokens minted by the orchestrator")
	flag.Parse()

	if err := log.Init(*logLevel, "stdout", nil); err != nil {
		panic(err)
	}

	if *collectorSecret == "" {
		log.Fatalf("collectorSecret must be set (flag -collectorSecret or MPCVOTE_COLLECTOR_SECRET)")
	}
	if *orchestratorSecret == "" {
		log.Fatalf("orchestratorSecret must be set (flag -orchestratorSecret or MPCVOTE_ORCHESTRATOR_SECRET)")
	}

	store := storage.New(openDB(*dataDir, *dbType))
	defer store.Close()

	collectorSigner, err := api.NewTokenSigner([]byte(*collectorSecret))
	if err != nil {
		log.Fatalf("building collector token signer: %v", err)
	}
	orchestratorSigner, err := api.NewTokenSigner([]byte(*orchestratorSecret))
	if err != nil {
		log.Fatalf("building orchestrator token signer: %v", err)
	}

	m := mediator.New(store, collectorSigner)
	server := api.NewServer()
	m.RegisterRoutes(server, orchestratorSigner)
	server.Start(*host, *port)

	log.Infow("mediator ready", "host", *host, "port", *port, "dataDir", *dataDir)
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

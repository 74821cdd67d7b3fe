// Command collector runs a standalone collector process (spec §4.2): it
// serves election initialization, cancellation-share aggregation and the
// per-voter verification websocket to whichever mediator holds the
// matching shared secret.
package main

import (
	"flag"
	"os"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/vocdoni/arbo/memdb"
	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/collector"
	"github.com/vocdoni/mpcvote/log"
	"github.com/vocdoni/mpcvote/storage"
)

func main() {
	host := flag.String("host", "0.0.0.0", "HTTP listen address")
	port := flag.Int("port", 8081, "HTTP listen port")
	dataDir := flag.String("dataDir", "", "on-disk storage directory; empty keeps everything in memory")
	dbType := flag.String("dbType", "pebble", "storage driver passed to metadb.New (pebble, goleveldb, ...)")
	logLevel := flag.String("logLevel", "info", "log level: debug, info, warn or error")
	mediatorSecret := flag.String("mediatorSecret", os.Getenv("MPCVOTE_MEDIATOR_SECRET"), "shared secret used to verify bearer tokens minted by the mediator")
	flag.Parse()

	if err := log.Init(*logLevel, "stdout", nil); err != nil {
		panic(err)
	}

	if *mediatorSecret == "" {
		log.Fatalf("mediatorSecret must be set (flag -mediatorSecret or MPCVOTE_MEDIATOR_SECRET)")
	}

	store := storage.New(openDB(*dataDir, *dbType))
	defer store.Close()

	mediatorSigner, err := api.NewTokenSigner([]byte(*mediatorSecret))
	if err != nil {
		log.Fatalf("building mediator token signer: %v", err)
	}

	c := collector.New(store)
	server := api.NewServer()
	c.RegisterRoutes(server, mediatorSigner)
	server.Start(*host, *port)

	log.Infow("collector ready", "host", *host, "port", *port, "dataDir", *dataDir)
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

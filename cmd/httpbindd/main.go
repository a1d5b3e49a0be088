/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package main is the binding daemon: it loads an item catalog, parses
// the items' binding configurations, polls the in-bindings, and turns
// commands into the HTTP requests the out-bindings describe.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Comcast/httpbind/item"
	"github.com/Comcast/httpbind/service"
	"github.com/Comcast/httpbind/store"
	"github.com/Comcast/httpbind/store/bolt"
)

func main() {

	var (
		coupling  = flag.String("io", "std", `IO protocol: "std", "mq", or "ws"`)
		itemsFile = flag.String("items", "items.yaml", "Item catalog (YAML)")
		stateFile = flag.String("state-file", "", "Optional filename for persistent state (Bolt)")

		maxPolls = flag.Int("max-polls", 1024, "Limit on scheduled polls")
		timeout  = flag.Duration("timeout", 30*time.Second, "Outbound HTTP request timeout")

		wait    = flag.Duration("wait", time.Second, "Wait this long before shutting down couplings")
		debug   = flag.Bool("d", false, "Debug")
		verbose = flag.Bool("v", false, "Verbose")
		help    = flag.Bool("h", false, "Get usage")
	)

	flag.Parse()

	if *help {
		flag.PrintDefaults()

		{
			fmt.Fprintf(os.Stderr, "\n-io std (default): no additional args\n")
		}

		{
			fmt.Fprintf(os.Stderr, "\n-io mq:\n\n")
			_, fs := NewMQTTCouplings(nil)
			fs.PrintDefaults()
		}

		{
			fmt.Fprintf(os.Stderr, "\n-io ws:\n\n")
			_, fs := NewWebSocketCouplings(nil)
			fs.PrintDefaults()
		}

		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cio service.Couplings
	switch *coupling {
	case "std":
		cio = service.NewStdio()
	case "mq", "mqtt":
		c, _ := NewMQTTCouplings(flag.Args())
		cio = c
	case "ws":
		c, _ := NewWebSocketCouplings(flag.Args())
		cio = c
	default:
		panic(fmt.Errorf("unknown io: '%s'", *coupling))
	}

	items, err := item.LoadCatalog(*itemsFile)
	if err != nil {
		panic(err)
	}

	var storage store.Storage
	if *stateFile != "" {
		b, err := bolt.NewStorage(*stateFile)
		if err != nil {
			panic(err)
		}
		b.Debug = *debug
		if err = b.Open(ctx); err != nil {
			panic(err)
		}
		defer b.Close(ctx)
		storage = b
	}

	conf := &service.EngineConf{
		MaxPolls:       *maxPolls,
		RequestTimeout: *timeout,
		Debug:          *debug,
	}

	if err := cio.Start(ctx); err != nil {
		panic(err)
	}

	e, err := service.NewEngine(ctx, conf, items, storage, cio)
	if err != nil {
		panic(err)
	}
	e.Verbose = *verbose

	go func() {
		if std, is := cio.(*service.Stdio); is {
			<-std.InputEOF
			log.Printf("input EOF (waiting %v)", *wait)
			time.Sleep(*wait)
			cancel()
		}
	}()

	if err := e.Loop(ctx); err != nil {
		panic(err)
	}

	if err = cio.Stop(context.Background()); err != nil {
		log.Printf("error from io.Stop: %v", err)
	}
}

func E(err error, args ...interface{}) error {
	log.Printf("error %s: %v", err, args)
	return err
}

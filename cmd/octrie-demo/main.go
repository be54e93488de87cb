// Command octrie-demo loads CIDR prefixes from a text file (one per
// line, blank lines ignored) into a SyncTable and reports longest-prefix
// matches for addresses given on the command line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net/netip"
	"os"
	"strings"

	"github.com/arafel/octrie"
)

func main() {
	log.SetFlags(log.Lmicroseconds)

	routesFile := flag.String("routes", "", "path to a file of CIDR prefixes, one per line")
	flag.Parse()

	if *routesFile == "" {
		log.Fatal("octrie-demo: -routes is required")
	}

	st := octrie.NewSyncTable[string]()
	n, err := loadRoutes(st, *routesFile)
	if err != nil {
		log.Fatalf("octrie-demo: %v", err)
	}
	log.Printf("loaded %d routes, table size %d", n, st.Load().Size())

	for _, arg := range flag.Args() {
		addr, err := netip.ParseAddr(arg)
		if err != nil {
			log.Printf("skipping %q: %v", arg, err)
			continue
		}

		if val, ok := st.Lookup(addr); ok {
			fmt.Printf("%s -> %s\n", addr, val)
		} else {
			fmt.Printf("%s -> no match\n", addr)
		}
	}
}

func loadRoutes(st *octrie.SyncTable[string], path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		pfx, err := netip.ParsePrefix(line)
		if err != nil {
			log.Printf("skipping %q: %v", line, err)
			continue
		}

		st.Insert(pfx, line)
		n++
	}
	return n, scanner.Err()
}

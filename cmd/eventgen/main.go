// Command eventgen produces a synthetic game telemetry CSV for exercising
// the cleaner at scale. Player sessions are simulated over a configurable
// window: every player logs in once, logs out last, and generates gameplay
// events in between. The generator is fully deterministic for a fixed seed.
//
// With -dirty > 0, a fraction of rows is emitted broken on purpose
// (retransmitted duplicates, lowercase categories, blank player ids, junk
// timestamps) so the cleaner has something to reject.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	"eventclean/internal/event"
)

var (
	gameplayTypes = []string{"LevelComplete", "InAppPurchase", "SocialInteraction"}
	countries     = []string{"USA", "China", "Singapore", "Brazil", "Japan", "Germany", "India", "UK", "France", "Canada"}
	devices       = []string{"Android", "iOS", "PC"}
	purchases     = []string{"0.99", "2.99", "4.99", "9.99", "19.99", "49.99", "99.99"}
	socialActions = []string{"JoinGuild", "SendMessage", "AddFriend", "ShareScore"}
)

func main() {
	var (
		outPath   string
		players   int
		days      int
		minEvents int
		maxEvents int
		seed      int64
		dirty     float64
	)
	flag.StringVar(&outPath, "out", "game_events.csv", "output CSV path")
	flag.IntVar(&players, "players", 1000, "number of simulated players")
	flag.IntVar(&days, "days", 180, "simulation window in days")
	flag.IntVar(&minEvents, "min-events", 50, "minimum events per player")
	flag.IntVar(&maxEvents, "max-events", 200, "maximum events per player")
	flag.Int64Var(&seed, "seed", 42, "random seed")
	flag.Float64Var(&dirty, "dirty", 0, "fraction of rows emitted broken (0..1)")
	flag.Parse()

	if players <= 0 || days <= 0 || minEvents <= 0 || maxEvents < minEvents {
		log.Fatalf("invalid simulation parameters")
	}
	if dirty < 0 || dirty > 1 {
		log.Fatalf("-dirty must be in [0,1]")
	}

	f, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("create %s: %v", outPath, err)
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(seed))
	start := time.Now()
	n, err := generate(f, rng, players, days, minEvents, maxEvents, dirty)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	log.Printf("done: %d events in %.1fs", n, time.Since(start).Seconds())
}

// generate writes the full corpus and returns the number of data rows.
func generate(f *os.File, rng *rand.Rand, players, days, minEvents, maxEvents int, dirty float64) (int, error) {
	w := csv.NewWriter(f)
	if err := w.Write(event.Columns); err != nil {
		return 0, err
	}

	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	maxSec := days * 86400
	counter := 0
	rows := 0

	for p := 0; p < players; p++ {
		playerID := fmt.Sprintf("P%d", 100000+p)
		device := devices[rng.Intn(len(devices))]
		country := countries[rng.Intn(len(countries))]

		n := minEvents + rng.Intn(maxEvents-minEvents+1)
		offsets := make([]int, n)
		for i := range offsets {
			offsets[i] = rng.Intn(maxSec)
		}
		sort.Ints(offsets)

		for i, off := range offsets {
			var typ string
			switch {
			case i == 0:
				typ = "Login"
			case i == n-1:
				typ = "Logout"
			default:
				typ = gameplayTypes[rng.Intn(len(gameplayTypes))]
			}
			e := event.Event{
				EventID:        fmt.Sprintf("E%d", counter),
				PlayerID:       playerID,
				EventTimestamp: base.Add(time.Duration(off) * time.Second).Format(event.TimestampLayout),
				EventType:      typ,
				EventDetails:   details(rng, typ),
				DeviceType:     device,
				Location:       country,
			}
			counter++

			out := e
			repeat := false
			if dirty > 0 && rng.Float64() < dirty {
				out, repeat = corrupt(rng, e)
			}
			if err := w.Write(out.Row()); err != nil {
				return rows, err
			}
			rows++
			if repeat {
				if err := w.Write(out.Row()); err != nil {
					return rows, err
				}
				rows++
			}
		}
	}

	w.Flush()
	return rows, w.Error()
}

// details mirrors the payload shapes of the production emitter.
func details(rng *rand.Rand, typ string) string {
	switch typ {
	case "LevelComplete":
		return fmt.Sprintf("Level:%d,Score:%d", 1+rng.Intn(100), 1000+rng.Intn(49001))
	case "InAppPurchase":
		return "Amount:$" + purchases[rng.Intn(len(purchases))]
	case "SocialInteraction":
		return "Action:" + socialActions[rng.Intn(len(socialActions))]
	}
	return ""
}

// corrupt returns a broken variant of e, and whether the row should be
// emitted twice (a retransmitted duplicate).
func corrupt(rng *rand.Rand, e event.Event) (event.Event, bool) {
	switch rng.Intn(4) {
	case 0:
		return e, true // exact retransmit
	case 1:
		e.EventType = "login" // invalid category (case)
	case 2:
		e.PlayerID = "" // null mandatory field
	default:
		e.EventTimestamp = "02/01/2023 06:17" // unparseable timestamp
	}
	return e, false
}

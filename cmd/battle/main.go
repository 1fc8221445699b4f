package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mwhiting/hexfront/internal/battle"
	"github.com/mwhiting/hexfront/internal/config"
	"github.com/mwhiting/hexfront/internal/logstore"
)

type runStats struct {
	runIndex int
	seed     uint64
	runID    string

	outcome battle.Outcome
	ticks   int
	score   battle.BattleScore

	strengthA, strengthB     int
	casualtiesA, casualtiesB int

	firstContactTick int
	firstBreakTick   int

	dispatched  int
	delivered   int
	intercepted int
	superseded  int
	breaks      int
	rallies     int
	goCodes     int
}

func main() {
	var runs int
	var seedBase uint64
	var seedStep uint64
	var scenarioPath string
	var dbPath string
	var exportDir string

	flag.IntVar(&runs, "runs", 5, "number of battle runs")
	flag.Uint64Var(&seedBase, "seed-base", 42, "seed for run 1")
	flag.Uint64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenarioPath, "scenario", "", "path to scenario YAML (required)")
	flag.StringVar(&dbPath, "db", "", "optional SQLite archive for run logs")
	flag.StringVar(&exportDir, "export", "", "optional directory for zstd NDJSON event exports")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(1)
	}
	if scenarioPath == "" {
		fmt.Println("error: -scenario is required")
		os.Exit(1)
	}

	scenario, err := config.LoadScenario(scenarioPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	var store *logstore.Store
	if dbPath != "" {
		store, err = logstore.Open(dbPath)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	fmt.Printf("=== Battle Report ===\n")
	fmt.Printf("scenario=%s runs=%d seed_base=%d seed_step=%d\n\n", scenario.Name, runs, seedBase, seedStep)

	weights := scenario.ScoreWeights()
	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + uint64(i)*seedStep
		stats, bs, err := runOnce(scenario, weights, i+1, seed)
		if err != nil {
			fmt.Printf("run %d: error: %v\n", i+1, err)
			os.Exit(1)
		}
		if store != nil {
			stats.runID = logstore.NewRunID()
			info := logstore.RunInfo{
				ID:        stats.runID,
				Scenario:  scenario.Name,
				Seed:      seed,
				Outcome:   stats.outcome.String(),
				Ticks:     stats.ticks,
				Score:     stats.score.Total,
				CreatedAt: time.Now(),
			}
			if err := store.SaveRun(info, bs.Log.Records()); err != nil {
				fmt.Printf("run %d: archive: %v\n", i+1, err)
				os.Exit(1)
			}
			if exportDir != "" {
				if err := exportRun(store, exportDir, stats.runID); err != nil {
					fmt.Printf("run %d: export: %v\n", i+1, err)
					os.Exit(1)
				}
			}
		}
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func runOnce(scenario *config.Scenario, weights battle.ScoreWeights, runIndex int, seed uint64) (runStats, *battle.BattleState, error) {
	bs, err := scenario.Build(battle.WithSeed(seed))
	if err != nil {
		return runStats{}, nil, err
	}
	outcome := bs.RunToEnd()

	stats := summarize(bs, runIndex, seed)
	stats.outcome = outcome
	stats.score = battle.ScoreBattle(weights, outcome, bs.Tick, bs.A, bs.B)
	return stats, bs, nil
}

// summarize derives per-run counters from the event log and final
// state.
func summarize(bs *battle.BattleState, runIndex int, seed uint64) runStats {
	stats := runStats{
		runIndex:         runIndex,
		seed:             seed,
		ticks:            bs.Tick,
		strengthA:        bs.A.EffectiveStrength(),
		strengthB:        bs.B.EffectiveStrength(),
		casualtiesA:      bs.A.Casualties(),
		casualtiesB:      bs.B.Casualties(),
		firstContactTick: -1,
		firstBreakTick:   -1,
	}
	for _, r := range bs.Log.Records() {
		switch r.Category {
		case "courier":
			switch r.Key {
			case "dispatched":
				stats.dispatched++
			case "delivered":
				stats.delivered++
			case "intercepted":
				stats.intercepted++
			case "superseded":
				stats.superseded++
			}
		case "engage":
			if r.Key == "contact" && stats.firstContactTick < 0 {
				stats.firstContactTick = r.Tick
			}
		case "morale":
			switch r.Key {
			case "break":
				stats.breaks++
				if stats.firstBreakTick < 0 {
					stats.firstBreakTick = r.Tick
				}
			case "rallied":
				stats.rallies++
			}
		case "gocode":
			if r.Key == "fired" {
				stats.goCodes++
			}
		}
	}
	return stats
}

func printRun(s runStats) {
	fmt.Printf("--- run %d (seed=%d) ---\n", s.runIndex, s.seed)
	fmt.Printf("outcome=%s ticks=%d score=%.1f\n", s.outcome, s.ticks, s.score.Total)
	fmt.Printf("strength a=%d b=%d  casualties a=%d b=%d\n",
		s.strengthA, s.strengthB, s.casualtiesA, s.casualtiesB)
	fmt.Printf("couriers dispatched=%d delivered=%d intercepted=%d superseded=%d\n",
		s.dispatched, s.delivered, s.intercepted, s.superseded)
	fmt.Printf("first_contact=%s first_break=%s breaks=%d rallies=%d go_codes=%d\n",
		tickLabel(s.firstContactTick), tickLabel(s.firstBreakTick),
		s.breaks, s.rallies, s.goCodes)
	if s.runID != "" {
		fmt.Printf("archived as %s\n", s.runID)
	}
	fmt.Println()
}

func tickLabel(tick int) string {
	if tick < 0 {
		return "never"
	}
	return fmt.Sprintf("T=%d", tick)
}

func printAggregate(all []runStats) {
	if len(all) == 0 {
		return
	}
	outcomes := outcomeCounts(all)
	fmt.Printf("=== Aggregate (%d runs) ===\n", len(all))
	for _, o := range []battle.Outcome{
		battle.DecisiveVictory, battle.Victory, battle.PyrrhicVictory,
		battle.Draw, battle.Defeat, battle.DecisiveDefeat, battle.Undecided,
	} {
		if n := outcomes[o]; n > 0 {
			fmt.Printf("  %-18s %d\n", o, n)
		}
	}
	ticks, score, deliveryRate := aggregateMeans(all)
	fmt.Printf("mean ticks=%.0f mean score=%.1f courier delivery rate=%.0f%%\n",
		ticks, score, deliveryRate*100)
}

func outcomeCounts(all []runStats) map[battle.Outcome]int {
	out := make(map[battle.Outcome]int)
	for _, s := range all {
		out[s.outcome]++
	}
	return out
}

func aggregateMeans(all []runStats) (meanTicks, meanScore, deliveryRate float64) {
	if len(all) == 0 {
		return 0, 0, 0
	}
	dispatched, delivered := 0, 0
	for _, s := range all {
		meanTicks += float64(s.ticks)
		meanScore += s.score.Total
		dispatched += s.dispatched
		delivered += s.delivered
	}
	meanTicks /= float64(len(all))
	meanScore /= float64(len(all))
	if dispatched > 0 {
		deliveryRate = float64(delivered) / float64(dispatched)
	}
	return meanTicks, meanScore, deliveryRate
}

func exportRun(store *logstore.Store, dir, runID string) error {
	f, err := os.Create(fmt.Sprintf("%s/%s.ndjson.zst", dir, runID))
	if err != nil {
		return err
	}
	if err := store.ExportRun(runID, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

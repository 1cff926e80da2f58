package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"roguecore/internal/combat"
	"roguecore/internal/config"
	"roguecore/internal/session"
	"roguecore/internal/store"
	"roguecore/internal/util"
)

func main() {
	logger := log.New(os.Stderr, "simsvc ", log.LstdFlags)

	envCfg, err := config.LoadEnv()
	if err != nil {
		logger.Fatal(err)
	}
	var cfgDir, out, seedText, saveDB, slotID string
	var n, battles, workers int
	var saveLog, verbose bool
	flag.StringVar(&cfgDir, "config", envCfg.ConfigDir, "config dir (run.yaml, abilities.yaml)")
	flag.StringVar(&out, "out", envCfg.Out, "output file (single) or summary file (batch)")
	flag.StringVar(&seedText, "seed", envCfg.Seed, "seed override (number or text)")
	flag.StringVar(&saveDB, "save", envCfg.SaveDB, "sqlite save-slot database (single mode)")
	flag.StringVar(&slotID, "continue", "", "resume from this save slot id")
	flag.IntVar(&n, "n", 1, "number of runs")
	flag.IntVar(&battles, "battles", 3, "battles per run")
	flag.IntVar(&workers, "workers", envCfg.Workers, "batch workers")
	flag.BoolVar(&saveLog, "log", true, "save full event log when n==1")
	flag.BoolVar(&verbose, "v", false, "log flow transitions")
	flag.Parse()

	runCfg, abilities, err := config.LoadAll(cfgDir)
	if err != nil {
		logger.Fatal(err)
	}
	if seedText != "" {
		runCfg.Seed = seedText
	}
	if battles < 1 {
		battles = 1
	}

	if n <= 1 {
		if err := runSingle(logger, runCfg, abilities, out, saveDB, slotID, battles, saveLog, verbose); err != nil {
			logger.Fatal(err)
		}
		return
	}
	if err := runBatch(logger, runCfg, abilities, out, n, battles, workers); err != nil {
		logger.Fatal(err)
	}
}

func runSingle(logger *log.Logger, rc *config.RunConfig, ac *config.AbilitiesConfig, out, saveDB, slotID string, battles int, record, verbose bool) error {
	var flowLog *log.Logger
	if verbose {
		flowLog = logger
	}

	var st *store.SQLiteStore
	if saveDB != "" {
		var err error
		st, err = store.NewSQLiteStore(saveDB)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(); err != nil {
			return err
		}
	}

	var sess *session.Session
	var err error
	if slotID != "" {
		if st == nil {
			return fmt.Errorf("-continue needs -save")
		}
		slot, err := st.GetSlot(slotID)
		if err != nil {
			return fmt.Errorf("load slot %s: %w", slotID, err)
		}
		sess, err = session.Resume(slot, rc, ac, flowLog)
		if err != nil {
			return err
		}
		logger.Printf("resumed slot %s at %s after %d battles", slot.ID, sess.Flow.State(), sess.Battles)
	} else {
		sess, err = session.New(rc, ac, flowLog)
		if err != nil {
			return err
		}
	}

	reports := make([]session.BattleReport, 0, battles)
	for i := 0; i < battles; i++ {
		r, err := sess.Fight(record)
		if err != nil {
			return err
		}
		reports = append(reports, r)
		if !r.Result.Win {
			break
		}
	}

	snapshot, err := sess.Flow.Serialize()
	if err != nil {
		return err
	}
	result := map[string]any{
		"seed":     sess.Seed,
		"battles":  reports,
		"snapshot": snapshot,
		"streams":  sess.Streams.Labels(),
	}
	if st != nil {
		slot, err := sess.Save(st, slotID, fmt.Sprintf("after battle %d", sess.Battles))
		if err != nil {
			return err
		}
		result["slot"] = slot.ID
		logger.Printf("saved slot %s", slot.ID)
	}
	if err := os.WriteFile(out, combat.MarshalPretty(result), 0644); err != nil {
		return err
	}
	last := reports[len(reports)-1]
	fmt.Printf("Single run finished. Battles=%d, Win=%v, State=%s -> %s\n", len(reports), last.Result.Win, sess.Flow.State(), out)
	return nil
}

func runBatch(logger *log.Logger, rc *config.RunConfig, ac *config.AbilitiesConfig, out string, n, battles, workers int) error {
	seed, err := util.ParseSeed(rc.Seed)
	if err != nil {
		return err
	}
	root := util.New(seed, "root")

	type stat struct {
		Wins      int
		Cleared   int
		SumTurns  int
		SumGold   int
		Fights    int
		ByUnit    map[string]int
		FirstLoss map[int]int
	}
	var st = stat{
		ByUnit:    map[string]int{},
		FirstLoss: map[int]int{},
	}
	var mu sync.Mutex
	var firstErr error
	wg := sync.WaitGroup{}
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan *util.Rand, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for runRoot := range jobs {
				sess, err := session.NewWithRoot(runRoot, rc, ac, nil)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				var reports []session.BattleReport
				for b := 0; b < battles; b++ {
					r, err := sess.Fight(false)
					if err != nil {
						mu.Lock()
						if firstErr == nil {
							firstErr = err
						}
						mu.Unlock()
						break
					}
					reports = append(reports, r)
					if !r.Result.Win {
						break
					}
				}

				mu.Lock()
				cleared := len(reports) == battles
				for _, r := range reports {
					st.Fights++
					st.SumTurns += r.Result.Turns
					st.SumGold += r.Gold
					if r.Result.Win {
						st.Wins++
					} else {
						st.FirstLoss[r.Index]++
					}
					for k, v := range r.Result.DamageByUnit {
						st.ByUnit[k] += v
					}
				}
				if cleared && reports[len(reports)-1].Result.Win {
					st.Cleared++
				}
				mu.Unlock()
			}
		}()
	}
	// forks are taken here, in order, so run i always gets the same root
	for i := 0; i < n; i++ {
		jobs <- root.Fork(fmt.Sprintf("run:%d", i))
	}
	close(jobs)
	wg.Wait()
	if firstErr != nil {
		return firstErr
	}

	totalDmg := 0
	for _, v := range st.ByUnit {
		totalDmg += v
	}
	share := map[string]any{}
	for k, v := range st.ByUnit {
		ratio := 0.0
		if totalDmg > 0 {
			ratio = float64(v) / float64(totalDmg)
		}
		share[k] = map[string]any{"total": v, "ratio": ratio}
	}
	avg := func(sum int) float64 {
		if st.Fights == 0 {
			return 0
		}
		return float64(sum) / float64(st.Fights)
	}

	summary := map[string]any{
		"runs":         n,
		"seed":         rc.Seed,
		"clear_rate":   float64(st.Cleared) / float64(n),
		"fight_wins":   st.Wins,
		"fights":       st.Fights,
		"avg_turns":    avg(st.SumTurns),
		"avg_gold":     avg(st.SumGold),
		"loss_by_idx":  st.FirstLoss,
		"total_damage": totalDmg,
		"by_unit":      share,
	}
	if err := os.WriteFile(out, combat.MarshalPretty(summary), 0644); err != nil {
		return err
	}
	logger.Printf("batch of %d runs with %d workers done", n, workers)
	fmt.Printf("Batch %d done -> %s\n", n, filepath.Base(out))
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"evomarket"
	"evomarket/logx"
	"evomarket/tui"
)

func main() {
	var (
		investors = flag.Int("investors", evomarket.DefaultNumInvestors, "number of investors in the population")
		steps     = flag.Int("steps", 200, "number of steps to simulate (0 = run until interrupted)")
		seed      = flag.Int64("seed", 0, "random seed (0 = time-based)")
		every     = flag.Int("every", evomarket.DefaultReproduceEvery, "steps between reproduction passes")
		cash      = flag.Float64("cash", evomarket.DefaultInitialCash, "starting cash per investor")
		useTUI    = flag.Bool("tui", false, "show live terminal dashboard")
		webPort   = flag.Int("web", 0, "serve web dashboard on this port (0 = disabled)")
		genlog    = flag.String("genlog", "", "append per-generation JSONL records to this file")
		delay     = flag.Duration("delay", 0, "pause between steps (for watching live)")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	model, err := evomarket.NewMarketModel(evomarket.Config{
		NumInvestors:   *investors,
		InitialCash:    *cash,
		ReproduceEvery: *every,
		Invariants:     evomarket.DefaultInvariants(),
		Rand:           rng,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	tuiActive := false
	if *useTUI {
		if err := tui.Start(ctx, tui.TUIConfig{Title: "evomarket"}); err != nil {
			fmt.Printf("%s\n", logx.Dimf("%v, falling back to plain logs", err))
		} else {
			tuiActive = true
			defer tui.Stop()
		}
	}

	if *webPort > 0 {
		port := evomarket.FindAvailablePort(*webPort)
		go func() {
			if err := evomarket.StartWebDashboard(port); err != nil {
				logx.LogSimWarning(fmt.Sprintf("web dashboard stopped: %v", err))
			}
		}()
	}

	if !tuiActive {
		fmt.Printf("Simulating %d investors, seed=%d, reproduction every %d steps\n",
			*investors, *seed, *every)
	}

	if *genlog != "" {
		if prior, err := evomarket.LoadRecentGenerations(*genlog, 1); err == nil && len(prior) > 0 {
			fmt.Printf("%s\n", logx.Dimf("appending to %s (last recorded generation: %d)",
				*genlog, prior[len(prior)-1].Generation))
		}
	}

	start := time.Now()
	prevPrices := make(map[string]float64, len(model.Securities))
	for _, sec := range model.Securities {
		prevPrices[sec.Name] = sec.Price
	}
	prevBest := 0.0
	lastGen := model.Generation

run:
	for *steps == 0 || model.Steps < *steps {
		select {
		case <-ctx.Done():
			break run
		default:
		}

		if err := model.Step(); err != nil {
			evomarket.SendError(err.Error())
			fmt.Fprintf(os.Stderr, "Error: step %d: %v\n", model.Steps, err)
			os.Exit(1)
		}

		st := model.Stats()
		elapsed := time.Since(start)
		rate := float64(model.Steps) / elapsed.Seconds()

		if tuiActive {
			tui.PushState(snapshotState(model, st, start, *steps, *every, rate, prevPrices))
			if st.Best > prevBest && prevBest > 0 {
				logx.LogNewBestValue(prevBest, st.Best)
			}
		} else if model.Steps%50 == 0 {
			logx.LogProgress(model.Steps, model.Generation, rate, st.Best)
			names := make([]string, len(model.Securities))
			caps := make([]float64, len(model.Securities))
			for i, sec := range model.Securities {
				names[i] = sec.Name
				caps[i] = sec.MarketCap()
			}
			logx.LogMarketCaps(model.Steps, names, caps)
		}
		prevBest = st.Best

		evomarket.SendMarketSnapshot(model)

		if model.Generation != lastGen {
			lastGen = model.Generation
			rec := model.GenerationRecord()
			evomarket.SendGeneration(rec)
			if *genlog != "" {
				if err := evomarket.AppendGenerationLog(*genlog, rec); err != nil {
					logx.LogSimWarning(fmt.Sprintf("generation log append failed: %v", err))
				} else {
					logx.LogGenerationLogged(*genlog, rec.Generation)
				}
			}
			if !tuiActive {
				logx.LogReproductionPass(rec.Generation, rec.Step, rec.Best, rec.Median, rec.Worst)
			}
		}

		for _, sec := range model.Securities {
			prevPrices[sec.Name] = sec.Price
		}

		if *delay > 0 {
			select {
			case <-ctx.Done():
				break run
			case <-time.After(*delay):
			}
		}
	}

	if tuiActive {
		tui.Stop()
		// Give the TUI a moment to restore the terminal before printing
		time.Sleep(100 * time.Millisecond)
	}

	evomarket.SendStatus("done", fmt.Sprintf("simulation finished after %d steps", model.Steps))

	printStandings(model, *cash)
	st := model.Stats()
	logx.LogRunSummary(model.Steps, model.Generation, time.Since(start), st.Best)
}

// snapshotState maps model state onto the TUI's wire struct.
func snapshotState(m *evomarket.MarketModel, st evomarket.PopulationStats, start time.Time, target, every int, rate float64, prevPrices map[string]float64) tui.StateSnapshot {
	s := tui.StateSnapshot{
		ProjectName:    "evomarket",
		StartTime:      start,
		Step:           m.Steps,
		TargetSteps:    target,
		Generation:     m.Generation,
		RatePerSec:     rate,
		BestValue:      st.Best,
		MedianValue:    st.Median,
		WorstValue:     st.Worst,
		TrendFollowers: st.TrendFollowers,
		QLearners:      st.QLearners,
	}
	for _, sec := range m.Securities {
		s.Securities = append(s.Securities, tui.SecurityState{
			Name:      sec.Name,
			Price:     sec.Price,
			PrevPrice: prevPrices[sec.Name],
			MarketCap: sec.MarketCap(),
		})
	}
	// Derive the countdown from the step counter so the TUI never needs
	// model internals.
	s.ReproduceEvery = every
	if every > 0 {
		s.NextReproduceIn = every - m.Steps%every
	}
	return s
}

// printStandings ranks the final population and prints the leaderboard.
func printStandings(m *evomarket.MarketModel, initialCash float64) {
	type ranked struct {
		inv   *evomarket.InvestorAgent
		value float64
	}
	rs := make([]ranked, len(m.Investors))
	for i, inv := range m.Investors {
		rs[i] = ranked{inv: inv, value: inv.PortfolioValue()}
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].value > rs[j].value })

	rows := make([]logx.LeaderboardRow, len(rs))
	for i, r := range rs {
		rows[i] = logx.LeaderboardRow{
			Rank:     i + 1,
			ID:       r.inv.ID,
			Strategy: fmt.Sprintf("%v", r.inv.Strategy),
			Cash:     r.inv.Cash,
			Value:    r.value,
			Holdings: holdingsSummary(r.inv),
		}
	}

	fmt.Println()
	logx.PrintLeaderboard(os.Stdout, initialCash, rows)
}

func holdingsSummary(inv *evomarket.InvestorAgent) string {
	entries := inv.Holdings()
	if len(entries) == 0 {
		return "-"
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s:%d", e.Security, e.Shares)
	}
	return strings.Join(parts, " ")
}

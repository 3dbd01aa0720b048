// Command classify is a one-shot diagnostic: it sweeps the spread universe
// for one metal, resolves every leg against live prompt dates, and prints
// the classification of each spread, flagging reclassifications.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jharlow/lme-data/internal/calendar"
	"github.com/jharlow/lme-data/internal/classifier"
	"github.com/jharlow/lme-data/internal/config"
	"github.com/jharlow/lme-data/internal/discovery"
	"github.com/jharlow/lme-data/internal/model"
	"github.com/jharlow/lme-data/internal/resolver"
	"github.com/jharlow/lme-data/internal/session"
	"github.com/jharlow/lme-data/internal/ticker"
)

// memRegistry collects discovered spreads without a database.
type memRegistry struct {
	spreads []model.Spread
}

func (m *memRegistry) Upsert(ctx context.Context, sp *model.Spread) (bool, error) {
	sp.ID = int64(len(m.spreads) + 1)
	m.spreads = append(m.spreads, *sp)
	return true, nil
}

func main() {
	configPath := flag.String("config", "configs/collector.local.yaml", "path to config file")
	metalCode := flag.String("metal", "CU", "metal code to classify")
	limit := flag.Int("limit", 0, "max spreads to classify (0 = all)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	godotenv.Load()

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	metal, ok := model.MetalByCode(*metalCode)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown metal %q\n", *metalCode)
		os.Exit(1)
	}

	cal, err := calendar.Parse(cfg.Calendar.Holidays, cfg.Calendar.FromYear, cfg.Calendar.ToYear)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load holiday calendar: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sessCfg := session.DefaultConfig()
	sessCfg.URL = cfg.Gateway.URL
	sessCfg.Token = cfg.Gateway.Token

	client := session.NewClient(sessCfg, logger)
	if err := client.Dial(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "connect gateway: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	now := time.Now().UTC()

	reg := &memRegistry{}
	res, err := discovery.New(client, reg, logger).Run(ctx, metal, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "discover: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: %d candidates, %d spreads\n", metal.Code, res.Candidates, res.Spreads)

	var rsv *resolver.Resolver
	pd, err := client.PromptDates(ctx, cfg.Reference.ThreeMonthTicker, cfg.Reference.CashTicker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prompt dates unavailable, using calendar estimates: %v\n", err)
		rsv = resolver.NewEstimated(now, cal)
	} else {
		rsv = resolver.New(pd.ThreeMonth, pd.Cash, cal)
		fmt.Printf("prompts: 3M=%s cash=%s\n",
			pd.ThreeMonth.Format("2006-01-02"), pd.Cash.Format("2006-01-02"))
	}
	cls := classifier.New(rsv, cal)

	spreads := reg.spreads
	if *limit > 0 && len(spreads) > *limit {
		spreads = spreads[:*limit]
	}

	var reclassified int
	for _, sp := range spreads {
		legs, err := ticker.ParseLegs(sp.Ticker)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", sp.Ticker, err)
			continue
		}

		rn := rsv.ResolvePair(legs)
		cl := cls.Classify(rn.Leg1Date, rn.Leg2Date, sp.NominalType)

		marker := ""
		if cl.Reclassified {
			reclassified++
			marker = "  RECLASSIFIED"
			if cl.Notes != "" {
				marker += " (" + cl.Notes + ")"
			}
		}
		fmt.Printf("%-28s %-10s -> %-10s  %s/%s%s\n",
			sp.Ticker, sp.NominalType, cl.ActualType,
			rn.Leg1Date.Format("2006-01-02"), rn.Leg2Date.Format("2006-01-02"),
			marker,
		)
	}

	fmt.Printf("classified %d spreads, %d reclassified\n", len(spreads), reclassified)
}

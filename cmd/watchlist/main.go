// cmd/watchlist manages the watchlist file used by the watch daemon.
//
// Usage:
//
//	watchlist [flags] list
//	watchlist [flags] add TICKER [NAME]
//	watchlist [flags] remove TICKER
//	watchlist [flags] set TICKER (-oversold=N | -overbought=N | -cross=BOOL)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"stockwatch/config"
	"stockwatch/internal/marketdata"
	"stockwatch/internal/watchlist"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	store, err := watchlist.Open(cfg.WatchlistPath)
	if err != nil {
		fatal(err)
	}

	switch args[0] {
	case "list":
		cmdList(store)
	case "add":
		cmdAdd(cfg, store, args[1:])
	case "remove":
		cmdRemove(store, args[1:])
	case "set":
		cmdSet(store, args[1:])
	default:
		usage()
	}
}

func cmdList(store *watchlist.Store) {
	entries := store.List()
	if len(entries) == 0 {
		fmt.Println("watchlist is empty")
		return
	}
	fmt.Printf("%-10s %-30s %9s %11s %6s\n", "TICKER", "NAME", "OVERSOLD", "OVERBOUGHT", "CROSS")
	for _, e := range entries {
		cross := "off"
		if e.CrossEnabled {
			cross = "on"
		}
		fmt.Printf("%-10s %-30s %9d %11d %6s\n", e.Ticker, e.Name, e.RSIOversold, e.RSIOverbought, cross)
	}
}

func cmdAdd(cfg *config.Config, store *watchlist.Store, args []string) {
	if len(args) < 1 {
		usage()
	}
	ticker := args[0]
	name := strings.Join(args[1:], " ")

	// Resolve the company name from the quote when none was given.
	if name == "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		client := marketdata.NewYahooClient(cfg.ProxyURL)
		if quote, err := client.Latest(ctx, ticker); err == nil {
			name = quote.Name
		}
	}

	e := watchlist.NewEntry(ticker, name)
	if err := store.Add(e); err != nil {
		fatal(err)
	}
	fmt.Printf("added %s\n", e.Ticker)
}

func cmdRemove(store *watchlist.Store, args []string) {
	if len(args) != 1 {
		usage()
	}
	ticker := strings.ToUpper(strings.TrimSpace(args[0]))
	if err := store.Remove(ticker); err != nil {
		fatal(err)
	}
	fmt.Printf("removed %s\n", ticker)
}

func cmdSet(store *watchlist.Store, args []string) {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	oversold := fs.Int("oversold", -1, "RSI oversold threshold (0-50)")
	overbought := fs.Int("overbought", -1, "RSI overbought threshold (50-100)")
	cross := fs.String("cross", "", "Enable cross alerts (true/false)")

	if len(args) < 1 {
		usage()
	}
	ticker := strings.ToUpper(strings.TrimSpace(args[0]))
	fs.Parse(args[1:])

	err := store.Update(ticker, func(e *watchlist.Entry) {
		if *oversold >= 0 {
			e.RSIOversold = *oversold
		}
		if *overbought >= 0 {
			e.RSIOverbought = *overbought
		}
		if *cross != "" {
			e.CrossEnabled = strings.EqualFold(*cross, "true")
		}
	})
	if err != nil {
		fatal(err)
	}
	fmt.Printf("updated %s\n", ticker)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  watchlist [flags] list
  watchlist [flags] add TICKER [NAME]
  watchlist [flags] remove TICKER
  watchlist [flags] set TICKER [-oversold=N] [-overbought=N] [-cross=BOOL]`)
	os.Exit(2)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

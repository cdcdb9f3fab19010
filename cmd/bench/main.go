// README: Smoke and load runner for a running taxi123 API; prints one line per case and a summary.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

type Config struct {
	BaseURL     string
	Token       string
	DSN         string
	RedisAddr   string
	RedisKey    string
	Strict      bool
	Timeout     time.Duration
	Concurrency int
	Duration    time.Duration
}

func main() {
	var cfg Config
	app := &cli.App{
		Name:  "bench",
		Usage: "exercise a running taxi123 API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url", Value: "http://localhost:8080", EnvVars: []string{"TAXI_BENCH_BASE_URL"}, Destination: &cfg.BaseURL},
			&cli.StringFlag{Name: "token", EnvVars: []string{"TAXI_API_TOKEN"}, Destination: &cfg.Token},
			&cli.StringFlag{Name: "dsn", EnvVars: []string{"TAXI_BENCH_DSN"}, Usage: "Postgres DSN; empty skips DB checks", Destination: &cfg.DSN},
			&cli.StringFlag{Name: "redis", EnvVars: []string{"TAXI_BENCH_REDIS_ADDR"}, Usage: "Redis address; empty skips Redis checks", Destination: &cfg.RedisAddr},
			&cli.StringFlag{Name: "redis-key", Value: "taxi123:invoices", EnvVars: []string{"TAXI_REDIS_KEY"}, Destination: &cfg.RedisKey},
			&cli.BoolFlag{Name: "strict", EnvVars: []string{"TAXI_BENCH_STRICT"}, Usage: "fail on skipped cases", Destination: &cfg.Strict},
			&cli.DurationFlag{Name: "timeout", Value: 60 * time.Second, EnvVars: []string{"TAXI_BENCH_TIMEOUT"}, Destination: &cfg.Timeout},
			&cli.IntFlag{Name: "concurrency", Value: 20, EnvVars: []string{"TAXI_BENCH_CONCURRENCY"}, Destination: &cfg.Concurrency},
			&cli.DurationFlag{Name: "duration", Value: 10 * time.Second, EnvVars: []string{"TAXI_BENCH_DURATION"}, Destination: &cfg.Duration},
		},
		Action: func(c *cli.Context) error {
			cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
			ctx, cancel := context.WithTimeout(c.Context, cfg.Timeout)
			defer cancel()

			results := NewRunner(cfg).RunAll(ctx)
			return summarize(cfg, results)
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func summarize(cfg Config, results []Result) error {
	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case statusPass:
			pass++
		case statusFail:
			fail++
		case statusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 || (cfg.Strict && skipped > 0) {
		return fmt.Errorf("%d failed, %d skipped", fail, skipped)
	}
	return nil
}

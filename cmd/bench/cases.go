// README: Bench cases: backend connectivity, fare quotes, invoice lifecycle, concurrent saves and quote load.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	// invoiceID is set by the create case and used by the ones after it.
	invoiceID string
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
			defer db.Close()
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
		defer r.redis.Close()
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

var exampleFare = map[string]any{
	"tarifs": []any{10, 20, 0, 0},
	"resa":   4,
	"extra":  5,
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{Name: "Env: Postgres invoices table", Run: checkPostgres},
		{Name: "Env: Redis invoice document", Run: checkRedis},
		{Name: "API: health", Run: func(ctx context.Context, r *Runner) Result {
			res, _ := r.call(ctx, http.MethodGet, "/health", nil, http.StatusOK)
			return res
		}},
		{Name: "Fare: quote example is 42.70", Run: func(ctx context.Context, r *Runner) Result {
			res, body := r.call(ctx, http.MethodPost, "/api/fares/quote", exampleFare, http.StatusOK)
			if res.Status != statusPass {
				return res
			}
			var out struct {
				Total json.Number `json:"total"`
			}
			if err := json.Unmarshal(body, &out); err != nil || out.Total.String() != "42.70" {
				return Result{Status: statusFail, Latency: res.Latency, Note: "total=" + out.Total.String()}
			}
			return res
		}},
		postCase("Fare: non-numeric tariff -> 400", "/api/fares/quote", map[string]any{"tarifs": []any{"dix"}}, http.StatusBadRequest),
		postCase("Fare: resa 5 -> 400", "/api/fares/quote", map[string]any{"resa": 5}, http.StatusBadRequest),
		postCase("Invoice: missing name -> 400", "/api/invoices", map[string]any{"name": ""}, http.StatusBadRequest),
		{Name: "Invoice: create", Run: func(ctx context.Context, r *Runner) Result {
			res, body := r.call(ctx, http.MethodPost, "/api/invoices", benchInvoice("bench"), http.StatusCreated)
			if res.Status != statusPass {
				return res
			}
			var inv struct {
				ID string `json:"id"`
			}
			_ = json.Unmarshal(body, &inv)
			r.invoiceID = inv.ID
			return res
		}},
		invoiceCase("Invoice: get", http.MethodGet, "", http.StatusOK),
		invoiceCase("Invoice: text receipt", http.MethodGet, "/receipt", http.StatusOK),
		invoiceCase("Invoice: pdf receipt", http.MethodGet, "/receipt?format=pdf", http.StatusOK),
		invoiceCase("Invoice: delete", http.MethodDelete, "", http.StatusOK),
		invoiceCase("Invoice: delete again -> 404", http.MethodDelete, "", http.StatusNotFound),
		{Name: "Concurrency: parallel saves all land", Run: concurrentCreate},
		{Name: "Perf: quote load", Run: func(ctx context.Context, r *Runner) Result {
			return perfLoad(ctx, r, "/api/fares/quote", exampleFare)
		}},
	}
}

func benchInvoice(name string) map[string]any {
	body := map[string]any{
		"name":           name,
		"departure_time": "08:00",
		"arrival_time":   "08:30",
	}
	for k, v := range exampleFare {
		body[k] = v
	}
	return body
}

func postCase(name, path string, body any, want int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			res, _ := r.call(ctx, http.MethodPost, path, body, want)
			return res
		},
	}
}

func invoiceCase(name, method, suffix string, want int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			if r.invoiceID == "" {
				return Result{Status: statusSkip, Note: "no invoice created"}
			}
			res, _ := r.call(ctx, method, "/api/invoices/"+r.invoiceID+suffix, nil, want)
			return res
		},
	}
}

func (r *Runner) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	}
	return req, nil
}

func (r *Runner) call(ctx context.Context, method, path string, body any, want int) (Result, []byte) {
	req, err := r.newRequest(ctx, method, path, body)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}, nil
	}
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}, nil
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	latency := time.Since(start)

	note := fmt.Sprintf("status=%d", resp.StatusCode)
	if resp.StatusCode != want {
		return Result{Status: statusFail, Latency: latency, Note: note}, data
	}
	return Result{Status: statusPass, Latency: latency, Note: note}, data
}

func checkPostgres(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: statusSkip, Note: "dsn not set"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'invoices')",
	).Scan(&exists)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	if !exists {
		return Result{Status: statusFail, Note: "run taxi123 migrate"}
	}
	return Result{Status: statusPass}
}

func checkRedis(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: statusSkip, Note: "redis not set"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	data, err := r.redis.Get(ctx, r.cfg.RedisKey).Bytes()
	if err == redis.Nil {
		return Result{Status: statusPass, Note: "key not written yet"}
	}
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return Result{Status: statusFail, Note: "document is not a JSON array"}
	}
	return Result{Status: statusPass, Note: fmt.Sprintf("invoices=%d", len(list))}
}

// concurrentCreate saves N invoices in parallel, checks each got a distinct
// ID, then deletes them again.
func concurrentCreate(ctx context.Context, r *Runner) Result {
	n := r.cfg.Concurrency
	ids := make(chan string, n)
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, body := r.call(ctx, http.MethodPost, "/api/invoices", benchInvoice(fmt.Sprintf("bench-%d", i)), http.StatusCreated)
			if res.Status != statusPass {
				return
			}
			var inv struct {
				ID string `json:"id"`
			}
			if json.Unmarshal(body, &inv) == nil && inv.ID != "" {
				ids <- inv.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)
	latency := time.Since(start)

	seen := make(map[string]bool, n)
	for id := range ids {
		seen[id] = true
	}
	for id := range seen {
		_, _ = r.call(ctx, http.MethodDelete, "/api/invoices/"+id, nil, http.StatusOK)
	}
	if len(seen) != n {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("created=%d want=%d", len(seen), n)}
	}
	return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("created=%d", n)}
}

func perfLoad(ctx context.Context, r *Runner, path string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				res, _ := r.call(ctx, http.MethodPost, path, payload, http.StatusOK)
				mu.Lock()
				if res.Status == statusPass {
					count++
				} else {
					errCount++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

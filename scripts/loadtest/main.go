// Loadtest is a concurrent HTTP load testing tool for the negotiator. It
// rotates through a set of Accept headers and reports throughput, latency
// percentiles and how responses were distributed across media types.
//
// Usage:
//
//	go run ./scripts/loadtest --url http://localhost:8080/negotiate --concurrency 10 --requests 1000
//	go run ./scripts/loadtest --accept "application/json" --accept "text/html;q=0.9, */*;q=0.1" --out summary.json
//
// Exit codes:
//
//	0 - every request answered 2xx
//	1 - bad flags or output file errors
//	2 - at least one request failed or was not acceptable
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/pflag"
)

var defaultAccepts = []string{
	"application/json",
	"text/html",
	"application/xml;q=0.9, */*;q=0.1",
	"text/*",
	"*/*",
}

type options struct {
	url         string
	accepts     []string
	concurrency int
	requests    int
	timeout     time.Duration
}

// TypeStats tracks responses answered with one Content-Type.
type TypeStats struct {
	Count     int32           `json:"count"`
	Success   int32           `json:"success"`
	Failure   int32           `json:"failure"`
	Latencies []time.Duration `json:"-"`
}

type report struct {
	Total       int32
	Success     int32
	Failure     int32
	Duration    time.Duration
	StatusCodes map[int]int32
	MediaTypes  map[string]*TypeStats
	Latencies   []time.Duration
}

func main() {
	var opts options
	fs := pflag.NewFlagSet("loadtest", pflag.ExitOnError)
	fs.StringVar(&opts.url, "url", "http://localhost:8080/negotiate", "Target URL")
	fs.StringArrayVar(&opts.accepts, "accept", defaultAccepts, "Accept header to rotate through, repeatable")
	fs.IntVar(&opts.concurrency, "concurrency", 10, "Number of concurrent workers")
	fs.IntVar(&opts.requests, "requests", 100, "Total number of requests to send")
	fs.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Per-request timeout")
	outJSON := fs.String("out", "", "Write JSON summary to this file (optional)")
	verbose := fs.BoolP("verbose", "v", false, "Verbose per-request logging to stdout")
	fs.Parse(os.Args[1:])

	if len(opts.accepts) == 0 || opts.concurrency < 1 {
		fmt.Fprintln(os.Stderr, "need at least one --accept and --concurrency >= 1")
		os.Exit(1)
	}

	var logf func(string, ...any)
	if *verbose {
		logf = func(format string, args ...any) { fmt.Printf(format, args...) }
	}

	rep := run(opts, logf)
	printSummary(os.Stdout, opts, rep)

	if *outJSON != "" {
		if err := writeJSON(*outJSON, opts, rep); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write json summary: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote JSON summary to %s\n", *outJSON)
	}

	if rep.Failure > 0 {
		os.Exit(2)
	}
}

func run(opts options, logf func(string, ...any)) *report {
	client := &http.Client{Timeout: opts.timeout}

	rep := &report{
		StatusCodes: make(map[int]int32),
		MediaTypes:  make(map[string]*TypeStats),
	}
	var mu sync.Mutex

	jobs := make(chan int)
	var wg sync.WaitGroup

	testStart := time.Now()

	for i := 0; i < opts.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				atomic.AddInt32(&rep.Total, 1)
				accept := opts.accepts[idx%len(opts.accepts)]

				req, err := http.NewRequest(http.MethodGet, opts.url, nil)
				if err != nil {
					atomic.AddInt32(&rep.Failure, 1)
					continue
				}
				req.Header.Set("Accept", accept)

				start := time.Now()
				resp, err := client.Do(req)
				dur := time.Since(start)

				mu.Lock()
				rep.Latencies = append(rep.Latencies, dur)
				mu.Unlock()

				if err != nil {
					atomic.AddInt32(&rep.Failure, 1)
					if logf != nil {
						logf("[%d] idx=%d error=%v\n", workerID, idx, err)
					}
					continue
				}

				ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
				if ok {
					atomic.AddInt32(&rep.Success, 1)
				} else {
					atomic.AddInt32(&rep.Failure, 1)
				}

				mediaType := resp.Header.Get("Content-Type")
				if !ok || mediaType == "" {
					mediaType = "(none)"
				}

				mu.Lock()
				rep.StatusCodes[resp.StatusCode]++
				ts, found := rep.MediaTypes[mediaType]
				if !found {
					ts = &TypeStats{}
					rep.MediaTypes[mediaType] = ts
				}
				ts.Count++
				if ok {
					ts.Success++
				} else {
					ts.Failure++
				}
				ts.Latencies = append(ts.Latencies, dur)
				mu.Unlock()

				if logf != nil {
					logf("[%d] idx=%d accept=%q type=%s status=%d dur=%v\n", workerID, idx, accept, mediaType, resp.StatusCode, dur)
				}

				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
		}(i)
	}

	for i := 0; i < opts.requests; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	rep.Duration = time.Since(testStart)
	return rep
}

func printSummary(w io.Writer, opts options, rep *report) {
	throughput := float64(rep.Total) / rep.Duration.Seconds()

	fmt.Fprintln(w, "--- Load Test Summary ---")
	fmt.Fprintf(w, "Target: %s\n", opts.url)
	fmt.Fprintf(w, "Requests: %d  Concurrency: %d  Accept variants: %d\n", opts.requests, opts.concurrency, len(opts.accepts))
	fmt.Fprintf(w, "Total sent: %d  Success: %d  Failure: %d\n", rep.Total, rep.Success, rep.Failure)
	fmt.Fprintf(w, "Duration: %v  Throughput: %.2f req/s\n", rep.Duration, throughput)

	fmt.Fprintln(w, "\nStatus codes:")
	var codes []int
	for k := range rep.StatusCodes {
		codes = append(codes, k)
	}
	sort.Ints(codes)
	for _, k := range codes {
		fmt.Fprintf(w, "  %d -> %d\n", k, rep.StatusCodes[k])
	}

	fmt.Fprintln(w, "\nMedia type distribution:")
	var types []string
	for k := range rep.MediaTypes {
		types = append(types, k)
	}
	sort.Strings(types)
	for _, k := range types {
		ts := rep.MediaTypes[k]
		fmt.Fprintf(w, "  %s -> total=%d success=%d failure=%d\n", k, ts.Count, ts.Success, ts.Failure)
		if len(ts.Latencies) > 0 {
			sorted := sortedCopy(ts.Latencies)
			fmt.Fprintf(w, "    latencies: samples=%d p50=%v p90=%v p99=%v\n",
				len(sorted), percentile(sorted, 0.50), percentile(sorted, 0.90), percentile(sorted, 0.99))
		}
	}

	if len(rep.Latencies) > 0 {
		sorted := sortedCopy(rep.Latencies)
		fmt.Fprintln(w, "\nOverall latencies:")
		fmt.Fprintf(w, "  samples=%d min=%v max=%v p50=%v p90=%v p95=%v p99=%v\n",
			len(sorted), sorted[0], sorted[len(sorted)-1],
			percentile(sorted, 0.50), percentile(sorted, 0.90), percentile(sorted, 0.95), percentile(sorted, 0.99))
	}

	fmt.Fprintf(w, "\nGOMAXPROCS=%d  NumGoroutine=%d\n", runtime.GOMAXPROCS(0), runtime.NumGoroutine())
}

func writeJSON(path string, opts options, rep *report) error {
	type TypeSummary struct {
		Total   int32   `json:"total"`
		Success int32   `json:"success"`
		Failure int32   `json:"failure"`
		P50     float64 `json:"p50_ms"`
		P99     float64 `json:"p99_ms"`
	}

	summaries := make(map[string]TypeSummary, len(rep.MediaTypes))
	for k, ts := range rep.MediaTypes {
		s := TypeSummary{Total: ts.Count, Success: ts.Success, Failure: ts.Failure}
		if len(ts.Latencies) > 0 {
			sorted := sortedCopy(ts.Latencies)
			s.P50 = float64(percentile(sorted, 0.50).Microseconds()) / 1000.0
			s.P99 = float64(percentile(sorted, 0.99).Microseconds()) / 1000.0
		}
		summaries[k] = s
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"target":         opts.url,
		"requests":       opts.requests,
		"concurrency":    opts.concurrency,
		"total_sent":     rep.Total,
		"success":        rep.Success,
		"failure":        rep.Failure,
		"duration_ms":    rep.Duration.Milliseconds(),
		"throughput_rps": float64(rep.Total) / rep.Duration.Seconds(),
		"status_codes":   rep.StatusCodes,
		"media_types":    summaries,
	})
}

func sortedCopy(durations []time.Duration) []time.Duration {
	tmp := make([]time.Duration, len(durations))
	copy(tmp, durations)
	sort.Slice(tmp, func(i, j int) bool { return tmp[i] < tmp[j] })
	return tmp
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(float64(len(sorted)-1) * p)
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

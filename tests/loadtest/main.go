// Command loadtest drives a running calmd with concurrent users. Many users
// share a small id pool on purpose, so mood writes contend on the same streaks.
package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	flag "github.com/spf13/pflag"
)

var (
	baseURL      = flag.String("url", "http://127.0.0.1:18090", "calmd base URL")
	userHeader   = flag.String("header", "X-User-ID", "identity header")
	numWorkers   = flag.Int("workers", 50, "concurrent workers")
	numUsers     = flag.Int("users", 200, "distinct user ids")
	testDuration = flag.Duration("duration", 10*time.Second, "length of each phase")
)

var patterns = []string{"4-7-8", "box", "calm"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	conflicts int64
	latencies []time.Duration
}

func main() {
	flag.Parse()

	fmt.Println("=== calmd Load Test ===")
	fmt.Printf("Workers: %d | Users: %d | Duration: %s\n\n", *numWorkers, *numUsers, *testDuration)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(*baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Mood writes (POST /mood) ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		return doMood(rng)
	})

	fmt.Println("\n--- Phase 2: Mixed load ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.30:
			return doMood(rng)
		case r < 0.50:
			return doRequest(http.MethodGet, "/streak", user(rng), nil, http.StatusOK)
		case r < 0.60:
			return doRequest(http.MethodGet, "/mood/calendar", user(rng), nil, http.StatusOK)
		case r < 0.70:
			return doRequest(http.MethodGet, "/patterns", "", nil, http.StatusOK)
		case r < 0.85:
			return doSession(rng)
		case r < 0.95:
			return doAssessment(rng)
		default:
			return doRequest(http.MethodGet, "/assessment/history", user(rng), nil, http.StatusOK)
		}
	})
}

func user(rng *rand.Rand) string {
	return fmt.Sprintf("load-%d", rng.Intn(*numUsers))
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			if r.status == http.StatusConflict {
				s.conflicts++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps, totalErrors, totalConflicts int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %6s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "409s", "Avg", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 84))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors
		totalConflicts += s.conflicts

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-26s %8d %6d %6d %10s %10s %10s\n",
			ep, s.count, s.errors, s.conflicts,
			fmtDur(avgDuration(s.latencies)), fmtDur(percentile(s.latencies, 0.95)), fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 84))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | Conflicts: %d | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(max(totalOps, 1))*100, totalConflicts, rps)
}

func doRequest(method, path, userID string, body any, want int) result {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, *baseURL+path, reader)
	if err != nil {
		return result{method + " " + path, 0, 0, true}
	}
	if userID != "" {
		req.Header.Set(*userHeader, userID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{method + " " + path, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{method + " " + path, resp.StatusCode, lat, resp.StatusCode != want}
}

func doMood(rng *rand.Rand) result {
	body := map[string]any{"score": rng.Intn(5) + 1}
	if rng.Float64() < 0.3 {
		body["note"] = "load test entry"
	}
	return doRequest(http.MethodPost, "/mood", user(rng), body, http.StatusCreated)
}

func doSession(rng *rand.Rand) result {
	id := user(rng)
	var r result
	switch rng.Intn(4) {
	case 0:
		return doRequest(http.MethodPost, "/session/select", id, map[string]string{"pattern": patterns[rng.Intn(len(patterns))]}, http.StatusOK)
	case 1:
		r = doRequest(http.MethodPost, "/session/start", id, nil, http.StatusOK)
	case 2:
		r = doRequest(http.MethodPost, "/session/pause", id, nil, http.StatusOK)
	default:
		r = doRequest(http.MethodGet, "/session", id, nil, http.StatusOK)
	}
	// users that never selected a pattern legitimately get 404
	r.err = r.err && r.status != http.StatusNotFound
	return r
}

func doAssessment(rng *rand.Rand) result {
	answers := make(map[string]int, 10)
	for i := 1; i <= 10; i++ {
		answers[fmt.Sprintf("q%d", i)] = rng.Intn(5) + 1
	}
	return doRequest(http.MethodPost, "/assessment", user(rng), map[string]any{"answers": answers}, http.StatusCreated)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

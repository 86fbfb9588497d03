package main

import (
	"bytes"
	"flag"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
)

func main() {
	targetRPS := flag.Int("rps", 5000, "Target events per second")
	duration := flag.Duration("duration", 60*time.Second, "Test duration")
	workers := flag.Int("workers", 50, "Number of concurrent workers")
	batchSize := flag.Int("batch", 100, "Events per batch")
	apiKey := flag.String("api-key", "", "Team api key")
	url := flag.String("url", "http://localhost:8000/batch", "Target URL")
	flag.Parse()

	if *apiKey == "" {
		fmt.Println("-api-key is required")
		return
	}

	fmt.Printf("Load Test Configuration:\n")
	fmt.Printf("  Target RPS: %d events/sec\n", *targetRPS)
	fmt.Printf("  Duration: %v\n", *duration)
	fmt.Printf("  Workers: %d\n", *workers)
	fmt.Printf("  Batch Size: %d\n", *batchSize)
	fmt.Printf("  URL: %s\n\n", *url)

	var successCount, errorCount, totalEvents int64
	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        1000,
			MaxIdleConnsPerHost: 1000,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	start := time.Now()
	var wg sync.WaitGroup

	batchesPerSecond := float64(*targetRPS) / float64(*batchSize)
	batchesPerWorkerPerSecond := batchesPerSecond / float64(*workers)
	intervalPerBatch := time.Duration(float64(time.Second) / batchesPerWorkerPerSecond)

	fmt.Printf("  Batches/sec total: %.0f\n", batchesPerSecond)
	fmt.Printf("  Interval per batch: %v\n\n", intervalPerBatch)

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			ticker := time.NewTicker(intervalPerBatch)
			defer ticker.Stop()
			for time.Since(start) < *duration {
				<-ticker.C
				batch := generateBatch(*apiKey, *batchSize, workerID)
				if err := sendBatch(client, *url, batch); err != nil {
					atomic.AddInt64(&errorCount, 1)
				} else {
					atomic.AddInt64(&successCount, 1)
					atomic.AddInt64(&totalEvents, int64(*batchSize))
				}
			}
		}(i)
	}

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for time.Since(start) < *duration {
			<-ticker.C
			elapsed := time.Since(start).Seconds()
			events := atomic.LoadInt64(&totalEvents)
			errors := atomic.LoadInt64(&errorCount)
			rps := float64(events) / elapsed
			fmt.Printf("[%5.0fs] Events: %8d | Errors: %5d | RPS: %8.0f\n",
				elapsed, events, errors, rps)
		}
	}()

	wg.Wait()

	elapsed := time.Since(start).Seconds()
	fmt.Printf("\n========== FINAL RESULTS ==========\n")
	fmt.Printf("Duration:       %.2f seconds\n", elapsed)
	fmt.Printf("Total Events:   %d\n", totalEvents)
	fmt.Printf("Total Batches:  %d (success) / %d (error)\n", successCount, errorCount)
	fmt.Printf("Average RPS:    %.0f events/sec\n", float64(totalEvents)/elapsed)
	fmt.Printf("Error Rate:     %.2f%%\n", float64(errorCount)/float64(successCount+errorCount)*100)
	fmt.Printf("====================================\n")
}

func generateBatch(apiKey string, count int, workerID int) map[string]any {
	events := make([]map[string]any, count)
	now := time.Now().UTC()

	eventNames := []string{"$pageview", "$autocapture", "signup", "purchase"}
	browsers := []string{"Chrome", "Firefox", "Safari"}
	paths := []string{"/", "/pricing", "/signup", "/docs"}

	for i := 0; i < count; i++ {
		name := eventNames[i%len(eventNames)]
		e := map[string]any{
			"event":       name,
			"distinct_id": fmt.Sprintf("user_%d", (workerID*count+i)%10000),
			"timestamp":   now.Add(-time.Duration(i%(7*24*3600)) * time.Second),
			"properties": map[string]any{
				"$browser":     browsers[i%len(browsers)],
				"$current_url": "https://example.com" + paths[i%len(paths)],
				"worker_id":    workerID,
			},
		}
		if name == "$autocapture" {
			e["elements"] = []map[string]any{
				{"tag_name": "button", "text": "Sign up", "attr_class": []string{"btn", "btn-primary"}, "nth_child": 2, "order": 0},
				{"tag_name": "form", "attr_id": "signup", "order": 1},
			}
		}
		events[i] = e
	}
	return map[string]any{"api_key": apiKey, "batch": events}
}

func sendBatch(client *http.Client, url string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("status: %d", resp.StatusCode)
	}
	return nil
}

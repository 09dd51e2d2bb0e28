// Command stress_test drives concurrent purchases against a running
// inventory service. Because the purchase path has no concurrency control
// across its read-check-write sequence, runs with high parallelism can
// oversubscribe stock; this tool makes that visible.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const (
	initialStock  = 20
	totalRequests = 50
	productID     = 1
)

func main() {
	baseURL := os.Getenv("INVENTORY_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8081"
	}
	apiKey := os.Getenv("INVENTORY_API_KEY")
	if apiKey == "" {
		log.Fatal("INVENTORY_API_KEY is required")
	}

	client := &http.Client{Timeout: 10 * time.Second}

	// Reset stock
	if err := call(client, baseURL, apiKey, http.MethodPut,
		fmt.Sprintf("/api/inventory/%d", productID),
		map[string]any{"quantity": initialStock}); err != nil {
		log.Fatalf("failed to set initial stock: %v", err)
	}

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := call(client, baseURL, apiKey, http.MethodPost,
				"/api/inventory/purchase",
				map[string]any{"productId": productID, "quantity": 1})
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", successCount.Load())
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if s := successCount.Load(); s > initialStock {
		fmt.Printf("NOTE: %d purchases succeeded against %d units of stock - the\n", s, initialStock)
		fmt.Println("read-check-write race oversubscribed the inventory.")
	}
}

func call(client *http.Client, baseURL, apiKey, method, path string, body map[string]any) error {
	payload, _ := json.Marshal(body)

	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("X-API-KEY", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

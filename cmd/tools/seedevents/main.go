package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Posts sample analytics events at the running server so the dashboard has
// something to chart during development.
func main() {
	url := flag.String("url", "http://localhost:8080/api/analytics", "Analytics endpoint URL")
	count := flag.Int("count", 10, "Events per type")
	flag.Parse()

	types := []string{"view", "view", "view", "click", "add_to_cart"}

	client := &http.Client{Timeout: 5 * time.Second}
	sent := 0
	for i := 0; i < *count; i++ {
		for _, t := range types {
			body, _ := json.Marshal(map[string]any{
				"event":   t,
				"payload": map[string]any{"productId": "prod-001", "seq": sent},
				"ts":      time.Now().UnixMilli(),
			})

			resp, err := client.Post(*url, "application/json", bytes.NewReader(body))
			if err != nil {
				fmt.Fprintf(os.Stderr, "post failed: %v\n", err)
				os.Exit(1)
			}
			if resp.StatusCode != http.StatusOK {
				msg, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				fmt.Fprintf(os.Stderr, "unexpected status %d: %s\n", resp.StatusCode, msg)
				os.Exit(1)
			}
			resp.Body.Close()
			sent++
		}
	}

	fmt.Printf("sent %d events to %s\n", sent, *url)
}

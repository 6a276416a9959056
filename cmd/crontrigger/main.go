// Package main triggers the domain verification poll cycle over HTTP. It
// mints a short-lived signed bearer token from the shared cron secret, calls
// the server's cron endpoint, and prints the batch summary. Intended for
// external schedulers and for operators running an ad-hoc cycle.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	adminmw "sudsy/pkg/platform/middleware/admin"
)

const defaultBaseURL = "http://localhost:8080"

func main() {
	baseURL := flag.String("url", envOr("SUDSY_SERVER_URL", defaultBaseURL), "Base URL of the sudsy server")
	secret := flag.String("secret", os.Getenv("SUDSY_CRON_SECRET"), "Shared cron secret (defaults to SUDSY_CRON_SECRET)")
	timeout := flag.Duration("timeout", 2*time.Minute, "Request timeout covering the whole batch")
	asJSON := flag.Bool("json", false, "Print the raw summary JSON")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "error: cron secret required (-secret or SUDSY_CRON_SECRET)")
		os.Exit(2)
	}

	token, err := adminmw.NewCronToken(*secret, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: mint cron token: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, *baseURL+"/internal/cron/verify-domains", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: call server: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response body

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: read response: %v\n", err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "error: server returned %s: %s\n", resp.Status, body)
		os.Exit(1)
	}

	if *asJSON {
		fmt.Println(string(body))
		return
	}

	var summary struct {
		Checked   int `json:"checked"`
		Verified  int `json:"verified"`
		Expired   int `json:"expired"`
		Remaining int `json:"remaining"`
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		fmt.Fprintf(os.Stderr, "error: decode summary: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("checked=%d verified=%d expired=%d remaining=%d\n",
		summary.Checked, summary.Verified, summary.Expired, summary.Remaining)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Command mockdevice generates Tive-shaped tracker payloads and posts them
// to a running ingest service, or prints them for use as fixtures.
//
// Usage:
//
//	go run ./cmd/mockdevice -url http://localhost:8080 -count 5
//	go run ./cmd/mockdevice -print
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type payload struct {
	DeviceID       string   `json:"DeviceId"`
	DeviceName     string   `json:"DeviceName"`
	EntryTimeEpoch int64    `json:"EntryTimeEpoch"`
	Temperature    celsius  `json:"Temperature"`
	Location       location `json:"Location"`
	Humidity       *pct     `json:"Humidity,omitempty"`
	Light          *lux     `json:"Light,omitempty"`
	Battery        *pctInt  `json:"Battery,omitempty"`
	Cellular       *dbm     `json:"Cellular,omitempty"`
}

type celsius struct {
	Celsius float64 `json:"Celsius"`
}

type location struct {
	Latitude       float64  `json:"Latitude"`
	Longitude      float64  `json:"Longitude"`
	LocationMethod *string  `json:"LocationMethod,omitempty"`
	Accuracy       *meters  `json:"Accuracy,omitempty"`
	WifiUsedCount  *int     `json:"WifiAccessPointUsedCount,omitempty"`
}

type meters struct {
	Meters float64 `json:"Meters"`
}

type pct struct {
	Percentage float64 `json:"Percentage"`
}

type lux struct {
	Lux float64 `json:"Lux"`
}

type pctInt struct {
	Percentage int `json:"Percentage"`
}

type dbm struct {
	Dbm float64 `json:"Dbm"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	url := flag.String("url", "http://localhost:8080", "base URL of the ingest service")
	apiKey := flag.String("api-key", os.Getenv("WEBHOOK_API_KEY"), "webhook API key (defaults to WEBHOOK_API_KEY)")
	device := flag.String("device", "867000050000001", "device identifier")
	count := flag.Int("count", 1, "number of payloads to generate")
	seed := flag.Int64("seed", 1, "RNG seed, fixed for reproducible fixtures")
	printOnly := flag.Bool("print", false, "print payloads instead of posting")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	client := &http.Client{Timeout: 10 * time.Second}

	for i := 0; i < *count; i++ {
		p := generate(rng, *device, i)
		body, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}

		if *printOnly {
			fmt.Println(string(body))
			continue
		}
		if *apiKey == "" {
			return fmt.Errorf("missing API key: set -api-key or WEBHOOK_API_KEY")
		}
		if err := post(client, *url, *apiKey, body); err != nil {
			return err
		}
	}
	return nil
}

// generate produces one payload. Optional blocks appear probabilistically so
// a batch exercises both full and minimal shapes.
func generate(rng *rand.Rand, device string, seq int) payload {
	method := "GPS"
	p := payload{
		DeviceID:       device,
		DeviceName:     fmt.Sprintf("Truck-%s", device[len(device)-4:]),
		EntryTimeEpoch: time.Now().Add(-time.Duration(seq) * time.Minute).UnixMilli(),
		Temperature:    celsius{Celsius: -10 + rng.Float64()*45},
		Location: location{
			Latitude:       40.0 + rng.Float64()*2 - 1,
			Longitude:      -70.0 + rng.Float64()*2 - 1,
			LocationMethod: &method,
		},
	}
	if rng.Intn(2) == 0 {
		p.Humidity = &pct{Percentage: rng.Float64() * 100}
	}
	if rng.Intn(2) == 0 {
		p.Light = &lux{Lux: rng.Float64() * 1000}
	}
	if rng.Intn(2) == 0 {
		p.Battery = &pctInt{Percentage: rng.Intn(101)}
	}
	if rng.Intn(2) == 0 {
		p.Cellular = &dbm{Dbm: -120 + rng.Float64()*60}
	}
	if rng.Intn(2) == 0 {
		p.Location.Accuracy = &meters{Meters: rng.Float64() * 50}
		n := rng.Intn(8)
		p.Location.WifiUsedCount = &n
	}
	return p
}

func post(client *http.Client, baseURL, apiKey string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, baseURL+"/webhook/tive", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post payload: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	log.Printf("HTTP %d %s", resp.StatusCode, bytes.TrimSpace(respBody))
	return nil
}

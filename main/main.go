package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/ontanj/healthenc"
	"github.com/ontanj/healthenc/logging"
)

func main() {
	cfg, err := healthenc.LoadConfig(os.Getenv)
	if err != nil {
		fmt.Println("Error in configuration:", err)
		os.Exit(1)
	}
	if len(os.Args) > 2 {
		fmt.Println("Usage: healthenc [server-url]")
		os.Exit(1)
	}
	if len(os.Args) == 2 {
		cfg.ServerURL = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg healthenc.Config, in io.Reader, out io.Writer) error {
	logger := logging.NewText(os.Stderr, cfg.LogLevel).With("sensor_id", cfg.SensorID)
	client := &http.Client{Timeout: cfg.UploadTimeout}

	var key healthenc.KeyState
	pk, err := healthenc.FetchPublicKey(ctx, client, cfg.PubKeyURL())
	if err != nil {
		return fmt.Errorf("could not load public key: %w", err)
	}
	if err := key.Load(pk); err != nil {
		return err
	}
	fmt.Fprintln(out, "Public key loaded successfully.")
	logger.Debug(ctx, "public key loaded", "bits", pk.N().BitLen())

	uploader := healthenc.NewUploader(client, cfg.UploadURL(), cfg.UploadTimeout)
	submitter := healthenc.NewSubmitter(&key, uploader, cfg, logger)

	fmt.Fprintln(out, "\nSecure Health Monitor - Manual Console Input")
	fmt.Fprintln(out, "Type a value and press Enter. Leave blank to skip that metric.")
	fmt.Fprintln(out, "Type 'quit' to exit.")

	// stops the line reader when run returns early
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, scanErr := readLines(ctx, in)
	prompt := func(label string) (string, bool) {
		fmt.Fprintf(out, "%-20s: ", label)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return "", false
		case line, ok := <-lines:
			if !ok {
				return "", false
			}
			return strings.TrimSpace(line), true
		}
	}

	for ctx.Err() == nil {
		readings := make([]healthenc.Reading, 0, len(healthenc.Metrics))
		quit := false
		for _, metric := range healthenc.Metrics {
			v, ok := prompt(fmt.Sprintf("%s (%s)", metric.Label(), metric.Unit()))
			if !ok {
				quit = true
				break
			}
			if metric == healthenc.HeartRate && isQuit(v) {
				quit = true
				break
			}
			readings = append(readings, healthenc.Reading{Metric: metric, Value: v})
		}
		if quit {
			break
		}

		if !validate(readings, out) {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		for i, res := range submitter.Submit(ctx, readings) {
			switch {
			case res.Skipped:
			case res.Err != nil:
				fmt.Fprintf(out, "Failed to send %s: %v\n", res.Metric, res.Err)
			default:
				fmt.Fprintf(out, "Sent %s: %s%s (encrypted)\n", res.Metric, readings[i].Value, res.Metric.Unit())
			}
		}
		fmt.Fprintln(out, strings.Repeat("-", 50))
	}
	fmt.Fprintln(out, "Goodbye!")
	select {
	case err := <-scanErr:
		return err
	default:
		return nil
	}
}

// readLines scans in on its own goroutine so that a prompt can give up on
// ctx. lines is closed at end of input; the scanner error, if any, is then
// available on the second channel.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

func isQuit(v string) bool {
	switch strings.ToLower(v) {
	case "quit", "q", "exit":
		return true
	}
	return false
}

// validate rejects a round with no values or an unparsable value, and warns
// about implausible ones.
func validate(readings []healthenc.Reading, out io.Writer) bool {
	empty := true
	for _, r := range readings {
		if r.Value == "" {
			continue
		}
		empty = false
		v, err := strconv.ParseFloat(r.Value, 64)
		if err != nil {
			fmt.Fprintln(out, "Invalid number - please enter numeric values.")
			return false
		}
		if !healthenc.Plausible(r.Metric, v) {
			lo, hi := r.Metric.Range()
			fmt.Fprintf(out, "Warning: %s looks unrealistic (%g-%g %s)\n", r.Metric.Label(), lo, hi, r.Metric.Unit())
		}
	}
	if empty {
		fmt.Fprintln(out, "No values entered - try again.")
		return false
	}
	return true
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ontanj/healthenc"
)

func TestRun(t *testing.T) {
	var mu sync.Mutex
	var uploads []healthenc.UploadPayload
	mux := http.NewServeMux()
	mux.HandleFunc("/pubkey", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"n": "3233"}`))
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		var p healthenc.UploadPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		uploads = append(uploads, p)
		mu.Unlock()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := healthenc.DefaultConfig()
	cfg.ServerURL = srv.URL

	in := strings.NewReader(strings.Join([]string{
		"72", "", "36.6", // first round
		"", "", "", // nothing entered
		"250", "x", "", // not a number
		"quit",
	}, "\n") + "\n")
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, in, &out))

	text := out.String()
	require.Contains(t, text, "Public key loaded successfully.")
	require.Contains(t, text, "Sent heart_rate: 72bpm (encrypted)")
	require.Contains(t, text, "Sent temperature: 36.6°C (encrypted)")
	require.Contains(t, text, "No values entered")
	require.Contains(t, text, "Invalid number")
	require.Contains(t, text, "Goodbye!")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, uploads, 2)
	for _, p := range uploads {
		require.Equal(t, "console-manual", p.SensorID)
		require.Zero(t, p.Exponent)
	}
}

func TestRunInterrupted(t *testing.T) {
	var mu sync.Mutex
	uploads := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/pubkey", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"n": "3233"}`))
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		uploads += 1
		mu.Unlock()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := healthenc.DefaultConfig()
	cfg.ServerURL = srv.URL

	for _, typed := range []string{"", "72\n", "72\n98\n"} {
		pr, pw := io.Pipe()
		t.Cleanup(func() { pw.Close() })

		ctx, cancel := context.WithCancel(context.Background())
		out := &syncBuffer{}
		done := make(chan error, 1)
		go func() { done <- run(ctx, cfg, pr, out) }()

		// the lines go through before the interrupt; the round is left open
		if typed != "" {
			_, err := io.WriteString(pw, typed)
			require.NoError(t, err)
		}
		require.Eventually(t, func() bool {
			return strings.Contains(out.String(), "Public key loaded successfully.")
		}, 2*time.Second, 10*time.Millisecond)
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatalf("run still waiting for input after interrupt (typed %q)", typed)
		}
		require.Contains(t, out.String(), "Goodbye!")
		require.NotContains(t, out.String(), "Failed to send")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Zero(t, uploads)
}

// syncBuffer lets the test read output while run is still writing it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWithoutServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	cfg := healthenc.DefaultConfig()
	cfg.ServerURL = srv.URL
	srv.Close()

	err := run(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{})
	require.ErrorIs(t, err, healthenc.ErrTransportFailure)
}

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	ok := validate([]healthenc.Reading{
		{Metric: healthenc.HeartRate, Value: "250"},
		{Metric: healthenc.SpO2, Value: ""},
		{Metric: healthenc.Temperature, Value: "37"},
	}, &out)
	require.True(t, ok)
	require.Contains(t, out.String(), "Warning: Heart Rate looks unrealistic (30-220 bpm)")
	require.NotContains(t, out.String(), "Temperature looks")

	require.False(t, validate([]healthenc.Reading{{Metric: healthenc.SpO2}}, &out))
	require.True(t, isQuit("Q"))
	require.False(t, isQuit("72"))
}

package healthenc

import (
	"context"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/ontanj/healthenc/logging"
)

// Result is the outcome for one reading passed to Submit.
type Result struct {
	Metric  Metric
	Skipped bool  // blank value, nothing was encrypted or sent
	Err     error // scaling, encryption or transport error
}

// Submitter scales, encrypts and uploads batches of readings.
type Submitter struct {
	enc      Encrypter
	sink     Sink
	sensorID string
	workers  int
	log      logging.Logger
}

// NewSubmitter wires enc and sink. cfg supplies the sensor id and the worker
// count; a nil logger discards output.
func NewSubmitter(enc Encrypter, sink Sink, cfg Config, logger logging.Logger) *Submitter {
	if logger == nil {
		logger = logging.Discard()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Submitter{
		enc:      enc,
		sink:     sink,
		sensorID: cfg.SensorID,
		workers:  workers,
		log:      logger,
	}
}

// Submit handles every reading independently: a failure for one reading does
// not stop the others, and nothing is retried. The returned slice is aligned
// with readings.
func (s *Submitter) Submit(ctx context.Context, readings []Reading) []Result {
	results := make([]Result, len(readings))

	// step 1: scale, skip blanks
	var pending []int
	var plaintexts []*big.Int
	for i, r := range readings {
		results[i].Metric = r.Metric
		m, ok, err := r.Scale()
		switch {
		case err != nil:
			results[i].Err = err
		case !ok:
			results[i].Skipped = true
		default:
			pending = append(pending, i)
			plaintexts = append(plaintexts, m)
		}
	}
	if len(pending) == 0 {
		return results
	}

	// step 2: encrypt
	ciphertexts, errs := EncryptAll(s.enc, plaintexts, s.workers)
	clear(plaintexts)

	// step 3: upload; once ctx is done the remaining readings are not sent
	var g errgroup.Group
	g.SetLimit(s.workers)
	for j, i := range pending {
		metric := readings[i].Metric
		if errs[j] != nil {
			results[i].Err = errs[j]
			s.log.Warn(ctx, "encryption failed", "type", metric, "error", errs[j], logging.Redacted("plaintext"))
			continue
		}
		payload := NewPayload(s.sensorID, metric, ciphertexts[j])
		i := i
		g.Go(func() error {
			// Go may have waited for a free slot
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			if err := s.sink.Upload(ctx, payload); err != nil {
				results[i].Err = err
				s.log.Warn(ctx, "upload failed", "type", metric, "error", err)
				return nil
			}
			s.log.Info(ctx, "reading sent", "type", metric, "ciphertext_digits", len(payload.Ciphertext))
			return nil
		})
	}
	_ = g.Wait()
	return results
}

package healthenc

import (
	"math/big"
	"sync"
)

type encryptJob struct {
	index     int
	plaintext *big.Int
}

type encryptResult struct {
	index      int
	ciphertext *Ciphertext
	err        error
}

// encryptWorker encrypts every job it receives until jobs is closed.
// Each call to enc.Encrypt samples its own blinding factor, so workers share
// nothing but the read-only key.
func encryptWorker(enc Encrypter, jobs <-chan encryptJob, results chan<- encryptResult) {
	for job := range jobs {
		c, err := enc.Encrypt(job.plaintext)
		results <- encryptResult{index: job.index, ciphertext: c, err: err}
	}
}

// EncryptAll encrypts plaintexts on up to workers goroutines. Ciphertexts and
// errors are returned index-aligned with plaintexts; a failed entry has a nil
// ciphertext and a non-nil error.
func EncryptAll(enc Encrypter, plaintexts []*big.Int, workers int) ([]*Ciphertext, []error) {
	ciphertexts := make([]*Ciphertext, len(plaintexts))
	errs := make([]error, len(plaintexts))
	if len(plaintexts) == 0 {
		return ciphertexts, errs
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(plaintexts) {
		workers = len(plaintexts)
	}

	jobs := make(chan encryptJob)
	results := make(chan encryptResult, len(plaintexts))

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i += 1 {
		go func() {
			defer wg.Done()
			encryptWorker(enc, jobs, results)
		}()
	}

	for i, m := range plaintexts {
		jobs <- encryptJob{index: i, plaintext: m}
	}
	close(jobs)
	wg.Wait()
	close(results)

	for res := range results {
		ciphertexts[res.index] = res.ciphertext
		errs[res.index] = res.err
	}
	return ciphertexts, errs
}

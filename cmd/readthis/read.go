package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/readthis"
)

// Run executes the read command.
func (c *ReadCmd) Run(deps *Dependencies) error {
	deps.Reader.Concurrency = c.Concurrency
	deps.Reader.RetryDelays = retryDelays(c.Retries)

	results := deps.Reader.ReadAll(deps.Ctx, c.Tokens)

	enc := json.NewEncoder(deps.Stdout)
	failed := 0
	for i, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", r.Token, describe(r.Err))
			continue
		}

		switch {
		case c.JSON:
			if err := enc.Encode(r.Article); err != nil {
				return err
			}
		case len(results) > 1:
			if i > 0 {
				fmt.Fprintln(deps.Stdout)
			}
			fmt.Fprintf(deps.Stdout, "==> %s <==\n%s\n", r.Token, r.Article.Text)
		default:
			fmt.Fprintln(deps.Stdout, r.Article.Text)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

// retryDelays returns n exponentially growing delays starting at one second.
func retryDelays(n int) []time.Duration {
	if n <= 0 {
		return nil
	}
	delays := make([]time.Duration, n)
	for i := range delays {
		delays[i] = time.Second << i
	}
	return delays
}

func describe(err error) string {
	msg := fmt.Sprintf("%s (%s)", readthis.ErrorMessage(err), readthis.ErrorCode(err))
	if stage := readthis.ErrorStage(err); stage != "" {
		msg = fmt.Sprintf("%s: %s", stage, msg)
	}
	return msg
}

// Package reader implements readthis.Service. It resolves a token against
// the current manual snapshot, fetches the document and extracts its main
// content, tagging every failure with the stage that produced it.
package reader

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/readthis"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of documents ReadAll fetches at once.
const DefaultConcurrency = 4

// TruncationMarker is appended to text cut short by MaxLength.
const TruncationMarker = "[truncated]"

// Ensure Reader implements readthis.Service at compile time.
var _ readthis.Service = (*Reader)(nil)

// Reader reads documents through a registry, fetcher and extractor.
// All fields except Registry, Fetcher and Extractor are optional.
type Reader struct {
	Registry  readthis.ManualRegistry
	Fetcher   readthis.Fetcher
	Extractor readthis.Extractor

	// Converter renders the selected subtree when Format is FormatMarkdown.
	Converter readthis.Converter
	Format    readthis.Format

	// MaxLength bounds the returned text in runes. Zero means unbounded.
	MaxLength int

	// Concurrency limits ReadAll. Defaults to DefaultConcurrency.
	Concurrency int

	// RetryDelays are waited between fetch attempts for transient
	// failures. Nil disables retries.
	RetryDelays []time.Duration
}

// ReadThis returns the extracted text of the document named by token.
func (r *Reader) ReadThis(ctx context.Context, token string) (string, error) {
	article, err := r.Read(ctx, token)
	if err != nil {
		return "", err
	}
	return article.Text, nil
}

// ReloadManuals delegates to the registry.
func (r *Reader) ReloadManuals(ctx context.Context) *readthis.ReloadResult {
	return r.Registry.Reload(ctx)
}

// Read resolves, fetches and extracts one document.
func (r *Reader) Read(ctx context.Context, token string) (*readthis.Article, error) {
	url, err := r.Registry.Resolve(token)
	if err != nil {
		return nil, readthis.AtStage(readthis.StageResolve, err)
	}

	res, err := FetchWithRetry(ctx, r.Fetcher, url, r.RetryDelays)
	if err != nil {
		return nil, readthis.AtStage(readthis.StageFetch, err)
	}

	extracted, err := r.Extractor.Extract(string(res.Body))
	if err != nil {
		return nil, readthis.AtStage(readthis.StageExtract, err)
	}

	text := extracted.Text
	if r.Format == readthis.FormatMarkdown && r.Converter != nil && extracted.ContentHTML != "" {
		text, err = r.Converter.Convert(extracted.ContentHTML)
		if err != nil {
			return nil, readthis.AtStage(readthis.StageExtract, err)
		}
	}

	text, truncated := Truncate(text, r.MaxLength)

	finalURL := res.URL
	if finalURL == "" {
		finalURL = url
	}

	return &readthis.Article{
		Token:     token,
		URL:       finalURL,
		Title:     extracted.Title,
		Text:      text,
		Fallback:  extracted.Fallback,
		Truncated: truncated || res.Truncated,
		Hash:      computeHash(text),
	}, nil
}

// Result is the outcome of reading one token in a batch.
type Result struct {
	Token   string
	Article *readthis.Article
	Err     error
}

// ReadAll reads every token concurrently, bounded by Concurrency. Results
// are returned in input order; one failure does not stop the others.
func (r *Reader) ReadAll(ctx context.Context, tokens []string) []Result {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]Result, len(tokens))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, token := range tokens {
		g.Go(func() error {
			article, err := r.Read(ctx, token)
			results[i] = Result{Token: token, Article: article, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Truncate cuts s to at most limit runes, preferring the last line break
// before the limit, and appends TruncationMarker. A non-positive limit
// leaves s unchanged.
func Truncate(s string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s, false
	}

	runes := []rune(s)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i]
	}
	cut = strings.TrimRight(cut, " \t\n")

	return cut + "\n\n" + TruncationMarker, true
}

func computeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

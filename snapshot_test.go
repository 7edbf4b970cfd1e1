package readthis_test

import (
	"testing"

	"github.com/fwojciec/readthis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("keeps documents in order", func(t *testing.T) {
		t.Parallel()

		snap, err := readthis.NewSnapshot(3, []readthis.DocumentSpec{
			{ID: "b", URL: "https://example.com/b"},
			{ID: "a", URL: "https://example.com/a", Name: "A", Description: "first"},
		})
		require.NoError(t, err)

		assert.Equal(t, uint64(3), snap.Generation())
		assert.Equal(t, 2, snap.Len())
		docs := snap.Documents()
		require.Len(t, docs, 2)
		assert.Equal(t, "b", docs[0].ID)
		assert.Equal(t, "a", docs[1].ID)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		t.Parallel()

		_, err := readthis.NewSnapshot(1, []readthis.DocumentSpec{
			{ID: "a", URL: "https://example.com/1"},
			{ID: "a", URL: "https://example.com/2"},
		})

		assert.Equal(t, readthis.EDUPLICATEID, readthis.ErrorCode(err))
	})

	t.Run("rejects empty id", func(t *testing.T) {
		t.Parallel()

		_, err := readthis.NewSnapshot(1, []readthis.DocumentSpec{{ID: " ", URL: "https://example.com"}})

		assert.Equal(t, readthis.ECONFIGSCHEMA, readthis.ErrorCode(err))
	})

	t.Run("rejects relative url", func(t *testing.T) {
		t.Parallel()

		_, err := readthis.NewSnapshot(1, []readthis.DocumentSpec{{ID: "a", URL: "/docs/a.html"}})

		assert.Equal(t, readthis.ECONFIGSCHEMA, readthis.ErrorCode(err))
	})

	t.Run("copies input slice", func(t *testing.T) {
		t.Parallel()

		docs := []readthis.DocumentSpec{{ID: "a", URL: "https://example.com/a"}}
		snap, err := readthis.NewSnapshot(1, docs)
		require.NoError(t, err)

		docs[0].URL = "https://evil.example/"
		got := snap.Documents()
		got[0].URL = "https://evil.example/"

		url, err := snap.Resolve("a")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a", url)
	})
}

func TestSnapshot_Resolve(t *testing.T) {
	t.Parallel()

	snap, err := readthis.NewSnapshot(1, []readthis.DocumentSpec{
		{ID: "a", URL: "http://example/a.html"},
		{ID: "go-spec", URL: "https://go.dev/ref/spec"},
	})
	require.NoError(t, err)

	t.Run("returns configured url for every id", func(t *testing.T) {
		t.Parallel()

		for _, doc := range snap.Documents() {
			url, err := snap.Resolve(doc.ID)
			require.NoError(t, err)
			assert.Equal(t, doc.URL, url)
		}
	})

	t.Run("passes absolute urls through unchanged", func(t *testing.T) {
		t.Parallel()

		url, err := snap.Resolve("https://example.com/page?q=1")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/page?q=1", url)
	})

	t.Run("fails for unknown non-url tokens", func(t *testing.T) {
		t.Parallel()

		for _, token := range []string{"", "unknown", "example.com/page", "/relative", "http://"} {
			_, err := snap.Resolve(token)
			assert.Equal(t, readthis.EINVALIDREF, readthis.ErrorCode(err), "token %q", token)
		}
	})

	t.Run("nil snapshot still passes urls", func(t *testing.T) {
		t.Parallel()

		var empty *readthis.Snapshot
		url, err := empty.Resolve("https://example.com")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", url)

		_, err = empty.Resolve("a")
		assert.Equal(t, readthis.EINVALIDREF, readthis.ErrorCode(err))
		assert.Equal(t, 0, empty.Len())
		assert.Empty(t, empty.Map())
	})
}

func TestSnapshot_Map(t *testing.T) {
	t.Parallel()

	snap, err := readthis.NewSnapshot(1, []readthis.DocumentSpec{
		{ID: "a", URL: "https://example.com/a", Name: "A"},
	})
	require.NoError(t, err)

	m := snap.Map()
	assert.Equal(t, readthis.DocumentSpec{ID: "a", URL: "https://example.com/a", Name: "A"}, m["a"])
}

func TestIsAbsoluteURL(t *testing.T) {
	t.Parallel()

	assert.True(t, readthis.IsAbsoluteURL("https://example.com"))
	assert.True(t, readthis.IsAbsoluteURL("http://example/a.html"))
	assert.False(t, readthis.IsAbsoluteURL("example.com"))
	assert.False(t, readthis.IsAbsoluteURL("mailto:someone@example.com"))
	assert.False(t, readthis.IsAbsoluteURL(" https://example.com"))
	assert.False(t, readthis.IsAbsoluteURL("http://exa mple.com"))
}

package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quarry/parser"
	"github.com/roach88/quarry/wire"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func compile(t *testing.T, dsl string) []byte {
	t.Helper()
	q, err := parser.Parse(dsl)
	require.NoError(t, err)
	payload, err := wire.ForQuery(q)
	require.NoError(t, err)
	data, err := wire.MarshalCanonical(payload)
	require.NoError(t, err)
	return data
}

func TestPutGetRoundTrip(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	dsl := `triple($S, "rdf:type", "Person")`
	payload := compile(t, dsl)

	hash, err := c.Put(ctx, "people", dsl, payload)
	require.NoError(t, err)
	assert.Equal(t, wire.PayloadID(payload), hash)

	e, err := c.Get(ctx, "people")
	require.NoError(t, err)
	assert.Equal(t, "people", e.Name)
	assert.Equal(t, dsl, e.DSL)
	assert.Equal(t, hash, e.Hash)
	assert.Equal(t, payload, e.Payload)
}

func TestPutIsIdempotent(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	dsl := `limit(5, triple($S, $P, $O))`
	payload := compile(t, dsl)

	h1, err := c.Put(ctx, "capped", dsl, payload)
	require.NoError(t, err)
	h2, err := c.Put(ctx, "capped", dsl, payload)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	entries, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPutReplacesName(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	first := `triple($S, $P, $O)`
	second := `distinct([$S], triple($S, $P, $O))`

	_, err := c.Put(ctx, "q", first, compile(t, first))
	require.NoError(t, err)
	hash, err := c.Put(ctx, "q", second, compile(t, second))
	require.NoError(t, err)

	e, err := c.Get(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, second, e.DSL)
	assert.Equal(t, hash, e.Hash)
}

func TestSamePayloadUnderTwoNames(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	dsl := `triple($S, $P, $O)`
	payload := compile(t, dsl)

	h1, err := c.Put(ctx, "a", dsl, payload)
	require.NoError(t, err)
	h2, err := c.Put(ctx, "b", dsl, payload)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	entries, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGetMissing(t *testing.T) {
	c := openTestCatalog(t)

	_, err := c.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrder(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	dsl := `triple($S, $P, $O)`
	payload := compile(t, dsl)
	for _, name := range []string{"c", "a", "b"} {
		_, err := c.Put(ctx, name, dsl, payload)
		require.NoError(t, err)
	}

	entries, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].Name)
	assert.Equal(t, "a", entries[1].Name)
	assert.Equal(t, "b", entries[2].Name)
	assert.Nil(t, entries[0].Payload)
}

func TestDelete(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	dsl := `triple($S, $P, $O)`
	_, err := c.Put(ctx, "gone", dsl, compile(t, dsl))
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, "gone"))
	_, err = c.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, c.Delete(ctx, "gone"), ErrNotFound)
}

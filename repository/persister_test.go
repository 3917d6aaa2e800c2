package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercisePersister(t *testing.T, p interfaces.Persister) {
	t.Helper()
	ctx := context.Background()

	data, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, p.Save(ctx, 1, []byte(`{"version":1}`)))
	require.NoError(t, p.Save(ctx, 2, []byte(`{"version":2}`)))

	data, err = p.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2}`, string(data))
}

func TestFilePersister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
	}{
		{name: "plain json", file: "database.json"},
		{name: "zstd compressed", file: "database.json.zst"},
		{name: "nested directory", file: filepath.Join("state", "db.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), tt.file)
			exercisePersister(t, NewFilePersister(path))

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp files must not be left behind")
		})
	}
}

func TestFilePersister_CompressedIsNotPlainJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "database.json.zst")
	require.NoError(t, NewFilePersister(path).Save(context.Background(), 1, []byte(`{"version":1}`)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, byte('{'), raw[0])
}

func TestSQLitePersister(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, err := NewSQLitePersister(ctx, filepath.Join(t.TempDir(), "state.db"), "riobot")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	exercisePersister(t, p)

	// an older version never overwrites a newer one
	require.NoError(t, p.Save(ctx, 1, []byte(`{"version":1}`)))
	data, err := p.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2}`, string(data))
}

func TestPostgresPersister(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	p := NewPostgresPersister(testDB.DB, "riobot")

	exercisePersister(t, p)

	require.NoError(t, p.Save(ctx, 1, []byte(`{"version":1}`)))
	data, err := p.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2}`, string(data))

	var history int
	require.NoError(t, testDB.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM state_document_history WHERE name = 'riobot'`,
	).Scan(&history))
	assert.Equal(t, 2, history)
}

func TestStateStore_RoundTripThroughFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "database.json.zst")

	store, err := NewStateStore(ctx, NewFilePersister(path), nil)
	require.NoError(t, err)
	require.NoError(t, store.Mutate(ctx, []entities.Key{entities.UserKey(42)}, func(tx interfaces.StateTx) error {
		u := tx.User(42)
		if err := u.AddCurrency(250); err != nil {
			return err
		}
		tx.PutUser(u)
		return nil
	}))
	require.NoError(t, store.Close(ctx))

	reopened, err := NewStateStore(ctx, NewFilePersister(path), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(250), balanceOf(t, reopened, 42))
}

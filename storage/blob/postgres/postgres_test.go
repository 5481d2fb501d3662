package pgblob

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/aula/core"
)

// openTestStore connects to TEST_POSTGRES_DSN, skipping when it is unset.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" || testing.Short() {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	s, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	key := "test." + uuid.New().String()
	defer s.Delete(ctx, key)

	tests := []struct {
		name    string
		put     string // empty: delete instead
		want    string
		wantErr error
	}{
		{name: "missing key", wantErr: core.ErrBlobNotFound},
		{name: "insert", put: `[{"id":1}]`, want: `[{"id":1}]`},
		{name: "upsert replaces the whole document", put: `[{"id":1},{"id":2}]`, want: `[{"id":1},{"id":2}]`},
		{name: "delete", wantErr: core.ErrBlobNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.put != "" {
				require.NoError(t, s.Put(ctx, key, []byte(tt.put)))
			} else {
				require.NoError(t, s.Delete(ctx, key))
			}

			got, err := s.Get(ctx, key)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestOpen_schemaIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	again, err := Open(context.Background(), os.Getenv("TEST_POSTGRES_DSN"))
	require.NoError(t, err)
	assert.NoError(t, again.Close())
	assert.NotNil(t, s.db)
}

package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/formwork/internal/adapters/file"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.DraftStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunDraftStoreContract(t, file.NewStore(t.TempDir()))
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()

	draft := domain.NewDraft("s1", "signup")
	draft.Values["age"] = 42
	require.NoError(t, store.Save(ctx, draft))

	assert.FileExists(t, filepath.Join(dir, "signup", "s1.json"))

	loaded, err := store.Load(ctx, "signup", "s1")
	require.NoError(t, err)
	assert.Equal(t, float64(42), loaded.Values["age"], "JSON numbers decode as float64")

	entries, err := os.ReadDir(filepath.Join(dir, "signup"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestFileStore_RejectsUnsafeKeys(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, domain.NewDraft("../escape", "signup")))
	assert.Error(t, store.Save(ctx, domain.NewDraft("s1", "")))
	_, err := store.Load(ctx, "..", "s1")
	assert.Error(t, err)
}

func TestFileStore_ListMissingForm(t *testing.T) {
	sessions, err := file.NewStore(t.TempDir()).List(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

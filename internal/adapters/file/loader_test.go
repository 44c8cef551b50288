package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/formwork/internal/adapters/file"
	"github.com/aretw0/formwork/internal/testutils"
	"github.com/aretw0/formwork/pkg/ports"
	contract "github.com/aretw0/formwork/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ContentLoader = (*file.Loader)(nil)

func TestFileLoader_Contract(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"signup.yaml": "controls:\n  - id: name\n    type: text\n  - id: age\n    type: number\n",
		"contact.json": `[{"id": "email", "type": "email"}]`,
		"README.md":    "ignored",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755))

	contract.ContentLoaderContractTest(t, file.NewLoader(dir), map[string][]string{
		"signup":  {"name", "age"},
		"contact": {"email"},
	})
}

func TestFileLoader_Collision(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"signup.yaml": "[]",
		"signup.json": "[]",
	})

	_, err := file.NewLoader(dir).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision")
}

func TestFileLoader_ParseError(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{"broken.json": "{"})

	_, err := file.NewLoader(dir).Load(context.Background(), "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "form broken")
}

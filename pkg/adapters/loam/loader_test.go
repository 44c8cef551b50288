package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"

	"github.com/aretw0/formwork/internal/testutils"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/aretw0/formwork/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.ContentLoader = (*Loader)(nil)
	_ ports.Watchable     = (*Loader)(nil)
)

func seed(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	_, repo := testutils.SetupFormRepo(t, files)
	return New(loam.NewTypedRepository[FormMetadata](repo))
}

func TestLoader_Contract(t *testing.T) {
	loader := seed(t, map[string]string{
		"signup.md": `---
id: signup
title: Sign up
controls:
  - id: name
    type: text
  - id: newsletter
    type: checkbox
---
Collects the basics.`,
		"contact.json": `{
  "id": "contact",
  "controls": [{"id": "email", "type": "email"}]
}`,
	})

	tests.ContentLoaderContractTest(t, loader, map[string][]string{
		"signup":  {"name", "newsletter"},
		"contact": {"email"},
	})
}

func TestLoader_DecodesNodes(t *testing.T) {
	loader := seed(t, map[string]string{
		"signup.md": `---
controls:
  - id: address
    hide: value.newsletter != true
    hideStrategy: remove
    controls:
      - id: city
        type: text
        validators: [required]
---`,
	})

	content, err := loader.Load(context.Background(), "signup")
	require.NoError(t, err)
	require.Len(t, content, 1)

	g, ok := content[0].(*domain.Group)
	require.True(t, ok)
	assert.Equal(t, domain.HideRemove, g.HideStrategy)
	require.Len(t, g.Controls, 1)
	assert.Equal(t, []string{"required"}, g.Controls[0].Common().Validators)

	title, err := loader.Title(context.Background(), "signup")
	require.NoError(t, err)
	assert.Empty(t, title)
}

func TestLoader_List_NormalizesIDs(t *testing.T) {
	loader := seed(t, map[string]string{
		"start.md": `---
id: start.md
---
Hello`,
		"choice.json": `{"id": "choice.json"}`,
		"implicit.md": `---
title: implicit
---
ID is implied from filename`,
	})

	ids, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"choice", "implicit", "start"}, ids)
}

func TestLoader_List_DetectsCollisions(t *testing.T) {
	loader := seed(t, map[string]string{
		"foo.md": `---
id: foo
---
Explicit ID`,
		"foo.json": `{"id": "foo"}`,
	})

	_, err := loader.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "foo")
}

func TestLoader_Fragments(t *testing.T) {
	loader := seed(t, map[string]string{
		"checkout.md": `---
controls:
  - id: email
    type: email
  - address
  - id: notes
    type: textarea
---`,
		"address.md": `---
controls:
  - id: street
    type: text
  - id: city
    type: text
---`,
	})

	content, err := loader.Load(context.Background(), "checkout")
	require.NoError(t, err)

	var ids []string
	for _, c := range content {
		ids = append(ids, c.Common().ID)
	}
	assert.Equal(t, []string{"email", "street", "city", "notes"}, ids)
}

func TestLoader_FragmentCycle(t *testing.T) {
	loader := seed(t, map[string]string{
		"a.md": "---\ncontrols:\n  - b\n---",
		"b.md": "---\ncontrols:\n  - a\n---",
	})

	_, err := loader.Load(context.Background(), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected")
}

package validators_test

import (
	"strings"
	"testing"

	"github.com/aretw0/formwork/pkg/model"
	"github.com/aretw0/formwork/pkg/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func letter(v any) model.Errors {
	s, _ := v.(string)
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		return nil
	}
	return model.Errors{"letter": true}
}

func TestResolve_CompositeKeysFlattenInOrder(t *testing.T) {
	r := validators.NewSync()
	r.RegisterFn("min-chars", validators.MinLength(3))
	r.RegisterFn("letter", letter)
	r.Register("combined",
		validators.Ref[model.ValidatorFn]("min-chars"),
		validators.Fn[model.ValidatorFn](validators.Required),
		validators.Ref[model.ValidatorFn]("letter"),
	)

	fns := r.Resolve("combined")
	require.Len(t, fns, 3)

	assert.NotNil(t, fns[0]("ab")["minlength"], "first entry comes from min-chars")
	assert.Equal(t, model.Errors{"required": true}, fns[1](""))
	assert.Equal(t, model.Errors{"letter": true}, fns[2]("123"))
}

func TestResolve_UnknownKeysContributeNothing(t *testing.T) {
	r := validators.NewSync()
	r.RegisterFn("required", validators.Required)
	r.Register("broken", validators.Ref[model.ValidatorFn]("nowhere"))

	assert.Empty(t, r.Resolve("missing"))
	assert.Empty(t, r.Resolve("broken"))
	assert.Len(t, r.Resolve("missing", "required"), 1)

	var nilRegistry *validators.Sync
	assert.Empty(t, nilRegistry.Resolve("required"))
}

func TestResolve_CyclesAreCut(t *testing.T) {
	r := validators.NewSync()
	r.Register("a", validators.Fn[model.ValidatorFn](validators.Required), validators.Ref[model.ValidatorFn]("b"))
	r.Register("b", validators.Ref[model.ValidatorFn]("a"), validators.Fn[model.ValidatorFn](validators.Email))

	assert.Len(t, r.Resolve("a"), 2)
}

func TestResolve_SameKeyTwiceIsAllowed(t *testing.T) {
	r := validators.NewSync()
	r.RegisterFn("required", validators.Required)
	r.Register("twice", validators.Ref[model.ValidatorFn]("required"), validators.Ref[model.ValidatorFn]("required"))

	assert.Len(t, r.Resolve("twice"), 2)
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name  string
		fn    model.ValidatorFn
		value any
		fails bool
	}{
		{"required nil", validators.Required, nil, true},
		{"required empty string", validators.Required, "", true},
		{"required empty slice", validators.Required, []any{}, true},
		{"required false is a value", validators.Required, false, false},
		{"requiredTrue false", validators.RequiredTrue, false, true},
		{"requiredTrue true", validators.RequiredTrue, true, false},
		{"email ok", validators.Email, "dev@example.com", false},
		{"email bad", validators.Email, "not-an-email", true},
		{"email empty", validators.Email, "", false},
		{"minLength short", validators.MinLength(3), "ab", true},
		{"minLength empty passes", validators.MinLength(3), "", false},
		{"minLength runes", validators.MinLength(3), "ção", false},
		{"maxLength long", validators.MaxLength(2), "abc", true},
		{"min below", validators.Min(5), 4, true},
		{"min string number", validators.Min(5), "6", false},
		{"max above", validators.Max(5), 5.5, true},
		{"pattern match", validators.Pattern(`[0-9]+`), "123", false},
		{"pattern partial", validators.Pattern(`[0-9]+`), "123a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.fn(tt.value)
			if tt.fails {
				assert.NotNil(t, errs)
			} else {
				assert.Nil(t, errs)
			}
		})
	}
}

func TestStandard(t *testing.T) {
	r := validators.Standard()
	assert.Equal(t, []string{"email", "required", "requiredTrue"}, r.Keys())
}

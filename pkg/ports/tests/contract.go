// Package tests holds reusable contract suites for ports implementations.
package tests

import (
	"context"
	"testing"

	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SourceCase is one input fed to RunSourceContract.
type SourceCase struct {
	Input ports.Input
	// Valid inputs must parse; invalid ones must be handled but fail with an error.
	Valid bool
}

// RunSourceContract runs a suite of tests to verify that a Source implementation
// adheres to the defined interface contract.
// check is called with every successfully parsed value.
func RunSourceContract[T any](t *testing.T, src ports.Source[T], cases []SourceCase, check func(t *testing.T, v T)) {
	t.Helper()
	ctx := context.Background()

	t.Run("Name", func(t *testing.T) {
		assert.NotEmpty(t, src.Name(), "Name should identify the format")
	})

	for _, tc := range cases {
		tc := tc
		t.Run(tc.Input.Label(), func(t *testing.T) {
			require.True(t, src.CanHandle(tc.Input), "CanHandle should accept %s", tc.Input.Label())

			v, err := src.Parse(ctx, tc.Input)
			if !tc.Valid {
				assert.Error(t, err, "Parse should fail on invalid input")
				return
			}
			require.NoError(t, err)
			if check != nil {
				check(t, v)
			}
		})
	}

	t.Run("Rejects unrelated input", func(t *testing.T) {
		assert.False(t, src.CanHandle(ports.Input{Name: "notes.txt", Data: []byte("hello")}))
	})
}

// StyleRuleNames is a check helper that asserts the rule names of a parsed style.
func StyleRuleNames(names ...string) func(t *testing.T, doc domain.StyleDocument) {
	return func(t *testing.T, doc domain.StyleDocument) {
		got := make([]string, 0, len(doc.Rules))
		for _, r := range doc.Rules {
			got = append(got, r.Name)
		}
		assert.Equal(t, names, got)
	}
}

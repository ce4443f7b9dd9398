package expr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipegen/pipegen/internal/ir"
)

func leaf(name string) *ir.Resource {
	return &ir.Resource{Name: name, Kind: ir.KindUnknown}
}

func TestParseSequence(t *testing.T) {
	t.Run("sequence with embedded concurrent group", func(t *testing.T) {
		got, err := Parse("A → B ⇄ C → D")
		require.NoError(t, err)

		want := &ir.Sequence{Children: []ir.Node{
			leaf("A"),
			&ir.Concurrent{Children: []ir.Node{leaf("B"), leaf("C")}},
			leaf("D"),
		}}
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("repeated arrows produce one flat sequence", func(t *testing.T) {
		got, err := Parse("A → B → C")
		require.NoError(t, err)

		want := &ir.Sequence{Children: []ir.Node{leaf("A"), leaf("B"), leaf("C")}}
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("parenthesized sequences nest inside a concurrent group", func(t *testing.T) {
		got, err := Parse("(A → B) ⇄ (C → D)")
		require.NoError(t, err)

		want := &ir.Concurrent{Children: []ir.Node{
			&ir.Sequence{Children: []ir.Node{leaf("A"), leaf("B")}},
			&ir.Sequence{Children: []ir.Node{leaf("C"), leaf("D")}},
		}}
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("parenthesized sequence flattens into outer sequence", func(t *testing.T) {
		got, err := Parse("A → (B → C) → D")
		require.NoError(t, err)

		seq, ok := got.(*ir.Sequence)
		require.True(t, ok)
		assert.Len(t, seq.Children, 4)
	})

	t.Run("single name collapses to a leaf", func(t *testing.T) {
		got, err := Parse("OnlyOne")
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(leaf("OnlyOne"), got))
	})
}

func TestParseConcurrent(t *testing.T) {
	t.Run("repeated parallel operators produce one flat group", func(t *testing.T) {
		got, err := Parse("A ⇄ B ⇄ C")
		require.NoError(t, err)

		want := &ir.Concurrent{Children: []ir.Node{leaf("A"), leaf("B"), leaf("C")}}
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("parallel binds tighter than sequence", func(t *testing.T) {
		got, err := Parse("A ⇄ B → C")
		require.NoError(t, err)

		seq, ok := got.(*ir.Sequence)
		require.True(t, ok)
		require.Len(t, seq.Children, 2)
		assert.IsType(t, &ir.Concurrent{}, seq.Children[0])
	})
}

func TestParseBranch(t *testing.T) {
	t.Run("both branches", func(t *testing.T) {
		got, err := Parse("X →? (A, B)")
		require.NoError(t, err)

		want := &ir.Branch{Condition: "X", True: leaf("A"), False: leaf("B")}
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("false branch absent", func(t *testing.T) {
		got, err := Parse("X →? (A)")
		require.NoError(t, err)

		want := &ir.Branch{Condition: "X", True: leaf("A")}
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("branch arms may hold full expressions", func(t *testing.T) {
		got, err := Parse("X →? (A → B, C ⇄ D)")
		require.NoError(t, err)

		br, ok := got.(*ir.Branch)
		require.True(t, ok)
		assert.IsType(t, &ir.Sequence{}, br.True)
		assert.IsType(t, &ir.Concurrent{}, br.False)
	})

	t.Run("branch inside a sequence", func(t *testing.T) {
		got, err := Parse("Start → X →? (A, B) → End")
		require.NoError(t, err)

		seq, ok := got.(*ir.Sequence)
		require.True(t, ok)
		require.Len(t, seq.Children, 3)
		assert.IsType(t, &ir.Branch{}, seq.Children[1])
	})

	t.Run("left side must be a plain resource", func(t *testing.T) {
		_, err := Parse("(A → B) →? (C)")
		require.Error(t, err)
		assert.ErrorContains(t, err, "condition name before →?")

		_, err = Parse("A ⇄ B →? (C)")
		require.Error(t, err)
		assert.ErrorContains(t, err, "condition name before →?")
	})

	t.Run("malformed conditional reports the operator position", func(t *testing.T) {
		// Rune offsets: "(A → B) →? (C)" puts →? at offset 8.
		_, err := Parse("(A → B) →? (C)")
		require.Error(t, err)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 8, parseErr.Offset)
	})
}

func TestParseErrors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		for _, src := range []string{"", "   ", "\t\n"} {
			_, err := Parse(src)
			require.Error(t, err)
			assert.ErrorContains(t, err, "empty expression")
		}
	})

	t.Run("trailing operator", func(t *testing.T) {
		_, err := Parse("A →")
		require.Error(t, err)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.GreaterOrEqual(t, parseErr.Offset, 0)
	})

	t.Run("unmatched paren", func(t *testing.T) {
		_, err := Parse("(A → B")
		require.Error(t, err)
		assert.ErrorContains(t, err, "expected RPAREN")
	})

	t.Run("trailing tokens after expression", func(t *testing.T) {
		_, err := Parse("A → B)")
		require.Error(t, err)
		assert.ErrorContains(t, err, "unexpected token RPAREN")
	})

	t.Run("invalid character propagates from the lexer", func(t *testing.T) {
		_, err := Parse("A + B")
		require.Error(t, err)

		var lexErr *LexError
		assert.ErrorAs(t, err, &lexErr)
	})

	t.Run("missing paren after conditional", func(t *testing.T) {
		_, err := Parse("X →? A")
		require.Error(t, err)
		assert.ErrorContains(t, err, "expected LPAREN")
	})
}

package main

import (
	"go/format"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpcpool/hashio/recordgen"
)

func TestRenderProducesValidGoSource(t *testing.T) {
	schema := recordgen.Schema{
		Package: "widget",
		Name:    "Widget",
		Primitives: []recordgen.PrimitiveField{
			{Name: "Count", Kind: "u32"},
		},
		Children: []recordgen.ChildField{
			{Name: "Label", GoType: "collections.Str"},
		},
	}

	src, err := render(schema)
	require.NoError(t, err)
	require.Contains(t, string(src), "type Widget struct")

	_, err = format.Source(src)
	require.NoError(t, err)
}

func TestValidateRejectsUnknownPrimitiveKind(t *testing.T) {
	schema := recordgen.Schema{
		Package:    "widget",
		Name:       "Widget",
		Primitives: []recordgen.PrimitiveField{{Name: "Count", Kind: "nonsense"}},
	}
	err := validate(schema)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "unknown primitive kind"))
}

func TestValidateRequiresPackageAndName(t *testing.T) {
	require.Error(t, validate(recordgen.Schema{Name: "X"}))
	require.Error(t, validate(recordgen.Schema{Package: "p"}))
}

package maincmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/jpamb/internal/jvm"
)

func TestParseTargetWithDescriptor(t *testing.T) {
	m, err := parseTarget("Simple.divideByN:(II)I")
	require.NoError(t, err)
	assert.Equal(t, jvm.MethodId{Class: "Simple", Name: "divideByN", Descriptor: "(II)I"}, m)
}

func TestParseTargetWithoutDescriptorDefaultsToNoArgVoid(t *testing.T) {
	m, err := parseTarget("Simple.alwaysAsserts")
	require.NoError(t, err)
	assert.Equal(t, jvm.MethodId{Class: "Simple", Name: "alwaysAsserts", Descriptor: "()V"}, m)
}

func TestParseTargetQualifiedPackageBecomesSlashedClass(t *testing.T) {
	m, err := parseTarget("pkg.sub.Simple.arrayAt:([II)I")
	require.NoError(t, err)
	assert.Equal(t, jvm.MethodId{Class: "pkg/sub/Simple", Name: "arrayAt", Descriptor: "([II)I"}, m)
}

func TestParseTargetMissingDotIsError(t *testing.T) {
	_, err := parseTarget("divideByN")
	assert.Error(t, err)
}

func TestParseTargetBadDescriptorIsError(t *testing.T) {
	_, err := parseTarget("Simple.divideByN:(II")
	assert.Error(t, err)
}

package maincmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/jpamb/internal/jvm"
	"github.com/mna/jpamb/internal/provider"
)

func TestValidateRequiresATarget(t *testing.T) {
	c := &Cmd{}
	c.SetArgs(nil)
	assert.Error(t, c.Validate())
}

func TestValidateAcceptsWellFormedTarget(t *testing.T) {
	c := &Cmd{}
	c.SetArgs([]string{"Simple.divideByN:(II)I"})
	assert.NoError(t, c.Validate())
}

func TestValidateRejectsExtraArgs(t *testing.T) {
	c := &Cmd{}
	c.SetArgs([]string{"Simple.divideByN:(II)I", "extra"})
	assert.Error(t, c.Validate())
}

func TestValidateSkipsTargetCheckForInfoHelpVersion(t *testing.T) {
	assert.NoError(t, (&Cmd{Info: true}).Validate())
	assert.NoError(t, (&Cmd{Help: true}).Validate())
	assert.NoError(t, (&Cmd{Version: true}).Validate())
}

func TestValidateRejectsUnknownStrategy(t *testing.T) {
	c := &Cmd{Strategy: "priority"}
	c.SetArgs([]string{"Simple.divideByN:(II)I"})
	assert.Error(t, c.Validate())
}

func TestAnalyzeFailsWithoutProvider(t *testing.T) {
	c := &Cmd{}
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
	err := c.Analyze(context.Background(), stdio, []string{"Simple.divideByN:(II)I"})
	require.Error(t, err)
}

func TestAnalyzeRunsSymbolicEngineAndPrintsScorerLines(t *testing.T) {
	m := jvm.MethodId{Class: "Simple", Name: "divideByN", Descriptor: "(II)I"}
	ops := []jvm.Opcode{
		jvm.Load{Kind: jvm.KindInt, Index: 0},
		jvm.Load{Kind: jvm.KindInt, Index: 1},
		jvm.Binary{Kind: jvm.KindInt, Op: jvm.Div},
		jvm.Return{Kind: jvm.KindInt, HasValue: true},
	}
	c := &Cmd{Provider: provider.NewStatic(map[jvm.MethodId][]jvm.Opcode{m: ops})}

	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
	err := c.Analyze(context.Background(), stdio, []string{"Simple.divideByN:(II)I"})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "ok;100%")
	assert.Contains(t, out.String(), "divide by zero;100%")
	assert.Contains(t, out.String(), "assertion error;0%")
}

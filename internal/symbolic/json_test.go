package symbolic

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/jpamb/internal/interp"
	"github.com/mna/jpamb/internal/jvm"
)

func sampleFindings() []Finding {
	m := divideByNMethod()
	return []Finding{
		{
			Label: interp.DivideByZero,
			PC:    jvm.PC{Method: m, Offset: 2},
			Path:  PathConstraint{Constraints: []SymExpr{Bin("==", Free("arg1"), Const(0))}},
			Model: map[string]int{"arg1": 0},
		},
		{
			Label: interp.Ok,
			PC:    jvm.PC{Method: m, Offset: 3},
			Path:  PathConstraint{Constraints: []SymExpr{NewNot(Bin("==", Free("arg1"), Const(0)))}},
		},
	}
}

func TestWriteJSONFramesOutputAndEncodesExpressions(t *testing.T) {
	var buf bytes.Buffer
	m := divideByNMethod()
	require.NoError(t, WriteJSON(&buf, m, sampleFindings()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "SE_JSON_BEGIN", lines[0])
	assert.Equal(t, "SE_JSON_END", lines[2])

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &report))
	assert.Equal(t, m.String(), report.Method)
	require.Len(t, report.Findings, 2)

	first := report.Findings[0]
	assert.Equal(t, interp.DivideByZero, first.Kind)
	assert.True(t, first.State.Terminated)
	assert.Equal(t, interp.DivideByZero, first.State.Error)
	assert.Equal(t, 0, first.State.Inputs["arg1"])
	require.Len(t, first.State.Path, 1)

	var constraint map[string]any
	require.NoError(t, json.Unmarshal(first.State.Path[0], &constraint))
	assert.Equal(t, "binop", constraint["kind"])
	assert.Equal(t, "==", constraint["op"])
}

func TestEmitJSONNoOpWithoutEnvVar(t *testing.T) {
	t.Setenv("JPAMB_SE_JSON", "0")
	var buf bytes.Buffer
	require.NoError(t, EmitJSON(&buf, divideByNMethod(), sampleFindings()))
	assert.Empty(t, buf.String())
}

func TestEmitJSONWritesWhenEnvVarSet(t *testing.T) {
	t.Setenv("JPAMB_SE_JSON", "1")
	var buf bytes.Buffer
	require.NoError(t, EmitJSON(&buf, divideByNMethod(), sampleFindings()))
	assert.Contains(t, buf.String(), "SE_JSON_BEGIN")
	assert.Contains(t, buf.String(), "SE_JSON_END")
}

func TestEncodeExprRendersNotAndArrayElem(t *testing.T) {
	expr := NewNot(Bin("<", SymArrayElem{Array: "arg0_arr", Index: Free("i")}, Const(0)))
	encoded := encodeExpr(expr)
	assert.Equal(t, "not", encoded["kind"])

	inner := encoded["expr"].(map[string]any)
	assert.Equal(t, "binop", inner["kind"])
	lhs := inner["lhs"].(map[string]any)
	assert.Equal(t, "arrayelem", lhs["kind"])
	assert.Equal(t, "arg0_arr", lhs["array"])
}

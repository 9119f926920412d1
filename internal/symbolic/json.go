package symbolic

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mna/jpamb/internal/jvm"
)

// jsonEnvVar gates EmitJSON exactly as spec.md §6's "Optional JSON
// export" describes.
const jsonEnvVar = "JPAMB_SE_JSON"

type jsonReport struct {
	Method   string        `json:"method"`
	Findings []jsonFinding `json:"findings"`
}

type jsonFinding struct {
	Kind  string    `json:"kind"`
	State jsonState `json:"state"`
}

type jsonState struct {
	PC         jsonPC            `json:"pc"`
	Path       []json.RawMessage `json:"path"`
	Inputs     map[string]int    `json:"inputs"`
	Terminated bool              `json:"terminated"`
	Error      string            `json:"error"`
}

type jsonPC struct {
	Method string `json:"method"`
	Offset int    `json:"offset"`
}

// EmitJSON writes findings for method to w, framed between
// SE_JSON_BEGIN/SE_JSON_END lines, only when the JPAMB_SE_JSON=1
// environment variable is set; otherwise it does nothing.
func EmitJSON(w io.Writer, method jvm.MethodId, findings []Finding) error {
	if os.Getenv(jsonEnvVar) != "1" {
		return nil
	}
	return WriteJSON(w, method, findings)
}

// WriteJSON always writes the framed report, independent of the
// environment variable; EmitJSON is the gated entry point callers use.
func WriteJSON(w io.Writer, method jvm.MethodId, findings []Finding) error {
	report := jsonReport{Method: method.String(), Findings: make([]jsonFinding, len(findings))}
	for i, f := range findings {
		path := make([]json.RawMessage, len(f.Path.Constraints))
		for j, c := range f.Path.Constraints {
			raw, err := json.Marshal(encodeExpr(c))
			if err != nil {
				return fmt.Errorf("symbolic: encoding path constraint %d: %w", j, err)
			}
			path[j] = raw
		}
		report.Findings[i] = jsonFinding{
			Kind: f.Label,
			State: jsonState{
				PC:         jsonPC{Method: f.PC.Method.String(), Offset: f.PC.Offset},
				Path:       path,
				Inputs:     f.Model,
				Terminated: true,
				Error:      f.Label,
			},
		}
	}

	if _, err := fmt.Fprintln(w, "SE_JSON_BEGIN"); err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(report); err != nil {
		return fmt.Errorf("symbolic: encoding report: %w", err)
	}
	_, err := fmt.Fprintln(w, "SE_JSON_END")
	return err
}

// encodeExpr renders e into the tagged scheme spec.md §6 mandates:
// SymInt → {kind:symint,name,concrete}, BinaryOp → {kind:binop,op,lhs,
// rhs}, SymArrayRef → {kind:arrayref,name}, SymArrayElem →
// {kind:arrayelem,array,index}. Not is an addition beyond that list —
// this package's path constraints use it for negated branches, so it
// gets the same treatment: {kind:not,expr}.
func encodeExpr(e SymExpr) map[string]any {
	switch v := e.(type) {
	case SymInt:
		m := map[string]any{"kind": "symint"}
		if v.Name != "" {
			m["name"] = v.Name
		}
		if v.Concrete != nil {
			m["concrete"] = *v.Concrete
		}
		return m
	case BinaryOp:
		return map[string]any{
			"kind": "binop",
			"op":   v.Op,
			"lhs":  encodeExpr(v.LHS),
			"rhs":  encodeExpr(v.RHS),
		}
	case Not:
		return map[string]any{"kind": "not", "expr": encodeExpr(v.Expr)}
	case SymArrayRef:
		return map[string]any{"kind": "arrayref", "name": v.Name}
	case SymArrayElem:
		return map[string]any{
			"kind":  "arrayelem",
			"array": v.Array,
			"index": encodeExpr(v.Index),
		}
	default:
		return map[string]any{"kind": "unknown"}
	}
}

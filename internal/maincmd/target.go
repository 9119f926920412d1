package maincmd

import (
	"fmt"
	"strings"

	"github.com/mna/jpamb/internal/jvm"
)

// parseTarget parses a JPAMB-style qualname "pkg.Class.method[:descriptor]"
// into a jvm.MethodId, matching the original tool's target grammar. A
// missing descriptor defaults to "()V" (a no-argument, void method).
func parseTarget(target string) (jvm.MethodId, error) {
	methodPart := target
	descriptor := "()V"
	if idx := strings.Index(target, ":"); idx >= 0 {
		methodPart = target[:idx]
		descriptor = target[idx+1:]
	}

	idx := strings.LastIndex(methodPart, ".")
	if idx < 0 {
		return jvm.MethodId{}, fmt.Errorf("target %q must be of the form pkg.Class.method[:descriptor]", target)
	}
	class := strings.ReplaceAll(methodPart[:idx], ".", "/")
	method := methodPart[idx+1:]
	if class == "" || method == "" {
		return jvm.MethodId{}, fmt.Errorf("target %q must be of the form pkg.Class.method[:descriptor]", target)
	}
	if _, err := jvm.ParseDescriptor(descriptor); err != nil {
		return jvm.MethodId{}, fmt.Errorf("target %q has invalid descriptor: %w", target, err)
	}
	return jvm.MethodId{Class: class, Name: method, Descriptor: descriptor}, nil
}

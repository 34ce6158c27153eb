package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/bendchain/pkg/errors"
)

func TestReport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"canceled", fmt.Errorf("render: %w", context.Canceled), exitCanceled},
		{"node not found", errors.New(errors.ErrCodeNodeNotFound, "unknown node %q", "x"), exitInput},
		{"wrapped domain", fmt.Errorf("solve B: %w", &errors.DomainError{Param: "length", Value: 0}), exitInput},
		{"cycle", errors.New(errors.ErrCodeCycle, "A follows itself"), exitInput},
		{"internal", errors.New(errors.ErrCodeInternal, "boom"), exitError},
		{"plain", fmt.Errorf("write out.svg: permission denied"), exitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := report(tt.err); got != tt.want {
				t.Errorf("report() = %d, want %d", got, tt.want)
			}
		})
	}
}

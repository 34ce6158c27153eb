package cli

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/bendchain/pkg/errors"
)

// captureStdout redirects command output to a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func TestPrintStatus(t *testing.T) {
	tests := []struct {
		name  string
		print func(string, ...any)
		icon  string
	}{
		{"success", printSuccess, "✓"},
		{"error", printError, "✗"},
		{"warning", printWarning, "!"},
		{"info", printInfo, "›"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureStdout(t)
			tt.print("placed %d nodes", 3)
			got := buf.String()
			if !strings.Contains(got, tt.icon) || !strings.Contains(got, "placed 3 nodes") {
				t.Errorf("output = %q", got)
			}
		})
	}
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		nodes, placed int
		cached        bool
		want          []string
	}{
		{3, 2, false, []string{"3 nodes", "2 placed", "fresh"}},
		{3, 0, true, []string{"3 nodes", "cached"}},
	}
	for _, tt := range tests {
		buf := captureStdout(t)
		printStats(tt.nodes, tt.placed, tt.cached)
		for _, w := range tt.want {
			if !strings.Contains(buf.String(), w) {
				t.Errorf("printStats(%d, %d, %v) = %q, missing %q", tt.nodes, tt.placed, tt.cached, buf.String(), w)
			}
		}
	}
}

func TestRunSolveJSON(t *testing.T) {
	buf := captureStdout(t)
	err := testCLI().runSolve(solveOpts{
		length:       2,
		predLength:   2 * math.Pi,
		predStrength: 180,
		predPos:      []float64{0, 0, 0},
		predHPB:      []float64{0, 0, 0},
		asJSON:       true,
	})
	if err != nil {
		t.Fatalf("runSolve() error: %v", err)
	}

	var out solveOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf)
	}
	if !out.Curved {
		t.Error("curved = false for a 180° predecessor")
	}
	if math.Abs(out.Position[0]-4) > 1e-9 || math.Abs(out.Position[1]+math.Pi+1) > 1e-9 {
		t.Errorf("position = %v, want (4, -π-1, 0)", out.Position)
	}
}

func TestRunSolveText(t *testing.T) {
	buf := captureStdout(t)
	err := testCLI().runSolve(solveOpts{
		length:     4,
		predLength: 4,
		offset:     1,
		predPos:    []float64{0, 0, 0},
		predHPB:    []float64{0, 0, 0},
	})
	if err != nil {
		t.Fatalf("runSolve() error: %v", err)
	}
	for _, want := range []string{"position", "(0, 5, 0)", "straight"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf)
		}
	}
}

func TestRunSolveErrors(t *testing.T) {
	tests := []struct {
		name string
		opts solveOpts
		code errors.Code
	}{
		{"short position", solveOpts{length: 1, predLength: 1, predPos: []float64{0, 0}, predHPB: []float64{0, 0, 0}}, errors.ErrCodeInvalidInput},
		{"zero predecessor", solveOpts{length: 1, predLength: 0, predPos: []float64{0, 0, 0}, predHPB: []float64{0, 0, 0}}, errors.ErrCodeDomain},
		{"nan predecessor", solveOpts{length: 1, predLength: math.NaN(), predPos: []float64{0, 0, 0}, predHPB: []float64{0, 0, 0}}, errors.ErrCodeInvalidInput},
		{"infinite offset", solveOpts{length: 1, predLength: 1, offset: math.Inf(1), predPos: []float64{0, 0, 0}, predHPB: []float64{0, 0, 0}}, errors.ErrCodeInvalidInput},
		{"nan position", solveOpts{length: 1, predLength: 1, predPos: []float64{0, math.NaN(), 0}, predHPB: []float64{0, 0, 0}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureStdout(t)
			if err := testCLI().runSolve(tt.opts); !errors.Is(err, tt.code) {
				t.Errorf("runSolve() error = %v, want %s", err, tt.code)
			}
		})
	}
}

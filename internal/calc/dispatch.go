// internal/calc/dispatch.go
package calc

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/abaxtools/abax/internal/util"
)

// Request is one tool invocation: an operation name plus a mapping from
// parameter name to argument value.
type Request struct {
	Operation string
	Arguments map[string]any
}

// Result carries either the numeric value of a successful invocation or the
// typed error describing why it failed.
type Result struct {
	Value float64
	Err   error
}

// Dispatch looks up the operation, validates every argument in declared order
// (short-circuiting on the first failure), and applies the arithmetic. Each
// call is independent; the registry is never mutated.
func (r *Registry) Dispatch(name string, args map[string]any) (float64, error) {
	op, ok := r.Lookup(name)
	if !ok {
		return 0, newError(KindUnknownOperation, "unknown operation %q", name)
	}

	vals := make([]float64, len(op.Params))
	for i, p := range op.Params {
		raw, present := args[p.Name]
		if !present {
			return 0, newError(KindMissingParameter, "missing required parameter %q for operation %q", p.Name, op.Name)
		}
		v, err := ValidateNumber(raw, p.Name, p.Bounds)
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}

	return op.apply(vals)
}

// Recorder receives the per-call log line emitted by a Session. *log.Logger
// satisfies it; tests can substitute their own.
type Recorder interface {
	Printf(format string, args ...any)
}

// Session is the boundary-facing invocation loop: it delegates to Dispatch
// and records one structured entry per call. It holds no cross-call state.
type Session struct {
	registry *Registry
	rec      Recorder
}

// NewSession wraps a registry with an explicit log handle. rec may be nil to
// disable recording; dispatch still completes.
func NewSession(registry *Registry, rec Recorder) *Session {
	return &Session{registry: registry, rec: rec}
}

// Handle dispatches one request and returns its result. All failures come
// back as typed error values; bad input never panics the hosting process.
func (s *Session) Handle(req Request) Result {
	start := time.Now()
	value, err := s.registry.Dispatch(req.Operation, req.Arguments)
	elapsed := time.Since(start)

	if s.rec != nil {
		outcome := "ok"
		if err != nil {
			outcome = string(KindOf(err))
			if outcome == "" {
				outcome = "error"
			}
		}
		s.rec.Printf("invocation: op=%s args=%s outcome=%s elapsed=%s",
			req.Operation, summarizeArgs(req.Arguments), outcome, elapsed.Round(time.Microsecond))
	}

	if err != nil {
		return Result{Err: err}
	}
	return Result{Value: value}
}

// FormatValue renders a result for display: exact integers within the safely
// representable range print without a decimal point.
func FormatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func summarizeArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	data, err := json.Marshal(args)
	if err != nil {
		return util.TruncateRunes(fmt.Sprintf("%v", args), 120)
	}
	return util.TruncateRunes(string(data), 120)
}

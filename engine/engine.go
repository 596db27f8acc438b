package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Konsultn-Engineering/edgesql/connector"
	"github.com/Konsultn-Engineering/edgesql/logging"
	"github.com/Konsultn-Engineering/edgesql/query"
	"github.com/Konsultn-Engineering/edgesql/result"
)

// Query is a compiled command bound to a provider. It is built once and
// never modified, so Run may be called from any number of goroutines.
type Query struct {
	Command  query.Command
	Policy   query.Policy
	Dialect  string
	Provider connector.Provider
	Conn     connector.Config
	// Timeout bounds execution and materialization. Zero leaves it to the
	// driver.
	Timeout time.Duration
	Logger  *slog.Logger
}

// New returns a Query. A nil logger discards output.
func New(cmd query.Command, policy query.Policy, dialect string, provider connector.Provider, conn connector.Config, timeout time.Duration, log *slog.Logger) *Query {
	return &Query{
		Command:  cmd,
		Policy:   policy,
		Dialect:  dialect,
		Provider: provider,
		Conn:     conn,
		Timeout:  timeout,
		Logger:   logging.OrDiscard(log),
	}
}

// Run executes the command once with params on a connection of its own.
// Failures are *Error values; no partial output is returned with them.
func (q *Query) Run(ctx context.Context, params query.Params) (result.Output, error) {
	log := logging.OrDiscard(q.Logger).With(
		"invocation", ulid.Make().String(),
		"kind", q.Command.Kind.String(),
		"dialect", q.Dialect,
	)
	start := time.Now()

	out, err := q.run(ctx, log, params)
	if err != nil {
		var e *Error
		stage := "unknown"
		if errors.As(err, &e) {
			stage = e.Stage.String()
		}
		log.Warn("invocation failed", "stage", stage, "duration", time.Since(start), "error", err)
		return result.Output{}, err
	}

	log.Debug("invocation complete", "shape", out.Shape().String(), "duration", time.Since(start))
	return out, nil
}

func (q *Query) run(ctx context.Context, log *slog.Logger, params query.Params) (result.Output, error) {
	params, err := params.Normalize()
	if err != nil {
		return result.Output{}, q.fail(StageBind, err)
	}

	conn, err := q.Provider.Connect(ctx, q.Conn)
	if err != nil {
		return result.Output{}, q.fail(StageConnect, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Warn("close connection", "error", err)
		}
	}()

	if q.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.Timeout)
		defer cancel()
	}

	if q.Command.Kind == query.Mutation {
		n, err := conn.Exec(ctx, q.Command, params)
		if err != nil {
			return result.Output{}, q.fail(stageOf(err), err)
		}
		return result.CountOutput(n), nil
	}

	rs, err := conn.Query(ctx, q.Command, params)
	if err != nil {
		return result.Output{}, q.fail(stageOf(err), err)
	}
	defer rs.Close()

	out, err := Aggregate(ctx, rs, q.Policy)
	if err != nil {
		return result.Output{}, q.fail(StageExecute, err)
	}
	return out, nil
}

func (q *Query) fail(stage Stage, err error) error {
	return &Error{Stage: stage, Kind: q.Command.Kind, Err: err}
}

// stageOf attributes provider errors: binding failures are reported as
// *query.BindError, everything else comes from the driver.
func stageOf(err error) Stage {
	var be *query.BindError
	if errors.As(err, &be) {
		return StageBind
	}
	return StageExecute
}

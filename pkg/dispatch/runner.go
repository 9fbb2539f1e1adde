package dispatch

import (
	"context"
	"strings"
	"time"

	"github.com/afc-network/afcctl/pkg/util"
)

// CheckModeMessage is the outcome message for a dry run.
const CheckModeMessage = "Check mode" + NoActionSuffix

// Invocation is one request to run a command.
type Invocation struct {
	Command     string
	Operation   string
	Data        interface{}
	Credentials Credentials

	// CheckMode validates without opening a session.
	CheckMode bool

	// User is the local user the invocation runs as, for permission
	// checks and audit records.
	User string
}

// Authorizer decides whether user may use a permission ("vrf.create").
type Authorizer interface {
	Authorize(user, permission string) error
}

// Report summarizes a finished invocation for the audit trail. It never
// carries credentials.
type Report struct {
	Command    string
	Operation  string
	Variant    string
	Controller string
	Target     string
	User       string
	TokenBased bool
	CheckMode  bool
	Started    time.Time
	Duration   time.Duration
	Outcome    Outcome
}

// Recorder receives a report for every invocation.
type Recorder interface {
	Record(Report)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(Report)

// Record calls f(r).
func (f RecorderFunc) Record(r Report) { f(r) }

// Runner runs invocations end to end: routing, permission, validation,
// session, handler, teardown, audit.
type Runner struct {
	Registry   *Registry
	Sessions   *SessionFactory
	Authorizer Authorizer
	Recorder   Recorder
}

// Run executes one invocation. Every failure is reported through the
// returned signal; Run never panics past its boundary and tears down any
// username/password session it opened.
func (r *Runner) Run(ctx context.Context, inv Invocation) ExitSignal {
	report := Report{
		Command:    inv.Command,
		Operation:  inv.Operation,
		Controller: inv.Credentials.Address,
		User:       inv.User,
		TokenBased: inv.Credentials.TokenBased(),
		CheckMode:  inv.CheckMode,
		Started:    time.Now(),
	}

	sig := r.run(ctx, inv, &report)

	report.Duration = time.Since(report.Started)
	report.Outcome = sig.Outcome()
	if r.Recorder != nil {
		r.Recorder.Record(report)
	}
	return sig
}

func (r *Runner) run(ctx context.Context, inv Invocation, report *Report) ExitSignal {
	log := util.WithCommand(inv.Command, inv.Operation).WithField("controller", inv.Credentials.Address)

	cmd, ok := r.Registry.Lookup(inv.Command)
	if !ok {
		return Finalize(ctx, nil, FromError(util.NewUnsupportedError("Command", inv.Command)))
	}

	d := &Dispatcher{Registry: r.Registry}
	rt, err := d.Route(cmd, inv.Operation, inv.Data)
	if err != nil {
		log.Debugf("Routing rejected: %v", err)
		return Finalize(ctx, nil, FromError(err))
	}
	report.Operation = rt.Verb
	report.Variant = rt.Variant

	if r.Authorizer != nil {
		if err := r.Authorizer.Authorize(inv.User, rt.Permission()); err != nil {
			return Finalize(ctx, nil, FromError(err))
		}
	}

	data, err := cmd.Schema.Validate(rt.Verb, rt.Variant, inv.Data)
	if err != nil {
		return Finalize(ctx, nil, FromError(err))
	}
	report.Target = describeTarget(data)

	if err := inv.Credentials.Validate(); err != nil {
		return Finalize(ctx, nil, FromError(err))
	}

	if inv.CheckMode {
		return Finalize(ctx, nil, NoAction("Check mode"))
	}

	sess, err := r.Sessions.Open(ctx, inv.Credentials)
	if err != nil {
		log.Debugf("Handshake failed: %v", err)
		return Finalize(ctx, nil, FromError(err))
	}

	o := d.Invoke(ctx, rt, sess.Conn(), data)
	log.WithField("changed", o.Changed).Debugf("Handler finished: %s", o.Message)
	return Finalize(ctx, sess, o)
}

// describeTarget names the object an invocation addressed, for audit.
func describeTarget(data interface{}) string {
	switch d := data.(type) {
	case map[string]interface{}:
		for _, key := range []string{"name", "lag_name", "host"} {
			if s, ok := d[key].(string); ok && s != "" {
				return s
			}
		}
		if sw, ok := d["switches"].([]interface{}); ok {
			names := make([]string, 0, len(sw))
			for _, s := range sw {
				if str, ok := s.(string); ok {
					names = append(names, str)
				}
			}
			return strings.Join(names, ",")
		}
	case []interface{}:
		names := make([]string, 0, len(d))
		for _, item := range d {
			if m, ok := item.(map[string]interface{}); ok {
				if s, ok := m["switch"].(string); ok {
					names = append(names, s)
				}
			}
		}
		return strings.Join(names, ",")
	}
	return ""
}

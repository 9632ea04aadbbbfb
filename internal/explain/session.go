package explain

import (
	"context"
	"math"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/roach88/proof/internal/config"
	"github.com/roach88/proof/internal/infer"
	"github.com/roach88/proof/internal/ir"
	"github.com/roach88/proof/internal/logging"
)

// Field selects one position of the premise a request's cursor exposes.
type Field int

const (
	FieldRule Field = iota
	FieldSubject
	FieldPredicate
	FieldObject
	FieldContext
)

func (f Field) String() string {
	switch f {
	case FieldRule:
		return ir.LocalRule
	case FieldSubject:
		return ir.LocalSubject
	case FieldPredicate:
		return ir.LocalPredicate
	case FieldObject:
		return ir.LocalObject
	case FieldContext:
		return ir.LocalContext
	default:
		return "unknown"
	}
}

// IRI returns the vocabulary predicate that reads f, or "" for an unknown
// field.
func (f Field) IRI() string {
	if f < FieldRule || f > FieldContext {
		return ""
	}
	return ir.VocabularyIRI(f.String())
}

// Cardinality hints returned by Estimate and EstimateExplain. Explaining is
// cheap once all three positions are bound; the accessors are cheaper still
// and only make sense once a request ID is bound.
const (
	ExplainEstimate  = 10.0
	AccessorEstimate = 1.0
	UnboundEstimate  = math.MaxFloat64
)

// Session explains targets against one store and one inference backend.
// It keeps every request it created until the request is released.
//
// Explain is safe for concurrent use; each request is computed on the
// caller's goroutine and shares no mutable state with other requests. A
// single Request and its Cursor are not safe for concurrent use.
type Session struct {
	src     Source
	backend infer.Backend
	policy  config.Policy
	logger  *zap.Logger
	ids     IDAllocator
	tokens  TokenGenerator

	mu       sync.Mutex
	requests map[ir.ID]*Request
	closed   bool
}

// Option configures a Session.
type Option func(*Session)

// WithPolicy sets the scoping policy. Defaults to config.DefaultPolicy().
func WithPolicy(p config.Policy) Option {
	return func(s *Session) { s.policy = p }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithIDAllocator replaces the request ID allocator.
func WithIDAllocator(a IDAllocator) Option {
	return func(s *Session) { s.ids = a }
}

// WithTokenGenerator replaces the correlation token generator.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(s *Session) { s.tokens = g }
}

// NewSession creates a session over src and backend.
func NewSession(src Source, backend infer.Backend, opts ...Option) *Session {
	s := &Session{
		src:      src,
		backend:  backend,
		policy:   config.DefaultPolicy(),
		ids:      NewRequestIDs(),
		tokens:   UUIDv7Generator{},
		requests: make(map[ir.ID]*Request),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Component(s.logger, "explain")
	return s
}

// ErrSessionClosed is returned by Explain after Close.
var ErrSessionClosed = errors.New("explain: session closed")

// Explain computes every justification of target and registers the result
// under a fresh request ID.
//
// A target without a context is explained in the explicit default graph.
// A malformed target, a backend with inference disabled, and a target that
// is already being explained further up ctx's call chain all yield an empty
// request rather than an error. If the triple is asserted, the request holds
// the single "explicit" justification and the backend is not consulted.
// Otherwise the backend is asked once and every admissible rule group is
// collected.
//
// Store and backend failures abort the explanation; nothing is registered.
func (s *Session) Explain(ctx context.Context, target ir.Quad) (*Request, error) {
	if target.Context == ir.NoContext {
		target.Context = ir.ExplicitGraph
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.mu.Unlock()

	req := newRequest(s.ids.Allocate(), s.tokens.Generate(), target)
	log := s.logger.With(logging.RequestID(req.ID), zap.String(logging.FieldToken, req.Token))

	switch {
	case !target.Valid():
		log.Debug("malformed target", logging.Quad(logging.FieldTarget, target))
		return s.register(req)
	case s.backend == nil || !s.backend.InferenceEnabled():
		log.Debug("inference disabled", logging.Quad(logging.FieldTarget, target))
		return s.register(req)
	case isActive(ctx, target):
		log.Debug("target already being explained",
			logging.Quad(logging.FieldTarget, target),
			zap.Int(logging.FieldCount, depth(ctx)))
		return s.register(req)
	}
	ctx = withActive(ctx, target)

	props, err := Probe(ctx, s.src, target.Subject, target.Predicate, target.Object)
	if err != nil {
		return nil, s.fail(req, err)
	}
	req.Props = props

	if props.IsExplicit && !(props.IsDerivedFromEquivalence && s.policy.EquivalenceAsInferred) {
		set := ir.NewJustificationSet()
		set.Add(ir.Justification{
			Rule:     ir.RuleExplicit,
			Premises: []ir.Quad{target.Triple().InContext(props.ExplicitContext)},
		})
		req.finish(set, Stats{})
		log.Info("target explained",
			logging.Quad(logging.FieldTarget, target),
			zap.String(logging.FieldReason, ir.RuleExplicit),
			zap.Int64(logging.FieldContext, int64(props.ExplicitContext)))
		return s.register(req)
	}

	collector := NewCollector(target, NewResolver(s.src, s.policy), s.policy, log)
	if err := s.backend.IsSupported(ctx, target.Subject, target.Predicate, target.Object, collector); err != nil {
		var ee *ExplainError
		if !errors.As(err, &ee) {
			err = newBackendError(err)
		}
		return nil, s.fail(req, err)
	}

	stats := collector.Stats()
	req.finish(collector.Justifications(), stats)
	log.Info("target explained",
		logging.Quad(logging.FieldTarget, target),
		zap.Int(logging.FieldCount, req.Len()),
		zap.Int("groups", stats.Groups),
		zap.Int("duplicates", stats.Duplicates))
	return s.register(req)
}

// fail stamps the request ID on err and logs it.
func (s *Session) fail(req *Request, err error) error {
	var ee *ExplainError
	if errors.As(err, &ee) && ee.RequestID == 0 {
		ee.RequestID = req.ID
	}
	s.logger.Warn("explanation failed",
		logging.RequestID(req.ID),
		zap.String(logging.FieldToken, req.Token),
		logging.Quad(logging.FieldTarget, req.Target),
		zap.Error(err))
	return err
}

// register records req. The session may have been closed while req was
// being computed, in which case req is closed and dropped.
func (s *Session) register(req *Request) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		req.Close()
		return nil, ErrSessionClosed
	}
	s.requests[req.ID] = req
	return req, nil
}

// Lookup returns the live request registered under id, or a REQUEST_CLOSED
// error when id was released or never issued.
func (s *Session) Lookup(id ir.ID) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok || req.Closed() {
		return nil, newClosedError(id)
	}
	return req, nil
}

// Request returns the live request registered under id.
func (s *Session) Request(id ir.ID) (*Request, bool) {
	req, err := s.Lookup(id)
	return req, err == nil
}

// Next advances the cursor of request id. It returns false for unknown or
// released requests and once the cursor is exhausted.
func (s *Session) Next(id ir.ID) bool {
	req, ok := s.Request(id)
	if !ok {
		return false
	}
	return req.Cursor().Next()
}

// RuleName returns the rule of the premise currently exposed by request id.
func (s *Session) RuleName(id ir.ID) (string, bool) {
	req, ok := s.Request(id)
	if !ok {
		return "", false
	}
	j, ok := req.Cursor().Justification()
	if !ok {
		return "", false
	}
	return j.Rule, true
}

// Bind returns one position of the premise currently exposed by request id.
// A non-zero bound value acts as a filter: the result is false unless it
// equals the exposed value. Axioms expose no premise, so every position
// binds to nothing for them.
func (s *Session) Bind(id ir.ID, f Field, bound ir.ID) (ir.ID, bool) {
	req, ok := s.Request(id)
	if !ok {
		return 0, false
	}
	q, ok := req.Cursor().Premise()
	if !ok {
		return 0, false
	}

	var v ir.ID
	switch f {
	case FieldSubject:
		v = q.Subject
	case FieldPredicate:
		v = q.Predicate
	case FieldObject:
		v = q.Object
	case FieldContext:
		v = q.Context
	default:
		return 0, false
	}
	if bound != 0 && bound != v {
		return 0, false
	}
	return v, true
}

// Estimate returns the cardinality hint for an accessor pattern on field.
// Until the request ID is bound every accessor is as expensive as possible,
// so a planner evaluates the explain pattern first.
func (s *Session) Estimate(f Field, subjectBound bool) float64 {
	if !subjectBound {
		return UnboundEstimate
	}
	switch f {
	case FieldRule, FieldSubject, FieldPredicate, FieldObject, FieldContext:
		return AccessorEstimate
	default:
		return UnboundEstimate
	}
}

// EstimateExplain returns the cardinality hint for explaining a target
// whose positions are bound as given. Zero means unbound.
func (s *Session) EstimateExplain(subject, predicate, object ir.ID) float64 {
	if subject == 0 || predicate == 0 || object == 0 {
		return UnboundEstimate
	}
	return ExplainEstimate
}

// Len returns the number of live requests.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Release closes request id and forgets it. Unknown IDs are ignored.
func (s *Session) Release(id ir.ID) {
	s.mu.Lock()
	req, ok := s.requests[id]
	delete(s.requests, id)
	s.mu.Unlock()
	if ok {
		req.Close()
	}
}

// Close releases every request. Explain fails afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	requests := s.requests
	s.requests = make(map[ir.ID]*Request)
	s.closed = true
	s.mu.Unlock()

	for _, req := range requests {
		req.Close()
	}
	s.logger.Debug("session closed", zap.Int(logging.FieldCount, len(requests)))
}

package dialogue

import (
	"context"
	"fmt"
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"campus-chatbot/pkg/metrics"
	"campus-chatbot/pkg/nlp"
)

type Config struct {
	// Greetings are only detected in inputs shorter than this many runes.
	GreetingCutoff     int
	GreetingConfidence float64
	ExitConfidence     float64
	// Reported when a resolved tag has no response to offer.
	FallbackConfidence float64
	HistoryCapacity    int
	MaxMessageLength   int
}

func DefaultConfig() Config {
	return Config{
		GreetingCutoff:     20,
		GreetingConfidence: 0.9,
		ExitConfidence:     0.9,
		FallbackConfidence: 0.3,
		HistoryCapacity:    50,
		MaxMessageLength:   500,
	}
}

type IntentResolver interface {
	Resolve(ctx context.Context, text string) nlp.Resolution
}

// Engine runs one conversation. It is not safe for concurrent use; callers
// serving several users keep one Engine per session and serialize its turns.
type Engine struct {
	resolver   IntentResolver
	intents    *nlp.IntentTable
	controller *Controller
	cfg        Config
	log        *logrus.Logger
	rnd        *rand.Rand
	now        func() time.Time

	state   Context
	history *History
}

type Option func(*Engine)

func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rnd = r
	}
}

func WithLogger(log *logrus.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(resolver IntentResolver, intents *nlp.IntentTable, flows *FlowTable, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		resolver:   resolver,
		intents:    intents,
		controller: NewController(flows),
		cfg:        cfg,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
		history:    NewHistory(cfg.HistoryCapacity),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Engine) ProcessTurn(ctx context.Context, text string) TurnResult {
	input := nlp.Normalize(text)

	if input == "" {
		return e.result(PromptForInput, EmptyTag, 0, string(nlp.MethodRule))
	}

	if e.cfg.MaxMessageLength > 0 && utf8.RuneCountInString(input) > e.cfg.MaxMessageLength {
		res := e.result(fmt.Sprintf(MessageTooLong, e.cfg.MaxMessageLength), nlp.UnknownTag, 0, string(nlp.MethodRule))
		res.Rejected = true
		return res
	}

	if e.state.ExpectingFollowup && containsAny(input, ExitKeywords) {
		response := e.controller.Exit(&e.state)
		return e.finish(e.result(response, GreetingTag, e.cfg.ExitConfidence, MethodExit))
	}

	if utf8.RuneCountInString(input) < e.cfg.GreetingCutoff && containsAny(input, GreetingKeywords) {
		response := e.pick(e.intents.Responses(GreetingTag), []string{DefaultGreeting})
		return e.finish(e.result(response, GreetingTag, e.cfg.GreetingConfidence, MethodGreeting))
	}

	resolution := e.resolver.Resolve(ctx, text)
	intent := resolution.Tag
	confidence := resolution.Confidence
	method := string(resolution.Method)

	response, handled := "", false

	if e.state.ExpectingFollowup {
		topic := e.state.LastIntent
		response, _, handled = e.controller.Continue(&e.state, input)
		if handled {
			intent = topic
		} else if e.log != nil {
			e.log.WithFields(logrus.Fields{
				"topic": topic,
			}).Warn("[Engine.ProcessTurn] flow context pointed at a missing flow, reset to idle")
		}
	}

	if !handled {
		response, handled = e.controller.Enter(&e.state, intent)
	}

	if !handled {
		responses := e.intents.Responses(intent)
		if intent == nlp.UnknownTag || len(responses) == 0 {
			if intent != nlp.UnknownTag {
				confidence = e.cfg.FallbackConfidence
			}
			intent = nlp.UnknownTag
			response = e.pick(FallbackResponses, FallbackResponses)
		} else {
			response = e.pick(responses, FallbackResponses)
		}
	}

	res := e.result(response, intent, confidence, method)
	e.history.Append(TurnRecord{
		Timestamp:  res.Timestamp,
		User:       text,
		Bot:        response,
		Intent:     intent,
		Confidence: confidence,
		Method:     method,
		Context:    e.state.Snapshot(),
	})

	return e.finish(res)
}

func (e *Engine) Reset() {
	e.state = Context{}
	e.history.Clear()
}

// History returns up to n of the newest turn records plus the total recorded since the last reset.
func (e *Engine) History(n int) ([]TurnRecord, int) {
	return e.history.Recent(n)
}

func (e *Engine) Context() Context {
	return e.state.Snapshot()
}

func (e *Engine) result(response, intent string, confidence float64, method string) TurnResult {
	return TurnResult{
		Response:          response,
		Intent:            intent,
		Confidence:        confidence,
		Method:            method,
		ExpectingFollowup: e.state.ExpectingFollowup,
		CurrentTopic:      e.state.CurrentTopic,
		Timestamp:         e.now(),
	}
}

func (e *Engine) finish(res TurnResult) TurnResult {
	metrics.ObserveTurn(res.Method, res.Intent)
	return res
}

func (e *Engine) pick(options, fallback []string) string {
	if len(options) == 0 {
		options = fallback
	}
	return options[e.rnd.Intn(len(options))]
}

func containsAny(input string, keywords []string) bool {
	return nlp.ContainsAny(input, keywords)
}

package dialogue

import (
	"github.com/sirupsen/logrus"

	"campus-chatbot/pkg/nlp"
)

// Factory holds the read-only components every conversation shares and
// stamps out one Engine per session.
type Factory struct {
	Resolver            IntentResolver
	Intents             *nlp.IntentTable
	Flows               *FlowTable
	Config              Config
	Logger              *logrus.Logger
	ClassifierAvailable bool
}

func (f *Factory) NewEngine(opts ...Option) *Engine {
	base := []Option{WithLogger(f.Logger)}
	return NewEngine(f.Resolver, f.Intents, f.Flows, f.Config, append(base, opts...)...)
}

package nlp

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ResolverConfig struct {
	// ClassifierFloor is the minimum probability at which a classifier
	// label is accepted over the rule matcher.
	ClassifierFloor float64
}

func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{ClassifierFloor: 0.3}
}

type Resolver struct {
	matcher    *RuleMatcher
	classifier *ClassifierAdapter
	intents    *IntentTable
	cfg        ResolverConfig
	log        *logrus.Logger
}

// NewResolver accepts a nil classifier; resolution is then rule-only.
func NewResolver(matcher *RuleMatcher, classifier *ClassifierAdapter, intents *IntentTable, cfg ResolverConfig, log *logrus.Logger) *Resolver {
	return &Resolver{
		matcher:    matcher,
		classifier: classifier,
		intents:    intents,
		cfg:        cfg,
		log:        log,
	}
}

func (r *Resolver) ClassifierAvailable() bool {
	return r.classifier.Available()
}

func (r *Resolver) Resolve(ctx context.Context, text string) Resolution {
	attempted := false

	if r.classifier.Available() {
		attempted = true
		if p, ok := r.classifier.Predict(ctx, text); ok && p.Tag != UnknownTag && p.Probability >= r.cfg.ClassifierFloor {
			if r.intents.Has(p.Tag) {
				return Resolution{Tag: p.Tag, Confidence: p.Probability, Method: MethodClassifier}
			}
			if r.log != nil {
				r.log.WithFields(logrus.Fields{
					"label": p.Tag,
				}).Warn("[Resolver.Resolve] classifier label outside intent table")
			}
		}
	}

	tag, confidence := r.matcher.Match(text)
	if tag == UnknownTag {
		return Resolution{Tag: UnknownTag, Confidence: confidence, Method: MethodNone}
	}

	method := MethodRule
	if attempted {
		method = MethodClassifierFallbackToRule
	}
	return Resolution{Tag: tag, Confidence: confidence, Method: method}
}

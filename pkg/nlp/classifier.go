package nlp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"campus-chatbot/pkg/metrics"
)

var (
	ErrModelShape     = errors.New("classifier model shape mismatch")
	ErrModelNoClasses = errors.New("classifier model has no classes")
)

// LinearBundle is the exported form of a TF-IDF + multinomial logistic
// regression model: one coefficient row per class, one column per term.
type LinearBundle struct {
	Classes    []string       `json:"classes"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Coef       [][]float64    `json:"coef"`
	Intercept  []float64      `json:"intercept"`
}

type LinearModel struct {
	classes    []string
	vocabulary map[string]int
	idf        []float64
	coef       [][]float64
	intercept  []float64
}

func NewLinearModel(b LinearBundle) (*LinearModel, error) {
	if len(b.Classes) == 0 {
		return nil, ErrModelNoClasses
	}

	terms := len(b.IDF)
	if len(b.Coef) != len(b.Classes) || len(b.Intercept) != len(b.Classes) {
		return nil, fmt.Errorf("%w: %d classes, %d coef rows, %d intercepts",
			ErrModelShape, len(b.Classes), len(b.Coef), len(b.Intercept))
	}
	for i, row := range b.Coef {
		if len(row) != terms {
			return nil, fmt.Errorf("%w: coef row %d has %d terms, want %d", ErrModelShape, i, len(row), terms)
		}
	}
	for term, col := range b.Vocabulary {
		if col < 0 || col >= terms {
			return nil, fmt.Errorf("%w: term %q maps to column %d", ErrModelShape, term, col)
		}
	}

	return &LinearModel{
		classes:    b.Classes,
		vocabulary: b.Vocabulary,
		idf:        b.IDF,
		coef:       b.Coef,
		intercept:  b.Intercept,
	}, nil
}

func LoadClassifier(path string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classifier %s: %w", path, err)
	}

	var bundle LinearBundle
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("decode classifier %s: %w", path, err)
	}

	return NewLinearModel(bundle)
}

func (m *LinearModel) Classes() []string {
	return append([]string(nil), m.classes...)
}

func (m *LinearModel) Predict(text string) (Prediction, error) {
	features := make(map[int]float64)
	for _, token := range Tokenize(text) {
		if col, ok := m.vocabulary[token]; ok {
			features[col]++
		}
	}

	var norm float64
	for col, tf := range features {
		v := tf * m.idf[col]
		features[col] = v
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range features {
			features[col] /= norm
		}
	}

	logits := make([]float64, len(m.classes))
	maxLogit := math.Inf(-1)
	for c := range m.classes {
		z := m.intercept[c]
		for col, v := range features {
			z += m.coef[c][col] * v
		}
		logits[c] = z
		if z > maxLogit {
			maxLogit = z
		}
	}

	var sum float64
	for c, z := range logits {
		logits[c] = math.Exp(z - maxLogit)
		sum += logits[c]
	}

	best := 0
	for c := range logits {
		if logits[c] > logits[best] {
			best = c
		}
	}

	return Prediction{Tag: m.classes[best], Probability: logits[best] / sum}, nil
}

// ClassifierAdapter guards an optional Model: errors, panics and slow
// predictions all come back as "no prediction".
type ClassifierAdapter struct {
	model   Model
	timeout time.Duration
	log     *logrus.Logger
}

func NewClassifierAdapter(model Model, timeout time.Duration, log *logrus.Logger) *ClassifierAdapter {
	return &ClassifierAdapter{
		model:   model,
		timeout: timeout,
		log:     log,
	}
}

func (a *ClassifierAdapter) Available() bool {
	return a != nil && a.model != nil
}

type predictResult struct {
	prediction Prediction
	outcome    string
	err        error
}

func (a *ClassifierAdapter) Predict(ctx context.Context, text string) (Prediction, bool) {
	if !a.Available() {
		return Prediction{}, false
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan predictResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- predictResult{outcome: "panic", err: fmt.Errorf("classifier panic: %v", r)}
			}
		}()

		p, err := a.model.Predict(text)
		if err != nil {
			done <- predictResult{outcome: "error", err: err}
			return
		}
		done <- predictResult{prediction: p, outcome: "ok"}
	}()

	select {
	case <-ctx.Done():
		metrics.ObserveClassifier("timeout", start)
		a.warn(ctx.Err(), "[ClassifierAdapter.Predict] prediction abandoned")
		return Prediction{}, false
	case res := <-done:
		metrics.ObserveClassifier(res.outcome, start)
		if res.err != nil {
			a.warn(res.err, "[ClassifierAdapter.Predict] prediction failed")
			return Prediction{}, false
		}
		p := res.prediction
		if p.Tag == "" || math.IsNaN(p.Probability) {
			return Prediction{}, false
		}
		p.Probability = math.Max(0, math.Min(1, p.Probability))
		return p, true
	}
}

func (a *ClassifierAdapter) warn(err error, msg string) {
	if a.log == nil {
		return
	}
	a.log.WithFields(logrus.Fields{
		"error": err.Error(),
	}).Warn(msg)
}

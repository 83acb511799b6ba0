package nlp

import "context"

// UnknownTag is the sentinel intent reported when nothing resolves.
const UnknownTag = "unknown"

type Method string

const (
	MethodRule                     Method = "rule"
	MethodClassifier               Method = "classifier"
	MethodClassifierFallbackToRule Method = "classifier_fallback_to_rule"
	MethodNone                     Method = "none"
)

type Intent struct {
	Tag       string   `json:"tag"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses"`
}

type Resolution struct {
	Tag        string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Method     Method  `json:"method"`
}

func (r Resolution) Known() bool {
	return r.Tag != "" && r.Tag != UnknownTag
}

type Prediction struct {
	Tag         string  `json:"tag"`
	Probability float64 `json:"probability"`
}

type KeywordRule struct {
	Keyword string `json:"keyword" yaml:"keyword" koanf:"keyword"`
	Tag     string `json:"tag" yaml:"tag" koanf:"tag"`
}

type IResolver interface {
	Resolve(ctx context.Context, text string) Resolution
}

// Model is a pre-trained text classifier. Implementations may fail or panic;
// ClassifierAdapter contains both.
type Model interface {
	Predict(text string) (Prediction, error)
}

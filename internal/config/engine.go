package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"

	"campus-chatbot/internal/middleware"
	"campus-chatbot/pkg/dialogue"
	"campus-chatbot/pkg/nlp"
)

const EnvPrefix = "CHATBOT_"

// EngineConfig holds every tunable of the dialogue pipeline. Keys are flat so
// that each one can be overridden with a CHATBOT_<KEY> environment variable.
type EngineConfig struct {
	IntentsPath    string `yaml:"intents_path" koanf:"intents_path"`
	FlowsPath      string `yaml:"flows_path" koanf:"flows_path"`
	ClassifierPath string `yaml:"classifier_path" koanf:"classifier_path"`

	ClassifierFloor   float64       `yaml:"classifier_floor" koanf:"classifier_floor"`
	ClassifierTimeout time.Duration `yaml:"classifier_timeout" koanf:"classifier_timeout"`

	RuleThreshold     float64 `yaml:"rule_threshold" koanf:"rule_threshold"`
	ExactWeight       float64 `yaml:"exact_weight" koanf:"exact_weight"`
	WordWeight        float64 `yaml:"word_weight" koanf:"word_weight"`
	ShortWordLimit    int     `yaml:"short_word_limit" koanf:"short_word_limit"`
	BaseConfidence    float64 `yaml:"base_confidence" koanf:"base_confidence"`
	ConfidenceScale   float64 `yaml:"confidence_scale" koanf:"confidence_scale"`
	ConfidenceCap     float64 `yaml:"confidence_cap" koanf:"confidence_cap"`
	KeywordConfidence float64 `yaml:"keyword_confidence" koanf:"keyword_confidence"`
	UnknownConfidence float64 `yaml:"unknown_confidence" koanf:"unknown_confidence"`

	Keywords []nlp.KeywordRule `yaml:"keywords" koanf:"keywords"`

	GreetingCutoff     int     `yaml:"greeting_cutoff" koanf:"greeting_cutoff"`
	GreetingConfidence float64 `yaml:"greeting_confidence" koanf:"greeting_confidence"`
	ExitConfidence     float64 `yaml:"exit_confidence" koanf:"exit_confidence"`
	FallbackConfidence float64 `yaml:"fallback_confidence" koanf:"fallback_confidence"`
	HistoryCapacity    int     `yaml:"history_capacity" koanf:"history_capacity"`
	HistoryPageSize    int     `yaml:"history_page_size" koanf:"history_page_size"`
	MaxMessageLength   int     `yaml:"max_message_length" koanf:"max_message_length"`

	SessionTTL           time.Duration `yaml:"session_ttl" koanf:"session_ttl"`
	SessionSweepInterval time.Duration `yaml:"session_sweep_interval" koanf:"session_sweep_interval"`
	SuggestionThreshold  float64       `yaml:"suggestion_threshold" koanf:"suggestion_threshold"`
	SuggestionLimit      int           `yaml:"suggestion_limit" koanf:"suggestion_limit"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps" koanf:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst" koanf:"rate_limit_burst"`
}

func DefaultEngineConfig() *EngineConfig {
	m := nlp.DefaultMatcherConfig()
	d := dialogue.DefaultConfig()
	r := nlp.DefaultResolverConfig()
	mw := middleware.DefaultConfig()

	return &EngineConfig{
		IntentsPath: "data/intents.json",
		FlowsPath:   "data/flows.yaml",

		ClassifierFloor:   r.ClassifierFloor,
		ClassifierTimeout: 2 * time.Second,

		RuleThreshold:     m.Threshold,
		ExactWeight:       m.ExactWeight,
		WordWeight:        m.WordWeight,
		ShortWordLimit:    m.ShortWordLimit,
		BaseConfidence:    m.BaseConfidence,
		ConfidenceScale:   m.ConfidenceScale,
		ConfidenceCap:     m.ConfidenceCap,
		KeywordConfidence: m.KeywordConfidence,
		UnknownConfidence: m.UnknownConfidence,

		GreetingCutoff:     d.GreetingCutoff,
		GreetingConfidence: d.GreetingConfidence,
		ExitConfidence:     d.ExitConfidence,
		FallbackConfidence: d.FallbackConfidence,
		HistoryCapacity:    d.HistoryCapacity,
		HistoryPageSize:    20,
		MaxMessageLength:   d.MaxMessageLength,

		SessionTTL:           24 * time.Hour,
		SessionSweepInterval: 10 * time.Minute,
		SuggestionThreshold:  0.4,
		SuggestionLimit:      3,

		RateLimitRPS:   mw.RequestsPerSecond,
		RateLimitBurst: mw.Burst,
	}
}

// LoadEngineConfig starts from defaults, overlays the YAML file at path when
// it exists, then CHATBOT_* environment variables.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	k := koanf.New(".")
	cfg := DefaultEngineConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *EngineConfig) Validate() error {
	var errs []error

	unit := func(name string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", name, v))
		}
	}
	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}

	if strings.TrimSpace(c.IntentsPath) == "" {
		errs = append(errs, errors.New("intents_path is required"))
	}

	unit("classifier_floor", c.ClassifierFloor)
	unit("base_confidence", c.BaseConfidence)
	unit("confidence_cap", c.ConfidenceCap)
	unit("keyword_confidence", c.KeywordConfidence)
	unit("unknown_confidence", c.UnknownConfidence)
	unit("greeting_confidence", c.GreetingConfidence)
	unit("exit_confidence", c.ExitConfidence)
	unit("fallback_confidence", c.FallbackConfidence)
	unit("suggestion_threshold", c.SuggestionThreshold)

	if c.BaseConfidence > c.ConfidenceCap {
		errs = append(errs, fmt.Errorf("base_confidence %v exceeds confidence_cap %v", c.BaseConfidence, c.ConfidenceCap))
	}
	if c.RuleThreshold <= 0 || c.ExactWeight <= 0 || c.WordWeight < 0 || c.ConfidenceScale < 0 {
		errs = append(errs, errors.New("rule_threshold and exact_weight must be positive, word_weight and confidence_scale non-negative"))
	}
	if c.ShortWordLimit < 0 {
		errs = append(errs, fmt.Errorf("short_word_limit must be non-negative, got %d", c.ShortWordLimit))
	}
	if c.ClassifierTimeout < 0 {
		errs = append(errs, fmt.Errorf("classifier_timeout must be non-negative, got %s", c.ClassifierTimeout))
	}

	positive("greeting_cutoff", c.GreetingCutoff)
	positive("history_capacity", c.HistoryCapacity)
	positive("history_page_size", c.HistoryPageSize)
	positive("max_message_length", c.MaxMessageLength)
	positive("rate_limit_burst", c.RateLimitBurst)

	if c.SuggestionLimit < 0 {
		errs = append(errs, fmt.Errorf("suggestion_limit must be non-negative, got %d", c.SuggestionLimit))
	}
	if c.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit_rps must be positive, got %v", c.RateLimitRPS))
	}
	if c.SessionTTL <= 0 || c.SessionSweepInterval <= 0 {
		errs = append(errs, errors.New("session_ttl and session_sweep_interval must be positive"))
	}

	for i, rule := range c.Keywords {
		if strings.TrimSpace(rule.Keyword) == "" || strings.TrimSpace(rule.Tag) == "" {
			errs = append(errs, fmt.Errorf("keywords[%d] needs both keyword and tag", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid engine config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *EngineConfig) MatcherConfig() nlp.MatcherConfig {
	return nlp.MatcherConfig{
		ExactWeight:       c.ExactWeight,
		WordWeight:        c.WordWeight,
		ShortWordLimit:    c.ShortWordLimit,
		Threshold:         c.RuleThreshold,
		BaseConfidence:    c.BaseConfidence,
		ConfidenceScale:   c.ConfidenceScale,
		ConfidenceCap:     c.ConfidenceCap,
		KeywordConfidence: c.KeywordConfidence,
		UnknownConfidence: c.UnknownConfidence,
	}
}

func (c *EngineConfig) DialogueConfig() dialogue.Config {
	return dialogue.Config{
		GreetingCutoff:     c.GreetingCutoff,
		GreetingConfidence: c.GreetingConfidence,
		ExitConfidence:     c.ExitConfidence,
		FallbackConfidence: c.FallbackConfidence,
		HistoryCapacity:    c.HistoryCapacity,
		MaxMessageLength:   c.MaxMessageLength,
	}
}

func (c *EngineConfig) MiddlewareConfig() middleware.Config {
	return middleware.Config{
		RequestsPerSecond: c.RateLimitRPS,
		Burst:             c.RateLimitBurst,
	}
}

func (c *EngineConfig) KeywordRules() []nlp.KeywordRule {
	if len(c.Keywords) > 0 {
		return c.Keywords
	}
	return nlp.DefaultKeywordRules()
}

// BuildDialogue loads the data files and wires the resolution pipeline. A
// missing or broken classifier is logged and the engine runs rule-only.
func BuildDialogue(c *EngineConfig, log *logrus.Logger) (*dialogue.Factory, error) {
	intents, err := nlp.LoadIntents(c.IntentsPath)
	if err != nil {
		return nil, err
	}

	var flows *dialogue.FlowTable
	if c.FlowsPath != "" {
		flows, err = dialogue.LoadFlows(c.FlowsPath)
	} else {
		flows, err = dialogue.NewFlowTable(dialogue.DefaultFlows())
	}
	if err != nil {
		return nil, err
	}

	var classifier *nlp.ClassifierAdapter
	if c.ClassifierPath != "" {
		model, err := nlp.LoadClassifier(c.ClassifierPath)
		if err != nil {
			log.WithFields(logrus.Fields{
				"path":  c.ClassifierPath,
				"error": err.Error(),
			}).Warn("[config.BuildDialogue] classifier unavailable, using rule-based matching only")
		} else {
			classifier = nlp.NewClassifierAdapter(model, c.ClassifierTimeout, log)
		}
	}

	matcher := nlp.NewRuleMatcher(nlp.NewPatternIndex(intents), c.KeywordRules(), c.MatcherConfig())
	resolver := nlp.NewResolver(matcher, classifier, intents, nlp.ResolverConfig{ClassifierFloor: c.ClassifierFloor}, log)

	log.WithFields(logrus.Fields{
		"intents":    intents.Len(),
		"flows":      flows.Len(),
		"classifier": classifier.Available(),
	}).Info("[config.BuildDialogue] dialogue components ready")

	return &dialogue.Factory{
		Resolver:            resolver,
		Intents:             intents,
		Flows:               flows,
		Config:              c.DialogueConfig(),
		Logger:              log,
		ClassifierAvailable: classifier.Available(),
	}, nil
}

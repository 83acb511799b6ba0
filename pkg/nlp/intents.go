package nlp

import (
	"errors"
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var (
	ErrEmptyIntentTable = errors.New("intent table is empty")
	ErrDuplicateTag     = errors.New("duplicate intent tag")
	ErrEmptyTag         = errors.New("intent tag is empty")
)

// IntentTable is the immutable, ordered set of intents loaded at startup.
type IntentTable struct {
	intents []Intent
	byTag   map[string]int
}

type intentFile struct {
	Intents []Intent `json:"intents"`
}

func NewIntentTable(intents []Intent) (*IntentTable, error) {
	if len(intents) == 0 {
		return nil, ErrEmptyIntentTable
	}

	table := &IntentTable{
		intents: make([]Intent, 0, len(intents)),
		byTag:   make(map[string]int, len(intents)),
	}

	for _, intent := range intents {
		tag := strings.TrimSpace(intent.Tag)
		if tag == "" {
			return nil, ErrEmptyTag
		}
		if _, exists := table.byTag[tag]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTag, tag)
		}

		table.byTag[tag] = len(table.intents)
		table.intents = append(table.intents, Intent{
			Tag:       tag,
			Patterns:  append([]string(nil), intent.Patterns...),
			Responses: append([]string(nil), intent.Responses...),
		})
	}

	return table, nil
}

// LoadIntents reads a {"intents": [...]} document from disk.
func LoadIntents(path string) (*IntentTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intents %s: %w", path, err)
	}

	var file intentFile
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode intents %s: %w", path, err)
	}

	return NewIntentTable(file.Intents)
}

func (t *IntentTable) Len() int {
	return len(t.intents)
}

func (t *IntentTable) Has(tag string) bool {
	_, ok := t.byTag[tag]
	return ok
}

func (t *IntentTable) Get(tag string) (Intent, bool) {
	i, ok := t.byTag[tag]
	if !ok {
		return Intent{}, false
	}
	return t.intents[i], true
}

// Responses returns nil for tags outside the table.
func (t *IntentTable) Responses(tag string) []string {
	i, ok := t.byTag[tag]
	if !ok {
		return nil
	}
	return t.intents[i].Responses
}

// Tags lists intent tags in load order.
func (t *IntentTable) Tags() []string {
	tags := make([]string, len(t.intents))
	for i, intent := range t.intents {
		tags[i] = intent.Tag
	}
	return tags
}

func (t *IntentTable) All() []Intent {
	return append([]Intent(nil), t.intents...)
}

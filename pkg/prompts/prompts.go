// Package prompts builds the language model tasks used during retrieval:
// query entity extraction, synonym generation and grounded answer synthesis.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonrepair"
	"gopkg.in/yaml.v3"

	"github.com/soundprediction/graphrecall/pkg/types"
)

//go:embed examples.yaml
var examplesYAML []byte

// ExtractionExample is one few-shot example for query entity extraction.
type ExtractionExample struct {
	Query    string   `yaml:"query"`
	Entities []string `yaml:"entities"`
}

var (
	examplesOnce sync.Once
	examples     []ExtractionExample
	examplesErr  error
)

// Examples returns the embedded few-shot extraction examples.
func Examples() ([]ExtractionExample, error) {
	examplesOnce.Do(func() {
		examplesErr = yaml.Unmarshal(examplesYAML, &examples)
	})
	return examples, examplesErr
}

// EntityExtraction asks for the entities and concepts mentioned in query, one per line.
func EntityExtraction(query string) (types.Task, error) {
	sysPrompt := `You identify the entities and concepts a search query is about. ` +
		`List each one on its own line using the wording of the query. ` +
		`Do not number the lines, explain, or add anything that is not mentioned.`

	exs, err := Examples()
	if err != nil {
		return types.Task{}, fmt.Errorf("failed to load extraction examples: %w", err)
	}

	var b strings.Builder
	b.WriteString("<EXAMPLES>\n")
	for _, ex := range exs {
		fmt.Fprintf(&b, "Query: %s\nEntities:\n%s\n\n", ex.Query, strings.Join(ex.Entities, "\n"))
	}
	b.WriteString("</EXAMPLES>\n")
	fmt.Fprintf(&b, "<QUERY>\n%s\n</QUERY>\n\nEntities:", query)

	return types.Task{
		TaskType:       types.TaskExtraction,
		SystemPrompt:   sysPrompt,
		Prompt:         b.String(),
		MaxTokens:      200,
		Temperature:    0,
		QualityHint:    types.QualityMedium,
		ComplexityHint: types.ComplexitySimple,
	}, nil
}

// Synonyms asks for up to maxPerEntity alternative names for each entity,
// answered as a JSON object keyed by entity.
func Synonyms(entities []string, maxPerEntity int) types.Task {
	sysPrompt := `You suggest alternative names, abbreviations and close synonyms that a knowledge graph might use for an entity.`

	userPrompt := fmt.Sprintf(`
<ENTITIES>
%s
</ENTITIES>

For each entity give at most %d synonyms. Respond only with a JSON object mapping each entity to a list of synonyms, for example:
{"machine learning": ["ML", "statistical learning"]}
`, strings.Join(entities, "\n"), maxPerEntity)

	return types.Task{
		TaskType:       types.TaskExtraction,
		SystemPrompt:   sysPrompt,
		Prompt:         userPrompt,
		MaxTokens:      300,
		Temperature:    0.3,
		QualityHint:    types.QualityLow,
		ComplexityHint: types.ComplexitySimple,
	}
}

// Answer asks for an answer to query grounded only in graphContext.
func Answer(query, graphContext string) types.Task {
	sysPrompt := `You answer questions using only the knowledge graph context provided. ` +
		`If the context does not contain the answer, say that the information is not available. Do not use outside knowledge.`

	userPrompt := fmt.Sprintf(`
<CONTEXT>
%s
</CONTEXT>
<QUESTION>
%s
</QUESTION>

Answer the question based on the context above.
`, graphContext, query)

	return types.Task{
		TaskType:       types.TaskAnswerGeneration,
		SystemPrompt:   sysPrompt,
		Prompt:         userPrompt,
		MaxTokens:      800,
		Temperature:    0.2,
		QualityHint:    types.QualityHigh,
		ComplexityHint: types.ComplexityModerate,
	}
}

var listMarker = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s*`)

// ParseLines splits a line-oriented model response into trimmed items,
// stripping list markers and numbering.
func ParseLines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = listMarker.ReplaceAllString(strings.TrimSpace(line), "")
		line = strings.Trim(strings.TrimSpace(line), `"'`)
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// ParseSynonyms reads the synonym response. Malformed JSON is repaired first;
// if that still fails the response is read line by line as "entity: a, b".
func ParseSynonyms(content string) map[string][]string {
	out := map[string][]string{}

	raw := strings.TrimSpace(content)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	if repaired, err := jsonrepair.JSONRepair(raw); err == nil {
		if err := json.Unmarshal([]byte(repaired), &out); err == nil {
			return out
		}
	}

	for _, line := range ParseLines(content) {
		entity, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		for _, syn := range strings.Split(rest, ",") {
			if syn = strings.Trim(strings.TrimSpace(syn), `"'`); syn != "" {
				out[strings.TrimSpace(entity)] = append(out[strings.TrimSpace(entity)], syn)
			}
		}
	}
	return out
}

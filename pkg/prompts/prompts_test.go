package prompts

import (
	"testing"

	"github.com/soundprediction/graphrecall/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamplesLoad(t *testing.T) {
	exs, err := Examples()
	require.NoError(t, err)
	require.NotEmpty(t, exs)
	for _, ex := range exs {
		assert.NotEmpty(t, ex.Query)
		assert.NotEmpty(t, ex.Entities)
	}
}

func TestEntityExtraction(t *testing.T) {
	task, err := EntityExtraction("abortion reproductive rights")
	require.NoError(t, err)

	assert.Equal(t, types.TaskExtraction, task.TaskType)
	assert.Contains(t, task.Prompt, "<EXAMPLES>")
	assert.Contains(t, task.Prompt, "retrieval augmented generation")
	assert.Contains(t, task.Prompt, "<QUERY>\nabortion reproductive rights\n</QUERY>")
	assert.NotEmpty(t, task.SystemPrompt)
}

func TestSynonymsAndAnswer(t *testing.T) {
	syn := Synonyms([]string{"RAG", "LLM"}, 3)
	assert.Equal(t, types.TaskExtraction, syn.TaskType)
	assert.Contains(t, syn.Prompt, "RAG\nLLM")
	assert.Contains(t, syn.Prompt, "at most 3 synonyms")

	ans := Answer("What is RAG?", "Entities:\n- RAG")
	assert.Equal(t, types.TaskAnswerGeneration, ans.TaskType)
	assert.Contains(t, ans.Prompt, "<CONTEXT>\nEntities:\n- RAG\n</CONTEXT>")
	assert.Contains(t, ans.Prompt, "What is RAG?")
}

func TestParseLines(t *testing.T) {
	content := "Entities:\n1. abortion\n- reproductive rights\n\n* \"3D printing\"\n  2) Roe v. Wade  \n"
	assert.Equal(t, []string{"abortion", "reproductive rights", "3D printing", "Roe v. Wade"}, ParseLines(content))
	assert.Empty(t, ParseLines("  \n\n"))
}

func TestParseSynonyms(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected map[string][]string
	}{
		{
			name:     "valid json",
			content:  `{"RAG": ["retrieval augmented generation"], "LLM": ["large language model", "language model"]}`,
			expected: map[string][]string{"RAG": {"retrieval augmented generation"}, "LLM": {"large language model", "language model"}},
		},
		{
			name:     "fenced json with trailing comma",
			content:  "```json\n{\"RAG\": [\"retrieval augmented generation\",],}\n```",
			expected: map[string][]string{"RAG": {"retrieval augmented generation"}},
		},
		{
			name:     "line fallback",
			content:  "RAG: retrieval augmented generation, grounded generation\nLLM: large language model",
			expected: map[string][]string{"RAG": {"retrieval augmented generation", "grounded generation"}, "LLM": {"large language model"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSynonyms(tt.content))
		})
	}
}

package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockGenerator implements llm.Generator for testing
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
	lastPrompt   string
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "75\n- Go", nil
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   int
		wantOK bool
	}{
		{name: "leading integer", text: "87\n- strength one", want: 87, wantOK: true},
		{name: "one hundred", text: "100", want: 100, wantOK: true},
		{name: "single digit", text: "7", want: 7, wantOK: true},
		{name: "embedded in sentence", text: "The score is 87", want: 87, wantOK: true},
		{name: "first match wins", text: "Score 42 of 100", want: 42, wantOK: true},
		{name: "three digits other than 100", text: "score 250 here", wantOK: false},
		{name: "four digits", text: "1000", wantOK: false},
		{name: "no digits", text: "Strong match overall", wantOK: false},
		{name: "empty", text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseScore(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDisplayText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "strips bare score line", raw: "87\n- strength one\n- strength two", want: "- strength one\n- strength two"},
		{name: "keeps sentence first line", raw: "The score is 87\n- strength", want: "The score is 87\n- strength"},
		{name: "tolerates padding", raw: " 64 \n\n- gap", want: "- gap"},
		{name: "leading blank line", raw: "\n87\n- a", want: "- a"},
		{name: "leading blank lines before score", raw: "\n\n  87\n- strength one", want: "- strength one"},
		{name: "score only", raw: "90", want: ""},
		{name: "no score", raw: "No numbers here", want: "No numbers here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayText(tt.raw))
		})
	}
}

func TestParseLeadingScore(t *testing.T) {
	score, err := ParseLeadingScore("\n\n92\n- Go")
	require.NoError(t, err)
	assert.Equal(t, 92, score)

	_, err = ParseLeadingScore("The score is 87")
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))

	_, err = ParseLeadingScore("   ")
	require.True(t, errors.As(err, &parseErr))
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("RESUME BODY", "JD BODY")
	assert.Contains(t, prompt, "output ONLY a single integer from 0 to 100")
	assert.Contains(t, prompt, "Resume:\nRESUME BODY")
	assert.Contains(t, prompt, "Job Description:\nJD BODY")
	assert.NotContains(t, prompt, "{{.")
}

func TestAssessor_Assess(t *testing.T) {
	gen := &MockGenerator{
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return "87\n- strength one", nil
		},
	}

	n, err := NewAssessor(gen, false, nil).Assess(context.Background(), "resume", "job")
	require.NoError(t, err)
	require.NotNil(t, n.Score)
	assert.Equal(t, 87, *n.Score)
	assert.Equal(t, "- strength one", n.Display)
	assert.Equal(t, "87\n- strength one", n.Raw)
	assert.Contains(t, gen.lastPrompt, "resume")
}

func TestAssessor_SentenceScore(t *testing.T) {
	gen := &MockGenerator{
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return "The score is 87", nil
		},
	}

	n, err := NewAssessor(gen, false, nil).Assess(context.Background(), "r", "j")
	require.NoError(t, err)
	require.NotNil(t, n.Score)
	assert.Equal(t, 87, *n.Score)
	assert.Equal(t, "The score is 87", n.Display)
}

func TestAssessor_StrictRejectsSentenceScore(t *testing.T) {
	gen := &MockGenerator{
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return "The score is 87", nil
		},
	}

	n, err := NewAssessor(gen, true, nil).Assess(context.Background(), "r", "j")
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.NotNil(t, n)
	assert.Nil(t, n.Score)
	assert.Equal(t, "The score is 87", n.Display)
}

func TestAssessor_NoScore(t *testing.T) {
	gen := &MockGenerator{
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return "Strong candidate overall.", nil
		},
	}

	n, err := NewAssessor(gen, false, nil).Assess(context.Background(), "r", "j")
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Nil(t, n.Score)
	assert.Equal(t, "Strong candidate overall.", n.Display)
}

func TestAssessor_ProviderError(t *testing.T) {
	gen := &MockGenerator{
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return "", errors.New("rate limited")
		},
	}

	n, err := NewAssessor(gen, false, nil).Assess(context.Background(), "r", "j")
	require.Error(t, err)
	assert.Nil(t, n)
}

package generation

import (
	"context"
	"errors"
	"testing"

	"tutor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type stubProvider struct {
	name  string
	reply string
	err   error
	calls int
	last  Request
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(_ context.Context, req Request) (string, error) {
	s.calls++
	s.last = req
	return s.reply, s.err
}

func TestChainFallsBack(t *testing.T) {
	tests := []struct {
		name      string
		primary   *stubProvider
		secondary *stubProvider
		want      string
		wantErr   bool
	}{
		{
			name:      "primary succeeds",
			primary:   &stubProvider{name: "a", reply: "hello"},
			secondary: &stubProvider{name: "b", reply: "unused"},
			want:      "hello",
		},
		{
			name:      "primary errors",
			primary:   &stubProvider{name: "a", err: errors.New("503")},
			secondary: &stubProvider{name: "b", reply: "from b"},
			want:      "from b",
		},
		{
			name:      "primary returns empty",
			primary:   &stubProvider{name: "a", reply: "  "},
			secondary: &stubProvider{name: "b", reply: "from b"},
			want:      "from b",
		},
		{
			name:      "all fail",
			primary:   &stubProvider{name: "a", err: errors.New("503")},
			secondary: &stubProvider{name: "b", err: errors.New("401")},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := NewChain(nil, tt.primary, tt.secondary)

			got, err := chain.Generate(context.Background(), Request{Prompt: "hi"})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrGeneration)
				assert.Contains(t, err.Error(), "503")
				assert.Contains(t, err.Error(), "401")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, tt.primary.calls)
		})
	}
}

func TestChainAppliesDefaults(t *testing.T) {
	p := &stubProvider{name: "a", reply: "ok"}
	_, err := NewChain(nil, p).Generate(context.Background(), Request{Prompt: "x"})
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxTokens, p.last.MaxTokens)
	assert.InDelta(t, DefaultTemperature, p.last.Temperature, 1e-9)
}

func TestEmptyChain(t *testing.T) {
	chain := NewChain(nil, nil)
	assert.Zero(t, chain.Len())

	_, err := chain.Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, models.ErrGeneration)
}

func TestChainStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := &stubProvider{name: "a", err: context.Canceled}
	secondary := &stubProvider{name: "b", reply: "late"}
	_, err := NewChain(nil, primary, secondary).Generate(ctx, Request{Prompt: "x"})

	assert.ErrorIs(t, err, models.ErrGeneration)
	assert.Zero(t, secondary.calls)
}

type recordingModel struct {
	messages []llms.MessageContent
	opts     llms.CallOptions
	reply    string
}

func (m *recordingModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	for _, opt := range options {
		opt(&m.opts)
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *recordingModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestLLMProviderBuildsMessages(t *testing.T) {
	model := &recordingModel{reply: "Great question!"}
	provider := NewLLMProvider("openrouter", model)

	got, err := provider.Generate(context.Background(), Request{System: "be kind", Prompt: "what is a verb?"})
	require.NoError(t, err)
	assert.Equal(t, "Great question!", got)
	assert.Equal(t, "openrouter", provider.Name())

	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, DefaultMaxTokens, model.opts.MaxTokens)
	assert.InDelta(t, DefaultTemperature, model.opts.Temperature, 1e-9)
}

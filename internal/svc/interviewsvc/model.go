package interviewsvc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
)

// ChatRequest is one conversational exchange with a generative model.
type ChatRequest struct {
	SystemInstruction string
	History           []ChatTurn
	Message           string
}

// Model sends a chat exchange to a generative-language model and returns its text reply.
type Model interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// GeminiModel implements Model with the Gemini API.
// The client is created on first use, so a missing API key surfaces per request.
type GeminiModel struct {
	apiKey string
	model  string
	log    logging.Logger

	client *genai.Client
	m      *sync.Mutex
}

var _ Model = (*GeminiModel)(nil)

// NewGeminiModel creates a GeminiModel for the named model.
func NewGeminiModel(apiKey, model string) *GeminiModel {
	return &GeminiModel{
		apiKey: apiKey,
		model:  model,
		log:    logging.GetLogger("svc.interviewsvc.gemini_model").With("model", model),
		m:      new(sync.Mutex),
	}
}

// Chat implements Model.Chat.
func (g *GeminiModel) Chat(ctx context.Context, req ChatRequest) (_ string, err error) {
	defer func() {
		if err != nil {
			g.log.ErrorContext(ctx, "chat failed", "error", err)
		} else {
			g.log.DebugContext(ctx, "chat completed", "history", len(req.History))
		}
	}()

	client, err := g.getClient(ctx)
	if err != nil {
		return "", err
	}

	history := make([]*genai.Content, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, genai.NewContentFromText(turn.Text, genai.Role(turn.Role)))
	}

	//nolint:exhaustruct
	chat, err := client.Chats.Create(ctx, g.model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
	}, history)
	if err != nil {
		return "", errors.Join(domain.ErrModelFailed, fmt.Errorf("create chat: %w", err))
	}

	//nolint:exhaustruct
	resp, err := chat.SendMessage(ctx, genai.Part{Text: req.Message})
	if err != nil {
		return "", errors.Join(domain.ErrModelFailed, fmt.Errorf("send message: %w", err))
	}

	return resp.Text(), nil
}

func (g *GeminiModel) getClient(ctx context.Context) (*genai.Client, error) {
	if g.apiKey == "" {
		return nil, domain.ErrModelNotConfigured
	}

	g.m.Lock()
	defer g.m.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	//nolint:exhaustruct
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Join(domain.ErrModelFailed, fmt.Errorf("new client: %w", err))
	}

	g.client = client

	return client, nil
}

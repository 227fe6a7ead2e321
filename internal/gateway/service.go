package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
	"github.com/patrickmn/go-cache"

	"backend-honeymoonhq/internal/sse"
	"backend-honeymoonhq/internal/toolcall"
)

const (
	msgRateLimited   = "Demasiadas solicitudes, intenta en unos segundos."
	msgQuota         = "Créditos de IA agotados."
	msgChatFailed    = "Error del servicio de IA"
	msgReceiptFailed = "Error al procesar el documento"
	msgNoToolCall    = "No se pudieron extraer datos del documento"

	extractionCacheTTL = 30 * time.Minute
)

var errNotConfigured = errors.New("AI_API_KEY is not configured")

type Config struct {
	APIKey       string
	BaseURL      string
	ChatModel    string
	ExtractModel string
	HTTPClient   *http.Client
}

// APIError is returned to callers as {"error": Message} with Status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Service proxies planner requests to an OpenAI-compatible upstream.
type Service struct {
	client       openai.Client
	configured   bool
	chatModel    string
	extractModel string
	tools        []openai.ChatCompletionToolParam
	extractions  *cache.Cache
}

func NewService(cfg Config) *Service {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	tools := make([]openai.ChatCompletionToolParam, 0, 3)
	for _, t := range toolcall.Schemas() {
		tools = append(tools, functionTool(t.Name, t.Description, t.Parameters))
	}

	return &Service{
		client:       openai.NewClient(opts...),
		configured:   cfg.APIKey != "",
		chatModel:    cfg.ChatModel,
		extractModel: cfg.ExtractModel,
		tools:        tools,
		extractions:  cache.New(extractionCacheTTL, 2*extractionCacheTTL),
	}
}

func functionTool(name, description string, params map[string]any) openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        name,
			Description: openai.String(description),
			Parameters:  openai.FunctionParameters(params),
		},
	}
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatStream is an upstream completion whose first chunk has already been
// received, so upstream failures are known before any byte is sent.
type ChatStream struct {
	stream *ssestream.Stream[openai.ChatCompletionChunk]
	more   bool
}

// OpenChat starts a streaming completion for the conversation.
func (s *Service) OpenChat(ctx context.Context, messages []ChatMessage, tc *TripContext) (*ChatStream, error) {
	if !s.configured {
		return nil, &APIError{Status: http.StatusInternalServerError, Message: errNotConfigured.Error()}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(s.chatModel),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1),
		Tools:    s.tools,
	}
	params.Messages = append(params.Messages, openai.SystemMessage(buildSystemPrompt(tc)))
	for _, m := range messages {
		switch m.Role {
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	stream := s.client.Chat.Completions.NewStreaming(ctx, params)
	more := stream.Next()
	if !more && stream.Err() != nil {
		err := stream.Err()
		_ = stream.Close()
		return nil, upstreamError("chat", err, msgChatFailed)
	}
	return &ChatStream{stream: stream, more: more}, nil
}

// WriteTo relays every chunk as a data record and ends with [DONE]. An
// upstream failure mid-stream ends the relay early.
func (cs *ChatStream) WriteTo(w *bufio.Writer) {
	defer cs.stream.Close()
	for cs.more {
		chunk := cs.stream.Current()
		if err := sse.WriteData(w, chunk.RawJSON()); err != nil {
			log.Printf("gateway chat: client went away: %v", err)
			return
		}
		cs.more = cs.stream.Next()
	}
	if err := cs.stream.Err(); err != nil {
		log.Printf("gateway chat: upstream stream error: %v", err)
	}
	if err := sse.WriteDone(w); err != nil {
		log.Printf("gateway chat: write done: %v", err)
	}
}

// ExtractReceipt forces the extraction tool on the document at imageURL and
// returns the tool arguments. Results are cached per URL.
func (s *Service) ExtractReceipt(ctx context.Context, imageURL, fileType string) (map[string]any, error) {
	if cached, ok := s.extractions.Get(imageURL); ok {
		return cached.(map[string]any), nil
	}
	if !s.configured {
		return nil, &APIError{Status: http.StatusInternalServerError, Message: errNotConfigured.Error()}
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.extractModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(extractionPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(extractionInstruction),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: imageURL}),
			}),
		},
		Tools: []openai.ChatCompletionToolParam{
			functionTool(receiptToolName, "Extract structured data from a travel receipt/booking confirmation", receiptToolParameters),
		},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{Name: receiptToolName},
			},
		},
	}

	completion, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, upstreamError("parse-receipt", err, msgReceiptFailed)
	}
	if len(completion.Choices) == 0 || len(completion.Choices[0].Message.ToolCalls) == 0 ||
		completion.Choices[0].Message.ToolCalls[0].Function.Name != receiptToolName {
		return nil, &APIError{Status: http.StatusUnprocessableEntity, Message: msgNoToolCall}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.ToolCalls[0].Function.Arguments), &data); err != nil {
		log.Printf("gateway parse-receipt: bad tool arguments: %v", err)
		return nil, &APIError{Status: http.StatusInternalServerError, Message: err.Error()}
	}
	s.extractions.Set(imageURL, data, cache.DefaultExpiration)
	return data, nil
}

func upstreamError(op string, err error, fallback string) *APIError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return &APIError{Status: http.StatusTooManyRequests, Message: msgRateLimited}
		case http.StatusPaymentRequired:
			return &APIError{Status: http.StatusPaymentRequired, Message: msgQuota}
		}
	}
	log.Printf("gateway %s: upstream error: %v", op, err)
	return &APIError{Status: http.StatusInternalServerError, Message: fallback}
}

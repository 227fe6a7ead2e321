package chat

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"backend-honeymoonhq/internal/toolcall"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const Greeting = "¡Hola! ✨ Soy tu asistente de viajes. Puedo **crear eventos**, **mostrar tu itinerario visual** o **sugerir experiencias románticas**. ¿En qué te ayudo?"

var (
	ErrTurnInProgress = errors.New("chat: a turn is already in progress")
	ErrEmptyMessage   = errors.New("chat: message is empty")
	ErrSessionClosed  = errors.New("chat: session closed")
)

type Message struct {
	ID        string          `json:"id"`
	Role      Role            `json:"role"`
	Content   string          `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
	ToolCalls []toolcall.Call `json:"toolCalls,omitempty"`
}

// HistoryMessage is one replayed turn. Tool payloads are never replayed.
type HistoryMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type TripContext struct {
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	CoupleNames []string `json:"coupleNames,omitempty"`
}

// Request is the body sent to the chat streaming endpoint.
type Request struct {
	Messages    []HistoryMessage `json:"messages"`
	TripContext *TripContext     `json:"tripContext,omitempty"`
}

// StatusError is a non-2xx answer from the chat endpoint.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat endpoint returned %d: %s", e.Status, e.Message)
}

type ErrorKind string

const (
	KindRateLimited ErrorKind = "rate_limited"
	KindQuota       ErrorKind = "quota_exhausted"
	KindFailed      ErrorKind = "failed"
)

const (
	msgRateLimited = "Demasiadas solicitudes, espera un momento"
	msgQuota       = "Créditos de IA agotados"
	msgFailed      = "Error al contactar el asistente"
)

// TurnError is an abandoned turn. Message is safe to show to the user.
type TurnError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("chat turn %s: %v", e.Kind, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

func classify(err error) *TurnError {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return &TurnError{Kind: KindFailed, Message: msgFailed, Err: err}
	}
	switch statusErr.Status {
	case http.StatusTooManyRequests:
		return &TurnError{Kind: KindRateLimited, Status: statusErr.Status, Message: msgRateLimited, Err: err}
	case http.StatusPaymentRequired:
		return &TurnError{Kind: KindQuota, Status: statusErr.Status, Message: msgQuota, Err: err}
	}
	msg := statusErr.Message
	if msg == "" {
		msg = msgFailed
	}
	return &TurnError{Kind: KindFailed, Status: statusErr.Status, Message: msg, Err: err}
}

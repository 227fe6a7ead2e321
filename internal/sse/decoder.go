package sse

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"

	// DefaultMaxPending bounds both an unterminated line and a re-merged
	// partial payload.
	DefaultMaxPending = 1 << 20

	readChunkSize = 4096
)

// ErrPayloadTooLarge is returned when a line or a partial payload keeps growing
// past the configured limit without ever becoming valid JSON.
var ErrPayloadTooLarge = errors.New("sse: pending payload exceeds limit")

// Delta is the incremental message body carried by one chat-completion chunk.
type Delta struct {
	Content   string             `json:"content,omitempty"`
	ToolCalls []ToolCallFragment `json:"tool_calls,omitempty"`
}

type ToolCallFragment struct {
	Index    int              `json:"index"`
	Function FunctionFragment `json:"function"`
}

type FunctionFragment struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

type chunk struct {
	Choices []struct {
		Delta *Delta `json:"delta"`
	} `json:"choices"`
}

type Option func(*Decoder)

// WithMaxPending overrides DefaultMaxPending.
func WithMaxPending(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxPending = n
		}
	}
}

// Decoder turns a server-sent-event byte stream into chat deltas. It is not
// safe for concurrent use and cannot be restarted.
type Decoder struct {
	r          io.Reader
	buf        []byte
	scratch    []byte
	eof        bool
	done       bool
	pending    string
	maxPending int
}

func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{
		r:          r,
		scratch:    make([]byte, readChunkSize),
		maxPending: DefaultMaxPending,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NextLine returns the next logical line with its trailing CR removed. Once the
// underlying reader is exhausted any unterminated remainder is returned as a
// final line, then io.EOF.
func (d *Decoder) NextLine() (string, error) {
	for {
		if i := bytes.IndexByte(d.buf, '\n'); i >= 0 {
			line := string(d.buf[:i])
			d.buf = d.buf[i+1:]
			return strings.TrimSuffix(line, "\r"), nil
		}
		if d.eof {
			if len(d.buf) == 0 {
				return "", io.EOF
			}
			line := string(d.buf)
			d.buf = nil
			return strings.TrimSuffix(line, "\r"), nil
		}
		if len(d.buf) > d.maxPending {
			return "", ErrPayloadTooLarge
		}

		n, err := d.r.Read(d.scratch)
		d.buf = append(d.buf, d.scratch[:n]...)
		if errors.Is(err, io.EOF) {
			d.eof = true
		} else if err != nil {
			return "", err
		}
	}
}

// Next returns the next delta. It returns io.EOF when the stream ends or the
// [DONE] sentinel is seen.
func (d *Decoder) Next() (Delta, error) {
	if d.done {
		return Delta{}, io.EOF
	}
	for {
		line, err := d.NextLine()
		if errors.Is(err, io.EOF) {
			if d.pending != "" {
				log.Printf("sse: dropping unparseable payload at end of stream (%d bytes)", len(d.pending))
				d.pending = ""
			}
			d.done = true
			return Delta{}, io.EOF
		}
		if err != nil {
			return Delta{}, err
		}

		if d.pending != "" {
			if strings.TrimSpace(line) == "" {
				continue
			}
			joined := d.pending + "\n" + line
			delta, ok, perr := decodePayload(joined)
			if perr == nil {
				d.pending = ""
				if ok {
					return delta, nil
				}
				continue
			}
			if !strings.HasPrefix(line, dataPrefix) {
				if len(joined) > d.maxPending {
					return Delta{}, ErrPayloadTooLarge
				}
				d.pending = joined
				continue
			}
			log.Printf("sse: dropping unparseable payload (%d bytes)", len(d.pending))
			d.pending = ""
		}

		payload, isData := dataPayload(line)
		if !isData {
			continue
		}
		if payload == doneSentinel {
			d.done = true
			return Delta{}, io.EOF
		}

		delta, ok, perr := decodePayload(payload)
		if perr != nil {
			// Most likely a record read before the sender finished writing it.
			if len(payload) > d.maxPending {
				return Delta{}, ErrPayloadTooLarge
			}
			d.pending = payload
			continue
		}
		if ok {
			return delta, nil
		}
	}
}

func dataPayload(line string) (string, bool) {
	if strings.HasPrefix(line, ":") || strings.TrimSpace(line) == "" {
		return "", false
	}
	if !strings.HasPrefix(line, dataPrefix) {
		return "", false
	}
	return strings.TrimSpace(line[len(dataPrefix):]), true
}

func decodePayload(payload string) (Delta, bool, error) {
	var c chunk
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Delta{}, false, err
	}
	if len(c.Choices) == 0 || c.Choices[0].Delta == nil {
		return Delta{}, false, nil
	}
	return *c.Choices[0].Delta, true, nil
}

package receipt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"backend-honeymoonhq/internal/itinerary"
)

var (
	ErrNoBlobStore   = errors.New("receipt: no blob store configured")
	ErrEventNotFound = errors.New("receipt: event not found")

	nowFn       = time.Now
	afterFuncFn = time.AfterFunc
)

type Options struct {
	// ConfirmOnUploadBeforeVerify confirms the event and attaches the document
	// as soon as the upload succeeds. The confirmation is kept even if the
	// extraction later fails. When false the event is only confirmed together
	// with a successful extraction.
	ConfirmOnUploadBeforeVerify bool
	// AnalyzingDelay postpones the analyzing notification. The extraction
	// request itself is sent immediately.
	AnalyzingDelay time.Duration
	// DismissAfter returns the pipeline to idle after done.
	DismissAfter time.Duration
}

func DefaultOptions() Options {
	return Options{
		ConfirmOnUploadBeforeVerify: true,
		AnalyzingDelay:              500 * time.Millisecond,
		DismissAfter:                3 * time.Second,
	}
}

// Outcome describes a finished upload. Extraction is nil when the extraction
// step failed.
type Outcome struct {
	Path          string      `json:"path"`
	AttachmentURL string      `json:"attachmentUrl"`
	Extraction    *Extraction `json:"extraction,omitempty"`
	Message       string      `json:"message"`
}

type Pipeline struct {
	blobs     BlobStore
	extractor Extractor
	events    Events
	opts      Options
	onState   func(Update)
}

// NewPipeline wires the collaborators. blobs may be nil, in which case every
// upload fails without touching the event.
func NewPipeline(blobs BlobStore, extractor Extractor, events Events, opts Options) *Pipeline {
	return &Pipeline{blobs: blobs, extractor: extractor, events: events, opts: opts}
}

// OnState registers the state listener. It must be set before the first
// upload.
func (p *Pipeline) OnState(fn func(Update)) {
	p.onState = fn
}

// Upload stores the document for eventID and merges whatever the extractor
// reads from it. A non-nil error with a zero Outcome means the upload itself
// failed; an *ExtractionError comes with the Outcome of the successful upload.
func (p *Pipeline) Upload(ctx context.Context, eventID, filename, contentType string, r io.Reader) (Outcome, error) {
	p.emit(eventID, StateUploading, "")

	if _, ok := p.events.Event(eventID); !ok {
		p.emit(eventID, StateIdle, msgUploadError)
		return Outcome{}, ErrEventNotFound
	}
	if p.blobs == nil {
		p.emit(eventID, StateIdle, msgUploadError)
		return Outcome{}, ErrNoBlobStore
	}

	path := ObjectPath(eventID, filename, contentType, nowFn())
	stored, err := p.blobs.Upload(ctx, path, r, contentType)
	if err != nil {
		p.emit(eventID, StateIdle, msgUploadError)
		return Outcome{}, fmt.Errorf("upload %s: %w", path, err)
	}
	url, err := p.blobs.PublicURL(stored)
	if err != nil {
		p.emit(eventID, StateIdle, msgUploadError)
		return Outcome{}, fmt.Errorf("public url %s: %w", stored, err)
	}

	out := Outcome{Path: stored, AttachmentURL: url, Message: msgUploaded}
	if p.opts.ConfirmOnUploadBeforeVerify {
		p.events.UpdateEvent(eventID, confirmPatch(url))
	}

	var once sync.Once
	analyzing := func() { once.Do(func() { p.emit(eventID, StateAnalyzing, "") }) }
	timer := afterFuncFn(p.opts.AnalyzingDelay, analyzing)

	extraction, err := p.extractor.Extract(ctx, url, contentType)
	timer.Stop()
	analyzing()

	if err != nil {
		var exErr *ExtractionError
		if !errors.As(err, &exErr) {
			exErr = &ExtractionError{Detail: err.Error()}
		}
		log.Printf("receipt: extraction for %s failed: %v", eventID, err)
		out.Message = exErr.Message()
		p.emit(eventID, StateIdle, out.Message)
		return out, exErr
	}

	p.events.ModifyEvent(eventID, func(current itinerary.Event) itinerary.Patch {
		patch := mergePatch(current, extraction)
		if !p.opts.ConfirmOnUploadBeforeVerify {
			confirm := confirmPatch(url)
			patch.Status = confirm.Status
			patch.AttachmentURL = confirm.AttachmentURL
		}
		return patch
	})

	out.Extraction = &extraction
	out.Message = msgExtracted
	p.emit(eventID, StateDone, out.Message)
	if p.opts.DismissAfter > 0 {
		afterFuncFn(p.opts.DismissAfter, func() { p.emit(eventID, StateIdle, "") })
	}
	return out, nil
}

func (p *Pipeline) emit(eventID string, state State, message string) {
	if p.onState != nil {
		p.onState(Update{EventID: eventID, State: state, Message: message})
	}
}

// ObjectPath builds "<eventId>/<unix-millis>.<ext>". The extension comes from
// the file name, then the content type, then "bin".
func ObjectPath(eventID, filename, contentType string, now time.Time) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = strings.TrimPrefix(exts[0], ".")
		}
	}
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%d.%s", eventID, now.UnixMilli(), ext)
}

func confirmPatch(url string) itinerary.Patch {
	status := itinerary.StatusConfirmed
	return itinerary.Patch{Status: &status, AttachmentURL: &url}
}

func mergePatch(current itinerary.Event, ex Extraction) itinerary.Patch {
	source := itinerary.SourceFileParsed
	patch := itinerary.Patch{Source: &source}
	if ex.Start != "" {
		patch.Start = &ex.Start
	}
	if ex.End != "" {
		patch.End = &ex.End
	}
	if ex.Cost != nil {
		cost := *ex.Cost
		patch.CostActual = &cost
	}
	if ex.Currency != "" {
		patch.Currency = &ex.Currency
	}
	if ex.Location != "" {
		patch.Location = &ex.Location
	}
	if ex.Title != "" {
		patch.Title = &ex.Title
	}

	notes := ex.Notes
	if notes == "" && ex.ConfirmationCode != "" {
		notes = current.Notes
	}
	if ex.ConfirmationCode != "" {
		if notes != "" {
			notes = fmt.Sprintf("Ref: %s. %s", ex.ConfirmationCode, notes)
		} else {
			notes = "Ref: " + ex.ConfirmationCode
		}
	}
	if notes != "" {
		patch.Notes = &notes
	}
	return patch
}

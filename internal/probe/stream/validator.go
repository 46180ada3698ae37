package stream

import (
	"errors"
	"fmt"

	"golang-stock-proxy/internal/probe/dto"
)

var (
	ErrNoStartedEvent   = errors.New("stream has no started event")
	ErrNoFinalResult    = errors.New("stream has no final_result event")
	ErrMultipleFinal    = errors.New("stream has more than one final_result event")
	ErrFinalNotLast     = errors.New("final_result is not the last event")
	ErrInvalidFinalData = errors.New("final_result data is not an analysis report")
)

// Summary counts what a stream carried.
type Summary struct {
	Started      int
	Progress     int
	Content      int
	Final        int
	Keepalive    int
	Unknown      int
	Malformed    int
	ContentChars int

	// FinalIsLast is true while no classified event has followed the final_result.
	FinalIsLast  bool
	LastProgress *dto.ProgressData
	Result       *dto.AnalysisResult
	ResultErr    error
}

// Validator checks the ordering contract of an analysis stream: at least one
// started event, any number of progress and streaming_content events, then
// exactly one final_result which closes the stream. Keepalive and unknown
// events are counted and otherwise ignored.
type Validator struct {
	summary Summary
}

// NewValidator creates an empty Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Observe records an event.
func (v *Validator) Observe(event dto.StreamEvent) {
	s := &v.summary

	switch event.Type {
	case dto.EventKeepalive:
		s.Keepalive++
		return
	case dto.EventStarted:
		s.Started++
	case dto.EventProgress:
		s.Progress++
		if p, err := event.Progress(); err == nil {
			s.LastProgress = p
		}
	case dto.EventStreamingContent:
		s.Content++
		s.ContentChars += len([]rune(event.Content))
	case dto.EventFinalResult:
		s.Final++
		s.FinalIsLast = true
		result, err := event.Result()
		if err != nil {
			s.ResultErr = err
		} else {
			s.Result = result
		}
		return
	default:
		s.Unknown++
		return
	}

	s.FinalIsLast = false
}

// ObserveMalformed records a frame that could not be decoded.
func (v *Validator) ObserveMalformed(error) {
	v.summary.Malformed++
}

// Summary returns the counts observed so far.
func (v *Validator) Summary() Summary {
	return v.summary
}

// Validate returns nil when the observed stream honours the contract.
func (v *Validator) Validate() error {
	s := v.summary
	switch {
	case s.Started == 0:
		return ErrNoStartedEvent
	case s.Final == 0:
		return ErrNoFinalResult
	case s.Final > 1:
		return fmt.Errorf("%w: got %d", ErrMultipleFinal, s.Final)
	case !s.FinalIsLast:
		return ErrFinalNotLast
	case s.ResultErr != nil:
		return fmt.Errorf("%w: %v", ErrInvalidFinalData, s.ResultErr)
	}
	return nil
}

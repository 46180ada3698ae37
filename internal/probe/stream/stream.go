package stream

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang-stock-proxy/internal/probe/dto"

	"github.com/kaptinlin/jsonrepair"
)

const (
	dataPrefix = "data: "

	// final_result frames carry the whole report on one line
	maxFrameSize = 4 * 1024 * 1024
)

// ErrMalformedFrame is returned for data frames that are not JSON even after repair.
var ErrMalformedFrame = errors.New("malformed stream frame")

// ParseLine decodes a single line of the event stream. ok is false for
// blank lines, comments and any line without the "data: " prefix.
func ParseLine(line string) (event dto.StreamEvent, ok bool, err error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, dataPrefix) {
		return dto.StreamEvent{}, false, nil
	}

	payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if err := json.Unmarshal([]byte(payload), &event); err == nil {
		return event, true, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(payload)
	if repairErr != nil {
		return dto.StreamEvent{}, true, fmt.Errorf("%w: %v", ErrMalformedFrame, repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), &event); err != nil {
		return dto.StreamEvent{}, true, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return event, true, nil
}

// Read scans r line by line and hands every decoded event to fn in arrival
// order. Malformed frames are reported through onError and skipped. Read
// returns when r is exhausted, fn returns an error or the scanner fails.
func Read(r io.Reader, fn func(dto.StreamEvent) error, onError func(error)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxFrameSize)

	for scanner.Scan() {
		event, ok, err := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		if err != nil {
			if onError != nil {
				onError(err)
			}
			continue
		}
		if err := fn(event); err != nil {
			return err
		}
	}
	return scanner.Err()
}

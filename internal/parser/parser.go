// Package parser turns raw access-log lines into records.
//
// Rejected lines never surface as errors from Parse: they are counted,
// logged with their line number and skipped.
package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/akave-ai/logaudit/internal/model"
)

const ctxCheckEvery = 1024

// Result is the outcome of parsing one input.
type Result struct {
	Records    []model.LogRecord
	TotalLines int
	Blank      int
	Rejected   int
}

// Parser applies a LineDecoder to every line of an input.
type Parser struct {
	decoder LineDecoder
	logger  zerolog.Logger
}

// New returns a Parser using decoder. Rejections are logged on logger.
func New(decoder LineDecoder, logger zerolog.Logger) *Parser {
	return &Parser{decoder: decoder, logger: logger}
}

// ParseLine parses a single line. seq is the 1-based line number.
// Invalid UTF-8 is replaced, never fatal.
func (p *Parser) ParseLine(line string, seq int) (model.LogRecord, error) {
	line = strings.TrimSpace(strings.ToValidUTF8(line, "\uFFFD"))
	if line == "" {
		return model.LogRecord{}, ErrBlankLine
	}
	return p.decoder.Decode(line, seq)
}

// Parse reads r to the end. Only read failures and context cancellation
// are returned as errors.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	br := bufio.NewReader(r)
	for {
		if res.TotalLines%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		line, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return res, fmt.Errorf("read line %d: %w", res.TotalLines+1, readErr)
		}
		if line == "" && readErr == io.EOF {
			break
		}

		res.TotalLines++
		rec, err := p.ParseLine(line, res.TotalLines)
		switch {
		case err == nil:
			res.Records = append(res.Records, rec)
		case errors.Is(err, ErrBlankLine):
			res.Blank++
			p.logger.Debug().Int("line", res.TotalLines).Msg("skipped blank line")
		default:
			res.Rejected++
			ev := p.logger.Warn().Int("line", res.TotalLines).Str("format", p.decoder.Name())
			var mle *MalformedLineError
			if errors.As(err, &mle) {
				ev = ev.Str("reason", string(mle.Reason)).Str("preview", mle.Preview)
			}
			ev.Msg("skipped invalid line")
		}

		if readErr == io.EOF {
			break
		}
	}

	p.logger.Info().
		Int("records", len(res.Records)).
		Int("rejected", res.Rejected).
		Int("blank", res.Blank).
		Msg("parsed input")
	return res, nil
}

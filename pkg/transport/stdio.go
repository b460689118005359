package transport

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	mcperrors "github.com/TalBarda8/mcp-modular-architecture/pkg/errors"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/logging"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
)

// StdioTransport runs the request/response loop over a pair of byte
// streams, stdin and stdout by default. Each line is decoded, dispatched to
// the handler and answered before the next line is read.
type StdioTransport struct {
	handler Handler
	logger  logging.Logger

	reader io.Reader
	writer io.Writer
	framer *Framer

	done     chan struct{}
	stopOnce sync.Once
}

// StdioOption configures a StdioTransport.
type StdioOption func(*StdioTransport)

// WithStreams directs the transport at a custom reader and writer instead
// of os.Stdin and os.Stdout. Used by tests and in-process clients.
func WithStreams(r io.Reader, w io.Writer) StdioOption {
	return func(t *StdioTransport) {
		t.reader = r
		t.writer = w
	}
}

// WithLogger sets the transport logger.
func WithLogger(logger logging.Logger) StdioOption {
	return func(t *StdioTransport) {
		t.logger = logger
	}
}

// NewStdioTransport creates a stdio transport that feeds decoded requests
// to the given handler.
func NewStdioTransport(handler Handler, opts ...StdioOption) *StdioTransport {
	t := &StdioTransport{
		handler: handler,
		logger:  logging.GetGlobalLogger(),
		reader:  os.Stdin,
		writer:  os.Stdout,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.framer = NewFramer(t.reader, t.writer)
	return t
}

// Run reads messages until the input stream closes, dispatching each one
// and writing back the response. It returns nil on clean end of stream or
// Stop, and the context error on cancellation.
func (t *StdioTransport) Run(ctx context.Context) error {
	t.logger.Info("Transport started", logging.String("transport", "stdio"))

	g, gctx := errgroup.WithContext(ctx)
	readerDone := make(chan struct{})

	g.Go(func() error {
		defer close(readerDone)
		for {
			line, err := t.framer.ReadMessage()
			if err == io.EOF {
				t.logger.Info("Input stream closed, shutting down")
				return nil
			}
			if err != nil {
				// A read error after cancellation or Stop is just the
				// watchdog unblocking us; report the real cause instead.
				select {
				case <-gctx.Done():
					return gctx.Err()
				case <-t.done:
					return nil
				default:
				}
				return fmt.Errorf("failed to read message: %w", err)
			}

			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-t.done:
				return nil
			default:
			}

			t.processLine(gctx, line)
		}
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
			t.closeReader()
			return gctx.Err()
		case <-t.done:
			t.closeReader()
			return nil
		case <-readerDone:
			return nil
		}
	})

	err := g.Wait()
	t.logger.Info("Transport stopped", logging.String("transport", "stdio"))
	return err
}

// Stop terminates the run loop. Safe to call multiple times and before Run.
func (t *StdioTransport) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
	})
}

// processLine decodes and dispatches a single line. Panics are contained
// here so one bad message cannot take down the loop; the dispatcher has its
// own recovery, this is the transport's backstop.
func (t *StdioTransport) processLine(ctx context.Context, line []byte) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Panic while processing message",
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())),
			)
		}
	}()

	req, err := protocol.ParseRequest(line)
	if err != nil {
		if id, ok := protocol.RecoverID(line); ok {
			t.send(mcperrors.ToResponse(id, mcperrors.MalformedMessage(err)))
		} else {
			t.logger.WithError(err).Warn("Discarding malformed message")
		}
		return
	}

	// One request id per wire message; every log line and span under this
	// dispatch correlates through it.
	ctx = logging.ContextWithRequestID(ctx, uuid.New().String())

	if resp := t.handler.Handle(ctx, req); resp != nil {
		t.send(resp)
	}
}

func (t *StdioTransport) send(resp *protocol.ResponseEnvelope) {
	if err := t.framer.WriteMessage(resp); err != nil {
		t.logger.WithError(err).Error("Failed to write response")
	}
}

// closeReader unblocks a pending read when the reader supports closing.
// os.Stdin does; test pipes do too.
func (t *StdioTransport) closeReader() {
	if c, ok := t.reader.(io.Closer); ok {
		_ = c.Close()
	}
}

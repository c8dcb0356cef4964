package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/blockberries/leaseberry/logging"
)

// Stream errors.
var (
	// ErrStreamClosed is returned when reading from a closed status stream.
	ErrStreamClosed = errors.New("status stream closed")
)

// statusMessage is the wire form of one status update pushed by the
// gateway's websocket endpoint.
type statusMessage struct {
	TxHash string `json:"txHash"`
	Status string `json:"status"`
}

// StatusStream consumes the gateway's websocket transaction-status feed.
// It is an alternative settlement source to polling: the tracker can feed
// its pending set from Events instead of (or in addition to) per-hash
// status polls.
type StatusStream struct {
	url    string
	logger *logging.Logger

	events chan StatusEvent
	closed atomic.Bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// DialStatusStream connects to the gateway's websocket status endpoint
// and starts delivering events. The stream stops when ctx is cancelled or
// Close is called.
func DialStatusStream(ctx context.Context, url string, logger *logging.Logger) (*StatusStream, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	dialCtx, cancelDial := context.WithTimeout(ctx, 10*time.Second)
	defer cancelDial()

	conn, br, _, err := ws.Dial(dialCtx, url)
	if err != nil {
		return nil, err
	}

	// Frames that arrive bundled with the handshake response sit in the
	// returned buffered reader. Reading the bare conn would skip them.
	var rw io.ReadWriter = conn
	if br != nil {
		rw = struct {
			io.Reader
			io.Writer
		}{io.MultiReader(br, conn), conn}
	}

	streamCtx, cancel := context.WithCancel(ctx)
	s := &StatusStream{
		url:    url,
		logger: logger.WithComponent("status_stream"),
		events: make(chan StatusEvent, 64),
		cancel: cancel,
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		<-streamCtx.Done()
		conn.Close()
	}()
	go func() {
		defer s.wg.Done()
		defer close(s.events)
		for {
			payload, err := wsutil.ReadServerText(rw)
			if err != nil {
				if !s.closed.Load() {
					s.logger.Debug("status stream read ended", logging.Error(err))
				}
				return
			}
			var msg statusMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				s.logger.Warn("dropping malformed status message", logging.Error(err))
				continue
			}
			event := StatusEvent{TxHash: msg.TxHash, Status: TxStatus(msg.Status)}
			select {
			case s.events <- event:
			case <-streamCtx.Done():
				return
			}
		}
	}()

	return s, nil
}

// Events returns the stream of status updates. The channel closes when
// the stream ends.
func (s *StatusStream) Events() <-chan StatusEvent {
	return s.events
}

// Close stops the stream and releases the connection.
func (s *StatusStream) Close() error {
	if s.closed.Swap(true) {
		return ErrStreamClosed
	}
	s.cancel()
	s.wg.Wait()
	return nil
}

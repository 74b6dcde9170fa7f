// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/api/restutil"
	"github.com/kinetixfi/kinetix-tokenomics/api/types"
	"github.com/kinetixfi/kinetix-tokenomics/log"
	"github.com/kinetixfi/kinetix-tokenomics/runtime"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

type Subscriptions struct {
	backtraceLimit uint32
	rt             *runtime.Runtime
	upgrader       *websocket.Upgrader
	done           chan struct{}
	closeOnce      sync.Once
	wg             sync.WaitGroup
}

func New(rt *runtime.Runtime, allowedOrigins []string, backtraceLimit uint32) *Subscriptions {
	return &Subscriptions{
		backtraceLimit: backtraceLimit,
		rt:             rt,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
		done: make(chan struct{}),
	}
}

func parseEventCriteria(req *http.Request) (*types.EventCriteria, error) {
	query := req.URL.Query()

	var criteria types.EventCriteria
	if s := query.Get("addr"); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, restutil.BadRequest(errors.WithMessage(err, "addr"))
		}
		criteria.Address = &addr
	}

	topics := []**thor.Bytes32{
		&criteria.Topic0,
		&criteria.Topic1,
		&criteria.Topic2,
		&criteria.Topic3,
		&criteria.Topic4,
	}
	for i, topic := range topics {
		key := fmt.Sprintf("t%d", i)
		s := query.Get(key)
		if s == "" {
			continue
		}
		t, err := thor.ParseBytes32(s)
		if err != nil {
			return nil, restutil.BadRequest(errors.WithMessage(err, key))
		}
		*topic = &t
	}
	return &criteria, nil
}

// parsePosition returns the number of the block after which the stream starts.
func (s *Subscriptions) parsePosition(posStr string) (uint32, error) {
	head := s.rt.Head()
	if posStr == "" {
		return head.Number, nil
	}
	pos, err := thor.ParseBytes32(posStr)
	if err != nil {
		return 0, restutil.BadRequest(errors.WithMessage(err, "pos"))
	}
	num := thor.BlockNumber(pos)
	if num > head.Number {
		return 0, restutil.BadRequest(errors.New("pos: not found"))
	}
	if head.Number-num > s.backtraceLimit {
		return 0, restutil.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	blk, err := s.rt.GetBlock(num)
	if err != nil {
		return 0, err
	}
	if blk.ID != pos {
		return 0, restutil.BadRequest(errors.New("pos: not found"))
	}
	return num, nil
}

func (s *Subscriptions) handleEventSubject(w http.ResponseWriter, req *http.Request) error {
	criteria, err := parseEventCriteria(req)
	if err != nil {
		return err
	}

	// subscribe before reading the position, so no block falls in between
	ch := make(chan *runtime.Block, 16)
	sub := s.rt.SubscribeBlocks(ch)
	defer sub.Unsubscribe()

	position, err := s.parsePosition(req.URL.Query().Get("pos"))
	if err != nil {
		return err
	}

	s.wg.Add(1)
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer conn.Close()

	reader := newEventReader(s.rt, position, criteria)
	if err := s.pipe(conn, reader, ch, sub.Err()); err != nil {
		// likely conn broken
		logger.Debug("error in websocket pipe", "err", err)
		return nil
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader *eventReader, ch <-chan *runtime.Block, subErr <-chan error) error {
	closed := make(chan struct{})
	// start read loop to handle close event
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read error", "err", err)
				return
			}
		}
	}()

	write := func(msgs []any) error {
		for _, msg := range msgs {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		return nil
	}

	msgs, err := reader.Read(s.rt.Head().Number, nil)
	if err != nil {
		return err
	}
	if err := write(msgs); err != nil {
		return err
	}

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-s.done:
			if err := conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "service closed"), time.Now().Add(writeWait)); err != nil {
				return err
			}
			return nil
		case <-closed:
			return nil
		case err := <-subErr:
			// nil when the runtime shuts down
			return err
		case blk := <-ch:
			msgs, err := reader.Read(blk.Number, blk)
			if err != nil {
				return err
			}
			if err := write(msgs); err != nil {
				return err
			}
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close closes all subscriptions.
func (s *Subscriptions) Close() {
	s.closeOnce.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodGet).
		Name("WS /subscriptions/event").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleEventSubject))
}

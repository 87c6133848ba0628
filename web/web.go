// Package web serves the status panel: a websocket push of view model
// updates plus the latest screenshot per game.
package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"gbplay/interfaces"
)

type Server struct {
	listenAddr string

	status interfaces.StatusProvider

	mux *http.ServeMux

	socketsRw sync.RWMutex
	sockets   []*Socket

	// broadcast channel to all sockets:
	q chan ViewModelUpdate
}

type Socket struct {
	srv  *Server
	req  *http.Request
	conn net.Conn

	// write channel:
	q chan ViewModelUpdate
	// closed by the reader on disconnect; releases the writer:
	done chan struct{}
}

type ViewModelUpdate struct {
	View      string      `json:"v"`
	ViewModel interface{} `json:"m"`
}

// NewServer builds the panel server; status feeds new connections their
// initial state and answers screenshot requests.
func NewServer(listenAddr string, status interfaces.StatusProvider) *Server {
	s := &Server{
		listenAddr: listenAddr,
		status:     status,
		mux:        http.NewServeMux(),
		sockets:    make([]*Socket, 0, 2),
		q:          make(chan ViewModelUpdate, 10),
	}

	// handle websockets:
	s.mux.Handle("/ws/", http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(req, rw)
		if err != nil {
			log.Println(err)
			rw.WriteHeader(400)
			return
		}

		socket := NewSocket(s, req, conn)
		s.appendSocket(socket)

		// start by sending current state to this new socket:
		s.status.NotifyViewTo(socket)
	}))

	// latest GIF per definition:
	s.mux.Handle("/screenshot/", http.HandlerFunc(s.handleScreenshot))

	s.mux.Handle("/", http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/" {
			http.NotFound(rw, req)
			return
		}
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = rw.Write([]byte(indexHTML))
	}))

	// handle the broadcast channel:
	go s.handleBroadcast()

	return s
}

func (s *Server) handleScreenshot(rw http.ResponseWriter, req *http.Request) {
	name := strings.TrimPrefix(req.URL.Path, "/screenshot/")
	name = strings.TrimSuffix(name, ".gif")
	if name == "" || strings.Contains(name, "/") {
		http.NotFound(rw, req)
		return
	}

	data, ok := s.status.LatestScreenshot(name)
	if !ok {
		http.NotFound(rw, req)
		return
	}

	rw.Header().Set("Content-Type", "image/gif")
	rw.Header().Set("Cache-Control", "no-store")
	_, _ = rw.Write(data)
}

func (s *Server) appendSocket(socket *Socket) {
	s.socketsRw.Lock()
	defer s.socketsRw.Unlock()
	s.sockets = append(s.sockets, socket)
}

func (s *Server) removeSocket(k *Socket) {
	s.socketsRw.Lock()
	defer s.socketsRw.Unlock()

	for i, sk := range s.sockets {
		if sk == k {
			s.sockets = append(s.sockets[:i], s.sockets[i+1:]...)
			break
		}
	}
}

func (s *Server) Serve() error {
	return http.ListenAndServe(s.listenAddr, s.mux)
}

func (s *Server) NotifyView(view string, viewModel interface{}) {
	// send to the broadcast channel so that all connected websockets get the update:
	s.q <- ViewModelUpdate{
		View:      view,
		ViewModel: viewModel,
	}
}

func (s *Server) handleBroadcast() {
	for u := range s.q {
		s.socketsRw.RLock()
		sockets := s.sockets
		s.socketsRw.RUnlock()

		for _, k := range sockets {
			k.NotifyView(u.View, u.ViewModel)
		}
	}
}

func NewSocket(s *Server, req *http.Request, conn net.Conn) *Socket {
	k := &Socket{
		srv:  s,
		req:  req,
		conn: conn,
		q:    make(chan ViewModelUpdate, 10),
		done: make(chan struct{}),
	}

	go k.readHandler()
	go k.writeHandler()

	return k
}

// NotifyView never blocks: every update is a full snapshot, so a socket
// too slow to keep up just gets the next one.
func (k *Socket) NotifyView(view string, viewModel interface{}) {
	u := ViewModelUpdate{
		View:      view,
		ViewModel: viewModel,
	}
	select {
	case k.q <- u:
	case <-k.done:
	default:
	}
}

// readHandler drains incoming frames; the panel is push-only, so the
// reader exists to notice the close and control the socket lifetime.
func (k *Socket) readHandler() {
	defer func() {
		_ = k.conn.Close()
		k.srv.removeSocket(k)
		close(k.done)
	}()

	r := wsutil.NewReader(k.conn, ws.StateServerSide)

	for {
		hdr, err := r.NextFrame()
		if err != nil {
			log.Println(fmt.Errorf("error reading next websocket frame: %w", err))
			break
		}
		if hdr.OpCode == ws.OpClose {
			break
		}
		if err := r.Discard(); err != nil {
			log.Println(fmt.Errorf("discard: %w", err))
		}
	}
}

func (k *Socket) writeHandler() {
	var (
		w       = wsutil.NewWriter(k.conn, ws.StateServerSide, ws.OpText)
		encoder = json.NewEncoder(w)
	)

	for {
		var u ViewModelUpdate
		select {
		case <-k.done:
			return
		case u = <-k.q:
		}

		var err error
		if err = encoder.Encode(&u); err != nil {
			log.Println(err)
			continue
		}
		if err = w.Flush(); err != nil {
			log.Println(err)
			continue
		}
	}
}

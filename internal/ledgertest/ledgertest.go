// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledgertest provides an in-process ledger that speaks the JSON-RPC
// interface of an access node.  It checks proposal keys and signatures the
// way a real node does and seals every valid transaction in a block of its
// own.  What a transaction or script does is supplied by the test through
// handlers matched against the submitted code.
package ledgertest

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mintastic/mintsdk/addrmap"
	"github.com/mintastic/mintsdk/ledgerclient"
	"github.com/mintastic/mintsdk/ledgerjson"
	"github.com/mintastic/mintsdk/signing"
	"github.com/stretchr/testify/require"
)

// ServiceAddress is the address of the service account every Server starts
// with.
const ServiceAddress = "0xf8d6e0586b0a20c7"

// Tx is a validated transaction handed to a TxHandler.
type Tx struct {
	ID          string
	Script      string
	Arguments   []ledgerjson.Value
	Proposer    string
	Payer       string
	Authorizers []string
	Height      uint64
}

// Arg returns the decoded value of the i-th argument, or nil when there is
// no such argument.
func (tx *Tx) Arg(i int) interface{} {
	if i >= len(tx.Arguments) {
		return nil
	}
	v, err := tx.Arguments[i].Decode()
	if err != nil {
		return nil
	}
	return v
}

// TxHandler executes a transaction.  A non-empty abort message seals the
// transaction with that error and discards its events.
type TxHandler func(tx *Tx) (events []ledgerjson.Event, abort string)

// ScriptHandler executes a script.  An error fails the script call.
type ScriptHandler func(args []ledgerjson.Value) (ledgerjson.Value, error)

type txRoute struct {
	match   string
	handler TxHandler
}

type scriptRoute struct {
	match   string
	handler ScriptHandler
}

// Server is a fake ledger access node.
type Server struct {
	srv *httptest.Server

	mtx          sync.Mutex
	height       uint64
	accounts     map[string]*ledgerjson.Account
	nextAddress  uint64
	txRoutes     []txRoute
	scriptRoutes []scriptRoute
	results      map[string]*ledgerjson.TransactionResult
	pending      map[string]int
	pendingPolls int
	events       map[uint64][]ledgerjson.Event
	calls        map[string]int
}

// New starts a Server with a service account holding pub at key index 0.
// The server is closed when the test ends.
func New(t testing.TB, pub *signing.PublicKey) *Server {
	s := &Server{
		height:   1,
		accounts: make(map[string]*ledgerjson.Account),
		results:  make(map[string]*ledgerjson.TransactionResult),
		pending:  make(map[string]int),
		events:   make(map[uint64][]ledgerjson.Event),
		calls:    make(map[string]int),
	}
	s.SetAccount(ServiceAddress, pub)

	mux := http.NewServeMux()
	mux.HandleFunc("/rpc", s.serveHTTP)
	s.srv = httptest.NewServer(mux)
	t.Cleanup(s.srv.Close)
	return s
}

// ConnConfig returns the HTTP POST client configuration for s.
func (s *Server) ConnConfig() *ledgerclient.ConnConfig {
	return &ledgerclient.ConnConfig{
		Host:         strings.TrimPrefix(s.srv.URL, "http://"),
		Endpoint:     "rpc",
		DisableTLS:   true,
		HTTPPostMode: true,
	}
}

// Client returns a client connected to s that is shut down when the test
// ends.
func (s *Server) Client(t testing.TB) *ledgerclient.Client {
	c, err := ledgerclient.New(s.ConnConfig())
	require.NoError(t, err)
	t.Cleanup(func() {
		c.Shutdown()
		c.WaitForShutdown()
	})
	return c
}

// SetAccount creates or replaces the account at address with a single full
// weight key.
func (s *Server) SetAccount(address string, pub *signing.PublicKey) {
	addr, err := addrmap.Normalize(address)
	if err != nil {
		panic(fmt.Sprintf("ledgertest: %v", err))
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.accounts[addr] = &ledgerjson.Account{
		Address: addr,
		Balance: 100000,
		Keys: []ledgerjson.AccountKey{{
			Index:     0,
			PublicKey: hex.EncodeToString(pub.Serialize()),
			SignAlgo:  signing.SignAlgoECDSAP256,
			HashAlgo:  signing.HashAlgoSHA3_256,
			Weight:    signing.FullKeyWeight,
		}},
	}
}

// NewAccount creates an account at a fresh address and returns the address.
func (s *Server) NewAccount(pub *signing.PublicKey) string {
	s.mtx.Lock()
	s.nextAddress++
	addr := fmt.Sprintf("0x%016x", s.nextAddress)
	s.mtx.Unlock()

	s.SetAccount(addr, pub)
	return addr
}

// Account returns a copy of the account at address.
func (s *Server) Account(address string) (*ledgerjson.Account, bool) {
	addr, err := addrmap.Normalize(address)
	if err != nil {
		return nil, false
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	acct, ok := s.accounts[addr]
	if !ok {
		return nil, false
	}
	cp := *acct
	cp.Keys = append([]ledgerjson.AccountKey{}, acct.Keys...)
	return &cp, true
}

// HandleTransaction routes transactions whose code contains match to h.
// Routes are tried in registration order.  A transaction without a route
// is sealed without events.
func (s *Server) HandleTransaction(match string, h TxHandler) {
	s.mtx.Lock()
	s.txRoutes = append(s.txRoutes, txRoute{match: match, handler: h})
	s.mtx.Unlock()
}

// HandleScript routes scripts whose code contains match to h.
func (s *Server) HandleScript(match string, h ScriptHandler) {
	s.mtx.Lock()
	s.scriptRoutes = append(s.scriptRoutes, scriptRoute{match: match, handler: h})
	s.mtx.Unlock()
}

// SetPendingPolls sets how many status queries of each new transaction are
// answered with PENDING before it is reported sealed.
func (s *Server) SetPendingPolls(n int) {
	s.mtx.Lock()
	s.pendingPolls = n
	s.mtx.Unlock()
}

// Calls returns how many times method was requested.
func (s *Server) Calls(method string) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.calls[method]
}

// Height returns the height of the latest block.
func (s *Server) Height() uint64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.height
}

// Event returns an event of type typ with the named fields.
func Event(typ string, names []string, values ...ledgerjson.Value) ledgerjson.Event {
	payload, err := ledgerjson.NewComposite("Event", typ, names, values).Encode()
	if err != nil {
		panic(fmt.Sprintf("ledgertest: unable to encode event: %v", err))
	}
	return ledgerjson.Event{Type: typ, Payload: payload}
}

func blockID(height uint64) string {
	return fmt.Sprintf("%064x", height)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	var req ledgerjson.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mtx.Lock()
	s.calls[req.Method]++
	s.mtx.Unlock()

	var (
		result interface{}
		rpcErr *ledgerjson.RPCError
	)
	switch req.Method {
	case ledgerjson.MethodGetLatestBlock:
		result, rpcErr = s.getLatestBlock(&req)
	case ledgerjson.MethodGetAccount:
		result, rpcErr = s.getAccount(&req)
	case ledgerjson.MethodSendTransaction:
		result, rpcErr = s.sendTransaction(&req)
	case ledgerjson.MethodGetTransactionResult:
		result, rpcErr = s.getTransactionResult(&req)
	case ledgerjson.MethodExecuteScript:
		result, rpcErr = s.executeScript(&req)
	case ledgerjson.MethodGetEventsForHeightRange:
		result, rpcErr = s.getEvents(&req)
	default:
		rpcErr = ledgerjson.ErrRPCMethodNotFound
	}

	reply, err := ledgerjson.MarshalResponse(ledgerjson.RpcVersion2, req.ID,
		result, rpcErr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(reply)
}

func invalidParams(err error) *ledgerjson.RPCError {
	return ledgerjson.NewRPCError(ledgerjson.ErrRPCInvalidParams.Code, err.Error())
}

func (s *Server) getLatestBlock(req *ledgerjson.Request) (interface{}, *ledgerjson.RPCError) {
	var sealed bool
	if err := req.UnmarshalParams(&sealed); err != nil {
		return nil, invalidParams(err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	return &ledgerjson.Block{
		ID:        blockID(s.height),
		Height:    s.height,
		Timestamp: time.Now().UTC(),
	}, nil
}

func (s *Server) getAccount(req *ledgerjson.Request) (interface{}, *ledgerjson.RPCError) {
	var address string
	if err := req.UnmarshalParams(&address); err != nil {
		return nil, invalidParams(err)
	}
	acct, ok := s.Account(address)
	if !ok {
		return nil, ledgerjson.NewRPCError(ledgerjson.ErrRPCAccountNotFound,
			fmt.Sprintf("account %s not found", address))
	}
	return acct, nil
}

func (s *Server) getTransactionResult(req *ledgerjson.Request) (interface{}, *ledgerjson.RPCError) {
	var txID string
	if err := req.UnmarshalParams(&txID); err != nil {
		return nil, invalidParams(err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	res, ok := s.results[txID]
	if !ok {
		return nil, ledgerjson.NewRPCError(ledgerjson.ErrRPCTransactionNotFound,
			fmt.Sprintf("transaction %s not found", txID))
	}
	if s.pending[txID] > 0 {
		s.pending[txID]--
		return &ledgerjson.TransactionResult{Status: ledgerjson.StatusPending}, nil
	}
	return res, nil
}

func (s *Server) executeScript(req *ledgerjson.Request) (interface{}, *ledgerjson.RPCError) {
	var (
		script string
		args   []ledgerjson.Value
	)
	if err := req.UnmarshalParams(&script, &args); err != nil {
		return nil, invalidParams(err)
	}

	s.mtx.Lock()
	var handler ScriptHandler
	for _, route := range s.scriptRoutes {
		if strings.Contains(script, route.match) {
			handler = route.handler
			break
		}
	}
	s.mtx.Unlock()

	if handler == nil {
		return nil, ledgerjson.NewRPCError(ledgerjson.ErrRPCScriptFailed,
			"no handler for script")
	}
	v, err := handler(args)
	if err != nil {
		return nil, ledgerjson.NewRPCError(ledgerjson.ErrRPCScriptFailed,
			err.Error())
	}
	return v, nil
}

func (s *Server) getEvents(req *ledgerjson.Request) (interface{}, *ledgerjson.RPCError) {
	var (
		eventType  string
		start, end uint64
	)
	if err := req.UnmarshalParams(&eventType, &start, &end); err != nil {
		return nil, invalidParams(err)
	}
	if end < start {
		return nil, ledgerjson.NewRPCError(ledgerjson.ErrRPCHeightRange,
			fmt.Sprintf("end height %d is below start height %d", end, start))
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	if end > s.height {
		end = s.height
	}
	blocks := make([]ledgerjson.BlockEvents, 0)
	for height := start; height <= end; height++ {
		block := ledgerjson.BlockEvents{
			BlockID:     blockID(height),
			BlockHeight: height,
			Events:      []ledgerjson.Event{},
		}
		for _, ev := range s.events[height] {
			if ev.Type == eventType {
				block.Events = append(block.Events, ev)
			}
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

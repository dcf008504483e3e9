// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledgerclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mintastic/mintsdk/ledgerjson"
	"github.com/mintastic/mintsdk/metrics"
	"github.com/stretchr/testify/require"
)

// handlerFunc answers one request.  Returning a nil result and nil error
// means the request is left unanswered.
type handlerFunc func(req *ledgerjson.Request) (interface{}, *ledgerjson.RPCError)

type testServer struct {
	*httptest.Server

	mtx      sync.Mutex
	requests []*ledgerjson.Request
	handle   handlerFunc
}

func newTestServer(t *testing.T, handle handlerFunc) *testServer {
	s := &testServer{handle: handle}

	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/rpc", func(w http.ResponseWriter, r *http.Request) {
		var req ledgerjson.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		reply, ok := s.serve(&req)
		if !ok {
			<-r.Context().Done()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(reply)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req ledgerjson.Request
			if err := json.Unmarshal(msg, &req); err != nil {
				return
			}
			if reply, ok := s.serve(&req); ok {
				conn.WriteMessage(websocket.TextMessage, reply)
			}
		}
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *testServer) serve(req *ledgerjson.Request) ([]byte, bool) {
	s.mtx.Lock()
	s.requests = append(s.requests, req)
	s.mtx.Unlock()

	result, rpcErr := s.handle(req)
	if result == nil && rpcErr == nil {
		return nil, false
	}
	reply, err := ledgerjson.MarshalResponse(ledgerjson.RpcVersion2,
		req.ID, result, rpcErr)
	if err != nil {
		panic(err)
	}
	return reply, true
}

func (s *testServer) methods() []string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	methods := make([]string, 0, len(s.requests))
	for _, req := range s.requests {
		methods = append(methods, req.Method)
	}
	return methods
}

func (s *testServer) host() string {
	return strings.TrimPrefix(s.URL, "http://")
}

// newClients returns an HTTP POST client and a websocket client for s.
func newClients(t *testing.T, s *testServer, m metrics.Metrics) map[string]*Client {
	post, err := New(&ConnConfig{
		Host:         s.host(),
		Endpoint:     "rpc",
		DisableTLS:   true,
		HTTPPostMode: true,
		Metrics:      m,
	})
	require.NoError(t, err)

	ws, err := New(&ConnConfig{
		Host:       s.host(),
		Endpoint:   "ws",
		DisableTLS: true,
		Metrics:    m,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		post.Shutdown()
		ws.Shutdown()
		post.WaitForShutdown()
		ws.WaitForShutdown()
	})
	return map[string]*Client{"post": post, "websocket": ws}
}

func ledgerHandler(req *ledgerjson.Request) (interface{}, *ledgerjson.RPCError) {
	switch req.Method {
	case ledgerjson.MethodGetAccount:
		var addr string
		if err := req.UnmarshalParams(&addr); err != nil {
			return nil, ledgerjson.ErrRPCInvalidParams
		}
		if addr != "0xf8d6e0586b0a20c7" {
			return nil, ledgerjson.NewRPCError(
				ledgerjson.ErrRPCAccountNotFound, "account not found")
		}
		return ledgerjson.Account{
			Address: addr,
			Keys: []ledgerjson.AccountKey{{
				Index: 0, SequenceNumber: 4, Weight: 1000,
			}},
		}, nil

	case ledgerjson.MethodGetLatestBlock:
		return ledgerjson.Block{ID: "0a0b", Height: 99}, nil

	case ledgerjson.MethodSendTransaction:
		var tx ledgerjson.TransactionRequest
		if err := req.UnmarshalParams(&tx); err != nil {
			return nil, ledgerjson.ErrRPCInvalidParams
		}
		return "tx-" + tx.Payer, nil

	case ledgerjson.MethodGetTransactionResult:
		return ledgerjson.TransactionResult{
			Status:      ledgerjson.StatusSealed,
			BlockHeight: 100,
		}, nil

	case ledgerjson.MethodExecuteScript:
		return ledgerjson.UInt64(7), nil

	case ledgerjson.MethodGetEventsForHeightRange:
		var (
			typ        string
			start, end uint64
		)
		if err := req.UnmarshalParams(&typ, &start, &end); err != nil {
			return nil, ledgerjson.ErrRPCInvalidParams
		}
		return []ledgerjson.BlockEvents{
			{BlockHeight: start, Events: []ledgerjson.Event{{Type: typ}}},
			{BlockHeight: end},
		}, nil

	case "hang":
		return nil, nil
	}
	return nil, ledgerjson.ErrRPCMethodNotFound
}

func TestClientMethods(t *testing.T) {
	s := newTestServer(t, ledgerHandler)
	reg := metrics.NewPrometheus(nil)

	for name, client := range newClients(t, s, reg) {
		ctx := context.Background()

		account, err := client.GetAccount(ctx, "0xf8d6e0586b0a20c7")
		require.NoError(t, err, name)
		key, ok := account.Key(0)
		require.True(t, ok, name)
		require.EqualValues(t, 4, key.SequenceNumber, name)

		_, err = client.GetAccount(ctx, "0x01")
		require.True(t, IsRPCError(err, ledgerjson.ErrRPCAccountNotFound), name)

		block, err := client.GetLatestBlock(ctx, true)
		require.NoError(t, err, name)
		require.EqualValues(t, 99, block.Height, name)

		txID, err := client.SendTransaction(ctx, &ledgerjson.TransactionRequest{
			Payer: "0xf8d6e0586b0a20c7",
		})
		require.NoError(t, err, name)
		require.Equal(t, "tx-0xf8d6e0586b0a20c7", txID, name)

		_, err = client.SendTransaction(ctx, nil)
		require.ErrorIs(t, err, ErrInvalidParam, name)

		result, err := client.GetTransactionResult(ctx, txID)
		require.NoError(t, err, name)
		require.Equal(t, ledgerjson.StatusSealed, result.Status, name)

		v, err := client.ExecuteScript(ctx, "pub fun main(): UInt64 { return 7 }", nil)
		require.NoError(t, err, name)
		got, err := v.Decode()
		require.NoError(t, err, name)
		require.Equal(t, uint64(7), got, name)
	}
}

func TestClientAsync(t *testing.T) {
	s := newTestServer(t, ledgerHandler)

	for name, client := range newClients(t, s, nil) {
		ctx := context.Background()

		// Issue everything first, then collect.
		fAccount := client.GetAccountAsync(ctx, "0xf8d6e0586b0a20c7")
		fBlock := client.GetLatestBlockAsync(ctx, false)
		fScript := client.ExecuteScriptAsync(ctx, "s", []ledgerjson.Value{ledgerjson.Bool(true)})

		_, err := fAccount.Receive()
		require.NoError(t, err, name)
		block, err := fBlock.Receive()
		require.NoError(t, err, name)
		require.Equal(t, "0a0b", block.ID, name)
		_, err = fScript.Receive()
		require.NoError(t, err, name)
	}
}

func TestClientContextCancel(t *testing.T) {
	s := newTestServer(t, ledgerHandler)

	for name, client := range newClients(t, s, nil) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		f := FutureGetAccountResult(client.sendCmd(ctx, hangCmd{}))
		_, err := f.Receive()
		cancel()
		require.ErrorIs(t, err, context.DeadlineExceeded, name)
	}
}

func TestClientShutdown(t *testing.T) {
	s := newTestServer(t, ledgerHandler)

	ws, err := New(&ConnConfig{Host: s.host(), Endpoint: "ws", DisableTLS: true})
	require.NoError(t, err)

	pending := FutureGetAccountResult(ws.sendCmd(context.Background(), hangCmd{}))
	ws.Shutdown()
	_, err = pending.Receive()
	require.True(t, errors.Is(err, ErrClientShutdown) ||
		errors.Is(err, ErrClientDisconnected))

	_, err = ws.GetLatestBlock(context.Background(), true)
	require.ErrorIs(t, err, ErrClientShutdown)

	ws.Shutdown()
	ws.WaitForShutdown()
}

func TestScanEvents(t *testing.T) {
	s := newTestServer(t, ledgerHandler)
	client := newClients(t, s, nil)["post"]
	ctx := context.Background()

	var heights []uint64
	err := client.ScanEvents(ctx, "A.1.C.E", 10, 600, func(b ledgerjson.BlockEvents) error {
		heights = append(heights, b.BlockHeight)
		return nil
	})
	require.NoError(t, err)

	// 10-259, 260-509, 510-600
	require.Equal(t, []uint64{10, 259, 260, 509, 510, 600}, heights)
	require.Len(t, s.methods(), 3)

	err = client.ScanEvents(ctx, "A.1.C.E", 5, 5, func(ledgerjson.BlockEvents) error {
		return nil
	})
	require.NoError(t, err)

	stop := errors.New("stop")
	err = client.ScanEvents(ctx, "A.1.C.E", 0, 1000, func(ledgerjson.BlockEvents) error {
		return stop
	})
	require.ErrorIs(t, err, stop)

	err = client.ScanEvents(ctx, "A.1.C.E", 9, 8, nil)
	require.ErrorIs(t, err, ErrInvalidParam)

	_, err = client.GetEventsForHeightRange(ctx, "A.1.C.E", 0, MaxEventHeightRange)
	require.ErrorIs(t, err, ErrInvalidParam)
}

// hangCmd is never answered by the test server.
type hangCmd struct{}

func (hangCmd) Method() string        { return "hang" }
func (hangCmd) Params() []interface{} { return nil }

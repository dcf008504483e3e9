// Copyright (c) 2014-2017 The btcsuite developers
// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledgerclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/go-socks/socks"
	"github.com/gorilla/websocket"
	"github.com/mintastic/mintsdk/ledgerjson"
	"github.com/mintastic/mintsdk/metrics"
)

const (
	// defaultEndpoint is the path used when ConnConfig.Endpoint is empty.
	defaultEndpoint = "rpc"

	// handshakeTimeout bounds the websocket opening handshake.
	handshakeTimeout = 10 * time.Second
)

// ConnConfig describes the connection configuration parameters for the
// client.
type ConnConfig struct {
	// Host is the host:port of the ledger access node.
	Host string

	// Endpoint is the path of the JSON-RPC handler, for example "rpc" or
	// "ws".
	Endpoint string

	// DisableTLS specifies whether transport layer security should be
	// disabled.
	DisableTLS bool

	// Certificates are the PEM encoded certificates trusted for the
	// server.  The system pool is used when empty.
	Certificates []byte

	// Proxy is the host:port of a SOCKS5 proxy to route connections
	// through.  ProxyUser and ProxyPass are optional.
	Proxy     string
	ProxyUser string
	ProxyPass string

	// HTTPPostMode sends each request as an HTTP POST instead of over a
	// websocket.
	HTTPPostMode bool

	// Metrics counts failed requests.  Optional.
	Metrics metrics.Metrics
}

func (config *ConnConfig) endpoint() string {
	if config.Endpoint == "" {
		return defaultEndpoint
	}
	return config.Endpoint
}

// response is the raw bytes of a JSON-RPC result, or the error if the
// response error object was non-null.
type response struct {
	result []byte
	err    error
}

// rawResponse is a partially-unmarshaled JSON-RPC response.
type rawResponse struct {
	ID     *uint64              `json:"id"`
	Result json.RawMessage      `json:"result"`
	Error  *ledgerjson.RPCError `json:"error"`
}

// result checks whether the unmarshaled response contains a non-nil error,
// returning an unmarshaled RPCError (or an unmarshaling error) if so.  If
// the response is not an error, the raw bytes of the request are returned
// for further unmarshaling into specific result types.
func (r rawResponse) result() (result []byte, err error) {
	if r.Error != nil {
		return nil, r.Error
	}
	return r.Result, nil
}

// jsonRequest holds information about a json request that is used to
// properly detect, interpret, and deliver a reply to it.
type jsonRequest struct {
	id             uint64
	method         string
	marshalledJSON []byte
	responseChan   chan *response
	done           chan struct{}
}

// Client represents a ledger RPC client which allows easy access to the
// various RPC methods available on an access node.
//
// The client issues every request asynchronously and returns a future; the
// blocking methods are wrappers that wait on it.
type Client struct {
	id uint64 // atomic, so must stay 64-bit aligned

	config  *ConnConfig
	metrics metrics.Metrics

	// httpClient is set in HTTP POST mode.
	httpClient *http.Client

	// wsConn is set in websocket mode.  Writes are serialized with
	// writeMtx.
	wsConn   *websocket.Conn
	writeMtx sync.Mutex

	requestLock  sync.Mutex
	requestMap   map[uint64]*jsonRequest
	disconnected bool

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// New creates a new client using the passed connection configuration.  In
// websocket mode the connection is established before New returns.
func New(config *ConnConfig) (*Client, error) {
	client := &Client{
		config:     config,
		metrics:    metrics.OrNop(config.Metrics),
		requestMap: make(map[uint64]*jsonRequest),
		shutdown:   make(chan struct{}),
	}

	if config.HTTPPostMode {
		httpClient, err := newHTTPClient(config)
		if err != nil {
			return nil, err
		}
		client.httpClient = httpClient
		log.Infof("Established HTTP POST client for %s", config.Host)
		return client, nil
	}

	wsConn, err := dial(config)
	if err != nil {
		return nil, err
	}
	client.wsConn = wsConn
	log.Infof("Established websocket connection to %s", config.Host)

	client.wg.Add(1)
	go client.wsInHandler()
	return client, nil
}

// NextID returns the next id to be used when sending a JSON-RPC message.
func (c *Client) NextID() uint64 {
	return atomic.AddUint64(&c.id, 1)
}

// tlsConfig returns the TLS configuration for config or nil when TLS is
// disabled.
func tlsConfig(config *ConnConfig) (*tls.Config, error) {
	if config.DisableTLS {
		return nil, nil
	}
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if len(config.Certificates) > 0 {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(config.Certificates) {
			return nil, fmt.Errorf("no valid certificates in the " +
				"configured certificate data")
		}
		tlsConfig.RootCAs = pool
	}
	return tlsConfig, nil
}

// proxyDialer returns the SOCKS5 proxy of config, or nil.
func proxyDialer(config *ConnConfig) *socks.Proxy {
	if config.Proxy == "" {
		return nil
	}
	return &socks.Proxy{
		Addr:     config.Proxy,
		Username: config.ProxyUser,
		Password: config.ProxyPass,
	}
}

// newHTTPClient returns a new http client that is configured according to
// the proxy and TLS settings in the associated connection configuration.
func newHTTPClient(config *ConnConfig) (*http.Client, error) {
	tlsConfig, err := tlsConfig(config)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{TLSClientConfig: tlsConfig}
	if proxy := proxyDialer(config); proxy != nil {
		transport.DialContext = func(_ context.Context, network,
			addr string) (net.Conn, error) {

			return proxy.Dial(network, addr)
		}
	}
	return &http.Client{Transport: transport}, nil
}

// dial opens a websocket connection using the passed connection
// configuration details.
func dial(config *ConnConfig) (*websocket.Conn, error) {
	tlsConfig, err := tlsConfig(config)
	if err != nil {
		return nil, err
	}

	scheme := "wss"
	if config.DisableTLS {
		scheme = "ws"
	}

	dialer := websocket.Dialer{
		TLSClientConfig:  tlsConfig,
		HandshakeTimeout: handshakeTimeout,
	}
	if proxy := proxyDialer(config); proxy != nil {
		dialer.NetDial = proxy.Dial
	}

	url := fmt.Sprintf("%s://%s/%s", scheme, config.Host, config.endpoint())
	wsConn, resp, err := dialer.Dial(url, nil)
	if err != nil {
		if err != websocket.ErrBadHandshake || resp == nil {
			return nil, err
		}
		return nil, fmt.Errorf("websocket handshake with %s failed: %s",
			config.Host, resp.Status)
	}
	return wsConn, nil
}

// newFutureError returns a new future result channel that already has the
// passed error waiting on the channel with the reply set to nil.  This is
// useful to easily return errors from the various Async functions.
func newFutureError(err error) chan *response {
	responseChan := make(chan *response, 1)
	responseChan <- &response{err: err}
	return responseChan
}

// receiveFuture receives from the passed futureResult channel to extract a
// reply or any errors.  The examined errors include an error in the
// futureResult and the error in the reply from the server.  This will block
// until the result is available on the passed channel.
func receiveFuture(f chan *response) ([]byte, error) {
	r := <-f
	return r.result, r.err
}

// sendCmd sends the passed command to the associated server and returns a
// response channel on which the reply will be delivered at some point in
// the future.
func (c *Client) sendCmd(ctx context.Context, cmd ledgerjson.Cmd) chan *response {
	id := c.NextID()
	marshalledJSON, err := ledgerjson.MarshalCmd(id, cmd)
	if err != nil {
		return newFutureError(err)
	}

	jReq := &jsonRequest{
		id:             id,
		method:         cmd.Method(),
		marshalledJSON: marshalledJSON,
		responseChan:   make(chan *response, 1),
		done:           make(chan struct{}),
	}
	log.Tracef("Sending command [%s] with id %d", jReq.method, id)

	if c.httpClient != nil {
		c.wg.Add(1)
		go c.handleSendPostMessage(ctx, jReq)
		return jReq.responseChan
	}

	c.sendWsRequest(ctx, jReq)
	return jReq.responseChan
}

// deliver hands the reply of jReq to its future.
func (c *Client) deliver(jReq *jsonRequest, result []byte, err error) {
	if err != nil {
		c.metrics.RPCError(jReq.method)
		log.Debugf("Command [%s] with id %d failed: %v", jReq.method,
			jReq.id, err)
	}
	jReq.responseChan <- &response{result: result, err: err}
	close(jReq.done)
}

// handleSendPostMessage handles performing the passed HTTP request, reading
// the result, unmarshalling it, and delivering the unmarshalled result to
// the provided response channel.
func (c *Client) handleSendPostMessage(ctx context.Context, jReq *jsonRequest) {
	defer c.wg.Done()

	select {
	case <-c.shutdown:
		c.deliver(jReq, nil, ErrClientShutdown)
		return
	default:
	}

	protocol := "https"
	if c.config.DisableTLS {
		protocol = "http"
	}
	url := fmt.Sprintf("%s://%s/%s", protocol, c.config.Host,
		c.config.endpoint())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url,
		bytes.NewReader(jReq.marshalledJSON))
	if err != nil {
		c.deliver(jReq, nil, err)
		return
	}
	httpReq.Close = true
	httpReq.Header.Set("Content-Type", "application/json")

	httpResponse, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.deliver(jReq, nil, fmt.Errorf("%s: %w", jReq.method, err))
		return
	}
	respBytes, err := io.ReadAll(httpResponse.Body)
	httpResponse.Body.Close()
	if err != nil {
		err = fmt.Errorf("error reading json reply: %w", err)
		c.deliver(jReq, nil, err)
		return
	}

	// Try to unmarshal the response as a regular JSON-RPC response.
	var resp rawResponse
	err = json.Unmarshal(respBytes, &resp)
	if err != nil {
		// When the response itself isn't a valid JSON-RPC response
		// return an error which includes the HTTP status code and raw
		// response bytes.
		err = fmt.Errorf("status code: %d, response: %q",
			httpResponse.StatusCode, string(respBytes))
		c.deliver(jReq, nil, err)
		return
	}

	res, err := resp.result()
	c.deliver(jReq, res, err)
}

// sendWsRequest registers jReq and writes it to the websocket.
func (c *Client) sendWsRequest(ctx context.Context, jReq *jsonRequest) {
	c.requestLock.Lock()
	select {
	case <-c.shutdown:
		c.requestLock.Unlock()
		c.deliver(jReq, nil, ErrClientShutdown)
		return
	default:
	}
	if c.disconnected {
		c.requestLock.Unlock()
		c.deliver(jReq, nil, ErrClientDisconnected)
		return
	}
	c.requestMap[jReq.id] = jReq
	c.requestLock.Unlock()

	c.writeMtx.Lock()
	err := c.wsConn.WriteMessage(websocket.TextMessage, jReq.marshalledJSON)
	c.writeMtx.Unlock()
	if err != nil {
		if c.removeRequest(jReq.id) != nil {
			c.deliver(jReq, nil, fmt.Errorf("%s: %w", jReq.method, err))
		}
		return
	}

	// Stop waiting once the context ends.  Whoever removes the request
	// from the map delivers its reply.
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		select {
		case <-ctx.Done():
			if c.removeRequest(jReq.id) != nil {
				c.deliver(jReq, nil, ctx.Err())
			}
		case <-jReq.done:
		}
	}()
}

// removeRequest returns and removes the request with id, or nil if it was
// already removed.
func (c *Client) removeRequest(id uint64) *jsonRequest {
	c.requestLock.Lock()
	defer c.requestLock.Unlock()

	jReq := c.requestMap[id]
	delete(c.requestMap, id)
	return jReq
}

// failPending delivers err to every outstanding websocket request.
func (c *Client) failPending(err error) {
	c.requestLock.Lock()
	pending := make([]*jsonRequest, 0, len(c.requestMap))
	for id, jReq := range c.requestMap {
		pending = append(pending, jReq)
		delete(c.requestMap, id)
	}
	c.disconnected = true
	c.requestLock.Unlock()

	for _, jReq := range pending {
		c.deliver(jReq, nil, err)
	}
}

// wsInHandler handles all incoming messages for the websocket connection.
// It must be run as a goroutine.
func (c *Client) wsInHandler() {
	defer c.wg.Done()

	for {
		_, msg, err := c.wsConn.ReadMessage()
		if err != nil {
			select {
			case <-c.shutdown:
				c.failPending(ErrClientShutdown)
			default:
				log.Errorf("Websocket receive error from %s: %v",
					c.config.Host, err)
				c.failPending(ErrClientDisconnected)
			}
			return
		}

		var resp rawResponse
		if err := json.Unmarshal(msg, &resp); err != nil {
			log.Warnf("Remote server sent invalid message: %v", err)
			continue
		}
		if resp.ID == nil {
			log.Tracef("Ignoring message without id")
			continue
		}

		jReq := c.removeRequest(*resp.ID)
		if jReq == nil {
			log.Warnf("Received unexpected reply with id %d",
				*resp.ID)
			continue
		}
		res, err := resp.result()
		c.deliver(jReq, res, err)
	}
}

// Shutdown closes the connection and fails every pending request with
// ErrClientShutdown.  It is safe to call more than once.
func (c *Client) Shutdown() {
	c.shutdownOnce.Do(func() {
		log.Tracef("Shutting down RPC client %s", c.config.Host)
		close(c.shutdown)

		if c.wsConn != nil {
			c.writeMtx.Lock()
			_ = c.wsConn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			c.writeMtx.Unlock()
			c.wsConn.Close()
		}
		if c.httpClient != nil {
			c.httpClient.CloseIdleConnections()
		}
	})
}

// WaitForShutdown blocks until the client goroutines are stopped and the
// connection is closed.
func (c *Client) WaitForShutdown() {
	c.wg.Wait()
}

// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg)

	m.TransactionSubmitted()
	m.TransactionSubmitted()
	m.TransactionSealed(2 * time.Second)
	m.TransactionRejected()
	m.ScriptExecuted()
	m.RPCError("getaccount")
	m.RPCError("getaccount")
	m.RPCError("sendtransaction")

	require.Equal(t, 2.0, testutil.ToFloat64(m.txsSubmitted))
	require.Equal(t, 1.0, testutil.ToFloat64(m.txsSealed))
	require.Equal(t, 1.0, testutil.ToFloat64(m.txsRejected))
	require.Equal(t, 1.0, testutil.ToFloat64(m.scriptsRun))
	require.Equal(t, 2.0, testutil.ToFloat64(m.rpcErrors.WithLabelValues("getaccount")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.rpcErrors.WithLabelValues("sendtransaction")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	require.True(t, strings.Contains(body, "mintsdk_transactions_submitted_total 2"))
	require.True(t, strings.Contains(body, `mintsdk_rpc_errors_total{method="getaccount"} 2`))
}

func TestOrNop(t *testing.T) {
	require.Equal(t, Nop{}, OrNop(nil))

	m := NewPrometheus(nil)
	require.Same(t, m, OrNop(m))

	// Nop accepts every call.
	n := OrNop(nil)
	n.TransactionSubmitted()
	n.TransactionSealed(time.Second)
	n.TransactionRejected()
	n.ScriptExecuted()
	n.RPCError("x")
}

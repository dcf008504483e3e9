// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txn

import (
	"context"
	"fmt"
	"time"

	"github.com/mintastic/mintsdk/auth"
	"github.com/mintastic/mintsdk/journal"
	"github.com/mintastic/mintsdk/ledgerjson"
	"github.com/mintastic/mintsdk/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// DefaultPollInterval is the interval between seal status queries.
const DefaultPollInterval = time.Second

// tracerName is the instrumentation name of the spans of this package.
const tracerName = "github.com/mintastic/mintsdk/txn"

// Ledger is the part of the ledger RPC interface used to submit and follow
// transactions.  *ledgerclient.Client implements it.
type Ledger interface {
	GetLatestBlock(ctx context.Context, sealed bool) (*ledgerjson.Block, error)
	SendTransaction(ctx context.Context, tx *ledgerjson.TransactionRequest) (string, error)
	GetTransactionResult(ctx context.Context, txID string) (*ledgerjson.TransactionResult, error)
}

// Journal records transaction state changes.  *journal.Journal implements
// it.
type Journal interface {
	Record(rec *journal.Record) error
}

// Orchestrator builds, submits and follows transactions.  Every call is a
// single attempt: nothing is retried and a submitted transaction cannot be
// withdrawn.
type Orchestrator struct {
	Ledger Ledger

	// PollInterval paces seal status queries.  Zero selects
	// DefaultPollInterval.
	PollInterval time.Duration

	// Journal, Metrics and Tracer are optional.
	Journal Journal
	Metrics metrics.Metrics
	Tracer  trace.Tracer
}

func (o *Orchestrator) tracer() trace.Tracer {
	if o.Tracer != nil {
		return o.Tracer
	}
	return otel.Tracer(tracerName)
}

func (o *Orchestrator) metrics() metrics.Metrics {
	return metrics.OrNop(o.Metrics)
}

func (o *Orchestrator) record(rec *journal.Record) {
	if o.Journal == nil {
		return
	}
	if err := o.Journal.Record(rec); err != nil {
		log.Warnf("Unable to journal transaction %s: %v", rec.TxID, err)
	}
}

// endSpan records err on span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func validateEnvelope(env *Envelope) error {
	switch {
	case env == nil:
		return txError(ErrInvalidEnvelope, "no envelope", nil)
	case env.Code == "":
		return txError(ErrInvalidEnvelope, "transaction code is empty", nil)
	case env.GasLimit == 0:
		return txError(ErrInvalidEnvelope, "gas limit must be positive", nil)
	case env.Proposer == nil:
		return txError(ErrInvalidEnvelope, "no proposer", nil)
	case env.Payer == nil:
		return txError(ErrInvalidEnvelope, "no payer", nil)
	}
	for i, a := range env.Authorizers {
		if a == nil {
			str := fmt.Sprintf("authorizer %d is nil", i)
			return txError(ErrInvalidEnvelope, str, nil)
		}
	}
	return nil
}

// Build resolves the roles of env against the latest sealed block and signs
// the result.  The proposer's sequence number is read here, so a transaction
// must be submitted right after it is built.
func (o *Orchestrator) Build(ctx context.Context, env *Envelope) (tx *Transaction, err error) {
	if err := validateEnvelope(env); err != nil {
		return nil, err
	}

	ctx, span := o.tracer().Start(ctx, "txn.Build",
		trace.WithAttributes(attribute.String("txn.name", env.Name)))
	defer func() { endSpan(span, err) }()

	args := make([][]byte, 0, len(env.Arguments))
	for i, arg := range env.Arguments {
		encoded, err := arg.Encode()
		if err != nil {
			str := fmt.Sprintf("argument %d cannot be encoded", i)
			return nil, txError(ErrInvalidEnvelope, str, err)
		}
		args = append(args, encoded)
	}

	block, err := o.Ledger.GetLatestBlock(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch reference block: %w", err)
	}

	proposal, err := env.Proposer.Propose(ctx)
	if err != nil {
		return nil, err
	}
	payer, err := env.Payer.Authorize(ctx, auth.RolePayer)
	if err != nil {
		return nil, err
	}
	authorizers := make([]*auth.Authorization, 0, len(env.Authorizers))
	for _, a := range env.Authorizers {
		authz, err := a.Authorize(ctx, auth.RoleAuthorizer)
		if err != nil {
			return nil, err
		}
		authorizers = append(authorizers, authz)
	}

	tx = &Transaction{
		Name:             env.Name,
		Script:           env.Code,
		Arguments:        args,
		ReferenceBlockID: block.ID,
		GasLimit:         env.GasLimit,
		ProposalKey:      *proposal,
		Payer:            payer.Address,
	}
	for _, authz := range authorizers {
		tx.Authorizers = append(tx.Authorizers, authz.Address)
	}

	if err := tx.sign(payer, authorizers); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("txn.reference_height", int64(block.Height)),
		attribute.Int64("txn.sequence_number", int64(proposal.SequenceNumber)),
	)
	log.Debugf("Built %s with proposer %s at sequence %d", env.Name,
		proposal.Address, proposal.SequenceNumber)
	return tx, nil
}

// sign adds the payload signatures of the proposer and authorizers that
// are not the payer, then the payer's envelope signature.
func (tx *Transaction) sign(payer *auth.Authorization, authorizers []*auth.Authorization) error {
	type signerKey struct {
		address  string
		keyIndex uint32
	}
	seen := make(map[signerKey]struct{})

	payloadSigners := make([]*auth.Authorization, 0, len(authorizers)+1)
	payloadSigners = append(payloadSigners, &tx.ProposalKey.Authorization)
	payloadSigners = append(payloadSigners, authorizers...)

	var payloadMsg []byte
	for _, signer := range payloadSigners {
		if signer.Address == payer.Address {
			continue
		}
		key := signerKey{signer.Address, signer.KeyIndex}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if payloadMsg == nil {
			msg, err := PayloadMessage(tx)
			if err != nil {
				return err
			}
			payloadMsg = msg
		}
		sig, err := signer.Sign(payloadMsg)
		if err != nil {
			return err
		}
		tx.PayloadSignatures = append(tx.PayloadSignatures, Signature{
			Address:   signer.Address,
			KeyIndex:  signer.KeyIndex,
			Signature: sig,
		})
	}

	envelopeMsg, err := EnvelopeMessage(tx)
	if err != nil {
		return err
	}
	sig, err := payer.Sign(envelopeMsg)
	if err != nil {
		return err
	}
	tx.EnvelopeSignatures = append(tx.EnvelopeSignatures, Signature{
		Address:   payer.Address,
		KeyIndex:  payer.KeyIndex,
		Signature: sig,
	})
	return nil
}

// Submit sends tx and returns the id the ledger assigned.  The id only
// confirms receipt.
func (o *Orchestrator) Submit(ctx context.Context, tx *Transaction) (txID string, err error) {
	ctx, span := o.tracer().Start(ctx, "txn.Submit",
		trace.WithAttributes(attribute.String("txn.name", tx.Name)))
	defer func() { endSpan(span, err) }()

	txID, err = o.Ledger.SendTransaction(ctx, tx.Request())
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("txn.id", txID))

	o.metrics().TransactionSubmitted()
	o.record(&journal.Record{
		TxID:      txID,
		Operation: tx.Name,
		Status:    journal.StatusSubmitted,
	})
	log.Infof("Submitted %s as %s", tx.Name, txID)
	return txID, nil
}

// Await polls the status of txID until it is sealed.  A transaction sealed
// with an error yields an *AbortError carrying the ledger's message.  An
// expired transaction yields ErrTransactionExpired.  Cancelling ctx stops
// waiting; it does not withdraw the transaction.
func (o *Orchestrator) Await(ctx context.Context, txID string) (res *Result, err error) {
	ctx, span := o.tracer().Start(ctx, "txn.Await",
		trace.WithAttributes(attribute.String("txn.id", txID)))
	defer func() { endSpan(span, err) }()

	interval := o.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	start := time.Now()

	for {
		if err := pace(ctx, limiter); err != nil {
			return nil, err
		}

		status, err := o.Ledger.GetTransactionResult(ctx, txID)
		if err != nil {
			return nil, err
		}
		log.Tracef("Transaction %s is %s", txID, status.Status)

		switch status.Status {
		case ledgerjson.StatusSealed:
			span.SetAttributes(attribute.Int64("txn.block_height",
				int64(status.BlockHeight)))
			if status.ErrorMessage != "" {
				o.metrics().TransactionRejected()
				o.record(&journal.Record{
					TxID:        txID,
					Status:      journal.StatusRejected,
					Message:     status.ErrorMessage,
					BlockHeight: status.BlockHeight,
				})
				log.Infof("Transaction %s aborted: %s", txID,
					status.ErrorMessage)
				return nil, &AbortError{TxID: txID, Message: status.ErrorMessage}
			}

			o.metrics().TransactionSealed(time.Since(start))
			o.record(&journal.Record{
				TxID:        txID,
				Status:      journal.StatusSealed,
				BlockHeight: status.BlockHeight,
			})
			log.Infof("Transaction %s sealed in block %d", txID,
				status.BlockHeight)
			return &Result{
				TransactionID: txID,
				Status:        status.Status,
				BlockHeight:   status.BlockHeight,
				Events:        status.Events,
			}, nil

		case ledgerjson.StatusExpired:
			o.metrics().TransactionRejected()
			o.record(&journal.Record{
				TxID:   txID,
				Status: journal.StatusExpired,
			})
			str := fmt.Sprintf("transaction %s expired", txID)
			return nil, txError(ErrTransactionExpired, str, nil)
		}
	}
}

// pace blocks until limiter allows the next poll.  It returns ctx.Err() when
// ctx is done first.
func pace(ctx context.Context, limiter *rate.Limiter) error {
	r := limiter.Reserve()
	timer := time.NewTimer(r.Delay())
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// Run builds, submits and awaits env.
func (o *Orchestrator) Run(ctx context.Context, env *Envelope) (*Result, error) {
	tx, err := o.Build(ctx, env)
	if err != nil {
		return nil, err
	}
	txID, err := o.Submit(ctx, tx)
	if err != nil {
		return nil, err
	}
	return o.Await(ctx, txID)
}

// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledgerclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mintastic/mintsdk/ledgerjson"
)

// MaxEventHeightRange is the largest number of blocks a single
// geteventsforheightrange request may span.
const MaxEventHeightRange = 250

// FutureGetEventsForHeightRangeResult is a future promise to deliver the
// result of a GetEventsForHeightRangeAsync RPC invocation (or an applicable
// error).
type FutureGetEventsForHeightRangeResult chan *response

// Receive waits for the response promised by the future and returns the
// events grouped per block.
func (r FutureGetEventsForHeightRangeResult) Receive() ([]ledgerjson.BlockEvents, error) {
	res, err := receiveFuture(r)
	if err != nil {
		return nil, err
	}

	var blocks []ledgerjson.BlockEvents
	if err := json.Unmarshal(res, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// GetEventsForHeightRangeAsync returns an instance of a type that can be used
// to get the result of the RPC at some future time by invoking the Receive
// function on the returned instance.
//
// See GetEventsForHeightRange for the blocking version and more details.
func (c *Client) GetEventsForHeightRangeAsync(ctx context.Context, eventType string,
	start, end uint64) FutureGetEventsForHeightRangeResult {

	if end < start || end-start >= MaxEventHeightRange {
		return newFutureError(fmt.Errorf("%w: height range %d-%d",
			ErrInvalidParam, start, end))
	}
	cmd := ledgerjson.NewGetEventsForHeightRangeCmd(eventType, start, end)
	return c.sendCmd(ctx, cmd)
}

// GetEventsForHeightRange returns the events of eventType emitted in blocks
// start through end inclusive.  The range may span at most
// MaxEventHeightRange blocks; use ScanEvents for longer ranges.
func (c *Client) GetEventsForHeightRange(ctx context.Context, eventType string,
	start, end uint64) ([]ledgerjson.BlockEvents, error) {

	return c.GetEventsForHeightRangeAsync(ctx, eventType, start, end).Receive()
}

// ScanEvents calls fn for the events of every block between from and to
// inclusive, in height order.  The range is fetched in chunks of at most
// MaxEventHeightRange blocks.  Scanning stops at the first error returned by
// the ledger or by fn.
func (c *Client) ScanEvents(ctx context.Context, eventType string, from, to uint64,
	fn func(ledgerjson.BlockEvents) error) error {

	if to < from {
		return fmt.Errorf("%w: height range %d-%d", ErrInvalidParam,
			from, to)
	}

	for start := from; ; {
		end := start + MaxEventHeightRange - 1
		if end > to || end < start {
			end = to
		}

		log.Debugf("Scanning %s events in blocks %d-%d", eventType,
			start, end)
		blocks, err := c.GetEventsForHeightRange(ctx, eventType, start, end)
		if err != nil {
			return err
		}
		for _, block := range blocks {
			if err := fn(block); err != nil {
				return err
			}
		}

		if end == to {
			return nil
		}
		start = end + 1
	}
}

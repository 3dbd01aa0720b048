package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// promptDateField is the vendor field carrying a contract's prompt date.
const promptDateField = "LME_PROMPT_DT"

// roundTrip sends one request and drains its response events until the
// terminal event arrives. Partial responses are accumulated; an error event
// or timeout aborts the request.
func (c *Client) roundTrip(ctx context.Context, req request) ([]event, error) {
	ch := c.register(req.ID)
	defer c.unregister(req.ID)

	if err := c.send(req); err != nil {
		return nil, err
	}

	timer := time.NewTimer(c.cfg.RequestTimeout)
	defer timer.Stop()

	var events []event
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.done:
			return nil, ErrAlreadyClosed
		case <-timer.C:
			return nil, fmt.Errorf("%w: request %s", ErrRequestTimeout, req.ID)
		case ev := <-ch:
			switch ev.Event {
			case eventError:
				if ev.Error != nil {
					return nil, &RequestError{Code: ev.Error.Code, Message: ev.Error.Message}
				}
				return nil, &RequestError{Code: "unknown", Message: "error event without detail"}
			case eventPartial:
				events = append(events, ev)
			case eventFinal:
				events = append(events, ev)
				return events, nil
			default:
				c.logger.Warn("unexpected event kind", "id", req.ID, "event", ev.Event)
			}
		}
	}
}

// Search runs an instrument-list query and returns results accumulated
// across all response events.
func (c *Client) Search(ctx context.Context, query, filter string) ([]SearchResult, error) {
	req := request{
		ID:         uuid.NewString(),
		Type:       typeSearch,
		Query:      query,
		Filter:     filter,
		MaxResults: 1000,
	}

	events, err := c.roundTrip(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var results []SearchResult
	for _, ev := range events {
		results = append(results, ev.Results...)
	}
	return results, nil
}

// Fetch issues one batched reference-data request. Per-ticker security
// errors are returned alongside the data instead of failing the batch;
// callers decide whether to log or skip them.
func (c *Client) Fetch(ctx context.Context, securities, fields []string) (map[string]FieldMap, []SecurityError, error) {
	req := request{
		ID:         uuid.NewString(),
		Type:       typeRefdata,
		Securities: securities,
		Fields:     fields,
	}

	events, err := c.roundTrip(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("refdata for %d securities: %w", len(securities), err)
	}

	data := make(map[string]FieldMap, len(securities))
	var secErrs []SecurityError
	for _, ev := range events {
		for _, sd := range ev.SecurityData {
			if sd.SecurityError != nil {
				secErrs = append(secErrs, SecurityError{
					Ticker:  sd.Security,
					Code:    sd.SecurityError.Code,
					Message: sd.SecurityError.Message,
				})
				continue
			}
			data[sd.Security] = FieldMap(sd.Fields)
		}
	}
	return data, secErrs, nil
}

// PromptDates looks up the benchmark 3-month and cash tickers' prompt
// dates. Same wire shape as Fetch; both dates must be present.
func (c *Client) PromptDates(ctx context.Context, threeMonthTicker, cashTicker string) (PromptDates, error) {
	data, secErrs, err := c.Fetch(ctx, []string{threeMonthTicker, cashTicker}, []string{promptDateField})
	if err != nil {
		return PromptDates{}, err
	}
	for _, se := range secErrs {
		c.logger.Warn("prompt-date lookup security error",
			"ticker", se.Ticker,
			"code", se.Code,
			"message", se.Message,
		)
	}

	var pd PromptDates
	var ok bool
	if pd.ThreeMonth, ok = data[threeMonthTicker].Date(promptDateField); !ok {
		return PromptDates{}, fmt.Errorf("no prompt date for %s", threeMonthTicker)
	}
	if pd.Cash, ok = data[cashTicker].Date(promptDateField); !ok {
		return PromptDates{}, fmt.Errorf("no prompt date for %s", cashTicker)
	}
	return pd, nil
}

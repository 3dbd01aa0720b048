// Package ticker decodes LME spread tickers into tagged settlement legs.
//
// A spread ticker has the form "PREFIX <leg-spec>[ Comdty]" where the leg
// spec encodes two legs: an explicit YYMMDD date, the rolling 3-month prompt
// ("03"), the cash prompt ("00"), or a third-Wednesday monthly expiry
// (futures month code + two-digit year). Several encodings are textually
// similar, so patterns are tried in a fixed priority order and the first
// match wins.
package ticker

package chat

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/natter-io/natter/internal/models"
)

// scanWindow bounds how much history is scanned per channel during a
// search. Deep archive search belongs on the server side, not in a TUI.
const scanWindow = 500

// SearchQuery describes a message search across channels.
type SearchQuery struct {
	ChannelPattern string // wildcard pattern, empty or "*" matches all
	Sender         string // exact sender, case-insensitive, empty matches all
	Contains       string // substring of the body, case-insensitive
	AgeOp          string // "any", "within", "older"
	Age            time.Duration
	Limit          int
}

// SearchMessages scans the most recent history of every matching channel
// and returns messages satisfying the query, newest first.
func (c *Client) SearchMessages(ctx context.Context, q SearchQuery) ([]*models.Message, error) {
	channels, err := c.ListChannels()
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}

	nameRe, err := compilePattern(q.ChannelPattern)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 200
	}

	var matched []*models.Message
	for _, ch := range channels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if nameRe != nil && !nameRe.MatchString(ch.Name) {
			continue
		}

		history, err := c.fetchHistory(ch.Name, scanWindow)
		if err != nil {
			c.log.Debug("search skipping channel", "channel", ch.Name, "error", err)
			continue
		}
		for _, msg := range history {
			if q.matches(msg) {
				matched = append(matched, msg)
			}
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Time.After(matched[j].Time)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// compilePattern converts a wildcard pattern to an anchored regexp.
// Nil means "match everything".
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" || pattern == "*" {
		return nil, nil
	}
	expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*") + "$"
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid channel pattern %q: %w", pattern, err)
	}
	return re, nil
}

func (q *SearchQuery) matches(msg *models.Message) bool {
	if q.Sender != "" && !strings.EqualFold(q.Sender, msg.Sender) {
		return false
	}
	if q.Contains != "" && !strings.Contains(strings.ToLower(msg.Body), strings.ToLower(q.Contains)) {
		return false
	}

	if q.AgeOp != "" && q.AgeOp != "any" && q.Age > 0 {
		age := time.Since(msg.Time)
		switch q.AgeOp {
		case "within":
			if age > q.Age {
				return false
			}
		case "older":
			if age <= q.Age {
				return false
			}
		}
	}
	return true
}

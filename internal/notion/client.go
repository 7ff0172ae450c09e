package notion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/TyReed12/ResTracker/internal/model"
	"github.com/go-resty/resty/v2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrRemoteUnreachable signals that the remote call failed outright
// (offline, DNS, timeout). Mutations recover by queueing, reads by
// falling back to the local store.
var ErrRemoteUnreachable = errors.New("remote unreachable")

// RemoteError is returned when the remote store completed the call with a
// non-success status. Mutation handling treats it like unreachable, but
// the status is kept for diagnosis.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote rejected request: status %d", e.Status)
}

// Client is the stateless gateway to the Notion database holding the
// authoritative goal records. It only translates between goal records and
// Notion's property bags; all sync policy lives in the coordinator.
type Client struct {
	http       *resty.Client
	databaseID string
	collator   *collate.Collator
}

func NewClient(baseURL, token, version, databaseID string, timeout time.Duration) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetHeader("Notion-Version", version).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{
		http:       http,
		databaseID: databaseID,
		collator:   collate.New(language.English, collate.IgnoreCase),
	}
}

type queryRequest struct {
	PageSize    int    `json:"page_size"`
	StartCursor string `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// List fetches all goal records, sorted by category then title. Archived
// pages are skipped. Malformed records never fail the fetch; they map to
// defaults instead.
func (c *Client) List(ctx context.Context) ([]*model.Goal, error) {
	var goals []*model.Goal
	cursor := ""

	for {
		var out queryResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(queryRequest{PageSize: 100, StartCursor: cursor}).
			SetResult(&out).
			Post(fmt.Sprintf("/v1/databases/%s/query", c.databaseID))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRemoteUnreachable, err)
		}
		if resp.IsError() {
			return nil, &RemoteError{Status: resp.StatusCode(), Body: string(resp.Body())}
		}

		for i := range out.Results {
			p := &out.Results[i]
			if p.Archived {
				continue
			}
			goals = append(goals, FromPage(p))
		}

		if !out.HasMore || out.NextCursor == "" {
			break
		}
		cursor = out.NextCursor
	}

	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].Category != goals[j].Category {
			return goals[i].Category < goals[j].Category
		}
		return c.collator.CompareString(goals[i].Title, goals[j].Title) < 0
	})

	return goals, nil
}

type createRequest struct {
	Parent     parentRef           `json:"parent"`
	Properties map[string]property `json:"properties"`
}

type parentRef struct {
	DatabaseID string `json:"database_id"`
}

type createResponse struct {
	ID string `json:"id"`
}

// Create creates one record and returns its remote id.
func (c *Client) Create(ctx context.Context, goal *model.Goal) (string, error) {
	var out createResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createRequest{
			Parent:     parentRef{DatabaseID: c.databaseID},
			Properties: FullProperties(goal),
		}).
		SetResult(&out).
		Post("/v1/pages")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRemoteUnreachable, err)
	}
	if resp.IsError() {
		return "", &RemoteError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}

	slog.Debug("remote record created", "remote_id", out.ID)
	return out.ID, nil
}

type updateRequest struct {
	Properties map[string]property `json:"properties,omitempty"`
	Archived   *bool               `json:"archived,omitempty"`
}

// Update applies a partial field update to a record. Only fields present
// in the patch are sent, so unrelated remote properties are untouched.
func (c *Client) Update(ctx context.Context, remoteID string, patch model.GoalPatch) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(updateRequest{Properties: PatchProperties(patch)}).
		Patch(fmt.Sprintf("/v1/pages/%s", remoteID))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnreachable, err)
	}
	if resp.IsError() {
		return &RemoteError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	return nil
}

// Archive soft-deletes a record. Records are never hard-deleted.
func (c *Client) Archive(ctx context.Context, remoteID string) error {
	archived := true
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(updateRequest{Archived: &archived}).
		Patch(fmt.Sprintf("/v1/pages/%s", remoteID))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnreachable, err)
	}
	if resp.IsError() {
		return &RemoteError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	return nil
}

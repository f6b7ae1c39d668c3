package api

import (
	"context"
	"net/http"

	"finboard/internal/session"
)

// Admin operations: the approval queue does not follow the uniform resource
// shape, so it gets explicit wrappers.

func (c *Client) AdminRequests(ctx context.Context, sess *session.Session) ([]CEORequest, error) {
	var out []CEORequest

	if err := c.Do(ctx, sess, http.MethodGet, "/admin/requests", nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) AdminApprove(ctx context.Context, sess *session.Session, id string) error {
	return c.Do(ctx, sess, http.MethodPost, "/admin/approve/"+id, nil, nil)
}

func (c *Client) AdminReject(ctx context.Context, sess *session.Session, id string) error {
	return c.Do(ctx, sess, http.MethodPost, "/admin/reject/"+id, nil, nil)
}

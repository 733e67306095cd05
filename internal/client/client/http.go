package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/dmitrijs2005/studyhub/internal/common"
	"github.com/dmitrijs2005/studyhub/internal/logging"
	"github.com/dmitrijs2005/studyhub/internal/netx"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// HTTPClient talks to the backend over JSON/HTTP.
type HTTPClient struct {
	baseURL    string
	http       *http.Client
	log        logging.Logger
	metrics    *Metrics
	maxRetries uint64
	retryBase  time.Duration

	mu    sync.RWMutex
	token string
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every single attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithRetries sets how many times an idempotent read is retried after an
// ErrUnavailable failure, starting from base and doubling.
func WithRetries(max uint64, base time.Duration) Option {
	return func(c *HTTPClient) {
		c.maxRetries = max
		c.retryBase = base
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *HTTPClient) { c.metrics = m }
}

func WithToken(token string) Option {
	return func(c *HTTPClient) { c.token = token }
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 10 * time.Second},
		log:       logging.Discard(),
		retryBase: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do performs one logical call. GET requests are retried on ErrUnavailable;
// mutations are sent exactly once.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		payload = b
	}

	if method != http.MethodGet || c.maxRetries == 0 {
		return c.attempt(ctx, op, method, path, payload, out)
	}

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.attempt(ctx, op, method, path, payload, out)
		if errors.Is(err, ErrUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *HTTPClient) attempt(ctx context.Context, op, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, netx.JoinURL(c.baseURL, path), body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(op, 0, time.Since(start))
		c.log.Debug(ctx, "request failed", "op", op, "method", method, "path", path, "request_id", requestID, "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.metrics.observe(op, resp.StatusCode, time.Since(start))
	c.log.Debug(ctx, "request", "op", op, "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Detail: netx.ErrorDetail(resp)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func (c *HTTPClient) Me(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, "me", http.MethodGet, "/users/me", nil, &u)
	return u, err
}

func (c *HTTPClient) ListMaterials(ctx context.Context) ([]models.Material, error) {
	var items []models.Material
	if err := c.do(ctx, "list_materials", http.MethodGet, "/materials/all", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) CreateFolder(ctx context.Context, name string, parentID *int64) (models.Material, error) {
	in := struct {
		Name     string `json:"name"`
		ParentID *int64 `json:"parent_id"`
	}{name, parentID}

	var m models.Material
	err := c.do(ctx, "create_folder", http.MethodPost, "/folders", in, &m)
	return m, err
}

func (c *HTTPClient) RenameMaterial(ctx context.Context, id int64, name string) (models.Material, error) {
	in := struct {
		Name string `json:"name"`
	}{name}

	var m models.Material
	err := c.do(ctx, "rename_material", http.MethodPatch, fmt.Sprintf("/materials/%d", id), in, &m)
	return m, err
}

// MoveMaterial always sends parent_id, as an explicit null for the root.
func (c *HTTPClient) MoveMaterial(ctx context.Context, id int64, parentID *int64) (models.Material, error) {
	in := struct {
		ParentID *int64 `json:"parent_id"`
	}{parentID}

	var m models.Material
	err := c.do(ctx, "move_material", http.MethodPatch, fmt.Sprintf("/materials/%d", id), in, &m)
	return m, err
}

func (c *HTTPClient) DeleteMaterial(ctx context.Context, id int64) ([]int64, error) {
	var ids []int64
	if err := c.do(ctx, "delete_material", http.MethodDelete, fmt.Sprintf("/materials/%d", id), nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *HTTPClient) VoteMaterial(ctx context.Context, id int64, vote models.VoteType) (models.VoteResult, error) {
	var r models.VoteResult
	err := c.do(ctx, "vote_material", http.MethodPost, fmt.Sprintf("/materials/%d/vote", id), voteBody{vote}, &r)
	return r, err
}

func (c *HTTPClient) GetSet(ctx context.Context, id int64) (models.FlashcardSet, error) {
	var s models.FlashcardSet
	err := c.do(ctx, "get_set", http.MethodGet, fmt.Sprintf("/sets/%d", id), nil, &s)
	return s, err
}

func (c *HTTPClient) CreateSet(ctx context.Context, draft models.SetDraft) (models.Material, error) {
	var m models.Material
	err := c.do(ctx, "create_set", http.MethodPost, "/sets", draft, &m)
	return m, err
}

func (c *HTTPClient) UpdateSet(ctx context.Context, id int64, draft models.SetDraft) (models.Material, error) {
	in := struct {
		Name        string             `json:"name"`
		Description string             `json:"description"`
		IsPublic    bool               `json:"is_public"`
		Flashcards  []models.Flashcard `json:"flashcards"`
	}{draft.Name, draft.Description, draft.IsPublic, draft.Flashcards}

	var m models.Material
	err := c.do(ctx, "update_set", http.MethodPatch, fmt.Sprintf("/sets/%d", id), in, &m)
	return m, err
}

func (c *HTTPClient) CopySet(ctx context.Context, id int64, targetFolderID *int64) (models.Material, error) {
	in := struct {
		TargetFolderID *int64 `json:"target_folder_id"`
	}{targetFolderID}

	var m models.Material
	err := c.do(ctx, "copy_set", http.MethodPost, fmt.Sprintf("/sets/%d/copy", id), in, &m)
	return m, err
}

func (c *HTTPClient) Share(ctx context.Context, materialID int64, email string, perm models.Permission) (models.SharedUser, error) {
	in := struct {
		Email      string            `json:"email"`
		Permission models.Permission `json:"permission"`
	}{email, perm}

	var u models.SharedUser
	err := c.do(ctx, "share", http.MethodPost, fmt.Sprintf("/materials/%d/share", materialID), in, &u)
	return u, err
}

func (c *HTTPClient) Unshare(ctx context.Context, materialID, userID int64) error {
	return c.do(ctx, "unshare", http.MethodDelete, fmt.Sprintf("/materials/%d/share/%d", materialID, userID), nil, nil)
}

func (c *HTTPClient) UpdateShares(ctx context.Context, materialID int64, updates []models.ShareUpdate) error {
	in := struct {
		Updates []models.ShareUpdate `json:"updates"`
	}{updates}
	return c.do(ctx, "update_shares", http.MethodPost, fmt.Sprintf("/materials/%d/shares/update", materialID), in, nil)
}

func (c *HTTPClient) PendingShares(ctx context.Context) ([]models.PendingShare, error) {
	var shares []models.PendingShare
	if err := c.do(ctx, "pending_shares", http.MethodGet, "/shares/pending", nil, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

func (c *HTTPClient) AcceptShare(ctx context.Context, shareID int64) (models.Material, error) {
	var m models.Material
	err := c.do(ctx, "accept_share", http.MethodPost, fmt.Sprintf("/shares/pending/%d/accept", shareID), nil, &m)
	return m, err
}

func (c *HTTPClient) RejectShare(ctx context.Context, shareID int64) error {
	return c.do(ctx, "reject_share", http.MethodDelete, fmt.Sprintf("/shares/pending/%d", shareID), nil, nil)
}

func (c *HTTPClient) AddComment(ctx context.Context, materialID int64, text string, parentID *int64) (models.Comment, error) {
	in := struct {
		Text            string `json:"text"`
		ParentCommentID *int64 `json:"parent_comment_id"`
	}{text, parentID}

	var cm models.Comment
	err := c.do(ctx, "add_comment", http.MethodPost, fmt.Sprintf("/materials/%d/comments", materialID), in, &cm)
	return cm, err
}

func (c *HTTPClient) EditComment(ctx context.Context, id int64, text string) (models.Comment, error) {
	in := struct {
		Text string `json:"text"`
	}{text}

	var cm models.Comment
	err := c.do(ctx, "edit_comment", http.MethodPatch, fmt.Sprintf("/comments/%d", id), in, &cm)
	return cm, err
}

func (c *HTTPClient) DeleteComment(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_comment", http.MethodDelete, fmt.Sprintf("/comments/%d", id), nil, nil)
}

func (c *HTTPClient) VoteComment(ctx context.Context, id int64, vote models.VoteType) (models.VoteResult, error) {
	var r models.VoteResult
	err := c.do(ctx, "vote_comment", http.MethodPost, fmt.Sprintf("/comments/%d/vote", id), voteBody{vote}, &r)
	return r, err
}

type voteBody struct {
	VoteType models.VoteType `json:"vote_type"`
}

var _ Client = (*HTTPClient)(nil)

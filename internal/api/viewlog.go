package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	interrors "github.com/docharbor/docsearch/internal/errors"
	"github.com/docharbor/docsearch/internal/logqueue"
	"github.com/docharbor/docsearch/internal/types"
)

// LogView submits a view event through the dispatch queue and returns as
// soon as it is enqueued. Delivery failures are classified so the queue
// retries 5xx/network errors and drops 4xx immediately; the portal never
// blocks on view logging.
func LogView(ctx context.Context, q *logqueue.Queue, httpClient *http.Client, baseURL string, event types.ViewLogEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidateIDPresent(event.DocumentID, "documentId"); err != nil {
		return err
	}

	job := logqueue.JobFunc(func(jobCtx context.Context) error {
		body, err := json.Marshal(event)
		if err != nil {
			return err
		}
		httpReq, err := http.NewRequestWithContext(jobCtx, http.MethodPost, baseURL+"/document_log", bytes.NewBuffer(body))
		if err != nil {
			return err
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := httpClient.Do(httpReq)
		if err != nil {
			return interrors.NewNetworkError("log view", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return interrors.NewHTTPError(resp.StatusCode, string(excerpt), "log view")
		}
		return nil
	})

	return q.Submit(ctx, event.DocumentID, job)
}

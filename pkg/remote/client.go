package remote

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clipdeck/clipdeck/pkg/config"
	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

// maxRecordedBodyLen caps request bodies kept in the network call log.
const maxRecordedBodyLen = 2048

// Client talks to the content server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	calls      *CallLogService
	userAgent  string
}

func NewClient(cfg *config.Config, calls *CallLogService) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.RemoteBaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
		calls:      calls,
		userAgent:  "clipdeck/" + cfg.AppVersion,
	}
}

// FetchUpdateEvents returns the events at or after since in server order.
// A nil since asks for the whole feed.
func (c *Client) FetchUpdateEvents(ctx context.Context, since *time.Time) ([]*models.UpdateEvent, error) {
	path := "/v3/update-events"
	if since != nil {
		path += "?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339Nano))
	}

	var dtos []updateEventDTO
	if err := c.getJSON(ctx, path, &dtos); err != nil {
		return nil, err
	}

	events := make([]*models.UpdateEvent, 0, len(dtos))
	for _, d := range dtos {
		if d.ID == "" || d.ContentID == "" {
			return nil, errcodes.FetchError(errors.Errorf("update event without id or content id: %+v", d))
		}
		events = append(events, d.toModel())
	}
	return events, nil
}

func (c *Client) FetchSound(ctx context.Context, id string) (*models.Content, error) {
	var dto soundDTO
	if err := c.getJSON(ctx, "/v3/sounds/"+url.PathEscape(id), &dto); err != nil {
		return nil, err
	}
	return dto.toModel(), nil
}

func (c *Client) FetchSong(ctx context.Context, id string) (*models.Content, error) {
	var dto songDTO
	if err := c.getJSON(ctx, "/v3/songs/"+url.PathEscape(id), &dto); err != nil {
		return nil, err
	}
	return dto.toModel(), nil
}

func (c *Client) FetchAuthor(ctx context.Context, id string) (*models.Author, error) {
	var dto authorDTO
	if err := c.getJSON(ctx, "/v3/authors/"+url.PathEscape(id), &dto); err != nil {
		return nil, err
	}
	return dto.toModel(), nil
}

func (c *Client) FetchGenre(ctx context.Context, id string) (*models.Genre, error) {
	var dto genreDTO
	if err := c.getJSON(ctx, "/v3/genres/"+url.PathEscape(id), &dto); err != nil {
		return nil, err
	}
	return dto.toModel(), nil
}

// DownloadSound fetches the audio of sound id into dest. The file is written
// next to dest and renamed into place only once it is known to be audio.
func (c *Client) DownloadSound(ctx context.Context, id, dest string) error {
	resp, err := c.do(ctx, http.MethodGet, "/v3/sounds/"+url.PathEscape(id)+"/file", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.WithStack(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return errors.WithStack(err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	_, err = io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errcodes.FetchError(errors.Wrap(err, "failed to read sound file"))
	}

	mtype, err := mimetype.DetectFile(tmpName)
	if err != nil {
		return errors.WithStack(err)
	}
	if !isAudio(mtype) {
		return errcodes.FetchError(errors.Errorf("sound %s is %s, not audio", id, mtype.String()))
	}

	return errors.WithStack(os.Rename(tmpName, dest))
}

// PostShareLogs uploads share log entries.
func (c *Client) PostShareLogs(ctx context.Context, logs []*models.ShareLog) error {
	body, err := json.Marshal(shareLogDTOs(logs))
	if err != nil {
		return errors.WithStack(err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v3/share-logs", body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func isAudio(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "audio/") {
			return true
		}
	}
	return false
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errcodes.FetchError(errors.Wrap(err, "failed to read response"))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errcodes.FetchError(errors.Wrapf(err, "failed to decode %s", path))
	}
	return nil
}

// do performs a request and records it in the call log. Any transport error
// or non-2xx status comes back as a FetchError; on success the caller owns
// the response body.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	fullURL := c.baseURL + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)

	call := &models.NetworkCallLog{RequestURL: fullURL}
	if body != nil {
		s := string(body)
		if len(s) > maxRecordedBodyLen {
			s = s[:maxRecordedBodyLen]
		}
		call.RequestBody = &s
	}
	if resp != nil {
		call.ResponseCode = resp.StatusCode
		call.WasSuccessful = resp.StatusCode >= 200 && resp.StatusCode < 300
	}
	c.record(ctx, call)

	if err != nil {
		return nil, errcodes.FetchError(errors.Wrapf(err, "%s %s", method, path))
	}
	if !call.WasSuccessful {
		resp.Body.Close()
		return nil, errcodes.FetchError(errors.Errorf("%s %s: HTTP %d", method, path, resp.StatusCode))
	}
	return resp, nil
}

func (c *Client) record(ctx context.Context, call *models.NetworkCallLog) {
	if c.calls == nil {
		return
	}
	if err := c.calls.Record(context.WithoutCancel(ctx), call); err != nil {
		logger.FromContext(ctx).Err(err).Warn("failed to record network call")
	}
}

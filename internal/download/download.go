// Package download fetches English–Rutooro sentence pairs from public
// sources and converts them to the unified record format.
package download

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/rutooro/translation-manager/internal/dataset"
	"github.com/rutooro/translation-manager/internal/domain"
)

// Source identifies where a dataset is downloaded from.
type Source string

const (
	// SourceHF is the HuggingFace sentence-pair dataset.
	SourceHF Source = "hf"
	// SourceManyEng is the MaNy-Eng TSV release.
	SourceManyEng Source = "many-eng"
)

// DefaultOutput is where the downloaded dataset is written by default.
const DefaultOutput = "data/english_rutooro.json"

const maxRedirects = 5

// ErrUnsupportedSource is returned for any source other than hf and many-eng.
var ErrUnsupportedSource = errors.New("source must be 'hf' or 'many-eng'")

// ParseSource validates a source identifier.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceHF, SourceManyEng:
		return Source(s), nil
	}
	return "", fmt.Errorf("%w: got %q", ErrUnsupportedSource, s)
}

// Options configures the download client.
type Options struct {
	HFRowsURL  string
	HFDataset  string
	HFPageSize int
	ManyEngURL string
	Timeout    time.Duration
	// Dial overrides how connections are opened; nil uses TCP.
	Dial fasthttp.DialFunc
}

// Client downloads datasets over HTTP.
type Client struct {
	http *fasthttp.Client
	opts Options
}

// New creates a download Client.
func New(opts Options) *Client {
	if opts.HFPageSize <= 0 {
		opts.HFPageSize = 100
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	return &Client{
		http: &fasthttp.Client{
			Name:         "ttj-dataset-downloader",
			ReadTimeout:  opts.Timeout,
			WriteTimeout: opts.Timeout,
			Dial:         opts.Dial,
		},
		opts: opts,
	}
}

// hfRowsPage is one page of the datasets-server /rows API.
type hfRowsPage struct {
	Rows []struct {
		RowIdx int              `json:"row_idx"`
		Row    domain.RawRecord `json:"row"`
	} `json:"rows"`
	NumRowsTotal int `json:"num_rows_total"`
}

// Fetch downloads every sentence pair from src. Cancelling ctx aborts the
// download, including a request in flight.
func (c *Client) Fetch(ctx context.Context, src Source) ([]domain.Record, error) {
	switch src {
	case SourceHF:
		return c.fetchHF(ctx)
	case SourceManyEng:
		return c.fetchManyEng(ctx)
	}
	return nil, fmt.Errorf("%w: got %q", ErrUnsupportedSource, src)
}

func (c *Client) fetchHF(ctx context.Context) ([]domain.Record, error) {
	var records []domain.Record
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		q := url.Values{}
		q.Set("dataset", c.opts.HFDataset)
		q.Set("config", "default")
		q.Set("split", "train")
		q.Set("offset", strconv.Itoa(offset))
		q.Set("length", strconv.Itoa(c.opts.HFPageSize))

		body, err := c.get(ctx, c.opts.HFRowsURL+"?"+q.Encode())
		if err != nil {
			return nil, err
		}

		var page hfRowsPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("parse rows page at offset %d: %w", offset, err)
		}

		for _, r := range page.Rows {
			en, tt, ok := dataset.ExtractPair(r.Row)
			if !ok {
				continue
			}
			records = append(records, domain.Record{Translation: domain.RecordText{En: en, Ttj: tt}})
		}

		offset += len(page.Rows)
		if len(page.Rows) == 0 || offset >= page.NumRowsTotal {
			return records, nil
		}
	}
}

func (c *Client) fetchManyEng(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := c.get(ctx, c.opts.ManyEngURL)
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		parts := strings.Split(sc.Text(), "\t")
		if len(parts) < 2 {
			continue
		}
		records = append(records, domain.Record{Translation: domain.RecordText{En: parts[0], Ttj: parts[1]}})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read TSV: %w", err)
	}
	return records, nil
}

// get performs a GET on a separate goroutine so a cancelled ctx returns
// at once. The abandoned request still ends within the client timeout.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	type result struct {
		body []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := c.do(rawURL)
		done <- result{body, err}
	}()

	select {
	case r := <-done:
		return r.body, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// do performs a GET, following redirects, and returns a copy of the body.
func (c *Client) do(rawURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rawURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.http.DoRedirects(req, resp, maxRedirects); err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return nil, fmt.Errorf("failed to download dataset (status code %d)", code)
	}

	return append([]byte(nil), resp.Body()...), nil
}

// Run validates source, downloads it and writes the records to output.
// An unknown source fails before any network or file activity.
func Run(ctx context.Context, c *Client, source, output string) (int, error) {
	src, err := ParseSource(source)
	if err != nil {
		return 0, err
	}
	if output == "" {
		output = DefaultOutput
	}

	records, err := c.Fetch(ctx, src)
	if err != nil {
		return 0, err
	}

	if err := dataset.WriteJSON(output, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

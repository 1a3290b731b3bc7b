package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"merngen/internal/errs"
	"merngen/internal/util/jsonutil"
)

const DefaultProxyURL = "http://localhost:5001/generate"

// ProxyRequest is the body accepted by the generation proxy.
type ProxyRequest struct {
	Prompt string `json:"prompt"`
}

// ProxyResponse is the envelope returned by the generation proxy. Data holds
// the architecture object on success.
type ProxyResponse struct {
	Success     bool            `json:"success"`
	Data        json.RawMessage `json:"data,omitempty"`
	ProjectType string          `json:"projectType,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// ProxyClient talks to a merngen gateway instead of calling the model
// directly. The proxy owns model selection, so Request.Model is ignored.
type ProxyClient struct {
	URL  string
	HTTP *http.Client
}

func NewProxyClient(url string) *ProxyClient {
	if strings.TrimSpace(url) == "" {
		url = DefaultProxyURL
	}
	return &ProxyClient{URL: url, HTTP: &http.Client{Timeout: 2 * time.Minute}}
}

func (p *ProxyClient) Name() string { return "Proxy:" + p.URL }

func (p *ProxyClient) Request(ctx context.Context, req Request) (string, error) {
	body, err := jsonutil.MarshalNoEscape(ProxyRequest{Prompt: req.UserPrompt})
	if err != nil {
		return "", NewPermanentError(errs.Wrap(errs.EInput, "encode proxy request", err))
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return "", NewPermanentError(errs.Wrap(errs.EInput, "build proxy request", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := p.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", errs.Wrap(errs.EBackendTransport, "proxy request", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", errs.Wrap(errs.EBackendTransport, "read proxy response", err)
	}

	var out ProxyResponse
	decodeErr := json.Unmarshal(raw, &out)
	if resp.StatusCode >= 400 {
		msg := fmt.Sprintf("proxy returned %d", resp.StatusCode)
		if decodeErr == nil && out.Error != "" {
			msg += ": " + out.Error
		}
		err := errs.New(errs.EBackendTransport, msg)
		if resp.StatusCode < 500 {
			return "", NewPermanentError(err)
		}
		return "", err
	}
	if decodeErr != nil {
		return "", errs.Wrap(errs.EMalformedResponse, "decode proxy response", decodeErr)
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "unknown error"
		}
		return "", errs.New(errs.EBackendTransport, "proxy: "+msg)
	}
	if len(bytes.TrimSpace(out.Data)) == 0 {
		return "", errs.Wrap(errs.EMalformedResponse, "proxy", ErrEmptyResponse)
	}
	return string(out.Data), nil
}

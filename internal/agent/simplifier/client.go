package simplifier

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "mime/multipart"
    "net/http"
    "net/textproto"
    "strings"
    "time"

    "github.com/xprabhudayal/genai/internal/models"
    "github.com/xprabhudayal/genai/pkg/logger"
)

// Operation names, used in errors and logs.
const (
    OpUpload    = "upload"
    OpSimplify  = "simplify"
    OpExplain   = "explain"
    OpSummarize = "summarize"
    OpHealth    = "health"
)

// envelope is the union of every response body the service sends.
type envelope struct {
    Success        bool   `json:"success"`
    Error          string `json:"error,omitempty"`
    Filename       string `json:"filename,omitempty"`
    OriginalText   string `json:"original_text,omitempty"`
    Summary        string `json:"summary,omitempty"`
    SimplifiedText string `json:"simplified_text,omitempty"`
    Explanation    string `json:"explanation,omitempty"`
}

type Config struct {
    BaseURL string
    // Timeout of zero leaves requests to run until they resolve.
    Timeout    time.Duration
    HTTPClient *http.Client
}

// Client talks to the document simplification service.
type Client struct {
    baseURL    string
    httpClient *http.Client
    logger     logger.Logger
}

func NewClient(cfg *Config, log logger.Logger) *Client {
    if log == nil {
        log = logger.NewNop()
    }
    httpClient := cfg.HTTPClient
    if httpClient == nil {
        httpClient = &http.Client{Timeout: cfg.Timeout}
    }
    return &Client{
        baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
        httpClient: httpClient,
        logger:     log.Named("simplifier"),
    }
}

// Upload sends the document as multipart field "file" to /upload.
func (c *Client) Upload(ctx context.Context, req *models.UploadRequest) (*models.DocumentResult, error) {
    body := new(bytes.Buffer)
    mw := multipart.NewWriter(body)

    header := make(textproto.MIMEHeader)
    header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(req.Filename)))
    header.Set("Content-Type", req.MimeType)
    part, err := mw.CreatePart(header)
    if err != nil {
        return nil, &models.TransportError{Operation: OpUpload, Err: fmt.Errorf("failed to create form part: %w", err)}
    }
    if _, err := part.Write(req.Data); err != nil {
        return nil, &models.TransportError{Operation: OpUpload, Err: fmt.Errorf("failed to write form part: %w", err)}
    }
    if err := mw.Close(); err != nil {
        return nil, &models.TransportError{Operation: OpUpload, Err: fmt.Errorf("failed to close form: %w", err)}
    }

    env, err := c.do(ctx, OpUpload, http.MethodPost, "/upload", mw.FormDataContentType(), body)
    if err != nil {
        return nil, err
    }

    return &models.DocumentResult{
        Filename:       env.Filename,
        OriginalText:   env.OriginalText,
        Summary:        env.Summary,
        SimplifiedText: env.SimplifiedText,
    }, nil
}

// Simplify posts {text} to /simplify.
func (c *Client) Simplify(ctx context.Context, text string) (*models.SimplifiedText, error) {
    env, err := c.postJSON(ctx, OpSimplify, "/simplify", map[string]string{"text": text})
    if err != nil {
        return nil, err
    }
    return &models.SimplifiedText{Text: env.SimplifiedText}, nil
}

// Explain posts {term} to /explain.
func (c *Client) Explain(ctx context.Context, term string) (*models.TermExplanation, error) {
    env, err := c.postJSON(ctx, OpExplain, "/explain", map[string]string{"term": term})
    if err != nil {
        return nil, err
    }
    return &models.TermExplanation{Term: term, Explanation: env.Explanation}, nil
}

// Summarize posts {text} to /summarize.
func (c *Client) Summarize(ctx context.Context, text string) (*models.Summary, error) {
    env, err := c.postJSON(ctx, OpSummarize, "/summarize", map[string]string{"text": text})
    if err != nil {
        return nil, err
    }
    return &models.Summary{Text: env.Summary}, nil
}

// Health queries /health. Any decodable answer counts as reachable.
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
    if err != nil {
        return nil, &models.TransportError{Operation: OpHealth, Err: fmt.Errorf("failed to create request: %w", err)}
    }

    resp, err := c.httpClient.Do(req)
    if err != nil {
        return nil, &models.TransportError{Operation: OpHealth, Err: err}
    }
    defer resp.Body.Close()

    var status models.HealthStatus
    if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
        return nil, &models.TransportError{Operation: OpHealth, Err: fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)}
    }
    return &status, nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload interface{}) (*envelope, error) {
    reqData, err := json.Marshal(payload)
    if err != nil {
        return nil, &models.TransportError{Operation: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
    }
    return c.do(ctx, op, http.MethodPost, path, "application/json", bytes.NewReader(reqData))
}

// do sends one request and classifies the outcome. The body is decoded
// whatever the status code; only an unusable body or a failed round trip is a
// transport error.
func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader) (*envelope, error) {
    req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
    if err != nil {
        return nil, &models.TransportError{Operation: op, Err: fmt.Errorf("failed to create request: %w", err)}
    }
    req.Header.Set("Content-Type", contentType)
    req.Header.Set("Accept", "application/json")

    start := time.Now()
    resp, err := c.httpClient.Do(req)
    if err != nil {
        c.logger.Error("Request failed",
            logger.String("operation", op),
            logger.String("url", req.URL.String()),
            logger.Error(err),
        )
        return nil, &models.TransportError{Operation: op, Err: err}
    }
    defer resp.Body.Close()

    respData, err := io.ReadAll(resp.Body)
    if err != nil {
        return nil, &models.TransportError{Operation: op, Err: fmt.Errorf("failed to read response: %w", err)}
    }

    c.logger.Debug("Response received",
        logger.String("operation", op),
        logger.Int("status", resp.StatusCode),
        logger.Int("bytes", len(respData)),
        logger.Duration("elapsed", time.Since(start)),
    )

    env, err := decodeEnvelope(respData)
    if err != nil {
        c.logger.Error("Malformed response",
            logger.String("operation", op),
            logger.Int("status", resp.StatusCode),
            logger.Error(err),
        )
        return nil, &models.TransportError{
            Operation: op,
            Err:       fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err),
        }
    }

    if !env.Success {
        return nil, &models.RemoteError{Operation: op, Message: env.Error}
    }

    return env, nil
}

// decodeEnvelope requires a JSON object; null, arrays and scalars are malformed.
func decodeEnvelope(data []byte) (*envelope, error) {
    trimmed := bytes.TrimSpace(data)
    if len(trimmed) == 0 || trimmed[0] != '{' {
        return nil, fmt.Errorf("response body is not a JSON object")
    }
    var env envelope
    if err := json.Unmarshal(trimmed, &env); err != nil {
        return nil, err
    }
    return &env, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
    return quoteEscaper.Replace(s)
}

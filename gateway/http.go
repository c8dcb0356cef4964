package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/blockberries/leaseberry/abi"
	"github.com/blockberries/leaseberry/logging"
	"github.com/blockberries/leaseberry/metrics"
	"github.com/blockberries/leaseberry/types"
)

const tracerName = "github.com/blockberries/leaseberry/gateway"

// HTTPGateway talks to a ledger HTTP gateway. It implements Provider.
type HTTPGateway struct {
	baseURL  string
	contract types.Address
	signer   Signer
	client   *http.Client
	logger   *logging.Logger
	metrics  metrics.Metrics
	tracer   trace.Tracer
}

// HTTPOption configures an HTTPGateway.
type HTTPOption func(*HTTPGateway)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(g *HTTPGateway) { g.client = c }
}

// WithSigner sets the wallet signer used at submission time.
func WithSigner(s Signer) HTTPOption {
	return func(g *HTTPGateway) { g.signer = s }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *logging.Logger) HTTPOption {
	return func(g *HTTPGateway) { g.logger = l }
}

// WithMetrics sets the metrics backend.
func WithMetrics(m metrics.Metrics) HTTPOption {
	return func(g *HTTPGateway) { g.metrics = m }
}

// NewHTTPGateway creates a gateway client for the given base URL and
// contract address.
func NewHTTPGateway(baseURL string, contract types.Address, opts ...HTTPOption) *HTTPGateway {
	g := &HTTPGateway{
		baseURL:  strings.TrimRight(baseURL, "/"),
		contract: contract,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   logging.NewNopLogger(),
		metrics:  metrics.NewNopMetrics(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// envelope is the gateway's response wrapper.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

// queryRequest is the body of a read-only contract query.
type queryRequest struct {
	SCAddress string   `json:"scAddress"`
	FuncName  string   `json:"funcName"`
	Args      []string `json:"args"`
}

// queryResult is the payload of a query response.
type queryResult struct {
	Data struct {
		ReturnData    []string `json:"returnData"`
		ReturnCode    string   `json:"returnCode"`
		ReturnMessage string   `json:"returnMessage"`
	} `json:"data"`
}

// Submit fills the sender's nonce, signs the transaction and broadcasts
// it. Any rejection surfaces as a submission error; nothing is retried.
func (g *HTTPGateway) Submit(ctx context.Context, tx *abi.Transaction) (string, error) {
	ctx, span := g.tracer.Start(ctx, "gateway.Submit",
		trace.WithAttributes(attribute.String("endpoint", tx.Endpoint())))
	defer span.End()

	start := time.Now()
	hash, err := g.submit(ctx, tx)
	g.metrics.ObserveSubmitDuration(time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "submit failed")
		return "", err
	}
	span.SetAttributes(attribute.String("tx_hash", hash))
	return hash, nil
}

func (g *HTTPGateway) submit(ctx context.Context, tx *abi.Transaction) (string, error) {
	nonce, err := g.AccountNonce(ctx, types.Address(tx.Sender))
	if err != nil {
		return "", fmt.Errorf("%w: fetching nonce: %w", types.ErrSubmissionRejected, err)
	}
	tx.Nonce = nonce

	if g.signer != nil {
		msg, err := json.Marshal(tx)
		if err != nil {
			return "", fmt.Errorf("%w: serializing transaction: %w", types.ErrSubmissionRejected, err)
		}
		sig, err := g.signer.Sign(msg)
		if err != nil {
			return "", fmt.Errorf("%w: signing: %w", types.ErrSubmissionRejected, err)
		}
		tx.Signature = hex.EncodeToString(sig)
	}

	var result struct {
		TxHash string `json:"txHash"`
	}
	if err := g.post(ctx, "/transaction/send", tx, &result); err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrSubmissionRejected, err)
	}

	g.logger.Debug("transaction submitted",
		logging.TxHash(result.TxHash),
		logging.Function(tx.Endpoint()),
	)
	return result.TxHash, nil
}

// Query executes a read-only contract call. Return data entries are
// base64-encoded by the gateway and unwrapped here into opaque fields.
func (g *HTTPGateway) Query(ctx context.Context, funcName string, args []string) ([]abi.Field, error) {
	ctx, span := g.tracer.Start(ctx, "gateway.Query",
		trace.WithAttributes(attribute.String("function", funcName)))
	defer span.End()

	start := time.Now()
	fields, err := g.query(ctx, funcName, args)
	g.metrics.ObserveQueryDuration(funcName, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "query failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("fields", len(fields)))
	return fields, nil
}

func (g *HTTPGateway) query(ctx context.Context, funcName string, args []string) ([]abi.Field, error) {
	req := queryRequest{
		SCAddress: g.contract.String(),
		FuncName:  funcName,
		Args:      args,
	}
	var result queryResult
	if err := g.post(ctx, "/vm-values/query", req, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrQueryFailed, err)
	}
	if result.Data.ReturnCode != "" && result.Data.ReturnCode != "ok" {
		return nil, fmt.Errorf("%w: %s: %s",
			types.ErrQueryFailed, result.Data.ReturnCode, result.Data.ReturnMessage)
	}

	fields := make([]abi.Field, 0, len(result.Data.ReturnData))
	for i, entry := range result.Data.ReturnData {
		raw, err := base64.StdEncoding.DecodeString(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: return data %d is not base64: %w",
				types.ErrQueryFailed, i, err)
		}
		fields = append(fields, abi.NewField(raw))
	}
	return fields, nil
}

// TransactionStatus reports the gateway's view of a submitted transaction.
func (g *HTTPGateway) TransactionStatus(ctx context.Context, txHash string) (TxStatus, error) {
	var result struct {
		Status string `json:"status"`
	}
	if err := g.get(ctx, "/transaction/"+txHash+"/status", &result); err != nil {
		return TxUnknown, err
	}
	switch s := TxStatus(result.Status); s {
	case TxPending, TxSuccess, TxFail, TxInvalid:
		return s, nil
	default:
		return TxUnknown, nil
	}
}

// AccountNonce returns the current nonce of an account.
func (g *HTTPGateway) AccountNonce(ctx context.Context, addr types.Address) (uint64, error) {
	var result struct {
		Nonce uint64 `json:"nonce"`
	}
	if err := g.get(ctx, "/address/"+addr.String()+"/nonce", &result); err != nil {
		return 0, err
	}
	return result.Nonce, nil
}

func (g *HTTPGateway) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return g.do(req, out)
}

func (g *HTTPGateway) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return g.do(req, out)
}

func (g *HTTPGateway) do(req *http.Request, out any) error {
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decoding response (http %d): %w", resp.StatusCode, err)
	}
	if env.Error != "" {
		return fmt.Errorf("gateway error (http %d): %s", resp.StatusCode, env.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned http %d", resp.StatusCode)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding response payload: %w", err)
		}
	}
	return nil
}

// Ensure HTTPGateway implements Provider.
var _ Provider = (*HTTPGateway)(nil)

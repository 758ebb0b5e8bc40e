package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/spellcaster/internal/common"
	"github.com/dmitrijs2005/spellcaster/internal/logging"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
)

type burnRequest struct {
	Owner  models.Identity `json:"owner"`
	Mint   models.Identity `json:"mint"`
	Amount string          `json:"amount"`
}

type transferRequest struct {
	From   models.Identity `json:"from"`
	To     models.Identity `json:"to"`
	Amount string          `json:"amount"`
}

// HTTPGateway talks to a ledger gateway over JSON/HTTP. It serves both
// TokenBurner (POST /burn) and Treasury (POST /transfer).
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	logger  logging.Logger
}

func NewHTTPGateway(baseURL string, timeout time.Duration, l logging.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  l.With("module", "ledger_gateway"),
	}
}

func (g *HTTPGateway) Burn(ctx context.Context, owner, mint models.Identity, amount uint64) error {
	req := burnRequest{Owner: owner, Mint: mint, Amount: strconv.FormatUint(amount, 10)}
	if err := g.post(ctx, "/burn", req); err != nil {
		g.logger.Error(ctx, "burn failed", "owner", owner, "amount", amount, "error", err)
		return fmt.Errorf("%w: %v", common.ErrBurnFailed, err)
	}
	return nil
}

func (g *HTTPGateway) Transfer(ctx context.Context, payer, treasury models.Identity, amount uint64) error {
	req := transferRequest{From: payer, To: treasury, Amount: strconv.FormatUint(amount, 10)}
	if err := g.post(ctx, "/transfer", req); err != nil {
		g.logger.Error(ctx, "transfer failed", "payer", payer, "amount", amount, "error", err)
		return fmt.Errorf("%w: %v", common.ErrTransferFailed, err)
	}
	return nil
}

func (g *HTTPGateway) post(ctx context.Context, path string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

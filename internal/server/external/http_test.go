package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/spellcaster/internal/common"
	"github.com/dmitrijs2005/spellcaster/internal/logging"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ident(b byte) models.Identity {
	var id models.Identity
	id[0] = b
	return id
}

func TestHTTPGateway_Burn(t *testing.T) {
	var got map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL+"/", time.Second, logging.Nop{})
	require.NoError(t, g.Burn(context.Background(), ident(1), ident(2), 18_446_744_073_709_551_615))

	assert.Equal(t, "/burn", path)
	assert.Equal(t, ident(1).String(), got["owner"])
	assert.Equal(t, ident(2).String(), got["mint"])
	assert.Equal(t, "18446744073709551615", got["amount"])
}

func TestHTTPGateway_Transfer(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transfer", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, time.Second, logging.Nop{})
	require.NoError(t, g.Transfer(context.Background(), ident(3), ident(4), 3_000_000_000))

	assert.Equal(t, ident(3).String(), got["from"])
	assert.Equal(t, ident(4).String(), got["to"])
	assert.Equal(t, "3000000000", got["amount"])
}

func TestHTTPGateway_Non2xxMapsToSentinels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient funds", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, time.Second, logging.Nop{})

	err := g.Burn(context.Background(), ident(1), ident(2), 1)
	assert.ErrorIs(t, err, common.ErrBurnFailed)
	assert.Contains(t, err.Error(), "insufficient funds")

	err = g.Transfer(context.Background(), ident(1), ident(2), 1)
	assert.ErrorIs(t, err, common.ErrTransferFailed)
	assert.Contains(t, err.Error(), "402")
}

func TestHTTPGateway_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	g := NewHTTPGateway(url, time.Second, logging.Nop{})
	assert.ErrorIs(t, g.Burn(context.Background(), ident(1), ident(2), 1), common.ErrBurnFailed)
}

func TestHTTPGateway_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewHTTPGateway(srv.URL, time.Second, logging.Nop{})
	assert.ErrorIs(t, g.Transfer(ctx, ident(1), ident(2), 1), common.ErrTransferFailed)
}

func TestDev_AcceptsEverything(t *testing.T) {
	var burner TokenBurner = NewDev(logging.Nop{})
	var treasury Treasury = NewDev(logging.Nop{})

	assert.NoError(t, burner.Burn(context.Background(), ident(1), ident(2), 5))
	assert.NoError(t, treasury.Transfer(context.Background(), ident(1), ident(2), 5))
}

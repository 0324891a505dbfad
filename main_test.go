package main

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bcdannyboy/lattice/models"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhhuango/json"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	for _, key := range []string{
		"LATTICE_SPOT", "LATTICE_STRIKE", "LATTICE_MATURITY", "LATTICE_RATE",
		"LATTICE_STEPS", "LATTICE_UP", "LATTICE_DOWN", "LATTICE_KIND",
	} {
		t.Setenv(key, "")
	}

	logger := log.New()
	logger.SetOutput(io.Discard)

	var out bytes.Buffer
	cmd := newRootCmd(logger)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), err
}

func parseOutput(t *testing.T, out string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	require.NoError(t, err, out)
	return v
}

func TestPriceCommand(t *testing.T) {
	t.Run("reference parameters by default", func(t *testing.T) {
		out, err := runCommand(t, "price")
		require.NoError(t, err)
		assert.InDelta(t, 18.436102004426747, parseOutput(t, out), 1e-9)
	})

	t.Run("put via flags", func(t *testing.T) {
		out, err := runCommand(t, "price", "--kind", "put")
		require.NoError(t, err)
		assert.InDelta(t, 13.730834702705558, parseOutput(t, out), 1e-9)
	})

	t.Run("up flag implies reciprocal down", func(t *testing.T) {
		out, err := runCommand(t, "price", "--spot", "100", "--strike", "100", "--rate", "0.05", "--steps", "1", "--up", "1.1", "--kind", "p")
		require.NoError(t, err)
		assert.InDelta(t, 2.2072555690850195, parseOutput(t, out), 1e-9)
	})

	t.Run("json output", func(t *testing.T) {
		out, err := runCommand(t, "price", "--json")
		require.NoError(t, err)

		var result priceOutput
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "binomial", result.Model)
		assert.Equal(t, 3, result.Params.Steps)
		assert.InDelta(t, 18.436102004426747, result.Price, 1e-9)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := runCommand(t, "price", "--kind", "straddle")
		assert.ErrorIs(t, err, models.ErrUnknownOptionKind)

		_, err = runCommand(t, "price", "--up", "1.2", "--down", "1.2")
		assert.ErrorIs(t, err, models.ErrInvalidFactors)

		_, err = runCommand(t, "price", "--rate", "1")
		assert.ErrorIs(t, err, models.ErrArbitrage)

		_, err = runCommand(t, "price", "--rate", "1", "--allow-arbitrage")
		assert.NoError(t, err)
	})
}

func TestPriceCommandConfigFile(t *testing.T) {
	path := t.TempDir() + "/params.yaml"
	require.NoError(t, os.WriteFile(path, []byte("pricing:\n  steps: 1\n  kind: put\n"), 0o644))

	out, err := runCommand(t, "price", "--config", path, "--spot", "100", "--strike", "100", "--rate", "0.05", "--up", "1.1")
	require.NoError(t, err)
	assert.InDelta(t, 2.2072555690850195, parseOutput(t, out), 1e-9)
}

func TestOnePeriodCommand(t *testing.T) {
	out, err := runCommand(t, "one-period")
	require.NoError(t, err)
	assert.InDelta(t, 13.047848773509642, parseOutput(t, out), 1e-9)

	lattice, err := runCommand(t, "price", "--steps", "1")
	require.NoError(t, err)
	assert.InDelta(t, parseOutput(t, out), parseOutput(t, lattice), 1e-9)
}

func TestConvergeCommand(t *testing.T) {
	out, err := runCommand(t, "converge", "--spot", "100", "--strike", "100", "--rate", "0.05", "--start", "50", "--points", "3", "--workers", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Black-Scholes: 10.450584")
	assert.Contains(t, out, "Empirical order")
	for _, steps := range []string{"50", "100", "200"} {
		assert.Contains(t, out, steps)
	}
}

func TestQuoteCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/markets/quotes":
			fmt.Fprint(w, `{"quotes":{"quote":{"symbol":"SPY","last":100}}}`)
		case "/markets/history":
			days := make([]string, 0, 80)
			price := 100.0
			for i := 0; i < 80; i++ {
				next := price * math.Exp(0.01)
				if i%2 == 1 {
					next = price * math.Exp(-0.01)
				}
				days = append(days, fmt.Sprintf(`{"date":"2024-01-%02d","open":%f,"high":%f,"low":%f,"close":%f,"volume":1}`,
					i%28+1, price, math.Max(price, next), math.Min(price, next), next))
				price = next
			}
			fmt.Fprintf(w, `{"history":{"day":[%s]}}`, strings.Join(days, ","))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	t.Setenv("TRADIER_KEY", "token")
	t.Setenv("TRADIER_BASE_URL", server.URL)

	expiration := time.Now().AddDate(0, 3, 0).Format("2006-01-02")
	out, err := runCommand(t, "quote", "--symbol", "SPY", "--strike", "100", "--expiration", expiration, "--method", "close", "--json")
	require.NoError(t, err)

	var result quoteOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	v := result.Valuation
	assert.Equal(t, "close", result.Method)
	assert.Equal(t, 80, result.Historical)
	assert.Equal(t, 100.0, v.Market.Spot)
	assert.InDelta(t, 0.16, v.Market.Volatility, 0.01)
	assert.InDelta(t, v.BlackScholesPrice, v.LatticePrice, 0.05)
	assert.Contains(t, result.ByPeriod, "3m")
}

func TestQuoteCommandRequiresToken(t *testing.T) {
	t.Setenv("TRADIER_KEY", "")
	_, err := runCommand(t, "quote", "--symbol", "SPY", "--strike", "100", "--expiration", "2030-01-01")
	assert.ErrorContains(t, err, "TRADIER_KEY")
}

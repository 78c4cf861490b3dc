package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"supplychain/internal/actions"
	"supplychain/internal/models"
	"supplychain/internal/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerHex = "0xFFcf8FDEE72ac11b5c542428B35EEF5769C409f0"

type stubContract struct {
	stage   models.Stage
	sends   []string
	sendErr error
}

func (c *stubContract) Has(method string) bool   { return method != "productCount" }
func (c *stubContract) Inputs(method string) int { return 3 }

func (c *stubContract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	id := args[0].(*big.Int)
	if id.Int64() != 7 {
		return []interface{}{"", "", new(big.Int), uint8(0), common.Address{}}, nil
	}
	return []interface{}{"Phone", "5G smartphone", big.NewInt(1e18), uint8(c.stage), common.HexToAddress(ownerHex)}, nil
}

func (c *stubContract) Send(ctx context.Context, method string, value *big.Int, args ...interface{}) (*types.Receipt, error) {
	c.sends = append(c.sends, method)
	if c.sendErr != nil {
		return nil, c.sendErr
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: common.HexToHash("0xbeef"), BlockNumber: big.NewInt(3)}, nil
}

func newTestServer(t *testing.T, bridge *actions.Bridge, staticDir string) *httptest.Server {
	t.Helper()
	s := NewServer(0, actions.NewRegistry(), bridge, staticDir)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func readyBridge(c *stubContract) *actions.Bridge {
	return &actions.Bridge{
		Session:  &wallet.Session{Account: common.HexToAddress(ownerHex)},
		Contract: c,
		Address:  common.HexToAddress("0xCfEB869F69431e42cdB54A4F4f105C19C080A601"),
	}
}

func postForm(t *testing.T, srv *httptest.Server, action string, form url.Values, jsonResponse bool) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/actions/"+action, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if jsonResponse {
		req.Header.Set("Accept", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestIndexShowsForms(t *testing.T) {
	srv := newTestServer(t, readyBridge(&stubContract{}), "")

	resp, err := srv.Client().Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	for _, action := range actions.NewRegistry().Names() {
		assert.Contains(t, body, `action="/actions/`+action+`"`)
	}
	assert.Contains(t, body, ownerHex)
	assert.Contains(t, body, "Raw Material Supply")
}

func TestIndexReportsSetupError(t *testing.T) {
	srv := newTestServer(t, &actions.Bridge{Err: wallet.ErrNoProvider}, "")

	resp, err := srv.Client().Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Contains(t, readBody(t, resp), "no wallet provider available")
}

func TestQueryProductHTML(t *testing.T) {
	srv := newTestServer(t, readyBridge(&stubContract{stage: models.StageRetail}), "")

	resp := postForm(t, srv, "queryProduct", url.Values{"productId": {"7"}}, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, `id="product"`)
	assert.Contains(t, body, "<dd>7</dd>")
	assert.Contains(t, body, "<dd>Phone</dd>")
	assert.Contains(t, body, "<dd>5G smartphone</dd>")
	assert.Contains(t, body, "<dd>Retail</dd>")
}

func TestActionJSON(t *testing.T) {
	c := &stubContract{}
	srv := newTestServer(t, readyBridge(c), "")

	resp := postForm(t, srv, "registerActor", url.Values{
		"role": {"distributor"}, "name": {"Truckers"}, "address": {ownerHex}, "location": {"Braga"},
	}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.ActionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "registerActor", result.Action)
	assert.Equal(t, "addDistributor", result.Tx.Method)
	assert.Equal(t, []string{"addDistributor"}, c.sends)
}

func TestActionErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		bridge *actions.Bridge
		action string
		form   url.Values
		status int
		kind   string
	}{
		{
			name:   "not loaded",
			bridge: &actions.Bridge{Err: errors.New("smart contract not deployed on this network")},
			action: "queryProduct",
			form:   url.Values{"productId": {"7"}},
			status: http.StatusServiceUnavailable,
			kind:   actions.KindEnvironment,
		},
		{
			name:   "validation",
			bridge: readyBridge(&stubContract{}),
			action: "registerActor",
			form:   url.Values{"role": {"supplier"}, "name": {"A"}, "address": {"0x12"}, "location": {"B"}},
			status: http.StatusBadRequest,
			kind:   actions.KindValidation,
		},
		{
			name:   "purchase outside retail",
			bridge: readyBridge(&stubContract{stage: models.StageManufacturing}),
			action: "purchaseProduct",
			form:   url.Values{"productId": {"7"}},
			status: http.StatusBadRequest,
			kind:   actions.KindValidation,
		},
		{
			name:   "not found",
			bridge: readyBridge(&stubContract{}),
			action: "queryProduct",
			form:   url.Values{"productId": {"8"}},
			status: http.StatusNotFound,
			kind:   actions.KindNotFound,
		},
		{
			name:   "remote",
			bridge: readyBridge(&stubContract{sendErr: errors.New("execution reverted: Caller is not the owner")}),
			action: "advanceStage",
			form:   url.Values{"productId": {"7"}},
			status: http.StatusBadGateway,
			kind:   actions.KindRemote,
		},
		{
			name:   "unknown action",
			bridge: readyBridge(&stubContract{}),
			action: "selfDestruct",
			status: http.StatusNotFound,
			kind:   actions.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.bridge, "")
			resp := postForm(t, srv, tt.action, tt.form, true)
			assert.Equal(t, tt.status, resp.StatusCode)

			var errResp models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
			assert.Equal(t, tt.kind, errResp.Kind)
			assert.Equal(t, tt.status, errResp.Code)
			assert.NotEmpty(t, errResp.Message)
		})
	}
}

func TestActionErrorHTMLDialog(t *testing.T) {
	c := &stubContract{sendErr: errors.New("VM Exception while processing transaction: revert Not a manufacturer")}
	srv := newTestServer(t, readyBridge(c), "")

	resp := postForm(t, srv, "advanceStage", url.Values{"productId": {"7"}}, false)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "<dialog open")
	assert.Contains(t, body, "updateStage failed: Not a manufacturer")
}

func TestActionRequiresPost(t *testing.T) {
	srv := newTestServer(t, readyBridge(&stubContract{}), "")

	resp, err := srv.Client().Get(srv.URL + "/actions/queryProduct")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestGetProductJSON(t *testing.T) {
	srv := newTestServer(t, readyBridge(&stubContract{stage: models.StageSold}), "")

	resp, err := srv.Client().Get(srv.URL + "/products/7")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, "7", p.ID)
	assert.Equal(t, "Sold", p.StageLabel)
	assert.Equal(t, "1", p.PriceEther)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, readyBridge(&stubContract{}), "")

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var health map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, true, health["ready"])
	assert.Equal(t, ownerHex, health["account"])
}

func TestServesDescriptorDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "contracts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contracts", "SupplyChain.json"), []byte(`{"abi":[]}`), 0o644))

	srv := newTestServer(t, readyBridge(&stubContract{}), dir)

	resp, err := srv.Client().Get(srv.URL + "/build/contracts/SupplyChain.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"abi":[]}`, readBody(t, resp))
}

func TestWantsJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.False(t, wantsJSON(r))

	r.Header.Set("Accept", "text/html, application/json;q=0.9")
	assert.True(t, wantsJSON(r))
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, readyBridge(&stubContract{}), "")

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

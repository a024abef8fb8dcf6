package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/KOSASIH/nexus-revoluter/internal/adapters/assets"
	"github.com/KOSASIH/nexus-revoluter/internal/adapters/events"
	"github.com/KOSASIH/nexus-revoluter/internal/adapters/memory"
	"github.com/KOSASIH/nexus-revoluter/internal/adapters/security"
	"github.com/KOSASIH/nexus-revoluter/internal/application"
	"github.com/KOSASIH/nexus-revoluter/internal/contracts"
	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

type testServer struct {
	*httptest.Server
	now time.Time
}

func (s *testServer) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{now: time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)}
	repos := memory.NewRepositories()
	bus := events.NewMemoryPublisher()
	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:    "nexus-ledger",
			CustodyAccount: "nexus-custody",
		},
		Locks:        repos.Locks,
		Stakes:       repos.Stakes,
		Proposals:    repos.Proposals,
		NFTs:         repos.NFTs,
		Roles:        repos.Roles,
		Settings:     repos.Settings,
		Outbox:       repos.Outbox,
		NFTCustody:   assets.NewCollection(repos.NFTs),
		Tokens:       assets.NewTokenLedger("nexus-custody"),
		Native:       assets.NewNativeVault(),
		DomainEvents: bus,
		Analytics:    bus,
		DLQ:          events.NewLoggingDLQPublisher(nil),
		Now:          func() time.Time { return ts.now },
	})
	ctx := context.Background()
	if err := repos.Roles.Grant(ctx, "acct-approver", domain.RoleApprover); err != nil {
		t.Fatalf("seed approver role: %v", err)
	}
	ts.Server = httptest.NewServer(NewRouter(NewHandler(svc, security.StaticVerifier{})))
	t.Cleanup(ts.Close)
	return ts
}

// doJSON issues a request with the static dev verifier, so the token is
// the acting account.
func doJSON(t *testing.T, ts *testServer, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func decodeData(t *testing.T, raw []byte, out any) {
	t.Helper()
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, raw)
	}
	if envelope.Status != "success" {
		t.Fatalf("expected success envelope, got %s", raw)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v (%s)", err, envelope.Data)
	}
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var envelope contracts.ErrorResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, raw)
	}
	return envelope.Error.Code
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, _ := doJSON(t, ts, http.MethodGet, path, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestCreateLockRequiresAuth(t *testing.T) {
	ts := newTestServer(t)
	resp, raw := doJSON(t, ts, http.MethodPost, "/v1/custody/locks", "", contracts.CreateLockRequest{})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if code := errorCode(t, raw); code != "UNAUTHORIZED" {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestCreateLockRejectsBadAmount(t *testing.T) {
	ts := newTestServer(t)
	resp, raw := doJSON(t, ts, http.MethodPost, "/v1/custody/locks", "acct-alice", contracts.CreateLockRequest{
		Beneficiary:       "acct-bob",
		Amount:            "not-a-number",
		ReleaseTime:       ts.now.Add(48 * time.Hour).Unix(),
		ApprovalsRequired: 1,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if code := errorCode(t, raw); code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestLockLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	resp, raw := doJSON(t, ts, http.MethodPost, "/v1/custody/locks", "acct-alice", contracts.CreateLockRequest{
		Beneficiary:       "acct-bob",
		Amount:            "5000000000000000000",
		ReleaseTime:       ts.now.Add(48 * time.Hour).Unix(),
		ApprovalsRequired: 1,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create lock: expected 201, got %d (%s)", resp.StatusCode, raw)
	}
	var created contracts.LockResponse
	decodeData(t, raw, &created)
	if created.LockID != 1 || created.Amount != "5000000000000000000" {
		t.Fatalf("unexpected lock response %+v", created)
	}

	lockPath := "/v1/custody/locks/" + strconv.FormatUint(created.LockID, 10)

	resp, raw = doJSON(t, ts, http.MethodPost, lockPath+"/approve", "acct-alice", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("approve without role: expected 403, got %d", resp.StatusCode)
	}
	if code := errorCode(t, raw); code != "FORBIDDEN" {
		t.Fatalf("unexpected error code %q", code)
	}

	resp, raw = doJSON(t, ts, http.MethodPost, lockPath+"/approve", "acct-approver", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d (%s)", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, ts, http.MethodPost, lockPath+"/release", "acct-bob", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("early release: expected 409, got %d", resp.StatusCode)
	}
	if code := errorCode(t, raw); code != "STATE_CONFLICT" {
		t.Fatalf("unexpected error code %q", code)
	}

	ts.advance(49 * time.Hour)
	resp, raw = doJSON(t, ts, http.MethodPost, lockPath+"/release", "acct-bob", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("release: expected 200, got %d (%s)", resp.StatusCode, raw)
	}
	var released contracts.LockResponse
	decodeData(t, raw, &released)
	if !released.Released {
		t.Fatalf("expected released lock, got %+v", released)
	}

	resp, raw = doJSON(t, ts, http.MethodGet, lockPath, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get lock: expected 200, got %d", resp.StatusCode)
	}
	var fetched contracts.LockResponse
	decodeData(t, raw, &fetched)
	if !fetched.Released || fetched.ApprovalsReceived != 1 {
		t.Fatalf("unexpected lock state %+v", fetched)
	}
}

func TestGetUnknownLockReturnsNotFound(t *testing.T) {
	ts := newTestServer(t)
	resp, raw := doJSON(t, ts, http.MethodGet, "/v1/custody/locks/99", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if code := errorCode(t, raw); code != "NOT_FOUND" {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestStakeOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	resp, raw := doJSON(t, ts, http.MethodPost, "/v1/staking/stakes", "acct-alice", contracts.StakeRequest{
		Amount:     "1000000000000000000",
		LockPeriod: int64(domain.MinStakePeriod / time.Second),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("stake: expected 201, got %d (%s)", resp.StatusCode, raw)
	}
	var staked contracts.StakeResponse
	decodeData(t, raw, &staked)
	if staked.Owner != "acct-alice" || !staked.Active {
		t.Fatalf("unexpected stake response %+v", staked)
	}

	resp, raw = doJSON(t, ts, http.MethodGet, "/v1/staking/rewards/acct-alice", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("rewards: expected 200, got %d", resp.StatusCode)
	}
	var reward contracts.RewardResponse
	decodeData(t, raw, &reward)
	if reward.Reward != "0" {
		t.Fatalf("expected zero reward at stake time, got %q", reward.Reward)
	}

	ts.advance(domain.MinStakePeriod)
	resp, raw = doJSON(t, ts, http.MethodPost, "/v1/staking/unstake", "acct-alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unstake: expected 200, got %d (%s)", resp.StatusCode, raw)
	}
	var unstaked contracts.UnstakeResponse
	decodeData(t, raw, &unstaked)
	if unstaked.Amount != "1000000000000000000" {
		t.Fatalf("unexpected principal %q", unstaked.Amount)
	}
}

func TestGetCollection(t *testing.T) {
	ts := newTestServer(t)
	resp, raw := doJSON(t, ts, http.MethodGet, "/v1/nft/collection", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var collection contracts.CollectionResponse
	decodeData(t, raw, &collection)
	if collection.Name != assets.CollectionName || collection.Symbol != assets.CollectionSymbol {
		t.Fatalf("unexpected collection identity %+v", collection)
	}
}

func TestRequestIDEchoedInResponse(t *testing.T) {
	ts := newTestServer(t)
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("X-Request-Id", "trace-123")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("X-Request-Id"); got != "trace-123" {
		t.Fatalf("expected request id echo, got %q", got)
	}
}

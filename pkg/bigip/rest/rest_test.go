package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/mux"

	"github.com/sdcio/bigip-driver/pkg/bigip"
	"github.com/sdcio/bigip-driver/pkg/config"
)

const (
	testToken   = "TOKEN123"
	pathUploads = "/mgmt/shared/file-transfer/uploads"
)

// fakeDevice records the requests of an iControl REST client.
type fakeDevice struct {
	bash     []string
	configs  []map[string]any
	uploads  map[string]string
	ranges   []string
	released []string
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"code": code, "message": msg, "errorStack": []string{}})
}

func (f *fakeDevice) router(t *testing.T) *mux.Router {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			next.ServeHTTP(w, req)
		})
	})
	r.HandleFunc("/"+pathLogin, func(w http.ResponseWriter, req *http.Request) {
		lr := new(loginRequest)
		if err := json.NewDecoder(req.Body).Decode(lr); err != nil {
			t.Errorf("bad login body: %v", err)
		}
		if lr.Password != "secret" {
			writeError(w, http.StatusUnauthorized, "Authentication failed.")
			return
		}
		io.WriteString(w, `{"token":{"token":"`+testToken+`"}}`)
	}).Methods(http.MethodPost)

	api := r.NewRoute().Subrouter()
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("X-F5-Auth-Token") != testToken {
				u, p, ok := req.BasicAuth()
				if !ok || u != "admin" || p != "secret" {
					writeError(w, http.StatusUnauthorized, "Authorization failed: no user authentication header or token detected.")
					return
				}
			}
			next.ServeHTTP(w, req)
		})
	})
	api.HandleFunc("/"+pathTokens+"/{token}", func(w http.ResponseWriter, req *http.Request) {
		f.released = append(f.released, mux.Vars(req)["token"])
		io.WriteString(w, `{}`)
	}).Methods(http.MethodDelete)
	api.HandleFunc("/mgmt/tm/cli/version", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, `{"kind":"tm:cli:version:versionstats","entries":{
			"https://localhost/mgmt/tm/cli/version/0":{"nestedStats":{"entries":{
				"active":{"description":"15.1.0"}}}}}}`)
	})
	api.HandleFunc("/"+pathBash, func(w http.ResponseWriter, req *http.Request) {
		cmd := map[string]string{}
		json.NewDecoder(req.Body).Decode(&cmd)
		args := cmd["utilCmdArgs"]
		f.bash = append(f.bash, args)
		switch {
		case strings.Contains(args, "locked"):
			cmd["commandResult"] = "rm: cannot remove: Operation not permitted\nrc=1\n"
		case strings.HasSuffix(args, `echo rc=$?"`):
			cmd["commandResult"] = "rc=0\n"
		default:
			cmd["commandResult"] = "  12:00:00 up 3 days\n"
		}
		json.NewEncoder(w).Encode(cmd)
	}).Methods(http.MethodPost)
	api.HandleFunc("/"+pathConfig, func(w http.ResponseWriter, req *http.Request) {
		m := map[string]any{}
		json.NewDecoder(req.Body).Decode(&m)
		f.configs = append(f.configs, m)
		if opts, ok := m["options"].([]any); ok && strings.Contains(opts[0].(map[string]any)["file"].(string), "broken") {
			writeError(w, http.StatusBadRequest, "01070734:3: Configuration error")
			return
		}
		io.WriteString(w, `{}`)
	}).Methods(http.MethodPost)
	api.HandleFunc(pathUploads+"/{name}", func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		f.uploads[mux.Vars(req)["name"]] = string(b)
		f.ranges = append(f.ranges, req.Header.Get("Content-Range"))
		io.WriteString(w, `{"remainingByteCount":0}`)
	}).Methods(http.MethodPost)
	api.HandleFunc("/mgmt/tm/net/interface", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, `{"items":[
			{"name":"1.1","enabled":true,"macAddress":"00:01:02:03:04:05","mediaActive":"10000SR-FD"},
			{"name":"1.2","disabled":true,"macAddress":"00:01:02:03:04:06","mediaActive":"none","description":"spare"},
			{"name":"mgmt","macAddress":"00:01:02:03:04:07","mediaActive":"1000T-FD"}]}`)
	})
	api.HandleFunc("/mgmt/tm/net/interface/stats", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, `{"entries":{
			"https://localhost/mgmt/tm/net/interface/1.1/stats":{"nestedStats":{"entries":{
				"tmName":{"description":"1.1"},"status":{"description":"up"},
				"counters.bitsIn":{"value":8000},"counters.bitsOut":{"value":16},
				"counters.pktsIn":{"value":12},"counters.errorsIn":{"value":1}}}},
			"https://localhost/mgmt/tm/net/interface/1.2/stats":{"nestedStats":{"entries":{
				"tmName":{"description":"1.2"},"counters.mcastOut":{"value":4294967296}}}}}}`)
	})
	api.HandleFunc("/mgmt/tm/auth/user", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, `{"items":[
			{"name":"admin","encryptedPassword":"$6$x","partitionAccess":[{"name":"all-partitions","role":"admin"}]},
			{"name":"guest","encryptedPassword":"$6$y","partitionAccess":[{"name":"Common","role":"guest"}]}]}`)
	})
	api.HandleFunc("/mgmt/tm/sys/ntp", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, `{"kind":"tm:sys:ntp:ntpstate","servers":["10.0.0.1","10.0.0.2"],"timezone":"UTC"}`)
	})
	api.HandleFunc("/mgmt/tm/sys/snmp", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, `{"kind":"tm:sys:snmp:snmpstate","sysContact":"noc@example.com","sysLocation":"dc1","allowedAddresses":["10.0.0.0/8"]}`)
	})
	return r
}

func newTestClient(t *testing.T, tokenAuth bool) (*Client, *fakeDevice) {
	t.Helper()
	f := &fakeDevice{uploads: map[string]string{}}
	srv := httptest.NewTLSServer(f.router(t))
	t.Cleanup(srv.Close)

	cfg := &config.DeviceConfig{
		Name:        "lb1",
		Address:     srv.Listener.Addr().String(),
		Credentials: &config.Creds{Username: "admin", Password: "secret"},
		TokenAuth:   pointer.ToBool(tokenAuth),
		Timeout:     5 * time.Second,
	}
	if err := cfg.ValidateSetDefaults(); err != nil {
		t.Fatal(err)
	}
	c, err := NewClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, f
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		token     string
		tokenAuth bool
		wantToken string
		wantOwn   bool
		wantErr   string
	}{
		{name: "token auth", password: "secret", tokenAuth: true, wantToken: testToken, wantOwn: true},
		{name: "configured token", token: testToken, tokenAuth: true, wantToken: testToken},
		{name: "basic auth", password: "secret", tokenAuth: false},
		{name: "bad password with token auth", password: "wrong", tokenAuth: true, wantErr: "Authentication failed."},
		{name: "bad password with basic auth", password: "wrong", tokenAuth: false, wantErr: "Authorization failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeDevice{uploads: map[string]string{}}
			srv := httptest.NewTLSServer(f.router(t))
			defer srv.Close()
			cfg := &config.DeviceConfig{
				Address:     srv.Listener.Addr().String(),
				Credentials: &config.Creds{Username: "admin", Password: tt.password, Token: tt.token},
				TokenAuth:   pointer.ToBool(tt.tokenAuth),
			}
			if err := cfg.ValidateSetDefaults(); err != nil {
				t.Fatal(err)
			}
			c, err := NewClient(context.Background(), cfg)
			if tt.wantErr != "" {
				var apiErr *bigip.APIError
				if !errors.As(err, &apiErr) || !strings.Contains(apiErr.Message, tt.wantErr) {
					t.Fatalf("NewClient() error = %v, want an APIError with %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			if c.session.Token != tt.wantToken || c.ownToken != tt.wantOwn {
				t.Errorf("token = %q (own %t), want %q (own %t)", c.session.Token, c.ownToken, tt.wantToken, tt.wantOwn)
			}
			if err := c.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
			var wantReleased []string
			if tt.wantOwn {
				wantReleased = []string{tt.wantToken}
			}
			if diff := cmp.Diff(wantReleased, f.released); diff != "" {
				t.Errorf("released tokens diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClient_Exec(t *testing.T) {
	c, f := newTestClient(t, true)
	out, err := c.Exec(context.Background(), `tmsh show running-config`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "  12:00:00 up 3 days\n" {
		t.Errorf("Exec() = %q", out)
	}
	if _, err := c.Exec(context.Background(), `echo "a\b"`); err != nil {
		t.Fatal(err)
	}
	want := []string{
		`-c "tmsh show running-config"`,
		`-c "echo \"a\\b\""`,
	}
	if diff := cmp.Diff(want, f.bash); diff != "" {
		t.Errorf("bash args diff (-want +got):\n%s", diff)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Exec(ctx, "uptime"); !errors.Is(err, context.Canceled) {
		t.Errorf("Exec() with a done context error = %v", err)
	}
	if len(f.bash) != 2 {
		t.Errorf("a done context still reached the device")
	}
}

func TestClient_ConfigCommands(t *testing.T) {
	c, f := newTestClient(t, true)
	ctx := context.Background()

	if err := c.LoadConfig(ctx, "/tmp/new.scf", true); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveConfig(ctx); err != nil {
		t.Fatal(err)
	}
	err := c.LoadConfig(ctx, "/tmp/broken.scf", false)
	var apiErr *bigip.APIError
	if !errors.As(err, &apiErr) || !strings.Contains(apiErr.Message, "01070734:3: Configuration error") {
		t.Errorf("LoadConfig(broken) error = %v", err)
	}

	want := []map[string]any{
		{"command": "load", "options": []any{map[string]any{"file": "/tmp/new.scf", "merge": true}}},
		{"command": "save"},
		{"command": "load", "options": []any{map[string]any{"file": "/tmp/broken.scf", "merge": false}}},
	}
	if diff := cmp.Diff(want, f.configs); diff != "" {
		t.Errorf("config commands diff (-want +got):\n%s", diff)
	}
}

func TestClient_RemoveFile(t *testing.T) {
	c, f := newTestClient(t, true)
	ctx := context.Background()

	if err := c.RemoveFile(ctx, "/tmp/my candidate;x.scf"); err != nil {
		t.Fatal(err)
	}
	err := c.RemoveFile(ctx, "/tmp/locked.scf")
	var cmdErr *bigip.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Status != 1 {
		t.Errorf("RemoveFile(locked) error = %v, want a failed rm", err)
	}

	want := []string{
		`-c "rm -f '/tmp/my candidate;x.scf'; echo rc=$?"`,
		`-c "rm -f '/tmp/locked.scf'; echo rc=$?"`,
	}
	if diff := cmp.Diff(want, f.bash); diff != "" {
		t.Errorf("bash args diff (-want +got):\n%s", diff)
	}
}

func TestClient_UploadFile(t *testing.T) {
	c, f := newTestClient(t, false)
	payload := "ltm pool p1 { }\n"
	err := c.UploadFile(context.Background(), "candidate.scf", strings.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatal(err)
	}
	if f.uploads["candidate.scf"] != payload {
		t.Errorf("uploaded %q", f.uploads["candidate.scf"])
	}
	if diff := cmp.Diff([]string{"0-15/16"}, f.ranges); diff != "" {
		t.Errorf("content range diff (-want +got):\n%s", diff)
	}

	if err := c.UploadFile(context.Background(), "empty.scf", strings.NewReader(""), 0); !errors.Is(err, errEmptyFile) {
		t.Errorf("UploadFile(empty) error = %v", err)
	}
}

func TestClient_Query(t *testing.T) {
	c, _ := newTestClient(t, true)
	ctx := context.Background()

	ifs, err := c.Query(ctx, bigip.ResourceInterfaces)
	if err != nil {
		t.Fatal(err)
	}
	gotEnabled := map[string]bool{}
	for _, o := range ifs {
		gotEnabled[o.Name] = o.Bool("enabled")
	}
	if diff := cmp.Diff(map[string]bool{"1.1": true, "1.2": false, "mgmt": true}, gotEnabled); diff != "" {
		t.Errorf("enabled diff (-want +got):\n%s", diff)
	}

	stats, err := c.Query(ctx, bigip.ResourceInterfaceStats)
	if err != nil {
		t.Fatal(err)
	}
	wantStats := []*bigip.Object{
		{Name: "1.1", Properties: map[string]any{
			"status":            "up",
			bigip.StatBytesIn:   int64(1000),
			bigip.StatBytesOut:  int64(2),
			bigip.StatPacketsIn: int64(12),
			bigip.StatErrorsIn:  int64(1),
		}},
		{Name: "1.2", Properties: map[string]any{
			bigip.StatMulticastsOut: int64(4294967296),
		}},
	}
	if diff := cmp.Diff(wantStats, stats); diff != "" {
		t.Errorf("stats diff (-want +got):\n%s", diff)
	}

	users, err := c.Query(ctx, bigip.ResourceUsers)
	if err != nil {
		t.Fatal(err)
	}
	roles := map[string]string{}
	for _, u := range users {
		roles[u.Name] = u.String("role")
	}
	if diff := cmp.Diff(map[string]string{"admin": "admin", "guest": "guest"}, roles); diff != "" {
		t.Errorf("roles diff (-want +got):\n%s", diff)
	}

	ntp, err := c.Query(ctx, bigip.ResourceNTP)
	if err != nil {
		t.Fatal(err)
	}
	if len(ntp) != 1 || !cmp.Equal(ntp[0].Strings("servers"), []string{"10.0.0.1", "10.0.0.2"}) {
		t.Errorf("ntp = %v", ntp)
	}

	snmp, err := c.Query(ctx, bigip.ResourceSNMP)
	if err != nil {
		t.Fatal(err)
	}
	if len(snmp) != 1 || snmp[0].String("sysContact") != "noc@example.com" || snmp[0].String("sysLocation") != "dc1" {
		t.Errorf("snmp = %v", snmp)
	}

	for _, r := range []bigip.Resource{bigip.ResourceFDB, bigip.ResourceRouteDomains, bigip.ResourceTemperature} {
		if _, err := c.Query(ctx, r); !errors.Is(err, bigip.ErrUnsupported) {
			t.Errorf("Query(%s) error = %v, want ErrUnsupported", r, err)
		}
	}
}

package afc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/model"
	"github.com/afc-network/afcctl/pkg/util"
)

const (
	fabricID = "8d3c1a52-5a0e-4d5c-9c43-3b1f4b1d9f10"
	vrfID    = "0b5e3f7a-1c2d-4e5f-8a9b-0c1d2e3f4a5b"
)

type call struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

// fakeAFC is a minimal controller: it issues one token, serves listings and
// records every request.
type fakeAFC struct {
	mu       sync.Mutex
	calls    []call
	listings map[string]string
	reject   map[string]int
}

func (f *fakeAFC) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, apiPrefix)
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: r.Method, Path: path, Auth: r.Header.Get("Authorization"), Body: string(b)})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status, ok := f.reject[r.Method+" "+path]; ok {
		w.WriteHeader(status)
		io.WriteString(w, `{"result": "Object is in use"}`)
		return
	}
	switch {
	case path == tokenPath && r.Method == http.MethodPost:
		if r.Header.Get("X-Auth-Username") != "admin" || r.Header.Get("X-Auth-Password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message": "Invalid credentials"}`)
			return
		}
		io.WriteString(w, `{"result": "issued-token"}`)
	case path == tokenPath:
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, `{"result": {}}`)
	case r.Method == http.MethodGet:
		body, ok := f.listings[path]
		if !ok {
			body = `{"result": []}`
		}
		io.WriteString(w, body)
	default:
		io.WriteString(w, `{"result": {}}`)
	}
}

func newFake(t *testing.T) (*fakeAFC, *Connector, string) {
	t.Helper()
	f := &fakeAFC{
		listings: map[string]string{
			"/fabrics": `{"result": [
				{"uuid": "` + fabricID + `", "name": "dc1"},
				{"uuid": "not-a-uuid", "name": "broken"}
			]}`,
			"/fabrics/" + fabricID + "/vrfs": `{"result": [
				{"uuid": "` + vrfID + `", "name": "blue"},
				{"uuid": "11111111-2222-3333-4444-555555555555", "name": "blue-2"}
			]}`,
		},
		reject: map[string]int{},
	}
	srv := httptest.NewTLSServer(f)
	t.Cleanup(srv.Close)
	return f, NewConnector(Config{HTTPClient: srv.Client()}), strings.TrimPrefix(srv.URL, "https://")
}

func TestLogin_Password(t *testing.T) {
	f, conn, addr := newFake(t)

	cl, err := conn.Login(context.Background(), dispatch.Credentials{Address: addr, Username: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if cl.Token() != "issued-token" {
		t.Errorf("Token() = %q", cl.Token())
	}
	if len(f.calls) != 1 || f.calls[0].Method != http.MethodPost {
		t.Errorf("calls = %+v, want one POST", f.calls)
	}
}

func TestLogin_BadPassword(t *testing.T) {
	_, conn, addr := newFake(t)

	_, err := conn.Login(context.Background(), dispatch.Credentials{Address: addr, Username: "admin", Password: "wrong"})
	var re *util.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("Login() error = %v, want RemoteError", err)
	}
	if re.Status != http.StatusUnauthorized || re.Message != "Invalid credentials" {
		t.Errorf("RemoteError = %+v", re)
	}
}

func TestConnect_FailureReturnsNilConn(t *testing.T) {
	_, conn, addr := newFake(t)

	c, err := conn.Connect(context.Background(), dispatch.Credentials{Address: addr, Username: "admin", Password: "wrong"})
	if err == nil {
		t.Fatal("Connect() error = nil, want handshake failure")
	}
	if c != nil {
		t.Errorf("Connect() conn = %#v, want nil interface", c)
	}
}

func TestLogin_TokenNeverSendsPassword(t *testing.T) {
	f, conn, addr := newFake(t)

	cl, err := conn.Login(context.Background(), dispatch.Credentials{
		Address: addr, Token: "tok", Username: "admin", Password: "secret",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if cl.Token() != "tok" {
		t.Errorf("Token() = %q, want tok", cl.Token())
	}
	for _, c := range f.calls {
		if c.Method == http.MethodPost || c.Auth != "tok" {
			t.Errorf("unexpected call %+v", c)
		}
	}
}

func TestLookup(t *testing.T) {
	_, conn, addr := newFake(t)
	cl, err := conn.Login(context.Background(), dispatch.Credentials{Address: addr, Token: "tok"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		name    string
		kind    model.Kind
		lookup  string
		scope   []string
		want    string
		wantErr bool
	}{
		{name: "fabric found", kind: model.KindFabric, lookup: "dc1", want: fabricID},
		{name: "fabric absent", kind: model.KindFabric, lookup: "dc9", want: ""},
		{name: "exact match only", kind: model.KindVRF, lookup: "blue", scope: []string{fabricID}, want: vrfID},
		{name: "no prefix match", kind: model.KindVRF, lookup: "blu", scope: []string{fabricID}, want: ""},
		{name: "malformed identifier", kind: model.KindFabric, lookup: "broken", wantErr: true},
		{name: "wrong scope depth", kind: model.KindVRF, lookup: "blue", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cl.Lookup(ctx, tt.kind, tt.lookup, tt.scope)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Lookup() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMutate(t *testing.T) {
	tests := []struct {
		name     string
		mutation dispatch.Mutation
		want     call
		message  string
	}{
		{
			name: "create",
			mutation: dispatch.Mutation{
				Verb: "create", Kind: model.KindVRF, Scope: []string{fabricID}, Name: "red",
				Payload: map[string]interface{}{"name": "red"},
			},
			want:    call{Method: http.MethodPost, Path: "/fabrics/" + fabricID + "/vrfs", Auth: "tok", Body: `{"name":"red"}`},
			message: "Successfully created VRF red",
		},
		{
			name: "delete",
			mutation: dispatch.Mutation{
				Verb: "delete", Kind: model.KindVRF, Scope: []string{fabricID}, ID: vrfID, Name: "blue",
			},
			want:    call{Method: http.MethodDelete, Path: "/fabrics/" + fabricID + "/vrfs/" + vrfID, Auth: "tok"},
			message: "Successfully deleted VRF blue",
		},
		{
			name: "singleton update",
			mutation: dispatch.Mutation{
				Verb: "update", Kind: model.KindBGP, Scope: []string{fabricID, vrfID}, Name: "blue",
				Payload: map[string]interface{}{"enable": false},
			},
			want:    call{Method: http.MethodPatch, Path: "/fabrics/" + fabricID + "/vrfs/" + vrfID + "/bgp", Auth: "tok", Body: `{"enable":false}`},
			message: "Successfully updated BGP blue",
		},
		{
			name: "action verb",
			mutation: dispatch.Mutation{
				Verb: "reapply", Kind: model.KindVRF, Scope: []string{fabricID}, ID: vrfID, Name: "blue",
			},
			want:    call{Method: http.MethodPost, Path: "/fabrics/" + fabricID + "/vrfs/" + vrfID + "/reapply", Auth: "tok"},
			message: "Successfully reapplied VRF blue",
		},
		{
			name: "action override",
			mutation: dispatch.Mutation{
				Verb: "discover", Kind: model.KindDiscovery, Name: "10.1.1.1",
				Payload: map[string]interface{}{"switches": []interface{}{"10.1.1.1"}},
			},
			want:    call{Method: http.MethodPost, Path: "/switches/discover", Auth: "tok", Body: `{"switches":["10.1.1.1"]}`},
			message: "Successfully discovered Discovery 10.1.1.1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, conn, addr := newFake(t)
			cl, err := conn.Login(context.Background(), dispatch.Credentials{Address: addr, Token: "tok"})
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			f.calls = nil

			o, err := cl.Mutate(context.Background(), tt.mutation)
			if err != nil {
				t.Fatalf("Mutate() error = %v", err)
			}
			if diff := cmp.Diff(dispatch.Succeeded(tt.message, true), o); diff != "" {
				t.Errorf("outcome mismatch (-want +got):\n%s", diff)
			}
			if len(f.calls) != 1 {
				t.Fatalf("calls = %d, want 1", len(f.calls))
			}
			got := f.calls[0]
			if tt.want.Body != "" {
				var w, g interface{}
				json.Unmarshal([]byte(tt.want.Body), &w)
				json.Unmarshal([]byte(got.Body), &g)
				if diff := cmp.Diff(w, g); diff != "" {
					t.Errorf("body mismatch (-want +got):\n%s", diff)
				}
			}
			got.Body, tt.want.Body = "", ""
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("request mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMutate_RemoteRejection(t *testing.T) {
	f, conn, addr := newFake(t)
	f.reject["DELETE /fabrics/"+fabricID+"/vrfs/"+vrfID] = http.StatusConflict
	cl, err := conn.Login(context.Background(), dispatch.Credentials{Address: addr, Token: "tok"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	_, err = cl.Mutate(context.Background(), dispatch.Mutation{
		Verb: "delete", Kind: model.KindVRF, Scope: []string{fabricID}, ID: vrfID, Name: "blue",
	})
	if err == nil || err.Error() != "Object is in use (HTTP 409)" {
		t.Errorf("Mutate() error = %v", err)
	}
	if !errors.Is(err, util.ErrRemote) {
		t.Errorf("error does not wrap ErrRemote")
	}
}

func TestDisconnect(t *testing.T) {
	f, conn, addr := newFake(t)
	cl, err := conn.Login(context.Background(), dispatch.Credentials{Address: addr, Username: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := cl.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	last := f.calls[len(f.calls)-1]
	if last.Method != http.MethodDelete || last.Path != tokenPath || last.Auth != "issued-token" {
		t.Errorf("last call = %+v, want token revocation", last)
	}
	if err := cl.Disconnect(context.Background()); err != nil {
		t.Errorf("second Disconnect() error = %v", err)
	}
	if n := len(f.calls); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestSessionFactory_Handshake(t *testing.T) {
	_, conn, addr := newFake(t)
	sf := &dispatch.SessionFactory{Connector: conn}

	_, err := sf.Open(context.Background(), dispatch.Credentials{Address: addr, Username: "admin", Password: "bad"})
	if !errors.Is(err, util.ErrNotConnected) {
		t.Errorf("Open() error = %v, want ErrNotConnected", err)
	}
}

func TestPastTense(t *testing.T) {
	tests := map[string]string{
		"create":    "created",
		"reapply":   "reapplied",
		"reboot":    "rebooted",
		"discover":  "discovered",
		"configure": "configured",
		"save":      "saved",
	}
	for in, want := range tests {
		if got := pastTense(in); got != want {
			t.Errorf("pastTense(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   string
	}{
		{400, `{"result": "VLAN in use"}`, "VLAN in use"},
		{400, `{"message": "bad field"}`, "bad field"},
		{500, `{"error": "boom"}`, "boom"},
		{502, `<html>gateway</html>`, "Bad Gateway"},
		{599, ``, "unexpected status 599"},
	}
	for _, tt := range tests {
		if got := errorMessage(tt.status, []byte(tt.body)); got != tt.want {
			t.Errorf("errorMessage(%d, %q) = %q, want %q", tt.status, tt.body, got, tt.want)
		}
	}
}

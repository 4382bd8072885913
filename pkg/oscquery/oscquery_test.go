package oscquery

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/grandcat/zeroconf"
)

func TestFromEntryFiltersInstances(t *testing.T) {
	ours := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "VRChat-Client-A1B2C3"},
		Port:          9001,
		AddrIPv4:      []net.IP{net.IPv4(127, 0, 0, 1)},
	}
	svc, ok := fromEntry(ours)
	if !ok {
		t.Fatal("rejected the consumer's own instance")
	}
	if svc.Host != "127.0.0.1" || svc.Port != 9001 {
		t.Fatalf("service = %+v", svc)
	}
	if svc.URL() != "http://127.0.0.1:9001" {
		t.Fatalf("URL = %s", svc.URL())
	}

	other := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "SomeSynth"},
		Port:          7001,
		AddrIPv4:      []net.IP{net.IPv4(127, 0, 0, 1)},
	}
	if _, ok := fromEntry(other); ok {
		t.Fatal("accepted an unrelated service")
	}
	if _, ok := fromEntry(nil); ok {
		t.Fatal("accepted nil entry")
	}
}

func TestFromEntryFallsBackToHostname(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "VRChat-Client-X"},
		HostName:      "desktop.local.",
		Port:          9001,
	}
	svc, ok := fromEntry(entry)
	if !ok {
		t.Fatal("rejected entry with hostname only")
	}
	if svc.Host != "desktop.local" {
		t.Fatalf("host = %s, want desktop.local", svc.Host)
	}
}

// serviceFor points a Service at a test HTTP server.
func serviceFor(t *testing.T, ts *httptest.Server) Service {
	t.Helper()
	hostport := strings.TrimPrefix(ts.URL, "http://")
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}
	return Service{Instance: "VRChat-Client-Test", Host: host, Port: port}
}

func TestFetchParsesManifest(t *testing.T) {
	const tree = `{
  "CONTENTS": {
    "change": {"TYPE": "s"},
    "parameters": {
      "CONTENTS": {
        "VelocityY": {"TYPE": "f"},
        "Seated":    {"TYPE": "T"}
      }
    }
  }
}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/avatar" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(tree))
	}))
	defer ts.Close()

	m, err := Fetch(context.Background(), serviceFor(t, ts))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if m.Len() != 2 || !m.Has("VelocityY") || !m.Has("Seated") {
		t.Fatalf("manifest = %v", m.Names())
	}
}

func TestFetchRejectsBadResponses(t *testing.T) {
	status := http.StatusInternalServerError
	body := ""
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	defer ts.Close()
	svc := serviceFor(t, ts)

	if _, err := Fetch(context.Background(), svc); err == nil {
		t.Fatal("accepted HTTP 500")
	}

	status, body = http.StatusOK, "not json"
	if _, err := Fetch(context.Background(), svc); err == nil {
		t.Fatal("accepted malformed manifest")
	}
}

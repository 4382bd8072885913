package web

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/avosc/avosc/pkg/avatar"
)

func getJSON(t *testing.T, s *Server, method, path string, out interface{}) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("%s %s: bad json %q: %v", method, path, body, err)
		}
	}
	return resp.StatusCode
}

func TestStatusEndpoint(t *testing.T) {
	s := NewServer(":0", Deps{
		Status: func() Status {
			return Status{Source: "alvr", Online: true, Ticks: 42, Calibration: "calibrated"}
		},
	})

	var got Status
	if code := getJSON(t, s, "GET", "/api/status", &got); code != 200 {
		t.Fatalf("status code = %d", code)
	}
	if got.Source != "alvr" || !got.Online || got.Ticks != 42 {
		t.Fatalf("status = %+v", got)
	}
}

func TestParamsEndpoint(t *testing.T) {
	store := avatar.NewStore()
	store.Set(avatar.Param("JawOpen"), avatar.Float(0.5))
	fb := avatar.NewFeedback()
	fb.Update("VRCEmote", avatar.Int(121))

	s := NewServer(":0", Deps{Store: store, Feedback: fb})

	var got ParamsResponse
	if code := getJSON(t, s, "GET", "/api/params", &got); code != 200 {
		t.Fatalf("status code = %d", code)
	}
	if len(got.Outbound) != 1 || got.Outbound[0].Value != "0.500" {
		t.Fatalf("outbound = %+v", got.Outbound)
	}
	if len(got.Feedback) != 1 || got.Feedback[0].Name != "VRCEmote" || got.Feedback[0].Value != "121" {
		t.Fatalf("feedback = %+v", got.Feedback)
	}
}

func TestRecalibrateEndpoint(t *testing.T) {
	called := false
	s := NewServer(":0", Deps{Recalibrate: func() { called = true }})

	if code := getJSON(t, s, "POST", "/api/recalibrate", nil); code != 200 {
		t.Fatalf("status code = %d", code)
	}
	if !called {
		t.Fatal("recalibrate hook never ran")
	}

	bare := NewServer(":0", Deps{})
	if code := getJSON(t, bare, "POST", "/api/recalibrate", nil); code != 503 {
		t.Fatalf("unwired recalibrate code = %d", code)
	}
}

package web

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gbplay/interfaces"
)

type fakeStatus struct {
	shots map[string][]byte
}

func (f *fakeStatus) NotifyViewTo(vn interfaces.ViewNotifier) {
	vn.NotifyView("status", map[string]string{"hello": "world"})
}

func (f *fakeStatus) LatestScreenshot(definition string) ([]byte, bool) {
	data, ok := f.shots[definition]
	return data, ok
}

func TestScreenshotEndpoint(t *testing.T) {
	status := &fakeStatus{shots: map[string][]byte{"red": []byte("GIF89a...")}}
	srv := httptest.NewServer(NewServer("", status).mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/screenshot/red.gif")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/gif" {
		t.Fatalf("content type %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "GIF89a..." {
		t.Fatalf("body %q", body)
	}

	for _, path := range []string{
		"/screenshot/blue.gif",
		"/screenshot/",
		"/screenshot/a/b.gif",
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: status %d, want 404", path, resp.StatusCode)
		}
	}
}

// A disconnected socket must release its writer goroutine and drop out
// of the broadcast list; pushes afterwards must not block.
func TestSocketTeardown(t *testing.T) {
	s := NewServer("", &fakeStatus{})

	server, client := net.Pipe()
	k := NewSocket(s, nil, server)
	s.appendSocket(k)

	_ = client.Close()

	select {
	case <-k.done:
	case <-time.After(time.Second):
		t.Fatal("socket not torn down after peer close")
	}

	deadline := time.Now().Add(time.Second)
	for {
		s.socketsRw.RLock()
		n := len(s.sockets)
		s.socketsRw.RUnlock()
		if n == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("socket still registered after teardown")
		}
		time.Sleep(time.Millisecond)
	}

	// well past the buffer size; blocks forever if the writer leaked:
	for i := 0; i < 100; i++ {
		k.NotifyView("status", nil)
	}
}

func TestIndex(t *testing.T) {
	srv := httptest.NewServer(NewServer("", &fakeStatus{}).mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "gbplay status") {
		t.Fatal("index does not look like the panel")
	}

	resp, err = http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown path: status %d, want 404", resp.StatusCode)
	}
}

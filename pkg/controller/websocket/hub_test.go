package websocket_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/m-mizutani/gt"

	wsctrl "github.com/enishi-chat/enishi/pkg/controller/websocket"
	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
)

func dialHub(t *testing.T, srv *httptest.Server, id string) *gorilla.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?id=" + id
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *gorilla.Conn) *model.Envelope {
	t.Helper()

	gt.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	gt.NoError(t, err).Required()

	var env model.Envelope
	gt.NoError(t, json.Unmarshal(data, &env))
	return &env
}

func TestHubRejectsInvalidIdentity(t *testing.T) {
	hub := wsctrl.NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws")
	gt.NoError(t, err)
	defer resp.Body.Close()
	gt.Number(t, resp.StatusCode).Equal(http.StatusBadRequest)

	resp, err = http.Get(srv.URL + "/ws?id=" + types.CompanionPrefix + "x")
	gt.NoError(t, err)
	defer resp.Body.Close()
	gt.Number(t, resp.StatusCode).Equal(http.StatusForbidden)
}

func TestHubOnlineTracking(t *testing.T) {
	hub := wsctrl.NewHub()
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeHTTP)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conn := dialHub(t, srv, "u1")

	// Connecting announces the new online count
	env := readEnvelope(t, conn)
	gt.Value(t, env.Type).Equal(types.EventOnlineCount)

	gt.Bool(t, hub.IsOnline("u1")).True()
	gt.Bool(t, hub.IsOnline("u2")).False()
	gt.Number(t, hub.OnlineCount()).Equal(1)

	// Events sent through the channel reach the client
	gt.NoError(t, hub.Send(context.Background(), "u1", model.NewWaitingInQueueEvent("chess")))
	env = readEnvelope(t, conn)
	gt.Value(t, env.Type).Equal(types.EventWaitingInQueue)

	// Sending to an unknown identity is a silent no-op
	gt.NoError(t, hub.Send(context.Background(), "nobody", model.NewWaitingInQueueEvent("x")))

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.IsOnline("u1") {
		if time.Now().After(deadline) {
			t.Fatal("identity still online after close")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubReconnectReplacesConnection(t *testing.T) {
	hub := wsctrl.NewHub()
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeHTTP)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	old := dialHub(t, srv, "u1")
	readEnvelope(t, old)

	// A second connection for the same identity supersedes the first
	fresh := dialHub(t, srv, "u1")
	readEnvelope(t, fresh)

	gt.Number(t, hub.OnlineCount()).Equal(1)

	// The identity stays online after the old connection dies
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		gt.Bool(t, hub.IsOnline("u1")).True()
		time.Sleep(20 * time.Millisecond)
	}

	gt.NoError(t, hub.Send(context.Background(), "u1", model.NewWaitingInQueueEvent("go")))
	env := readEnvelope(t, fresh)
	gt.Value(t, env.Type).Equal(types.EventWaitingInQueue)
}

package engine_test

import (
	"testing"

	"github.com/Vinoth-46/isai-backend/internal/infra/engine"
)

// Port 16600 is not a real MPD; every command must surface the
// connection failure.

func TestNewClient(t *testing.T) {
	client := engine.NewClient("localhost", 16600, "")

	if client == nil {
		t.Error("NewClient should return a non-nil client")
	}
}

func TestClientConnectFailure(t *testing.T) {
	client := engine.NewClient("localhost", 16600, "")

	err := client.Connect()
	if err == nil {
		t.Error("Connect should fail for non-existent server")
		client.Close()
	}
}

func TestClientPingWithoutServer(t *testing.T) {
	client := engine.NewClient("localhost", 16600, "")

	if err := client.Ping(); err == nil {
		t.Error("Ping should fail when no server is reachable")
	}
}

func TestClientStatusWithoutServer(t *testing.T) {
	client := engine.NewClient("localhost", 16600, "")

	if _, err := client.Status(); err == nil {
		t.Error("Status should fail when no server is reachable")
	}
}

func TestClientPlayWithoutServer(t *testing.T) {
	client := engine.NewClient("localhost", 16600, "")

	if err := client.Play(0); err == nil {
		t.Error("Play should fail when no server is reachable")
	}
}

func TestClientPauseWithoutServer(t *testing.T) {
	client := engine.NewClient("localhost", 16600, "")

	if err := client.Pause(true); err == nil {
		t.Error("Pause should fail when no server is reachable")
	}
}

func TestClientStopWithoutServer(t *testing.T) {
	client := engine.NewClient("localhost", 16600, "")

	if err := client.Stop(); err == nil {
		t.Error("Stop should fail when no server is reachable")
	}
}

func TestClientSeekWithoutServer(t *testing.T) {
	client := engine.NewClient("localhost", 16600, "")

	if err := client.Seek(30); err == nil {
		t.Error("Seek should fail when no server is reachable")
	}
}

func TestClientSetRepeatWithoutServer(t *testing.T) {
	client := engine.NewClient("localhost", 16600, "")

	if err := client.SetRepeat(true); err == nil {
		t.Error("SetRepeat should fail when no server is reachable")
	}
}

func TestClientClearWithoutServer(t *testing.T) {
	client := engine.NewClient("localhost", 16600, "")

	if err := client.Clear(); err == nil {
		t.Error("Clear should fail when no server is reachable")
	}
}

func TestClientAddWithoutServer(t *testing.T) {
	client := engine.NewClient("localhost", 16600, "")

	if err := client.Add("test.flac"); err == nil {
		t.Error("Add should fail when no server is reachable")
	}
}

func TestClientListAllInfoWithoutServer(t *testing.T) {
	client := engine.NewClient("localhost", 16600, "")

	if _, err := client.ListAllInfo(""); err == nil {
		t.Error("ListAllInfo should fail when no server is reachable")
	}
}

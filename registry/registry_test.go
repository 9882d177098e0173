package registry

import "testing"

func TestJoinOnce(t *testing.T) {
	r := New(Config{})
	if !r.Record(3, 100) {
		t.Fatal("first contact should join")
	}
	if r.Record(3, 200) {
		t.Fatal("second contact should not re-join")
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}
}

func TestOfflineAfterTimeout(t *testing.T) {
	r := New(Config{DeviceTimeoutMs: 1000})
	r.Record(1, 0)

	if ch := r.Poll(1000); len(ch) != 0 {
		t.Fatalf("at exactly timeout: changes = %v, want none", ch)
	}
	ch := r.Poll(1001)
	if len(ch) != 1 || ch[0] != (StatusChange{ID: 1, Status: Offline}) {
		t.Fatalf("past timeout: changes = %v, want offline for 1", ch)
	}
	// No repeated transition on later polls.
	if ch := r.Poll(5000); len(ch) != 0 {
		t.Fatalf("repeat poll: changes = %v, want none", ch)
	}
}

func TestContactBringsBackOnline(t *testing.T) {
	r := New(Config{DeviceTimeoutMs: 1000})
	r.Record(1, 0)
	r.Poll(2000)

	r.Record(1, 2500)
	ch := r.Poll(2600)
	if len(ch) != 1 || ch[0] != (StatusChange{ID: 1, Status: Online}) {
		t.Fatalf("changes = %v, want online for 1", ch)
	}
}

func TestAnyMessageResetsLastSeen(t *testing.T) {
	r := New(Config{DeviceTimeoutMs: 1000})
	r.HandleFall(2, 0)
	r.Record(2, 900) // e.g. a heartbeat
	if ch := r.Poll(1800); len(ch) != 0 {
		t.Fatalf("changes = %v, want none; contact at 900 should hold", ch)
	}
}

func TestPendingAlertLifecycle(t *testing.T) {
	r := New(Config{})
	r.HandleFall(7, 10)
	if r.PendingAlerts() != 1 {
		t.Fatalf("pending = %d, want 1", r.PendingAlerts())
	}
	if !r.Acknowledge(7) {
		t.Fatal("ack of pending alert should succeed")
	}
	if r.Acknowledge(7) {
		t.Fatal("second ack should report nothing pending")
	}
	if r.Acknowledge(99) {
		t.Fatal("ack of unknown device should fail")
	}
	if r.PendingAlerts() != 0 {
		t.Fatalf("pending = %d, want 0", r.PendingAlerts())
	}
}

func TestDevicesCreationOrder(t *testing.T) {
	r := New(Config{})
	r.Record(5, 0)
	r.Record(2, 1)
	r.Record(9, 2)
	got := r.Devices()
	want := []int{5, 2, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("devices = %v, want %v", got, want)
		}
	}
}

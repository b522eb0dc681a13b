package network

import (
	"errors"
	"testing"
	"time"
)

func TestRotatorRoundRobin(t *testing.T) {
	r, err := NewRotator([]string{"http://a:8080", " ", "http://b:8080"}, time.Minute)
	if err != nil {
		t.Fatalf("NewRotator() error = %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	var hosts []string
	for i := 0; i < 3; i++ {
		proxy, err := r.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		hosts = append(hosts, proxy.Host)
	}
	want := []string{"a:8080", "b:8080", "a:8080"}
	for i := range want {
		if hosts[i] != want[i] {
			t.Fatalf("Next() sequence = %v, want %v", hosts, want)
		}
	}
}

func TestRotatorBansRefusedProxy(t *testing.T) {
	r, err := NewRotator([]string{"http://a:8080"}, time.Minute)
	if err != nil {
		t.Fatalf("NewRotator() error = %v", err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	proxy, _ := r.Next()
	r.Report(proxy, 200)
	if _, err := r.Next(); err != nil {
		t.Fatalf("proxy banned after 200: %v", err)
	}

	r.Report(proxy, 429)
	if _, err := r.Next(); !errors.Is(err, ErrNoProxies) {
		t.Fatalf("Next() error = %v, want ErrNoProxies", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := r.Next(); err != nil {
		t.Fatalf("proxy still banned after ban window: %v", err)
	}
}

func TestNewRotatorRejectsBareHost(t *testing.T) {
	if _, err := NewRotator([]string{"localhost"}, time.Minute); err == nil {
		t.Fatalf("NewRotator() error = nil, want error")
	}
}

func TestRotatorEmpty(t *testing.T) {
	r, err := NewRotator(nil, time.Minute)
	if err != nil {
		t.Fatalf("NewRotator() error = %v", err)
	}
	if _, err := r.Next(); !errors.Is(err, ErrNoProxies) {
		t.Fatalf("Next() error = %v, want ErrNoProxies", err)
	}
}
